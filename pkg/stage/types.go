// Package stage defines the typed stage-definition model, the generic
// document value substrate, and the diagnostic records produced when a
// raw document does not conform to the grammar.
//
// A stage definition describes a single workflow invocation: which
// workflow to run, its engine configuration, the parameters bound to it,
// and the expected outputs. Instances are immutable values once
// validation succeeds and carry no shared state.
package stage

import "math"

// ClassKey is the reserved discriminator key that tags a parameter
// object as a typed File/Directory resource rather than a nested
// parameter map. User parameter names must not begin with it.
const ClassKey = "c-l-a-s-s"

// Resource classes.
const (
	ClassFile      = "File"
	ClassDirectory = "Directory"
)

// Workflow engine types.
const (
	WorkflowTypeNextflow = "nextflow"
	WorkflowTypeCWL      = "cwl"
)

// Engine version defaults applied by the normalizer.
const (
	DefaultNextflowVersion = "19.04.1"
	DefaultCWLVersion      = "3.1.20210628163208"
)

// StageDefinition is the validated, normalized form of a stage
// definition document.
type StageDefinition struct {
	TRSEndpoint    string          // optional; normalized with a trailing slash
	Version        any             // optional; string or int64
	WorkflowID     any             // required; URI string or int64
	ParanoidMode   bool            // default false
	WorkflowType   string          // "nextflow", "cwl", or "" when unset
	WorkflowConfig *WorkflowConfig // optional
	Params         ParamMap        // default empty
	Outputs        map[string]OutputSpec
	OutputNames    []string // document order of Outputs
}

// WorkflowConfig carries engine tweaks. The engine sub-objects are
// independent: presence of one does not imply WorkflowType.
type WorkflowConfig struct {
	Secure             *bool // optional, no default
	WritableContainers bool  // default false
	Nextflow           *NextflowConfig
	CWL                *CWLConfig
}

// NextflowConfig configures the Nextflow engine.
type NextflowConfig struct {
	Version string // default "19.04.1"
	Profile string
}

// CWLConfig configures the CWL engine.
type CWLConfig struct {
	Version string // default "3.1.20210628163208"
}

// ParamMap maps parameter names to parameter values.
type ParamMap map[string]*Param

// ParamKind discriminates the Param alternatives.
type ParamKind int

const (
	ScalarParam ParamKind = iota
	ScalarListParam
	ResourceParam
	MapParam
)

// Param is one node of the recursive parameter tree. Exactly one
// alternative applies, selected by Kind; the other payload fields are
// zero.
type Param struct {
	Kind     ParamKind
	Scalar   any   // ScalarParam: bool, int64, float64 or string
	List     []any // ScalarListParam: scalar elements
	Resource *Resource
	Children ParamMap // MapParam
}

// Resource is a File- or Directory-typed parameter referencing external
// data.
type Resource struct {
	Class           string
	URLs            []string // nil when url was absent; a single URL is a 1-element slice
	SecurityContext string   // opaque credential lookup key
	GlobExplode     string
	AutoFill        bool
	AutoPrefix      bool
}

// HasURL reports whether the url field was present in the document.
func (r *Resource) HasURL() bool {
	return r.URLs != nil
}

// OutputSpec describes one expected output artifact.
type OutputSpec struct {
	Class         string // File or Directory
	Cardinality   Cardinality
	PreferredName string
	Glob          string
}

// CardinalityKind discriminates the cardinality shapes.
type CardinalityKind int

const (
	CardinalityUnset CardinalityKind = iota
	CardinalitySymbol
	CardinalityCount
	CardinalityRange
)

// Unbounded is the upper bound for the "*" and "+" symbolic forms.
const Unbounded = int64(math.MaxInt64)

// Cardinality is the expected count of an output artifact, in one of
// three shapes: a symbolic code ("1", "?", "*", "+"), an exact count, or
// a [min, max] range.
type Cardinality struct {
	Kind   CardinalityKind
	Symbol string // CardinalitySymbol
	Count  int64  // CardinalityCount
	Min    int64  // CardinalityRange
	Max    int64
}

// DefaultCardinality is the cardinality applied when the field is
// omitted: exactly one.
func DefaultCardinality() Cardinality {
	return Cardinality{Kind: CardinalitySymbol, Symbol: "1"}
}

// Bounds resolves the cardinality to a (min, max) pair. An exact count
// below one resolves to (0, 1), matching the optional-output reading of
// a zero count.
func (c Cardinality) Bounds() (min, max int64) {
	switch c.Kind {
	case CardinalitySymbol:
		switch c.Symbol {
		case "?":
			return 0, 1
		case "*":
			return 0, Unbounded
		case "+":
			return 1, Unbounded
		default: // "1"
			return 1, 1
		}
	case CardinalityCount:
		if c.Count < 1 {
			return 0, 1
		}
		return c.Count, c.Count
	case CardinalityRange:
		return c.Min, c.Max
	default:
		return 1, 1
	}
}

// Document re-emits the normalized stage definition as a generic
// document tree, suitable for YAML or JSON encoding. Defaults filled by
// the normalizer appear explicitly.
func (d *StageDefinition) Document() map[string]any {
	doc := make(map[string]any)
	if d.TRSEndpoint != "" {
		doc["trs_endpoint"] = d.TRSEndpoint
	}
	if d.Version != nil {
		doc["version"] = d.Version
	}
	doc["workflow_id"] = d.WorkflowID
	doc["paranoid_mode"] = d.ParanoidMode
	if d.WorkflowType != "" {
		doc["workflow_type"] = d.WorkflowType
	}
	if d.WorkflowConfig != nil {
		doc["workflow_config"] = d.WorkflowConfig.document()
	}
	params := make(map[string]any, len(d.Params))
	for name, p := range d.Params {
		params[name] = p.document()
	}
	doc["params"] = params
	outputs := make(map[string]any, len(d.Outputs))
	for name, o := range d.Outputs {
		outputs[name] = o.document()
	}
	doc["outputs"] = outputs
	return doc
}

func (c *WorkflowConfig) document() map[string]any {
	doc := make(map[string]any)
	if c.Secure != nil {
		doc["secure"] = *c.Secure
	}
	doc["writable_containers"] = c.WritableContainers
	if c.Nextflow != nil {
		nxf := map[string]any{"version": c.Nextflow.Version}
		if c.Nextflow.Profile != "" {
			nxf["profile"] = c.Nextflow.Profile
		}
		doc["nextflow"] = nxf
	}
	if c.CWL != nil {
		doc["cwl"] = map[string]any{"version": c.CWL.Version}
	}
	return doc
}

func (p *Param) document() any {
	switch p.Kind {
	case ScalarParam:
		return p.Scalar
	case ScalarListParam:
		return p.List
	case ResourceParam:
		return p.Resource.document()
	case MapParam:
		children := make(map[string]any, len(p.Children))
		for name, child := range p.Children {
			children[name] = child.document()
		}
		return children
	}
	return nil
}

func (r *Resource) document() map[string]any {
	doc := map[string]any{ClassKey: r.Class}
	if r.URLs != nil {
		if len(r.URLs) == 1 {
			doc["url"] = r.URLs[0]
		} else {
			urls := make([]any, len(r.URLs))
			for i, u := range r.URLs {
				urls[i] = u
			}
			doc["url"] = urls
		}
	}
	if r.SecurityContext != "" {
		doc["security-context"] = r.SecurityContext
	}
	if r.GlobExplode != "" {
		doc["globExplode"] = r.GlobExplode
	}
	// A Directory with a url may not carry autoFill/autoPrefix keys, so the
	// re-emitted document must stay valid under the same grammar.
	if !(r.Class == ClassDirectory && r.HasURL()) {
		doc["autoFill"] = r.AutoFill
		doc["autoPrefix"] = r.AutoPrefix
	}
	return doc
}

func (o OutputSpec) document() map[string]any {
	doc := map[string]any{ClassKey: o.Class}
	switch o.Cardinality.Kind {
	case CardinalitySymbol:
		doc["cardinality"] = o.Cardinality.Symbol
	case CardinalityCount:
		doc["cardinality"] = o.Cardinality.Count
	case CardinalityRange:
		doc["cardinality"] = []any{o.Cardinality.Min, o.Cardinality.Max}
	}
	if o.PreferredName != "" {
		doc["preferredName"] = o.PreferredName
	}
	if o.Glob != "" {
		doc["glob"] = o.Glob
	}
	return doc
}
