// Package validator checks a raw stage-definition document against the
// stage grammar and produces a typed, default-filled StageDefinition.
//
// Validation accumulates: every independent structural violation in a
// document is reported in a single pass, path-qualified. Normalization
// only runs on a fully valid tree; a caller never receives a partial
// structure.
package validator

import (
	"fmt"
	"log/slog"
	"net/url"

	"github.com/me/wfstage/pkg/stage"
)

// DefaultMaxDepth is the default ceiling on parameter nesting. The
// grammar itself is unbounded, so the engine bounds recursion explicitly
// instead of trusting the call stack.
const DefaultMaxDepth = 64

// Validator validates stage-definition documents. It is stateless
// between calls; independent goroutines may share one instance.
type Validator struct {
	logger   *slog.Logger
	maxDepth int
}

// Option configures a Validator.
type Option func(*Validator)

// WithMaxDepth overrides the parameter nesting ceiling.
func WithMaxDepth(n int) Option {
	return func(v *Validator) {
		if n > 0 {
			v.maxDepth = n
		}
	}
}

// New creates a Validator with the given logger.
func New(logger *slog.Logger, opts ...Option) *Validator {
	v := &Validator{
		logger:   logger.With("component", "validator"),
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// stageKeys is the closed key set of the root object.
var stageKeys = map[string]bool{
	"trs_endpoint":    true,
	"version":         true,
	"workflow_id":     true,
	"paranoid_mode":   true,
	"workflow_type":   true,
	"workflow_config": true,
	"params":          true,
	"outputs":         true,
}

// Validate checks root against the stage-definition grammar. On success
// it returns the normalized typed definition and nil diagnostics; on
// failure it returns nil and a non-empty ordered diagnostic list.
func (v *Validator) Validate(root stage.Value) (*stage.StageDefinition, stage.Diagnostics) {
	var diags stage.Diagnostics

	m, ok := root.AsMapping()
	if !ok {
		diags = append(diags, stage.Diagnostic{
			Kind:    stage.TypeMismatch,
			Message: fmt.Sprintf("stage definition must be a mapping, got %s", root.Kind()),
		})
		return nil, diags
	}

	def := &stage.StageDefinition{}

	for _, key := range m.Keys() {
		if !stageKeys[key] {
			diags = append(diags, stage.Diagnostic{
				Path:    key,
				Kind:    stage.UnknownField,
				Message: fmt.Sprintf("unknown field %q", key),
			})
		}
	}

	if node, ok := m.Get("trs_endpoint"); ok {
		if s, ok := node.AsString(); ok {
			def.TRSEndpoint = s
			diags = append(diags, checkURI(s, "trs_endpoint")...)
		} else {
			diags = append(diags, typeMismatch("trs_endpoint", "string", node))
		}
	}

	if node, ok := m.Get("version"); ok {
		switch {
		case node.Kind() == stage.String:
			def.Version, _ = node.AsString()
		case node.Kind() == stage.Int:
			def.Version, _ = node.AsInt()
		default:
			diags = append(diags, typeMismatch("version", "string or integer", node))
		}
	}

	if node, ok := m.Get("workflow_id"); ok {
		switch {
		case node.Kind() == stage.String:
			s, _ := node.AsString()
			def.WorkflowID = s
			diags = append(diags, checkURI(s, "workflow_id")...)
		case node.Kind() == stage.Int:
			def.WorkflowID, _ = node.AsInt()
		default:
			diags = append(diags, typeMismatch("workflow_id", "URI or integer", node))
		}
	} else {
		diags = append(diags, stage.Diagnostic{
			Path:    "workflow_id",
			Kind:    stage.MissingRequiredField,
			Message: "workflow_id is required",
		})
	}

	if node, ok := m.Get("paranoid_mode"); ok {
		if b, ok := node.AsBool(); ok {
			def.ParanoidMode = b
		} else {
			diags = append(diags, typeMismatch("paranoid_mode", "boolean", node))
		}
	}

	if node, ok := m.Get("workflow_type"); ok {
		if s, ok := node.AsString(); ok {
			if s == stage.WorkflowTypeNextflow || s == stage.WorkflowTypeCWL {
				def.WorkflowType = s
			} else {
				diags = append(diags, stage.Diagnostic{
					Path:    "workflow_type",
					Kind:    stage.EnumMismatch,
					Message: fmt.Sprintf("workflow_type must be %q or %q, got %q", stage.WorkflowTypeNextflow, stage.WorkflowTypeCWL, s),
				})
			}
		} else {
			diags = append(diags, typeMismatch("workflow_type", "string", node))
		}
	}

	if node, ok := m.Get("workflow_config"); ok {
		cfg, cfgDiags := v.validateWorkflowConfig(node)
		def.WorkflowConfig = cfg
		diags = append(diags, cfgDiags...)
	}

	if node, ok := m.Get("params"); ok {
		params, paramDiags := v.resolveParams(node, "params", 0)
		def.Params = params
		diags = append(diags, paramDiags...)
	}

	if node, ok := m.Get("outputs"); ok {
		outputs, names, outDiags := v.validateOutputs(node)
		def.Outputs = outputs
		def.OutputNames = names
		diags = append(diags, outDiags...)
	}

	if len(diags) > 0 {
		v.logger.Debug("stage definition rejected", "diagnostics", len(diags))
		return nil, diags
	}

	Normalize(def)
	return def, nil
}

// workflowConfigKeys, nextflowKeys and cwlKeys are the closed key sets
// of workflow_config and its engine sub-objects.
var (
	workflowConfigKeys = map[string]bool{
		"secure":              true,
		"writable_containers": true,
		"nextflow":            true,
		"cwl":                 true,
	}
	nextflowKeys = map[string]bool{"version": true, "profile": true}
	cwlKeys      = map[string]bool{"version": true}
)

func (v *Validator) validateWorkflowConfig(node stage.Value) (*stage.WorkflowConfig, stage.Diagnostics) {
	var diags stage.Diagnostics

	m, ok := node.AsMapping()
	if !ok {
		return nil, stage.Diagnostics{typeMismatch("workflow_config", "mapping", node)}
	}

	cfg := &stage.WorkflowConfig{}

	for _, key := range m.Keys() {
		if !workflowConfigKeys[key] {
			diags = append(diags, stage.Diagnostic{
				Path:    stage.JoinPath("workflow_config", key),
				Kind:    stage.UnknownField,
				Message: fmt.Sprintf("unknown field %q", key),
			})
		}
	}

	if sub, ok := m.Get("secure"); ok {
		if b, ok := sub.AsBool(); ok {
			cfg.Secure = &b
		} else {
			diags = append(diags, typeMismatch("workflow_config.secure", "boolean", sub))
		}
	}

	if sub, ok := m.Get("writable_containers"); ok {
		if b, ok := sub.AsBool(); ok {
			cfg.WritableContainers = b
		} else {
			diags = append(diags, typeMismatch("workflow_config.writable_containers", "boolean", sub))
		}
	}

	if sub, ok := m.Get("nextflow"); ok {
		nxf, nxfDiags := validateEngineConfig(sub, "workflow_config.nextflow", nextflowKeys)
		diags = append(diags, nxfDiags...)
		if nxf != nil {
			cfg.Nextflow = &stage.NextflowConfig{
				Version: nxf["version"],
				Profile: nxf["profile"],
			}
		}
	}

	if sub, ok := m.Get("cwl"); ok {
		cwl, cwlDiags := validateEngineConfig(sub, "workflow_config.cwl", cwlKeys)
		diags = append(diags, cwlDiags...)
		if cwl != nil {
			cfg.CWL = &stage.CWLConfig{Version: cwl["version"]}
		}
	}

	return cfg, diags
}

// validateEngineConfig checks an engine sub-object whose fields are all
// strings, returning the present fields by key.
func validateEngineConfig(node stage.Value, path string, allowed map[string]bool) (map[string]string, stage.Diagnostics) {
	var diags stage.Diagnostics

	m, ok := node.AsMapping()
	if !ok {
		return nil, stage.Diagnostics{typeMismatch(path, "mapping", node)}
	}

	fields := make(map[string]string)
	for _, key := range m.Keys() {
		keyPath := stage.JoinPath(path, key)
		if !allowed[key] {
			diags = append(diags, stage.Diagnostic{
				Path:    keyPath,
				Kind:    stage.UnknownField,
				Message: fmt.Sprintf("unknown field %q", key),
			})
			continue
		}
		sub, _ := m.Get(key)
		if s, ok := sub.AsString(); ok {
			fields[key] = s
		} else {
			diags = append(diags, typeMismatch(keyPath, "string", sub))
		}
	}
	return fields, diags
}

// checkURI verifies that s is an absolute URI.
func checkURI(s, path string) stage.Diagnostics {
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" {
		return stage.Diagnostics{{
			Path:    path,
			Kind:    stage.FormatMismatch,
			Message: fmt.Sprintf("%q is not a valid URI", s),
		}}
	}
	return nil
}

func typeMismatch(path, want string, node stage.Value) stage.Diagnostic {
	return stage.Diagnostic{
		Path:    path,
		Kind:    stage.TypeMismatch,
		Message: fmt.Sprintf("expected %s, got %s", want, node.Kind()),
	}
}
