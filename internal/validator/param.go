package validator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/me/wfstage/pkg/stage"
)

// resourceKeys is the closed key set of a File/Directory resource.
var resourceKeys = map[string]bool{
	stage.ClassKey:     true,
	"url":              true,
	"security-context": true,
	"globExplode":      true,
	"autoFill":         true,
	"autoPrefix":       true,
}

// resolveParams validates a params block (or a nested parameter map).
// Each key is checked against the reserved discriminator token and each
// value resolved recursively.
func (v *Validator) resolveParams(node stage.Value, path string, depth int) (stage.ParamMap, stage.Diagnostics) {
	var diags stage.Diagnostics

	m, ok := node.AsMapping()
	if !ok {
		return nil, stage.Diagnostics{typeMismatch(path, "mapping", node)}
	}

	if depth > v.maxDepth {
		// Halt this branch, but let sibling branches keep reporting.
		return nil, stage.Diagnostics{{
			Path:    path,
			Kind:    stage.DepthExceeded,
			Message: fmt.Sprintf("parameter nesting exceeds the maximum depth of %d", v.maxDepth),
		}}
	}

	params := make(stage.ParamMap, m.Len())
	for _, key := range m.Keys() {
		keyPath := stage.JoinPath(path, key)
		if strings.HasPrefix(key, stage.ClassKey) {
			diags = append(diags, stage.Diagnostic{
				Path:    keyPath,
				Kind:    stage.ReservedKeyUsed,
				Message: fmt.Sprintf("parameter name %q begins with the reserved token %q", key, stage.ClassKey),
			})
			continue
		}
		child, _ := m.Get(key)
		p, childDiags := v.resolveParam(child, keyPath, depth+1)
		diags = append(diags, childDiags...)
		if p != nil {
			params[key] = p
		}
	}
	return params, diags
}

// resolveParam classifies node against the Param alternatives. The
// predicates below are total and mutually exclusive over the node shape:
// scalars, scalar sequences, discriminator-tagged mappings (resources)
// and untagged mappings (nested maps) cannot overlap, so exactly one
// alternative applies to any node that applies at all.
func (v *Validator) resolveParam(node stage.Value, path string, depth int) (*stage.Param, stage.Diagnostics) {
	switch node.Kind() {
	case stage.Bool, stage.Int, stage.Float, stage.String:
		return &stage.Param{Kind: stage.ScalarParam, Scalar: node.Scalar()}, nil

	case stage.Sequence:
		return resolveScalarList(node, path)

	case stage.Mapping:
		m, _ := node.AsMapping()
		if m.Has(stage.ClassKey) {
			return resolveResource(m, path)
		}
		children, diags := v.resolveParams(node, path, depth)
		if len(diags) > 0 {
			return nil, diags
		}
		return &stage.Param{Kind: stage.MapParam, Children: children}, nil

	default:
		return nil, stage.Diagnostics{{
			Path:    path,
			Kind:    stage.GrammarMismatch,
			Message: fmt.Sprintf("%s is not a valid parameter value", node.Kind()),
		}}
	}
}

func resolveScalarList(node stage.Value, path string) (*stage.Param, stage.Diagnostics) {
	items, _ := node.AsSequence()
	list := make([]any, 0, len(items))
	for i, item := range items {
		if !item.IsScalar() {
			return nil, stage.Diagnostics{{
				Path:    path,
				Kind:    stage.GrammarMismatch,
				Message: fmt.Sprintf("sequence element %d is %s; scalar lists may only contain strings, numbers and booleans", i, item.Kind()),
			}}
		}
		list = append(list, item.Scalar())
	}
	return &stage.Param{Kind: stage.ScalarListParam, List: list}, nil
}

// resolveResource validates a discriminator-tagged mapping as a File or
// Directory resource.
func resolveResource(m *stage.Map, path string) (*stage.Param, stage.Diagnostics) {
	var diags stage.Diagnostics

	for _, key := range m.Keys() {
		if !resourceKeys[key] {
			diags = append(diags, stage.Diagnostic{
				Path:    stage.JoinPath(path, key),
				Kind:    stage.UnknownField,
				Message: fmt.Sprintf("unknown field %q", key),
			})
		}
	}

	res := &stage.Resource{}

	classNode, _ := m.Get(stage.ClassKey)
	if s, ok := classNode.AsString(); ok {
		if s == stage.ClassFile || s == stage.ClassDirectory {
			res.Class = s
		} else {
			diags = append(diags, stage.Diagnostic{
				Path:    stage.JoinPath(path, stage.ClassKey),
				Kind:    stage.EnumMismatch,
				Message: fmt.Sprintf("%s must be %q or %q, got %q", stage.ClassKey, stage.ClassFile, stage.ClassDirectory, s),
			})
		}
	} else {
		diags = append(diags, typeMismatch(stage.JoinPath(path, stage.ClassKey), "string", classNode))
	}

	if node, ok := m.Get("url"); ok {
		urls, urlDiags := resolveURLField(node, stage.JoinPath(path, "url"))
		res.URLs = urls
		diags = append(diags, urlDiags...)
	}

	if node, ok := m.Get("security-context"); ok {
		keyPath := stage.JoinPath(path, "security-context")
		if s, ok := node.AsString(); ok {
			if s == "" {
				diags = append(diags, stage.Diagnostic{
					Path:    keyPath,
					Kind:    stage.FormatMismatch,
					Message: "security-context must be a non-empty string",
				})
			}
			res.SecurityContext = s
		} else {
			diags = append(diags, typeMismatch(keyPath, "string", node))
		}
	}

	if node, ok := m.Get("globExplode"); ok {
		if s, ok := node.AsString(); ok {
			res.GlobExplode = s
		} else {
			diags = append(diags, typeMismatch(stage.JoinPath(path, "globExplode"), "string", node))
		}
	}

	for _, key := range []string{"autoFill", "autoPrefix"} {
		node, ok := m.Get(key)
		if !ok {
			continue
		}
		if b, ok := node.AsBool(); ok {
			if key == "autoFill" {
				res.AutoFill = b
			} else {
				res.AutoPrefix = b
			}
		} else {
			diags = append(diags, typeMismatch(stage.JoinPath(path, key), "boolean", node))
		}
	}

	// Directory resources split into two exclusive modes: fetched content
	// (url, optionally with credentials and explosion) and engine-managed
	// content (autoFill/autoPrefix). File resources carry no such rule.
	if res.Class == stage.ClassDirectory {
		diags = append(diags, checkDirectoryExclusivity(m, path)...)
	}

	if len(diags) > 0 {
		return nil, diags
	}
	return &stage.Param{Kind: stage.ResourceParam, Resource: res}, nil
}

// checkDirectoryExclusivity enforces the Directory field rules: with a
// url, autoFill and autoPrefix must be absent; without one,
// security-context and globExplode must be absent. Presence of the key
// matters, not its value.
func checkDirectoryExclusivity(m *stage.Map, path string) stage.Diagnostics {
	var conflicting []string
	if m.Has("url") {
		for _, key := range []string{"autoFill", "autoPrefix"} {
			if m.Has(key) {
				conflicting = append(conflicting, key)
			}
		}
	} else {
		for _, key := range []string{"security-context", "globExplode"} {
			if m.Has(key) {
				conflicting = append(conflicting, key)
			}
		}
	}
	if len(conflicting) == 0 {
		return nil
	}
	sort.Strings(conflicting)
	mode := "with"
	if !m.Has("url") {
		mode = "without"
	}
	return stage.Diagnostics{{
		Path:    path,
		Kind:    stage.ConflictingFields,
		Message: fmt.Sprintf("Directory %s url may not carry %s", mode, strings.Join(conflicting, ", ")),
	}}
}

// resolveURLField accepts a single URI string or a non-empty sequence of
// URI strings.
func resolveURLField(node stage.Value, path string) ([]string, stage.Diagnostics) {
	switch node.Kind() {
	case stage.String:
		s, _ := node.AsString()
		if diags := checkURI(s, path); diags != nil {
			return nil, diags
		}
		return []string{s}, nil

	case stage.Sequence:
		items, _ := node.AsSequence()
		if len(items) == 0 {
			return nil, stage.Diagnostics{{
				Path:    path,
				Kind:    stage.FormatMismatch,
				Message: "url sequence must not be empty",
			}}
		}
		var diags stage.Diagnostics
		urls := make([]string, 0, len(items))
		for i, item := range items {
			itemPath := fmt.Sprintf("%s[%d]", path, i)
			s, ok := item.AsString()
			if !ok {
				diags = append(diags, typeMismatch(itemPath, "string", item))
				continue
			}
			diags = append(diags, checkURI(s, itemPath)...)
			urls = append(urls, s)
		}
		if len(diags) > 0 {
			return nil, diags
		}
		return urls, nil

	default:
		return nil, stage.Diagnostics{typeMismatch(path, "URI or sequence of URIs", node)}
	}
}
