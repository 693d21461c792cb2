package validator

import (
	"fmt"

	"github.com/me/wfstage/pkg/stage"
)

// outputKeys is the closed key set of an output entry.
var outputKeys = map[string]bool{
	stage.ClassKey:  true,
	"cardinality":   true,
	"preferredName": true,
	"glob":          true,
}

func (v *Validator) validateOutputs(node stage.Value) (map[string]stage.OutputSpec, []string, stage.Diagnostics) {
	var diags stage.Diagnostics

	m, ok := node.AsMapping()
	if !ok {
		return nil, nil, stage.Diagnostics{typeMismatch("outputs", "mapping", node)}
	}

	outputs := make(map[string]stage.OutputSpec, m.Len())
	names := make([]string, 0, m.Len())
	for _, name := range m.Keys() {
		entry, _ := m.Get(name)
		spec, specDiags := validateOutput(entry, stage.JoinPath("outputs", name))
		diags = append(diags, specDiags...)
		if specDiags == nil {
			outputs[name] = spec
			names = append(names, name)
		}
	}
	return outputs, names, diags
}

func validateOutput(node stage.Value, path string) (stage.OutputSpec, stage.Diagnostics) {
	var diags stage.Diagnostics
	var spec stage.OutputSpec

	m, ok := node.AsMapping()
	if !ok {
		return spec, stage.Diagnostics{typeMismatch(path, "mapping", node)}
	}

	for _, key := range m.Keys() {
		if !outputKeys[key] {
			diags = append(diags, stage.Diagnostic{
				Path:    stage.JoinPath(path, key),
				Kind:    stage.UnknownField,
				Message: fmt.Sprintf("unknown field %q", key),
			})
		}
	}

	if classNode, ok := m.Get(stage.ClassKey); ok {
		if s, ok := classNode.AsString(); ok {
			if s == stage.ClassFile || s == stage.ClassDirectory {
				spec.Class = s
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
	} else {
		diags = append(diags, stage.Diagnostic{
			Path:    stage.JoinPath(path, stage.ClassKey),
			Kind:    stage.MissingRequiredField,
			Message: fmt.Sprintf("output entries require %s", stage.ClassKey),
		})
	}

	if node, ok := m.Get("cardinality"); ok {
		card, cardDiags := resolveCardinality(node, stage.JoinPath(path, "cardinality"))
		spec.Cardinality = card
		diags = append(diags, cardDiags...)
	}

	for _, key := range []string{"preferredName", "glob"} {
		node, ok := m.Get(key)
		if !ok {
			continue
		}
		keyPath := stage.JoinPath(path, key)
		s, ok := node.AsString()
		if !ok {
			diags = append(diags, typeMismatch(keyPath, "string", node))
			continue
		}
		if s == "" {
			diags = append(diags, stage.Diagnostic{
				Path:    keyPath,
				Kind:    stage.FormatMismatch,
				Message: fmt.Sprintf("%s must be a non-empty string", key),
			})
			continue
		}
		if key == "preferredName" {
			spec.PreferredName = s
		} else {
			spec.Glob = s
		}
	}

	if len(diags) > 0 {
		return stage.OutputSpec{}, diags
	}
	return spec, nil
}

// resolveCardinality classifies the polymorphic cardinality field:
// symbolic code, exact count, or [min, max] range. The range form does
// not require max >= min: the pair is kept exactly as written, and the
// bound checks apply to its smaller and larger elements, so [1, 0] is
// accepted.
func resolveCardinality(node stage.Value, path string) (stage.Cardinality, stage.Diagnostics) {
	mismatch := func(format string, args ...any) stage.Diagnostics {
		return stage.Diagnostics{{
			Path:    path,
			Kind:    stage.CardinalityMismatch,
			Message: fmt.Sprintf(format, args...),
		}}
	}

	switch node.Kind() {
	case stage.String:
		s, _ := node.AsString()
		switch s {
		case "1", "?", "*", "+":
			return stage.Cardinality{Kind: stage.CardinalitySymbol, Symbol: s}, nil
		}
		return stage.Cardinality{}, mismatch("%q is not a cardinality code (1, ?, *, +)", s)

	case stage.Int:
		n, _ := node.AsInt()
		if n < 0 {
			return stage.Cardinality{}, mismatch("exact count must be non-negative, got %d", n)
		}
		return stage.Cardinality{Kind: stage.CardinalityCount, Count: n}, nil

	case stage.Sequence:
		items, _ := node.AsSequence()
		if len(items) != 2 {
			return stage.Cardinality{}, mismatch("range must be a [min, max] pair, got %d elements", len(items))
		}
		first, okMin := items[0].AsInt()
		second, okMax := items[1].AsInt()
		if !okMin || !okMax {
			return stage.Cardinality{}, mismatch("range bounds must be integers")
		}
		lo, hi := first, second
		if hi < lo {
			lo, hi = hi, lo
		}
		if lo < 0 {
			return stage.Cardinality{}, mismatch("range bounds must be >= 0, got %d", lo)
		}
		if hi < 1 {
			return stage.Cardinality{}, mismatch("range upper bound must be >= 1")
		}
		return stage.Cardinality{Kind: stage.CardinalityRange, Min: first, Max: second}, nil

	default:
		return stage.Cardinality{}, mismatch("expected a cardinality code, count or range, got %s", node.Kind())
	}
}
