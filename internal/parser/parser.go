// Package parser loads raw stage-definition documents into the generic
// value model. It is format-agnostic: YAML and JSON both project onto
// the same node kinds (JSON documents parse as YAML).
package parser

import (
	"fmt"

	"github.com/me/wfstage/pkg/stage"
	"gopkg.in/yaml.v3"
)

// Load parses a YAML or JSON document into a stage.Value. Mapping key
// order is preserved and aliases are resolved. Non-string and duplicate
// mapping keys are rejected here, before validation.
func Load(data []byte) (stage.Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return stage.Value{}, fmt.Errorf("parse document: %w", err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		// Empty document.
		return stage.NullValue(), nil
	}
	return fromNode(doc.Content[0])
}

func fromNode(n *yaml.Node) (stage.Value, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return stage.NullValue(), nil
		}
		return fromNode(n.Content[0])

	case yaml.AliasNode:
		return fromNode(n.Alias)

	case yaml.ScalarNode:
		return fromScalar(n)

	case yaml.SequenceNode:
		items := make([]stage.Value, 0, len(n.Content))
		for i, child := range n.Content {
			cv, err := fromNode(child)
			if err != nil {
				return stage.Value{}, fmt.Errorf("[%d]: %w", i, err)
			}
			items = append(items, cv)
		}
		return stage.SeqValue(items...), nil

	case yaml.MappingNode:
		m := stage.NewMap()
		for i := 0; i+1 < len(n.Content); i += 2 {
			keyNode, valNode := n.Content[i], n.Content[i+1]
			if keyNode.Kind != yaml.ScalarNode || keyNode.Tag != "!!str" {
				return stage.Value{}, fmt.Errorf("line %d: mapping key must be a string", keyNode.Line)
			}
			key := keyNode.Value
			if m.Has(key) {
				return stage.Value{}, fmt.Errorf("line %d: duplicate mapping key %q", keyNode.Line, key)
			}
			cv, err := fromNode(valNode)
			if err != nil {
				return stage.Value{}, fmt.Errorf("%s: %w", key, err)
			}
			m.Set(key, cv)
		}
		return stage.MapValue(m), nil

	default:
		return stage.Value{}, fmt.Errorf("line %d: unsupported node kind", n.Line)
	}
}

func fromScalar(n *yaml.Node) (stage.Value, error) {
	switch n.Tag {
	case "!!null":
		return stage.NullValue(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return stage.Value{}, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return stage.BoolValue(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			return stage.Value{}, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return stage.IntValue(i), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return stage.Value{}, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return stage.FloatValue(f), nil
	default:
		// Strings, plus any custom-tagged scalar, keep their literal form.
		return stage.StringValue(n.Value), nil
	}
}
