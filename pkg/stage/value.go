package stage

import (
	"fmt"
	"sort"
)

// Kind identifies the node kind of a Value.
type Kind int

const (
	Null Kind = iota
	Bool
	Int
	Float
	String
	Sequence
	Mapping
)

// String returns a human-readable kind name, used in diagnostics.
func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "boolean"
	case Int:
		return "integer"
	case Float:
		return "number"
	case String:
		return "string"
	case Sequence:
		return "sequence"
	case Mapping:
		return "mapping"
	default:
		return "unknown"
	}
}

// Value is a single node of a parsed document: the common substrate the
// validator walks. It carries no validation logic. JSON and YAML both
// project onto it identically (see internal/parser).
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	seq  []Value
	m    *Map
}

// Map is an order-preserving string-keyed mapping node.
type Map struct {
	keys []string
	vals map[string]Value
}

// NewMap creates an empty mapping.
func NewMap() *Map {
	return &Map{vals: make(map[string]Value)}
}

// Set inserts or replaces a key. First insertion determines key order.
func (m *Map) Set(key string, v Value) *Map {
	if _, ok := m.vals[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.vals[key] = v
	return m
}

// Get returns the value for key.
func (m *Map) Get(key string) (Value, bool) {
	v, ok := m.vals[key]
	return v, ok
}

// Has reports whether key is present.
func (m *Map) Has(key string) bool {
	_, ok := m.vals[key]
	return ok
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string {
	return m.keys
}

// Len returns the number of entries.
func (m *Map) Len() int {
	return len(m.keys)
}

// --- Constructors ---

// NullValue returns the null node.
func NullValue() Value {
	return Value{kind: Null}
}

// BoolValue returns a boolean node.
func BoolValue(b bool) Value {
	return Value{kind: Bool, b: b}
}

// IntValue returns an integer node.
func IntValue(i int64) Value {
	return Value{kind: Int, i: i}
}

// FloatValue returns a floating-point node.
func FloatValue(f float64) Value {
	return Value{kind: Float, f: f}
}

// StringValue returns a string node.
func StringValue(s string) Value {
	return Value{kind: String, s: s}
}

// SeqValue returns a sequence node.
func SeqValue(items ...Value) Value {
	return Value{kind: Sequence, seq: items}
}

// MapValue returns a mapping node.
func MapValue(m *Map) Value {
	if m == nil {
		m = NewMap()
	}
	return Value{kind: Mapping, m: m}
}

// FromGo converts a plain Go value (as produced by encoding/json or a
// yaml.Unmarshal into any) to a Value. Map keys are sorted so the result
// is deterministic; parse through internal/parser when document order
// matters.
func FromGo(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return NullValue(), nil
	case bool:
		return BoolValue(val), nil
	case int:
		return IntValue(int64(val)), nil
	case int64:
		return IntValue(val), nil
	case float64:
		return FloatValue(val), nil
	case string:
		return StringValue(val), nil
	case []any:
		seq := make([]Value, 0, len(val))
		for i, item := range val {
			cv, err := FromGo(item)
			if err != nil {
				return Value{}, fmt.Errorf("[%d]: %w", i, err)
			}
			seq = append(seq, cv)
		}
		return Value{kind: Sequence, seq: seq}, nil
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		m := NewMap()
		for _, k := range keys {
			cv, err := FromGo(val[k])
			if err != nil {
				return Value{}, fmt.Errorf("%s: %w", k, err)
			}
			m.Set(k, cv)
		}
		return MapValue(m), nil
	default:
		return Value{}, fmt.Errorf("unsupported value type %T", v)
	}
}

// --- Inspection and projections ---

// Kind returns the node kind.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull reports whether the node is null.
func (v Value) IsNull() bool {
	return v.kind == Null
}

// IsScalar reports whether the node is a boolean, integer, number or string.
func (v Value) IsScalar() bool {
	switch v.kind {
	case Bool, Int, Float, String:
		return true
	}
	return false
}

// AsBool projects the node as a boolean.
func (v Value) AsBool() (bool, bool) {
	if v.kind != Bool {
		return false, false
	}
	return v.b, true
}

// AsInt projects the node as an integer. A float node with an integral
// value also projects (JSON decoders commonly produce float64 for whole
// numbers).
func (v Value) AsInt() (int64, bool) {
	switch v.kind {
	case Int:
		return v.i, true
	case Float:
		if v.f == float64(int64(v.f)) {
			return int64(v.f), true
		}
	}
	return 0, false
}

// AsFloat projects the node as a floating-point number. Integer nodes
// also project.
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case Float:
		return v.f, true
	case Int:
		return float64(v.i), true
	}
	return 0, false
}

// AsString projects the node as a string.
func (v Value) AsString() (string, bool) {
	if v.kind != String {
		return "", false
	}
	return v.s, true
}

// AsSequence projects the node as a sequence.
func (v Value) AsSequence() ([]Value, bool) {
	if v.kind != Sequence {
		return nil, false
	}
	return v.seq, true
}

// AsMapping projects the node as a mapping.
func (v Value) AsMapping() (*Map, bool) {
	if v.kind != Mapping {
		return nil, false
	}
	return v.m, true
}

// Scalar returns the scalar payload as a plain Go value (bool, int64,
// float64 or string). Returns nil for non-scalar nodes.
func (v Value) Scalar() any {
	switch v.kind {
	case Bool:
		return v.b
	case Int:
		return v.i
	case Float:
		return v.f
	case String:
		return v.s
	}
	return nil
}

// ToGo converts the node back to a plain Go value. Mappings become
// map[string]any (key order is lost).
func (v Value) ToGo() any {
	switch v.kind {
	case Null:
		return nil
	case Bool:
		return v.b
	case Int:
		return v.i
	case Float:
		return v.f
	case String:
		return v.s
	case Sequence:
		out := make([]any, len(v.seq))
		for i, item := range v.seq {
			out[i] = item.ToGo()
		}
		return out
	case Mapping:
		out := make(map[string]any, v.m.Len())
		for _, k := range v.m.Keys() {
			cv, _ := v.m.Get(k)
			out[k] = cv.ToGo()
		}
		return out
	}
	return nil
}
