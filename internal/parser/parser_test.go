package parser

import (
	"strings"
	"testing"

	"github.com/me/wfstage/pkg/stage"
)

func TestLoad_YAMLScalars(t *testing.T) {
	v, err := Load([]byte(`
s: text
i: 42
f: 1.5
b: true
n: null
`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	m, ok := v.AsMapping()
	if !ok {
		t.Fatal("expected mapping")
	}

	tests := []struct {
		key  string
		kind stage.Kind
	}{
		{"s", stage.String},
		{"i", stage.Int},
		{"f", stage.Float},
		{"b", stage.Bool},
		{"n", stage.Null},
	}
	for _, tt := range tests {
		node, ok := m.Get(tt.key)
		if !ok {
			t.Fatalf("key %q missing", tt.key)
		}
		if node.Kind() != tt.kind {
			t.Errorf("%q: Kind() = %s, want %s", tt.key, node.Kind(), tt.kind)
		}
	}

	if i, _ := mustGet(t, m, "i").AsInt(); i != 42 {
		t.Errorf("i = %d", i)
	}
}

func TestLoad_PreservesKeyOrder(t *testing.T) {
	v, err := Load([]byte("zebra: 1\nalpha: 2\nmike: 3\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	m, _ := v.AsMapping()
	want := []string{"zebra", "alpha", "mike"}
	got := m.Keys()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Keys() = %v, want %v", got, want)
		}
	}
}

func TestLoad_JSON(t *testing.T) {
	v, err := Load([]byte(`{"workflow_id": 42, "params": {"a": [1, 2, 3]}}`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	m, ok := v.AsMapping()
	if !ok {
		t.Fatal("expected mapping")
	}
	wid := mustGet(t, m, "workflow_id")
	if i, ok := wid.AsInt(); !ok || i != 42 {
		t.Errorf("workflow_id = %v", wid)
	}
	params, _ := mustGet(t, m, "params").AsMapping()
	seq, ok := mustGet(t, params, "a").AsSequence()
	if !ok || len(seq) != 3 {
		t.Errorf("params.a = %v", seq)
	}
}

func TestLoad_Sequence(t *testing.T) {
	v, err := Load([]byte("- one\n- 2\n- true\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	seq, ok := v.AsSequence()
	if !ok || len(seq) != 3 {
		t.Fatalf("expected 3-element sequence, got %v", v.Kind())
	}
	if seq[0].Kind() != stage.String || seq[1].Kind() != stage.Int || seq[2].Kind() != stage.Bool {
		t.Errorf("element kinds = %s, %s, %s", seq[0].Kind(), seq[1].Kind(), seq[2].Kind())
	}
}

func TestLoad_Anchors(t *testing.T) {
	v, err := Load([]byte(`
base: &ref https://example.org/data
copy: *ref
`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	m, _ := v.AsMapping()
	s, _ := mustGet(t, m, "copy").AsString()
	if s != "https://example.org/data" {
		t.Errorf("copy = %q", s)
	}
}

func TestLoad_DuplicateKey(t *testing.T) {
	_, err := Load([]byte("a: 1\na: 2\n"))
	if err == nil {
		t.Fatal("expected error for duplicate key")
	}
	if !strings.Contains(err.Error(), "duplicate") {
		t.Errorf("error = %v", err)
	}
}

func TestLoad_NonStringKey(t *testing.T) {
	_, err := Load([]byte("1: x\n"))
	if err == nil {
		t.Fatal("expected error for integer key")
	}
}

func TestLoad_Empty(t *testing.T) {
	v, err := Load([]byte(""))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !v.IsNull() {
		t.Errorf("empty document Kind() = %s, want null", v.Kind())
	}
}

func TestLoad_Invalid(t *testing.T) {
	if _, err := Load([]byte("a: [unclosed")); err == nil {
		t.Fatal("expected parse error")
	}
}

func mustGet(t *testing.T, m *stage.Map, key string) stage.Value {
	t.Helper()
	v, ok := m.Get(key)
	if !ok {
		t.Fatalf("key %q missing", key)
	}
	return v
}
