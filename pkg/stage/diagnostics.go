package stage

import (
	"fmt"
	"strings"
)

// DiagnosticKind classifies a validation failure.
type DiagnosticKind string

const (
	MissingRequiredField DiagnosticKind = "MissingRequiredField"
	UnknownField         DiagnosticKind = "UnknownField"
	TypeMismatch         DiagnosticKind = "TypeMismatch"
	EnumMismatch         DiagnosticKind = "EnumMismatch"
	FormatMismatch       DiagnosticKind = "FormatMismatch"
	ConflictingFields    DiagnosticKind = "ConflictingFields"
	ReservedKeyUsed      DiagnosticKind = "ReservedKeyUsed"
	GrammarMismatch      DiagnosticKind = "GrammarMismatch"
	CardinalityMismatch  DiagnosticKind = "CardinalityMismatch"
	DepthExceeded        DiagnosticKind = "DepthExceeded"
)

// Diagnostic is a single path-qualified validation failure.
type Diagnostic struct {
	Path    string         `json:"path"`
	Kind    DiagnosticKind `json:"kind"`
	Message string         `json:"message"`
}

// String formats the diagnostic as "path: kind: message".
func (d Diagnostic) String() string {
	if d.Path == "" {
		return fmt.Sprintf("%s: %s", d.Kind, d.Message)
	}
	return fmt.Sprintf("%s: %s: %s", d.Path, d.Kind, d.Message)
}

// Diagnostics is an ordered list of validation failures. A nil or empty
// list means the document is valid.
type Diagnostics []Diagnostic

// Error joins all diagnostics, one per line.
func (ds Diagnostics) Error() string {
	lines := make([]string, len(ds))
	for i, d := range ds {
		lines[i] = d.String()
	}
	return strings.Join(lines, "\n")
}

// HasKind reports whether any diagnostic has the given kind.
func (ds Diagnostics) HasKind(kind DiagnosticKind) bool {
	for _, d := range ds {
		if d.Kind == kind {
			return true
		}
	}
	return false
}

// At returns the diagnostics recorded at exactly the given path.
func (ds Diagnostics) At(path string) Diagnostics {
	var out Diagnostics
	for _, d := range ds {
		if d.Path == path {
			out = append(out, d)
		}
	}
	return out
}

// JoinPath extends a diagnostic path with a key segment.
func JoinPath(base, key string) string {
	if base == "" {
		return key
	}
	return base + "." + key
}
