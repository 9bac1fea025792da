// Package schema implements the C5 schema binding layer: a declarative,
// ordered field-list description of a record type is compiled at build
// time (via Schema[T].Build) into a Binding[T] exposing compile-time
// ParseRecord/EmitRecord routines. No reflect import appears anywhere in
// this package's build/parse/emit hot path — field access is expressed
// through caller-supplied Get/Set closures instead (spec.md §4.5, §9).
package schema

import "fmt"

// Level classifies a Diagnostic's severity.
type Level int

const (
	LevelError Level = iota
	LevelWarning
)

func (l Level) String() string {
	if l == LevelError {
		return "error"
	}
	return "warning"
}

// DiagnosticID is one of the stable build-time diagnostic identifiers
// from spec.md §6.
type DiagnosticID string

const (
	// S01ExtensibilityRequired is not applicable to a Go struct binding
	// (there is no "generated companion code" concept); retained as a
	// named constant so the identifier space stays stable with the wire
	// contract, but Build never emits it.
	S01ExtensibilityRequired DiagnosticID = "S-01"
	S02DuplicateOrdinal      DiagnosticID = "S-02"
	S03UnsupportedValueKind  DiagnosticID = "S-03"
	S04NestedRecordType      DiagnosticID = "S-04"
	S05NoFields              DiagnosticID = "S-05"
	S06NegativeOrdinal       DiagnosticID = "S-06"
	S07InvalidConverterType  DiagnosticID = "S-07"
	S08EmptyCSVName          DiagnosticID = "S-08"
	S09DuplicateCSVName      DiagnosticID = "S-09"
	// S10NotStructuredType is not applicable: Schema[T] is only
	// constructible for a Go type the caller describes field-by-field,
	// so there is no enum/primitive misuse to detect. Retained for the
	// same reason as S-01.
	S10NotStructuredType DiagnosticID = "S-10"
)

// Diagnostic is one build-time finding against a declared Schema.
type Diagnostic struct {
	ID      DiagnosticID
	Level   Level
	Message string
	Ordinal int // -1 when not applicable to a specific field
	Field   string
}

func (d Diagnostic) String() string {
	if d.Field != "" {
		return fmt.Sprintf("[%s] %s (field %q): %s", d.ID, d.Level, d.Field, d.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", d.ID, d.Level, d.Message)
}

// hasFatal reports whether diagnostics contains any error-level entry.
func hasFatal(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Level == LevelError {
			return true
		}
	}
	return false
}
