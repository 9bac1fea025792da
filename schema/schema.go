package schema

import (
	"fmt"
	"sort"

	csvcodec "github.com/csvbind/csvbind"
)

// FieldDescriptor declares one field of a record type T: its CSV
// identity (ordinal, csv_name), its value kind, and the closures that
// read/write it on a *T. Get/Set stand in for the reflective accessor a
// code generator would normally emit (spec.md §9: "emit the schema-bound
// path at build time... omit the reflective path entirely") — they are
// ordinary Go closures, not reflect.Value operations.
type FieldDescriptor[T any] struct {
	MemberName string
	CSVName    string
	Ordinal    int
	Kind       ValueKind
	Nullable   bool
	Format     string
	Converter  Converter

	// Get returns the field's current value boxed as any; Set assigns a
	// decoded value (or nil, for an absent nullable field) back onto rec.
	Get func(rec *T) any
	Set func(rec *T, v any) error
}

// Schema is the immutable, declarative description of record type T:
// an ordered field list. It is built once per record type (spec.md §3).
type Schema[T any] struct {
	Fields []FieldDescriptor[T]
}

// Build validates the schema against spec.md §4.5's compile-time checks
// and, absent any fatal diagnostic, compiles it into a *Binding[T].
// Diagnostics are always returned, even alongside a non-nil Binding, so
// callers can surface warnings (S-05, S-09) without failing the build.
func (s Schema[T]) Build() (*Binding[T], []Diagnostic, error) {
	var diags []Diagnostic

	if len(s.Fields) == 0 {
		diags = append(diags, Diagnostic{ID: S05NoFields, Level: LevelWarning, Message: "schema has no fields", Ordinal: -1})
	}

	seenOrdinal := make(map[int]bool, len(s.Fields))
	seenCSVName := make(map[string]bool, len(s.Fields))
	for _, f := range s.Fields {
		if f.Ordinal < 0 {
			diags = append(diags, Diagnostic{ID: S06NegativeOrdinal, Level: LevelError, Message: fmt.Sprintf("ordinal %d is negative", f.Ordinal), Ordinal: f.Ordinal, Field: f.MemberName})
		} else if seenOrdinal[f.Ordinal] {
			diags = append(diags, Diagnostic{ID: S02DuplicateOrdinal, Level: LevelError, Message: fmt.Sprintf("ordinal %d used more than once", f.Ordinal), Ordinal: f.Ordinal, Field: f.MemberName})
		}
		seenOrdinal[f.Ordinal] = true

		if f.CSVName == "" {
			diags = append(diags, Diagnostic{ID: S08EmptyCSVName, Level: LevelError, Message: "csv_name must not be empty", Ordinal: f.Ordinal, Field: f.MemberName})
		} else if seenCSVName[f.CSVName] {
			diags = append(diags, Diagnostic{ID: S09DuplicateCSVName, Level: LevelWarning, Message: fmt.Sprintf("csv_name %q used more than once", f.CSVName), Ordinal: f.Ordinal, Field: f.MemberName})
		}
		seenCSVName[f.CSVName] = true

		if f.Converter == nil && !isSupportedValueKind(f.Kind) {
			diags = append(diags, Diagnostic{ID: S03UnsupportedValueKind, Level: LevelError, Message: fmt.Sprintf("value kind %s is not supported and no converter was supplied", f.Kind), Ordinal: f.Ordinal, Field: f.MemberName})
		}
		if f.Get == nil || f.Set == nil {
			diags = append(diags, Diagnostic{ID: S07InvalidConverterType, Level: LevelError, Message: "field is missing its Get/Set accessor", Ordinal: f.Ordinal, Field: f.MemberName})
		}
	}

	if hasFatal(diags) {
		return nil, diags, fmt.Errorf("schema: build failed with %d fatal diagnostic(s)", countFatal(diags))
	}

	sorted := make([]FieldDescriptor[T], len(s.Fields))
	copy(sorted, s.Fields)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Ordinal < sorted[j].Ordinal })

	return &Binding[T]{fields: sorted}, diags, nil
}

func countFatal(diags []Diagnostic) int {
	n := 0
	for _, d := range diags {
		if d.Level == LevelError {
			n++
		}
	}
	return n
}

// Binding is the compiled, immutable routine pair for record type T:
// ParseRecord decodes a field-view slice into a *T, EmitRecord writes a
// *T's fields out through an Emitter. It is safe for concurrent use by
// multiple sessions since it holds no mutable state of its own.
type Binding[T any] struct {
	fields []FieldDescriptor[T]
}

// CSVNames returns the schema's csv_names in ordinal order, for writing
// a header record.
func (b *Binding[T]) CSVNames() []string {
	names := make([]string, len(b.fields))
	for i, f := range b.fields {
		names[i] = f.CSVName
	}
	return names
}

// HeaderPermutation maps a header record's column index to the position,
// in the ordinal-sorted field list, of the field it binds to, or -1 for an
// unmatched ("skip") column. The value equals the field's ordinal only
// when the ordinals are exactly 0..n-1.
type HeaderPermutation []int

// BuildHeaderPermutation matches header column names against CSVName,
// per spec.md §4.5 ("When both headers and schema exist..."). Unmatched
// headers map to -1; a required (non-nullable), unmatched schema field
// is a bind error unless lenient is true.
func (b *Binding[T]) BuildHeaderPermutation(header []string, lenient bool) (HeaderPermutation, error) {
	byName := make(map[string]int, len(b.fields))
	for i, f := range b.fields {
		byName[f.CSVName] = i
	}
	perm := make(HeaderPermutation, len(header))
	matched := make([]bool, len(b.fields))
	for i, h := range header {
		if idx, ok := byName[h]; ok {
			perm[i] = idx
			matched[idx] = true
		} else {
			perm[i] = -1
		}
	}
	if !lenient {
		for i, f := range b.fields {
			if !matched[i] && !f.Nullable {
				return nil, fmt.Errorf("schema: required field %q (csv_name %q) has no matching header column", f.MemberName, f.CSVName)
			}
		}
	}
	return perm, nil
}

// ParseRecord decodes fields (schema-ordinal order, no header permutation
// applied) into dst. scratch is reused across calls to materialize any
// field that needs unescaping.
func (b *Binding[T]) ParseRecord(fields []csvcodec.FieldView, scratch *[]byte, dst *T) error {
	for i, f := range b.fields {
		if i >= len(fields) {
			if f.Nullable {
				if err := f.Set(dst, nil); err != nil {
					return err
				}
				continue
			}
			return fmt.Errorf("schema: missing field %q at ordinal %d", f.MemberName, f.Ordinal)
		}
		data := fields[i].Unescape(*scratch)
		*scratch = data[:0]

		if f.Converter != nil {
			v, err := f.Converter.DecodeField(data)
			if err != nil {
				return fmt.Errorf("schema: field %q: %w", f.MemberName, err)
			}
			if err := f.Set(dst, v); err != nil {
				return err
			}
			continue
		}

		v, err := decodeValue(f.Kind, data, f.Format, f.Nullable)
		if err != nil {
			return fmt.Errorf("schema: field %q: %w", f.MemberName, err)
		}
		if err := f.Set(dst, v); err != nil {
			return err
		}
	}
	return nil
}

// ParseRecordPermuted is ParseRecord's header-bound counterpart: fields
// are read in the physical column order given by perm rather than schema
// order.
func (b *Binding[T]) ParseRecordPermuted(fields []csvcodec.FieldView, perm HeaderPermutation, scratch *[]byte, dst *T) error {
	seen := make([]bool, len(b.fields))
	for col, view := range fields {
		if col >= len(perm) || perm[col] < 0 {
			continue
		}
		idx := perm[col]
		f := b.fields[idx]
		seen[idx] = true
		data := view.Unescape(*scratch)
		*scratch = data[:0]

		var v any
		var err error
		if f.Converter != nil {
			v, err = f.Converter.DecodeField(data)
		} else {
			v, err = decodeValue(f.Kind, data, f.Format, f.Nullable)
		}
		if err != nil {
			return fmt.Errorf("schema: field %q: %w", f.MemberName, err)
		}
		if err := f.Set(dst, v); err != nil {
			return err
		}
	}
	for i, f := range b.fields {
		if !seen[i] {
			if !f.Nullable {
				return fmt.Errorf("schema: missing required field %q", f.MemberName)
			}
			if err := f.Set(dst, nil); err != nil {
				return err
			}
		}
	}
	return nil
}

// EmitRecord writes src's fields, in schema order, through em: for each
// field, Get produces the boxed value, a converter or the built-in kind
// codec formats it to bytes, and em.WriteFieldBytes applies the
// configured quoting policy uniformly across both paths (spec.md §4.5
// emit routine contract).
func (b *Binding[T]) EmitRecord(src *T, em *csvcodec.Emitter) error {
	for _, f := range b.fields {
		v := f.Get(src)
		var data []byte
		var err error
		if f.Converter != nil {
			data, err = f.Converter.EncodeField(v)
		} else {
			data, err = encodeValue(f.Kind, v, f.Format)
		}
		if err != nil {
			return fmt.Errorf("schema: field %q: %w", f.MemberName, err)
		}
		em.WriteFieldBytes(data)
	}
	em.WriteEndOfRecord()
	return nil
}
