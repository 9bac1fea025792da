package schema

import (
	csvcodec "github.com/csvbind/csvbind"
)

// Encoder composes a csvcodec.Writer with a *Binding[T], optionally
// emitting a header record derived from the schema's csv_names before
// the first data record (spec.md §4.4 write-side algorithm).
type Encoder[T any] struct {
	w           *csvcodec.Writer
	binding     *Binding[T]
	wroteHeader bool
	WriteHeader bool
}

// NewEncoder constructs an Encoder. Set WriteHeader to emit the schema's
// csv_names as the first record.
func NewEncoder[T any](w *csvcodec.Writer, binding *Binding[T]) *Encoder[T] {
	return &Encoder[T]{w: w, binding: binding}
}

// Encode writes one record. Emit-side errors are always fail-fast
// (spec.md §7: "Emit-side errors... are always fail-fast").
func (e *Encoder[T]) Encode(src *T) error {
	if e.WriteHeader && !e.wroteHeader {
		if err := e.w.WriteHeader(e.binding.CSVNames()); err != nil {
			return err
		}
		e.wroteHeader = true
	}
	if err := e.binding.EmitRecord(src, e.w.Emitter()); err != nil {
		return err
	}
	return e.w.FlushIfNeeded()
}

// Flush drains any buffered output to the underlying sink.
func (e *Encoder[T]) Flush() error { return e.w.Flush() }
