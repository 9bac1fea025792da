package csvcodec

import (
	"bufio"
	"io"
)

// Writer is the C4 write-side record framer: it owns a buffered sink and
// an Emitter, optionally writes a header record derived from the caller,
// and flushes when its internal buffer exceeds WriterConfig.BufferSize or
// on Close.
type Writer struct {
	dst *bufio.Writer
	cfg WriterConfig
	em  *Emitter
	err error
}

// NewWriter constructs a Writer over dst.
func NewWriter(dst io.Writer, cfg WriterConfig) (*Writer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Writer{
		dst: bufio.NewWriterSize(dst, cfg.BufferSize),
		cfg: cfg,
		em:  NewEmitter(cfg),
	}, nil
}

// WriteHeader emits names as a single record, honoring the same quoting
// policy as data records.
func (w *Writer) WriteHeader(names []string) error {
	for _, n := range names {
		w.em.WriteFieldBytes([]byte(n))
	}
	w.em.WriteEndOfRecord()
	return w.maybeFlush()
}

// WriteRecord emits one record's fields verbatim (each quoted per policy)
// followed by the record terminator.
func (w *Writer) WriteRecord(fields [][]byte) error {
	if w.err != nil {
		return w.err
	}
	for _, f := range fields {
		w.em.WriteFieldBytes(f)
	}
	w.em.WriteEndOfRecord()
	return w.maybeFlush()
}

// Emitter exposes the underlying Emitter so schema-bound emit routines
// can call its typed fast paths directly without an extra copy.
func (w *Writer) Emitter() *Emitter { return w.em }

// EndRecord terminates the record currently being built via Emitter().
func (w *Writer) EndRecord() error {
	w.em.WriteEndOfRecord()
	return w.maybeFlush()
}

// FlushIfNeeded flushes the buffered output if it has grown past
// BufferSize. A schema-bound Encoder calls this after each EmitRecord
// since that call writes directly through Emitter() rather than through
// WriteRecord/EndRecord.
func (w *Writer) FlushIfNeeded() error { return w.maybeFlush() }

func (w *Writer) maybeFlush() error {
	if w.err != nil {
		return w.err
	}
	if len(w.em.Bytes()) <= w.cfg.BufferSize {
		return nil
	}
	return w.Flush()
}

// Flush drains the Emitter's buffer into the underlying sink and flushes
// the sink itself.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	if _, err := w.dst.Write(w.em.Bytes()); err != nil {
		w.err = err
		return err
	}
	w.em.Reset()
	if err := w.dst.Flush(); err != nil {
		w.err = err
		return err
	}
	return nil
}

// Error returns the first error encountered by WriteRecord/WriteHeader/
// Flush, if any.
func (w *Writer) Error() error { return w.err }

// Close flushes any remaining buffered output.
func (w *Writer) Close() error { return w.Flush() }
