package csvcodec

import (
	"context"
	"io"
)

// Reader is the C4 read-side record framer: it owns the byte buffer, the
// Tokenizer over it, header capture, and byte/line accounting, and
// presents Read() as a record-oriented iterator over an io.Reader.
//
// A Reader is not safe for concurrent use; spec.md §5 models one session
// per goroutine, with disjoint sessions running freely in parallel.
type Reader struct {
	src    io.Reader
	cfg    ReaderConfig
	tok    *Tokenizer
	buf    []byte
	err    error // sticky terminal error
	eof    bool  // underlying src has returned io.EOF
	Header []string

	maxInputSize int64
	totalRead    int64
	bomChecked   bool

	fieldBuf []FieldView
}

// NewReader constructs a Reader over src. If cfg.HasHeader is set, the
// first call to Read consumes and stores the header record instead of
// returning it.
func NewReader(src io.Reader, cfg ReaderConfig) (*Reader, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	r := &Reader{
		src:          src,
		cfg:          cfg,
		buf:          make([]byte, 0, 4096),
		maxInputSize: cfg.resolvedMaxInputSize(),
	}
	r.tok = NewTokenizer(cfg, r.buf)
	return r, nil
}

// grow reads more bytes from src, appending them to the internal buffer,
// and rebinds the tokenizer to the (possibly reallocated) larger slice.
// It is the framer's half of spec.md §4.4's refill algorithm; the
// tokenizer's half is GrowSpan, which tolerates the reallocation because
// the shared prefix bytes never change.
func (r *Reader) grow() error {
	if r.eof {
		return nil
	}
	chunk := make([]byte, 32*1024)
	n, err := r.src.Read(chunk)
	if n > 0 {
		r.totalRead += int64(n)
		if r.totalRead > r.maxInputSize {
			return ErrInputTooLarge
		}
		r.buf = append(r.buf, chunk[:n]...)
		r.tok.GrowSpan(r.buf)
	}
	if err != nil {
		if err == io.EOF {
			r.eof = true
			r.tok.SetAtEndOfInput(true)
			return nil
		}
		return err
	}
	return nil
}

// stripBOMOnce strips a leading UTF-8 BOM the first time enough bytes are
// buffered to tell either way. It is a no-op once bomChecked is set, so it
// is safe to call on every readRawRecord iteration.
func (r *Reader) stripBOMOnce() {
	if r.bomChecked || !r.cfg.SkipBOM {
		return
	}
	if len(r.buf) < 3 && !r.eof {
		return // not enough bytes yet to tell; try again after the next grow
	}
	r.bomChecked = true
	if StartsWithBOM(r.buf) {
		r.buf = append([]byte(nil), r.buf[3:]...)
		r.tok = NewTokenizer(r.cfg, r.buf)
		r.tok.SetAtEndOfInput(r.eof)
	}
}

// ensureHeaderConsumed reads and stores the header record once, the first
// time Read is called, when cfg.HasHeader is set.
func (r *Reader) ensureHeaderConsumed() error {
	if !r.cfg.HasHeader || r.Header != nil {
		return nil
	}
	fields, err := r.readRawRecord()
	if err != nil {
		return err
	}
	if fields == nil {
		return ErrInvalidHeader
	}
	header := make([]string, len(fields))
	for i, f := range fields {
		header[i] = string(f.Unescape(nil))
	}
	r.Header = header
	return nil
}

// Read returns the next record's field views, or io.EOF when the stream
// is exhausted. The returned FieldView slice is invalidated by the next
// call to Read (spec.md §5: "once the framer advances past a record,
// prior field views are invalidated").
func (r *Reader) Read(ctx context.Context) ([]FieldView, error) {
	if r.err != nil {
		return nil, r.err
	}
	if ctx != nil {
		select {
		case <-ctx.Done():
			r.err = ErrCancelled
			return nil, r.err
		default:
		}
	}
	if err := r.ensureHeaderConsumed(); err != nil {
		r.err = err
		return nil, err
	}
	fields, err := r.readRawRecord()
	if err != nil {
		r.err = err
		return nil, err
	}
	if fields == nil {
		r.err = io.EOF
		return nil, io.EOF
	}
	if r.cfg.SkipEmptyLines && isAllWhitespaceRecord(fields) {
		return r.Read(ctx)
	}
	if err := r.checkFieldCount(fields); err != nil {
		r.err = err
		return nil, err
	}
	return fields, nil
}

// readRawRecord is the inner refill loop: it asks the tokenizer to read a
// full record, growing the buffer on demand, and consumes the trailing
// terminator on success. A nil, nil return means true end of stream.
func (r *Reader) readRawRecord() ([]FieldView, error) {
	for {
		r.stripBOMOnce()
		fields, outcome, err := r.tok.TryReadRecord(r.fieldBuf)
		r.fieldBuf = fields
		switch outcome {
		case recordOK:
			if err != nil {
				return fields, err
			}
			if len(fields) == 0 && r.tok.IsEndOfStream() {
				return nil, nil
			}
			r.tok.ConsumeTerminator()
			r.tok.MarkRecordStart()
			out := make([]FieldView, len(fields))
			copy(out, fields)
			return out, nil
		case recordNeedMoreInput:
			if err != nil && r.eof {
				// The tokenizer hit end-of-span with a pending error while
				// already at true end of input (e.g. an unterminated quoted
				// field in Strict mode): growing again would just return nil
				// forever since r.eof short-circuits grow(), so the record
				// can never complete. Surface the error instead of spinning.
				return fields, r.classifyError(err)
			}
			if growErr := r.grow(); growErr != nil {
				return nil, growErr
			}
		case recordError:
			return fields, r.classifyError(err)
		}
	}
}

func (r *Reader) classifyError(err error) error {
	return &ParseError{
		Kind:      ErrorKindMalformedField,
		StartLine: r.tok.CurrentLine(),
		Line:      r.tok.CurrentLine(),
		Column:    r.tok.Position() - r.tok.RecordStart(),
		Err:       err,
	}
}

func (r *Reader) checkFieldCount(fields []FieldView) error {
	want := r.cfg.FieldsPerRecord
	if want < 0 {
		return nil
	}
	if want == 0 {
		r.cfg.FieldsPerRecord = len(fields)
		return nil
	}
	if len(fields) != want {
		return &ParseError{
			Kind:   ErrorKindFieldCountMismatch,
			Line:   r.tok.CurrentLine(),
			Column: r.tok.Position(),
			Err:    ErrFieldCount,
		}
	}
	return nil
}

func isAllWhitespaceRecord(fields []FieldView) bool {
	if len(fields) != 1 {
		return false
	}
	for _, b := range fields[0].Data {
		if b != ' ' && b != '\t' {
			return false
		}
	}
	return true
}

// SkipRecord discards the remainder of the current malformed record by
// scanning to the next line terminator outside quoted context, growing
// the buffer as needed, and clears the sticky error so Read can resume
// after a tokenizer-level error. schema.Decoder does not call it: a
// decode failure happens after Read has already consumed the record.
func (r *Reader) SkipRecord() error {
	for !r.tok.SkipToNextRecord() {
		if r.eof {
			return nil
		}
		if err := r.grow(); err != nil {
			return err
		}
	}
	r.err = nil
	return nil
}

// CurrentLine reports the 1-based line the cursor currently sits on.
func (r *Reader) CurrentLine() int { return r.tok.CurrentLine() }

// InputOffset reports the total number of bytes consumed from src so far,
// including bytes still buffered ahead of the cursor.
func (r *Reader) InputOffset() int64 { return r.totalRead }
