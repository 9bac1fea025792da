package csvcodec

import (
	"strconv"
	"time"
)

// Emitter appends fields and record terminators to an append-only byte
// sink (C3, spec.md §4.3). The first field in a record is written without
// a leading delimiter; every subsequent field is prefixed with one
// delimiter byte, tracked solely by firstInRecord.
type Emitter struct {
	cfg           WriterConfig
	buf           []byte
	firstInRecord bool
}

// NewEmitter constructs an Emitter appending into an internal buffer that
// grows as needed; callers drain it via Bytes/Reset.
func NewEmitter(cfg WriterConfig) *Emitter {
	return &Emitter{cfg: cfg, buf: make([]byte, 0, cfg.BufferSize), firstInRecord: true}
}

// Bytes returns the buffered, not-yet-flushed output.
func (e *Emitter) Bytes() []byte { return e.buf }

// Reset truncates the buffer to length 0 for reuse after a flush.
func (e *Emitter) Reset() { e.buf = e.buf[:0] }

func (e *Emitter) writeDelimiterIfNeeded() {
	if e.firstInRecord {
		e.firstInRecord = false
		return
	}
	e.buf = append(e.buf, e.cfg.Delimiter)
}

// WriteFieldBytes appends a raw field, quoting it per the configured
// policy.
func (e *Emitter) WriteFieldBytes(field []byte) {
	e.writeDelimiterIfNeeded()
	if shouldQuote(field, e.cfg.QuotePolicy, e.cfg.Delimiter, e.cfg.Quote) {
		e.buf = appendQuoted(e.buf, field, e.cfg.Quote)
		return
	}
	e.buf = append(e.buf, field...)
}

// WriteEndOfRecord writes the configured newline and resets the
// first-field flag.
func (e *Emitter) WriteEndOfRecord() {
	e.buf = append(e.buf, e.cfg.Newline.bytes()...)
	e.firstInRecord = true
}

// Typed fast paths: these format directly into the sink's buffer without
// allocating an intermediate string, matching spec.md §4.3's "without
// allocating temporaries" requirement as closely as strconv.Append* allows.

func (e *Emitter) WriteInt(v int64) {
	e.writeDelimiterIfNeeded()
	e.buf = strconv.AppendInt(e.buf, v, 10)
}

func (e *Emitter) WriteUint(v uint64) {
	e.writeDelimiterIfNeeded()
	e.buf = strconv.AppendUint(e.buf, v, 10)
}

func (e *Emitter) WriteFloat(v float64, bitSize int) {
	e.writeDelimiterIfNeeded()
	e.buf = strconv.AppendFloat(e.buf, v, 'g', -1, bitSize)
}

func (e *Emitter) WriteBool(v bool) {
	e.writeDelimiterIfNeeded()
	e.buf = strconv.AppendBool(e.buf, v)
}

// WriteInstant formats an instant in RFC 3339 (ISO-8601), or per format if
// non-empty.
func (e *Emitter) WriteInstant(t time.Time, format string) {
	e.writeDelimiterIfNeeded()
	if format == "" {
		e.buf = t.AppendFormat(e.buf, time.RFC3339Nano)
		return
	}
	e.buf = t.AppendFormat(e.buf, format)
}

// WriteDuration formats a duration the way time.Duration.String does.
func (e *Emitter) WriteDuration(d time.Duration) {
	e.writeDelimiterIfNeeded()
	e.buf = append(e.buf, d.String()...)
}

// WriteUUID writes the canonical 8-4-4-4-12 hyphenated hex form.
func (e *Emitter) WriteUUID(u [16]byte) {
	e.writeDelimiterIfNeeded()
	e.buf = AppendUUID(e.buf, u)
}

// AppendUUID appends the canonical 8-4-4-4-12 hyphenated hex form of u to
// dst. No UUID library exists anywhere in the retrieval pack this module
// was grounded on, so this renders the hex digits from a lookup table (see
// DESIGN.md).
func AppendUUID(dst []byte, u [16]byte) []byte {
	var hexBuf [32]byte
	const hexDigits = "0123456789abcdef"
	for i, b := range u {
		hexBuf[i*2] = hexDigits[b>>4]
		hexBuf[i*2+1] = hexDigits[b&0x0f]
	}
	dst = append(dst, hexBuf[0:8]...)
	dst = append(dst, '-')
	dst = append(dst, hexBuf[8:12]...)
	dst = append(dst, '-')
	dst = append(dst, hexBuf[12:16]...)
	dst = append(dst, '-')
	dst = append(dst, hexBuf[16:20]...)
	dst = append(dst, '-')
	dst = append(dst, hexBuf[20:32]...)
	return dst
}
