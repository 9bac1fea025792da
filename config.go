// Package csvcodec implements a high-throughput, zero-copy CSV tokenizer,
// emitter, and record framer over UTF-8 byte buffers. It is API-compatible
// in spirit with encoding/csv but exposes the framer's buffer refill, error
// policy, and header-binding machinery so that the schema package (see
// github.com/csvbind/csvbind/schema) can compile a record type directly
// against field slices instead of going through reflection.
package csvcodec

import "fmt"

// Mode selects how the tokenizer recovers from malformed quoting.
type Mode int

const (
	// Strict fails the current record on any quoting violation.
	Strict Mode = iota
	// Lenient recovers from bare/unterminated quotes by keeping whatever
	// content was seen instead of failing the record.
	Lenient
	// IgnoreQuotes treats the quote byte as ordinary field content; no
	// escaping or multi-line quoted fields are recognized.
	IgnoreQuotes
)

func (m Mode) String() string {
	switch m {
	case Strict:
		return "Strict"
	case Lenient:
		return "Lenient"
	case IgnoreQuotes:
		return "IgnoreQuotes"
	default:
		return "Unknown"
	}
}

// QuotePolicy selects when the emitter wraps a field in quote bytes.
type QuotePolicy int

const (
	// QuoteMinimal quotes a field only when it contains a delimiter, quote,
	// or line terminator byte.
	QuoteMinimal QuotePolicy = iota
	// QuoteNever never quotes, even if the field is ambiguous on read-back.
	QuoteNever
	// QuoteAll quotes every field unconditionally.
	QuoteAll
	// QuoteNonNumeric quotes every field that is not a simple decimal
	// literal (optional sign, digits, at most one dot).
	QuoteNonNumeric
)

// Newline selects the record terminator the writer emits.
type Newline int

const (
	NewlineLF Newline = iota
	NewlineCRLF
)

func (n Newline) bytes() []byte {
	if n == NewlineCRLF {
		return []byte("\r\n")
	}
	return []byte("\n")
}

// ReaderConfig is the immutable, value-typed configuration for a Reader.
// Use DefaultReaderConfig to obtain RFC 4180 defaults (comma delimiter,
// double-quote quoting, Strict mode, no header); the zero value fails
// Validate because Delimiter and Quote both default to 0.
type ReaderConfig struct {
	Delimiter      byte
	Quote          byte
	Escape         byte // 0 means "defaults to Quote" (RFC 4180 doubling)
	TrimFields     bool
	AllowComments  bool
	CommentPrefix  byte
	HasHeader      bool
	Mode           Mode
	SkipEmptyLines bool
	SkipBOM        bool
	// FieldsPerRecord, when positive, is the exact number of fields every
	// record must have; a mismatch raises ErrFieldCount. A negative value
	// disables the check; zero infers the count from the first record.
	FieldsPerRecord int
	// MaxInputSize bounds how many bytes a Reader will buffer overall.
	// Zero selects DefaultMaxInputSize.
	MaxInputSize int64
}

// DefaultReaderConfig returns the RFC 4180 defaults: comma delimiter,
// double quote, Strict mode, no header, no trimming.
func DefaultReaderConfig() ReaderConfig {
	return ReaderConfig{
		Delimiter:     ',',
		Quote:         '"',
		CommentPrefix: '#',
		Mode:          Strict,
	}
}

func (c ReaderConfig) resolvedEscape() byte {
	if c.Escape == 0 {
		return c.Quote
	}
	return c.Escape
}

func (c ReaderConfig) resolvedMaxInputSize() int64 {
	if c.MaxInputSize <= 0 {
		return DefaultMaxInputSize
	}
	return c.MaxInputSize
}

// Validate checks the invariants from spec.md §3: delimiter must differ
// from quote and from the resolved escape byte.
func (c ReaderConfig) Validate() error {
	if c.Delimiter == c.Quote {
		return fmt.Errorf("%w: delimiter and quote must differ", ErrInvalidConfiguration)
	}
	if c.Delimiter == c.resolvedEscape() {
		return fmt.Errorf("%w: delimiter and escape must differ", ErrInvalidConfiguration)
	}
	if c.resolvedEscape() != c.Quote {
		// The tokenizer implements RFC 4180 doubled-quote escaping only;
		// a distinct escape byte would require a second escaping scheme
		// the state machine in tokenizer.go does not model.
		return fmt.Errorf("%w: escape byte other than quote is not supported", ErrInvalidConfiguration)
	}
	return nil
}

// WriterConfig is the immutable, value-typed configuration for a Writer.
type WriterConfig struct {
	Delimiter   byte
	Quote       byte
	QuotePolicy QuotePolicy
	Newline     Newline
	BufferSize  int
	HasHeader   bool
}

// DefaultWriterConfig returns comma-delimited, minimally-quoted, LF-terminated
// defaults with an 4096-byte internal buffer.
func DefaultWriterConfig() WriterConfig {
	return WriterConfig{
		Delimiter:   ',',
		Quote:       '"',
		QuotePolicy: QuoteMinimal,
		Newline:     NewlineLF,
		BufferSize:  4096,
	}
}

func (c WriterConfig) Validate() error {
	if c.Delimiter == c.Quote {
		return fmt.Errorf("%w: delimiter and quote must differ", ErrInvalidConfiguration)
	}
	if c.BufferSize <= 0 {
		return fmt.Errorf("%w: buffer size must be positive", ErrInvalidConfiguration)
	}
	return nil
}
