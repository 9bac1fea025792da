package schema

import (
	"context"
	"errors"
	"io"

	csvcodec "github.com/csvbind/csvbind"
)

// ErrorPolicy selects how a Decoder reacts to a per-record decode
// failure (spec.md §7).
type ErrorPolicy int

const (
	// FailFast aborts the session on the first error.
	FailFast ErrorPolicy = iota
	// SkipRow discards the malformed record and resumes at the next one.
	SkipRow
	// Collect behaves like SkipRow but accumulates the error, bounded by
	// Decoder.MaxErrorCount, instead of discarding it silently.
	Collect
)

// ErrorAction is returned by an optional per-error callback to force
// early termination regardless of the configured ErrorPolicy.
type ErrorAction int

const (
	ActionContinue ErrorAction = iota
	ActionStop
)

// RecordError pairs a decode failure with the record ordinal (0-based,
// counting only records actually yielded to decode) it occurred on.
// Grounded on eltorocorp-permissivecsv's Alteration accumulator shape,
// narrowed to the single "this record failed" case this schema's error
// policy needs.
type RecordError struct {
	RecordOrdinal int
	Err           error
}

func (e RecordError) Error() string { return e.Err.Error() }
func (e RecordError) Unwrap() error { return e.Err }

// Decoder composes a csvcodec.Reader with a *Binding[T], applying header
// binding and an ErrorPolicy so callers see either a clean typed record
// stream or a bounded error log (spec.md §7 "user-visible behavior").
type Decoder[T any] struct {
	r       *csvcodec.Reader
	binding *Binding[T]
	perm    HeaderPermutation
	scratch []byte

	Policy        ErrorPolicy
	MaxErrorCount int
	OnError       func(RecordError) ErrorAction

	errs    []RecordError
	ordinal int
}

// NewDecoder constructs a Decoder. If r was built with ReaderConfig.HasHeader
// set, the header permutation is computed lazily on the first Next call
// once binding.BuildHeaderPermutation can run against r.Header.
func NewDecoder[T any](r *csvcodec.Reader, binding *Binding[T]) *Decoder[T] {
	return &Decoder[T]{r: r, binding: binding, MaxErrorCount: 1000}
}

// Errors returns the accumulated errors from Collect mode, in the order
// they occurred.
func (d *Decoder[T]) Errors() []RecordError { return d.errs }

// Next decodes the next record into dst, returning io.EOF once the
// stream is exhausted (after applying Policy to any intervening
// decode failures).
func (d *Decoder[T]) Next(ctx context.Context, dst *T) error {
	for {
		fields, err := d.r.Read(ctx)
		if err != nil {
			return err // includes io.EOF
		}
		if d.perm == nil && d.r.Header != nil && len(d.r.Header) > 0 {
			perm, permErr := d.binding.BuildHeaderPermutation(d.r.Header, d.Policy != FailFast)
			if permErr != nil {
				return permErr
			}
			d.perm = perm
		}

		var decodeErr error
		if d.perm != nil {
			decodeErr = d.binding.ParseRecordPermuted(fields, d.perm, &d.scratch, dst)
		} else {
			decodeErr = d.binding.ParseRecord(fields, &d.scratch, dst)
		}

		if decodeErr == nil {
			d.ordinal++
			return nil
		}

		recErr := RecordError{RecordOrdinal: d.ordinal, Err: decodeErr}
		d.ordinal++

		if d.OnError != nil && d.OnError(recErr) == ActionStop {
			return recErr
		}

		switch d.Policy {
		case FailFast:
			return decodeErr
		case SkipRow:
			// d.r.Read already consumed the failed record's terminator and
			// advanced the cursor to the start of the next record, so there
			// is nothing left to skip here.
			continue
		case Collect:
			if len(d.errs) < d.MaxErrorCount {
				d.errs = append(d.errs, recErr)
			}
			continue
		default:
			return decodeErr
		}
	}
}

// ReadAll decodes every remaining record into a slice, applying Policy
// throughout. With FailFast it returns on the first error; with SkipRow
// or Collect it returns the full surviving sequence (plus, for Collect,
// whatever Errors() then reports).
func (d *Decoder[T]) ReadAll(ctx context.Context) ([]T, error) {
	var out []T
	for {
		var v T
		err := d.Next(ctx, &v)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return out, err
		}
		out = append(out, v)
	}
}
