package schema

// Converter is a user-supplied codec pair for a single field, used
// instead of the built-in ValueKind decoders (spec.md §4.5: "If a
// converter is attached to the field, it is called instead"). Grounded
// on the Marshaler/Unmarshaler interface pair in shapestone-shape-csv's
// marshal.go, narrowed from whole-record to per-field scope since the
// schema binding already owns record-level iteration.
type Converter interface {
	// DecodeField receives the raw, already-unescaped field bytes and
	// returns the typed value the field's Set closure expects.
	DecodeField(data []byte) (any, error)
	// EncodeField receives the typed value from the field's Get closure
	// and returns the raw bytes to write; should_quote is still applied
	// by the emitter afterward.
	EncodeField(v any) ([]byte, error)
}

// ConverterFunc pairs allow a Converter to be built from two ordinary
// functions without declaring a named type, mirroring the common
// func-adapter idiom used across the pack's interface-based converters.
type ConverterFuncs struct {
	Decode func(data []byte) (any, error)
	Encode func(v any) ([]byte, error)
}

func (c ConverterFuncs) DecodeField(data []byte) (any, error) { return c.Decode(data) }
func (c ConverterFuncs) EncodeField(v any) ([]byte, error)    { return c.Encode(v) }
