package schema

import (
	"fmt"
	"math/big"
	"strconv"
	"time"

	csvcodec "github.com/csvbind/csvbind"
)

// ValueKind enumerates the value kinds a FieldDescriptor may declare
// (spec.md §3, §4.5's "Supported value kinds (minimum)").
type ValueKind int

const (
	Bool ValueKind = iota
	I8
	I16
	I32
	I64
	U8
	U16
	U32
	U64
	F32
	F64
	Decimal
	Char
	String
	Instant
	InstantWithOffset
	Uuid
	Duration
)

func (k ValueKind) String() string {
	switch k {
	case Bool:
		return "Bool"
	case I8:
		return "I8"
	case I16:
		return "I16"
	case I32:
		return "I32"
	case I64:
		return "I64"
	case U8:
		return "U8"
	case U16:
		return "U16"
	case U32:
		return "U32"
	case U64:
		return "U64"
	case F32:
		return "F32"
	case F64:
		return "F64"
	case Decimal:
		return "Decimal"
	case Char:
		return "Char"
	case String:
		return "String"
	case Instant:
		return "Instant"
	case InstantWithOffset:
		return "InstantWithOffset"
	case Uuid:
		return "Uuid"
	case Duration:
		return "Duration"
	default:
		return "Unknown"
	}
}

// isSupportedValueKind reports whether k is in the set spec.md §4.5
// names as natively supported (used by Build's S-03 diagnostic).
func isSupportedValueKind(k ValueKind) bool {
	return k >= Bool && k <= Duration
}

// decodeValue decodes data (already unescaped, never containing the
// surrounding quotes) per kind, using format when the kind is
// time-shaped. A nil return with a nil error means "absent" and is only
// produced when nullable is true and data is empty.
func decodeValue(kind ValueKind, data []byte, format string, nullable bool) (any, error) {
	if nullable && len(data) == 0 {
		return nil, nil
	}
	s := string(data)
	switch kind {
	case Bool:
		return strconv.ParseBool(s)
	case I8:
		v, err := strconv.ParseInt(s, 10, 8)
		return int8(v), err
	case I16:
		v, err := strconv.ParseInt(s, 10, 16)
		return int16(v), err
	case I32:
		v, err := strconv.ParseInt(s, 10, 32)
		return int32(v), err
	case I64:
		return strconv.ParseInt(s, 10, 64)
	case U8:
		v, err := strconv.ParseUint(s, 10, 8)
		return uint8(v), err
	case U16:
		v, err := strconv.ParseUint(s, 10, 16)
		return uint16(v), err
	case U32:
		v, err := strconv.ParseUint(s, 10, 32)
		return uint32(v), err
	case U64:
		return strconv.ParseUint(s, 10, 64)
	case F32:
		v, err := strconv.ParseFloat(s, 32)
		return float32(v), err
	case F64:
		return strconv.ParseFloat(s, 64)
	case Decimal:
		return decodeDecimal(s)
	case Char:
		r := []rune(s)
		if len(r) != 1 {
			return nil, fmt.Errorf("schema: %q is not a single character", s)
		}
		return r[0], nil
	case String:
		return s, nil
	case Instant:
		return decodeInstant(s, format)
	case InstantWithOffset:
		return decodeInstant(s, format)
	case Uuid:
		return decodeUUID(s)
	case Duration:
		return time.ParseDuration(s)
	default:
		return nil, fmt.Errorf("schema: unsupported value kind %s", kind)
	}
}

// encodeValue formats v (the boxed value a field's Get closure returned)
// per kind. A nil v (an absent nullable field) always formats to an
// empty field, matching spec.md §4.5's emit routine contract.
func encodeValue(kind ValueKind, v any, format string) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	switch kind {
	case Bool:
		return strconv.AppendBool(nil, v.(bool)), nil
	case I8:
		return strconv.AppendInt(nil, int64(v.(int8)), 10), nil
	case I16:
		return strconv.AppendInt(nil, int64(v.(int16)), 10), nil
	case I32:
		return strconv.AppendInt(nil, int64(v.(int32)), 10), nil
	case I64:
		return strconv.AppendInt(nil, v.(int64), 10), nil
	case U8:
		return strconv.AppendUint(nil, uint64(v.(uint8)), 10), nil
	case U16:
		return strconv.AppendUint(nil, uint64(v.(uint16)), 10), nil
	case U32:
		return strconv.AppendUint(nil, uint64(v.(uint32)), 10), nil
	case U64:
		return strconv.AppendUint(nil, v.(uint64), 10), nil
	case F32:
		return strconv.AppendFloat(nil, float64(v.(float32)), 'g', -1, 32), nil
	case F64:
		return strconv.AppendFloat(nil, v.(float64), 'g', -1, 64), nil
	case Decimal:
		return []byte(v.(*big.Rat).RatString()), nil
	case Char:
		return []byte(string(v.(rune))), nil
	case String:
		return []byte(v.(string)), nil
	case Instant, InstantWithOffset:
		t := v.(time.Time)
		if format != "" {
			return t.AppendFormat(nil, format), nil
		}
		return t.AppendFormat(nil, time.RFC3339Nano), nil
	case Uuid:
		return csvcodec.AppendUUID(nil, v.([16]byte)), nil
	case Duration:
		return []byte(v.(time.Duration).String()), nil
	default:
		return nil, fmt.Errorf("schema: unsupported value kind %s", kind)
	}
}

func decodeInstant(s, format string) (time.Time, error) {
	if format != "" {
		return time.Parse(format, s)
	}
	return time.Parse(time.RFC3339Nano, s)
}

// decodeDecimal parses an arbitrary-precision decimal literal. No decimal
// library exists anywhere in the retrieval pack this module was grounded
// on, so this uses math/big.Rat directly (see DESIGN.md).
func decodeDecimal(s string) (*big.Rat, error) {
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return nil, fmt.Errorf("schema: %q is not a valid decimal literal", s)
	}
	return r, nil
}

// decodeUUID parses the canonical 8-4-4-4-12 hyphenated hex form. No UUID
// library exists anywhere in the retrieval pack this module was grounded
// on, so this validates the layout and decodes hex digits directly (see
// DESIGN.md).
func decodeUUID(s string) ([16]byte, error) {
	var out [16]byte
	if len(s) != 36 {
		return out, fmt.Errorf("schema: %q is not a 36-character UUID", s)
	}
	for i, want := range "xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx" {
		if want == '-' {
			if s[i] != '-' {
				return out, fmt.Errorf("schema: %q is not a valid UUID layout", s)
			}
		}
	}
	hexPart := s[0:8] + s[9:13] + s[14:18] + s[19:23] + s[24:36]
	for i := 0; i < 16; i++ {
		hi, err1 := hexDigit(hexPart[i*2])
		lo, err2 := hexDigit(hexPart[i*2+1])
		if err1 != nil || err2 != nil {
			return out, fmt.Errorf("schema: %q contains a non-hex digit", s)
		}
		out[i] = hi<<4 | lo
	}
	return out, nil
}

func hexDigit(b byte) (byte, error) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', nil
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, nil
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, nil
	default:
		return 0, fmt.Errorf("schema: invalid hex digit %q", b)
	}
}
