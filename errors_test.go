package csvcodec

import (
	"errors"
	"strings"
	"testing"
)

func TestErrorKind_String(t *testing.T) {
	cases := []struct {
		kind ErrorKind
		want string
	}{
		{ErrorKindMalformedField, "MalformedField"},
		{ErrorKindTypeConversion, "TypeConversion"},
		{ErrorKindMissingField, "MissingField"},
		{ErrorKindInvalidHeader, "InvalidHeader"},
		{ErrorKindFieldCountMismatch, "FieldCountMismatch"},
		{ErrorKindUnexpectedEndOfFile, "UnexpectedEndOfFile"},
		{ErrorKindParsingError, "ParsingError"},
		{ErrorKind(99), "Unknown"},
	}
	for _, c := range cases {
		if got := c.kind.String(); got != c.want {
			t.Errorf("ErrorKind(%d).String() = %q, want %q", c.kind, got, c.want)
		}
	}
}

func TestParseError_Error(t *testing.T) {
	err := &ParseError{
		Kind:   ErrorKindFieldCountMismatch,
		Line:   3,
		Column: 7,
		Err:    ErrFieldCount,
	}
	got := err.Error()
	if !strings.Contains(got, "FieldCountMismatch") || !strings.Contains(got, "line 3") || !strings.Contains(got, "column 7") {
		t.Errorf("Error() = %q, missing expected fields", got)
	}
	if strings.Contains(got, "(field") {
		t.Errorf("Error() = %q, unexpected field name rendering", got)
	}
}

func TestParseError_ErrorWithFieldName(t *testing.T) {
	err := &ParseError{
		Kind:      ErrorKindTypeConversion,
		Line:      1,
		Column:    4,
		FieldName: "age",
		Err:       errors.New("invalid integer"),
	}
	got := err.Error()
	if !strings.Contains(got, `field "age"`) {
		t.Errorf("Error() = %q, want it to mention field %q", got, "age")
	}
}

func TestParseError_Unwrap(t *testing.T) {
	inner := errors.New("boom")
	err := &ParseError{Kind: ErrorKindParsingError, Err: inner}
	if !errors.Is(err, inner) {
		t.Errorf("errors.Is(err, inner) = false, want true")
	}
}
