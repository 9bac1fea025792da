package csvcodec

import (
	"context"
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"
)

func readAllViaReader(t *testing.T, cfg ReaderConfig, input string) ([][]string, []string, error) {
	t.Helper()
	r, err := NewReader(strings.NewReader(input), cfg)
	if err != nil {
		t.Fatalf("NewReader error: %v", err)
	}
	var out [][]string
	for {
		fields, err := r.Read(context.Background())
		if err == io.EOF {
			return out, r.Header, nil
		}
		if err != nil {
			return out, r.Header, err
		}
		rec := make([]string, len(fields))
		for i, f := range fields {
			rec[i] = string(f.Unescape(nil))
		}
		out = append(out, rec)
	}
}

func TestReader_Simple(t *testing.T) {
	cfg := DefaultReaderConfig()
	got, _, err := readAllViaReader(t, cfg, "a,b,c\n1,2,3\nx,y,z\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := [][]string{{"a", "b", "c"}, {"1", "2", "3"}, {"x", "y", "z"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestReader_NoTrailingNewline(t *testing.T) {
	cfg := DefaultReaderConfig()
	got, _, err := readAllViaReader(t, cfg, "a,b,c")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := [][]string{{"a", "b", "c"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestReader_QuotedMultilineField(t *testing.T) {
	cfg := DefaultReaderConfig()
	got, _, err := readAllViaReader(t, cfg, "\"hello\nworld\",b\nc,d\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := [][]string{{"hello\nworld", "b"}, {"c", "d"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestReader_HeaderConsumedSeparately(t *testing.T) {
	cfg := DefaultReaderConfig()
	cfg.HasHeader = true
	got, header, err := readAllViaReader(t, cfg, "name,age\nalice,30\nbob,40\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantHeader := []string{"name", "age"}
	if !reflect.DeepEqual(header, wantHeader) {
		t.Errorf("header = %v, want %v", header, wantHeader)
	}
	want := [][]string{{"alice", "30"}, {"bob", "40"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestReader_SkipBOM(t *testing.T) {
	cfg := DefaultReaderConfig()
	cfg.SkipBOM = true
	input := "\xEF\xBB\xBFa,b\n"
	got, _, err := readAllViaReader(t, cfg, input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := [][]string{{"a", "b"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestReader_SkipEmptyLines(t *testing.T) {
	cfg := DefaultReaderConfig()
	cfg.SkipEmptyLines = true
	got, _, err := readAllViaReader(t, cfg, "a,b\n\nc,d\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := [][]string{{"a", "b"}, {"c", "d"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestReader_FieldCountMismatch(t *testing.T) {
	cfg := DefaultReaderConfig()
	cfg.FieldsPerRecord = 3
	_, _, err := readAllViaReader(t, cfg, "a,b,c\nx,y\n")
	if err == nil {
		t.Fatal("expected a field count mismatch error")
	}
}

func TestReader_FieldCountInferredFromFirstRecord(t *testing.T) {
	cfg := DefaultReaderConfig()
	cfg.FieldsPerRecord = 0
	_, _, err := readAllViaReader(t, cfg, "a,b,c\nx,y\n")
	if err == nil {
		t.Fatal("expected a field count mismatch error once inferred from the first record")
	}
}

func TestReader_StrictBareQuoteErrors(t *testing.T) {
	cfg := DefaultReaderConfig()
	_, _, err := readAllViaReader(t, cfg, `a,b"c,d`+"\n")
	if err == nil {
		t.Fatal("expected a bare quote error in Strict mode")
	}
}

func TestReader_StrictUnterminatedQuoteAtEOFDoesNotHang(t *testing.T) {
	cfg := DefaultReaderConfig()
	_, _, err := readAllViaReader(t, cfg, `"open`)
	if err == nil {
		t.Fatal("expected an unterminated quote error in Strict mode, got nil")
	}
	if !errors.Is(err, ErrUnterminatedQuote) {
		t.Errorf("got %v, want an error wrapping ErrUnterminatedQuote", err)
	}
}

func TestReader_LenientBareQuoteRecovers(t *testing.T) {
	cfg := DefaultReaderConfig()
	cfg.Mode = Lenient
	got, _, err := readAllViaReader(t, cfg, `a,b"c,d`+"\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := [][]string{{"a", `b"c`, "d"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestReader_RecordSpanningMultipleGrows(t *testing.T) {
	cfg := DefaultReaderConfig()
	field := strings.Repeat("x", 100*1024)
	input := "a," + field + ",c\n"
	r, err := NewReader(&slowReader{data: []byte(input), chunk: 4096}, cfg)
	if err != nil {
		t.Fatalf("NewReader error: %v", err)
	}
	fields, err := r.Read(context.Background())
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	if len(fields) != 3 {
		t.Fatalf("got %d fields, want 3", len(fields))
	}
	if string(fields[0].Unescape(nil)) != "a" {
		t.Errorf("field 0 = %q, want %q", fields[0].Unescape(nil), "a")
	}
	if string(fields[1].Unescape(nil)) != field {
		t.Errorf("field 1 has wrong length: got %d, want %d", len(fields[1].Unescape(nil)), len(field))
	}
	if string(fields[2].Unescape(nil)) != "c" {
		t.Errorf("field 2 = %q, want %q", fields[2].Unescape(nil), "c")
	}
}

// slowReader feeds data in small fixed chunks, forcing the Reader's
// buffer to grow multiple times across a single record.
type slowReader struct {
	data  []byte
	chunk int
	pos   int
}

func (r *slowReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	n := r.chunk
	if n > len(p) {
		n = len(p)
	}
	if r.pos+n > len(r.data) {
		n = len(r.data) - r.pos
	}
	copy(p, r.data[r.pos:r.pos+n])
	r.pos += n
	return n, nil
}
