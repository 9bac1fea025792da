package csvcodec

import (
	"testing"
	"time"
)

func TestEmitter_WriteFieldBytes(t *testing.T) {
	cfg := DefaultWriterConfig()
	em := NewEmitter(cfg)
	em.WriteFieldBytes([]byte("a"))
	em.WriteFieldBytes([]byte("b,c"))
	em.WriteFieldBytes([]byte(`d"e`))
	em.WriteEndOfRecord()

	want := "a,\"b,c\",\"d\"\"e\"\n"
	if got := string(em.Bytes()); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestEmitter_QuoteNever(t *testing.T) {
	cfg := DefaultWriterConfig()
	cfg.QuotePolicy = QuoteNever
	em := NewEmitter(cfg)
	em.WriteFieldBytes([]byte("a,b"))
	em.WriteEndOfRecord()
	want := "a,b\n"
	if got := string(em.Bytes()); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestEmitter_QuoteAll(t *testing.T) {
	cfg := DefaultWriterConfig()
	cfg.QuotePolicy = QuoteAll
	em := NewEmitter(cfg)
	em.WriteFieldBytes([]byte("a"))
	em.WriteFieldBytes([]byte("1"))
	em.WriteEndOfRecord()
	want := `"a","1"` + "\n"
	if got := string(em.Bytes()); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestEmitter_CRLFNewline(t *testing.T) {
	cfg := DefaultWriterConfig()
	cfg.Newline = NewlineCRLF
	em := NewEmitter(cfg)
	em.WriteFieldBytes([]byte("a"))
	em.WriteEndOfRecord()
	want := "a\r\n"
	if got := string(em.Bytes()); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestEmitter_TypedFastPaths(t *testing.T) {
	cfg := DefaultWriterConfig()
	em := NewEmitter(cfg)
	em.WriteInt(-42)
	em.WriteUint(7)
	em.WriteFloat(3.5, 64)
	em.WriteBool(true)
	em.WriteEndOfRecord()
	want := "-42,7,3.5,true\n"
	if got := string(em.Bytes()); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestEmitter_WriteInstant(t *testing.T) {
	cfg := DefaultWriterConfig()
	em := NewEmitter(cfg)
	ts := time.Date(2026, 7, 31, 12, 0, 0, 0, time.UTC)
	em.WriteInstant(ts, "")
	em.WriteEndOfRecord()
	want := "2026-07-31T12:00:00Z\n"
	if got := string(em.Bytes()); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestEmitter_WriteDuration(t *testing.T) {
	cfg := DefaultWriterConfig()
	em := NewEmitter(cfg)
	em.WriteDuration(90 * time.Second)
	em.WriteEndOfRecord()
	want := "1m30s\n"
	if got := string(em.Bytes()); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestEmitter_WriteUUID(t *testing.T) {
	cfg := DefaultWriterConfig()
	em := NewEmitter(cfg)
	u := [16]byte{0x55, 0x0e, 0x84, 0x00, 0xe2, 0x9b, 0x41, 0xd4, 0xa7, 0x16, 0x44, 0x66, 0x55, 0x44, 0x00, 0x00}
	em.WriteUUID(u)
	em.WriteEndOfRecord()
	want := "550e8400-e29b-41d4-a716-446655440000\n"
	if got := string(em.Bytes()); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestEmitter_ResetReuse(t *testing.T) {
	cfg := DefaultWriterConfig()
	em := NewEmitter(cfg)
	em.WriteFieldBytes([]byte("a"))
	em.WriteEndOfRecord()
	em.Reset()
	if len(em.Bytes()) != 0 {
		t.Fatalf("Reset did not truncate buffer, got %q", em.Bytes())
	}
	em.WriteFieldBytes([]byte("b"))
	em.WriteEndOfRecord()
	want := "b\n"
	if got := string(em.Bytes()); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
