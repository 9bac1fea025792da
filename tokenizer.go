package csvcodec

// FieldView is a borrowed sub-slice of the input for unquoted fields, or
// for quoted fields without embedded doubled quotes. When a quoted field
// contains doubled quotes, NeedsUnescape is set and Unescape must be
// called to materialize the folded value into a scratch buffer.
type FieldView struct {
	Data          []byte
	NeedsUnescape bool
	quote         byte
}

// Unescape folds doubled quote bytes into a single quote byte, writing
// into scratch (which is truncated to length 0 and reused). If the view
// does not need unescaping, Data is returned unchanged and scratch is
// untouched.
func (f FieldView) Unescape(scratch []byte) []byte {
	if !f.NeedsUnescape {
		return f.Data
	}
	scratch = scratch[:0]
	data := f.Data
	for i := 0; i < len(data); i++ {
		b := data[i]
		if b == f.quote && i+1 < len(data) && data[i+1] == f.quote {
			scratch = append(scratch, f.quote)
			i++
			continue
		}
		scratch = append(scratch, b)
	}
	return scratch
}

// fieldOutcome reports how a single TryReadField call concluded.
type fieldOutcome int

const (
	fieldRead fieldOutcome = iota
	fieldEndOfRecord
	fieldEndOfSpan
	fieldCommentSkipped
	fieldTrueEOF
)

// recordOutcome reports how TryReadRecord concluded.
type recordOutcome int

const (
	recordOK recordOutcome = iota
	recordNeedMoreInput
	recordError
)

// Tokenizer implements the C2 field state machine (spec.md §4.2) over a
// single borrowed byte span. A Reader owns growing that span on refill
// and preserves in-quote state across the growth via GrowSpan, since the
// cursor position and line counter stay valid as long as the new span's
// prefix is byte-identical to the old one (true for append-grown buffers).
type Tokenizer struct {
	cfg     ReaderConfig
	cur     cursor
	inQuote bool
}

// NewTokenizer binds a Tokenizer to span under cfg.
func NewTokenizer(cfg ReaderConfig, span []byte) *Tokenizer {
	return &Tokenizer{cfg: cfg, cur: newCursor(span)}
}

// GrowSpan rebinds the tokenizer to a larger span sharing the same
// prefix bytes as the old one (e.g. after appending freshly-read bytes).
// Position, line counter, and record-start offset are unaffected.
func (t *Tokenizer) GrowSpan(span []byte) {
	t.cur.span = span
}

func (t *Tokenizer) CurrentLine() int    { return t.cur.line }
func (t *Tokenizer) Position() int       { return t.cur.pos }
func (t *Tokenizer) IsEndOfStream() bool { return t.cur.atEnd() }
func (t *Tokenizer) InQuote() bool       { return t.inQuote }
func (t *Tokenizer) RecordStart() int    { return t.cur.recordStart }

// SetAtEndOfInput tells the tokenizer whether the underlying byte source
// has been fully drained, so a span exhaustion mid-quote can be resolved
// immediately under Lenient mode instead of requesting a futile refill.
func (t *Tokenizer) SetAtEndOfInput(v bool) { t.cur.atEndOfInput = v }

// MarkRecordStart tells the tokenizer the current position begins a new
// logical record. The framer calls this after consuming a terminator.
func (t *Tokenizer) MarkRecordStart() { t.cur.recordStart = t.cur.pos }

// ConsumeTerminator advances past a CRLF, LF, or lone CR terminator
// sitting at the current position, advancing the line counter once.
func (t *Tokenizer) ConsumeTerminator() bool {
	return t.cur.consumeTerminator()
}

// SkipToNextRecord advances the cursor past the next line terminator
// found outside quoted context, without yielding fields. Used by the
// comment skipping and by Reader.SkipRecord. Returns false if the
// span ends before a terminator is found (the framer must grow and
// retry).
func (t *Tokenizer) SkipToNextRecord() bool {
	c := &t.cur
	for {
		var rel int
		if t.cfg.Mode == IgnoreQuotes {
			rel = IndexOfAny(c.span[c.pos:], '\r', '\n')
		} else {
			rel = IndexOfAny(c.span[c.pos:], t.cfg.Quote, '\r', '\n')
		}
		idx := c.pos + rel
		if idx >= len(c.span) {
			if c.atEndOfInput {
				c.pos = len(c.span)
				t.MarkRecordStart()
				return true
			}
			return false
		}
		b := c.span[idx]
		if b == t.cfg.Quote && t.cfg.Mode != IgnoreQuotes {
			// Skip to the matching (or absent) closing quote first.
			close := findClosingQuoteFrom(c.span, idx+1, t.cfg.Quote)
			if close < 0 {
				if c.atEndOfInput {
					c.pos = len(c.span)
					t.MarkRecordStart()
					return true
				}
				return false
			}
			c.pos = close + 1
			continue
		}
		c.pos = idx
		c.consumeTerminator()
		t.MarkRecordStart()
		return true
	}
}

func findClosingQuoteFrom(span []byte, from int, quote byte) int {
	for {
		rel := IndexOfAny(span[from:], quote)
		idx := from + rel
		if idx >= len(span) {
			return -1
		}
		if idx+1 < len(span) && span[idx+1] == quote {
			from = idx + 2
			continue
		}
		return idx
	}
}

// TryReadField produces the next field within the current record,
// consuming the trailing delimiter if present. fieldEndOfRecord leaves an
// unconsumed terminator at the cursor for the caller to consume.
// fieldEndOfSpan means the span ran out before the field's boundary could
// be determined; the cursor is left unchanged so a retry after GrowSpan
// re-reads the same field from scratch.
func (t *Tokenizer) TryReadField() (FieldView, fieldOutcome, error) {
	c := &t.cur
	if c.atEnd() {
		switch {
		case c.atEndOfInput && c.pos == c.recordStart:
			// Nothing left anywhere: a clean end of stream, not a field.
			return FieldView{}, fieldTrueEOF, nil
		case !c.atEndOfInput:
			return FieldView{}, fieldEndOfSpan, nil
		}
		// atEndOfInput but mid-record (e.g. right after a trailing
		// delimiter): fall through and yield the final, empty field.
	}

	if t.cfg.AllowComments && c.pos == c.recordStart {
		if b, ok := c.peek(); ok && b == t.cfg.CommentPrefix {
			if !t.SkipToNextRecord() {
				c.pos = c.recordStart
				return FieldView{}, fieldEndOfSpan, nil
			}
			if c.atEnd() && c.atEndOfInput && c.pos == c.recordStart {
				return FieldView{}, fieldTrueEOF, nil
			}
			return FieldView{}, fieldCommentSkipped, nil
		}
	}

	if b, ok := c.peek(); ok && b == t.cfg.Quote && t.cfg.Mode != IgnoreQuotes {
		t.inQuote = true
		return t.readQuotedField()
	}
	return t.readUnquotedField()
}

func (t *Tokenizer) readUnquotedField() (FieldView, fieldOutcome, error) {
	c := &t.cur
	start := c.pos
	var rel int
	if t.cfg.Mode == IgnoreQuotes {
		rel = IndexOfAny(c.span[start:], t.cfg.Delimiter, '\r', '\n')
	} else {
		rel = IndexOfAny(c.span[start:], t.cfg.Delimiter, t.cfg.Quote, '\r', '\n')
	}
	idx := start + rel
	if idx >= len(c.span) {
		if c.atEndOfInput {
			view := t.trimUnquoted(c.span[start:len(c.span)])
			c.pos = len(c.span)
			return view, fieldEndOfRecord, nil
		}
		return FieldView{}, fieldEndOfSpan, nil
	}
	switch c.span[idx] {
	case t.cfg.Delimiter:
		view := t.trimUnquoted(c.span[start:idx])
		c.pos = idx + 1
		return view, fieldRead, nil
	case '\r', '\n':
		view := t.trimUnquoted(c.span[start:idx])
		c.pos = idx
		return view, fieldEndOfRecord, nil
	default: // bare quote byte inside an unquoted field
		view := t.trimUnquoted(c.span[start:idx])
		c.pos = idx
		if t.cfg.Mode == Lenient {
			// Lenient: treat the stray quote as ordinary content and keep
			// scanning for the real boundary.
			fv, outcome, err := t.continueLenientUnquoted(view)
			if outcome == fieldEndOfSpan {
				c.pos = start // re-read the whole field after GrowSpan
			}
			return fv, outcome, err
		}
		return view, fieldRead, ErrBareQuote
	}
}

// continueLenientUnquoted absorbs a bare quote byte into the field value
// and resumes scanning for the delimiter or terminator.
func (t *Tokenizer) continueLenientUnquoted(prefix FieldView) (FieldView, fieldOutcome, error) {
	c := &t.cur
	merged := append([]byte(nil), prefix.Data...)
	merged = append(merged, t.cfg.Quote)
	c.pos++
	for {
		start := c.pos
		rel := IndexOfAny(c.span[start:], t.cfg.Delimiter, t.cfg.Quote, '\r', '\n')
		idx := start + rel
		if idx >= len(c.span) {
			if c.atEndOfInput {
				merged = append(merged, c.span[start:len(c.span)]...)
				c.pos = len(c.span)
				return FieldView{Data: merged, quote: t.cfg.Quote}, fieldEndOfRecord, nil
			}
			return FieldView{}, fieldEndOfSpan, nil
		}
		merged = append(merged, c.span[start:idx]...)
		switch c.span[idx] {
		case t.cfg.Delimiter:
			c.pos = idx + 1
			return FieldView{Data: merged, quote: t.cfg.Quote}, fieldRead, nil
		case '\r', '\n':
			c.pos = idx
			return FieldView{Data: merged, quote: t.cfg.Quote}, fieldEndOfRecord, nil
		default:
			merged = append(merged, t.cfg.Quote)
			c.pos = idx + 1
		}
	}
}

func (t *Tokenizer) trimUnquoted(b []byte) FieldView {
	if t.cfg.TrimFields {
		start, end := 0, len(b)
		for start < end && (b[start] == ' ' || b[start] == '\t') {
			start++
		}
		for end > start && (b[end-1] == ' ' || b[end-1] == '\t') {
			end--
		}
		b = b[start:end]
	}
	return FieldView{Data: b, quote: t.cfg.Quote}
}

func (t *Tokenizer) readQuotedField() (FieldView, fieldOutcome, error) {
	c := &t.cur
	openPos := c.pos
	contentStart := openPos + 1
	pos := contentStart
	needsUnescape := false

	for {
		rel := IndexOfAny(c.span[pos:], t.cfg.Quote)
		idx := pos + rel
		if idx >= len(c.span) {
			if c.atEndOfInput {
				if t.cfg.Mode == Lenient {
					content := c.span[contentStart:len(c.span)]
					c.pos = len(c.span)
					t.inQuote = false
					return FieldView{Data: content, NeedsUnescape: needsUnescape, quote: t.cfg.Quote}, fieldEndOfRecord, nil
				}
				return FieldView{}, fieldEndOfSpan, ErrUnterminatedQuote
			}
			return FieldView{}, fieldEndOfSpan, nil
		}
		if idx+1 >= len(c.span) {
			if c.atEndOfInput {
				// a lone quote as the very last byte of input closes the field.
				content := c.span[contentStart:idx]
				c.pos = idx + 1
				t.inQuote = false
				return t.finishAfterClosingQuote(FieldView{Data: content, NeedsUnescape: needsUnescape, quote: t.cfg.Quote})
			}
			// ambiguous: could be the closing quote, or the first half of
			// a doubled pair split across a refill boundary.
			return FieldView{}, fieldEndOfSpan, nil
		}
		if c.span[idx+1] == t.cfg.Quote {
			needsUnescape = true
			pos = idx + 2
			continue
		}
		content := c.span[contentStart:idx]
		c.pos = idx + 1
		t.inQuote = false
		view := FieldView{Data: content, NeedsUnescape: needsUnescape, quote: t.cfg.Quote}
		fv, outcome, err := t.finishAfterClosingQuote(view)
		if outcome == fieldEndOfSpan {
			// re-read the whole field from its opening quote after GrowSpan
			c.pos = openPos
			t.inQuote = true
		}
		return fv, outcome, err
	}
}

func (t *Tokenizer) finishAfterClosingQuote(view FieldView) (FieldView, fieldOutcome, error) {
	c := &t.cur
	if t.cfg.TrimFields {
		c.pos = SkipWhileWhitespace(c.span, c.pos)
	}
	if c.atEnd() {
		if c.atEndOfInput {
			return view, fieldEndOfRecord, nil
		}
		// the byte after the closing quote has not arrived yet
		return FieldView{}, fieldEndOfSpan, nil
	}
	switch c.span[c.pos] {
	case t.cfg.Delimiter:
		c.pos++
		return view, fieldRead, nil
	case '\r', '\n':
		return view, fieldEndOfRecord, nil
	default:
		if t.cfg.Mode == Lenient {
			return t.appendStrayBytes(view)
		}
		return view, fieldRead, ErrQuote
	}
}

// appendStrayBytes implements Lenient recovery for AfterClosingQuote:
// bytes following the closing quote up to the next delimiter/terminator
// are appended to the field value verbatim.
func (t *Tokenizer) appendStrayBytes(view FieldView) (FieldView, fieldOutcome, error) {
	c := &t.cur
	start := c.pos
	rel := IndexOfAny(c.span[start:], t.cfg.Delimiter, '\r', '\n')
	idx := start + rel
	if idx >= len(c.span) {
		if c.atEndOfInput {
			merged := append(view.Unescape(nil), c.span[start:len(c.span)]...)
			c.pos = len(c.span)
			return FieldView{Data: merged, quote: t.cfg.Quote}, fieldEndOfRecord, nil
		}
		return FieldView{}, fieldEndOfSpan, nil
	}
	merged := append(view.Unescape(nil), c.span[start:idx]...)
	nv := FieldView{Data: merged, quote: t.cfg.Quote}
	if c.span[idx] == t.cfg.Delimiter {
		c.pos = idx + 1
		return nv, fieldRead, nil
	}
	c.pos = idx
	return nv, fieldEndOfRecord, nil
}

// TryReadRecord fills dst with the field views of the next record and
// reports how it concluded:
//   - recordOK: dst holds a complete record; the terminator (if any) is
//     still unconsumed at the cursor — call ConsumeTerminator.
//   - recordNeedMoreInput: the span ran out before the record's boundary
//     could be determined; GrowSpan and call TryReadRecord again with the
//     same dst.
//   - recordError: a field-level error occurred; dst holds whatever was
//     read so far, including the offending field.
//
// An empty dst with recordOK and no error signals true end of stream.
//
// dst is only truncated to empty when the cursor sits at the current
// record's start (a fresh record, as opposed to a grow retry resuming a
// record whose leading fields were already appended to dst by an earlier
// call): retrying with a non-empty dst must preserve those fields, since
// the cursor has already advanced past them and won't produce them again.
func (t *Tokenizer) TryReadRecord(dst []FieldView) ([]FieldView, recordOutcome, error) {
	if t.cur.pos == t.cur.recordStart {
		dst = dst[:0]
	}
	for {
		view, outcome, err := t.TryReadField()
		switch outcome {
		case fieldCommentSkipped:
			continue
		case fieldTrueEOF:
			return dst, recordOK, nil
		case fieldEndOfSpan:
			return dst, recordNeedMoreInput, err
		case fieldEndOfRecord:
			dst = append(dst, view)
			return dst, recordOK, err
		default: // fieldRead
			dst = append(dst, view)
			if err != nil {
				return dst, recordError, err
			}
		}
	}
}
