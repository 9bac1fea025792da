package csvcodec

// cursor is the mutable byte cursor owned exclusively by a Tokenizer. It
// holds a borrowed immutable byte span, a 0-based position, a 1-based line
// counter, and the offset the current record started at. Across Reader
// buffer refills the cursor is kept and only its span is replaced by the
// grown buffer (Tokenizer.GrowSpan); stripping a BOM rebuilds it (see
// reader.go).
type cursor struct {
	span        []byte
	pos         int
	line        int
	recordStart int
	// atEndOfInput is set by the owning Reader once the underlying byte
	// source has been fully drained, so the tokenizer can distinguish
	// "buffer temporarily exhausted, grow and retry" from "this really is
	// the last byte that will ever arrive".
	atEndOfInput bool
}

func newCursor(span []byte) cursor {
	return cursor{span: span, pos: 0, line: 1, recordStart: 0}
}

func (c *cursor) atEnd() bool {
	return c.pos >= len(c.span)
}

func (c *cursor) peek() (byte, bool) {
	if c.atEnd() {
		return 0, false
	}
	return c.span[c.pos], true
}

// advanceLine increments the line counter. It is called exactly once per
// observed line terminator outside quoted context (spec.md §4.2 "Line
// termination").
func (c *cursor) advanceLine() {
	c.line++
}

// consumeTerminator advances past a CRLF, LF, or lone CR terminator
// starting at c.pos, reporting whether one was found there.
func (c *cursor) consumeTerminator() bool {
	if c.atEnd() {
		return false
	}
	b := c.span[c.pos]
	switch b {
	case '\n':
		c.pos++
		c.advanceLine()
		return true
	case '\r':
		c.pos++
		if !c.atEnd() && c.span[c.pos] == '\n' {
			c.pos++
		}
		c.advanceLine()
		return true
	}
	return false
}
