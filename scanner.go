package csvcodec

// Scanner is the C1 byte-scanning contract: given an immutable byte span
// and up to four needle bytes, locate delimiter/quote/CR/LF structure in
// O(n) time. It never looks across the span boundary.
//
// The implementation is selected at build time: scanner_amd64.go provides
// a wider-word variant gated on CPU feature flags (see golang.org/x/sys/cpu),
// scanner_generic.go provides the scalar fallback used on every other
// architecture. Neither requires GOEXPERIMENT, cgo, or assembly; both are
// pure Go satisfying the same contract, matching the "swappable at build
// time" guidance of spec.md §9.
type Scanner struct{}

// needleSet packs up to four active needle bytes plus a count, avoiding an
// allocation at each call site.
type needleSet struct {
	b     [4]byte
	count int
}

func needles1(a byte) needleSet                      { return needleSet{[4]byte{a, 0, 0, 0}, 1} }
func needles2(a, b byte) needleSet                    { return needleSet{[4]byte{a, b, 0, 0}, 2} }
func needles3(a, b, c byte) needleSet                 { return needleSet{[4]byte{a, b, c, 0}, 3} }
func needles4(a, b, c, d byte) needleSet              { return needleSet{[4]byte{a, b, c, d}, 4} }

// IndexOfAny returns the smallest index in span where any byte in needles
// occurs, or len(span) if none does.
func IndexOfAny(span []byte, needles ...byte) int {
	var ns needleSet
	switch len(needles) {
	case 0:
		return len(span)
	case 1:
		ns = needles1(needles[0])
	case 2:
		ns = needles2(needles[0], needles[1])
	case 3:
		ns = needles3(needles[0], needles[1], needles[2])
	default:
		ns = needles4(needles[0], needles[1], needles[2], needles[3])
	}
	return indexOfAnySet(span, ns)
}

// SkipWhileWhitespace advances pos past ASCII space and tab only, returning
// the new position. It never advances past len(span).
func SkipWhileWhitespace(span []byte, pos int) int {
	for pos < len(span) {
		b := span[pos]
		if b != ' ' && b != '\t' {
			break
		}
		pos++
	}
	return pos
}

// CountQuotes counts occurrences of quote in span; the emitter uses this to
// size output buffers exactly (2 + len + count_quotes(field)).
func CountQuotes(span []byte, quote byte) int {
	n := 0
	for _, b := range span {
		if b == quote {
			n++
		}
	}
	return n
}

// utf8BOM is the three-byte UTF-8 byte-order mark.
var utf8BOM = [3]byte{0xEF, 0xBB, 0xBF}

// StartsWithBOM reports whether span begins with the three-byte UTF-8 BOM.
func StartsWithBOM(span []byte) bool {
	return len(span) >= 3 && span[0] == utf8BOM[0] && span[1] == utf8BOM[1] && span[2] == utf8BOM[2]
}
