package csvcodec

// shouldQuote implements the C3 quoting decision (spec.md §4.3) for a
// given policy, delimiter and quote byte.
func shouldQuote(field []byte, policy QuotePolicy, delimiter, quote byte) bool {
	switch policy {
	case QuoteNever:
		return false
	case QuoteAll:
		return true
	case QuoteNonNumeric:
		return !isSimpleDecimalLiteral(field)
	default: // QuoteMinimal
		return IndexOfAny(field, delimiter, quote, '\r', '\n') < len(field)
	}
}

// isSimpleDecimalLiteral reports whether field is an optional sign
// followed by digits with at most one dot anywhere among them (".5" and
// "5." both qualify) — the "simple decimal
// literal" spec.md §4.3 exempts from NonNumeric quoting.
func isSimpleDecimalLiteral(field []byte) bool {
	if len(field) == 0 {
		return false
	}
	i := 0
	if field[0] == '+' || field[0] == '-' {
		i++
	}
	if i == len(field) {
		return false
	}
	sawDigit := false
	sawDot := false
	for ; i < len(field); i++ {
		b := field[i]
		switch {
		case b >= '0' && b <= '9':
			sawDigit = true
		case b == '.' && !sawDot:
			sawDot = true
		default:
			return false
		}
	}
	return sawDigit
}

// appendQuoted writes field into dst wrapped in quote bytes, doubling every
// literal quote byte. It does not itself decide whether quoting is needed.
func appendQuoted(dst []byte, field []byte, quote byte) []byte {
	dst = append(dst, quote)
	start := 0
	for i, b := range field {
		if b == quote {
			dst = append(dst, field[start:i+1]...)
			dst = append(dst, quote)
			start = i + 1
		}
	}
	dst = append(dst, field[start:]...)
	dst = append(dst, quote)
	return dst
}

// quotedSize computes the exact number of bytes appendQuoted will write,
// so the sink can be asked for exactly one contiguous span (spec.md §4.3).
func quotedSize(field []byte, quote byte) int {
	return 2 + len(field) + CountQuotes(field, quote)
}
