package scanner

import "strings"

// shortString scans a double-quoted string literal, having already
// consumed the opening quote. Recognized escapes: \n, \\, \[ (expands to
// a bare '['). Returns the raw source text (quotes included) and the
// unescaped value.
func (s *Scanner) shortString() (raw, value string) {
	start := s.off - 1 // include the opening quote already consumed
	var b strings.Builder
	for {
		switch s.cur {
		case '"', -1:
			s.advance()
			return string(s.src[start:s.off]), b.String()
		case '\\':
			s.advance()
			switch s.cur {
			case 'n':
				b.WriteByte('\n')
			case '\\':
				b.WriteByte('\\')
			case '[':
				b.WriteByte('[')
			default:
				s.errorf(s.off, "unknown escape sequence \\%c", s.cur)
				b.WriteRune(s.cur)
			}
			s.advance()
		default:
			b.WriteRune(s.cur)
			s.advance()
		}
	}
}

// quotedIdent scans a single-quoted identifier, having already consumed
// the opening quote. On round-trip printing a single quote inside the
// body is re-encoded as a double quote and vice versa, so a double quote
// here is read back as a literal single quote.
func (s *Scanner) quotedIdent() (raw, value string) {
	start := s.off - 1
	var b strings.Builder
	for {
		switch s.cur {
		case '\'', -1:
			s.advance()
			return string(s.src[start:s.off]), b.String()
		case '"':
			b.WriteByte('\'')
			s.advance()
		default:
			b.WriteRune(s.cur)
			s.advance()
		}
	}
}

// repr scans a backtick-quoted ReprVar, having already consumed the
// opening backtick.
func (s *Scanner) repr() string {
	start := s.off
	for s.cur != '`' && s.cur != -1 {
		s.advance()
	}
	raw := string(s.src[start:s.off])
	if s.cur == '`' {
		s.advance()
	}
	return raw
}
