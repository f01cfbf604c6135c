package scanner

import (
	"strings"
	"unicode/utf16"

	"github.com/fennec-lang/fennec/lang/token"
)

// stringLit scans a double-quoted string literal. The opening quote has
// already been consumed; pos is its position. It returns the raw text of the
// literal (including quotes) and the interpreted value.
//
// Supported escapes: \" \\ \0 \n \r \t and \uXXXX. Consecutive \uXXXX units
// are accumulated and decoded as UTF-16, so surrogate pairs spanning two
// escapes produce a single rune.
func (s *Scanner) stringLit(pos token.Pos) (lit, val string) {
	var sb strings.Builder
	var units []uint16

	start := s.off - 1 // include the opening quote
	flush := func() {
		if len(units) == 0 {
			return
		}
		for _, r := range utf16.Decode(units) {
			sb.WriteRune(r)
		}
		units = units[:0]
	}

	for {
		switch cur := s.cur; cur {
		case -1, '\n':
			s.error(pos, "string literal not terminated")
			flush()
			return string(s.src[start:s.off]), sb.String()

		case '"':
			s.advance()
			flush()
			return string(s.src[start:s.off]), sb.String()

		case '\\':
			s.advance()
			esc := s.cur
			switch esc {
			case '"', '\\', '0', 'n', 'r', 't':
				flush()
				sb.WriteByte(escapeByte(byte(esc)))
				s.advance()
			case 'u':
				s.advance()
				var code uint16
				for i := 0; i < 4; i++ {
					d, ok := hexDigit(s.cur)
					if !ok {
						s.errorf(s.pos(), "expected 4 hexadecimal digits in unicode escape, found %s", describeRune(s.cur))
						break
					}
					code = code<<4 | uint16(d)
					s.advance()
				}
				units = append(units, code)
			default:
				s.errorf(s.pos(), "unknown escape character %s", describeRune(esc))
				if esc != -1 {
					s.advance()
				}
			}

		default:
			flush()
			sb.WriteRune(cur)
			s.advance()
		}
	}
}

func escapeByte(c byte) byte {
	switch c {
	case '0':
		return 0
	case 'n':
		return '\n'
	case 'r':
		return '\r'
	case 't':
		return '\t'
	}
	return c // '"' and '\\' stand for themselves
}

func hexDigit(rn rune) (byte, bool) {
	switch {
	case '0' <= rn && rn <= '9':
		return byte(rn - '0'), true
	case 'a' <= rn && rn <= 'f':
		return byte(rn-'a') + 10, true
	case 'A' <= rn && rn <= 'F':
		return byte(rn-'A') + 10, true
	}
	return 0, false
}
