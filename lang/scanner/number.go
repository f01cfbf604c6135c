package scanner

import (
	"strconv"

	"github.com/fennec-lang/fennec/lang/token"
)

// number scans an integer or float literal. Numbers are decimal; a float
// requires at least one digit after the dot.
func (s *Scanner) number(tokVal *token.Value) token.Token {
	start := s.off
	pos := s.pos()

	for isDecimal(s.cur) {
		s.advance()
	}

	tok := token.INT
	if s.cur == '.' {
		tok = token.FLOAT
		s.advance()
		if !isDecimal(s.cur) {
			s.errorf(s.pos(), "expected digit after decimal point, found %s", describeRune(s.cur))
		}
		for isDecimal(s.cur) {
			s.advance()
		}
	}

	lit := string(s.src[start:s.off])
	*tokVal = token.Value{Raw: lit, Pos: pos}
	switch tok {
	case token.INT:
		v, err := strconv.ParseInt(lit, 10, 64)
		if err != nil {
			s.error(pos, "integer literal value out of range")
		}
		tokVal.Int = v
	case token.FLOAT:
		v, err := strconv.ParseFloat(lit, 64)
		if err != nil {
			s.error(pos, "float literal value out of range")
		}
		tokVal.Float = v
	}
	return tok
}

func describeRune(rn rune) string {
	if rn == -1 {
		return "end of file"
	}
	return strconv.QuoteRune(rn)
}
