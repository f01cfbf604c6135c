// Package scanner implements the lexical scanner that tokenizes source files
// for the parser to consume.
package scanner

import (
	"fmt"
	"go/scanner"
	gotoken "go/token"
	"os"
	"unicode"
	"unicode/utf8"

	"github.com/fennec-lang/fennec/lang/token"
)

// Error and ErrorList are the error types reported by the scanner and reused
// by the parser. They come from the standard library's go/scanner package,
// which implements exactly the positioned-error-list behavior needed here.
type (
	Error     = scanner.Error
	ErrorList = scanner.ErrorList
)

// PrintError prints the list of errors in err to w, one per line, if it is an
// ErrorList, otherwise it prints err itself.
var PrintError = scanner.PrintError

// TokenAndValue combines the token type with the token value in the same
// struct.
type TokenAndValue struct {
	Token token.Token
	Value token.Value
}

// ScanFile is a helper function that reads and tokenizes the source file and
// returns the list of tokens. The error, if non-nil, is an ErrorList.
func ScanFile(filename string) ([]TokenAndValue, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		var el ErrorList
		el.Add(gotoken.Position{Filename: filename}, err.Error())
		return nil, el.Err()
	}
	return Scan(filename, b)
}

// Scan tokenizes src and returns the list of tokens, always terminated by an
// EOF token. The error, if non-nil, is an ErrorList.
func Scan(filename string, src []byte) ([]TokenAndValue, error) {
	var (
		s      Scanner
		tokVal token.Value
		el     ErrorList
	)
	s.Init(filename, src, el.Add)

	var toks []TokenAndValue
	for {
		tok := s.Scan(&tokVal)
		toks = append(toks, TokenAndValue{Token: tok, Value: tokVal})
		if tok == token.EOF {
			break
		}
	}
	el.Sort()
	return toks, el.Err()
}

// Scanner tokenizes a source file.
type Scanner struct {
	// immutable state after Init
	filename string
	src      []byte
	err      func(pos gotoken.Position, msg string)

	// mutable scanning state
	invalidByte byte // when cur==RuneError due to failed utf8 decode, this is the invalid byte
	cur         rune // current character
	off         int  // character offset in bytes of cur
	roff        int  // reading offset in bytes (position after current character)
	line, col   int  // 1-based position of cur
}

// Init initializes the scanner to tokenize a new file.
func (s *Scanner) Init(filename string, src []byte, errHandler func(gotoken.Position, string)) {
	s.filename = filename
	s.src = src
	s.err = errHandler

	s.invalidByte = 0
	s.cur = ' '
	s.off = 0
	s.roff = 0
	s.line = 1
	s.col = 0
	s.advance()
}

// peek returns the byte following the most recently read character without
// advancing the scanner. If the scanner is at EOF, peek returns 0.
func (s *Scanner) peek() byte {
	if s.roff < len(s.src) {
		return s.src[s.roff]
	}
	return 0
}

// read the next Unicode char into s.cur; s.cur < 0 means end-of-file.
func (s *Scanner) advance() {
	if s.cur == '\n' {
		s.line++
		s.col = 0
	}
	if s.roff >= len(s.src) {
		s.off = len(s.src)
		s.cur = -1
		return
	}

	s.off = s.roff
	s.col++

	// fast path if the rune is an ASCII char, no decoding necessary
	s.invalidByte = 0
	r, w := rune(s.src[s.roff]), 1
	if r >= utf8.RuneSelf {
		// not ASCII
		r, w = utf8.DecodeRune(s.src[s.roff:])
		if r == utf8.RuneError && w == 1 {
			s.error(s.pos(), "illegal UTF-8 encoding")
			s.invalidByte = s.src[s.roff]
		}
	}
	s.roff += w
	s.cur = r
}

// pos returns the position of the current character.
func (s *Scanner) pos() token.Pos {
	return token.MakePos(s.line, s.col)
}

func (s *Scanner) error(pos token.Pos, msg string) {
	if s.err != nil {
		l, c := pos.LineCol()
		s.err(gotoken.Position{Filename: s.filename, Line: l, Column: c}, msg)
	}
}

func (s *Scanner) errorf(pos token.Pos, format string, args ...any) {
	s.error(pos, fmt.Sprintf(format, args...))
}

// advance only if the current char matches c.
func (s *Scanner) advanceIf(c rune) bool {
	if s.cur == c {
		s.advance()
		return true
	}
	return false
}

// Scan returns the next token in the source file.
func (s *Scanner) Scan(tokVal *token.Value) (tok token.Token) {
	s.skipWhitespace()

	// current token start
	pos := s.pos()
	start := s.off

	switch cur := s.cur; {
	case isLetter(cur):
		// keywords and identifiers
		lit := s.ident()
		tok = token.IDENT
		if len(lit) > 1 {
			// keywords are longer than one letter - avoid lookup otherwise
			tok = token.LookupKw(lit)
		}
		*tokVal = token.Value{Raw: lit, Pos: pos}

	case isDecimal(cur):
		tok = s.number(tokVal)
		tokVal.Pos = pos

	default:
		s.advance() // always make progress
		switch cur {
		case '"':
			tok = token.STRING
			lit, val := s.stringLit(pos)
			*tokVal = token.Value{Raw: lit, Pos: pos, String: val}

		case '=':
			tok = token.EQ
			if s.advanceIf('=') {
				tok = token.EQEQ
			}
			*tokVal = token.Value{Raw: tok.String(), Pos: pos}

		case '!':
			tok = token.BANG
			if s.advanceIf('=') {
				tok = token.NEQ
			}
			*tokVal = token.Value{Raw: tok.String(), Pos: pos}

		case '<':
			tok = token.LT
			if s.advanceIf('=') {
				tok = token.LE
			}
			*tokVal = token.Value{Raw: tok.String(), Pos: pos}

		case '>':
			tok = token.GT
			if s.advanceIf('=') {
				tok = token.GE
			}
			*tokVal = token.Value{Raw: tok.String(), Pos: pos}

		case '+', '-', '*', '/', '%', '^', '.', ',', ';', '(', ')', '[', ']', '{', '}':
			tok = punctTokens[cur]
			*tokVal = token.Value{Raw: tok.String(), Pos: pos}

		case -1:
			tok = token.EOF
			*tokVal = token.Value{Raw: "", Pos: pos}

		default:
			if cur == utf8.RuneError && s.invalidByte > 0 {
				cur = rune(s.invalidByte)
				s.invalidByte = 0
			}
			s.errorf(pos, "illegal character %#U", cur)
			tok = token.ILLEGAL
			*tokVal = token.Value{Raw: string(s.src[start:s.off]), Pos: pos}
		}
	}
	return tok
}

var punctTokens = map[rune]token.Token{
	'+': token.PLUS,
	'-': token.MINUS,
	'*': token.STAR,
	'/': token.SLASH,
	'%': token.PERCENT,
	'^': token.CIRCUMFLEX,
	'.': token.DOT,
	',': token.COMMA,
	';': token.SEMI,
	'(': token.LPAREN,
	')': token.RPAREN,
	'[': token.LBRACK,
	']': token.RBRACK,
	'{': token.LBRACE,
	'}': token.RBRACE,
}

func (s *Scanner) ident() string {
	start := s.off
	for isLetter(s.cur) || isDigit(s.cur) {
		s.advance()
	}
	return string(s.src[start:s.off])
}

// skipWhitespace skips whitespace and line comments ("//" to end of line).
func (s *Scanner) skipWhitespace() {
	for {
		for isWhitespace(s.cur) {
			s.advance()
		}
		if s.cur == '/' && s.peek() == '/' {
			for s.cur != '\n' && s.cur != -1 {
				s.advance()
			}
			continue
		}
		return
	}
}

func isWhitespace(rn rune) bool {
	return rn == ' ' || rn == '\t' || rn == '\n' || rn == '\r'
}

func isLetter(rn rune) bool {
	return 'a' <= rn && rn <= 'z' ||
		'A' <= rn && rn <= 'Z' ||
		rn == '_' ||
		rn >= utf8.RuneSelf && unicode.IsLetter(rn)
}

func isDigit(rn rune) bool {
	return '0' <= rn && rn <= '9' ||
		rn >= utf8.RuneSelf && unicode.IsDigit(rn)
}

func isDecimal(rn rune) bool {
	return '0' <= rn && rn <= '9'
}
