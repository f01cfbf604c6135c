// Package parser implements the recursive-descent parser that turns the
// scanner's token stream into the AST consumed by the compiler. Expressions
// are parsed with precedence climbing.
package parser

import (
	"fmt"
	gotoken "go/token"

	"github.com/fennec-lang/fennec/lang/ast"
	"github.com/fennec-lang/fennec/lang/scanner"
	"github.com/fennec-lang/fennec/lang/token"
)

// operator precedence levels, lowest to highest
const (
	precLowest = iota
	precAssign // =
	precLogic  // and or
	precEq     // == !=
	precCmp    // < <= > >=
	precTerm   // + -
	precFactor // * / %
	precPow    // ^ (right associative)
	precCall   // () [] . to
)

var precedences = map[token.Token]int{
	token.EQ:         precAssign,
	token.AND:        precLogic,
	token.OR:         precLogic,
	token.EQEQ:       precEq,
	token.NEQ:        precEq,
	token.LT:         precCmp,
	token.LE:         precCmp,
	token.GT:         precCmp,
	token.GE:         precCmp,
	token.PLUS:       precTerm,
	token.MINUS:      precTerm,
	token.STAR:       precFactor,
	token.SLASH:      precFactor,
	token.PERCENT:    precFactor,
	token.CIRCUMFLEX: precPow,
	token.LPAREN:     precCall,
	token.LBRACK:     precCall,
	token.DOT:        precCall,
	token.TO:         precCall,
}

// ParseFile reads, scans and parses the source file.
func ParseFile(filename string) (*ast.Program, error) {
	toks, err := scanner.ScanFile(filename)
	if err != nil {
		return nil, err
	}
	return parseTokens(filename, toks)
}

// Parse scans and parses src.
func Parse(filename string, src []byte) (*ast.Program, error) {
	toks, err := scanner.Scan(filename, src)
	if err != nil {
		return nil, err
	}
	return parseTokens(filename, toks)
}

func parseTokens(filename string, toks []scanner.TokenAndValue) (*ast.Program, error) {
	p := &parser{filename: filename, toks: toks}
	prog := &ast.Program{}
	for p.cur() != token.EOF {
		stmt, err := p.stmt()
		if err != nil {
			return nil, err
		}
		prog.Stmts = append(prog.Stmts, stmt)
	}
	return prog, nil
}

type parser struct {
	filename string
	toks     []scanner.TokenAndValue
	i        int
}

// cur returns the current token type, EOF when exhausted.
func (p *parser) cur() token.Token {
	if p.i < len(p.toks) {
		return p.toks[p.i].Token
	}
	return token.EOF
}

// val returns the current token value.
func (p *parser) val() token.Value {
	if p.i < len(p.toks) {
		return p.toks[p.i].Value
	}
	return token.Value{}
}

// peek returns the token type following the current one.
func (p *parser) peek() token.Token {
	if p.i+1 < len(p.toks) {
		return p.toks[p.i+1].Token
	}
	return token.EOF
}

func (p *parser) advance() { p.i++ }

// got advances and reports true if the current token is tok.
func (p *parser) got(tok token.Token) bool {
	if p.cur() == tok {
		p.advance()
		return true
	}
	return false
}

// expect consumes the current token if it is tok, and returns its value;
// otherwise it returns an error.
func (p *parser) expect(tok token.Token) (token.Value, error) {
	if p.cur() != tok {
		return token.Value{}, p.errorf("expected %#v, found %#v", tok, p.cur())
	}
	v := p.val()
	p.advance()
	return v, nil
}

// errorf creates a positioned error at the current token.
func (p *parser) errorf(format string, args ...any) error {
	line, col := p.val().Pos.LineCol()
	return &scanner.Error{
		Pos: gotoken.Position{Filename: p.filename, Line: line, Column: col},
		Msg: fmt.Sprintf(format, args...),
	}
}

// curPrecedence returns the precedence of the current token, precLowest for
// non-operators.
func (p *parser) curPrecedence() int {
	return precedences[p.cur()]
}
