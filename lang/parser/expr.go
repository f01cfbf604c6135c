package parser

import (
	"github.com/fennec-lang/fennec/lang/ast"
	"github.com/fennec-lang/fennec/lang/token"
)

// expr parses an expression with precedence climbing: it keeps extending the
// left operand while the next operator binds tighter than minPrec.
func (p *parser) expr(minPrec int) (ast.Expr, error) {
	left, err := p.prefixExpr()
	if err != nil {
		return nil, err
	}

	for {
		opPrec := p.curPrecedence()
		if opPrec <= minPrec {
			return left, nil
		}

		switch op := p.cur(); op {
		case token.PLUS, token.MINUS, token.STAR, token.SLASH, token.PERCENT,
			token.EQEQ, token.NEQ, token.LT, token.LE, token.GT, token.GE:
			p.advance()
			right, err := p.expr(opPrec)
			if err != nil {
				return nil, err
			}
			left = &ast.BinaryExpr{Op: op, Left: left, Right: right}

		case token.CIRCUMFLEX:
			// right associative
			p.advance()
			right, err := p.expr(opPrec - 1)
			if err != nil {
				return nil, err
			}
			left = &ast.BinaryExpr{Op: op, Left: left, Right: right}

		case token.AND, token.OR:
			p.advance()
			right, err := p.expr(opPrec)
			if err != nil {
				return nil, err
			}
			left = &ast.LogicalExpr{Op: op, Left: left, Right: right}

		case token.EQ:
			switch left.(type) {
			case *ast.Ident, *ast.IndexExpr, *ast.GetPropExpr:
			default:
				return nil, p.errorf("invalid assignment target")
			}
			p.advance()
			// right associative so a = b = c assigns c to both
			value, err := p.expr(opPrec - 1)
			if err != nil {
				return nil, err
			}
			left = &ast.AssignExpr{Target: left, Value: value}

		case token.TO:
			p.advance()
			end, err := p.expr(opPrec)
			if err != nil {
				return nil, err
			}
			left = &ast.RangeExpr{Start: left, End: end}

		case token.LPAREN:
			p.advance()
			args, err := p.argList()
			if err != nil {
				return nil, err
			}
			left = &ast.CallExpr{Callee: left, Args: args}

		case token.LBRACK:
			p.advance()
			index, err := p.expr(precLowest)
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.RBRACK); err != nil {
				return nil, err
			}
			left = &ast.IndexExpr{Object: left, Index: index}

		case token.DOT:
			p.advance()
			left, err = p.propertyExpr(left)
			if err != nil {
				return nil, err
			}

		default:
			return left, nil
		}
	}
}

// propertyExpr parses the tail of a dot expression: the property name and an
// optional argument list, combining with the receiver into a property
// access, method invocation, or their super forms.
func (p *parser) propertyExpr(object ast.Expr) (ast.Expr, error) {
	nameVal, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	name := &ast.Ident{NamePos: nameVal.Pos, Name: nameVal.Raw}

	isSuper := false
	var superPos token.Pos
	if id, ok := object.(*ast.Ident); ok && id.Name == "super" {
		isSuper = true
		superPos = id.NamePos
	}

	if p.got(token.LPAREN) {
		args, err := p.argList()
		if err != nil {
			return nil, err
		}
		if isSuper {
			return &ast.SuperInvokeExpr{Super: superPos, Name: name, Args: args}, nil
		}
		return &ast.InvokeExpr{Object: object, Name: name, Args: args}, nil
	}

	if isSuper {
		return &ast.SuperPropExpr{Super: superPos, Name: name}, nil
	}
	return &ast.GetPropExpr{Object: object, Name: name}, nil
}

// argList parses a comma-separated expression list up to the closing paren,
// which is consumed.
func (p *parser) argList() ([]ast.Expr, error) {
	var args []ast.Expr
	for p.cur() != token.RPAREN {
		if len(args) > 0 {
			if _, err := p.expect(token.COMMA); err != nil {
				return nil, err
			}
		}
		arg, err := p.expr(precLowest)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	p.advance() // consume the RPAREN
	return args, nil
}

func (p *parser) prefixExpr() (ast.Expr, error) {
	val := p.val()
	switch p.cur() {
	case token.INT:
		p.advance()
		return &ast.IntLit{LitPos: val.Pos, Value: val.Int}, nil

	case token.FLOAT:
		p.advance()
		return &ast.FloatLit{LitPos: val.Pos, Value: val.Float}, nil

	case token.STRING:
		p.advance()
		return &ast.StringLit{LitPos: val.Pos, Value: val.String}, nil

	case token.IDENT:
		p.advance()
		return &ast.Ident{NamePos: val.Pos, Name: val.Raw}, nil

	case token.THIS, token.SUPER:
		// reserved words that resolve like ordinary identifiers
		p.advance()
		return &ast.Ident{NamePos: val.Pos, Name: val.Raw}, nil

	case token.TRUE, token.FALSE:
		b := p.cur() == token.TRUE
		p.advance()
		return &ast.BoolLit{LitPos: val.Pos, Value: b}, nil

	case token.NULL:
		p.advance()
		return &ast.NullLit{LitPos: val.Pos}, nil

	case token.MINUS, token.BANG:
		op := p.cur()
		p.advance()
		right, err := p.expr(precPow) // unary binds tighter than binary operators
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{OpPos: val.Pos, Op: op, Right: right}, nil

	case token.LPAREN:
		p.advance()
		inner, err := p.expr(precLowest)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return inner, nil

	case token.LBRACK:
		p.advance()
		var elems []ast.Expr
		for p.cur() != token.RBRACK {
			if len(elems) > 0 {
				if _, err := p.expect(token.COMMA); err != nil {
					return nil, err
				}
			}
			elem, err := p.expr(precLowest)
			if err != nil {
				return nil, err
			}
			elems = append(elems, elem)
		}
		p.advance() // consume the RBRACK
		return &ast.ArrayLit{Lbrack: val.Pos, Elems: elems}, nil

	default:
		return nil, p.errorf("expected expression, found %#v", p.cur())
	}
}
