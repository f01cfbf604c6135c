package parser

import (
	"github.com/fennec-lang/fennec/lang/ast"
	"github.com/fennec-lang/fennec/lang/token"
)

func (p *parser) stmt() (ast.Stmt, error) {
	switch p.cur() {
	case token.VAR:
		return p.varStmt()
	case token.PRINT:
		return p.printStmt()
	case token.RETURN:
		return p.returnStmt()
	case token.LBRACE:
		return p.block()
	case token.IF:
		return p.ifStmt()
	case token.WHILE:
		return p.whileStmt()
	case token.FOR:
		return p.forStmt()
	case token.FUN:
		return p.funStmt()
	case token.CLASS:
		return p.classStmt()
	default:
		return p.exprStmt()
	}
}

func (p *parser) varStmt() (ast.Stmt, error) {
	pos := p.val().Pos
	p.advance()

	nameVal, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.EQ); err != nil {
		return nil, err
	}
	value, err := p.expr(precLowest)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMI); err != nil {
		return nil, err
	}
	return &ast.VarStmt{
		Var:   pos,
		Name:  &ast.Ident{NamePos: nameVal.Pos, Name: nameVal.Raw},
		Value: value,
	}, nil
}

func (p *parser) printStmt() (ast.Stmt, error) {
	pos := p.val().Pos
	p.advance()

	expr, err := p.expr(precLowest)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMI); err != nil {
		return nil, err
	}
	return &ast.PrintStmt{Print: pos, Expr: expr}, nil
}

func (p *parser) returnStmt() (ast.Stmt, error) {
	pos := p.val().Pos
	p.advance()

	if p.got(token.SEMI) {
		return &ast.ReturnStmt{Return: pos}, nil
	}
	value, err := p.expr(precLowest)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMI); err != nil {
		return nil, err
	}
	return &ast.ReturnStmt{Return: pos, Value: value}, nil
}

func (p *parser) exprStmt() (ast.Stmt, error) {
	expr, err := p.expr(precLowest)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMI); err != nil {
		return nil, err
	}
	return &ast.ExprStmt{Expr: expr}, nil
}

func (p *parser) block() (*ast.Block, error) {
	lbrace, err := p.expect(token.LBRACE)
	if err != nil {
		return nil, err
	}
	blk := &ast.Block{Lbrace: lbrace.Pos}
	for p.cur() != token.RBRACE && p.cur() != token.EOF {
		stmt, err := p.stmt()
		if err != nil {
			return nil, err
		}
		blk.Stmts = append(blk.Stmts, stmt)
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return blk, nil
}

func (p *parser) ifStmt() (ast.Stmt, error) {
	pos := p.val().Pos
	p.advance()

	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.expr(precLowest)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	then, err := p.stmt()
	if err != nil {
		return nil, err
	}

	stmt := &ast.IfStmt{If: pos, Cond: cond, Then: then}
	if p.got(token.ELSE) {
		alt, err := p.stmt()
		if err != nil {
			return nil, err
		}
		stmt.Else = alt
	}
	return stmt, nil
}

func (p *parser) whileStmt() (ast.Stmt, error) {
	pos := p.val().Pos
	p.advance()

	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.expr(precLowest)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	body, err := p.stmt()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStmt{While: pos, Cond: cond, Body: body}, nil
}

func (p *parser) forStmt() (ast.Stmt, error) {
	pos := p.val().Pos
	p.advance()

	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	nameVal, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.IN); err != nil {
		return nil, err
	}
	rng, err := p.expr(precLowest)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	body, err := p.stmt()
	if err != nil {
		return nil, err
	}
	return &ast.ForStmt{
		For:   pos,
		Name:  &ast.Ident{NamePos: nameVal.Pos, Name: nameVal.Raw},
		Range: rng,
		Body:  body,
	}, nil
}

func (p *parser) funStmt() (*ast.FunStmt, error) {
	pos := p.val().Pos
	p.advance()

	nameVal, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}

	var params []*ast.Ident
	for p.cur() != token.RPAREN {
		if len(params) > 0 {
			if _, err := p.expect(token.COMMA); err != nil {
				return nil, err
			}
		}
		paramVal, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		params = append(params, &ast.Ident{NamePos: paramVal.Pos, Name: paramVal.Raw})
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}

	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return &ast.FunStmt{
		Fun:    pos,
		Name:   &ast.Ident{NamePos: nameVal.Pos, Name: nameVal.Raw},
		Params: params,
		Body:   body,
	}, nil
}

func (p *parser) classStmt() (ast.Stmt, error) {
	pos := p.val().Pos
	p.advance()

	nameVal, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	stmt := &ast.ClassStmt{
		Class: pos,
		Name:  &ast.Ident{NamePos: nameVal.Pos, Name: nameVal.Raw},
	}

	if p.got(token.LT) {
		superVal, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		stmt.Super = &ast.Ident{NamePos: superVal.Pos, Name: superVal.Raw}
	}

	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	for p.cur() != token.RBRACE && p.cur() != token.EOF {
		if p.cur() != token.FUN {
			return nil, p.errorf("expected method declaration in class body, found %#v", p.cur())
		}
		method, err := p.funStmt()
		if err != nil {
			return nil, err
		}
		stmt.Methods = append(stmt.Methods, method)
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return stmt, nil
}
