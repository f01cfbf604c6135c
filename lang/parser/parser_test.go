package parser

import (
	"testing"

	"github.com/fennec-lang/fennec/lang/ast"
	"github.com/fennec-lang/fennec/lang/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseProgram(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, err := Parse("test.fen", []byte(src))
	require.NoError(t, err)
	return prog
}

func TestParseVar(t *testing.T) {
	prog := parseProgram(t, "var x = 1 + 2;")
	require.Len(t, prog.Stmts, 1)

	vs := prog.Stmts[0].(*ast.VarStmt)
	assert.Equal(t, "x", vs.Name.Name)
	bin := vs.Value.(*ast.BinaryExpr)
	assert.Equal(t, token.PLUS, bin.Op)
	assert.Equal(t, int64(1), bin.Left.(*ast.IntLit).Value)
	assert.Equal(t, int64(2), bin.Right.(*ast.IntLit).Value)
}

func TestParsePrecedence(t *testing.T) {
	prog := parseProgram(t, "print 1 + 2 * 3;")
	ps := prog.Stmts[0].(*ast.PrintStmt)
	add := ps.Expr.(*ast.BinaryExpr)
	require.Equal(t, token.PLUS, add.Op)
	mul := add.Right.(*ast.BinaryExpr)
	assert.Equal(t, token.STAR, mul.Op)
}

func TestParsePowerRightAssociative(t *testing.T) {
	prog := parseProgram(t, "print 2 ^ 3 ^ 2;")
	ps := prog.Stmts[0].(*ast.PrintStmt)
	outer := ps.Expr.(*ast.BinaryExpr)
	require.Equal(t, token.CIRCUMFLEX, outer.Op)
	assert.Equal(t, int64(2), outer.Left.(*ast.IntLit).Value)
	inner := outer.Right.(*ast.BinaryExpr)
	assert.Equal(t, token.CIRCUMFLEX, inner.Op)
}

func TestParseComparisonPrecedence(t *testing.T) {
	prog := parseProgram(t, "print 1 <= 2 == true;")
	ps := prog.Stmts[0].(*ast.PrintStmt)
	eq := ps.Expr.(*ast.BinaryExpr)
	require.Equal(t, token.EQEQ, eq.Op)
	le := eq.Left.(*ast.BinaryExpr)
	assert.Equal(t, token.LE, le.Op)
}

func TestParseUnary(t *testing.T) {
	prog := parseProgram(t, "print -a.b;")
	ps := prog.Stmts[0].(*ast.PrintStmt)
	un := ps.Expr.(*ast.UnaryExpr)
	require.Equal(t, token.MINUS, un.Op)
	prop := un.Right.(*ast.GetPropExpr)
	assert.Equal(t, "b", prop.Name.Name)
}

func TestParseAssignChain(t *testing.T) {
	prog := parseProgram(t, "a = b = 2;")
	es := prog.Stmts[0].(*ast.ExprStmt)
	outer := es.Expr.(*ast.AssignExpr)
	assert.Equal(t, "a", outer.Target.(*ast.Ident).Name)
	inner := outer.Value.(*ast.AssignExpr)
	assert.Equal(t, "b", inner.Target.(*ast.Ident).Name)
}

func TestParseInvalidAssignTarget(t *testing.T) {
	_, err := Parse("test.fen", []byte("1 = 2;"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid assignment target")
}

func TestParseLogical(t *testing.T) {
	prog := parseProgram(t, "print a and b or c;")
	ps := prog.Stmts[0].(*ast.PrintStmt)
	or := ps.Expr.(*ast.LogicalExpr)
	require.Equal(t, token.OR, or.Op)
	and := or.Left.(*ast.LogicalExpr)
	assert.Equal(t, token.AND, and.Op)
}

func TestParseRange(t *testing.T) {
	prog := parseProgram(t, "var r = 1 to 10;")
	vs := prog.Stmts[0].(*ast.VarStmt)
	rng := vs.Value.(*ast.RangeExpr)
	assert.Equal(t, int64(1), rng.Start.(*ast.IntLit).Value)
	assert.Equal(t, int64(10), rng.End.(*ast.IntLit).Value)
}

func TestParseArrayAndIndex(t *testing.T) {
	prog := parseProgram(t, "var a = [1, 2, 3]; a[0] = a[1];")
	require.Len(t, prog.Stmts, 2)

	arr := prog.Stmts[0].(*ast.VarStmt).Value.(*ast.ArrayLit)
	require.Len(t, arr.Elems, 3)

	assign := prog.Stmts[1].(*ast.ExprStmt).Expr.(*ast.AssignExpr)
	target := assign.Target.(*ast.IndexExpr)
	assert.Equal(t, "a", target.Object.(*ast.Ident).Name)
	value := assign.Value.(*ast.IndexExpr)
	assert.Equal(t, int64(1), value.Index.(*ast.IntLit).Value)
}

func TestParseCalls(t *testing.T) {
	prog := parseProgram(t, "f(1, 2)(3);")
	call := prog.Stmts[0].(*ast.ExprStmt).Expr.(*ast.CallExpr)
	require.Len(t, call.Args, 1)
	inner := call.Callee.(*ast.CallExpr)
	require.Len(t, inner.Args, 2)
	assert.Equal(t, "f", inner.Callee.(*ast.Ident).Name)
}

func TestParsePropertyForms(t *testing.T) {
	prog := parseProgram(t, "a.b; a.b(1); a.b = 2; super.m; super.m(3); this.x = 4;")
	require.Len(t, prog.Stmts, 6)

	get := prog.Stmts[0].(*ast.ExprStmt).Expr.(*ast.GetPropExpr)
	assert.Equal(t, "b", get.Name.Name)

	inv := prog.Stmts[1].(*ast.ExprStmt).Expr.(*ast.InvokeExpr)
	assert.Equal(t, "b", inv.Name.Name)
	require.Len(t, inv.Args, 1)

	set := prog.Stmts[2].(*ast.ExprStmt).Expr.(*ast.AssignExpr)
	_, ok := set.Target.(*ast.GetPropExpr)
	assert.True(t, ok)

	sp := prog.Stmts[3].(*ast.ExprStmt).Expr.(*ast.SuperPropExpr)
	assert.Equal(t, "m", sp.Name.Name)

	si := prog.Stmts[4].(*ast.ExprStmt).Expr.(*ast.SuperInvokeExpr)
	require.Len(t, si.Args, 1)

	ts := prog.Stmts[5].(*ast.ExprStmt).Expr.(*ast.AssignExpr)
	tt := ts.Target.(*ast.GetPropExpr)
	assert.Equal(t, "this", tt.Object.(*ast.Ident).Name)
}

func TestParseIfElse(t *testing.T) {
	prog := parseProgram(t, "if (x < 1) print 1; else { print 2; }")
	is := prog.Stmts[0].(*ast.IfStmt)
	require.NotNil(t, is.Else)
	_, ok := is.Then.(*ast.PrintStmt)
	assert.True(t, ok)
	_, ok = is.Else.(*ast.Block)
	assert.True(t, ok)
}

func TestParseWhile(t *testing.T) {
	prog := parseProgram(t, "while (x) { x = x - 1; }")
	ws := prog.Stmts[0].(*ast.WhileStmt)
	_, ok := ws.Body.(*ast.Block)
	assert.True(t, ok)
}

func TestParseFor(t *testing.T) {
	prog := parseProgram(t, "for (i in 1 to 3) print i;")
	fs := prog.Stmts[0].(*ast.ForStmt)
	assert.Equal(t, "i", fs.Name.Name)
	_, ok := fs.Range.(*ast.RangeExpr)
	assert.True(t, ok)
}

func TestParseFun(t *testing.T) {
	prog := parseProgram(t, "fun add(a, b) { return a + b; }")
	fs := prog.Stmts[0].(*ast.FunStmt)
	assert.Equal(t, "add", fs.Name.Name)
	require.Len(t, fs.Params, 2)
	require.Len(t, fs.Body.Stmts, 1)
	rs := fs.Body.Stmts[0].(*ast.ReturnStmt)
	require.NotNil(t, rs.Value)
}

func TestParseReturnBare(t *testing.T) {
	prog := parseProgram(t, "fun f() { return; }")
	fs := prog.Stmts[0].(*ast.FunStmt)
	rs := fs.Body.Stmts[0].(*ast.ReturnStmt)
	assert.Nil(t, rs.Value)
}

func TestParseClass(t *testing.T) {
	prog := parseProgram(t, `
class B < A {
	fun init(n) { this.n = n; }
	fun twice() { return this.n * 2; }
}`)
	cs := prog.Stmts[0].(*ast.ClassStmt)
	assert.Equal(t, "B", cs.Name.Name)
	require.NotNil(t, cs.Super)
	assert.Equal(t, "A", cs.Super.Name)
	require.Len(t, cs.Methods, 2)
	assert.Equal(t, "init", cs.Methods[0].Name.Name)
	assert.Equal(t, "twice", cs.Methods[1].Name.Name)
}

func TestParseClassBodyRejectsNonMethods(t *testing.T) {
	_, err := Parse("test.fen", []byte("class A { var x = 1; }"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected method declaration")
}

func TestParseMissingSemi(t *testing.T) {
	_, err := Parse("test.fen", []byte("print 1"))
	require.Error(t, err)
}

func TestParseGrouping(t *testing.T) {
	prog := parseProgram(t, "print (1 + 2) * 3;")
	mul := prog.Stmts[0].(*ast.PrintStmt).Expr.(*ast.BinaryExpr)
	require.Equal(t, token.STAR, mul.Op)
	add := mul.Left.(*ast.BinaryExpr)
	assert.Equal(t, token.PLUS, add.Op)
}
