package compiler

import (
	"fmt"
	"strings"
	"testing"

	"github.com/fennec-lang/fennec/lang/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compileSrc(t *testing.T, src string) *Function {
	t.Helper()
	prog, err := parser.Parse("test.fen", []byte(src))
	require.NoError(t, err)
	fn, err := Compile("test.fen", prog)
	require.NoError(t, err)
	return fn
}

func compileErr(t *testing.T, src string) error {
	t.Helper()
	prog, err := parser.Parse("test.fen", []byte(src))
	require.NoError(t, err)
	_, err = Compile("test.fen", prog)
	require.Error(t, err)
	return err
}

func TestCompileGlobalVar(t *testing.T) {
	fn := compileSrc(t, "var x = 1 + 2;")
	assert.Equal(t, ScriptName, fn.Name)
	assert.Equal(t, 0, fn.Arity)
	assert.Equal(t, []byte{
		byte(CONSTANT), 0,
		byte(CONSTANT), 1,
		byte(ADD),
		byte(DEFINE_GLOBAL), 2,
		byte(NULL), byte(RETURN),
	}, fn.Chunk.Code())
	require.Equal(t, 3, fn.Chunk.NumConstants())
	assert.Equal(t, int64(1), fn.Chunk.Constant(0))
	assert.Equal(t, int64(2), fn.Chunk.Constant(1))
	assert.Equal(t, "x", fn.Chunk.Constant(2))
}

func TestCompileLocals(t *testing.T) {
	fn := compileSrc(t, "{ var a = 1; print a; }")
	assert.Equal(t, []byte{
		byte(CONSTANT), 0,
		byte(GET_LOCAL), 1,
		byte(PRINT),
		byte(POP),
		byte(NULL), byte(RETURN),
	}, fn.Chunk.Code())
}

func TestCompileAssignmentLeavesValue(t *testing.T) {
	// assignment is an expression: the statement wrapper pops the value
	fn := compileSrc(t, "var x = 1; x = 2;")
	assert.Equal(t, []byte{
		byte(CONSTANT), 0,
		byte(DEFINE_GLOBAL), 1,
		byte(CONSTANT), 2,
		byte(SET_GLOBAL), 3,
		byte(POP),
		byte(NULL), byte(RETURN),
	}, fn.Chunk.Code())
}

func TestCompileComparisonDesugar(t *testing.T) {
	fn := compileSrc(t, "1 <= 2;")
	assert.Equal(t, []byte{
		byte(CONSTANT), 0,
		byte(CONSTANT), 1,
		byte(GREATER), byte(NOT),
		byte(POP),
		byte(NULL), byte(RETURN),
	}, fn.Chunk.Code())

	fn = compileSrc(t, "1 != 2;")
	assert.Equal(t, []byte{
		byte(CONSTANT), 0,
		byte(CONSTANT), 1,
		byte(EQUAL), byte(NOT),
		byte(POP),
		byte(NULL), byte(RETURN),
	}, fn.Chunk.Code())
}

func TestCompileIfElse(t *testing.T) {
	fn := compileSrc(t, "if (true) 1; else 2;")
	assert.Equal(t, []byte{
		byte(TRUE),
		byte(JUMP_IF_FALSE), 0, 7, // over POP, CONSTANT 0, POP and JUMP
		byte(POP),
		byte(CONSTANT), 0,
		byte(POP),
		byte(JUMP), 0, 4, // over POP, CONSTANT 1, POP
		byte(POP),
		byte(CONSTANT), 1,
		byte(POP),
		byte(NULL), byte(RETURN),
	}, fn.Chunk.Code())
}

func TestCompileWhile(t *testing.T) {
	fn := compileSrc(t, "while (false) 1;")
	assert.Equal(t, []byte{
		byte(FALSE),                // 0000 <- loop start
		byte(JUMP_IF_FALSE), 0, 7,  // 0001 -> 0011
		byte(POP),                  // 0004
		byte(CONSTANT), 0,          // 0005
		byte(POP),                  // 0007
		byte(LOOP), 0, 11,          // 0008, back to 0000
		byte(POP),                  // 0011
		byte(NULL), byte(RETURN),
	}, fn.Chunk.Code())
}

func TestCompileLogical(t *testing.T) {
	fn := compileSrc(t, "true and false;")
	assert.Equal(t, []byte{
		byte(TRUE),
		byte(JUMP_IF_FALSE), 0, 2,
		byte(POP),
		byte(FALSE),
		byte(POP),
		byte(NULL), byte(RETURN),
	}, fn.Chunk.Code())

	fn = compileSrc(t, "true or false;")
	assert.Equal(t, []byte{
		byte(TRUE),
		byte(JUMP_IF_FALSE), 0, 3,
		byte(JUMP), 0, 2,
		byte(POP),
		byte(FALSE),
		byte(POP),
		byte(NULL), byte(RETURN),
	}, fn.Chunk.Code())
}

func TestCompileForRange(t *testing.T) {
	fn := compileSrc(t, "for (i in 1 to 2) print i;")
	assert.Equal(t, []byte{
		byte(CONSTANT0),               // counter init, slot 1
		byte(GET_LOCAL), 1,            // 0001 <- loop start
		byte(CONSTANT), 0,             // 1
		byte(CONSTANT), 1,             // 2
		byte(RANGE),                   //
		byte(JUMP_IF_RANGE_END), 0, 9, // 0008 -> 0020
		byte(COUNTUP), 1,              //
		byte(GET_LOCAL), 2,            // print i
		byte(PRINT),                   //
		byte(POP),                     // drop the element
		byte(LOOP), 0, 19,             // 0017, back to 0001
		byte(POP), byte(POP),          // end scope: loop var and counter
		byte(NULL), byte(RETURN),
	}, fn.Chunk.Code())
}

func TestCompileFunctionAndClosure(t *testing.T) {
	fn := compileSrc(t, `
fun make() {
	var n = 0;
	fun inc() {
		n = n + 1;
		return n;
	}
	return inc;
}
`)
	// script: CLOSURE 0, DEFINE_GLOBAL 1
	require.Equal(t, 2, fn.Chunk.NumConstants())
	makeFn, ok := fn.Chunk.Constant(0).(*Function)
	require.True(t, ok)
	assert.Equal(t, "make", fn.Chunk.Constant(1))
	assert.Equal(t, []byte{
		byte(CLOSURE), 0,
		byte(DEFINE_GLOBAL), 1,
		byte(NULL), byte(RETURN),
	}, fn.Chunk.Code())

	assert.Equal(t, "make", makeFn.Name)
	assert.Equal(t, 0, makeFn.Arity)
	assert.Equal(t, 0, makeFn.UpvalueCount)

	// make's constants: 0 (int), inc fn
	require.Equal(t, 2, makeFn.Chunk.NumConstants())
	incFn, ok := makeFn.Chunk.Constant(1).(*Function)
	require.True(t, ok)
	assert.Equal(t, 1, incFn.UpvalueCount)

	// the CLOSURE for inc is followed by one (is_local=1, index=1) pair:
	// it captures n, local slot 1 of make
	assert.Equal(t, []byte{
		byte(CONSTANT), 0, // var n = 0
		byte(CLOSURE), 1, 1, 1, // fun inc, capturing local 1
		byte(GET_LOCAL), 2, // return inc
		byte(RETURN),
		byte(POP),           // dead: end of body scope, inc local
		byte(CLOSE_UPVALUE), // dead: end of body scope, captured n
		byte(NULL), byte(RETURN),
	}, makeFn.Chunk.Code())

	// inc reads and writes n exclusively through its upvalue
	assert.Equal(t, []byte{
		byte(GET_UPVALUE), 0,
		byte(CONSTANT), 0,
		byte(ADD),
		byte(SET_UPVALUE), 0,
		byte(POP),
		byte(GET_UPVALUE), 0,
		byte(RETURN),
		byte(NULL), byte(RETURN),
	}, incFn.Chunk.Code())
}

func TestCompileSharedUpvalueDedup(t *testing.T) {
	fn := compileSrc(t, `
fun outer() {
	var n = 1;
	fun both() { return n + n; }
}
`)
	outer := fn.Chunk.Constant(0).(*Function)
	both := outer.Chunk.Constant(1).(*Function)
	// n + n resolves the same (index, is_local) pair once
	assert.Equal(t, 1, both.UpvalueCount)
}

func TestCompileTransitiveUpvalue(t *testing.T) {
	fn := compileSrc(t, `
fun a() {
	var x = 1;
	fun b() {
		fun c() { return x; }
	}
}
`)
	aFn := fn.Chunk.Constant(0).(*Function)
	bFn := aFn.Chunk.Constant(1).(*Function)
	cFn := bFn.Chunk.Constant(0).(*Function)
	// c captures b's upvalue, which captures a's local
	assert.Equal(t, 1, bFn.UpvalueCount)
	assert.Equal(t, 1, cFn.UpvalueCount)

	// b's CLOSURE pair for c says is_local=0: reuse the enclosing upvalue
	code := bFn.Chunk.Code()
	require.Equal(t, byte(CLOSURE), code[0])
	assert.Equal(t, byte(0), code[2]) // is_local
	assert.Equal(t, byte(0), code[3]) // index
}

func TestCompileMethodsAndSuper(t *testing.T) {
	fn := compileSrc(t, `
class A {
	fun greet() { print "A"; }
}
class B < A {
	fun greet() { super.greet(); print "B"; }
}
B();
`)
	d := Dasm(fn)
	assert.Contains(t, d, "class")
	assert.Contains(t, d, "inherit")
	assert.Contains(t, d, "method")

	// B's greet dispatches through super_invoke
	assert.Contains(t, d, "super_invoke")
	// and resolves this (slot 0) and the captured super upvalue
	assert.Contains(t, d, "get_local 000")
	assert.Contains(t, d, "get_upvalue")
}

func TestCompileInitImplicitReturn(t *testing.T) {
	fn := compileSrc(t, `
class P {
	fun init(x) { this.x = x; }
}
`)
	d := Dasm(fn)
	// the initializer returns slot 0, the receiver; the final POP is the
	// unreachable scope exit of the x parameter
	init := findFunction(t, fn, "init")
	code := init.Chunk.Code()
	n := len(code)
	require.GreaterOrEqual(t, n, 4)
	assert.Equal(t, byte(GET_LOCAL), code[n-4])
	assert.Equal(t, byte(0), code[n-3])
	assert.Equal(t, byte(RETURN), code[n-2])
	assert.Equal(t, byte(POP), code[n-1])
	assert.Contains(t, d, "set_prop")
}

func findFunction(t *testing.T, fn *Function, name string) *Function {
	t.Helper()
	var walk func(fn *Function) *Function
	walk = func(fn *Function) *Function {
		if fn.Name == name {
			return fn
		}
		for i := 0; i < fn.Chunk.NumConstants(); i++ {
			if nfn, ok := fn.Chunk.Constant(i).(*Function); ok {
				if found := walk(nfn); found != nil {
					return found
				}
			}
		}
		return nil
	}
	found := walk(fn)
	require.NotNil(t, found, "function %s not found", name)
	return found
}

func TestCompileDeterminism(t *testing.T) {
	const src = `
var total = 0;
fun add(a, b) { return a + b; }
class Counter {
	fun init() { this.n = 0; }
	fun bump() { this.n = this.n + 1; return this.n; }
}
var c = Counter();
for (i in 1 to 10) total = add(total, c.bump());
print total;
`
	fn1 := compileSrc(t, src)
	fn2 := compileSrc(t, src)
	assert.Equal(t, fn1.Chunk.Code(), fn2.Chunk.Code())
	assert.Equal(t, Dasm(fn1), Dasm(fn2))
}

func TestCompileErrors(t *testing.T) {
	cases := []struct {
		desc string
		src  string
		want string
	}{
		{"duplicate local", "{ var a = 1; var a = 2; }", "duplicate variable"},
		{"reserved name", "{ var __x__ = 1; }", "is reserved"},
		{"self inheritance", "class A < A { }", "cannot inherit from itself"},
		{"this outside class", "print this;", "outside of a class"},
	}
	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			err := compileErr(t, c.src)
			assert.Contains(t, err.Error(), c.want)
		})
	}
}

func TestCompileShadowingAllowed(t *testing.T) {
	compileSrc(t, "{ var a = 1; { var a = 2; print a; } print a; }")
}

func TestCompileTooManyLocals(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("{\n")
	for i := 0; i < MaxLocals; i++ {
		fmt.Fprintf(&sb, "var v%d = 0;\n", i)
	}
	sb.WriteString("}\n")
	err := compileErr(t, sb.String())
	assert.Contains(t, err.Error(), "too many local variables")
}

func TestCompileTooManyUpvalues(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("fun outer() {\n")
	for i := 0; i <= MaxUpvalues; i++ {
		fmt.Fprintf(&sb, "var v%d = 0;\n", i)
	}
	sb.WriteString("fun inner() { var sum = 0;\n")
	for i := 0; i <= MaxUpvalues; i++ {
		fmt.Fprintf(&sb, "sum = sum + v%d;\n", i)
	}
	sb.WriteString("}\n}\n")
	err := compileErr(t, sb.String())
	assert.Contains(t, err.Error(), "too many captured variables")
}

func TestCompileTooManyConstants(t *testing.T) {
	var sb strings.Builder
	for i := 0; i <= MaxConstants; i++ {
		fmt.Fprintf(&sb, "print %d;\n", i)
	}
	err := compileErr(t, sb.String())
	assert.Contains(t, err.Error(), "too many constants")
}

func TestCompileJumpOverflow(t *testing.T) {
	// a then-branch bigger than a 16-bit jump distance
	src := "if (true) {\n" + strings.Repeat("true;\n", 40000) + "}\n"
	err := compileErr(t, src)
	assert.Contains(t, err.Error(), "too much code to jump over")
}

func TestDasmStable(t *testing.T) {
	fn := compileSrc(t, "var x = 1;")
	want := "function: __main__ 0 0\n" +
		"\tconstants:\n" +
		"\t\t000\tint\t1\n" +
		"\t\t001\tstring\t\"x\"\n" +
		"\tcode:\n" +
		"\t\t0000\tconstant 000\t# 1\n" +
		"\t\t0002\tdefine_global 001\t# \"x\"\n" +
		"\t\t0004\tnull\n" +
		"\t\t0005\treturn\n"
	assert.Equal(t, want, Dasm(fn))
}
