package ast_test

import (
	"strings"
	"testing"

	"github.com/fennec-lang/fennec/lang/ast"
	"github.com/fennec-lang/fennec/lang/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFprint(t *testing.T) {
	prog, err := parser.Parse("test.fen", []byte(`
var x = 1 + 2;
fun add(a, b) { return a + b; }
class B < A {
	fun init() { this.n = [1, 2]; }
	fun show() { super.show(); print this.n; }
}
for (i in 1 to 3) print add(x, i);
while (x < 10) x = x + 1;
if (x == 10) print "done"; else print !false;
`))
	require.NoError(t, err)

	var sb strings.Builder
	require.NoError(t, ast.Fprint(&sb, prog))
	out := sb.String()

	for _, want := range []string{
		"program",
		"var x",
		"binary +",
		"fun add(a, b)",
		"class B < A",
		"fun init()",
		"super.show()",
		"for i",
		"range to",
		"while",
		"if",
		"assign",
		"unary !",
		`"done"`,
	} {
		assert.Contains(t, out, want)
	}
}
