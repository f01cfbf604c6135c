package compiler

import (
	"fmt"
	gotoken "go/token"
	"strings"

	"github.com/fennec-lang/fennec/lang/ast"
	"github.com/fennec-lang/fennec/lang/scanner"
	"github.com/fennec-lang/fennec/lang/token"
)

const (
	// MaxLocals is the number of local slots per function, including the
	// reserved slot 0. Slot indices are encoded in a single operand byte.
	MaxLocals = 256
	// MaxUpvalues is the number of upvalues a single function may resolve.
	MaxUpvalues = 32

	maxJump = 0xFFFF
)

// Compile translates the program into the top-level script Function. The
// compiler is single pass: it resolves every identifier to a local slot, an
// upvalue or a global name lookup while emitting bytecode.
func Compile(filename string, prog *ast.Program) (*Function, error) {
	c := &compiler{
		filename: filename,
		fc:       newFuncCompiler(nil, ScriptName, FuncScript, 0),
	}
	for _, s := range prog.Stmts {
		if err := c.stmt(s); err != nil {
			return nil, err
		}
	}
	// the script exits by unwinding its frame like any other function
	c.emit(NULL)
	c.emit(RETURN)
	return c.fc.fn, nil
}

// local is a compile-time local variable. Its slot index is its position in
// the locals slice.
type local struct {
	name     string
	depth    int
	captured bool
}

// upvalue is a compile-time upvalue descriptor: the index of the captured
// local in the enclosing function (isLocal) or of the upvalue in the
// enclosing function's own upvalues.
type upvalue struct {
	index   int
	isLocal bool
}

// funcCompiler is the per-function compiler frame. One is pushed for each
// function, method or initializer being compiled; the enclosing link is what
// upvalue resolution climbs.
type funcCompiler struct {
	enclosing *funcCompiler
	fn        *Function
	ftype     FuncType
	locals    []local
	upvalues  []upvalue
	depth     int // current scope depth, 0 = global
}

// classCompiler tracks the innermost class declaration being compiled.
type classCompiler struct {
	enclosing *classCompiler
	hasSuper  bool
}

func newFuncCompiler(enclosing *funcCompiler, name string, ftype FuncType, arity int) *funcCompiler {
	fc := &funcCompiler{
		enclosing: enclosing,
		fn:        &Function{Name: name, Arity: arity},
		ftype:     ftype,
		locals:    make([]local, 0, MaxLocals),
	}
	// slot 0 is reserved: it holds the callee and, in methods and
	// initializers, is named "this" so that name resolution finds the
	// receiver like any other local.
	slot0 := local{}
	if ftype == FuncMethod || ftype == FuncInit {
		slot0.name = "this"
	}
	fc.locals = append(fc.locals, slot0)
	return fc
}

type compiler struct {
	filename string
	fc       *funcCompiler
	cc       *classCompiler
	line     uint32 // source line attributed to emitted bytes
}

func (c *compiler) errorf(pos token.Pos, format string, args ...any) error {
	line, col := pos.LineCol()
	return &scanner.Error{
		Pos: gotoken.Position{Filename: c.filename, Line: line, Column: col},
		Msg: fmt.Sprintf(format, args...),
	}
}

// ---- emit helpers ----

func (c *compiler) setLine(pos token.Pos) {
	if l, _ := pos.LineCol(); l > 0 {
		c.line = uint32(l)
	}
}

func (c *compiler) chunk() *Chunk {
	return &c.fc.fn.Chunk
}

func (c *compiler) emit(op Opcode) {
	c.chunk().Write(byte(op), c.line)
}

func (c *compiler) emitByte(b byte) {
	c.chunk().Write(b, c.line)
}

func (c *compiler) emitOp(op Opcode, operand byte) {
	c.emit(op)
	c.emitByte(operand)
}

// emitJump emits a forward jump with a placeholder offset and returns the
// offset site to patch.
func (c *compiler) emitJump(op Opcode) int {
	c.emit(op)
	c.emitByte(0xFF)
	c.emitByte(0xFF)
	return c.chunk().Len() - 2
}

// patchJump rewrites the placeholder at site with the distance from the end
// of the operand to the current end of code.
func (c *compiler) patchJump(site int, pos token.Pos) error {
	dist := c.chunk().Len() - site - 2
	if dist > maxJump {
		return c.errorf(pos, "too much code to jump over (%d bytes)", dist)
	}
	c.chunk().SetByte(site, byte(dist>>8))
	c.chunk().SetByte(site+1, byte(dist))
	return nil
}

// emitLoop emits a backward jump to loopStart.
func (c *compiler) emitLoop(loopStart int, pos token.Pos) error {
	c.emit(LOOP)
	dist := c.chunk().Len() - loopStart + 2
	if dist > maxJump {
		return c.errorf(pos, "loop body too large (%d bytes)", dist)
	}
	c.emitByte(byte(dist >> 8))
	c.emitByte(byte(dist))
	return nil
}

func (c *compiler) constant(v Constant, pos token.Pos) (int, error) {
	idx, err := c.chunk().AddConstant(v)
	if err != nil {
		return 0, c.errorf(pos, "%s", err)
	}
	return idx, nil
}

// ---- scopes and variable resolution ----

func (c *compiler) beginScope() {
	c.fc.depth++
}

// endScope discards the locals of the scope being exited, emitting
// CLOSE_UPVALUE for captured ones so closures keep observing them, and POP
// for the rest.
func (c *compiler) endScope() {
	fc := c.fc
	fc.depth--
	for len(fc.locals) > 0 {
		l := fc.locals[len(fc.locals)-1]
		if l.depth <= fc.depth {
			break
		}
		if l.captured {
			c.emit(CLOSE_UPVALUE)
		} else {
			c.emit(POP)
		}
		fc.locals = fc.locals[:len(fc.locals)-1]
	}
}

// addLocal declares a new user local in the current scope. Names beginning
// and ending with a double underscore are reserved for compiler synthetics
// like the for-range counter.
func (c *compiler) addLocal(name string, pos token.Pos) error {
	if strings.HasPrefix(name, "__") && strings.HasSuffix(name, "__") {
		return c.errorf(pos, "name %q is reserved", name)
	}
	return c.declareLocal(name, pos)
}

// declareLocal appends a local in the current scope. Redeclaring a name at
// the same depth is an error; shadowing an outer scope is permitted.
func (c *compiler) declareLocal(name string, pos token.Pos) error {
	fc := c.fc
	if len(fc.locals) >= MaxLocals {
		return c.errorf(pos, "too many local variables in function")
	}
	for i := len(fc.locals) - 1; i >= 0; i-- {
		l := fc.locals[i]
		if l.depth < fc.depth {
			break
		}
		if l.name == name {
			return c.errorf(pos, "duplicate variable %q in this scope", name)
		}
	}
	fc.locals = append(fc.locals, local{name: name, depth: fc.depth})
	return nil
}

// resolveLocal returns the slot of the innermost local named name, or -1.
func resolveLocal(fc *funcCompiler, name string) int {
	for i := len(fc.locals) - 1; i >= 0; i-- {
		if fc.locals[i].name == name {
			return i
		}
	}
	return -1
}

// resolveUpvalue resolves name as a capture from an enclosing function: a
// local of the immediately enclosing function, or transitively one of its
// own upvalues. It returns -1 when the name is not found in any enclosing
// function, leaving the reference to the globals table.
func (c *compiler) resolveUpvalue(fc *funcCompiler, name string, pos token.Pos) (int, error) {
	if fc.enclosing == nil {
		return -1, nil
	}
	if idx := resolveLocal(fc.enclosing, name); idx >= 0 {
		fc.enclosing.locals[idx].captured = true
		return c.addUpvalue(fc, idx, true, pos)
	}
	idx, err := c.resolveUpvalue(fc.enclosing, name, pos)
	if err != nil || idx < 0 {
		return idx, err
	}
	return c.addUpvalue(fc, idx, false, pos)
}

// addUpvalue returns the index of the (index, isLocal) descriptor, reusing
// an existing one when the same capture appears more than once.
func (c *compiler) addUpvalue(fc *funcCompiler, index int, isLocal bool, pos token.Pos) (int, error) {
	for i, uv := range fc.upvalues {
		if uv.index == index && uv.isLocal == isLocal {
			return i, nil
		}
	}
	if len(fc.upvalues) >= MaxUpvalues {
		return 0, c.errorf(pos, "too many captured variables in function")
	}
	fc.upvalues = append(fc.upvalues, upvalue{index: index, isLocal: isLocal})
	fc.fn.UpvalueCount = len(fc.upvalues)
	return len(fc.upvalues) - 1, nil
}

// loadVariable emits the load of an identifier: local slot, upvalue, or
// global name lookup, in that resolution order.
func (c *compiler) loadVariable(name string, pos token.Pos) error {
	if idx := resolveLocal(c.fc, name); idx >= 0 {
		c.emitOp(GET_LOCAL, byte(idx))
		return nil
	}
	idx, err := c.resolveUpvalue(c.fc, name, pos)
	if err != nil {
		return err
	}
	if idx >= 0 {
		c.emitOp(GET_UPVALUE, byte(idx))
		return nil
	}
	k, err := c.constant(name, pos)
	if err != nil {
		return err
	}
	c.emitOp(GET_GLOBAL, byte(k))
	return nil
}

// storeVariable emits the store mirroring loadVariable. The assigned value
// stays on the stack: assignment is an expression.
func (c *compiler) storeVariable(name string, pos token.Pos) error {
	if idx := resolveLocal(c.fc, name); idx >= 0 {
		c.emitOp(SET_LOCAL, byte(idx))
		return nil
	}
	idx, err := c.resolveUpvalue(c.fc, name, pos)
	if err != nil {
		return err
	}
	if idx >= 0 {
		c.emitOp(SET_UPVALUE, byte(idx))
		return nil
	}
	k, err := c.constant(name, pos)
	if err != nil {
		return err
	}
	c.emitOp(SET_GLOBAL, byte(k))
	return nil
}

// ---- statements ----

func (c *compiler) stmt(s ast.Stmt) error {
	c.setLine(s.Position())
	switch s := s.(type) {
	case *ast.VarStmt:
		return c.varStmt(s)
	case *ast.PrintStmt:
		if err := c.expr(s.Expr); err != nil {
			return err
		}
		c.emit(PRINT)
		return nil
	case *ast.ExprStmt:
		if err := c.expr(s.Expr); err != nil {
			return err
		}
		c.emit(POP)
		return nil
	case *ast.ReturnStmt:
		if s.Value != nil {
			if err := c.expr(s.Value); err != nil {
				return err
			}
		} else {
			c.emit(NULL)
		}
		c.emit(RETURN)
		return nil
	case *ast.Block:
		c.beginScope()
		for _, child := range s.Stmts {
			if err := c.stmt(child); err != nil {
				return err
			}
		}
		c.endScope()
		return nil
	case *ast.IfStmt:
		return c.ifStmt(s)
	case *ast.WhileStmt:
		return c.whileStmt(s)
	case *ast.ForStmt:
		return c.forStmt(s)
	case *ast.FunStmt:
		return c.funStmt(s)
	case *ast.ClassStmt:
		return c.classStmt(s)
	default:
		return c.errorf(s.Position(), "unexpected statement node %T", s)
	}
}

func (c *compiler) varStmt(s *ast.VarStmt) error {
	if err := c.expr(s.Value); err != nil {
		return err
	}
	if c.fc.depth > 0 {
		// the initialized value on the stack becomes the local's slot
		return c.addLocal(s.Name.Name, s.Name.NamePos)
	}
	k, err := c.constant(s.Name.Name, s.Name.NamePos)
	if err != nil {
		return err
	}
	c.emitOp(DEFINE_GLOBAL, byte(k))
	return nil
}

func (c *compiler) ifStmt(s *ast.IfStmt) error {
	if err := c.expr(s.Cond); err != nil {
		return err
	}
	thenJump := c.emitJump(JUMP_IF_FALSE)
	c.emit(POP)
	if err := c.stmt(s.Then); err != nil {
		return err
	}
	elseJump := c.emitJump(JUMP)
	if err := c.patchJump(thenJump, s.If); err != nil {
		return err
	}
	c.emit(POP)
	if s.Else != nil {
		if err := c.stmt(s.Else); err != nil {
			return err
		}
	}
	return c.patchJump(elseJump, s.If)
}

func (c *compiler) whileStmt(s *ast.WhileStmt) error {
	loopStart := c.chunk().Len()
	if err := c.expr(s.Cond); err != nil {
		return err
	}
	exitJump := c.emitJump(JUMP_IF_FALSE)
	c.emit(POP)
	if err := c.stmt(s.Body); err != nil {
		return err
	}
	if err := c.emitLoop(loopStart, s.While); err != nil {
		return err
	}
	if err := c.patchJump(exitJump, s.While); err != nil {
		return err
	}
	c.emit(POP)
	return nil
}

// rangeCounterName is the compiler-synthesized local holding the iteration
// index of a ranged for loop. Double-underscore names are reserved and
// cannot collide with user variables.
const rangeCounterName = "__range_counter__"

func (c *compiler) forStmt(s *ast.ForStmt) error {
	c.beginScope()
	c.emit(CONSTANT0)
	if err := c.declareLocal(rangeCounterName, s.For); err != nil {
		return err
	}
	counterSlot := resolveLocal(c.fc, rangeCounterName)

	loopStart := c.chunk().Len()
	c.emitOp(GET_LOCAL, byte(counterSlot))
	if err := c.expr(s.Range); err != nil {
		return err
	}
	exitJump := c.emitJump(JUMP_IF_RANGE_END)
	c.emitOp(COUNTUP, byte(counterSlot))

	// the element pushed by JUMP_IF_RANGE_END becomes the loop variable
	if err := c.addLocal(s.Name.Name, s.Name.NamePos); err != nil {
		return err
	}
	if err := c.stmt(s.Body); err != nil {
		return err
	}
	c.emit(POP)
	if err := c.emitLoop(loopStart, s.For); err != nil {
		return err
	}
	if err := c.patchJump(exitJump, s.For); err != nil {
		return err
	}
	c.endScope()
	return nil
}

func (c *compiler) funStmt(s *ast.FunStmt) error {
	if c.fc.depth > 0 {
		// declare the name first so the function body can call itself
		if err := c.addLocal(s.Name.Name, s.Name.NamePos); err != nil {
			return err
		}
		return c.function(FuncFunction, s.Name.Name, s.Params, s.Body)
	}
	if err := c.function(FuncFunction, s.Name.Name, s.Params, s.Body); err != nil {
		return err
	}
	k, err := c.constant(s.Name.Name, s.Name.NamePos)
	if err != nil {
		return err
	}
	c.emitOp(DEFINE_GLOBAL, byte(k))
	return nil
}

// function compiles a function, method or initializer body in a new
// compiler frame and emits CLOSURE with the capture metadata in the
// enclosing chunk. Binding the resulting closure to a name is the caller's
// concern.
func (c *compiler) function(ftype FuncType, name string, params []*ast.Ident, body *ast.Block) error {
	fc := newFuncCompiler(c.fc, name, ftype, len(params))
	c.fc = fc
	c.beginScope()
	for _, p := range params {
		if err := c.addLocal(p.Name, p.NamePos); err != nil {
			return err
		}
	}
	if err := c.stmt(body); err != nil {
		return err
	}
	if ftype == FuncInit {
		// an initializer implicitly returns its receiver
		c.emitOp(GET_LOCAL, 0)
	} else {
		c.emit(NULL)
	}
	c.emit(RETURN)
	c.endScope()
	c.fc = fc.enclosing

	fIdx, err := c.constant(fc.fn, body.Lbrace)
	if err != nil {
		return err
	}
	c.emitOp(CLOSURE, byte(fIdx))
	for _, uv := range fc.upvalues {
		if uv.isLocal {
			c.emitByte(1)
		} else {
			c.emitByte(0)
		}
		c.emitByte(byte(uv.index))
	}
	return nil
}

func (c *compiler) classStmt(s *ast.ClassStmt) error {
	name := s.Name.Name
	nameIdx, err := c.constant(name, s.Name.NamePos)
	if err != nil {
		return err
	}

	if c.fc.depth > 0 {
		if err := c.addLocal(name, s.Name.NamePos); err != nil {
			return err
		}
		c.emitOp(CLASS, byte(nameIdx))
	} else {
		c.emitOp(CLASS, byte(nameIdx))
		c.emitOp(DEFINE_GLOBAL, byte(nameIdx))
	}

	cc := &classCompiler{enclosing: c.cc}
	c.cc = cc

	if s.Super != nil {
		if s.Super.Name == name {
			return c.errorf(s.Super.NamePos, "class %q cannot inherit from itself", name)
		}
		if err := c.loadVariable(s.Super.Name, s.Super.NamePos); err != nil {
			return err
		}

		// the superclass value lives in a scope of its own, bound to the
		// reserved name "super" so that super expressions resolve it like any
		// other local (or captured upvalue).
		c.beginScope()
		if err := c.addLocal("super", s.Super.NamePos); err != nil {
			return err
		}

		if err := c.loadVariable(name, s.Name.NamePos); err != nil {
			return err
		}
		c.emit(INHERIT)
		cc.hasSuper = true
	}

	// keep the class on the stack while METHOD opcodes bind to it
	if err := c.loadVariable(name, s.Name.NamePos); err != nil {
		return err
	}
	for _, m := range s.Methods {
		ftype := FuncMethod
		if m.Name.Name == "init" {
			ftype = FuncInit
		}
		if err := c.function(ftype, m.Name.Name, m.Params, m.Body); err != nil {
			return err
		}
		mIdx, err := c.constant(m.Name.Name, m.Name.NamePos)
		if err != nil {
			return err
		}
		c.emitOp(METHOD, byte(mIdx))
	}
	c.emit(POP)

	if cc.hasSuper {
		c.endScope()
	}
	c.cc = cc.enclosing
	return nil
}

// ---- expressions ----

func (c *compiler) expr(e ast.Expr) error {
	c.setLine(e.Position())
	switch e := e.(type) {
	case *ast.Ident:
		if e.Name == "this" && c.cc == nil {
			return c.errorf(e.NamePos, "cannot use 'this' outside of a class")
		}
		return c.loadVariable(e.Name, e.NamePos)

	case *ast.IntLit:
		k, err := c.constant(e.Value, e.LitPos)
		if err != nil {
			return err
		}
		c.emitOp(CONSTANT, byte(k))
		return nil

	case *ast.FloatLit:
		k, err := c.constant(e.Value, e.LitPos)
		if err != nil {
			return err
		}
		c.emitOp(CONSTANT, byte(k))
		return nil

	case *ast.StringLit:
		k, err := c.constant(e.Value, e.LitPos)
		if err != nil {
			return err
		}
		c.emitOp(CONSTANT, byte(k))
		return nil

	case *ast.BoolLit:
		if e.Value {
			c.emit(TRUE)
		} else {
			c.emit(FALSE)
		}
		return nil

	case *ast.NullLit:
		c.emit(NULL)
		return nil

	case *ast.ArrayLit:
		if len(e.Elems) > 255 {
			return c.errorf(e.Lbrack, "too many elements in array literal (%d)", len(e.Elems))
		}
		for _, el := range e.Elems {
			if err := c.expr(el); err != nil {
				return err
			}
		}
		c.emitOp(ARRAY, byte(len(e.Elems)))
		return nil

	case *ast.RangeExpr:
		if err := c.expr(e.Start); err != nil {
			return err
		}
		if err := c.expr(e.End); err != nil {
			return err
		}
		c.emit(RANGE)
		return nil

	case *ast.UnaryExpr:
		if err := c.expr(e.Right); err != nil {
			return err
		}
		if e.Op == token.MINUS {
			c.emit(NEGATIVE)
		} else {
			c.emit(NOT)
		}
		return nil

	case *ast.BinaryExpr:
		return c.binaryExpr(e)

	case *ast.LogicalExpr:
		return c.logicalExpr(e)

	case *ast.AssignExpr:
		return c.assignExpr(e)

	case *ast.CallExpr:
		if err := c.expr(e.Callee); err != nil {
			return err
		}
		if len(e.Args) > 255 {
			return c.errorf(e.Position(), "too many arguments in call (%d)", len(e.Args))
		}
		for _, a := range e.Args {
			if err := c.expr(a); err != nil {
				return err
			}
		}
		c.emitOp(CALL, byte(len(e.Args)))
		return nil

	case *ast.IndexExpr:
		if err := c.expr(e.Object); err != nil {
			return err
		}
		if err := c.expr(e.Index); err != nil {
			return err
		}
		c.emit(INDEX_CALL)
		return nil

	case *ast.GetPropExpr:
		if err := c.expr(e.Object); err != nil {
			return err
		}
		k, err := c.constant(e.Name.Name, e.Name.NamePos)
		if err != nil {
			return err
		}
		c.emitOp(GET_PROP, byte(k))
		return nil

	case *ast.InvokeExpr:
		if err := c.expr(e.Object); err != nil {
			return err
		}
		if len(e.Args) > 255 {
			return c.errorf(e.Position(), "too many arguments in call (%d)", len(e.Args))
		}
		for _, a := range e.Args {
			if err := c.expr(a); err != nil {
				return err
			}
		}
		k, err := c.constant(e.Name.Name, e.Name.NamePos)
		if err != nil {
			return err
		}
		c.emitOp(INVOKE, byte(k))
		c.emitByte(byte(len(e.Args)))
		return nil

	case *ast.SuperPropExpr:
		if err := c.loadVariable("this", e.Super); err != nil {
			return err
		}
		k, err := c.constant(e.Name.Name, e.Name.NamePos)
		if err != nil {
			return err
		}
		if err := c.loadVariable("super", e.Super); err != nil {
			return err
		}
		c.emitOp(GET_SUPER, byte(k))
		return nil

	case *ast.SuperInvokeExpr:
		if err := c.loadVariable("this", e.Super); err != nil {
			return err
		}
		if len(e.Args) > 255 {
			return c.errorf(e.Position(), "too many arguments in call (%d)", len(e.Args))
		}
		for _, a := range e.Args {
			if err := c.expr(a); err != nil {
				return err
			}
		}
		k, err := c.constant(e.Name.Name, e.Name.NamePos)
		if err != nil {
			return err
		}
		if err := c.loadVariable("super", e.Super); err != nil {
			return err
		}
		c.emitOp(SUPER_INVOKE, byte(k))
		c.emitByte(byte(len(e.Args)))
		return nil

	default:
		return c.errorf(e.Position(), "unexpected expression node %T", e)
	}
}

func (c *compiler) binaryExpr(e *ast.BinaryExpr) error {
	if err := c.expr(e.Left); err != nil {
		return err
	}
	if err := c.expr(e.Right); err != nil {
		return err
	}
	switch e.Op {
	case token.PLUS:
		c.emit(ADD)
	case token.MINUS:
		c.emit(SUBTRACT)
	case token.STAR:
		c.emit(MULTIPLY)
	case token.SLASH:
		c.emit(DIVIDE)
	case token.PERCENT:
		c.emit(REM)
	case token.CIRCUMFLEX:
		c.emit(POW)
	case token.EQEQ:
		c.emit(EQUAL)
	case token.NEQ:
		c.emit(EQUAL)
		c.emit(NOT)
	case token.LT:
		c.emit(LESS)
	case token.GT:
		c.emit(GREATER)
	case token.LE:
		// x <= y  is  !(x > y)
		c.emit(GREATER)
		c.emit(NOT)
	case token.GE:
		// x >= y  is  !(x < y)
		c.emit(LESS)
		c.emit(NOT)
	default:
		return c.errorf(e.Position(), "unexpected binary operator %s", e.Op)
	}
	return nil
}

func (c *compiler) logicalExpr(e *ast.LogicalExpr) error {
	if err := c.expr(e.Left); err != nil {
		return err
	}
	switch e.Op {
	case token.AND:
		endJump := c.emitJump(JUMP_IF_FALSE)
		c.emit(POP)
		if err := c.expr(e.Right); err != nil {
			return err
		}
		return c.patchJump(endJump, e.Position())
	case token.OR:
		elseJump := c.emitJump(JUMP_IF_FALSE)
		endJump := c.emitJump(JUMP)
		if err := c.patchJump(elseJump, e.Position()); err != nil {
			return err
		}
		c.emit(POP)
		if err := c.expr(e.Right); err != nil {
			return err
		}
		return c.patchJump(endJump, e.Position())
	default:
		return c.errorf(e.Position(), "unexpected logical operator %s", e.Op)
	}
}

func (c *compiler) assignExpr(e *ast.AssignExpr) error {
	switch target := e.Target.(type) {
	case *ast.Ident:
		if err := c.expr(e.Value); err != nil {
			return err
		}
		return c.storeVariable(target.Name, target.NamePos)

	case *ast.GetPropExpr:
		if err := c.expr(target.Object); err != nil {
			return err
		}
		k, err := c.constant(target.Name.Name, target.Name.NamePos)
		if err != nil {
			return err
		}
		if err := c.expr(e.Value); err != nil {
			return err
		}
		c.emitOp(SET_PROP, byte(k))
		return nil

	case *ast.IndexExpr:
		if err := c.expr(target.Object); err != nil {
			return err
		}
		if err := c.expr(target.Index); err != nil {
			return err
		}
		if err := c.expr(e.Value); err != nil {
			return err
		}
		c.emit(INDEX_SET)
		return nil

	default:
		return c.errorf(e.Position(), "invalid assignment target %T", target)
	}
}
