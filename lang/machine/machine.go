package machine

import (
	"fmt"
	"io"
	"os"

	"github.com/fennec-lang/fennec/lang/compiler"
)

const (
	// StackSize is the fixed capacity of the value stack. Local slot indices
	// are encoded in one operand byte, so the capacity cannot be raised
	// without widening those operands.
	StackSize = 256
	// FrameSize is the fixed capacity of the call frame stack.
	FrameSize = 256
)

// A callFrame is one active call: the closure being executed, the
// instruction pointer into its chunk, and the value-stack index of slot 0
// (the callee or, in methods, the receiver).
type callFrame struct {
	closure *Closure
	ip      int
	lastOp  int // offset of the opcode being executed, for error positions
	sp      int
}

// A Machine executes compiled bytecode. It owns the value stack, the call
// frame stack, the globals table and the list of open upvalues. A Machine
// is strictly single-threaded.
type Machine struct {
	// Stdout is where the print statement writes. If nil, os.Stdout is used.
	Stdout io.Writer

	stack        [StackSize]Value
	top          int
	frames       [FrameSize]callFrame
	nframes      int
	globals      *Table
	openUpvalues *Upvalue
	stdout       io.Writer
}

// New returns a machine with the built-in functions bound in its globals.
func New() *Machine {
	m := &Machine{globals: NewTable(16)}
	registerBuiltins(m.globals)
	return m
}

// Global returns the value bound to name in the machine's globals.
func (m *Machine) Global(name string) (Value, bool) {
	return m.globals.Get(name)
}

// RunProgram wraps the compiled script in a closure, pushes the initial call
// frame and runs the dispatch loop until the script's return unwinds it. The
// returned error, if non-nil, is a runtime error.
func (m *Machine) RunProgram(fn *compiler.Function) error {
	m.stdout = m.Stdout
	if m.stdout == nil {
		m.stdout = os.Stdout
	}

	cl := &Closure{Fn: fn}
	if err := m.push(cl); err != nil {
		return err
	}
	m.frames[0] = callFrame{closure: cl, sp: 0}
	m.nframes = 1
	return m.run()
}

// errorf returns a runtime error annotated with the source line of the
// instruction being executed.
func (m *Machine) errorf(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if m.nframes > 0 {
		fr := &m.frames[m.nframes-1]
		if line := fr.closure.Fn.Chunk.Line(fr.lastOp); line > 0 {
			return fmt.Errorf("runtime error: line %d: %s", line, msg)
		}
	}
	return fmt.Errorf("runtime error: %s", msg)
}

// ---- stack ----

func (m *Machine) push(v Value) error {
	if m.top >= StackSize {
		return m.errorf("stack overflow")
	}
	m.stack[m.top] = v
	m.top++
	return nil
}

func (m *Machine) pop() Value {
	m.top--
	v := m.stack[m.top]
	m.stack[m.top] = nil
	return v
}

func (m *Machine) peek(n int) Value {
	return m.stack[m.top-1-n]
}

// ---- upvalues ----

// captureUpvalue returns the open upvalue cell for the stack slot, creating
// and splicing a new one into the descending-sorted open list if no closure
// captured that slot yet. Sharing the cell is what makes two closures
// capturing the same local observe each other's writes.
func (m *Machine) captureUpvalue(slot int) *Upvalue {
	var prev *Upvalue
	cur := m.openUpvalues
	for cur != nil && cur.location > slot {
		prev = cur
		cur = cur.next
	}
	if cur != nil && cur.location == slot {
		return cur
	}
	created := &Upvalue{location: slot, next: cur}
	if prev == nil {
		m.openUpvalues = created
	} else {
		prev.next = created
	}
	return created
}

// closeUpvalues closes every open upvalue at or above the slot: the value
// moves from the stack into the cell, exactly once per cell. The descending
// order of the open list makes this a prefix operation.
func (m *Machine) closeUpvalues(from int) {
	for m.openUpvalues != nil && m.openUpvalues.location >= from {
		uv := m.openUpvalues
		uv.closed = m.stack[uv.location]
		uv.location = closedLocation
		m.openUpvalues = uv.next
		uv.next = nil
	}
}

// ---- calls ----

func (m *Machine) pushFrame(cl *Closure, sp int) error {
	if m.nframes >= FrameSize {
		return m.errorf("call stack overflow")
	}
	m.frames[m.nframes] = callFrame{closure: cl, sp: sp}
	m.nframes++
	return nil
}

// callValue dispatches a call on the callee at stack index top-argc-1.
func (m *Machine) callValue(callee Value, argc int) error {
	calleeIdx := m.top - argc - 1
	switch callee := callee.(type) {
	case *Closure:
		if argc != callee.Fn.Arity {
			return m.errorf("%s expects %d arguments, got %d", callee.Fn.Name, callee.Fn.Arity, argc)
		}
		return m.pushFrame(callee, calleeIdx)

	case *Builtin:
		res, err := callee.fn(m.stack[m.top-argc : m.top])
		if err != nil {
			return m.errorf("%s: %s", callee.name, err)
		}
		for i := calleeIdx; i < m.top; i++ {
			m.stack[i] = nil
		}
		m.top = calleeIdx
		m.stack[m.top] = res
		m.top++
		return nil

	case *Class:
		m.stack[calleeIdx] = NewInstance(callee)
		if init, ok := callee.Methods.Get("init"); ok {
			cl, ok := init.(*Closure)
			if !ok {
				return m.errorf("init of class %s is not a method", callee.Name)
			}
			if argc != cl.Fn.Arity {
				return m.errorf("%s.init expects %d arguments, got %d", callee.Name, cl.Fn.Arity, argc)
			}
			return m.pushFrame(cl, calleeIdx)
		}
		if argc != 0 {
			return m.errorf("class %s expects 0 arguments, got %d", callee.Name, argc)
		}
		return nil

	case *BoundMethod:
		if argc != callee.Method.Fn.Arity {
			return m.errorf("%s expects %d arguments, got %d", callee.Method.Fn.Name, callee.Method.Fn.Arity, argc)
		}
		m.stack[calleeIdx] = callee.Receiver
		return m.pushFrame(callee.Method, calleeIdx)

	default:
		return m.errorf("value of type %s is not callable", callee.Type())
	}
}

// invoke implements the fused property-access-and-call: when the receiver
// has a field of that name the field is called like any value, otherwise the
// class method is entered directly without materializing a bound method.
func (m *Machine) invoke(name string, argc int) error {
	recv := m.peek(argc)
	inst, ok := recv.(*Instance)
	if !ok {
		return m.errorf("cannot invoke method %q on value of type %s", name, recv.Type())
	}
	if field, ok := inst.Fields.Get(name); ok {
		m.stack[m.top-argc-1] = field
		return m.callValue(field, argc)
	}
	return m.invokeFromClass(inst.Class, name, argc)
}

func (m *Machine) invokeFromClass(class *Class, name string, argc int) error {
	method, ok := class.Methods.Get(name)
	if !ok {
		return m.errorf("undefined method %q on class %s", name, class.Name)
	}
	cl, ok := method.(*Closure)
	if !ok {
		return m.errorf("method %q on class %s is not callable", name, class.Name)
	}
	if argc != cl.Fn.Arity {
		return m.errorf("%s.%s expects %d arguments, got %d", class.Name, name, cl.Fn.Arity, argc)
	}
	return m.pushFrame(cl, m.top-argc-1)
}

// bindMethod replaces the receiver on top of the stack with a bound method
// when the class has a closure method of that name.
func (m *Machine) bindMethod(class *Class, name string) bool {
	method, ok := class.Methods.Get(name)
	if !ok {
		return false
	}
	cl, ok := method.(*Closure)
	if !ok {
		return false
	}
	m.stack[m.top-1] = &BoundMethod{Receiver: m.stack[m.top-1], Method: cl}
	return true
}

// ---- dispatch ----

func constantValue(c compiler.Constant) (Value, bool) {
	switch c := c.(type) {
	case int64:
		return Int(c), true
	case float64:
		return Float(c), true
	case string:
		return String(c), true
	}
	return nil, false
}

//nolint:gocyclo
func (m *Machine) run() error {
	readByte := func() byte {
		fr := &m.frames[m.nframes-1]
		b := fr.closure.Fn.Chunk.Byte(fr.ip)
		fr.ip++
		return b
	}
	readUint16 := func() int {
		fr := &m.frames[m.nframes-1]
		v := fr.closure.Fn.Chunk.Uint16(fr.ip)
		fr.ip += 2
		return int(v)
	}
	readName := func() (string, error) {
		fr := &m.frames[m.nframes-1]
		c := fr.closure.Fn.Chunk.Constant(int(readByte()))
		name, ok := c.(string)
		if !ok {
			return "", m.errorf("invalid name constant %T", c)
		}
		return name, nil
	}

	for {
		fr := &m.frames[m.nframes-1]
		ch := &fr.closure.Fn.Chunk
		if fr.ip >= ch.Len() {
			return m.errorf("instruction pointer out of range")
		}
		fr.lastOp = fr.ip
		op := compiler.Opcode(ch.Byte(fr.ip))
		fr.ip++

		switch op {
		case compiler.RETURN:
			result := m.pop()
			m.closeUpvalues(fr.sp)
			m.nframes--
			if m.nframes == 0 {
				for i := 0; i < m.top; i++ {
					m.stack[i] = nil
				}
				m.top = 0
				return nil
			}
			for i := fr.sp; i < m.top; i++ {
				m.stack[i] = nil
			}
			m.top = fr.sp
			if err := m.push(result); err != nil {
				return err
			}

		case compiler.CONSTANT:
			c := ch.Constant(int(readByte()))
			v, ok := constantValue(c)
			if !ok {
				return m.errorf("invalid constant %T", c)
			}
			if err := m.push(v); err != nil {
				return err
			}

		case compiler.CONSTANT0:
			if err := m.push(Int(0)); err != nil {
				return err
			}

		case compiler.NULL:
			if err := m.push(Null); err != nil {
				return err
			}

		case compiler.TRUE:
			if err := m.push(True); err != nil {
				return err
			}

		case compiler.FALSE:
			if err := m.push(False); err != nil {
				return err
			}

		case compiler.NEGATIVE:
			v, err := negate(m.pop())
			if err != nil {
				return m.errorf("%s", err)
			}
			if err := m.push(v); err != nil {
				return err
			}

		case compiler.NOT:
			v := m.pop()
			if err := m.push(Bool(!v.Truth())); err != nil {
				return err
			}

		case compiler.ADD, compiler.SUBTRACT, compiler.MULTIPLY, compiler.DIVIDE,
			compiler.REM, compiler.POW:
			y := m.pop()
			x := m.pop()
			var v Value
			var err error
			switch op {
			case compiler.ADD:
				v, err = add(x, y)
			case compiler.SUBTRACT:
				v, err = subtract(x, y)
			case compiler.MULTIPLY:
				v, err = multiply(x, y)
			case compiler.DIVIDE:
				v, err = divide(x, y)
			case compiler.REM:
				v, err = remainder(x, y)
			case compiler.POW:
				v, err = power(x, y)
			}
			if err != nil {
				return m.errorf("%s", err)
			}
			if err := m.push(v); err != nil {
				return err
			}

		case compiler.EQUAL:
			y := m.pop()
			x := m.pop()
			if err := m.push(Bool(equal(x, y))); err != nil {
				return err
			}

		case compiler.LESS:
			y := m.pop()
			x := m.pop()
			if err := m.push(Bool(less(x, y))); err != nil {
				return err
			}

		case compiler.GREATER:
			y := m.pop()
			x := m.pop()
			if err := m.push(Bool(less(y, x))); err != nil {
				return err
			}

		case compiler.PRINT:
			fmt.Fprintln(m.stdout, m.pop().String())

		case compiler.POP:
			m.pop()

		case compiler.DEFINE_GLOBAL:
			name, err := readName()
			if err != nil {
				return err
			}
			m.globals.Set(name, m.pop())

		case compiler.GET_GLOBAL:
			name, err := readName()
			if err != nil {
				return err
			}
			v, ok := m.globals.Get(name)
			if !ok {
				return m.errorf("undefined name %q", name)
			}
			if err := m.push(v); err != nil {
				return err
			}

		case compiler.SET_GLOBAL:
			// assignment is an expression: the value stays on the stack, and
			// assigning an unknown global creates the binding
			name, err := readName()
			if err != nil {
				return err
			}
			m.globals.Set(name, m.peek(0))

		case compiler.GET_LOCAL:
			slot := int(readByte())
			if err := m.push(m.stack[fr.sp+slot]); err != nil {
				return err
			}

		case compiler.SET_LOCAL:
			slot := int(readByte())
			m.stack[fr.sp+slot] = m.peek(0)

		case compiler.JUMP:
			fr.ip += readUint16()

		case compiler.JUMP_IF_FALSE:
			off := readUint16()
			if !m.peek(0).Truth() {
				fr.ip += off
			}

		case compiler.LOOP:
			fr.ip -= readUint16()

		case compiler.CALL:
			argc := int(readByte())
			if err := m.callValue(m.peek(argc), argc); err != nil {
				return err
			}

		case compiler.ARRAY:
			n := int(readByte())
			elems := make([]Value, n)
			copy(elems, m.stack[m.top-n:m.top])
			for i := m.top - n; i < m.top; i++ {
				m.stack[i] = nil
			}
			m.top -= n
			if err := m.push(NewArray(elems)); err != nil {
				return err
			}

		case compiler.INDEX_CALL:
			idxV := m.pop()
			arrV := m.pop()
			idx, ok := idxV.(Int)
			if !ok {
				return m.errorf("array index must be an int, got %s", idxV.Type())
			}
			arr, ok := arrV.(*Array)
			if !ok {
				return m.errorf("cannot index value of type %s", arrV.Type())
			}
			var v Value = Null
			if idx >= 0 && int(idx) < arr.Len() {
				v = arr.Index(int(idx))
			}
			if err := m.push(v); err != nil {
				return err
			}

		case compiler.INDEX_SET:
			v := m.pop()
			idxV := m.pop()
			arrV := m.pop()
			idx, ok := idxV.(Int)
			if !ok {
				return m.errorf("array index must be an int, got %s", idxV.Type())
			}
			arr, ok := arrV.(*Array)
			if !ok {
				return m.errorf("cannot index value of type %s", arrV.Type())
			}
			if idx < 0 || int(idx) >= arr.Len() {
				return m.errorf("array index %d out of bounds (len %d)", idx, arr.Len())
			}
			arr.SetIndex(int(idx), v)
			// the assigned value is the value of the assignment expression
			if err := m.push(v); err != nil {
				return err
			}

		case compiler.CLOSURE:
			c := ch.Constant(int(readByte()))
			fn, ok := c.(*compiler.Function)
			if !ok {
				return m.errorf("invalid closure constant %T", c)
			}
			cl := &Closure{Fn: fn, Upvalues: make([]*Upvalue, 0, fn.UpvalueCount)}
			for i := 0; i < fn.UpvalueCount; i++ {
				isLocal := readByte()
				index := int(readByte())
				if isLocal == 1 {
					cl.Upvalues = append(cl.Upvalues, m.captureUpvalue(fr.sp+index))
				} else {
					cl.Upvalues = append(cl.Upvalues, fr.closure.Upvalues[index])
				}
			}
			if err := m.push(cl); err != nil {
				return err
			}

		case compiler.CLOSE_UPVALUE:
			m.closeUpvalues(m.top - 1)
			m.pop()

		case compiler.GET_UPVALUE:
			uv := fr.closure.Upvalues[readByte()]
			var v Value
			if uv.IsOpen() {
				v = m.stack[uv.location]
			} else {
				v = uv.closed
			}
			if err := m.push(v); err != nil {
				return err
			}

		case compiler.SET_UPVALUE:
			uv := fr.closure.Upvalues[readByte()]
			if uv.IsOpen() {
				m.stack[uv.location] = m.peek(0)
			} else {
				uv.closed = m.peek(0)
			}

		case compiler.CLASS:
			name, err := readName()
			if err != nil {
				return err
			}
			if err := m.push(NewClass(name)); err != nil {
				return err
			}

		case compiler.GET_PROP:
			name, err := readName()
			if err != nil {
				return err
			}
			inst, ok := m.peek(0).(*Instance)
			if !ok {
				return m.errorf("cannot access property %q on value of type %s", name, m.peek(0).Type())
			}
			if field, ok := inst.Fields.Get(name); ok {
				m.stack[m.top-1] = field
				break
			}
			if m.bindMethod(inst.Class, name) {
				break
			}
			m.stack[m.top-1] = Null

		case compiler.SET_PROP:
			name, err := readName()
			if err != nil {
				return err
			}
			inst, ok := m.peek(1).(*Instance)
			if !ok {
				return m.errorf("cannot set property %q on value of type %s", name, m.peek(1).Type())
			}
			v := m.peek(0)
			inst.Fields.Set(name, v)
			// replace instance and value with the assigned value
			m.pop()
			m.pop()
			if err := m.push(v); err != nil {
				return err
			}

		case compiler.METHOD:
			name, err := readName()
			if err != nil {
				return err
			}
			class, ok := m.peek(1).(*Class)
			if !ok {
				return m.errorf("method %q declared outside of a class", name)
			}
			class.Methods.Set(name, m.peek(0))
			m.pop()

		case compiler.INVOKE:
			name, err := readName()
			if err != nil {
				return err
			}
			argc := int(readByte())
			if err := m.invoke(name, argc); err != nil {
				return err
			}

		case compiler.INHERIT:
			super, ok := m.peek(1).(*Class)
			if !ok {
				return m.errorf("superclass must be a class, got %s", m.peek(1).Type())
			}
			sub, ok := m.peek(0).(*Class)
			if !ok {
				return m.errorf("subclass must be a class, got %s", m.peek(0).Type())
			}
			super.Methods.CopyInto(sub.Methods)
			m.pop()

		case compiler.SUPER_INVOKE:
			name, err := readName()
			if err != nil {
				return err
			}
			argc := int(readByte())
			superV := m.pop()
			super, ok := superV.(*Class)
			if !ok {
				return m.errorf("superclass must be a class, got %s", superV.Type())
			}
			if err := m.invokeFromClass(super, name, argc); err != nil {
				return err
			}

		case compiler.GET_SUPER:
			name, err := readName()
			if err != nil {
				return err
			}
			superV := m.pop()
			super, ok := superV.(*Class)
			if !ok {
				return m.errorf("superclass must be a class, got %s", superV.Type())
			}
			if !m.bindMethod(super, name) {
				m.stack[m.top-1] = Null
			}

		case compiler.JUMP_IF_RANGE_END:
			arrV := m.pop()
			idxV := m.pop()
			off := readUint16()
			arr, ok := arrV.(*Array)
			if !ok {
				return m.errorf("for loop expects an array, got %s", arrV.Type())
			}
			idx, ok := idxV.(Int)
			if !ok {
				return m.errorf("for loop counter must be an int, got %s", idxV.Type())
			}
			if int(idx) < arr.Len() {
				if err := m.push(arr.Index(int(idx))); err != nil {
					return err
				}
			} else {
				if err := m.push(Null); err != nil {
					return err
				}
				fr.ip += off
			}

		case compiler.COUNTUP:
			slot := int(readByte())
			v, ok := m.stack[fr.sp+slot].(Int)
			if !ok {
				return m.errorf("loop counter must be an int, got %s", m.stack[fr.sp+slot].Type())
			}
			m.stack[fr.sp+slot] = v + 1

		case compiler.RANGE:
			endV := m.pop()
			startV := m.pop()
			start, ok1 := startV.(Int)
			end, ok2 := endV.(Int)
			if !ok1 || !ok2 {
				return m.errorf("range bounds must be ints, got %s and %s", startV.Type(), endV.Type())
			}
			var elems []Value
			for i := start; i <= end; i++ {
				elems = append(elems, i)
			}
			if err := m.push(NewArray(elems)); err != nil {
				return err
			}

		default:
			return m.errorf("unknown opcode 0x%02X", byte(op))
		}
	}
}
