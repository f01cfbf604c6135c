package machine

import (
	"fmt"

	"github.com/fennec-lang/fennec/lang/compiler"
)

// A Closure pairs a compiled function with the upvalue cells it resolved at
// creation time. The machine only ever calls closures; bare functions exist
// solely as constants in the enclosing chunk.
type Closure struct {
	Fn       *compiler.Function
	Upvalues []*Upvalue
}

var _ Value = (*Closure)(nil)

func (c *Closure) String() string {
	return fmt.Sprintf("closure %s param_len=%d upvalue_len=%d", c.Fn.Name, c.Fn.Arity, len(c.Upvalues))
}

func (c *Closure) Type() string { return "closure" }
func (c *Closure) Truth() bool  { return true }

// An Upvalue is a captured local with two states. While open it refers to
// the stack slot where the local still lives, so every closure sharing the
// cell observes writes to the slot. When the slot goes out of scope the cell
// is closed: the value moves into the cell and the slot reference is
// severed.
//
// Open upvalues form a singly linked list sorted by slot descending, with
// the machine holding the head. The ordering makes closing all cells at or
// above a slot a prefix operation.
type Upvalue struct {
	location int // stack slot while open, -1 once closed
	closed   Value
	next     *Upvalue
}

const closedLocation = -1

// IsOpen reports whether the cell still refers to a live stack slot.
func (u *Upvalue) IsOpen() bool { return u.location != closedLocation }

// A Class is a named collection of methods. The method table is populated
// during the class definition and by inheritance, and read-mostly
// afterwards.
type Class struct {
	Name    string
	Methods *Table
}

var _ Value = (*Class)(nil)

// NewClass returns a class with an empty method table.
func NewClass(name string) *Class {
	return &Class{Name: name, Methods: NewTable(0)}
}

func (c *Class) String() string { return "class " + c.Name }
func (c *Class) Type() string   { return "class" }
func (c *Class) Truth() bool    { return true }

// An Instance holds a reference to its class and a table of fields, created
// on first assignment.
type Instance struct {
	Class  *Class
	Fields *Table
}

var _ Value = (*Instance)(nil)

// NewInstance returns a fresh instance of class with no fields.
func NewInstance(class *Class) *Instance {
	return &Instance{Class: class, Fields: NewTable(0)}
}

func (i *Instance) String() string { return "instance <- class " + i.Class.Name }
func (i *Instance) Type() string   { return "instance" }
func (i *Instance) Truth() bool    { return true }

// A BoundMethod pins a method's receiver so the pair can be invoked later.
// It is materialized by property access when the name resolves to a method.
type BoundMethod struct {
	Receiver Value
	Method   *Closure
}

var _ Value = (*BoundMethod)(nil)

func (b *BoundMethod) String() string {
	return fmt.Sprintf("method receiver: %s, name: %s", b.Receiver, b.Method.Fn.Name)
}

func (b *BoundMethod) Type() string { return "bound method" }
func (b *BoundMethod) Truth() bool  { return true }

// A Builtin is a native function implemented by the host. It runs
// synchronously to completion; an error it returns surfaces as a runtime
// error.
type Builtin struct {
	name string
	fn   func(args []Value) (Value, error)
}

var _ Value = (*Builtin)(nil)

func (b *Builtin) String() string { return "native function " + b.name }
func (b *Builtin) Type() string   { return "native function" }
func (b *Builtin) Truth() bool    { return true }
