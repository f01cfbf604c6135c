// Package machine implements the stack-based virtual machine that executes
// compiled bytecode. It also provides the runtime representation of the
// language values and the built-in functions.
package machine

import (
	"strconv"
	"strings"
	"time"
)

// Value is the interface implemented by any value manipulated by the
// machine.
type Value interface {
	// String returns the string representation of the value, as produced by
	// the print statement.
	String() string

	// Type returns a short string describing the value's type.
	Type() string

	// Truth returns the truth value: everything is truthy except false and
	// null.
	Truth() bool
}

// Int is the type of a 64-bit integer.
type Int int64

var _ Value = Int(0)

func (i Int) String() string { return strconv.FormatInt(int64(i), 10) }
func (i Int) Type() string   { return "int" }
func (i Int) Truth() bool    { return true }

// Float is the type of a 64-bit floating point number.
type Float float64

var _ Value = Float(0)

func (f Float) String() string { return strconv.FormatFloat(float64(f), 'g', -1, 64) }
func (f Float) Type() string   { return "float" }
func (f Float) Truth() bool    { return true }

// String is the type of a text string.
type String string

var _ Value = String("")

func (s String) String() string { return string(s) }
func (s String) Type() string   { return "string" }
func (s String) Truth() bool    { return true }

// Bool is the type of the booleans true and false.
type Bool bool

const (
	True  = Bool(true)
	False = Bool(false)
)

var _ Value = False

func (b Bool) String() string { return strconv.FormatBool(bool(b)) }
func (b Bool) Type() string   { return "bool" }
func (b Bool) Truth() bool    { return bool(b) }

// NullType is the type of null. Its only legal value is Null. (It is
// represented as a number, not struct{}, so that Null may be constant.)
type NullType byte

// Null is the null value.
const Null = NullType(0)

var _ Value = Null

func (NullType) String() string { return "null" }
func (NullType) Type() string   { return "null" }
func (NullType) Truth() bool    { return false }

// An Array is a shared mutable sequence of values. Assigning an array never
// copies it: every holder observes element writes.
type Array struct {
	elems []Value
}

var _ Value = (*Array)(nil)

// NewArray returns an array holding elems. Callers must not subsequently
// modify elems directly.
func NewArray(elems []Value) *Array { return &Array{elems: elems} }

func (a *Array) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, e := range a.elems {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(e.String())
	}
	sb.WriteByte(']')
	return sb.String()
}

func (a *Array) Type() string { return "array" }
func (a *Array) Truth() bool  { return true }

// Len returns the number of elements.
func (a *Array) Len() int { return len(a.elems) }

// Index returns the element at i, which must satisfy 0 <= i < Len().
func (a *Array) Index(i int) Value { return a.elems[i] }

// SetIndex overwrites the element at i, which must satisfy 0 <= i < Len().
func (a *Array) SetIndex(i int, v Value) { a.elems[i] = v }

// Timestamp is the type of the value returned by the now() built-in.
type Timestamp time.Time

var _ Value = Timestamp{}

func (t Timestamp) String() string {
	return time.Time(t).Format("2006/01/02 15:04:05.000000")
}

func (t Timestamp) Type() string { return "timestamp" }
func (t Timestamp) Truth() bool  { return true }
