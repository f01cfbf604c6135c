package machine

import (
	"fmt"
	"time"
)

// registerBuiltins binds the native functions into the globals table of a
// new machine. They follow the intrinsic library of the language: array
// helpers, str conversion, the half-open range constructor and now.
func registerBuiltins(globals *Table) {
	for _, b := range []*Builtin{
		{name: "len", fn: builtinLen},
		{name: "append", fn: builtinAppend},
		{name: "first", fn: builtinFirst},
		{name: "last", fn: builtinLast},
		{name: "rest", fn: builtinRest},
		{name: "str", fn: builtinStr},
		{name: "range", fn: builtinRange},
		{name: "get", fn: builtinGet},
		{name: "now", fn: builtinNow},
	} {
		globals.Set(b.name, b)
	}
}

// builtinLen returns the number of elements of an array, null for anything
// else.
func builtinLen(args []Value) (Value, error) {
	if len(args) == 0 {
		return Null, nil
	}
	if arr, ok := args[0].(*Array); ok {
		return Int(arr.Len()), nil
	}
	return Null, nil
}

// builtinAppend returns a new array with the extra values appended; the
// original array is left untouched.
func builtinAppend(args []Value) (Value, error) {
	if len(args) < 2 {
		return Null, nil
	}
	arr, ok := args[0].(*Array)
	if !ok {
		return nil, fmt.Errorf("expected an array, got %s", args[0].Type())
	}
	elems := make([]Value, 0, arr.Len()+len(args)-1)
	for i := 0; i < arr.Len(); i++ {
		elems = append(elems, arr.Index(i))
	}
	elems = append(elems, args[1:]...)
	return NewArray(elems), nil
}

func builtinFirst(args []Value) (Value, error) {
	if len(args) != 1 {
		return Null, nil
	}
	arr, ok := args[0].(*Array)
	if !ok {
		return nil, fmt.Errorf("expected an array, got %s", args[0].Type())
	}
	if arr.Len() == 0 {
		return nil, fmt.Errorf("empty array")
	}
	return arr.Index(0), nil
}

func builtinLast(args []Value) (Value, error) {
	if len(args) != 1 {
		return Null, nil
	}
	arr, ok := args[0].(*Array)
	if !ok {
		return nil, fmt.Errorf("expected an array, got %s", args[0].Type())
	}
	if arr.Len() == 0 {
		return nil, fmt.Errorf("empty array")
	}
	return arr.Index(arr.Len() - 1), nil
}

// builtinRest returns a new array with every element but the first.
func builtinRest(args []Value) (Value, error) {
	if len(args) != 1 {
		return Null, nil
	}
	arr, ok := args[0].(*Array)
	if !ok {
		return nil, fmt.Errorf("expected an array, got %s", args[0].Type())
	}
	elems := make([]Value, 0, max(arr.Len()-1, 0))
	for i := 1; i < arr.Len(); i++ {
		elems = append(elems, arr.Index(i))
	}
	return NewArray(elems), nil
}

func builtinStr(args []Value) (Value, error) {
	if len(args) != 1 {
		return Null, nil
	}
	return String(args[0].String()), nil
}

// builtinRange builds a half-open integer sequence: range(stop),
// range(start, stop) or range(start, stop, step). Unlike the "to" operator,
// the stop bound is exclusive.
func builtinRange(args []Value) (Value, error) {
	bounds := make([]int64, len(args))
	for i, a := range args {
		n, ok := a.(Int)
		if !ok {
			return nil, fmt.Errorf("expected int arguments, got %s", a.Type())
		}
		bounds[i] = int64(n)
	}

	var start, stop, step int64
	switch len(bounds) {
	case 1:
		start, stop, step = 0, bounds[0], 1
	case 2:
		start, stop, step = bounds[0], bounds[1], 1
	case 3:
		start, stop, step = bounds[0], bounds[1], bounds[2]
		if step <= 0 {
			return nil, fmt.Errorf("step must be positive, got %d", step)
		}
	default:
		return Null, nil
	}

	var elems []Value
	for i := start; i < stop; i += step {
		elems = append(elems, Int(i))
	}
	return NewArray(elems), nil
}

// builtinGet returns the element at an index, null when the index is not an
// int or out of bounds.
func builtinGet(args []Value) (Value, error) {
	if len(args) != 2 {
		return Null, nil
	}
	arr, ok := args[0].(*Array)
	if !ok {
		return nil, fmt.Errorf("expected an array, got %s", args[0].Type())
	}
	idx, ok := args[1].(Int)
	if !ok {
		return Null, nil
	}
	if idx < 0 || int(idx) >= arr.Len() {
		return Null, nil
	}
	return arr.Index(int(idx)), nil
}

func builtinNow(args []Value) (Value, error) {
	return Timestamp(time.Now()), nil
}
