package machine

import (
	"fmt"
	"math"
)

// The arithmetic and comparison helpers implement the numeric promotion
// rules: int op int yields int, any float operand lifts the result to
// float, and ^ always yields a float. + additionally concatenates when one
// operand is a string and the other a string, a number or a bool, or, on
// the right of a string, an array.

func add(x, y Value) (Value, error) {
	switch x := x.(type) {
	case Int:
		switch y := y.(type) {
		case Int:
			return x + y, nil
		case Float:
			return Float(x) + y, nil
		case String:
			return String(x.String()) + y, nil
		}
	case Float:
		switch y := y.(type) {
		case Int:
			return x + Float(y), nil
		case Float:
			return x + y, nil
		case String:
			return String(x.String()) + y, nil
		}
	case String:
		switch y.(type) {
		case Int, Float, String, Bool, *Array:
			return x + String(y.String()), nil
		}
	case Bool:
		if y, ok := y.(String); ok {
			return String(x.String()) + y, nil
		}
	}
	return nil, fmt.Errorf("unsupported operation: %s + %s", x.Type(), y.Type())
}

func subtract(x, y Value) (Value, error) {
	switch x := x.(type) {
	case Int:
		switch y := y.(type) {
		case Int:
			return x - y, nil
		case Float:
			return Float(x) - y, nil
		}
	case Float:
		switch y := y.(type) {
		case Int:
			return x - Float(y), nil
		case Float:
			return x - y, nil
		}
	}
	return nil, fmt.Errorf("unsupported operation: %s - %s", x.Type(), y.Type())
}

func multiply(x, y Value) (Value, error) {
	switch x := x.(type) {
	case Int:
		switch y := y.(type) {
		case Int:
			return x * y, nil
		case Float:
			return Float(x) * y, nil
		}
	case Float:
		switch y := y.(type) {
		case Int:
			return x * Float(y), nil
		case Float:
			return x * y, nil
		}
	}
	return nil, fmt.Errorf("unsupported operation: %s * %s", x.Type(), y.Type())
}

func divide(x, y Value) (Value, error) {
	switch x := x.(type) {
	case Int:
		switch y := y.(type) {
		case Int:
			if y == 0 {
				return nil, fmt.Errorf("integer division by zero")
			}
			return x / y, nil
		case Float:
			return Float(x) / y, nil
		}
	case Float:
		switch y := y.(type) {
		case Int:
			return x / Float(y), nil
		case Float:
			return x / y, nil
		}
	}
	return nil, fmt.Errorf("unsupported operation: %s / %s", x.Type(), y.Type())
}

func remainder(x, y Value) (Value, error) {
	switch x := x.(type) {
	case Int:
		switch y := y.(type) {
		case Int:
			if y == 0 {
				return nil, fmt.Errorf("integer modulo by zero")
			}
			return x % y, nil
		case Float:
			return Float(math.Mod(float64(x), float64(y))), nil
		}
	case Float:
		switch y := y.(type) {
		case Int:
			return Float(math.Mod(float64(x), float64(y))), nil
		case Float:
			return Float(math.Mod(float64(x), float64(y))), nil
		}
	}
	return nil, fmt.Errorf("unsupported operation: %s %% %s", x.Type(), y.Type())
}

func power(x, y Value) (Value, error) {
	xf, xok := toFloat(x)
	yf, yok := toFloat(y)
	if !xok || !yok {
		return nil, fmt.Errorf("unsupported operation: %s ^ %s", x.Type(), y.Type())
	}
	return Float(math.Pow(xf, yf)), nil
}

func negate(x Value) (Value, error) {
	switch x := x.(type) {
	case Int:
		return -x, nil
	case Float:
		return -x, nil
	}
	return nil, fmt.Errorf("unsupported operation: -%s", x.Type())
}

func toFloat(v Value) (float64, bool) {
	switch v := v.(type) {
	case Int:
		return float64(v), true
	case Float:
		return float64(v), true
	}
	return 0, false
}

// equal implements ==. Numbers compare by lifted value, so an int equals a
// float of the same magnitude; other types compare equal types only.
// Arrays compare structurally, reference types by identity, and any other
// type mix is simply unequal.
func equal(x, y Value) bool {
	if xf, ok := toFloat(x); ok {
		yf, ok := toFloat(y)
		return ok && xf == yf
	}
	switch x := x.(type) {
	case String:
		y, ok := y.(String)
		return ok && x == y
	case Bool:
		y, ok := y.(Bool)
		return ok && x == y
	case NullType:
		_, ok := y.(NullType)
		return ok
	case *Array:
		y, ok := y.(*Array)
		if !ok || x.Len() != y.Len() {
			return false
		}
		for i := 0; i < x.Len(); i++ {
			if !equal(x.Index(i), y.Index(i)) {
				return false
			}
		}
		return true
	default:
		return x == y
	}
}

// less implements <. Numbers compare by lifted value, strings
// lexicographically, bools with false before true, arrays elementwise; any
// other pairing is not ordered and compares false.
func less(x, y Value) bool {
	if xf, ok := toFloat(x); ok {
		yf, ok := toFloat(y)
		return ok && xf < yf
	}
	switch x := x.(type) {
	case String:
		y, ok := y.(String)
		return ok && x < y
	case Bool:
		y, ok := y.(Bool)
		return ok && !bool(x) && bool(y)
	case *Array:
		y, ok := y.(*Array)
		if !ok {
			return false
		}
		for i := 0; i < x.Len() && i < y.Len(); i++ {
			if less(x.Index(i), y.Index(i)) {
				return true
			}
			if !equal(x.Index(i), y.Index(i)) {
				return false
			}
		}
		return x.Len() < y.Len()
	}
	return false
}
