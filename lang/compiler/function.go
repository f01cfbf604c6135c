package compiler

// FuncType identifies what kind of body a function compiles: the top-level
// script, an ordinary function, a method, or a class initializer.
type FuncType uint8

const (
	FuncScript FuncType = iota
	FuncFunction
	FuncMethod
	FuncInit
)

// ScriptName is the name given to the synthetic top-level function.
const ScriptName = "__main__"

// A Function is the compiled form of one function: its chunk, name, arity
// and the number of upvalues its closures resolve. Functions are immutable
// once compilation completes; nested functions appear as constants in the
// enclosing function's pool.
type Function struct {
	Name         string
	Arity        int
	UpvalueCount int
	Chunk        Chunk
}
