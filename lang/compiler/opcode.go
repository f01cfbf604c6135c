package compiler

import "fmt"

// Opcode is a single-byte virtual machine instruction. Operand bytes, when
// present, immediately follow the opcode in the chunk.
type Opcode uint8

// The opcode values are part of the bytecode format and must not be
// reordered.
//
// The comment after each opcode is a "stack picture" describing the state of
// the operand stack before and after execution. OP<x> indicates an immediate
// operand: <k> a constant index, <s> a local slot, <n> a count, <off> a
// 16-bit big-endian jump offset.
//
//nolint:revive
const (
	RETURN        Opcode = iota //               value RETURN             -       unwinds the current frame
	CONSTANT                    //                   - CONSTANT<k>        value
	NEGATIVE                    //                   x NEGATIVE           -x
	ADD                         //                 x y ADD                x+y
	SUBTRACT                    //                 x y SUBTRACT           x-y
	MULTIPLY                    //                 x y MULTIPLY           x*y
	DIVIDE                      //                 x y DIVIDE             x/y
	NULL                        //                   - NULL               null
	TRUE                        //                   - TRUE               true
	FALSE                       //                   - FALSE              false
	NOT                         //                   x NOT                !x
	GREATER                     //                 x y GREATER            x>y
	LESS                        //                 x y LESS               x<y
	EQUAL                       //                 x y EQUAL              x==y
	PRINT                       //                   x PRINT              -
	POP                         //                   x POP                -
	DEFINE_GLOBAL               //               value DEFINE_GLOBAL<k>   -
	GET_GLOBAL                  //                   - GET_GLOBAL<k>      value
	SET_GLOBAL                  //               value SET_GLOBAL<k>      value
	GET_LOCAL                   //                   - GET_LOCAL<s>       value
	SET_LOCAL                   //               value SET_LOCAL<s>       value
	JUMP_IF_FALSE               //                cond JUMP_IF_FALSE<off> cond    jumps if cond is falsy, never pops
	JUMP                        //                   - JUMP<off>          -
	LOOP                        //                   - LOOP<off>          -       jumps backward
	CALL                        //       fn arg1..argN CALL<n>            result
	ARRAY                       //            x1 .. xn ARRAY<n>           array
	INDEX_CALL                  //                 a i INDEX_CALL         elem    null when out of bounds
	REM                         //                 x y REM                x%y
	POW                         //                 x y POW                x^y     always a float
	CLOSURE                     //                   - CLOSURE<k> pairs   closure followed by upvalue_count (is_local, index) pairs
	CLOSE_UPVALUE               //               value CLOSE_UPVALUE      -       closes upvalues at or above the popped slot
	GET_UPVALUE                 //                   - GET_UPVALUE<s>     value
	SET_UPVALUE                 //               value SET_UPVALUE<s>     value
	CLASS                       //                   - CLASS<k>           class
	GET_PROP                    //            instance GET_PROP<k>        value   field, bound method or null
	SET_PROP                    //      instance value SET_PROP<k>        value
	METHOD                      //        class method METHOD<k>          class
	INVOKE                      // recv arg1..argN INVOKE<k><n>           result  fused GET_PROP + CALL
	INHERIT                     //           super sub INHERIT            super   copies methods into sub
	SUPER_INVOKE                // this arg1..argN super SUPER_INVOKE<k><n> result
	GET_SUPER                   //          this super GET_SUPER<k>       bound
	INDEX_SET                   //             a i val INDEX_SET          val
	CONSTANT0                   //                   - CONSTANT0          0       pushes integer zero
	JUMP_IF_RANGE_END           //             i array JUMP_IF_RANGE_END<off> elem   pushes null and jumps when i is past the end
	COUNTUP                     //                   - COUNTUP<s>         -       increments the integer local in place
	RANGE                       //           start end RANGE              array   inclusive integer range

	OpcodeMax = RANGE
)

var opcodeNames = [...]string{
	ADD:               "add",
	ARRAY:             "array",
	CALL:              "call",
	CLASS:             "class",
	CLOSE_UPVALUE:     "close_upvalue",
	CLOSURE:           "closure",
	CONSTANT0:         "constant0",
	CONSTANT:          "constant",
	COUNTUP:           "countup",
	DEFINE_GLOBAL:     "define_global",
	DIVIDE:            "divide",
	EQUAL:             "equal",
	FALSE:             "false",
	GET_GLOBAL:        "get_global",
	GET_LOCAL:         "get_local",
	GET_PROP:          "get_prop",
	GET_SUPER:         "get_super",
	GET_UPVALUE:       "get_upvalue",
	GREATER:           "greater",
	INDEX_CALL:        "index_call",
	INDEX_SET:         "index_set",
	INHERIT:           "inherit",
	INVOKE:            "invoke",
	JUMP:              "jump",
	JUMP_IF_FALSE:     "jump_if_false",
	JUMP_IF_RANGE_END: "jump_if_range_end",
	LESS:              "less",
	LOOP:              "loop",
	METHOD:            "method",
	MULTIPLY:          "multiply",
	NEGATIVE:          "negative",
	NOT:               "not",
	NULL:              "null",
	POP:               "pop",
	POW:               "pow",
	PRINT:             "print",
	RANGE:             "range",
	REM:               "rem",
	RETURN:            "return",
	SET_GLOBAL:        "set_global",
	SET_LOCAL:         "set_local",
	SET_PROP:          "set_prop",
	SET_UPVALUE:       "set_upvalue",
	SUBTRACT:          "subtract",
	SUPER_INVOKE:      "super_invoke",
	TRUE:              "true",
}

func (op Opcode) String() string {
	if op <= OpcodeMax {
		if name := opcodeNames[op]; name != "" {
			return name
		}
	}
	return fmt.Sprintf("illegal op (%d)", uint8(op))
}

// operand encoding kinds
type opKind uint8

const (
	opNone    opKind = iota // no operand
	opConst                 // 1-byte constant pool index
	opByte                  // 1-byte slot index or count
	opJump                  // 2-byte big-endian jump offset
	opInvoke                // 1-byte constant pool index + 1-byte argument count
	opClosure               // 1-byte constant pool index + upvalue_count (is_local, index) pairs
)

var opcodeKinds = [...]opKind{
	ADD:               opNone,
	ARRAY:             opByte,
	CALL:              opByte,
	CLASS:             opConst,
	CLOSE_UPVALUE:     opNone,
	CLOSURE:           opClosure,
	CONSTANT0:         opNone,
	CONSTANT:          opConst,
	COUNTUP:           opByte,
	DEFINE_GLOBAL:     opConst,
	DIVIDE:            opNone,
	EQUAL:             opNone,
	FALSE:             opNone,
	GET_GLOBAL:        opConst,
	GET_LOCAL:         opByte,
	GET_PROP:          opConst,
	GET_SUPER:         opConst,
	GET_UPVALUE:       opByte,
	GREATER:           opNone,
	INDEX_CALL:        opNone,
	INDEX_SET:         opNone,
	INHERIT:           opNone,
	INVOKE:            opInvoke,
	JUMP:              opJump,
	JUMP_IF_FALSE:     opJump,
	JUMP_IF_RANGE_END: opJump,
	LESS:              opNone,
	LOOP:              opJump,
	METHOD:            opConst,
	MULTIPLY:          opNone,
	NEGATIVE:          opNone,
	NOT:               opNone,
	NULL:              opNone,
	POP:               opNone,
	POW:               opNone,
	PRINT:             opNone,
	RANGE:             opNone,
	REM:               opNone,
	RETURN:            opNone,
	SET_GLOBAL:        opConst,
	SET_LOCAL:         opByte,
	SET_PROP:          opConst,
	SET_UPVALUE:       opByte,
	SUBTRACT:          opNone,
	SUPER_INVOKE:      opInvoke,
	TRUE:              opNone,
}

func (op Opcode) kind() opKind {
	if op <= OpcodeMax {
		return opcodeKinds[op]
	}
	return opNone
}
