package compiler

import (
	"fmt"
	"strconv"
	"strings"
)

// Dasm renders a compiled function and, recursively, every function constant
// it contains, in a deterministic human-readable listing. It is used by the
// golden tests and by the disassembly diagnostics of the CLI.
func Dasm(fn *Function) string {
	var sb strings.Builder
	dasmFunc(&sb, fn)
	return sb.String()
}

func dasmFunc(sb *strings.Builder, fn *Function) {
	fmt.Fprintf(sb, "function: %s %d %d\n", fn.Name, fn.Arity, fn.UpvalueCount)

	var nested []*Function
	ch := &fn.Chunk
	if n := ch.NumConstants(); n > 0 {
		sb.WriteString("\tconstants:\n")
		for i := 0; i < n; i++ {
			switch v := ch.Constant(i).(type) {
			case int64:
				fmt.Fprintf(sb, "\t\t%03d\tint\t%d\n", i, v)
			case float64:
				fmt.Fprintf(sb, "\t\t%03d\tfloat\t%s\n", i, strconv.FormatFloat(v, 'g', -1, 64))
			case string:
				fmt.Fprintf(sb, "\t\t%03d\tstring\t%q\n", i, v)
			case *Function:
				fmt.Fprintf(sb, "\t\t%03d\tfunction\t%s\n", i, v.Name)
				nested = append(nested, v)
			default:
				fmt.Fprintf(sb, "\t\t%03d\tunknown\t%T\n", i, v)
			}
		}
	}

	sb.WriteString("\tcode:\n")
	for offset := 0; offset < ch.Len(); {
		offset = dasmInsn(sb, ch, offset)
	}

	for _, nfn := range nested {
		sb.WriteByte('\n')
		dasmFunc(sb, nfn)
	}
}

// dasmInsn renders the instruction at offset and returns the offset of the
// next one.
func dasmInsn(sb *strings.Builder, ch *Chunk, offset int) int {
	op := Opcode(ch.Byte(offset))
	fmt.Fprintf(sb, "\t\t%04d\t%s", offset, op)

	switch op.kind() {
	case opNone:
		sb.WriteByte('\n')
		return offset + 1

	case opConst:
		if offset+1 >= ch.Len() {
			return truncated(sb, ch)
		}
		k := int(ch.Byte(offset + 1))
		fmt.Fprintf(sb, " %03d\t# %s\n", k, constantLabel(ch, k))
		return offset + 2

	case opByte:
		if offset+1 >= ch.Len() {
			return truncated(sb, ch)
		}
		fmt.Fprintf(sb, " %03d\n", ch.Byte(offset+1))
		return offset + 2

	case opJump:
		if offset+2 >= ch.Len() {
			return truncated(sb, ch)
		}
		dist := int(ch.Uint16(offset + 1))
		target := offset + 3 + dist
		if op == LOOP {
			target = offset + 3 - dist
		}
		fmt.Fprintf(sb, " %04d\t# -> %04d\n", dist, target)
		return offset + 3

	case opInvoke:
		if offset+2 >= ch.Len() {
			return truncated(sb, ch)
		}
		k := int(ch.Byte(offset + 1))
		argc := ch.Byte(offset + 2)
		fmt.Fprintf(sb, " %03d %d\t# %s\n", k, argc, constantLabel(ch, k))
		return offset + 3

	case opClosure:
		if offset+1 >= ch.Len() {
			return truncated(sb, ch)
		}
		k := int(ch.Byte(offset + 1))
		fmt.Fprintf(sb, " %03d\t# %s", k, constantLabel(ch, k))
		offset += 2
		if fn, ok := ch.Constant(k).(*Function); ok {
			for i := 0; i < fn.UpvalueCount; i++ {
				if offset+1 >= ch.Len() {
					return truncated(sb, ch)
				}
				isLocal, index := ch.Byte(offset), ch.Byte(offset+1)
				if isLocal == 1 {
					fmt.Fprintf(sb, " local:%d", index)
				} else {
					fmt.Fprintf(sb, " upvalue:%d", index)
				}
				offset += 2
			}
		}
		sb.WriteByte('\n')
		return offset
	}

	sb.WriteByte('\n')
	return offset + 1
}

func truncated(sb *strings.Builder, ch *Chunk) int {
	sb.WriteString(" !truncated\n")
	return ch.Len()
}

func constantLabel(ch *Chunk, k int) string {
	if k >= ch.NumConstants() {
		return "!bad constant index"
	}
	switch v := ch.Constant(k).(type) {
	case string:
		return strconv.Quote(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case *Function:
		return "fn " + v.Name
	default:
		return fmt.Sprintf("%T", v)
	}
}
