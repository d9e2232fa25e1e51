package interp

import "github.com/jmpnz/coldbrew/internal/bytecode"

// Instruction is one decoded bytecode instruction: its opcode plus whatever
// immediate operands the operand-decoding table calls for, already widened
// to int32 (sign-extended where the table says so).
type Instruction struct {
	Op     bytecode.Opcode
	Params []int32
}

// Len reports how many bytes this instruction occupies in the code array,
// including its opcode byte, so the interpreter can advance the PC.
func (in Instruction) Len() int {
	switch in.Op {
	case bytecode.Bipush,
		bytecode.Iload, bytecode.Lload, bytecode.Fload, bytecode.Dload, bytecode.Aload,
		bytecode.Istore, bytecode.Lstore, bytecode.Fstore, bytecode.Dstore, bytecode.Astore,
		bytecode.Ldc:
		return 2
	case bytecode.Sipush, bytecode.LdcW, bytecode.Ldc2W, bytecode.Iinc,
		bytecode.Ifeq, bytecode.Ifne, bytecode.Iflt, bytecode.Ifge, bytecode.Ifgt, bytecode.Ifle,
		bytecode.IfIcmpeq, bytecode.IfIcmpne, bytecode.IfIcmplt, bytecode.IfIcmpge, bytecode.IfIcmpgt, bytecode.IfIcmple,
		bytecode.IfAcmpeq, bytecode.IfAcmpne, bytecode.Ifnull, bytecode.Ifnonnull,
		bytecode.Goto,
		bytecode.Getstatic, bytecode.Putstatic, bytecode.Getfield, bytecode.Putfield,
		bytecode.Invokevirtual, bytecode.Invokespecial, bytecode.Invokestatic:
		return 3
	case bytecode.GotoW:
		return 5
	default:
		return 1
	}
}
