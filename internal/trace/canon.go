package trace

import (
	"github.com/jmpnz/coldbrew/internal/bytecode"
	"github.com/jmpnz/coldbrew/internal/interp"
)

// isConditionalBranch reports whether op is one of the conditional
// branches the recorder marks last_instruction_was_branch for. Unlike
// Opcode.HasBranchTarget, it excludes goto/goto_w: those are unconditional
// and the recorder classifies them separately as loop back-edges.
func isConditionalBranch(op bytecode.Opcode) bool {
	return op.HasBranchTarget() && op != bytecode.Goto && op != bytecode.GotoW
}

// canonicalize rewrites a short-form constant push or indexed load/store
// (iconst_N, lconst_N, fconst_N, dconst_N, *load_0..3, *store_0..3) into
// its canonical long form carrying an explicit parameter, so later stages
// of the pipeline never need to special-case the short forms. Returns
// ok=false for anything that isn't one of these short forms.
func canonicalize(in interp.Instruction) (interp.Instruction, bool) {
	switch in.Op {
	case bytecode.IconstM1:
		return ldcInt(-1), true
	case bytecode.Iconst0:
		return ldcInt(0), true
	case bytecode.Iconst1:
		return ldcInt(1), true
	case bytecode.Iconst2:
		return ldcInt(2), true
	case bytecode.Iconst3:
		return ldcInt(3), true
	case bytecode.Iconst4:
		return ldcInt(4), true
	case bytecode.Iconst5:
		return ldcInt(5), true
	case bytecode.Lconst0:
		return ldc2Long(0), true
	case bytecode.Lconst1:
		return ldc2Long(1), true
	case bytecode.Fconst0:
		return ldcFloat(0), true
	case bytecode.Fconst1:
		return ldcFloat(1), true
	case bytecode.Fconst2:
		return ldcFloat(2), true
	case bytecode.Dconst0:
		return ldc2Double(0), true
	case bytecode.Dconst1:
		return ldc2Double(1), true

	case bytecode.Iload0, bytecode.Lload0, bytecode.Fload0, bytecode.Dload0:
		return indexed(loadFor(in.Op), 0), true
	case bytecode.Iload1, bytecode.Lload1, bytecode.Fload1, bytecode.Dload1:
		return indexed(loadFor(in.Op), 1), true
	case bytecode.Iload2, bytecode.Lload2, bytecode.Fload2, bytecode.Dload2:
		return indexed(loadFor(in.Op), 2), true
	case bytecode.Iload3, bytecode.Lload3, bytecode.Fload3, bytecode.Dload3:
		return indexed(loadFor(in.Op), 3), true

	case bytecode.Istore0, bytecode.Lstore0, bytecode.Fstore0, bytecode.Dstore0:
		return indexed(storeFor(in.Op), 0), true
	case bytecode.Istore1, bytecode.Lstore1, bytecode.Fstore1, bytecode.Dstore1:
		return indexed(storeFor(in.Op), 1), true
	case bytecode.Istore2, bytecode.Lstore2, bytecode.Fstore2, bytecode.Dstore2:
		return indexed(storeFor(in.Op), 2), true
	case bytecode.Istore3, bytecode.Lstore3, bytecode.Fstore3, bytecode.Dstore3:
		return indexed(storeFor(in.Op), 3), true

	default:
		return interp.Instruction{}, false
	}
}

// canonValueKind tags what a canonicalized ldc/ldc2_w's immediate Param
// actually represents, since Instruction.Params is plain []int32 and long
// form constants need to carry their real width/kind downstream.
const (
	canonInt = iota
	canonLong
	canonFloat
	canonDouble
)

func ldcInt(v int32) interp.Instruction {
	return interp.Instruction{Op: bytecode.Ldc, Params: []int32{v, canonInt}}
}
func ldc2Long(v int32) interp.Instruction {
	return interp.Instruction{Op: bytecode.Ldc2W, Params: []int32{v, canonLong}}
}
func ldcFloat(v int32) interp.Instruction {
	return interp.Instruction{Op: bytecode.Ldc, Params: []int32{v, canonFloat}}
}
func ldc2Double(v int32) interp.Instruction {
	return interp.Instruction{Op: bytecode.Ldc2W, Params: []int32{v, canonDouble}}
}

func indexed(op bytecode.Opcode, n int32) interp.Instruction {
	return interp.Instruction{Op: op, Params: []int32{n}}
}

func loadFor(op bytecode.Opcode) bytecode.Opcode {
	switch {
	case op >= bytecode.Iload0 && op <= bytecode.Iload3:
		return bytecode.Iload
	case op >= bytecode.Lload0 && op <= bytecode.Lload3:
		return bytecode.Lload
	case op >= bytecode.Fload0 && op <= bytecode.Fload3:
		return bytecode.Fload
	default:
		return bytecode.Dload
	}
}

func storeFor(op bytecode.Opcode) bytecode.Opcode {
	switch {
	case op >= bytecode.Istore0 && op <= bytecode.Istore3:
		return bytecode.Istore
	case op >= bytecode.Lstore0 && op <= bytecode.Lstore3:
		return bytecode.Lstore
	case op >= bytecode.Fstore0 && op <= bytecode.Fstore3:
		return bytecode.Fstore
	default:
		return bytecode.Dstore
	}
}
