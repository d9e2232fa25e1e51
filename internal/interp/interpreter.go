// Package interp implements the fetch-decode-dispatch interpreter over the
// numeric subset of the JVM instruction set described by the program
// model, plus the instrumentation hook the trace recorder attaches to.
package interp

import (
	"context"
	"math"

	"github.com/jmpnz/coldbrew/internal/bytecode"
	"github.com/jmpnz/coldbrew/internal/classfile"
	"github.com/jmpnz/coldbrew/internal/program"
	"github.com/jmpnz/coldbrew/internal/rtlog"
)

// Observer is notified of every instruction the interpreter is about to
// execute, before it executes it. The trace recorder is the primary
// consumer; when nil, the hook costs a single nil check per instruction.
type Observer func(pc ProgramCounter, in Instruction)

// HotEdgeRecorder is the subset of the trace recorder's state machine the
// interpreter's hot back-edge policy needs. It is declared here rather
// than imported so interp stays free of a dependency on the trace
// package; *trace.Recorder satisfies it structurally.
type HotEdgeRecorder interface {
	IsRecording() bool
	Init(loopHeader, start ProgramCounter)
}

// DefaultHotThreshold is the back-edge count at which the interpreter
// arms a trace recording at the back-edge's target, if one isn't already
// underway.
const DefaultHotThreshold = 10

// Interpreter runs a program.Program's methods over a stack of Frames.
type Interpreter struct {
	prog     *program.Program
	frames   []*Frame
	Observer Observer

	// Recorder, when set, is armed automatically once a back-edge target
	// crosses DefaultHotThreshold. Left nil, the interpreter runs with no
	// tracing overhead beyond the counter map itself.
	Recorder      HotEdgeRecorder
	backEdgeCount map[ProgramCounter]int
}

// New builds an Interpreter bound to prog.
func New(prog *program.Program) *Interpreter {
	return &Interpreter{prog: prog, backEdgeCount: make(map[ProgramCounter]int)}
}

// Run executes the method named by entryNameIndex to completion and
// returns its return value, if any. ctx is checked once per
// fetch-decode-dispatch iteration; the interpreter never blocks mid-
// instruction on it, so cancellation only takes effect between
// instructions. A host embedder with no use for cancellation can pass
// context.Background().
func (it *Interpreter) Run(ctx context.Context, entryNameIndex uint16) (*Value, error) {
	m, ok := it.prog.Methods[entryNameIndex]
	if !ok {
		return nil, newRuntimeError(PCOutOfRange, ProgramCounter{MethodIndex: entryNameIndex}, "no such method")
	}
	it.frames = []*Frame{newFrame(entryNameIndex, m.MaxLocals)}

	var result *Value
	for len(it.frames) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		frame := it.frames[len(it.frames)-1]
		method := it.prog.Methods[frame.NameIndex]
		if frame.PC.InstructionIndex >= len(method.Code) {
			return nil, newRuntimeError(PCOutOfRange, frame.PC, "instruction index past end of code array")
		}

		in, opcodePC, err := it.fetch(method.Code, frame)
		if err != nil {
			return nil, err
		}

		if it.Observer != nil {
			it.Observer(ProgramCounter{MethodIndex: frame.NameIndex, InstructionIndex: opcodePC}, in)
		}
		if e := rtlog.Logger().Debug(); e.Enabled() {
			e.Str("mnemonic", in.Op.String()).
				Int("method", int(frame.NameIndex)).
				Int("pc", opcodePC).
				Int("operands", len(in.Params)).
				Msg("fetch")
		}

		ret, err := it.dispatch(frame, in, opcodePC)
		if err != nil {
			return nil, err
		}

		if in.Op.HasBranchTarget() && frame.PC.InstructionIndex < opcodePC {
			it.recordBackEdge(ProgramCounter{MethodIndex: frame.NameIndex, InstructionIndex: frame.PC.InstructionIndex})
		}

		if ret != nil {
			it.frames = it.frames[:len(it.frames)-1]
			if len(it.frames) == 0 {
				result = ret.value
				break
			}
			if ret.value != nil {
				it.frames[len(it.frames)-1].push(*ret.value)
			}
		}
	}
	return result, nil
}

// recordBackEdge bumps target's back-edge counter and, once it crosses
// DefaultHotThreshold, arms the attached Recorder (if one is set and not
// already recording) at that target.
func (it *Interpreter) recordBackEdge(target ProgramCounter) {
	it.backEdgeCount[target]++
	if it.Recorder == nil || it.Recorder.IsRecording() {
		return
	}
	if it.backEdgeCount[target] >= DefaultHotThreshold {
		it.Recorder.Init(target, target)
	}
}

// frameResult communicates a *return's outcome back to Run: the value (if
// any) to push on the caller once the returning frame has been popped.
type frameResult struct {
	value *Value
}

// fetch reads one instruction at frame's current PC, decodes its operands
// per the operand table, and advances frame.PC past it. It returns the
// decoded instruction and the PC the opcode itself was read from (needed
// for branch-offset arithmetic, which is relative to the opcode, not the
// post-fetch PC).
func (it *Interpreter) fetch(code []byte, frame *Frame) (Instruction, int, error) {
	opcodePC := frame.PC.InstructionIndex
	op := bytecode.FromByte(code[opcodePC])
	in := Instruction{Op: op}

	read := func(n int) ([]byte, error) {
		start := opcodePC + 1
		if start+n > len(code) {
			return nil, newRuntimeError(PCOutOfRange, frame.PC, "truncated instruction operand")
		}
		return code[start : start+n], nil
	}

	switch op {
	case bytecode.Bipush:
		b, err := read(1)
		if err != nil {
			return Instruction{}, 0, err
		}
		in.Params = []int32{int32(int8(b[0]))}

	case bytecode.Sipush:
		b, err := read(2)
		if err != nil {
			return Instruction{}, 0, err
		}
		in.Params = []int32{int32(int16(be16(b)))}

	case bytecode.Ldc:
		b, err := read(1)
		if err != nil {
			return Instruction{}, 0, err
		}
		in.Params = []int32{int32(b[0])}

	case bytecode.LdcW, bytecode.Ldc2W:
		b, err := read(2)
		if err != nil {
			return Instruction{}, 0, err
		}
		in.Params = []int32{int32(be16(b))}

	case bytecode.Iload, bytecode.Lload, bytecode.Fload, bytecode.Dload, bytecode.Aload,
		bytecode.Istore, bytecode.Lstore, bytecode.Fstore, bytecode.Dstore, bytecode.Astore:
		b, err := read(1)
		if err != nil {
			return Instruction{}, 0, err
		}
		in.Params = []int32{int32(b[0])}

	case bytecode.Iinc:
		b, err := read(2)
		if err != nil {
			return Instruction{}, 0, err
		}
		in.Params = []int32{int32(b[0]), int32(int8(b[1]))}

	case bytecode.Ifeq, bytecode.Ifne, bytecode.Iflt, bytecode.Ifge, bytecode.Ifgt, bytecode.Ifle,
		bytecode.IfIcmpeq, bytecode.IfIcmpne, bytecode.IfIcmplt, bytecode.IfIcmpge, bytecode.IfIcmpgt, bytecode.IfIcmple,
		bytecode.IfAcmpeq, bytecode.IfAcmpne, bytecode.Ifnull, bytecode.Ifnonnull, bytecode.Goto:
		b, err := read(2)
		if err != nil {
			return Instruction{}, 0, err
		}
		in.Params = []int32{int32(int16(be16(b)))}

	case bytecode.GotoW:
		b, err := read(4)
		if err != nil {
			return Instruction{}, 0, err
		}
		in.Params = []int32{int32(be32(b))}

	case bytecode.Getstatic, bytecode.Putstatic, bytecode.Getfield, bytecode.Putfield,
		bytecode.Invokevirtual, bytecode.Invokespecial:
		b, err := read(2)
		if err != nil {
			return Instruction{}, 0, err
		}
		in.Params = []int32{int32(be16(b))}

	case bytecode.Invokestatic:
		b, err := read(2)
		if err != nil {
			return Instruction{}, 0, err
		}
		poolIndex := uint16(be16(b))
		nameIndex, err := it.prog.FindMethod(poolIndex)
		if err != nil {
			return Instruction{}, 0, newRuntimeError(TypeMismatch, frame.PC, err.Error())
		}
		in.Params = []int32{int32(poolIndex), int32(nameIndex)}

	default:
		// No operands in the numeric subset, or unsupported: dispatch
		// rejects the latter.
	}

	frame.PC.InstructionIndex = opcodePC + in.Len()
	return in, opcodePC, nil
}

func be16(b []byte) uint16 { return uint16(b[0])<<8 | uint16(b[1]) }
func be32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

// dispatch executes a decoded instruction against frame, returning a
// non-nil *frameResult only for the `*return` family.
func (it *Interpreter) dispatch(frame *Frame, in Instruction, opcodePC int) (*frameResult, error) {
	op := in.Op
	switch op {
	case bytecode.Nop:
		return nil, nil

	case bytecode.IconstM1:
		frame.push(IntValue(-1))
	case bytecode.Iconst0:
		frame.push(IntValue(0))
	case bytecode.Iconst1:
		frame.push(IntValue(1))
	case bytecode.Iconst2:
		frame.push(IntValue(2))
	case bytecode.Iconst3:
		frame.push(IntValue(3))
	case bytecode.Iconst4:
		frame.push(IntValue(4))
	case bytecode.Iconst5:
		frame.push(IntValue(5))
	case bytecode.Lconst0:
		frame.push(LongValue(0))
	case bytecode.Lconst1:
		frame.push(LongValue(1))
	case bytecode.Fconst0:
		frame.push(FloatValue(0))
	case bytecode.Fconst1:
		frame.push(FloatValue(1))
	case bytecode.Fconst2:
		frame.push(FloatValue(2))
	case bytecode.Dconst0:
		frame.push(DoubleValue(0))
	case bytecode.Dconst1:
		frame.push(DoubleValue(1))

	case bytecode.Bipush, bytecode.Sipush:
		frame.push(IntValue(in.Params[0]))

	case bytecode.Ldc, bytecode.LdcW, bytecode.Ldc2W:
		return nil, it.dispatchLdc(frame, in)

	case bytecode.Iload, bytecode.Lload, bytecode.Fload, bytecode.Dload:
		return nil, it.dispatchLoad(frame, op, int(in.Params[0]))
	case bytecode.Iload0, bytecode.Lload0, bytecode.Fload0, bytecode.Dload0:
		return nil, it.dispatchLoad(frame, widenLoadOp(op), 0)
	case bytecode.Iload1, bytecode.Lload1, bytecode.Fload1, bytecode.Dload1:
		return nil, it.dispatchLoad(frame, widenLoadOp(op), 1)
	case bytecode.Iload2, bytecode.Lload2, bytecode.Fload2, bytecode.Dload2:
		return nil, it.dispatchLoad(frame, widenLoadOp(op), 2)
	case bytecode.Iload3, bytecode.Lload3, bytecode.Fload3, bytecode.Dload3:
		return nil, it.dispatchLoad(frame, widenLoadOp(op), 3)

	case bytecode.Istore, bytecode.Lstore, bytecode.Fstore, bytecode.Dstore:
		return nil, it.dispatchStore(frame, int(in.Params[0]))
	case bytecode.Istore0, bytecode.Lstore0, bytecode.Fstore0, bytecode.Dstore0:
		return nil, it.dispatchStore(frame, 0)
	case bytecode.Istore1, bytecode.Lstore1, bytecode.Fstore1, bytecode.Dstore1:
		return nil, it.dispatchStore(frame, 1)
	case bytecode.Istore2, bytecode.Lstore2, bytecode.Fstore2, bytecode.Dstore2:
		return nil, it.dispatchStore(frame, 2)
	case bytecode.Istore3, bytecode.Lstore3, bytecode.Fstore3, bytecode.Dstore3:
		return nil, it.dispatchStore(frame, 3)

	case bytecode.Iadd, bytecode.Ladd, bytecode.Fadd, bytecode.Dadd,
		bytecode.Isub, bytecode.Lsub, bytecode.Fsub, bytecode.Dsub,
		bytecode.Imul, bytecode.Lmul, bytecode.Fmul, bytecode.Dmul,
		bytecode.Idiv, bytecode.Ldiv, bytecode.Fdiv, bytecode.Ddiv,
		bytecode.Irem, bytecode.Lrem, bytecode.Frem, bytecode.Drem:
		return nil, it.dispatchBinaryArith(frame, op)

	case bytecode.Ineg, bytecode.Lneg, bytecode.Fneg, bytecode.Dneg:
		return nil, it.dispatchNeg(frame, op)

	case bytecode.Ishl, bytecode.Lshl, bytecode.Ishr, bytecode.Lshr,
		bytecode.Iushr, bytecode.Lushr,
		bytecode.Iand, bytecode.Land, bytecode.Ior, bytecode.Lor, bytecode.Ixor, bytecode.Lxor:
		return nil, it.dispatchBitwise(frame, op)

	case bytecode.Iinc:
		idx, delta := int(in.Params[0]), in.Params[1]
		v, err := frame.getLocal(idx)
		if err != nil {
			return nil, err
		}
		if v.Kind != KindInt {
			return nil, newRuntimeError(TypeMismatch, frame.PC, "iinc on non-int local")
		}
		return nil, frame.setLocal(idx, IntValue(v.Int()+delta))

	case bytecode.I2l, bytecode.I2f, bytecode.I2d, bytecode.L2i, bytecode.L2f, bytecode.L2d,
		bytecode.F2i, bytecode.F2l, bytecode.F2d, bytecode.D2i, bytecode.D2l, bytecode.D2f,
		bytecode.I2b, bytecode.I2c, bytecode.I2s:
		return nil, it.dispatchConvert(frame, op)

	case bytecode.Lcmp, bytecode.Fcmpl, bytecode.Fcmpg, bytecode.Dcmpl, bytecode.Dcmpg:
		return nil, it.dispatchCompare(frame, op)

	case bytecode.Ifeq, bytecode.Ifne, bytecode.Iflt, bytecode.Ifge, bytecode.Ifgt, bytecode.Ifle:
		return nil, it.dispatchIfCond(frame, op, opcodePC, in.Params[0])

	case bytecode.IfIcmpeq, bytecode.IfIcmpne, bytecode.IfIcmplt, bytecode.IfIcmpge, bytecode.IfIcmpgt, bytecode.IfIcmple:
		return nil, it.dispatchIfICmp(frame, op, opcodePC, in.Params[0])

	case bytecode.Goto:
		frame.PC.InstructionIndex = opcodePC + int(in.Params[0])
		return nil, nil
	case bytecode.GotoW:
		frame.PC.InstructionIndex = opcodePC + int(in.Params[0])
		return nil, nil

	case bytecode.Invokestatic:
		return it.dispatchInvokestatic(frame, in)

	case bytecode.Ireturn, bytecode.Lreturn, bytecode.Freturn, bytecode.Dreturn:
		v, err := frame.pop()
		if err != nil {
			return nil, err
		}
		return &frameResult{value: &v}, nil
	case bytecode.Return:
		return &frameResult{}, nil

	default:
		return nil, newRuntimeError(UnsupportedOpcode, frame.PC, op.String())
	}
	return nil, nil
}

// widenLoadOp maps a *load_n opcode to its general *load counterpart so
// dispatchLoad can switch on a single representative per kind.
func widenLoadOp(op bytecode.Opcode) bytecode.Opcode {
	switch {
	case op >= bytecode.Iload0 && op <= bytecode.Iload3:
		return bytecode.Iload
	case op >= bytecode.Lload0 && op <= bytecode.Lload3:
		return bytecode.Lload
	case op >= bytecode.Fload0 && op <= bytecode.Fload3:
		return bytecode.Fload
	case op >= bytecode.Dload0 && op <= bytecode.Dload3:
		return bytecode.Dload
	default:
		return op
	}
}

func (it *Interpreter) dispatchLdc(frame *Frame, in Instruction) error {
	idx := uint16(in.Params[0])
	switch e := it.prog.ConstantPool.Get(idx).(type) {
	case *classfile.IntegerInfo:
		frame.push(IntValue(e.Value))
	case *classfile.FloatInfo:
		frame.push(FloatValue(e.Value))
	case *classfile.LongInfo:
		frame.push(LongValue(e.Value))
	case *classfile.DoubleInfo:
		frame.push(DoubleValue(e.Value))
	default:
		return newRuntimeError(UnsupportedOpcode, frame.PC, "ldc of a non-numeric constant pool entry")
	}
	return nil
}

func (it *Interpreter) dispatchLoad(frame *Frame, op bytecode.Opcode, index int) error {
	v, err := frame.getLocal(index)
	if err != nil {
		return err
	}
	if v.Kind != kindFor(op) {
		return newRuntimeError(TypeMismatch, frame.PC, "load kind mismatch")
	}
	frame.push(v)
	return nil
}

func (it *Interpreter) dispatchStore(frame *Frame, index int) error {
	v, err := frame.pop()
	if err != nil {
		return err
	}
	return frame.setLocal(index, v)
}

func kindFor(op bytecode.Opcode) Kind {
	switch op {
	case bytecode.Iload, bytecode.Istore:
		return KindInt
	case bytecode.Lload, bytecode.Lstore:
		return KindLong
	case bytecode.Fload, bytecode.Fstore:
		return KindFloat
	case bytecode.Dload, bytecode.Dstore:
		return KindDouble
	default:
		return KindInt
	}
}

func (it *Interpreter) dispatchBinaryArith(frame *Frame, op bytecode.Opcode) error {
	v2, err := frame.pop()
	if err != nil {
		return err
	}
	v1, err := frame.pop()
	if err != nil {
		return err
	}
	switch op {
	case bytecode.Iadd:
		frame.push(IntValue(v1.Int() + v2.Int()))
	case bytecode.Ladd:
		frame.push(LongValue(v1.Long() + v2.Long()))
	case bytecode.Fadd:
		frame.push(FloatValue(v1.Float() + v2.Float()))
	case bytecode.Dadd:
		frame.push(DoubleValue(v1.Double() + v2.Double()))
	case bytecode.Isub:
		frame.push(IntValue(v1.Int() - v2.Int()))
	case bytecode.Lsub:
		frame.push(LongValue(v1.Long() - v2.Long()))
	case bytecode.Fsub:
		frame.push(FloatValue(v1.Float() - v2.Float()))
	case bytecode.Dsub:
		frame.push(DoubleValue(v1.Double() - v2.Double()))
	case bytecode.Imul:
		frame.push(IntValue(v1.Int() * v2.Int()))
	case bytecode.Lmul:
		frame.push(LongValue(v1.Long() * v2.Long()))
	case bytecode.Fmul:
		frame.push(FloatValue(v1.Float() * v2.Float()))
	case bytecode.Dmul:
		frame.push(DoubleValue(v1.Double() * v2.Double()))
	case bytecode.Idiv:
		if v2.Int() == 0 {
			return newRuntimeError(ArithmeticError, frame.PC, "division by zero")
		}
		frame.push(IntValue(v1.Int() / v2.Int()))
	case bytecode.Ldiv:
		if v2.Long() == 0 {
			return newRuntimeError(ArithmeticError, frame.PC, "division by zero")
		}
		frame.push(LongValue(v1.Long() / v2.Long()))
	case bytecode.Fdiv:
		frame.push(FloatValue(v1.Float() / v2.Float()))
	case bytecode.Ddiv:
		frame.push(DoubleValue(v1.Double() / v2.Double()))
	case bytecode.Irem:
		if v2.Int() == 0 {
			return newRuntimeError(ArithmeticError, frame.PC, "division by zero")
		}
		frame.push(IntValue(v1.Int() % v2.Int()))
	case bytecode.Lrem:
		if v2.Long() == 0 {
			return newRuntimeError(ArithmeticError, frame.PC, "division by zero")
		}
		frame.push(LongValue(v1.Long() % v2.Long()))
	case bytecode.Frem:
		frame.push(FloatValue(float32(math.Mod(float64(v1.Float()), float64(v2.Float())))))
	case bytecode.Drem:
		frame.push(DoubleValue(math.Mod(v1.Double(), v2.Double())))
	}
	return nil
}

func (it *Interpreter) dispatchNeg(frame *Frame, op bytecode.Opcode) error {
	v, err := frame.pop()
	if err != nil {
		return err
	}
	switch op {
	case bytecode.Ineg:
		frame.push(IntValue(-v.Int()))
	case bytecode.Lneg:
		frame.push(LongValue(-v.Long()))
	case bytecode.Fneg:
		frame.push(FloatValue(-v.Float()))
	case bytecode.Dneg:
		frame.push(DoubleValue(-v.Double()))
	}
	return nil
}

func (it *Interpreter) dispatchBitwise(frame *Frame, op bytecode.Opcode) error {
	v2, err := frame.pop()
	if err != nil {
		return err
	}
	v1, err := frame.pop()
	if err != nil {
		return err
	}
	switch op {
	case bytecode.Ishl:
		frame.push(IntValue(v1.Int() << (uint32(v2.Int()) & 0x1F)))
	case bytecode.Lshl:
		frame.push(LongValue(v1.Long() << (uint64(v2.Long()) & 0x3F)))
	case bytecode.Ishr:
		frame.push(IntValue(v1.Int() >> (uint32(v2.Int()) & 0x1F)))
	case bytecode.Lshr:
		frame.push(LongValue(v1.Long() >> (uint64(v2.Long()) & 0x3F)))
	case bytecode.Iushr:
		frame.push(IntValue(int32(uint32(v1.Int()) >> (uint32(v2.Int()) & 0x1F))))
	case bytecode.Lushr:
		frame.push(LongValue(int64(uint64(v1.Long()) >> (uint64(v2.Long()) & 0x3F))))
	case bytecode.Iand:
		frame.push(IntValue(v1.Int() & v2.Int()))
	case bytecode.Land:
		frame.push(LongValue(v1.Long() & v2.Long()))
	case bytecode.Ior:
		frame.push(IntValue(v1.Int() | v2.Int()))
	case bytecode.Lor:
		frame.push(LongValue(v1.Long() | v2.Long()))
	case bytecode.Ixor:
		frame.push(IntValue(v1.Int() ^ v2.Int()))
	case bytecode.Lxor:
		frame.push(LongValue(v1.Long() ^ v2.Long()))
	}
	return nil
}

func (it *Interpreter) dispatchConvert(frame *Frame, op bytecode.Opcode) error {
	v, err := frame.pop()
	if err != nil {
		return err
	}
	switch op {
	case bytecode.I2l:
		frame.push(LongValue(int64(v.Int())))
	case bytecode.I2f:
		frame.push(FloatValue(float32(v.Int())))
	case bytecode.I2d:
		frame.push(DoubleValue(float64(v.Int())))
	case bytecode.L2i:
		frame.push(IntValue(int32(v.Long())))
	case bytecode.L2f:
		frame.push(FloatValue(float32(v.Long())))
	case bytecode.L2d:
		frame.push(DoubleValue(float64(v.Long())))
	case bytecode.F2i:
		frame.push(IntValue(int32(v.Float())))
	case bytecode.F2l:
		frame.push(LongValue(int64(v.Float())))
	case bytecode.F2d:
		frame.push(DoubleValue(float64(v.Float())))
	case bytecode.D2i:
		frame.push(IntValue(int32(v.Double())))
	case bytecode.D2l:
		frame.push(LongValue(int64(v.Double())))
	case bytecode.D2f:
		frame.push(FloatValue(float32(v.Double())))
	case bytecode.I2b:
		frame.push(IntValue(int32(int8(v.Int()))))
	case bytecode.I2c:
		frame.push(IntValue(int32(uint16(v.Int()))))
	case bytecode.I2s:
		frame.push(IntValue(int32(int16(v.Int()))))
	}
	return nil
}

func (it *Interpreter) dispatchCompare(frame *Frame, op bytecode.Opcode) error {
	v2, err := frame.pop()
	if err != nil {
		return err
	}
	v1, err := frame.pop()
	if err != nil {
		return err
	}
	switch op {
	case bytecode.Lcmp:
		frame.push(IntValue(cmp3(v1.Long() < v2.Long(), v1.Long() == v2.Long())))
	case bytecode.Fcmpl:
		if isNaN32(v1.Float()) || isNaN32(v2.Float()) {
			frame.push(IntValue(-1))
		} else {
			frame.push(IntValue(cmp3(v1.Float() < v2.Float(), v1.Float() == v2.Float())))
		}
	case bytecode.Fcmpg:
		if isNaN32(v1.Float()) || isNaN32(v2.Float()) {
			frame.push(IntValue(1))
		} else {
			frame.push(IntValue(cmp3(v1.Float() < v2.Float(), v1.Float() == v2.Float())))
		}
	case bytecode.Dcmpl:
		if math.IsNaN(v1.Double()) || math.IsNaN(v2.Double()) {
			frame.push(IntValue(-1))
		} else {
			frame.push(IntValue(cmp3(v1.Double() < v2.Double(), v1.Double() == v2.Double())))
		}
	case bytecode.Dcmpg:
		if math.IsNaN(v1.Double()) || math.IsNaN(v2.Double()) {
			frame.push(IntValue(1))
		} else {
			frame.push(IntValue(cmp3(v1.Double() < v2.Double(), v1.Double() == v2.Double())))
		}
	}
	return nil
}

func cmp3(less, equal bool) int32 {
	if less {
		return -1
	}
	if equal {
		return 0
	}
	return 1
}

func isNaN32(f float32) bool { return f != f }

func (it *Interpreter) dispatchIfCond(frame *Frame, op bytecode.Opcode, opcodePC int, offset int32) error {
	v, err := frame.pop()
	if err != nil {
		return err
	}
	if v.Kind != KindInt {
		return newRuntimeError(TypeMismatch, frame.PC, "if<cond> on non-int value")
	}
	n := v.Int()
	var take bool
	switch op {
	case bytecode.Ifeq:
		take = n == 0
	case bytecode.Ifne:
		take = n != 0
	case bytecode.Iflt:
		take = n < 0
	case bytecode.Ifge:
		take = n >= 0
	case bytecode.Ifgt:
		take = n > 0
	case bytecode.Ifle:
		take = n <= 0
	}
	if take {
		frame.PC.InstructionIndex = opcodePC + int(offset)
	}
	return nil
}

func (it *Interpreter) dispatchIfICmp(frame *Frame, op bytecode.Opcode, opcodePC int, offset int32) error {
	v2, err := frame.pop()
	if err != nil {
		return err
	}
	v1, err := frame.pop()
	if err != nil {
		return err
	}
	if v1.Kind != KindInt || v2.Kind != KindInt {
		return newRuntimeError(TypeMismatch, frame.PC, "if_icmp<cond> on non-int values")
	}
	a, b := v1.Int(), v2.Int()
	var take bool
	switch op {
	case bytecode.IfIcmpeq:
		take = a == b
	case bytecode.IfIcmpne:
		take = a != b
	case bytecode.IfIcmplt:
		take = a < b
	case bytecode.IfIcmpge:
		take = a >= b
	case bytecode.IfIcmpgt:
		take = a > b
	case bytecode.IfIcmple:
		take = a <= b
	}
	if take {
		frame.PC.InstructionIndex = opcodePC + int(offset)
	}
	return nil
}

func (it *Interpreter) dispatchInvokestatic(frame *Frame, in Instruction) (*frameResult, error) {
	nameIndex := uint16(in.Params[1])
	target, ok := it.prog.Methods[nameIndex]
	if !ok {
		return nil, newRuntimeError(TypeMismatch, frame.PC, "invokestatic target method not found")
	}
	if len(it.frames) > len(it.prog.Methods)+recursionGuardSlack {
		return nil, newRuntimeError(UnsupportedOpcode, frame.PC, "call depth exceeds recursion guard")
	}

	callee := newFrame(nameIndex, target.MaxLocals)
	n := len(target.ArgTypes)
	args := make([]Value, n)
	for i := n - 1; i >= 0; i-- {
		v, err := frame.pop()
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	slot := 0
	for _, a := range args {
		callee.Locals[slot] = a
		if a.Kind == KindLong || a.Kind == KindDouble {
			slot += 2
		} else {
			slot++
		}
	}
	it.frames = append(it.frames, callee)
	return nil, nil
}

// recursionGuardSlack bounds call depth against a pathological program
// recursing without ever hitting a return, independent of the trace
// recorder's own abort-on-recursion policy.
const recursionGuardSlack = 4096
