package interp

import (
	"context"
	"testing"

	"github.com/jmpnz/coldbrew/internal/classfile"
	"github.com/jmpnz/coldbrew/internal/program"
)

func simpleMethod(nameIndex uint16, code []byte, maxLocals uint16, argTypes []program.Type, ret program.Type) *program.Method {
	return &program.Method{
		NameIndex:  nameIndex,
		ReturnType: ret,
		ArgTypes:   argTypes,
		MaxLocals:  maxLocals,
		Code:       code,
	}
}

// TestArithmeticLiteralSum exercises iconst_2, iconst_3, iadd, ireturn,
// which must produce 5.
func TestArithmeticLiteralSum(t *testing.T) {
	code := []byte{
		5,   // iconst_2
		6,   // iconst_3
		96,  // iadd
		172, // ireturn
	}
	prog := &program.Program{
		ConstantPool: classfile.ConstantPool{nil},
		Methods: map[uint16]*program.Method{
			1: simpleMethod(1, code, 0, nil, program.Type{Kind: program.KindInt}),
		},
	}
	it := New(prog)
	result, err := it.Run(context.Background(), 1)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result == nil || result.Kind != KindInt || result.Int() != 5 {
		t.Fatalf("result = %+v, want Int(5)", result)
	}
}

// TestLoopSumTo45 sums 0..9 via a back-edge goto, matching the classic
// "sum to 45" loop fixture: i starts at 0, sum accumulates while i<10.
//
//	0: iconst_0        ; sum = 0
//	1: istore_1
//	2: iconst_0        ; i = 0
//	3: istore_2
//	4: iload_2         ; loop head (pc=4)
//	5: bipush 10
//	7: if_icmpge 20    ; branch offset relative to opcode at pc=7 -> target 7+13=20
//	10: iload_1
//	11: iload_2
//	12: iadd
//	13: istore_1
//	14: iinc 2, 1
//	17: goto 4         ; offset = 4-17 = -13
//	20: iload_1
//	21: ireturn
func TestLoopSumTo45(t *testing.T) {
	code := []byte{
		3, 60, // iconst_0, istore_1          (pc 0,1)
		3, 61, // iconst_0, istore_2          (pc 2,3)
		28,         // iload_2                     (pc 4)
		16, 10,     // bipush 10                   (pc 5,6)
		162, 0, 13, // if_icmpge +13 -> pc 7+13=20  (pc 7,8,9)
		27,        // iload_1                     (pc 10)
		28,        // iload_2                     (pc 11)
		96,        // iadd                        (pc 12)
		60,        // istore_1                    (pc 13)
		132, 2, 1, // iinc 2, 1                   (pc 14,15,16)
		167, 255, 243, // goto -13 -> pc 17+(-13)=4 (pc 17,18,19)
		27,  // iload_1                    (pc 20)
		172, // ireturn                    (pc 21)
	}
	prog := &program.Program{
		ConstantPool: classfile.ConstantPool{nil},
		Methods: map[uint16]*program.Method{
			1: simpleMethod(1, code, 3, nil, program.Type{Kind: program.KindInt}),
		},
	}
	it := New(prog)
	result, err := it.Run(context.Background(), 1)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result == nil || result.Kind != KindInt || result.Int() != 45 {
		t.Fatalf("result = %+v, want Int(45)", result)
	}
}

func TestDivisionByZeroSignalsArithmeticError(t *testing.T) {
	code := []byte{
		6,   // iconst_3
		3,   // iconst_0
		108, // idiv
		172, // ireturn
	}
	prog := &program.Program{
		ConstantPool: classfile.ConstantPool{nil},
		Methods: map[uint16]*program.Method{
			1: simpleMethod(1, code, 0, nil, program.Type{Kind: program.KindInt}),
		},
	}
	it := New(prog)
	_, err := it.Run(context.Background(), 1)
	if !IsRuntimeErrorKind(err, ArithmeticError) {
		t.Fatalf("expected ArithmeticError, got %v", err)
	}
}

func TestStackUnderflowOnBareReturn(t *testing.T) {
	code := []byte{172} // ireturn with nothing pushed
	prog := &program.Program{
		ConstantPool: classfile.ConstantPool{nil},
		Methods: map[uint16]*program.Method{
			1: simpleMethod(1, code, 0, nil, program.Type{Kind: program.KindInt}),
		},
	}
	it := New(prog)
	_, err := it.Run(context.Background(), 1)
	if !IsRuntimeErrorKind(err, StackUnderflow) {
		t.Fatalf("expected StackUnderflow, got %v", err)
	}
}

func TestUnsupportedOpcodeReported(t *testing.T) {
	code := []byte{187, 172} // new, ireturn -- 'new' is out of the numeric subset
	prog := &program.Program{
		ConstantPool: classfile.ConstantPool{nil},
		Methods: map[uint16]*program.Method{
			1: simpleMethod(1, code, 0, nil, program.Type{Kind: program.KindInt}),
		},
	}
	it := New(prog)
	_, err := it.Run(context.Background(), 1)
	if !IsRuntimeErrorKind(err, UnsupportedOpcode) {
		t.Fatalf("expected UnsupportedOpcode, got %v", err)
	}
}

// TestInvokestaticCallsAndReturns builds a two-method program where main
// calls add(2,3) via invokestatic and returns its result.
func TestInvokestaticCallsAndReturns(t *testing.T) {
	// constant pool:
	// 1: Utf8 "main", 2: Utf8 "()I"
	// 3: Utf8 "add", 4: Utf8 "(II)I"
	// 5: NameAndType{name=3,desc=4}
	// 6: MethodRef{class=0, nat=5}
	cp := make(classfile.ConstantPool, 7)
	cp[1] = &classfile.Utf8Info{Value: "main"}
	cp[2] = &classfile.Utf8Info{Value: "()I"}
	cp[3] = &classfile.Utf8Info{Value: "add"}
	cp[4] = &classfile.Utf8Info{Value: "(II)I"}
	cp[5] = &classfile.NameAndTypeInfo{NameIndex: 3, DescriptorIndex: 4}
	cp[6] = &classfile.MethodrefInfo{ClassIndex: 0, NameAndTypeIndex: 5}

	addCode := []byte{
		26,  // iload_0 (arg0)
		27,  // iload_1 (arg1)
		96,  // iadd
		172, // ireturn
	}
	mainCode := []byte{
		5,  // iconst_2
		6,  // iconst_3
		184, 0, 6, // invokestatic #6
		172, // ireturn
	}

	prog := &program.Program{
		ConstantPool: cp,
		Methods: map[uint16]*program.Method{
			1: simpleMethod(1, mainCode, 0, nil, program.Type{Kind: program.KindInt}),
			3: simpleMethod(3, addCode, 2, []program.Type{{Kind: program.KindInt}, {Kind: program.KindInt}}, program.Type{Kind: program.KindInt}),
		},
	}
	it := New(prog)
	result, err := it.Run(context.Background(), 1)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result == nil || result.Int() != 5 {
		t.Fatalf("result = %+v, want Int(5)", result)
	}
}

// fakeRecorder is a minimal HotEdgeRecorder double that just records the
// last (loopHeader, start) pair it was armed with.
type fakeRecorder struct {
	recording  bool
	initCalls  int
	lastHeader ProgramCounter
	lastStart  ProgramCounter
}

func (f *fakeRecorder) IsRecording() bool { return f.recording }
func (f *fakeRecorder) Init(loopHeader, start ProgramCounter) {
	f.initCalls++
	f.recording = true
	f.lastHeader = loopHeader
	f.lastStart = start
}

// TestHotBackEdgeBelowThresholdNeverArms runs a 5-iteration counting loop
// (its back-edge fires 5 times, below DefaultHotThreshold of 10) and
// checks the recorder is never armed.
//
//	0: iconst_0        ; i = 0
//	1: istore_1
//	2: iload_1         ; loop head (pc=2)
//	3: bipush 5
//	5: if_icmpge 14    ; offset relative to pc=5 -> target 5+9=14
//	8: iinc 1, 1
//	11: goto -9        ; offset relative to pc=11 -> target 11-9=2
//	14: iload_1
//	15: ireturn
func TestHotBackEdgeBelowThresholdNeverArms(t *testing.T) {
	code := []byte{
		3, 60, // iconst_0, istore_1   (pc 0,1)
		27,        // iload_1                (pc 2)
		16, 5,     // bipush 5               (pc 3,4)
		162, 0, 9, // if_icmpge +9 -> pc 14  (pc 5,6,7)
		132, 1, 1, // iinc 1, 1              (pc 8,9,10)
		167, 255, 247, // goto -9 -> pc 2    (pc 11,12,13)
		27,  // iload_1                (pc 14)
		172, // ireturn                (pc 15)
	}
	prog := &program.Program{
		ConstantPool: classfile.ConstantPool{nil},
		Methods: map[uint16]*program.Method{
			1: simpleMethod(1, code, 2, nil, program.Type{Kind: program.KindInt}),
		},
	}
	it := New(prog)
	rec := &fakeRecorder{}
	it.Recorder = rec
	result, err := it.Run(context.Background(), 1)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result == nil || result.Int() != 5 {
		t.Fatalf("result = %+v, want Int(5)", result)
	}
	if rec.initCalls != 0 {
		t.Fatalf("initCalls = %d, want 0 (back-edge count below threshold)", rec.initCalls)
	}
}

// TestHotBackEdgeArmsRecorderOnceOverThreshold runs a plain counting loop
// (i starts at 0, increments while i<11, so its back-edge fires 11 times)
// past DefaultHotThreshold and checks the recorder gets armed exactly
// once, at the loop head's PC.
//
//	0: iconst_0        ; i = 0
//	1: istore_1
//	2: iload_1         ; loop head (pc=2)
//	3: bipush 11
//	5: if_icmpge 14    ; offset relative to pc=5 -> target 5+9=14
//	8: iinc 1, 1
//	11: goto -9        ; offset relative to pc=11 -> target 11-9=2
//	14: iload_1
//	15: ireturn
func TestHotBackEdgeArmsRecorderOnceOverThreshold(t *testing.T) {
	code := []byte{
		3, 60, // iconst_0, istore_1   (pc 0,1)
		27,        // iload_1                (pc 2)
		16, 11,    // bipush 11              (pc 3,4)
		162, 0, 9, // if_icmpge +9 -> pc 14  (pc 5,6,7)
		132, 1, 1, // iinc 1, 1              (pc 8,9,10)
		167, 255, 247, // goto -9 -> pc 2    (pc 11,12,13)
		27,  // iload_1                (pc 14)
		172, // ireturn                (pc 15)
	}
	prog := &program.Program{
		ConstantPool: classfile.ConstantPool{nil},
		Methods: map[uint16]*program.Method{
			1: simpleMethod(1, code, 2, nil, program.Type{Kind: program.KindInt}),
		},
	}
	it := New(prog)
	rec := &fakeRecorder{}
	it.Recorder = rec
	result, err := it.Run(context.Background(), 1)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result == nil || result.Int() != 11 {
		t.Fatalf("result = %+v, want Int(11)", result)
	}
	if rec.initCalls != 1 {
		t.Fatalf("initCalls = %d, want exactly 1", rec.initCalls)
	}
	wantHeader := ProgramCounter{MethodIndex: 1, InstructionIndex: 2}
	if rec.lastHeader != wantHeader || rec.lastStart != wantHeader {
		t.Fatalf("armed at %v/%v, want %v", rec.lastHeader, rec.lastStart, wantHeader)
	}
}
