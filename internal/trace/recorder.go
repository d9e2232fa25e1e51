// Package trace implements the linear trace recorder: it watches the
// interpreter's fetch stream starting at a hot back-edge target and
// harvests a straight-line instruction sequence suitable for later code
// generation, aborting whenever recording it would require branching logic
// a linear trace can't express.
package trace

import (
	"github.com/jmpnz/coldbrew/internal/bytecode"
	"github.com/jmpnz/coldbrew/internal/interp"
)

// Record is one instruction captured by the recorder, already
// canonicalized (short-form constants/loads/stores rewritten to their long
// form) by the time it lands in a Trace.
type Record struct {
	PC   interp.ProgramCounter
	Inst interp.Instruction
}

// Trace is the harvested result of a completed recording: a straight-line
// instruction sequence plus the branch-target classification the recorder
// built up while recording it.
type Trace struct {
	Start              interp.ProgramCounter
	Records            []Record
	InnerBranchTargets map[int]struct{}
	OuterBranchTargets map[int]struct{}
}

// Recorder is the Idle/Recording/Completed state machine described by the
// trace-recording component: Init starts a recording at a loop header,
// Record feeds it one fetched instruction at a time, IsDoneRecording polls
// for completion, and Recording harvests the finished Trace.
type Recorder struct {
	isRecording              bool
	loopHeader               interp.ProgramCounter
	traceStart               interp.ProgramCounter
	buffer                   []Record
	innerBranchTargets       map[int]struct{}
	outerBranchTargets       map[int]struct{}
	lastInstructionWasBranch bool
}

// New returns a Recorder in the Idle state.
func New() *Recorder {
	return &Recorder{}
}

// IsRecording reports whether the recorder is actively capturing.
func (r *Recorder) IsRecording() bool { return r.isRecording }

// Init starts (or restarts) a recording at loopHeader/start. A call while
// already recording at the same start is a no-op, so a hot back-edge
// re-armed mid-recording doesn't reset progress.
func (r *Recorder) Init(loopHeader, start interp.ProgramCounter) {
	if r.isRecording && r.traceStart == start {
		return
	}
	r.buffer = nil
	r.innerBranchTargets = make(map[int]struct{})
	r.outerBranchTargets = make(map[int]struct{})
	r.traceStart = start
	r.loopHeader = loopHeader
	r.isRecording = true
	r.lastInstructionWasBranch = false
}

// IsDoneRecording reports whether the trace is ready to be harvested: it is
// non-empty and either the last recorded instruction was a return in the
// method the trace started in, or pc has looped back to the loop header. A
// return from a different method than the trace started in aborts the
// recording (the interpreter followed a call out of the traced method) and
// reports false.
func (r *Recorder) IsDoneRecording(pc interp.ProgramCounter) bool {
	if len(r.buffer) == 0 {
		return false
	}
	last := r.buffer[len(r.buffer)-1]
	if last.Inst.Op.IsReturn() {
		if pc.MethodIndex == last.PC.MethodIndex {
			return true
		}
		r.isRecording = false
		return false
	}
	return pc == r.loopHeader
}

// Record feeds one fetched (pc, instruction) pair into an active
// recording. Calling it while Idle is a no-op (events other than Init are
// ignored in that state).
func (r *Recorder) Record(pc interp.ProgramCounter, in interp.Instruction) {
	if !r.isRecording {
		return
	}

	switch {
	case in.Op == bytecode.Goto:
		offset := int(in.Params[0])
		if offset > 0 {
			return
		}
		target := pc.InstructionIndex + offset
		if target == r.traceStart.InstructionIndex {
			r.innerBranchTargets[target] = struct{}{}
		} else {
			r.outerBranchTargets[target] = struct{}{}
		}
		r.append(pc, in)

	case isConditionalBranch(in.Op):
		r.lastInstructionWasBranch = true
		r.append(pc, in)

	case in.Op == bytecode.Invokestatic:
		nameIndex := int(in.Params[1])
		if nameIndex == int(r.traceStart.MethodIndex) {
			r.isRecording = false
			return
		}
		r.append(pc, in)

	default:
		if canon, ok := canonicalize(in); ok {
			r.append(pc, canon)
			return
		}
		r.append(pc, in)
	}
}

func (r *Recorder) append(pc interp.ProgramCounter, in interp.Instruction) {
	r.buffer = append(r.buffer, Record{PC: pc, Inst: in})
}

// Recording finalizes the current recording and returns a detached Trace.
// The recorder returns to Idle.
func (r *Recorder) Recording() Trace {
	r.isRecording = false
	t := Trace{
		Start:              r.traceStart,
		Records:            append([]Record(nil), r.buffer...),
		InnerBranchTargets: r.innerBranchTargets,
		OuterBranchTargets: r.outerBranchTargets,
	}
	return t
}
