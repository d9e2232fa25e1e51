package interp

import "fmt"

// ProgramCounter locates a single instruction: which method, and which byte
// offset into that method's code array.
type ProgramCounter struct {
	MethodIndex      uint16
	InstructionIndex int
}

func (pc ProgramCounter) String() string {
	return fmt.Sprintf("%d:%d", pc.MethodIndex, pc.InstructionIndex)
}
