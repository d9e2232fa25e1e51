package classfile

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strconv"
)

// ErrorKind enumerates the DecodeError taxonomy.
type ErrorKind int

const (
	BadMagic ErrorKind = iota
	Truncated
	BadConstantTag
	BadAttribute
	BadUtf8
	BadDescriptor
)

func (k ErrorKind) String() string {
	switch k {
	case BadMagic:
		return "BadMagic"
	case Truncated:
		return "Truncated"
	case BadConstantTag:
		return "BadConstantTag"
	case BadAttribute:
		return "BadAttribute"
	case BadUtf8:
		return "BadUtf8"
	case BadDescriptor:
		return "BadDescriptor"
	default:
		return "Unknown"
	}
}

// DecodeError is returned by Decode for any malformed class file. It
// captures the call site that raised it, in the spirit of the teacher's
// cfe() helper, purely for diagnostics.
type DecodeError struct {
	Kind ErrorKind
	Msg  string
	file string
	line int
}

func (e *DecodeError) Error() string {
	msg := fmt.Sprintf("class format error (%s): %s", e.Kind, e.Msg)
	if e.file != "" {
		msg += "\n  detected by file: " + e.file + ", line: " + strconv.Itoa(e.line)
	}
	return msg
}

// newDecodeError builds a DecodeError tagging the immediate caller's file
// and line, so decode failures are easy to trace back to the exact read
// that rejected the input.
func newDecodeError(kind ErrorKind, msg string) error {
	de := &DecodeError{Kind: kind, Msg: msg}
	if pc, _, _, ok := runtime.Caller(1); ok {
		if fn := runtime.FuncForPC(pc); fn != nil {
			file, line := fn.FileLine(pc)
			de.file = filepath.Base(file)
			de.line = line
		}
	}
	return de
}

// IsDecodeErrorKind reports whether err is a *DecodeError of the given kind.
func IsDecodeErrorKind(err error, kind ErrorKind) bool {
	var de *DecodeError
	if errors.As(err, &de) {
		return de.Kind == kind
	}
	return false
}
