// Package program builds the runnable abstraction of a Java class used by
// the interpreter and trace recorder out of a decoded class file.
package program

import "github.com/jmpnz/coldbrew/internal/classfile"

// BaseTypeKind is the set of JVM value kinds the interpreter distinguishes.
type BaseTypeKind int

const (
	KindInt BaseTypeKind = iota
	KindLong
	KindFloat
	KindDouble
	KindVoid
	KindString
	KindList
)

func (k BaseTypeKind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindLong:
		return "long"
	case KindFloat:
		return "float"
	case KindDouble:
		return "double"
	case KindVoid:
		return "void"
	case KindString:
		return "string"
	case KindList:
		return "list"
	default:
		return "unknown"
	}
}

// Type is a JVM value type as parsed from a method descriptor. Sub is only
// populated for KindList (array types), pointing at the element type.
type Type struct {
	Kind BaseTypeKind
	Sub  *Type
}

// Size reports the operand-stack/locals width of the type in JVM "words"
// (4-byte slots): 1 for int/float, 2 for long/double, 0 otherwise.
func (t Type) Size() int {
	switch t.Kind {
	case KindInt, KindFloat:
		return 1
	case KindLong, KindDouble:
		return 2
	default:
		return 0
	}
}

// Method is the runnable form of a single Java method: its signature plus
// the bytecode and auxiliary attributes needed to execute and trace it.
type Method struct {
	NameIndex     uint16
	ReturnType    Type
	ArgTypes      []Type
	MaxStack      uint16
	MaxLocals     uint16
	Code          []byte
	Constant      *uint16
	StackMapTable []classfile.StackMapFrame
}

// Program is the abstract representation of a loaded class: its constant
// pool plus its methods, keyed by the constant-pool index of the method's
// name entry (matching the reference model's method lookup by name index).
type Program struct {
	ConstantPool classfile.ConstantPool
	Methods      map[uint16]*Method
}
