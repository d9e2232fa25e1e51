package program

import (
	"errors"
	"fmt"

	"github.com/jmpnz/coldbrew/internal/classfile"
)

// BuildErrorKind enumerates the ProgramBuildError taxonomy.
type BuildErrorKind int

const (
	MissingCode BuildErrorKind = iota
	BadEntryPoint
)

func (k BuildErrorKind) String() string {
	switch k {
	case MissingCode:
		return "MissingCode"
	case BadEntryPoint:
		return "BadEntryPoint"
	default:
		return "Unknown"
	}
}

// BuildError is returned by Build and EntryPoint when a ClassFile can't be
// turned into (or queried as) a runnable Program.
type BuildError struct {
	Kind BuildErrorKind
	Msg  string
}

func (e *BuildError) Error() string { return fmt.Sprintf("%s: %s", e.Kind, e.Msg) }

func newBuildError(kind BuildErrorKind, msg string) error {
	return &BuildError{Kind: kind, Msg: msg}
}

// IsBuildErrorKind reports whether err is a *BuildError of the given kind.
func IsBuildErrorKind(err error, kind BuildErrorKind) bool {
	var be *BuildError
	if errors.As(err, &be) {
		return be.Kind == kind
	}
	return false
}

// Build turns a decoded class file into a Program: one Method per
// method_info, keyed by its name constant-pool index, each carrying its
// descriptor-derived signature and its Code attribute's bytecode.
func Build(cf *classfile.ClassFile) (*Program, error) {
	methods := make(map[uint16]*Method, len(cf.Methods))
	for _, mi := range cf.Methods {
		descriptor := cf.ConstantPool.Utf8(mi.DescriptorIndex)
		argTypes, returnType, err := ParseMethodDescriptor(descriptor)
		if err != nil {
			return nil, err
		}

		var (
			maxStack, maxLocals uint16
			code                []byte
			haveCode            bool
			constant            *uint16
			stackMapTable       []classfile.StackMapFrame
		)
		for _, attr := range mi.Attributes {
			switch a := attr.(type) {
			case classfile.CodeAttribute:
				maxStack, maxLocals, code = a.MaxStack, a.MaxLocals, a.Code
				haveCode = true
				for _, nested := range a.Attributes {
					switch n := nested.(type) {
					case classfile.ConstantValueAttribute:
						idx := n.ConstantValueIndex
						constant = &idx
					case classfile.StackMapTableAttribute:
						stackMapTable = n.Entries
					}
				}
			}
		}
		if !haveCode && mi.AccessFlags&(classfile.AccNative|classfile.AccAbstract) == 0 {
			return nil, newBuildError(MissingCode, fmt.Sprintf("method at name_index %d has no Code attribute", mi.NameIndex))
		}

		methods[mi.NameIndex] = &Method{
			NameIndex:     mi.NameIndex,
			ReturnType:    returnType,
			ArgTypes:      argTypes,
			MaxStack:      maxStack,
			MaxLocals:     maxLocals,
			Code:          code,
			Constant:      constant,
			StackMapTable: stackMapTable,
		}
	}

	return &Program{
		ConstantPool: cf.ConstantPool,
		Methods:      methods,
	}, nil
}

// FindMethod resolves a MethodRef/InterfaceMethodRef constant-pool index to
// the name index of the method it refers to, chasing MethodRef ->
// NameAndType -> name_index the way CPutils.go's GetMethInfoFromCPmethref
// chases a methodref.
func (p *Program) FindMethod(methodRefIndex uint16) (uint16, error) {
	var natIndex uint16
	switch e := p.ConstantPool.Get(methodRefIndex).(type) {
	case *classfile.MethodrefInfo:
		natIndex = e.NameAndTypeIndex
	case *classfile.InterfaceMethodrefInfo:
		natIndex = e.NameAndTypeIndex
	default:
		return 0, fmt.Errorf("program: constant pool index %d is not a MethodRef", methodRefIndex)
	}
	nat, ok := p.ConstantPool.Get(natIndex).(*classfile.NameAndTypeInfo)
	if !ok {
		return 0, fmt.Errorf("program: constant pool index %d is not a NameAndType", natIndex)
	}
	return nat.NameIndex, nil
}

// EntryPoint returns the name index of the method named "main".
func (p *Program) EntryPoint() (uint16, error) {
	for nameIndex := range p.Methods {
		if p.ConstantPool.Utf8(nameIndex) == "main" {
			return nameIndex, nil
		}
	}
	return 0, newBuildError(BadEntryPoint, `no method named "main" found`)
}

// Code returns the bytecode for the method at the given name index.
func (p *Program) Code(nameIndex uint16) ([]byte, bool) {
	m, ok := p.Methods[nameIndex]
	if !ok {
		return nil, false
	}
	return m.Code, true
}

// MaxLocals returns the declared max_locals for the method at the given
// name index.
func (p *Program) MaxLocals(nameIndex uint16) (uint16, bool) {
	m, ok := p.Methods[nameIndex]
	if !ok {
		return 0, false
	}
	return m.MaxLocals, true
}
