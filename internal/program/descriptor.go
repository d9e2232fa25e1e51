package program

import (
	"fmt"
	"regexp"

	"github.com/jmpnz/coldbrew/internal/classfile"
)

var descriptorPattern = regexp.MustCompile(`^\(([^)]*)\)(.+)$`)

// ParseMethodDescriptor parses a method descriptor such as "(II)I" into its
// argument types and return type. A descriptor that does not match the
// grammar fails with a BadDescriptor *classfile.DecodeError.
func ParseMethodDescriptor(descriptor string) ([]Type, Type, error) {
	caps := descriptorPattern.FindStringSubmatch(descriptor)
	if caps == nil {
		return nil, Type{}, &classfile.DecodeError{Kind: classfile.BadDescriptor, Msg: fmt.Sprintf("malformed method descriptor %q", descriptor)}
	}
	argString := caps[1]
	returnType := decodeType(caps[2])

	var types []Type
	for argString != "" {
		t := decodeType(argString)
		types = append(types, t)
		length := decodeTypeStringLength(t)
		if length > len(argString) {
			return nil, Type{}, &classfile.DecodeError{Kind: classfile.BadDescriptor, Msg: fmt.Sprintf("malformed method descriptor %q", descriptor)}
		}
		argString = argString[length:]
	}
	return types, returnType, nil
}

// decodeTypeStringLength returns how many descriptor characters the given
// type's signature occupies, so the caller can advance past it when walking
// an argument list. String is fixed at the 18-character width of
// "Ljava/lang/String;"; any other reference-ish type is coerced into
// KindString by decodeType and shares that same width heuristic.
func decodeTypeStringLength(t Type) int {
	switch t.Kind {
	case KindString:
		return 18
	case KindList:
		return 1 + decodeTypeStringLength(*t.Sub)
	default:
		return 1
	}
}

// decodeType maps a descriptor's leading character(s) to a Type. Anything
// that isn't one of the recognized primitive tags is coerced to KindString,
// matching the fixed 18-character heuristic used throughout this package
// (byte, char, short and genuine object/array-of-reference types are not
// distinguished from java.lang.String).
func decodeType(typeStr string) Type {
	if typeStr == "" {
		return Type{Kind: KindVoid}
	}
	switch typeStr[0:1] {
	case "I":
		return Type{Kind: KindInt}
	case "J":
		return Type{Kind: KindLong}
	case "F":
		return Type{Kind: KindFloat}
	case "D":
		return Type{Kind: KindDouble}
	case "V":
		return Type{Kind: KindVoid}
	case "[":
		sub := decodeType(typeStr[1:])
		return Type{Kind: KindList, Sub: &sub}
	default:
		return Type{Kind: KindString}
	}
}
