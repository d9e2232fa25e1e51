package classfile

// decodeAttributes reads an attributes_count/attributes block, dispatching
// each entry on its resolved name and keeping anything unrecognized, read
// by its declared length, as an uninterpreted RawAttribute.
func decodeAttributes(r *reader, cp ConstantPool) ([]Attribute, error) {
	count, err := r.u2()
	if err != nil {
		return nil, err
	}
	attrs := make([]Attribute, count)
	for i := range attrs {
		nameIndex, err := r.u2()
		if err != nil {
			return nil, err
		}
		name := cp.Utf8(nameIndex)
		if name == "" {
			return nil, newDecodeError(BadAttribute, "attribute_name_index does not point to a UTF-8 entry")
		}
		length, err := r.u4()
		if err != nil {
			return nil, err
		}
		attr, err := decodeAttribute(r, cp, name, length)
		if err != nil {
			return nil, err
		}
		attrs[i] = attr
	}
	return attrs, nil
}

func decodeAttribute(r *reader, cp ConstantPool, name string, length uint32) (Attribute, error) {
	switch name {
	case AttrConstantValue:
		idx, err := r.u2()
		if err != nil {
			return nil, err
		}
		return ConstantValueAttribute{ConstantValueIndex: idx}, nil

	case AttrCode:
		return decodeCodeAttribute(r, cp)

	case AttrStackMapTable:
		return decodeStackMapTableAttribute(r)

	case AttrSourceFile:
		idx, err := r.u2()
		if err != nil {
			return nil, err
		}
		return SourceFileAttribute{SourceFileIndex: idx}, nil

	case AttrBootstrapMethods:
		return decodeBootstrapMethodsAttribute(r)

	case AttrNestHost:
		idx, err := r.u2()
		if err != nil {
			return nil, err
		}
		return NestHostAttribute{HostClassIndex: idx}, nil

	case AttrNestMembers:
		return decodeNestMembersAttribute(r)

	default:
		data, err := r.bytes(int(length))
		if err != nil {
			return nil, err
		}
		return RawAttribute{Name: name, Data: data}, nil
	}
}

func decodeCodeAttribute(r *reader, cp ConstantPool) (Attribute, error) {
	maxStack, err := r.u2()
	if err != nil {
		return nil, err
	}
	maxLocals, err := r.u2()
	if err != nil {
		return nil, err
	}
	codeLength, err := r.u4()
	if err != nil {
		return nil, err
	}
	code, err := r.bytes(int(codeLength))
	if err != nil {
		return nil, err
	}
	excCount, err := r.u2()
	if err != nil {
		return nil, err
	}
	exceptions := make([]ExceptionTableEntry, excCount)
	for i := range exceptions {
		startPC, err := r.u2()
		if err != nil {
			return nil, err
		}
		endPC, err := r.u2()
		if err != nil {
			return nil, err
		}
		handlerPC, err := r.u2()
		if err != nil {
			return nil, err
		}
		catchType, err := r.u2()
		if err != nil {
			return nil, err
		}
		exceptions[i] = ExceptionTableEntry{StartPC: startPC, EndPC: endPC, HandlerPC: handlerPC, CatchType: catchType}
	}
	nested, err := decodeAttributes(r, cp)
	if err != nil {
		return nil, err
	}
	return CodeAttribute{
		MaxStack:   maxStack,
		MaxLocals:  maxLocals,
		Code:       append([]byte(nil), code...),
		Exceptions: exceptions,
		Attributes: nested,
	}, nil
}

func decodeBootstrapMethodsAttribute(r *reader) (Attribute, error) {
	count, err := r.u2()
	if err != nil {
		return nil, err
	}
	methods := make([]BootstrapMethod, count)
	for i := range methods {
		ref, err := r.u2()
		if err != nil {
			return nil, err
		}
		argCount, err := r.u2()
		if err != nil {
			return nil, err
		}
		args := make([]uint16, argCount)
		for j := range args {
			if args[j], err = r.u2(); err != nil {
				return nil, err
			}
		}
		methods[i] = BootstrapMethod{MethodRefIndex: ref, Arguments: args}
	}
	return BootstrapMethodsAttribute{Methods: methods}, nil
}

func decodeNestMembersAttribute(r *reader) (Attribute, error) {
	count, err := r.u2()
	if err != nil {
		return nil, err
	}
	classes := make([]uint16, count)
	for i := range classes {
		if classes[i], err = r.u2(); err != nil {
			return nil, err
		}
	}
	return NestMembersAttribute{Classes: classes}, nil
}
