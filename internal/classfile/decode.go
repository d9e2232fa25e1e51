package classfile

import "math"

// Decode parses a raw .class file into a ClassFile, or returns a
// *DecodeError describing the first malformed field encountered.
func Decode(data []byte) (*ClassFile, error) {
	r := newReader(data)

	magic, err := r.u4()
	if err != nil {
		return nil, err
	}
	if magic != ClassMagic {
		return nil, newDecodeError(BadMagic, "missing 0xCAFEBABE header")
	}

	minor, err := r.u2()
	if err != nil {
		return nil, err
	}
	major, err := r.u2()
	if err != nil {
		return nil, err
	}

	cp, err := decodeConstantPool(r)
	if err != nil {
		return nil, err
	}

	accessFlags, err := r.u2()
	if err != nil {
		return nil, err
	}
	thisClass, err := r.u2()
	if err != nil {
		return nil, err
	}
	superClass, err := r.u2()
	if err != nil {
		return nil, err
	}

	interfacesCount, err := r.u2()
	if err != nil {
		return nil, err
	}
	interfaces := make([]uint16, interfacesCount)
	for i := range interfaces {
		if interfaces[i], err = r.u2(); err != nil {
			return nil, err
		}
	}

	fields, err := decodeFields(r, cp)
	if err != nil {
		return nil, err
	}
	methods, err := decodeMethods(r, cp)
	if err != nil {
		return nil, err
	}
	attrs, err := decodeAttributes(r, cp)
	if err != nil {
		return nil, err
	}

	return &ClassFile{
		MinorVersion: minor,
		MajorVersion: major,
		ConstantPool: cp,
		AccessFlags:  accessFlags,
		Access:       newAccessView(accessFlags),
		ThisClass:    thisClass,
		SuperClass:   superClass,
		Interfaces:   interfaces,
		Fields:       fields,
		Methods:      methods,
		Attributes:   attrs,
	}, nil
}

func decodeConstantPool(r *reader) (ConstantPool, error) {
	count, err := r.u2()
	if err != nil {
		return nil, err
	}
	cp := make(ConstantPool, count)
	for i := uint16(1); i < count; i++ {
		tagByte, err := r.u1()
		if err != nil {
			return nil, err
		}
		entry, wide, err := decodeConstantEntry(r, ConstantTag(tagByte))
		if err != nil {
			return nil, err
		}
		cp[i] = entry
		if wide {
			i++
		}
	}
	return cp, nil
}

// decodeConstantEntry reads one constant pool entry body (the tag byte has
// already been consumed). wide is true for Long/Double, which occupy two
// consecutive pool slots.
func decodeConstantEntry(r *reader, tag ConstantTag) (CPEntry, bool, error) {
	switch tag {
	case TagUtf8:
		length, err := r.u2()
		if err != nil {
			return nil, false, err
		}
		raw, err := r.bytes(int(length))
		if err != nil {
			return nil, false, err
		}
		s, err := decodeModifiedUTF8(raw)
		if err != nil {
			return nil, false, err
		}
		return &Utf8Info{Value: s}, false, nil
	case TagInteger:
		v, err := r.u4()
		return &IntegerInfo{Value: int32(v)}, false, err
	case TagFloat:
		v, err := r.u4()
		return &FloatInfo{Value: math.Float32frombits(v)}, false, err
	case TagLong:
		v, err := r.u8()
		return &LongInfo{Value: int64(v)}, true, err
	case TagDouble:
		v, err := r.u8()
		return &DoubleInfo{Value: math.Float64frombits(v)}, true, err
	case TagClass:
		v, err := r.u2()
		return &ClassInfo{NameIndex: v}, false, err
	case TagString:
		v, err := r.u2()
		return &StringInfo{StringIndex: v}, false, err
	case TagFieldref:
		c, n, err := r.u2pair()
		return &FieldrefInfo{ClassIndex: c, NameAndTypeIndex: n}, false, err
	case TagMethodref:
		c, n, err := r.u2pair()
		return &MethodrefInfo{ClassIndex: c, NameAndTypeIndex: n}, false, err
	case TagInterfaceMethodref:
		c, n, err := r.u2pair()
		return &InterfaceMethodrefInfo{ClassIndex: c, NameAndTypeIndex: n}, false, err
	case TagNameAndType:
		n, d, err := r.u2pair()
		return &NameAndTypeInfo{NameIndex: n, DescriptorIndex: d}, false, err
	case TagMethodHandle:
		kind, err := r.u1()
		if err != nil {
			return nil, false, err
		}
		ref, err := r.u2()
		return &MethodHandleInfo{ReferenceKind: kind, ReferenceIndex: ref}, false, err
	case TagMethodType:
		d, err := r.u2()
		return &MethodTypeInfo{DescriptorIndex: d}, false, err
	case TagDynamic:
		b, n, err := r.u2pair()
		return &DynamicInfo{BootstrapMethodAttrIndex: b, NameAndTypeIndex: n}, false, err
	case TagInvokeDynamic:
		b, n, err := r.u2pair()
		return &InvokeDynamicInfo{BootstrapMethodAttrIndex: b, NameAndTypeIndex: n}, false, err
	case TagModule:
		v, err := r.u2()
		return &ModuleInfo{NameIndex: v}, false, err
	case TagPackage:
		v, err := r.u2()
		return &PackageInfo{NameIndex: v}, false, err
	default:
		return nil, false, newDecodeError(BadConstantTag, "unrecognized constant pool tag")
	}
}

// u2pair reads two consecutive u16 fields, the shape shared by *ref and
// NameAndType constant entries.
func (r *reader) u2pair() (uint16, uint16, error) {
	a, err := r.u2()
	if err != nil {
		return 0, 0, err
	}
	b, err := r.u2()
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

// memberHeader reads the access_flags/name_index/descriptor_index/attributes
// shape shared by field_info and method_info.
func memberHeader(r *reader, cp ConstantPool) (accessFlags, nameIndex, descriptorIndex uint16, attrs []Attribute, err error) {
	if accessFlags, err = r.u2(); err != nil {
		return
	}
	if nameIndex, err = r.u2(); err != nil {
		return
	}
	if descriptorIndex, err = r.u2(); err != nil {
		return
	}
	attrs, err = decodeAttributes(r, cp)
	return
}

func decodeFields(r *reader, cp ConstantPool) ([]FieldInfo, error) {
	count, err := r.u2()
	if err != nil {
		return nil, err
	}
	fields := make([]FieldInfo, count)
	for i := range fields {
		af, ni, di, attrs, err := memberHeader(r, cp)
		if err != nil {
			return nil, err
		}
		fields[i] = FieldInfo{AccessFlags: af, NameIndex: ni, DescriptorIndex: di, Attributes: attrs}
	}
	return fields, nil
}

func decodeMethods(r *reader, cp ConstantPool) ([]MethodInfo, error) {
	count, err := r.u2()
	if err != nil {
		return nil, err
	}
	methods := make([]MethodInfo, count)
	for i := range methods {
		af, ni, di, attrs, err := memberHeader(r, cp)
		if err != nil {
			return nil, err
		}
		methods[i] = MethodInfo{AccessFlags: af, NameIndex: ni, DescriptorIndex: di, Attributes: attrs}
	}
	return methods, nil
}
