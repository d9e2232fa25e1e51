package classfile

import "testing"

func u16be(v uint16) []byte { return []byte{byte(v >> 8), byte(v)} }
func u32be(v uint32) []byte {
	return []byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
}

func minimalClassBytes() []byte {
	var b []byte
	b = append(b, 0xCA, 0xFE, 0xBA, 0xBE) // magic
	b = append(b, u16be(0)...)            // minor
	b = append(b, u16be(61)...)           // major
	b = append(b, u16be(1)...)            // constant_pool_count (empty pool)
	b = append(b, u16be(0x0021)...)       // access_flags: public | super
	b = append(b, u16be(0)...)            // this_class
	b = append(b, u16be(0)...)            // super_class
	b = append(b, u16be(0)...)            // interfaces_count
	b = append(b, u16be(0)...)            // fields_count
	b = append(b, u16be(0)...)            // methods_count
	b = append(b, u16be(0)...)            // attributes_count
	return b
}

func TestDecodeMinimalClass(t *testing.T) {
	cf, err := Decode(minimalClassBytes())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cf.MajorVersion != 61 {
		t.Errorf("MajorVersion = %d, want 61", cf.MajorVersion)
	}
	if !cf.Access.Public || !cf.Access.Super {
		t.Errorf("Access = %+v, want Public and Super set", cf.Access)
	}
}

func TestDecodeBadMagic(t *testing.T) {
	data := append([]byte{0x00, 0x00, 0x00, 0x00}, minimalClassBytes()[4:]...)
	_, err := Decode(data)
	if !IsDecodeErrorKind(err, BadMagic) {
		t.Fatalf("expected BadMagic, got %v", err)
	}
}

func TestDecodeTruncated(t *testing.T) {
	data := []byte{0xCA, 0xFE, 0xBA, 0xBE, 0x00, 0x00, 0x00, 0x3D, 0x00, 0x01}
	_, err := Decode(data)
	if !IsDecodeErrorKind(err, Truncated) {
		t.Fatalf("expected Truncated, got %v", err)
	}
}

func TestDecodeConstantPoolUtf8AndLongGap(t *testing.T) {
	var cp []byte
	// index 1: Utf8 "hi"
	cp = append(cp, byte(TagUtf8))
	cp = append(cp, u16be(2)...)
	cp = append(cp, []byte("hi")...)
	// index 2: Long (occupies slots 2 and 3)
	cp = append(cp, byte(TagLong))
	cp = append(cp, u32be(0)...)
	cp = append(cp, u32be(42)...)

	var b []byte
	b = append(b, 0xCA, 0xFE, 0xBA, 0xBE)
	b = append(b, u16be(0)...)
	b = append(b, u16be(61)...)
	b = append(b, u16be(4)...) // constant_pool_count: slots 1,2,3 used (4 = count, last valid index 3)
	b = append(b, cp...)
	b = append(b, u16be(0)...) // access_flags
	b = append(b, u16be(0)...) // this_class
	b = append(b, u16be(0)...) // super_class
	b = append(b, u16be(0)...) // interfaces_count
	b = append(b, u16be(0)...) // fields_count
	b = append(b, u16be(0)...) // methods_count
	b = append(b, u16be(0)...) // attributes_count

	cf, err := Decode(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := cf.ConstantPool.Utf8(1); got != "hi" {
		t.Errorf("pool[1] = %q, want \"hi\"", got)
	}
	long, ok := cf.ConstantPool.Get(2).(*LongInfo)
	if !ok {
		t.Fatalf("pool[2] is not *LongInfo: %#v", cf.ConstantPool.Get(2))
	}
	if long.Value != 42 {
		t.Errorf("pool[2].Value = %d, want 42", long.Value)
	}
	if cf.ConstantPool.Get(3) != nil {
		t.Errorf("pool[3] should be the unused long gap slot, got %#v", cf.ConstantPool.Get(3))
	}
}

func TestDecodeBadConstantTag(t *testing.T) {
	var b []byte
	b = append(b, 0xCA, 0xFE, 0xBA, 0xBE)
	b = append(b, u16be(0)...)
	b = append(b, u16be(61)...)
	b = append(b, u16be(2)...)
	b = append(b, 200) // unrecognized tag
	_, err := Decode(b)
	if !IsDecodeErrorKind(err, BadConstantTag) {
		t.Fatalf("expected BadConstantTag, got %v", err)
	}
}

func TestDecodeUnknownAttributeDiscarded(t *testing.T) {
	var cp []byte
	cp = append(cp, byte(TagUtf8))
	cp = append(cp, u16be(9)...)
	cp = append(cp, []byte("MadeUpAtt")...)

	var b []byte
	b = append(b, 0xCA, 0xFE, 0xBA, 0xBE)
	b = append(b, u16be(0)...)
	b = append(b, u16be(61)...)
	b = append(b, u16be(2)...) // pool: index1 utf8
	b = append(b, cp...)
	b = append(b, u16be(0)...) // access_flags
	b = append(b, u16be(0)...) // this_class
	b = append(b, u16be(0)...) // super_class
	b = append(b, u16be(0)...) // interfaces_count
	b = append(b, u16be(0)...) // fields_count
	b = append(b, u16be(0)...) // methods_count
	b = append(b, u16be(1)...) // attributes_count
	b = append(b, u16be(1)...) // attribute_name_index -> "MadeUpAtt"
	b = append(b, u32be(3)...) // attribute_length
	b = append(b, 0xAA, 0xBB, 0xCC)

	cf, err := Decode(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cf.Attributes) != 1 {
		t.Fatalf("expected 1 attribute, got %d", len(cf.Attributes))
	}
	raw, ok := cf.Attributes[0].(RawAttribute)
	if !ok {
		t.Fatalf("expected RawAttribute, got %#v", cf.Attributes[0])
	}
	if raw.Name != "MadeUpAtt" || len(raw.Data) != 3 {
		t.Errorf("unexpected RawAttribute: %+v", raw)
	}
}

func TestDecodeStackMapTableFrameKinds(t *testing.T) {
	var smt []byte
	smt = append(smt, byte(TagUtf8))
	smt = append(smt, u16be(13)...)
	smt = append(smt, []byte("StackMapTable")...)

	// frame bytes: Same(5), SameLocals(70 => 6 + one Integer verification entry)
	frameBytes := []byte{5, 70, byte(VerificationInteger)}

	var code []byte
	code = append(code, u16be(2)...)        // number_of_entries
	code = append(code, frameBytes...)

	var attrBody []byte
	attrBody = append(attrBody, u16be(1)...) // name_index -> StackMapTable
	attrBody = append(attrBody, u32be(uint32(len(code)))...)
	attrBody = append(attrBody, code...)

	var b []byte
	b = append(b, 0xCA, 0xFE, 0xBA, 0xBE)
	b = append(b, u16be(0)...)
	b = append(b, u16be(61)...)
	b = append(b, u16be(2)...)
	b = append(b, smt...)
	b = append(b, u16be(0)...) // access_flags
	b = append(b, u16be(0)...)
	b = append(b, u16be(0)...)
	b = append(b, u16be(0)...) // interfaces
	b = append(b, u16be(0)...) // fields
	b = append(b, u16be(0)...) // methods
	b = append(b, u16be(1)...) // attributes_count
	b = append(b, attrBody...)

	cf, err := Decode(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	smtAttr, ok := cf.Attributes[0].(StackMapTableAttribute)
	if !ok {
		t.Fatalf("expected StackMapTableAttribute, got %#v", cf.Attributes[0])
	}
	if len(smtAttr.Entries) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(smtAttr.Entries))
	}
	if smtAttr.Entries[0].Kind != FrameSame || smtAttr.Entries[0].OffsetDelta != 5 {
		t.Errorf("frame 0 = %+v", smtAttr.Entries[0])
	}
	if smtAttr.Entries[1].Kind != FrameSameLocals || smtAttr.Entries[1].OffsetDelta != 6 {
		t.Errorf("frame 1 = %+v", smtAttr.Entries[1])
	}
	if len(smtAttr.Entries[1].Stack) != 1 || smtAttr.Entries[1].Stack[0].Tag != VerificationInteger {
		t.Errorf("frame 1 stack = %+v", smtAttr.Entries[1].Stack)
	}
}
