package classfile

// ClassMagic is the four-byte marker every class file begins with.
const ClassMagic uint32 = 0xCAFEBABE

// ConstantTag is the one-byte discriminant prefixing every constant pool
// entry.
type ConstantTag byte

const (
	TagUtf8               ConstantTag = 1
	TagInteger            ConstantTag = 3
	TagFloat              ConstantTag = 4
	TagLong               ConstantTag = 5
	TagDouble             ConstantTag = 6
	TagClass              ConstantTag = 7
	TagString             ConstantTag = 8
	TagFieldref           ConstantTag = 9
	TagMethodref          ConstantTag = 10
	TagInterfaceMethodref ConstantTag = 11
	TagNameAndType        ConstantTag = 12
	TagMethodHandle       ConstantTag = 15
	TagMethodType         ConstantTag = 16
	TagDynamic            ConstantTag = 17
	TagInvokeDynamic      ConstantTag = 18
	TagModule             ConstantTag = 19
	TagPackage            ConstantTag = 20
)

// Access flag bitmasks shared by ClassFile.AccessFlags, FieldInfo.AccessFlags
// and MethodInfo.AccessFlags. Not every flag applies to every target; the
// decoder stores the raw bitmask and leaves interpretation to callers.
const (
	AccPublic     uint16 = 0x0001
	AccPrivate    uint16 = 0x0002
	AccProtected  uint16 = 0x0004
	AccStatic     uint16 = 0x0008
	AccFinal      uint16 = 0x0010
	AccSuper      uint16 = 0x0020
	AccSynchronized uint16 = 0x0020
	AccVolatile   uint16 = 0x0040
	AccBridge     uint16 = 0x0040
	AccTransient  uint16 = 0x0080
	AccVarargs    uint16 = 0x0080
	AccNative     uint16 = 0x0100
	AccInterface  uint16 = 0x0200
	AccAbstract   uint16 = 0x0400
	AccStrict     uint16 = 0x0800
	AccSynthetic  uint16 = 0x1000
	AccAnnotation uint16 = 0x2000
	AccEnum       uint16 = 0x4000
	AccModule     uint16 = 0x8000
)

// VerificationTag discriminates a StackMapTable verification_type_info
// entry. Note the JVM ordering of the tag values: Double (3) precedes
// Long (4).
type VerificationTag byte

const (
	VerificationTop               VerificationTag = 0
	VerificationInteger           VerificationTag = 1
	VerificationFloat             VerificationTag = 2
	VerificationDouble            VerificationTag = 3
	VerificationLong              VerificationTag = 4
	VerificationNull              VerificationTag = 5
	VerificationUninitializedThis VerificationTag = 6
	VerificationObject            VerificationTag = 7
	VerificationUninitialized     VerificationTag = 8
)

// Attribute names recognized by the decoder. Anything else is read by its
// declared length and kept uninterpreted as a RawAttribute.
const (
	AttrConstantValue    = "ConstantValue"
	AttrCode             = "Code"
	AttrStackMapTable    = "StackMapTable"
	AttrSourceFile       = "SourceFile"
	AttrBootstrapMethods = "BootstrapMethods"
	AttrNestHost         = "NestHost"
	AttrNestMembers      = "NestMembers"
)
