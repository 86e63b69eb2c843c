package hstype

// Primitive is one of the nullary types: the fixed-width C scalars from
// Foreign.C.Types, the unit type and the CString handle.
//
// Spellings that share a width (CInt and CLong on some targets, CChar and
// CSChar) are distinct values because they are distinct grammar tokens.
type Primitive int

const (
	CChar   Primitive = iota + 1 // Int8
	CSChar                       // Int8
	CUChar                       // Word8
	CShort                       // Int16
	CUShort                      // Word16
	CInt                         // Int32
	CUInt                        // Word32
	CLong                        // Int64 on LP64 targets
	CULong                       // Word64 on LP64 targets
	CLLong                       // Int64
	CULLong                      // Word64
	CBool                        // Word8
	CFloat                       // Float
	CDouble                      // Double

	// Unit is the empty type ().
	Unit

	// CString is a NUL-terminated byte string, sugar for Ptr CChar.
	CString
)

var primitiveNames = [...]string{
	CChar:   "CChar",
	CSChar:  "CSChar",
	CUChar:  "CUChar",
	CShort:  "CShort",
	CUShort: "CUShort",
	CInt:    "CInt",
	CUInt:   "CUInt",
	CLong:   "CLong",
	CULong:  "CULong",
	CLLong:  "CLLong",
	CULLong: "CULLong",
	CBool:   "CBool",
	CFloat:  "CFloat",
	CDouble: "CDouble",
	Unit:    "()",
	CString: "CString",
}

// primitivesByName holds the closed set of primitive-name tokens.
// Unit is absent: "()" is handled structurally by the parser.
var primitivesByName = func() map[string]Primitive {
	m := make(map[string]Primitive, len(primitiveNames))
	for _, p := range Primitives() {
		if p != Unit {
			m[primitiveNames[p]] = p
		}
	}
	return m
}()

// Primitives returns every Primitive in declaration order.
func Primitives() []Primitive {
	ps := make([]Primitive, 0, len(primitiveNames)-1)
	for p := CChar; p <= CString; p++ {
		ps = append(ps, p)
	}
	return ps
}

// LookupPrimitive returns the Primitive spelled name, if any.
func LookupPrimitive(name string) (Primitive, bool) {
	p, ok := primitivesByName[name]
	return p, ok
}

// Kind returns KindUnit for Unit, KindCString for CString and KindScalar
// otherwise.
func (p Primitive) Kind() Kind {
	switch p {
	case Unit:
		return KindUnit
	case CString:
		return KindCString
	default:
		return KindScalar
	}
}

func (p Primitive) String() string {
	if p < CChar || p > CString {
		return "Unknown"
	}
	return primitiveNames[p]
}

func (Primitive) sealed() {}
