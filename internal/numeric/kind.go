package numeric

// Kind names one primitive width of the closed numeric union
type Kind uint8

const (
	Invalid Kind = iota
	Bool

	Int8
	Int16
	Int32
	Int64
	Int128
	IntBig

	Uint8
	Uint16
	Uint32
	Uint64
	Uint128
	UintBig

	Float32
	Float64
	FloatBig
)

var kindNames = map[Kind]string{
	Invalid:  "<invalid>",
	Bool:     "bool",
	Int8:     "int8",
	Int16:    "int16",
	Int32:    "int32",
	Int64:    "int64",
	Int128:   "int128",
	IntBig:   "intbig",
	Uint8:    "uint8",
	Uint16:   "uint16",
	Uint32:   "uint32",
	Uint64:   "uint64",
	Uint128:  "uint128",
	UintBig:  "uintbig",
	Float32:  "float32",
	Float64:  "float64",
	FloatBig: "floatbig",
}

// String returns the source-level type name of the kind
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "<invalid>"
}

// LookupKind resolves a builtin type name such as "int32" or "floatbig".
// Bool is not returned; it is resolved by the verifier as its own kind.
func LookupKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name && k != Invalid && k != Bool {
			return k, true
		}
	}
	return Invalid, false
}

// suffixes maps literal suffixes to their kinds, e.g. 200u8 or 1.5f32
var suffixes = map[string]Kind{
	"i8":   Int8,
	"i16":  Int16,
	"i32":  Int32,
	"i64":  Int64,
	"i128": Int128,
	"ibig": IntBig,
	"u8":   Uint8,
	"u16":  Uint16,
	"u32":  Uint32,
	"u64":  Uint64,
	"u128": Uint128,
	"ubig": UintBig,
	"f32":  Float32,
	"f64":  Float64,
	"fbig": FloatBig,
}

// KindForSuffix resolves a literal suffix
func KindForSuffix(suffix string) (Kind, bool) {
	k, ok := suffixes[suffix]
	return k, ok
}

// IsSigned reports whether k is a signed integer kind
func (k Kind) IsSigned() bool {
	return k >= Int8 && k <= IntBig
}

// IsUnsigned reports whether k is an unsigned integer kind
func (k Kind) IsUnsigned() bool {
	return k >= Uint8 && k <= UintBig
}

// IsInteger reports whether k is any integer kind
func (k Kind) IsInteger() bool {
	return k.IsSigned() || k.IsUnsigned()
}

// IsFloat reports whether k is a floating point kind
func (k Kind) IsFloat() bool {
	return k >= Float32 && k <= FloatBig
}

// IsArbitrary reports whether k has no fixed width
func (k Kind) IsArbitrary() bool {
	return k == IntBig || k == UintBig || k == FloatBig
}

// IsNumber reports whether k supports arithmetic
func (k Kind) IsNumber() bool {
	return k.IsInteger() || k.IsFloat()
}

// Bits returns the width of a fixed-size kind, or 0 for arbitrary and bool kinds
func (k Kind) Bits() int {
	switch k {
	case Int8, Uint8:
		return 8
	case Int16, Uint16:
		return 16
	case Int32, Uint32, Float32:
		return 32
	case Int64, Uint64, Float64:
		return 64
	case Int128, Uint128:
		return 128
	default:
		return 0
	}
}
