package numeric

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Op names a comparison or arithmetic operation
type Op uint8

const (
	OpEq Op = iota
	OpNe
	OpGt
	OpGe
	OpLt
	OpLe
	OpAdd
	OpSub
	OpMul
	OpDiv
)

var opSymbols = [...]string{"==", "!=", ">", ">=", "<", "<=", "+", "-", "*", "/"}

func (o Op) String() string {
	if int(o) < len(opSymbols) {
		return opSymbols[o]
	}
	return "?"
}

// IsComparison reports whether o yields a truth value
func (o Op) IsComparison() bool {
	return o <= OpLe
}

// Number is the capability every primitive value provides: comparisons that
// never fail for builtin kinds, and checked arithmetic that reports overflow
// and unsupported operations as errors.
type Number[T any] interface {
	Kind() Kind
	TryEq(T) (bool, error)
	TryNe(T) (bool, error)
	TryGt(T) (bool, error)
	TryGe(T) (bool, error)
	TryLt(T) (bool, error)
	TryLe(T) (bool, error)
	TryAdd(T) (T, error)
	TrySub(T) (T, error)
	TryMul(T) (T, error)
	TryDiv(T) (T, error)
	String() string
}

// FloatPrec is the mantissa precision of floatbig values
const FloatPrec = 256

// Value is one primitive value. Exactly one payload field is meaningful,
// selected by kind. Values are immutable; big payloads are never modified
// after construction.
type Value struct {
	kind Kind
	i    int64    // Int8..Int64, Bool (0/1)
	u    uint64   // Uint8..Uint64
	f    float64  // Float32, Float64
	b    *big.Int // Int128, IntBig, Uint128, UintBig
	bf   *big.Float
}

var _ Number[Value] = Value{}

// Kind returns the kind of v
func (v Value) Kind() Kind { return v.kind }

// FromBool wraps a bool
func FromBool(b bool) Value {
	if b {
		return Value{kind: Bool, i: 1}
	}
	return Value{kind: Bool}
}

// Int builds a signed integer of kind k from n, checking the bounds of k
func Int(k Kind, n int64) (Value, error) {
	return fromBig(OpAdd, k, big.NewInt(n))
}

// Uint builds an unsigned integer of kind k from n
func Uint(k Kind, n uint64) (Value, error) {
	return fromBig(OpAdd, k, new(big.Int).SetUint64(n))
}

// Float builds a float of kind k from f
func Float(k Kind, f float64) (Value, error) {
	switch k {
	case Float32:
		return checkFloat(OpAdd, k, float64(float32(f)))
	case Float64:
		return checkFloat(OpAdd, k, f)
	case FloatBig:
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return Value{}, boundBroken(OpAdd, k, "non-finite value")
		}
		return Value{kind: k, bf: new(big.Float).SetPrec(FloatPrec).SetFloat64(f)}, nil
	default:
		return Value{}, invalidType(OpAdd, k)
	}
}

// Parse builds a value of kind k from the decimal text of a literal.
// A literal that does not fit k is bound-broken.
func Parse(k Kind, text string) (Value, error) {
	text = strings.ReplaceAll(text, "_", "")
	switch {
	case k.IsInteger():
		n, ok := new(big.Int).SetString(text, 10)
		if !ok {
			return Value{}, &OpError{Op: OpAdd, Kind: k, Reason: ErrInvalidType, Detail: "malformed integer literal " + strconv.Quote(text)}
		}
		v, err := fromBig(OpAdd, k, n)
		if err != nil {
			return Value{}, boundBroken(OpAdd, k, "literal "+text+" does not fit in "+k.String())
		}
		return v, nil
	case k == Float32 || k == Float64:
		f, err := strconv.ParseFloat(text, k.Bits())
		if err != nil {
			return Value{}, boundBroken(OpAdd, k, "literal "+text+" does not fit in "+k.String())
		}
		return Value{kind: k, f: f}, nil
	case k == FloatBig:
		f, _, err := big.ParseFloat(text, 10, FloatPrec, big.ToNearestEven)
		if err != nil {
			return Value{}, &OpError{Op: OpAdd, Kind: k, Reason: ErrInvalidType, Detail: "malformed float literal " + strconv.Quote(text)}
		}
		return Value{kind: k, bf: f}, nil
	default:
		return Value{}, invalidType(OpAdd, k)
	}
}

// MustParse is like Parse but panics on failure. Intended for tests and constants.
func MustParse(k Kind, text string) Value {
	v, err := Parse(k, text)
	if err != nil {
		panic(err)
	}
	return v
}

func (v Value) String() string {
	switch {
	case v.kind == Bool:
		return strconv.FormatBool(v.i != 0)
	case v.kind >= Int8 && v.kind <= Int64:
		return strconv.FormatInt(v.i, 10)
	case v.kind >= Uint8 && v.kind <= Uint64:
		return strconv.FormatUint(v.u, 10)
	case v.b != nil:
		return v.b.String()
	case v.kind == Float32:
		return strconv.FormatFloat(v.f, 'g', -1, 32)
	case v.kind == Float64:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case v.bf != nil:
		return v.bf.Text('g', 20)
	default:
		return "<invalid>"
	}
}

// bounds of the 128-bit kinds
var (
	minInt128  = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
	maxInt128  = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	maxUint128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
)

// fromBig narrows an exact integer result into kind k
func fromBig(op Op, k Kind, n *big.Int) (Value, error) {
	switch k {
	case Int8, Int16, Int32, Int64:
		bits := uint(k.Bits())
		lo := new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), bits-1))
		hi := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), bits-1), big.NewInt(1))
		if n.Cmp(lo) < 0 || n.Cmp(hi) > 0 {
			return Value{}, boundBroken(op, k, n.String()+" out of range")
		}
		return Value{kind: k, i: n.Int64()}, nil
	case Uint8, Uint16, Uint32, Uint64:
		hi := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(k.Bits())), big.NewInt(1))
		if n.Sign() < 0 || n.Cmp(hi) > 0 {
			return Value{}, boundBroken(op, k, n.String()+" out of range")
		}
		return Value{kind: k, u: n.Uint64()}, nil
	case Int128:
		if n.Cmp(minInt128) < 0 || n.Cmp(maxInt128) > 0 {
			return Value{}, boundBroken(op, k, "out of range")
		}
		return Value{kind: k, b: n}, nil
	case Uint128:
		if n.Sign() < 0 || n.Cmp(maxUint128) > 0 {
			return Value{}, boundBroken(op, k, "out of range")
		}
		return Value{kind: k, b: n}, nil
	case IntBig:
		return Value{kind: k, b: n}, nil
	case UintBig:
		if n.Sign() < 0 {
			return Value{}, boundBroken(op, k, "negative result")
		}
		return Value{kind: k, b: n}, nil
	default:
		return Value{}, invalidType(op, k)
	}
}

func checkFloat(op Op, k Kind, f float64) (Value, error) {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return Value{}, boundBroken(op, k, "non-finite result")
	}
	return Value{kind: k, f: f}, nil
}

// bigInt returns the integer payload of v as a big.Int. The result must not be modified.
func (v Value) bigInt() *big.Int {
	switch {
	case v.b != nil:
		return v.b
	case v.kind >= Int8 && v.kind <= Int64:
		return big.NewInt(v.i)
	case v.kind >= Uint8 && v.kind <= Uint64:
		return new(big.Int).SetUint64(v.u)
	default:
		return new(big.Int)
	}
}
