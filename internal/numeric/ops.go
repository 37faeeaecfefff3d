package numeric

import (
	"math/big"

	"golang.org/x/exp/constraints"
)

// compare orders v against o. Both must share a kind.
func (v Value) compare(op Op, o Value) (int, error) {
	if v.kind != o.kind || v.kind == Invalid {
		return 0, invalidType(op, v.kind)
	}
	switch {
	case v.kind == Bool:
		if op != OpEq && op != OpNe {
			return 0, invalidType(op, v.kind)
		}
		return cmpOrdered(v.i, o.i), nil
	case v.kind >= Int8 && v.kind <= Int64:
		return cmpOrdered(v.i, o.i), nil
	case v.kind >= Uint8 && v.kind <= Uint64:
		return cmpOrdered(v.u, o.u), nil
	case v.kind == Float32 || v.kind == Float64:
		return cmpOrdered(v.f, o.f), nil
	case v.kind == FloatBig:
		return v.bf.Cmp(o.bf), nil
	default:
		return v.b.Cmp(o.b), nil
	}
}

func cmpOrdered[T constraints.Ordered](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (v Value) TryEq(o Value) (bool, error) {
	c, err := v.compare(OpEq, o)
	return c == 0, err
}

func (v Value) TryNe(o Value) (bool, error) {
	c, err := v.compare(OpNe, o)
	return c != 0, err
}

func (v Value) TryGt(o Value) (bool, error) {
	c, err := v.compare(OpGt, o)
	return c > 0, err
}

func (v Value) TryGe(o Value) (bool, error) {
	c, err := v.compare(OpGe, o)
	return c >= 0, err
}

func (v Value) TryLt(o Value) (bool, error) {
	c, err := v.compare(OpLt, o)
	return c < 0, err
}

func (v Value) TryLe(o Value) (bool, error) {
	c, err := v.compare(OpLe, o)
	return c <= 0, err
}

func (v Value) TryAdd(o Value) (Value, error) { return v.arith(OpAdd, o) }
func (v Value) TrySub(o Value) (Value, error) { return v.arith(OpSub, o) }
func (v Value) TryMul(o Value) (Value, error) { return v.arith(OpMul, o) }
func (v Value) TryDiv(o Value) (Value, error) { return v.arith(OpDiv, o) }

// Apply runs op on v and o. Comparisons yield a Bool value.
func (v Value) Apply(op Op, o Value) (Value, error) {
	if op.IsComparison() {
		c, err := v.compare(op, o)
		if err != nil {
			return Value{}, err
		}
		return FromBool(compareResult(op, c)), nil
	}
	return v.arith(op, o)
}

func compareResult(op Op, c int) bool {
	switch op {
	case OpEq:
		return c == 0
	case OpNe:
		return c != 0
	case OpGt:
		return c > 0
	case OpGe:
		return c >= 0
	case OpLt:
		return c < 0
	default:
		return c <= 0
	}
}

// arith dispatches checked arithmetic over the closed set of kinds.
// Kinds without an arithmetic implementation (bool) fall through to invalid-type.
func (v Value) arith(op Op, o Value) (Value, error) {
	if v.kind != o.kind || !v.kind.IsNumber() {
		return Value{}, invalidType(op, v.kind)
	}
	switch v.kind {
	case Int8:
		return signedOp[int8](op, v.kind, v.i, o.i)
	case Int16:
		return signedOp[int16](op, v.kind, v.i, o.i)
	case Int32:
		return signedOp[int32](op, v.kind, v.i, o.i)
	case Int64:
		return signedOp[int64](op, v.kind, v.i, o.i)
	case Uint8:
		return unsignedOp[uint8](op, v.kind, v.u, o.u)
	case Uint16:
		return unsignedOp[uint16](op, v.kind, v.u, o.u)
	case Uint32:
		return unsignedOp[uint32](op, v.kind, v.u, o.u)
	case Uint64:
		return unsignedOp[uint64](op, v.kind, v.u, o.u)
	case Int128, IntBig, Uint128, UintBig:
		return bigIntOp(op, v.kind, v.b, o.b)
	case Float32:
		return float32Op(op, v.kind, float32(v.f), float32(o.f))
	case Float64:
		return float64Op(op, v.kind, v.f, o.f)
	default:
		return bigFloatOp(op, v.kind, v.bf, o.bf)
	}
}

func signedOp[T constraints.Signed](op Op, k Kind, x, y int64) (Value, error) {
	a, b := T(x), T(y)
	var r T
	switch op {
	case OpAdd:
		r = a + b
		if (r > a) != (b > 0) {
			return Value{}, boundBroken(op, k, "overflow")
		}
	case OpSub:
		r = a - b
		if (r < a) != (b > 0) {
			return Value{}, boundBroken(op, k, "overflow")
		}
	case OpMul:
		if a == 0 || b == 0 {
			return Value{kind: k}, nil
		}
		if (a == -1 && b != 0 && b == -b) || (b == -1 && a != 0 && a == -a) {
			return Value{}, boundBroken(op, k, "overflow")
		}
		r = a * b
		if r/b != a {
			return Value{}, boundBroken(op, k, "overflow")
		}
	case OpDiv:
		if b == 0 {
			return Value{}, boundBroken(op, k, "division by zero")
		}
		if b == -1 && a != 0 && a == -a {
			return Value{}, boundBroken(op, k, "overflow")
		}
		r = a / b
	default:
		return Value{}, invalidType(op, k)
	}
	return Value{kind: k, i: int64(r)}, nil
}

func unsignedOp[T constraints.Unsigned](op Op, k Kind, x, y uint64) (Value, error) {
	a, b := T(x), T(y)
	var r T
	switch op {
	case OpAdd:
		r = a + b
		if r < a {
			return Value{}, boundBroken(op, k, "overflow")
		}
	case OpSub:
		if b > a {
			return Value{}, boundBroken(op, k, "underflow")
		}
		r = a - b
	case OpMul:
		if a == 0 || b == 0 {
			return Value{kind: k}, nil
		}
		r = a * b
		if r/a != b {
			return Value{}, boundBroken(op, k, "overflow")
		}
	case OpDiv:
		if b == 0 {
			return Value{}, boundBroken(op, k, "division by zero")
		}
		r = a / b
	default:
		return Value{}, invalidType(op, k)
	}
	return Value{kind: k, u: uint64(r)}, nil
}

func bigIntOp(op Op, k Kind, a, b *big.Int) (Value, error) {
	r := new(big.Int)
	switch op {
	case OpAdd:
		r.Add(a, b)
	case OpSub:
		r.Sub(a, b)
	case OpMul:
		r.Mul(a, b)
	case OpDiv:
		if b.Sign() == 0 {
			return Value{}, boundBroken(op, k, "division by zero")
		}
		// truncated division, matching the fixed-width kinds
		r.Quo(a, b)
	default:
		return Value{}, invalidType(op, k)
	}
	return fromBig(op, k, r)
}

func float32Op(op Op, k Kind, a, b float32) (Value, error) {
	var r float32
	switch op {
	case OpAdd:
		r = a + b
	case OpSub:
		r = a - b
	case OpMul:
		r = a * b
	case OpDiv:
		if b == 0 {
			return Value{}, boundBroken(op, k, "division by zero")
		}
		r = a / b
	default:
		return Value{}, invalidType(op, k)
	}
	return checkFloat(op, k, float64(r))
}

func float64Op(op Op, k Kind, a, b float64) (Value, error) {
	var r float64
	switch op {
	case OpAdd:
		r = a + b
	case OpSub:
		r = a - b
	case OpMul:
		r = a * b
	case OpDiv:
		if b == 0 {
			return Value{}, boundBroken(op, k, "division by zero")
		}
		r = a / b
	default:
		return Value{}, invalidType(op, k)
	}
	return checkFloat(op, k, r)
}

func bigFloatOp(op Op, k Kind, a, b *big.Float) (Value, error) {
	r := new(big.Float).SetPrec(FloatPrec)
	switch op {
	case OpAdd:
		r.Add(a, b)
	case OpSub:
		r.Sub(a, b)
	case OpMul:
		r.Mul(a, b)
	case OpDiv:
		if b.Sign() == 0 {
			return Value{}, boundBroken(op, k, "division by zero")
		}
		r.Quo(a, b)
	default:
		return Value{}, invalidType(op, k)
	}
	return Value{kind: k, bf: r}, nil
}
