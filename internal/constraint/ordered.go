package constraint

import (
	"errors"
	"fmt"

	"github.com/lhaig/vesuvius/internal/numeric"
)

// DefaultLimit is the enumeration size past which ordered constraints are widened
const DefaultLimit = 64

// Range is either an exact value or an inclusive [Min, Max] interval
type Range[T numeric.Number[T]] struct {
	min   T
	max   T
	exact bool
}

// Exact returns the range holding only v
func Exact[T numeric.Number[T]](v T) Range[T] {
	return Range[T]{min: v, max: v, exact: true}
}

// Bounded returns the inclusive range [lo, hi]
func Bounded[T numeric.Number[T]](lo, hi T) Range[T] {
	return Range[T]{min: lo, max: hi}
}

func (r Range[T]) IsExact() bool { return r.exact }
func (r Range[T]) Min() T        { return r.min }
func (r Range[T]) Max() T        { return r.max }

func (r Range[T]) String() string {
	if r.exact {
		return r.min.String()
	}
	return fmt.Sprintf("%s..=%s", r.min, r.max)
}

// degenerate reports whether r holds a single value
func (r Range[T]) degenerate() bool {
	if r.exact {
		return true
	}
	eq, err := r.min.TryEq(r.max)
	return err == nil && eq
}

// pairTest compares every value of a against every value of b under op.
// An error means the pair could not be compared and contributes nothing.
func pairTest[T numeric.Number[T]](op numeric.Op, a, b Range[T]) (flags, error) {
	var always, never bool
	var err error
	switch op {
	case numeric.OpEq, numeric.OpNe:
		var disjoint, lt, gt bool
		if lt, err = a.max.TryLt(b.min); err != nil {
			return flags{}, err
		}
		if gt, err = a.min.TryGt(b.max); err != nil {
			return flags{}, err
		}
		disjoint = lt || gt
		if !disjoint && a.degenerate() && b.degenerate() {
			always = true
		}
		never = disjoint
		if op == numeric.OpNe {
			always, never = never, always
		}
	case numeric.OpLt:
		if always, err = a.max.TryLt(b.min); err != nil {
			return flags{}, err
		}
		never, err = a.min.TryGe(b.max)
	case numeric.OpLe:
		if always, err = a.max.TryLe(b.min); err != nil {
			return flags{}, err
		}
		never, err = a.min.TryGt(b.max)
	case numeric.OpGt:
		if always, err = a.min.TryGt(b.max); err != nil {
			return flags{}, err
		}
		never, err = a.max.TryLe(b.min)
	case numeric.OpGe:
		if always, err = a.min.TryGe(b.max); err != nil {
			return flags{}, err
		}
		never, err = a.max.TryLt(b.min)
	default:
		return flags{}, fmt.Errorf("operator %s is not a comparison", op)
	}
	if err != nil {
		return flags{}, err
	}
	switch {
	case always:
		return flags{match: true}, nil
	case never:
		return flags{mismatch: true}, nil
	default:
		return flags{match: true, mismatch: true}, nil
	}
}

// Ordered is a constraint over ordered numeric values, enumerated as ranges
type Ordered[T numeric.Number[T]] struct {
	state  State
	ranges []Range[T]
}

// OrderedFailure returns the absorbing Failed constraint
func OrderedFailure[T numeric.Number[T]]() Ordered[T] {
	return Ordered[T]{state: StateFailed}
}

// OrderedAny returns the Unconstrained constraint
func OrderedAny[T numeric.Number[T]]() Ordered[T] {
	return Ordered[T]{state: StateUnconstrained}
}

// OrderedOf enumerates the given ranges
func OrderedOf[T numeric.Number[T]](ranges ...Range[T]) Ordered[T] {
	return Ordered[T]{state: StateEnumerated, ranges: append([]Range[T](nil), ranges...)}
}

// ExactValues enumerates exact values
func ExactValues[T numeric.Number[T]](values ...T) Ordered[T] {
	ranges := make([]Range[T], len(values))
	for i, v := range values {
		ranges[i] = Exact(v)
	}
	return Ordered[T]{state: StateEnumerated, ranges: ranges}
}

// State returns the lattice position of c
func (c Ordered[T]) State() State { return c.state }

// Ranges returns a copy of the enumerated ranges
func (c Ordered[T]) Ranges() []Range[T] { return append([]Range[T](nil), c.ranges...) }

// Combine is the lattice join of c and o
func (c Ordered[T]) Combine(o Ordered[T]) Ordered[T] {
	s := join(c.state, o.state)
	if s != StateEnumerated {
		return Ordered[T]{state: s}
	}
	ranges := make([]Range[T], 0, len(c.ranges)+len(o.ranges))
	ranges = append(ranges, c.ranges...)
	ranges = append(ranges, o.ranges...)
	return Ordered[T]{state: s, ranges: ranges}
}

// Test classifies how often a value of c relates to candidate under op
func (c Ordered[T]) Test(op numeric.Op, candidate Range[T]) Response {
	return c.flagsFor(op, candidate).response()
}

// TestEquals classifies how often c equals v
func (c Ordered[T]) TestEquals(v T) Response {
	return c.Test(numeric.OpEq, Exact(v))
}

func (c Ordered[T]) flagsFor(op numeric.Op, candidate Range[T]) flags {
	var f flags
	switch c.state {
	case StateUnconstrained:
		f = flags{match: true, mismatch: true}
	case StateEnumerated:
		for _, r := range c.ranges {
			pf, err := pairTest(op, r, candidate)
			if err != nil {
				continue
			}
			f.merge(pf)
		}
	}
	return f
}

// Compare classifies how often a value of c relates to a value of o under op
func (c Ordered[T]) Compare(op numeric.Op, o Ordered[T]) Response {
	switch {
	case c.state == StateFailed || o.state == StateFailed:
		return Failed
	case c.state == StateUnconstrained || o.state == StateUnconstrained:
		return Sometimes
	}
	var f flags
	for _, r := range o.ranges {
		f.merge(c.flagsFor(op, r))
	}
	return f.response()
}

// EqualsOther classifies how often a value of c equals a value of o
func (c Ordered[T]) EqualsOther(o Ordered[T]) Response {
	return c.Compare(numeric.OpEq, o)
}

// NotEqualsOther classifies how often a value of c differs from a value of o
func (c Ordered[T]) NotEqualsOther(o Ordered[T]) Response {
	return c.Compare(numeric.OpNe, o)
}

// ApplyError reports that an arithmetic operation broke for some or all of
// the possible operand values. Occurrence is Always or Sometimes.
type ApplyError struct {
	Err        error
	Occurrence Response
}

func (f *ApplyError) Error() string {
	return fmt.Sprintf("%s (%s)", f.Err, f.Occurrence)
}

func (f *ApplyError) Unwrap() error { return f.Err }

// Apply runs the checked arithmetic op over every pair of possible values.
// When any pair fails, the result is the Failed constraint together with a
// *ApplyError describing the first error and whether every pair failed.
// A failing pair of intervals counts as a partial failure when some values
// drawn from them still succeed.
func (c Ordered[T]) Apply(op numeric.Op, o Ordered[T]) (Ordered[T], error) {
	if op.IsComparison() {
		return OrderedFailure[T](), fmt.Errorf("operator %s is not arithmetic", op)
	}
	s := join(c.state, o.state)
	if s != StateEnumerated {
		return Ordered[T]{state: s}, nil
	}

	var firstErr error
	var f flags
	out := make([]Range[T], 0, len(c.ranges)*len(o.ranges))
	for _, a := range c.ranges {
		for _, b := range o.ranges {
			r, err := applyRange(op, a, b)
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				f.match = true
				if partialFailure(op, a, b) {
					f.mismatch = true
				}
				continue
			}
			f.mismatch = true
			out = append(out, r)
		}
	}
	if firstErr != nil {
		return OrderedFailure[T](), &ApplyError{Err: firstErr, Occurrence: f.response()}
	}
	return Ordered[T]{state: StateEnumerated, ranges: out}, nil
}

// partialFailure reports whether op succeeds for some pair of values drawn
// from a and b. It samples the endpoints of each range and zero when a range
// straddles it.
func partialFailure[T numeric.Number[T]](op numeric.Op, a, b Range[T]) bool {
	if a.degenerate() && b.degenerate() {
		return false
	}
	for _, x := range samples(a) {
		for _, y := range samples(b) {
			if _, err := applyOp(op, x, y); err == nil {
				return true
			}
		}
	}
	return false
}

func samples[T numeric.Number[T]](r Range[T]) []T {
	if r.degenerate() {
		return []T{r.min}
	}
	out := []T{r.min, r.max}
	zero, err := r.min.TrySub(r.min)
	if err != nil {
		return out
	}
	below, _ := r.min.TryLt(zero)
	above, _ := r.max.TryGt(zero)
	if below && above {
		out = append(out, zero)
	}
	return out
}

func applyOp[T numeric.Number[T]](op numeric.Op, a, b T) (T, error) {
	switch op {
	case numeric.OpAdd:
		return a.TryAdd(b)
	case numeric.OpSub:
		return a.TrySub(b)
	case numeric.OpMul:
		return a.TryMul(b)
	default:
		return a.TryDiv(b)
	}
}

// applyRange computes op over two ranges. Exact pairs compute directly;
// intervals use endpoint arithmetic.
func applyRange[T numeric.Number[T]](op numeric.Op, a, b Range[T]) (Range[T], error) {
	if a.exact && b.exact {
		v, err := applyOp(op, a.min, b.min)
		if err != nil {
			return Range[T]{}, err
		}
		return Exact(v), nil
	}

	switch op {
	case numeric.OpAdd:
		lo, err := a.min.TryAdd(b.min)
		if err != nil {
			return Range[T]{}, err
		}
		hi, err := a.max.TryAdd(b.max)
		if err != nil {
			return Range[T]{}, err
		}
		return Bounded(lo, hi), nil
	case numeric.OpSub:
		lo, err := a.min.TrySub(b.max)
		if err != nil {
			return Range[T]{}, err
		}
		hi, err := a.max.TrySub(b.min)
		if err != nil {
			return Range[T]{}, err
		}
		return Bounded(lo, hi), nil
	case numeric.OpDiv:
		zero, err := b.min.TrySub(b.min)
		if err != nil {
			return Range[T]{}, err
		}
		lo, _ := b.min.TryLe(zero)
		hi, _ := b.max.TryGe(zero)
		if lo && hi {
			return Range[T]{}, &numeric.OpError{Op: op, Kind: zero.Kind(), Reason: numeric.ErrBoundBroken, Detail: "divisor range contains zero"}
		}
	}
	return endpointHull(op, a, b)
}

// endpointHull evaluates op at the four endpoint pairs and returns their hull
func endpointHull[T numeric.Number[T]](op numeric.Op, a, b Range[T]) (Range[T], error) {
	candidates := [4][2]T{{a.min, b.min}, {a.min, b.max}, {a.max, b.min}, {a.max, b.max}}
	var lo, hi T
	for i, pair := range candidates {
		v, err := applyOp(op, pair[0], pair[1])
		if err != nil {
			return Range[T]{}, err
		}
		if i == 0 {
			lo, hi = v, v
			continue
		}
		if less, _ := v.TryLt(lo); less {
			lo = v
		}
		if greater, _ := v.TryGt(hi); greater {
			hi = v
		}
	}
	return Bounded(lo, hi), nil
}

// Widen collapses an enumeration longer than limit into its single bounding
// range. Every previously possible value stays possible.
func (c Ordered[T]) Widen(limit int) Ordered[T] {
	if c.state != StateEnumerated || limit <= 0 || len(c.ranges) <= limit {
		return c
	}
	lo, hi := c.ranges[0].min, c.ranges[0].max
	for _, r := range c.ranges[1:] {
		less, err := r.min.TryLt(lo)
		if err != nil {
			return OrderedAny[T]()
		}
		if less {
			lo = r.min
		}
		greater, err := r.max.TryGt(hi)
		if err != nil {
			return OrderedAny[T]()
		}
		if greater {
			hi = r.max
		}
	}
	return OrderedOf(Bounded(lo, hi))
}

// IsBoundBroken reports whether err is an arithmetic failure from leaving a kind's range
func IsBoundBroken(err error) bool {
	return errors.Is(err, numeric.ErrBoundBroken)
}
