// Package constraint describes the values an expression can take without
// executing it. A constraint is either Failed (an earlier operation lost the
// information), an explicit enumeration of values, or Unconstrained.
package constraint

// Response classifies a static test of a constraint against a predicate
type Response uint8

const (
	Always    Response = iota // every possible value passes
	Sometimes                 // some values pass
	Never                     // no value passes
	Failed                    // an earlier failure left nothing to test
)

func (r Response) String() string {
	switch r {
	case Always:
		return "always"
	case Sometimes:
		return "sometimes"
	case Never:
		return "never"
	default:
		return "failed"
	}
}

// Not swaps Always and Never
func (r Response) Not() Response {
	switch r {
	case Always:
		return Never
	case Never:
		return Always
	default:
		return r
	}
}

// flags accumulates whether any tested value matched and whether any did not
type flags struct {
	match    bool
	mismatch bool
}

func (f *flags) merge(o flags) {
	f.match = f.match || o.match
	f.mismatch = f.mismatch || o.mismatch
}

func (f flags) response() Response {
	switch {
	case f.match && f.mismatch:
		return Sometimes
	case f.match:
		return Always
	case f.mismatch:
		return Never
	default:
		return Failed
	}
}

// State is the lattice position of a constraint
type State uint8

const (
	StateFailed State = iota
	StateEnumerated
	StateUnconstrained
)

func (s State) String() string {
	switch s {
	case StateFailed:
		return "failed"
	case StateEnumerated:
		return "enumerated"
	default:
		return "unconstrained"
	}
}

// join is the lattice join of two states: Failed absorbs, then Unconstrained
func join(a, b State) State {
	if a == StateFailed || b == StateFailed {
		return StateFailed
	}
	if a == StateUnconstrained || b == StateUnconstrained {
		return StateUnconstrained
	}
	return StateEnumerated
}

// Constraint is an unordered constraint over comparable values (bool)
type Constraint[T comparable] struct {
	state  State
	values []T
}

// Failure returns the absorbing Failed constraint
func Failure[T comparable]() Constraint[T] {
	return Constraint[T]{state: StateFailed}
}

// Any returns the Unconstrained constraint
func Any[T comparable]() Constraint[T] {
	return Constraint[T]{state: StateUnconstrained}
}

// Of returns an enumeration of the given values
func Of[T comparable](values ...T) Constraint[T] {
	return Constraint[T]{state: StateEnumerated, values: append([]T(nil), values...)}
}

// FromResponse builds the truth values a comparison with response r can produce
func FromResponse(r Response) Constraint[bool] {
	switch r {
	case Always:
		return Of(true)
	case Never:
		return Of(false)
	case Sometimes:
		return Of(true, false)
	default:
		return Failure[bool]()
	}
}

// State returns the lattice position of c
func (c Constraint[T]) State() State { return c.state }

// Values returns a copy of the enumerated values
func (c Constraint[T]) Values() []T { return append([]T(nil), c.values...) }

// Combine is the lattice join of c and o. Enumerations concatenate as multisets.
func (c Constraint[T]) Combine(o Constraint[T]) Constraint[T] {
	s := join(c.state, o.state)
	if s != StateEnumerated {
		return Constraint[T]{state: s}
	}
	values := make([]T, 0, len(c.values)+len(o.values))
	values = append(values, c.values...)
	values = append(values, o.values...)
	return Constraint[T]{state: s, values: values}
}

// flagsFor scans the possible values of c against candidate
func (c Constraint[T]) flagsFor(candidate T) flags {
	var f flags
	switch c.state {
	case StateUnconstrained:
		f = flags{match: true, mismatch: true}
	case StateEnumerated:
		for _, v := range c.values {
			if v == candidate {
				f.match = true
			} else {
				f.mismatch = true
			}
		}
	}
	return f
}

// TestEquals classifies how often c equals candidate
func (c Constraint[T]) TestEquals(candidate T) Response {
	return c.flagsFor(candidate).response()
}

// EqualsOther classifies how often a value of c equals a value of o
func (c Constraint[T]) EqualsOther(o Constraint[T]) Response {
	switch o.state {
	case StateFailed:
		return Failed
	case StateUnconstrained:
		if c.state == StateFailed {
			return Failed
		}
		return Sometimes
	}
	var f flags
	for _, v := range o.values {
		f.merge(c.flagsFor(v))
	}
	return f.response()
}

// NotEqualsOther classifies how often a value of c differs from a value of o
func (c Constraint[T]) NotEqualsOther(o Constraint[T]) Response {
	return c.EqualsOther(o).Not()
}
