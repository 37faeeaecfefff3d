package verify

import (
	"fmt"
	"strings"

	"github.com/lhaig/vesuvius/internal/ast"
	"github.com/lhaig/vesuvius/internal/constraint"
	"github.com/lhaig/vesuvius/internal/numeric"
	"github.com/lhaig/vesuvius/internal/source"
)

// Tag is the discriminant of a value's kind
type Tag int

const (
	// TagUnknown is the wildcard produced after an error. It is compatible
	// with every other kind so one mistake is reported once.
	TagUnknown Tag = iota
	TagVoid
	TagFunction
	TagBool
	TagNumeric
)

// FunctionType is the kind of a function symbol. Params and Return hold the
// unresolved descriptors as written; the body is checked separately.
type FunctionType struct {
	Decl   *ast.FunctionDecl
	Params []*ast.TypeRef
	Return *ast.TypeRef
}

// Value is the result of evaluating an expression: its kind, the constraint
// on what it can be, and where it came from. Values are never mutated.
type Value struct {
	Tag      Tag
	Kind     numeric.Kind // TagNumeric only
	Bool     constraint.Constraint[bool]
	Number   constraint.Ordered[numeric.Value]
	Function *FunctionType
	Origin   source.Range
}

// Unknown returns the wildcard value
func Unknown(r source.Range) Value {
	return Value{Tag: TagUnknown, Origin: r}
}

// Void returns the value of a block that produces nothing
func Void(r source.Range) Value {
	return Value{Tag: TagVoid, Origin: r}
}

// BoolValue wraps a bool constraint
func BoolValue(c constraint.Constraint[bool], r source.Range) Value {
	return Value{Tag: TagBool, Bool: c, Origin: r}
}

// NumberValue wraps an ordered constraint of kind k
func NumberValue(k numeric.Kind, c constraint.Ordered[numeric.Value], r source.Range) Value {
	return Value{Tag: TagNumeric, Kind: k, Number: c, Origin: r}
}

// FunctionValue builds the value bound to a function name
func FunctionValue(fn *ast.FunctionDecl) Value {
	ft := &FunctionType{Decl: fn, Return: fn.ReturnType}
	for _, p := range fn.Params {
		ft.Params = append(ft.Params, p.Type)
	}
	return Value{Tag: TagFunction, Function: ft, Origin: fn.NameRange}
}

// resolveType turns a type descriptor into an unconstrained value of that
// type. Only builtin names resolve.
func resolveType(t *ast.TypeRef) (Value, bool) {
	if t == nil || len(t.Path) != 1 {
		return Value{}, false
	}
	switch name := t.Path[0]; name {
	case "bool":
		return BoolValue(constraint.Any[bool](), t.Range), true
	case "void":
		return Void(t.Range), true
	default:
		k, ok := numeric.LookupKind(name)
		if !ok {
			return Value{}, false
		}
		return NumberValue(k, constraint.OrderedAny[numeric.Value](), t.Range), true
	}
}

// Compatible reports whether v and o have the same kind. Unknown matches
// everything; functions match on arity and parameter kinds.
func (v Value) Compatible(o Value) bool {
	if v.Tag == TagUnknown || o.Tag == TagUnknown {
		return true
	}
	if v.Tag != o.Tag {
		return false
	}
	switch v.Tag {
	case TagNumeric:
		return v.Kind == o.Kind
	case TagFunction:
		return v.Function.compatible(o.Function)
	default:
		return true
	}
}

func (f *FunctionType) compatible(o *FunctionType) bool {
	if len(f.Params) != len(o.Params) {
		return false
	}
	for i := range f.Params {
		a, aok := resolveType(f.Params[i])
		b, bok := resolveType(o.Params[i])
		if aok != bok {
			return false
		}
		if aok && !a.Compatible(b) {
			return false
		}
		if !aok && f.Params[i].String() != o.Params[i].String() {
			return false
		}
	}
	return true
}

// TypeName returns the source-level name of v's kind
func (v Value) TypeName() string {
	switch v.Tag {
	case TagVoid:
		return "void"
	case TagBool:
		return "bool"
	case TagNumeric:
		return v.Kind.String()
	case TagFunction:
		params := make([]string, len(v.Function.Params))
		for i, p := range v.Function.Params {
			params[i] = p.String()
		}
		ret := "void"
		if v.Function.Return != nil {
			ret = v.Function.Return.String()
		}
		return fmt.Sprintf("fn(%s) -> %s", strings.Join(params, ", "), ret)
	default:
		return "<?>"
	}
}

// Failed returns v with its constraint replaced by the Failed state
func (v Value) Failed() Value {
	switch v.Tag {
	case TagBool:
		v.Bool = constraint.Failure[bool]()
	case TagNumeric:
		v.Number = constraint.OrderedFailure[numeric.Value]()
	}
	return v
}

// IsFailed reports whether the constraint of v carries no information
func (v Value) IsFailed() bool {
	switch v.Tag {
	case TagBool:
		return v.Bool.State() == constraint.StateFailed
	case TagNumeric:
		return v.Number.State() == constraint.StateFailed
	default:
		return false
	}
}

// WithOrigin returns v attributed to r
func (v Value) WithOrigin(r source.Range) Value {
	v.Origin = r
	return v
}

// Combine joins the constraints of two compatible values. Combining with
// Unknown keeps the known kind but loses its constraint. limit bounds the
// size of numeric enumerations.
func (v Value) Combine(o Value, limit int) Value {
	origin := v.Origin.Join(o.Origin)
	switch {
	case v.Tag == TagUnknown && o.Tag == TagUnknown:
		return Unknown(origin)
	case v.Tag == TagUnknown:
		return o.Failed().WithOrigin(origin)
	case o.Tag == TagUnknown:
		return v.Failed().WithOrigin(origin)
	}
	switch v.Tag {
	case TagBool:
		return BoolValue(v.Bool.Combine(o.Bool), origin)
	case TagNumeric:
		return NumberValue(v.Kind, v.Number.Combine(o.Number).Widen(limit), origin)
	default:
		return v.WithOrigin(origin)
	}
}

// String describes v with its known values, e.g. "int32 {1, 2}"
func (v Value) String() string {
	switch v.Tag {
	case TagBool:
		return "bool " + describeBool(v.Bool)
	case TagNumeric:
		return v.Kind.String() + " " + describeNumber(v.Number)
	default:
		return v.TypeName()
	}
}

func describeBool(c constraint.Constraint[bool]) string {
	switch c.State() {
	case constraint.StateFailed:
		return "<failed>"
	case constraint.StateUnconstrained:
		return "<any>"
	}
	parts := make([]string, 0, len(c.Values()))
	for _, b := range c.Values() {
		parts = append(parts, fmt.Sprint(b))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func describeNumber(c constraint.Ordered[numeric.Value]) string {
	switch c.State() {
	case constraint.StateFailed:
		return "<failed>"
	case constraint.StateUnconstrained:
		return "<any>"
	}
	parts := make([]string, 0, len(c.Ranges()))
	for _, r := range c.Ranges() {
		parts = append(parts, r.String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
