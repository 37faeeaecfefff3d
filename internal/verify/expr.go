package verify

import (
	"errors"

	"github.com/lhaig/vesuvius/internal/ast"
	"github.com/lhaig/vesuvius/internal/constraint"
	"github.com/lhaig/vesuvius/internal/diagnostic"
	"github.com/lhaig/vesuvius/internal/numeric"
	"github.com/lhaig/vesuvius/internal/source"
)

// evalExpr reduces an expression to a Value. It always returns a value;
// problems are queued and a placeholder is returned so checking continues.
func (ctx *VerificationContext) evalExpr(expr ast.Expression) Value {
	switch e := expr.(type) {
	case *ast.IntLit:
		return ctx.evalNumber(e.Digits, e.Suffix, numeric.IntBig, e.Range)
	case *ast.FloatLit:
		return ctx.evalNumber(e.Digits, e.Suffix, numeric.FloatBig, e.Range)
	case *ast.BoolLit:
		return BoolValue(constraint.Of(e.Value), e.Range)
	case *ast.Identifier:
		sym, ok := ctx.Scopes.Lookup(e.Name)
		if !ok {
			ctx.Notes.Errorf(diagnostic.UnknownSymbol, e.Range, "`%s` is not defined", e.Name)
			return Unknown(e.Range)
		}
		return sym.Value.WithOrigin(e.Range)
	case *ast.ParenExpr:
		return ctx.evalExpr(e.Inner).WithOrigin(e.Range)
	case *ast.BinaryExpr:
		return ctx.evalBinary(e)
	case *ast.IfExpr:
		return ctx.evalIf(e)
	default:
		ctx.Notes.Errorf(diagnostic.Internal, expr.Span(), "unsupported expression %T", expr)
		return Unknown(expr.Span())
	}
}

// evalNumber builds the single exact value of a numeric literal. An
// unsuffixed literal takes the arbitrary-precision kind def.
func (ctx *VerificationContext) evalNumber(digits, suffix string, def numeric.Kind, r source.Range) Value {
	k := def
	if suffix != "" {
		var ok bool
		if k, ok = numeric.KindForSuffix(suffix); !ok {
			ctx.Notes.Errorf(diagnostic.InvalidType, r, "unknown literal suffix `%s`", suffix)
			return Unknown(r)
		}
	}

	v, err := numeric.Parse(k, digits)
	if err != nil {
		kind := diagnostic.InvalidType
		if errors.Is(err, numeric.ErrBoundBroken) {
			kind = diagnostic.BoundBroken
		}
		ctx.Notes.Errorf(kind, r, "%s", failureDetail(err))
		return NumberValue(k, constraint.OrderedFailure[numeric.Value](), r)
	}
	return NumberValue(k, constraint.ExactValues(v), r)
}

func (ctx *VerificationContext) evalBinary(e *ast.BinaryExpr) Value {
	left := ctx.evalExpr(e.Left)
	right := ctx.evalExpr(e.Right)

	if left.Tag == TagUnknown || right.Tag == TagUnknown {
		if e.Op.IsComparison() {
			return BoolValue(constraint.Failure[bool](), e.Range)
		}
		known := left
		if known.Tag == TagUnknown {
			known = right
		}
		if known.Tag == TagNumeric {
			return known.Failed().WithOrigin(e.Range)
		}
		return Unknown(e.Range)
	}

	if !left.Compatible(right) {
		ctx.Notes.Enqueue(diagnostic.Error, diagnostic.InvalidType, diagnostic.Always,
			diagnostic.At(e.Left.Span(), "`%s` does not match type of right side", left.TypeName()),
			diagnostic.At(e.Right.Span(), "`%s` does not match type of left side", right.TypeName()))
		return BoolValue(constraint.Failure[bool](), e.Range)
	}

	switch left.Tag {
	case TagBool:
		switch e.Op {
		case numeric.OpEq:
			return BoolValue(constraint.FromResponse(left.Bool.EqualsOther(right.Bool)), e.Range)
		case numeric.OpNe:
			return BoolValue(constraint.FromResponse(left.Bool.NotEqualsOther(right.Bool)), e.Range)
		}
	case TagNumeric:
		if e.Op.IsComparison() {
			return BoolValue(constraint.FromResponse(left.Number.Compare(e.Op, right.Number)), e.Range)
		}
		return ctx.evalArithmetic(e, left, right)
	}

	ctx.Notes.Errorf(diagnostic.InvalidType, e.OpRange,
		"operator `%s` is not supported for `%s`", e.Op, left.TypeName())
	if e.Op.IsComparison() || left.Tag == TagBool {
		return BoolValue(constraint.Failure[bool](), e.Range)
	}
	return Unknown(e.Range)
}

// evalArithmetic applies op to every pair of possible operand values. If any
// pair fails, one note is queued for the whole operation.
func (ctx *VerificationContext) evalArithmetic(e *ast.BinaryExpr, left, right Value) Value {
	out, err := left.Number.Apply(e.Op, right.Number)
	if err == nil {
		return NumberValue(left.Kind, out.Widen(ctx.Options.MaxEnumerated), e.Range)
	}

	var failure *constraint.ApplyError
	if !errors.As(err, &failure) {
		ctx.Notes.Errorf(diagnostic.Internal, e.Range, "%v", err)
		return left.Failed().WithOrigin(e.Range)
	}

	kind := diagnostic.InvalidType
	if errors.Is(failure.Err, numeric.ErrBoundBroken) {
		kind = diagnostic.BoundBroken
	}
	occ := diagnostic.Always
	if failure.Occurrence == constraint.Sometimes {
		occ = diagnostic.Sometimes
	}
	ctx.Notes.Enqueue(diagnostic.Error, kind, occ,
		diagnostic.At(e.Range, "`%s` on %s: %s", e.Op, left.Kind, failureDetail(failure.Err)))
	return left.Failed().WithOrigin(e.Range)
}

// failureDetail extracts the human part of a numeric error
func failureDetail(err error) string {
	var opErr *numeric.OpError
	if errors.As(err, &opErr) {
		if opErr.Detail != "" {
			return opErr.Detail
		}
		return "not supported"
	}
	return err.Error()
}
