package verify

import (
	"github.com/lhaig/vesuvius/internal/ast"
	"github.com/lhaig/vesuvius/internal/constraint"
	"github.com/lhaig/vesuvius/internal/diagnostic"
	"github.com/lhaig/vesuvius/internal/source"
)

// BranchReport records how one clause of an if expression was classified
type BranchReport struct {
	Function  string // qualified path of the enclosing function
	Keyword   string // "if", "elif" or "else"
	Index     int
	Range     source.Range
	Response  constraint.Response
	Evaluated bool
	// Shadowed is set for clauses after one whose condition always holds.
	// Their conditions are not evaluated.
	Shadowed bool
}

// branchAcc unifies the values of the branches that can run
type branchAcc struct {
	ctx   *VerificationContext
	value Value
	set   bool
}

func (a *branchAcc) add(v Value) {
	if !a.set {
		a.value, a.set = v, true
		return
	}
	if !a.value.Compatible(v) {
		a.ctx.Notes.Enqueue(diagnostic.Error, diagnostic.InvalidType, diagnostic.Always,
			diagnostic.At(v.Origin, "branch produces `%s`", v.TypeName()),
			diagnostic.At(a.value.Origin, "earlier branches produce `%s`", a.value.TypeName()))
		a.value = a.value.Failed()
		return
	}
	a.value = a.value.Combine(v, a.ctx.Options.MaxEnumerated)
}

// evalIf classifies each condition against its constraint. Clauses that can
// never run are reported and skipped; a clause that always runs ends the
// chain. The values of every clause that can run are combined.
func (ctx *VerificationContext) evalIf(e *ast.IfExpr) Value {
	fn := ctx.Scopes.QualifiedPath(ctx.Scopes.Current())
	acc := &branchAcc{ctx: ctx}
	decided := false
	allNever := true

	for i, clause := range e.Clauses {
		report := BranchReport{Function: fn, Keyword: "elif", Index: i, Range: clause.Range}
		if i == 0 {
			report.Keyword = "if"
		}
		if decided {
			report.Response = constraint.Never
			report.Shadowed = true
			ctx.branches = append(ctx.branches, report)
			continue
		}

		report.Response = ctx.classify(clause.Condition)
		switch report.Response {
		case constraint.Always:
			hint := "consider replacing this case with else"
			if i == 0 {
				hint = "consider removing the if statement"
			}
			ctx.Notes.Enqueue(diagnostic.Warning, diagnostic.BlockContents, diagnostic.Always,
				diagnostic.At(clause.Condition.Span(), "condition always succeeds"),
				diagnostic.Text("%s", hint))
			acc.add(ctx.evalBlock(clause.Block))
			report.Evaluated = true
			decided = true
		case constraint.Never:
			ctx.Notes.Enqueue(diagnostic.Warning, diagnostic.BlockContents, diagnostic.Never,
				diagnostic.At(clause.Condition.Span(), "condition always fails"),
				diagnostic.Text("consider removing this case"))
		case constraint.Sometimes:
			acc.add(ctx.evalBlock(clause.Block))
			report.Evaluated = true
		}
		if report.Response != constraint.Never {
			allNever = false
		}
		ctx.branches = append(ctx.branches, report)
	}

	if e.Else != nil {
		report := BranchReport{Function: fn, Keyword: "else", Index: len(e.Clauses), Range: e.Else.Range}
		switch {
		case decided:
			report.Response = constraint.Never
			report.Shadowed = true
		default:
			report.Response = constraint.Sometimes
			if allNever {
				report.Response = constraint.Always
			}
			acc.add(ctx.evalBlock(e.Else.Block))
			report.Evaluated = true
		}
		ctx.branches = append(ctx.branches, report)
	} else if !decided && acc.set && acc.value.Tag != TagVoid && acc.value.Tag != TagUnknown {
		last := e.Clauses[len(e.Clauses)-1]
		ctx.Notes.Enqueue(diagnostic.Error, diagnostic.InvalidType, diagnostic.Always,
			diagnostic.At(last.Block.Range, "`if` produces `%s` but has no else branch", acc.value.TypeName()),
			diagnostic.Text("add an else branch"))
	}

	if !acc.set {
		return Void(e.Range)
	}
	return acc.value.WithOrigin(e.Range)
}

// classify evaluates a condition and tests it against true. A condition
// that is not a bool is reported; one that is already broken is skipped
// without a note.
func (ctx *VerificationContext) classify(cond ast.Expression) constraint.Response {
	v := ctx.evalExpr(cond)
	switch v.Tag {
	case TagBool:
		return v.Bool.TestEquals(true)
	case TagUnknown:
		return constraint.Failed
	default:
		ctx.Notes.Errorf(diagnostic.InvalidType, cond.Span(), "condition must be `bool`, found `%s`", v.TypeName())
		return constraint.Failed
	}
}
