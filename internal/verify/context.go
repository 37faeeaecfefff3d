package verify

import (
	"github.com/lhaig/vesuvius/internal/ast"
	"github.com/lhaig/vesuvius/internal/constraint"
	"github.com/lhaig/vesuvius/internal/diagnostic"
)

// DefaultRootName names the root scope when no project name is configured
const DefaultRootName = "root"

// Options tune a verification run
type Options struct {
	// MaxEnumerated bounds how many ranges a numeric constraint may hold
	// before it is widened to a single hull
	MaxEnumerated int

	// RootName is the name of the root scope and the first segment of the
	// entry point path
	RootName string
}

func (o Options) withDefaults() Options {
	if o.MaxEnumerated <= 0 {
		o.MaxEnumerated = constraint.DefaultLimit
	}
	if o.RootName == "" {
		o.RootName = DefaultRootName
	}
	return o
}

// declState tracks how far a declaration has been processed
type declState int

const (
	unregistered declState = iota
	registered
	contentsChecked
)

// VerificationContext holds all mutable state of one compilation. It is
// created once and threaded through every check; nothing is kept in
// package-level variables.
type VerificationContext struct {
	Scopes  *Scopes
	Notes   *diagnostic.Queue
	Options Options

	entry     *EntryPoint
	states    map[*ast.Declaration]declState
	functions []FunctionSignature
	branches  []BranchReport
}

// New creates a context ready for a single Verify call
func New(opts Options) *VerificationContext {
	ctx := &VerificationContext{Options: opts.withDefaults()}
	ctx.Reset()
	return ctx
}

// Reset discards every scope, note and result so the context can verify
// another program
func (ctx *VerificationContext) Reset() {
	ctx.Scopes = NewScopes()
	ctx.Notes = diagnostic.New()
	ctx.entry = nil
	ctx.states = make(map[*ast.Declaration]declState)
	ctx.functions = nil
	ctx.branches = nil
}

func (ctx *VerificationContext) state(d *ast.Declaration) declState {
	return ctx.states[d]
}

func (ctx *VerificationContext) advance(d *ast.Declaration, to declState) {
	if from := ctx.states[d]; to != from+1 {
		panic("verify: declaration state out of order")
	}
	ctx.states[d] = to
}
