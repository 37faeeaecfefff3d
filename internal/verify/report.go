package verify

import (
	"fmt"
	"strings"

	"github.com/lhaig/vesuvius/internal/constraint"
	"github.com/lhaig/vesuvius/internal/source"
)

// FunctionBranches groups the branch reports of one function
type FunctionBranches struct {
	Function string
	Branches []BranchReport
}

// Reachable returns the number of clauses that can run
func (f *FunctionBranches) Reachable() int {
	n := 0
	for _, b := range f.Branches {
		if b.Evaluated {
			n++
		}
	}
	return n
}

// AllReachable returns true if every clause of the function can run
func (f *FunctionBranches) AllReachable() bool {
	return f.Reachable() == len(f.Branches)
}

// GroupBranches groups reports by function, keeping the order in which
// functions were checked
func GroupBranches(reports []BranchReport) []*FunctionBranches {
	var groups []*FunctionBranches
	byName := make(map[string]*FunctionBranches)
	for _, r := range reports {
		g, ok := byName[r.Function]
		if !ok {
			g = &FunctionBranches{Function: r.Function}
			byName[r.Function] = g
			groups = append(groups, g)
		}
		g.Branches = append(g.Branches, r)
	}
	return groups
}

// branchStatus returns the column text for one clause
func branchStatus(b BranchReport) string {
	switch {
	case b.Shadowed:
		return "SHADOWED"
	case b.Response == constraint.Failed:
		return "UNCHECKED"
	default:
		return strings.ToUpper(b.Response.String())
	}
}

// FormatReport produces human-readable output for branch reachability
// reports. sources resolves ranges to line and column.
func FormatReport(reports []BranchReport, sources *source.Set) string {
	if len(reports) == 0 {
		return ""
	}

	var sb strings.Builder

	sb.WriteString("Branch Reachability Report\n")
	sb.WriteString("==========================\n\n")

	for _, group := range GroupBranches(reports) {
		fmt.Fprintf(&sb, "Function: %s\n", group.Function)

		for _, b := range group.Branches {
			where := b.Keyword
			if m := lookupModule(sources, b.Range.Module); m != nil {
				pos := m.Position(b.Range.Start)
				where = fmt.Sprintf("%s at %s:%d:%d", b.Keyword, m.Path, pos.Line, pos.Column)
			}
			fmt.Fprintf(&sb, "  %-40s %s\n", where, branchStatus(b))
		}

		total := len(group.Branches)
		if group.AllReachable() {
			fmt.Fprintf(&sb, "  Status: all %d clauses reachable\n", total)
		} else {
			fmt.Fprintf(&sb, "  Status: %d of %d clauses reachable\n", group.Reachable(), total)
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func lookupModule(sources *source.Set, id source.ModuleID) *source.Module {
	if sources == nil {
		return nil
	}
	return sources.Module(id)
}
