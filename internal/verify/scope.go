package verify

import (
	"fmt"
	"strings"

	"github.com/lhaig/vesuvius/internal/source"
)

// SymbolID indexes the symbol arena
type SymbolID int

// Symbol is a named value bound in a scope
type Symbol struct {
	Name  string
	Value Value
	Range source.Range
}

// ScopeHandle refers to one scope in the arena. The generation makes a handle
// to a scope that has been popped invalid, even after its slot is reused.
type ScopeHandle struct {
	slot int
	gen  uint32
}

type scopeEntry struct {
	name     string
	symbols  map[string]SymbolID
	parent   int // slot of the enclosing scope, -1 for the root
	gen      uint32
	live     bool
	released bool
}

// DuplicateError is returned when a name is defined twice in the root scope.
// The new definition has still replaced the old one.
type DuplicateError struct {
	Name     string
	Previous source.Range
	Current  source.Range
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("symbol `%s` is already defined in the root scope", e.Name)
}

// Scopes is the scope stack of one compilation, stored as an arena of
// entries addressed by handle. Scopes are opened with Open and stay on the
// stack until their Guard is closed and every deeper scope is gone.
type Scopes struct {
	entries []scopeEntry
	free    []int
	stack   []int // slots from the root outwards
	symbols []Symbol
	guards  int
}

// NewScopes creates an empty scope stack with no root
func NewScopes() *Scopes {
	return &Scopes{}
}

// Guard keeps a scope open until Close is called
type Guard struct {
	scopes *Scopes
	handle ScopeHandle
	closed bool
}

// Handle returns the scope kept open by g
func (g *Guard) Handle() ScopeHandle { return g.handle }

// Close releases the scope. If it is the deepest open scope it is popped at
// once together with any released scopes directly beneath it; otherwise it
// is popped when the scopes above it close. Closing twice does nothing.
func (g *Guard) Close() {
	if g.closed {
		return
	}
	g.closed = true
	s := g.scopes
	e := s.entry(g.handle)
	e.released = true
	s.guards--
	s.collapse()
}

// HasRoot reports whether the root scope is open
func (s *Scopes) HasRoot() bool {
	return len(s.stack) > 0
}

// OpenRoot opens the root scope. It panics if a root is already open.
func (s *Scopes) OpenRoot(name string) ScopeHandle {
	if s.HasRoot() {
		panic("verify: root scope already open")
	}
	return s.push(name, -1)
}

// Open pushes a child of the deepest live scope. An empty name leaves the
// scope anonymous in qualified paths.
func (s *Scopes) Open(name string) *Guard {
	if !s.HasRoot() {
		panic("verify: no root scope open")
	}
	h := s.push(name, s.stack[len(s.stack)-1])
	s.guards++
	return &Guard{scopes: s, handle: h}
}

func (s *Scopes) push(name string, parent int) ScopeHandle {
	entry := scopeEntry{
		name:    name,
		symbols: make(map[string]SymbolID),
		parent:  parent,
		live:    true,
	}
	var slot int
	if n := len(s.free); n > 0 {
		slot = s.free[n-1]
		s.free = s.free[:n-1]
		entry.gen = s.entries[slot].gen + 1
		s.entries[slot] = entry
	} else {
		slot = len(s.entries)
		s.entries = append(s.entries, entry)
	}
	s.stack = append(s.stack, slot)
	return ScopeHandle{slot: slot, gen: entry.gen}
}

// collapse pops released scopes off the top of the stack. The root is
// never released.
func (s *Scopes) collapse() {
	for len(s.stack) > 1 {
		top := s.stack[len(s.stack)-1]
		if !s.entries[top].released {
			return
		}
		s.entries[top].live = false
		s.entries[top].symbols = nil
		s.free = append(s.free, top)
		s.stack = s.stack[:len(s.stack)-1]
	}
}

// entry resolves h, panicking if it refers to a scope that no longer exists
func (s *Scopes) entry(h ScopeHandle) *scopeEntry {
	if h.slot < 0 || h.slot >= len(s.entries) {
		panic("verify: invalid scope handle")
	}
	e := &s.entries[h.slot]
	if !e.live || e.gen != h.gen {
		panic("verify: use of a closed scope")
	}
	return e
}

// Root returns the handle of the root scope
func (s *Scopes) Root() ScopeHandle {
	if !s.HasRoot() {
		panic("verify: no root scope open")
	}
	slot := s.stack[0]
	return ScopeHandle{slot: slot, gen: s.entries[slot].gen}
}

// Current returns the deepest scope that has not been released
func (s *Scopes) Current() ScopeHandle {
	for i := len(s.stack) - 1; i >= 0; i-- {
		slot := s.stack[i]
		if !s.entries[slot].released {
			return ScopeHandle{slot: slot, gen: s.entries[slot].gen}
		}
	}
	panic("verify: no root scope open")
}

// Define binds name in scope h. Redefinition in a nested scope shadows the
// earlier binding. Redefinition in the root scope also replaces the earlier
// binding but returns a *DuplicateError.
func (s *Scopes) Define(h ScopeHandle, name string, v Value, r source.Range) error {
	e := s.entry(h)
	prev, exists := e.symbols[name]

	id := SymbolID(len(s.symbols))
	s.symbols = append(s.symbols, Symbol{Name: name, Value: v, Range: r})
	e.symbols[name] = id

	if exists && e.parent < 0 {
		return &DuplicateError{Name: name, Previous: s.symbols[prev].Range, Current: r}
	}
	return nil
}

// Lookup finds name in the innermost live scope that binds it. Released
// scopes are skipped even while their removal is deferred.
func (s *Scopes) Lookup(name string) (Symbol, bool) {
	for i := len(s.stack) - 1; i >= 0; i-- {
		e := &s.entries[s.stack[i]]
		if e.released {
			continue
		}
		if id, ok := e.symbols[name]; ok {
			return s.symbols[id], true
		}
	}
	return Symbol{}, false
}

// LookupIn finds name in scope h only
func (s *Scopes) LookupIn(h ScopeHandle, name string) (Symbol, bool) {
	e := s.entry(h)
	if id, ok := e.symbols[name]; ok {
		return s.symbols[id], true
	}
	return Symbol{}, false
}

// QualifiedPath joins the names of h and its named ancestors with "::"
func (s *Scopes) QualifiedPath(h ScopeHandle) string {
	s.entry(h)
	var parts []string
	for slot := h.slot; slot >= 0; slot = s.entries[slot].parent {
		if name := s.entries[slot].name; name != "" {
			parts = append(parts, name)
		}
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "::")
}

// Depth returns the number of scopes on the stack, including released
// scopes whose removal is deferred
func (s *Scopes) Depth() int {
	return len(s.stack)
}

// OpenGuards returns the number of guards not yet closed
func (s *Scopes) OpenGuards() int {
	return s.guards
}
