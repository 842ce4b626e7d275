package symbols

import (
	"fmt"
	"hash/fnv"

	"github.com/funvibe/rootscope/internal/config"
)

// Scope is a node in the lexical scope tree.
type Scope struct {
	Parent     *Scope
	Function   *Scope // Nearest enclosing function boundary (self for functions and the root)
	IsFunction bool
	Name       string // Function name, for layouts and diagnostics

	// Owned lists the symbols whose storage lives in this function, in
	// declaration order. Only meaningful on function-boundary scopes and the root.
	Owned []*Symbol

	// Captured and CapIndices are the parallel capture table of a function scope.
	// CapIndices[i] is config.NoParentIndex when Captured[i] is read from the
	// enclosing function's own slot, else an index into the enclosing
	// function's capture table.
	Captured   []*Symbol
	CapIndices []int

	unit   *Unit
	table  [config.SymbolTableSize]*Symbol
	sealed bool
}

// SealedScopeError is raised (via panic) when the front end declares into a
// function whose layout has already been handed to the emitter.
type SealedScopeError struct {
	Function string
	Name     string
}

func (e *SealedScopeError) Error() string {
	return fmt.Sprintf("declaration of %q in sealed function %q", e.Name, e.Function)
}

func strhash(name string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(name))
	return h.Sum64()
}

func bucket(h uint64) int {
	return int(h % config.SymbolTableSize)
}

// Unit returns the compilation unit owning this scope.
func (s *Scope) Unit() *Unit {
	return s.unit
}

// IsRoot reports whether s is the outermost scope.
func (s *Scope) IsRoot() bool {
	return s.Parent == nil
}

// Sealed reports whether the scope's function layout is final.
func (s *Scope) Sealed() bool {
	return s.Function.sealed
}

// Seal fixes the layout of a function scope. Later declarations panic.
func (s *Scope) Seal() {
	s.Function.sealed = true
}

func (s *Scope) localLookup(name string) *Symbol {
	h := strhash(name)
	for sym := s.table[bucket(h)]; sym != nil; sym = sym.next {
		if sym.hash == h && sym.Name == name {
			return sym
		}
	}
	return nil
}

// LocallyDeclared checks the scope's own table only, without walking the chain.
func (s *Scope) LocallyDeclared(name string) bool {
	return s.localLookup(name) != nil
}

// Local returns the most recent local declaration of name, if any.
func (s *Scope) Local(name string) (*Symbol, bool) {
	sym := s.localLookup(name)
	return sym, sym != nil
}

// isGlobalStorage applies the global rule: a symbol is global if its scope's
// function is the outermost scope or sits directly inside it.
func (s *Scope) isGlobalStorage() bool {
	fn := s.Function
	return fn.Parent == nil || fn.Parent.Parent == nil
}

// Declare adds name to the scope. It always succeeds: a second declaration of
// the same name in the same scope shadows the first.
func (s *Scope) Declare(name string) *Symbol {
	if s.Function.sealed {
		panic(&SealedScopeError{Function: s.Function.Name, Name: name})
	}

	h := strhash(name)
	u := s.unit

	sym := &Symbol{
		ID:           u.nextSymbol(name),
		Name:         name,
		CaptureIndex: config.NoCaptureIndex,
		Scope:        s,
		Global:       s.isGlobalStorage(),
		hash:         h,
	}

	owner := s.Function
	if sym.Global {
		sym.Slot = u.nextGlobal()
	} else {
		sym.Slot = len(owner.Owned)
	}
	owner.Owned = append(owner.Owned, sym)

	i := bucket(h)
	sym.next = s.table[i]
	s.table[i] = sym

	u.log.Debugf("symbol %d (%s) is getting %s slot %d", sym.ID, name, sym.Storage(), sym.Slot)
	return sym
}

// DeclarePublic declares an exported name.
func (s *Scope) DeclarePublic(name string) *Symbol {
	sym := s.Declare(name)
	sym.Public = true
	return sym
}

// DeclareConstant declares an immutable name.
func (s *Scope) DeclareConstant(name string) *Symbol {
	sym := s.Declare(name)
	sym.Constant = true
	return sym
}

// Insert adds an independent, non-public shadow copy of sym to the scope.
// The copy keeps sym's storage (id, class, slot) and is re-pointed to s.
func (s *Scope) Insert(sym *Symbol) *Symbol {
	cp := *sym
	cp.Scope = s
	cp.Public = false

	i := bucket(sym.hash)
	cp.next = s.table[i]
	s.table[i] = &cp
	return &cp
}

// Capture registers sym in this function's capture table with the given
// parent index and returns its position. Registering a symbol the function
// already captures returns the existing position.
func (s *Scope) Capture(sym *Symbol, parentIndex int) int {
	if i, ok := s.CaptureIndexOf(sym); ok {
		return i
	}

	sym.Captured = true

	s.Captured = append(s.Captured, sym)
	s.CapIndices = append(s.CapIndices, parentIndex)

	s.unit.log.Debugf("function %q captures %s at %d (parent index %d)", s.Name, sym.Name, len(s.Captured)-1, parentIndex)
	return len(s.Captured) - 1
}

// CaptureIndexOf returns sym's position in this function's capture table.
func (s *Scope) CaptureIndexOf(sym *Symbol) (int, bool) {
	for i, c := range s.Captured {
		if c == sym {
			return i, true
		}
	}
	return -1, false
}

// IsSubscope reports whether scope is a strict ancestor of s.
func (s *Scope) IsSubscope(scope *Scope) bool {
	for sub := s; sub != nil; sub = sub.Parent {
		if sub.Parent == scope {
			return true
		}
	}
	return false
}

// Symbols returns the scope's local symbols in bucket order, newest first
// within a bucket. Shadowed declarations are included.
func (s *Scope) Symbols() []*Symbol {
	var out []*Symbol
	for i := range s.table {
		for sym := s.table[i]; sym != nil; sym = sym.next {
			out = append(out, sym)
		}
	}
	return out
}
