// symbols/symbol.go - Symbol records
//
// The package is split into focused files:
// - symbol.go: Symbol struct
// - scope.go: Scope tree nodes, declaration, local tables, capture tables
// - unit.go: compilation unit arena and per-unit counters
// - resolution.go: outward lookup and capture-chain computation
// - resolver.go: front-end driver (enter/exit/declare/lookup stream)
// - exports.go: cross-module public merge
// - completions.go: prefix completion cursor for tooling
// - layout.go: per-function layouts consumed by the emitter

package symbols

import (
	"fmt"

	"github.com/funvibe/rootscope/internal/config"
)

// Symbol describes one declared name.
type Symbol struct {
	ID   int    // Unique per compilation unit, assigned at declaration
	Name string // Identifier text

	Global bool // Storage class: global slot vs function-local slot
	Slot   int  // Dense index within the storage class

	Public   bool // Exported from its defining module
	Constant bool // Declared immutable
	Captured bool // Set once any nested function captures it

	// CaptureIndex is the index into the referencing function's capture table
	// when this record is a captured view of an outer symbol (see
	// Resolution.Local); config.NoCaptureIndex otherwise.
	CaptureIndex int

	Scope *Scope // Defining scope (re-pointed for public shadow copies)

	hash uint64
	next *Symbol // Bucket chain, newest first
}

// Storage returns "global" or "local".
func (s *Symbol) Storage() string {
	if s.Global {
		return "global"
	}
	return "local"
}

func (s *Symbol) String() string {
	return fmt.Sprintf("%s#%d(%s %d)", s.Name, s.ID, s.Storage(), s.Slot)
}

// capturedView returns a copy of s as seen from a function that closes over
// it through capture table entry index.
func (s *Symbol) capturedView(index int) *Symbol {
	view := *s
	view.next = nil
	view.CaptureIndex = index
	return &view
}

// IsCapturedView reports whether s is a captured view rather than the
// declaring record.
func (s *Symbol) IsCapturedView() bool {
	return s.CaptureIndex != config.NoCaptureIndex
}
