package symbols

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/tliron/commonlog"

	"github.com/funvibe/rootscope/internal/config"
	"github.com/funvibe/rootscope/internal/logging"
)

// Unit is a compilation unit: it owns every scope and symbol created while
// resolving one program and carries the symbol and global counters, so
// independent compilations never interleave their numbering.
type Unit struct {
	ID uuid.UUID

	symbols int      // next symbol id
	globals int      // next global slot
	names   []string // symbol id -> name

	scopes []*Scope
	log    commonlog.Logger
}

// Counters is a serializable snapshot of a unit's numbering state, used to
// resume numbering in incremental (REPL) compilation.
type Counters struct {
	UnitID  uuid.UUID
	Symbols int
	Globals int
	Names   []string
}

// NewUnit creates an empty compilation unit with a fresh id.
func NewUnit() *Unit {
	return &Unit{
		ID:  uuid.New(),
		log: logging.Get(config.LogSymbols),
	}
}

// NewScope creates a scope in this unit. Without a parent the scope is the
// outermost scope and its own function boundary; otherwise it is its own
// function boundary only when isFunction is set.
func (u *Unit) NewScope(parent *Scope, isFunction bool) *Scope {
	s := &Scope{
		Parent:     parent,
		IsFunction: isFunction,
		unit:       u,
	}
	if isFunction || parent == nil {
		s.Function = s
	} else {
		s.Function = parent.Function
	}
	u.scopes = append(u.scopes, s)
	return s
}

// NewFunction creates a named function-boundary scope.
func (u *Unit) NewFunction(parent *Scope, name string) *Scope {
	s := u.NewScope(parent, true)
	s.Name = name
	return s
}

// Scopes returns every scope created in the unit, in creation order.
func (u *Unit) Scopes() []*Scope {
	return u.scopes
}

func (u *Unit) nextSymbol(name string) int {
	id := u.symbols
	u.symbols++
	for len(u.names) < id {
		u.names = append(u.names, "")
	}
	if id < len(u.names) {
		u.names[id] = name
	} else {
		u.names = append(u.names, name)
	}
	return id
}

func (u *Unit) nextGlobal() int {
	g := u.globals
	u.globals++
	return g
}

// Counter returns the next symbol id to be assigned.
func (u *Unit) Counter() int {
	return u.symbols
}

// SetCounter resumes symbol numbering at n.
func (u *Unit) SetCounter(n int) {
	u.symbols = n
}

// GlobalCount returns the number of global slots assigned so far.
func (u *Unit) GlobalCount() int {
	return u.globals
}

// SetGlobalCount resumes global slot numbering at n.
func (u *Unit) SetGlobalCount(n int) {
	u.globals = n
}

// SymbolName returns the name of the symbol with the given id.
func (u *Unit) SymbolName(id int) (string, bool) {
	if id < 0 || id >= len(u.names) {
		return "", false
	}
	return u.names[id], true
}

// Snapshot captures the unit's counters and names.
func (u *Unit) Snapshot() Counters {
	names := make([]string, len(u.names))
	copy(names, u.names)
	return Counters{
		UnitID:  u.ID,
		Symbols: u.symbols,
		Globals: u.globals,
		Names:   names,
	}
}

// Restore resumes numbering from a snapshot taken from an earlier unit.
func (u *Unit) Restore(c Counters) error {
	if c.Symbols < 0 || c.Globals < 0 {
		return fmt.Errorf("restoring unit %s: negative counters (%d, %d)", c.UnitID, c.Symbols, c.Globals)
	}
	if len(c.Names) > c.Symbols {
		return fmt.Errorf("restoring unit %s: %d names for %d symbols", c.UnitID, len(c.Names), c.Symbols)
	}
	u.ID = c.UnitID
	u.symbols = c.Symbols
	u.globals = c.Globals
	u.names = make([]string, len(c.Names))
	copy(u.names, c.Names)
	return nil
}
