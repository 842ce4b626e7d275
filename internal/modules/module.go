package modules

import (
	"sort"

	"github.com/google/uuid"

	"github.com/funvibe/rootscope/internal/symbols"
)

// Module is a compiled module: its top-level scope and the names it exports.
type Module struct {
	Name    string
	ID      uuid.UUID
	Scope   *symbols.Scope
	Exports map[string]bool    // Names declared or re-exported as public
	Imports map[string]*Module // Modules merged into this one, by name
}

// NewModule creates a module whose top-level scope sits directly under root,
// the outermost (builtins) scope of the compilation unit.
func NewModule(root *symbols.Scope, name string) *Module {
	return &Module{
		Name:    name,
		ID:      uuid.New(),
		Scope:   root.Unit().NewScope(root, false),
		Exports: make(map[string]bool),
		Imports: make(map[string]*Module),
	}
}

func (m *Module) GetName() string {
	return m.Name
}

// DeclarePublic declares an exported name in the module's top-level scope.
func (m *Module) DeclarePublic(name string) *symbols.Symbol {
	m.Exports[name] = true
	return m.Scope.DeclarePublic(name)
}

// AddExport records name as exported. Public declarations made directly on
// the scope (e.g. by a Resolver) are picked up this way.
func (m *Module) AddExport(name string) {
	m.Exports[name] = true
}

// Reexport makes a name the module can see locally, typically one merged in
// from an import, public again so that importers of m receive it.
func (m *Module) Reexport(name string) (*symbols.Symbol, error) {
	sym, ok := m.Scope.Local(name)
	if !ok {
		return nil, &UnknownExportError{Module: m.Name, Name: name}
	}
	if sym.Public {
		return sym, nil
	}
	cp := m.Scope.Insert(sym)
	cp.Public = true
	m.Exports[name] = true
	return cp, nil
}

// ExportedNames returns the module's exported names, sorted.
func (m *Module) ExportedNames() []string {
	names := make([]string, 0, len(m.Exports))
	for name := range m.Exports {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetExports returns the exported symbols by name.
func (m *Module) GetExports() map[string]*symbols.Symbol {
	exported := make(map[string]*symbols.Symbol)
	for _, sym := range m.Scope.PublicSymbols() {
		if _, seen := exported[sym.Name]; !seen {
			exported[sym.Name] = sym
		}
	}
	return exported
}
