package modules

import (
	"errors"

	"github.com/tliron/commonlog"

	"github.com/funvibe/rootscope/internal/config"
	"github.com/funvibe/rootscope/internal/logging"
	"github.com/funvibe/rootscope/internal/symbols"
)

// Source produces a module the loader has not seen yet, e.g. by reading and
// resolving a file. It returns a *ModuleNotFoundError when name is unknown.
type Source func(l *Loader, name string) (*Module, error)

// Loader keeps the modules of one compilation unit and merges their public
// names into importers.
type Loader struct {
	Root          *symbols.Scope     // Outermost scope every module hangs off
	ModulesByName map[string]*Module // Loaded modules
	Processing    map[string]bool    // Cycle detection during loading
	Source        Source             // Optional fallback for unknown names

	loading []string
	log     commonlog.Logger
}

// NewLoader creates a loader whose modules live under root.
func NewLoader(root *symbols.Scope) *Loader {
	return &Loader{
		Root:          root,
		ModulesByName: make(map[string]*Module),
		Processing:    make(map[string]bool),
		log:           logging.Get(config.LogModules),
	}
}

// NewModule creates a module under the loader's root and registers it.
func (l *Loader) NewModule(name string) *Module {
	mod := NewModule(l.Root, name)
	l.Register(mod)
	return mod
}

// Register makes mod importable by name. A later registration replaces an
// earlier one.
func (l *Loader) Register(mod *Module) {
	l.ModulesByName[mod.Name] = mod
}

// Get returns a loaded module, asking Source for names not loaded yet.
func (l *Loader) Get(name string) (*Module, error) {
	if mod, ok := l.ModulesByName[name]; ok {
		return mod, nil
	}
	if l.Source == nil {
		return nil, &ModuleNotFoundError{Name: name}
	}

	if l.Processing[name] {
		chain := append(append([]string(nil), l.loading...), name)
		return nil, &CircularImportError{Chain: chain}
	}
	l.Processing[name] = true
	l.loading = append(l.loading, name)
	defer func() {
		delete(l.Processing, name)
		l.loading = l.loading[:len(l.loading)-1]
	}()

	mod, err := l.Source(l, name)
	if err != nil {
		return nil, err
	}
	l.Register(mod)
	return mod, nil
}

// Import merges the public names of the module called name into into. On a
// duplicate public name nothing is merged and a *DuplicatePublicError is
// returned.
func (l *Loader) Import(into *Module, name string) (*Module, error) {
	mod, err := l.Get(name)
	if err != nil {
		return nil, err
	}

	if err := symbols.CopyPublicInto(into.Scope, mod.Scope); err != nil {
		var conflict *symbols.ConflictError
		if errors.As(err, &conflict) {
			return nil, &DuplicatePublicError{Module: mod.Name, Into: into.Name, Name: conflict.Name, Err: conflict}
		}
		return nil, err
	}

	into.Imports[mod.Name] = mod
	l.log.Debugf("imported %d public names from %s into %s", len(mod.Scope.PublicSymbols()), mod.Name, into.Name)
	return mod, nil
}
