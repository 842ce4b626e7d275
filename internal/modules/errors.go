package modules

import (
	"fmt"
	"strings"

	"github.com/funvibe/rootscope/internal/symbols"
)

// DuplicatePublicError reports an import that would bring in a public name
// the importing module already sees as public.
type DuplicatePublicError struct {
	Module string // Module being imported
	Into   string // Importing module
	Name   string
	Err    *symbols.ConflictError
}

func (e *DuplicatePublicError) Error() string {
	return fmt.Sprintf("duplicate public name %q: importing module %s into %s", e.Name, e.Module, e.Into)
}

func (e *DuplicatePublicError) Unwrap() error {
	return e.Err
}

// ModuleNotFoundError reports an import of a module nobody registered.
type ModuleNotFoundError struct {
	Name string
}

func (e *ModuleNotFoundError) Error() string {
	return fmt.Sprintf("module not found: %s", e.Name)
}

// CircularImportError reports a module that imports itself, directly or
// through others.
type CircularImportError struct {
	Chain []string
}

func (e *CircularImportError) Error() string {
	return fmt.Sprintf("circular dependency detected loading module: %s", strings.Join(e.Chain, " -> "))
}

// UnknownExportError reports a re-export of a name the module cannot see.
type UnknownExportError struct {
	Module string
	Name   string
}

func (e *UnknownExportError) Error() string {
	return fmt.Sprintf("module %s cannot re-export %q: not declared or imported", e.Module, e.Name)
}
