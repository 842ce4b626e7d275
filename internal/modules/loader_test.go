package modules

import (
	"errors"
	"slices"
	"testing"

	"github.com/funvibe/rootscope/internal/symbols"
)

func newLoader() *Loader {
	u := symbols.NewUnit()
	root := u.NewScope(nil, false)
	root.DeclarePublic("print")
	return NewLoader(root)
}

func TestImport_DuplicatePublicName(t *testing.T) {
	l := newLoader()
	a := l.NewModule("a")
	a.DeclarePublic("helper")
	a.DeclarePublic("extra")
	b := l.NewModule("b")
	b.DeclarePublic("helper")
	b.Scope.Declare("local")

	before := b.Scope.Symbols()

	_, err := l.Import(b, "a")
	var dup *DuplicatePublicError
	if !errors.As(err, &dup) {
		t.Fatalf("expected *DuplicatePublicError, got %T (%v)", err, err)
	}
	if dup.Name != "helper" || dup.Module != "a" || dup.Into != "b" {
		t.Errorf("got %+v", dup)
	}
	var conflict *symbols.ConflictError
	if !errors.As(err, &conflict) {
		t.Error("duplicate error must unwrap to the scope conflict")
	}
	after := b.Scope.Symbols()
	if len(after) != len(before) {
		t.Fatalf("failed import changed b: %d symbols, want %d", len(after), len(before))
	}
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("symbol %d changed", i)
		}
	}
	if b.Scope.LocallyDeclared("extra") {
		t.Error("failed import must not merge any name")
	}
	if _, ok := b.Imports["a"]; ok {
		t.Error("failed import must not be recorded")
	}

	// The other direction fails the same way.
	if _, err := l.Import(a, "b"); !errors.As(err, &dup) || dup.Name != "helper" {
		t.Errorf("merging b into a: got %v", err)
	}
}

func TestImport_ImportedCopiesAreNotPublic(t *testing.T) {
	l := newLoader()
	a := l.NewModule("a")
	a.DeclarePublic("helper")
	b := l.NewModule("b")
	fromB := b.DeclarePublic("helper")
	main := l.NewModule("main")

	if _, err := l.Import(main, "a"); err != nil {
		t.Fatal(err)
	}
	// main's copy of a.helper is private, so b.helper does not collide.
	if _, err := l.Import(main, "b"); err != nil {
		t.Fatalf("importing b: %v", err)
	}
	if got, _ := main.Scope.Lookup("helper"); got.ID != fromB.ID {
		t.Error("the latest import shadows earlier ones")
	}

	main.DeclarePublic("api")
	c := l.NewModule("c")
	c.DeclarePublic("api")
	var dup *DuplicatePublicError
	if _, err := l.Import(main, "c"); !errors.As(err, &dup) || dup.Name != "api" {
		t.Fatalf("importer's own public name must conflict, got %v", err)
	}
}

func TestImport_PrivateNamesDoNotConflict(t *testing.T) {
	l := newLoader()
	a := l.NewModule("a")
	a.DeclarePublic("helper")
	b := l.NewModule("b")
	b.Scope.Declare("helper")
	api := b.DeclarePublic("api")
	main := l.NewModule("main")

	if _, err := l.Import(main, "a"); err != nil {
		t.Fatal(err)
	}
	if _, err := l.Import(main, "b"); err != nil {
		t.Fatalf("private helper in b must not conflict: %v", err)
	}

	got, ok := main.Scope.Lookup("api")
	if !ok || got.ID != api.ID || got.Public {
		t.Errorf("api must be merged as a non-public copy, got %v", got)
	}
	if main.Imports["a"] != a || main.Imports["b"] != b {
		t.Error("imports must be recorded")
	}
	if len(main.Exports) != 0 {
		t.Errorf("imports must not be re-exported, got %v", main.ExportedNames())
	}
}

func TestImport_NotFound(t *testing.T) {
	l := newLoader()
	main := l.NewModule("main")
	var nf *ModuleNotFoundError
	if _, err := l.Import(main, "missing"); !errors.As(err, &nf) || nf.Name != "missing" {
		t.Fatalf("expected *ModuleNotFoundError, got %v", err)
	}
}

func TestGet_SourceAndCycles(t *testing.T) {
	l := newLoader()
	calls := 0
	l.Source = func(l *Loader, name string) (*Module, error) {
		calls++
		switch name {
		case "lib":
			mod := NewModule(l.Root, name)
			mod.DeclarePublic("f")
			return mod, nil
		case "loop":
			mod := NewModule(l.Root, name)
			if _, err := l.Import(mod, "loop"); err != nil {
				return nil, err
			}
			return mod, nil
		}
		return nil, &ModuleNotFoundError{Name: name}
	}

	main := l.NewModule("main")
	if _, err := l.Import(main, "lib"); err != nil {
		t.Fatal(err)
	}
	if _, err := l.Get("lib"); err != nil || calls != 1 {
		t.Errorf("loaded module must be cached (calls=%d, err=%v)", calls, err)
	}

	var cycle *CircularImportError
	if _, err := l.Get("loop"); !errors.As(err, &cycle) {
		t.Fatalf("expected *CircularImportError, got %v", err)
	}
	if !slices.Equal(cycle.Chain, []string{"loop", "loop"}) {
		t.Errorf("chain %v", cycle.Chain)
	}
	if len(l.Processing) != 0 {
		t.Error("processing set must be cleared")
	}
}

func TestReexport(t *testing.T) {
	l := newLoader()
	base := l.NewModule("base")
	orig := base.DeclarePublic("util")
	mid := l.NewModule("mid")
	if _, err := l.Import(mid, "base"); err != nil {
		t.Fatal(err)
	}

	sym, err := mid.Reexport("util")
	if err != nil {
		t.Fatal(err)
	}
	if !sym.Public || sym.ID != orig.ID {
		t.Errorf("re-export %v", sym)
	}
	var unknown *UnknownExportError
	if _, err := mid.Reexport("nope"); !errors.As(err, &unknown) {
		t.Errorf("expected *UnknownExportError, got %v", err)
	}

	top := l.NewModule("top")
	if _, err := l.Import(top, "mid"); err != nil {
		t.Fatal(err)
	}
	if got, ok := top.Scope.Lookup("util"); !ok || got.ID != orig.ID {
		t.Error("re-exported name must reach importers of mid")
	}
}

func TestExportedNames(t *testing.T) {
	l := newLoader()
	m := l.NewModule("m")
	m.DeclarePublic("zeta")
	m.DeclarePublic("alpha")
	m.Scope.DeclarePublic("mid")
	m.AddExport("mid")
	m.Scope.Declare("hidden")

	if got := m.ExportedNames(); !slices.Equal(got, []string{"alpha", "mid", "zeta"}) {
		t.Errorf("got %v", got)
	}
	if got := m.GetExports(); len(got) != 3 || got["hidden"] != nil {
		t.Errorf("got %v", got)
	}
	if m.GetName() != "m" {
		t.Error("name")
	}
}
