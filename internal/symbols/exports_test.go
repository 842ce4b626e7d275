package symbols

import (
	"errors"
	"testing"
)

func names(syms []*Symbol) []string {
	out := make([]string, len(syms))
	for i, s := range syms {
		out[i] = s.Name
	}
	return out
}

func TestCopyPublicInto_Conflict(t *testing.T) {
	u, _, dst := newProgram()
	dst.DeclarePublic("helper")
	dst.Declare("local")

	src := u.NewScope(nil, false)
	src.DeclarePublic("other")
	src.DeclarePublic("helper")

	before := dst.Symbols()
	err := CopyPublicInto(dst, src)

	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected *ConflictError, got %T (%v)", err, err)
	}
	if conflict.Name != "helper" {
		t.Errorf("conflict names %q, want helper", conflict.Name)
	}

	after := dst.Symbols()
	if len(after) != len(before) {
		t.Fatalf("failed merge changed dst: %v -> %v", names(before), names(after))
	}
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("dst symbol %d changed: %v -> %v", i, before[i], after[i])
		}
	}
	if dst.LocallyDeclared("other") {
		t.Error("non-conflicting name was inserted before the conflict was detected")
	}
}

func TestCopyPublicInto_PrivateSourceNeverConflicts(t *testing.T) {
	u, _, dst := newProgram()
	dst.DeclarePublic("helper")

	src := u.NewScope(nil, false)
	src.Declare("helper")
	pub := src.DeclarePublic("api")

	if err := CopyPublicInto(dst, src); err != nil {
		t.Fatalf("merge failed: %v", err)
	}

	got, ok := dst.Local("helper")
	if !ok || !got.Public || got.Scope != dst {
		t.Errorf("dst helper must stay its own public symbol, got %v", got)
	}

	cp, ok := dst.Local("api")
	if !ok {
		t.Fatal("api was not copied into dst")
	}
	if cp == pub {
		t.Error("copy must be an independent record")
	}
	if cp.Public {
		t.Error("copy must not be re-exported")
	}
	if cp.Scope != dst {
		t.Error("copy must be re-pointed at dst")
	}
	if cp.ID != pub.ID || cp.Slot != pub.Slot || cp.Global != pub.Global {
		t.Errorf("copy storage %v differs from source %v", cp, pub)
	}
	if !pub.Public || pub.Scope != src {
		t.Error("source symbol was modified")
	}
}

func TestCopyPublicInto_DstPrivateIsShadowed(t *testing.T) {
	u, _, dst := newProgram()
	old := dst.Declare("helper")

	src := u.NewScope(nil, false)
	pub := src.DeclarePublic("helper")

	if err := CopyPublicInto(dst, src); err != nil {
		t.Fatalf("private dst name must not conflict: %v", err)
	}
	got, _ := dst.Lookup("helper")
	if got == old || got.ID != pub.ID {
		t.Errorf("imported helper must shadow the private one, got %v", got)
	}
}

func TestCopyPublicInto_ConflictThroughParent(t *testing.T) {
	u, root, dst := newProgram()
	root.DeclarePublic("print")

	src := u.NewScope(nil, false)
	src.DeclarePublic("print")

	var conflict *ConflictError
	if err := CopyPublicInto(dst, src); !errors.As(err, &conflict) {
		t.Fatalf("name visible from dst's parent must conflict, got %v", err)
	}
}

func TestCopyPublicInto_NoCapturesRegistered(t *testing.T) {
	u, _, top := newProgram()
	f := u.NewFunction(top, "f")
	x := f.Declare("x")
	g := u.NewFunction(f, "g")

	src := u.NewScope(nil, false)
	src.DeclarePublic("x")

	if err := CopyPublicInto(g, src); err != nil {
		t.Fatalf("merge failed: %v", err)
	}
	if x.Captured || len(g.Captured) != 0 {
		t.Error("conflict check must not register captures")
	}
}

func TestCopyPublicInto_PreservesBucketOrder(t *testing.T) {
	u, _, dst := newProgram()
	src := u.NewScope(nil, false)
	for _, n := range []string{"a", "b", "c", "d", "e", "f"} {
		src.DeclarePublic(n)
	}
	if err := CopyPublicInto(dst, src); err != nil {
		t.Fatal(err)
	}
	want := names(src.Symbols())
	got := names(dst.Symbols())
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
