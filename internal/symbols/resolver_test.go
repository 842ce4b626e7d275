package symbols

import "testing"

func TestResolver_EnterExit(t *testing.T) {
	u, _, top := newProgram()
	r := NewResolver(top)
	if r.Unit() != u {
		t.Fatal("resolver must work on the base scope's unit")
	}

	r.Declare("x")
	f := r.EnterFunction("f")
	r.Declare("a")
	b := r.EnterBlock()
	if b.Function != f {
		t.Error("block must belong to the enclosing function")
	}
	r.Declare("b")
	if r.Depth() != 2 {
		t.Errorf("depth %d, want 2", r.Depth())
	}
	if got := r.Exit(); got != b {
		t.Error("Exit must return the closed block")
	}
	if got := r.Exit(); got != f {
		t.Error("Exit must return the closed function")
	}
	if r.Current() != top || r.Depth() != 0 {
		t.Error("resolver must be back at the base scope")
	}
	if !f.Sealed() {
		t.Error("leaving a function must seal it")
	}

	layouts := r.Layouts()
	if len(layouts) != 1 || layouts[0].Name != "f" {
		t.Fatalf("layouts %+v, want one for f", layouts)
	}
	if layouts[0].FrameSize != 2 {
		t.Errorf("frame size %d, want 2", layouts[0].FrameSize)
	}
}

func TestResolver_UnbalancedExit(t *testing.T) {
	_, _, top := newProgram()
	r := NewResolver(top)
	expectPanic[*UnbalancedScopeError](t, func() { r.Exit() })
}

func TestResolver_ReferenceView(t *testing.T) {
	_, _, top := newProgram()
	r := NewResolver(top)

	g := r.Declare("g")
	r.EnterFunction("outer")
	y := r.Declare("y")
	r.EnterFunction("inner")

	view, ok := r.Reference("y")
	if !ok {
		t.Fatal("y not found")
	}
	if !view.IsCapturedView() || view.CaptureIndex != 0 {
		t.Errorf("y must be seen through capture 0, got %+v", view)
	}
	if view.ID != y.ID || !y.Captured {
		t.Error("view must describe y and mark it captured")
	}

	gv, _ := r.Reference("g")
	if gv != g || gv.IsCapturedView() {
		t.Error("globals are referenced directly")
	}

	if _, ok := r.Reference("missing"); ok {
		t.Error("missing name must not resolve")
	}

	r.Exit()
	layouts := r.Layouts()
	if len(layouts[0].Captures) != 1 || layouts[0].Captures[0].ParentIndex != -1 {
		t.Errorf("inner captures %+v, want y with parent index -1", layouts[0].Captures)
	}
	r.Exit()
}

func TestResolver_DeclareAfterExitPanics(t *testing.T) {
	_, _, top := newProgram()
	r := NewResolver(top)
	f := r.EnterFunction("f")
	r.Exit()
	expectPanic[*SealedScopeError](t, func() { f.Declare("late") })
}

func TestResolver_PublicAndConstant(t *testing.T) {
	_, _, top := newProgram()
	r := NewResolver(top)
	p := r.DeclarePublic("api")
	c := r.DeclareConstant("limit")
	if !p.Public || p.Constant {
		t.Errorf("api: %+v", p)
	}
	if !c.Constant || c.Public {
		t.Errorf("limit: %+v", c)
	}
	if got := top.Completions("", 10).Collect(); len(got) != 1 || got[0] != "api" {
		t.Errorf("completions %v, want [api]", got)
	}
}
