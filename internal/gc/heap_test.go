package gc

import (
	"errors"
	"testing"

	"github.com/funvibe/rootscope/internal/config"
)

func expectViolation(t *testing.T, fn func()) *ProtocolViolation {
	t.Helper()
	var got *ProtocolViolation
	func() {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			v, ok := r.(*ProtocolViolation)
			if !ok {
				panic(r)
			}
			got = v
		}()
		fn()
	}()
	if got == nil {
		t.Fatal("expected a protocol violation, got none")
	}
	return got
}

func TestCollect_UnrootedIsReclaimed(t *testing.T) {
	h := NewStressHeap()
	v := h.NewString("lost")
	h.NewString("trigger")
	if !v.Obj.Freed() {
		t.Fatal("unrooted string survived a collection")
	}
	expectViolation(t, func() { _ = v.Str() })
}

func TestCollect_RootedSurvives(t *testing.T) {
	h := NewStressHeap()
	v := h.NewString("kept")
	g := h.Guard("test", &v)
	defer g.Release()

	for i := 0; i < 10; i++ {
		h.NewString("garbage")
	}
	if v.Str() != "kept" {
		t.Errorf("rooted string was reclaimed")
	}
}

func TestCollect_RootSlotIsReadAtCollection(t *testing.T) {
	h := NewStressHeap()
	var slot Value
	g := h.Guard("test", &slot)
	defer g.Release()

	slot = h.NewString("late")
	h.NewString("trigger")
	if slot.Str() != "late" {
		t.Error("value written to a rooted slot after pushing must be kept")
	}
}

func TestCollect_TracesChildren(t *testing.T) {
	h := NewStressHeap()
	arr := h.NewArray(0).Value()
	g := h.Guard("test", &arr)
	defer g.Release()

	for i := 0; i < 3; i++ {
		s := h.NewString("item")
		arr.Array().Push(s)
	}
	d := h.NewDict().Value()
	arr.Array().Push(d)
	d.Dict().Put(h.NewString("k"), Int(1))
	h.Collect()

	for _, item := range arr.Array().Items {
		if item.Obj.Freed() {
			t.Fatalf("child %v of a rooted array was reclaimed", item.Kind)
		}
	}
	if _, ok := d.Dict().Get(h.NewString("k")); !ok {
		t.Error("dict key lost")
	}
}

func TestExempt_KeepsAggregateUnderConstruction(t *testing.T) {
	h := NewStressHeap()
	arr := h.NewArray(0)
	err := h.Build(arr, func() error {
		for i := 0; i < 5; i++ {
			arr.Push(h.NewString("x"))
		}
		if !arr.Exempted() {
			t.Error("array must be exempt inside Build")
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if arr.Freed() || arr.Len() != 5 {
		t.Fatal("exempted array or its elements were reclaimed")
	}
	if arr.Exempted() || h.Exempted() != 0 {
		t.Error("Build must lift the exemption")
	}
}

func TestExempt_LiftedOnError(t *testing.T) {
	h := NewStressHeap()
	arr := h.NewArray(0)
	boom := errors.New("boom")
	if err := h.Build(arr, func() error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("got %v, want boom", err)
	}
	if h.Exempted() != 0 {
		t.Error("exemption leaked on the error path")
	}
}

func TestExempt_Nested(t *testing.T) {
	h := NewStressHeap()
	arr := h.NewArray(0)
	h.Exempt(arr)
	h.Exempt(arr)
	h.Unexempt(arr)
	if !arr.Exempted() {
		t.Error("one level of exemption must remain")
	}
	h.Unexempt(arr)
	if arr.Exempted() {
		t.Error("exemption must be fully lifted")
	}
}

func TestViolations(t *testing.T) {
	h := NewStressHeap()

	v := expectViolation(t, func() { h.PopRoot() })
	if v.Op != "PopRoot" {
		t.Errorf("op %q, want PopRoot", v.Op)
	}

	v = expectViolation(t, func() { h.PushRoot(nil) })
	if v.Op != "PushRoot" {
		t.Errorf("op %q, want PushRoot", v.Op)
	}
	if d := h.RootDepth(); d != 0 {
		t.Errorf("rejected slot left depth %d", d)
	}
	h.Collect()

	arr := h.NewArray(0)
	expectViolation(t, func() { h.Unexempt(arr) })

	var a, b Value
	g := h.Guard("double", &a)
	g.Release()
	expectViolation(t, func() { g.Release() })

	outer := h.Guard("outer", &a)
	h.PushRoot(&b)
	v = expectViolation(t, func() { outer.Release() })
	if v.Op != "outer" {
		t.Errorf("op %q, want outer", v.Op)
	}
	h.PopRoot()
	outer.Release()

	if h.RootDepth() != 0 {
		t.Errorf("root depth %d, want 0", h.RootDepth())
	}
}

func TestBoundary(t *testing.T) {
	h := NewStressHeap()
	check := h.Boundary("leaky")
	var v Value
	h.PushRoot(&v)
	expectViolation(t, check)
	h.PopRoot()
	check()

	arr := h.NewArray(0)
	check = h.Boundary("exempt")
	h.Exempt(arr)
	expectViolation(t, check)
	h.Unexempt(arr)
	check()
}

func TestNonStrictSkipsChecks(t *testing.T) {
	strict := false
	h := NewHeap(config.GCConfig{CollectEvery: 1, Strict: &strict})
	if h.Strict() {
		t.Fatal("heap must not be strict")
	}
	v := h.NewString("lost")
	h.NewString("trigger")
	if v.Obj.Freed() {
		t.Error("non-strict heap must not poison reclaimed objects")
	}
	check := h.Boundary("op")
	var slot Value
	h.PushRoot(&slot)
	check()
	h.PopRoot()

	// Double release is always a violation.
	g := h.Guard("op", &slot)
	g.Release()
	expectViolation(t, func() { g.Release() })
}

func TestGuardAdd(t *testing.T) {
	h := NewStressHeap()
	var a, b Value
	g := h.Guard("add", &a)
	g.Add(&b)
	if g.Len() != 2 || h.RootDepth() != 2 {
		t.Fatalf("guard holds %d roots at depth %d", g.Len(), h.RootDepth())
	}
	b = h.NewString("b")
	h.NewString("trigger")
	if b.Str() != "b" {
		t.Error("slot added to a guard must be rooted")
	}
	g.Release()
	h.CheckBalanced("add", 0)
}

func TestRootSetAndStats(t *testing.T) {
	h := NewHeap(config.GCConfig{})
	if h.Stats() != nil {
		t.Fatal("no stats before the first collection")
	}
	globals := []Value{h.NewString("g")}
	remove := h.AddRootSet(func(mark func(Value)) {
		for _, v := range globals {
			mark(v)
		}
	})
	h.NewString("garbage")
	h.Collect()

	s := h.Stats()
	if s == nil || s.Swept != 1 || s.Live != 1 || s.Marked != 1 {
		t.Fatalf("stats %+v, want 1 marked, 1 swept, 1 live", s)
	}
	if globals[0].Obj.Freed() {
		t.Error("root set value was reclaimed")
	}

	remove()
	h.Collect()
	if h.Live() != 0 || h.Collections() != 2 {
		t.Errorf("live %d after removing the root set, collections %d", h.Live(), h.Collections())
	}
}

func TestDictKeys(t *testing.T) {
	h := NewHeap(config.GCConfig{})
	d := h.NewDict()
	d.Put(Int(1), h.NewString("one"))
	d.Put(Float(1), h.NewString("uno"))
	d.Put(h.NewString("a"), Bool(true))
	if !d.PutIfAbsent(Bool(false), Nil) || d.PutIfAbsent(h.NewString("a"), Nil) {
		t.Error("PutIfAbsent must only store new keys")
	}
	if d.Len() != 3 {
		t.Fatalf("dict has %d entries, want 3", d.Len())
	}
	v, ok := d.Get(Int(1))
	if !ok || v.Str() != "uno" {
		t.Errorf("1 and 1.0 must be the same key, got %v", v.Str())
	}
	if e := d.Entries(); e[0].Key.Kind != KindInt || e[1].Key.Kind != KindString {
		t.Error("entries must keep insertion order")
	}
}

func TestNewHeap_FollowsConfig(t *testing.T) {
	cfg := config.Default().GC
	h := NewHeap(cfg)
	if !h.Strict() {
		t.Error("default config is strict")
	}
	for i := 1; i < cfg.CollectEvery; i++ {
		h.NewString("x")
	}
	if n := h.Collections(); n != 0 {
		t.Fatalf("collected %d time(s) before collect_every allocations", n)
	}
	h.NewString("x")
	if n := h.Collections(); n != 1 {
		t.Errorf("collections = %d after collect_every allocations, want 1", n)
	}
}
