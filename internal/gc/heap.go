// Package gc implements the collected heap the runtime library allocates
// from, together with the root-stack and exemption protocol that keeps
// intermediate objects alive across operations that may collect.
//
// Any allocation may run a collection. An object is live only if it is
// reachable from the root stack, a registered root set, or an exempted
// object. Strict mode poisons reclaimed objects and checks guard balance so
// protocol mistakes surface as *ProtocolViolation panics instead of silent
// heap corruption.
package gc

import (
	"time"

	"github.com/tliron/commonlog"

	"github.com/funvibe/rootscope/internal/config"
	"github.com/funvibe/rootscope/internal/logging"
)

// RootSet reports additional roots (globals, operand stacks) at collection time.
type RootSet func(mark func(Value))

// Heap is a non-moving mark-sweep heap.
type Heap struct {
	objects  []*Object
	roots    []*Value
	rootSets map[int]RootSet
	nextSet  int
	exempted []*Object

	nextID       uint64
	allocs       int
	collectEvery int
	strict       bool
	collecting   bool

	collections int
	last        CollectStats
	log         commonlog.Logger
}

// NewHeap creates a heap configured by cfg.
func NewHeap(cfg config.GCConfig) *Heap {
	capacity := cfg.RootStackCapacity
	if capacity <= 0 {
		capacity = config.DefaultRootStackCapacity
	}
	return &Heap{
		roots:        make([]*Value, 0, capacity),
		rootSets:     make(map[int]RootSet),
		collectEvery: cfg.CollectEvery,
		strict:       cfg.IsStrict(),
		log:          logging.Get(config.LogGC),
	}
}

// NewStressHeap creates a strict heap that collects on every allocation.
func NewStressHeap() *Heap {
	strict := true
	return NewHeap(config.GCConfig{CollectEvery: config.StressCollectEvery, Strict: &strict})
}

// Strict reports whether protocol checks are enabled.
func (h *Heap) Strict() bool {
	return h.strict
}

// Live returns the number of objects currently allocated.
func (h *Heap) Live() int {
	return len(h.objects)
}

// AddRootSet registers rs and returns a function that unregisters it.
func (h *Heap) AddRootSet(rs RootSet) (remove func()) {
	id := h.nextSet
	h.nextSet++
	h.rootSets[id] = rs
	return func() { delete(h.rootSets, id) }
}

// alloc links a new object into the heap. The collection, if one is due,
// runs before the object is linked, so the new object survives until the
// next allocation even when unrooted.
func (h *Heap) alloc(o *Object) *Object {
	h.allocs++
	if h.collectEvery > 0 && h.allocs%h.collectEvery == 0 {
		h.Collect()
	}
	h.nextID++
	o.ID = h.nextID
	o.heap = h
	h.objects = append(h.objects, o)
	return o
}

// NewString allocates a string.
func (h *Heap) NewString(s string) Value {
	return h.alloc(&Object{Kind: KindString, str: s}).Value()
}

// NewArray allocates an empty array with room for capacity elements.
func (h *Heap) NewArray(capacity int) *Object {
	if capacity < 0 {
		capacity = 0
	}
	return h.alloc(&Object{Kind: KindArray, Items: make([]Value, 0, capacity)})
}

// NewArrayOf allocates an array holding a copy of items.
func (h *Heap) NewArrayOf(items []Value) *Object {
	a := h.NewArray(len(items))
	a.Items = append(a.Items, items...)
	return a
}

// NewDict allocates an empty dict.
func (h *Heap) NewDict() *Object {
	return h.alloc(&Object{Kind: KindDict, dict: &dictTable{index: make(map[dictKey]int)}})
}

// NewFunc allocates a native function value.
func (h *Heap) NewFunc(name string, fn NativeFunc) Value {
	return h.alloc(&Object{Kind: KindFunc, name: name, fn: fn}).Value()
}

// Collect runs a full mark-sweep collection.
func (h *Heap) Collect() {
	if h.collecting {
		return
	}
	h.collecting = true
	defer func() { h.collecting = false }()

	start := time.Now()
	var work []*Object
	marked := 0
	mark := func(v Value) {
		if !v.Kind.IsHeap() || v.Obj == nil || v.Obj.marked || v.Obj.freed {
			return
		}
		v.Obj.marked = true
		marked++
		work = append(work, v.Obj)
	}

	for _, slot := range h.roots {
		mark(*slot)
	}
	for _, rs := range h.rootSets {
		rs(mark)
	}
	for _, o := range h.exempted {
		mark(o.Value())
	}
	for len(work) > 0 {
		o := work[len(work)-1]
		work = work[:len(work)-1]
		o.children(mark)
	}

	live := h.objects[:0]
	swept := 0
	for _, o := range h.objects {
		if o.marked {
			o.marked = false
			live = append(live, o)
			continue
		}
		swept++
		if h.strict {
			o.poison()
		}
	}
	for i := len(live); i < len(h.objects); i++ {
		h.objects[i] = nil
	}
	h.objects = live

	h.collections++
	h.last = CollectStats{
		Marked:    marked,
		Swept:     swept,
		Live:      len(live),
		Roots:     len(h.roots),
		Exempted:  len(h.exempted),
		Duration:  time.Since(start),
		Timestamp: start,
	}
	if swept > 0 {
		h.log.Debugf("collection %d: marked %d, swept %d, %d live", h.collections, marked, swept, len(live))
	}
}
