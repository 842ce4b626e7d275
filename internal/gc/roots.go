package gc

// PushRoot registers the storage location slot as a root. The collector
// reads *slot when it runs, so later writes to the slot are seen.
func (h *Heap) PushRoot(slot *Value) {
	if slot == nil {
		violate("PushRoot", "nil slot")
	}
	h.roots = append(h.roots, slot)
}

// PopRoot removes the most recently pushed root.
func (h *Heap) PopRoot() {
	if len(h.roots) == 0 {
		violate("PopRoot", "root stack is empty")
	}
	h.roots[len(h.roots)-1] = nil
	h.roots = h.roots[:len(h.roots)-1]
}

// RootDepth returns the current root stack depth.
func (h *Heap) RootDepth() int {
	return len(h.roots)
}

// RootGuard owns a contiguous run of root stack entries. Release pops them
// all; pair it with defer so every exit path, including errors, restores
// the stack.
type RootGuard struct {
	heap     *Heap
	op       string
	base     int
	n        int
	released bool
}

// Guard pushes slots as roots on behalf of op and returns the guard that
// releases them.
func (h *Heap) Guard(op string, slots ...*Value) *RootGuard {
	g := &RootGuard{heap: h, op: op, base: len(h.roots)}
	for _, s := range slots {
		h.PushRoot(s)
	}
	g.n = len(slots)
	return g
}

// Add roots one more slot under g. The guard must be on top of the stack.
func (g *RootGuard) Add(slot *Value) {
	if g.released {
		violate(g.op, "root added to a released guard")
	}
	if g.heap.strict && len(g.heap.roots) != g.base+g.n {
		violate(g.op, "root added under guard at depth %d, want %d", len(g.heap.roots), g.base+g.n)
	}
	g.heap.PushRoot(slot)
	g.n++
}

// Len returns the number of roots g holds.
func (g *RootGuard) Len() int {
	return g.n
}

// Release pops every root g holds.
func (g *RootGuard) Release() {
	if g.released {
		violate(g.op, "guard released twice")
	}
	if want := g.base + g.n; g.heap.strict && len(g.heap.roots) != want {
		violate(g.op, "unbalanced roots: depth %d at release, want %d", len(g.heap.roots), want)
	}
	g.released = true
	for i := 0; i < g.n; i++ {
		g.heap.PopRoot()
	}
}

// Boundary records the root stack depth and exemption count at the start of
// op and returns a check to run when op completes. In strict mode the check
// raises a violation when op left the protocol unbalanced.
func (h *Heap) Boundary(op string) (check func()) {
	depth, exempted := len(h.roots), len(h.exempted)
	return func() {
		if !h.strict {
			return
		}
		if len(h.roots) != depth {
			violate(op, "root stack depth %d after operation, want %d", len(h.roots), depth)
		}
		if len(h.exempted) != exempted {
			violate(op, "%d objects exempted after operation, want %d", len(h.exempted), exempted)
		}
	}
}

// CheckBalanced raises a violation when the root stack depth is not depth.
func (h *Heap) CheckBalanced(op string, depth int) {
	if len(h.roots) != depth {
		violate(op, "root stack depth %d, want %d", len(h.roots), depth)
	}
}
