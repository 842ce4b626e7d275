// Package stdlib implements the array and dict methods of the runtime
// library. Every method that allocates or calls back into user code follows
// the gc root protocol: intermediates live in rooted slots under a guard,
// aggregates under construction are exempted, and the root stack is
// balanced again on every exit path.
package stdlib

import (
	"github.com/tliron/commonlog"

	"github.com/funvibe/rootscope/internal/config"
	"github.com/funvibe/rootscope/internal/gc"
	"github.com/funvibe/rootscope/internal/logging"
)

// Kwargs holds the named arguments of a method call.
type Kwargs map[string]gc.Value

type method func(rt *Runtime, self gc.Value, args []gc.Value, kwargs Kwargs) (gc.Value, error)

// Runtime is one interpreter instance: a heap, the operand stack the
// collector scans, global slots, and the comparison callable used by an
// in-progress sort.
type Runtime struct {
	heap       *gc.Heap
	stack      []gc.Value
	globals    []gc.Value
	comparator gc.Value
	log        commonlog.Logger
	detach     func()
}

// NewRuntime creates a runtime on heap and registers its operand stack,
// globals and comparator as roots.
func NewRuntime(heap *gc.Heap) *Runtime {
	rt := &Runtime{
		heap: heap,
		log:  logging.Get(config.LogRuntime),
	}
	rt.detach = heap.AddRootSet(rt.markRoots)
	return rt
}

// Close unregisters the runtime's roots from the heap.
func (rt *Runtime) Close() {
	if rt.detach != nil {
		rt.detach()
		rt.detach = nil
	}
}

func (rt *Runtime) markRoots(mark func(gc.Value)) {
	for _, v := range rt.stack {
		mark(v)
	}
	for _, v := range rt.globals {
		mark(v)
	}
	mark(rt.comparator)
}

// Heap returns the runtime's heap.
func (rt *Runtime) Heap() *gc.Heap {
	return rt.heap
}

// DefineGlobals sizes the global area to n slots, keeping existing values.
func (rt *Runtime) DefineGlobals(n int) {
	for len(rt.globals) < n {
		rt.globals = append(rt.globals, gc.Nil)
	}
}

// SetGlobal stores v in global slot.
func (rt *Runtime) SetGlobal(slot int, v gc.Value) {
	rt.DefineGlobals(slot + 1)
	rt.globals[slot] = v
}

// Global returns the value in global slot.
func (rt *Runtime) Global(slot int) gc.Value {
	if slot < 0 || slot >= len(rt.globals) {
		return gc.Nil
	}
	return rt.globals[slot]
}

// Comparator returns the comparison callable of the sort in progress, or nil.
func (rt *Runtime) Comparator() gc.Value {
	return rt.comparator
}

// StackDepth returns the operand stack depth.
func (rt *Runtime) StackDepth() int {
	return len(rt.stack)
}

func (rt *Runtime) push(vs ...gc.Value) int {
	base := len(rt.stack)
	rt.stack = append(rt.stack, vs...)
	return base
}

func (rt *Runtime) popTo(base int) {
	for i := base; i < len(rt.stack); i++ {
		rt.stack[i] = gc.Nil
	}
	rt.stack = rt.stack[:base]
}

// Call applies the callable fn to args. Arguments stay on the operand
// stack for the duration of the call. The result is not rooted: the caller
// must store it in a rooted slot before the next allocation.
func (rt *Runtime) Call(fn gc.Value, args ...gc.Value) (gc.Value, error) {
	if !fn.Callable() {
		return gc.Nil, &RuntimeError{Msg: "attempt to call non-callable " + fn.Kind.String()}
	}
	base := rt.push(fn)
	rt.push(args...)
	defer rt.popTo(base)
	return fn.Func()(rt.stack[base+1:])
}

func (rt *Runtime) predicate(fn, v gc.Value) (bool, error) {
	r, err := rt.Call(fn, v)
	if err != nil {
		return false, err
	}
	return r.Truthy(), nil
}

// CallMethod invokes the named method on recv. The receiver, arguments and
// keyword arguments are on the operand stack for the whole call.
func (rt *Runtime) CallMethod(recv gc.Value, name string, args []gc.Value, kwargs Kwargs) (gc.Value, error) {
	var table map[string]method
	switch recv.Kind {
	case gc.KindArray:
		table = arrayMethods
	case gc.KindDict:
		table = dictMethods
	}
	m, ok := table[name]
	if !ok {
		return gc.Nil, errorf(name, "no method %q on %s", name, recv.Kind)
	}

	check := rt.heap.Boundary(name)
	base := rt.push(recv)
	rt.push(args...)
	for _, v := range kwargs {
		rt.push(v)
	}
	defer func() {
		rt.popTo(base)
		check()
	}()

	result, err := m(rt, recv, rt.stack[base+1:base+1+len(args)], kwargs)
	if err != nil {
		rt.log.Debugf("%s.%s failed: %s", recv.Kind, name, err)
	}
	return result, err
}
