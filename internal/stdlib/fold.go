package stdlib

import (
	"github.com/funvibe/rootscope/internal/config"
	"github.com/funvibe/rootscope/internal/gc"
)

// foldArgs splits the (init?, f) arguments shared by fold, foldr and scan.
// Without an initial value the accumulator is seeded from the array, which
// must then be non-empty.
func foldArgs(name string, a *gc.Object, args []gc.Value) (f gc.Value, seeded bool, init gc.Value, err error) {
	if err = expectArgs(name, args, 1, 2); err != nil {
		return
	}
	if len(args) == 1 {
		f = args[0]
		if a.Len() == 0 {
			err = errorf(name, "called on an empty array without an initial value")
			return
		}
	} else {
		init, f, seeded = args[0], args[1], true
	}
	err = callableArg(name, f, "the function")
	return
}

func arrayFold(rt *Runtime, self gc.Value, args []gc.Value, _ Kwargs) (gc.Value, error) {
	name := config.FoldMethod
	a := self.Array()
	f, seeded, init, err := foldArgs(name, a, args)
	if err != nil {
		return gc.Nil, err
	}

	var acc gc.Value
	g := rt.heap.Guard(name, &acc)
	defer g.Release()

	start := 0
	if seeded {
		acc = init
	} else {
		acc, start = a.Items[0], 1
	}
	for i := start; i < a.Len(); i++ {
		if acc, err = rt.Call(f, acc, a.Items[i]); err != nil {
			return gc.Nil, err
		}
	}
	return acc, nil
}

func arrayFoldRight(rt *Runtime, self gc.Value, args []gc.Value, _ Kwargs) (gc.Value, error) {
	name := config.FoldRightMethod
	a := self.Array()
	f, seeded, init, err := foldArgs(name, a, args)
	if err != nil {
		return gc.Nil, err
	}

	var acc gc.Value
	g := rt.heap.Guard(name, &acc)
	defer g.Release()

	start := a.Len() - 1
	if seeded {
		acc = init
	} else {
		acc, start = a.Items[start], start-1
	}
	for i := start; i >= 0; i-- {
		if err := unchanged(name, a, i+1); err != nil {
			return gc.Nil, err
		}
		if acc, err = rt.Call(f, a.Items[i], acc); err != nil {
			return gc.Nil, err
		}
	}
	return acc, nil
}

// scanInto replaces each element of a with the running fold up to it.
func (rt *Runtime) scanInto(name string, a *gc.Object, args []gc.Value) error {
	f, seeded, init, err := foldArgs(name, a, args)
	if err != nil {
		return err
	}

	var acc gc.Value
	g := rt.heap.Guard(name, &acc)
	defer g.Release()

	start := 0
	if seeded {
		acc = init
	} else {
		acc, start = a.Items[0], 1
	}
	for i := start; i < a.Len(); i++ {
		if acc, err = rt.Call(f, acc, a.Items[i]); err != nil {
			return err
		}
		if err := unchanged(name, a, i+1); err != nil {
			return err
		}
		a.Items[i] = acc
	}
	return nil
}

func arrayScanMut(rt *Runtime, self gc.Value, args []gc.Value, _ Kwargs) (gc.Value, error) {
	if err := rt.scanInto(config.ScanMutMethod, self.Array(), args); err != nil {
		return gc.Nil, err
	}
	return self, nil
}

func arrayScan(rt *Runtime, self gc.Value, args []gc.Value, _ Kwargs) (gc.Value, error) {
	name := config.ScanMethod
	var clone gc.Value
	g := rt.heap.Guard(name, &clone)
	defer g.Release()
	clone = rt.heap.NewArrayOf(self.Array().Items).Value()

	if err := rt.scanInto(name, clone.Array(), args); err != nil {
		return gc.Nil, err
	}
	return clone, nil
}
