package stdlib

import (
	"github.com/funvibe/rootscope/internal/config"
	"github.com/funvibe/rootscope/internal/gc"
)

// pair allocates the two-element array [x, y]. Both must already be
// reachable.
func (rt *Runtime) pair(x, y *gc.Object) gc.Value {
	return rt.heap.NewArrayOf([]gc.Value{x.Value(), y.Value()}).Value()
}

func arrayPartition(rt *Runtime, self gc.Value, args []gc.Value, _ Kwargs) (gc.Value, error) {
	name := config.PartitionMethod
	if err := expectArgs(name, args, 1); err != nil {
		return gc.Nil, err
	}
	p := args[0]
	if err := callableArg(name, p, "the predicate"); err != nil {
		return gc.Nil, err
	}
	a := self.Array()

	var result gc.Value
	yes := rt.heap.NewArray(0)
	err := rt.heap.Build(yes, func() error {
		no := rt.heap.NewArray(0)
		return rt.heap.Build(no, func() error {
			for i := 0; i < a.Len(); i++ {
				e := a.Items[i]
				ok, err := rt.predicate(p, e)
				if err != nil {
					return err
				}
				if ok {
					yes.Push(e)
				} else {
					no.Push(e)
				}
			}
			result = rt.pair(yes, no)
			return nil
		})
	})
	if err != nil {
		return gc.Nil, err
	}
	return result, nil
}

func arrayPartitionMut(rt *Runtime, self gc.Value, args []gc.Value, _ Kwargs) (gc.Value, error) {
	name := config.PartitionMutMethod
	if err := expectArgs(name, args, 1); err != nil {
		return gc.Nil, err
	}
	p := args[0]
	if err := callableArg(name, p, "the predicate"); err != nil {
		return gc.Nil, err
	}
	a := self.Array()

	// Accepted elements are compacted to the front of the receiver, which
	// keeps them rooted until they move into their own array.
	no := rt.heap.NewArray(0)
	err := rt.heap.Build(no, func() error {
		j := 0
		for i := 0; i < a.Len(); i++ {
			e := a.Items[i]
			ok, err := rt.predicate(p, e)
			if err != nil {
				return err
			}
			if err := unchanged(name, a, i+1); err != nil {
				return err
			}
			if ok {
				a.Items[j] = e
				j++
			} else {
				no.Push(e)
			}
		}
		yes := rt.heap.NewArrayOf(a.Items[:j])
		a.Truncate(0)
		a.Push(yes.Value())
		a.Push(no.Value())
		return nil
	})
	if err != nil {
		return gc.Nil, err
	}
	return self, nil
}

func arraySplit(rt *Runtime, self gc.Value, args []gc.Value, _ Kwargs) (gc.Value, error) {
	name := config.SplitMethod
	if err := expectArgs(name, args, 1); err != nil {
		return gc.Nil, err
	}
	i, err := intArg(name, args[0], "the index")
	if err != nil {
		return gc.Nil, err
	}
	a := self.Array()
	if i < 0 {
		i += a.Len()
	}
	if i < 0 || i > a.Len() {
		return gc.Nil, errorf(name, "index %d is out of range", i)
	}

	var result gc.Value
	front := rt.heap.NewArrayOf(a.Items[:i])
	err = rt.heap.Build(front, func() error {
		back := rt.heap.NewArrayOf(a.Items[i:])
		return rt.heap.Build(back, func() error {
			result = rt.pair(front, back)
			return nil
		})
	})
	return result, err
}

func arraySet(rt *Runtime, self gc.Value, args []gc.Value, _ Kwargs) (gc.Value, error) {
	if err := expectArgs(config.SetMethod, args, 0); err != nil {
		return gc.Nil, err
	}
	// Filling the dict does not allocate.
	d := rt.heap.NewDict()
	for _, e := range self.Array().Items {
		d.PutIfAbsent(e, gc.Nil)
	}
	return d.Value(), nil
}

func arrayTally(rt *Runtime, self gc.Value, args []gc.Value, _ Kwargs) (gc.Value, error) {
	name := config.TallyMethod
	if err := expectArgs(name, args, 0, 1); err != nil {
		return gc.Nil, err
	}
	var f gc.Value
	if len(args) == 1 {
		f = args[0]
		if err := callableArg(name, f, "the key function"); err != nil {
			return gc.Nil, err
		}
	}
	a := self.Array()

	var counts, k gc.Value
	g := rt.heap.Guard(name, &counts, &k)
	defer g.Release()
	counts = rt.heap.NewDict().Value()

	d := counts.Dict()
	for i := 0; i < a.Len(); i++ {
		k = a.Items[i]
		if f.Callable() {
			var err error
			if k, err = rt.Call(f, k); err != nil {
				return gc.Nil, err
			}
		}
		c, _ := d.Get(k)
		d.Put(k, gc.Int(c.Int+1))
	}
	return counts, nil
}
