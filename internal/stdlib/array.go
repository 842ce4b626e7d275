package stdlib

import (
	"cmp"
	"errors"
	"slices"

	"github.com/funvibe/rootscope/internal/config"
	"github.com/funvibe/rootscope/internal/gc"
)

var arrayMethods = map[string]method{
	config.PushMethod:         arrayPush,
	config.InsertMethod:       arrayInsert,
	config.PopMethod:          arrayPop,
	config.SwapMethod:         arraySwap,
	config.SliceMutMethod:     arraySliceMut,
	config.SliceMethod:        arraySlice,
	config.SortMethod:         arraySort,
	config.UniqMethod:         arrayUniq,
	config.SumMethod:          arraySum,
	config.JoinMethod:         arrayJoin,
	config.ConsumeWhileMethod: arrayConsumeWhile,
	config.GroupsOfMethod:     arrayGroupsOf,
	config.GroupByMethod:      arrayGroupBy,
	config.GroupMethod:        arrayGroup,
	config.WindowMethod:       arrayWindow,
	config.TakeMethod:         arrayTake,
	config.TakeMutMethod:      arrayTakeMut,
	config.DropMethod:         arrayDrop,
	config.DropMutMethod:      arrayDropMut,
	config.TakeWhileMethod:    arrayTakeWhile,
	config.DropWhileMethod:    arrayDropWhile,
	config.MinByMethod:        arrayMinBy,
	config.MaxByMethod:        arrayMaxBy,
	config.MapMethod:          arrayMap,
	config.FilterMethod:       arrayFilter,
	config.IntersperseMethod:  arrayIntersperse,
	config.ZipMethod:          arrayZip,
	config.ReverseMethod:      arrayReverse,
	config.LengthMethod:       arrayLength,
	config.PartitionMethod:    arrayPartition,
	config.PartitionMutMethod: arrayPartitionMut,
	config.SplitMethod:        arraySplit,
	config.SetMethod:          arraySet,
	config.TallyMethod:        arrayTally,
	config.FoldMethod:         arrayFold,
	config.FoldRightMethod:    arrayFoldRight,
	config.ScanMethod:         arrayScan,
	config.ScanMutMethod:      arrayScanMut,
}

// withMethod attributes an operator error to the method that hit it.
func withMethod(name string, err error) error {
	var re *RuntimeError
	if errors.As(err, &re) && re.Method == "" {
		re.Method = name
	}
	return err
}

func arrayPush(rt *Runtime, self gc.Value, args []gc.Value, _ Kwargs) (gc.Value, error) {
	if err := expectArgs(config.PushMethod, args, 1); err != nil {
		return gc.Nil, err
	}
	self.Array().Push(args[0])
	return gc.Nil, nil
}

func arrayInsert(rt *Runtime, self gc.Value, args []gc.Value, _ Kwargs) (gc.Value, error) {
	name := config.InsertMethod
	if err := expectArgs(name, args, 2); err != nil {
		return gc.Nil, err
	}
	a := self.Array()
	index, err := intArg(name, args[0], "the index")
	if err != nil {
		return gc.Nil, err
	}
	if index < 0 {
		index += a.Len() + 1
	}
	if index < 0 || index > a.Len() {
		return gc.Nil, errorf(name, "index %d is out of range", index)
	}
	a.Items = slices.Insert(a.Items, index, args[1])
	return self, nil
}

func arrayPop(rt *Runtime, self gc.Value, args []gc.Value, _ Kwargs) (gc.Value, error) {
	name := config.PopMethod
	if err := expectArgs(name, args, 0, 1); err != nil {
		return gc.Nil, err
	}
	a := self.Array()
	if len(args) == 0 {
		if a.Len() == 0 {
			return gc.Nil, errorf(name, "attempt to pop from an empty array")
		}
		v := a.Items[a.Len()-1]
		a.Truncate(a.Len() - 1)
		return v, nil
	}
	i, err := intArg(name, args[0], "the index")
	if err != nil {
		return gc.Nil, err
	}
	if i < 0 {
		i += a.Len()
	}
	if i < 0 || i >= a.Len() {
		return gc.Nil, errorf(name, "index is out of range")
	}
	v := a.Items[i]
	a.Items = slices.Delete(a.Items, i, i+1)
	a.Truncate(a.Len())
	return v, nil
}

func arraySwap(rt *Runtime, self gc.Value, args []gc.Value, _ Kwargs) (gc.Value, error) {
	name := config.SwapMethod
	if err := expectArgs(name, args, 2); err != nil {
		return gc.Nil, err
	}
	a := self.Array()
	i, err := intArg(name, args[0], "the first index")
	if err != nil {
		return gc.Nil, err
	}
	j, err := intArg(name, args[1], "the second index")
	if err != nil {
		return gc.Nil, err
	}
	if i < 0 {
		i += a.Len()
	}
	if j < 0 {
		j += a.Len()
	}
	if i < 0 || i >= a.Len() || j < 0 || j >= a.Len() {
		return gc.Nil, errorf(name, "invalid indices (%d, %d)", i, j)
	}
	a.Items[i], a.Items[j] = a.Items[j], a.Items[i]
	return self, nil
}

func arraySliceMut(rt *Runtime, self gc.Value, args []gc.Value, _ Kwargs) (gc.Value, error) {
	name := config.SliceMutMethod
	if err := expectArgs(name, args, 1, 2); err != nil {
		return gc.Nil, err
	}
	a := self.Array()
	s, n, err := bounds(name, a.Len(), args)
	if err != nil {
		return gc.Nil, err
	}
	result := rt.heap.NewArrayOf(a.Items[s : s+n])
	a.Items = slices.Delete(a.Items, s, s+n)
	a.Truncate(a.Len())
	return result.Value(), nil
}

func arraySlice(rt *Runtime, self gc.Value, args []gc.Value, _ Kwargs) (gc.Value, error) {
	name := config.SliceMethod
	if err := expectArgs(name, args, 1, 2); err != nil {
		return gc.Nil, err
	}
	a := self.Array()
	s, n, err := bounds(name, a.Len(), args)
	if err != nil {
		return gc.Nil, err
	}
	return rt.heap.NewArrayOf(a.Items[s : s+n]).Value(), nil
}

func arraySort(rt *Runtime, self gc.Value, args []gc.Value, kwargs Kwargs) (gc.Value, error) {
	name := config.SortMethod
	if err := expectArgs(name, args, 0, 1, 2); err != nil {
		return gc.Nil, err
	}
	a := self.Array()

	i, n := 0, a.Len()
	var err error
	if len(args) >= 1 {
		if i, err = intArg(name, args[0], "the start index"); err != nil {
			return gc.Nil, err
		}
		if i < 0 {
			i += a.Len()
		}
		n = a.Len() - i
	}
	if len(args) == 2 {
		if n, err = intArg(name, args[1], "the count"); err != nil {
			return gc.Nil, err
		}
	}
	if n < 0 || i < 0 || i > a.Len() || n > a.Len()-i {
		return gc.Nil, errorf(name, "invalid index")
	}

	by, hasBy := kwargs[config.ByKwarg]
	cmpFn, hasCmp := kwargs[config.CmpKwarg]
	if hasBy && hasCmp {
		return gc.Nil, errorf(name, "ambiguous call: by and cmp both specified")
	}

	compare := Compare
	switch {
	case hasBy:
		if err := callableArg(name, by, "`by`"); err != nil {
			return gc.Nil, err
		}
		compare = rt.compareBy
		defer rt.setComparator(by)()
	case hasCmp:
		if err := callableArg(name, cmpFn, "`cmp`"); err != nil {
			return gc.Nil, err
		}
		compare = rt.compareWith
		defer rt.setComparator(cmpFn)()
	}

	var sortErr error
	slices.SortStableFunc(a.Items[i:i+n], func(x, y gc.Value) int {
		if sortErr != nil {
			return 0
		}
		c, err := compare(x, y)
		if err != nil {
			sortErr = err
		}
		return c
	})
	if sortErr != nil {
		return gc.Nil, withMethod(name, sortErr)
	}
	if err := unchanged(name, a, i+n); err != nil {
		return gc.Nil, err
	}

	if desc, ok := kwargs[config.DescKwarg]; ok && desc.Truthy() {
		slices.Reverse(a.Items[i : i+n])
	}
	return self, nil
}

// setComparator installs fn as the current comparison callable and returns
// the function restoring the previous one, so nested sorts (a comparator
// that itself sorts) see their own callable.
func (rt *Runtime) setComparator(fn gc.Value) (restore func()) {
	saved := rt.comparator
	rt.comparator = fn
	return func() { rt.comparator = saved }
}

func (rt *Runtime) compareBy(x, y gc.Value) (int, error) {
	var k1, k2 gc.Value
	g := rt.heap.Guard(config.SortMethod, &k1, &k2)
	defer g.Release()

	var err error
	if k1, err = rt.Call(rt.comparator, x); err != nil {
		return 0, err
	}
	if k2, err = rt.Call(rt.comparator, y); err != nil {
		return 0, err
	}
	return Compare(k1, k2)
}

func (rt *Runtime) compareWith(x, y gc.Value) (int, error) {
	var r gc.Value
	g := rt.heap.Guard(config.SortMethod, &r)
	defer g.Release()

	var err error
	if r, err = rt.Call(rt.comparator, x, y); err != nil {
		return 0, err
	}
	if r.Kind == gc.KindInt {
		return cmp.Compare(r.Int, 0), nil
	}
	if r.Truthy() {
		return 1, nil
	}
	return -1, nil
}

func arrayUniq(rt *Runtime, self gc.Value, args []gc.Value, _ Kwargs) (gc.Value, error) {
	name := config.UniqMethod
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

	var seen gc.Value
	g := rt.heap.Guard(name, &seen)
	defer g.Release()
	seen = rt.heap.NewDict().Value()

	n := 0
	for i := 0; i < a.Len(); i++ {
		e := a.Items[i]
		k := e
		if f.Callable() {
			var err error
			if k, err = rt.Call(f, e); err != nil {
				return gc.Nil, err
			}
			if err := unchanged(name, a, i+1); err != nil {
				return gc.Nil, err
			}
		}
		if seen.Dict().PutIfAbsent(k, e) {
			a.Items[n] = e
			n++
		}
	}
	a.Truncate(n)
	return self, nil
}

func arraySum(rt *Runtime, self gc.Value, args []gc.Value, _ Kwargs) (gc.Value, error) {
	name := config.SumMethod
	if err := expectArgs(name, args, 0); err != nil {
		return gc.Nil, err
	}
	a := self.Array()
	if a.Len() == 0 {
		return gc.Nil, nil
	}

	sum := a.Items[0]
	g := rt.heap.Guard(name, &sum)
	defer g.Release()

	for i := 1; i < a.Len(); i++ {
		var err error
		if sum, err = rt.Add(sum, a.Items[i]); err != nil {
			return gc.Nil, withMethod(name, err)
		}
	}
	return sum, nil
}

func arrayJoin(rt *Runtime, self gc.Value, args []gc.Value, _ Kwargs) (gc.Value, error) {
	name := config.JoinMethod
	if err := expectArgs(name, args, 1); err != nil {
		return gc.Nil, err
	}
	a := self.Array()
	if a.Len() == 0 {
		return gc.Nil, nil
	}
	sep := args[0]
	if sep.Kind != gc.KindString {
		return gc.Nil, errorf(name, "the separator must be a string")
	}

	var sum, v gc.Value
	g := rt.heap.Guard(name, &sum, &v)
	defer g.Release()

	sum = rt.str(a.Items[0])
	for i := 1; i < a.Len(); i++ {
		v = rt.str(a.Items[i])
		var err error
		if sum, err = rt.Add(sum, sep); err != nil {
			return gc.Nil, withMethod(name, err)
		}
		if sum, err = rt.Add(sum, v); err != nil {
			return gc.Nil, withMethod(name, err)
		}
	}
	return sum, nil
}

func arrayConsumeWhile(rt *Runtime, self gc.Value, args []gc.Value, _ Kwargs) (gc.Value, error) {
	name := config.ConsumeWhileMethod
	if err := expectArgs(name, args, 2); err != nil {
		return gc.Nil, err
	}
	f, p := args[0], args[1]
	if err := callableArg(name, f, "the source"); err != nil {
		return gc.Nil, err
	}
	if err := callableArg(name, p, "the predicate"); err != nil {
		return gc.Nil, err
	}
	a := self.Array()

	var v gc.Value
	g := rt.heap.Guard(name, &v)
	defer g.Release()

	for {
		var err error
		if v, err = rt.Call(f); err != nil {
			return gc.Nil, err
		}
		ok, err := rt.predicate(p, v)
		if err != nil {
			return gc.Nil, err
		}
		if !ok {
			break
		}
		a.Push(v)
	}
	return self, nil
}

func arrayGroupsOf(rt *Runtime, self gc.Value, args []gc.Value, _ Kwargs) (gc.Value, error) {
	name := config.GroupsOfMethod
	if err := expectArgs(name, args, 1, 2); err != nil {
		return gc.Nil, err
	}
	size, err := intArg(name, args[0], "the group size")
	if err != nil {
		return gc.Nil, err
	}
	if size <= 0 {
		return gc.Nil, errorf(name, "the group size must be positive")
	}
	keepShort := true
	if len(args) == 2 {
		if args[1].Kind != gc.KindBool {
			return gc.Nil, errorf(name, "the second argument must be a boolean")
		}
		keepShort = args[1].Bool
	}
	a := self.Array()

	// Groups overwrite the slots they were cut from, so every element stays
	// reachable through the receiver while the next group is allocated.
	n, i := 0, 0
	for i+size <= a.Len() {
		group := rt.heap.NewArrayOf(a.Items[i : i+size])
		a.Items[n] = group.Value()
		n++
		i += size
	}
	if keepShort && i < a.Len() {
		last := rt.heap.NewArrayOf(a.Items[i:])
		a.Items[n] = last.Value()
		n++
	}
	a.Truncate(n)
	return self, nil
}

func arrayGroupBy(rt *Runtime, self gc.Value, args []gc.Value, _ Kwargs) (gc.Value, error) {
	name := config.GroupByMethod
	if err := expectArgs(name, args, 1); err != nil {
		return gc.Nil, err
	}
	f := args[0]
	if err := callableArg(name, f, "the key function"); err != nil {
		return gc.Nil, err
	}
	a := self.Array()

	var v1, v2 gc.Value
	g := rt.heap.Guard(name, &v1, &v2)
	defer g.Release()

	length, i := 0, 0
	for ; i < a.Len(); i++ {
		group := rt.heap.NewArray(1)
		err := rt.heap.Build(group, func() error {
			e := a.Items[i]
			var err error
			if v1, err = rt.Call(f, e); err != nil {
				return err
			}
			group.Push(e)
			for i+1 < a.Len() {
				if v2, err = rt.Call(f, a.Items[i+1]); err != nil {
					return err
				}
				if err := unchanged(name, a, i+2); err != nil {
					return err
				}
				if !Equal(v1, v2) {
					break
				}
				i++
				group.Push(a.Items[i])
			}
			return nil
		})
		if err != nil {
			return gc.Nil, err
		}
		if err := unchanged(name, a, length+1); err != nil {
			return gc.Nil, err
		}
		a.Items[length] = group.Value()
		length++
	}
	a.Truncate(length)
	return self, nil
}

func arrayGroup(rt *Runtime, self gc.Value, args []gc.Value, kwargs Kwargs) (gc.Value, error) {
	name := config.GroupMethod
	if len(args) == 1 {
		return arrayGroupBy(rt, self, args, kwargs)
	}
	if err := expectArgs(name, args, 0, 1); err != nil {
		return gc.Nil, err
	}
	a := self.Array()

	length := 0
	for i := 0; i < a.Len(); i++ {
		j := i + 1
		for j < a.Len() && Equal(a.Items[i], a.Items[j]) {
			j++
		}
		group := rt.heap.NewArrayOf(a.Items[i:j])
		a.Items[length] = group.Value()
		length++
		i = j - 1
	}
	a.Truncate(length)
	return self, nil
}

func arrayWindow(rt *Runtime, self gc.Value, args []gc.Value, _ Kwargs) (gc.Value, error) {
	name := config.WindowMethod
	if err := expectArgs(name, args, 1, 2); err != nil {
		return gc.Nil, err
	}
	k, err := intArg(name, args[0], "the window size")
	if err != nil {
		return gc.Nil, err
	}
	if k <= 0 {
		return gc.Nil, errorf(name, "the window size must be positive")
	}
	a := self.Array()
	n := max(a.Len()-k+1, 0)

	if len(args) == 2 {
		f := args[1]
		if err := callableArg(name, f, "the second argument"); err != nil {
			return gc.Nil, err
		}
		for i := 0; i < n; i++ {
			r, err := rt.Call(f, a.Items[i:i+k]...)
			if err != nil {
				return gc.Nil, err
			}
			if err := unchanged(name, a, n+k-1); err != nil {
				return gc.Nil, err
			}
			a.Items[i] = r
		}
	} else {
		for i := 0; i < n; i++ {
			w := rt.heap.NewArrayOf(a.Items[i : i+k])
			a.Items[i] = w.Value()
		}
	}
	a.Truncate(n)
	return self, nil
}

func countArg(name string, args []gc.Value, length int) (int, error) {
	if err := expectArgs(name, args, 1); err != nil {
		return 0, err
	}
	n, err := intArg(name, args[0], "the count")
	if err != nil {
		return 0, err
	}
	return min(max(n, 0), length), nil
}

func arrayTake(rt *Runtime, self gc.Value, args []gc.Value, _ Kwargs) (gc.Value, error) {
	a := self.Array()
	n, err := countArg(config.TakeMethod, args, a.Len())
	if err != nil {
		return gc.Nil, err
	}
	return rt.heap.NewArrayOf(a.Items[:n]).Value(), nil
}

func arrayTakeMut(rt *Runtime, self gc.Value, args []gc.Value, _ Kwargs) (gc.Value, error) {
	a := self.Array()
	n, err := countArg(config.TakeMutMethod, args, a.Len())
	if err != nil {
		return gc.Nil, err
	}
	a.Truncate(n)
	return self, nil
}

func arrayDrop(rt *Runtime, self gc.Value, args []gc.Value, _ Kwargs) (gc.Value, error) {
	a := self.Array()
	d, err := countArg(config.DropMethod, args, a.Len())
	if err != nil {
		return gc.Nil, err
	}
	return rt.heap.NewArrayOf(a.Items[d:]).Value(), nil
}

func arrayDropMut(rt *Runtime, self gc.Value, args []gc.Value, _ Kwargs) (gc.Value, error) {
	a := self.Array()
	d, err := countArg(config.DropMutMethod, args, a.Len())
	if err != nil {
		return gc.Nil, err
	}
	a.Items = slices.Delete(a.Items, 0, d)
	a.Truncate(a.Len())
	return self, nil
}

// prefixWhile counts the leading elements of a that satisfy p.
func (rt *Runtime) prefixWhile(name string, a *gc.Object, args []gc.Value) (int, error) {
	if err := expectArgs(name, args, 1); err != nil {
		return 0, err
	}
	p := args[0]
	if err := callableArg(name, p, "the predicate"); err != nil {
		return 0, err
	}
	n := 0
	for n < a.Len() {
		ok, err := rt.predicate(p, a.Items[n])
		if err != nil {
			return 0, err
		}
		if !ok {
			break
		}
		n++
	}
	return n, nil
}

func arrayTakeWhile(rt *Runtime, self gc.Value, args []gc.Value, _ Kwargs) (gc.Value, error) {
	a := self.Array()
	n, err := rt.prefixWhile(config.TakeWhileMethod, a, args)
	if err != nil {
		return gc.Nil, err
	}
	return rt.heap.NewArrayOf(a.Items[:n]).Value(), nil
}

func arrayDropWhile(rt *Runtime, self gc.Value, args []gc.Value, _ Kwargs) (gc.Value, error) {
	a := self.Array()
	n, err := rt.prefixWhile(config.DropWhileMethod, a, args)
	if err != nil {
		return gc.Nil, err
	}
	return rt.heap.NewArrayOf(a.Items[n:]).Value(), nil
}

func arrayMinBy(rt *Runtime, self gc.Value, args []gc.Value, _ Kwargs) (gc.Value, error) {
	return rt.extremeBy(config.MinByMethod, self, args, -1)
}

func arrayMaxBy(rt *Runtime, self gc.Value, args []gc.Value, _ Kwargs) (gc.Value, error) {
	return rt.extremeBy(config.MaxByMethod, self, args, 1)
}

// extremeBy returns the first element whose key compares in direction sign
// against every other key.
func (rt *Runtime) extremeBy(name string, self gc.Value, args []gc.Value, sign int) (gc.Value, error) {
	if err := expectArgs(name, args, 1); err != nil {
		return gc.Nil, err
	}
	f := args[0]
	if err := callableArg(name, f, "the key function"); err != nil {
		return gc.Nil, err
	}
	a := self.Array()
	if a.Len() == 0 {
		return gc.Nil, nil
	}

	var best, k, r gc.Value
	g := rt.heap.Guard(name, &best, &k, &r)
	defer g.Release()

	best = a.Items[0]
	var err error
	if k, err = rt.Call(f, best); err != nil {
		return gc.Nil, err
	}
	for i := 1; i < a.Len(); i++ {
		v := a.Items[i]
		if r, err = rt.Call(f, v); err != nil {
			return gc.Nil, err
		}
		c, err := Compare(r, k)
		if err != nil {
			return gc.Nil, withMethod(name, err)
		}
		if c*sign > 0 {
			best, k = v, r
		}
	}
	return best, nil
}

func arrayMap(rt *Runtime, self gc.Value, args []gc.Value, _ Kwargs) (gc.Value, error) {
	name := config.MapMethod
	if err := expectArgs(name, args, 1); err != nil {
		return gc.Nil, err
	}
	f := args[0]
	if err := callableArg(name, f, "the argument"); err != nil {
		return gc.Nil, err
	}
	a := self.Array()
	for i := 0; i < a.Len(); i++ {
		r, err := rt.Call(f, a.Items[i])
		if err != nil {
			return gc.Nil, err
		}
		if err := unchanged(name, a, i+1); err != nil {
			return gc.Nil, err
		}
		a.Items[i] = r
	}
	return self, nil
}

func arrayFilter(rt *Runtime, self gc.Value, args []gc.Value, _ Kwargs) (gc.Value, error) {
	name := config.FilterMethod
	if err := expectArgs(name, args, 1); err != nil {
		return gc.Nil, err
	}
	p := args[0]
	if err := callableArg(name, p, "the predicate"); err != nil {
		return gc.Nil, err
	}
	a := self.Array()

	// Rejected elements stay in place until the pass is over so that they
	// are still reachable while the predicate runs.
	keep := make([]bool, a.Len())
	for i := 0; i < a.Len() && i < len(keep); i++ {
		ok, err := rt.predicate(p, a.Items[i])
		if err != nil {
			return gc.Nil, err
		}
		keep[i] = ok
	}
	if err := unchanged(name, a, len(keep)); err != nil {
		return gc.Nil, err
	}
	n := 0
	for i, ok := range keep {
		if ok {
			a.Items[n] = a.Items[i]
			n++
		}
	}
	a.Truncate(n)
	return self, nil
}

func arrayIntersperse(rt *Runtime, self gc.Value, args []gc.Value, _ Kwargs) (gc.Value, error) {
	if err := expectArgs(config.IntersperseMethod, args, 1); err != nil {
		return gc.Nil, err
	}
	a := self.Array()
	if a.Len() < 2 {
		return self, nil
	}
	items := make([]gc.Value, 0, 2*a.Len()-1)
	for i, item := range a.Items {
		if i > 0 {
			items = append(items, args[0])
		}
		items = append(items, item)
	}
	a.Items = items
	return self, nil
}

func arrayZip(rt *Runtime, self gc.Value, args []gc.Value, _ Kwargs) (gc.Value, error) {
	name := config.ZipMethod
	ac := len(args)
	var f gc.Value
	if ac > 0 && args[ac-1].Callable() {
		f = args[ac-1]
		ac--
	}
	if ac == 0 {
		return gc.Nil, errorf(name, "expects at least one array argument")
	}
	a := self.Array()
	n := a.Len()
	for _, other := range args[:ac] {
		if other.Kind != gc.KindArray {
			return gc.Nil, errorf(name, "non-array argument %s", other.Kind)
		}
		n = min(n, other.Array().Len())
	}

	row := make([]gc.Value, ac+1)
	for i := 0; i < n; i++ {
		row[0] = a.Items[i]
		for j, other := range args[:ac] {
			row[j+1] = other.Array().Items[i]
		}
		if f.Callable() {
			r, err := rt.Call(f, row...)
			if err != nil {
				return gc.Nil, err
			}
			if err := unchanged(name, a, n); err != nil {
				return gc.Nil, err
			}
			for _, other := range args[:ac] {
				if err := unchanged(name, other.Array(), n); err != nil {
					return gc.Nil, err
				}
			}
			a.Items[i] = r
		} else {
			a.Items[i] = rt.heap.NewArrayOf(row).Value()
		}
	}
	a.Truncate(n)
	return self, nil
}

func arrayReverse(rt *Runtime, self gc.Value, args []gc.Value, _ Kwargs) (gc.Value, error) {
	if err := expectArgs(config.ReverseMethod, args, 0); err != nil {
		return gc.Nil, err
	}
	slices.Reverse(self.Array().Items)
	return self, nil
}

func arrayLength(rt *Runtime, self gc.Value, args []gc.Value, _ Kwargs) (gc.Value, error) {
	if err := expectArgs(config.LengthMethod, args, 0); err != nil {
		return gc.Nil, err
	}
	return gc.Int(int64(self.Array().Len())), nil
}
