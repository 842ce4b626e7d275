package gc

import "math"

// NativeFunc is user-supplied logic the library can call back into
// (comparators, predicates, mapping functions). It may allocate, and so may
// trigger a collection.
type NativeFunc func(args []Value) (Value, error)

// Object is a heap allocation.
type Object struct {
	Kind Kind
	ID   uint64

	// Items holds array elements.
	Items []Value

	str  string
	name string
	fn   NativeFunc
	dict *dictTable

	heap   *Heap
	marked bool
	noGC   int
	freed  bool
}

// check returns o, or raises a violation if strict mode caught a use of an
// object the collector already reclaimed.
func (o *Object) check(op string) *Object {
	if o.freed {
		violate(op, "object #%d (%s) used after it was collected; it was not rooted", o.ID, o.Kind)
	}
	return o
}

// Freed reports whether the collector reclaimed o.
func (o *Object) Freed() bool {
	return o.freed
}

// Exempted reports whether o is currently exempt from collection.
func (o *Object) Exempted() bool {
	return o.noGC > 0
}

// Name returns the name of a function object.
func (o *Object) Name() string {
	return o.name
}

// Len returns the number of elements of an array or entries of a dict.
func (o *Object) Len() int {
	o.check("len")
	if o.Kind == KindDict {
		return len(o.dict.entries)
	}
	return len(o.Items)
}

// Push appends v to an array.
func (o *Object) Push(v Value) {
	o.check("push")
	o.Items = append(o.Items, v)
}

// Reserve grows an array's capacity to at least n.
func (o *Object) Reserve(n int) {
	o.check("reserve")
	if cap(o.Items) < n {
		items := make([]Value, len(o.Items), n)
		copy(items, o.Items)
		o.Items = items
	}
}

// Truncate shortens an array to n elements and releases excess capacity
// when the array has become much smaller than its backing store.
func (o *Object) Truncate(n int) {
	o.check("truncate")
	for i := n; i < len(o.Items); i++ {
		o.Items[i] = Nil
	}
	o.Items = o.Items[:n]
	if c := cap(o.Items); c > 8*n || c-n > 1000 {
		if n == 0 {
			o.Items = nil
			return
		}
		items := make([]Value, n)
		copy(items, o.Items)
		o.Items = items
	}
}

// Value wraps o in a Value of its kind.
func (o *Object) Value() Value {
	return Value{Kind: o.Kind, Obj: o}
}

// dictKey identifies a dict key: scalars and strings by content, other heap
// values by identity.
type dictKey struct {
	kind Kind
	bits uint64
	str  string
	obj  *Object
}

type DictEntry struct {
	Key   Value
	Value Value
}

type dictTable struct {
	index   map[dictKey]int
	entries []DictEntry
}

func keyOf(v Value) dictKey {
	switch v.Kind {
	case KindInt:
		return dictKey{kind: KindInt, bits: uint64(v.Int)}
	case KindFloat:
		if v.Float == math.Trunc(v.Float) && math.Abs(v.Float) < 1<<53 {
			return dictKey{kind: KindInt, bits: uint64(int64(v.Float))}
		}
		return dictKey{kind: KindFloat, bits: math.Float64bits(v.Float)}
	case KindBool:
		if v.Bool {
			return dictKey{kind: KindBool, bits: 1}
		}
		return dictKey{kind: KindBool}
	case KindString:
		return dictKey{kind: KindString, str: v.Obj.check("dict key").str}
	case KindNil:
		return dictKey{}
	default:
		return dictKey{kind: v.Kind, obj: v.Obj}
	}
}

// Get returns the value stored under key.
func (o *Object) Get(key Value) (Value, bool) {
	o.check("dict get")
	i, ok := o.dict.index[keyOf(key)]
	if !ok {
		return Nil, false
	}
	return o.dict.entries[i].Value, true
}

// Put stores value under key, keeping insertion order for new keys.
func (o *Object) Put(key, value Value) {
	o.check("dict put")
	k := keyOf(key)
	if i, ok := o.dict.index[k]; ok {
		o.dict.entries[i].Value = value
		return
	}
	o.dict.index[k] = len(o.dict.entries)
	o.dict.entries = append(o.dict.entries, DictEntry{Key: key, Value: value})
}

// PutIfAbsent stores value under key unless the key exists. It reports
// whether the value was stored.
func (o *Object) PutIfAbsent(key, value Value) bool {
	o.check("dict put")
	k := keyOf(key)
	if _, ok := o.dict.index[k]; ok {
		return false
	}
	o.dict.index[k] = len(o.dict.entries)
	o.dict.entries = append(o.dict.entries, DictEntry{Key: key, Value: value})
	return true
}

// Entries returns the dict entries in insertion order.
func (o *Object) Entries() []DictEntry {
	o.check("dict entries")
	return o.dict.entries
}

// children calls mark for every value o references.
func (o *Object) children(mark func(Value)) {
	switch o.Kind {
	case KindArray:
		for _, v := range o.Items {
			mark(v)
		}
	case KindDict:
		for _, e := range o.dict.entries {
			mark(e.Key)
			mark(e.Value)
		}
	}
}

// poison clears a reclaimed object so stale uses are caught.
func (o *Object) poison() {
	o.freed = true
	o.Items = nil
	o.str = ""
	o.fn = nil
	o.dict = nil
}
