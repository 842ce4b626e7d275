package stdlib

import (
	"cmp"
	"strconv"
	"strings"

	"github.com/funvibe/rootscope/internal/gc"
)

func isNumber(v gc.Value) bool {
	return v.Kind == gc.KindInt || v.Kind == gc.KindFloat
}

func toFloat(v gc.Value) float64 {
	if v.Kind == gc.KindInt {
		return float64(v.Int)
	}
	return v.Float
}

// pairs records the array pairs an Equal or Compare is already descending
// through. A pair met again is part of a cycle and counts as equal.
type pairs map[[2]*gc.Object]bool

func (p *pairs) enter(x, y *gc.Object) bool {
	if *p == nil {
		*p = make(pairs)
	}
	k := [2]*gc.Object{x, y}
	if (*p)[k] {
		return false
	}
	(*p)[k] = true
	return true
}

// Equal reports whether a and b are equal. Numbers compare by value,
// strings by content, arrays element-wise; dicts and functions by identity.
func Equal(a, b gc.Value) bool {
	var seen pairs
	return equal(a, b, &seen)
}

func equal(a, b gc.Value, seen *pairs) bool {
	if isNumber(a) && isNumber(b) {
		if a.Kind == gc.KindInt && b.Kind == gc.KindInt {
			return a.Int == b.Int
		}
		return toFloat(a) == toFloat(b)
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case gc.KindNil:
		return true
	case gc.KindBool:
		return a.Bool == b.Bool
	case gc.KindString:
		return a.Str() == b.Str()
	case gc.KindArray:
		if a.Obj == b.Obj || !seen.enter(a.Obj, b.Obj) {
			return true
		}
		x, y := a.Array().Items, b.Array().Items
		if len(x) != len(y) {
			return false
		}
		for i := range x {
			if !equal(x[i], y[i], seen) {
				return false
			}
		}
		return true
	default:
		return a.Obj == b.Obj
	}
}

// Compare orders a and b. Values of different kinds, other than mixed
// numbers, cannot be compared.
func Compare(a, b gc.Value) (int, error) {
	var seen pairs
	return compare(a, b, &seen)
}

func compare(a, b gc.Value, seen *pairs) (int, error) {
	if isNumber(a) && isNumber(b) {
		if a.Kind == gc.KindInt && b.Kind == gc.KindInt {
			return cmp.Compare(a.Int, b.Int), nil
		}
		return cmp.Compare(toFloat(a), toFloat(b)), nil
	}
	if a.Kind == b.Kind {
		switch a.Kind {
		case gc.KindNil:
			return 0, nil
		case gc.KindBool:
			switch {
			case a.Bool == b.Bool:
				return 0, nil
			case b.Bool:
				return -1, nil
			default:
				return 1, nil
			}
		case gc.KindString:
			return strings.Compare(a.Str(), b.Str()), nil
		case gc.KindArray:
			if a.Obj == b.Obj || !seen.enter(a.Obj, b.Obj) {
				return 0, nil
			}
			x, y := a.Array().Items, b.Array().Items
			for i := 0; i < len(x) && i < len(y); i++ {
				if c, err := compare(x[i], y[i], seen); err != nil || c != 0 {
					return c, err
				}
			}
			return cmp.Compare(len(x), len(y)), nil
		}
	}
	return 0, &RuntimeError{Msg: "cannot compare " + a.Kind.String() + " with " + b.Kind.String()}
}

// Add implements the binary + operator. Strings and arrays allocate.
func (rt *Runtime) Add(a, b gc.Value) (gc.Value, error) {
	switch {
	case a.Kind == gc.KindInt && b.Kind == gc.KindInt:
		return gc.Int(a.Int + b.Int), nil
	case isNumber(a) && isNumber(b):
		return gc.Float(toFloat(a) + toFloat(b)), nil
	case a.Kind == gc.KindString && b.Kind == gc.KindString:
		return rt.heap.NewString(a.Str() + b.Str()), nil
	case a.Kind == gc.KindArray && b.Kind == gc.KindArray:
		x, y := a.Array(), b.Array()
		// a and b are held by the caller; the new array is filled without
		// allocating.
		result := rt.heap.NewArray(x.Len() + y.Len())
		result.Items = append(result.Items, x.Items...)
		result.Items = append(result.Items, y.Items...)
		return result.Value(), nil
	}
	return gc.Nil, &RuntimeError{Msg: "unsupported operands to +: " + a.Kind.String() + " and " + b.Kind.String()}
}

// Format renders v the way the str builtin does.
func Format(v gc.Value) string {
	var b strings.Builder
	format(&b, v, false, map[*gc.Object]bool{})
	return b.String()
}

// format writes v to b. Containers already being written are elided so a
// self-referencing array prints as [...].
func format(b *strings.Builder, v gc.Value, nested bool, open map[*gc.Object]bool) {
	switch v.Kind {
	case gc.KindNil:
		b.WriteString("nil")
	case gc.KindInt:
		b.WriteString(strconv.FormatInt(v.Int, 10))
	case gc.KindFloat:
		b.WriteString(strconv.FormatFloat(v.Float, 'g', -1, 64))
	case gc.KindBool:
		b.WriteString(strconv.FormatBool(v.Bool))
	case gc.KindString:
		if nested {
			b.WriteString(strconv.Quote(v.Str()))
		} else {
			b.WriteString(v.Str())
		}
	case gc.KindArray:
		if open[v.Obj] {
			b.WriteString("[...]")
			return
		}
		open[v.Obj] = true
		defer delete(open, v.Obj)
		b.WriteByte('[')
		for i, item := range v.Array().Items {
			if i > 0 {
				b.WriteString(", ")
			}
			format(b, item, true, open)
		}
		b.WriteByte(']')
	case gc.KindDict:
		if open[v.Obj] {
			b.WriteString("{...}")
			return
		}
		open[v.Obj] = true
		defer delete(open, v.Obj)
		b.WriteByte('{')
		for i, e := range v.Dict().Entries() {
			if i > 0 {
				b.WriteString(", ")
			}
			format(b, e.Key, true, open)
			b.WriteString(": ")
			format(b, e.Value, true, open)
		}
		b.WriteByte('}')
	case gc.KindFunc:
		b.WriteString("<function " + v.Obj.Name() + ">")
	}
}

// str converts v to a string value, allocating unless v already is one.
func (rt *Runtime) str(v gc.Value) gc.Value {
	if v.Kind == gc.KindString {
		return v
	}
	return rt.heap.NewString(Format(v))
}
