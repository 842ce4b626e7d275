package gc

// Kind is the dynamic type of a Value.
type Kind uint8

const (
	KindNil Kind = iota
	KindInt
	KindFloat
	KindBool
	KindString
	KindArray
	KindDict
	KindFunc
)

var kindNames = [...]string{
	KindNil:    "nil",
	KindInt:    "int",
	KindFloat:  "float",
	KindBool:   "bool",
	KindString: "string",
	KindArray:  "array",
	KindDict:   "dict",
	KindFunc:   "function",
}

func (k Kind) String() string { return kindNames[k] }

// IsHeap reports whether values of this kind live on the collected heap.
func (k Kind) IsHeap() bool { return k >= KindString }

// Value is a runtime value. Scalars are stored inline; strings, arrays,
// dicts and functions point at a heap Object.
type Value struct {
	Kind  Kind
	Int   int64
	Float float64
	Bool  bool
	Obj   *Object
}

// Nil is the nil value.
var Nil = Value{}

// Int returns an integer value.
func Int(i int64) Value { return Value{Kind: KindInt, Int: i} }

// Float returns a float value.
func Float(f float64) Value { return Value{Kind: KindFloat, Float: f} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// IsNil reports whether v is nil.
func (v Value) IsNil() bool { return v.Kind == KindNil }

// Callable reports whether v can be applied.
func (v Value) Callable() bool { return v.Kind == KindFunc }

// Truthy is false only for nil and false.
func (v Value) Truthy() bool {
	switch v.Kind {
	case KindNil:
		return false
	case KindBool:
		return v.Bool
	default:
		return true
	}
}

// Array returns the array object behind v.
func (v Value) Array() *Object {
	if v.Kind != KindArray {
		return nil
	}
	return v.Obj.check("array access")
}

// Dict returns the dict object behind v.
func (v Value) Dict() *Object {
	if v.Kind != KindDict {
		return nil
	}
	return v.Obj.check("dict access")
}

// Str returns the string content of v.
func (v Value) Str() string {
	if v.Kind != KindString {
		return ""
	}
	return v.Obj.check("string access").str
}

// Func returns the native function behind v.
func (v Value) Func() NativeFunc {
	if v.Kind != KindFunc {
		return nil
	}
	return v.Obj.check("call").fn
}
