package stdlib

import (
	"slices"
	"strconv"
	"strings"

	"github.com/funvibe/rootscope/internal/gc"
)

func expectArgs(name string, args []gc.Value, counts ...int) error {
	if slices.Contains(counts, len(args)) {
		return nil
	}
	want := make([]string, len(counts))
	for i, c := range counts {
		want[i] = strconv.Itoa(c)
	}
	return errorf(name, "expects %s argument(s) but got %d", strings.Join(want, " or "), len(args))
}

func intArg(name string, v gc.Value, what string) (int, error) {
	if v.Kind != gc.KindInt {
		return 0, errorf(name, "non-integer passed as %s", what)
	}
	return int(v.Int), nil
}

func callableArg(name string, v gc.Value, what string) error {
	if !v.Callable() {
		return errorf(name, "%s must be callable, got %s", what, v.Kind)
	}
	return nil
}

// bounds normalises a (start, count) pair the way slice and slice! accept
// them: negative values count from the end, both are clamped to the array.
func bounds(name string, length int, args []gc.Value) (int, int, error) {
	s, err := intArg(name, args[0], "the start index")
	if err != nil {
		return 0, 0, err
	}
	n := length
	if len(args) == 2 {
		if n, err = intArg(name, args[1], "the count"); err != nil {
			return 0, 0, err
		}
	}
	if s < 0 {
		s += length
	}
	if s < 0 {
		return 0, 0, errorf(name, "start index is out of range")
	}
	if n < 0 {
		n += length
	}
	if n < 0 {
		return 0, 0, errorf(name, "negative count")
	}
	s = min(s, length)
	n = min(n, length-s)
	return s, n, nil
}

// unchanged fails when a callback left a with fewer than n elements while a
// method was still iterating over it.
func unchanged(name string, a *gc.Object, n int) error {
	if a.Len() < n {
		return errorf(name, "array modified during iteration")
	}
	return nil
}
