package gc

import "fmt"

// ProtocolViolation is a bug in runtime or library code that uses the root
// protocol incorrectly. It is raised with panic and must never be absorbed:
// continuing past it could corrupt the heap.
type ProtocolViolation struct {
	Op     string // The primitive or operation that detected the violation
	Detail string
}

func (e *ProtocolViolation) Error() string {
	return fmt.Sprintf("gc protocol violation in %s: %s", e.Op, e.Detail)
}

func violate(op, format string, args ...interface{}) {
	panic(&ProtocolViolation{Op: op, Detail: fmt.Sprintf(format, args...)})
}
