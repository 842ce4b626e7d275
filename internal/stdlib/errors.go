package stdlib

import "fmt"

// RuntimeError is a user-facing error raised by a library method: wrong
// argument count or type, an index out of range, an uncomparable pair.
type RuntimeError struct {
	Method string
	Msg    string
}

func (e *RuntimeError) Error() string {
	if e.Method == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s(): %s", e.Method, e.Msg)
}

func errorf(method, format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{Method: method, Msg: fmt.Sprintf(format, args...)}
}
