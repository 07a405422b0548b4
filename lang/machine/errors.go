package machine

import "fmt"

// Error reports a runtime error tagged with the source line the failing
// instruction was compiled from.
type Error struct {
	Line    int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("Runtime Error (line %d): %s", e.Line, e.Message)
}

func (m *Machine) errf(line int, format string, args ...any) error {
	return &Error{Line: line, Message: fmt.Sprintf(format, args...)}
}
