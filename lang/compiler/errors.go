package compiler

import (
	"errors"
	"fmt"
)

var errTooManyConstants = errors.New("constant pool exceeded 65535 entries")

// Error reports a compile-time error tagged with the source line it was
// detected on.
type Error struct {
	Line    int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("Compiler Error (line %d): %s", e.Line, e.Message)
}
