// Package value implements the GEN runtime value model: the tagged union of
// Number, Boolean, String, Array, Object and Enum that flows through the
// compiler's constant pool and the virtual machine's stack.
package value

import "fmt"

// Value is the interface implemented by every GEN runtime value.
type Value interface {
	// Type returns the GEN type name, as used in diagnostics (e.g. "number").
	Type() string
	// String renders the value the way the print statement does.
	String() string
}

// Number is a GEN numeric value. GEN has no separate integer type: all
// arithmetic is done in float64, with integral results printed without a
// decimal point.
type Number float64

func (Number) Type() string { return "number" }

func (n Number) String() string {
	if f := float64(n); f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%.2f", float64(n))
}

// Boolean is a GEN boolean value.
type Boolean bool

func (Boolean) Type() string { return "boolean" }

func (b Boolean) String() string {
	if b {
		return "true"
	}
	return "false"
}

// String is a GEN string value. Strings are immutable, so Go's native value
// semantics for the string type already match GEN's copy-on-write-free
// sharing of string contents.
type String string

func (String) Type() string { return "string" }
func (s String) String() string { return string(s) }

var (
	_ Value = Number(0)
	_ Value = Boolean(false)
	_ Value = String("")
	_ Value = (*Array)(nil)
	_ Value = (*Object)(nil)
	_ Value = (*Enum)(nil)
)
