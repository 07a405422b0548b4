package value

import (
	"errors"
	"strconv"
	"strings"

	"golang.org/x/exp/slices"
)

// Array is an ordered, mutable, reference-semantic sequence of Values.
// Arrays are always handled through a pointer so that a copy stored in one
// binding and a copy stored in another still observe each other's mutations,
// matching the shared-handle container model GEN's object/array values use.
type Array struct {
	elems []Value
}

// NewArray returns an Array holding elems, taking ownership of the slice.
func NewArray(elems []Value) *Array {
	if elems == nil {
		elems = []Value{}
	}
	return &Array{elems: elems}
}

func (*Array) Type() string { return "array" }

func (a *Array) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, e := range a.elems {
		if i > 0 {
			sb.WriteString(", ")
		}
		if s, ok := e.(String); ok {
			sb.WriteByte('"')
			sb.WriteString(string(s))
			sb.WriteByte('"')
		} else {
			sb.WriteString(e.String())
		}
	}
	sb.WriteByte(']')
	return sb.String()
}

// Len returns the number of elements in the array.
func (a *Array) Len() int { return len(a.elems) }

// Get returns the element at index, or an error if index is out of range.
func (a *Array) Get(index int) (Value, error) {
	if index < 0 || index >= len(a.elems) {
		return nil, errIndexOutOfRange(index, len(a.elems))
	}
	return a.elems[index], nil
}

// Set writes v at index, growing the array with trailing Number(0) elements
// if index is beyond the current length, matching the original
// interpreter's array_add_element behaviour of always being able to set an
// element at an index not yet seen during array-literal construction.
func (a *Array) Set(index int, v Value) error {
	if index < 0 {
		return errIndexOutOfRange(index, len(a.elems))
	}
	for index >= len(a.elems) {
		a.elems = append(a.elems, Number(0))
	}
	a.elems[index] = v
	return nil
}

// Append adds v to the end of the array, used by the polymorphic ADD
// opcode when its left operand is an array.
func (a *Array) Append(v Value) {
	a.elems = append(a.elems, v)
}

// DropTrailing removes the last n elements, used by the polymorphic SUB
// opcode when its left operand is an array and its right operand a count.
// Removing more elements than exist simply empties the array.
func (a *Array) DropTrailing(n int) {
	if n <= 0 {
		return
	}
	if n >= len(a.elems) {
		a.elems = a.elems[:0]
		return
	}
	a.elems = slices.Delete(a.elems, len(a.elems)-n, len(a.elems))
}

// Clone returns a deep copy of the array, snapshotting nested reference
// values too. Used by the test-harness recorder so a later in-place
// mutation of a still-live array cannot retroactively corrupt already
// recorded output.
func (a *Array) Clone() *Array {
	out := make([]Value, len(a.elems))
	for i, e := range a.elems {
		out[i] = cloneValue(e)
	}
	return &Array{elems: out}
}

func cloneValue(v Value) Value {
	switch vv := v.(type) {
	case *Array:
		return vv.Clone()
	case *Object:
		return vv.Clone()
	case *Enum:
		return vv.Clone()
	default:
		return v
	}
}

func errIndexOutOfRange(index, length int) error {
	return errors.New("Index out of range: " + strconv.Itoa(index) + " (length " + strconv.Itoa(length) + ")")
}
