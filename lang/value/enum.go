package value

import "errors"

// Enum is a GEN enum: a fixed table of member name to ordinal (0-based)
// built once, at the point the enum declaration is reached during
// execution, and bound under its own name in the global variable table.
type Enum struct {
	Name    string
	members *Table
}

// NewEnum returns an empty enum named name.
func NewEnum(name string) *Enum {
	return &Enum{Name: name, members: NewTable()}
}

func (*Enum) Type() string { return "enum" }

func (e *Enum) String() string { return "[enum]" }

// Add binds member to the next available ordinal.
func (e *Enum) Add(member string) {
	e.members.Set(member, Number(e.members.Len()))
}

// Len reports how many members the enum has.
func (e *Enum) Len() int { return e.members.Len() }

// Member looks up a member's ordinal value.
func (e *Enum) Member(name string) (Value, error) {
	v, ok := e.members.Get(name)
	if !ok {
		return nil, errors.New("Undefined enum member: " + name)
	}
	return v, nil
}

// Clone returns a copy of the enum. Enums are immutable once built, so this
// is cheap and mostly exists to satisfy the harness recorder's uniform
// snapshot-on-print contract for reference values.
func (e *Enum) Clone() *Enum {
	clone := NewEnum(e.Name)
	e.members.Each(func(name string, v Value) { clone.members.Set(name, v) })
	return clone
}
