package value

import "errors"

// Object is a GEN object instance: a named template plus a mutable property
// table. Objects are reference-semantic - every binding that refers to the
// same instance observes the same property table, so a property assignment
// made through one reference is visible through every other reference to
// the same object. This is a deliberate departure from the original
// interpreter, whose C object_t was copied by value into and out of its
// variable table, which made property writes on an object stored in a
// variable other than the one currently in scope silently fail to persist.
type Object struct {
	Template string
	props    *Table
}

// NewObject returns an empty object created from the named template.
func NewObject(template string) *Object {
	return &Object{Template: template, props: NewTable()}
}

func (*Object) Type() string { return "object" }

func (o *Object) String() string { return "[object]" }

// Get returns the named property, or an error if it has not been set.
func (o *Object) Get(name string) (Value, error) {
	v, ok := o.props.Get(name)
	if !ok {
		return nil, errors.New("Undefined property: " + name)
	}
	return v, nil
}

// Set creates or overwrites the named property.
func (o *Object) Set(name string, v Value) {
	o.props.Set(name, v)
}

// Clone returns a deep copy of the object and its property table, used by
// the test-harness recorder to snapshot a printed object so later
// mutations through a live reference don't retroactively change already
// recorded output.
func (o *Object) Clone() *Object {
	clone := NewObject(o.Template)
	o.props.Each(func(name string, v Value) { clone.props.Set(name, cloneValue(v)) })
	return clone
}
