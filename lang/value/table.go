package value

import "github.com/dolthub/swiss"

// defaultTableSize is the initial bucket count handed to swiss.NewMap for a
// freshly created Table. It mirrors the small initial capacities the
// original interpreter used for its identifier tables.
const defaultTableSize = 8

// Table is an identifier-to-Value binding table, backed by a swiss-table
// hash map. It is used for the global table (which holds global variables,
// function entry points and enums together), enum member tables,
// per-object property tables and per-call-frame locals tables.
type Table struct {
	m    *swiss.Map[string, Value]
	keys []string
}

// NewTable creates an empty Table.
func NewTable() *Table {
	return &Table{m: swiss.NewMap[string, Value](uint32(defaultTableSize))}
}

// Get looks up name, reporting whether it was bound.
func (t *Table) Get(name string) (Value, bool) {
	return t.m.Get(name)
}

// Has reports whether name is bound in the table.
func (t *Table) Has(name string) bool {
	_, ok := t.m.Get(name)
	return ok
}

// Set binds name to v, overwriting any previous binding.
func (t *Table) Set(name string, v Value) {
	if !t.Has(name) {
		t.keys = append(t.keys, name)
	}
	t.m.Put(name, v)
}

// Len returns the number of bindings in the table.
func (t *Table) Len() int { return len(t.keys) }

// Each calls fn for every binding in the table, in the order the bindings
// were first set.
func (t *Table) Each(fn func(name string, v Value)) {
	for _, k := range t.keys {
		v, ok := t.m.Get(k)
		if ok {
			fn(k, v)
		}
	}
}
