package machine

import (
	"github.com/dolthub/swiss"
	"golang.org/x/exp/slices"
)

// A Table is a name-to-value mapping backed by a swiss-table map. It backs
// the globals of a machine, the method table of a class and the field table
// of an instance.
type Table struct {
	m *swiss.Map[string, Value]
}

// NewTable returns a table with initial capacity for at least size entries.
func NewTable(size int) *Table {
	return &Table{m: swiss.NewMap[string, Value](uint32(size))}
}

// Get returns the value bound to name.
func (t *Table) Get(name string) (Value, bool) {
	return t.m.Get(name)
}

// Set binds name to v, overwriting any previous binding.
func (t *Table) Set(name string, v Value) {
	t.m.Put(name, v)
}

// Len returns the number of bindings.
func (t *Table) Len() int {
	return t.m.Count()
}

// CopyInto copies every binding into dst, overwriting existing names. It is
// what class inheritance uses to seed the subclass method table.
func (t *Table) CopyInto(dst *Table) {
	t.m.Iter(func(name string, v Value) bool {
		dst.m.Put(name, v)
		return false
	})
}

// Names returns the bound names in sorted order, for deterministic dumps.
func (t *Table) Names() []string {
	names := make([]string, 0, t.m.Count())
	t.m.Iter(func(name string, _ Value) bool {
		names = append(names, name)
		return false
	})
	slices.Sort(names)
	return names
}
