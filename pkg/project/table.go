package project

import (
	"fmt"

	"github.com/tydi-lang/tilc/pkg/ilerrors"
	"github.com/tydi-lang/tilc/pkg/name"
	"github.com/tydi-lang/tilc/pkg/orderedmap"
)

// Table is the two-layer symbol table of spec.md §4.6: names declared
// directly in a namespace, and names pulled in by its import statements.
// Resolve consults Declared first, then Imported, matching "first look up
// in the local table; on miss, look up in imports".
type Table[V any] struct {
	Declared *orderedmap.Map[name.Name, V]
	Imported *orderedmap.Map[name.Name, V]
}

// NewTable returns an empty two-layer table.
func NewTable[V any]() *Table[V] {
	return &Table[V]{
		Declared: orderedmap.New[name.Name, V](),
		Imported: orderedmap.New[name.Name, V](),
	}
}

// Declare registers a locally-defined name, failing if it is already
// declared in this namespace.
func (t *Table[V]) Declare(n name.Name, v V) error {
	if err := t.Declared.TryInsert(n, v); err != nil {
		return ilerrors.InvalidArgument("%q is already declared in this namespace", n)
	}
	return nil
}

// Import registers a name brought in from another namespace, failing if
// this namespace already imports a (possibly different) declaration under
// that name.
func (t *Table[V]) Import(n name.Name, v V) error {
	if err := t.Imported.TryInsert(n, v); err != nil {
		return ilerrors.InvalidArgument("%q is already imported into this namespace", n)
	}
	return nil
}

// Resolve looks up n, declared names taking precedence over imported ones.
func (t *Table[V]) Resolve(n name.Name) (V, bool) {
	if v, ok := t.Declared.Get(n); ok {
		return v, true
	}
	if v, ok := t.Imported.Get(n); ok {
		return v, true
	}
	var zero V
	return zero, false
}

func (t *Table[V]) String() string {
	return fmt.Sprintf("{declared:%d imported:%d}", t.Declared.Len(), t.Imported.Len())
}
