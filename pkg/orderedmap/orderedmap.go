// Package orderedmap provides an insertion-ordered map whose iteration
// order, equality and canonical key are all order-sensitive, so it can be
// embedded inside content-addressed IR values (see pkg/interner). It never
// supports removal: IR values are immutable once built.
package orderedmap

import (
	"fmt"
	"strings"

	"github.com/tydi-lang/tilc/pkg/ilerrors"
)

// Keyable is implemented by value types so Map can derive a stable
// canonical key without resorting to reflection.
type Keyable interface {
	InternKey() string
}

// Map is an insertion-ordered map from a comparable key type K to a value
// type V. Use New to construct one; the zero value is not ready for use.
type Map[K comparable, V any] struct {
	keys   []K
	values map[K]V
}

// New creates an empty ordered map.
func New[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{values: make(map[K]V)}
}

// Of builds an ordered map from a list of key/value pairs, in the order
// given, via TryInsert. It panics on a duplicate key; callers that expect
// duplicates should build incrementally with TryInsert instead.
func Of[K comparable, V any](pairs ...Pair[K, V]) *Map[K, V] {
	m := New[K, V]()
	for _, p := range pairs {
		if err := m.TryInsert(p.Key, p.Value); err != nil {
			panic(err)
		}
	}
	return m
}

// Pair is a single key/value entry, used by Of and Pairs.
type Pair[K comparable, V any] struct {
	Key   K
	Value V
}

// TryInsert inserts key/value, failing with an UnexpectedDuplicate error if
// key is already present.
func (m *Map[K, V]) TryInsert(key K, value V) error {
	if _, exists := m.values[key]; exists {
		return ilerrors.UnexpectedDuplicate(fmt.Sprint(key))
	}
	m.keys = append(m.keys, key)
	m.values[key] = value
	return nil
}

// InsertOrReplace inserts key/value, overwriting any existing value for key
// without disturbing its position in iteration order.
func (m *Map[K, V]) InsertOrReplace(key K, value V) {
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value for key and true, or the zero value and false.
func (m *Map[K, V]) Get(key K) (V, bool) {
	v, ok := m.values[key]
	return v, ok
}

// MustGet returns the value for key, panicking if it is absent. Reserved
// for call sites that have already checked membership (e.g. iterating Keys).
func (m *Map[K, V]) MustGet(key K) V {
	v, ok := m.values[key]
	if !ok {
		panic(fmt.Sprintf("orderedmap: key %v not present", key))
	}
	return v
}

// Has reports whether key is present.
func (m *Map[K, V]) Has(key K) bool {
	_, ok := m.values[key]
	return ok
}

// Len returns the number of entries.
func (m *Map[K, V]) Len() int {
	return len(m.keys)
}

// Keys returns the keys in insertion order.
func (m *Map[K, V]) Keys() []K {
	out := make([]K, len(m.keys))
	copy(out, m.keys)
	return out
}

// Pairs returns all entries as Key/Value pairs in insertion order.
func (m *Map[K, V]) Pairs() []Pair[K, V] {
	out := make([]Pair[K, V], 0, len(m.keys))
	for _, k := range m.keys {
		out = append(out, Pair[K, V]{Key: k, Value: m.values[k]})
	}
	return out
}

// Each calls fn for every entry in insertion order. Returning an error from
// fn stops iteration and Each returns it unchanged.
func (m *Map[K, V]) Each(fn func(key K, value V) error) error {
	for _, k := range m.keys {
		if err := fn(k, m.values[k]); err != nil {
			return err
		}
	}
	return nil
}

// Map2 returns a new ordered map with every value transformed by fn, keys
// and order preserved.
func Map2[K comparable, V any, W any](m *Map[K, V], fn func(K, V) W) *Map[K, W] {
	out := New[K, W]()
	for _, k := range m.keys {
		out.InsertOrReplace(k, fn(k, m.values[k]))
	}
	return out
}

// Clone returns a shallow copy with the same keys, values and order.
func (m *Map[K, V]) Clone() *Map[K, V] {
	out := New[K, V]()
	out.keys = append(out.keys, m.keys...)
	for k, v := range m.values {
		out.values[k] = v
	}
	return out
}

// InternKey renders a canonical, order-sensitive key for this map, suitable
// for embedding in a parent IR value's own InternKey. Values must implement
// Keyable.
func (m *Map[K, V]) InternKey() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			b.WriteByte(',')
		}
		v := any(m.values[k])
		keyable, ok := v.(Keyable)
		if !ok {
			panic(fmt.Sprintf("orderedmap: value for key %v does not implement Keyable", k))
		}
		fmt.Fprintf(&b, "%v:%s", k, keyable.InternKey())
	}
	b.WriteByte('}')
	return b.String()
}

// Set is the degenerate ordered map whose values carry no information.
type Set[K comparable] struct {
	m *Map[K, struct{}]
}

// NewSet creates an empty ordered set.
func NewSet[K comparable]() *Set[K] {
	return &Set[K]{m: New[K, struct{}]()}
}

// TryAdd adds key, failing with UnexpectedDuplicate if already present.
func (s *Set[K]) TryAdd(key K) error {
	return s.m.TryInsert(key, struct{}{})
}

// Add adds key, silently doing nothing if it is already present.
func (s *Set[K]) Add(key K) {
	s.m.InsertOrReplace(key, struct{}{})
}

// Has reports whether key is present.
func (s *Set[K]) Has(key K) bool {
	return s.m.Has(key)
}

// Len returns the number of entries.
func (s *Set[K]) Len() int {
	return s.m.Len()
}

// Keys returns the members in insertion order.
func (s *Set[K]) Keys() []K {
	return s.m.Keys()
}

// InternKey renders a canonical, order-sensitive key for this set.
func (s *Set[K]) InternKey() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, k := range s.m.Keys() {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%v", k)
	}
	b.WriteByte(']')
	return b.String()
}
