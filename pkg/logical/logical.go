// Package logical implements the tagged-sum logical-type algebra of
// spec.md §3.3-3.5 and its three memoized queries (§4.3): is_null, fields
// and split_streams, the central lowering from logical types to physical
// streams.
package logical

import (
	"fmt"

	"github.com/tydi-lang/tilc/pkg/interner"
	"github.com/tydi-lang/tilc/pkg/name"
	"github.com/tydi-lang/tilc/pkg/numeric"
	"github.com/tydi-lang/tilc/pkg/orderedmap"
)

// Kind discriminates LogicalType's five variants.
type Kind int

const (
	KindNull Kind = iota
	KindBits
	KindGroup
	KindUnion
	KindStream
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindBits:
		return "Bits"
	case KindGroup:
		return "Group"
	case KindUnion:
		return "Union"
	case KindStream:
		return "Stream"
	default:
		return "Unknown"
	}
}

// TypeId is a handle to an interned LogicalType.
type TypeId = interner.Id[LogicalType]

// LogicalType is the tagged sum of spec.md §3.3. Only one of its payload
// fields is meaningful, selected by Kind; the zero value (KindNull) is the
// Null variant and requires no payload.
type LogicalType struct {
	kind   Kind
	bits   numeric.Positive               // KindBits
	fields *orderedmap.Map[name.Name, TypeId] // KindGroup / KindUnion
	stream StreamId                        // KindStream
}

// Null constructs the Null variant.
func Null() LogicalType {
	return LogicalType{kind: KindNull}
}

// Bits constructs a b-bit payload variant.
func Bits(b numeric.Positive) LogicalType {
	return LogicalType{kind: KindBits, bits: b}
}

// Group constructs a product-type variant over fields, in declared order.
func Group(fields *orderedmap.Map[name.Name, TypeId]) LogicalType {
	return LogicalType{kind: KindGroup, fields: fields}
}

// Union constructs a tagged-sum variant over fields, in declared order.
func Union(fields *orderedmap.Map[name.Name, TypeId]) LogicalType {
	return LogicalType{kind: KindUnion, fields: fields}
}

// Stream constructs the physical-stream-boundary variant wrapping s.
func Stream(s StreamId) LogicalType {
	return LogicalType{kind: KindStream, stream: s}
}

// Kind reports which variant this value is.
func (t LogicalType) Kind() Kind { return t.kind }

// Bits returns the bit width; valid only when Kind() == KindBits.
func (t LogicalType) Bits() numeric.Positive { return t.bits }

// Fields returns the declared-order field map; valid only when Kind() is
// KindGroup or KindUnion.
func (t LogicalType) Fields() *orderedmap.Map[name.Name, TypeId] { return t.fields }

// StreamId returns the wrapped stream handle; valid only when Kind() ==
// KindStream.
func (t LogicalType) StreamId() StreamId { return t.stream }

// InternKey implements interner.Keyed: two LogicalType values intern to the
// same TypeId iff they are structurally equal.
func (t LogicalType) InternKey() string {
	switch t.kind {
	case KindNull:
		return "Null"
	case KindBits:
		return "Bits(" + t.bits.String() + ")"
	case KindGroup:
		return "Group" + t.fields.InternKey()
	case KindUnion:
		return "Union" + t.fields.InternKey()
	case KindStream:
		return "Stream(" + t.stream.String() + ")"
	default:
		panic(fmt.Sprintf("logical: unknown kind %d", t.kind))
	}
}

// Db owns the two interners backing the logical-type algebra: one for
// LogicalType itself, one for Stream (spec.md §3.9: "IR nodes refer to
// each other exclusively by ids"). Keeping them as separate Store[T]
// instances, cross-referenced only through TypeId/StreamId, is what lets a
// Stream embed logical types that themselves embed further streams without
// any Go-level structural cycle.
type Db struct {
	Types   *interner.Store[LogicalType]
	Streams *interner.Store[Stream]

	isNull       *interner.Query[LogicalType, bool]
	fields       *interner.Query[LogicalType, *FieldSet]
	splitStreams *interner.Query[LogicalType, SplitResult]
}

// NewDb creates an empty Db with its memoized queries wired up.
func NewDb() *Db {
	db := &Db{
		Types:   interner.NewStore[LogicalType](),
		Streams: interner.NewStore[Stream](),
	}
	db.isNull = interner.NewQuery(db.Types, db.computeIsNull)
	db.fields = interner.NewQuery(db.Types, db.computeFields)
	db.splitStreams = interner.NewQuery(db.Types, db.computeSplitStreams)
	return db
}

// Intern interns a LogicalType and returns its stable id.
func (db *Db) Intern(t LogicalType) TypeId {
	return db.Types.Intern(t)
}

// InternStream interns a Stream and returns its stable id.
func (db *Db) InternStream(s Stream) StreamId {
	return db.Streams.Intern(s)
}

// Lookup returns the LogicalType for id.
func (db *Db) Lookup(id TypeId) LogicalType {
	return db.Types.Lookup(id)
}

// LookupStream returns the Stream for id.
func (db *Db) LookupStream(id StreamId) Stream {
	return db.Streams.Lookup(id)
}

// IsElementOnly reports whether id's type contains no Stream variant
// anywhere in its tree, recursively through Group/Union fields. This is
// the property required of Stream.user (spec.md §3.3) and is checked by
// NewStream.
func (db *Db) IsElementOnly(id TypeId) bool {
	t := db.Lookup(id)
	switch t.kind {
	case KindNull, KindBits:
		return true
	case KindGroup, KindUnion:
		ok := true
		t.fields.Each(func(_ name.Name, child TypeId) error {
			if !db.IsElementOnly(child) {
				ok = false
			}
			return nil
		})
		return ok
	case KindStream:
		return false
	default:
		return false
	}
}
