package logical

import (
	"fmt"
	"math/bits"

	"github.com/tydi-lang/tilc/pkg/generics"
	"github.com/tydi-lang/tilc/pkg/ilerrors"
	"github.com/tydi-lang/tilc/pkg/name"
	"github.com/tydi-lang/tilc/pkg/numeric"
	"github.com/tydi-lang/tilc/pkg/orderedmap"
)

// FieldSet is the lazily-flattened signal payload of a single stream
// (spec.md §4.3.2): a declared-order map from the field's path, relative to
// the type it was computed on, to its bit width.
type FieldSet = orderedmap.Map[name.PathName, numeric.Positive]

// SplitResult is the return shape of split_streams (spec.md §4.3.3).
type SplitResult struct {
	Signals TypeId
	Streams *orderedmap.Map[name.PathName, StreamId]
}

// IsNull evaluates the memoized is_null(id) query.
func (db *Db) IsNull(id TypeId) (bool, error) {
	return db.isNull.Eval(id)
}

// Fields evaluates the memoized fields(id) query.
func (db *Db) Fields(id TypeId) (*FieldSet, error) {
	return db.fields.Eval(id)
}

// SplitStreams evaluates the memoized split_streams(id) query.
func (db *Db) SplitStreams(id TypeId) (SplitResult, error) {
	return db.splitStreams.Eval(id)
}

func (db *Db) computeIsNull(id TypeId) (bool, error) {
	t := db.Lookup(id)
	switch t.Kind() {
	case KindNull:
		return true, nil
	case KindBits:
		return false, nil
	case KindGroup:
		allNull := true
		err := t.Fields().Each(func(_ name.Name, child TypeId) error {
			null, err := db.isNull.Eval(child)
			if err != nil {
				return err
			}
			if !null {
				allNull = false
			}
			return nil
		})
		return allNull, err
	case KindUnion:
		fields := t.Fields()
		switch {
		case fields.Len() > 1:
			// a tag field is always present when there is more than one
			// variant, so the union can never be null.
			return false, nil
		case fields.Len() == 0:
			return true, nil
		default:
			only := fields.Pairs()[0].Value
			return db.isNull.Eval(only)
		}
	case KindStream:
		s := db.LookupStream(t.StreamId())
		dataNull, err := db.isNull.Eval(s.Data)
		if err != nil {
			return false, err
		}
		userNull, err := db.isNull.Eval(s.User)
		if err != nil {
			return false, err
		}
		return dataNull && userNull && !s.Keep, nil
	default:
		return false, ilerrors.InvalidArgument("is_null: unknown kind %v", t.Kind())
	}
}

func (db *Db) computeFields(id TypeId) (*FieldSet, error) {
	t := db.Lookup(id)
	switch t.Kind() {
	case KindNull, KindStream:
		return orderedmap.New[name.PathName, numeric.Positive](), nil
	case KindBits:
		out := orderedmap.New[name.PathName, numeric.Positive]()
		out.InsertOrReplace(name.EmptyPathName(), t.Bits())
		return out, nil
	case KindGroup:
		out := orderedmap.New[name.PathName, numeric.Positive]()
		err := t.Fields().Each(func(fieldName name.Name, child TypeId) error {
			childFields, err := db.fields.Eval(child)
			if err != nil {
				return err
			}
			for _, pair := range childFields.Pairs() {
				path := pair.Key.WithParent(fieldName)
				if err := out.TryInsert(path, pair.Value); err != nil {
					return ilerrors.Context(err, fmt.Sprintf("overlapping field path %q while flattening group", path.String()))
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		return out, nil
	case KindUnion:
		return db.unionFields(t.Fields())
	default:
		return nil, ilerrors.InvalidArgument("fields: unknown kind %v", t.Kind())
	}
}

// unionFields implements spec.md §4.3.2's union rule: a tag field of
// ceil(log2(F)) bits is prepended when there is more than one variant, and
// a union field sized to the widest single bit count reachable from any
// variant's own flattened fields is appended when that width is nonzero.
func (db *Db) unionFields(variants *orderedmap.Map[name.Name, TypeId]) (*FieldSet, error) {
	out := orderedmap.New[name.PathName, numeric.Positive]()

	if variants.Len() > 1 {
		tagBits, err := numeric.NewPositive(ceilLog2(uint64(variants.Len())))
		if err != nil {
			return nil, err
		}
		out.InsertOrReplace(name.NewPathName(name.MustNew("tag")), tagBits)
	}

	var maxBits uint64
	err := variants.Each(func(_ name.Name, child TypeId) error {
		childFields, err := db.fields.Eval(child)
		if err != nil {
			return err
		}
		for _, pair := range childFields.Pairs() {
			if v := pair.Value.Value(); v > maxBits {
				maxBits = v
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if maxBits > 0 {
		unionBits, err := numeric.NewPositive(maxBits)
		if err != nil {
			return nil, err
		}
		out.InsertOrReplace(name.NewPathName(name.MustNew("union")), unionBits)
	}
	return out, nil
}

// ceilLog2 returns ceil(log2(n)) for n >= 1, and 0 for n <= 1 (no selector
// bits are needed to distinguish fewer than two alternatives).
func ceilLog2(n uint64) uint64 {
	if n <= 1 {
		return 0
	}
	return uint64(bits.Len64(n - 1))
}

func (db *Db) computeSplitStreams(id TypeId) (SplitResult, error) {
	t := db.Lookup(id)
	switch t.Kind() {
	case KindNull, KindBits:
		return SplitResult{Signals: id, Streams: orderedmap.New[name.PathName, StreamId]()}, nil
	case KindGroup:
		return db.splitAggregate(t.Fields(), Group)
	case KindUnion:
		return db.splitAggregate(t.Fields(), Union)
	case KindStream:
		return db.splitStream(t.StreamId())
	default:
		return SplitResult{}, ilerrors.InvalidArgument("split_streams: unknown kind %v", t.Kind())
	}
}

// splitAggregate implements the Group/Union case of §4.3.3: split every
// field, mirror the aggregate shape with each field's signals, and union
// the per-field stream maps under field-name-prefixed paths.
func (db *Db) splitAggregate(rawFields *orderedmap.Map[name.Name, TypeId], rebuild func(*orderedmap.Map[name.Name, TypeId]) LogicalType) (SplitResult, error) {
	newFields := orderedmap.New[name.Name, TypeId]()
	streams := orderedmap.New[name.PathName, StreamId]()

	err := rawFields.Each(func(fieldName name.Name, child TypeId) error {
		res, err := db.splitStreams.Eval(child)
		if err != nil {
			return err
		}
		newFields.InsertOrReplace(fieldName, res.Signals)
		for _, pair := range res.Streams.Pairs() {
			path := pair.Key.WithParent(fieldName)
			if err := streams.TryInsert(path, pair.Value); err != nil {
				return ilerrors.Context(err, fmt.Sprintf("overlapping stream name %q - add `keep` or disambiguate", path.String()))
			}
		}
		return nil
	})
	if err != nil {
		return SplitResult{}, err
	}

	signalsId := db.Intern(rebuild(newFields))
	return SplitResult{Signals: signalsId, Streams: streams}, nil
}

// splitStream implements the Stream(S) case of §4.3.3: recursively split
// the element data, decide whether this level survives optimization, and
// compose dimensionality/throughput/synchronicity/direction into every
// inner stream it inherits.
func (db *Db) splitStream(id StreamId) (SplitResult, error) {
	s := db.LookupStream(id)

	elementRes, err := db.splitStreams.Eval(s.Data)
	if err != nil {
		return SplitResult{}, err
	}

	elementNull, err := db.isNull.Eval(elementRes.Signals)
	if err != nil {
		return SplitResult{}, err
	}
	userNull, err := db.isNull.Eval(s.User)
	if err != nil {
		return SplitResult{}, err
	}

	streams := orderedmap.New[name.PathName, StreamId]()

	if !elementNull || !userNull || s.Keep {
		own, err := NewStream(db, elementRes.Signals, s.Throughput, s.Dimensionality, s.Synchronicity, s.Complexity, s.Direction, s.User, s.Keep)
		if err != nil {
			return SplitResult{}, err
		}
		ownId := db.InternStream(own)
		if err := streams.TryInsert(name.EmptyPathName(), ownId); err != nil {
			return SplitResult{}, ilerrors.Context(err, "overlapping stream name - add `keep` or disambiguate")
		}
	}

	for _, pair := range elementRes.Streams.Pairs() {
		inner := db.LookupStream(pair.Value)

		newDirection := inner.Direction
		if s.Direction == Reverse {
			newDirection = newDirection.Flip()
		}

		newSync := inner.Synchronicity
		newDim := inner.Dimensionality
		if s.Synchronicity == Flatten || s.Synchronicity == FlatDesync {
			newSync = FlatDesync
		} else {
			combined, err := generics.Combine(generics.OpAdd, s.Dimensionality, inner.Dimensionality)
			if err != nil {
				return SplitResult{}, err
			}
			newDim = combined
		}

		newThroughput := s.Throughput.Mul(inner.Throughput)

		composed := Stream{
			Data:           inner.Data,
			Throughput:     newThroughput,
			Dimensionality: newDim,
			Synchronicity:  newSync,
			Complexity:     inner.Complexity,
			Direction:      newDirection,
			User:           inner.User,
			Keep:           inner.Keep,
		}
		composedId := db.InternStream(composed)

		if err := streams.TryInsert(pair.Key, composedId); err != nil {
			return SplitResult{}, ilerrors.InvalidArgument("overlapping stream name %q - add `keep` or disambiguate", pair.Key.String())
		}
	}

	nullId := db.Intern(Null())
	return SplitResult{Signals: nullId, Streams: streams}, nil
}
