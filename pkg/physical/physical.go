package physical

import (
	"math/bits"

	"github.com/tydi-lang/tilc/pkg/complexity"
	"github.com/tydi-lang/tilc/pkg/generics"
	"github.com/tydi-lang/tilc/pkg/logical"
	"github.com/tydi-lang/tilc/pkg/name"
	"github.com/tydi-lang/tilc/pkg/numeric"
	"github.com/tydi-lang/tilc/pkg/orderedmap"
)

// PhysicalStream is the derived (never authored) leaf of lowering,
// spec.md §3.6.
type PhysicalStream struct {
	ElementFields *logical.FieldSet
	ElementLanes  numeric.Positive
	Dimensionality generics.Value
	Complexity    complexity.Complexity
	User          *logical.FieldSet
	Direction     logical.Direction
}

// NewPhysicalStream builds a PhysicalStream from an already-split logical
// Stream: s.Data is expected to be the pure "signals" type produced by
// split_streams (no nested Stream variant remains in it).
func NewPhysicalStream(db *logical.Db, s logical.Stream) (PhysicalStream, error) {
	elementFields, err := db.Fields(s.Data)
	if err != nil {
		return PhysicalStream{}, err
	}
	userFields, err := db.Fields(s.User)
	if err != nil {
		return PhysicalStream{}, err
	}
	return PhysicalStream{
		ElementFields:  elementFields,
		ElementLanes:   s.Throughput.Ceil(),
		Dimensionality: s.Dimensionality,
		Complexity:     s.Complexity,
		User:           userFields,
		Direction:      s.Direction,
	}, nil
}

// ElementNames derives a flat display name for each element field path, the
// SPEC_FULL-supplemented helper for labelling signal bits by their
// originating field (grounded on the original's physical_transfer.rs
// naming): the path's canonical text, or "data" for the empty path.
func (ps PhysicalStream) ElementNames() *orderedmap.Map[name.PathName, string] {
	out := orderedmap.New[name.PathName, string]()
	ps.ElementFields.Each(func(path name.PathName, _ numeric.Positive) error {
		label := path.String()
		if label == "" {
			label = "data"
		}
		out.InsertOrReplace(path, label)
		return nil
	})
	return out
}

// SignalList is the derived per-signal bit-count table of spec.md §4.2.
// A nil field means the signal is absent for this stream.
type SignalList struct {
	Valid BitCount
	Ready BitCount
	Data  *BitCount
	Last  *BitCount
	Stai  *BitCount
	Endi  *BitCount
	Strb  *BitCount
	User  *BitCount
}

// DeriveSignalList implements the §4.2 table: for a PhysicalStream with
// complexity major C and N = element_lanes, decide which of
// {valid, ready, data, last, stai, endi, strb, user} are present and their
// widths.
func DeriveSignalList(ps PhysicalStream) SignalList {
	c := ps.Complexity.Major()
	n := ps.ElementLanes.Value()

	sl := SignalList{
		Valid: Fixed(numeric.MustPositive(1)),
		Ready: Fixed(numeric.MustPositive(1)),
	}

	elementBitSum := sumFields(ps.ElementFields)
	if elementBitSum*n > 0 {
		bc := Fixed(numeric.MustPositive(elementBitSum * n))
		sl.Data = &bc
	}

	dimAtLeastOne := dimensionalityAtLeastOne(ps.Dimensionality)
	if dimAtLeastOne {
		width := fromGenericsValue(ps.Dimensionality)
		if c >= 8 {
			width = Combine(generics.OpMul, width, Fixed(numeric.MustPositive(n)))
		}
		sl.Last = &width
	}

	if c >= 6 && n > 1 {
		bc := Fixed(numeric.MustPositive(ceilLog2(n)))
		sl.Stai = &bc
	}

	if (c >= 5 || dimAtLeastOne) && n > 1 {
		bc := Fixed(numeric.MustPositive(ceilLog2(n)))
		sl.Endi = &bc
	}

	if c >= 7 || dimAtLeastOne {
		bc := Fixed(numeric.MustPositive(n))
		sl.Strb = &bc
	}

	userBitSum := sumFields(ps.User)
	if userBitSum > 0 {
		bc := Fixed(numeric.MustPositive(userBitSum))
		sl.User = &bc
	}

	return sl
}

// dimensionalityAtLeastOne reports whether ps.Dimensionality is known to be
// >= 1. A symbolic (unresolved) dimensionality is conservatively treated as
// satisfying the gate: the Dimensionality generic kind defaults to 1 (see
// pkg/generics.KindDimensionality), so a still-unbound reference is more
// likely than not to resolve to a nonzero dimension by the time signals are
// composed into a back end.
func dimensionalityAtLeastOne(v generics.Value) bool {
	if fixed, ok := v.AsFixed(); ok {
		return fixed >= 1
	}
	return true
}

func sumFields(fields *logical.FieldSet) uint64 {
	var total uint64
	fields.Each(func(_ name.PathName, width numeric.Positive) error {
		total += width.Value()
		return nil
	})
	return total
}

func ceilLog2(n uint64) uint64 {
	if n <= 1 {
		return 0
	}
	return uint64(bits.Len64(n - 1))
}
