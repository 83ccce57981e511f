// Package numeric provides the small validated numeric newtypes the IR
// uses throughout: Positive (>=1), Natural (>=0) and PositiveReal (>0.0).
package numeric

import (
	"strconv"

	"github.com/tydi-lang/tilc/pkg/ilerrors"
)

// Positive is an integer known to be >= 1, used for Bits widths and
// PhysicalStream.element_lanes.
type Positive struct{ value uint64 }

// NewPositive validates v >= 1.
func NewPositive(v uint64) (Positive, error) {
	if v < 1 {
		return Positive{}, ilerrors.InvalidArgument("value must be positive, got %d", v)
	}
	return Positive{value: v}, nil
}

// MustPositive is NewPositive but panics on failure; reserved for literals
// known to be valid.
func MustPositive(v uint64) Positive {
	p, err := NewPositive(v)
	if err != nil {
		panic(err)
	}
	return p
}

// Value returns the underlying integer.
func (p Positive) Value() uint64 { return p.value }

func (p Positive) String() string { return strconv.FormatUint(p.value, 10) }

// InternKey implements interner.Keyed / orderedmap.Keyable for values that
// embed a Positive directly (rare; most callers embed it inside a larger
// struct that builds its own key).
func (p Positive) InternKey() string { return "P" + p.String() }

// Natural is an integer known to be >= 0.
type Natural struct{ value uint64 }

// NewNatural validates v >= 0, which is to say it never fails for a uint64;
// it exists so call sites can express the domain constraint explicitly and
// so a future signed representation stays safe.
func NewNatural(v uint64) Natural {
	return Natural{value: v}
}

// Value returns the underlying integer.
func (n Natural) Value() uint64 { return n.value }

func (n Natural) String() string { return strconv.FormatUint(n.value, 10) }

// PositiveReal is a float64 known to be > 0, used for Stream.throughput.
type PositiveReal struct{ value float64 }

// NewPositiveReal validates v > 0.
func NewPositiveReal(v float64) (PositiveReal, error) {
	if v <= 0 {
		return PositiveReal{}, ilerrors.InvalidArgument("value must be positive, got %v", v)
	}
	return PositiveReal{value: v}, nil
}

// MustPositiveReal is NewPositiveReal but panics on failure.
func MustPositiveReal(v float64) PositiveReal {
	p, err := NewPositiveReal(v)
	if err != nil {
		panic(err)
	}
	return p
}

// Value returns the underlying float.
func (p PositiveReal) Value() float64 { return p.value }

func (p PositiveReal) String() string { return strconv.FormatFloat(p.value, 'g', -1, 64) }

// Ceil returns ceil(p) as a Positive, the "element_lanes" derivation used by
// PhysicalStream (spec.md §3.6: element_lanes = ceil(throughput)).
func (p PositiveReal) Ceil() Positive {
	v := uint64(p.value)
	if float64(v) < p.value {
		v++
	}
	if v < 1 {
		v = 1
	}
	return Positive{value: v}
}

// Mul returns a new PositiveReal scaled by factor; factor must itself be
// positive (throughput composition in split_streams always multiplies two
// positive throughputs together).
func (p PositiveReal) Mul(factor PositiveReal) PositiveReal {
	return PositiveReal{value: p.value * factor.value}
}
