// Package generics implements the compile-time generic parameters and
// constraint/expression language of spec.md §4.8: integer-kinded
// parameters with default values and optional conditions, plus the small
// arithmetic expression tree used to assign them.
package generics

import "github.com/tydi-lang/tilc/pkg/ilerrors"

// Kind identifies the domain a generic parameter's value must live in.
type Kind int

const (
	// KindInteger allows any integer value.
	KindInteger Kind = iota
	// KindNatural allows integers >= 0.
	KindNatural
	// KindPositive allows integers >= 1.
	KindPositive
	// KindDimensionality is the interface-level generic used to drive a
	// stream's dimensionality; like Natural it allows >= 0, but per
	// SPEC_FULL §4 item 4 it defaults to 1 rather than 0 when no default is
	// given explicitly.
	KindDimensionality
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "Integer"
	case KindNatural:
		return "Natural"
	case KindPositive:
		return "Positive"
	case KindDimensionality:
		return "Dimensionality"
	default:
		return "Unknown"
	}
}

// DefaultValue returns the kind's implicit default when a parameter
// declaration omits one explicitly: 0 for Integer/Natural, 1 for Positive
// and Dimensionality.
func (k Kind) DefaultValue() int64 {
	switch k {
	case KindPositive, KindDimensionality:
		return 1
	default:
		return 0
	}
}

// Validate checks that v lies within the kind's domain, independent of any
// attached Condition.
func (k Kind) Validate(v int64) error {
	switch k {
	case KindNatural, KindDimensionality:
		if v < 0 {
			return ilerrors.InvalidArgument("%s parameter must be >= 0, got %d", k, v)
		}
	case KindPositive:
		if v < 1 {
			return ilerrors.InvalidArgument("%s parameter must be >= 1, got %d", k, v)
		}
	}
	return nil
}
