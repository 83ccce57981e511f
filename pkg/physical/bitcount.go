// Package physical derives the physical-stream signal-list shape of
// spec.md §4.2 from a split logical Stream, and implements synthesize()
// (§4.3.4), composing split_streams with fields to produce a per-stream
// PhysicalStream plus a TypeReference tree naming each physical leaf's
// originating logical-type path.
package physical

import (
	"fmt"

	"github.com/tydi-lang/tilc/pkg/generics"
	"github.com/tydi-lang/tilc/pkg/ilerrors"
	"github.com/tydi-lang/tilc/pkg/name"
	"github.com/tydi-lang/tilc/pkg/numeric"
	"github.com/tydi-lang/tilc/pkg/orderedmap"
)

type bitCountKind int

const (
	bcFixed bitCountKind = iota
	bcParam
	bcCombination
)

// BitCount is a signal width that may depend on an unresolved generic
// parameter (spec.md §4.2's PhysicalBitCount::{Fixed, Parameterized,
// Combination}). It mirrors generics.Value's shape but lives in its own
// type, as the spec names it separately from the generic-assignment
// expression tree.
type BitCount struct {
	kind  bitCountKind
	fixed uint64
	param name.Name
	op    generics.Op
	left  *BitCount
	right *BitCount
}

// Fixed wraps a known bit width.
func Fixed(v numeric.Positive) BitCount {
	return BitCount{kind: bcFixed, fixed: v.Value()}
}

// Parameterized wraps an unresolved reference to a generic parameter n.
func Parameterized(n name.Name) BitCount {
	return BitCount{kind: bcParam, param: n}
}

// Combine applies op to l and r, folding immediately when both are fixed.
func Combine(op generics.Op, l, r BitCount) BitCount {
	if l.kind == bcFixed && r.kind == bcFixed {
		return BitCount{kind: bcFixed, fixed: arith(op, l.fixed, r.fixed)}
	}
	lc, rc := l, r
	return BitCount{kind: bcCombination, op: op, left: &lc, right: &rc}
}

func arith(op generics.Op, l, r uint64) uint64 {
	switch op {
	case generics.OpAdd:
		return l + r
	case generics.OpSub:
		if r > l {
			return 0
		}
		return l - r
	case generics.OpMul:
		return l * r
	case generics.OpDiv:
		if r == 0 {
			return 0
		}
		return l / r
	case generics.OpMod:
		if r == 0 {
			return 0
		}
		return l % r
	default:
		return 0
	}
}

// IsFixed reports whether the width is a concrete known value.
func (b BitCount) IsFixed() bool { return b.kind == bcFixed }

// AsFixed returns the concrete value and true, or 0 and false.
func (b BitCount) AsFixed() (uint64, bool) {
	if b.kind != bcFixed {
		return 0, false
	}
	return b.fixed, true
}

// TryEval re-attempts folding against env, a binding from generic
// parameter name to its resolved value, returning a possibly-still-
// symbolic BitCount if env does not cover every free name.
func (b BitCount) TryEval(env *orderedmap.Map[name.Name, uint64]) (BitCount, error) {
	switch b.kind {
	case bcFixed:
		return b, nil
	case bcParam:
		if env != nil {
			if v, ok := env.Get(b.param); ok {
				return Fixed(mustPositive(v)), nil
			}
		}
		return b, nil
	default:
		l, err := b.left.TryEval(env)
		if err != nil {
			return BitCount{}, err
		}
		r, err := b.right.TryEval(env)
		if err != nil {
			return BitCount{}, err
		}
		return Combine(b.op, l, r), nil
	}
}

func mustPositive(v uint64) numeric.Positive {
	p, err := numeric.NewPositive(v)
	if err != nil {
		// A generic parameter resolving to zero for a bit width is a
		// modeling error upstream (a Positive-kinded width parameter took
		// a Natural-kinded value); surfaced here rather than silently
		// truncated.
		panic(fmt.Sprintf("physical: resolved bit width is not positive: %v", err))
	}
	return p
}

func (b BitCount) String() string {
	switch b.kind {
	case bcFixed:
		return fmt.Sprint(b.fixed)
	case bcParam:
		return b.param.String()
	default:
		return "(" + b.left.String() + " " + string(b.op) + " " + b.right.String() + ")"
	}
}

// InternKey implements interner.Keyed / orderedmap.Keyable.
func (b BitCount) InternKey() string { return "BC" + b.String() }

// fromGenericsValue lifts a generics.Value (the GenericProperty<u32>
// shape used for Stream.dimensionality) into the physical package's own
// BitCount, preserving the Fixed/Parameterized distinction. Dimensionality
// is always a single generic reference or literal, never a compound
// expression, per spec.md §3.4's GenericProperty<u32>, so Combination
// never needs to appear here.
// Callers must only invoke this once they have already established the
// dimensionality is at least 1 (the "last present" gate in DeriveSignalList),
// since BitCount.Fixed requires a Positive width.
func fromGenericsValue(v generics.Value) BitCount {
	if fixed, ok := v.AsFixed(); ok {
		return Fixed(numeric.MustPositive(uint64(fixed)))
	}
	if n, ok := v.Param(); ok {
		return Parameterized(n)
	}
	panic(ilerrors.InvalidArgument("dimensionality value is neither fixed nor a bare parameter reference").Error())
}
