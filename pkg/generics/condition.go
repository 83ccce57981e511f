package generics

import (
	"fmt"
	"strings"
)

// Condition is a predicate over an integer value, built from relational
// primitives and the boolean combinators not/and/or (spec.md §4.8). It
// attaches to a Kind via Kind.WithCondition-style composition at the
// parameter level (see Parameter.Condition).
type Condition interface {
	Evaluate(v int64) bool
	String() string
}

// RelOp is one of the relational primitives a Compare condition supports.
type RelOp string

const (
	RelGT RelOp = ">"
	RelLT RelOp = "<"
	RelGE RelOp = ">="
	RelLE RelOp = "<="
	RelEQ RelOp = "="
)

// Compare is a single relational condition against an integer literal.
type Compare struct {
	Op    RelOp
	Value int64
}

func (c Compare) Evaluate(v int64) bool {
	switch c.Op {
	case RelGT:
		return v > c.Value
	case RelLT:
		return v < c.Value
	case RelGE:
		return v >= c.Value
	case RelLE:
		return v <= c.Value
	case RelEQ:
		return v == c.Value
	default:
		return false
	}
}

func (c Compare) String() string {
	return fmt.Sprintf("%s %d", c.Op, c.Value)
}

// OneOf is satisfied when v equals any of Values.
type OneOf struct {
	Values []int64
}

func (o OneOf) Evaluate(v int64) bool {
	for _, want := range o.Values {
		if v == want {
			return true
		}
	}
	return false
}

func (o OneOf) String() string {
	parts := make([]string, len(o.Values))
	for i, v := range o.Values {
		parts[i] = fmt.Sprint(v)
	}
	return "one_of(" + strings.Join(parts, ", ") + ")"
}

// Not negates Inner. It binds tighter than And/Or per spec.md §4.5's
// condition precedence ("not ≻ and/or").
type Not struct {
	Inner Condition
}

func (n Not) Evaluate(v int64) bool { return !n.Inner.Evaluate(v) }
func (n Not) String() string        { return "not (" + n.Inner.String() + ")" }

// And and Or are left-associative boolean combinators sharing one
// precedence level, as specified.
type And struct{ Left, Right Condition }

func (a And) Evaluate(v int64) bool { return a.Left.Evaluate(v) && a.Right.Evaluate(v) }
func (a And) String() string        { return "(" + a.Left.String() + " and " + a.Right.String() + ")" }

type Or struct{ Left, Right Condition }

func (o Or) Evaluate(v int64) bool { return o.Left.Evaluate(v) || o.Right.Evaluate(v) }
func (o Or) String() string        { return "(" + o.Left.String() + " or " + o.Right.String() + ")" }
