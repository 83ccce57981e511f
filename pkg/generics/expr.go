package generics

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function/stdlib"

	"github.com/tydi-lang/tilc/pkg/ilerrors"
	"github.com/tydi-lang/tilc/pkg/name"
	"github.com/tydi-lang/tilc/pkg/orderedmap"
)

// Op is one of the five arithmetic operators the assignment-expression
// grammar supports (spec.md §4.5's "unary minus ≻ * / % ≻ + -").
type Op string

const (
	OpAdd Op = "+"
	OpSub Op = "-"
	OpMul Op = "*"
	OpDiv Op = "/"
	OpMod Op = "%"
)

// Expr is a generic-parameter assignment expression: a tree of integer
// literals, named references, unary negation, parenthesization (folded away
// during parsing — it only affects precedence) and binary arithmetic.
type Expr interface {
	// Eval substitutes named references from env and folds constants where
	// possible. An unbound name does not fail: it yields a Parameterized
	// residual Value so that widths depending on it can still be carried
	// symbolically (spec.md §4.2, §4.8).
	Eval(env *orderedmap.Map[name.Name, Value]) (Value, error)
	String() string
}

// IntegerLit is a literal integer.
type IntegerLit struct{ Value int64 }

func (e IntegerLit) Eval(*orderedmap.Map[name.Name, Value]) (Value, error) {
	return Fixed(e.Value), nil
}
func (e IntegerLit) String() string { return fmt.Sprint(e.Value) }

// Ref is a named reference to another generic parameter's assigned value.
type Ref struct{ Name name.Name }

func (e Ref) Eval(env *orderedmap.Map[name.Name, Value]) (Value, error) {
	if env != nil {
		if v, ok := env.Get(e.Name); ok {
			return v, nil
		}
	}
	return Parameterized(e.Name), nil
}
func (e Ref) String() string { return e.Name.String() }

// Neg is unary negation.
type Neg struct{ Inner Expr }

func (e Neg) Eval(env *orderedmap.Map[name.Name, Value]) (Value, error) {
	v, err := e.Inner.Eval(env)
	if err != nil {
		return Value{}, err
	}
	return v.Negate()
}
func (e Neg) String() string { return "-" + e.Inner.String() }

// BinOp is a binary arithmetic operation; parentheses in source only
// reorder how the parser builds this tree and leave no trace in it.
type BinOp struct {
	Op          Op
	Left, Right Expr
}

func (e BinOp) Eval(env *orderedmap.Map[name.Name, Value]) (Value, error) {
	l, err := e.Left.Eval(env)
	if err != nil {
		return Value{}, err
	}
	r, err := e.Right.Eval(env)
	if err != nil {
		return Value{}, err
	}
	return Combine(e.Op, l, r)
}
func (e BinOp) String() string {
	return "(" + e.Left.String() + " " + string(e.Op) + " " + e.Right.String() + ")"
}

// valueKind discriminates Value's three shapes.
type valueKind int

const (
	vkFixed valueKind = iota
	vkParam
	vkCombination
)

// Value is the result of evaluating an Expr: either a folded integer
// constant, an unresolved reference to a named parameter, or a combination
// of two such values that could not be folded because one side is still
// unresolved. This mirrors PhysicalBitCount (pkg/physical) and is the
// mechanism by which a symbolic width reaches the back-end (spec.md §4.2,
// §9 "Symbolic widths").
type Value struct {
	kind  valueKind
	fixed int64
	param name.Name
	op    Op
	left  *Value
	right *Value
}

// Fixed wraps a known integer.
func Fixed(v int64) Value { return Value{kind: vkFixed, fixed: v} }

// Parameterized wraps an unresolved reference to n.
func Parameterized(n name.Name) Value { return Value{kind: vkParam, param: n} }

// IsFixed reports whether the value folded to a concrete integer.
func (v Value) IsFixed() bool { return v.kind == vkFixed }

// AsFixed returns the folded integer and true, or 0 and false.
func (v Value) AsFixed() (int64, bool) {
	if v.kind != vkFixed {
		return 0, false
	}
	return v.fixed, true
}

// Param returns the referenced name and true when v is a bare unresolved
// reference, or the zero Name and false otherwise.
func (v Value) Param() (name.Name, bool) {
	if v.kind != vkParam {
		return name.Name{}, false
	}
	return v.param, true
}

// Negate returns -v, folding immediately if v is already Fixed.
func (v Value) Negate() (Value, error) {
	if v.kind == vkFixed {
		return Fixed(-v.fixed), nil
	}
	zero := Fixed(0)
	return Combine(OpSub, zero, v)
}

// InternKey gives Value a stable canonical form so it can be embedded
// inside interned IR values (see pkg/interner) such as a symbolic
// PhysicalBitCount.
func (v Value) InternKey() string { return "V" + v.String() }

func (v Value) String() string {
	switch v.kind {
	case vkFixed:
		return fmt.Sprint(v.fixed)
	case vkParam:
		return v.param.String()
	default:
		return "(" + v.left.String() + " " + string(v.op) + " " + v.right.String() + ")"
	}
}

// Combine applies op to l and r, constant-folding via go-cty's arithmetic
// function library when both sides are fixed, and otherwise returning a
// symbolic Combination residual that a consumer can retry once more names
// are bound (TryEval does this retry).
func Combine(op Op, l, r Value) (Value, error) {
	if l.kind == vkFixed && r.kind == vkFixed {
		folded, err := foldCty(op, l.fixed, r.fixed)
		if err != nil {
			return Value{}, err
		}
		return Fixed(folded), nil
	}
	lc, rc := l, r
	return Value{kind: vkCombination, op: op, left: &lc, right: &rc}, nil
}

// foldCty performs the actual integer arithmetic through go-cty's standard
// function library, the way the teacher's HCL-based evaluators route every
// expression operator through cty function calls rather than native Go
// arithmetic.
func foldCty(op Op, l, r int64) (int64, error) {
	lv := cty.NumberIntVal(l)
	rv := cty.NumberIntVal(r)

	var result cty.Value
	var err error
	switch op {
	case OpAdd:
		result, err = stdlib.Add(lv, rv)
	case OpSub:
		result, err = stdlib.Subtract(lv, rv)
	case OpMul:
		result, err = stdlib.Multiply(lv, rv)
	case OpDiv:
		if r == 0 {
			return 0, ilerrors.InvalidArgument("division by zero")
		}
		result, err = stdlib.Divide(lv, rv)
	case OpMod:
		if r == 0 {
			return 0, ilerrors.InvalidArgument("modulo by zero")
		}
		result, err = stdlib.Modulo(lv, rv)
	default:
		return 0, ilerrors.InvalidArgument("unknown operator %q", op)
	}
	if err != nil {
		return 0, ilerrors.InvalidArgument("arithmetic error: %v", err)
	}
	bf := result.AsBigFloat()
	intResult, _ := bf.Int64()
	return intResult, nil
}

// TryEval re-attempts folding a Combination whose operands may now be bound
// in env, recursing into both sides first. Fixed and Parameterized values
// pass through unchanged (Parameterized still attempts env lookup, letting
// a generic property resolved after parsing but before back-end
// composition fold late).
func (v Value) TryEval(env *orderedmap.Map[name.Name, Value]) (Value, error) {
	switch v.kind {
	case vkFixed:
		return v, nil
	case vkParam:
		if env != nil {
			if bound, ok := env.Get(v.param); ok {
				return bound.TryEval(env)
			}
		}
		return v, nil
	default:
		l, err := v.left.TryEval(env)
		if err != nil {
			return Value{}, err
		}
		r, err := v.right.TryEval(env)
		if err != nil {
			return Value{}, err
		}
		return Combine(v.op, l, r)
	}
}
