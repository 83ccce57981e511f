package generics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tydi-lang/tilc/pkg/name"
	"github.com/tydi-lang/tilc/pkg/orderedmap"
)

func TestKind_DefaultValue(t *testing.T) {
	assert.Equal(t, int64(0), KindInteger.DefaultValue())
	assert.Equal(t, int64(0), KindNatural.DefaultValue())
	assert.Equal(t, int64(1), KindPositive.DefaultValue())
	assert.Equal(t, int64(1), KindDimensionality.DefaultValue())
}

func TestKind_Validate(t *testing.T) {
	assert.NoError(t, KindInteger.Validate(-5))
	assert.Error(t, KindNatural.Validate(-1))
	assert.NoError(t, KindNatural.Validate(0))
	assert.Error(t, KindPositive.Validate(0))
	assert.NoError(t, KindPositive.Validate(1))
}

func TestCondition_OneOf(t *testing.T) {
	c := OneOf{Values: []int64{2, 4, 8}}
	assert.True(t, c.Evaluate(4))
	assert.False(t, c.Evaluate(3))
}

func TestCondition_NotBindsTighterThanAndOr(t *testing.T) {
	// not (v < 0) and v < 10
	cond := And{
		Left:  Not{Inner: Compare{Op: RelLT, Value: 0}},
		Right: Compare{Op: RelLT, Value: 10},
	}
	assert.True(t, cond.Evaluate(5))
	assert.False(t, cond.Evaluate(-1))
	assert.False(t, cond.Evaluate(10))
}

func TestParameter_RejectsDefaultViolatingCondition(t *testing.T) {
	n := name.MustNew("width")
	_, err := NewParameter(n, KindPositive, 1, Compare{Op: RelGE, Value: 4})
	assert.Error(t, err)
}

func TestParameter_WithConditionComposes(t *testing.T) {
	n := name.MustNew("width")
	p, err := NewParameter(n, KindPositive, 8, nil)
	require.NoError(t, err)

	p2, err := p.WithCondition(OneOf{Values: []int64{8, 16, 32}})
	require.NoError(t, err)

	assert.NoError(t, p2.Validate(16))
	assert.Error(t, p2.Validate(12))
}

func TestExpr_FoldsConstants(t *testing.T) {
	// (3 + 4) * 2
	expr := BinOp{Op: OpMul, Left: BinOp{Op: OpAdd, Left: IntegerLit{3}, Right: IntegerLit{4}}, Right: IntegerLit{2}}
	v, err := expr.Eval(nil)
	require.NoError(t, err)
	got, ok := v.AsFixed()
	require.True(t, ok)
	assert.Equal(t, int64(14), got)
}

func TestExpr_UnboundRefYieldsParameterizedResidual(t *testing.T) {
	width := name.MustNew("width")
	expr := BinOp{Op: OpAdd, Left: Ref{Name: width}, Right: IntegerLit{1}}
	v, err := expr.Eval(nil)
	require.NoError(t, err)
	assert.False(t, v.IsFixed())
	assert.Equal(t, "(width + 1)", v.String())
}

func TestExpr_RefResolvesFromEnv(t *testing.T) {
	width := name.MustNew("width")
	env := orderedmap.New[name.Name, Value]()
	require.NoError(t, env.TryInsert(width, Fixed(8)))

	expr := BinOp{Op: OpAdd, Left: Ref{Name: width}, Right: IntegerLit{1}}
	v, err := expr.Eval(env)
	require.NoError(t, err)
	got, ok := v.AsFixed()
	require.True(t, ok)
	assert.Equal(t, int64(9), got)
}

func TestValue_TryEvalRetriesLateBinding(t *testing.T) {
	width := name.MustNew("width")
	residual, err := Combine(OpMul, Parameterized(width), Fixed(2))
	require.NoError(t, err)
	assert.False(t, residual.IsFixed())

	env := orderedmap.New[name.Name, Value]()
	require.NoError(t, env.TryInsert(width, Fixed(5)))

	resolved, err := residual.TryEval(env)
	require.NoError(t, err)
	got, ok := resolved.AsFixed()
	require.True(t, ok)
	assert.Equal(t, int64(10), got)
}

func TestExpr_Negation(t *testing.T) {
	expr := Neg{Inner: IntegerLit{5}}
	v, err := expr.Eval(nil)
	require.NoError(t, err)
	got, ok := v.AsFixed()
	require.True(t, ok)
	assert.Equal(t, int64(-5), got)
}

func TestExpr_DivisionByZero(t *testing.T) {
	expr := BinOp{Op: OpDiv, Left: IntegerLit{1}, Right: IntegerLit{0}}
	_, err := expr.Eval(nil)
	assert.Error(t, err)
}
