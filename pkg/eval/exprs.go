package eval

import (
	"github.com/tydi-lang/tilc/pkg/ast"
	"github.com/tydi-lang/tilc/pkg/generics"
	"github.com/tydi-lang/tilc/pkg/ilerrors"
	"github.com/tydi-lang/tilc/pkg/name"
	"github.com/tydi-lang/tilc/pkg/orderedmap"
)

// evalExpr lowers a parsed arithmetic expression (spec.md §4.5's Integer(i)
// | Ref(n) | -e | (e) | e op e grammar) to a generics.Value, folding
// constants and leaving unbound references as a symbolic residual env can
// later resolve.
func (e *Evaluator) evalExpr(expr ast.Expr, env *orderedmap.Map[name.Name, generics.Value]) (generics.Value, error) {
	ge, err := toGenericsExpr(expr)
	if err != nil {
		return generics.Value{}, err
	}
	v, err := ge.Eval(env)
	if err != nil {
		return generics.Value{}, wrapSpan(err, expr.ExprSpan())
	}
	return v, nil
}

func toGenericsExpr(expr ast.Expr) (generics.Expr, error) {
	switch v := expr.(type) {
	case *ast.IntegerLit:
		return generics.IntegerLit{Value: v.Value}, nil
	case *ast.FloatLit:
		return nil, ilerrors.InvalidArgument("a float literal is not valid in an integer-valued expression; only a stream's throughput accepts one").WithSpan(v.Span)
	case *ast.Ref:
		n, err := name.New(v.Name)
		if err != nil {
			return nil, wrapSpan(ilerrors.Context(err, "invalid reference"), v.Span)
		}
		return generics.Ref{Name: n}, nil
	case *ast.Neg:
		inner, err := toGenericsExpr(v.Inner)
		if err != nil {
			return nil, err
		}
		return generics.Neg{Inner: inner}, nil
	case *ast.BinOp:
		left, err := toGenericsExpr(v.Left)
		if err != nil {
			return nil, err
		}
		right, err := toGenericsExpr(v.Right)
		if err != nil {
			return nil, err
		}
		return generics.BinOp{Op: generics.Op(v.Op), Left: left, Right: right}, nil
	default:
		return nil, ilerrors.ParsingError("unknown expression node %T", expr)
	}
}

// toGenericsCondition lowers a parsed generic-parameter condition (spec.md
// §4.8's relational/one_of primitives and not/and/or combinators) to a
// generics.Condition.
func toGenericsCondition(cond ast.Condition) (generics.Condition, error) {
	switch v := cond.(type) {
	case ast.CompareCond:
		return generics.Compare{Op: generics.RelOp(v.Op), Value: v.Value}, nil
	case ast.OneOfCond:
		return generics.OneOf{Values: v.Values}, nil
	case ast.NotCond:
		inner, err := toGenericsCondition(v.Inner)
		if err != nil {
			return nil, err
		}
		return generics.Not{Inner: inner}, nil
	case ast.AndCond:
		left, err := toGenericsCondition(v.Left)
		if err != nil {
			return nil, err
		}
		right, err := toGenericsCondition(v.Right)
		if err != nil {
			return nil, err
		}
		return generics.And{Left: left, Right: right}, nil
	case ast.OrCond:
		left, err := toGenericsCondition(v.Left)
		if err != nil {
			return nil, err
		}
		right, err := toGenericsCondition(v.Right)
		if err != nil {
			return nil, err
		}
		return generics.Or{Left: left, Right: right}, nil
	default:
		return nil, ilerrors.ParsingError("unknown condition node %T", cond)
	}
}
