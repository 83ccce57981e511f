package eval

import (
	"github.com/tydi-lang/tilc/pkg/ast"
	"github.com/tydi-lang/tilc/pkg/complexity"
	"github.com/tydi-lang/tilc/pkg/generics"
	"github.com/tydi-lang/tilc/pkg/ilerrors"
	"github.com/tydi-lang/tilc/pkg/logical"
	"github.com/tydi-lang/tilc/pkg/name"
	"github.com/tydi-lang/tilc/pkg/numeric"
	"github.com/tydi-lang/tilc/pkg/orderedmap"
)

// evalTypeExpr lowers a parsed type expression to an interned TypeId
// (spec.md §4.5's grammar, §4.6's evaluation rules).
func (e *Evaluator) evalTypeExpr(te ast.TypeExpr) (logical.TypeId, error) {
	switch t := te.(type) {
	case *ast.IdentType:
		return e.resolveType(t.Path, t.Span)
	case *ast.NullType:
		return e.Logical.Intern(logical.Null()), nil
	case *ast.BitsType:
		return e.evalBitsType(t)
	case *ast.GroupType:
		fields, err := e.evalFieldList(t.Fields)
		if err != nil {
			return logical.TypeId{}, err
		}
		return e.Logical.Intern(logical.Group(fields)), nil
	case *ast.UnionType:
		fields, err := e.evalFieldList(t.Fields)
		if err != nil {
			return logical.TypeId{}, err
		}
		return e.Logical.Intern(logical.Union(fields)), nil
	case *ast.StreamType:
		return e.evalStreamType(t)
	case *ast.ErrorType:
		return logical.TypeId{}, ilerrors.ParsingError("refusing to evaluate a recovered (invalid) type expression").WithSpan(t.Span)
	default:
		return logical.TypeId{}, ilerrors.ParsingError("unknown type expression node %T", te)
	}
}

func (e *Evaluator) evalBitsType(t *ast.BitsType) (logical.TypeId, error) {
	v, err := e.evalExpr(t.Width, nil)
	if err != nil {
		return logical.TypeId{}, wrapSpan(err, t.Span)
	}
	fixed, ok := v.AsFixed()
	if !ok {
		return logical.TypeId{}, ilerrors.InvalidArgument("Bits width must be a constant integer expression, found %s", v.String()).WithSpan(t.Span)
	}
	if fixed < 1 {
		return logical.TypeId{}, ilerrors.InvalidArgument("Bits width must be positive, got %d", fixed).WithSpan(t.Span)
	}
	width, err := numeric.NewPositive(uint64(fixed))
	if err != nil {
		return logical.TypeId{}, wrapSpan(err, t.Span)
	}
	return e.Logical.Intern(logical.Bits(width)), nil
}

func (e *Evaluator) evalFieldList(decls []*ast.FieldDecl) (*orderedmap.Map[name.Name, logical.TypeId], error) {
	fields := orderedmap.New[name.Name, logical.TypeId]()
	for _, fd := range decls {
		n, err := name.New(fd.Name)
		if err != nil {
			return nil, wrapSpan(ilerrors.Context(err, "invalid field name"), fd.Span)
		}
		typeId, err := e.evalTypeExpr(fd.Type)
		if err != nil {
			return nil, err
		}
		if err := fields.TryInsert(n, typeId); err != nil {
			return nil, ilerrors.UnexpectedDuplicate("field "+fd.Name).WithSpan(fd.Span)
		}
	}
	return fields, nil
}

// streamProps accumulates the Stream(...) property list before its
// validating factory runs, tracking which properties have been seen so
// duplicates and missing-required properties are reported precisely
// (spec.md §4.5: missing data/dimensionality/synchronicity/complexity/
// direction are errors; missing throughput defaults to 1.0; missing user
// defaults to Null; missing keep defaults to false; unknown property is an
// error).
type streamProps struct {
	seen map[string]bool

	data           *logical.TypeId
	user           *logical.TypeId
	throughput     *numeric.PositiveReal
	dimensionality *generics.Value
	synchronicity  *logical.Synchronicity
	complexity     *complexity.Complexity
	direction      *logical.Direction
	keep           *bool
}

func newStreamProps() *streamProps {
	return &streamProps{seen: make(map[string]bool)}
}

func (e *Evaluator) evalStreamType(t *ast.StreamType) (logical.TypeId, error) {
	sp := newStreamProps()
	for _, prop := range t.Properties {
		if sp.seen[prop.Name] {
			return logical.TypeId{}, ilerrors.InvalidArgument("duplicate stream property %q", prop.Name).WithSpan(prop.Span)
		}
		sp.seen[prop.Name] = true

		var err error
		switch prop.Name {
		case "data":
			err = e.evalTypedProp(prop, &sp.data)
		case "user":
			err = e.evalTypedProp(prop, &sp.user)
		case "throughput":
			err = e.evalThroughput(prop, sp)
		case "dimensionality":
			err = e.evalDimensionality(prop, sp)
		case "synchronicity":
			err = evalSynchronicity(prop, sp)
		case "complexity":
			err = evalComplexityProp(prop, sp)
		case "direction":
			err = evalDirection(prop, sp)
		case "keep":
			err = evalKeep(prop, sp)
		default:
			err = ilerrors.InvalidArgument("unknown stream property %q", prop.Name).WithSpan(prop.Span)
		}
		if err != nil {
			return logical.TypeId{}, err
		}
	}

	if sp.data == nil {
		return logical.TypeId{}, ilerrors.InvalidArgument("stream is missing required property %q", "data").WithSpan(t.Span)
	}
	if sp.dimensionality == nil {
		return logical.TypeId{}, ilerrors.InvalidArgument("stream is missing required property %q", "dimensionality").WithSpan(t.Span)
	}
	if sp.synchronicity == nil {
		return logical.TypeId{}, ilerrors.InvalidArgument("stream is missing required property %q", "synchronicity").WithSpan(t.Span)
	}
	if sp.complexity == nil {
		return logical.TypeId{}, ilerrors.InvalidArgument("stream is missing required property %q", "complexity").WithSpan(t.Span)
	}
	if sp.direction == nil {
		return logical.TypeId{}, ilerrors.InvalidArgument("stream is missing required property %q", "direction").WithSpan(t.Span)
	}

	throughput := numeric.MustPositiveReal(1.0)
	if sp.throughput != nil {
		throughput = *sp.throughput
	}
	user := e.Logical.Intern(logical.Null())
	if sp.user != nil {
		user = *sp.user
	}
	keep := false
	if sp.keep != nil {
		keep = *sp.keep
	}

	stream, err := logical.NewStream(e.Logical, *sp.data, throughput, *sp.dimensionality, *sp.synchronicity, *sp.complexity, *sp.direction, user, keep)
	if err != nil {
		return logical.TypeId{}, wrapSpan(err, t.Span)
	}
	streamId := e.Logical.InternStream(stream)
	return e.Logical.Intern(logical.Stream(streamId)), nil
}

func (e *Evaluator) evalTypedProp(prop *ast.PropertyAssign, dst **logical.TypeId) error {
	tv, ok := prop.Value.(ast.TypeValue)
	if !ok {
		return ilerrors.InvalidArgument("property %q requires a type expression", prop.Name).WithSpan(prop.Span)
	}
	id, err := e.evalTypeExpr(tv.Type)
	if err != nil {
		return err
	}
	*dst = &id
	return nil
}

// evalThroughput handles `throughput`'s two literal forms (spec.md §3.4:
// throughput is a PositiveReal): a bare float literal ("1.0", "2.5") is
// taken directly as the real value, matching the original's
// Value::Float(f) => f.positive_real() case; anything else is folded as a
// constant integer expression and widened, matching its Value::Int(i) case.
// Neither form threads through generics.Value's integer-only arithmetic
// with a float operand.
func (e *Evaluator) evalThroughput(prop *ast.PropertyAssign, sp *streamProps) error {
	ev, ok := prop.Value.(ast.ExprValue)
	if !ok {
		return ilerrors.InvalidArgument("property %q requires an expression", prop.Name).WithSpan(prop.Span)
	}

	if fl, ok := ev.Expr.(*ast.FloatLit); ok {
		pr, err := numeric.NewPositiveReal(fl.Value)
		if err != nil {
			return wrapSpan(err, prop.Span)
		}
		sp.throughput = &pr
		return nil
	}

	v, err := e.evalExpr(ev.Expr, nil)
	if err != nil {
		return wrapSpan(err, prop.Span)
	}
	fixed, ok := v.AsFixed()
	if !ok {
		return ilerrors.InvalidArgument("throughput must be a constant expression, found %s", v.String()).WithSpan(prop.Span)
	}
	pr, err := numeric.NewPositiveReal(float64(fixed))
	if err != nil {
		return wrapSpan(err, prop.Span)
	}
	sp.throughput = &pr
	return nil
}

func (e *Evaluator) evalDimensionality(prop *ast.PropertyAssign, sp *streamProps) error {
	ev, ok := prop.Value.(ast.ExprValue)
	if !ok {
		return ilerrors.InvalidArgument("property %q requires an expression", prop.Name).WithSpan(prop.Span)
	}
	v, err := e.evalExpr(ev.Expr, nil)
	if err != nil {
		return wrapSpan(err, prop.Span)
	}
	sp.dimensionality = &v
	return nil
}

func evalSynchronicity(prop *ast.PropertyAssign, sp *streamProps) error {
	iv, ok := prop.Value.(ast.IdentValue)
	if !ok {
		return ilerrors.InvalidArgument("property %q requires a synchronicity keyword", prop.Name).WithSpan(prop.Span)
	}
	var s logical.Synchronicity
	switch iv.Text {
	case "Sync":
		s = logical.Sync
	case "Flatten":
		s = logical.Flatten
	case "Desync":
		s = logical.Desync
	case "FlatDesync":
		s = logical.FlatDesync
	default:
		return ilerrors.InvalidArgument("invalid synchronicity %q", iv.Text).WithSpan(prop.Span)
	}
	sp.synchronicity = &s
	return nil
}

func evalComplexityProp(prop *ast.PropertyAssign, sp *streamProps) error {
	iv, ok := prop.Value.(ast.IdentValue)
	if !ok {
		return ilerrors.InvalidArgument("property %q requires a complexity literal", prop.Name).WithSpan(prop.Span)
	}
	c, err := complexity.Parse(iv.Text)
	if err != nil {
		return wrapSpan(err, prop.Span)
	}
	sp.complexity = &c
	return nil
}

func evalDirection(prop *ast.PropertyAssign, sp *streamProps) error {
	iv, ok := prop.Value.(ast.IdentValue)
	if !ok {
		return ilerrors.InvalidArgument("property %q requires a direction keyword", prop.Name).WithSpan(prop.Span)
	}
	var d logical.Direction
	switch iv.Text {
	case "Forward":
		d = logical.Forward
	case "Reverse":
		d = logical.Reverse
	default:
		return ilerrors.InvalidArgument("invalid direction %q", iv.Text).WithSpan(prop.Span)
	}
	sp.direction = &d
	return nil
}

func evalKeep(prop *ast.PropertyAssign, sp *streamProps) error {
	bv, ok := prop.Value.(ast.BoolValue)
	if !ok {
		return ilerrors.InvalidArgument("property %q requires a boolean literal", prop.Name).WithSpan(prop.Span)
	}
	keep := bv.Value
	sp.keep = &keep
	return nil
}
