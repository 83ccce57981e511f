package eval

import (
	"github.com/tydi-lang/tilc/pkg/ast"
	"github.com/tydi-lang/tilc/pkg/generics"
	"github.com/tydi-lang/tilc/pkg/ilerrors"
	"github.com/tydi-lang/tilc/pkg/ir"
	"github.com/tydi-lang/tilc/pkg/logical"
	"github.com/tydi-lang/tilc/pkg/name"
	"github.com/tydi-lang/tilc/pkg/orderedmap"
	"github.com/tydi-lang/tilc/pkg/structure"
)

// evalInterfaceExpr evaluates either an identifier resolution (look up in
// the interfaces table) or a literal interface body (spec.md §4.6).
func (e *Evaluator) evalInterfaceExpr(ie ast.InterfaceExpr) (*ir.Interface, error) {
	switch v := ie.(type) {
	case ast.IdentInterface:
		return e.resolveInterface(v.Path, v.Span)
	case ast.LiteralInterface:
		return e.evalLiteralInterface(v)
	default:
		return nil, ilerrors.ParsingError("unknown interface expression node %T", ie)
	}
}

// evalLiteralInterface collects a literal interface's domains (deduplicated,
// an error on repeat), then its generic-parameter declarations (§4.8), then
// its ports, validating each port's domain reference against the declared
// set and rejecting duplicate port/parameter names via ir.Interface's
// AddPort/AddParameter.
func (e *Evaluator) evalLiteralInterface(lit ast.LiteralInterface) (*ir.Interface, error) {
	iface := ir.NewInterface()

	if len(lit.Domains) > 0 {
		iface.Domains = orderedmap.NewSet[name.Name]()
		for _, d := range lit.Domains {
			n, err := name.New(d)
			if err != nil {
				return nil, wrapSpan(ilerrors.Context(err, "invalid domain name"), lit.Span)
			}
			if err := iface.Domains.TryAdd(n); err != nil {
				return nil, ilerrors.UnexpectedDuplicate("domain "+d).WithSpan(lit.Span)
			}
		}
	}

	for _, pd := range lit.Parameters {
		param, err := e.evalParamDecl(pd)
		if err != nil {
			return nil, err
		}
		if err := iface.AddParameter(param); err != nil {
			return nil, wrapSpan(err, pd.Span)
		}
	}

	for _, port := range lit.Ports {
		ip, err := e.evalPort(port)
		if err != nil {
			return nil, err
		}
		if err := iface.AddPort(ip); err != nil {
			return nil, wrapSpan(err, port.Span)
		}
	}
	return iface, nil
}

// evalParamDecl lowers a parsed generic-parameter declaration to a
// generics.Parameter: an omitted default falls back to the kind's implicit
// default (SPEC_FULL §4 item 4: Dimensionality and Positive default to 1,
// Integer and Natural to 0); an attached condition is evaluated via toGenericsCondition and
// composed with Parameter.WithCondition, which re-validates the default
// against it.
func (e *Evaluator) evalParamDecl(pd *ast.ParamDecl) (*generics.Parameter, error) {
	n, err := name.New(pd.Name)
	if err != nil {
		return nil, wrapSpan(ilerrors.Context(err, "invalid parameter name"), pd.Span)
	}
	kind, err := paramKindFromText(pd.Kind)
	if err != nil {
		return nil, wrapSpan(err, pd.Span)
	}

	def := kind.DefaultValue()
	if pd.Default != nil {
		v, err := e.evalExpr(pd.Default, nil)
		if err != nil {
			return nil, wrapSpan(err, pd.Span)
		}
		fixed, ok := v.AsFixed()
		if !ok {
			return nil, ilerrors.InvalidArgument("parameter %q default must be a constant expression, found %s", pd.Name, v.String()).WithSpan(pd.Span)
		}
		def = fixed
	}

	param, err := generics.NewParameter(n, kind, def, nil)
	if err != nil {
		return nil, wrapSpan(err, pd.Span)
	}
	if pd.Condition != nil {
		cond, err := toGenericsCondition(pd.Condition)
		if err != nil {
			return nil, wrapSpan(err, pd.Span)
		}
		param, err = param.WithCondition(cond)
		if err != nil {
			return nil, wrapSpan(err, pd.Span)
		}
	}
	return param, nil
}

func paramKindFromText(s string) (generics.Kind, error) {
	switch s {
	case "Integer":
		return generics.KindInteger, nil
	case "Natural":
		return generics.KindNatural, nil
	case "Positive":
		return generics.KindPositive, nil
	case "Dimensionality":
		return generics.KindDimensionality, nil
	default:
		return 0, ilerrors.ParsingError("unknown generic parameter kind %q", s)
	}
}

// evalPort lowers a parsed port declaration to an ir.InterfacePort. A
// port's type expression must evaluate to a Stream type: spec.md §3.7
// defines InterfacePort as carrying a StreamId directly, not an arbitrary
// LogicalType.
func (e *Evaluator) evalPort(port *ast.Port) (ir.InterfacePort, error) {
	portName, err := name.New(port.Name)
	if err != nil {
		return ir.InterfacePort{}, wrapSpan(ilerrors.Context(err, "invalid port name"), port.Span)
	}

	typeId, err := e.evalTypeExpr(port.Type)
	if err != nil {
		return ir.InterfacePort{}, err
	}
	lt := e.Logical.Lookup(typeId)
	if lt.Kind() != logical.KindStream {
		return ir.InterfacePort{}, ilerrors.InvalidArgument("port %q must have a Stream type", port.Name).WithSpan(port.Span)
	}

	dir := structure.In
	if port.Direction == "out" {
		dir = structure.Out
	}

	var domain name.Name
	if port.Domain != "" {
		domain, err = name.New(port.Domain)
		if err != nil {
			return ir.InterfacePort{}, wrapSpan(ilerrors.Context(err, "invalid domain name"), port.Span)
		}
	}

	return ir.InterfacePort{
		Name: portName,
		Stream: structure.PortRef{
			Stream:    lt.StreamId(),
			Direction: dir,
			Domain:    domain,
		},
		Doc: port.Doc,
	}, nil
}
