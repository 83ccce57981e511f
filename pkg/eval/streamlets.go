package eval

import (
	"strconv"

	"github.com/tydi-lang/tilc/pkg/ast"
	"github.com/tydi-lang/tilc/pkg/ilerrors"
	"github.com/tydi-lang/tilc/pkg/ir"
	"github.com/tydi-lang/tilc/pkg/name"
	"github.com/tydi-lang/tilc/pkg/orderedmap"
	"github.com/tydi-lang/tilc/pkg/structure"
)

// evalStreamletDecl builds the streamlet's interface, then (if the body
// names one) its implementation, coupling the two and registering the
// result under the declaration's name (spec.md §4.6). A Link
// implementation forces and locks the streamlet's path name, handled by
// ir.Streamlet.WithImplementation.
func (e *Evaluator) evalStreamletDecl(d *ast.StreamletDecl) error {
	iface, err := e.evalInterfaceExpr(d.Interface)
	if err != nil {
		return err
	}

	declName, err := name.New(d.Name)
	if err != nil {
		return wrapSpan(ilerrors.Context(err, "invalid streamlet name"), d.Span)
	}

	sl := ir.NewStreamlet(e.ns.Path.WithChild(declName), iface)
	if d.Impl != nil {
		impl, err := e.evalImplExpr(d.Impl, iface)
		if err != nil {
			return err
		}
		sl.WithImplementation(impl)
	}

	if err := e.ns.Streamlets.Declare(declName, sl); err != nil {
		return wrapSpan(err, d.Span)
	}
	e.IR.AddStreamlet(sl)
	return nil
}

// evalImplDecl evaluates a top-level `impl <Name> = ...` declaration,
// whose implementation expression always names its own defining interface
// (spec.md §4.5's `impl <Name> = <interface-expr-or-ident> "<path>" | {
// ... }` form, unlike a streamlet body's `impl:` property which takes its
// interface from context).
func (e *Evaluator) evalImplDecl(d *ast.ImplDecl) error {
	impl, err := e.evalImplExpr(d.Impl, nil)
	if err != nil {
		return err
	}
	declName, err := name.New(d.Name)
	if err != nil {
		return wrapSpan(ilerrors.Context(err, "invalid implementation name"), d.Span)
	}
	if err := e.ns.Implementations.Declare(declName, impl); err != nil {
		return wrapSpan(err, d.Span)
	}
	e.IR.AddImplementation(impl)
	return nil
}

// evalImplExpr evaluates an implementation expression against ctxIface,
// the interface it completes: a streamlet body's `impl:` leaves a
// LinkImpl/StructImpl's own Interface field nil and relies on ctxIface;
// a top-level ImplDecl's expression always carries its own (used in place
// of ctxIface).
func (e *Evaluator) evalImplExpr(ie ast.ImplExpr, ctxIface *ir.Interface) (ir.Implementation, error) {
	switch v := ie.(type) {
	case ast.IdentImpl:
		return e.resolveImplementation(v.Path, v.Span)
	case ast.LinkImpl:
		path, err := linkPathName(v.Path, v.Span)
		if err != nil {
			return nil, err
		}
		return ir.LinkImplementation{Path: path}, nil
	case ast.StructImpl:
		iface := ctxIface
		if v.Interface != nil {
			evaluated, err := e.evalInterfaceExpr(v.Interface)
			if err != nil {
				return nil, err
			}
			iface = evaluated
		}
		if iface == nil {
			return nil, ilerrors.InvalidArgument("an implementation definition requires an interface").WithSpan(v.Span)
		}
		return e.evalStructImpl(v, iface)
	default:
		return nil, ilerrors.ParsingError("unknown implementation expression node %T", ie)
	}
}

// linkPathName converts a Link's quoted path-fragment literal into a
// name.PathName. A Link target names another TIL declaration path, not an
// arbitrary filesystem path: ir.LinkImplementation.Path doubles as the
// streamlet's forced, locked name (spec.md §3.7), so it is validated the
// same way any other declaration path is.
func linkPathName(raw string, span ilerrors.Span) (name.PathName, error) {
	p, err := name.ParsePathName(raw)
	if err != nil {
		return name.PathName{}, wrapSpan(ilerrors.Context(err, "invalid link path"), span)
	}
	return p, nil
}

// evalStructImpl builds an empty Structure around iface, evaluates each
// statement in source order, and validates the result (spec.md §4.7).
func (e *Evaluator) evalStructImpl(v ast.StructImpl, iface *ir.Interface) (ir.Implementation, error) {
	st := structure.New(iface.PortRefs())
	for _, stat := range v.Stats {
		switch s := stat.(type) {
		case *ast.InstanceStat:
			if err := e.evalInstanceStat(s, st); err != nil {
				return nil, err
			}
		case *ast.ConnectionStat:
			left, err := toStructureEndpoint(s.Left, s.Span)
			if err != nil {
				return nil, err
			}
			right, err := toStructureEndpoint(s.Right, s.Span)
			if err != nil {
				return nil, err
			}
			if err := st.AddConnection(left, right); err != nil {
				return nil, wrapSpan(err, s.Span)
			}
		case *ast.ErrorStat:
			return nil, ilerrors.ParsingError("refusing to evaluate a recovered (invalid) structural statement").WithSpan(s.Span)
		default:
			return nil, ilerrors.ParsingError("unknown structural statement node %T", stat)
		}
	}
	if err := st.Validate(); err != nil {
		return nil, wrapSpan(err, v.Span)
	}
	return ir.StructuralImplementation{Structure: st}, nil
}

// evalInstanceStat resolves the referenced streamlet, evaluates its
// domain and parameter assignments, and projects its interface's ports
// (remapped to the instantiation site's domain names) into a
// structure.StreamletInstance.
func (e *Evaluator) evalInstanceStat(stat *ast.InstanceStat, st *structure.Structure) error {
	instName, err := name.New(stat.Name)
	if err != nil {
		return wrapSpan(ilerrors.Context(err, "invalid instance name"), stat.Span)
	}
	streamlet, err := e.resolveStreamlet(stat.Streamlet, stat.Span)
	if err != nil {
		return err
	}

	domains := orderedmap.New[name.Name, name.Name]()
	for _, ga := range stat.Domains {
		target := ga.Name
		if target == "" {
			target = ga.Value
		}
		targetName, err := name.New(target)
		if err != nil {
			return wrapSpan(ilerrors.Context(err, "invalid domain assignment"), stat.Span)
		}
		valueName, err := name.New(ga.Value)
		if err != nil {
			return wrapSpan(ilerrors.Context(err, "invalid domain assignment"), stat.Span)
		}
		domains.InsertOrReplace(targetName, valueName)
	}

	params := orderedmap.New[name.Name, int64]()
	for _, ga := range stat.Params {
		paramName, err := name.New(ga.Name)
		if err != nil {
			return wrapSpan(ilerrors.Context(err, "invalid parameter assignment"), stat.Span)
		}
		v, convErr := strconv.ParseInt(ga.Value, 10, 64)
		if convErr != nil {
			return ilerrors.InvalidArgument("parameter %q must be assigned an integer literal, got %q", ga.Name, ga.Value).WithSpan(stat.Span)
		}
		params.InsertOrReplace(paramName, v)
	}

	ports := orderedmap.Map2(streamlet.Interface.Ports, func(_ name.Name, p ir.InterfacePort) structure.PortRef {
		ref := p.AsPortRef()
		if !ref.Domain.IsZero() {
			if mapped, ok := domains.Get(ref.Domain); ok {
				ref.Domain = mapped
			}
		}
		return ref
	})

	inst := &structure.StreamletInstance{
		Name:      instName,
		Streamlet: streamlet.Name,
		Ports:     ports,
		Domains:   domains,
		Params:    params,
	}
	if err := st.AddInstance(inst); err != nil {
		return wrapSpan(err, stat.Span)
	}
	return nil
}

func toStructureEndpoint(ep ast.Endpoint, span ilerrors.Span) (structure.Endpoint, error) {
	var inst name.Name
	var err error
	if ep.Instance != "" {
		inst, err = name.New(ep.Instance)
		if err != nil {
			return structure.Endpoint{}, wrapSpan(ilerrors.Context(err, "invalid instance name"), span)
		}
	}
	port, err := name.New(ep.Port)
	if err != nil {
		return structure.Endpoint{}, wrapSpan(ilerrors.Context(err, "invalid port name"), span)
	}
	return structure.Endpoint{Instance: inst, Port: port}, nil
}
