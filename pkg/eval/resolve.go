package eval

import (
	"github.com/tydi-lang/tilc/pkg/ilerrors"
	"github.com/tydi-lang/tilc/pkg/ir"
	"github.com/tydi-lang/tilc/pkg/logical"
	"github.com/tydi-lang/tilc/pkg/name"
	"github.com/tydi-lang/tilc/pkg/project"
)

// splitPath validates path and, when it has more than one segment, splits
// it into the namespace path and the final identifier; a single-segment
// path returns a zero namespace path and multi=false, signaling "resolve
// locally".
func splitPath(path []string, span ilerrors.Span) (nsPath name.PathName, last name.Name, multi bool, err error) {
	if len(path) == 0 {
		return name.PathName{}, name.Name{}, false, ilerrors.InvalidArgument("empty identifier").WithSpan(span)
	}
	if len(path) == 1 {
		n, err := name.New(path[0])
		if err != nil {
			return name.PathName{}, name.Name{}, false, wrapSpan(ilerrors.Context(err, "invalid identifier"), span)
		}
		return name.PathName{}, n, false, nil
	}
	nsPath, err = pathNameFromSegments(path[:len(path)-1])
	if err != nil {
		return name.PathName{}, name.Name{}, false, wrapSpan(ilerrors.Context(err, "invalid namespace path"), span)
	}
	last, err = name.New(path[len(path)-1])
	if err != nil {
		return name.PathName{}, name.Name{}, false, wrapSpan(ilerrors.Context(err, "invalid identifier"), span)
	}
	return nsPath, last, true, nil
}

// resolveType resolves an identifier path to a previously declared or
// imported type (spec.md §4.6: local table first, then imports). A
// single-segment path resolves against the current namespace's table; a
// multi-segment path addresses a symbol declared directly in another
// namespace of the project, without requiring an explicit import (spec.md
// §9 leaves cross-project resolution partially sketched; this is the
// evaluator's concrete choice, recorded in DESIGN.md).
func (e *Evaluator) resolveType(path []string, span ilerrors.Span) (logical.TypeId, error) {
	nsPath, last, multi, err := splitPath(path, span)
	if err != nil {
		return logical.TypeId{}, err
	}
	if !multi {
		if v, ok := e.ns.Types.Resolve(last); ok {
			return v, nil
		}
		return logical.TypeId{}, ilerrors.InvalidArgument("undefined type %q", last).WithSpan(span)
	}
	target, err := e.namespaceAt(nsPath, span)
	if err != nil {
		return logical.TypeId{}, err
	}
	if v, ok := target.Types.Declared.Get(last); ok {
		return v, nil
	}
	return logical.TypeId{}, ilerrors.InvalidArgument("undefined type %q in namespace %q", last, nsPath).WithSpan(span)
}

func (e *Evaluator) resolveInterface(path []string, span ilerrors.Span) (*ir.Interface, error) {
	nsPath, last, multi, err := splitPath(path, span)
	if err != nil {
		return nil, err
	}
	if !multi {
		if v, ok := e.ns.Interfaces.Resolve(last); ok {
			return v, nil
		}
		return nil, ilerrors.InvalidArgument("undefined interface %q", last).WithSpan(span)
	}
	target, err := e.namespaceAt(nsPath, span)
	if err != nil {
		return nil, err
	}
	if v, ok := target.Interfaces.Declared.Get(last); ok {
		return v, nil
	}
	return nil, ilerrors.InvalidArgument("undefined interface %q in namespace %q", last, nsPath).WithSpan(span)
}

func (e *Evaluator) resolveStreamlet(path []string, span ilerrors.Span) (*ir.Streamlet, error) {
	nsPath, last, multi, err := splitPath(path, span)
	if err != nil {
		return nil, err
	}
	if !multi {
		if v, ok := e.ns.Streamlets.Resolve(last); ok {
			return v, nil
		}
		return nil, ilerrors.InvalidArgument("undefined streamlet %q", last).WithSpan(span)
	}
	target, err := e.namespaceAt(nsPath, span)
	if err != nil {
		return nil, err
	}
	if v, ok := target.Streamlets.Declared.Get(last); ok {
		return v, nil
	}
	return nil, ilerrors.InvalidArgument("undefined streamlet %q in namespace %q", last, nsPath).WithSpan(span)
}

func (e *Evaluator) resolveImplementation(path []string, span ilerrors.Span) (ir.Implementation, error) {
	nsPath, last, multi, err := splitPath(path, span)
	if err != nil {
		return nil, err
	}
	if !multi {
		if v, ok := e.ns.Implementations.Resolve(last); ok {
			return v, nil
		}
		return nil, ilerrors.InvalidArgument("undefined implementation %q", last).WithSpan(span)
	}
	target, err := e.namespaceAt(nsPath, span)
	if err != nil {
		return nil, err
	}
	if v, ok := target.Implementations.Declared.Get(last); ok {
		return v, nil
	}
	return nil, ilerrors.InvalidArgument("undefined implementation %q in namespace %q", last, nsPath).WithSpan(span)
}

func (e *Evaluator) namespaceAt(nsPath name.PathName, span ilerrors.Span) (*project.Namespace, error) {
	target, ok := e.Project.Namespace(nsPath)
	if !ok {
		return nil, ilerrors.InvalidArgument("reference to unknown namespace %q", nsPath).WithSpan(span)
	}
	return target, nil
}
