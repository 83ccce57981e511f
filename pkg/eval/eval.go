// Package eval implements the pre-order AST-to-IR evaluator of spec.md
// §4.6: it walks a parsed namespace, resolves imports, and registers each
// declaration into the owning project.Namespace's four symbol tables only
// after its body has fully evaluated. It is the single place that turns
// ast (syntax, spans, recovery nodes) into logical/ir/structure (content-
// addressed, validated IR).
package eval

import (
	"fmt"
	"sort"

	"github.com/tydi-lang/tilc/pkg/ast"
	"github.com/tydi-lang/tilc/pkg/ilerrors"
	"github.com/tydi-lang/tilc/pkg/ir"
	"github.com/tydi-lang/tilc/pkg/logical"
	"github.com/tydi-lang/tilc/pkg/name"
	"github.com/tydi-lang/tilc/pkg/project"
)

// Evaluator holds the databases a project-wide evaluation fills in, plus
// the project whose namespaces it populates. One Evaluator processes every
// namespace of a project, carrying the logical-type and IR arenas across
// namespace boundaries so cross-namespace ids stay valid.
type Evaluator struct {
	Logical *logical.Db
	IR      *ir.Db
	Project *project.Project

	ns *project.Namespace // namespace currently being evaluated
}

// wrapSpan attaches span to err if err carries our error type, passing any
// other error through unchanged; Context always returns our type, but the
// helper keeps call sites free of repeated type assertions.
func wrapSpan(err error, span ilerrors.Span) error {
	if ie, ok := err.(*ilerrors.Error); ok {
		return ie.WithSpan(span)
	}
	return err
}

// New returns an evaluator targeting proj, with fresh logical and IR
// databases.
func New(proj *project.Project) *Evaluator {
	return &Evaluator{
		Logical: logical.NewDb(),
		IR:      ir.NewDb(),
		Project: proj,
	}
}

// EvalProject evaluates every namespace in files, in an order that
// processes a namespace's imports before the namespace itself (spec.md
// §4.6). files need not be in dependency order; EvalProject topologically
// sorts them by import edges and fails with a ProjectError naming a
// namespace on the cycle if no such order exists.
func (e *Evaluator) EvalProject(files []*ast.File) error {
	byPath := make(map[name.PathName]*ast.Namespace)
	var paths []name.PathName
	for _, f := range files {
		for _, astNs := range f.Namespaces {
			p, err := pathNameFromSegments(astNs.Path)
			if err != nil {
				return wrapSpan(ilerrors.Context(err, "invalid namespace path"), astNs.Span)
			}
			if _, dup := byPath[p]; dup {
				return ilerrors.UnexpectedDuplicate(fmt.Sprintf("namespace %q", p)).WithSpan(astNs.Span)
			}
			byPath[p] = astNs
			paths = append(paths, p)
		}
	}

	order, err := topoSort(byPath, paths)
	if err != nil {
		return err
	}
	for _, p := range order {
		if err := e.evalNamespace(byPath[p]); err != nil {
			return err
		}
	}
	return nil
}

// topoSort orders namespaces so that every import is evaluated before the
// namespace that imports it, via a depth-first post-order traversal.
func topoSort(byPath map[name.PathName]*ast.Namespace, paths []name.PathName) ([]name.PathName, error) {
	sort.Slice(paths, func(i, j int) bool { return paths[i].String() < paths[j].String() })

	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := make(map[name.PathName]int, len(paths))
	var order []name.PathName

	var visit func(p name.PathName) error
	visit = func(p name.PathName) error {
		switch state[p] {
		case done:
			return nil
		case visiting:
			return ilerrors.ProjectError("import cycle detected at namespace %q", p)
		}
		state[p] = visiting
		astNs, ok := byPath[p]
		if ok {
			for _, imp := range astNs.Imports {
				ip, err := pathNameFromSegments(imp.Path)
				if err != nil {
					return wrapSpan(ilerrors.Context(err, "invalid import path"), imp.Span)
				}
				if _, known := byPath[ip]; known {
					if err := visit(ip); err != nil {
						return err
					}
				}
			}
		}
		state[p] = done
		order = append(order, p)
		return nil
	}

	for _, p := range paths {
		if err := visit(p); err != nil {
			return nil, err
		}
	}
	return order, nil
}

// evalNamespace evaluates one namespace: its imports are merged into the
// two-layer symbol tables first, then its declarations are evaluated in
// source order.
func (e *Evaluator) evalNamespace(astNs *ast.Namespace) error {
	path, err := pathNameFromSegments(astNs.Path)
	if err != nil {
		return wrapSpan(ilerrors.Context(err, "invalid namespace path"), astNs.Span)
	}

	ns, ok := e.Project.Namespace(path)
	if !ok {
		ns = project.NewNamespace(path)
		if err := e.Project.AddNamespace(ns); err != nil {
			return err
		}
	}
	e.ns = ns

	for _, imp := range astNs.Imports {
		if err := e.evalImport(imp); err != nil {
			return err
		}
	}

	for _, decl := range astNs.Decls {
		if err := e.evalDecl(decl); err != nil {
			return err
		}
	}
	return nil
}

// evalImport merges an already-evaluated namespace's declared symbols into
// the current namespace's imported tables, under an alias or prefix when
// given (spec.md §4.5's `import <path> [as <name> | prefixed <path>]`).
func (e *Evaluator) evalImport(imp *ast.Import) error {
	srcPath, err := pathNameFromSegments(imp.Path)
	if err != nil {
		return wrapSpan(ilerrors.Context(err, "invalid import path"), imp.Span)
	}
	src, ok := e.Project.Namespace(srcPath)
	if !ok {
		return ilerrors.ProjectError("import of unknown namespace %q", srcPath).WithSpan(imp.Span)
	}

	rename := func(n name.Name) (name.Name, error) {
		if imp.Alias != "" {
			return name.New(imp.Alias)
		}
		if len(imp.Prefixed) > 0 {
			prefix, err := pathNameFromSegments(imp.Prefixed)
			if err != nil {
				return name.Name{}, err
			}
			return name.New(prefix.WithChild(n).String())
		}
		return n, nil
	}

	for _, k := range src.Types.Declared.Keys() {
		v, _ := src.Types.Declared.Get(k)
		local, err := rename(k)
		if err != nil {
			return wrapSpan(ilerrors.Context(err, "invalid import alias"), imp.Span)
		}
		if err := e.ns.Types.Import(local, v); err != nil {
			return wrapSpan(err, imp.Span)
		}
	}
	for _, k := range src.Interfaces.Declared.Keys() {
		v, _ := src.Interfaces.Declared.Get(k)
		local, err := rename(k)
		if err != nil {
			return wrapSpan(ilerrors.Context(err, "invalid import alias"), imp.Span)
		}
		if err := e.ns.Interfaces.Import(local, v); err != nil {
			return wrapSpan(err, imp.Span)
		}
	}
	for _, k := range src.Streamlets.Declared.Keys() {
		v, _ := src.Streamlets.Declared.Get(k)
		local, err := rename(k)
		if err != nil {
			return wrapSpan(ilerrors.Context(err, "invalid import alias"), imp.Span)
		}
		if err := e.ns.Streamlets.Import(local, v); err != nil {
			return wrapSpan(err, imp.Span)
		}
	}
	for _, k := range src.Implementations.Declared.Keys() {
		v, _ := src.Implementations.Declared.Get(k)
		local, err := rename(k)
		if err != nil {
			return wrapSpan(ilerrors.Context(err, "invalid import alias"), imp.Span)
		}
		if err := e.ns.Implementations.Import(local, v); err != nil {
			return wrapSpan(err, imp.Span)
		}
	}
	return nil
}

// evalDecl dispatches on the declaration's concrete type and registers it
// after its body evaluates.
func (e *Evaluator) evalDecl(decl ast.Decl) error {
	switch d := decl.(type) {
	case *ast.TypeDecl:
		return e.evalTypeDecl(d)
	case *ast.InterfaceDecl:
		return e.evalInterfaceDecl(d)
	case *ast.StreamletDecl:
		return e.evalStreamletDecl(d)
	case *ast.ImplDecl:
		return e.evalImplDecl(d)
	case *ast.ErrorDecl:
		return ilerrors.ParsingError("refusing to evaluate a recovered (invalid) declaration").WithSpan(d.Span)
	default:
		return ilerrors.ParsingError("unknown declaration node %T", decl)
	}
}

func (e *Evaluator) evalTypeDecl(d *ast.TypeDecl) error {
	id, err := e.evalTypeExpr(d.Type)
	if err != nil {
		return err
	}
	n, err := name.New(d.Name)
	if err != nil {
		return wrapSpan(ilerrors.Context(err, "invalid type name"), d.Span)
	}
	if err := e.ns.Types.Declare(n, id); err != nil {
		return wrapSpan(err, d.Span)
	}
	return nil
}

func (e *Evaluator) evalInterfaceDecl(d *ast.InterfaceDecl) error {
	iface, err := e.evalLiteralInterface(ast.LiteralInterface{Domains: d.Domains, Parameters: d.Parameters, Ports: d.Ports, Span: d.Span})
	if err != nil {
		return err
	}
	n, err := name.New(d.Name)
	if err != nil {
		return wrapSpan(ilerrors.Context(err, "invalid interface name"), d.Span)
	}
	if err := e.ns.Interfaces.Declare(n, iface); err != nil {
		return wrapSpan(err, d.Span)
	}
	e.IR.AddInterface(iface)
	return nil
}

// pathNameFromSegments converts a parsed dotted/double-colon path
// (already split into plain strings by the parser) into a validated
// name.PathName.
func pathNameFromSegments(segments []string) (name.PathName, error) {
	names := make([]name.Name, 0, len(segments))
	for _, s := range segments {
		n, err := name.New(s)
		if err != nil {
			return name.PathName{}, err
		}
		names = append(names, n)
	}
	return name.NewPathName(names...), nil
}
