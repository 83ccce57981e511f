// Package ir holds the named, declaration-level IR nodes of spec.md §4.6:
// Interface (a port list with an optional domain set and generic
// parameters), Streamlet (an interface paired with an implementation),
// and Implementation (either a structural body or a link to an external
// implementation). Unlike pkg/logical's content-addressed LogicalType and
// Stream, these nodes are identified by the symbol tables that name them
// (pkg/project's Namespace), not by structural equality, so they live in
// a plain arena (Db) that hands out sequential ids rather than a
// content-addressed interner.Store.
package ir

import (
	"fmt"

	"github.com/tydi-lang/tilc/pkg/generics"
	"github.com/tydi-lang/tilc/pkg/ilerrors"
	"github.com/tydi-lang/tilc/pkg/name"
	"github.com/tydi-lang/tilc/pkg/orderedmap"
	"github.com/tydi-lang/tilc/pkg/structure"
)

// InterfacePort is one named port of an Interface: the stream it carries,
// its direction, and the domain it belongs to (spec.md §3.6).
type InterfacePort struct {
	Name   name.Name
	Stream structure.PortRef
	Doc    string
}

// AsPortRef projects a port down to the minimal facts pkg/structure's
// connection algebra needs.
func (p InterfacePort) AsPortRef() structure.PortRef { return p.Stream }

// Interface is a named list of ports, optionally scoped to a fixed set of
// domains, with its own generic parameters (spec.md §3.6, §4.6).
type Interface struct {
	Domains    *orderedmap.Set[name.Name] // nil means "default domain only"
	Parameters *orderedmap.Map[name.Name, *generics.Parameter]
	Ports      *orderedmap.Map[name.Name, InterfacePort]
}

// NewInterface returns an empty interface with no domain restriction.
func NewInterface() *Interface {
	return &Interface{
		Parameters: orderedmap.New[name.Name, *generics.Parameter](),
		Ports:      orderedmap.New[name.Name, InterfacePort](),
	}
}

// AddPort validates a port's domain against the interface's declared
// domain set (if any) and adds it, rejecting a duplicate port name. A
// domain-restricted interface requires every port to name one of its
// domains; an unrestricted interface requires every port to have none.
func (i *Interface) AddPort(p InterfacePort) error {
	hasDomain := !p.Stream.Domain.IsZero()
	if i.Domains != nil {
		if !hasDomain {
			return ilerrors.InvalidArgument("port %q has no domain, but this interface declares domains", p.Name)
		}
		if !i.Domains.Has(p.Stream.Domain) {
			return ilerrors.InvalidArgument("port %q has domain %q, which this interface does not declare", p.Name, p.Stream.Domain)
		}
	} else if hasDomain {
		return ilerrors.InvalidArgument("port %q has domain %q, but this interface declares no domains", p.Name, p.Stream.Domain)
	}
	if err := i.Ports.TryInsert(p.Name, p); err != nil {
		return ilerrors.UnexpectedDuplicate(fmt.Sprintf("port %q", p.Name))
	}
	return nil
}

// AddParameter adds a generic-parameter declaration (§4.8), rejecting a
// duplicate name.
func (i *Interface) AddParameter(p *generics.Parameter) error {
	if err := i.Parameters.TryInsert(p.Name, p); err != nil {
		return ilerrors.UnexpectedDuplicate(fmt.Sprintf("parameter %q", p.Name))
	}
	return nil
}

// PortRefs projects every port of the interface to a structure.PortRef
// map, the shape pkg/structure.Structure needs for its own interface
// ports (the "self" side of AddConnection).
func (i *Interface) PortRefs() *orderedmap.Map[name.Name, structure.PortRef] {
	return orderedmap.Map2(i.Ports, func(_ name.Name, p InterfacePort) structure.PortRef {
		return p.AsPortRef()
	})
}

// Implementation is the body of a streamlet: either a Structure (an
// inline structural description) or a Link (a reference to an externally
// defined implementation, e.g. a hand-written VHDL entity). It is an
// interface, rather than a closed two-field struct, specifically so a
// type can satisfy it without living in this package — avoiding a cycle,
// since the natural home for structural validation is pkg/structure and
// pkg/structure must not import pkg/ir back.
type Implementation interface {
	// ImplementationKind is exported (unlike the unexported sealed-interface
	// marker used by pkg/ast's node interfaces) precisely so a type outside
	// this package can implement Implementation.
	ImplementationKind() string
}

// StructuralImplementation is the Structure-backed variant of
// Implementation.
type StructuralImplementation struct {
	Structure *structure.Structure
}

func (StructuralImplementation) ImplementationKind() string { return "structural" }

// LinkImplementation is the Link-backed variant of Implementation: the
// streamlet's behavior is defined outside TIL, at Path.
type LinkImplementation struct {
	Path name.PathName
}

func (LinkImplementation) ImplementationKind() string { return "link" }

// Streamlet couples an Interface with an optional Implementation
// (spec.md §3.7, §4.6). A Streamlet backed by a Link implementation has
// its name locked to the link's path, mirroring the original's
// lock_name rule: linking fixes identity, so a later rename attempt is a
// no-op rather than an error.
type Streamlet struct {
	Name           name.PathName
	Interface      *Interface
	Implementation Implementation
	Doc            string
	nameLocked     bool
}

// NewStreamlet returns a Streamlet with the given name and interface, and
// no implementation yet.
func NewStreamlet(streamletName name.PathName, iface *Interface) *Streamlet {
	return &Streamlet{Name: streamletName, Interface: iface}
}

// WithImplementation attaches impl, locking the streamlet's name to the
// link path if impl is a LinkImplementation.
func (s *Streamlet) WithImplementation(impl Implementation) {
	s.Implementation = impl
	if link, ok := impl.(LinkImplementation); ok {
		s.Name = link.Path
		s.nameLocked = true
		return
	}
	s.nameLocked = false
}

// NameLocked reports whether a prior Link implementation has fixed this
// streamlet's name.
func (s *Streamlet) NameLocked() bool { return s.nameLocked }

// Rename renames the streamlet unless its name is locked, in which case
// the call is a silent no-op (mirrors the original's with_name behavior).
func (s *Streamlet) Rename(n name.PathName) {
	if s.nameLocked {
		return
	}
	s.Name = n
}

// InterfaceId, StreamletId and ImplementationId are opaque arena handles
// minted by Db. They are plain sequence numbers, not content-addressed
// interner.Ids: two streamlets with identical ports are still distinct
// declarations, so structural deduplication would be wrong here.
type InterfaceId int
type StreamletId int
type ImplementationId int

// Db is the arena owning every named IR node built while evaluating one
// project. It hands out stable ids on Add and resolves them back on
// Lookup; unlike pkg/interner.Store, Add never deduplicates.
type Db struct {
	interfaces      []*Interface
	streamlets      []*Streamlet
	implementations []Implementation
}

// NewDb returns an empty arena.
func NewDb() *Db { return &Db{} }

func (db *Db) AddInterface(i *Interface) InterfaceId {
	db.interfaces = append(db.interfaces, i)
	return InterfaceId(len(db.interfaces) - 1)
}

func (db *Db) Interface(id InterfaceId) *Interface { return db.interfaces[id] }

func (db *Db) AddStreamlet(s *Streamlet) StreamletId {
	db.streamlets = append(db.streamlets, s)
	return StreamletId(len(db.streamlets) - 1)
}

func (db *Db) Streamlet(id StreamletId) *Streamlet { return db.streamlets[id] }

func (db *Db) AddImplementation(impl Implementation) ImplementationId {
	db.implementations = append(db.implementations, impl)
	return ImplementationId(len(db.implementations) - 1)
}

func (db *Db) Implementation(id ImplementationId) Implementation { return db.implementations[id] }
