// Package structure implements the connection algebra of a structural
// implementation body (spec.md §4.7): streamlet instances, the connections
// between their ports (and the ports of the enclosing interface itself),
// and the validation pass that proves every port is used exactly once.
//
// The package is deliberately self-contained: it knows nothing about
// pkg/ir's Interface or Streamlet declarations, only the minimal per-port
// facts (which stream it carries, which way it flows, which domain it
// belongs to) the connection rules actually need. pkg/ir depends on
// structure to hold the body of a Structural implementation; structure
// does not depend back on ir. pkg/eval is what resolves a real
// ir.InterfacePort down to the PortRef this package consumes.
package structure

import (
	"fmt"

	"github.com/tydi-lang/tilc/pkg/ilerrors"
	"github.com/tydi-lang/tilc/pkg/logical"
	"github.com/tydi-lang/tilc/pkg/name"
	"github.com/tydi-lang/tilc/pkg/orderedmap"
)

// Direction is a port's data direction, independent of logical.Direction
// (which describes a stream's own forward/reverse sense).
type Direction int

const (
	In Direction = iota
	Out
)

func (d Direction) String() string {
	if d == In {
		return "in"
	}
	return "out"
}

// Flip returns the opposite direction.
func (d Direction) Flip() Direction {
	if d == In {
		return Out
	}
	return In
}

// PortRef is everything the connection algebra needs to know about a
// single port: its stream, its direction, and (optionally) the domain it
// is pinned to.
type PortRef struct {
	Stream    logical.StreamId
	Direction Direction
	Domain    name.Name // zero Name means "no domain"
}

// StreamletInstance is one `name = streamlet<...>;` statement: the
// resolved ports of the referenced streamlet's interface, plus the
// generic assignments made at the instantiation site. Domains and Params
// are recorded for diagnostics and downstream lowering; AddConnection
// only consults Ports.
type StreamletInstance struct {
	Name      name.Name
	Streamlet name.PathName
	Ports     *orderedmap.Map[name.Name, PortRef]
	Domains   *orderedmap.Map[name.Name, name.Name]
	Params    *orderedmap.Map[name.Name, int64]
}

// Endpoint names one side of a connection: either a port of the
// structure's own interface (Instance is zero), or a port on a named
// instance.
type Endpoint struct {
	Instance name.Name
	Port     name.Name
}

// IsSelf reports whether this endpoint refers to the structure's own
// interface rather than an instance.
func (e Endpoint) IsSelf() bool { return e.Instance.IsZero() }

func (e Endpoint) String() string {
	if e.IsSelf() {
		return e.Port.String()
	}
	return fmt.Sprintf("%s.%s", e.Instance, e.Port)
}

// Connection is one validated, direction-canonicalized link: Source is
// always the data-producing end, Sink the data-consuming end, regardless
// of which side the `--` statement named first.
type Connection struct {
	Source Endpoint
	Sink   Endpoint
}

// Structure is the body of a structural implementation: the ports of the
// interface it implements, the streamlet instances it declares, and the
// connections wiring them together (spec.md §4.7).
type Structure struct {
	Ports       *orderedmap.Map[name.Name, PortRef]
	Instances   *orderedmap.Map[name.Name, *StreamletInstance]
	Connections []Connection
}

// New creates an empty Structure over the given interface ports.
func New(ports *orderedmap.Map[name.Name, PortRef]) *Structure {
	return &Structure{
		Ports:     ports,
		Instances: orderedmap.New[name.Name, *StreamletInstance](),
	}
}

// AddInstance registers a streamlet instance, failing if the name is
// already taken.
func (s *Structure) AddInstance(inst *StreamletInstance) error {
	if err := s.Instances.TryInsert(inst.Name, inst); err != nil {
		return ilerrors.UnexpectedDuplicate(fmt.Sprintf("streamlet instance %q", inst.Name))
	}
	return nil
}

func (s *Structure) resolvePort(e Endpoint) (PortRef, bool, error) {
	if e.IsSelf() {
		p, ok := s.Ports.Get(e.Port)
		if !ok {
			return PortRef{}, false, ilerrors.InvalidArgument("no port named %q on this interface", e.Port)
		}
		return p, false, nil
	}
	inst, ok := s.Instances.Get(e.Instance)
	if !ok {
		return PortRef{}, true, ilerrors.InvalidArgument("no streamlet instance named %q", e.Instance)
	}
	p, ok := inst.Ports.Get(e.Port)
	if !ok {
		return PortRef{}, true, ilerrors.InvalidArgument("instance %q has no port named %q", e.Instance, e.Port)
	}
	return p, true, nil
}

// AddConnection validates and records a connection between two endpoints,
// per the original implementation's try_add_connection: both sides must
// carry the same stream, and their directions must be compatible given
// whether they sit on the same "layer" (both on instances, or both on the
// enclosing interface) or cross layers.
//
//   - same layer (instance-to-instance, or interface-to-interface): the
//     directions must differ, an Out feeding an In.
//   - crossing layers (instance-to-interface): the directions must match,
//     since an instance's Out port is itself a source for the enclosing
//     interface, same as an interface In port is.
func (s *Structure) AddConnection(left, right Endpoint) error {
	leftPort, leftOnInstance, err := s.resolvePort(left)
	if err != nil {
		return err
	}
	rightPort, rightOnInstance, err := s.resolvePort(right)
	if err != nil {
		return err
	}

	if leftPort.Stream != rightPort.Stream {
		return ilerrors.InvalidTarget("%s and %s do not carry the same stream type", left, right)
	}

	sameLayer := leftOnInstance == rightOnInstance
	compatible := leftPort.Direction != rightPort.Direction
	if !sameLayer {
		compatible = leftPort.Direction == rightPort.Direction
	}
	if !compatible {
		return ilerrors.InvalidTarget("%s and %s have incompatible directions", left, right)
	}

	source, sink := canonicalize(left, leftPort, leftOnInstance, right, rightPort, rightOnInstance)
	s.Connections = append(s.Connections, Connection{Source: source, Sink: sink})
	return nil
}

// canonicalize picks which endpoint is the Source: an instance's Out
// port, or the enclosing interface's In port, produces data; the other
// side of the pair consumes it.
func canonicalize(left Endpoint, leftPort PortRef, leftOnInstance bool, right Endpoint, rightPort PortRef, rightOnInstance bool) (source, sink Endpoint) {
	leftIsSource := (leftOnInstance && leftPort.Direction == Out) || (!leftOnInstance && leftPort.Direction == In)
	if leftIsSource {
		return left, right
	}
	return right, left
}

// Validate performs the two-pass check of spec.md §4.7: every Source and
// every Sink must appear in exactly one connection (uniqueness), and every
// port of the interface and every instance must appear as one or the
// other (exhaustiveness).
func (s *Structure) Validate() error {
	sources := make(map[string]bool, len(s.Connections))
	sinks := make(map[string]bool, len(s.Connections))
	for _, c := range s.Connections {
		key := c.Source.String()
		if sources[key] {
			return ilerrors.ProjectError("duplicate use of source %s", key)
		}
		sources[key] = true

		key = c.Sink.String()
		if sinks[key] {
			return ilerrors.ProjectError("duplicate use of sink %s", key)
		}
		sinks[key] = true
	}

	var missing error
	s.Ports.Each(func(n name.Name, _ PortRef) error {
		ep := Endpoint{Port: n}
		if missing == nil && !sources[ep.String()] && !sinks[ep.String()] {
			missing = ilerrors.ProjectError("port %s has not been connected", ep)
		}
		return nil
	})
	if missing != nil {
		return missing
	}

	for _, pair := range s.Instances.Pairs() {
		instName, inst := pair.Key, pair.Value
		var err error
		inst.Ports.Each(func(n name.Name, _ PortRef) error {
			ep := Endpoint{Instance: instName, Port: n}
			if err == nil && !sources[ep.String()] && !sinks[ep.String()] {
				err = ilerrors.ProjectError("port %s has not been connected", ep)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}
