package structure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tydi-lang/tilc/pkg/complexity"
	"github.com/tydi-lang/tilc/pkg/generics"
	"github.com/tydi-lang/tilc/pkg/logical"
	"github.com/tydi-lang/tilc/pkg/name"
	"github.com/tydi-lang/tilc/pkg/numeric"
	"github.com/tydi-lang/tilc/pkg/orderedmap"
)

func mustName(t *testing.T, s string) name.Name {
	t.Helper()
	n, err := name.New(s)
	require.NoError(t, err)
	return n
}

func TestAddConnection_InstanceToInstance_RequiresOppositeDirections(t *testing.T) {
	var s0 logical.StreamId
	s := New(orderedmap.New[name.Name, PortRef]())

	left := &StreamletInstance{
		Name:  mustName(t, "left"),
		Ports: orderedmap.Of(orderedmap.Pair[name.Name, PortRef]{Key: mustName(t, "out"), Value: PortRef{Stream: s0, Direction: Out}}),
	}
	right := &StreamletInstance{
		Name:  mustName(t, "right"),
		Ports: orderedmap.Of(orderedmap.Pair[name.Name, PortRef]{Key: mustName(t, "in"), Value: PortRef{Stream: s0, Direction: In}}),
	}
	require.NoError(t, s.AddInstance(left))
	require.NoError(t, s.AddInstance(right))

	require.NoError(t, s.AddConnection(
		Endpoint{Instance: mustName(t, "left"), Port: mustName(t, "out")},
		Endpoint{Instance: mustName(t, "right"), Port: mustName(t, "in")},
	))
	require.Len(t, s.Connections, 1)
	assert.Equal(t, "left.out", s.Connections[0].Source.String())
	assert.Equal(t, "right.in", s.Connections[0].Sink.String())
}

func TestAddConnection_InstanceToInstance_SameDirectionIsIncompatible(t *testing.T) {
	var s0 logical.StreamId
	s := New(orderedmap.New[name.Name, PortRef]())
	left := &StreamletInstance{
		Name:  mustName(t, "left"),
		Ports: orderedmap.Of(orderedmap.Pair[name.Name, PortRef]{Key: mustName(t, "out"), Value: PortRef{Stream: s0, Direction: Out}}),
	}
	right := &StreamletInstance{
		Name:  mustName(t, "right"),
		Ports: orderedmap.Of(orderedmap.Pair[name.Name, PortRef]{Key: mustName(t, "out2"), Value: PortRef{Stream: s0, Direction: Out}}),
	}
	require.NoError(t, s.AddInstance(left))
	require.NoError(t, s.AddInstance(right))

	err := s.AddConnection(
		Endpoint{Instance: mustName(t, "left"), Port: mustName(t, "out")},
		Endpoint{Instance: mustName(t, "right"), Port: mustName(t, "out2")},
	)
	assert.Error(t, err)
}

func TestAddConnection_InstanceToInterface_RequiresMatchingDirections(t *testing.T) {
	var s0 logical.StreamId
	ports := orderedmap.Of(orderedmap.Pair[name.Name, PortRef]{Key: mustName(t, "p"), Value: PortRef{Stream: s0, Direction: In}})
	s := New(ports)
	inst := &StreamletInstance{
		Name:  mustName(t, "i"),
		Ports: orderedmap.Of(orderedmap.Pair[name.Name, PortRef]{Key: mustName(t, "q"), Value: PortRef{Stream: s0, Direction: In}}),
	}
	require.NoError(t, s.AddInstance(inst))

	require.NoError(t, s.AddConnection(
		Endpoint{Port: mustName(t, "p")},
		Endpoint{Instance: mustName(t, "i"), Port: mustName(t, "q")},
	))
	require.Len(t, s.Connections, 1)
	assert.Equal(t, "p", s.Connections[0].Source.String())
	assert.Equal(t, "i.q", s.Connections[0].Sink.String())
}

func TestAddConnection_MismatchedStreamIsInvalidTarget(t *testing.T) {
	db := logical.NewDb()
	bitsId := db.Intern(logical.Bits(numeric.MustPositive(1)))
	nullId := db.Intern(logical.Null())

	stream0, err := logical.NewStream(db, bitsId, numeric.MustPositiveReal(1), generics.Fixed(1), logical.Sync, complexity.FromMajor(1), logical.Forward, nullId, false)
	require.NoError(t, err)
	s0 := db.InternStream(stream0)

	stream1, err := logical.NewStream(db, nullId, numeric.MustPositiveReal(1), generics.Fixed(1), logical.Sync, complexity.FromMajor(1), logical.Forward, nullId, false)
	require.NoError(t, err)
	s1 := db.InternStream(stream1)

	s := New(orderedmap.New[name.Name, PortRef]())
	left := &StreamletInstance{
		Name:  mustName(t, "left"),
		Ports: orderedmap.Of(orderedmap.Pair[name.Name, PortRef]{Key: mustName(t, "out"), Value: PortRef{Stream: s0, Direction: Out}}),
	}
	right := &StreamletInstance{
		Name:  mustName(t, "right"),
		Ports: orderedmap.Of(orderedmap.Pair[name.Name, PortRef]{Key: mustName(t, "in"), Value: PortRef{Stream: s1, Direction: In}}),
	}
	require.NoError(t, s.AddInstance(left))
	require.NoError(t, s.AddInstance(right))

	err = s.AddConnection(
		Endpoint{Instance: mustName(t, "left"), Port: mustName(t, "out")},
		Endpoint{Instance: mustName(t, "right"), Port: mustName(t, "in")},
	)
	assert.Error(t, err)
}

func TestAddInstance_DuplicateNameFails(t *testing.T) {
	s := New(orderedmap.New[name.Name, PortRef]())
	inst := &StreamletInstance{Name: mustName(t, "a"), Ports: orderedmap.New[name.Name, PortRef]()}
	require.NoError(t, s.AddInstance(inst))
	err := s.AddInstance(&StreamletInstance{Name: mustName(t, "a"), Ports: orderedmap.New[name.Name, PortRef]()})
	assert.Error(t, err)
}

func TestValidate_ExhaustivenessCatchesUnconnectedPort(t *testing.T) {
	var s0 logical.StreamId
	ports := orderedmap.Of(orderedmap.Pair[name.Name, PortRef]{Key: mustName(t, "p"), Value: PortRef{Stream: s0, Direction: In}})
	s := New(ports)
	err := s.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has not been connected")
}

func TestValidate_DuplicateSourceUseFails(t *testing.T) {
	var s0 logical.StreamId
	ports := orderedmap.Of(orderedmap.Pair[name.Name, PortRef]{Key: mustName(t, "p"), Value: PortRef{Stream: s0, Direction: Out}})
	s := New(ports)
	inst1 := &StreamletInstance{Name: mustName(t, "i1"), Ports: orderedmap.Of(orderedmap.Pair[name.Name, PortRef]{Key: mustName(t, "q"), Value: PortRef{Stream: s0, Direction: In}})}
	inst2 := &StreamletInstance{Name: mustName(t, "i2"), Ports: orderedmap.Of(orderedmap.Pair[name.Name, PortRef]{Key: mustName(t, "q"), Value: PortRef{Stream: s0, Direction: In}})}
	require.NoError(t, s.AddInstance(inst1))
	require.NoError(t, s.AddInstance(inst2))

	s.Connections = append(s.Connections,
		Connection{Source: Endpoint{Port: mustName(t, "p")}, Sink: Endpoint{Instance: mustName(t, "i1"), Port: mustName(t, "q")}},
		Connection{Source: Endpoint{Port: mustName(t, "p")}, Sink: Endpoint{Instance: mustName(t, "i2"), Port: mustName(t, "q")}},
	)
	err := s.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate use of source")
}

func TestValidate_FullyConnectedStructurePasses(t *testing.T) {
	var s0 logical.StreamId
	ports := orderedmap.Of(orderedmap.Pair[name.Name, PortRef]{Key: mustName(t, "p"), Value: PortRef{Stream: s0, Direction: In}})
	s := New(ports)
	inst := &StreamletInstance{Name: mustName(t, "i"), Ports: orderedmap.Of(orderedmap.Pair[name.Name, PortRef]{Key: mustName(t, "q"), Value: PortRef{Stream: s0, Direction: In}})}
	require.NoError(t, s.AddInstance(inst))
	require.NoError(t, s.AddConnection(Endpoint{Port: mustName(t, "p")}, Endpoint{Instance: mustName(t, "i"), Port: mustName(t, "q")}))
	assert.NoError(t, s.Validate())
}
