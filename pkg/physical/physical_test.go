package physical

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

// TestSignalList_UnionCarryingStream mirrors spec.md §8 scenario 3: a
// Stream carrying Union(a: Bits(16), b: Bits(7)), complexity 7, dim 0,
// throughput 1.0. Expected widths: valid=1, ready=1, data=17, strb=1,
// stai=None, endi=None, last=None, user=None.
func TestSignalList_UnionCarryingStream(t *testing.T) {
	db := logical.NewDb()
	a := db.Intern(logical.Bits(numeric.MustPositive(16)))
	b := db.Intern(logical.Bits(numeric.MustPositive(7)))

	variants := orderedmap.New[name.Name, logical.TypeId]()
	require.NoError(t, variants.TryInsert(name.MustNew("a"), a))
	require.NoError(t, variants.TryInsert(name.MustNew("b"), b))
	union := db.Intern(logical.Union(variants))

	nullId := db.Intern(logical.Null())
	s, err := logical.NewStream(db, union, numeric.MustPositiveReal(1.0), generics.Fixed(0), logical.Sync, complexity.FromMajor(7), logical.Forward, nullId, false)
	require.NoError(t, err)
	streamId := db.InternStream(s)

	result, err := Synthesize(db, streamId)
	require.NoError(t, err)
	require.Equal(t, 1, result.Streams.Len())

	sl, ok := result.SignalLists.Get(name.EmptyPathName())
	require.True(t, ok)

	validWidth, _ := sl.Valid.AsFixed()
	assert.Equal(t, uint64(1), validWidth)
	readyWidth, _ := sl.Ready.AsFixed()
	assert.Equal(t, uint64(1), readyWidth)

	require.NotNil(t, sl.Data)
	dataWidth, _ := sl.Data.AsFixed()
	assert.Equal(t, uint64(17), dataWidth)

	require.NotNil(t, sl.Strb)
	strbWidth, _ := sl.Strb.AsFixed()
	assert.Equal(t, uint64(1), strbWidth)

	assert.Nil(t, sl.Stai)
	assert.Nil(t, sl.Endi)
	assert.Nil(t, sl.Last)
	assert.Nil(t, sl.User)
}

func TestSignalList_SymbolicDimensionalityCarriesLast(t *testing.T) {
	db := logical.NewDb()
	leaf := db.Intern(logical.Bits(numeric.MustPositive(8)))
	nullId := db.Intern(logical.Null())

	width := name.MustNew("width")
	s, err := logical.NewStream(db, leaf, numeric.MustPositiveReal(1.0), generics.Parameterized(width), logical.Sync, complexity.FromMajor(4), logical.Forward, nullId, false)
	require.NoError(t, err)
	streamId := db.InternStream(s)

	result, err := Synthesize(db, streamId)
	require.NoError(t, err)

	sl, ok := result.SignalLists.Get(name.EmptyPathName())
	require.True(t, ok)
	require.NotNil(t, sl.Last)
	assert.False(t, sl.Last.IsFixed())
	assert.Equal(t, "width", sl.Last.String())
}

func TestBitCount_TryEvalResolvesLateBinding(t *testing.T) {
	width := name.MustNew("width")
	residual := Parameterized(width)

	env := orderedmap.New[name.Name, uint64]()
	require.NoError(t, env.TryInsert(width, 4))

	resolved, err := residual.TryEval(env)
	require.NoError(t, err)
	got, ok := resolved.AsFixed()
	require.True(t, ok)
	assert.Equal(t, uint64(4), got)
}

func TestElementNames_EmptyPathNamedData(t *testing.T) {
	db := logical.NewDb()
	leaf := db.Intern(logical.Bits(numeric.MustPositive(8)))
	nullId := db.Intern(logical.Null())

	s, err := logical.NewStream(db, leaf, numeric.MustPositiveReal(1.0), generics.Fixed(1), logical.Sync, complexity.FromMajor(4), logical.Forward, nullId, false)
	require.NoError(t, err)
	streamId := db.InternStream(s)

	result, err := Synthesize(db, streamId)
	require.NoError(t, err)

	ps, ok := result.Streams.Get(name.EmptyPathName())
	require.True(t, ok)

	names := ps.ElementNames()
	label, ok := names.Get(name.EmptyPathName())
	require.True(t, ok)
	assert.Equal(t, "data", label)
}
