package logical

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tydi-lang/tilc/pkg/complexity"
	"github.com/tydi-lang/tilc/pkg/generics"
	"github.com/tydi-lang/tilc/pkg/ilerrors"
	"github.com/tydi-lang/tilc/pkg/name"
	"github.com/tydi-lang/tilc/pkg/numeric"
	"github.com/tydi-lang/tilc/pkg/orderedmap"
)

func TestBitsLiteral(t *testing.T) {
	db := NewDb()
	x := db.Intern(Bits(numeric.MustPositive(4)))

	fields, err := db.Fields(x)
	require.NoError(t, err)
	require.Equal(t, 1, fields.Len())
	width, ok := fields.Get(name.EmptyPathName())
	require.True(t, ok)
	assert.Equal(t, uint64(4), width.Value())

	null, err := db.IsNull(x)
	require.NoError(t, err)
	assert.False(t, null)
}

func TestInternIsIdempotent(t *testing.T) {
	db := NewDb()
	a := db.Intern(Bits(numeric.MustPositive(8)))
	b := db.Intern(Bits(numeric.MustPositive(8)))
	c := db.Intern(Bits(numeric.MustPositive(9)))
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestGroup_AllNullFieldsIsNull(t *testing.T) {
	db := NewDb()
	nullId := db.Intern(Null())

	fields := orderedmap.New[name.Name, TypeId]()
	require.NoError(t, fields.TryInsert(name.MustNew("a"), nullId))
	require.NoError(t, fields.TryInsert(name.MustNew("b"), nullId))
	group := db.Intern(Group(fields))

	null, err := db.IsNull(group)
	require.NoError(t, err)
	assert.True(t, null)
}

// DegenerateStream mirrors spec.md §8 scenario 2: a Stream wrapping Null
// data with dimensionality 0, synchronicity Sync, complexity 4, direction
// Forward, and no user/keep. split_streams should drop it entirely and
// is_null should hold.
func TestDegenerateStream(t *testing.T) {
	db := NewDb()
	nullId := db.Intern(Null())

	s, err := NewStream(db, nullId, numeric.MustPositiveReal(1.0), generics.Fixed(0), Sync, complexity.FromMajor(4), Forward, nullId, false)
	require.NoError(t, err)
	streamId := db.InternStream(s)
	typeId := db.Intern(Stream(streamId))

	null, err := db.IsNull(typeId)
	require.NoError(t, err)
	assert.True(t, null)

	res, err := db.SplitStreams(typeId)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Streams.Len())
}

// StreamCarryingUnion mirrors spec.md §8 scenario 3: Union(a: Bits(16), b:
// Bits(7)) as data, complexity 7, dim 0, throughput 1.0. The resulting
// PhysicalStream element fields should be {tag: 1, union: 16}.
func TestStreamCarryingUnion(t *testing.T) {
	db := NewDb()
	a := db.Intern(Bits(numeric.MustPositive(16)))
	b := db.Intern(Bits(numeric.MustPositive(7)))

	variants := orderedmap.New[name.Name, TypeId]()
	require.NoError(t, variants.TryInsert(name.MustNew("a"), a))
	require.NoError(t, variants.TryInsert(name.MustNew("b"), b))
	union := db.Intern(Union(variants))

	nullId := db.Intern(Null())
	s, err := NewStream(db, union, numeric.MustPositiveReal(1.0), generics.Fixed(0), Sync, complexity.FromMajor(7), Forward, nullId, false)
	require.NoError(t, err)
	streamId := db.InternStream(s)
	typeId := db.Intern(Stream(streamId))

	res, err := db.SplitStreams(typeId)
	require.NoError(t, err)
	require.Equal(t, 1, res.Streams.Len())

	outStreamId, ok := res.Streams.Get(name.EmptyPathName())
	require.True(t, ok)
	outStream := db.LookupStream(outStreamId)

	elementFields, err := db.Fields(outStream.Data)
	require.NoError(t, err)
	require.Equal(t, 2, elementFields.Len())

	tagWidth, ok := elementFields.Get(name.NewPathName(name.MustNew("tag")))
	require.True(t, ok)
	assert.Equal(t, uint64(1), tagWidth.Value())

	unionWidth, ok := elementFields.Get(name.NewPathName(name.MustNew("union")))
	require.True(t, ok)
	assert.Equal(t, uint64(16), unionWidth.Value())
}

// ReversePropagation mirrors spec.md §8 scenario 4: a parent Stream of
// direction Reverse containing a child Stream of direction Forward yields,
// after split, the child with direction Reverse.
func TestReversePropagation(t *testing.T) {
	db := NewDb()
	leafBits := db.Intern(Bits(numeric.MustPositive(8)))
	nullId := db.Intern(Null())

	innerStream, err := NewStream(db, leafBits, numeric.MustPositiveReal(1.0), generics.Fixed(1), Sync, complexity.FromMajor(4), Forward, nullId, false)
	require.NoError(t, err)
	innerStreamId := db.InternStream(innerStream)
	innerStreamType := db.Intern(Stream(innerStreamId))

	group := orderedmap.New[name.Name, TypeId]()
	require.NoError(t, group.TryInsert(name.MustNew("child"), innerStreamType))
	groupType := db.Intern(Group(group))

	outerStream, err := NewStream(db, groupType, numeric.MustPositiveReal(1.0), generics.Fixed(1), Sync, complexity.FromMajor(4), Reverse, nullId, false)
	require.NoError(t, err)
	outerStreamId := db.InternStream(outerStream)
	outerType := db.Intern(Stream(outerStreamId))

	res, err := db.SplitStreams(outerType)
	require.NoError(t, err)

	childPath := name.NewPathName(name.MustNew("child"))
	childStreamId, ok := res.Streams.Get(childPath)
	require.True(t, ok)
	childStream := db.LookupStream(childStreamId)
	assert.Equal(t, Reverse, childStream.Direction)
}

func TestOverlappingStreamNamesIsInvalidArgument(t *testing.T) {
	db := NewDb()
	leafBits := db.Intern(Bits(numeric.MustPositive(8)))
	nullId := db.Intern(Null())

	innerStream, err := NewStream(db, leafBits, numeric.MustPositiveReal(1.0), generics.Fixed(1), Sync, complexity.FromMajor(4), Forward, nullId, false)
	require.NoError(t, err)
	innerStreamId := db.InternStream(innerStream)
	innerStreamType := db.Intern(Stream(innerStreamId))

	// Stream whose data is itself a Stream: the recursive split surfaces an
	// inner stream at the empty path, and `keep` makes this level survive
	// at the empty path too, so the two overlap.
	outerStream, err := NewStream(db, innerStreamType, numeric.MustPositiveReal(1.0), generics.Fixed(1), Sync, complexity.FromMajor(4), Forward, nullId, true)
	require.NoError(t, err)
	outerStreamId := db.InternStream(outerStream)
	outerType := db.Intern(Stream(outerStreamId))

	_, err = db.SplitStreams(outerType)
	assert.Error(t, err)
	assert.True(t, ilerrors.Is(err, ilerrors.CodeInvalidArgument))
}
