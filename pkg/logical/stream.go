package logical

import (
	"fmt"

	"github.com/tydi-lang/tilc/pkg/complexity"
	"github.com/tydi-lang/tilc/pkg/generics"
	"github.com/tydi-lang/tilc/pkg/ilerrors"
	"github.com/tydi-lang/tilc/pkg/interner"
	"github.com/tydi-lang/tilc/pkg/numeric"
)

// Synchronicity is one of the four stream synchronicity modes (spec.md
// §3.4).
type Synchronicity int

const (
	Sync Synchronicity = iota
	Flatten
	Desync
	FlatDesync
)

func (s Synchronicity) String() string {
	switch s {
	case Sync:
		return "Sync"
	case Flatten:
		return "Flatten"
	case Desync:
		return "Desync"
	case FlatDesync:
		return "FlatDesync"
	default:
		return "Unknown"
	}
}

// Direction is a stream's direction relative to its parent, or to the
// interface's natural source→sink direction at the top level (spec.md
// §3.4).
type Direction int

const (
	Forward Direction = iota
	Reverse
)

func (d Direction) String() string {
	if d == Reverse {
		return "Reverse"
	}
	return "Forward"
}

// Flip returns the opposite direction.
func (d Direction) Flip() Direction {
	if d == Forward {
		return Reverse
	}
	return Forward
}

// StreamId is a handle to an interned Stream.
type StreamId = interner.Id[Stream]

// Stream is the only stream-manipulating constructor (spec.md §3.4): every
// field below composes according to the rules in §4.3.3 when a Stream is
// split out of a surrounding aggregate.
type Stream struct {
	Data           TypeId
	Throughput     numeric.PositiveReal
	Dimensionality generics.Value // GenericProperty<u32>: scalar or symbolic
	Synchronicity  Synchronicity
	Complexity     complexity.Complexity
	Direction      Direction
	User           TypeId
	Keep           bool
}

// NewStream validates and constructs a Stream, enforcing the invariant
// that User must be element-only (contain no nested Stream variant
// anywhere in its tree).
func NewStream(db *Db, data TypeId, throughput numeric.PositiveReal, dimensionality generics.Value, sync Synchronicity, cplx complexity.Complexity, direction Direction, user TypeId, keep bool) (Stream, error) {
	if !db.IsElementOnly(user) {
		return Stream{}, ilerrors.InvalidArgument("stream's user type must be element-only (no nested Stream)")
	}
	return Stream{
		Data:           data,
		Throughput:     throughput,
		Dimensionality: dimensionality,
		Synchronicity:  sync,
		Complexity:     cplx,
		Direction:      direction,
		User:           user,
		Keep:           keep,
	}, nil
}

// InternKey implements interner.Keyed.
func (s Stream) InternKey() string {
	return fmt.Sprintf("Stream{data:%s,tp:%s,dim:%s,sync:%s,cplx:%s,dir:%s,user:%s,keep:%v}",
		s.Data.InternKey(), s.Throughput.String(), s.Dimensionality.InternKey(),
		s.Synchronicity, s.Complexity.InternKey(), s.Direction, s.User.InternKey(), s.Keep)
}
