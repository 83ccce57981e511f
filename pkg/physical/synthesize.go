package physical

import (
	"github.com/tydi-lang/tilc/pkg/logical"
	"github.com/tydi-lang/tilc/pkg/name"
	"github.com/tydi-lang/tilc/pkg/orderedmap"
)

// TypeReference records which original logical-type path a physical leaf
// corresponds to (SPEC_FULL supplement 1, grounded on the original's
// transfer/element_type.rs and transfer/logical_transfer.rs): the back
// end uses it to name generated signals after the source-level field path
// that produced them, even when split_streams has renamed or relocated
// the stream.
type TypeReference struct {
	TypedPath    name.PathName
	PhysicalPath name.PathName
}

// LogicalStream is the result of synthesize (spec.md §4.3.4): the
// signals left over at the top level (ordinarily empty once a Stream has
// been fully split), every leaf PhysicalStream keyed by its path, and a
// parallel TypeReference map.
type LogicalStream struct {
	Signals        *logical.FieldSet
	Streams        *orderedmap.Map[name.PathName, PhysicalStream]
	SignalLists    *orderedmap.Map[name.PathName, SignalList]
	TypeReferences *orderedmap.Map[name.PathName, TypeReference]
}

// Synthesize implements §4.3.4: compose split_streams with fields to
// obtain, for the Stream identified by streamId, every leaf
// PhysicalStream plus its derived SignalList and TypeReference.
func Synthesize(db *logical.Db, streamId logical.StreamId) (LogicalStream, error) {
	typeId := db.Intern(logical.Stream(streamId))

	split, err := db.SplitStreams(typeId)
	if err != nil {
		return LogicalStream{}, err
	}

	signals, err := db.Fields(split.Signals)
	if err != nil {
		return LogicalStream{}, err
	}

	streams := orderedmap.New[name.PathName, PhysicalStream]()
	signalLists := orderedmap.New[name.PathName, SignalList]()
	typeRefs := orderedmap.New[name.PathName, TypeReference]()

	for _, pair := range split.Streams.Pairs() {
		s := db.LookupStream(pair.Value)
		ps, err := NewPhysicalStream(db, s)
		if err != nil {
			return LogicalStream{}, err
		}
		streams.InsertOrReplace(pair.Key, ps)
		signalLists.InsertOrReplace(pair.Key, DeriveSignalList(ps))
		// Splitting renames a stream's path purely by prepending field
		// names in the same scheme fields() uses for element paths, so
		// the typed and physical paths coincide in this design.
		typeRefs.InsertOrReplace(pair.Key, TypeReference{TypedPath: pair.Key, PhysicalPath: pair.Key})
	}

	return LogicalStream{
		Signals:        signals,
		Streams:        streams,
		SignalLists:    signalLists,
		TypeReferences: typeRefs,
	}, nil
}
