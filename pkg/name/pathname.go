package name

import "strings"

// PathName is an ordered, possibly empty, sequence of Name segments forming
// a hierarchical dotted path (a namespace path, or a qualified streamlet
// name). Its canonical textual form joins segments with "__"; parsing
// accepts either "__" or "." as a separator.
//
// The segments are stored pre-joined as a single string rather than a
// []Name slice so that PathName stays a comparable value type and can be
// used directly as an orderedmap/map key (spec.md §3.2's ordered maps are
// keyed by Name or PathName). Splitting the joined form back into segments
// is safe because Name forbids "__" from appearing inside a single segment.
type PathName struct {
	joined string
}

// EmptyPathName returns the root PathName (∅).
func EmptyPathName() PathName {
	return PathName{}
}

// NewPathName builds a PathName directly from already-validated segments.
func NewPathName(segments ...Name) PathName {
	if len(segments) == 0 {
		return PathName{}
	}
	parts := make([]string, len(segments))
	for i, s := range segments {
		parts[i] = s.value
	}
	return PathName{joined: strings.Join(parts, "__")}
}

// ParsePathName splits s on "." if present, else on "__" if present, else
// treats it as a single segment, validating each resulting piece as a Name.
// An empty or all-whitespace string parses to the empty PathName.
func ParsePathName(s string) (PathName, error) {
	if strings.TrimSpace(s) == "" {
		return EmptyPathName(), nil
	}
	var parts []string
	switch {
	case strings.Contains(s, "."):
		parts = strings.Split(s, ".")
	case strings.Contains(s, "__"):
		parts = strings.Split(s, "__")
	default:
		parts = []string{s}
	}
	segments := make([]Name, 0, len(parts))
	for _, p := range parts {
		n, err := New(p)
		if err != nil {
			return PathName{}, err
		}
		segments = append(segments, n)
	}
	return NewPathName(segments...), nil
}

// IsEmpty reports whether p has no segments.
func (p PathName) IsEmpty() bool {
	return p.joined == ""
}

// Segments returns the path's segments, re-parsed from the canonical joined
// form. Each piece is already known to be a valid Name, since it can only
// have reached here by passing through New.
func (p PathName) Segments() []Name {
	if p.IsEmpty() {
		return nil
	}
	parts := strings.Split(p.joined, "__")
	out := make([]Name, len(parts))
	for i, part := range parts {
		out[i] = Name{value: part}
	}
	return out
}

// Len returns the number of segments.
func (p PathName) Len() int {
	if p.IsEmpty() {
		return 0
	}
	return strings.Count(p.joined, "__") + 1
}

// First returns the first segment and true, or the zero Name and false if
// p is empty.
func (p PathName) First() (Name, bool) {
	segs := p.Segments()
	if len(segs) == 0 {
		return Name{}, false
	}
	return segs[0], true
}

// Last returns the last segment and true, or the zero Name and false if p
// is empty.
func (p PathName) Last() (Name, bool) {
	segs := p.Segments()
	if len(segs) == 0 {
		return Name{}, false
	}
	return segs[len(segs)-1], true
}

// WithParent returns a new PathName with n prepended.
func (p PathName) WithParent(n Name) PathName {
	return NewPathName(n).WithChildren(p)
}

// WithChild returns a new PathName with n appended.
func (p PathName) WithChild(n Name) PathName {
	return p.WithChildren(NewPathName(n))
}

// WithParents returns a new PathName with parent's segments prepended.
func (p PathName) WithParents(parent PathName) PathName {
	return parent.WithChildren(p)
}

// WithChildren returns a new PathName with child's segments appended.
func (p PathName) WithChildren(child PathName) PathName {
	switch {
	case p.IsEmpty():
		return child
	case child.IsEmpty():
		return p
	default:
		return PathName{joined: p.joined + "__" + child.joined}
	}
}

// Parent returns all but the last segment, and true; or the empty PathName
// and false if p is already empty.
func (p PathName) Parent() (PathName, bool) {
	if p.IsEmpty() {
		return PathName{}, false
	}
	idx := strings.LastIndex(p.joined, "__")
	if idx < 0 {
		return PathName{}, true
	}
	return PathName{joined: p.joined[:idx]}, true
}

// Root is an alias for Parent kept for symmetry with the source's
// PathName::root, which likewise drops the final segment.
func (p PathName) Root() PathName {
	root, _ := p.Parent()
	return root
}

// String renders the canonical "__"-joined textual form.
func (p PathName) String() string {
	return p.joined
}

// Equal reports structural equality, segment by segment.
func (p PathName) Equal(other PathName) bool {
	return p.joined == other.joined
}

// InternKey lets PathName be embedded directly inside an interned value's
// key (e.g. a streams OrderedMap<PathName, StreamId>).
func (p PathName) InternKey() string {
	return "/" + p.joined
}
