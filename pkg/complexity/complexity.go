// Package complexity implements the Complexity lexicographic tuple from
// spec.md §3.5: a physical stream's complexity is a tuple of non-negative
// integers, compared lexicographically with an implicit zero-padded tail
// ("3 == 3.0 == 3.0.0", "3 < 3.1 < 4"), whose major (first) component
// selects which optional signals a physical stream carries (§4.2).
package complexity

import (
	"strconv"
	"strings"

	"github.com/tydi-lang/tilc/pkg/ilerrors"
)

// Complexity is an immutable tuple of non-negative integers.
type Complexity struct {
	levels []uint32
}

// FromMajor builds a Complexity with a single component.
func FromMajor(major uint32) Complexity {
	return Complexity{levels: []uint32{major}}
}

// FromLevels builds a Complexity from an explicit tuple; trailing zeros
// (which compare equal to a shorter tuple regardless, per Equal/Compare
// below) are trimmed for canonical storage so "3.0" and "3.0.0" intern
// identically.
func FromLevels(levels []uint32) Complexity {
	trimmed := trimTrailingZeros(levels)
	cp := make([]uint32, len(trimmed))
	copy(cp, trimmed)
	return Complexity{levels: cp}
}

func trimTrailingZeros(levels []uint32) []uint32 {
	end := len(levels)
	for end > 1 && levels[end-1] == 0 {
		end--
	}
	return levels[:end]
}

// Parse parses a version-like string such as "3.14.2" into a Complexity.
func Parse(s string) (Complexity, error) {
	if s == "" {
		return Complexity{}, ilerrors.InvalidArgument("complexity string cannot be empty")
	}
	parts := strings.Split(s, ".")
	levels := make([]uint32, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseUint(p, 10, 32)
		if err != nil {
			return Complexity{}, ilerrors.InvalidArgument("invalid complexity component %q", p)
		}
		levels = append(levels, uint32(v))
	}
	return FromLevels(levels), nil
}

// Major returns the first (major) component, or 0 for a zero Complexity.
func (c Complexity) Major() uint32 {
	if len(c.levels) == 0 {
		return 0
	}
	return c.levels[0]
}

// Levels returns a copy of the underlying tuple.
func (c Complexity) Levels() []uint32 {
	out := make([]uint32, len(c.levels))
	copy(out, c.levels)
	return out
}

func (c Complexity) at(i int) uint32 {
	if i < len(c.levels) {
		return c.levels[i]
	}
	return 0
}

// Compare returns -1, 0 or 1 as c is less than, equal to, or greater than
// other, comparing lexicographically with implicit zero-padding.
func (c Complexity) Compare(other Complexity) int {
	n := len(c.levels)
	if len(other.levels) > n {
		n = len(other.levels)
	}
	for i := 0; i < n; i++ {
		a, b := c.at(i), other.at(i)
		if a < b {
			return -1
		}
		if a > b {
			return 1
		}
	}
	return 0
}

// Equal reports whether c and other compare equal.
func (c Complexity) Equal(other Complexity) bool {
	return c.Compare(other) == 0
}

// Less reports whether c sorts strictly before other.
func (c Complexity) Less(other Complexity) bool {
	return c.Compare(other) < 0
}

// Satisfies reports whether c >= min, the partial-order query a back-end
// uses to check a concrete stream's complexity against an interface's
// declared minimum (SPEC_FULL §4.2, grounded on the original's
// Complexity::compatible_with).
func (c Complexity) Satisfies(min Complexity) bool {
	return c.Compare(min) >= 0
}

// String renders the canonical dotted form, with trailing zero components
// dropped ("3.1.0" renders as "3.1").
func (c Complexity) String() string {
	if len(c.levels) == 0 {
		return "0"
	}
	parts := make([]string, len(c.levels))
	for i, v := range c.levels {
		parts[i] = strconv.FormatUint(uint64(v), 10)
	}
	return strings.Join(parts, ".")
}

// InternKey implements interner.Keyed / orderedmap.Keyable.
func (c Complexity) InternKey() string {
	return "C" + c.String()
}
