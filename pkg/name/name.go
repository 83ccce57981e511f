// Package name provides Name and PathName, the validated identifiers used
// throughout the IR (type, port, streamlet, namespace and instance names).
package name

import (
	"strings"

	"github.com/tydi-lang/tilc/pkg/ilerrors"
)

// Name is a non-empty identifier over [A-Za-z0-9_] that does not start with
// a digit, does not start or end with '_', and never contains "__". Values
// are only ever constructed through New, so any Name in circulation is known
// to satisfy these rules.
type Name struct {
	value string
}

// New validates s and wraps it in a Name, or returns an InvalidArgument
// error describing the first rule it violates.
func New(s string) (Name, error) {
	if s == "" {
		return Name{}, ilerrors.InvalidArgument("name cannot be empty")
	}
	if s[0] >= '0' && s[0] <= '9' {
		return Name{}, ilerrors.InvalidArgument("name cannot start with a digit: %q", s)
	}
	if strings.HasPrefix(s, "_") || strings.HasSuffix(s, "_") {
		return Name{}, ilerrors.InvalidArgument("name cannot start or end with an underscore: %q", s)
	}
	if strings.Contains(s, "__") {
		return Name{}, ilerrors.InvalidArgument("name cannot contain two or more consecutive underscores: %q", s)
	}
	for _, r := range s {
		if !isAlphaNumUnderscore(r) {
			return Name{}, ilerrors.InvalidArgument("name must consist of letters, numbers, and/or underscores: %q", s)
		}
	}
	return Name{value: s}, nil
}

// MustNew is New but panics on an invalid name; reserved for literals known
// to be valid at compile time (tests, constants).
func MustNew(s string) Name {
	n, err := New(s)
	if err != nil {
		panic(err)
	}
	return n
}

func isAlphaNumUnderscore(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == '_':
		return true
	default:
		return false
	}
}

// String returns the underlying identifier text.
func (n Name) String() string {
	return n.value
}

// IsZero reports whether n is the zero Name (never produced by New).
func (n Name) IsZero() bool {
	return n.value == ""
}
