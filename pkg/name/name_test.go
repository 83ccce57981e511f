package name

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Valid(t *testing.T) {
	valid := []string{"a", "A1", "my_name", "stream0", "a1_b2"}
	for _, s := range valid {
		n, err := New(s)
		require.NoError(t, err, s)
		assert.Equal(t, s, n.String())
	}
}

func TestNew_Invalid(t *testing.T) {
	cases := map[string]string{
		"":        "empty",
		"1abc":    "leading digit",
		"_abc":    "leading underscore",
		"abc_":    "trailing underscore",
		"ab__cd":  "double underscore",
		"ab-cd":   "hyphen not allowed",
		"ab cd":   "space not allowed",
		"ábc":     "non-ascii",
	}
	for s, reason := range cases {
		_, err := New(s)
		assert.Error(t, err, reason)
	}
}

func TestPathName_RoundTrip(t *testing.T) {
	p, err := ParsePathName("my_company.primitives.stream_type")
	require.NoError(t, err)
	assert.Equal(t, "my_company__primitives__stream_type", p.String())

	p2, err := ParsePathName("my_company__primitives__stream_type")
	require.NoError(t, err)
	assert.True(t, p.Equal(p2))
}

func TestPathName_Empty(t *testing.T) {
	p, err := ParsePathName("   ")
	require.NoError(t, err)
	assert.True(t, p.IsEmpty())
	assert.Equal(t, "", p.String())
}

func TestPathName_ParentChild(t *testing.T) {
	root := NewPathName(MustNew("a"), MustNew("b"))
	withChild := root.WithChild(MustNew("c"))
	assert.Equal(t, "a__b__c", withChild.String())

	parent, ok := withChild.Parent()
	require.True(t, ok)
	assert.True(t, parent.Equal(root))

	_, ok = EmptyPathName().Parent()
	assert.False(t, ok)
}

func TestPathName_WithParent(t *testing.T) {
	p := NewPathName(MustNew("b")).WithParent(MustNew("a"))
	assert.Equal(t, "a__b", p.String())
}
