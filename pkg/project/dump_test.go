package project

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/tydi-lang/tilc/pkg/logical"
	"github.com/tydi-lang/tilc/pkg/name"
)

func TestProject_Dump_ListsDeclaredNamesPerNamespace(t *testing.T) {
	p := New("example", "build/")
	ns := NewNamespace(name.NewPathName(name.MustNew("example")))
	require.NoError(t, ns.Types.Declare(name.MustNew("Byte"), logical.TypeId{}))
	require.NoError(t, p.AddNamespace(ns))

	data, err := p.Dump()
	require.NoError(t, err)

	var doc ProjectDump
	require.NoError(t, yaml.Unmarshal(data, &doc))

	assert.Equal(t, "example", doc.Identifier)
	require.Len(t, doc.Namespaces, 1)
	assert.Equal(t, "example", doc.Namespaces[0].Path)
	assert.Contains(t, doc.Namespaces[0].Types, "Byte")
}
