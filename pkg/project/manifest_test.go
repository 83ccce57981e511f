package project

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleManifest = `
project "example" {
  output_path = "build/"

  namespace "example.streams" {
    source  = "streams.til"
    imports = ["example.types"]
  }

  namespace "example.types" {
    source = "types.til"
  }
}
`

func TestManifestLoader_LoadBytes_ParsesProjectAndNamespaces(t *testing.T) {
	l := NewManifestLoader()
	m, err := l.LoadBytes([]byte(sampleManifest), "test.hcl")
	require.NoError(t, err)

	assert.Equal(t, "example", m.Identifier)
	assert.Equal(t, "build/", m.OutputPath)
	require.Len(t, m.Namespaces, 2)

	streams := m.Namespaces[0]
	assert.Equal(t, "example__streams", streams.Path.String())
	assert.Equal(t, "streams.til", streams.Source)
	require.Len(t, streams.Imports, 1)
	assert.Equal(t, "example__types", streams.Imports[0].String())

	types := m.Namespaces[1]
	assert.Equal(t, "example__types", types.Path.String())
	assert.Empty(t, types.Imports)
}

func TestManifestLoader_LoadBytes_RequiresSource(t *testing.T) {
	l := NewManifestLoader()
	_, err := l.LoadBytes([]byte(`
project "example" {
  output_path = "build/"
  namespace "example.streams" {
  }
}
`), "test.hcl")
	assert.Error(t, err)
}

func TestManifestLoader_LoadBytes_RejectsMissingProjectBlock(t *testing.T) {
	l := NewManifestLoader()
	_, err := l.LoadBytes([]byte(``), "test.hcl")
	assert.Error(t, err)
}

func TestManifestLoader_LoadBytes_RejectsMultipleProjectBlocks(t *testing.T) {
	l := NewManifestLoader()
	_, err := l.LoadBytes([]byte(`
project "a" {
  output_path = "build/"
}
project "b" {
  output_path = "build/"
}
`), "test.hcl")
	assert.Error(t, err)
}
