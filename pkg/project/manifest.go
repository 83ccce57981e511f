package project

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/tydi-lang/tilc/pkg/ilerrors"
	"github.com/tydi-lang/tilc/pkg/name"
)

// ManifestNamespace is one `namespace "..." { source = "..." imports = [...] }`
// block of a project manifest, before its source file has been read and
// evaluated.
type ManifestNamespace struct {
	Path    name.PathName
	Source  string
	Imports []name.PathName
}

// Manifest is a project manifest as declared (§2.3 of SPEC_FULL.md),
// mirroring the teacher's SchemaV1: a flat struct decoded from HCL blocks
// and attributes, consumed by the evaluator to build a Project.
type Manifest struct {
	Identifier string
	OutputPath string
	Namespaces []ManifestNamespace
}

// ManifestLoader parses project manifests, following the teacher's
// pkg/schema/datacenter/v1.Parser: an hclparse.Parser plus a
// hcl.BodySchema per block type, decoded without a Go-side evaluation
// context since manifest attributes here are plain strings and lists, not
// interpolated expressions.
type ManifestLoader struct {
	parser *hclparse.Parser
}

// NewManifestLoader returns a loader ready to parse manifest files.
func NewManifestLoader() *ManifestLoader {
	return &ManifestLoader{parser: hclparse.NewParser()}
}

// LoadFile reads and parses the manifest at path.
func (l *ManifestLoader) LoadFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ilerrors.Wrap(ilerrors.CodeFileIOError, "failed to read manifest", err)
	}
	return l.LoadBytes(data, path)
}

// LoadBytes parses manifest source already in memory, for tests and
// embedded manifests.
func (l *ManifestLoader) LoadBytes(data []byte, filename string) (*Manifest, error) {
	file, diags := l.parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, ilerrors.ProjectError("invalid manifest: %s", diags.Error())
	}

	topSchema := &hcl.BodySchema{
		Blocks: []hcl.BlockHeaderSchema{
			{Type: "project", LabelNames: []string{"name"}},
		},
	}
	content, moreDiags := file.Body.Content(topSchema)
	diags = append(diags, moreDiags...)
	if diags.HasErrors() {
		return nil, ilerrors.ProjectError("invalid manifest: %s", diags.Error())
	}

	projectBlocks := content.Blocks.OfType("project")
	if len(projectBlocks) != 1 {
		return nil, ilerrors.ProjectError("manifest must contain exactly one project block, found %d", len(projectBlocks))
	}
	return l.parseProjectBlock(projectBlocks[0])
}

func (l *ManifestLoader) parseProjectBlock(block *hcl.Block) (*Manifest, error) {
	schema := &hcl.BodySchema{
		Attributes: []hcl.AttributeSchema{
			{Name: "output_path"},
		},
		Blocks: []hcl.BlockHeaderSchema{
			{Type: "namespace", LabelNames: []string{"name"}},
		},
	}
	content, diags := block.Body.Content(schema)
	if diags.HasErrors() {
		return nil, ilerrors.ProjectError("invalid project block: %s", diags.Error())
	}

	m := &Manifest{Identifier: block.Labels[0]}
	if attr, ok := content.Attributes["output_path"]; ok {
		val, valDiags := attr.Expr.Value(nil)
		if valDiags.HasErrors() {
			return nil, ilerrors.ProjectError("invalid output_path: %s", valDiags.Error())
		}
		m.OutputPath = val.AsString()
	}

	for _, nsBlock := range content.Blocks.OfType("namespace") {
		ns, err := l.parseNamespaceBlock(nsBlock)
		if err != nil {
			return nil, err
		}
		m.Namespaces = append(m.Namespaces, *ns)
	}
	return m, nil
}

func (l *ManifestLoader) parseNamespaceBlock(block *hcl.Block) (*ManifestNamespace, error) {
	schema := &hcl.BodySchema{
		Attributes: []hcl.AttributeSchema{
			{Name: "source"},
			{Name: "imports"},
		},
	}
	content, diags := block.Body.Content(schema)
	if diags.HasErrors() {
		return nil, ilerrors.ProjectError("invalid namespace block: %s", diags.Error())
	}

	path, err := name.ParsePathName(block.Labels[0])
	if err != nil {
		return nil, ilerrors.Context(err, fmt.Sprintf("invalid namespace name %q", block.Labels[0]))
	}
	ns := &ManifestNamespace{Path: path}

	attr, ok := content.Attributes["source"]
	if !ok {
		return nil, ilerrors.ProjectError("namespace %q is missing a source attribute", block.Labels[0])
	}
	val, valDiags := attr.Expr.Value(nil)
	if valDiags.HasErrors() {
		return nil, ilerrors.ProjectError("invalid source for namespace %q: %s", block.Labels[0], valDiags.Error())
	}
	ns.Source = val.AsString()

	if attr, ok := content.Attributes["imports"]; ok {
		val, valDiags := attr.Expr.Value(nil)
		if valDiags.HasErrors() {
			return nil, ilerrors.ProjectError("invalid imports for namespace %q: %s", block.Labels[0], valDiags.Error())
		}
		for it := val.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			importPath, err := name.ParsePathName(elem.AsString())
			if err != nil {
				return nil, ilerrors.Context(err, fmt.Sprintf("invalid import in namespace %q", block.Labels[0]))
			}
			ns.Imports = append(ns.Imports, importPath)
		}
	}
	return ns, nil
}
