package project

import (
	"gopkg.in/yaml.v3"
)

// NamespaceDump is the human-readable summary of one namespace's declared
// symbols, the shape `til check --dump-ir` serializes, mirroring the
// teacher's `internal/cli/get.go` use of YAML for inspection output
// (SPEC_FULL.md §3).
type NamespaceDump struct {
	Path            string   `yaml:"path"`
	Types           []string `yaml:"types,omitempty"`
	Interfaces      []string `yaml:"interfaces,omitempty"`
	Streamlets      []string `yaml:"streamlets,omitempty"`
	Implementations []string `yaml:"implementations,omitempty"`
}

// ProjectDump is the top-level document Dump renders: the build id this
// snapshot belongs to, and one entry per namespace.
type ProjectDump struct {
	Identifier string          `yaml:"identifier"`
	BuildID    string          `yaml:"build_id"`
	Namespaces []NamespaceDump `yaml:"namespaces"`
}

// Dump renders the project's declared symbol names (not their full IR
// bodies, which are cross-referential and not meaningfully YAML-shaped) as
// YAML, for `til check --dump-ir`.
func (p *Project) Dump() ([]byte, error) {
	doc := ProjectDump{Identifier: p.Identifier, BuildID: p.BuildID.String()}
	for _, pair := range p.Namespaces.Pairs() {
		ns := pair.Value
		nd := NamespaceDump{Path: ns.Path.String()}
		for _, n := range ns.Types.Declared.Keys() {
			nd.Types = append(nd.Types, n.String())
		}
		for _, n := range ns.Interfaces.Declared.Keys() {
			nd.Interfaces = append(nd.Interfaces, n.String())
		}
		for _, n := range ns.Streamlets.Declared.Keys() {
			nd.Streamlets = append(nd.Streamlets, n.String())
		}
		for _, n := range ns.Implementations.Declared.Keys() {
			nd.Implementations = append(nd.Implementations, n.String())
		}
		doc.Namespaces = append(doc.Namespaces, nd)
	}
	return yaml.Marshal(doc)
}
