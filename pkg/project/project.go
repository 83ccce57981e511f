// Package project implements the top-level Project/Namespace container of
// spec.md §3.8: a project names a set of namespaces, each owning four
// symbol tables (types, interfaces, streamlets, implementations), and its
// manifest is loaded from an HCL document per SPEC_FULL.md §2.3, in the
// teacher's pkg/schema/datacenter/v1 block/attribute-schema idiom.
package project

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/tydi-lang/tilc/pkg/ilerrors"
	"github.com/tydi-lang/tilc/pkg/ir"
	"github.com/tydi-lang/tilc/pkg/logical"
	"github.com/tydi-lang/tilc/pkg/name"
	"github.com/tydi-lang/tilc/pkg/orderedmap"
)

// Namespace owns the four symbol tables spec.md §3.8 and §4.6 describe:
// one per kind of declaration, each layered into locally declared and
// imported names.
type Namespace struct {
	Path            name.PathName
	Source          string // manifest-relative path to this namespace's .til file
	Types           *Table[logical.TypeId]
	Interfaces      *Table[*ir.Interface]
	Streamlets      *Table[*ir.Streamlet]
	Implementations *Table[ir.Implementation]
}

// NewNamespace returns an empty namespace rooted at path.
func NewNamespace(path name.PathName) *Namespace {
	return &Namespace{
		Path:            path,
		Types:           NewTable[logical.TypeId](),
		Interfaces:      NewTable[*ir.Interface](),
		Streamlets:      NewTable[*ir.Streamlet](),
		Implementations: NewTable[ir.Implementation](),
	}
}

// Project is the root of a compile: the namespaces it comprises, the
// output path lowered artifacts are written to, and a BuildID recorded in
// this compile's YAML dump (spec.md §3.8; the id itself is an
// SPEC_FULL.md §3 addition grounded on the teacher's pkg/state lock-id
// pattern, not present in the distilled spec).
type Project struct {
	Identifier string
	OutputPath string
	BuildID    uuid.UUID
	Namespaces *orderedmap.Map[name.PathName, *Namespace]
}

// New returns an empty project with a freshly minted BuildID.
func New(identifier, outputPath string) *Project {
	return &Project{
		Identifier: identifier,
		OutputPath: outputPath,
		BuildID:    uuid.New(),
		Namespaces: orderedmap.New[name.PathName, *Namespace](),
	}
}

// AddNamespace registers ns, failing if its path is already present.
func (p *Project) AddNamespace(ns *Namespace) error {
	if err := p.Namespaces.TryInsert(ns.Path, ns); err != nil {
		return ilerrors.UnexpectedDuplicate(fmt.Sprintf("namespace %q", ns.Path))
	}
	return nil
}

// Namespace looks up a registered namespace by path.
func (p *Project) Namespace(path name.PathName) (*Namespace, bool) {
	return p.Namespaces.Get(path)
}
