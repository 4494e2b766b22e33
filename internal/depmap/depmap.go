// Package depmap implements the bidirectional dependency mapper: two
// adjacency maps, keyed by normalized manifest path, recording
// child→parent (downstream→upstream) reference edges. Keeping the
// maps path-keyed rather than an arena of integer-ID nodes avoids
// needing a node registry here; internal/depgraph's gonum-backed cycle
// check builds its own integer IDs where it actually needs them.
package depmap

import (
	"golang.org/x/exp/slices"

	"github.com/distr1/solbuild/internal/manifest"
	"github.com/distr1/solbuild/internal/pathutil"
)

type path = manifest.ResolvedManifestPath

// Mapper is the dependency mapper itself. The zero value is not
// usable; construct with New.
type Mapper struct {
	childToParents *pathutil.FileMap[[]path]
	parentToChildren *pathutil.FileMap[[]path]
	allKeys          map[path]struct{}
}

// New returns an empty Mapper.
func New() *Mapper {
	return &Mapper{
		childToParents:   pathutil.NewFileMap[[]path](),
		parentToChildren: pathutil.NewFileMap[[]path](),
		allKeys:          make(map[path]struct{}),
	}
}

// AddReference records that child depends on parent (child is
// downstream, parent is upstream), idempotently.
func (m *Mapper) AddReference(child, parent path) {
	m.allKeys[child] = struct{}{}
	m.allKeys[parent] = struct{}{}

	parents, _ := m.childToParents.Get(string(child))
	if !slices.Contains(parents, parent) {
		parents = append(parents, parent)
		m.childToParents.Set(string(child), parents)
	}

	children, _ := m.parentToChildren.Get(string(parent))
	if !slices.Contains(children, child) {
		children = append(children, child)
		m.parentToChildren.Set(string(parent), children)
	}
}

// Parents returns the upstream projects child directly references, in
// the order they were first added, or the empty sequence if child is
// unknown or a leaf.
func (m *Mapper) Parents(child path) []path {
	parents, _ := m.childToParents.Get(string(child))
	return parents
}

// Children returns the downstream projects that directly reference
// parent, in the order they were first added, or the empty sequence
// if parent is unknown or has no dependents.
func (m *Mapper) Children(parent path) []path {
	children, _ := m.parentToChildren.Get(string(parent))
	return children
}

// Keys returns every path that has appeared as either a child or a
// parent of some edge.
func (m *Mapper) Keys() []path {
	keys := make([]path, 0, len(m.allKeys))
	for k := range m.allKeys {
		keys = append(keys, k)
	}
	return keys
}
