// Package depgraph builds the layered build queue by DFS from a set of
// root projects, recording edges into a depmap.Mapper as it goes and
// de-duplicating each project into the deepest layer it was reached
// in.
//
// gonum backs only a defensive acyclicity check (topo.Sort), run when
// verbose, never cycle recovery — input graphs are assumed acyclic,
// and a violation is surfaced, not fixed. The ordering logic itself is
// a DFS/layering pass, not a topological sort.
package depgraph

import (
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/distr1/solbuild/internal/depmap"
	"github.com/distr1/solbuild/internal/manifest"
)

type path = manifest.ResolvedManifestPath

// Queue is the layered build queue: the first layer holds the roots,
// the last layer holds the deepest leaves.
type Queue [][]path

// Pop removes and returns the path at the tail of the last non-empty
// layer, popping empty trailing layers first. The second return value
// is false once the queue is fully drained.
func (q *Queue) Pop() (path, bool) {
	for len(*q) > 0 {
		last := len(*q) - 1
		layer := (*q)[last]
		if len(layer) == 0 {
			*q = (*q)[:last]
			continue
		}
		p := layer[len(layer)-1]
		(*q)[last] = layer[:len(layer)-1]
		return p, true
	}
	return "", false
}

// RootsFirst returns every path across all layers in root-first order
// (first layer to last), for reporting.
func (q Queue) RootsFirst() []path {
	var out []path
	for i := 0; i < len(q); i++ {
		out = append(out, q[i]...)
	}
	return out
}

// Graph is the result of Build: the layered queue plus the dependency
// map recorded while walking it.
type Graph struct {
	BuildQueue Queue
	DepMap     *depmap.Mapper
}

// Parser is the narrow manifest-lookup surface the graph builder
// needs: parse a resolved path into its manifest, or report absence.
type Parser interface {
	ParseConfigFile(path path) (*manifest.ParsedManifest, bool)
}

// ReferenceResolver resolves a raw reference found in a manifest to a
// canonical path.
type ReferenceResolver func(referencingManifestPath path, ref manifest.RawReference) (path, bool)

// Diagnostics receives a message when a root project spec, or a
// reference within the graph, cannot be resolved.
type Diagnostics interface {
	Verbose(msg string, args ...any)
}

// Build walks roots and everything they transitively reference,
// producing the layered build queue and dependency map.
func Build(roots []path, cache Parser, resolveRef ReferenceResolver, diag Diagnostics) *Graph {
	b := &builder{
		cache:      cache,
		resolveRef: resolveRef,
		diag:       diag,
		dm:         depmap.New(),
	}
	for _, root := range roots {
		m, ok := cache.ParseConfigFile(root)
		if !ok {
			diag.Verbose("skipping root %s: config file errors", root)
			continue
		}
		b.enumerate(root, m)
	}
	b.dedupToDeepestLayer()
	return &Graph{BuildQueue: b.queue, DepMap: b.dm}
}

type builder struct {
	cache      Parser
	resolveRef ReferenceResolver
	diag       Diagnostics
	dm         *depmap.Mapper
	queue      Queue
	pos        int
}

func (b *builder) enumerate(p path, m *manifest.ParsedManifest) {
	for len(b.queue) <= b.pos {
		b.queue = append(b.queue, nil)
	}
	if !slices.Contains(b.queue[b.pos], p) {
		b.queue[b.pos] = append(b.queue[b.pos], p)
	}

	if len(m.ProjectReferences) == 0 {
		return
	}
	for _, ref := range m.ProjectReferences {
		actualPath, ok := b.resolveRef(p, ref)
		if !ok {
			b.diag.Verbose("skipping unresolvable reference %q from %s", ref.Path, p)
			continue
		}
		b.dm.AddReference(p, actualPath)
		refManifest, ok := b.cache.ParseConfigFile(actualPath)
		if !ok {
			b.diag.Verbose("skipping reference %s: config file errors", actualPath)
			continue
		}
		b.pos++
		b.enumerate(actualPath, refManifest)
		b.pos--
	}
}

// dedupToDeepestLayer removes, from each layer i in [0, len-2], any
// entry that also appears in a layer > i, leaving every project in
// only the deepest layer it was reached in.
func (b *builder) dedupToDeepestLayer() {
	n := len(b.queue)
	for i := 0; i < n-1; i++ {
		filtered := b.queue[i][:0:0]
		for _, p := range b.queue[i] {
			deeper := false
			for j := i + 1; j < n; j++ {
				if slices.Contains(b.queue[j], p) {
					deeper = true
					break
				}
			}
			if !deeper {
				filtered = append(filtered, p)
			}
		}
		b.queue[i] = filtered
	}
}

// AssertAcyclic runs topo.Sort over dm's edges and reports, via diag,
// if the input graph is not a DAG. It never breaks or recovers from a
// cycle, it only surfaces the violated assumption that project
// reference graphs are acyclic.
func AssertAcyclic(dm *depmap.Mapper, diag Diagnostics) {
	g := simple.NewDirectedGraph()
	ids := make(map[path]int64)
	nextID := int64(0)
	nodeFor := func(p path) *simpleNode {
		id, ok := ids[p]
		if !ok {
			id = nextID
			nextID++
			ids[p] = id
			g.AddNode(&simpleNode{id: id})
		}
		return &simpleNode{id: id}
	}
	for _, child := range dm.Keys() {
		for _, parent := range dm.Parents(child) {
			g.SetEdge(g.NewEdge(nodeFor(child), nodeFor(parent)))
		}
	}
	if _, err := topo.Sort(g); err != nil {
		diag.Verbose("dependency graph is not acyclic (assumed acyclic per design): %v", err)
	}
}

type simpleNode struct{ id int64 }

func (n *simpleNode) ID() int64 { return n.id }
