// Package solution implements the solution-builder driver: resolve
// project specs, build the dependency graph, and consume the build
// queue to drive build/clean decisions.
//
// Only resolving independent root project specs runs concurrently,
// via golang.org/x/sync/errgroup; consuming the build queue itself
// stays single-threaded, since later projects depend on the outputs
// of earlier ones.
package solution

import (
	"context"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/distr1/solbuild/internal/analyzer"
	"github.com/distr1/solbuild/internal/buildctx"
	"github.com/distr1/solbuild/internal/compiler"
	"github.com/distr1/solbuild/internal/depgraph"
	"github.com/distr1/solbuild/internal/host"
	"github.com/distr1/solbuild/internal/manifest"
	"github.com/distr1/solbuild/internal/reporter"
	"github.com/distr1/solbuild/internal/status"
)

// Clock lets tests control what "now" means for fast-stamping,
// without reaching for a real wall clock.
type Clock func() time.Time

// Builder is the solution-builder driver. The zero value is not
// usable; construct with New.
type Builder struct {
	Host     host.Host
	Cache    *manifest.Cache
	Compiler compiler.ProjectCompiler
	Reporter reporter.Reporter
	Clock    Clock

	ctx      *buildctx.Context
	analyzer *analyzer.Analyzer
}

// New constructs a Builder. opts seeds the first session; call
// ResetBuildContext to start a fresh one without rebuilding the
// Builder. logger receives verbose diagnostics from the session; it
// must not be nil.
func New(h host.Host, cache *manifest.Cache, comp compiler.ProjectCompiler, rep reporter.Reporter, opts buildctx.Options, logger *log.Logger) *Builder {
	bctx := buildctx.New(opts, logger)
	b := &Builder{
		Host:     h,
		Cache:    cache,
		Compiler: comp,
		Reporter: rep,
		Clock:    time.Now,
	}
	b.ctx = bctx
	b.analyzer = analyzer.New(h, cache, bctx)
	return b
}

// ResetBuildContext discards the current session's memoization,
// optionally switching options.
func (b *Builder) ResetBuildContext(opts *buildctx.Options) {
	if opts != nil {
		b.ctx.Options = *opts
	}
	b.ctx.Reset()
}

// GetUpToDateStatus and GetUpToDateStatusOfFile are thin memoized
// wrappers around the analyzer.
func (b *Builder) GetUpToDateStatus(m *manifest.ParsedManifest) status.Status {
	return b.analyzer.GetUpToDateStatus(m)
}

func (b *Builder) GetUpToDateStatusOfFile(path manifest.ResolvedManifestPath) status.Status {
	return b.analyzer.GetUpToDateStatusOfFile(path)
}

// resolveRoots resolves each project spec against cwd concurrently,
// one independent ResolveSpec lookup per spec, and reports, via diag,
// any spec that resolves to nothing. Order of the returned slice
// matches specs, with unresolved entries omitted.
func resolveRoots(ctx context.Context, h host.Host, cwd string, specs []string, diag *buildctx.Context) []manifest.ResolvedManifestPath {
	resolved := make([]manifest.ResolvedManifestPath, len(specs))
	ok := make([]bool, len(specs))

	g, _ := errgroup.WithContext(ctx)
	for i, spec := range specs {
		i, spec := i, spec
		g.Go(func() error {
			p, found := manifest.ResolveSpec(h, cwd, spec)
			resolved[i] = p
			ok[i] = found
			return nil
		})
	}
	_ = g.Wait() // ResolveSpec never errors; only records found/not-found

	var out []manifest.ResolvedManifestPath
	for i, spec := range specs {
		if !ok[i] {
			diag.Verbose("could not resolve project spec %q", spec)
			continue
		}
		out = append(out, resolved[i])
	}
	return out
}

// referenceResolver adapts manifest.ResolveReference to
// depgraph.ReferenceResolver.
func (b *Builder) referenceResolver() depgraph.ReferenceResolver {
	return func(referencing manifest.ResolvedManifestPath, ref manifest.RawReference) (manifest.ResolvedManifestPath, bool) {
		return manifest.ResolveReference(b.Host, referencing, ref)
	}
}

func (b *Builder) buildGraph(ctx context.Context, cwd string, specs []string) *depgraph.Graph {
	roots := resolveRoots(ctx, b.Host, cwd, specs, b.ctx)
	g := depgraph.Build(roots, b.Cache, b.referenceResolver(), b.ctx)
	if b.ctx.Options.Verbose {
		depgraph.AssertAcyclic(g.DepMap, b.ctx)
	}
	return g
}
