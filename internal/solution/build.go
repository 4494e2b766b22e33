package solution

import (
	"context"
	"time"

	"github.com/distr1/solbuild/internal/compiler"
	"github.com/distr1/solbuild/internal/manifest"
	"github.com/distr1/solbuild/internal/outputs"
	"github.com/distr1/solbuild/internal/status"
)

// resultFlags is a bitfield summarizing how a single project build
// went.
type resultFlags uint8

const (
	flagSuccess resultFlags = 1 << iota
	flagDeclarationOutputUnchanged
	flagConfigFileErrors
	flagSyntaxErrors
	flagTypeErrors
	flagDeclarationEmitErrors
)

func (f resultFlags) anyErrors() bool {
	return f&(flagConfigFileErrors|flagSyntaxErrors|flagTypeErrors|flagDeclarationEmitErrors) != 0
}

// BuildProjects resolves projectSpecs, builds their dependency graph,
// and drives build decisions over the resulting queue. It returns
// false if any project ended up Unbuildable or any upstream was
// blocked.
func (b *Builder) BuildProjects(ctx context.Context, cwd string, projectSpecs []string) bool {
	g := b.buildGraph(ctx, cwd, projectSpecs)
	success := true

	for {
		proj, ok := g.BuildQueue.Pop()
		if !ok {
			break
		}
		if !b.buildOne(proj) {
			success = false
		}
	}
	return success
}

// buildOne runs the per-project decision inside BuildProjects' main
// loop: parse the manifest, compute its status, and either skip,
// fast-stamp, or fully rebuild it.
func (b *Builder) buildOne(proj manifest.ResolvedManifestPath) bool {
	m, ok := b.Cache.ParseConfigFile(proj)
	if !ok {
		flags := flagConfigFileErrors
		b.ctx.Verbose("%s: config file errors, aborting", proj)
		succeeded := !flags.anyErrors()
		b.Reporter.ReportBuildResult(proj, succeeded)
		return succeeded
	}

	s := b.GetUpToDateStatus(m)
	b.Reporter.ReportStatus(proj, s)

	switch v := s.(type) {
	case status.UpToDate:
		if !b.ctx.Options.Force {
			if b.ctx.Options.Dry {
				b.ctx.Verbose("%s: project is up to date", proj)
			}
			return true
		}
	case status.UpToDateWithUpstreamTypes:
		if !b.ctx.Options.Force {
			if b.ctx.Options.Dry {
				b.ctx.Verbose("%s: would fast-stamp project", proj)
				return true
			}
			b.fastStamp(proj, m, v)
			return true
		}
	case status.UpstreamBlocked:
		b.ctx.Verbose("%s: skipping, %s", proj, "upstream blocked")
		return false
	}

	flags := b.buildSingleProject(proj, m)
	succeeded := !flags.anyErrors()
	if succeeded != (flags&flagSuccess != 0) {
		panic("solution: build result flags disagree on success")
	}
	b.Reporter.ReportBuildResult(proj, succeeded)
	return succeeded
}

// fastStamp handles the UpToDateWithUpstreamTypes case: every expected
// output's mtime is bumped to "now" without invoking the compiler, and
// the memoized status is refreshed with the recomputed
// newestDeclChangedTime.
func (b *Builder) fastStamp(proj manifest.ResolvedManifestPath, m *manifest.ParsedManifest, prior status.UpToDateWithUpstreamTypes) {
	now := b.Clock()
	newestDeclChangedTime := prior.NewestDeclChangedTime
	for _, output := range outputs.For(m) {
		if t, ok := b.Host.GetModifiedTime(output); ok && outputs.IsDeclaration(output) {
			if t.After(newestDeclChangedTime) {
				newestDeclChangedTime = t
			}
		}
		b.Host.SetModifiedTime(output, now)
	}
	b.ctx.SetStatus(proj, status.UpToDate{
		NewestInputTime:       prior.NewestInputTime,
		NewestDeclChangedTime: newestDeclChangedTime,
		NewestOutputTime:      now,
	})
}

// buildSingleProject compiles proj and records its refreshed status.
func (b *Builder) buildSingleProject(proj manifest.ResolvedManifestPath, m *manifest.ParsedManifest) resultFlags {
	if b.ctx.Options.Dry {
		b.ctx.Verbose("%s: would build project", proj)
		return flagSuccess
	}

	flags := flagSuccess | flagDeclarationOutputUnchanged

	if len(m.InputFiles) == 0 {
		// A solution-aggregator manifest with nothing of its own to
		// emit; its references already drove their own builds.
		return flags
	}

	// Capture declaration mtimes before the compiler rewrites them, so
	// unchanged outputs are recorded with their pre-write time.
	priorDeclTimes := make(map[string]time.Time)
	for _, output := range outputs.For(m) {
		if t, ok := b.Host.GetModifiedTime(output); ok && outputs.IsDeclaration(output) {
			priorDeclTimes[output] = t
		}
	}

	res := b.Compiler.Compile(b.Host, m)
	switch {
	case res.HasErrorsIn(compiler.PhaseSyntax):
		flags |= flagSyntaxErrors
		b.ctx.SetStatus(proj, status.Unbuildable{Reason: "Syntactic errors"})
		return flags &^ flagSuccess
	case res.HasErrorsIn(compiler.PhaseDeclarationEmit):
		flags |= flagDeclarationEmitErrors
		b.ctx.SetStatus(proj, status.Unbuildable{Reason: "Declaration file errors"})
		return flags &^ flagSuccess
	case res.HasErrorsIn(compiler.PhaseSemantic):
		flags |= flagTypeErrors
		b.ctx.SetStatus(proj, status.Unbuildable{Reason: "Semantic errors"})
		return flags &^ flagSuccess
	case !res.Success:
		// A ProjectCompiler that reports failure without a phase-tagged
		// diagnostic; treat it as a syntax failure rather than silently
		// falling through to success.
		flags |= flagSyntaxErrors
		b.ctx.SetStatus(proj, status.Unbuildable{Reason: "Syntactic errors"})
		return flags &^ flagSuccess
	}

	newestDeclChangedTime := time.Time{}
	for _, output := range res.UnchangedDeclFiles {
		// The flag is named backwards from its behavior: it is
		// *cleared* on byte-equality. Preserved as-is rather than
		// silently inverted.
		flags &^= flagDeclarationOutputUnchanged
		if prior, ok := priorDeclTimes[output]; ok {
			b.ctx.RecordUnchangedOutput(output, prior)
			if prior.After(newestDeclChangedTime) {
				newestDeclChangedTime = prior
			}
		}
	}
	for _, output := range outputs.For(m) {
		if !outputs.IsDeclaration(output) {
			continue
		}
		if contains(res.UnchangedDeclFiles, output) {
			continue
		}
		if t, ok := b.Host.GetModifiedTime(output); ok && t.After(newestDeclChangedTime) {
			newestDeclChangedTime = t
		}
	}

	var newestInputTime = time.Time{}
	for _, input := range m.InputFiles {
		if t, ok := b.Host.GetModifiedTime(input); ok && t.After(newestInputTime) {
			newestInputTime = t
		}
	}
	newestOutputTime := b.Clock()

	b.ctx.SetStatus(proj, status.UpToDate{
		NewestInputTime:       newestInputTime,
		NewestDeclChangedTime: newestDeclChangedTime,
		NewestOutputTime:      newestOutputTime,
	})
	if flags&flagDeclarationOutputUnchanged == 0 {
		b.ctx.Verbose("%s: declaration output unchanged, eligible for a fast rebuild downstream", proj)
	}
	return flags
}

func contains(ss []string, s string) bool {
	for _, x := range ss {
		if x == s {
			return true
		}
	}
	return false
}
