// Package analyzer implements up-to-date analysis: given one
// project's parsed manifest, decide whether it is up to date, needs a
// rebuild, can be fast-stamped, or is blocked by an upstream failure.
package analyzer

import (
	"time"

	"github.com/distr1/solbuild/internal/buildctx"
	"github.com/distr1/solbuild/internal/host"
	"github.com/distr1/solbuild/internal/manifest"
	"github.com/distr1/solbuild/internal/outputs"
	"github.com/distr1/solbuild/internal/status"
)

// negInf/posInf stand in for -∞/+∞ in the oldest/newest output
// tracking below. Real modification times are always strictly between
// them.
var (
	negInf = time.Time{}
	posInf = time.Date(9999, 1, 1, 0, 0, 0, 0, time.UTC)
)

// Analyzer computes Status for one project at a time, memoizing
// through a shared buildctx.Context.
type Analyzer struct {
	Host  host.Host
	Cache *manifest.Cache
	Ctx   *buildctx.Context
}

// New constructs an Analyzer.
func New(h host.Host, cache *manifest.Cache, ctx *buildctx.Context) *Analyzer {
	return &Analyzer{Host: h, Cache: cache, Ctx: ctx}
}

// GetUpToDateStatusOfFile resolves path through the configuration
// cache and delegates to GetUpToDateStatus. If the manifest cannot be
// parsed, the project is Unbuildable.
func (a *Analyzer) GetUpToDateStatusOfFile(path manifest.ResolvedManifestPath) status.Status {
	if s, ok := a.Ctx.Status(path); ok {
		return s
	}
	m, ok := a.Cache.ParseConfigFile(path)
	if !ok {
		s := status.Unbuildable{Reason: "Config file errors"}
		a.Ctx.SetStatus(path, s)
		return s
	}
	return a.GetUpToDateStatus(m)
}

// GetUpToDateStatus computes (or returns the memoized) Status for m.
// Once a status has been written for m.ManifestPath in this session,
// this always returns that same value.
func (a *Analyzer) GetUpToDateStatus(m *manifest.ParsedManifest) status.Status {
	if s, ok := a.Ctx.Status(m.ManifestPath); ok {
		return s
	}
	s := a.computeStatus(m)
	a.Ctx.SetStatus(m.ManifestPath, s)
	return s
}

func (a *Analyzer) computeStatus(m *manifest.ParsedManifest) status.Status {
	// 1. Input scan.
	newestInputFileTime := negInf
	var newestInputFileName string
	for _, input := range m.InputFiles {
		if !a.Host.FileExists(input) {
			return status.Unbuildable{Reason: input + " does not exist"}
		}
		t, ok := a.Host.GetModifiedTime(input)
		if !ok {
			return status.Unbuildable{Reason: input + " does not exist"}
		}
		if t.After(newestInputFileTime) {
			newestInputFileTime = t
			newestInputFileName = input
		}
	}

	// 2. Output scan.
	oldestOutputFileTime := posInf
	newestOutputFileTime := negInf
	newestDeclChangedTime := negInf
	var oldestOutputFileName string
	var missingOutputFileName string
	isOutOfDateWithInputs := false

outputLoop:
	for _, output := range outputs.For(m) {
		if !a.Host.FileExists(output) {
			missingOutputFileName = output
			break outputLoop
		}
		t, ok := a.Host.GetModifiedTime(output)
		if !ok {
			missingOutputFileName = output
			break outputLoop
		}
		if t.Before(oldestOutputFileTime) {
			oldestOutputFileTime = t
			oldestOutputFileName = output
		}
		if t.After(newestOutputFileTime) {
			newestOutputFileTime = t
		}
		if t.Before(newestInputFileTime) {
			isOutOfDateWithInputs = true
			break outputLoop
		}
		if outputs.IsDeclaration(output) {
			folded := t
			if prior, ok := a.Ctx.UnchangedOutputTime(output); ok {
				folded = prior
			}
			if folded.After(newestDeclChangedTime) {
				newestDeclChangedTime = folded
			}
		}
	}

	// 3. Upstream scan — runs before returning on local out-of-date
	// states, and its failures take priority over them: an upstream
	// failure makes local rebuild futile.
	pseudoUpToDate := false
	for _, ref := range m.ProjectReferences {
		refPath, ok := manifest.ResolveReference(a.Host, m.ManifestPath, ref)
		if !ok {
			return status.UpstreamBlocked{UpstreamProjectName: ref.Path}
		}
		upstream := a.GetUpToDateStatusOfFile(refPath)

		if status.IsUnbuildable(upstream) {
			return status.UpstreamBlocked{UpstreamProjectName: string(refPath)}
		}
		if !status.IsUpToDate(upstream) {
			// UpToDateWithUpstreamTypes counts as "not UpToDate" here.
			return status.UpstreamOutOfDate{UpstreamProjectName: string(refPath)}
		}

		up := upstream.(status.UpToDate)
		if !up.NewestInputTime.After(oldestOutputFileTime) {
			continue // no pressure from this upstream
		}
		if !up.NewestDeclChangedTime.After(oldestOutputFileTime) {
			// Upstream's declaration content did not actually change;
			// a timestamp-only refresh is semantically equivalent to a
			// full rebuild.
			pseudoUpToDate = true
			continue
		}
		return status.OutOfDateWithUpstream{
			OutOfDateOutputFileName: oldestOutputFileName,
			NewerProjectName:        string(refPath),
		}
	}

	// 4. Local conclusion.
	if missingOutputFileName != "" {
		return status.OutputMissing{MissingOutputFileName: missingOutputFileName}
	}
	if isOutOfDateWithInputs {
		return status.OutOfDateWithSelf{
			OutOfDateOutputFileName: oldestOutputFileName,
			NewerInputFileName:      newestInputFileName,
		}
	}
	if pseudoUpToDate {
		return status.UpToDateWithUpstreamTypes{
			NewestInputTime:       newestInputFileTime,
			NewestDeclChangedTime: newestDeclChangedTime,
			NewestOutputTime:      newestOutputFileTime,
		}
	}
	return status.UpToDate{
		NewestInputTime:       newestInputFileTime,
		NewestDeclChangedTime: newestDeclChangedTime,
		NewestOutputTime:      newestOutputFileTime,
	}
}
