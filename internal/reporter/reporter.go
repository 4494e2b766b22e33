// Package reporter turns a project's Status into human-facing
// diagnostics, plus an optional GitHubStatusReporter that mirrors the
// outcome to a commit status.
//
// Grounded on cmd/autobuilder/autobuilder.go's logWriter/log.New
// composition (a *log.Logger wrapping another logger to add a prefix)
// and its GitHub client construction.
package reporter

import (
	"fmt"
	"log"

	"github.com/distr1/solbuild/internal/manifest"
	"github.com/distr1/solbuild/internal/status"
)

// Reporter is the external collaborator boundary: told about each
// project's final status, it decides how (or whether) to surface it.
type Reporter interface {
	ReportStatus(project manifest.ResolvedManifestPath, s status.Status)
	ReportBuildResult(project manifest.ResolvedManifestPath, success bool)
}

// LogReporter is the default Reporter: one line per project to an
// underlying *log.Logger, with distinct verbose phrasing for
// UpstreamOutOfDate versus UpToDateWithUpstreamTypes — the two are
// easy to conflate but mean different things to an operator watching
// the build.
type LogReporter struct {
	log *log.Logger
}

// NewLogReporter wraps logger in a new *log.Logger that writes to the
// same writer with the same prefix and flags.
func NewLogReporter(logger *log.Logger) *LogReporter {
	return &LogReporter{log: log.New(logger.Writer(), logger.Prefix(), logger.Flags())}
}

func (r *LogReporter) ReportStatus(project manifest.ResolvedManifestPath, s status.Status) {
	r.log.Printf("%s: %s", project, describe(s))
}

func (r *LogReporter) ReportBuildResult(project manifest.ResolvedManifestPath, success bool) {
	if success {
		r.log.Printf("%s: build succeeded", project)
		return
	}
	r.log.Printf("%s: build failed", project)
}

func describe(s status.Status) string {
	switch v := s.(type) {
	case status.Unbuildable:
		return "unbuildable: " + v.Reason
	case status.UpToDate:
		return "up to date"
	case status.UpToDateWithUpstreamTypes:
		return "up to date (upstream declaration content unchanged, eligible for a fast rebuild)"
	case status.OutputMissing:
		return fmt.Sprintf("output %s is missing", v.MissingOutputFileName)
	case status.OutOfDateWithSelf:
		return fmt.Sprintf("output %s is older than input %s", v.OutOfDateOutputFileName, v.NewerInputFileName)
	case status.OutOfDateWithUpstream:
		return fmt.Sprintf("output %s is older than upstream project %s, which changed content", v.OutOfDateOutputFileName, v.NewerProjectName)
	case status.UpstreamOutOfDate:
		return fmt.Sprintf("upstream project %s itself needs a rebuild", v.UpstreamProjectName)
	case status.UpstreamBlocked:
		return fmt.Sprintf("blocked: upstream project %s is unbuildable", v.UpstreamProjectName)
	default:
		return "unknown status"
	}
}

// MultiReporter fans a single report out to every underlying
// Reporter, in order.
type MultiReporter []Reporter

func (m MultiReporter) ReportStatus(project manifest.ResolvedManifestPath, s status.Status) {
	for _, r := range m {
		r.ReportStatus(project, s)
	}
}

func (m MultiReporter) ReportBuildResult(project manifest.ResolvedManifestPath, success bool) {
	for _, r := range m {
		r.ReportBuildResult(project, success)
	}
}
