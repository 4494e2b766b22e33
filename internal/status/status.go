// Package status defines the tagged-variant Status result of
// up-to-date analysis. It is implemented as a closed interface with
// one concrete type per variant, the same shape the wider Go ecosystem
// uses for oneof-style sum types. Kind's type switch panics at its
// default branch the first time an unhandled variant is produced;
// other type switches over Status are not checked for completeness.
package status

import "time"

// Status is the sum type of up-to-date outcomes. The unexported method
// closes the set of implementations to this package.
type Status interface {
	statusVariant()
}

// Unbuildable: config error, missing input, or compilation failure in
// this session.
type Unbuildable struct {
	Reason string
}

func (Unbuildable) statusVariant() {}

// UpToDate: the project's outputs are all newer than all inputs and
// all upstream outputs.
type UpToDate struct {
	NewestInputTime       time.Time
	NewestDeclChangedTime time.Time
	NewestOutputTime      time.Time
}

func (UpToDate) statusVariant() {}

// UpToDateWithUpstreamTypes: outputs are older than an upstream
// output, but that upstream's declaration outputs were content-
// unchanged since our last build, so the project is eligible for a
// timestamp-only ("pseudo") rebuild.
type UpToDateWithUpstreamTypes struct {
	NewestInputTime       time.Time
	NewestDeclChangedTime time.Time
	NewestOutputTime      time.Time
}

func (UpToDateWithUpstreamTypes) statusVariant() {}

// OutputMissing: at least one expected output is absent on disk.
type OutputMissing struct {
	MissingOutputFileName string
}

func (OutputMissing) statusVariant() {}

// OutOfDateWithSelf: an output is older than an input of the same
// project.
type OutOfDateWithSelf struct {
	OutOfDateOutputFileName string
	NewerInputFileName      string
}

func (OutOfDateWithSelf) statusVariant() {}

// OutOfDateWithUpstream: an output is older than the newest input of
// an upstream project, and that upstream changed content (not just
// timestamp).
type OutOfDateWithUpstream struct {
	OutOfDateOutputFileName string
	NewerProjectName        string
}

func (OutOfDateWithUpstream) statusVariant() {}

// UpstreamOutOfDate: an upstream is itself not UpToDate.
type UpstreamOutOfDate struct {
	UpstreamProjectName string
}

func (UpstreamOutOfDate) statusVariant() {}

// UpstreamBlocked: an upstream is Unbuildable.
type UpstreamBlocked struct {
	UpstreamProjectName string
}

func (UpstreamBlocked) statusVariant() {}

// IsUpToDate reports whether s is exactly UpToDate, not
// UpToDateWithUpstreamTypes — the two are distinct for
// upstream-propagation purposes.
func IsUpToDate(s Status) bool {
	_, ok := s.(UpToDate)
	return ok
}

// IsUnbuildable reports whether s is Unbuildable.
func IsUnbuildable(s Status) bool {
	_, ok := s.(Unbuildable)
	return ok
}

// Kind returns a short, stable name for s's variant, for diagnostics
// and tests. The default branch exists so a forgotten case surfaces
// immediately instead of silently printing "unknown".
func Kind(s Status) string {
	switch s.(type) {
	case Unbuildable:
		return "Unbuildable"
	case UpToDate:
		return "UpToDate"
	case UpToDateWithUpstreamTypes:
		return "UpToDateWithUpstreamTypes"
	case OutputMissing:
		return "OutputMissing"
	case OutOfDateWithSelf:
		return "OutOfDateWithSelf"
	case OutOfDateWithUpstream:
		return "OutOfDateWithUpstream"
	case UpstreamOutOfDate:
		return "UpstreamOutOfDate"
	case UpstreamBlocked:
		return "UpstreamBlocked"
	default:
		panic("status: unhandled variant added without updating Kind")
	}
}
