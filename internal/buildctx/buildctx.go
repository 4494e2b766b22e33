// Package buildctx holds the session-scoped state a solution build
// threads through its calls: the dry/force/verbose options, the
// memoized per-project Status, and the "content-unchanged output"
// timestamps that make pseudo-up-to-date fast paths possible.
//
// A plain struct carrying configuration and a *log.Logger, built once
// per invocation.
package buildctx

import (
	"log"
	"time"

	"github.com/distr1/solbuild/internal/manifest"
	"github.com/distr1/solbuild/internal/status"
)

// Options configures a build or clean invocation.
type Options struct {
	Dry     bool
	Force   bool
	Verbose bool
}

// Context is the per-session build state. The zero value is not
// usable; construct with New.
type Context struct {
	Options Options

	log *log.Logger

	projectStatus    map[manifest.ResolvedManifestPath]status.Status
	unchangedOutputs map[string]time.Time
}

// New creates a Context for one build or clean invocation. logger
// receives verbose diagnostics; it must not be nil — a required
// collaborator missing at construction time is a fatal assertion, not
// a runtime nil-check.
func New(opts Options, logger *log.Logger) *Context {
	if logger == nil {
		panic("buildctx: logger must not be nil")
	}
	c := &Context{Options: opts, log: logger}
	c.Reset()
	return c
}

// Reset discards all memoization, starting a fresh session.
func (c *Context) Reset() {
	c.projectStatus = make(map[manifest.ResolvedManifestPath]status.Status)
	c.unchangedOutputs = make(map[string]time.Time)
}

// Verbose formats msg with args through the logger, a no-op when
// Options.Verbose is false.
func (c *Context) Verbose(msg string, args ...any) {
	if !c.Options.Verbose {
		return
	}
	c.log.Printf(msg, args...)
}

// Status returns the memoized Status for path, if any.
func (c *Context) Status(path manifest.ResolvedManifestPath) (status.Status, bool) {
	s, ok := c.projectStatus[path]
	return s, ok
}

// SetStatus memoizes s for path, replacing any value already stored.
// Status returns the latest value written until Reset; the driver
// relies on this to record a project's status after building or
// fast-stamping it.
func (c *Context) SetStatus(path manifest.ResolvedManifestPath, s status.Status) {
	c.projectStatus[path] = s
}

// UnchangedOutputTime returns the pre-write modification time
// recorded for outputPath, if a build in this session found that
// output's emitted bytes identical to what was already on disk.
func (c *Context) UnchangedOutputTime(outputPath string) (time.Time, bool) {
	t, ok := c.unchangedOutputs[outputPath]
	return t, ok
}

// RecordUnchangedOutput stores priorMTime as the unchanged-output
// timestamp for outputPath. priorMTime must be the file's
// modification time from *before* the write that found it unchanged:
// using "now" instead would let a touch-only rebuild indefinitely
// defer a real downstream rebuild.
func (c *Context) RecordUnchangedOutput(outputPath string, priorMTime time.Time) {
	c.unchangedOutputs[outputPath] = priorMTime
}
