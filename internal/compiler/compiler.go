// Package compiler defines the compilation boundary the driver calls
// through, plus InProcessCompiler, a default implementation good
// enough to exercise the driver end to end without a real
// type-checking backend.
//
// The driver only ever depends on the ProjectCompiler interface; how a
// compile actually happens is this package's concern alone.
package compiler

import (
	"strings"

	"github.com/distr1/solbuild/internal/host"
	"github.com/distr1/solbuild/internal/manifest"
	"github.com/distr1/solbuild/internal/outputs"
)

// DiagnosticPhase classifies which phase of compilation produced a
// Diagnostic. The driver checks phases in this order — a project with
// both syntax and semantic errors is reported as a syntax failure,
// since the later phases never really ran.
type DiagnosticPhase int

const (
	PhaseSyntax DiagnosticPhase = iota
	PhaseDeclarationEmit
	PhaseSemantic
)

// Diagnostic is one compiler-reported problem, phase- and
// severity-tagged so the driver can decide whether a build failed and
// which Unbuildable reason to record.
type Diagnostic struct {
	File    string
	Message string
	IsError bool
	Phase   DiagnosticPhase
}

// Result is everything buildSingleProject needs back from a compile:
// whether it succeeded, which declaration outputs were written with
// content identical to what was already on disk (for the
// pseudo-up-to-date fast path), and any diagnostics.
type Result struct {
	Success            bool
	UnchangedDeclFiles []string
	Diagnostics        []Diagnostic
}

// HasErrorsIn reports whether r carries at least one error-severity
// diagnostic from phase.
func (r Result) HasErrorsIn(phase DiagnosticPhase) bool {
	for _, d := range r.Diagnostics {
		if d.IsError && d.Phase == phase {
			return true
		}
	}
	return false
}

// ProjectCompiler is the external collaborator boundary: compile
// rootNames with these options and project references, report
// diagnostics. The driver never inspects how a compile happens, only
// whether it succeeded and which outputs were unchanged.
type ProjectCompiler interface {
	Compile(h host.Host, m *manifest.ParsedManifest) Result
}

// InProcessCompiler is a minimal, dependency-free ProjectCompiler: it
// copies each input file's bytes into its computed primary output (all
// inputs concatenated for a bundled OutFile build), and emits a
// one-line declaration stub naming the project's manifest when
// declaration output is requested. This
// is enough to drive real up-to-date transitions in tests and in the
// CLI's default wiring without a real type-checking backend.
type InProcessCompiler struct{}

func (InProcessCompiler) Compile(h host.Host, m *manifest.ParsedManifest) Result {
	var diags []Diagnostic
	var unchanged []string

	for i, output := range outputs.For(m) {
		var content string
		if outputs.IsDeclaration(output) {
			content = declarationStubFor(m, output)
		} else if strings.HasSuffix(output, ".map") {
			content = "{}"
		} else {
			// inputFor joins every input path with "\n" for a bundled
			// build; each one is read and the contents concatenated.
			var parts []string
			for _, input := range strings.Split(inputFor(m, i, output), "\n") {
				src, ok := h.ReadFile(input)
				if !ok {
					diags = append(diags, Diagnostic{File: input, Message: "input file does not exist", IsError: true, Phase: PhaseSyntax})
					return Result{Success: false, Diagnostics: diags}
				}
				parts = append(parts, src)
			}
			content = strings.Join(parts, "\n")
		}

		if prior, ok := h.ReadFile(output); ok && prior == content && outputs.IsDeclaration(output) {
			unchanged = append(unchanged, output)
		}
		if err := h.WriteFile(output, content); err != nil {
			phase := PhaseSyntax
			if outputs.IsDeclaration(output) || strings.HasSuffix(output, ".map") {
				phase = PhaseDeclarationEmit
			}
			diags = append(diags, Diagnostic{File: output, Message: err.Error(), IsError: true, Phase: phase})
			return Result{Success: false, Diagnostics: diags}
		}
	}

	return Result{Success: true, UnchangedDeclFiles: unchanged, Diagnostics: diags}
}

// inputFor maps a primary output back to the input file it was
// derived from. outputs.For emits non-bundled outputs in input order
// (one to three entries per input), so this walks both sequences in
// lockstep rather than re-deriving a path from the output name.
func inputFor(m *manifest.ParsedManifest, outputIndex int, output string) string {
	if m.OutFile != "" {
		// Bundled build: every input feeds the single combined output.
		return strings.Join(m.InputFiles, "\n")
	}
	perInput := 1
	if m.Declaration {
		perInput++
		if m.DeclarationMap {
			perInput++
		}
	}
	idx := outputIndex / perInput
	if idx < 0 || idx >= len(m.InputFiles) {
		return output
	}
	return m.InputFiles[idx]
}

func declarationStubFor(m *manifest.ParsedManifest, output string) string {
	return "// declarations for " + m.ManifestPath.String()
}
