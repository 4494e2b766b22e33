package solution

import (
	"context"
	"log"
	"testing"
	"time"

	"github.com/distr1/solbuild/internal/buildctx"
	"github.com/distr1/solbuild/internal/compiler"
	"github.com/distr1/solbuild/internal/host"
	"github.com/distr1/solbuild/internal/manifest"
	"github.com/distr1/solbuild/internal/status"
)

type fakeParser struct {
	byPath map[manifest.ResolvedManifestPath]*manifest.ParsedManifest
}

func newFakeParser() *fakeParser {
	return &fakeParser{byPath: make(map[manifest.ResolvedManifestPath]*manifest.ParsedManifest)}
}

func (f *fakeParser) add(m *manifest.ParsedManifest) { f.byPath[m.ManifestPath] = m }

func (f *fakeParser) Parse(path manifest.ResolvedManifestPath) (*manifest.ParsedManifest, bool) {
	m, ok := f.byPath[path]
	return m, ok
}

type nullReporter struct{}

func (nullReporter) ReportStatus(manifest.ResolvedManifestPath, status.Status) {}
func (nullReporter) ReportBuildResult(manifest.ResolvedManifestPath, bool)     {}

func newTestBuilder(h *host.MemHost, parser *fakeParser, opts buildctx.Options, clock time.Time) *Builder {
	cache := manifest.NewCache(parser)
	b := New(h, cache, compiler.InProcessCompiler{}, nullReporter{}, opts, log.Default())
	b.Clock = func() time.Time { return clock }
	return b
}

func TestBuildProjectsFreshBuildThenUpToDate(t *testing.T) {
	h := host.NewMemHost()
	h.Seed("/a/a.ts", "export const x = 1", time.Unix(1000, 0))
	h.Seed("/a/projconfig.json", "", time.Time{})

	parser := newFakeParser()
	aManifest := &manifest.ParsedManifest{
		ManifestPath: manifest.New("/a/projconfig.json"),
		OutDir:       "/a/out",
		InputFiles:   []string{"/a/a.ts"},
	}
	parser.add(aManifest)

	b := newTestBuilder(h, parser, buildctx.Options{}, time.Unix(5000, 0))

	ok := b.BuildProjects(context.Background(), "/", []string{"/a/projconfig.json"})
	if !ok {
		t.Fatal("expected the first build to succeed")
	}
	if _, exists := h.ReadFile("/a/out/a.js"); !exists {
		t.Fatal("expected the primary output to have been written")
	}

	b.ResetBuildContext(nil)
	ok = b.BuildProjects(context.Background(), "/", []string{"/a/projconfig.json"})
	if !ok {
		t.Fatal("expected the second build to succeed")
	}
	m, _ := b.Cache.ParseConfigFile(aManifest.ManifestPath)
	s := b.GetUpToDateStatus(m)
	if kind := status.Kind(s); kind != "UpToDate" {
		t.Fatalf("second build's status = %s, want UpToDate", kind)
	}
}

func TestCleanProjectsDryRunListsWithoutDeleting(t *testing.T) {
	h := host.NewMemHost()
	h.Seed("/a/a.ts", "src", time.Unix(1000, 0))
	h.Seed("/a/out/a.js", "compiled", time.Unix(2000, 0))
	h.Seed("/a/projconfig.json", "", time.Time{})

	parser := newFakeParser()
	aManifest := &manifest.ParsedManifest{
		ManifestPath: manifest.New("/a/projconfig.json"),
		OutDir:       "/a/out",
		InputFiles:   []string{"/a/a.ts"},
	}
	parser.add(aManifest)

	b := newTestBuilder(h, parser, buildctx.Options{Dry: true}, time.Unix(3000, 0))
	deleted, err := b.CleanProjects(context.Background(), "/", []string{"/a/projconfig.json"})
	if err != nil {
		t.Fatalf("CleanProjects: %v", err)
	}
	if len(deleted) != 1 || deleted[0] != "/a/out/a.js" {
		t.Fatalf("listed = %v, want [/a/out/a.js]", deleted)
	}
	if _, exists := h.ReadFile("/a/out/a.js"); !exists {
		t.Error("dry run must not delete files")
	}
}

// fakeCompiler returns a fixed Result regardless of what it is asked
// to compile, letting tests drive buildSingleProject through
// diagnostic phases an InProcessCompiler build could never produce on
// its own (e.g. a semantic error).
type fakeCompiler struct {
	result compiler.Result
}

func (f fakeCompiler) Compile(host.Host, *manifest.ParsedManifest) compiler.Result {
	return f.result
}

func TestBuildOneDryRunFastStampDoesNotTouchFilesystem(t *testing.T) {
	h := host.NewMemHost()
	h.Seed("/b/b.ts", "src", time.Unix(1000, 0))
	h.Seed("/b/out/b.js", "compiled", time.Unix(2000, 0))
	h.Seed("/b/projconfig.json", "", time.Time{})

	parser := newFakeParser()
	bManifest := &manifest.ParsedManifest{
		ManifestPath: manifest.New("/b/projconfig.json"),
		OutDir:       "/b/out",
		InputFiles:   []string{"/b/b.ts"},
	}
	parser.add(bManifest)

	b := newTestBuilder(h, parser, buildctx.Options{Dry: true}, time.Unix(9000, 0))
	// Force the UpToDateWithUpstreamTypes branch without needing a real
	// upstream project: buildOne only consults the memoized status.
	b.ctx.SetStatus(bManifest.ManifestPath, status.UpToDateWithUpstreamTypes{
		NewestInputTime:       time.Unix(1000, 0),
		NewestDeclChangedTime: time.Unix(500, 0),
		NewestOutputTime:      time.Unix(2000, 0),
	})

	if ok := b.buildOne(bManifest.ManifestPath); !ok {
		t.Fatal("expected a dry-run fast-stamp to report success")
	}
	mt, ok := h.GetModifiedTime("/b/out/b.js")
	if !ok {
		t.Fatal("output disappeared")
	}
	if !mt.Equal(time.Unix(2000, 0)) {
		t.Errorf("output mtime = %v, want unchanged at %v; dry run must not stamp outputs", mt, time.Unix(2000, 0))
	}
}

func TestBuildSingleProjectClassifiesDiagnosticsByPhase(t *testing.T) {
	cases := []struct {
		name       string
		diags      []compiler.Diagnostic
		wantFlag   resultFlags
		wantReason string
	}{
		{
			name: "declaration emit error",
			diags: []compiler.Diagnostic{
				{File: "b.d.ts", Message: "write failed", IsError: true, Phase: compiler.PhaseDeclarationEmit},
			},
			wantFlag:   flagDeclarationEmitErrors,
			wantReason: "Declaration file errors",
		},
		{
			name: "semantic error",
			diags: []compiler.Diagnostic{
				{File: "b.ts", Message: "type mismatch", IsError: true, Phase: compiler.PhaseSemantic},
			},
			wantFlag:   flagTypeErrors,
			wantReason: "Semantic errors",
		},
		{
			name: "syntax error takes priority over a simultaneous semantic error",
			diags: []compiler.Diagnostic{
				{File: "b.ts", Message: "type mismatch", IsError: true, Phase: compiler.PhaseSemantic},
				{File: "b.ts", Message: "unexpected token", IsError: true, Phase: compiler.PhaseSyntax},
			},
			wantFlag:   flagSyntaxErrors,
			wantReason: "Syntactic errors",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := host.NewMemHost()
			h.Seed("/b/b.ts", "src", time.Unix(1000, 0))
			h.Seed("/b/projconfig.json", "", time.Time{})

			parser := newFakeParser()
			bManifest := &manifest.ParsedManifest{
				ManifestPath: manifest.New("/b/projconfig.json"),
				OutDir:       "/b/out",
				InputFiles:   []string{"/b/b.ts"},
			}
			parser.add(bManifest)

			b := newTestBuilder(h, parser, buildctx.Options{}, time.Unix(9000, 0))
			b.Compiler = fakeCompiler{result: compiler.Result{Success: false, Diagnostics: tc.diags}}

			flags := b.buildSingleProject(bManifest.ManifestPath, bManifest)
			if flags&tc.wantFlag == 0 {
				t.Errorf("flags = %08b, want bit %08b set", flags, tc.wantFlag)
			}
			if !flags.anyErrors() {
				t.Error("anyErrors() = false, want true for a failed build")
			}
			if flags&flagSuccess != 0 {
				t.Error("flagSuccess set on a failed build")
			}

			s, ok := b.ctx.Status(bManifest.ManifestPath)
			if !ok {
				t.Fatal("expected a memoized status")
			}
			u, ok := s.(status.Unbuildable)
			if !ok {
				t.Fatalf("status kind = %s, want Unbuildable", status.Kind(s))
			}
			if u.Reason != tc.wantReason {
				t.Errorf("reason = %q, want %q", u.Reason, tc.wantReason)
			}
		})
	}
}

func TestCleanProjectsDeletesExpectedOutputs(t *testing.T) {
	h := host.NewMemHost()
	h.Seed("/a/a.ts", "src", time.Unix(1000, 0))
	h.Seed("/a/out/a.js", "compiled", time.Unix(2000, 0))
	h.Seed("/a/projconfig.json", "", time.Time{})

	parser := newFakeParser()
	aManifest := &manifest.ParsedManifest{
		ManifestPath: manifest.New("/a/projconfig.json"),
		OutDir:       "/a/out",
		InputFiles:   []string{"/a/a.ts"},
	}
	parser.add(aManifest)

	b := newTestBuilder(h, parser, buildctx.Options{}, time.Unix(3000, 0))
	deleted, err := b.CleanProjects(context.Background(), "/", []string{"/a/projconfig.json"})
	if err != nil {
		t.Fatalf("CleanProjects: %v", err)
	}
	if len(deleted) != 1 {
		t.Fatalf("deleted = %v, want 1 entry", deleted)
	}
	if _, exists := h.ReadFile("/a/out/a.js"); exists {
		t.Error("expected the output to be deleted")
	}
}
