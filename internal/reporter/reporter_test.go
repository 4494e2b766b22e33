package reporter

import (
	"bytes"
	"log"
	"strings"
	"testing"

	"github.com/distr1/solbuild/internal/manifest"
	"github.com/distr1/solbuild/internal/status"
)

func TestLogReporterDistinguishesUpstreamOutOfDateFromPseudoUpToDate(t *testing.T) {
	var buf bytes.Buffer
	r := NewLogReporter(log.New(&buf, "", 0))
	project := manifest.New("/b/projconfig.json")

	r.ReportStatus(project, status.UpstreamOutOfDate{UpstreamProjectName: "/a/projconfig.json"})
	r.ReportStatus(project, status.UpToDateWithUpstreamTypes{})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %v", len(lines), lines)
	}
	if lines[0] == lines[1] {
		t.Error("UpstreamOutOfDate and UpToDateWithUpstreamTypes must produce distinct messages")
	}
	if !strings.Contains(lines[0], "itself needs a rebuild") {
		t.Errorf("UpstreamOutOfDate message = %q, missing expected phrase", lines[0])
	}
	if !strings.Contains(lines[1], "fast rebuild") {
		t.Errorf("UpToDateWithUpstreamTypes message = %q, missing expected phrase", lines[1])
	}
}

func TestMultiReporterFansOutInOrder(t *testing.T) {
	var a, b bytes.Buffer
	m := MultiReporter{NewLogReporter(log.New(&a, "", 0)), NewLogReporter(log.New(&b, "", 0))}
	project := manifest.New("/a/projconfig.json")

	m.ReportBuildResult(project, true)

	if !strings.Contains(a.String(), "succeeded") || !strings.Contains(b.String(), "succeeded") {
		t.Errorf("expected both reporters to receive the result: a=%q b=%q", a.String(), b.String())
	}
}
