package manifest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

type countingParser struct {
	calls int
	m     *ParsedManifest
}

func (c *countingParser) Parse(path ResolvedManifestPath) (*ParsedManifest, bool) {
	c.calls++
	if c.m == nil {
		return nil, false
	}
	cp := *c.m
	return &cp, true
}

func TestCacheParsesOnceAndMemoizes(t *testing.T) {
	p := &countingParser{m: &ParsedManifest{}}
	cache := NewCache(p)
	path := New("/a/projconfig.json")

	m1, ok := cache.ParseConfigFile(path)
	if !ok {
		t.Fatal("expected a hit")
	}
	if m1.ManifestPath != path {
		t.Errorf("manifestPath not stamped onto result: got %v want %v", m1.ManifestPath, path)
	}

	m2, ok := cache.ParseConfigFile(path)
	if !ok {
		t.Fatal("expected a hit on second call")
	}
	if m1 != m2 {
		t.Errorf("expected memoized pointer identity across calls")
	}
	if p.calls != 1 {
		t.Errorf("parser called %d times, want 1", p.calls)
	}
}

func TestCacheDoesNotCacheAbsentResult(t *testing.T) {
	p := &countingParser{}
	cache := NewCache(p)
	path := New("/a/missing.json")

	if _, ok := cache.ParseConfigFile(path); ok {
		t.Fatal("expected a miss")
	}
	if _, ok := cache.ParseConfigFile(path); ok {
		t.Fatal("expected a miss again")
	}
	if p.calls != 2 {
		t.Errorf("parser called %d times, want 2 (absent results are never cached)", p.calls)
	}
}

func TestJSONParserResolvesRelativeInputsAgainstManifestDir(t *testing.T) {
	dir := t.TempDir()
	cfg := map[string]any{
		"files":      []string{"a.ts", "sub/b.ts"},
		"references": []map[string]string{{"path": "../upstream"}},
	}
	b, err := json.Marshal(cfg)
	if err != nil {
		t.Fatal(err)
	}
	manifestPath := filepath.Join(dir, "projconfig.json")
	if err := os.WriteFile(manifestPath, b, 0o644); err != nil {
		t.Fatal(err)
	}

	var parser JSONParser
	m, ok := parser.Parse(New(manifestPath))
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	want := []string{
		filepath.Join(dir, "a.ts"),
		filepath.Join(dir, "sub/b.ts"),
	}
	for i, in := range m.InputFiles {
		if in != want[i] {
			t.Errorf("InputFiles[%d] = %q, want %q", i, in, want[i])
		}
	}
	if len(m.ProjectReferences) != 1 || m.ProjectReferences[0].Path != "../upstream" {
		t.Errorf("unexpected references: %+v", m.ProjectReferences)
	}
}

func TestJSONParserReportsAbsentOnMissingFile(t *testing.T) {
	var parser JSONParser
	if _, ok := parser.Parse(New("/does/not/exist/projconfig.json")); ok {
		t.Fatal("expected absent result for missing file")
	}
}
