// Package manifest defines the parsed project-configuration shape the
// solution builder consumes, plus a small cache that memoizes
// manifests by resolved path.
//
// Parsing itself stays outside the builder: the cache delegates to a
// Parser, an external collaborator. JSONParser in this package is the
// default concrete implementation used by the CLI and by tests.
package manifest

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/distr1/solbuild/internal/pathutil"
)

// ResolvedManifestPath is a canonicalized absolute path to a project's
// configuration manifest. It is a distinct type so that unresolved
// user input can never be passed where a resolved key is expected;
// New is the sole producer.
type ResolvedManifestPath string

// New canonicalizes p into a ResolvedManifestPath. Callers that have
// not yet resolved a relative, possibly-directory path to the actual
// manifest file (see ResolveSpec) should do so before calling New.
func New(p string) ResolvedManifestPath {
	abs, err := filepath.Abs(p)
	if err != nil {
		abs = p
	}
	return ResolvedManifestPath(pathutil.Normalize(abs))
}

func (p ResolvedManifestPath) String() string { return string(p) }

// JSXMode has one recognized non-default value, Preserve, which
// affects output extension — modeled as a small enum since callers
// only ever test for that one case.
type JSXMode int

const (
	JSXNone JSXMode = iota
	JSXPreserve
)

// RawReference is an unresolved project-reference entry as it appears
// in a manifest, before the host resolves it to a ResolvedManifestPath.
type RawReference struct {
	Path string `json:"path"`
}

// ParsedManifest is the pre-parsed configuration object the builder
// consumes for one project.
type ParsedManifest struct {
	ManifestPath ResolvedManifestPath

	RootDir         string
	OutDir          string
	DeclarationDir  string
	OutFile         string
	Declaration     bool
	DeclarationMap  bool
	JSX             JSXMode
	InputFiles      []string
	ProjectReferences []RawReference
}

// EffectiveRootDir returns P.RootDir if set, else the directory
// containing the manifest.
func (m *ParsedManifest) EffectiveRootDir() string {
	if m.RootDir != "" {
		return m.RootDir
	}
	return filepath.Dir(string(m.ManifestPath))
}

// Parser resolves a manifest path to its parsed contents, or reports
// it could not be read. This is the external collaborator boundary
// that keeps actual parsing out of the builder.
type Parser interface {
	Parse(path ResolvedManifestPath) (*ParsedManifest, bool)
}

// Cache memoizes ParsedManifest by resolved path, delegating the
// actual parse to an external Parser on first request.
type Cache struct {
	parser Parser
	byPath *pathutil.FileMap[*ParsedManifest]
}

// NewCache constructs a Cache around parser.
func NewCache(parser Parser) *Cache {
	return &Cache{
		parser: parser,
		byPath: pathutil.NewFileMap[*ParsedManifest](),
	}
}

// ParseConfigFile returns the ParsedManifest for path, parsing and
// caching on first request. The second return value is false if the
// host could not read the file; in that case nothing is cached, so a
// later retry (e.g. after the file is created) is not masked by a
// stale miss.
func (c *Cache) ParseConfigFile(path ResolvedManifestPath) (*ParsedManifest, bool) {
	if m, ok := c.byPath.Get(string(path)); ok {
		return m, true
	}
	m, ok := c.parser.Parse(path)
	if !ok {
		return nil, false
	}
	m.ManifestPath = path
	c.byPath.Set(string(path), m)
	return m, true
}

// jsonManifest is the on-disk shape JSONParser reads: a tsconfig.json-
// style manifest naming a project's inputs, outputs, and references.
type jsonManifest struct {
	RootDir        string         `json:"rootDir,omitempty"`
	OutDir         string         `json:"outDir,omitempty"`
	DeclarationDir string         `json:"declarationDir,omitempty"`
	OutFile        string         `json:"outFile,omitempty"`
	Declaration    bool           `json:"declaration,omitempty"`
	DeclarationMap bool           `json:"declarationMap,omitempty"`
	JSXPreserve    bool           `json:"jsxPreserve,omitempty"`
	InputFiles     []string       `json:"files"`
	References     []RawReference `json:"references,omitempty"`
}

// JSONParser is the default Parser implementation: it reads a
// projconfig.json file at path. Real type-checking and compilation
// stay external, so this exists only so the CLI and tests have a real
// Parser to exercise.
type JSONParser struct{}

func (JSONParser) Parse(path ResolvedManifestPath) (*ParsedManifest, bool) {
	b, err := os.ReadFile(string(path))
	if err != nil {
		return nil, false
	}
	var jm jsonManifest
	if err := json.Unmarshal(b, &jm); err != nil {
		// A malformed manifest is a config-parse failure; the caller
		// turns an absent result into Unbuildable, so this reports
		// "absent" rather than panicking.
		return nil, false
	}
	jsx := JSXNone
	if jm.JSXPreserve {
		jsx = JSXPreserve
	}
	absInputs := make([]string, len(jm.InputFiles))
	dir := filepath.Dir(string(path))
	for i, f := range jm.InputFiles {
		if filepath.IsAbs(f) {
			absInputs[i] = f
		} else {
			absInputs[i] = filepath.Join(dir, f)
		}
	}
	return &ParsedManifest{
		RootDir:           jm.RootDir,
		OutDir:            jm.OutDir,
		DeclarationDir:    jm.DeclarationDir,
		OutFile:           jm.OutFile,
		Declaration:       jm.Declaration,
		DeclarationMap:    jm.DeclarationMap,
		JSX:               jsx,
		InputFiles:        absInputs,
		ProjectReferences: jm.References,
	}, true
}
