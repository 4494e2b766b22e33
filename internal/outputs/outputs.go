// Package outputs computes the set of expected output paths for a
// parsed manifest. These are pure functions: no filesystem access, no
// caching.
package outputs

import (
	"path/filepath"
	"strings"

	"github.com/distr1/solbuild/internal/manifest"
)

// IsDeclaration reports whether path is a declaration output, by its
// ".d.ts" extension.
func IsDeclaration(path string) bool {
	return strings.HasSuffix(path, ".d.ts")
}

func withExt(path, ext string) string {
	trimmed := strings.TrimSuffix(path, filepath.Ext(path))
	return trimmed + ext
}

// For returns the ordered sequence of expected output paths for m:
// bundled-output forms first when OutFile is set, otherwise one
// primary (plus optional declaration, plus optional declaration map)
// group per input file, in input order.
func For(m *manifest.ParsedManifest) []string {
	if m.OutFile != "" {
		out := []string{m.OutFile}
		if m.Declaration {
			declPath := withExt(m.OutFile, ".d.ts")
			out = append(out, declPath)
			if m.DeclarationMap {
				// The map path is built from the actual declaration path
				// string, never from an array length.
				out = append(out, declPath+".map")
			}
		}
		return out
	}

	root := m.EffectiveRootDir()
	manifestDir := filepath.Dir(string(m.ManifestPath))
	outDir := m.OutDir
	if outDir == "" {
		outDir = manifestDir
	}
	declDir := m.DeclarationDir
	if declDir == "" {
		declDir = outDir
	}

	var out []string
	for _, input := range m.InputFiles {
		rel, err := filepath.Rel(root, input)
		if err != nil {
			rel = filepath.Base(input)
		}
		ext := ".js"
		if m.JSX == manifest.JSXPreserve && strings.EqualFold(filepath.Ext(input), ".tsx") {
			ext = ".jsx"
		}
		primary := withExt(filepath.Join(outDir, rel), ext)
		out = append(out, primary)

		if m.Declaration {
			declPath := withExt(filepath.Join(declDir, rel), ".d.ts")
			out = append(out, declPath)
			if m.DeclarationMap {
				out = append(out, declPath+".map")
			}
		}
	}
	return out
}
