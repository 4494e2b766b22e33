package manifest

import (
	"path/filepath"

	"github.com/distr1/solbuild/internal/host"
)

// ManifestFileName is the conventional manifest file name appended
// when a project spec or reference names a directory rather than a
// file.
const ManifestFileName = "projconfig.json"

// ResolveSpec resolves a user- or reference-supplied path against cwd:
// if the resolved path exists and is a file, use it verbatim;
// otherwise append ManifestFileName and retest. Reports false if
// neither form exists.
func ResolveSpec(h host.Host, cwd, spec string) (ResolvedManifestPath, bool) {
	candidate := spec
	if !filepath.IsAbs(candidate) {
		candidate = filepath.Join(cwd, candidate)
	}
	if h.FileExists(candidate) {
		return New(candidate), true
	}
	withManifest := filepath.Join(candidate, ManifestFileName)
	if h.FileExists(withManifest) {
		return New(withManifest), true
	}
	return "", false
}

// ResolveReference resolves a RawReference found in the manifest at
// referencingManifestPath to a canonical ResolvedManifestPath, using
// the same file-or-directory rule as ResolveSpec.
func ResolveReference(h host.Host, referencingManifestPath ResolvedManifestPath, ref RawReference) (ResolvedManifestPath, bool) {
	dir := filepath.Dir(string(referencingManifestPath))
	return ResolveSpec(h, dir, ref.Path)
}
