// Package pathutil normalizes filesystem paths and maps values onto
// them, so that graph and cache keys never depend on how a path was
// spelled by the caller.
package pathutil

import (
	"path/filepath"
	"strings"

	"golang.org/x/exp/slices"
)

// Normalize turns p into the canonical form used as a map key
// throughout solbuild: forward slashes, no "." or ".." segments, no
// trailing slash. It does not resolve symlinks or touch the
// filesystem; that is the host's job.
func Normalize(p string) string {
	if p == "" {
		return p
	}
	clean := filepath.Clean(p)
	clean = filepath.ToSlash(clean)
	if len(clean) > 1 {
		clean = strings.TrimSuffix(clean, "/")
	}
	return clean
}

// FileMap is a mapping from normalized path to V. The zero value is
// not usable; construct with NewFileMap.
type FileMap[V any] struct {
	m map[string]V
}

// NewFileMap returns an empty FileMap.
func NewFileMap[V any]() *FileMap[V] {
	return &FileMap[V]{m: make(map[string]V)}
}

// Set inserts value under the normalized form of key, overwriting any
// previous entry for the same logical path.
func (f *FileMap[V]) Set(key string, value V) {
	f.m[Normalize(key)] = value
}

// Get returns the value stored for key and whether it was present.
func (f *FileMap[V]) Get(key string) (V, bool) {
	v, ok := f.m[Normalize(key)]
	return v, ok
}

// MustGet returns the value stored for key, panicking if absent. Use
// only where the caller has already established the key must exist.
func (f *FileMap[V]) MustGet(key string) V {
	v, ok := f.Get(key)
	if !ok {
		panic("pathutil: key not present: " + key)
	}
	return v
}

// Len returns the number of entries.
func (f *FileMap[V]) Len() int { return len(f.m) }

// Keys returns the normalized keys in sorted order, suitable for
// deterministic iteration (e.g. diagnostic output, tests).
func (f *FileMap[V]) Keys() []string {
	keys := make([]string, 0, len(f.m))
	for k := range f.m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// DedupOrdered returns paths with duplicates removed, keeping the
// first occurrence's position, after normalization.
func DedupOrdered(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		n := Normalize(p)
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
