package host

import (
	"time"

	"github.com/distr1/solbuild/internal/pathutil"
)

// MemHost is an in-memory Host used by tests throughout solbuild. It
// never touches the real filesystem, which lets tests drive exact
// timestamp scenarios (e.g. "touch a.ts to a later time").
//
// Unlike pathutil.FileMap, which never removes entries, MemHost needs
// real deletion to back clean, so it keeps its own plain maps rather
// than building on FileMap.
type MemHost struct {
	content map[string]string
	mtimes  map[string]time.Time
	cwd     string
}

// NewMemHost returns an empty MemHost.
func NewMemHost() *MemHost {
	return &MemHost{
		content: make(map[string]string),
		mtimes:  make(map[string]time.Time),
		cwd:     "/",
	}
}

func (h *MemHost) GetCurrentDirectory() (string, error) { return h.cwd, nil }

func (h *MemHost) FileExists(path string) bool {
	_, ok := h.content[pathutil.Normalize(path)]
	return ok
}

func (h *MemHost) ReadFile(path string) (string, bool) {
	c, ok := h.content[pathutil.Normalize(path)]
	return c, ok
}

// WriteFile stamps the current wall-clock time as path's new
// modification time, mirroring how a real filesystem write behaves;
// tests that need an exact, repeatable timestamp after a write should
// follow up with Touch.
func (h *MemHost) WriteFile(path string, content string) error {
	n := pathutil.Normalize(path)
	h.content[n] = content
	h.mtimes[n] = time.Now()
	return nil
}

func (h *MemHost) GetModifiedTime(path string) (time.Time, bool) {
	t, ok := h.mtimes[pathutil.Normalize(path)]
	return t, ok
}

func (h *MemHost) SetModifiedTime(path string, t time.Time) error {
	h.mtimes[pathutil.Normalize(path)] = t
	return nil
}

func (h *MemHost) DeleteFile(path string) error {
	n := pathutil.Normalize(path)
	delete(h.content, n)
	delete(h.mtimes, n)
	return nil
}

// Seed creates path with content at modification time t, as a test
// convenience for setting up a pre-built solution's filesystem state.
func (h *MemHost) Seed(path, content string, t time.Time) {
	h.content[pathutil.Normalize(path)] = content
	h.mtimes[pathutil.Normalize(path)] = t
}

// Touch updates path's modification time without changing its
// content, e.g. to model editing a source file without changing it
// meaningfully.
func (h *MemHost) Touch(path string, t time.Time) {
	h.mtimes[pathutil.Normalize(path)] = t
}
