// Package host defines the filesystem/clock abstraction the solution
// builder core consumes, plus DefaultHost, the real implementation
// cmd/solbuild runs against.
//
// The host abstraction is a boundary collaborator: the core only ever
// calls through the Host interface, never touching os directly.
package host

import (
	"os"
	"path/filepath"
	"time"

	"github.com/google/renameio"
	"golang.org/x/sys/unix"
	"golang.org/x/xerrors"
)

// ErrMissingCapability is returned when a required host capability is
// unavailable — for example, DefaultHost always has DeleteFile, but a
// Host embedding it for a read-only mount might not.
var ErrMissingCapability = xerrors.New("host: missing required capability")

// Host is the filesystem/clock collaborator the solution builder
// depends on. Manifest parsing and compilation live in other
// packages (manifest.Parser, compiler.ProjectCompiler); this
// interface covers the plain file operations the analyzer and driver
// need directly.
type Host interface {
	GetCurrentDirectory() (string, error)
	FileExists(path string) bool
	ReadFile(path string) (string, bool)
	WriteFile(path string, content string) error
	GetModifiedTime(path string) (time.Time, bool)
	SetModifiedTime(path string, t time.Time) error
}

// Deleter is an optional capability: only clean requires it, so it is
// a separate interface rather than a method all hosts must implement.
type Deleter interface {
	DeleteFile(path string) error
}

// DefaultHost is the real filesystem implementation used by
// cmd/solbuild. Writes are atomic (rename into place); modified-time
// reads/writes go through golang.org/x/sys/unix for nanosecond
// precision, since the analyzer's tie-break rules are defined on
// strict less-than/greater-than comparison and os.Chtimes truncates
// precision on some platforms.
type DefaultHost struct{}

func (DefaultHost) GetCurrentDirectory() (string, error) {
	return os.Getwd()
}

// FileExists reports whether path names a regular file: a directory
// at path is not a file, so project-spec resolution falls through to
// appending the manifest file name.
func (DefaultHost) FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

func (DefaultHost) ReadFile(path string) (string, bool) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	return string(b), true
}

func (DefaultHost) WriteFile(path string, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return xerrors.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	if err := renameio.WriteFile(path, []byte(content), 0o644); err != nil {
		return xerrors.Errorf("writefile %s: %w", path, err)
	}
	return nil
}

func (DefaultHost) GetModifiedTime(path string) (time.Time, bool) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return time.Time{}, false
	}
	return time.Unix(int64(st.Mtim.Sec), int64(st.Mtim.Nsec)), true
}

func (DefaultHost) SetModifiedTime(path string, t time.Time) error {
	ts := []unix.Timespec{
		unix.NsecToTimespec(t.UnixNano()), // atime
		unix.NsecToTimespec(t.UnixNano()), // mtime
	}
	if err := unix.UtimesNanoAt(unix.AT_FDCWD, path, ts, 0); err != nil {
		return xerrors.Errorf("setmodifiedtime %s: %w", path, err)
	}
	return nil
}

func (DefaultHost) DeleteFile(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return xerrors.Errorf("deletefile %s: %w", path, err)
	}
	return nil
}
