package host

import (
	"testing"
	"time"
)

var (
	_ Host    = DefaultHost{}
	_ Deleter = DefaultHost{}
	_ Host    = (*MemHost)(nil)
	_ Deleter = (*MemHost)(nil)
)

func TestMemHostRoundTrip(t *testing.T) {
	h := NewMemHost()
	if h.FileExists("/a.ts") {
		t.Fatal("expected no file yet")
	}
	now := time.Unix(1000, 0)
	h.Seed("/a.ts", "hello", now)
	if !h.FileExists("/a.ts") {
		t.Fatal("expected file to exist after seeding")
	}
	content, ok := h.ReadFile("/a.ts")
	if !ok || content != "hello" {
		t.Fatalf("ReadFile = %q, %v", content, ok)
	}
	mtime, ok := h.GetModifiedTime("/a.ts")
	if !ok || !mtime.Equal(now) {
		t.Fatalf("GetModifiedTime = %v, %v", mtime, ok)
	}

	later := now.Add(time.Hour)
	h.Touch("/a.ts", later)
	mtime, _ = h.GetModifiedTime("/a.ts")
	if !mtime.Equal(later) {
		t.Fatalf("Touch did not update mtime: got %v want %v", mtime, later)
	}
	content, _ = h.ReadFile("/a.ts")
	if content != "hello" {
		t.Fatal("Touch must not change content")
	}

	if err := h.DeleteFile("/a.ts"); err != nil {
		t.Fatal(err)
	}
	if h.FileExists("/a.ts") {
		t.Fatal("expected file to be gone after DeleteFile")
	}
}
