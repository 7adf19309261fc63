package store_test

import (
	"os"
	"path/filepath"
	"testing"

	"sitegrab/internal/store"
)

func TestStore_WritesFile(t *testing.T) {
	dir := t.TempDir()
	s := store.New(store.FirstWriterWins)

	res := s.Store(dir, "https://example.com/docs/start", "# Start\n")
	if res.Status != store.Written {
		t.Fatalf("status = %v, want written (err: %v)", res.Status, res.Err)
	}
	if filepath.Base(res.Path) != "docs_start.md" {
		t.Errorf("path = %q, want docs_start.md", res.Path)
	}

	data, err := os.ReadFile(res.Path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "# Start\n" {
		t.Errorf("content = %q", data)
	}
}

func TestStore_SecondWriteSkipped(t *testing.T) {
	dir := t.TempDir()
	s := store.New(store.FirstWriterWins)

	first := s.Store(dir, "https://example.com/page", "original")
	if first.Status != store.Written {
		t.Fatalf("first write: %v", first.Status)
	}

	second := s.Store(dir, "https://example.com/page", "changed")
	if second.Status != store.Skipped {
		t.Fatalf("second write status = %v, want skipped", second.Status)
	}

	data, err := os.ReadFile(first.Path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "original" {
		t.Errorf("content = %q, want original untouched", data)
	}
}

func TestStore_CollisionDefaultKeepsFirstWriter(t *testing.T) {
	dir := t.TempDir()
	s := store.New(store.FirstWriterWins)

	// /x/y and /x_y both sanitize to x_y.md.
	a := s.Store(dir, "https://example.com/x/y", "from x/y")
	b := s.Store(dir, "https://example.com/x_y", "from x_y")

	if a.Status != store.Written {
		t.Fatalf("first colliding write: %v", a.Status)
	}
	if b.Status != store.Skipped {
		t.Fatalf("second colliding write status = %v, want skipped", b.Status)
	}
	data, _ := os.ReadFile(a.Path)
	if string(data) != "from x/y" {
		t.Errorf("first writer content lost: %q", data)
	}
}

func TestStore_CollisionHashSuffixKeepsBoth(t *testing.T) {
	dir := t.TempDir()
	s := store.New(store.HashSuffix)

	a := s.Store(dir, "https://example.com/x/y", "from x/y")
	b := s.Store(dir, "https://example.com/x_y", "from x_y")

	if a.Status != store.Written || b.Status != store.Written {
		t.Fatalf("statuses = %v, %v, want both written", a.Status, b.Status)
	}
	if a.Path == b.Path {
		t.Fatalf("expected distinct paths, both %q", a.Path)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Errorf("expected 2 files, got %d", len(entries))
	}
}

func TestStore_HashSuffixIdenticalRerunSkips(t *testing.T) {
	dir := t.TempDir()
	s := store.New(store.HashSuffix)

	first := s.Store(dir, "https://example.com/page", "same content")
	if first.Status != store.Written {
		t.Fatalf("first write: %v", first.Status)
	}

	second := s.Store(dir, "https://example.com/page", "same content")
	if second.Status != store.Skipped {
		t.Fatalf("re-run status = %v, want skipped", second.Status)
	}
	if second.Path != first.Path {
		t.Errorf("re-run path = %q, want %q", second.Path, first.Path)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected 1 file after re-run, got %d", len(entries))
	}
}

func TestStore_HashSuffixRerunSkips(t *testing.T) {
	dir := t.TempDir()
	s := store.New(store.HashSuffix)

	s.Store(dir, "https://example.com/x/y", "from x/y")
	s.Store(dir, "https://example.com/x_y", "from x_y")
	again := s.Store(dir, "https://example.com/x_y", "from x_y")
	if again.Status != store.Skipped {
		t.Errorf("re-run status = %v, want skipped", again.Status)
	}
}

func TestStore_CreatesRootDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "example.com")
	s := store.New(store.FirstWriterWins)

	res := s.Store(dir, "https://example.com/", "home")
	if res.Status != store.Written {
		t.Fatalf("status = %v (err: %v)", res.Status, res.Err)
	}
	if filepath.Base(res.Path) != "index.md" {
		t.Errorf("path = %q, want index.md", res.Path)
	}
}

func TestStore_FailureDoesNotPanic(t *testing.T) {
	dir := t.TempDir()
	// A file where the root dir should be makes MkdirAll fail.
	blocker := filepath.Join(dir, "blocked")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	s := store.New(store.FirstWriterWins)
	res := s.Store(blocker, "https://example.com/a", "content")
	if res.Status != store.Failed {
		t.Fatalf("status = %v, want failed", res.Status)
	}
	if res.Err == nil {
		t.Error("expected captured error")
	}
}
