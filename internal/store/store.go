// Package store persists fetched page content as markdown files under a
// per-site root directory. Writes are idempotent: a file that already
// exists is never overwritten, which is what makes interrupted crawls
// safe to re-run.
package store

import (
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"strings"

	"sitegrab/internal/pathmap"
)

type Status int

const (
	Written Status = iota
	Skipped
	Failed
)

func (s Status) String() string {
	switch s {
	case Written:
		return "written"
	case Skipped:
		return "skipped"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

type Result struct {
	Path   string
	Status Status
	Err    error
}

// CollisionPolicy decides what happens when two distinct URLs derive the
// same filename. The default keeps the first writer and skips later ones,
// matching the "existing file means done" resume contract. HashSuffix
// instead disambiguates later writers with a short content hash so no
// page is dropped.
type CollisionPolicy int

const (
	FirstWriterWins CollisionPolicy = iota
	HashSuffix
)

type Store struct {
	policy CollisionPolicy
}

func New(policy CollisionPolicy) *Store {
	return &Store{policy: policy}
}

// Store writes content for url under rootDir. The root directory is
// created on demand; concurrent callers targeting the same rootDir are
// safe. I/O errors are captured in the result, never propagated, so a
// bad write cannot abort the rest of a batch.
func (s *Store) Store(rootDir, rawURL, content string) Result {
	if err := os.MkdirAll(rootDir, 0755); err != nil {
		return Result{Status: Failed, Err: fmt.Errorf("create site dir %s: %w", rootDir, err)}
	}

	name := pathmap.FileFor(rawURL)
	path := filepath.Join(rootDir, name)

	if existing, err := os.ReadFile(path); err == nil {
		if s.policy != HashSuffix || string(existing) == content {
			// Either first-writer-wins, or a true re-run of the same
			// page. The existing file stands.
			return Result{Path: path, Status: Skipped}
		}
		// Same derived name, different content: a real collision.
		path = hashedPath(rootDir, name, content)
		if _, err := os.Stat(path); err == nil {
			return Result{Path: path, Status: Skipped}
		}
	} else if !os.IsNotExist(err) {
		// The file is there but unreadable; never overwrite it.
		return Result{Path: path, Status: Skipped}
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return Result{Path: path, Status: Failed, Err: fmt.Errorf("write %s: %w", path, err)}
	}
	return Result{Path: path, Status: Written}
}

func hashedPath(rootDir, name, content string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(content))
	base := strings.TrimSuffix(name, ".md")
	return filepath.Join(rootDir, fmt.Sprintf("%s-%08x.md", base, h.Sum32()))
}
