package output_test

import (
	"path/filepath"
	"testing"

	"sitegrab/internal/crawl"
	"sitegrab/internal/output"
)

func TestWriteAndReadRunIndex(t *testing.T) {
	rootDir := filepath.Join(t.TempDir(), "example.com")
	summary := crawl.Summary{
		Succeeded: 2,
		Failed:    1,
		Written:   2,
		Depths:    2,
		Pages: []crawl.PageOutcome{
			{URL: "https://example.com/a", File: "a.md", Status: "written"},
			{URL: "https://example.com/b", File: "b.md", Status: "written", Depth: 1},
			{URL: "https://example.com/c", Status: "failed", Error: "http status 500", Depth: 1},
		},
	}

	path, err := output.WriteRunIndex(rootDir, []string{"https://example.com/a"}, summary)
	if err != nil {
		t.Fatalf("write index: %v", err)
	}
	if filepath.Base(path) != "crawl-index.json" {
		t.Errorf("path = %q", path)
	}

	index, err := output.ReadRunIndex(rootDir)
	if err != nil {
		t.Fatalf("read index: %v", err)
	}
	if index.Summary.Succeeded != 2 || index.Summary.Failed != 1 {
		t.Errorf("summary roundtrip = %+v", index.Summary)
	}
	if len(index.Summary.Pages) != 3 {
		t.Errorf("pages roundtrip = %+v", index.Summary.Pages)
	}
	if index.GeneratedAt.IsZero() {
		t.Error("generated_at not set")
	}
}

func TestReadRunIndex_Missing(t *testing.T) {
	if _, err := output.ReadRunIndex(t.TempDir()); err == nil {
		t.Fatal("expected error for missing index")
	}
}
