// Package output writes the crawl run index: a JSON record of every URL
// the run touched, its outcome, and the final tally. The index is
// informational; resumability comes from the store's skip-existing
// behavior, not from this file.
package output

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"sitegrab/internal/crawl"
)

const indexFile = "crawl-index.json"

type RunIndex struct {
	Seeds       []string      `json:"seeds"`
	GeneratedAt time.Time     `json:"generated_at"`
	Summary     crawl.Summary `json:"summary"`
}

func WriteRunIndex(rootDir string, seeds []string, summary crawl.Summary) (string, error) {
	if err := os.MkdirAll(rootDir, 0755); err != nil {
		return "", err
	}

	index := RunIndex{
		Seeds:       seeds,
		GeneratedAt: time.Now().UTC(),
		Summary:     summary,
	}
	data, err := json.MarshalIndent(index, "", "  ")
	if err != nil {
		return "", err
	}

	path := filepath.Join(rootDir, indexFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}

func ReadRunIndex(rootDir string) (RunIndex, error) {
	data, err := os.ReadFile(filepath.Join(rootDir, indexFile))
	if err != nil {
		return RunIndex{}, err
	}
	var index RunIndex
	if err := json.Unmarshal(data, &index); err != nil {
		return RunIndex{}, err
	}
	return index, nil
}
