package config

import (
	"encoding/json"
	"os"
)

type Config struct {
	URL                    string  `json:"url"`
	SitemapURL             string  `json:"sitemap_url"`
	Mode                   string  `json:"mode"`
	OutputDir              string  `json:"output_dir"`
	CrawlDepth             int     `json:"crawl_depth"`
	Concurrency            int     `json:"concurrency"`
	TimeoutSeconds         int     `json:"timeout_seconds"`
	UserAgent              string  `json:"user_agent"`
	WaitForSelector        string  `json:"wait_for"`
	Headless               *bool   `json:"headless"`
	MemoryThresholdPercent float64 `json:"memory_threshold_percent"`
	HashCollisions         bool    `json:"hash_collisions"`
}

func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func Marshal(cfg Config) ([]byte, error) {
	return json.MarshalIndent(cfg, "", "  ")
}
