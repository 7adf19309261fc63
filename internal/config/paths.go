package config

import (
	"path/filepath"
	"strings"
)

const (
	DefaultConfigDir  = "configs"
	DefaultConfigFile = "config.json"
)

func SearchDirs() []string {
	return uniqueDirs([]string{
		".",
		DefaultConfigDir,
	})
}

func uniqueDirs(dirs []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		trimmed := strings.TrimSpace(dir)
		if trimmed == "" {
			continue
		}
		normalized := strings.ToLower(filepath.Clean(trimmed))
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}
