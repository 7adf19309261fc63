package tui

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParsePositiveInt(t *testing.T) {
	v, err := parsePositiveInt("5", "err")
	if err != nil || v != 5 {
		t.Fatalf("parsePositiveInt unexpected: %v %v", v, err)
	}
	if _, err := parsePositiveInt("0", "err"); err == nil {
		t.Fatalf("expected error for non-positive value")
	}
}

func TestParseNonNegativeInt(t *testing.T) {
	v, err := parseNonNegativeInt("0", "err")
	if err != nil || v != 0 {
		t.Fatalf("parseNonNegativeInt unexpected: %v %v", v, err)
	}
	if _, err := parseNonNegativeInt("-1", "err"); err == nil {
		t.Fatalf("expected error for negative value")
	}
}

func TestParseNonNegativeFloat(t *testing.T) {
	v, err := parseNonNegativeFloat("2.5", "err")
	if err != nil || v != 2.5 {
		t.Fatalf("parseNonNegativeFloat unexpected: %v %v", v, err)
	}
	if _, err := parseNonNegativeFloat("-0.1", "err"); err == nil {
		t.Fatalf("expected error for negative value")
	}
}

func TestBuildResult_RequiresSeed(t *testing.T) {
	if _, err := buildResult(&formState{
		mode:            "static",
		depthStr:        "1",
		concurrencyStr:  "1",
		timeoutSecStr:   "10",
		memThresholdStr: "70",
	}); err == nil {
		t.Fatal("expected error when no url or sitemap set")
	}
}

func TestBuildResult_SaveOnlyWritesConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.json")
	res, err := buildResult(&formState{
		urlStr:          "https://example.com",
		mode:            "static",
		depthStr:        "2",
		concurrencyStr:  "4",
		timeoutSecStr:   "10",
		memThresholdStr: "70",
		userAgent:       "ua",
		waitFor:         "body",
		headless:        true,
		configPath:      path,
		finalAction:     "save_only",
	})
	if err != nil {
		t.Fatalf("buildResult error: %v", err)
	}

	if res.RunNow {
		t.Fatal("save_only should not run")
	}
	if !res.SaveConfig || res.ConfigPath != path {
		t.Fatalf("unexpected save state: %+v", res)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config file to be written: %v", err)
	}
	if res.Options.MaxDepth != 2 || res.Options.Concurrency != 4 {
		t.Fatalf("options not built from state: %+v", res.Options)
	}
}
