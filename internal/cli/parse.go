package cli

import (
	"errors"
	"flag"
	"strings"
	"time"

	"sitegrab/internal/app"
	"sitegrab/internal/config"
	"sitegrab/internal/fetch"
)

type ExitError struct {
	Code int
	Err  error
}

func (e ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return "error"
}

// ParseArgs turns command-line arguments into app options. The second
// return value is true when the user asked for the config wizard.
func ParseArgs(args []string) (app.Options, bool, error) {
	parsed, err := parseFlags(args)
	if err != nil {
		return app.Options{}, false, ExitError{Code: 2, Err: err}
	}
	if parsed.initConfig {
		return app.Options{}, true, nil
	}

	cfg, err := loadConfig(parsed.configStr)
	if err != nil {
		return app.Options{}, false, err
	}

	applyConfigDefaults(&parsed, cfg)
	return buildOptions(parsed)
}

type parsedFlags struct {
	urlStr       stringFlag
	sitemapStr   stringFlag
	configStr    string
	initConfig   bool
	modeStr      stringFlag
	outputDir    stringFlag
	depth        intFlag
	concurrency  intFlag
	timeout      intFlag
	userAgent    stringFlag
	waitFor      stringFlag
	headless     boolFlag
	memThreshold floatFlag
	hashNames    boolFlag
	noProgress   bool
	verbose      bool
}

func parseFlags(args []string) (parsedFlags, error) {
	fs := flag.NewFlagSet("sitegrab", flag.ContinueOnError)
	parsed := parsedFlags{}

	fs.Var(&parsed.urlStr, "url", "Seed URL to crawl recursively")
	fs.Var(&parsed.sitemapStr, "sitemap", "Sitemap URL to seed the crawl from")
	fs.StringVar(&parsed.configStr, "config", "", "Path to JSON config file")
	fs.BoolVar(&parsed.initConfig, "init-config", false, "Interactive config wizard")
	parsed.modeStr.Value = "static"
	fs.Var(&parsed.modeStr, "mode", "Fetch mode: static|dynamic")
	fs.Var(&parsed.outputDir, "output-dir", "Output directory (default: output/<host>)")
	fs.Var(&parsed.depth, "depth", "Maximum crawl depth")
	fs.Var(&parsed.concurrency, "concurrency", "Maximum concurrent fetches per batch")
	parsed.timeout.Value = app.DefaultTimeoutSeconds
	fs.Var(&parsed.timeout, "timeout", "Per-request timeout seconds")
	fs.Var(&parsed.userAgent, "user-agent", "User-Agent header")
	fs.Var(&parsed.waitFor, "wait-for", "CSS selector to wait for (dynamic mode)")
	parsed.headless.Value = true
	fs.Var(&parsed.headless, "headless", "Run browser headless (dynamic mode)")
	fs.Var(&parsed.memThreshold, "memory-threshold", "Memory usage percent above which concurrency degrades")
	fs.Var(&parsed.hashNames, "hash-collisions", "Suffix colliding filenames with a content hash instead of skipping")
	fs.BoolVar(&parsed.noProgress, "no-progress", false, "Disable the per-batch progress bar")
	fs.BoolVar(&parsed.verbose, "verbose", false, "Enable debug logging")

	if err := fs.Parse(args); err != nil {
		return parsed, err
	}

	return parsed, nil
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Config{}, nil
	}
	return config.Load(path)
}

func applyConfigDefaults(parsed *parsedFlags, cfg config.Config) {
	applyURL(parsed, cfg)
	applySitemap(parsed, cfg)
	applyMode(parsed, cfg)
	applyOutputDir(parsed, cfg)
	applyDepth(parsed, cfg)
	applyConcurrency(parsed, cfg)
	applyTimeout(parsed, cfg)
	applyUserAgent(parsed, cfg)
	applyWaitFor(parsed, cfg)
	applyHeadless(parsed, cfg)
	applyMemThreshold(parsed, cfg)
	applyHashCollisions(parsed, cfg)
}

func applyURL(parsed *parsedFlags, cfg config.Config) {
	if !parsed.urlStr.WasSet && cfg.URL != "" {
		parsed.urlStr.Value = cfg.URL
	}
}

func applySitemap(parsed *parsedFlags, cfg config.Config) {
	if !parsed.sitemapStr.WasSet && cfg.SitemapURL != "" {
		parsed.sitemapStr.Value = cfg.SitemapURL
	}
}

func applyMode(parsed *parsedFlags, cfg config.Config) {
	if !parsed.modeStr.WasSet && cfg.Mode != "" {
		parsed.modeStr.Value = cfg.Mode
	}
}

func applyOutputDir(parsed *parsedFlags, cfg config.Config) {
	if !parsed.outputDir.WasSet && cfg.OutputDir != "" {
		parsed.outputDir.Value = cfg.OutputDir
	}
}

func applyDepth(parsed *parsedFlags, cfg config.Config) {
	if !parsed.depth.WasSet && cfg.CrawlDepth > 0 {
		parsed.depth.Value = cfg.CrawlDepth
	}
}

func applyConcurrency(parsed *parsedFlags, cfg config.Config) {
	if !parsed.concurrency.WasSet && cfg.Concurrency > 0 {
		parsed.concurrency.Value = cfg.Concurrency
	}
}

func applyTimeout(parsed *parsedFlags, cfg config.Config) {
	if !parsed.timeout.WasSet && cfg.TimeoutSeconds > 0 {
		parsed.timeout.Value = cfg.TimeoutSeconds
	}
}

func applyUserAgent(parsed *parsedFlags, cfg config.Config) {
	if !parsed.userAgent.WasSet && cfg.UserAgent != "" {
		parsed.userAgent.Value = cfg.UserAgent
	}
}

func applyWaitFor(parsed *parsedFlags, cfg config.Config) {
	if !parsed.waitFor.WasSet && cfg.WaitForSelector != "" {
		parsed.waitFor.Value = cfg.WaitForSelector
	}
}

func applyHeadless(parsed *parsedFlags, cfg config.Config) {
	if !parsed.headless.WasSet && cfg.Headless != nil {
		parsed.headless.Value = *cfg.Headless
	}
}

func applyMemThreshold(parsed *parsedFlags, cfg config.Config) {
	if !parsed.memThreshold.WasSet && cfg.MemoryThresholdPercent > 0 {
		parsed.memThreshold.Value = cfg.MemoryThresholdPercent
	}
}

func applyHashCollisions(parsed *parsedFlags, cfg config.Config) {
	if !parsed.hashNames.WasSet && cfg.HashCollisions {
		parsed.hashNames.Value = true
	}
}

func buildOptions(parsed parsedFlags) (app.Options, bool, error) {
	if parsed.urlStr.Value == "" && parsed.sitemapStr.Value == "" {
		return app.Options{}, false, ExitError{Code: 2, Err: errors.New("--url or --sitemap is required")}
	}
	opts := app.Options{
		URL:             parsed.urlStr.Value,
		SitemapURL:      parsed.sitemapStr.Value,
		Mode:            fetch.Mode(strings.ToLower(strings.TrimSpace(parsed.modeStr.Value))),
		OutputDir:       parsed.outputDir.Value,
		MaxDepth:        parsed.depth.Value,
		Concurrency:     parsed.concurrency.Value,
		Timeout:         time.Duration(parsed.timeout.Value) * time.Second,
		UserAgent:       parsed.userAgent.Value,
		WaitFor:         parsed.waitFor.Value,
		Headless:        parsed.headless.Value,
		MemoryThreshold: parsed.memThreshold.Value,
		HashCollisions:  parsed.hashNames.Value,
		Progress:        !parsed.noProgress,
		Verbose:         parsed.verbose,
	}
	return opts, false, nil
}
