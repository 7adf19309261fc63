package app

import (
	"errors"
	"strings"
	"time"

	"sitegrab/internal/fetch"
	"sitegrab/internal/memwatch"
)

const (
	DefaultUserAgent      = "sitegrab/1.0"
	DefaultTimeoutSeconds = 45
	DefaultConcurrency    = 10
	DefaultCrawlDepth     = 3
	DefaultOutputRoot     = "output"
)

type Options struct {
	URL             string
	SitemapURL      string
	Mode            fetch.Mode
	OutputDir       string
	MaxDepth        int
	Concurrency     int
	Timeout         time.Duration
	UserAgent       string
	WaitFor         string
	Headless        bool
	MemoryThreshold float64
	HashCollisions  bool
	Progress        bool
	Verbose         bool
}

func normalizeOptions(opts Options) (Options, error) {
	if strings.TrimSpace(opts.URL) == "" && strings.TrimSpace(opts.SitemapURL) == "" {
		return opts, errors.New("url or sitemap is required")
	}
	if opts.Mode == "" {
		opts.Mode = fetch.ModeStatic
	}
	if opts.Mode != fetch.ModeStatic && opts.Mode != fetch.ModeDynamic {
		return opts, errors.New("mode must be static or dynamic")
	}
	if opts.MaxDepth <= 0 {
		// A sitemap already enumerates the site; fetch what it lists
		// and stop. Recursive runs need room to follow links.
		if opts.URL == "" {
			opts.MaxDepth = 1
		} else {
			opts.MaxDepth = DefaultCrawlDepth
		}
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeoutSeconds * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.MemoryThreshold <= 0 {
		opts.MemoryThreshold = memwatch.DefaultThresholdPercent
	}
	return opts, nil
}
