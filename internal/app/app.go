// Package app wires the crawl together: seed acquisition, fetcher
// selection, the traversal runner, and the final tally.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"sitegrab/internal/crawl"
	"sitegrab/internal/fetch"
	"sitegrab/internal/memwatch"
	"sitegrab/internal/output"
	"sitegrab/internal/pathmap"
	"sitegrab/internal/sitemap"
	"sitegrab/internal/store"
)

func Run(ctx context.Context, opts Options) error {
	opts, err := normalizeOptions(opts)
	if err != nil {
		return err
	}

	logger := newLogger(opts)

	seeds := collectSeeds(ctx, opts, logger)
	if len(seeds) == 0 {
		logger.Warn("no URLs to crawl, nothing to do")
		return nil
	}

	rootDir := opts.OutputDir
	if rootDir == "" {
		rootDir = filepath.Join(DefaultOutputRoot, pathmap.SiteDir(seeds[0]))
	}
	logger.Info("starting crawl", "seeds", len(seeds), "depth", opts.MaxDepth,
		"concurrency", opts.Concurrency, "mode", opts.Mode, "dir", rootDir)

	fetcher, cleanup := newFetcher(opts)
	defer cleanup()

	policy := store.FirstWriterWins
	if opts.HashCollisions {
		policy = store.HashSuffix
	}

	monitor := memwatch.New(opts.MemoryThreshold)
	runner := &crawl.Runner{
		Fetcher:     fetcher,
		Store:       store.New(policy),
		RootDir:     rootDir,
		MaxDepth:    opts.MaxDepth,
		Concurrency: opts.Concurrency,
		Monitor:     monitor,
		Observer: func(s crawl.BatchStats) {
			logger.Debug("batch complete", "depth", s.Depth, "dispatched", s.Dispatched,
				"succeeded", s.Succeeded, "failed", s.Failed,
				"mem_used_percent", fmt.Sprintf("%.1f", s.Memory.UsedPercent))
		},
		Logger:   logger,
		Progress: opts.Progress,
	}

	summary, runErr := runner.Run(ctx, seeds)
	if runErr != nil && !errors.Is(runErr, context.Canceled) && !errors.Is(runErr, context.DeadlineExceeded) {
		return runErr
	}
	if runErr != nil {
		logger.Warn("crawl interrupted", "err", runErr)
	}

	if indexPath, err := output.WriteRunIndex(rootDir, seeds, summary); err != nil {
		logger.Warn("write run index failed", "err", err)
	} else {
		logger.Debug("wrote run index", "path", indexPath)
	}

	fmt.Printf("Crawl complete: %d succeeded, %d failed (%d written, %d skipped, %d store errors)\n",
		summary.Succeeded, summary.Failed, summary.Written, summary.Skipped, summary.StoreFailed)
	return nil
}

func newLogger(opts Options) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "sitegrab",
	})
	if opts.Verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

func collectSeeds(ctx context.Context, opts Options, logger *log.Logger) []string {
	var seeds []string
	if strings.TrimSpace(opts.URL) != "" {
		seeds = append(seeds, opts.URL)
	}
	if strings.TrimSpace(opts.SitemapURL) != "" {
		urls := sitemap.FetchURLs(ctx, opts.SitemapURL, sitemap.Options{
			UserAgent: opts.UserAgent,
			Timeout:   opts.Timeout,
		}, logger)
		logger.Info("sitemap loaded", "url", opts.SitemapURL, "found", len(urls))
		seeds = append(seeds, urls...)
	}
	return seeds
}

func newFetcher(opts Options) (fetch.BatchFetcher, func()) {
	fopts := fetch.Options{
		Mode:      opts.Mode,
		UserAgent: opts.UserAgent,
		Timeout:   opts.Timeout,
		Headless:  opts.Headless,
		WaitFor:   opts.WaitFor,
	}
	if opts.Mode == fetch.ModeDynamic {
		f := fetch.NewDynamic(fopts)
		return f, f.Close
	}
	return fetch.NewStatic(fopts), func() {}
}
