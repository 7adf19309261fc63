// Package crawl drives a bounded-depth breadth-first crawl: it asks the
// frontier for each depth level's batch, hands the batch to the fetch
// collaborator, stores successful pages, and feeds discovered links
// back in. Individual fetch or store failures never abort the run.
package crawl

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/schollz/progressbar/v3"

	"sitegrab/internal/fetch"
	"sitegrab/internal/frontier"
	"sitegrab/internal/memwatch"
	"sitegrab/internal/store"
)

// BatchStats is handed to the optional observer after each depth
// level's batch resolves, together with a memory snapshot.
type BatchStats struct {
	Depth      int
	Dispatched int
	Succeeded  int
	Failed     int
	Memory     memwatch.Usage
}

// PageOutcome records what happened to one URL, for the run index.
type PageOutcome struct {
	URL    string `json:"url"`
	Depth  int    `json:"depth"`
	File   string `json:"file,omitempty"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type Summary struct {
	Succeeded   int           `json:"succeeded"`
	Failed      int           `json:"failed"`
	Written     int           `json:"written"`
	Skipped     int           `json:"skipped"`
	StoreFailed int           `json:"store_failed"`
	Depths      int           `json:"depths"`
	Pages       []PageOutcome `json:"pages"`
}

type Runner struct {
	Fetcher     fetch.BatchFetcher
	Store       *store.Store
	RootDir     string
	MaxDepth    int
	Concurrency int
	Monitor     *memwatch.Monitor // nil disables memory-aware clamping
	Observer    func(BatchStats)  // nil disables batch metrics
	Logger      *log.Logger
	Progress    bool
}

// Run crawls from seeds until the frontier empties or MaxDepth is
// reached. The returned error is only ever the context's; everything
// else is carried per page in the summary.
func (r *Runner) Run(ctx context.Context, seeds []string) (Summary, error) {
	logger := r.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	concurrency := r.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	var summary Summary
	tracker := frontier.New(seeds, r.MaxDepth)

	for {
		batch := tracker.NextBatch()
		if batch == nil {
			break
		}

		limit := concurrency
		if r.Monitor != nil {
			limit = r.Monitor.Allow(concurrency)
			if limit < concurrency {
				logger.Warn("memory pressure, reducing batch concurrency",
					"requested", concurrency, "allowed", limit)
			}
		}

		depth := tracker.Depth()
		logger.Info("dispatching batch", "depth", depth, "urls", len(batch), "concurrency", limit)

		results := r.Fetcher.FetchBatch(ctx, batch, limit)
		discovered := r.processBatch(depth, results, &summary, logger)
		tracker.Advance(batch, discovered)

		if r.Observer != nil {
			stats := BatchStats{
				Depth:      depth,
				Dispatched: len(batch),
			}
			for _, res := range results {
				if res.Err != nil {
					stats.Failed++
				} else {
					stats.Succeeded++
				}
			}
			if r.Monitor != nil {
				stats.Memory = r.Monitor.Snapshot()
			}
			r.Observer(stats)
		}

		if ctx.Err() != nil {
			summary.Depths = tracker.Depth()
			return summary, ctx.Err()
		}
	}

	summary.Depths = tracker.Depth()
	return summary, nil
}

func (r *Runner) processBatch(depth int, results []fetch.Result, summary *Summary, logger *log.Logger) []string {
	var bar *progressbar.ProgressBar
	if r.Progress {
		bar = progressbar.Default(int64(len(results)), fmt.Sprintf("depth %d", depth+1))
	}

	var discovered []string
	for _, res := range results {
		if bar != nil {
			_ = bar.Add(1)
		}

		if res.Err != nil {
			summary.Failed++
			logger.Warn("fetch failed", "url", res.URL, "err", res.Err)
			summary.Pages = append(summary.Pages, PageOutcome{
				URL: res.URL, Depth: depth, Status: "failed", Error: res.Err.Error(),
			})
			continue
		}

		summary.Succeeded++
		discovered = append(discovered, res.Links...)

		sres := r.Store.Store(r.RootDir, res.URL, res.Markdown)
		outcome := PageOutcome{URL: res.URL, Depth: depth, File: sres.Path, Status: sres.Status.String()}
		switch sres.Status {
		case store.Written:
			summary.Written++
			logger.Debug("stored page", "url", res.URL, "file", sres.Path)
		case store.Skipped:
			summary.Skipped++
			logger.Debug("already stored, skipping", "url", res.URL, "file", sres.Path)
		case store.Failed:
			summary.StoreFailed++
			outcome.Error = sres.Err.Error()
			logger.Warn("store failed", "url", res.URL, "err", sres.Err)
		}
		summary.Pages = append(summary.Pages, outcome)
	}

	if bar != nil {
		_ = bar.Finish()
	}
	return discovered
}
