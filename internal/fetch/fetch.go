// Package fetch implements the batch fetch collaborator: many URLs
// dispatched concurrently, one result per URL, each carrying either the
// page rendered as markdown plus its internal links, or a per-item
// error. The traversal core never touches HTTP or browsers directly.
package fetch

import (
	"context"
	"time"
)

type Mode string

const (
	ModeStatic  Mode = "static"
	ModeDynamic Mode = "dynamic"
)

type Options struct {
	Mode      Mode
	UserAgent string
	Timeout   time.Duration
	Headless  bool
	WaitFor   string // CSS selector to wait for before reading content (dynamic)
}

// Result is the outcome for a single URL in a batch. Err set means the
// fetch failed; Markdown and Links are only meaningful on success.
// Links are absolute, same-host URLs as found on the page, fragments
// and all; frontier normalization is the caller's job.
type Result struct {
	URL      string
	Markdown string
	Links    []string
	Err      error
}

// BatchFetcher dispatches all URLs of one depth level concurrently,
// bounded by the concurrency ceiling, and blocks until every result is
// in. Result order is unspecified.
type BatchFetcher interface {
	FetchBatch(ctx context.Context, urls []string, concurrency int) []Result
}

func normalizeOptions(opts Options) Options {
	if opts.Timeout == 0 {
		opts.Timeout = 45 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "sitegrab/1.0"
	}
	return opts
}
