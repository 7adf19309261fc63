package fetch

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/gocolly/colly/v2"

	"sitegrab/internal/markdown"
)

// StaticFetcher fetches batches over plain HTTP with colly's async
// collector. Good for server-rendered sites; JS-rendered sites need
// DynamicFetcher.
type StaticFetcher struct {
	opts Options
	conv *markdown.Converter
}

func NewStatic(opts Options) *StaticFetcher {
	return &StaticFetcher{
		opts: normalizeOptions(opts),
		conv: markdown.NewConverter(),
	}
}

type pageCapture struct {
	html string
	err  error
}

// FetchBatch dispatches every URL through one async collector with
// Parallelism set to the concurrency ceiling, blocking until the whole
// batch resolves. The collector carries the seed URL in the request
// context so redirects still map back to the dispatched URL.
func (f *StaticFetcher) FetchBatch(ctx context.Context, urls []string, concurrency int) []Result {
	if concurrency < 1 {
		concurrency = 1
	}

	c := colly.NewCollector(
		colly.Async(true),
		colly.UserAgent(f.opts.UserAgent),
	)
	_ = c.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: concurrency,
	})
	c.SetRequestTimeout(f.opts.Timeout)

	// Callbacks run on collector goroutines and may still fire after a
	// cancelled context makes FetchBatch return early, so every capture
	// access goes through the mutex.
	var mu sync.Mutex
	captures := make(map[string]*pageCapture, len(urls))
	for _, u := range urls {
		captures[u] = &pageCapture{}
	}

	c.OnResponse(func(r *colly.Response) {
		seed := r.Ctx.Get("seed")
		mu.Lock()
		if pc, ok := captures[seed]; ok {
			pc.html = string(r.Body)
		}
		mu.Unlock()
	})
	c.OnError(func(r *colly.Response, err error) {
		seed := r.Request.Ctx.Get("seed")
		mu.Lock()
		if pc, ok := captures[seed]; ok {
			pc.err = err
		}
		mu.Unlock()
	})

	for _, u := range urls {
		reqCtx := colly.NewContext()
		reqCtx.Put("seed", u)
		if err := c.Request(http.MethodGet, u, nil, reqCtx, nil); err != nil {
			mu.Lock()
			captures[u].err = err
			mu.Unlock()
		}
	}

	done := make(chan struct{})
	go func() {
		c.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}

	results := make([]Result, 0, len(urls))
	mu.Lock()
	for _, u := range urls {
		results = append(results, f.buildResult(ctx, u, captures[u]))
	}
	mu.Unlock()
	return results
}

func (f *StaticFetcher) buildResult(ctx context.Context, u string, pc *pageCapture) Result {
	switch {
	case pc.err != nil:
		return Result{URL: u, Err: pc.err}
	case pc.html == "":
		if ctx.Err() != nil {
			return Result{URL: u, Err: ctx.Err()}
		}
		return Result{URL: u, Err: fmt.Errorf("no response for %s", u)}
	}

	md, err := f.conv.Convert(pc.html)
	if err != nil {
		return Result{URL: u, Err: fmt.Errorf("convert %s: %w", u, err)}
	}
	return Result{URL: u, Markdown: md, Links: extractLinks(pc.html, u)}
}
