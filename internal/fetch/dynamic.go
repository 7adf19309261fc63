package fetch

import (
	"context"
	"fmt"
	"sync"

	"sitegrab/internal/markdown"
)

// DynamicFetcher renders each URL in a real browser before conversion.
// The browser is launched once, on the first batch, and held for the
// whole run; Close releases it on every exit path.
type DynamicFetcher struct {
	opts     Options
	conv     *markdown.Converter
	provider dynamicProvider

	mu      sync.Mutex
	runner  dynamicRunner
	browser dynamicBrowser
}

func NewDynamic(opts Options) *DynamicFetcher {
	return newDynamicWith(opts, playwrightProvider{})
}

func newDynamicWith(opts Options, provider dynamicProvider) *DynamicFetcher {
	return &DynamicFetcher{
		opts:     normalizeOptions(opts),
		conv:     markdown.NewConverter(),
		provider: provider,
	}
}

func (f *DynamicFetcher) ensureBrowser() (dynamicBrowser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.browser != nil {
		return f.browser, nil
	}

	if err := f.provider.Install(); err != nil {
		return nil, fmt.Errorf("install browser: %w", err)
	}
	runner, err := f.provider.Run()
	if err != nil {
		return nil, fmt.Errorf("start browser driver: %w", err)
	}
	browser, err := runner.ChromiumLaunch(f.opts.Headless)
	if err != nil {
		_ = runner.Stop()
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	f.runner = runner
	f.browser = browser
	return browser, nil
}

// Close shuts the browser and driver down. Safe to call multiple times
// and before any batch ran.
func (f *DynamicFetcher) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.browser != nil {
		_ = f.browser.Close()
		f.browser = nil
	}
	if f.runner != nil {
		_ = f.runner.Stop()
		f.runner = nil
	}
}

// FetchBatch renders each URL on its own page, at most concurrency
// pages in flight. A browser that fails to start fails the whole batch
// with per-item errors, keeping the one-result-per-URL contract.
func (f *DynamicFetcher) FetchBatch(ctx context.Context, urls []string, concurrency int) []Result {
	if concurrency < 1 {
		concurrency = 1
	}

	browser, err := f.ensureBrowser()
	if err != nil {
		results := make([]Result, 0, len(urls))
		for _, u := range urls {
			results = append(results, Result{URL: u, Err: err})
		}
		return results
	}

	results := make([]Result, len(urls))
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for i, u := range urls {
		wg.Add(1)
		go func(i int, u string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if ctx.Err() != nil {
				results[i] = Result{URL: u, Err: ctx.Err()}
				return
			}
			results[i] = f.fetchPage(browser, u)
		}(i, u)
	}
	wg.Wait()

	return results
}

func (f *DynamicFetcher) fetchPage(browser dynamicBrowser, u string) Result {
	page, err := browser.NewPage(f.opts.UserAgent)
	if err != nil {
		return Result{URL: u, Err: fmt.Errorf("new page: %w", err)}
	}
	defer page.Close()

	if err := page.Goto(u, f.opts.Timeout); err != nil {
		return Result{URL: u, Err: fmt.Errorf("goto %s: %w", u, err)}
	}
	if f.opts.WaitFor != "" {
		if err := page.WaitFor(f.opts.WaitFor, f.opts.Timeout); err != nil {
			return Result{URL: u, Err: fmt.Errorf("wait for %q on %s: %w", f.opts.WaitFor, u, err)}
		}
	}

	html, err := page.Content()
	if err != nil {
		return Result{URL: u, Err: fmt.Errorf("read content of %s: %w", u, err)}
	}

	md, err := f.conv.Convert(html)
	if err != nil {
		return Result{URL: u, Err: fmt.Errorf("convert %s: %w", u, err)}
	}
	return Result{URL: u, Markdown: md, Links: extractLinks(html, u)}
}
