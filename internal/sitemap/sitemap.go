// Package sitemap turns an XML sitemap into a flat list of page URLs to
// seed a crawl with. Both plain <urlset> documents and nested
// <sitemapindex> documents are supported.
package sitemap

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

type urlset struct {
	XMLName xml.Name     `xml:"urlset"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

type sitemapIndex struct {
	XMLName  xml.Name          `xml:"sitemapindex"`
	Sitemaps []sitemapLocation `xml:"sitemap"`
}

type sitemapLocation struct {
	Loc string `xml:"loc"`
}

type Options struct {
	UserAgent string
	Timeout   time.Duration
}

// FetchURLs fetches and parses a sitemap and never fails the run: any
// network or parse problem is logged and yields an empty list, which the
// caller treats as "zero URLs found".
func FetchURLs(ctx context.Context, sitemapURL string, opts Options, logger *log.Logger) []string {
	urls, err := Parse(ctx, sitemapURL, opts)
	if err != nil {
		logger.Warn("sitemap acquisition failed", "url", sitemapURL, "err", err)
		return nil
	}
	return urls
}

// Parse fetches sitemapURL and returns every page URL it lists. Index
// documents are followed one level at a time; a broken child sitemap is
// skipped rather than failing the whole index, and a sitemap URL is
// fetched at most once so cyclic indexes terminate.
func Parse(ctx context.Context, sitemapURL string, opts Options) ([]string, error) {
	if opts.UserAgent == "" {
		opts.UserAgent = "sitegrab/1.0"
	}
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}

	return parse(ctx, sitemapURL, opts, map[string]struct{}{})
}

func parse(ctx context.Context, sitemapURL string, opts Options, seen map[string]struct{}) ([]string, error) {
	if _, ok := seen[sitemapURL]; ok {
		return nil, fmt.Errorf("sitemap %s already visited", sitemapURL)
	}
	seen[sitemapURL] = struct{}{}

	body, err := fetchContent(ctx, sitemapURL, opts)
	if err != nil {
		return nil, err
	}

	// Index documents first; a urlset will fail this parse cleanly.
	urls, err := parseIndex(ctx, body, opts, seen)
	if err == nil && len(urls) > 0 {
		return urls, nil
	}

	return parseURLSet(body)
}

func fetchContent(ctx context.Context, url string, opts Options) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", opts.UserAgent)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch sitemap: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sitemap returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read sitemap body: %w", err)
	}

	return body, nil
}

func parseIndex(ctx context.Context, body []byte, opts Options, seen map[string]struct{}) ([]string, error) {
	var index sitemapIndex
	if err := xml.Unmarshal(body, &index); err != nil {
		return nil, err
	}

	if len(index.Sitemaps) == 0 {
		return nil, fmt.Errorf("no sitemaps in index")
	}

	var allURLs []string
	for _, sm := range index.Sitemaps {
		if strings.TrimSpace(sm.Loc) == "" {
			continue
		}

		urls, err := parse(ctx, sm.Loc, opts, seen)
		if err != nil {
			continue
		}
		allURLs = append(allURLs, urls...)
	}

	return allURLs, nil
}

func parseURLSet(body []byte) ([]string, error) {
	var set urlset
	if err := xml.Unmarshal(body, &set); err != nil {
		return nil, fmt.Errorf("parse sitemap XML: %w", err)
	}

	urls := make([]string, 0, len(set.URLs))
	for _, u := range set.URLs {
		loc := strings.TrimSpace(u.Loc)
		if loc != "" {
			urls = append(urls, loc)
		}
	}

	return urls, nil
}
