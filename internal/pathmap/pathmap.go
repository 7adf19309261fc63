// Package pathmap derives local file and directory names from URLs.
// The mapping is deterministic: the same URL always yields the same name.
package pathmap

import (
	"net/url"
	"strings"
)

// FileFor maps a URL to a flat markdown filename built from its path
// component. Host, query, and fragment are ignored; path separators
// collapse into underscores so every page lands in one directory.
// An empty path maps to "index.md".
func FileFor(rawURL string) string {
	path := ""
	if u, err := url.Parse(rawURL); err == nil {
		path = u.Path
	}

	path = strings.TrimPrefix(path, "/")

	var name string
	if path == "" {
		name = "index"
	} else {
		name = strings.ReplaceAll(path, "/", "_")
		name = strings.ReplaceAll(name, "\\", "_")
		name = sanitize(name)
	}

	if !strings.HasSuffix(name, ".md") {
		name += ".md"
	}
	return name
}

// SiteDir returns the directory name for a crawl run: the URL's host,
// or "site" when the URL has none.
func SiteDir(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "site"
	}
	return u.Host
}

func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '_', r == '-', r == '.':
			return r
		default:
			return '_'
		}
	}, name)
}
