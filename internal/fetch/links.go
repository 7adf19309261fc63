package fetch

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// extractLinks pulls the internal links out of a page: every a[href]
// resolved against pageURL, kept only when it stays on the same host.
// Duplicates are dropped; fragments are left intact.
func extractLinks(html, pageURL string) []string {
	base, err := url.Parse(pageURL)
	if err != nil || base.Host == "" {
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	seen := map[string]struct{}{}
	var links []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if !isValidLink(href) {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		abs := base.ResolveReference(ref)
		if abs.Host != base.Host {
			return
		}
		if abs.Scheme != "http" && abs.Scheme != "https" {
			return
		}
		u := abs.String()
		if _, ok := seen[u]; ok {
			return
		}
		seen[u] = struct{}{}
		links = append(links, u)
	})
	return links
}

func isValidLink(link string) bool {
	if link == "" {
		return false
	}
	return !strings.HasPrefix(link, "#") &&
		!strings.HasPrefix(link, "javascript:") &&
		!strings.HasPrefix(link, "mailto:") &&
		!strings.HasPrefix(link, "tel:")
}
