// Package frontier holds the traversal state for a bounded-depth
// breadth-first crawl: which URLs have been fetched and which are queued
// for the current depth level. It performs no I/O; the caller dispatches
// batches and feeds discovered links back in.
package frontier

import (
	"sort"
	"strings"
)

// Normalize strips the fragment portion of a URL. Two URLs that differ
// only in their fragment are the same traversal node.
func Normalize(rawURL string) string {
	if i := strings.IndexByte(rawURL, '#'); i >= 0 {
		return rawURL[:i]
	}
	return rawURL
}

// Tracker is single-writer state: all mutation happens between batches,
// never while a batch is in flight.
type Tracker struct {
	visited  map[string]struct{}
	frontier map[string]struct{}
	depth    int
	maxDepth int
}

func New(seeds []string, maxDepth int) *Tracker {
	t := &Tracker{
		visited:  make(map[string]struct{}),
		frontier: make(map[string]struct{}, len(seeds)),
		maxDepth: maxDepth,
	}
	for _, s := range seeds {
		t.frontier[Normalize(s)] = struct{}{}
	}
	return t
}

// NextBatch returns the URLs to fetch at the current depth: the frontier
// minus everything already visited, sorted for stable dispatch. It
// returns nil once the traversal is terminal, either because maxDepth is
// reached or because nothing new remains.
func (t *Tracker) NextBatch() []string {
	if t.depth >= t.maxDepth {
		return nil
	}
	batch := make([]string, 0, len(t.frontier))
	for u := range t.frontier {
		if _, seen := t.visited[u]; !seen {
			batch = append(batch, u)
		}
	}
	if len(batch) == 0 {
		return nil
	}
	sort.Strings(batch)
	return batch
}

// Advance records the outcome of one depth level. Every URL in batch is
// marked visited regardless of fetch outcome, so a failed URL is never
// re-queued within the run. Discovered links are normalized and the ones
// not yet visited replace the frontier for the next depth.
func (t *Tracker) Advance(batch, discovered []string) {
	for _, u := range batch {
		t.visited[Normalize(u)] = struct{}{}
	}

	next := make(map[string]struct{})
	for _, link := range discovered {
		n := Normalize(link)
		if n == "" {
			continue
		}
		if _, seen := t.visited[n]; !seen {
			next[n] = struct{}{}
		}
	}
	t.frontier = next
	t.depth++
}

func (t *Tracker) Depth() int { return t.depth }

// Visited returns the normalized URLs fetched so far, sorted.
func (t *Tracker) Visited() []string {
	out := make([]string, 0, len(t.visited))
	for u := range t.visited {
		out = append(out, u)
	}
	sort.Strings(out)
	return out
}
