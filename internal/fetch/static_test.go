package fetch_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"sitegrab/internal/fetch"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/a", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body><h1>Page A</h1><a href="/b#frag">B</a></body></html>`))
	})
	mux.HandleFunc("/b", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body><h1>Page B</h1></body></html>`))
	})
	mux.HandleFunc("/boom", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "broken", http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestStaticFetchBatch_Success(t *testing.T) {
	srv := newTestServer(t)
	f := fetch.NewStatic(fetch.Options{Timeout: 5 * time.Second})

	results := f.FetchBatch(context.Background(), []string{srv.URL + "/a", srv.URL + "/b"}, 4)
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}

	byURL := map[string]fetch.Result{}
	for _, r := range results {
		byURL[r.URL] = r
	}

	a := byURL[srv.URL+"/a"]
	if a.Err != nil {
		t.Fatalf("fetch /a: %v", a.Err)
	}
	if !strings.Contains(a.Markdown, "# Page A") {
		t.Errorf("markdown for /a = %q", a.Markdown)
	}
	if len(a.Links) != 1 || a.Links[0] != srv.URL+"/b#frag" {
		t.Errorf("links for /a = %v", a.Links)
	}

	b := byURL[srv.URL+"/b"]
	if b.Err != nil {
		t.Fatalf("fetch /b: %v", b.Err)
	}
	if len(b.Links) != 0 {
		t.Errorf("links for /b = %v", b.Links)
	}
}

func TestStaticFetchBatch_PartialFailure(t *testing.T) {
	srv := newTestServer(t)
	f := fetch.NewStatic(fetch.Options{Timeout: 5 * time.Second})

	results := f.FetchBatch(context.Background(), []string{srv.URL + "/a", srv.URL + "/boom"}, 2)
	if len(results) != 2 {
		t.Fatalf("got %d results, want one per URL", len(results))
	}

	var okCount, errCount int
	for _, r := range results {
		if r.Err != nil {
			errCount++
		} else {
			okCount++
		}
	}
	if okCount != 1 || errCount != 1 {
		t.Fatalf("ok=%d err=%d, want 1 and 1", okCount, errCount)
	}
}

func TestStaticFetchBatch_UnreachableHost(t *testing.T) {
	f := fetch.NewStatic(fetch.Options{Timeout: time.Second})

	results := f.FetchBatch(context.Background(), []string{"http://127.0.0.1:1/nope"}, 1)
	if len(results) != 1 {
		t.Fatalf("got %d results", len(results))
	}
	if results[0].Err == nil {
		t.Fatal("expected error for unreachable host")
	}
}

func TestStaticFetchBatch_CancelledContext(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		_, _ = w.Write([]byte(`<html><body><p>late</p></body></html>`))
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})

	f := fetch.NewStatic(fetch.Options{Timeout: 30 * time.Second})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	results := f.FetchBatch(ctx, []string{srv.URL + "/slow"}, 1)
	if time.Since(start) > 5*time.Second {
		t.Fatal("FetchBatch did not return promptly after cancellation")
	}
	if len(results) != 1 {
		t.Fatalf("got %d results", len(results))
	}
	if results[0].Err == nil {
		t.Fatal("expected error for cancelled fetch")
	}
}

func TestStaticFetchBatch_EmptyBatch(t *testing.T) {
	f := fetch.NewStatic(fetch.Options{Timeout: time.Second})
	if results := f.FetchBatch(context.Background(), nil, 3); len(results) != 0 {
		t.Fatalf("expected no results, got %v", results)
	}
}
