package scraper

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// site is an in-memory website keyed by request path. Every request is
// recorded.
type site struct {
	mu    sync.Mutex
	pages map[string]string
	hits  []string
}

func newSite(t *testing.T, pages map[string]string) (*site, *httptest.Server) {
	t.Helper()
	s := &site{pages: pages}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.hits = append(s.hits, r.Method+" "+r.URL.Path)
		body, ok := s.pages[r.URL.Path]
		s.mu.Unlock()

		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return s, srv
}

func novelPage(title, img, status, synopsis, genres string, volumes int) string {
	links := ""
	for i := 0; i <= volumes; i++ {
		links += `<a href="vol.epub">Volume</a>`
	}
	return `<html><head><title>` + title + `</title></head><body>
<div class="ani"><img src="` + img + `"></div>
<h3>Status</h3><p>` + status + `</p>
<h3>Synopsis</h3><p>` + synopsis + `</p>
<h3>Genres</h3><p>` + genres + `</p>
<h3>Download</h3>` + links + `
</body></html>`
}
