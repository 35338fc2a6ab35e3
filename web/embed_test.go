package web

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"index.html":         {Data: []byte("<html>dsa90</html>")},
		"assets/app-1a2b.js": {Data: []byte("console.log('hi')")},
	}
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestSPAServesFiles(t *testing.T) {
	h := spaHandler(testFS())

	w := get(h, "/assets/app-1a2b.js")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "console.log") {
		t.Fatalf("asset: %d %q", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Header().Get("Cache-Control"), "immutable") {
		t.Fatalf("assets should be cached, got %q", w.Header().Get("Cache-Control"))
	}

	w = get(h, "/")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "dsa90") {
		t.Fatalf("index: %d %q", w.Code, w.Body.String())
	}
}

func TestSPAFallsBackToIndex(t *testing.T) {
	h := spaHandler(testFS())

	w := get(h, "/bookmarks")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "dsa90") {
		t.Fatalf("fallback: %d %q", w.Code, w.Body.String())
	}
	if w.Header().Get("Cache-Control") != "no-cache" {
		t.Fatalf("index should not be cached, got %q", w.Header().Get("Cache-Control"))
	}
}

func TestSPADoesNotShadowAPI(t *testing.T) {
	h := spaHandler(testFS())
	for _, p := range []string{"/api/unknown", "/ws/unknown"} {
		if w := get(h, p); w.Code != http.StatusNotFound {
			t.Errorf("%s: status %d, want 404", p, w.Code)
		}
	}
}

func TestEmbeddedIndexExists(t *testing.T) {
	w := get(SPAHandler(), "/")
	if w.Code != http.StatusOK {
		t.Fatalf("embedded index: status %d", w.Code)
	}
}
