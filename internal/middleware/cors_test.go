package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func serve(origins []string, req *http.Request) (*httptest.ResponseRecorder, bool) {
	called := false
	h := CORS(origins)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w, called
}

func TestCORSExplicitOrigin(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/problems", nil)
	req.Header.Set("Origin", "https://dsa.example.com")

	w, called := serve([]string{"https://dsa.example.com"}, req)
	if !called {
		t.Fatal("handler not called")
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://dsa.example.com" {
		t.Fatalf("Allow-Origin = %q", got)
	}
	if w.Header().Get("Access-Control-Allow-Credentials") != "true" {
		t.Fatal("explicit origins should allow credentials")
	}
}

func TestCORSWildcardNoCredentials(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/problems", nil)
	req.Header.Set("Origin", "https://anywhere.example.com")

	w, _ := serve([]string{"*"}, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://anywhere.example.com" {
		t.Fatalf("Allow-Origin = %q", got)
	}
	if w.Header().Get("Access-Control-Allow-Credentials") != "" {
		t.Fatal("wildcard must not allow credentials")
	}
}

func TestCORSRejectedOrigin(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/problems", nil)
	req.Header.Set("Origin", "https://evil.example.com")

	w, called := serve([]string{"https://dsa.example.com"}, req)
	if !called {
		t.Fatal("simple requests still reach the handler")
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatal("unexpected Allow-Origin for rejected origin")
	}
}

func TestCORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/problems/1", nil)
	req.Header.Set("Origin", "https://dsa.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPatch)

	w, called := serve([]string{"https://dsa.example.com"}, req)
	if called {
		t.Fatal("preflight should not reach the handler")
	}
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Methods") != allowMethods {
		t.Fatalf("Allow-Methods = %q", w.Header().Get("Access-Control-Allow-Methods"))
	}
}

func TestCORSNoOrigin(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w, called := serve([]string{"*"}, req)
	if !called || w.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatal("same-origin requests pass through untouched")
	}
}
