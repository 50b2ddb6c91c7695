package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"go.uber.org/zap"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

// callWithOrigin wraps a 200-OK inner handler in CORS built from the given
// allow-list and returns the recorded response.
func callWithOrigin(t *testing.T, rawAllowList, origin, method string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, "/test", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	rec := httptest.NewRecorder()
	CORS(rawAllowList)(okHandler()).ServeHTTP(rec, req)
	return rec
}

func TestBuildAllowList(t *testing.T) {
	got := buildAllowList(" https://a.example , https://b.example,")
	if len(got) != 2 {
		t.Fatalf("expected 2 origins, got %d", len(got))
	}
	if _, ok := got["https://a.example"]; !ok {
		t.Error("expected trimmed origin in allow-list")
	}
}

// TestCORS_AllowedOrigin verifies that a listed origin is echoed back with
// credentials enabled.
func TestCORS_AllowedOrigin(t *testing.T) {
	rec := callWithOrigin(t, "https://patrol.example", "https://patrol.example", http.MethodGet)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://patrol.example" {
		t.Errorf("expected origin echoed back, got %q", got)
	}
	if rec.Header().Get("Access-Control-Allow-Credentials") != "true" {
		t.Error("expected credentials header")
	}
}

// TestCORS_UnknownOrigin verifies that unknown origins get no CORS headers
// but the request still reaches the handler.
func TestCORS_UnknownOrigin(t *testing.T) {
	rec := callWithOrigin(t, "https://patrol.example", "https://evil.example", http.MethodGet)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("expected no CORS header for unknown origin, got %q", got)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected request to pass through, got %d", rec.Code)
	}
}

func TestCORS_Preflight(t *testing.T) {
	rec := callWithOrigin(t, "https://patrol.example", "https://patrol.example", http.MethodOptions)

	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204 for preflight, got %d", rec.Code)
	}
}

// TestCORS_ReadsAllowListAtBuildTime: the allow-list is captured when the
// middleware is constructed, so origins set by an env file loaded in main
// (after package init) still take effect.
func TestCORS_ReadsAllowListAtBuildTime(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", "https://late.example")

	rec := callWithOrigin(t, os.Getenv("ALLOWED_ORIGINS"), "https://late.example", http.MethodGet)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://late.example" {
		t.Errorf("expected late-set origin to be honored, got %q", got)
	}
}

// TestRequestLogger_RecordsStatus verifies the wrapped writer captures the
// handler's status code without altering the response.
func TestRequestLogger_RecordsStatus(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	RequestLogger(zap.NewNop())(inner).ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 to pass through, got %d", rec.Code)
	}
}
