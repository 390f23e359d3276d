package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestCORS(t *testing.T) {
	t.Run("SameOriginPassesThrough", func(t *testing.T) {
		handler := CORS([]string{"http://app.local"})(okHandler())

		req := httptest.NewRequest(http.MethodGet, "/api/students", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		if rec.Header().Get("Access-Control-Allow-Origin") != "" {
			t.Error("no CORS headers expected without an Origin header")
		}
	})

	t.Run("AllowedOrigin", func(t *testing.T) {
		handler := CORS([]string{"http://app.local"})(okHandler())

		req := httptest.NewRequest(http.MethodGet, "/api/students", nil)
		req.Header.Set("Origin", "http://app.local")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://app.local" {
			t.Errorf("Allow-Origin = %q", got)
		}
	})

	t.Run("WildcardOrigin", func(t *testing.T) {
		handler := CORS([]string{"*"})(okHandler())

		req := httptest.NewRequest(http.MethodGet, "/api/students", nil)
		req.Header.Set("Origin", "http://anywhere.example")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
			t.Errorf("Allow-Origin = %q", got)
		}
	})

	t.Run("PreflightAnsweredDirectly", func(t *testing.T) {
		handler := CORS([]string{"http://app.local"})(http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				t.Error("preflight must not reach the router")
			}))

		req := httptest.NewRequest(http.MethodOptions, "/api/students", nil)
		req.Header.Set("Origin", "http://app.local")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("status = %d, want 204", rec.Code)
		}
		if rec.Header().Get("Access-Control-Allow-Methods") == "" {
			t.Error("preflight response should list allowed methods")
		}
	})

	t.Run("DisallowedOriginPreflightRejected", func(t *testing.T) {
		handler := CORS([]string{"http://app.local"})(okHandler())

		req := httptest.NewRequest(http.MethodOptions, "/api/students", nil)
		req.Header.Set("Origin", "http://evil.example")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusForbidden {
			t.Fatalf("status = %d, want 403", rec.Code)
		}
	})
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	handler := Logger(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/students/99", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	line := buf.String()
	if !strings.Contains(line, "status=404") {
		t.Errorf("log should carry the final status: %s", line)
	}
	if !strings.Contains(line, "path=/api/students/99") {
		t.Errorf("log should carry the path: %s", line)
	}
	if !strings.Contains(line, "WARN") {
		t.Errorf("4xx should log at warn level: %s", line)
	}
}
