package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTracing_PassesThroughStatus(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/accounts/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "acc-1" {
			t.Errorf("expected path value acc-1, got %q", r.PathValue("id"))
		}
		w.WriteHeader(http.StatusAccepted)
	})

	handler := Tracing(mux)

	req := httptest.NewRequest(http.MethodGet, "/api/accounts/acc-1", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusAccepted {
		t.Errorf("expected 202, got %d", rr.Code)
	}
}

func TestTracing_UnmatchedRoute(t *testing.T) {
	handler := Tracing(http.NewServeMux())

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rr.Code)
	}
}
