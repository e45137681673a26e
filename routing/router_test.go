package routing_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/illuminate/container/routing"
)

// ── helpers ──────────────────────────────────────────────────────────────────

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func do(t *testing.T, router *routing.Router, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

// ── HTTP verbs ────────────────────────────────────────────────────────────────

func TestRouter_Verbs(t *testing.T) {
	r := routing.New()
	r.Get("/res", okHandler)
	r.Post("/res", okHandler)
	r.Put("/res/{id}", okHandler)
	r.Patch("/res/{id}", okHandler)
	r.Delete("/res/{id}", okHandler)

	tests := []struct {
		method, path string
	}{
		{http.MethodGet, "/res"},
		{http.MethodPost, "/res"},
		{http.MethodPut, "/res/1"},
		{http.MethodPatch, "/res/1"},
		{http.MethodDelete, "/res/1"},
	}
	for _, tt := range tests {
		if rr := do(t, r, tt.method, tt.path); rr.Code != http.StatusOK {
			t.Errorf("%s %s: got %d want 200", tt.method, tt.path, rr.Code)
		}
	}
}

func TestRouter_Any(t *testing.T) {
	r := routing.New()
	r.Any("/ping", okHandler)

	for _, method := range []string{"GET", "POST", "PUT", "PATCH", "DELETE"} {
		if rr := do(t, r, method, "/ping"); rr.Code != http.StatusOK {
			t.Errorf("ANY %s /ping: got %d want 200", method, rr.Code)
		}
	}
}

func TestRouter_NotFound(t *testing.T) {
	r := routing.New()
	if rr := do(t, r, http.MethodGet, "/not-registered"); rr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rr.Code)
	}
}

// ── Route params ─────────────────────────────────────────────────────────────

func TestRouter_Param(t *testing.T) {
	r := routing.New()
	r.Get("/users/{id}", func(w http.ResponseWriter, req *http.Request) {
		_, _ = w.Write([]byte(routing.Param(req, "id")))
	})

	rr := do(t, r, http.MethodGet, "/users/42")
	if rr.Body.String() != "42" {
		t.Errorf("got %q, want '42'", rr.Body.String())
	}
}

// ── Prefix & Group ───────────────────────────────────────────────────────────

func TestRouter_Prefix(t *testing.T) {
	r := routing.New()
	r.Prefix("/api/v1", func(api *routing.Router) {
		api.Get("/users", okHandler)
	})

	if rr := do(t, r, http.MethodGet, "/api/v1/users"); rr.Code != http.StatusOK {
		t.Errorf("GET /api/v1/users: got %d want 200", rr.Code)
	}
	if rr := do(t, r, http.MethodGet, "/users"); rr.Code != http.StatusNotFound {
		t.Errorf("unprefixed path should 404, got %d", rr.Code)
	}
}

func TestRouter_GroupMiddlewareScoped(t *testing.T) {
	guard := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if req.Header.Get("Authorization") == "" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, req)
		})
	}

	r := routing.New()
	r.Get("/open", okHandler)
	r.Group(func(protected *routing.Router) {
		protected.Middleware(guard)
		protected.Get("/secret", okHandler)
	})

	if rr := do(t, r, http.MethodGet, "/open"); rr.Code != http.StatusOK {
		t.Errorf("GET /open: got %d want 200", rr.Code)
	}
	if rr := do(t, r, http.MethodGet, "/secret"); rr.Code != http.StatusUnauthorized {
		t.Errorf("GET /secret without auth: got %d want 401", rr.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/secret", nil)
	req.Header.Set("Authorization", "Bearer token")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("GET /secret with auth: got %d want 200", rr.Code)
	}
}
