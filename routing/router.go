package routing

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Router wraps chi.Router with Laravel-style helpers. It is registered in
// the container as the "router" singleton by providers.RoutingServiceProvider.
type Router struct {
	mux chi.Router
}

// New creates a Router with sane defaults (Logger, Recoverer, RealIP).
func New() *Router {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	return &Router{mux: r}
}

// ── HTTP verbs ───────────────────────────────────────────────────────────────

func (r *Router) Get(pattern string, h http.HandlerFunc)    { r.mux.Get(pattern, h) }
func (r *Router) Post(pattern string, h http.HandlerFunc)   { r.mux.Post(pattern, h) }
func (r *Router) Put(pattern string, h http.HandlerFunc)    { r.mux.Put(pattern, h) }
func (r *Router) Patch(pattern string, h http.HandlerFunc)  { r.mux.Patch(pattern, h) }
func (r *Router) Delete(pattern string, h http.HandlerFunc) { r.mux.Delete(pattern, h) }

// Any registers a handler for all common HTTP methods.
func (r *Router) Any(pattern string, h http.HandlerFunc) {
	for _, m := range []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"} {
		r.mux.Method(m, pattern, h)
	}
}

// ── Groups & Prefixes ────────────────────────────────────────────────────────

// Group creates an inline group with its own middleware stack.
func (r *Router) Group(fn func(r *Router)) {
	r.mux.Group(func(mx chi.Router) {
		fn(&Router{mux: mx})
	})
}

// Prefix creates a sub-router mounted under a URL prefix.
func (r *Router) Prefix(pattern string, fn func(r *Router)) {
	r.mux.Route(pattern, func(mx chi.Router) {
		fn(&Router{mux: mx})
	})
}

// ── Middleware ───────────────────────────────────────────────────────────────

// Middleware adds one or more middleware to the router.
func (r *Router) Middleware(mw ...func(http.Handler) http.Handler) {
	r.mux.Use(mw...)
}

// ── Params ───────────────────────────────────────────────────────────────────

// Param extracts a URL parameter from the request.
func Param(r *http.Request, key string) string {
	return chi.URLParam(r, key)
}

// ── Serve ────────────────────────────────────────────────────────────────────

// ServeHTTP implements http.Handler so Router can be passed straight to
// http.ListenAndServe.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Handler returns the underlying http.Handler.
func (r *Router) Handler() http.Handler {
	return r.mux
}
