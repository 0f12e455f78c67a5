// Package mock implements the routing engine behind gio's mock dispatcher: a
// per-method trie of path patterns resolving to plain http.Handler values,
// with route-scoped middleware and prefix groups. It serves mocked backend
// responses without a network call, and doubles as a real handler when
// mounted on an http.Server.
package mock

import (
	"net/http"
	"strings"

	"github.com/arcticfox1919/gio"
)

// Middleware wraps a resolved handler the way an interceptor wraps Proceed;
// it decides itself whether to call the inner handler. Any
// func(http.Handler) http.Handler fits, including go-pkgz/rest ones.
type Middleware func(http.Handler) http.Handler

// Router registers path patterns per HTTP method and resolves incoming paths
// to handlers. Pattern segments starting with ":" are named parameters, a
// trailing "*name" segment catches the rest of the path. Registration fails
// fast on conflicts; it is not safe concurrently with dispatch.
type Router struct {
	trees       map[string]*tree
	notFound    http.Handler
	prefix      string
	middlewares []Middleware
}

// NewRouter makes an empty router with the default 404 not-found handler.
func NewRouter() *Router {
	return &Router{trees: map[string]*tree{}, notFound: defaultNotFound()}
}

// WithNotFound replaces the fallback handler invoked for unmatched paths.
// The fallback always produces a response, an unmatched mock route is not an
// error. Returns the router for chaining.
func (r *Router) WithNotFound(h http.Handler) *Router {
	r.notFound = h
	return r
}

// Use appends middleware applied to every route registered after this call
// on this router or its groups. Returns the router for chaining.
func (r *Router) Use(mw ...Middleware) *Router {
	r.middlewares = append(r.middlewares, mw...)
	return r
}

// Group makes a sub-router sharing the same trees with prefix prepended to
// every pattern and an isolated copy of the middleware list. Lets multiple
// registrations share one middleware without repeating it per route.
func (r *Router) Group(prefix string) *Router {
	return &Router{
		trees:       r.trees,
		notFound:    r.notFound,
		prefix:      r.prefix + prefix,
		middlewares: append([]Middleware{}, r.middlewares...),
	}
}

// Handle registers a handler for the method and pattern with the router's
// middleware plus the given route-scoped ones. Registering under GET also
// auto-registers a HEAD route at the same pattern with the body discarded;
// an explicit HEAD registration takes precedence over the derived one.
func (r *Router) Handle(method, pattern string, h http.Handler, mw ...Middleware) error {
	if h == nil {
		return gio.ConfigErrorf("nil handler for %s %s", method, pattern)
	}
	method = strings.ToUpper(method)
	full := r.prefix + pattern

	lf := &leaf{
		handler:    h,
		middleware: append(append([]func(http.Handler) http.Handler{}, toPlain(r.middlewares)...), toPlain(mw)...),
		pattern:    full,
	}
	if err := r.tree(method).add(full, lf); err != nil {
		return err
	}

	if method == http.MethodGet {
		derived := &leaf{
			handler:    discardBody(h),
			middleware: lf.middleware,
			pattern:    full,
			derived:    true,
		}
		if err := r.tree(http.MethodHead).add(full, derived); err != nil {
			return err
		}
	}
	return nil
}

// HandleFunc is Handle for an ordinary function.
func (r *Router) HandleFunc(method, pattern string, h http.HandlerFunc, mw ...Middleware) error {
	return r.Handle(method, pattern, h, mw...)
}

// Get registers a GET route (and the derived HEAD one).
func (r *Router) Get(pattern string, h http.HandlerFunc, mw ...Middleware) error {
	return r.Handle(http.MethodGet, pattern, h, mw...)
}

// Post registers a POST route.
func (r *Router) Post(pattern string, h http.HandlerFunc, mw ...Middleware) error {
	return r.Handle(http.MethodPost, pattern, h, mw...)
}

// Put registers a PUT route.
func (r *Router) Put(pattern string, h http.HandlerFunc, mw ...Middleware) error {
	return r.Handle(http.MethodPut, pattern, h, mw...)
}

// Delete registers a DELETE route.
func (r *Router) Delete(pattern string, h http.HandlerFunc, mw ...Middleware) error {
	return r.Handle(http.MethodDelete, pattern, h, mw...)
}

// Patch registers a PATCH route.
func (r *Router) Patch(pattern string, h http.HandlerFunc, mw ...Middleware) error {
	return r.Handle(http.MethodPatch, pattern, h, mw...)
}

// Head registers an explicit HEAD route, replacing a GET-derived one if any.
func (r *Router) Head(pattern string, h http.HandlerFunc, mw ...Middleware) error {
	return r.Handle(http.MethodHead, pattern, h, mw...)
}

// Options registers an OPTIONS route.
func (r *Router) Options(pattern string, h http.HandlerFunc, mw ...Middleware) error {
	return r.Handle(http.MethodOptions, pattern, h, mw...)
}

// Lookup resolves method and path to a match with parameter bindings.
// Read-only, safe for concurrent lookups.
func (r *Router) Lookup(method, path string) (*Match, bool) {
	t, ok := r.trees[strings.ToUpper(method)]
	if !ok {
		return nil, false
	}
	return t.lookup(path)
}

// NotFound returns the configured fallback handler.
func (r *Router) NotFound() http.Handler { return r.notFound }

func (r *Router) tree(method string) *tree {
	t, ok := r.trees[method]
	if !ok {
		t = &tree{}
		r.trees[method] = t
	}
	return t
}

// compose applies route middleware around the matched handler, first
// registered runs outermost.
func compose(h http.Handler, mws []func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

func toPlain(mws []Middleware) []func(http.Handler) http.Handler {
	if len(mws) == 0 {
		return nil
	}
	res := make([]func(http.Handler) http.Handler, len(mws))
	for i, mw := range mws {
		res[i] = mw
	}
	return res
}

func defaultNotFound() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("mock route not found"))
	})
}

// discardBody keeps status and headers but drops the payload, used for
// HEAD routes derived from GET registrations.
func discardBody(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.ServeHTTP(&headWriter{ResponseWriter: w}, r)
	})
}

type headWriter struct {
	http.ResponseWriter
}

func (w *headWriter) Write(b []byte) (int, error) {
	return len(b), nil
}
