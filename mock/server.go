package mock

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/go-pkgz/lgr"

	"github.com/arcticfox1919/gio"
)

type ctxKey int

const paramsKey ctxKey = iota

// Params returns the path parameter bindings of the matched route, nil when
// the request did not go through the router.
func Params(r *http.Request) map[string]string {
	if p, ok := r.Context().Value(paramsKey).(map[string]string); ok {
		return p
	}
	return nil
}

// Param returns a single path parameter, "" if absent.
func Param(r *http.Request, name string) string {
	return Params(r)[name]
}

// Server dispatches gio requests against a Router without any network I/O,
// plugging into the pipeline's terminal stage as the client's Dispatcher. It
// also implements http.Handler, so the same route table can be served over a
// real listener.
type Server struct {
	Router *Router
	Logger lgr.L
}

// NewServer makes a dispatcher around the router. A nil logger disables the
// per-dispatch debug line.
func NewServer(router *Router, logger lgr.L) *Server {
	if logger == nil {
		logger = lgr.NoOp
	}
	return &Server{Router: router, Logger: logger}
}

// Dispatch resolves the request to a registered handler and returns its
// recorded response. An unmatched route resolves to the configured not-found
// response, never an error; params land both in the handler's context and in
// the request's value map under "params".
func (s *Server) Dispatch(ctx context.Context, req *gio.Request) (*gio.Response, error) {
	handler, params, pattern := s.resolve(req.Method, req.Path())

	var body io.Reader = bytes.NewReader(req.Body)
	if len(req.Form) > 0 {
		body = strings.NewReader(req.Form.Encode())
	}
	hreq, err := http.NewRequestWithContext(ctx, req.Method, req.URL.String(), body)
	if err != nil {
		return nil, gio.ConfigErrorf("can't build mock request %s %s: %v", req.Method, req.URL, err)
	}
	for k, vv := range req.Header {
		hreq.Header[k] = vv
	}
	if len(req.Form) > 0 {
		hreq.PostForm = req.Form
		hreq.Form = req.Form
		if hreq.Header.Get("Content-Type") == "" {
			hreq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
	}
	if params != nil {
		hreq = hreq.WithContext(context.WithValue(hreq.Context(), paramsKey, params))
		req.SetValue("params", params)
	}

	rec := newRecorder()
	handler.ServeHTTP(rec, hreq)

	s.Logger.Logf("[DEBUG] mock %s %s -> %d (%s)", req.Method, req.Path(), rec.status(), pattern)
	return gio.NewResponse(rec.status(), rec.header, rec.body.Bytes(), req), nil
}

// ServeHTTP serves the same route table over real HTTP.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	handler, params, _ := s.resolve(r.Method, r.URL.Path)
	if params != nil {
		r = r.WithContext(context.WithValue(r.Context(), paramsKey, params))
	}
	handler.ServeHTTP(w, r)
}

// resolve picks the composed handler for method+path, falling back to the
// router's not-found handler.
func (s *Server) resolve(method, path string) (h http.Handler, params map[string]string, pattern string) {
	m, ok := s.Router.Lookup(method, path)
	if !ok {
		return s.Router.NotFound(), nil, "-"
	}
	return compose(m.Handler, m.Middleware), m.Params, m.Pattern
}
