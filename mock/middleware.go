package mock

import (
	"net/http"
	"strings"
)

// Headers middleware adds headers to the dispatched request before the route
// handler runs, each element "Key:Value". Handy for simulating values a real
// gateway would inject.
func Headers(headers ...string) Middleware {
	return func(h http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			for _, hdr := range headers {
				elems := strings.Split(hdr, ":")
				if len(elems) != 2 {
					continue
				}
				r.Header.Set(strings.TrimSpace(elems[0]), strings.TrimSpace(elems[1]))
			}
			h.ServeHTTP(w, r)
		}
		return http.HandlerFunc(fn)
	}
}

// ResponseHeaders middleware sets fixed response headers on every response of
// the route, same "Key:Value" element format as Headers.
func ResponseHeaders(headers ...string) Middleware {
	return func(h http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			for _, hdr := range headers {
				elems := strings.Split(hdr, ":")
				if len(elems) != 2 {
					continue
				}
				w.Header().Set(strings.TrimSpace(elems[0]), strings.TrimSpace(elems[1]))
			}
			h.ServeHTTP(w, r)
		}
		return http.HandlerFunc(fn)
	}
}
