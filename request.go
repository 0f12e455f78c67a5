package gio

import (
	"net/http"
	"net/url"
	"strings"
)

// Request is a single outgoing call. Method and URL are fixed once the call
// is in flight; headers and body may be replaced by interceptors. The values
// map carries derived data (matched path parameters and the like) to
// downstream stages without changing the request's shape.
type Request struct {
	Method string
	URL    *url.URL
	Header http.Header
	Body   []byte
	Form   url.Values

	values map[string]interface{}
}

// NewRequest makes a request for the given method and raw url.
func NewRequest(method, rawURL string) (*Request, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, ConfigErrorf("invalid url %q: %v", rawURL, err)
	}
	return &Request{Method: strings.ToUpper(method), URL: u, Header: http.Header{}}, nil
}

// SetValue stores a derived value on the request context map.
func (r *Request) SetValue(key string, v interface{}) {
	if r.values == nil {
		r.values = map[string]interface{}{}
	}
	r.values[key] = v
}

// Value retrieves a derived value, nil if not set.
func (r *Request) Value(key string) interface{} {
	if r.values == nil {
		return nil
	}
	return r.values[key]
}

// Clone makes a copy with its own header map and values map. The body slice
// is shared; interceptors replacing the body should assign a new slice.
func (r *Request) Clone() *Request {
	res := &Request{Method: r.Method, Body: r.Body}
	if r.URL != nil {
		u := *r.URL
		res.URL = &u
	}
	res.Header = r.Header.Clone()
	if res.Header == nil {
		res.Header = http.Header{}
	}
	if r.Form != nil {
		res.Form = url.Values{}
		for k, vv := range r.Form {
			res.Form[k] = append([]string(nil), vv...)
		}
	}
	if r.values != nil {
		res.values = make(map[string]interface{}, len(r.values))
		for k, v := range r.values {
			res.values[k] = v
		}
	}
	return res
}

// Path returns the URL path, "/" for empty.
func (r *Request) Path() string {
	if r.URL == nil || r.URL.Path == "" {
		return "/"
	}
	return r.URL.Path
}
