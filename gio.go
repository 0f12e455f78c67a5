// Package gio is an HTTP client augmentation layer: an ordered interceptor
// pipeline around every outgoing call, plus a pluggable mock dispatcher
// serving registered routes without network I/O (see the mock package).
//
// A call walks four tiers of interceptors, local first:
//
//	local -> group -> global -> default (logger, connectivity gate, terminal)
//
// The terminal stage performs the real or mocked I/O; the response unwinds
// back through every interceptor in reverse order.
package gio

import (
	"context"
	"net/http"
	"net/url"
	"sync"

	"github.com/go-pkgz/lgr"
)

// Client issues requests through the interceptor pipeline. Concurrent calls
// on one client each get their own chain and tier snapshots. Local
// interceptors belong to this instance only.
type Client struct {
	transport  Transport
	dispatcher Dispatcher
	registry   *Registry
	group      string
	codec      Codec
	baseURL    string
	header     http.Header

	defaults []Interceptor // fixed tail, assembled once at creation

	local []Interceptor
	lock  sync.Mutex
}

// Option configures a client at creation time.
type Option func(c *Client, s *settings)

type settings struct {
	logger       lgr.L
	logging      bool
	bodyPreview  int
	connectivity ConnectivityCheck
}

// WithTransport sets the Transport collaborator. Default is a net/http
// adapter over http.DefaultClient.
func WithTransport(t Transport) Option {
	return func(c *Client, _ *settings) { c.transport = t }
}

// WithDispatcher routes the terminal stage into the given dispatcher instead
// of the transport. Intended for the mock routing engine.
func WithDispatcher(d Dispatcher) Option {
	return func(c *Client, _ *settings) { c.dispatcher = d }
}

// WithRegistry attaches an isolated tier registry instead of the process-wide
// default one.
func WithRegistry(r *Registry) Option {
	return func(c *Client, _ *settings) { c.registry = r }
}

// WithGroup binds the client to a named interceptor group. The group list is
// looked up in the registry at call time.
func WithGroup(name string) Option {
	return func(c *Client, _ *settings) { c.group = name }
}

// WithBaseURL prepends base to relative request urls.
func WithBaseURL(base string) Option {
	return func(c *Client, _ *settings) { c.baseURL = base }
}

// WithHeader sets a default header added to every request unless already set.
func WithHeader(key, value string) Option {
	return func(c *Client, _ *settings) { c.header.Set(key, value) }
}

// WithCodec replaces the body codec, JSONCodec by default.
func WithCodec(codec Codec) Option {
	return func(c *Client, _ *settings) { c.codec = codec }
}

// WithLogging enables the diagnostic logger stage writing to l. Body preview
// is bounded, large and streamed bodies are never fully buffered.
func WithLogging(l lgr.L) Option {
	return func(_ *Client, s *settings) {
		s.logging = true
		if l != nil {
			s.logger = l
		}
	}
}

// WithBodyPreview bounds how many body bytes the logger stage shows.
func WithBodyPreview(n int) Option {
	return func(_ *Client, s *settings) { s.bodyPreview = n }
}

// WithConnectivityCheck installs the predicate asked by the connectivity gate
// before every call.
func WithConnectivityCheck(check ConnectivityCheck) Option {
	return func(_ *Client, s *settings) { s.connectivity = check }
}

// New makes a client. The default tier is fixed here: optional logger, then
// the connectivity gate, then the terminal call stage.
func New(opts ...Option) *Client {
	c := &Client{
		registry: DefaultRegistry(),
		codec:    JSONCodec{},
		header:   http.Header{},
	}
	s := &settings{logger: lgr.Default(), bodyPreview: 512}
	for _, opt := range opts {
		opt(c, s)
	}
	if c.transport == nil {
		c.transport = NewHTTPTransport(nil)
	}

	if s.logging {
		c.defaults = append(c.defaults, &loggerStage{logger: s.logger, maxPreview: s.bodyPreview})
	}
	c.defaults = append(c.defaults,
		&connectivityGate{check: s.connectivity},
		&terminalStage{transport: c.transport, dispatcher: c.dispatcher},
	)
	return c
}

// AddInterceptor appends to the client's local tier. Not safe to call
// concurrently with an in-flight call that has not yet snapshotted the list;
// the last snapshot wins.
func (c *Client) AddInterceptor(interceptors ...Interceptor) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.local = append(c.local, interceptors...)
}

// RemoveInterceptor drops the first matching interceptor from the local tier.
func (c *Client) RemoveInterceptor(interceptor Interceptor) {
	c.lock.Lock()
	defer c.lock.Unlock()
	for i, ic := range c.local {
		if sameInterceptor(ic, interceptor) {
			c.local = append(c.local[:i:i], c.local[i+1:]...)
			return
		}
	}
}

// pipeline assembles the per-call ordered list, local ++ group ++ global ++
// default. Every tier is copied at this point; concurrent mutation of the
// shared tiers never alters an in-flight call's ordering.
func (c *Client) pipeline() []Interceptor {
	c.lock.Lock()
	local := icopy(c.local)
	c.lock.Unlock()

	var group []Interceptor
	if c.group != "" {
		group = c.registry.groupSnapshot(c.group)
	}
	global := c.registry.Global()

	res := make([]Interceptor, 0, len(local)+len(group)+len(global)+len(c.defaults))
	res = append(res, local...)
	res = append(res, group...)
	res = append(res, global...)
	res = append(res, c.defaults...)
	return res
}

// Do sends the request through the pipeline and returns the final response.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	for k, vv := range c.header {
		if req.Header.Get(k) == "" {
			req.Header[k] = vv
		}
	}
	ch := newChain(c.pipeline(), req)
	return ch.Proceed(ctx, req)
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, rawURL string, query ...url.Values) (*Response, error) {
	req, err := c.newRequest(http.MethodGet, rawURL, query...)
	if err != nil {
		return nil, err
	}
	return c.Do(ctx, req)
}

// Head issues a HEAD request.
func (c *Client) Head(ctx context.Context, rawURL string) (*Response, error) {
	req, err := c.newRequest(http.MethodHead, rawURL)
	if err != nil {
		return nil, err
	}
	return c.Do(ctx, req)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, rawURL string) (*Response, error) {
	req, err := c.newRequest(http.MethodDelete, rawURL)
	if err != nil {
		return nil, err
	}
	return c.Do(ctx, req)
}

// Post issues a POST with the body encoded by the client's codec.
func (c *Client) Post(ctx context.Context, rawURL string, body interface{}) (*Response, error) {
	return c.send(ctx, http.MethodPost, rawURL, body)
}

// Put issues a PUT with the body encoded by the client's codec.
func (c *Client) Put(ctx context.Context, rawURL string, body interface{}) (*Response, error) {
	return c.send(ctx, http.MethodPut, rawURL, body)
}

// Patch issues a PATCH with the body encoded by the client's codec.
func (c *Client) Patch(ctx context.Context, rawURL string, body interface{}) (*Response, error) {
	return c.send(ctx, http.MethodPatch, rawURL, body)
}

// PostForm issues a POST with url-encoded form fields.
func (c *Client) PostForm(ctx context.Context, rawURL string, form url.Values) (*Response, error) {
	req, err := c.newRequest(http.MethodPost, rawURL)
	if err != nil {
		return nil, err
	}
	req.Form = form
	return c.Do(ctx, req)
}

func (c *Client) send(ctx context.Context, method, rawURL string, body interface{}) (*Response, error) {
	req, err := c.newRequest(method, rawURL)
	if err != nil {
		return nil, err
	}
	if body != nil {
		b, ct, err := c.codec.Encode(body)
		if err != nil {
			return nil, err
		}
		req.Body = b
		if req.Header.Get("Content-Type") == "" && ct != "" {
			req.Header.Set("Content-Type", ct)
		}
	}
	return c.Do(ctx, req)
}

func (c *Client) newRequest(method, rawURL string, query ...url.Values) (*Request, error) {
	req, err := NewRequest(method, c.resolveURL(rawURL))
	if err != nil {
		return nil, err
	}
	if len(query) > 0 && len(query[0]) > 0 {
		q := req.URL.Query()
		for k, vv := range query[0] {
			for _, v := range vv {
				q.Add(k, v)
			}
		}
		req.URL.RawQuery = q.Encode()
	}
	return req, nil
}

func (c *Client) resolveURL(rawURL string) string {
	if c.baseURL == "" {
		return rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.IsAbs() {
		return rawURL
	}
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return rawURL
	}
	return base.ResolveReference(u).String()
}

// Close releases the transport's pooled resources.
func (c *Client) Close() error { return c.transport.Close() }
