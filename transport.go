package gio

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
)

// Transport performs the actual network I/O for a finalized request. The
// terminal stage is its only caller. Close releases pooled resources; it is
// paired with the owning client's Close.
type Transport interface {
	Send(ctx context.Context, req *Request) (*Response, error)
	Close() error
}

// Dispatcher resolves a request without network I/O. When a client carries a
// dispatcher, the terminal stage routes into it instead of the transport; the
// mock package provides the routing-engine implementation.
type Dispatcher interface {
	Dispatch(ctx context.Context, req *Request) (*Response, error)
}

// httpTransport adapts net/http as the default Transport. Protocol concerns
// (TLS, redirects, pooling) stay inside the wrapped client.
type httpTransport struct {
	client *http.Client
}

// NewHTTPTransport wraps an http.Client as a Transport. A nil client uses
// http.DefaultClient.
func NewHTTPTransport(client *http.Client) Transport {
	if client == nil {
		client = http.DefaultClient
	}
	return &httpTransport{client: client}
}

func (t *httpTransport) Send(ctx context.Context, req *Request) (*Response, error) {
	var body io.Reader
	switch {
	case len(req.Form) > 0:
		body = strings.NewReader(req.Form.Encode())
	case req.Body != nil:
		body = bytes.NewReader(req.Body)
	}

	hreq, err := http.NewRequestWithContext(ctx, req.Method, req.URL.String(), body)
	if err != nil {
		return nil, ConfigErrorf("can't build request %s %s: %v", req.Method, req.URL, err)
	}
	for k, vv := range req.Header {
		hreq.Header[k] = vv
	}
	if len(req.Form) > 0 && hreq.Header.Get("Content-Type") == "" {
		hreq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	hresp, err := t.client.Do(hreq)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	// body kept streamed, the caller owns the close
	return &Response{
		StatusCode: hresp.StatusCode,
		Header:     hresp.Header,
		Body:       hresp.Body,
		Request:    req,
	}, nil
}

func (t *httpTransport) Close() error {
	t.client.CloseIdleConnections()
	return nil
}
