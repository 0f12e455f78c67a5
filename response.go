package gio

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
)

// Response is the outcome of a call. Body is the streamed variant; Bytes
// materializes it once and caches the result, so diagnostics and the caller
// can both read it. Request back-references the originating request.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       io.ReadCloser
	Request    *Request

	buf      []byte
	buffered bool
}

// NewResponse makes a fully materialized response around a byte body.
func NewResponse(status int, header http.Header, body []byte, req *Request) *Response {
	if header == nil {
		header = http.Header{}
	}
	return &Response{
		StatusCode: status,
		Header:     header,
		Body:       io.NopCloser(bytes.NewReader(body)),
		Request:    req,
		buf:        body,
		buffered:   true,
	}
}

// Bytes reads the whole body, closing the stream. Safe to call repeatedly.
func (r *Response) Bytes() ([]byte, error) {
	if r.buffered {
		return r.buf, nil
	}
	if r.Body == nil {
		r.buffered = true
		return nil, nil
	}
	defer r.Body.Close()
	b, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	r.buf, r.buffered = b, true
	return b, nil
}

// String returns the body as text.
func (r *Response) String() (string, error) {
	b, err := r.Bytes()
	return string(b), err
}

// JSON decodes the body into v.
func (r *Response) JSON(v interface{}) error {
	b, err := r.Bytes()
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

// Close releases the body stream. No-op for materialized responses.
func (r *Response) Close() error {
	if r.Body == nil || r.buffered {
		return nil
	}
	return r.Body.Close()
}

// OK is true for 2xx status codes.
func (r *Response) OK() bool { return r.StatusCode >= 200 && r.StatusCode < 300 }
