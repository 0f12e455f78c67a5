package mock

import (
	"bytes"
	"net/http"
)

// recorder is an in-memory http.ResponseWriter capturing status, headers and
// body of a dispatched mock handler.
type recorder struct {
	header  http.Header
	body    bytes.Buffer
	code    int
	written bool
}

var _ http.ResponseWriter = (*recorder)(nil)

func newRecorder() *recorder {
	return &recorder{header: http.Header{}}
}

func (r *recorder) Header() http.Header { return r.header }

func (r *recorder) WriteHeader(code int) {
	if r.written {
		return
	}
	r.code = code
	r.written = true
}

func (r *recorder) Write(b []byte) (int, error) {
	if !r.written {
		r.WriteHeader(http.StatusOK)
	}
	return r.body.Write(b)
}

// status returns the recorded code, 200 if the handler never wrote one.
func (r *recorder) status() int {
	if r.code == 0 {
		return http.StatusOK
	}
	return r.code
}
