package gio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/go-pkgz/lgr"
)

// ConnectivityCheck reports if the network is reachable. Injected into the
// connectivity gate; the gate aborts with ErrNoConnectivity on false.
type ConnectivityCheck func(ctx context.Context) bool

// connectivityGate is the fixed default-tier stage asking the injected check
// before forwarding. It never inspects the response.
type connectivityGate struct {
	check ConnectivityCheck
}

func (g *connectivityGate) Intercept(ctx context.Context, ch *Chain) (*Response, error) {
	if g.check != nil && !g.check(ctx) {
		req := ch.Request()
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL, ErrNoConnectivity)
	}
	return ch.Proceed(ctx, ch.Request())
}

// loggerStage observes request and response for diagnostics. Bodies are
// previewed up to maxPreview bytes; the response stream is re-stitched so the
// caller still reads it from the start.
type loggerStage struct {
	logger     lgr.L
	maxPreview int
}

func (l *loggerStage) Intercept(ctx context.Context, ch *Chain) (*Response, error) {
	req := ch.Request()
	st := time.Now()
	l.logger.Logf("[DEBUG] --> %s %s%s", req.Method, req.URL, l.preview(req.Body))

	resp, err := ch.Proceed(ctx, req)
	if err != nil {
		l.logger.Logf("[WARN] <-- %s %s failed after %v, %v", req.Method, req.URL, time.Since(st), err)
		return resp, err
	}

	body, rest := peekBody(resp.Body, l.maxPreview)
	resp.Body = rest
	l.logger.Logf("[DEBUG] <-- %s %s %d in %v%s", req.Method, req.URL, resp.StatusCode, time.Since(st), l.preview(body))
	return resp, nil
}

func (l *loggerStage) preview(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	if len(body) > l.maxPreview {
		return fmt.Sprintf(" %q...", body[:l.maxPreview])
	}
	return fmt.Sprintf(" %q", body)
}

// peekBody reads up to n bytes from rc and returns them plus a reader
// replaying the peeked prefix ahead of whatever remains.
func peekBody(rc io.ReadCloser, n int) ([]byte, io.ReadCloser) {
	if rc == nil || n <= 0 {
		return nil, rc
	}
	buf := make([]byte, n)
	read, _ := io.ReadFull(rc, buf) // short read is fine, err intentionally dropped
	buf = buf[:read]
	return buf, &stitchedBody{Reader: io.MultiReader(bytes.NewReader(buf), rc), closer: rc}
}

type stitchedBody struct {
	io.Reader
	closer io.Closer
}

func (s *stitchedBody) Close() error { return s.closer.Close() }

// terminalStage is the fixed tail of every pipeline, the only stage with no
// next. Exactly one of dispatcher or transport is active per client.
type terminalStage struct {
	transport  Transport
	dispatcher Dispatcher
}

func (t *terminalStage) Intercept(ctx context.Context, ch *Chain) (*Response, error) {
	req := ch.Request()
	if t.dispatcher != nil {
		return t.dispatcher.Dispatch(ctx, req)
	}
	resp, err := t.transport.Send(ctx, req)
	if err != nil {
		if errors.Is(err, ErrHijacked) {
			return nil, err // lower layer took ownership, pass the signal as is
		}
		var te *TransportError
		if !errors.As(err, &te) {
			err = &TransportError{Err: err}
		}
		return nil, err
	}
	return resp, nil
}
