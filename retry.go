package gio

import (
	"context"
	"errors"
	"time"

	"github.com/go-pkgz/repeater"
)

var errRetryAbort = errors.New("retry aborted")

// Retry makes an interceptor re-running the remaining pipeline on failure, up
// to repeats attempts with a fixed delay between them. Each attempt walks a
// fresh chain with its own copy of the request. The pipeline itself has no
// retry semantics, callers add this interceptor where they want them.
//
// Hijacked responses, pipeline construction bugs and configuration errors
// abort immediately and surface unmodified.
func Retry(repeats int, delay time.Duration) Interceptor {
	return InterceptorFunc(func(ctx context.Context, ch *Chain) (*Response, error) {
		var resp *Response
		var last error

		err := repeater.NewDefault(repeats, delay).Do(ctx, func() error {
			req := ch.Request().Clone()
			resp, last = ch.Fresh(req).Proceed(ctx, req)
			if last == nil {
				return nil
			}
			if !retriable(last) {
				return errRetryAbort
			}
			return last
		}, errRetryAbort)

		if err != nil {
			if errors.Is(err, errRetryAbort) {
				return nil, last
			}
			return nil, err
		}
		return resp, nil
	})
}

func retriable(err error) bool {
	if errors.Is(err, ErrHijacked) || errors.Is(err, ErrPipelineExhausted) {
		return false
	}
	var ce *ConfigError
	return !errors.As(err, &ce)
}
