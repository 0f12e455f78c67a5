package gio

import (
	"context"
	"fmt"
)

// Interceptor is a single request/response transforming unit. It may inspect
// or replace the request before calling Proceed, transform the response after
// Proceed returns, short-circuit by returning a response without proceeding,
// or abort by returning an error. The pipeline itself never retries; an
// interceptor wanting retries must Proceed on fresh chains, see Retry.
type Interceptor interface {
	Intercept(ctx context.Context, ch *Chain) (*Response, error)
}

// InterceptorFunc is an adapter to allow ordinary functions as interceptors.
type InterceptorFunc func(ctx context.Context, ch *Chain) (*Response, error)

// Intercept calls f(ctx, ch)
func (f InterceptorFunc) Intercept(ctx context.Context, ch *Chain) (*Response, error) {
	return f(ctx, ch)
}

// Chain is the live cursor over one call's ordered interceptor list plus the
// current request. A chain instance is consumed by at most one Proceed call;
// each interceptor receives a child chain wrapping the remaining sequence.
type Chain struct {
	req          *Request
	interceptors []Interceptor
	pos          int
	consumed     bool
}

func newChain(interceptors []Interceptor, req *Request) *Chain {
	return &Chain{req: req, interceptors: interceptors}
}

// Request returns the current request as seen at this position of the chain.
func (c *Chain) Request() *Request { return c.req }

// Proceed hands the given request to the next interceptor and returns its
// outcome. Walking past the terminal stage means the pipeline was assembled
// without one and fails with ErrPipelineExhausted.
func (c *Chain) Proceed(ctx context.Context, req *Request) (*Response, error) {
	if c.consumed {
		return nil, fmt.Errorf("chain reused at position %d: %w", c.pos, ErrPipelineExhausted)
	}
	c.consumed = true
	if c.pos >= len(c.interceptors) {
		return nil, fmt.Errorf("no terminal stage after position %d: %w", c.pos, ErrPipelineExhausted)
	}
	next := &Chain{req: req, interceptors: c.interceptors, pos: c.pos + 1}
	return c.interceptors[c.pos].Intercept(ctx, next)
}

// Fresh returns an unconsumed copy of the chain at the same position, seeded
// with req. This is the hook for retrying interceptors: every attempt walks
// the remaining sequence on its own cursor.
func (c *Chain) Fresh(req *Request) *Chain {
	return &Chain{req: req, interceptors: c.interceptors, pos: c.pos}
}
