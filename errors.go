package gio

import (
	"errors"
	"fmt"
)

var (
	// ErrPipelineExhausted indicates a chain walked past its terminal stage.
	// This is a construction bug, not a network failure, and is never retried.
	ErrPipelineExhausted = errors.New("interceptor pipeline exhausted")

	// ErrNoConnectivity returned by the connectivity gate when the injected
	// check reports the network as unreachable.
	ErrNoConnectivity = errors.New("network not reachable")

	// ErrHijacked marks a response stream already taken over by a lower layer.
	// Interceptors transforming errors must pass it through unmodified.
	ErrHijacked = errors.New("response hijacked")
)

// ConfigError reports invalid registration, i.e. a conflicting route pattern
// or an empty path. Always surfaces at registration time, never at dispatch.
type ConfigError struct {
	msg string
}

func (e *ConfigError) Error() string { return "config: " + e.msg }

// ConfigErrorf makes ConfigError with formatted message
func ConfigErrorf(format string, args ...interface{}) error {
	return &ConfigError{msg: fmt.Sprintf(format, args...)}
}

// TransportError wraps a failure reported by the Transport collaborator.
// It propagates through every interceptor's unwind path.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return "transport: " + e.Err.Error() }

func (e *TransportError) Unwrap() error { return e.Err }
