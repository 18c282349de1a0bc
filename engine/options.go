// File: engine/options.go
// Package engine defines functional options for engine construction.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package engine

import (
	"go.uber.org/zap"

	"github.com/momentics/hioload-reactor/pool"
	"github.com/momentics/hioload-reactor/reactor"
	"github.com/momentics/hioload-reactor/transport"
)

// Option customizes engine construction.
type Option func(*Engine)

// WithLogger installs a structured logger. Default is a nop logger.
func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithBalancer overrides the worker selection policy. Default is
// LeastConnections.
func WithBalancer(b Balancer) Option {
	return func(e *Engine) {
		if b != nil {
			e.balancer = b
		}
	}
}

// WithBufferPool shares a buffer pool across engines.
func WithBufferPool(p *pool.BufferPool) Option {
	return func(e *Engine) {
		if p != nil {
			e.bufPool = p
		}
	}
}

// withPollerFactory swaps the readiness poller implementation. Used by
// tests to run loop logic on fake pollers.
func withPollerFactory(f func() (reactor.Poller, error)) Option {
	return func(e *Engine) { e.newPoller = f }
}

// withListener swaps the listener constructor. Used by tests.
func withListener(f func(addr string) (transport.Listener, error)) Option {
	return func(e *Engine) { e.listen = f }
}
