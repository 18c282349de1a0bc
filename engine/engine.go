// File: engine/engine.go
// Package engine implements the lifecycle controller.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package engine

import (
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/momentics/hioload-reactor/api"
	"github.com/momentics/hioload-reactor/control"
	"github.com/momentics/hioload-reactor/pool"
	"github.com/momentics/hioload-reactor/reactor"
	"github.com/momentics/hioload-reactor/transport"
)

// State is the engine lifecycle position.
type State int32

const (
	StateNotStarted State = iota
	StateRunning
	StateStopping
	StateStopped
)

// Engine owns one acceptor loop and N worker loops.
type Engine struct {
	cfg     *Config
	factory api.HandlerFactory

	log      *zap.Logger
	stats    *control.Stats
	bufPool  *pool.BufferPool
	balancer Balancer

	// injection points; production defaults are reactor.NewPoller and
	// transport.Listen.
	newPoller func() (reactor.Poller, error)
	listen    func(addr string) (transport.Listener, error)

	workers  []*worker
	acceptor *acceptor
	group    *errgroup.Group

	state        atomic.Int32
	shutdownOnce sync.Once
	shutdownErr  error
}

var _ api.Shutdowner = (*Engine)(nil)

// New builds an engine; nothing runs until Start.
func New(cfg *Config, factory api.HandlerFactory, opts ...Option) (*Engine, error) {
	if factory == nil {
		return nil, fmt.Errorf("%w: nil handler factory", api.ErrEngineState)
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	e := &Engine{
		cfg:       cfg.withDefaults(),
		factory:   factory,
		log:       zap.NewNop(),
		stats:     control.NewStats(),
		bufPool:   pool.NewBufferPool(),
		balancer:  LeastConnections{},
		newPoller: reactor.NewPoller,
		listen:    transport.Listen,
	}
	for _, o := range opts {
		o(e)
	}
	return e, nil
}

// Start binds the listener, spawns the worker and acceptor loops, and
// blocks until every loop reports ready. On any failure it tears down
// whatever was already created and returns a StartupError; no partial
// engine is left running.
func (e *Engine) Start() error {
	if !e.state.CompareAndSwap(int32(StateNotStarted), int32(StateRunning)) {
		return api.ErrEngineState
	}

	ln, err := e.listen(e.cfg.ListenAddr)
	if err != nil {
		e.state.Store(int32(StateStopped))
		return &api.StartupError{Stage: "listen", Err: err}
	}

	workers := make([]*worker, e.cfg.Workers)
	for i := range workers {
		p, err := e.newPoller()
		if err != nil {
			for _, w := range workers[:i] {
				_ = w.poller.Close()
			}
			_ = ln.Close()
			e.state.Store(int32(StateStopped))
			return &api.StartupError{Stage: "poller", Err: err}
		}
		workers[i] = newWorker(i, p, e.cfg, e.log, e.stats)
	}

	e.workers = workers
	e.acceptor = &acceptor{
		ln:       ln,
		workers:  workers,
		balancer: e.balancer,
		factory:  e.factory,
		bufPool:  e.bufPool,
		cfg:      e.cfg,
		log:      e.log,
		stats:    e.stats,
	}

	e.group = new(errgroup.Group)
	ready := make([]chan struct{}, len(workers)+1)
	for i := range ready {
		ready[i] = make(chan struct{})
	}
	for i, w := range workers {
		w, ch := w, ready[i]
		e.group.Go(func() error { return w.run(ch) })
	}
	acceptReady := ready[len(workers)]
	e.group.Go(func() error { return e.acceptor.run(acceptReady) })

	for _, ch := range ready {
		<-ch
	}

	e.log.Info("engine started",
		zap.String("addr", ln.Addr().String()),
		zap.Int("workers", len(workers)))
	return nil
}

// Shutdown stops the acceptor, flips every loop's running flag, wakes
// blocked loops, joins all loop goroutines and closes the listener.
// Idempotent and safe from any goroutine; drain bounds the join.
func (e *Engine) Shutdown(drain time.Duration) error {
	if e.state.CompareAndSwap(int32(StateNotStarted), int32(StateStopped)) {
		return nil
	}
	e.shutdownOnce.Do(func() {
		if e.acceptor == nil {
			// Start failed before any loop was spawned; nothing to join.
			e.state.Store(int32(StateStopped))
			return
		}
		e.state.Store(int32(StateStopping))
		e.log.Info("engine stopping")

		err := e.acceptor.stop()
		for _, w := range e.workers {
			w.stop()
		}

		done := make(chan struct{})
		go func() {
			_ = e.group.Wait()
			close(done)
		}()
		if drain <= 0 {
			<-done
		} else {
			select {
			case <-done:
			case <-time.After(drain):
				err = multierr.Append(err,
					fmt.Errorf("drain timeout after %v: loops still running", drain))
			}
		}

		e.state.Store(int32(StateStopped))
		e.shutdownErr = err
		e.log.Info("engine stopped", zap.Error(err))
	})
	return e.shutdownErr
}

// Submit routes an externally accepted transport into a worker loop,
// exactly as the acceptor does for its own connections. It returns
// ErrEngineState unless the engine is running, and ErrHandoffRejected
// when the chosen loop has already stopped; a rejected transport is
// closed before Submit returns.
func (e *Engine) Submit(tr api.Transport) error {
	if e.State() != StateRunning {
		return api.ErrEngineState
	}
	return e.acceptor.place(tr)
}

// State returns the lifecycle state.
func (e *Engine) State() State {
	return State(e.state.Load())
}

// Addr returns the bound listen address, or nil before Start.
func (e *Engine) Addr() net.Addr {
	if e.acceptor == nil {
		return nil
	}
	return e.acceptor.ln.Addr()
}

// Stats exposes the engine counters.
func (e *Engine) Stats() *control.Stats {
	return e.stats
}

// Loads returns the current session count per worker loop.
func (e *Engine) Loads() []int64 {
	out := make([]int64, len(e.workers))
	for i, w := range e.workers {
		out[i] = w.Load()
	}
	return out
}

// Collector returns a Prometheus collector over the engine counters and
// per-loop session gauges. The caller registers it.
func (e *Engine) Collector() *control.Collector {
	return control.NewCollector(e.stats, e.Loads)
}
