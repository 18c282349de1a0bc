// File: engine/acceptor.go
// Package engine implements the acceptor loop.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// The acceptor only accepts: it never touches a poller or a session
// buffer. Each accepted transport becomes a session, the balancer picks a
// loop, and the session goes through that loop's handoff channel. A
// connection accepted just before shutdown is still offered before the
// loop exits, because the offer happens before the next blocking accept.

package engine

import (
	"errors"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/momentics/hioload-reactor/api"
	"github.com/momentics/hioload-reactor/control"
	"github.com/momentics/hioload-reactor/internal/session"
	"github.com/momentics/hioload-reactor/pool"
	"github.com/momentics/hioload-reactor/transport"
)

type acceptor struct {
	ln       transport.Listener
	workers  []*worker
	balancer Balancer
	factory  api.HandlerFactory
	bufPool  *pool.BufferPool
	cfg      *Config
	log      *zap.Logger
	stats    *control.Stats

	nextID atomic.Uint64
}

// run accepts until the listener closes. Accept failures on a live
// listener are logged and skipped; they never stop the loop.
func (a *acceptor) run(ready chan<- struct{}) error {
	close(ready)
	for {
		tr, err := a.ln.Accept()
		if err != nil {
			if errors.Is(err, transport.ErrListenerClosed) {
				return nil
			}
			a.stats.IncAcceptErrors()
			a.log.Warn("accept failed", zap.Error(&api.AcceptError{Err: err}))
			continue
		}

		if err := a.place(tr); err != nil {
			continue
		}
	}
}

// place wraps a transport in a session and offers it to the loop the
// balancer picks. On rejection the session (and its transport) is closed
// and ErrHandoffRejected returned; the rejection is also counted.
func (a *acceptor) place(tr api.Transport) error {
	s := session.New(a.nextID.Add(1), tr, a.factory(), a.bufPool, a.cfg.IOBufferSize, a.stats)
	w := a.balancer.Pick(a.workers)
	if !w.Offer(s) {
		// Loop already stopped: the offer contract makes us the owner.
		a.stats.IncHandoffRejected()
		_ = s.Close()
		return api.ErrHandoffRejected
	}
	a.stats.IncAccepts()
	return nil
}

// stop closes the listening transport, unblocking a pending accept.
func (a *acceptor) stop() error {
	return a.ln.Close()
}
