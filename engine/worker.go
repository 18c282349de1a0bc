// File: engine/worker.go
// Package engine implements the worker event loop.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// A worker owns its poller, its fd→session map and its sessions' buffers
// exclusively. Registration and deregistration happen only on the worker
// goroutine; every cross-goroutine request arrives through the handoff
// channels and is applied at the top of the next iteration. A direct
// cross-goroutine Add against the poller while the loop is blocked in
// Wait is the defect class this structure exists to rule out.

package engine

import (
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/momentics/hioload-reactor/control"
	"github.com/momentics/hioload-reactor/internal/concurrency"
	"github.com/momentics/hioload-reactor/internal/session"
	"github.com/momentics/hioload-reactor/reactor"
)

type worker struct {
	idx    int
	poller reactor.Poller
	cfg    *Config
	log    *zap.Logger
	stats  *control.Stats

	// handoff carries newly accepted sessions in; tasks carries closures
	// other goroutines need executed with loop affinity.
	handoff *concurrency.Handoff[*session.Session]
	tasks   *concurrency.Handoff[func()]

	// loop-goroutine state
	sessions map[int]*session.Session
	interest map[int]reactor.EventType
	events   []reactor.Event
	pending  []*session.Session
	taskBuf  []func()

	// nconns is written only by the loop goroutine, read by the balancer
	// from the acceptor goroutine.
	nconns  atomic.Int64
	running atomic.Bool
}

func newWorker(idx int, p reactor.Poller, cfg *Config, log *zap.Logger, stats *control.Stats) *worker {
	w := &worker{
		idx:      idx,
		poller:   p,
		cfg:      cfg,
		log:      log,
		stats:    stats,
		sessions: make(map[int]*session.Session),
		interest: make(map[int]reactor.EventType),
		events:   make([]reactor.Event, cfg.MaxEvents),
	}
	wake := func() { _ = p.Wake() }
	w.handoff = concurrency.NewHandoff[*session.Session](wake)
	w.tasks = concurrency.NewHandoff[func()](wake)
	w.running.Store(true)
	return w
}

// Offer hands a session to this loop. Safe from any goroutine. Returns
// false once the loop has stopped; the caller must close the session.
func (w *worker) Offer(s *session.Session) bool {
	return w.handoff.Offer(s)
}

// Dispatch schedules fn to run on the loop goroutine. This is how results
// of off-loop work get back to a session without breaking loop affinity.
func (w *worker) Dispatch(fn func()) bool {
	return w.tasks.Offer(fn)
}

// Load returns the number of sessions owned by this loop, including
// sessions still queued in the handoff. Counting the queue keeps the
// balancer accurate during accept bursts, when connections pile up
// faster than the loops register them.
func (w *worker) Load() int64 {
	return w.nconns.Load() + int64(w.handoff.Len())
}

// stop flags the loop down and wakes it so the flag is observed promptly.
func (w *worker) stop() {
	w.running.Store(false)
	_ = w.poller.Wake()
}

// run is the loop body: drain handoffs, wait for readiness, dispatch.
// ready is closed once the loop is live.
func (w *worker) run(ready chan<- struct{}) error {
	close(ready)
	timeoutMs := int(w.cfg.PollTimeout / time.Millisecond)

	for w.running.Load() {
		w.drainHandoff()
		w.runTasks()

		// Poll without blocking while handoffs are pending so a freshly
		// arrived connection is never delayed past one iteration.
		timeout := timeoutMs
		if w.handoff.Len() > 0 || w.tasks.Len() > 0 {
			timeout = 0
		}
		n, err := w.poller.Wait(w.events, timeout)
		if err != nil {
			if w.running.Load() {
				w.log.Warn("poll wait failed", zap.Int("loop", w.idx), zap.Error(err))
			}
			continue
		}
		w.dispatch(n)
	}

	w.teardown()
	return nil
}

// drainHandoff registers every pending session with this loop's poller
// for read interest.
func (w *worker) drainHandoff() {
	w.pending = w.handoff.Drain(w.pending[:0])
	for _, s := range w.pending {
		fd := s.Fd()
		if err := w.poller.Add(fd, reactor.EventRead); err != nil {
			w.log.Warn("register session failed",
				zap.Int("loop", w.idx), zap.Uint64("session", s.ID()), zap.Error(err))
			s.Close()
			continue
		}
		s.Attach()
		w.sessions[fd] = s
		w.interest[fd] = reactor.EventRead
		w.nconns.Add(1)
	}
}

func (w *worker) runTasks() {
	w.taskBuf = w.tasks.Drain(w.taskBuf[:0])
	for _, fn := range w.taskBuf {
		fn()
	}
	if len(w.taskBuf) == 0 {
		return
	}
	// A dispatched task may have aborted a session; reap here, since an
	// aborted connection may never produce the fd event that would
	// otherwise trigger the close.
	for _, s := range w.sessions {
		if s.State() == session.StateClosing {
			w.closeSession(s)
		}
	}
}

func (w *worker) dispatch(n int) {
	for i := 0; i < n; i++ {
		ev := w.events[i]
		s, ok := w.sessions[ev.Fd]
		if !ok {
			continue
		}
		if ev.Events&reactor.EventError != 0 {
			w.closeSession(s)
			continue
		}
		if ev.Events&reactor.EventRead != 0 {
			if err := s.OnReadable(); err != nil {
				w.log.Debug("session read failed",
					zap.Int("loop", w.idx), zap.Uint64("session", s.ID()), zap.Error(err))
			}
		}
		if ev.Events&reactor.EventWrite != 0 && s.State() != session.StateClosing {
			if err := s.OnWritable(); err != nil {
				w.log.Debug("session write failed",
					zap.Int("loop", w.idx), zap.Uint64("session", s.ID()), zap.Error(err))
			}
		}
		if s.State() == session.StateClosing {
			w.closeSession(s)
			continue
		}
		w.syncInterest(s)
	}
}

// syncInterest reconciles the poller interest set with the session's
// pending output: read-only when drained, read+write while bytes wait.
func (w *worker) syncInterest(s *session.Session) {
	fd := s.Fd()
	desired := reactor.EventRead
	if s.HasPending() {
		desired |= reactor.EventWrite
	}
	if w.interest[fd] == desired {
		return
	}
	if err := w.poller.Modify(fd, desired); err != nil {
		w.log.Warn("modify interest failed",
			zap.Int("loop", w.idx), zap.Uint64("session", s.ID()), zap.Error(err))
		w.closeSession(s)
		return
	}
	w.interest[fd] = desired
}

func (w *worker) closeSession(s *session.Session) {
	fd := s.Fd()
	if _, ok := w.sessions[fd]; ok {
		delete(w.sessions, fd)
		delete(w.interest, fd)
		_ = w.poller.Remove(fd)
		w.nconns.Add(-1)
	}
	_ = s.Close()
}

// teardown releases everything the loop owns: queued-but-unregistered
// sessions, live sessions, and the poller itself.
func (w *worker) teardown() {
	for _, s := range w.handoff.Close() {
		_ = s.Close()
	}
	w.tasks.Close()
	for fd, s := range w.sessions {
		delete(w.sessions, fd)
		delete(w.interest, fd)
		w.nconns.Add(-1)
		_ = s.Close()
	}
	if err := w.poller.Close(); err != nil {
		w.log.Warn("poller close failed", zap.Int("loop", w.idx), zap.Error(err))
	}
}
