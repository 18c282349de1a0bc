// File: internal/session/session.go
// Package session
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// A session belongs to exactly one worker loop for its whole life. Every
// method except Close assumes it runs on that loop's goroutine; Close is
// idempotent and may additionally be called by the acceptor when a handoff
// is rejected, before the session was ever shared.

package session

import (
	"errors"
	"io"
	"sync"

	"github.com/momentics/hioload-reactor/api"
	"github.com/momentics/hioload-reactor/control"
	"github.com/momentics/hioload-reactor/pool"
)

// State is the connection state machine position.
type State int32

const (
	// StateReading is the default after accept: waiting for inbound bytes.
	StateReading State = iota
	// StateWriting holds while a response is queued but not fully flushed.
	StateWriting
	// StateClosing is terminal; the owning loop releases the transport.
	StateClosing
)

// readChunk is the minimum write region requested per read call.
const readChunk = 4096

// Session is the per-connection state machine.
type Session struct {
	id      uint64
	tr      api.Transport
	handler api.Handler

	bufPool *pool.BufferPool
	bufSize int
	stats   *control.Stats

	in  *pool.Buffer // inbound: filled by reads, consumed by the handler
	out *pool.Buffer // outbound: filled by SubmitResponse, drained by writes

	state    State
	attached bool

	closeOnce sync.Once
	closeErr  error
}

// New creates a session around an accepted transport. Buffers are not
// allocated until Attach, which the owning loop calls at registration.
func New(id uint64, tr api.Transport, h api.Handler, bp *pool.BufferPool, bufSize int, stats *control.Stats) *Session {
	return &Session{
		id:      id,
		tr:      tr,
		handler: h,
		bufPool: bp,
		bufSize: bufSize,
		stats:   stats,
	}
}

func (s *Session) ID() uint64 { return s.id }

func (s *Session) Fd() int { return s.tr.Fd() }

func (s *Session) State() State { return s.state }

// Attach lazily allocates the session buffers. Owning loop only, once,
// at registration time.
func (s *Session) Attach() {
	if s.attached {
		return
	}
	s.attached = true
	s.in = s.bufPool.Get(s.bufSize)
	s.out = s.bufPool.Get(s.bufSize)
	s.stats.IncSessionsOpened()
}

// OnReadable moves available bytes from the transport into the inbound
// buffer, then runs the protocol handler over the unread region (the flip
// step) and compacts whatever the handler left unconsumed. Peer EOF
// transitions to StateClosing and is not an error; transport failures
// transition to StateClosing and are returned.
func (s *Session) OnReadable() error {
	if s.state == StateClosing {
		return nil
	}

	n, err := s.tr.Read(s.in.Writable(readChunk))
	switch {
	case errors.Is(err, api.ErrWouldBlock):
		return nil
	case errors.Is(err, io.EOF):
		s.state = StateClosing
		return nil
	case err != nil:
		s.state = StateClosing
		return err
	}
	s.in.AdvanceWrite(n)
	s.stats.AddBytesIn(n)

	s.dispatchInbound()
	s.in.Compact()
	return nil
}

// dispatchInbound feeds unread bytes to the handler until it stops
// consuming. consumed == 0 means a partial message: the bytes stay in the
// buffer and survive the compact step for the next read.
func (s *Session) dispatchInbound() {
	for {
		data := s.in.Readable()
		if len(data) == 0 {
			return
		}
		out, consumed := s.handler.Handle(data)
		if len(out) > 0 {
			s.SubmitResponse(out)
		}
		if consumed <= 0 {
			return
		}
		s.in.AdvanceRead(consumed)
	}
}

// OnWritable writes as much of the outbound buffer as the transport
// accepts. A short or refused write leaves StateWriting in place so the
// loop keeps asking for write readiness; this is the engine's only
// backpressure mechanism and never an error. A full drain reverts to
// StateReading.
func (s *Session) OnWritable() error {
	if s.state == StateClosing {
		return nil
	}

	for s.out.Len() > 0 {
		data := s.out.Readable()
		n, err := s.tr.Write(data)
		if errors.Is(err, api.ErrWouldBlock) {
			return nil
		}
		if err != nil {
			s.state = StateClosing
			return err
		}
		s.out.AdvanceRead(n)
		s.stats.AddBytesOut(n)
		if n < len(data) {
			s.stats.IncPartialWrites()
			return nil
		}
	}

	s.state = StateReading
	return nil
}

// SubmitResponse queues bytes for transmission and requests write
// interest. Idempotent when already writing. Owning loop only; off-loop
// producers must dispatch onto the loop first.
func (s *Session) SubmitResponse(p []byte) {
	if s.state == StateClosing || len(p) == 0 {
		return
	}
	s.out.Append(p)
	if s.state == StateReading {
		s.state = StateWriting
	}
}

// HasPending reports whether outbound bytes await transmission. The
// owning loop uses it to compute the poller interest set.
func (s *Session) HasPending() bool {
	return s.out != nil && s.out.Len() > 0
}

// Abort marks the session closing without touching the transport. This
// is the off-loop termination path: dispatch Abort onto the owning loop,
// which reaps the session after the task batch runs, without waiting for
// fd traffic the connection may never produce.
func (s *Session) Abort() {
	s.state = StateClosing
}

// Close releases buffers and the transport. Idempotent.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.state = StateClosing
		if s.attached {
			s.bufPool.Put(s.in)
			s.bufPool.Put(s.out)
			s.in = nil
			s.out = nil
			s.stats.IncSessionsClosed()
		}
		s.closeErr = s.tr.Close()
	})
	return s.closeErr
}
