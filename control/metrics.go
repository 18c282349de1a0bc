// File: control/metrics.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Runtime counters for the engine. Hot-path increments are plain atomics;
// GetSnapshot materializes a map for logging and debug probes.

package control

import "sync/atomic"

// Stats holds the engine-wide counters. Worker loops and the acceptor
// increment them; any goroutine may read.
type Stats struct {
	accepts         atomic.Int64
	acceptErrors    atomic.Int64
	handoffRejected atomic.Int64
	sessionsOpened  atomic.Int64
	sessionsClosed  atomic.Int64
	bytesIn         atomic.Int64
	bytesOut        atomic.Int64
	partialWrites   atomic.Int64
}

// NewStats creates a zeroed counter set.
func NewStats() *Stats {
	return &Stats{}
}

func (s *Stats) IncAccepts()         { s.accepts.Add(1) }
func (s *Stats) IncAcceptErrors()    { s.acceptErrors.Add(1) }
func (s *Stats) IncHandoffRejected() { s.handoffRejected.Add(1) }
func (s *Stats) IncSessionsOpened()  { s.sessionsOpened.Add(1) }
func (s *Stats) IncSessionsClosed()  { s.sessionsClosed.Add(1) }

func (s *Stats) AddBytesIn(n int)  { s.bytesIn.Add(int64(n)) }
func (s *Stats) AddBytesOut(n int) { s.bytesOut.Add(int64(n)) }

// IncPartialWrites records a write call that transferred fewer bytes than
// offered. This is the backpressure signal, not a failure.
func (s *Stats) IncPartialWrites() { s.partialWrites.Add(1) }

func (s *Stats) Accepts() int64        { return s.accepts.Load() }
func (s *Stats) AcceptErrors() int64   { return s.acceptErrors.Load() }
func (s *Stats) SessionsOpened() int64 { return s.sessionsOpened.Load() }
func (s *Stats) SessionsClosed() int64 { return s.sessionsClosed.Load() }
func (s *Stats) BytesIn() int64        { return s.bytesIn.Load() }
func (s *Stats) BytesOut() int64       { return s.bytesOut.Load() }
func (s *Stats) PartialWrites() int64  { return s.partialWrites.Load() }

// GetSnapshot returns all counters keyed by name.
func (s *Stats) GetSnapshot() map[string]int64 {
	return map[string]int64{
		"accepts":          s.accepts.Load(),
		"accept_errors":    s.acceptErrors.Load(),
		"handoff_rejected": s.handoffRejected.Load(),
		"sessions_opened":  s.sessionsOpened.Load(),
		"sessions_closed":  s.sessionsClosed.Load(),
		"bytes_in":         s.bytesIn.Load(),
		"bytes_out":        s.bytesOut.Load(),
		"partial_writes":   s.partialWrites.Load(),
	}
}
