// File: api/errors.go
// Package api defines the engine error taxonomy.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

import "fmt"

// Sentinel errors shared across the engine.
var (
	// ErrWouldBlock is returned by non-blocking transports when no bytes
	// can be moved right now. It is a readiness signal, not a failure.
	ErrWouldBlock = fmt.Errorf("operation would block")

	// ErrHandoffRejected is returned when a connection is routed to a
	// loop that has already stopped. The engine closes the rejected
	// transport before returning it.
	ErrHandoffRejected = fmt.Errorf("handoff rejected: loop stopped")

	// ErrEngineState is returned when a lifecycle call is made in the
	// wrong state (e.g. Start after Shutdown).
	ErrEngineState = fmt.Errorf("invalid engine state")

	// ErrNotSupported is returned by platform stubs.
	ErrNotSupported = fmt.Errorf("operation not supported on this platform")
)

// TransportError wraps an I/O failure on a single connection. It is always
// local: the owning session transitions to closing, other sessions and the
// loop itself are unaffected.
type TransportError struct {
	Op  string // "read", "write", "close", "register"
	Fd  int
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s on fd %d: %v", e.Op, e.Fd, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// AcceptError wraps a failure accepting a new connection. The acceptor loop
// logs it and keeps iterating.
type AcceptError struct {
	Err error
}

func (e *AcceptError) Error() string { return fmt.Sprintf("accept: %v", e.Err) }

func (e *AcceptError) Unwrap() error { return e.Err }

// StartupError wraps a fatal failure during Engine.Start: the listening
// transport could not be bound or a loop could not be spawned. Start
// returns it after tearing down everything already created; no partial
// engine is left running.
type StartupError struct {
	Stage string // "listen", "poller", "spawn"
	Err   error
}

func (e *StartupError) Error() string {
	return fmt.Sprintf("engine startup (%s): %v", e.Stage, e.Err)
}

func (e *StartupError) Unwrap() error { return e.Err }
