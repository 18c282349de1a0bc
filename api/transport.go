// File: api/transport.go
// Package api defines the non-blocking transport contract.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

// Transport is a non-blocking byte stream owned by exactly one worker loop.
//
// Read returns io.EOF when the peer closed its end, and ErrWouldBlock when
// no bytes are currently available. Write may transfer fewer bytes than
// offered (a partial write, the normal backpressure signal) and returns
// ErrWouldBlock when the send buffer is full.
type Transport interface {
	// Fd returns the descriptor used to register the transport with a
	// readiness poller.
	Fd() int

	Read(p []byte) (int, error)
	Write(p []byte) (int, error)

	// Close releases the descriptor. Safe to call more than once.
	Close() error
}
