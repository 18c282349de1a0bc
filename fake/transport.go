// Package fake
// Author: momentics <momentics@gmail.com>
//
// Fake implementations for testing and development.
// Provides predictable, controllable behavior for the core interfaces.

package fake

import (
	"io"
	"sync"

	"github.com/momentics/hioload-reactor/api"
)

// Transport is an in-memory api.Transport. Inbound bytes are scripted via
// FeedRead; written bytes accumulate in Written. WriteCap throttles each
// Write call to simulate a congested send buffer (partial writes).
//
// It also checks loop affinity: Read/Write must never overlap from two
// goroutines, and Violations reports whether they did.
type Transport struct {
	mu       sync.Mutex
	fd       int
	pending  []byte
	written  []byte
	eof      bool
	closed   bool
	readErr  error
	writeErr error

	// WriteCap caps bytes accepted per Write call; 0 means unlimited.
	WriteCap int

	inUse      sync.Mutex // held across Read/Write to detect overlap
	overlapped bool
}

// NewTransport creates a fake transport with the given fake descriptor.
func NewTransport(fd int) *Transport {
	return &Transport{fd: fd}
}

func (t *Transport) Fd() int { return t.fd }

// FeedRead schedules p to be returned by subsequent Read calls.
func (t *Transport) FeedRead(p []byte) {
	t.mu.Lock()
	t.pending = append(t.pending, p...)
	t.mu.Unlock()
}

// FeedEOF makes Read report peer close once the scripted bytes run out.
func (t *Transport) FeedEOF() {
	t.mu.Lock()
	t.eof = true
	t.mu.Unlock()
}

// FailReads makes every subsequent Read return err.
func (t *Transport) FailReads(err error) {
	t.mu.Lock()
	t.readErr = err
	t.mu.Unlock()
}

// FailWrites makes every subsequent Write return err.
func (t *Transport) FailWrites(err error) {
	t.mu.Lock()
	t.writeErr = err
	t.mu.Unlock()
}

func (t *Transport) Read(p []byte) (int, error) {
	if !t.inUse.TryLock() {
		t.overlapped = true
	} else {
		defer t.inUse.Unlock()
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.readErr != nil {
		return 0, t.readErr
	}
	if len(t.pending) == 0 {
		if t.eof {
			return 0, io.EOF
		}
		return 0, api.ErrWouldBlock
	}
	n := copy(p, t.pending)
	t.pending = t.pending[n:]
	return n, nil
}

func (t *Transport) Write(p []byte) (int, error) {
	if !t.inUse.TryLock() {
		t.overlapped = true
	} else {
		defer t.inUse.Unlock()
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.writeErr != nil {
		return 0, t.writeErr
	}
	n := len(p)
	if t.WriteCap > 0 && n > t.WriteCap {
		n = t.WriteCap
	}
	t.written = append(t.written, p[:n]...)
	return n, nil
}

func (t *Transport) Close() error {
	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()
	return nil
}

// Written returns everything accepted by Write so far.
func (t *Transport) Written() []byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]byte, len(t.written))
	copy(out, t.written)
	return out
}

// Closed reports whether Close was called.
func (t *Transport) Closed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}

// Violations reports whether Read/Write ever overlapped across goroutines.
func (t *Transport) Violations() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.overlapped
}
