// Copyright 2025 momentics@gmail.com
// Licensed under the Apache License, Version 2.0.

// session_test.go — state machine transitions, flip/compact reassembly,
// partial-write draining.
package session_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/momentics/hioload-reactor/api"
	"github.com/momentics/hioload-reactor/control"
	"github.com/momentics/hioload-reactor/fake"
	"github.com/momentics/hioload-reactor/internal/session"
	"github.com/momentics/hioload-reactor/pool"
)

// echoLine consumes one newline-terminated message at a time and echoes it.
var echoLine = api.HandlerFunc(func(in []byte) ([]byte, int) {
	i := bytes.IndexByte(in, '\n')
	if i < 0 {
		return nil, 0
	}
	out := make([]byte, i+1)
	copy(out, in[:i+1])
	return out, i + 1
})

func newSession(t *testing.T, tr api.Transport, h api.Handler) *session.Session {
	t.Helper()
	s := session.New(1, tr, h, pool.NewBufferPool(), 4096, control.NewStats())
	s.Attach()
	return s
}

func TestSessionEchoSingleRead(t *testing.T) {
	tr := fake.NewTransport(7)
	s := newSession(t, tr, echoLine)

	tr.FeedRead([]byte("ping\n"))
	if err := s.OnReadable(); err != nil {
		t.Fatalf("OnReadable: %v", err)
	}
	if s.State() != session.StateWriting {
		t.Fatalf("state = %v, want StateWriting", s.State())
	}
	if err := s.OnWritable(); err != nil {
		t.Fatalf("OnWritable: %v", err)
	}
	if got := tr.Written(); !bytes.Equal(got, []byte("ping\n")) {
		t.Fatalf("echoed %q, want %q", got, "ping\n")
	}
	if s.State() != session.StateReading {
		t.Errorf("state after drain = %v, want StateReading", s.State())
	}
}

func TestSessionSplitMessageReassembly(t *testing.T) {
	// A message delivered across two reads must produce the same response
	// as a single-read delivery of the whole message.
	tr := fake.NewTransport(7)
	s := newSession(t, tr, echoLine)

	tr.FeedRead([]byte("hello"))
	if err := s.OnReadable(); err != nil {
		t.Fatalf("OnReadable prefix: %v", err)
	}
	if s.State() != session.StateReading {
		t.Fatalf("partial message flipped state to %v", s.State())
	}

	tr.FeedRead([]byte(" world\n"))
	if err := s.OnReadable(); err != nil {
		t.Fatalf("OnReadable remainder: %v", err)
	}
	if err := s.OnWritable(); err != nil {
		t.Fatalf("OnWritable: %v", err)
	}
	if got := tr.Written(); !bytes.Equal(got, []byte("hello world\n")) {
		t.Fatalf("echoed %q, want %q", got, "hello world\n")
	}
}

func TestSessionPartialWriteDrain(t *testing.T) {
	// Outbound larger than per-call write capacity: repeated OnWritable
	// calls must deliver every byte, in order, with no loss.
	tr := fake.NewTransport(7)
	tr.WriteCap = 3
	s := newSession(t, tr, echoLine)

	msg := []byte("0123456789\n")
	tr.FeedRead(msg)
	if err := s.OnReadable(); err != nil {
		t.Fatalf("OnReadable: %v", err)
	}

	rounds := 0
	for s.HasPending() {
		if err := s.OnWritable(); err != nil {
			t.Fatalf("OnWritable round %d: %v", rounds, err)
		}
		rounds++
		if rounds > 20 {
			t.Fatal("outbound buffer never drained")
		}
	}
	if rounds < 2 {
		t.Fatalf("expected multiple write rounds under WriteCap, got %d", rounds)
	}
	if got := tr.Written(); !bytes.Equal(got, msg) {
		t.Fatalf("peer received %q, want %q", got, msg)
	}
	if s.State() != session.StateReading {
		t.Errorf("state after drain = %v, want StateReading", s.State())
	}
}

func TestSessionPeerEOF(t *testing.T) {
	tr := fake.NewTransport(7)
	s := newSession(t, tr, echoLine)

	tr.FeedEOF()
	if err := s.OnReadable(); err != nil {
		t.Fatalf("peer close is not an error, got %v", err)
	}
	if s.State() != session.StateClosing {
		t.Fatalf("state = %v, want StateClosing", s.State())
	}
}

func TestSessionReadErrorForcesClosing(t *testing.T) {
	tr := fake.NewTransport(7)
	s := newSession(t, tr, echoLine)

	transportErr := &api.TransportError{Op: "read", Fd: 7, Err: errors.New("reset")}
	tr.FailReads(transportErr)
	err := s.OnReadable()
	if err == nil {
		t.Fatal("expected transport error")
	}
	var te *api.TransportError
	if !errors.As(err, &te) {
		t.Fatalf("error type %T, want *api.TransportError", err)
	}
	if s.State() != session.StateClosing {
		t.Errorf("state = %v, want StateClosing", s.State())
	}
}

func TestSessionSubmitResponseIdempotentInterest(t *testing.T) {
	tr := fake.NewTransport(7)
	s := newSession(t, tr, echoLine)

	s.SubmitResponse([]byte("a"))
	s.SubmitResponse([]byte("b"))
	if s.State() != session.StateWriting {
		t.Fatalf("state = %v, want StateWriting", s.State())
	}
	if err := s.OnWritable(); err != nil {
		t.Fatalf("OnWritable: %v", err)
	}
	if got := tr.Written(); !bytes.Equal(got, []byte("ab")) {
		t.Fatalf("written %q, want %q (appended in order)", got, "ab")
	}
}

func TestSessionCloseIdempotent(t *testing.T) {
	tr := fake.NewTransport(7)
	stats := control.NewStats()
	s := session.New(1, tr, echoLine, pool.NewBufferPool(), 4096, stats)
	s.Attach()

	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if !tr.Closed() {
		t.Error("transport not closed")
	}
	if stats.SessionsClosed() != 1 {
		t.Errorf("sessions_closed = %d, want 1", stats.SessionsClosed())
	}
}
