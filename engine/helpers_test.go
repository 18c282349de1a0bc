// Copyright 2025 momentics@gmail.com
// Licensed under the Apache License, Version 2.0.

// helpers_test.go — shared fixtures for the engine tests.
package engine

import (
	"net"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/momentics/hioload-reactor/api"
	"github.com/momentics/hioload-reactor/transport"
)

func nopLogger() *zap.Logger { return zap.NewNop() }

// echoAll echoes everything it is given and consumes it all.
var echoAll = api.HandlerFunc(func(in []byte) ([]byte, int) {
	out := make([]byte, len(in))
	copy(out, in)
	return out, len(in)
})

// eventually polls cond until it holds or the deadline passes.
func eventually(t *testing.T, d time.Duration, msg string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("condition not met within %v: %s", d, msg)
}

// fakeListener feeds scripted transports to the acceptor.
type fakeListener struct {
	conns chan api.Transport
	done  chan struct{}
	once  sync.Once
}

func newFakeListener() *fakeListener {
	return &fakeListener{
		conns: make(chan api.Transport, 16),
		done:  make(chan struct{}),
	}
}

func (l *fakeListener) Accept() (api.Transport, error) {
	select {
	case tr := <-l.conns:
		return tr, nil
	case <-l.done:
		return nil, transport.ErrListenerClosed
	}
}

func (l *fakeListener) Close() error {
	l.once.Do(func() { close(l.done) })
	return nil
}

func (l *fakeListener) Addr() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1)}
}
