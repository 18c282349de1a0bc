// transport/transport_linux.go
//go:build linux
// +build linux

//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// TCP listener and fd-backed transport. The listener itself is a plain
// net.Listener so Close reliably unblocks Accept; each accepted connection
// is unwrapped to its descriptor and switched to non-blocking mode before
// it ever reaches a worker loop.

package transport

import (
	"fmt"
	"io"
	"net"
	"os"
	"sync/atomic"

	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-reactor/api"
)

// Listen binds a TCP listener on addr.
func Listen(addr string) (Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}
	return &tcpListener{ln: ln}, nil
}

type tcpListener struct {
	ln     net.Listener
	closed atomic.Bool
}

// Accept returns the next connection as a non-blocking fd transport.
func (l *tcpListener) Accept() (api.Transport, error) {
	conn, err := l.ln.Accept()
	if err != nil {
		if l.closed.Load() {
			return nil, ErrListenerClosed
		}
		return nil, fmt.Errorf("accept: %w", err)
	}
	tc := conn.(*net.TCPConn)
	_ = tc.SetNoDelay(true)

	// File dups the descriptor; the original conn is closed and the dup
	// becomes the session's sole handle.
	f, err := tc.File()
	tc.Close()
	if err != nil {
		return nil, fmt.Errorf("extract fd: %w", err)
	}
	fd := int(f.Fd())
	if err := unix.SetNonblock(fd, true); err != nil {
		f.Close()
		return nil, fmt.Errorf("set nonblock fd %d: %w", fd, err)
	}
	return &fdTransport{f: f, fd: fd}, nil
}

func (l *tcpListener) Close() error {
	if !l.closed.CompareAndSwap(false, true) {
		return nil
	}
	return l.ln.Close()
}

func (l *tcpListener) Addr() net.Addr {
	return l.ln.Addr()
}

// fdTransport is a non-blocking socket owned by one worker loop. The
// *os.File is retained so the descriptor stays pinned until Close.
type fdTransport struct {
	f      *os.File
	fd     int
	closed atomic.Bool
}

func (t *fdTransport) Fd() int { return t.fd }

func (t *fdTransport) Read(p []byte) (int, error) {
	for {
		n, err := unix.Read(t.fd, p)
		switch {
		case err == unix.EINTR:
			continue
		case err == unix.EAGAIN:
			return 0, api.ErrWouldBlock
		case err != nil:
			return 0, &api.TransportError{Op: "read", Fd: t.fd, Err: err}
		case n == 0:
			return 0, io.EOF
		default:
			return n, nil
		}
	}
}

func (t *fdTransport) Write(p []byte) (int, error) {
	for {
		n, err := unix.Write(t.fd, p)
		switch {
		case err == unix.EINTR:
			continue
		case err == unix.EAGAIN:
			return 0, api.ErrWouldBlock
		case err != nil:
			return 0, &api.TransportError{Op: "write", Fd: t.fd, Err: err}
		default:
			return n, nil
		}
	}
}

func (t *fdTransport) Close() error {
	if !t.closed.CompareAndSwap(false, true) {
		return nil
	}
	return t.f.Close()
}
