// File: api/handler.go
// Package api defines the protocol handler contract.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

// Handler is the pluggable application protocol. The owning loop invokes
// Handle after every successful read, passing the session's unread inbound
// bytes. Handle returns the response to queue for transmission (nil for
// none) and the number of inbound bytes it consumed. consumed == 0 means
// the bytes do not yet form a complete message; the session keeps them and
// calls again after the next read.
//
// Handle runs on the loop goroutine and must not block. Blocking work has
// to be dispatched elsewhere and its result handed back to the loop.
type Handler interface {
	Handle(in []byte) (out []byte, consumed int)
}

// HandlerFunc adapts a plain function to Handler.
type HandlerFunc func(in []byte) ([]byte, int)

func (f HandlerFunc) Handle(in []byte) ([]byte, int) { return f(in) }

// HandlerFactory builds one Handler per accepted connection, so framed
// protocols can keep per-connection decode state without locking.
type HandlerFactory func() Handler

// SharedHandler returns a factory handing out the same stateless Handler
// to every connection.
func SharedHandler(h Handler) HandlerFactory {
	return func() Handler { return h }
}
