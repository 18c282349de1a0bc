// File: transport/transport.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package transport

import (
	"errors"
	"net"

	"github.com/momentics/hioload-reactor/api"
)

// ErrListenerClosed is returned by Accept after the listener has been
// closed. This sentinel signals graceful shutdown to the acceptor loop.
var ErrListenerClosed = errors.New("listener closed")

// Listener accepts inbound connections as non-blocking transports. Accept
// blocks; Close unblocks a pending Accept, which then returns
// ErrListenerClosed.
type Listener interface {
	Accept() (api.Transport, error)
	Close() error
	Addr() net.Addr
}
