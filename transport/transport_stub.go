//go:build !linux
// +build !linux

// File: transport/transport_stub.go
// Author: momentics <momentics@gmail.com>
//
// Stub implementation for unsupported platforms.

package transport

import "github.com/momentics/hioload-reactor/api"

// Listen returns an error on platforms without raw fd transport support.
func Listen(addr string) (Listener, error) {
	return nil, api.ErrNotSupported
}
