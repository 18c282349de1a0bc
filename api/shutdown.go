// File: api/shutdown.go
// Package api defines the unified graceful shutdown contract.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

import "time"

// Shutdowner is implemented by components that stop their internal loops
// and release resources on demand. Shutdown is idempotent and safe to call
// from any goroutine; drain bounds how long the caller is willing to wait
// for loops to exit.
type Shutdowner interface {
	Shutdown(drain time.Duration) error
}
