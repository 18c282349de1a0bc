// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package engine wires the acceptor loop, the worker loops and the load
// balancer into a lifecycle-managed multi-reactor server. One goroutine
// accepts; N goroutines each multiplex their own set of sessions on a
// readiness poller. Connections move between them only through the
// per-loop handoff channels.
package engine
