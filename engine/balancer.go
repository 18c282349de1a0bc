// File: engine/balancer.go
// Package engine implements worker selection policies.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package engine

import "sync/atomic"

// Balancer picks the worker loop that receives the next accepted
// connection. Called once per accept, from the acceptor goroutine.
type Balancer interface {
	Pick(workers []*worker) *worker
}

// LeastConnections selects the loop with the fewest sessions, counting
// both registered sessions and sessions still queued in the loop's
// handoff; ties are broken by loop index. Unlike round-robin it self-corrects when
// long-lived connections pile up on one loop, at O(workers) per accept —
// cheap, since accepts are orders of magnitude rarer than I/O events.
type LeastConnections struct{}

func (LeastConnections) Pick(workers []*worker) *worker {
	best := workers[0]
	min := best.Load()
	for _, w := range workers[1:] {
		if n := w.Load(); n < min {
			best, min = w, n
		}
	}
	return best
}

// RoundRobin cycles through loops in order. Kept as the simple alternative;
// it ignores connection duration variance and can concentrate long-lived
// connections on one loop.
type RoundRobin struct {
	next atomic.Uint64
}

func (r *RoundRobin) Pick(workers []*worker) *worker {
	return workers[(r.next.Add(1)-1)%uint64(len(workers))]
}
