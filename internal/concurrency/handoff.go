// File: internal/concurrency/handoff.go
// Package concurrency implements the loop handoff channel.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Handoff is a many-producer, single-consumer FIFO plus a wake signal.
// Offer is safe from any goroutine and never blocks; Drain runs only on
// the owning loop's goroutine. The backing queue is eapache/queue, which
// is not thread-safe on its own, so every access holds the mutex.

package concurrency

import (
	"sync"

	"github.com/eapache/queue"
)

// Handoff is the cross-goroutine FIFO feeding a single-consumer loop.
type Handoff[T any] struct {
	mu     sync.Mutex
	q      *queue.Queue
	closed bool

	// wake interrupts the owning loop's blocking wait. Called after every
	// successful Offer, outside the lock: a redundant wake is coalesced by
	// the poller, a missed one could stall the item indefinitely.
	wake func()
}

// NewHandoff creates a handoff whose Offer triggers wake.
func NewHandoff[T any](wake func()) *Handoff[T] {
	if wake == nil {
		wake = func() {}
	}
	return &Handoff[T]{q: queue.New(), wake: wake}
}

// Offer enqueues v and wakes the consumer. It returns false only after
// Close; the caller then still owns v and must release it itself.
func (h *Handoff[T]) Offer(v T) bool {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return false
	}
	h.q.Add(v)
	h.mu.Unlock()

	h.wake()
	return true
}

// Drain appends all currently queued items to into and clears the queue.
// Loop goroutine only.
func (h *Handoff[T]) Drain(into []T) []T {
	h.mu.Lock()
	for h.q.Length() > 0 {
		into = append(into, h.q.Remove().(T))
	}
	h.mu.Unlock()
	return into
}

// Len returns the number of queued items.
func (h *Handoff[T]) Len() int {
	h.mu.Lock()
	n := h.q.Length()
	h.mu.Unlock()
	return n
}

// Close rejects further offers and returns anything still queued so the
// caller can release it.
func (h *Handoff[T]) Close() []T {
	h.mu.Lock()
	h.closed = true
	var left []T
	for h.q.Length() > 0 {
		left = append(left, h.q.Remove().(T))
	}
	h.mu.Unlock()
	return left
}
