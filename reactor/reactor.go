// File: reactor/reactor.go
// Author: momentics <momentics@gmail.com>
//
// Platform-neutral readiness multiplexer interface.

package reactor

// EventType is a bitmask of readiness conditions.
type EventType uint32

const (
	EventRead EventType = 1 << iota
	EventWrite
	EventError
)

// Event is one readiness notification returned by Wait.
type Event struct {
	Fd     int
	Events EventType
}

// Poller multiplexes many descriptors on one goroutine.
//
// Add, Modify and Remove must be called only from the goroutine that calls
// Wait. The single exception is Wake, which is safe from any goroutine and
// unblocks an in-progress Wait. A wake arriving while no Wait is in
// progress is coalesced into the next call; wakes are never lost.
type Poller interface {
	// Add registers fd for the given interest set.
	Add(fd int, interest EventType) error

	// Modify replaces fd's interest set.
	Modify(fd int, interest EventType) error

	// Remove deregisters fd.
	Remove(fd int) error

	// Wait blocks until readiness events arrive, the timeout elapses, or
	// Wake is called, and fills events. timeoutMs < 0 blocks indefinitely,
	// 0 polls without blocking. Returns the number of events written.
	Wait(events []Event, timeoutMs int) (int, error)

	// Wake interrupts a blocking Wait. Safe from any goroutine.
	Wake() error

	// Close releases the poller. Registered descriptors are not closed.
	Close() error
}
