// Package fake
// Author: momentics <momentics@gmail.com>
//
// In-memory reactor.Poller so loop logic can be tested on any platform.

package fake

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/momentics/hioload-reactor/reactor"
)

// Poller is a scriptable reactor.Poller. Tests feed readiness events with
// FeedReady; Wait delivers the ones whose descriptor is registered, masked
// by the registered interest. Wake unblocks Wait exactly like the eventfd
// in the Linux poller.
type Poller struct {
	mu       sync.Mutex
	interest map[int]reactor.EventType
	ready    []reactor.Event
	closed   bool

	wakeCh chan struct{}
	wakes  atomic.Int64
}

// NewPoller creates an empty fake poller.
func NewPoller() *Poller {
	return &Poller{
		interest: make(map[int]reactor.EventType),
		wakeCh:   make(chan struct{}, 1),
	}
}

func (p *Poller) Add(fd int, interest reactor.EventType) error {
	p.mu.Lock()
	p.interest[fd] = interest
	p.mu.Unlock()
	return nil
}

func (p *Poller) Modify(fd int, interest reactor.EventType) error {
	p.mu.Lock()
	p.interest[fd] = interest
	p.mu.Unlock()
	return nil
}

func (p *Poller) Remove(fd int) error {
	p.mu.Lock()
	delete(p.interest, fd)
	p.mu.Unlock()
	return nil
}

// FeedReady schedules readiness events and wakes a blocked Wait.
func (p *Poller) FeedReady(evs ...reactor.Event) {
	p.mu.Lock()
	p.ready = append(p.ready, evs...)
	p.mu.Unlock()
	p.signal()
}

func (p *Poller) Wait(events []reactor.Event, timeoutMs int) (int, error) {
	if n := p.take(events); n > 0 {
		return n, nil
	}
	if timeoutMs == 0 {
		return 0, nil
	}

	var timer <-chan time.Time
	if timeoutMs > 0 {
		t := time.NewTimer(time.Duration(timeoutMs) * time.Millisecond)
		defer t.Stop()
		timer = t.C
	}
	select {
	case <-p.wakeCh:
	case <-timer:
	}
	return p.take(events), nil
}

// take moves deliverable scripted events into out.
func (p *Poller) take(out []reactor.Event) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	kept := p.ready[:0]
	for _, ev := range p.ready {
		interest, ok := p.interest[ev.Fd]
		if !ok {
			continue // dropped registration: event discarded
		}
		masked := ev.Events & (interest | reactor.EventError)
		if masked == 0 || n == len(out) {
			kept = append(kept, ev)
			continue
		}
		out[n] = reactor.Event{Fd: ev.Fd, Events: masked}
		n++
	}
	p.ready = kept
	return n
}

func (p *Poller) Wake() error {
	p.wakes.Add(1)
	p.signal()
	return nil
}

func (p *Poller) signal() {
	select {
	case p.wakeCh <- struct{}{}:
	default:
	}
}

func (p *Poller) Close() error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	return nil
}

// Wakes returns how many times Wake was called.
func (p *Poller) Wakes() int64 {
	return p.wakes.Load()
}

// Interest returns the currently registered interest for fd.
func (p *Poller) Interest(fd int) (reactor.EventType, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	i, ok := p.interest[fd]
	return i, ok
}

// Registered reports whether fd is currently registered.
func (p *Poller) Registered(fd int) bool {
	_, ok := p.Interest(fd)
	return ok
}
