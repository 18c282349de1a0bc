//go:build linux
// +build linux

// File: reactor/epoll_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Linux poller implementation: level-triggered epoll plus an eventfd wake
// channel registered alongside the payload descriptors.

package reactor

import (
	"fmt"

	"golang.org/x/sys/unix"
)

type epollPoller struct {
	epfd   int
	wakefd int
	// scratch sized one past the caller's event slice so a wake does not
	// evict a payload event.
	raw []unix.EpollEvent
}

// NewPoller creates an epoll instance with its wake eventfd registered.
func NewPoller() (Poller, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("epoll create: %w", err)
	}
	wakefd, err := unix.Eventfd(0, unix.EFD_NONBLOCK|unix.EFD_CLOEXEC)
	if err != nil {
		unix.Close(epfd)
		return nil, fmt.Errorf("eventfd: %w", err)
	}
	ev := unix.EpollEvent{Events: unix.EPOLLIN, Fd: int32(wakefd)}
	if err := unix.EpollCtl(epfd, unix.EPOLL_CTL_ADD, wakefd, &ev); err != nil {
		unix.Close(wakefd)
		unix.Close(epfd)
		return nil, fmt.Errorf("epoll ctl add wakefd: %w", err)
	}
	return &epollPoller{epfd: epfd, wakefd: wakefd}, nil
}

func toEpollEvents(interest EventType) uint32 {
	var ev uint32
	if interest&EventRead != 0 {
		ev |= unix.EPOLLIN
	}
	if interest&EventWrite != 0 {
		ev |= unix.EPOLLOUT
	}
	// EPOLLERR and EPOLLHUP are always reported; no need to request them.
	return ev
}

func fromEpollEvents(ev uint32) EventType {
	var t EventType
	if ev&unix.EPOLLIN != 0 {
		t |= EventRead
	}
	if ev&unix.EPOLLOUT != 0 {
		t |= EventWrite
	}
	if ev&(unix.EPOLLERR|unix.EPOLLHUP) != 0 {
		t |= EventError
	}
	return t
}

func (p *epollPoller) Add(fd int, interest EventType) error {
	ev := unix.EpollEvent{Events: toEpollEvents(interest), Fd: int32(fd)}
	if err := unix.EpollCtl(p.epfd, unix.EPOLL_CTL_ADD, fd, &ev); err != nil {
		return fmt.Errorf("epoll ctl add fd %d: %w", fd, err)
	}
	return nil
}

func (p *epollPoller) Modify(fd int, interest EventType) error {
	ev := unix.EpollEvent{Events: toEpollEvents(interest), Fd: int32(fd)}
	if err := unix.EpollCtl(p.epfd, unix.EPOLL_CTL_MOD, fd, &ev); err != nil {
		return fmt.Errorf("epoll ctl mod fd %d: %w", fd, err)
	}
	return nil
}

func (p *epollPoller) Remove(fd int) error {
	if err := unix.EpollCtl(p.epfd, unix.EPOLL_CTL_DEL, fd, nil); err != nil {
		return fmt.Errorf("epoll ctl del fd %d: %w", fd, err)
	}
	return nil
}

func (p *epollPoller) Wait(events []Event, timeoutMs int) (int, error) {
	if cap(p.raw) < len(events)+1 {
		p.raw = make([]unix.EpollEvent, len(events)+1)
	}
	raw := p.raw[:len(events)+1]

	n, err := unix.EpollWait(p.epfd, raw, timeoutMs)
	if err != nil {
		if err == unix.EINTR {
			return 0, nil
		}
		return 0, fmt.Errorf("epoll wait: %w", err)
	}

	out := 0
	for i := 0; i < n; i++ {
		fd := int(raw[i].Fd)
		if fd == p.wakefd {
			p.drainWake()
			continue
		}
		events[out] = Event{Fd: fd, Events: fromEpollEvents(raw[i].Events)}
		out++
	}
	return out, nil
}

// drainWake resets the eventfd counter so the next Wait can block again.
func (p *epollPoller) drainWake() {
	var buf [8]byte
	for {
		if _, err := unix.Read(p.wakefd, buf[:]); err != nil {
			return
		}
	}
}

func (p *epollPoller) Wake() error {
	var buf [8]byte
	buf[0] = 1
	_, err := unix.Write(p.wakefd, buf[:])
	if err == unix.EAGAIN {
		// Counter saturated: a wake is already pending.
		return nil
	}
	return err
}

func (p *epollPoller) Close() error {
	unix.Close(p.wakefd)
	return unix.Close(p.epfd)
}
