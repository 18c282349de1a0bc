// File: pool/bufferpool.go
// Package pool
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Size-classed buffer reuse pool. Free buffers are parked on per-class
// channel freelists; an exhausted or missing freelist falls through to
// allocation, an overflowing one drops to the GC.

package pool

import (
	"sync"
	"sync/atomic"
)

const freelistDepth = 1024

// BufferPoolStats aggregates allocation/reuse accounting.
type BufferPoolStats struct {
	TotalAlloc int64
	TotalFree  int64
	InUse      int64
}

// BufferPool hands out Buffers of at least the requested size and recycles
// them by capacity class. All methods are safe for concurrent use.
type BufferPool struct {
	mu      sync.Mutex
	classes map[int]chan *Buffer

	totalAlloc atomic.Int64
	totalFree  atomic.Int64
	inUse      atomic.Int64
}

// NewBufferPool creates an empty pool.
func NewBufferPool() *BufferPool {
	return &BufferPool{classes: make(map[int]chan *Buffer)}
}

// sizeClass rounds size up to the next power of two, min 4 KiB.
func sizeClass(size int) int {
	c := 4096
	for c < size {
		c <<= 1
	}
	return c
}

func (p *BufferPool) freelist(class int) chan *Buffer {
	p.mu.Lock()
	ch, ok := p.classes[class]
	if !ok {
		ch = make(chan *Buffer, freelistDepth)
		p.classes[class] = ch
	}
	p.mu.Unlock()
	return ch
}

// Get returns a reset buffer with capacity of at least size.
func (p *BufferPool) Get(size int) *Buffer {
	class := sizeClass(size)
	p.inUse.Add(1)
	select {
	case b := <-p.freelist(class):
		b.Reset()
		return b
	default:
		p.totalAlloc.Add(1)
		return NewBuffer(class)
	}
}

// Put returns a buffer to its class freelist. Buffers that grew past their
// class are still filed under their current capacity.
func (p *BufferPool) Put(b *Buffer) {
	if b == nil {
		return
	}
	p.inUse.Add(-1)
	select {
	case p.freelist(sizeClass(b.Cap())) <- b:
	default:
		p.totalFree.Add(1)
	}
}

// Stats returns a snapshot of pool accounting.
func (p *BufferPool) Stats() BufferPoolStats {
	return BufferPoolStats{
		TotalAlloc: p.totalAlloc.Load(),
		TotalFree:  p.totalFree.Load(),
		InUse:      p.inUse.Load(),
	}
}
