// File: pool/buffer.go
// Package pool
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Growable byte buffer with an explicit read/write cursor pair.
// Invariant: 0 <= readPos <= writePos <= len(data).

package pool

// Buffer is a byte region with separate read and write cursors. Bytes
// between readPos and writePos are unread; bytes past writePos are free
// write capacity. A Buffer is owned by one goroutine at a time.
type Buffer struct {
	data     []byte
	readPos  int
	writePos int
}

// NewBuffer allocates a buffer with the given capacity.
func NewBuffer(size int) *Buffer {
	if size <= 0 {
		size = 4096
	}
	return &Buffer{data: make([]byte, size)}
}

// Writable returns the free write region, growing the buffer if fewer than
// min bytes are available. The caller fills a prefix of the returned slice
// and reports it via AdvanceWrite.
func (b *Buffer) Writable(min int) []byte {
	if len(b.data)-b.writePos < min {
		b.grow(min)
	}
	return b.data[b.writePos:]
}

// AdvanceWrite records n bytes written into the region returned by Writable.
func (b *Buffer) AdvanceWrite(n int) {
	b.writePos += n
}

// Readable returns the unread bytes. This is the read-mode view of the
// buffer: exactly the bytes written and not yet consumed.
func (b *Buffer) Readable() []byte {
	return b.data[b.readPos:b.writePos]
}

// AdvanceRead consumes n bytes from the readable region.
func (b *Buffer) AdvanceRead(n int) {
	b.readPos += n
	if b.readPos == b.writePos {
		b.readPos = 0
		b.writePos = 0
	}
}

// Compact shifts unread bytes to the start of the buffer, reclaiming the
// consumed prefix as write capacity. Unread bytes survive intact, which is
// what keeps messages split across reads correct.
func (b *Buffer) Compact() {
	if b.readPos == 0 {
		return
	}
	n := copy(b.data, b.data[b.readPos:b.writePos])
	b.readPos = 0
	b.writePos = n
}

// Append copies p into the write region, growing as needed.
func (b *Buffer) Append(p []byte) {
	if len(p) == 0 {
		return
	}
	if len(b.data)-b.writePos < len(p) {
		b.grow(len(p))
	}
	b.writePos += copy(b.data[b.writePos:], p)
}

// Len returns the number of unread bytes.
func (b *Buffer) Len() int {
	return b.writePos - b.readPos
}

// Cap returns the underlying capacity.
func (b *Buffer) Cap() int {
	return len(b.data)
}

// Reset discards all content and rewinds both cursors.
func (b *Buffer) Reset() {
	b.readPos = 0
	b.writePos = 0
}

// grow compacts first; only reallocates when compaction cannot free enough.
func (b *Buffer) grow(min int) {
	b.Compact()
	if len(b.data)-b.writePos >= min {
		return
	}
	size := len(b.data) * 2
	for size-b.writePos < min {
		size *= 2
	}
	data := make([]byte, size)
	copy(data, b.data[:b.writePos])
	b.data = data
}
