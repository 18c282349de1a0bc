// Copyright 2025 momentics@gmail.com
// Licensed under the Apache License, Version 2.0.

// buffer_test.go — cursor pair, compact and growth behavior.
package pool_test

import (
	"bytes"
	"testing"

	"github.com/momentics/hioload-reactor/pool"
)

func TestBufferReadWriteCursors(t *testing.T) {
	b := pool.NewBuffer(16)
	w := b.Writable(5)
	copy(w, "hello")
	b.AdvanceWrite(5)

	if got := b.Readable(); !bytes.Equal(got, []byte("hello")) {
		t.Fatalf("Readable = %q, want %q", got, "hello")
	}
	b.AdvanceRead(2)
	if got := b.Readable(); !bytes.Equal(got, []byte("llo")) {
		t.Fatalf("Readable after consume = %q, want %q", got, "llo")
	}
}

func TestBufferCompactPreservesUnread(t *testing.T) {
	b := pool.NewBuffer(16)
	b.Append([]byte("abcdef"))
	b.AdvanceRead(4)
	b.Compact()

	if got := b.Readable(); !bytes.Equal(got, []byte("ef")) {
		t.Fatalf("unread bytes lost across compact: %q", got)
	}
	// Write capacity must be reclaimed: the 16-byte buffer holds 2 unread
	// bytes, so 14 more fit without growth.
	b.Append(bytes.Repeat([]byte("x"), 14))
	if b.Cap() != 16 {
		t.Errorf("compact did not reclaim capacity, grew to %d", b.Cap())
	}
}

func TestBufferSplitMessageReassembly(t *testing.T) {
	// A message arriving in two reads must equal a single-read delivery.
	b := pool.NewBuffer(8)
	msg := []byte("0123456789")

	copy(b.Writable(5), msg[:5])
	b.AdvanceWrite(5)
	// Consumer sees a prefix, takes nothing (incomplete message).
	b.Compact()

	copy(b.Writable(5), msg[5:])
	b.AdvanceWrite(5)

	if got := b.Readable(); !bytes.Equal(got, msg) {
		t.Fatalf("reassembled = %q, want %q", got, msg)
	}
}

func TestBufferGrowKeepsContent(t *testing.T) {
	b := pool.NewBuffer(4)
	b.Append([]byte("abcd"))
	b.Append([]byte("efgh"))
	if got := b.Readable(); !bytes.Equal(got, []byte("abcdefgh")) {
		t.Fatalf("content after growth = %q", got)
	}
}

func TestBufferCursorsRewindWhenDrained(t *testing.T) {
	b := pool.NewBuffer(8)
	b.Append([]byte("abcdefgh"))
	b.AdvanceRead(8)
	if b.Len() != 0 {
		t.Fatalf("Len = %d after full consume", b.Len())
	}
	// Fully-consumed buffer rewinds, so the next write needs no growth.
	b.Append([]byte("ijklmnop"))
	if b.Cap() != 8 {
		t.Errorf("drained buffer grew to %d", b.Cap())
	}
}
