// Copyright 2025 momentics@gmail.com
// Licensed under the Apache License, Version 2.0.

package pool_test

import (
	"testing"

	"github.com/momentics/hioload-reactor/pool"
)

func TestBufferPoolReuse(t *testing.T) {
	p := pool.NewBufferPool()
	b1 := p.Get(128)
	p.Put(b1)
	b2 := p.Get(64)
	// Same 4 KiB class: the freed buffer comes back.
	if b2 != b1 {
		t.Error("buffer not reused within size class")
	}
	if b2.Len() != 0 {
		t.Error("reused buffer not reset")
	}
}

func TestBufferPoolSizeClasses(t *testing.T) {
	p := pool.NewBufferPool()
	b := p.Get(5000)
	if b.Cap() < 5000 {
		t.Fatalf("Cap = %d, want >= 5000", b.Cap())
	}
	if b.Cap() != 8192 {
		t.Errorf("Cap = %d, want next power of two 8192", b.Cap())
	}
}

func TestBufferPoolStats(t *testing.T) {
	p := pool.NewBufferPool()
	b := p.Get(64)
	if got := p.Stats().InUse; got != 1 {
		t.Errorf("InUse = %d, want 1", got)
	}
	p.Put(b)
	if got := p.Stats().InUse; got != 0 {
		t.Errorf("InUse after Put = %d, want 0", got)
	}
	if got := p.Stats().TotalAlloc; got != 1 {
		t.Errorf("TotalAlloc = %d, want 1", got)
	}
}
