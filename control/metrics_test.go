// Copyright 2025 momentics@gmail.com
// Licensed under the Apache License, Version 2.0.

package control_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/momentics/hioload-reactor/control"
)

func TestStatsSnapshot(t *testing.T) {
	s := control.NewStats()
	s.IncAccepts()
	s.IncAccepts()
	s.AddBytesIn(100)
	s.AddBytesOut(42)
	s.IncPartialWrites()

	snap := s.GetSnapshot()
	if snap["accepts"] != 2 {
		t.Errorf("accepts = %d, want 2", snap["accepts"])
	}
	if snap["bytes_in"] != 100 || snap["bytes_out"] != 42 {
		t.Errorf("bytes = %d/%d, want 100/42", snap["bytes_in"], snap["bytes_out"])
	}
	if snap["partial_writes"] != 1 {
		t.Errorf("partial_writes = %d, want 1", snap["partial_writes"])
	}
}

func TestCollectorGathers(t *testing.T) {
	s := control.NewStats()
	s.IncAccepts()
	c := control.NewCollector(s, func() []int64 { return []int64{3, 2} })

	reg := prometheus.NewPedanticRegistry()
	if err := reg.Register(c); err != nil {
		t.Fatalf("register collector: %v", err)
	}
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(mfs) == 0 {
		t.Fatal("no metric families gathered")
	}
	var foundActive bool
	for _, mf := range mfs {
		if mf.GetName() == "hioload_active_connections" {
			foundActive = true
			if got := len(mf.GetMetric()); got != 2 {
				t.Errorf("active_connections series = %d, want one per loop (2)", got)
			}
		}
	}
	if !foundActive {
		t.Error("per-loop gauge missing from scrape")
	}
}
