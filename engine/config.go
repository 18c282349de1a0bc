// File: engine/config.go
// Package engine holds the engine configuration.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package engine

import (
	"runtime"
	"time"
)

// Config holds all engine construction parameters.
type Config struct {
	ListenAddr   string        // TCP bind address, e.g. ":9000"
	Workers      int           // number of worker loops (0 = NumCPU)
	IOBufferSize int           // initial size of per-session buffers
	PollTimeout  time.Duration // upper bound on a loop's blocking wait
	MaxEvents    int           // readiness events fetched per loop iteration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		ListenAddr:   ":9000",
		Workers:      runtime.NumCPU(),
		IOBufferSize: 64 * 1024,
		PollTimeout:  time.Second,
		MaxEvents:    128,
	}
}

// withDefaults fills zero fields from DefaultConfig.
func (c *Config) withDefaults() *Config {
	def := DefaultConfig()
	out := *c
	if out.ListenAddr == "" {
		out.ListenAddr = def.ListenAddr
	}
	if out.Workers <= 0 {
		out.Workers = def.Workers
	}
	if out.IOBufferSize <= 0 {
		out.IOBufferSize = def.IOBufferSize
	}
	if out.PollTimeout <= 0 {
		out.PollTimeout = def.PollTimeout
	}
	if out.MaxEvents <= 0 {
		out.MaxEvents = def.MaxEvents
	}
	return &out
}
