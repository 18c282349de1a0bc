// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package control collects engine runtime counters. The counters are
// push-only: loops write them, observers read snapshots or scrape them via
// the optional Prometheus collector. Nothing in this package feeds back
// into the engine.
package control
