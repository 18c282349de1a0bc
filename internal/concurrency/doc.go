// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package concurrency holds the cross-goroutine handoff primitive used to
// move work into a single-consumer loop without touching the loop's
// multiplexer state from the outside.
package concurrency
