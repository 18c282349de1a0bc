// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package pool provides the cursor-based session buffers and the size-classed
// reuse pool they are drawn from. Buffers model the read/write cursor pair
// explicitly, so the flip and compact transitions of the per-connection state
// machine are plain methods rather than implicit mode switches.
package pool
