// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package session implements the per-connection buffered state machine:
// partial reads through the flip/compact inbound buffer, partial writes
// through the pending outbound buffer, and the READING → WRITING → CLOSING
// transitions driven by the owning worker loop.
package session
