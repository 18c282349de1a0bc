// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package reactor provides the readiness multiplexer used by worker loops:
// a poll-mode abstraction over epoll on Linux, with an explicit wake
// primitive so another goroutine can interrupt a blocking wait.
package reactor
