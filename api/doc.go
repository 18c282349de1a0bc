// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package api defines the public contracts of the hioload-reactor engine:
// transports, protocol handlers, error taxonomy, and the graceful shutdown
// interface. Implementations live in reactor, transport, pool, engine and
// the internal packages.
package api
