// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package transport implements api.Transport over raw non-blocking TCP
// sockets, plus the blocking listener the acceptor loop owns. Accepted
// descriptors come back non-blocking and ready for poller registration.
package transport
