package server

import "context"

// Server defines the lifecycle contract of the transport servers managed by
// this package.
//
// Implementations block in [RunServer] until a stop signal arrives or the
// context is cancelled, and release their resources in [Shutdown].
type Server interface {
	// RunServer starts serving requests and blocks until the server stops.
	RunServer(ctx context.Context) error

	// Shutdown gracefully stops the server, waiting for in-flight requests
	// until ctx expires.
	Shutdown(ctx context.Context) error
}
