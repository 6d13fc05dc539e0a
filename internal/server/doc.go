// Package server wires and runs the dashboard's HTTP transport.
//
// It owns the listener lifecycle: startup, signal handling and graceful
// shutdown. Shutdown waits for in-flight requests up to the configured
// timeout; long-lived watch streams are closed by the collection service.
package server
