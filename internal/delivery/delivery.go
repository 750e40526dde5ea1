// Package delivery defines the contract every transport-level server
// implements so the application entrypoint can start them uniformly.
package delivery

import "context"

// Delivery is a long-running server bound to one transport.
type Delivery interface {
	// Serve blocks until the server stops or the context is cancelled.
	Serve(ctx context.Context) error
}
