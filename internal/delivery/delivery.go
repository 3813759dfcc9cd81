// Package delivery defines the contract every transport entrypoint satisfies.
package delivery

import "context"

// Delivery is a runnable transport surface (HTTP server, worker, ...).
// Serve blocks until the delivery stops or the context is cancelled.
type Delivery interface {
	Serve(ctx context.Context) error
}
