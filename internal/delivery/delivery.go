// Package delivery holds the outer surfaces of the logbook: the HTTP API,
// the event worker and the operator CLI.
package delivery

import "context"

// Delivery is a long-running surface started by the fx application.
type Delivery interface {
	// Serve blocks until the surface stops. A graceful shutdown returns nil.
	Serve(ctx context.Context) error
}
