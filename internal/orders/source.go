package orders

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned by mutations against an order that does not exist.
var ErrNotFound = errors.New("order not found")

// ErrStatusUpdateNotSupported is returned for any transition the backend
// does not expose. Only "delivered" has an endpoint.
var ErrStatusUpdateNotSupported = errors.New("status update not supported yet")

// CheckTransition reports whether a source can move an order to status.
func CheckTransition(status Status) error {
	if status != StatusDelivered {
		return fmt.Errorf("%w: %s", ErrStatusUpdateNotSupported, status)
	}
	return nil
}

// Source supplies order snapshots. Lookups of a missing order return
// (nil, nil) rather than an error.
type Source interface {
	ListOrders(ctx context.Context) ([]OrderRecord, error)
	GetOrder(ctx context.Context, id string) (*OrderRecord, error)
	MarkDelivered(ctx context.Context, id string) (*OrderRecord, error)
	// UpdateStatus fails with ErrStatusUpdateNotSupported for anything but delivered.
	UpdateStatus(ctx context.Context, id string, status Status) (*OrderRecord, error)
}
