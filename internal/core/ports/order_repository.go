package ports

import (
	"context"

	"traceflow/internal/core/domain/model/kernel"
	"traceflow/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// Provides methods for storing, retrieving, and advancing orders through
// the pipeline.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate without
	// any concurrency check. Used for administrative edits; station
	// moves go through UpdateStation.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetByQRToken retrieves the order whose printed QR code carries
	// the given token. Returns errs.ObjectNotFoundError if no order
	// matches.
	GetByQRToken(ctx context.Context, qrToken string) (*order.Order, error)

	// UpdateStation persists a station move with an optimistic
	// concurrency check: the write only applies if the stored station
	// still equals expectedStation. Returns errs.VersionConflictError
	// when a concurrent scan moved the order first.
	UpdateStation(ctx context.Context, aggregate *order.Order, expectedStation string) error
}
