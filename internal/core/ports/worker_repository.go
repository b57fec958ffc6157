// Package ports defines repository interfaces for the workflow domain.
// These interfaces establish contracts between the domain layer and
// infrastructure, enabling dependency inversion and testability.
package ports

import (
	"context"

	"traceflow/internal/core/domain/model/kernel"
	"traceflow/internal/core/domain/model/worker"
)

// WorkerRepository defines the persistence contract for worker aggregates.
type WorkerRepository interface {
	// Add persists a new worker aggregate to storage.
	// The worker must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *worker.Worker) error

	// Update persists changes to an existing worker aggregate.
	Update(ctx context.Context, aggregate *worker.Worker) error

	// Get retrieves a worker aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*worker.Worker, error)

	// GetByScannerCode retrieves the worker whose registered scanner
	// prepends the given code, including the trailing '#'. Returns
	// errs.ObjectNotFoundError if no worker owns the scanner.
	GetByScannerCode(ctx context.Context, scannerCode string) (*worker.Worker, error)
}
