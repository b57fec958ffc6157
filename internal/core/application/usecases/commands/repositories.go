// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"traceflow/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// WorkerRepoFactory provides access to worker repository within a transaction.
	WorkerRepoFactory interface {
		WorkerRepository() ports.WorkerRepository
	}

	// ScanLogRepoFactory provides access to the scan log repository within a transaction.
	ScanLogRepoFactory interface {
		ScanLogRepository() ports.ScanLogRepository
	}

	// ScanUoW manages transactions for scan processing. A scan touches all
	// three aggregates: it reads the worker, conditionally moves the order,
	// and always appends a log entry, atomically.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   orderRepo := uow.OrderRepository()
	//   logRepo := uow.ScanLogRepository()
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	ScanUoW interface {
		TxManager
		OrderRepoFactory
		WorkerRepoFactory
		ScanLogRepoFactory
	}

	// ScanUoWFactory creates new scan unit of work instances.
	ScanUoWFactory interface {
		Create() ScanUoW
	}
)
