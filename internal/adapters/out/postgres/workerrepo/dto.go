// Package workerrepo provides data transfer objects and mapping functions for worker persistence.
// This package implements the repository pattern for the worker domain aggregate, handling
// the conversion between domain entities and database representations.
package workerrepo

import (
	"traceflow/internal/core/domain/model/kernel"
	"traceflow/internal/core/domain/model/worker"

	"github.com/google/uuid"
)

// WorkerDTO represents the database structure for persisting worker aggregates.
// The scanner code is indexed for the hot lookup on every hardware scan.
// Workers without a scanner store the empty string, so the index is not unique.
type WorkerDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string
	Station     string `gorm:"index"`
	ScannerCode string `gorm:"index"`
	Phone       string
}

// TableName specifies the database table name for worker entities.
func (WorkerDTO) TableName() string {
	return "workers"
}

// fromDomain converts a worker domain aggregate to its database representation.
func fromDomain(aggregate *worker.Worker) WorkerDTO {
	return WorkerDTO{
		ID:          aggregate.ID().Bytes(),
		Name:        aggregate.Name(),
		Station:     aggregate.Station(),
		ScannerCode: aggregate.ScannerCode(),
		Phone:       aggregate.Phone(),
	}
}

// toDomain converts a database DTO to a worker domain aggregate.
func toDomain(dto WorkerDTO) (*worker.Worker, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	return worker.RestoreWorker(id, dto.Name, dto.Station, dto.ScannerCode, dto.Phone)
}
