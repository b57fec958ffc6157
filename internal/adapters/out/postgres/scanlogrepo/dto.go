// Package scanlogrepo provides data transfer objects and mapping functions for
// scan log persistence. The scan log is append-only: entries are written once
// alongside the order mutation and read back through the query side.
package scanlogrepo

import (
	"time"

	"traceflow/internal/core/domain/model/scanlog"

	"github.com/google/uuid"
)

// ScanLogDTO represents the database structure for persisting scan log entries.
// Order and worker references stay nullable because a rejected scan may never
// resolve either one. The outcome and occurrence columns carry indexes for the
// dashboard aggregations that filter on them.
type ScanLogDTO struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID     *uuid.UUID `gorm:"type:uuid;index"`
	OrderNo     string     `gorm:"index"`
	WorkerID    *uuid.UUID `gorm:"type:uuid;index"`
	WorkerName  string
	Station     string
	ScannerCode string
	RawPayload  string
	Outcome     int       `gorm:"index"`
	Message     string
	OccurredAt  time.Time `gorm:"index"`
}

// TableName specifies the database table name for scan log entries.
func (ScanLogDTO) TableName() string {
	return "scan_logs"
}

// fromDomain converts a scan log domain entity to its database representation.
func fromDomain(entry *scanlog.ScanLog) ScanLogDTO {
	var orderID *uuid.UUID
	if id := entry.OrderID(); id != nil {
		raw := id.Bytes()
		orderID = &raw
	}

	var workerID *uuid.UUID
	if id := entry.WorkerID(); id != nil {
		raw := id.Bytes()
		workerID = &raw
	}

	return ScanLogDTO{
		ID:          entry.ID().Bytes(),
		OrderID:     orderID,
		OrderNo:     entry.OrderNo(),
		WorkerID:    workerID,
		WorkerName:  entry.WorkerName(),
		Station:     entry.Station(),
		ScannerCode: entry.ScannerCode(),
		RawPayload:  entry.RawPayload(),
		Outcome:     int(entry.Outcome()),
		Message:     entry.Message(),
		OccurredAt:  entry.OccurredAt(),
	}
}
