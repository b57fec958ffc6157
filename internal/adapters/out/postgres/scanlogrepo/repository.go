package scanlogrepo

import (
	"context"

	"traceflow/internal/core/domain/model/kernel"
	"traceflow/internal/core/domain/model/scanlog"

	"gorm.io/gorm"
)

// GormScanLogRepository implements ScanLogRepository using GORM.
type GormScanLogRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormScanLogRepository creates a new GORM scan log repository.
func NewGormScanLogRepository(db *gorm.DB, tracker aggregateTracker) *GormScanLogRepository {
	return &GormScanLogRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add appends a scan log entry. Entries are never updated or deleted.
func (r *GormScanLogRepository) Add(ctx context.Context, entry *scanlog.ScanLog) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	dto := fromDomain(entry)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(entry.ID(), entry)
	return nil
}
