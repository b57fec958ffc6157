package orderrepo

import (
	"context"
	"errors"

	"traceflow/internal/core/domain/model/kernel"
	"traceflow/internal/core/domain/model/order"
	"traceflow/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order and its line items to the database.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing order to the database. Line items are immutable
// and stay untouched.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&OrderDTO{}).Where("id = ?", dto.ID).Updates(map[string]any{
		"order_no":        dto.OrderNo,
		"qr_token":        dto.QRToken,
		"customer_name":   dto.CustomerName,
		"phone":           dto.Phone,
		"amount":          dto.Amount,
		"deadline":        dto.Deadline,
		"current_station": dto.CurrentStation,
		"completed_at":    dto.CompletedAt,
	})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// UpdateStation persists a station move with a compare-and-swap on the
// stored station. The write only lands when the database row still stands
// at expectedStation; otherwise another scan won the race and a version
// conflict error is returned so the caller can re-read and retry.
func (r *GormOrderRepository) UpdateStation(
	ctx context.Context,
	aggregate *order.Order,
	expectedStation string,
) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	if expectedStation == "" {
		return errs.NewValueIsRequiredError("expectedStation")
	}

	result := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("id = ? AND current_station = ?", aggregate.ID().Bytes(), expectedStation).
		Updates(map[string]any{
			"current_station": aggregate.CurrentStation(),
			"completed_at":    aggregate.CompletedAt(),
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewVersionConflictError("order station", aggregate.OrderNo())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).Preload("Products").First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByQRToken retrieves the order whose printed QR code carries the token.
func (r *GormOrderRepository) GetByQRToken(ctx context.Context, qrToken string) (*order.Order, error) {
	if qrToken == "" {
		return nil, errs.NewValueIsRequiredError("qrToken")
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).Preload("Products").First(&dto, "qr_token = ?", qrToken).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", qrToken)
		}
		return nil, err
	}

	return toDomain(dto)
}
