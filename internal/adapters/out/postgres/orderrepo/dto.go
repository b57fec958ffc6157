// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"time"

	"traceflow/internal/core/domain/model/kernel"
	"traceflow/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Maps order domain entities to relational database tables with proper indexing
// for efficient lookup by QR token and aggregation by current station.
type OrderDTO struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderNo        string     `gorm:"uniqueIndex"`
	QRToken        string     `gorm:"column:qr_token;uniqueIndex"`
	CustomerName   string
	Phone          string
	Amount         float64
	Deadline       *time.Time `gorm:"index"`
	CurrentStation string     `gorm:"index"`
	CompletedAt    *time.Time

	Products []ProductDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for order entities.
// Overrides GORM's default naming convention to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// ProductDTO represents one order line item as a child row of the order table.
type ProductDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID    uuid.UUID `gorm:"type:uuid;index"`
	Name       string
	Length     float64
	Width      float64
	Height     float64
	Quantity   int
	Unit       string
	UnitPrice  float64
	TotalPrice float64
}

// TableName specifies the database table name for order line items.
func (ProductDTO) TableName() string {
	return "order_products"
}

// fromDomain converts an order domain aggregate to its database representation.
// Line items get fresh row identifiers; they are immutable and only written on Add.
func fromDomain(aggregate *order.Order) OrderDTO {
	products := aggregate.Products()
	productDTOs := make([]ProductDTO, 0, len(products))
	for _, p := range products {
		productDTOs = append(productDTOs, ProductDTO{
			ID:         uuid.New(),
			OrderID:    aggregate.ID().Bytes(),
			Name:       p.Name(),
			Length:     p.Length(),
			Width:      p.Width(),
			Height:     p.Height(),
			Quantity:   p.Quantity(),
			Unit:       p.Unit(),
			UnitPrice:  p.UnitPrice(),
			TotalPrice: p.TotalPrice(),
		})
	}

	return OrderDTO{
		ID:             aggregate.ID().Bytes(),
		OrderNo:        aggregate.OrderNo(),
		QRToken:        aggregate.QRToken(),
		CustomerName:   aggregate.CustomerName(),
		Phone:          aggregate.Phone(),
		Amount:         aggregate.Amount(),
		Deadline:       aggregate.Deadline(),
		CurrentStation: aggregate.CurrentStation(),
		CompletedAt:    aggregate.CompletedAt(),
		Products:       productDTOs,
	}
}

// toDomain converts a database DTO to an order domain aggregate.
// Reconstructs the complete aggregate including station progress using RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	products := make([]order.Product, 0, len(dto.Products))
	for _, p := range dto.Products {
		product, productErr := order.NewProduct(
			p.Name,
			p.Length, p.Width, p.Height,
			p.Quantity,
			p.Unit,
			p.UnitPrice, p.TotalPrice,
		)
		if productErr != nil {
			return nil, productErr
		}
		products = append(products, product)
	}

	return order.RestoreOrder(
		id,
		dto.OrderNo,
		dto.QRToken,
		dto.CustomerName,
		dto.Phone,
		dto.Amount,
		dto.Deadline,
		products,
		dto.CurrentStation,
		dto.CompletedAt,
	)
}
