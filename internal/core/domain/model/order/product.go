package order

import (
	"errors"
	"fmt"

	"traceflow/internal/pkg/errs"
)

// Product is a value object describing one line item of an order:
// what is being made, its dimensions, and its pricing. Products are
// immutable once attached to an order.
type Product struct {
	name       string
	length     float64
	width      float64
	height     float64
	quantity   int
	unit       string
	unitPrice  float64
	totalPrice float64
}

// NewProduct creates a Product line item.
//
// Validation rules:
//   - name is required
//   - dimensions must not be negative (zero means "not measured")
//   - quantity must be positive
//   - prices must not be negative
func NewProduct(
	name string,
	length, width, height float64,
	quantity int,
	unit string,
	unitPrice, totalPrice float64,
) (Product, error) {
	p := Product{}

	if err := errors.Join(
		p.setName(name),
		p.setDimensions(length, width, height),
		p.setQuantity(quantity),
		p.setPricing(unitPrice, totalPrice),
	); err != nil {
		return Product{}, err
	}
	p.unit = unit

	return p, nil
}

// Name returns the product name.
func (p Product) Name() string {
	return p.name
}

// Length returns the product length in centimeters.
func (p Product) Length() float64 {
	return p.length
}

// Width returns the product width in centimeters.
func (p Product) Width() float64 {
	return p.width
}

// Height returns the product height in centimeters.
func (p Product) Height() float64 {
	return p.height
}

// Quantity returns the number of pieces ordered.
func (p Product) Quantity() int {
	return p.quantity
}

// Unit returns the counting unit, for example "个" or "套".
func (p Product) Unit() string {
	return p.unit
}

// UnitPrice returns the price per unit.
func (p Product) UnitPrice() float64 {
	return p.unitPrice
}

// TotalPrice returns the line total.
func (p Product) TotalPrice() float64 {
	return p.totalPrice
}

func (p *Product) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("product name")
	}
	p.name = name
	return nil
}

func (p *Product) setDimensions(length, width, height float64) error {
	if length < 0 || width < 0 || height < 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			"product dimensions",
			fmt.Errorf("%gx%gx%g contains a negative dimension", length, width, height),
		)
	}
	p.length = length
	p.width = width
	p.height = height
	return nil
}

func (p *Product) setQuantity(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			"product quantity",
			fmt.Errorf("%d is not greater than 0", quantity),
		)
	}
	p.quantity = quantity
	return nil
}

func (p *Product) setPricing(unitPrice, totalPrice float64) error {
	if unitPrice < 0 || totalPrice < 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			"product pricing",
			fmt.Errorf("unit price %g or total price %g is negative", unitPrice, totalPrice),
		)
	}
	p.unitPrice = unitPrice
	p.totalPrice = totalPrice
	return nil
}
