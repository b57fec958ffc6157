package order

import (
	"errors"
	"fmt"
	"time"

	"traceflow/internal/core/domain/model/kernel"
	"traceflow/internal/core/domain/model/pipeline"
	"traceflow/internal/pkg/errs"
	"traceflow/internal/pkg/guard"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not
	// created through NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")
)

// Order is the aggregate root for a production order. It tracks where the
// order currently stands in the pipeline and carries the commercial data
// printed on the work ticket: order number, customer, products, amount,
// and delivery deadline.
//
// Order follows these invariants:
//   - Must have a valid unique identifier, order number, and QR token
//   - The current station always names a station of the configured pipeline
//   - Station moves happen one step at a time through AdvanceTo
//   - The completion timestamp is set exactly when the order reaches the
//     terminal station and never changes afterwards
type Order struct {
	// id is the unique identifier for the order
	id kernel.UUID

	// orderNo is the human-facing order number, e.g. "QY-20260830-001"
	orderNo string

	// qrToken is the stable token encoded in the order's printed QR code
	qrToken string

	// customerName identifies who the order is for
	customerName string

	// phone is the customer contact number (may be empty)
	phone string

	// amount is the total order value
	amount float64

	// deadline is the promised delivery date (nil if open-ended)
	deadline *time.Time

	// products are the line items being produced
	products []Product

	// currentStation names the pipeline station the order stands at
	currentStation string

	// completedAt is set when the order reaches the terminal station
	completedAt *time.Time

	guard guard.ConstructorGuard
}

// NewOrder creates a fresh production order standing at the entry station
// of the given pipeline.
//
// Parameters:
//   - id: unique identifier for the order
//   - orderNo: human-facing order number (required)
//   - qrToken: token encoded in the printed QR code (required)
//   - customerName: customer the order is for (required)
//   - phone: customer contact number (optional)
//   - amount: total order value (must not be negative)
//   - deadline: promised delivery date (optional)
//   - products: line items (may be empty)
//   - pl: the pipeline the order will travel through
func NewOrder(
	id kernel.UUID,
	orderNo string,
	qrToken string,
	customerName string,
	phone string,
	amount float64,
	deadline *time.Time,
	products []Product,
	pl *pipeline.Pipeline,
) (*Order, error) {
	if err := pl.Validate(); err != nil {
		return nil, err
	}

	o := &Order{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setOrderNo(orderNo),
		o.setQRToken(qrToken),
		o.setCustomerName(customerName),
		o.setAmount(amount),
	); err != nil {
		return nil, err
	}

	o.phone = phone
	o.deadline = copyTime(deadline)
	o.products = append([]Product(nil), products...)
	o.currentStation = pl.First().Name()

	return o, nil
}

// RestoreOrder reconstructs an Order aggregate from persistent storage,
// including its current station and completion state. The restored order
// behaves identically to one advanced through normal domain operations.
func RestoreOrder(
	id kernel.UUID,
	orderNo string,
	qrToken string,
	customerName string,
	phone string,
	amount float64,
	deadline *time.Time,
	products []Product,
	currentStation string,
	completedAt *time.Time,
) (*Order, error) {
	o := &Order{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setOrderNo(orderNo),
		o.setQRToken(qrToken),
		o.setCustomerName(customerName),
		o.setAmount(amount),
		o.setCurrentStation(currentStation),
	); err != nil {
		return nil, err
	}

	o.phone = phone
	o.deadline = copyTime(deadline)
	o.products = append([]Product(nil), products...)
	o.completedAt = copyTime(completedAt)

	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// OrderNo returns the human-facing order number.
func (o *Order) OrderNo() string {
	return o.orderNo
}

// QRToken returns the token encoded in the order's printed QR code.
func (o *Order) QRToken() string {
	return o.qrToken
}

// CustomerName returns the customer the order is for.
func (o *Order) CustomerName() string {
	return o.customerName
}

// Phone returns the customer contact number. May be empty.
func (o *Order) Phone() string {
	return o.phone
}

// Amount returns the total order value.
func (o *Order) Amount() float64 {
	return o.amount
}

// Deadline returns the promised delivery date, or nil if open-ended.
func (o *Order) Deadline() *time.Time {
	return copyTime(o.deadline)
}

// Products returns a copy of the order's line items.
func (o *Order) Products() []Product {
	return append([]Product(nil), o.products...)
}

// CurrentStation returns the name of the pipeline station the order
// currently stands at.
func (o *Order) CurrentStation() string {
	return o.currentStation
}

// CompletedAt returns when the order reached the terminal station,
// or nil if it is still in progress.
func (o *Order) CompletedAt() *time.Time {
	return copyTime(o.completedAt)
}

// IsCompleted reports whether the order has reached the terminal station.
func (o *Order) IsCompleted() bool {
	return o.completedAt != nil
}

// AdvanceTo moves the order to the target station.
//
// The move is only allowed when the target is the immediate successor of
// the current station in the given pipeline; skipping stations or moving
// backwards is rejected. When the target is the terminal station the
// completion timestamp is stamped with the given time.
//
// Parameters:
//   - pl: the pipeline governing station order
//   - target: the station to move to
//   - at: the time of the move, used for the completion stamp
func (o *Order) AdvanceTo(pl *pipeline.Pipeline, target pipeline.Station, at time.Time) error {
	if err := pl.Validate(); err != nil {
		return err
	}
	if o.completedAt != nil {
		return errs.NewValueIsInvalidErrorWithCause(
			"order station",
			fmt.Errorf("order %s is already completed", o.orderNo),
		)
	}

	currentOrdinal, err := pl.Ordinal(o.currentStation)
	if err != nil {
		return err
	}
	targetOrdinal, err := pl.Ordinal(target.Name())
	if err != nil {
		return err
	}
	if targetOrdinal != currentOrdinal+1 {
		return errs.NewValueIsInvalidErrorWithCause(
			"target station",
			fmt.Errorf("%s does not directly follow %s", target.Name(), o.currentStation),
		)
	}

	o.currentStation = target.Name()
	if pl.IsTerminal(target.Name()) {
		stamp := at
		o.completedAt = &stamp
	}
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setOrderNo(orderNo string) error {
	if orderNo == "" {
		return errs.NewValueIsRequiredError("orderNo")
	}
	o.orderNo = orderNo
	return nil
}

func (o *Order) setQRToken(qrToken string) error {
	if qrToken == "" {
		return errs.NewValueIsRequiredError("qrToken")
	}
	o.qrToken = qrToken
	return nil
}

func (o *Order) setCustomerName(customerName string) error {
	if customerName == "" {
		return errs.NewValueIsRequiredError("customerName")
	}
	o.customerName = customerName
	return nil
}

func (o *Order) setAmount(amount float64) error {
	if amount < 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			"amount",
			fmt.Errorf("%g is negative", amount),
		)
	}
	o.amount = amount
	return nil
}

func (o *Order) setCurrentStation(currentStation string) error {
	if currentStation == "" {
		return errs.NewValueIsRequiredError("currentStation")
	}
	o.currentStation = currentStation
	return nil
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
