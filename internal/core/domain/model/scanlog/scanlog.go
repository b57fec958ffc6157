package scanlog

import (
	"errors"
	"time"

	"traceflow/internal/core/domain/model/kernel"
	"traceflow/internal/pkg/errs"
	"traceflow/internal/pkg/guard"
)

var (
	// ErrScanLogIsNotConstructed is returned when a ScanLog instance was not
	// created through NewScanLog or RestoreScanLog.
	ErrScanLogIsNotConstructed = errors.New("ScanLog must be created via NewScanLog or RestoreScanLog constructor")
)

// ScanLog is the immutable audit record of one scan attempt. An entry is
// written for every attempt, whether it advanced an order or was refused,
// so the log doubles as the activity feed and the error feed.
//
// References to the order and worker are weak: a log entry keeps the
// identifiers and display names it captured at scan time and stays valid
// even if the referenced order or worker is later changed or removed.
// Entries for unresolvable scans (unknown order token, unregistered
// scanner) simply leave the corresponding references empty.
type ScanLog struct {
	// id is the unique identifier for the log entry
	id kernel.UUID

	// orderID references the scanned order (nil if unresolved)
	orderID *kernel.UUID

	// orderNo is the order number captured at scan time
	orderNo string

	// workerID references the scanning worker (nil if unresolved)
	workerID *kernel.UUID

	// workerName is the worker name captured at scan time
	workerName string

	// station is the station the scan was judged against
	station string

	// scannerCode is the scanner identity prefix from the payload
	scannerCode string

	// rawPayload is the scan payload exactly as received
	rawPayload string

	// outcome classifies how the attempt ended
	outcome Outcome

	// message is the display message shown to the operator
	message string

	// occurredAt is when the scan happened
	occurredAt time.Time

	guard guard.ConstructorGuard
}

// NewScanLog creates a log entry for a scan attempt. Order and worker
// attribution is attached afterwards with AttachOrder and AttachWorker,
// since either may be unresolvable for a rejected scan.
//
// Parameters:
//   - id: unique identifier for the entry
//   - rawPayload: the scan payload exactly as received (required)
//   - scannerCode: scanner identity prefix from the payload (optional)
//   - outcome: how the attempt ended (Success or Rejected)
//   - message: display message shown to the operator (required)
//   - occurredAt: when the scan happened (required)
func NewScanLog(
	id kernel.UUID,
	rawPayload string,
	scannerCode string,
	outcome Outcome,
	message string,
	occurredAt time.Time,
) (*ScanLog, error) {
	l := &ScanLog{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		l.setID(id),
		l.setRawPayload(rawPayload),
		l.setOutcome(outcome),
		l.setMessage(message),
		l.setOccurredAt(occurredAt),
	); err != nil {
		return nil, err
	}

	l.scannerCode = scannerCode

	return l, nil
}

// RestoreScanLog reconstructs a ScanLog from persistent storage.
func RestoreScanLog(
	id kernel.UUID,
	orderID *kernel.UUID,
	orderNo string,
	workerID *kernel.UUID,
	workerName string,
	station string,
	scannerCode string,
	rawPayload string,
	outcome Outcome,
	message string,
	occurredAt time.Time,
) (*ScanLog, error) {
	l, err := NewScanLog(id, rawPayload, scannerCode, outcome, message, occurredAt)
	if err != nil {
		return nil, err
	}

	if orderID != nil {
		if err = l.AttachOrder(*orderID, orderNo); err != nil {
			return nil, err
		}
	}
	if workerID != nil {
		if err = l.AttachWorker(*workerID, workerName, station); err != nil {
			return nil, err
		}
	}

	return l, nil
}

// AttachOrder records which order the scan resolved to.
func (l *ScanLog) AttachOrder(orderID kernel.UUID, orderNo string) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	l.orderID = &orderID
	l.orderNo = orderNo
	return nil
}

// AttachWorker records which worker submitted the scan and the station
// the attempt was judged against.
func (l *ScanLog) AttachWorker(workerID kernel.UUID, workerName, station string) error {
	if err := workerID.Validate(); err != nil {
		return err
	}
	l.workerID = &workerID
	l.workerName = workerName
	l.station = station
	return nil
}

// Validate ensures the ScanLog instance was properly constructed.
func (l *ScanLog) Validate() error {
	if l == nil {
		return ErrScanLogIsNotConstructed
	}
	return l.guard.Validate(ErrScanLogIsNotConstructed)
}

// ID returns the entry's unique identifier.
func (l *ScanLog) ID() kernel.UUID {
	return l.id
}

// OrderID returns the referenced order's identifier, or nil if the scan
// never resolved to an order.
func (l *ScanLog) OrderID() *kernel.UUID {
	return l.orderID
}

// OrderNo returns the order number captured at scan time. May be empty.
func (l *ScanLog) OrderNo() string {
	return l.orderNo
}

// WorkerID returns the scanning worker's identifier, or nil if the scan
// never resolved to a worker.
func (l *ScanLog) WorkerID() *kernel.UUID {
	return l.workerID
}

// WorkerName returns the worker name captured at scan time. May be empty.
func (l *ScanLog) WorkerName() string {
	return l.workerName
}

// Station returns the station the scan was judged against. May be empty.
func (l *ScanLog) Station() string {
	return l.station
}

// ScannerCode returns the scanner identity prefix from the payload.
// May be empty.
func (l *ScanLog) ScannerCode() string {
	return l.scannerCode
}

// RawPayload returns the scan payload exactly as received.
func (l *ScanLog) RawPayload() string {
	return l.rawPayload
}

// Outcome returns how the attempt ended.
func (l *ScanLog) Outcome() Outcome {
	return l.outcome
}

// Message returns the display message shown to the operator.
func (l *ScanLog) Message() string {
	return l.message
}

// OccurredAt returns when the scan happened.
func (l *ScanLog) OccurredAt() time.Time {
	return l.occurredAt
}

func (l *ScanLog) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	l.id = id
	return nil
}

func (l *ScanLog) setRawPayload(rawPayload string) error {
	if rawPayload == "" {
		return errs.NewValueIsRequiredError("rawPayload")
	}
	l.rawPayload = rawPayload
	return nil
}

func (l *ScanLog) setOutcome(outcome Outcome) error {
	if err := outcome.Validate(); err != nil {
		return err
	}
	l.outcome = outcome
	return nil
}

func (l *ScanLog) setMessage(message string) error {
	if message == "" {
		return errs.NewValueIsRequiredError("message")
	}
	l.message = message
	return nil
}

func (l *ScanLog) setOccurredAt(occurredAt time.Time) error {
	if occurredAt.IsZero() {
		return errs.NewValueIsRequiredError("occurredAt")
	}
	l.occurredAt = occurredAt
	return nil
}
