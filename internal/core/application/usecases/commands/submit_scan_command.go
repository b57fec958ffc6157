package commands

import (
	"errors"
	"time"

	"traceflow/internal/core/domain/model/kernel"
	"traceflow/internal/pkg/guard"
)

var (
	ErrSubmitScanCommandIsNotConstructed = errors.New(
		"SubmitScanCommand must be created via NewSubmitScanCommand constructor",
	)
	ErrRawPayloadIsRequired = errors.New("raw payload is required")
	ErrScanTimeIsRequired   = errors.New("scan time is required")
)

// SubmitScanCommand represents one barcode scan submitted for processing.
// It carries the payload exactly as read plus the identity context: scans
// from registered handheld scanners identify the worker through the
// payload prefix, while scans from the app carry an explicit worker ID.
//
// Example:
//
//	cmd, err := NewSubmitScanCommand("XL1#ORDER-20260830-001", nil, time.Now())
//	if err != nil {
//	    return fmt.Errorf("invalid scan: %w", err)
//	}
//
//	handler := NewSubmitScanCommandHandler(uowFactory, policy)
//	result, err := handler.Handle(ctx, cmd)
type SubmitScanCommand struct { //nolint:recvcheck //using for validation
	rawPayload string
	workerID   *kernel.UUID
	at         time.Time

	guard guard.ConstructorGuard
}

// NewSubmitScanCommand creates a command for one scan attempt.
//
// Parameters:
//   - rawPayload: the scan payload exactly as received (required)
//   - workerID: the submitting worker, when known from the session
//     (nil for scans identified by their scanner prefix)
//   - at: when the scan happened (required)
func NewSubmitScanCommand(rawPayload string, workerID *kernel.UUID, at time.Time) (SubmitScanCommand, error) {
	cmd := SubmitScanCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setRawPayload(rawPayload),
		cmd.setWorkerID(workerID),
		cmd.setAt(at),
	); err != nil {
		return SubmitScanCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrSubmitScanCommandIsNotConstructed if validation fails.
func (c SubmitScanCommand) Validate() error {
	return c.guard.Validate(ErrSubmitScanCommandIsNotConstructed)
}

// RawPayload returns the scan payload exactly as received.
func (c SubmitScanCommand) RawPayload() string {
	return c.rawPayload
}

// WorkerID returns the submitting worker's identifier, or nil when the
// scan is identified by its scanner prefix instead.
func (c SubmitScanCommand) WorkerID() *kernel.UUID {
	return c.workerID
}

// At returns when the scan happened.
func (c SubmitScanCommand) At() time.Time {
	return c.at
}

func (c *SubmitScanCommand) setRawPayload(rawPayload string) error {
	if rawPayload == "" {
		return ErrRawPayloadIsRequired
	}

	c.rawPayload = rawPayload
	return nil
}

func (c *SubmitScanCommand) setWorkerID(workerID *kernel.UUID) error {
	if workerID != nil {
		if err := workerID.Validate(); err != nil {
			return err
		}
	}

	c.workerID = workerID
	return nil
}

func (c *SubmitScanCommand) setAt(at time.Time) error {
	if at.IsZero() {
		return ErrScanTimeIsRequired
	}

	c.at = at
	return nil
}
