package commands

import (
	"context"
	"errors"
	"fmt"

	"traceflow/internal/core/domain/model/kernel"
	"traceflow/internal/core/domain/model/order"
	"traceflow/internal/core/domain/model/pipeline"
	"traceflow/internal/core/domain/model/scancode"
	"traceflow/internal/core/domain/model/scanlog"
	"traceflow/internal/core/domain/model/worker"
	"traceflow/internal/core/domain/services"
	"traceflow/internal/pkg/errs"
)

var (
	// ErrWorkerNotFound is returned when a scan carries no resolvable
	// worker identity.
	ErrWorkerNotFound = errors.New("worker not found")

	// ErrScannerNotRegistered is returned when the payload's scanner
	// prefix does not belong to any worker.
	ErrScannerNotRegistered = errors.New("scanner is not registered")

	// ErrOrderNotFound is returned when the order token does not match
	// any order.
	ErrOrderNotFound = errors.New("order not found")

	// ErrEmptyOrderToken is returned when the payload carries no order
	// token, for example a prefix-only read from a garbled code.
	ErrEmptyOrderToken = errors.New("scan payload has no order token")

	// ErrUnknownStation is returned when the worker's station is not
	// part of the configured pipeline.
	ErrUnknownStation = errors.New("station is not part of the pipeline")

	// ErrOutOfSequence is returned when the worker's station is ahead
	// of the order.
	ErrOutOfSequence = errors.New("scan is out of sequence")

	// ErrAlreadyCompleted is returned when the order has already
	// finished the whole pipeline.
	ErrAlreadyCompleted = errors.New("order is already completed")

	// ErrTransientConflict is returned when the scan repeatedly lost
	// the station update race. The client should retry the scan.
	ErrTransientConflict = errors.New("scan lost a concurrent update, retry")
)

// SubmitScanResult reports what one scan did, for display back to the
// operator at the station.
type SubmitScanResult struct {
	// Advanced is true when the order moved forward one station.
	Advanced bool

	// Duplicate is true when the order already passed the worker's
	// station and nothing changed.
	Duplicate bool

	// Completed is true when this scan finished the whole pipeline.
	Completed bool

	// OrderNo is the order number of the scanned order.
	OrderNo string

	// Station is the station the order stands at after the scan.
	Station string

	// WorkerName identifies who submitted the scan.
	WorkerName string

	// Message is the display message shown to the operator.
	Message string
}

// SubmitScanCommandHandler processes barcode scans: it resolves the worker
// and order, judges the scan against the pipeline ordering rules, moves
// the order when the scan is in sequence, and appends the audit entry.
// The station move and the log entry commit atomically.
//
// Concurrent scans of the same order are serialized by an optimistic check
// on the stored station. A scan that loses the race is re-evaluated once
// against the fresh state; the usual outcome of the rerun is Duplicate.
//
// Example:
//
//	handler := NewSubmitScanCommandHandler(uowFactory, policy)
//	result, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, ErrOutOfSequence):
//	    // a station in between has not confirmed its work yet
//	case errors.Is(err, ErrTransientConflict):
//	    // ask the operator to scan again
//	case err != nil:
//	    // other failure
//	default:
//	    fmt.Println(result.Message)
//	}
type SubmitScanCommandHandler struct {
	uowFactory ScanUoWFactory
	policy     services.ScanPolicy
}

// NewSubmitScanCommandHandler creates a handler for scan processing.
// Requires a ScanUoWFactory for transactional persistence and the
// ScanPolicy bound to the configured pipeline.
func NewSubmitScanCommandHandler(uowFactory ScanUoWFactory, policy services.ScanPolicy) SubmitScanCommandHandler {
	return SubmitScanCommandHandler{
		uowFactory: uowFactory,
		policy:     policy,
	}
}

// Handle processes one scan.
//
// Rejected scans are still audited: whenever the attempt can be attributed
// to a worker or at least to a scanner prefix, the log entry commits even
// though the order does not move. Only transaction-level failures leave no
// trace.
func (h SubmitScanCommandHandler) Handle(ctx context.Context, cmd SubmitScanCommand) (SubmitScanResult, error) {
	if err := cmd.Validate(); err != nil {
		return SubmitScanResult{}, err
	}

	code := scancode.Parse(cmd.RawPayload())

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return SubmitScanResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	w, err := h.resolveWorker(ctx, uow, cmd, code)
	if errors.Is(err, errs.ErrObjectNotFound) {
		if !code.HasScannerCode() {
			return SubmitScanResult{}, ErrWorkerNotFound
		}
		message := fmt.Sprintf("scanner %s is not registered", code.ScannerCode())
		if err = h.reject(ctx, uow, cmd, code, nil, nil, message); err != nil {
			return SubmitScanResult{}, err
		}
		return SubmitScanResult{}, ErrScannerNotRegistered
	}
	if err != nil {
		return SubmitScanResult{}, err
	}

	if !code.HasOrderToken() {
		message := "scan payload carries no order token"
		if err = h.reject(ctx, uow, cmd, code, nil, w, message); err != nil {
			return SubmitScanResult{}, err
		}
		return SubmitScanResult{}, ErrEmptyOrderToken
	}

	pl := h.policy.Pipeline()
	if !pl.IsValidStation(w.Station()) {
		message := fmt.Sprintf("station %s is not part of the pipeline", w.Station())
		if err = h.reject(ctx, uow, cmd, code, nil, w, message); err != nil {
			return SubmitScanResult{}, err
		}
		return SubmitScanResult{}, ErrUnknownStation
	}

	o, err := uow.OrderRepository().GetByQRToken(ctx, code.OrderToken())
	if errors.Is(err, errs.ErrObjectNotFound) {
		message := fmt.Sprintf("order %s not found", code.OrderToken())
		if err = h.reject(ctx, uow, cmd, code, nil, w, message); err != nil {
			return SubmitScanResult{}, err
		}
		return SubmitScanResult{}, ErrOrderNotFound
	}
	if err != nil {
		return SubmitScanResult{}, err
	}

	for attempt := 0; ; attempt++ {
		decision, evalErr := h.policy.Evaluate(o, w.Station())
		if evalErr != nil {
			return SubmitScanResult{}, evalErr
		}

		switch decision.Kind {
		case services.Advance:
			fresh, advErr := h.advance(ctx, uow, o, decision.Target, cmd)
			if errors.Is(advErr, errs.ErrVersionConflict) {
				if attempt > 0 || fresh == nil {
					return SubmitScanResult{}, ErrTransientConflict
				}
				o = fresh
				continue
			}
			if advErr != nil {
				return SubmitScanResult{}, advErr
			}

			message := fmt.Sprintf("advanced to %s", o.CurrentStation())
			if o.IsCompleted() {
				message = "order completed"
			}
			if err = h.accept(ctx, uow, cmd, code, o, w, message); err != nil {
				return SubmitScanResult{}, err
			}
			return SubmitScanResult{
				Advanced:   true,
				Completed:  o.IsCompleted(),
				OrderNo:    o.OrderNo(),
				Station:    o.CurrentStation(),
				WorkerName: w.Name(),
				Message:    message,
			}, nil

		case services.Duplicate:
			// The repeat is harmless for the caller but still a
			// rejection in the audit trail: nothing moved.
			message := "already processed at this station"
			if err = h.reject(ctx, uow, cmd, code, o, w, message); err != nil {
				return SubmitScanResult{}, err
			}
			return SubmitScanResult{
				Duplicate:  true,
				Completed:  o.IsCompleted(),
				OrderNo:    o.OrderNo(),
				Station:    o.CurrentStation(),
				WorkerName: w.Name(),
				Message:    message,
			}, nil

		case services.OutOfSequence:
			message := fmt.Sprintf("out of sequence: order is still at %s", o.CurrentStation())
			if err = h.reject(ctx, uow, cmd, code, o, w, message); err != nil {
				return SubmitScanResult{}, err
			}
			return SubmitScanResult{}, ErrOutOfSequence

		case services.AlreadyCompleted:
			if err = h.reject(ctx, uow, cmd, code, o, w, "order is already completed"); err != nil {
				return SubmitScanResult{}, err
			}
			return SubmitScanResult{}, ErrAlreadyCompleted

		default:
			return SubmitScanResult{}, errs.NewValueIsInvalidError("scan decision")
		}
	}
}

// resolveWorker finds the scanning worker: by scanner prefix when the
// payload carries one, otherwise by the explicit worker ID from the
// session.
func (h SubmitScanCommandHandler) resolveWorker(
	ctx context.Context,
	uow ScanUoW,
	cmd SubmitScanCommand,
	code scancode.ScanCode,
) (*worker.Worker, error) {
	if code.HasScannerCode() {
		return uow.WorkerRepository().GetByScannerCode(ctx, code.ScannerCode())
	}
	if cmd.WorkerID() != nil {
		return uow.WorkerRepository().Get(ctx, *cmd.WorkerID())
	}
	return nil, errs.NewObjectNotFoundError("workerID", cmd.RawPayload())
}

// advance applies the station move with an optimistic check on the stored
// station. On a lost race it re-reads the order and returns it for
// re-evaluation instead of an error.
func (h SubmitScanCommandHandler) advance(
	ctx context.Context,
	uow ScanUoW,
	o *order.Order,
	target pipeline.Station,
	cmd SubmitScanCommand,
) (*order.Order, error) {
	expected := o.CurrentStation()
	if err := o.AdvanceTo(h.policy.Pipeline(), target, cmd.At()); err != nil {
		return nil, err
	}

	err := uow.OrderRepository().UpdateStation(ctx, o, expected)
	if errors.Is(err, errs.ErrVersionConflict) {
		fresh, readErr := uow.OrderRepository().Get(ctx, o.ID())
		if readErr != nil {
			return nil, readErr
		}
		return fresh, err
	}
	return nil, err
}

// accept appends a Success log entry and commits the transaction.
func (h SubmitScanCommandHandler) accept(
	ctx context.Context,
	uow ScanUoW,
	cmd SubmitScanCommand,
	code scancode.ScanCode,
	o *order.Order,
	w *worker.Worker,
	message string,
) error {
	if err := h.appendLog(ctx, uow, cmd, code, o, w, scanlog.Success, message); err != nil {
		return err
	}
	return uow.Commit(ctx)
}

// reject appends a Rejected log entry and commits the transaction.
// The order does not move, but the audit entry must survive.
func (h SubmitScanCommandHandler) reject(
	ctx context.Context,
	uow ScanUoW,
	cmd SubmitScanCommand,
	code scancode.ScanCode,
	o *order.Order,
	w *worker.Worker,
	message string,
) error {
	if err := h.appendLog(ctx, uow, cmd, code, o, w, scanlog.Rejected, message); err != nil {
		return err
	}
	return uow.Commit(ctx)
}

func (h SubmitScanCommandHandler) appendLog(
	ctx context.Context,
	uow ScanUoW,
	cmd SubmitScanCommand,
	code scancode.ScanCode,
	o *order.Order,
	w *worker.Worker,
	outcome scanlog.Outcome,
	message string,
) error {
	entry, err := scanlog.NewScanLog(
		kernel.NewUUID(), cmd.RawPayload(), code.ScannerCode(), outcome, message, cmd.At())
	if err != nil {
		return err
	}

	if o != nil {
		if err = entry.AttachOrder(o.ID(), o.OrderNo()); err != nil {
			return err
		}
	}
	if w != nil {
		if err = entry.AttachWorker(w.ID(), w.Name(), w.Station()); err != nil {
			return err
		}
	}

	return uow.ScanLogRepository().Add(ctx, entry)
}
