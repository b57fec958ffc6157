// Package queries contains read-only operations for the dashboard and
// audit views. Implements the Query side of the CQRS architecture: query
// handlers read the database directly and never touch repositories or
// domain aggregates.
package queries

import (
	"errors"
	"time"

	"traceflow/internal/core/domain/model/kernel"
	"traceflow/internal/pkg/errs"
	"traceflow/internal/pkg/guard"
)

const (
	// DefaultFeedLimit is used when a feed query asks for 0 entries.
	DefaultFeedLimit = 50

	// MaxFeedLimit caps one feed page.
	MaxFeedLimit = 500
)

var (
	ErrGetScanFeedQueryIsNotConstructed = errors.New(
		"GetScanFeedQuery must be created via NewGetScanFeedQuery constructor",
	)
)

// GetScanFeedQuery retrieves scan log entries, newest first. It serves the
// activity feed (all entries), the error feed (rejected only), and
// filtered audit views by worker or time range.
//
// Example:
//
//	query, _ := NewGetScanFeedQuery(20, true, nil, nil, nil)
//	handler := NewGetScanFeedQueryHandler(db)
//	entries, err := handler.Handle(ctx, query)
type GetScanFeedQuery struct { //nolint:recvcheck //using for validation
	limit      int
	errorsOnly bool
	workerID   *kernel.UUID
	from       *time.Time
	to         *time.Time

	guard guard.ConstructorGuard
}

// NewGetScanFeedQuery creates a feed query.
//
// Parameters:
//   - limit: max entries to return; 0 means DefaultFeedLimit, values
//     above MaxFeedLimit are rejected
//   - errorsOnly: only rejected scans
//   - workerID: restrict to one worker (optional)
//   - from, to: restrict to a time range, either bound optional
func NewGetScanFeedQuery(
	limit int,
	errorsOnly bool,
	workerID *kernel.UUID,
	from, to *time.Time,
) (GetScanFeedQuery, error) {
	if limit < 0 || limit > MaxFeedLimit {
		return GetScanFeedQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, 0, MaxFeedLimit)
	}
	if limit == 0 {
		limit = DefaultFeedLimit
	}
	if workerID != nil {
		if err := workerID.Validate(); err != nil {
			return GetScanFeedQuery{}, err
		}
	}
	if from != nil && to != nil && to.Before(*from) {
		return GetScanFeedQuery{}, errs.NewValueIsInvalidError("time range")
	}

	return GetScanFeedQuery{
		limit:      limit,
		errorsOnly: errorsOnly,
		workerID:   workerID,
		from:       from,
		to:         to,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetScanFeedQuery) Validate() error {
	return q.guard.Validate(ErrGetScanFeedQueryIsNotConstructed)
}

// Limit returns the max number of entries to return.
func (q GetScanFeedQuery) Limit() int {
	return q.limit
}

// ErrorsOnly reports whether only rejected scans are requested.
func (q GetScanFeedQuery) ErrorsOnly() bool {
	return q.errorsOnly
}

// WorkerID returns the worker filter, or nil for all workers.
func (q GetScanFeedQuery) WorkerID() *kernel.UUID {
	return q.workerID
}

// From returns the lower time bound, or nil.
func (q GetScanFeedQuery) From() *time.Time {
	return q.from
}

// To returns the upper time bound, or nil.
func (q GetScanFeedQuery) To() *time.Time {
	return q.to
}

// GetScanFeedQueryResponse is one feed entry, denormalized for display.
type GetScanFeedQueryResponse struct {
	ID          kernel.UUID
	OrderNo     string
	WorkerName  string
	Station     string
	ScannerCode string
	RawPayload  string
	Outcome     string
	Message     string
	OccurredAt  time.Time
}
