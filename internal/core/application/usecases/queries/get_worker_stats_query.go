package queries

import (
	"errors"
	"time"

	"traceflow/internal/core/domain/model/kernel"
	"traceflow/internal/pkg/errs"
	"traceflow/internal/pkg/guard"
)

var (
	ErrGetWorkerStatsQueryIsNotConstructed = errors.New(
		"GetWorkerStatsQuery must be created via NewGetWorkerStatsQuery constructor",
	)
)

// GetWorkerStatsQuery retrieves per-worker workload statistics over a
// date range, optionally narrowed to one worker. Backs the workload
// report in the admin view.
//
// Example:
//
//	query, _ := NewGetWorkerStatsQuery(monthStart, monthEnd, nil)
//	stats, err := handler.Handle(ctx, query)
type GetWorkerStatsQuery struct { //nolint:recvcheck //using for validation
	start    time.Time
	end      time.Time
	workerID *kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetWorkerStatsQuery creates a workload statistics query.
//
// Parameters:
//   - start, end: inclusive date range (required, end not before start)
//   - workerID: restrict to one worker (optional)
func NewGetWorkerStatsQuery(start, end time.Time, workerID *kernel.UUID) (GetWorkerStatsQuery, error) {
	q := GetWorkerStatsQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		q.setRange(start, end),
		q.setWorkerID(workerID),
	); err != nil {
		return GetWorkerStatsQuery{}, err
	}

	return q, nil
}

// Validate ensures the query was created through the constructor.
func (q GetWorkerStatsQuery) Validate() error {
	return q.guard.Validate(ErrGetWorkerStatsQueryIsNotConstructed)
}

// Start returns the inclusive lower bound of the range.
func (q GetWorkerStatsQuery) Start() time.Time {
	return q.start
}

// End returns the inclusive upper bound of the range.
func (q GetWorkerStatsQuery) End() time.Time {
	return q.end
}

// WorkerID returns the worker filter, or nil for all workers.
func (q GetWorkerStatsQuery) WorkerID() *kernel.UUID {
	return q.workerID
}

func (q *GetWorkerStatsQuery) setRange(start, end time.Time) error {
	if start.IsZero() {
		return errs.NewValueIsRequiredError("start")
	}
	if end.IsZero() {
		return errs.NewValueIsRequiredError("end")
	}
	if end.Before(start) {
		return errs.NewValueIsInvalidError("time range")
	}
	q.start = start
	q.end = end
	return nil
}

func (q *GetWorkerStatsQuery) setWorkerID(workerID *kernel.UUID) error {
	if workerID != nil {
		if err := workerID.Validate(); err != nil {
			return err
		}
	}
	q.workerID = workerID
	return nil
}

// WorkerTotal is one worker's successful scan count over the range.
type WorkerTotal struct {
	WorkerID   kernel.UUID
	WorkerName string
	Count      int
}

// GetWorkerStatsQueryResponse is the workload report for the filter:
// per-worker totals, a zero-filled daily series, how the work spread
// over stations, and the newest matching log entries.
type GetWorkerStatsQueryResponse struct {
	Totals              []WorkerTotal
	DailySeries         []TrendPoint
	StationDistribution []StationCount
	RecentLogs          []GetScanFeedQueryResponse
}
