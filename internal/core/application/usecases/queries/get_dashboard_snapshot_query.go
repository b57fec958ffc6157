package queries

import (
	"errors"
	"time"

	"traceflow/internal/core/domain/model/kernel"
	"traceflow/internal/pkg/errs"
	"traceflow/internal/pkg/guard"
)

var (
	ErrGetDashboardSnapshotQueryIsNotConstructed = errors.New(
		"GetDashboardSnapshotQuery must be created via NewGetDashboardSnapshotQuery constructor",
	)
)

// Period selects the trend window of a dashboard snapshot.
type Period string

const (
	// PeriodWeek buckets the last 7 days, one point per day.
	PeriodWeek Period = "week"

	// PeriodMonth buckets the last 30 days, one point per day.
	PeriodMonth Period = "month"

	// PeriodYear buckets the last 12 months, one point per month.
	PeriodYear Period = "year"
)

// Validate checks that the period is one of week, month, year.
func (p Period) Validate() error {
	switch p {
	case PeriodWeek, PeriodMonth, PeriodYear:
		return nil
	default:
		return errs.NewValueIsInvalidError("period")
	}
}

// GetDashboardSnapshotQuery retrieves the aggregated dashboard view:
// today's output, the worker leaderboard, where every order currently
// stands, the output trend, orders due soon, and the newest log entries.
//
// Example:
//
//	query, _ := NewGetDashboardSnapshotQuery(PeriodWeek)
//	snapshot, err := handler.Handle(ctx, query)
type GetDashboardSnapshotQuery struct {
	period Period

	guard guard.ConstructorGuard
}

// NewGetDashboardSnapshotQuery creates a snapshot query for the given
// trend period.
func NewGetDashboardSnapshotQuery(period Period) (GetDashboardSnapshotQuery, error) {
	if err := period.Validate(); err != nil {
		return GetDashboardSnapshotQuery{}, err
	}

	return GetDashboardSnapshotQuery{
		period: period,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetDashboardSnapshotQuery) Validate() error {
	return q.guard.Validate(ErrGetDashboardSnapshotQueryIsNotConstructed)
}

// Period returns the requested trend period.
func (q GetDashboardSnapshotQuery) Period() Period {
	return q.period
}

// LeaderboardEntry is one row of the daily worker leaderboard.
type LeaderboardEntry struct {
	WorkerID   kernel.UUID
	WorkerName string
	Count      int
}

// StationCount reports how many orders currently stand at one station.
type StationCount struct {
	Station string
	Count   int
}

// TrendPoint is one bucket of the output trend. Daily buckets are
// labelled "MM-DD", monthly buckets "YYYY-MM". Buckets with no activity
// are present with a zero count.
type TrendPoint struct {
	Bucket string
	Count  int
}

// UpcomingOrder is one order due within the warning window.
type UpcomingOrder struct {
	OrderNo      string
	CustomerName string
	Station      string
	Deadline     time.Time
}

// DashboardSnapshot is the full aggregated dashboard view. Snapshots are
// value objects: repeated reads inside the cache window return the
// identical snapshot.
type DashboardSnapshot struct {
	GeneratedAt         time.Time
	TodayOutput         int
	Leaderboard         []LeaderboardEntry
	StationDistribution []StationCount
	Trend               []TrendPoint
	UpcomingOrders      []UpcomingOrder
	RecentLogs          []GetScanFeedQueryResponse
	ErrorLogs           []GetScanFeedQueryResponse
}
