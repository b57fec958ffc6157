package queries

import (
	"context"
	"sync"
	"time"

	"traceflow/internal/core/domain/model/kernel"
	"traceflow/internal/core/domain/model/pipeline"
	"traceflow/internal/core/domain/model/scanlog"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	// snapshotFeedLimit bounds the recent and error log sections.
	snapshotFeedLimit = 20

	// upcomingWindow is how far ahead the deadline warning looks.
	upcomingWindow = 72 * time.Hour
)

type cachedSnapshot struct {
	snapshot DashboardSnapshot
	expires  time.Time
}

// GetDashboardSnapshotQueryHandler builds the aggregated dashboard view
// from the database and memoizes it per period for a short TTL. All
// callers inside the window receive the identical snapshot value, which
// keeps polling cheap and lets clients diff successive reads.
//
// The handler is safe for concurrent use. The cron refresh job pre-warms
// the cache so interactive reads rarely pay the aggregation cost.
type GetDashboardSnapshotQueryHandler struct {
	db   *gorm.DB
	pl   *pipeline.Pipeline
	feed GetScanFeedQueryHandler
	ttl  time.Duration
	now  func() time.Time

	mu    sync.Mutex
	cache map[Period]cachedSnapshot
}

// NewGetDashboardSnapshotQueryHandler creates a snapshot handler.
//
// Parameters:
//   - db: GORM database connection for query execution
//   - pl: the configured pipeline, used to zero-fill the station ledger
//   - ttl: how long a built snapshot stays fresh
func NewGetDashboardSnapshotQueryHandler(
	db *gorm.DB,
	pl *pipeline.Pipeline,
	ttl time.Duration,
) (*GetDashboardSnapshotQueryHandler, error) {
	if err := pl.Validate(); err != nil {
		return nil, err
	}
	if ttl < 0 {
		ttl = 0
	}

	return &GetDashboardSnapshotQueryHandler{
		db:    db,
		pl:    pl,
		feed:  NewGetScanFeedQueryHandler(db),
		ttl:   ttl,
		now:   time.Now,
		cache: make(map[Period]cachedSnapshot),
	}, nil
}

// Handle returns the snapshot for the requested period, serving the
// memoized value while it is fresh and rebuilding it otherwise.
func (h *GetDashboardSnapshotQueryHandler) Handle(
	ctx context.Context,
	query GetDashboardSnapshotQuery,
) (DashboardSnapshot, error) {
	if err := query.Validate(); err != nil {
		return DashboardSnapshot{}, err
	}

	now := h.now()

	h.mu.Lock()
	if cached, ok := h.cache[query.Period()]; ok && now.Before(cached.expires) {
		h.mu.Unlock()
		return cached.snapshot, nil
	}
	h.mu.Unlock()

	snapshot, err := h.build(ctx, query.Period(), now)
	if err != nil {
		return DashboardSnapshot{}, err
	}

	h.store(query.Period(), snapshot, now)
	return snapshot, nil
}

// Refresh rebuilds the snapshots for every period. Called by the cron
// job to keep the cache warm.
func (h *GetDashboardSnapshotQueryHandler) Refresh(ctx context.Context) error {
	for _, period := range []Period{PeriodWeek, PeriodMonth, PeriodYear} {
		now := h.now()
		snapshot, err := h.build(ctx, period, now)
		if err != nil {
			return err
		}
		h.store(period, snapshot, now)
	}
	return nil
}

func (h *GetDashboardSnapshotQueryHandler) store(period Period, snapshot DashboardSnapshot, now time.Time) {
	h.mu.Lock()
	h.cache[period] = cachedSnapshot{
		snapshot: snapshot,
		expires:  now.Add(h.ttl),
	}
	h.mu.Unlock()
}

func (h *GetDashboardSnapshotQueryHandler) build(
	ctx context.Context,
	period Period,
	now time.Time,
) (DashboardSnapshot, error) {
	snapshot := DashboardSnapshot{GeneratedAt: now}
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var err error
	if snapshot.TodayOutput, err = h.countTodayOutput(ctx, dayStart); err != nil {
		return DashboardSnapshot{}, err
	}
	if snapshot.Leaderboard, err = h.leaderboard(ctx, dayStart); err != nil {
		return DashboardSnapshot{}, err
	}
	if snapshot.StationDistribution, err = h.stationDistribution(ctx); err != nil {
		return DashboardSnapshot{}, err
	}
	if snapshot.Trend, err = h.trend(ctx, period, now); err != nil {
		return DashboardSnapshot{}, err
	}
	if snapshot.UpcomingOrders, err = h.upcomingOrders(ctx, now); err != nil {
		return DashboardSnapshot{}, err
	}

	recentQuery, err := NewGetScanFeedQuery(snapshotFeedLimit, false, nil, nil, nil)
	if err != nil {
		return DashboardSnapshot{}, err
	}
	if snapshot.RecentLogs, err = h.feed.Handle(ctx, recentQuery); err != nil {
		return DashboardSnapshot{}, err
	}

	errorQuery, err := NewGetScanFeedQuery(snapshotFeedLimit, true, nil, nil, nil)
	if err != nil {
		return DashboardSnapshot{}, err
	}
	if snapshot.ErrorLogs, err = h.feed.Handle(ctx, errorQuery); err != nil {
		return DashboardSnapshot{}, err
	}

	return snapshot, nil
}

func (h *GetDashboardSnapshotQueryHandler) countTodayOutput(ctx context.Context, dayStart time.Time) (int, error) {
	var count int
	row := h.db.WithContext(ctx).Raw(`
		SELECT COUNT(*)
		FROM scan_logs
		WHERE outcome = ? AND occurred_at >= ?
	`, int(scanlog.Success), dayStart).Row()
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (h *GetDashboardSnapshotQueryHandler) leaderboard(ctx context.Context, dayStart time.Time) ([]LeaderboardEntry, error) {
	entries := make([]LeaderboardEntry, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			worker_id,
			worker_name,
			COUNT(*) AS scans
		FROM scan_logs
		WHERE outcome = ? AND occurred_at >= ? AND worker_id IS NOT NULL
		GROUP BY worker_id, worker_name
		ORDER BY scans DESC, worker_id ASC
	`, int(scanlog.Success), dayStart).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			entry LeaderboardEntry
			id    uuid.UUID
		)
		if err = rows.Scan(&id, &entry.WorkerName, &entry.Count); err != nil {
			return nil, err
		}

		workerID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		entry.WorkerID = workerID
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// stationDistribution counts orders per station and zero-fills every
// pipeline station in workflow order, so the ledger always shows the
// whole pipeline.
func (h *GetDashboardSnapshotQueryHandler) stationDistribution(ctx context.Context) ([]StationCount, error) {
	counts := make(map[string]int, h.pl.Len())

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT current_station, COUNT(*)
		FROM orders
		GROUP BY current_station
	`).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			station string
			count   int
		)
		if err = rows.Scan(&station, &count); err != nil {
			return nil, err
		}
		counts[station] = count
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	distribution := make([]StationCount, 0, h.pl.Len())
	for _, station := range h.pl.Stations() {
		distribution = append(distribution, StationCount{
			Station: station.Name(),
			Count:   counts[station.Name()],
		})
	}
	return distribution, nil
}

func (h *GetDashboardSnapshotQueryHandler) trend(ctx context.Context, period Period, now time.Time) ([]TrendPoint, error) {
	buckets := TrendBuckets(period, now)
	index := make(map[string]int, len(buckets))
	for i, bucket := range buckets {
		index[bucket.Bucket] = i
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT occurred_at
		FROM scan_logs
		WHERE outcome = ? AND occurred_at >= ?
	`, int(scanlog.Success), TrendStart(period, now)).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var occurredAt time.Time
		if err = rows.Scan(&occurredAt); err != nil {
			return nil, err
		}
		if i, ok := index[TrendLabel(period, occurredAt.In(now.Location()))]; ok {
			buckets[i].Count++
		}
	}

	return buckets, rows.Err()
}

func (h *GetDashboardSnapshotQueryHandler) upcomingOrders(ctx context.Context, now time.Time) ([]UpcomingOrder, error) {
	upcoming := make([]UpcomingOrder, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT order_no, customer_name, current_station, deadline
		FROM orders
		WHERE completed_at IS NULL AND deadline IS NOT NULL AND deadline <= ?
		ORDER BY deadline ASC
	`, now.Add(upcomingWindow)).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var entry UpcomingOrder
		if err = rows.Scan(&entry.OrderNo, &entry.CustomerName, &entry.Station, &entry.Deadline); err != nil {
			return nil, err
		}
		upcoming = append(upcoming, entry)
	}

	return upcoming, rows.Err()
}
