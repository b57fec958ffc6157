package queries

import (
	"context"
	"time"

	"traceflow/internal/core/domain/model/kernel"
	"traceflow/internal/core/domain/model/scanlog"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetWorkerStatsQueryHandler builds per-worker workload statistics from
// the scan log. Only successful scans count as work.
type GetWorkerStatsQueryHandler struct {
	db   *gorm.DB
	feed GetScanFeedQueryHandler
}

// NewGetWorkerStatsQueryHandler creates a handler for workload queries.
// Requires a GORM database connection for query execution.
func NewGetWorkerStatsQueryHandler(db *gorm.DB) GetWorkerStatsQueryHandler {
	return GetWorkerStatsQueryHandler{
		db:   db,
		feed: NewGetScanFeedQueryHandler(db),
	}
}

// Handle executes the workload query for the requested range and filter.
// The daily series contains one bucket per calendar day of the range,
// zero-filled for days without activity.
func (h GetWorkerStatsQueryHandler) Handle(
	ctx context.Context,
	query GetWorkerStatsQuery,
) (GetWorkerStatsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetWorkerStatsQueryResponse{}, err
	}

	var (
		response GetWorkerStatsQueryResponse
		err      error
	)

	if response.Totals, err = h.totals(ctx, query); err != nil {
		return GetWorkerStatsQueryResponse{}, err
	}
	if response.DailySeries, err = h.dailySeries(ctx, query); err != nil {
		return GetWorkerStatsQueryResponse{}, err
	}
	if response.StationDistribution, err = h.stationDistribution(ctx, query); err != nil {
		return GetWorkerStatsQueryResponse{}, err
	}

	start := query.Start()
	end := query.End()
	feedQuery, err := NewGetScanFeedQuery(DefaultFeedLimit, false, query.WorkerID(), &start, &end)
	if err != nil {
		return GetWorkerStatsQueryResponse{}, err
	}
	if response.RecentLogs, err = h.feed.Handle(ctx, feedQuery); err != nil {
		return GetWorkerStatsQueryResponse{}, err
	}

	return response, nil
}

func (h GetWorkerStatsQueryHandler) totals(
	ctx context.Context,
	query GetWorkerStatsQuery,
) ([]WorkerTotal, error) {
	totals := make([]WorkerTotal, 0)

	sql := `
		SELECT
			worker_id,
			worker_name,
			COUNT(*) AS scans
		FROM scan_logs
		WHERE outcome = ? AND occurred_at >= ? AND occurred_at <= ? AND worker_id IS NOT NULL
	`
	args := []any{int(scanlog.Success), query.Start(), query.End()}
	if query.WorkerID() != nil {
		sql += " AND worker_id = ?"
		args = append(args, query.WorkerID().Bytes())
	}
	sql += `
		GROUP BY worker_id, worker_name
		ORDER BY scans DESC, worker_id ASC
	`

	rows, err := h.db.WithContext(ctx).Raw(sql, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			total WorkerTotal
			id    uuid.UUID
		)
		if err = rows.Scan(&id, &total.WorkerName, &total.Count); err != nil {
			return nil, err
		}

		workerID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		total.WorkerID = workerID
		totals = append(totals, total)
	}

	return totals, rows.Err()
}

func (h GetWorkerStatsQueryHandler) dailySeries(
	ctx context.Context,
	query GetWorkerStatsQuery,
) ([]TrendPoint, error) {
	buckets := DailyBuckets(query.Start(), query.End())
	index := make(map[string]int, len(buckets))
	for i, bucket := range buckets {
		index[bucket.Bucket] = i
	}

	sql := `
		SELECT occurred_at
		FROM scan_logs
		WHERE outcome = ? AND occurred_at >= ? AND occurred_at <= ?
	`
	args := []any{int(scanlog.Success), query.Start(), query.End()}
	if query.WorkerID() != nil {
		sql += " AND worker_id = ?"
		args = append(args, query.WorkerID().Bytes())
	}

	rows, err := h.db.WithContext(ctx).Raw(sql, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var occurredAt time.Time
		if err = rows.Scan(&occurredAt); err != nil {
			return nil, err
		}
		if i, ok := index[occurredAt.In(query.Start().Location()).Format(dayLabelFormat)]; ok {
			buckets[i].Count++
		}
	}

	return buckets, rows.Err()
}

func (h GetWorkerStatsQueryHandler) stationDistribution(
	ctx context.Context,
	query GetWorkerStatsQuery,
) ([]StationCount, error) {
	distribution := make([]StationCount, 0)

	sql := `
		SELECT station, COUNT(*) AS scans
		FROM scan_logs
		WHERE outcome = ? AND occurred_at >= ? AND occurred_at <= ? AND station <> ''
	`
	args := []any{int(scanlog.Success), query.Start(), query.End()}
	if query.WorkerID() != nil {
		sql += " AND worker_id = ?"
		args = append(args, query.WorkerID().Bytes())
	}
	sql += `
		GROUP BY station
		ORDER BY scans DESC, station ASC
	`

	rows, err := h.db.WithContext(ctx).Raw(sql, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var entry StationCount
		if err = rows.Scan(&entry.Station, &entry.Count); err != nil {
			return nil, err
		}
		distribution = append(distribution, entry)
	}

	return distribution, rows.Err()
}
