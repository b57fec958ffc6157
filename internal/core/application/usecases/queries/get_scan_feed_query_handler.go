package queries

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"traceflow/internal/core/domain/model/kernel"
	"traceflow/internal/core/domain/model/scanlog"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetScanFeedQueryHandler reads scan log entries straight from the
// database, newest first.
type GetScanFeedQueryHandler struct {
	db *gorm.DB
}

// NewGetScanFeedQueryHandler creates a handler for scan feed queries.
// Requires a GORM database connection for query execution.
func NewGetScanFeedQueryHandler(db *gorm.DB) GetScanFeedQueryHandler {
	return GetScanFeedQueryHandler{db: db}
}

// Handle executes the feed query with the requested filters.
// Entries are ordered by occurrence time descending.
func (h GetScanFeedQueryHandler) Handle(
	ctx context.Context,
	query GetScanFeedQuery,
) ([]GetScanFeedQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	conditions := []string{"1=1"}
	args := make([]any, 0, 4)

	if query.ErrorsOnly() {
		conditions = append(conditions, "outcome = ?")
		args = append(args, int(scanlog.Rejected))
	}
	if query.WorkerID() != nil {
		conditions = append(conditions, "worker_id = ?")
		args = append(args, query.WorkerID().Bytes())
	}
	if query.From() != nil {
		conditions = append(conditions, "occurred_at >= ?")
		args = append(args, *query.From())
	}
	if query.To() != nil {
		conditions = append(conditions, "occurred_at <= ?")
		args = append(args, *query.To())
	}
	args = append(args, query.Limit())

	entries := make([]GetScanFeedQueryResponse, 0, query.Limit())

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			order_no,
			worker_name,
			station,
			scanner_code,
			raw_payload,
			outcome,
			message,
			occurred_at
		FROM scan_logs
		WHERE `+strings.Join(conditions, " AND ")+`
		ORDER BY occurred_at DESC
		LIMIT ?
	`, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			entry      GetScanFeedQueryResponse
			id         uuid.UUID
			orderNo    sql.NullString
			workerName sql.NullString
			station    sql.NullString
			outcome    int
			occurredAt time.Time
		)

		err = rows.Scan(
			&id,
			&orderNo,
			&workerName,
			&station,
			&entry.ScannerCode,
			&entry.RawPayload,
			&outcome,
			&entry.Message,
			&occurredAt,
		)
		if err != nil {
			return nil, err
		}

		entryID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		entry.ID = entryID
		entry.OrderNo = orderNo.String
		entry.WorkerName = workerName.String
		entry.Station = station.String
		entry.Outcome = scanlog.Outcome(outcome).String()
		entry.OccurredAt = occurredAt

		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}
