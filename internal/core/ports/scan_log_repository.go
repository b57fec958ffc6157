package ports

import (
	"context"

	"traceflow/internal/core/domain/model/scanlog"
)

// ScanLogRepository defines the persistence contract for the scan audit
// trail. The log is append-only on the write side; reads are served by
// the query layer directly from the database.
type ScanLogRepository interface {
	// Add appends a log entry. Entries are immutable once written.
	Add(ctx context.Context, entry *scanlog.ScanLog) error
}
