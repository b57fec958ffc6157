// Package http exposes the workflow engine over a REST API.
// It coordinates between HTTP handlers and application use cases: requests
// are bound into commands and queries, results mapped back to wire DTOs.
package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"traceflow/internal/core/application/usecases/commands"
	"traceflow/internal/core/application/usecases/queries"
	"traceflow/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

// defaultStatsRange is used when GET /api/v1/workers/stats omits bounds.
const defaultStatsRange = 30 * 24 * time.Hour

// Server handles HTTP requests for scan submission and the read-side views.
type Server struct {
	// Command handlers
	submitScanHandler commands.SubmitScanCommandHandler

	// Query handlers
	scanFeedHandler    queries.GetScanFeedQueryHandler
	dashboardHandler   *queries.GetDashboardSnapshotQueryHandler
	workerStatsHandler queries.GetWorkerStatsQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	submitScanHandler commands.SubmitScanCommandHandler,
	scanFeedHandler queries.GetScanFeedQueryHandler,
	dashboardHandler *queries.GetDashboardSnapshotQueryHandler,
	workerStatsHandler queries.GetWorkerStatsQueryHandler,
) *Server {
	return &Server{
		submitScanHandler:  submitScanHandler,
		scanFeedHandler:    scanFeedHandler,
		dashboardHandler:   dashboardHandler,
		workerStatsHandler: workerStatsHandler,
	}
}

// RegisterRoutes attaches all API routes to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.Health)

	api := e.Group("/api/v1")
	api.POST("/scans", s.SubmitScan)
	api.GET("/scan-logs", s.GetScanLogs)
	api.GET("/dashboard", s.GetDashboard)
	api.GET("/workers/stats", s.GetWorkerStats)
}

// Health handles GET /health - liveness probe.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// SubmitScan handles POST /api/v1/scans - processes one barcode scan.
//
// A scan that advances the order and a harmless repeat of the previous scan
// both answer 200. A payload with no order token answers 400, scans that
// cannot be matched to a worker or an order answer 404, workflow violations
// answer 409, and a scan that lost a concurrent update answers 503 so the
// device retries.
func (s *Server) SubmitScan(ctx echo.Context) error {
	var request SubmitScanRequest
	if err := ctx.Bind(&request); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	var workerID *kernel.UUID
	if request.WorkerID != nil {
		id, err := kernel.UUIDFromString(*request.WorkerID)
		if err != nil {
			return ctx.JSON(http.StatusBadRequest, Error{
				Code:    http.StatusBadRequest,
				Message: "Invalid worker id: " + err.Error(),
			})
		}
		workerID = &id
	}

	at := time.Now()
	if request.ScannedAt != nil {
		at = *request.ScannedAt
	}

	cmd, err := commands.NewSubmitScanCommand(request.Payload, workerID, at)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid scan data: " + err.Error(),
		})
	}

	result, err := s.submitScanHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		status := scanErrorStatus(err)
		return ctx.JSON(status, Error{
			Code:    status,
			Message: err.Error(),
		})
	}

	return ctx.JSON(http.StatusOK, SubmitScanResponse{
		Advanced:   result.Advanced,
		Duplicate:  result.Duplicate,
		Completed:  result.Completed,
		OrderNo:    result.OrderNo,
		Station:    result.Station,
		WorkerName: result.WorkerName,
		Message:    result.Message,
	})
}

// scanErrorStatus maps scan processing failures to HTTP status codes.
func scanErrorStatus(err error) int {
	switch {
	case errors.Is(err, commands.ErrEmptyOrderToken):
		return http.StatusBadRequest
	case errors.Is(err, commands.ErrOrderNotFound),
		errors.Is(err, commands.ErrWorkerNotFound),
		errors.Is(err, commands.ErrScannerNotRegistered),
		errors.Is(err, commands.ErrUnknownStation):
		return http.StatusNotFound
	case errors.Is(err, commands.ErrOutOfSequence),
		errors.Is(err, commands.ErrAlreadyCompleted):
		return http.StatusConflict
	case errors.Is(err, commands.ErrTransientConflict):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// GetScanLogs handles GET /api/v1/scan-logs - retrieves the scan feed.
//
// Query parameters: limit, errorsOnly, workerId, from, to (RFC 3339).
func (s *Server) GetScanLogs(ctx echo.Context) error {
	limit := 0
	if raw := ctx.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return ctx.JSON(http.StatusBadRequest, Error{
				Code:    http.StatusBadRequest,
				Message: "Invalid limit",
			})
		}
		limit = parsed
	}

	errorsOnly := ctx.QueryParam("errorsOnly") == "true"

	workerID, err := parseOptionalUUID(ctx.QueryParam("workerId"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid worker id",
		})
	}

	from, err := parseOptionalTime(ctx.QueryParam("from"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid from timestamp",
		})
	}
	to, err := parseOptionalTime(ctx.QueryParam("to"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid to timestamp",
		})
	}

	query, err := queries.NewGetScanFeedQuery(limit, errorsOnly, workerID, from, to)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid feed query: " + err.Error(),
		})
	}

	entries, err := s.scanFeedHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve scan logs",
		})
	}

	return ctx.JSON(http.StatusOK, toScanLogEntries(entries))
}

// GetDashboard handles GET /api/v1/dashboard - retrieves the aggregated view.
//
// The period query parameter selects the trend window: week, month, or year.
func (s *Server) GetDashboard(ctx echo.Context) error {
	period := queries.Period(ctx.QueryParam("period"))
	if period == "" {
		period = queries.PeriodWeek
	}

	query, err := queries.NewGetDashboardSnapshotQuery(period)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid period: " + err.Error(),
		})
	}

	snapshot, err := s.dashboardHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to build dashboard",
		})
	}

	response := DashboardResponse{
		GeneratedAt:         snapshot.GeneratedAt,
		TodayOutput:         snapshot.TodayOutput,
		Leaderboard:         make([]LeaderboardEntry, 0, len(snapshot.Leaderboard)),
		StationDistribution: make([]StationCount, 0, len(snapshot.StationDistribution)),
		Trend:               make([]TrendPoint, 0, len(snapshot.Trend)),
		UpcomingOrders:      make([]UpcomingOrder, 0, len(snapshot.UpcomingOrders)),
		RecentLogs:          toScanLogEntries(snapshot.RecentLogs),
		ErrorLogs:           toScanLogEntries(snapshot.ErrorLogs),
	}
	for _, entry := range snapshot.Leaderboard {
		response.Leaderboard = append(response.Leaderboard, LeaderboardEntry{
			WorkerID:   entry.WorkerID.String(),
			WorkerName: entry.WorkerName,
			Count:      entry.Count,
		})
	}
	for _, entry := range snapshot.StationDistribution {
		response.StationDistribution = append(response.StationDistribution, StationCount(entry))
	}
	for _, point := range snapshot.Trend {
		response.Trend = append(response.Trend, TrendPoint(point))
	}
	for _, upcoming := range snapshot.UpcomingOrders {
		response.UpcomingOrders = append(response.UpcomingOrders, UpcomingOrder{
			OrderNo:      upcoming.OrderNo,
			CustomerName: upcoming.CustomerName,
			Station:      upcoming.Station,
			Deadline:     &upcoming.Deadline,
		})
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetWorkerStats handles GET /api/v1/workers/stats - retrieves workload
// statistics for a date range, optionally narrowed to one worker.
//
// Query parameters: start, end (2006-01-02), workerId. Without bounds the
// report covers the last 30 days.
func (s *Server) GetWorkerStats(ctx echo.Context) error {
	now := time.Now()
	start := now.Add(-defaultStatsRange)
	end := now

	if raw := ctx.QueryParam("start"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, now.Location())
		if err != nil {
			return ctx.JSON(http.StatusBadRequest, Error{
				Code:    http.StatusBadRequest,
				Message: "Invalid start date",
			})
		}
		start = parsed
	}
	if raw := ctx.QueryParam("end"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, now.Location())
		if err != nil {
			return ctx.JSON(http.StatusBadRequest, Error{
				Code:    http.StatusBadRequest,
				Message: "Invalid end date",
			})
		}
		// The end date is inclusive.
		end = parsed.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}

	workerID, err := parseOptionalUUID(ctx.QueryParam("workerId"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid worker id",
		})
	}

	query, err := queries.NewGetWorkerStatsQuery(start, end, workerID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid stats query: " + err.Error(),
		})
	}

	stats, err := s.workerStatsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to build worker statistics",
		})
	}

	response := WorkerStatsResponse{
		Totals:              make([]WorkerTotal, 0, len(stats.Totals)),
		DailySeries:         make([]TrendPoint, 0, len(stats.DailySeries)),
		StationDistribution: make([]StationCount, 0, len(stats.StationDistribution)),
		RecentLogs:          toScanLogEntries(stats.RecentLogs),
	}
	for _, total := range stats.Totals {
		response.Totals = append(response.Totals, WorkerTotal{
			WorkerID:   total.WorkerID.String(),
			WorkerName: total.WorkerName,
			Count:      total.Count,
		})
	}
	for _, point := range stats.DailySeries {
		response.DailySeries = append(response.DailySeries, TrendPoint(point))
	}
	for _, entry := range stats.StationDistribution {
		response.StationDistribution = append(response.StationDistribution, StationCount(entry))
	}

	return ctx.JSON(http.StatusOK, response)
}

// toScanLogEntries maps feed query responses to wire DTOs.
func toScanLogEntries(entries []queries.GetScanFeedQueryResponse) []ScanLogEntry {
	result := make([]ScanLogEntry, 0, len(entries))
	for _, entry := range entries {
		result = append(result, ScanLogEntry{
			ID:          entry.ID.String(),
			OrderNo:     entry.OrderNo,
			WorkerName:  entry.WorkerName,
			Station:     entry.Station,
			ScannerCode: entry.ScannerCode,
			RawPayload:  entry.RawPayload,
			Outcome:     entry.Outcome,
			Message:     entry.Message,
			OccurredAt:  entry.OccurredAt,
		})
	}
	return result
}

// parseOptionalUUID parses a UUID query parameter, empty meaning absent.
func parseOptionalUUID(raw string) (*kernel.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := kernel.UUIDFromString(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// parseOptionalTime parses an RFC 3339 query parameter, empty meaning absent.
func parseOptionalTime(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
