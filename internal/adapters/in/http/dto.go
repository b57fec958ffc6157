package http

import "time"

// SubmitScanRequest is the request body for POST /api/v1/scans.
// The payload arrives exactly as the scanner emitted it; the optional worker
// identifier covers manual submissions from devices without a registered
// scanner prefix.
type SubmitScanRequest struct {
	Payload   string     `json:"payload"`
	WorkerID  *string    `json:"workerId,omitempty"`
	ScannedAt *time.Time `json:"scannedAt,omitempty"`
}

// SubmitScanResponse reports how a scan was processed.
type SubmitScanResponse struct {
	Advanced   bool   `json:"advanced"`
	Duplicate  bool   `json:"duplicate"`
	Completed  bool   `json:"completed"`
	OrderNo    string `json:"orderNo"`
	Station    string `json:"station"`
	WorkerName string `json:"workerName"`
	Message    string `json:"message"`
}

// ScanLogEntry is one row of the scan feed.
type ScanLogEntry struct {
	ID          string    `json:"id"`
	OrderNo     string    `json:"orderNo,omitempty"`
	WorkerName  string    `json:"workerName,omitempty"`
	Station     string    `json:"station,omitempty"`
	ScannerCode string    `json:"scannerCode,omitempty"`
	RawPayload  string    `json:"rawPayload"`
	Outcome     string    `json:"outcome"`
	Message     string    `json:"message"`
	OccurredAt  time.Time `json:"occurredAt"`
}

// LeaderboardEntry is one worker's place in today's output ranking.
type LeaderboardEntry struct {
	WorkerID   string `json:"workerId"`
	WorkerName string `json:"workerName"`
	Count      int    `json:"count"`
}

// StationCount is the number of items counted against one station.
type StationCount struct {
	Station string `json:"station"`
	Count   int    `json:"count"`
}

// TrendPoint is one bucket of the output trend.
type TrendPoint struct {
	Bucket string `json:"bucket"`
	Count  int    `json:"count"`
}

// UpcomingOrder is an unfinished order whose deadline is close.
type UpcomingOrder struct {
	OrderNo      string     `json:"orderNo"`
	CustomerName string     `json:"customerName"`
	Station      string     `json:"station"`
	Deadline     *time.Time `json:"deadline,omitempty"`
}

// DashboardResponse is the aggregated dashboard view for one period.
type DashboardResponse struct {
	GeneratedAt         time.Time          `json:"generatedAt"`
	TodayOutput         int                `json:"todayOutput"`
	Leaderboard         []LeaderboardEntry `json:"leaderboard"`
	StationDistribution []StationCount     `json:"stationDistribution"`
	Trend               []TrendPoint       `json:"trend"`
	UpcomingOrders      []UpcomingOrder    `json:"upcomingOrders"`
	RecentLogs          []ScanLogEntry     `json:"recentLogs"`
	ErrorLogs           []ScanLogEntry     `json:"errorLogs"`
}

// WorkerTotal is one worker's successful scan count over the range.
type WorkerTotal struct {
	WorkerID   string `json:"workerId"`
	WorkerName string `json:"workerName"`
	Count      int    `json:"count"`
}

// WorkerStatsResponse is the workload report for GET /api/v1/workers/stats.
type WorkerStatsResponse struct {
	Totals              []WorkerTotal  `json:"totals"`
	DailySeries         []TrendPoint   `json:"dailySeries"`
	StationDistribution []StationCount `json:"stationDistribution"`
	RecentLogs          []ScanLogEntry `json:"recentLogs"`
}

// Error is the uniform error body for failed requests.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
