package postgres_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"traceflow/internal/adapters/out/postgres/orderrepo"
	"traceflow/internal/adapters/out/postgres/scanlogrepo"
	"traceflow/internal/adapters/out/postgres/workerrepo"
	"traceflow/internal/core/application/usecases/queries"
	"traceflow/internal/core/domain/model/kernel"
	"traceflow/internal/core/domain/model/order"
	"traceflow/internal/core/domain/model/pipeline"
	"traceflow/internal/core/domain/model/scanlog"
	"traceflow/internal/core/domain/model/worker"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// noopTracker satisfies the aggregate tracker dependency when seeding data
// outside a unit of work.
type noopTracker struct{}

func (noopTracker) TrackAggregate(_ kernel.UUID, _ any) {}

// QueryIntegrationTestSuite tests the read-side query handlers against a real
// PostgreSQL database seeded through the repositories.
type QueryIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB

	orders   *orderrepo.GormOrderRepository
	workers  *workerrepo.GormWorkerRepository
	scanLogs *scanlogrepo.GormScanLogRepository
}

func (suite *QueryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2)),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	err = db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.ProductDTO{},
		&workerrepo.WorkerDTO{},
		&scanlogrepo.ScanLogDTO{},
	)
	suite.Require().NoError(err)

	suite.orders = orderrepo.NewGormOrderRepository(db, noopTracker{})
	suite.workers = workerrepo.NewGormWorkerRepository(db, noopTracker{})
	suite.scanLogs = scanlogrepo.NewGormScanLogRepository(db, noopTracker{})
}

func (suite *QueryIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE orders, order_products, workers, scan_logs").Error
	suite.Require().NoError(err)
}

func (suite *QueryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

// TestScanFeed verifies ordering, limiting, and the errors-only filter.
func (suite *QueryIntegrationTestSuite) TestScanFeed() {
	ctx := context.Background()
	now := time.Now()
	testWorker := suite.seedWorker("张伟", "下料", "XL1#")

	suite.seedScanLog(testWorker, scanlog.Success, "advanced to 下料", now.Add(-3*time.Minute))
	suite.seedScanLog(testWorker, scanlog.Rejected, "out of sequence: order is still at 待下料", now.Add(-2*time.Minute))
	suite.seedScanLog(testWorker, scanlog.Success, "advanced to 裁面", now.Add(-1*time.Minute))

	handler := queries.NewGetScanFeedQueryHandler(suite.db)

	query, err := queries.NewGetScanFeedQuery(2, false, nil, nil, nil)
	suite.Require().NoError(err)
	feed, err := handler.Handle(ctx, query)
	suite.Require().NoError(err)

	suite.Require().Len(feed, 2)
	suite.Equal("advanced to 裁面", feed[0].Message, "Newest entry should come first")
	suite.Equal("张伟", feed[0].WorkerName)

	errorsQuery, err := queries.NewGetScanFeedQuery(10, true, nil, nil, nil)
	suite.Require().NoError(err)
	errorFeed, err := handler.Handle(ctx, errorsQuery)
	suite.Require().NoError(err)

	suite.Require().Len(errorFeed, 1)
	suite.Equal("Rejected", errorFeed[0].Outcome)
}

// TestDashboardSnapshot verifies the aggregated dashboard sections.
func (suite *QueryIntegrationTestSuite) TestDashboardSnapshot() {
	ctx := context.Background()
	now := time.Now()
	pl := pipeline.Default()

	workerA := suite.seedWorker("张伟", "下料", "XL1#")
	workerB := suite.seedWorker("王芳", "裁面", "CM1#")

	// Three successes for A and one for B today, plus one stale success.
	suite.seedScanLog(workerA, scanlog.Success, "advanced to 下料", now.Add(-30*time.Minute))
	suite.seedScanLog(workerA, scanlog.Success, "advanced to 下料", now.Add(-20*time.Minute))
	suite.seedScanLog(workerA, scanlog.Success, "advanced to 下料", now.Add(-10*time.Minute))
	suite.seedScanLog(workerB, scanlog.Success, "advanced to 裁面", now.Add(-5*time.Minute))
	suite.seedScanLog(workerB, scanlog.Rejected, "order is already completed", now.Add(-4*time.Minute))
	suite.seedScanLog(workerA, scanlog.Success, "advanced to 下料", now.AddDate(0, 0, -3))

	dueSoon := now.Add(24 * time.Hour)
	farAway := now.Add(240 * time.Hour)
	suite.seedOrder("待下料", &dueSoon)
	suite.seedOrder("封面", &farAway)
	suite.seedOrder("封面", nil)

	handler, err := queries.NewGetDashboardSnapshotQueryHandler(suite.db, pl, time.Minute)
	suite.Require().NoError(err)

	query, err := queries.NewGetDashboardSnapshotQuery(queries.PeriodWeek)
	suite.Require().NoError(err)
	snapshot, err := handler.Handle(ctx, query)
	suite.Require().NoError(err)

	suite.Equal(4, snapshot.TodayOutput, "Only today's successes should count")

	suite.Require().Len(snapshot.Leaderboard, 2)
	suite.Equal("张伟", snapshot.Leaderboard[0].WorkerName)
	suite.Equal(3, snapshot.Leaderboard[0].Count)
	suite.Equal("王芳", snapshot.Leaderboard[1].WorkerName)
	suite.Equal(1, snapshot.Leaderboard[1].Count, "Rejections should not count as work")

	suite.Require().Len(snapshot.StationDistribution, pl.Len(), "Every station should appear")
	suite.Equal("待下料", snapshot.StationDistribution[0].Station)
	suite.Equal(1, snapshot.StationDistribution[0].Count)
	suite.Equal("封面", snapshot.StationDistribution[3].Station)
	suite.Equal(2, snapshot.StationDistribution[3].Count)
	suite.Equal(0, snapshot.StationDistribution[6].Count)

	suite.Require().Len(snapshot.Trend, 7, "Week trend should hold one bucket per day")
	suite.Equal(4, snapshot.Trend[6].Count, "Today's bucket should hold today's successes")
	suite.Equal(1, snapshot.Trend[3].Count, "The stale success should land three days back")

	suite.Require().Len(snapshot.UpcomingOrders, 1, "Only the near deadline should warn")
	suite.NotNil(snapshot.UpcomingOrders[0].Deadline)

	suite.NotEmpty(snapshot.RecentLogs)
	suite.Require().Len(snapshot.ErrorLogs, 1)
	suite.Equal("order is already completed", snapshot.ErrorLogs[0].Message)
}

// TestDashboardSnapshot_LeaderboardTieBreak verifies workers with equal
// counts rank by ascending worker id.
func (suite *QueryIntegrationTestSuite) TestDashboardSnapshot_LeaderboardTieBreak() {
	ctx := context.Background()
	now := time.Now()

	workerA := suite.seedWorker("张伟", "下料", "XL1#")
	workerB := suite.seedWorker("王芳", "裁面", "CM1#")
	workerC := suite.seedWorker("李强", "封面", "FM1#")

	suite.seedScanLog(workerA, scanlog.Success, "advanced to 下料", now.Add(-50*time.Minute))
	suite.seedScanLog(workerB, scanlog.Success, "advanced to 裁面", now.Add(-40*time.Minute))
	suite.seedScanLog(workerB, scanlog.Success, "advanced to 裁面", now.Add(-30*time.Minute))
	suite.seedScanLog(workerC, scanlog.Success, "advanced to 封面", now.Add(-20*time.Minute))
	suite.seedScanLog(workerC, scanlog.Success, "advanced to 封面", now.Add(-10*time.Minute))

	handler, err := queries.NewGetDashboardSnapshotQueryHandler(suite.db, pipeline.Default(), time.Minute)
	suite.Require().NoError(err)

	query, err := queries.NewGetDashboardSnapshotQuery(queries.PeriodWeek)
	suite.Require().NoError(err)
	snapshot, err := handler.Handle(ctx, query)
	suite.Require().NoError(err)

	// Postgres orders uuid columns bytewise, which matches the canonical
	// text form, so the expected winner of the tie is computable here.
	firstTied, secondTied := workerB, workerC
	if workerC.ID().String() < workerB.ID().String() {
		firstTied, secondTied = workerC, workerB
	}

	suite.Require().Len(snapshot.Leaderboard, 3)
	suite.Equal(firstTied.ID(), snapshot.Leaderboard[0].WorkerID)
	suite.Equal(2, snapshot.Leaderboard[0].Count)
	suite.Equal(secondTied.ID(), snapshot.Leaderboard[1].WorkerID)
	suite.Equal(2, snapshot.Leaderboard[1].Count)
	suite.Equal(workerA.ID(), snapshot.Leaderboard[2].WorkerID)
	suite.Equal(1, snapshot.Leaderboard[2].Count)
}

// TestDashboardSnapshot_Memoization verifies repeated reads inside the TTL
// window serve the identical snapshot.
func (suite *QueryIntegrationTestSuite) TestDashboardSnapshot_Memoization() {
	ctx := context.Background()
	testWorker := suite.seedWorker("张伟", "下料", "XL1#")
	suite.seedScanLog(testWorker, scanlog.Success, "advanced to 下料", time.Now())

	handler, err := queries.NewGetDashboardSnapshotQueryHandler(suite.db, pipeline.Default(), time.Minute)
	suite.Require().NoError(err)

	query, err := queries.NewGetDashboardSnapshotQuery(queries.PeriodWeek)
	suite.Require().NoError(err)

	first, err := handler.Handle(ctx, query)
	suite.Require().NoError(err)

	// New data inside the TTL window stays invisible until refresh.
	suite.seedScanLog(testWorker, scanlog.Success, "advanced to 下料", time.Now())

	second, err := handler.Handle(ctx, query)
	suite.Require().NoError(err)
	suite.Equal(first.GeneratedAt, second.GeneratedAt, "Cached snapshot should be served")
	suite.Equal(first.TodayOutput, second.TodayOutput)

	err = handler.Refresh(ctx)
	suite.Require().NoError(err)

	third, err := handler.Handle(ctx, query)
	suite.Require().NoError(err)
	suite.Equal(first.TodayOutput+1, third.TodayOutput, "Refresh should rebuild the snapshot")
}

// TestWorkerStats verifies per-worker totals and the zero-filled daily series.
func (suite *QueryIntegrationTestSuite) TestWorkerStats() {
	ctx := context.Background()
	now := time.Now()

	workerA := suite.seedWorker("张伟", "下料", "XL1#")
	workerB := suite.seedWorker("王芳", "裁面", "CM1#")

	suite.seedScanLog(workerA, scanlog.Success, "advanced to 下料", now.Add(-2*time.Hour))
	suite.seedScanLog(workerA, scanlog.Success, "advanced to 下料", now.AddDate(0, 0, -1))
	suite.seedScanLog(workerB, scanlog.Success, "advanced to 裁面", now.Add(-1*time.Hour))
	suite.seedScanLog(workerA, scanlog.Rejected, "already processed at this station", now.Add(-1*time.Hour))

	handler := queries.NewGetWorkerStatsQueryHandler(suite.db)

	start := now.AddDate(0, 0, -2)
	query, err := queries.NewGetWorkerStatsQuery(start, now, nil)
	suite.Require().NoError(err)

	stats, err := handler.Handle(ctx, query)
	suite.Require().NoError(err)

	suite.Require().Len(stats.Totals, 2)
	suite.Equal("张伟", stats.Totals[0].WorkerName)
	suite.Equal(2, stats.Totals[0].Count)
	suite.Equal(1, stats.Totals[1].Count)

	suite.Require().Len(stats.DailySeries, 3, "One bucket per day of the range")
	suite.NotEmpty(stats.RecentLogs)

	// Narrowing to one worker drops the other's scans.
	workerID := workerA.ID()
	filtered, err := queries.NewGetWorkerStatsQuery(start, now, &workerID)
	suite.Require().NoError(err)

	workerStats, err := handler.Handle(ctx, filtered)
	suite.Require().NoError(err)
	suite.Require().Len(workerStats.Totals, 1)
	suite.Equal("张伟", workerStats.Totals[0].WorkerName)
	suite.Equal(2, workerStats.Totals[0].Count)
}

// seedWorker persists a worker and returns the aggregate.
func (suite *QueryIntegrationTestSuite) seedWorker(name, station, scannerCode string) *worker.Worker {
	testWorker, err := worker.NewWorker(kernel.NewUUID(), name, station, scannerCode, "")
	suite.Require().NoError(err)
	suite.Require().NoError(suite.workers.Add(context.Background(), testWorker))
	return testWorker
}

// seedOrder persists an order standing at the given station.
func (suite *QueryIntegrationTestSuite) seedOrder(station string, deadline *time.Time) *order.Order {
	id := kernel.NewUUID()
	testOrder, err := order.RestoreOrder(
		id,
		fmt.Sprintf("QY-%s", id.String()[:8]),
		fmt.Sprintf("token-%s", id.String()),
		"李女士",
		"13800000000",
		1500,
		deadline,
		nil,
		station,
		nil,
	)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.orders.Add(context.Background(), testOrder))
	return testOrder
}

// seedScanLog persists a scan log entry attributed to the worker.
func (suite *QueryIntegrationTestSuite) seedScanLog(
	w *worker.Worker,
	outcome scanlog.Outcome,
	message string,
	occurredAt time.Time,
) {
	entry, err := scanlog.NewScanLog(
		kernel.NewUUID(),
		w.ScannerCode()+"token",
		w.ScannerCode(),
		outcome,
		message,
		occurredAt,
	)
	suite.Require().NoError(err)
	suite.Require().NoError(entry.AttachWorker(w.ID(), w.Name(), w.Station()))
	suite.Require().NoError(suite.scanLogs.Add(context.Background(), entry))
}

func TestQueryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(QueryIntegrationTestSuite))
}
