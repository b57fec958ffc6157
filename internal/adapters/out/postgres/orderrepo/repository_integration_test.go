package orderrepo_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"traceflow/internal/adapters/out/postgres/orderrepo"
	"traceflow/internal/core/domain/model/kernel"
	"traceflow/internal/core/domain/model/order"
	"traceflow/internal/core/domain/model/pipeline"
	"traceflow/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// noopTracker satisfies the aggregate tracker dependency for repository tests
// that exercise persistence without a unit of work.
type noopTracker struct{}

func (noopTracker) TrackAggregate(_ kernel.UUID, _ any) {}

// OrderRepositoryIntegrationTestSuite tests order persistence against a real
// PostgreSQL database.
type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	repo      *orderrepo.GormOrderRepository
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
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

	err = db.AutoMigrate(&orderrepo.OrderDTO{}, &orderrepo.ProductDTO{})
	suite.Require().NoError(err)

	suite.repo = orderrepo.NewGormOrderRepository(db, noopTracker{})
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE orders, order_products").Error
	suite.Require().NoError(err)
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

// TestAddAndGet verifies the full aggregate survives the round trip,
// including line items and the deadline.
func (suite *OrderRepositoryIntegrationTestSuite) TestAddAndGet() {
	ctx := context.Background()
	deadline := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	testOrder := suite.createTestOrder(&deadline)

	err := suite.repo.Add(ctx, testOrder)
	suite.Require().NoError(err)

	retrieved, err := suite.repo.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)

	suite.Equal(testOrder.ID(), retrieved.ID())
	suite.Equal(testOrder.OrderNo(), retrieved.OrderNo())
	suite.Equal(testOrder.QRToken(), retrieved.QRToken())
	suite.Equal(testOrder.CustomerName(), retrieved.CustomerName())
	suite.Equal("待下料", retrieved.CurrentStation())
	suite.False(retrieved.IsCompleted())
	suite.Require().NotNil(retrieved.Deadline())
	suite.True(retrieved.Deadline().Equal(deadline))

	products := retrieved.Products()
	suite.Require().Len(products, 2)
	names := []string{products[0].Name(), products[1].Name()}
	suite.Contains(names, "衣柜")
	suite.Contains(names, "鞋柜")
}

// TestGetByQRToken verifies lookup by the token printed in the QR code.
func (suite *OrderRepositoryIntegrationTestSuite) TestGetByQRToken() {
	ctx := context.Background()
	testOrder := suite.createTestOrder(nil)

	err := suite.repo.Add(ctx, testOrder)
	suite.Require().NoError(err)

	retrieved, err := suite.repo.GetByQRToken(ctx, testOrder.QRToken())
	suite.Require().NoError(err)
	suite.Equal(testOrder.ID(), retrieved.ID())

	_, err = suite.repo.GetByQRToken(ctx, "missing-token")
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

// TestGet_NotFound verifies the not found translation for unknown identifiers.
func (suite *OrderRepositoryIntegrationTestSuite) TestGet_NotFound() {
	_, err := suite.repo.Get(context.Background(), kernel.NewUUID())

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

// TestUpdate verifies scalar fields change while line items stay untouched.
func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate() {
	ctx := context.Background()
	testOrder := suite.createTestOrder(nil)

	err := suite.repo.Add(ctx, testOrder)
	suite.Require().NoError(err)

	updated, err := order.RestoreOrder(
		testOrder.ID(),
		testOrder.OrderNo(),
		testOrder.QRToken(),
		"王先生",
		"13900000000",
		testOrder.Amount(),
		testOrder.Deadline(),
		testOrder.Products(),
		testOrder.CurrentStation(),
		nil,
	)
	suite.Require().NoError(err)

	err = suite.repo.Update(ctx, updated)
	suite.Require().NoError(err)

	retrieved, err := suite.repo.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal("王先生", retrieved.CustomerName())
	suite.Len(retrieved.Products(), 2)
}

// TestUpdate_NotFound verifies updating a missing order fails.
func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_NotFound() {
	testOrder := suite.createTestOrder(nil)

	err := suite.repo.Update(context.Background(), testOrder)

	suite.Require().ErrorIs(err, gorm.ErrRecordNotFound)
}

// TestUpdateStation verifies the compare-and-swap write both lands on a
// matching station and rejects a stale one.
func (suite *OrderRepositoryIntegrationTestSuite) TestUpdateStation() {
	ctx := context.Background()
	pl := pipeline.Default()
	testOrder := suite.createTestOrder(nil)

	err := suite.repo.Add(ctx, testOrder)
	suite.Require().NoError(err)

	expected := testOrder.CurrentStation()
	target, err := pl.Next(expected)
	suite.Require().NoError(err)
	err = testOrder.AdvanceTo(pl, target, time.Now().UTC())
	suite.Require().NoError(err)

	err = suite.repo.UpdateStation(ctx, testOrder, expected)
	suite.Require().NoError(err)

	retrieved, err := suite.repo.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal("下料", retrieved.CurrentStation())

	// Replaying the same swap must fail: the stored station moved on.
	err = suite.repo.UpdateStation(ctx, testOrder, expected)
	suite.Require().ErrorIs(err, errs.ErrVersionConflict)
}

// TestUpdateStation_StampsCompletion verifies the completion timestamp
// persists when the terminal station is reached.
func (suite *OrderRepositoryIntegrationTestSuite) TestUpdateStation_StampsCompletion() {
	ctx := context.Background()
	pl := pipeline.Default()
	testOrder := suite.createTestOrder(nil)

	err := suite.repo.Add(ctx, testOrder)
	suite.Require().NoError(err)

	// Walk the order to the terminal station one swap at a time.
	completedAt := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	current := testOrder
	for !current.IsCompleted() {
		expected := current.CurrentStation()
		target, nextErr := pl.Next(expected)
		suite.Require().NoError(nextErr)
		suite.Require().NoError(current.AdvanceTo(pl, target, completedAt))
		suite.Require().NoError(suite.repo.UpdateStation(ctx, current, expected))
	}

	retrieved, err := suite.repo.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal("已完成", retrieved.CurrentStation())
	suite.Require().NotNil(retrieved.CompletedAt())
	suite.True(retrieved.CompletedAt().Equal(completedAt))
}

// createTestOrder creates an order with two line items at the entry station.
func (suite *OrderRepositoryIntegrationTestSuite) createTestOrder(deadline *time.Time) *order.Order {
	id := kernel.NewUUID()

	wardrobe, err := order.NewProduct("衣柜", 120, 60, 200, 1, "个", 1500, 1500)
	suite.Require().NoError(err)
	shoeCabinet, err := order.NewProduct("鞋柜", 80, 35, 100, 2, "个", 400, 800)
	suite.Require().NoError(err)

	testOrder, err := order.NewOrder(
		id,
		fmt.Sprintf("QY-%s", id.String()[:8]),
		fmt.Sprintf("token-%s", id.String()),
		"李女士",
		"13800000000",
		2300,
		deadline,
		[]order.Product{wardrobe, shoeCabinet},
		pipeline.Default(),
	)
	suite.Require().NoError(err)
	return testOrder
}

func TestOrderRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}
