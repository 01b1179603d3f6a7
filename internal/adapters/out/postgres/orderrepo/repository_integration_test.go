package orderrepo_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"tindo/internal/adapters/out/postgres/orderrepo"
	"tindo/internal/core/domain/model/kernel"
	"tindo/internal/core/domain/model/order"
	"tindo/internal/core/ports"
	"tindo/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MockAggregateTracker is a mock implementation of the aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

// nopTracker ignores tracking calls. Used where tracking is not under test.
type nopTracker struct{}

func (nopTracker) TrackAggregate(kernel.UUID, any) {}

// OrderRepositoryIntegrationTestSuite verifies order persistence behavior
// against a real PostgreSQL container.
type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *orderrepo.GormOrderRepository
	tracker    *MockAggregateTracker
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&orderrepo.OrderDTO{}))
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE orders").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.repository = orderrepo.NewGormOrderRepository(suite.db, suite.tracker)
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) createTestOrder() *order.Order {
	location, err := kernel.NewGeoPoint(12.9716, 77.5946)
	suite.Require().NoError(err)
	snapshot, err := order.NewDeliverySnapshot(location, "221B Residency Rd", "99880-11223", "080-2345")
	suite.Require().NoError(err)

	aggregate, err := order.NewOrder(kernel.NewUUID(), 7, 3, snapshot, "cash", "35 min", "ring twice")
	suite.Require().NoError(err)
	return aggregate
}

func (suite *OrderRepositoryIntegrationTestSuite) finalizeTestOrder(aggregate *order.Order, orderNumber string) {
	item, err := order.NewItem(11, "Masala Dosa", 9.5, 2)
	suite.Require().NoError(err)
	suite.Require().NoError(aggregate.Finalize(orderNumber, []order.Item{item}, 19.0))
}

func (suite *OrderRepositoryIntegrationTestSuite) assertOrderCount(expected int64) {
	var count int64
	suite.Require().NoError(suite.db.Model(&orderrepo.OrderDTO{}).Count(&count).Error)
	suite.Equal(expected, count)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAddFinalizeGet_Roundtrip() {
	ctx := context.Background()

	aggregate := suite.createTestOrder()
	suite.tracker.On("TrackAggregate", aggregate.ID(), aggregate).Twice()

	suite.Require().NoError(suite.repository.Add(ctx, aggregate))

	suite.finalizeTestOrder(aggregate, "123456789012")
	suite.Require().NoError(suite.repository.Finalize(ctx, aggregate))

	restored, err := suite.repository.Get(ctx, aggregate.ID())
	suite.Require().NoError(err)

	suite.Equal("123456789012", restored.OrderNumber())
	suite.Equal(int64(7), restored.CustomerID())
	suite.Equal(int64(3), restored.RestaurantID())
	suite.Equal(order.WaitingForAgent, restored.Status())
	suite.Equal(order.TrackingPending, restored.TrackingStatus())
	suite.InDelta(19.0, restored.Total(), 0.001)
	suite.Len(restored.Items(), 1)
	suite.Equal("221B Residency Rd", restored.Snapshot().Address())
	suite.InDelta(12.9716, restored.Snapshot().Location().Latitude(), 1e-9)
	suite.Nil(restored.AgentID())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestTwoPhaseCreate_RollbackLeavesNoRow() {
	ctx := context.Background()

	tx := suite.db.Begin()
	suite.Require().NoError(tx.Error)

	txRepo := orderrepo.NewGormOrderRepository(tx, nopTracker{})
	aggregate := suite.createTestOrder()
	suite.Require().NoError(txRepo.Add(ctx, aggregate))

	// Simulate a failure between the two phases.
	suite.Require().NoError(tx.Rollback().Error)

	suite.assertOrderCount(0)
	_, err := suite.repository.Get(ctx, aggregate.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAssignAgent_FirstWriteWins() {
	ctx := context.Background()

	aggregate := suite.createTestOrder()
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything).Twice()
	suite.Require().NoError(suite.repository.Add(ctx, aggregate))
	suite.finalizeTestOrder(aggregate, "223456789012")
	suite.Require().NoError(suite.repository.Finalize(ctx, aggregate))

	outcome, err := suite.repository.AssignAgent(ctx, aggregate.ID(), 42, time.Now())
	suite.Require().NoError(err)
	suite.Equal(ports.AssignOutcomeAssigned, outcome)

	outcome, err = suite.repository.AssignAgent(ctx, aggregate.ID(), 43, time.Now())
	suite.Require().NoError(err)
	suite.Equal(ports.AssignOutcomeAlreadyAssigned, outcome)

	restored, err := suite.repository.Get(ctx, aggregate.ID())
	suite.Require().NoError(err)
	suite.Require().NotNil(restored.AgentID())
	suite.Equal(int64(42), *restored.AgentID())
	suite.Equal(order.AgentAssigned, restored.Status())
	suite.Equal(order.TrackingAccepted, restored.TrackingStatus())
	suite.NotNil(restored.AgentAssignedAt())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAssignAgent_ConcurrentAcceptsOneWinner() {
	ctx := context.Background()

	aggregate := suite.createTestOrder()
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything).Twice()
	suite.Require().NoError(suite.repository.Add(ctx, aggregate))
	suite.finalizeTestOrder(aggregate, "323456789012")
	suite.Require().NoError(suite.repository.Finalize(ctx, aggregate))

	const contenders = 8
	outcomes := make([]ports.AssignOutcome, contenders)
	assignErrs := make([]error, contenders)

	var wg sync.WaitGroup
	for i := range contenders {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			outcomes[i], assignErrs[i] = suite.repository.AssignAgent(ctx, aggregate.ID(), int64(100+i), time.Now())
		}(i)
	}
	wg.Wait()

	var winners int
	for i := range contenders {
		suite.Require().NoError(assignErrs[i])
		if outcomes[i] == ports.AssignOutcomeAssigned {
			winners++
		} else {
			suite.Equal(ports.AssignOutcomeAlreadyAssigned, outcomes[i])
		}
	}
	suite.Equal(1, winners, "exactly one accept must win the race")
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAssignAgent_UnknownOrder() {
	ctx := context.Background()

	_, err := suite.repository.AssignAgent(ctx, kernel.NewUUID(), 42, time.Now())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_LifecycleNeverTouchesSnapshot() {
	ctx := context.Background()

	aggregate := suite.createTestOrder()
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything).Times(3)
	suite.Require().NoError(suite.repository.Add(ctx, aggregate))
	suite.finalizeTestOrder(aggregate, "423456789012")
	suite.Require().NoError(suite.repository.Finalize(ctx, aggregate))

	outcome, err := suite.repository.AssignAgent(ctx, aggregate.ID(), 42, time.Now())
	suite.Require().NoError(err)
	suite.Equal(ports.AssignOutcomeAssigned, outcome)

	// Mutate the snapshot columns behind the aggregate's back, then run a
	// lifecycle update and verify those columns were not rewritten.
	current, err := suite.repository.Get(ctx, aggregate.ID())
	suite.Require().NoError(err)
	suite.Require().NoError(current.MarkPickedUp(time.Now()))

	suite.Require().NoError(suite.db.Exec(
		"UPDATE orders SET delivery_address = 'tampered' WHERE id = ?", aggregate.ID().Bytes(),
	).Error)

	suite.Require().NoError(suite.repository.Update(ctx, current))

	var address string
	suite.Require().NoError(suite.db.Raw(
		"SELECT delivery_address FROM orders WHERE id = ?", aggregate.ID().Bytes(),
	).Scan(&address).Error)
	suite.Equal("tampered", address, "lifecycle updates must not write snapshot columns")

	restored, err := suite.repository.Get(ctx, aggregate.ID())
	suite.Require().NoError(err)
	suite.Equal(order.PickedUp, restored.Status())
	suite.NotNil(restored.PickedUpAt())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetByOrderNumber() {
	ctx := context.Background()

	aggregate := suite.createTestOrder()
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything).Twice()
	suite.Require().NoError(suite.repository.Add(ctx, aggregate))
	suite.finalizeTestOrder(aggregate, "523456789012")
	suite.Require().NoError(suite.repository.Finalize(ctx, aggregate))

	restored, err := suite.repository.GetByOrderNumber(ctx, "523456789012")
	suite.Require().NoError(err)
	suite.True(restored.IsEqual(aggregate))

	_, err = suite.repository.GetByOrderNumber(ctx, "999999999999")
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestIsOrderNumberTaken() {
	ctx := context.Background()

	taken, err := suite.repository.IsOrderNumberTaken(ctx, "623456789012")
	suite.Require().NoError(err)
	suite.False(taken)

	aggregate := suite.createTestOrder()
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything).Twice()
	suite.Require().NoError(suite.repository.Add(ctx, aggregate))
	suite.finalizeTestOrder(aggregate, "623456789012")
	suite.Require().NoError(suite.repository.Finalize(ctx, aggregate))

	taken, err = suite.repository.IsOrderNumberTaken(ctx, "623456789012")
	suite.Require().NoError(err)
	suite.True(taken)
}

func TestOrderRepositoryIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}
