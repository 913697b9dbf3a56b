package deliveryrepo_test

import (
	"context"
	"testing"
	"time"

	"routeplanner/internal/adapters/out/postgres/deliveryrepo"
	"routeplanner/internal/core/domain/model/delivery"
	"routeplanner/internal/core/domain/model/kernel"
	"routeplanner/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MockAggregateTracker is a mock implementation of aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

// DeliveryRepositoryIntegrationTestSuite provides integration tests for
// DeliveryRepository using PostgreSQL containers.
type DeliveryRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *deliveryrepo.GormDeliveryRepository
	tracker    *MockAggregateTracker
}

func (suite *DeliveryRepositoryIntegrationTestSuite) SetupSuite() {
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

	suite.Require().NoError(db.AutoMigrate(&deliveryrepo.DeliveryDTO{}))
}

func (suite *DeliveryRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE deliveries").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.repository = deliveryrepo.NewGormDeliveryRepository(suite.db, suite.tracker)
}

func (suite *DeliveryRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *DeliveryRepositoryIntegrationTestSuite) createTestDelivery() *delivery.Delivery {
	aggregate, err := delivery.NewDelivery(kernel.NewUUID(), kernel.NewUUID(), 3)
	suite.Require().NoError(err)
	return aggregate
}

func (suite *DeliveryRepositoryIntegrationTestSuite) TestAddAndGet_RoundTrip() {
	ctx := context.Background()
	aggregate := suite.createTestDelivery()
	suite.tracker.On("TrackAggregate", aggregate.ID(), aggregate).Once()

	suite.Require().NoError(suite.repository.Add(ctx, aggregate))

	restored, err := suite.repository.Get(ctx, aggregate.ID())
	suite.Require().NoError(err)

	suite.True(restored.IsEqual(aggregate))
	suite.True(restored.RouteID().IsEqual(aggregate.RouteID()))
	suite.Equal(3, restored.StopCount())
	suite.Equal(delivery.InProgress, restored.Status())
	suite.Nil(restored.CurrentLocation())
	suite.Empty(restored.CompletedStops())
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *DeliveryRepositoryIntegrationTestSuite) TestUpdate_TrackingProgress() {
	ctx := context.Background()
	aggregate := suite.createTestDelivery()
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything)

	suite.Require().NoError(suite.repository.Add(ctx, aggregate))

	location, err := kernel.NewCoordinate("Marine Drive", 18.9438, 72.8231)
	suite.Require().NoError(err)
	suite.Require().NoError(aggregate.UpdateLocation(location, time.Now().UTC()))
	suite.Require().NoError(aggregate.CompleteStop(0))
	suite.Require().NoError(aggregate.CompleteStop(2))

	suite.Require().NoError(suite.repository.Update(ctx, aggregate))

	restored, err := suite.repository.Get(ctx, aggregate.ID())
	suite.Require().NoError(err)

	suite.Require().NotNil(restored.CurrentLocation())
	equal, err := location.IsEqual(*restored.CurrentLocation())
	suite.Require().NoError(err)
	suite.True(equal)
	suite.Equal([]int{0, 2}, restored.CompletedStops())
}

func (suite *DeliveryRepositoryIntegrationTestSuite) TestUpdate_Completion() {
	ctx := context.Background()
	aggregate := suite.createTestDelivery()
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything)

	suite.Require().NoError(suite.repository.Add(ctx, aggregate))
	suite.Require().NoError(aggregate.Complete())
	suite.Require().NoError(suite.repository.Update(ctx, aggregate))

	restored, err := suite.repository.Get(ctx, aggregate.ID())
	suite.Require().NoError(err)
	suite.Equal(delivery.Completed, restored.Status())
	suite.NotNil(restored.CompletedAt())
}

func (suite *DeliveryRepositoryIntegrationTestSuite) TestGet_NotFound() {
	_, err := suite.repository.Get(context.Background(), kernel.NewUUID())

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *DeliveryRepositoryIntegrationTestSuite) TestGetByRouteID() {
	ctx := context.Background()
	aggregate := suite.createTestDelivery()
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything)

	suite.Require().NoError(suite.repository.Add(ctx, aggregate))

	restored, err := suite.repository.GetByRouteID(ctx, aggregate.RouteID())
	suite.Require().NoError(err)
	suite.True(restored.IsEqual(aggregate))

	_, err = suite.repository.GetByRouteID(ctx, kernel.NewUUID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *DeliveryRepositoryIntegrationTestSuite) TestAdd_DuplicateRouteRejected() {
	ctx := context.Background()
	aggregate := suite.createTestDelivery()
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything)

	suite.Require().NoError(suite.repository.Add(ctx, aggregate))

	second, err := delivery.NewDelivery(kernel.NewUUID(), aggregate.RouteID(), 3)
	suite.Require().NoError(err)

	suite.Require().Error(suite.repository.Add(ctx, second),
		"unique index on route_id enforces one delivery per route")
}

func TestDeliveryRepositoryIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(DeliveryRepositoryIntegrationTestSuite))
}
