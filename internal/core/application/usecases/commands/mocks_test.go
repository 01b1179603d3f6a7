package commands_test

import (
	"context"
	"sync"
	"time"

	"tindo/internal/core/application/usecases/commands"
	"tindo/internal/core/domain/model/agent"
	"tindo/internal/core/domain/model/kernel"
	"tindo/internal/core/domain/model/order"
	"tindo/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Finalize(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) AssignAgent(
	ctx context.Context, id kernel.UUID, agentID int64, at time.Time,
) (ports.AssignOutcome, error) {
	args := m.Called(ctx, id, agentID, at)
	return args.Get(0).(ports.AssignOutcome), args.Error(1)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByOrderNumber(ctx context.Context, orderNumber string) (*order.Order, error) {
	args := m.Called(ctx, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) IsOrderNumberTaken(ctx context.Context, orderNumber string) (bool, error) {
	args := m.Called(ctx, orderNumber)
	return args.Bool(0), args.Error(1)
}

type MockCustomerProfileRepository struct{ mock.Mock }

func (m *MockCustomerProfileRepository) Get(ctx context.Context, customerID int64) (ports.CustomerProfile, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).(ports.CustomerProfile), args.Error(1)
}

type MockRestaurantDirectory struct{ mock.Mock }

func (m *MockRestaurantDirectory) GetPhone(ctx context.Context, restaurantID int64) (string, error) {
	args := m.Called(ctx, restaurantID)
	return args.String(0), args.Error(1)
}

type MockLocationRepository struct{ mock.Mock }

func (m *MockLocationRepository) SaveLatest(ctx context.Context, sample agent.LocationSample) error {
	args := m.Called(ctx, sample)
	return args.Error(0)
}

func (m *MockLocationRepository) GetLatestForOrder(
	ctx context.Context, orderID kernel.UUID,
) (agent.LocationSample, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(agent.LocationSample), args.Error(1)
}

func (m *MockLocationRepository) DeleteSuperseded(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// RecordingPublisher captures published events for assertions.
// Publish is fire-and-forget, so a plain recorder fits better than a mock
// with ordered expectations.
type RecordingPublisher struct {
	mu     sync.Mutex
	topics []ports.Topic
	events []any
}

func (p *RecordingPublisher) Publish(_ context.Context, topic ports.Topic, payload any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	p.events = append(p.events, payload)
}

func (p *RecordingPublisher) Topics() []ports.Topic {
	p.mu.Lock()
	defer p.mu.Unlock()
	topics := make([]ports.Topic, len(p.topics))
	copy(topics, p.topics)
	return topics
}

func (p *RecordingPublisher) Events() []any {
	p.mu.Lock()
	defer p.mu.Unlock()
	events := make([]any, len(p.events))
	copy(events, p.events)
	return events
}

type MockOrderUoW struct{ mock.Mock }

func (m *MockOrderUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockCreateOrderUoW struct{ mock.Mock }

func (m *MockCreateOrderUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCreateOrderUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCreateOrderUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCreateOrderUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockCreateOrderUoW) CustomerProfileRepository() ports.CustomerProfileRepository {
	args := m.Called()
	return args.Get(0).(ports.CustomerProfileRepository)
}

func (m *MockCreateOrderUoW) RestaurantDirectory() ports.RestaurantDirectory {
	args := m.Called()
	return args.Get(0).(ports.RestaurantDirectory)
}

type MockCreateOrderUoWFactory struct{ mock.Mock }

func (m *MockCreateOrderUoWFactory) Create() commands.CreateOrderUoW {
	args := m.Called()
	return args.Get(0).(commands.CreateOrderUoW)
}

type MockLocationUoW struct{ mock.Mock }

func (m *MockLocationUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockLocationUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockLocationUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockLocationUoW) LocationRepository() ports.LocationRepository {
	args := m.Called()
	return args.Get(0).(ports.LocationRepository)
}

type MockLocationUoWFactory struct{ mock.Mock }

func (m *MockLocationUoWFactory) Create() commands.LocationUoW {
	args := m.Called()
	return args.Get(0).(commands.LocationUoW)
}
