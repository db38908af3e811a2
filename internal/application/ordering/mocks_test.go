package ordering

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jpashop/backend/internal/domain/catalog"
	"github.com/jpashop/backend/internal/domain/member"
	"github.com/jpashop/backend/internal/domain/ordering"
	"github.com/jpashop/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockMemberRepository is a mock implementation of MemberRepository
type MockMemberRepository struct {
	mock.Mock
}

func (m *MockMemberRepository) FindByID(ctx context.Context, id uuid.UUID) (*member.Member, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*member.Member), args.Error(1)
}

func (m *MockMemberRepository) FindByName(ctx context.Context, name string) (*member.Member, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*member.Member), args.Error(1)
}

func (m *MockMemberRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockMemberRepository) FindAll(ctx context.Context, filter shared.Filter) ([]member.Member, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]member.Member), args.Error(1)
}

func (m *MockMemberRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMemberRepository) Save(ctx context.Context, mem *member.Member) error {
	return m.Called(ctx, mem).Error(0)
}

func (m *MockMemberRepository) SaveWithLock(ctx context.Context, mem *member.Member) error {
	return m.Called(ctx, mem).Error(0)
}

// MockItemRepository is a mock implementation of ItemRepository
type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Item), args.Error(1)
}

func (m *MockItemRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Item, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]catalog.Item), args.Error(1)
}

func (m *MockItemRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Item, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Item), args.Error(1)
}

func (m *MockItemRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockItemRepository) Save(ctx context.Context, item *catalog.Item) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockItemRepository) SaveWithLock(ctx context.Context, item *catalog.Item) error {
	return m.Called(ctx, item).Error(0)
}

// MockOrderRepository is a mock implementation of OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*ordering.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ordering.Order), args.Error(1)
}

func (m *MockOrderRepository) Search(ctx context.Context, search ordering.OrderSearch) ([]ordering.Order, error) {
	args := m.Called(ctx, search)
	return args.Get(0).([]ordering.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAllWithMemberDelivery(ctx context.Context, offset, limit int) ([]ordering.Order, error) {
	args := m.Called(ctx, offset, limit)
	return args.Get(0).([]ordering.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAllWithItems(ctx context.Context, offset, limit int) ([]ordering.Order, error) {
	args := m.Called(ctx, offset, limit)
	return args.Get(0).([]ordering.Order), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, order *ordering.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *MockOrderRepository) SaveWithLock(ctx context.Context, order *ordering.Order) error {
	return m.Called(ctx, order).Error(0)
}

// MockOrderQueryRepository is a mock implementation of OrderQueryRepository
type MockOrderQueryRepository struct {
	mock.Mock
}

func (m *MockOrderQueryRepository) FindOrderQueryDTOs(ctx context.Context, offset, limit int) ([]ordering.OrderQueryDTO, error) {
	args := m.Called(ctx, offset, limit)
	return args.Get(0).([]ordering.OrderQueryDTO), args.Error(1)
}

func (m *MockOrderQueryRepository) FindAllByDTOOptimized(ctx context.Context, offset, limit int) ([]ordering.OrderQueryDTO, error) {
	args := m.Called(ctx, offset, limit)
	return args.Get(0).([]ordering.OrderQueryDTO), args.Error(1)
}

func (m *MockOrderQueryRepository) FindAllByDTOFlat(ctx context.Context, offset, limit int) ([]ordering.OrderFlatDTO, error) {
	args := m.Called(ctx, offset, limit)
	return args.Get(0).([]ordering.OrderFlatDTO), args.Error(1)
}

func (m *MockOrderQueryRepository) FindSimpleOrders(ctx context.Context, offset, limit int) ([]ordering.SimpleOrderDTO, error) {
	args := m.Called(ctx, offset, limit)
	return args.Get(0).([]ordering.SimpleOrderDTO), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	return m.Called(ctx, events).Error(0)
}

// MockIdempotencyStore is a mock implementation of IdempotencyStore
type MockIdempotencyStore struct {
	mock.Mock
}

func (m *MockIdempotencyStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) IsProcessed(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) Release(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockIdempotencyStore) Close() error {
	return m.Called().Error(0)
}
