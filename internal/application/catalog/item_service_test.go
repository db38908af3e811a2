package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jpashop/backend/internal/domain/catalog"
	"github.com/jpashop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

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

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	return m.Called(ctx, events).Error(0)
}

func createTestBook(t *testing.T, stock int) *catalog.Item {
	t.Helper()
	item, err := catalog.NewBook("JPA", decimal.NewFromInt(10000), stock, "Kim", "978-1")
	require.NoError(t, err)
	item.ClearDomainEvents()
	return item
}

func TestItemService_Create(t *testing.T) {
	tests := []struct {
		name  string
		req   CreateItemRequest
		check func(t *testing.T, r *ItemResponse)
	}{
		{
			name: "book",
			req:  CreateItemRequest{Kind: "book", Name: "JPA", Price: decimal.NewFromInt(10000), StockQuantity: 10, Author: "Kim", ISBN: "978-1", Artist: "ignored"},
			check: func(t *testing.T, r *ItemResponse) {
				assert.Equal(t, "BOOK", r.Kind)
				assert.Equal(t, "Kim", r.Author)
				assert.Empty(t, r.Artist)
			},
		},
		{
			name: "album",
			req:  CreateItemRequest{Kind: "ALBUM", Name: "Abbey Road", Price: decimal.NewFromInt(20000), StockQuantity: 3, Artist: "Beatles", Etc: "LP"},
			check: func(t *testing.T, r *ItemResponse) {
				assert.Equal(t, "ALBUM", r.Kind)
				assert.Equal(t, "Beatles", r.Artist)
				assert.Equal(t, "LP", r.Etc)
			},
		},
		{
			name: "movie",
			req:  CreateItemRequest{Kind: "movie", Name: "Parasite", Price: decimal.NewFromInt(15000), Director: "Bong", Actor: "Song"},
			check: func(t *testing.T, r *ItemResponse) {
				assert.Equal(t, "MOVIE", r.Kind)
				assert.Equal(t, "Bong", r.Director)
				assert.Equal(t, 0, r.StockQuantity)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockItemRepository)
			publisher := new(MockEventPublisher)
			service := NewItemService(repo, publisher, nil)

			repo.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Item")).Return(nil)
			publisher.On("Publish", mock.Anything, mock.MatchedBy(func(events []shared.DomainEvent) bool {
				return len(events) == 1 && events[0].EventType() == catalog.EventTypeItemCreated
			})).Return(nil)

			result, err := service.Create(context.Background(), tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.req.Name, result.Name)
			tt.check(t, result)
			repo.AssertExpectations(t)
			publisher.AssertExpectations(t)
		})
	}
}

func TestItemService_Create_Invalid(t *testing.T) {
	t.Run("unknown kind", func(t *testing.T) {
		repo := new(MockItemRepository)
		service := NewItemService(repo, nil, nil)

		_, err := service.Create(context.Background(), CreateItemRequest{Kind: "poster", Name: "x"})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_KIND", domainErr.Code)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("negative price", func(t *testing.T) {
		repo := new(MockItemRepository)
		service := NewItemService(repo, nil, nil)

		_, err := service.Create(context.Background(), CreateItemRequest{Kind: "BOOK", Name: "x", Price: decimal.NewFromInt(-1)})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_PRICE", domainErr.Code)
	})
}

func TestItemService_List_BuildsFilter(t *testing.T) {
	repo := new(MockItemRepository)
	service := NewItemService(repo, nil, nil)
	inStock := true

	expectFilter := mock.MatchedBy(func(f shared.Filter) bool {
		return f.Page == 2 && f.PageSize == 10 && f.Search == "jpa" &&
			f.Filters["kind"] == catalog.KindBook && f.Filters["in_stock"] == true
	})
	repo.On("FindAll", mock.Anything, expectFilter).Return([]catalog.Item{*createTestBook(t, 5)}, nil)
	repo.On("Count", mock.Anything, expectFilter).Return(int64(11), nil)

	result, total, err := service.List(context.Background(), ItemListFilter{
		Page: 2, PageSize: 10, Kind: "book", Search: "jpa", InStock: &inStock,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(11), total)
	assert.Len(t, result, 1)
	repo.AssertExpectations(t)
}

func TestItemService_List_InvalidKind(t *testing.T) {
	service := NewItemService(new(MockItemRepository), nil, nil)
	_, _, err := service.List(context.Background(), ItemListFilter{Kind: "poster"})
	assert.Error(t, err)
}

func TestItemService_Update(t *testing.T) {
	repo := new(MockItemRepository)
	publisher := new(MockEventPublisher)
	service := NewItemService(repo, publisher, nil)
	item := createTestBook(t, 5)

	repo.On("FindByID", mock.Anything, item.ID).Return(item, nil)
	repo.On("SaveWithLock", mock.Anything, item).Return(nil)
	publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

	result, err := service.Update(context.Background(), item.ID, UpdateItemRequest{
		Name: "JPA 2nd", Price: decimal.NewFromInt(12000), StockQuantity: 7, Author: "Kim Y", ISBN: "978-2",
	})

	require.NoError(t, err)
	assert.Equal(t, "JPA 2nd", result.Name)
	assert.True(t, decimal.NewFromInt(12000).Equal(result.Price))
	assert.Equal(t, 7, result.StockQuantity)
	assert.Equal(t, "978-2", result.ISBN)
	repo.AssertExpectations(t)
}

func TestItemService_Update_NotFound(t *testing.T) {
	repo := new(MockItemRepository)
	service := NewItemService(repo, nil, nil)
	id := uuid.New()
	repo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

	_, err := service.Update(context.Background(), id, UpdateItemRequest{Name: "x"})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestItemService_AddStock(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		repo := new(MockItemRepository)
		service := NewItemService(repo, nil, nil)
		item := createTestBook(t, 5)

		repo.On("FindByID", mock.Anything, item.ID).Return(item, nil)
		repo.On("SaveWithLock", mock.Anything, item).Return(nil)

		result, err := service.AddStock(context.Background(), item.ID, AddStockRequest{Quantity: 3})
		require.NoError(t, err)
		assert.Equal(t, 8, result.StockQuantity)
	})

	t.Run("non-positive quantity", func(t *testing.T) {
		repo := new(MockItemRepository)
		service := NewItemService(repo, nil, nil)
		item := createTestBook(t, 5)
		repo.On("FindByID", mock.Anything, item.ID).Return(item, nil)

		_, err := service.AddStock(context.Background(), item.ID, AddStockRequest{Quantity: 0})
		assert.Error(t, err)
		repo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})
}

func TestItemService_CountSoldOut(t *testing.T) {
	repo := new(MockItemRepository)
	service := NewItemService(repo, nil, nil)
	repo.On("Count", mock.Anything, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Filters["in_stock"] == false
	})).Return(int64(4), nil)

	count, err := service.CountSoldOut(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
}
