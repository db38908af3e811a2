package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jpashop/backend/internal/domain/catalog"
	"github.com/jpashop/backend/internal/domain/member"
	"github.com/jpashop/backend/internal/domain/ordering"
	"github.com/jpashop/backend/internal/domain/shared"
	"github.com/jpashop/backend/internal/domain/shared/valueobject"
	"github.com/jpashop/backend/internal/interfaces/http/dto"
	"github.com/jpashop/backend/internal/interfaces/http/middleware"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// MockMemberRepository implements member.MemberRepository for testing
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

// MockItemRepository implements catalog.ItemRepository for testing
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

// MockOrderRepository implements ordering.OrderRepository for testing
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

// MockOrderQueryRepository implements ordering.OrderQueryRepository for testing
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

func newTestMember(t *testing.T, name string) *member.Member {
	t.Helper()
	m, err := member.NewMember(name, valueobject.MustNewAddress("Seoul", "Teheran-ro 1", "06000"))
	require.NoError(t, err)
	m.ClearDomainEvents()
	return m
}

func newTestBook(t *testing.T, name string, price int64, stock int) *catalog.Item {
	t.Helper()
	item, err := catalog.NewBook(name, decimal.NewFromInt(price), stock, "Kim", "978-1")
	require.NoError(t, err)
	item.ClearDomainEvents()
	return item
}

func newTestOrder(t *testing.T, m *member.Member, item *catalog.Item, count int) *ordering.Order {
	t.Helper()
	line, err := ordering.NewOrderItem(item, item.Price, count)
	require.NoError(t, err)
	order, err := ordering.NewOrder(m, line)
	require.NoError(t, err)
	order.ClearDomainEvents()
	return order
}

// performRequest sends a JSON request through the engine
func performRequest(engine *gin.Engine, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// dataMap returns the response data as a JSON object
func dataMap(t *testing.T, resp dto.Response) map[string]any {
	t.Helper()
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok, "data is %T", resp.Data)
	return data
}

// dataList returns the response data as a JSON array
func dataList(t *testing.T, resp dto.Response) []any {
	t.Helper()
	data, ok := resp.Data.([]any)
	require.True(t, ok, "data is %T", resp.Data)
	return data
}
