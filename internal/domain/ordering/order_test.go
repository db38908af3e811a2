package ordering

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jpashop/backend/internal/domain/catalog"
	"github.com/jpashop/backend/internal/domain/member"
	"github.com/jpashop/backend/internal/domain/shared"
	"github.com/jpashop/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMember(t *testing.T) *member.Member {
	t.Helper()
	m, err := member.NewMember("member1", valueobject.MustNewAddress("Seoul", "River", "123-123"))
	require.NoError(t, err)
	return m
}

func newTestBook(t *testing.T, name string, price int64, stock int) *catalog.Item {
	t.Helper()
	book, err := catalog.NewBook(name, decimal.NewFromInt(price), stock, "author", "isbn")
	require.NoError(t, err)
	return book
}

func placeOrder(t *testing.T, m *member.Member, book *catalog.Item, count int) *Order {
	t.Helper()
	line, err := NewOrderItem(book, book.Price, count)
	require.NoError(t, err)
	order, err := NewOrder(m, line)
	require.NoError(t, err)
	return order
}

func TestNewOrder(t *testing.T) {
	m := newTestMember(t)
	book := newTestBook(t, "JPA", 10000, 10)

	order := placeOrder(t, m, book, 2)

	assert.Equal(t, OrderStatusOrder, order.Status)
	assert.Equal(t, m.ID, order.MemberID)
	assert.Equal(t, "member1", order.MemberName)
	assert.False(t, order.OrderDate.IsZero())
	require.Len(t, order.Items, 1)
	assert.Equal(t, order.ID, order.Items[0].OrderID)
	assert.Equal(t, 8, book.StockQuantity, "stock is taken when the line is created")
	assert.True(t, decimal.NewFromInt(20000).Equal(order.TotalPrice()))

	assert.Equal(t, DeliveryStatusReady, order.Delivery.Status)
	assert.Equal(t, order.ID, order.Delivery.OrderID)
	assert.Equal(t, m.Address, order.Delivery.Address)

	events := order.GetDomainEvents()
	require.Len(t, events, 1)
	placed, ok := events[0].(*OrderPlacedEvent)
	require.True(t, ok)
	assert.True(t, decimal.NewFromInt(20000).Equal(placed.TotalPrice))
	require.Len(t, placed.Lines, 1)
	assert.Equal(t, book.ID, placed.Lines[0].ItemID)
}

func TestNewOrder_Validation(t *testing.T) {
	t.Run("requires items", func(t *testing.T) {
		_, err := NewOrder(newTestMember(t))
		assert.Error(t, err)
	})

	t.Run("requires member", func(t *testing.T) {
		book := newTestBook(t, "JPA", 10000, 10)
		line, err := NewOrderItem(book, book.Price, 1)
		require.NoError(t, err)
		_, err = NewOrder(nil, line)
		assert.Error(t, err)
	})

	t.Run("exceeding stock fails", func(t *testing.T) {
		book := newTestBook(t, "JPA", 10000, 10)
		_, err := NewOrderItem(book, book.Price, 11)
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrInsufficientStock))
		assert.Equal(t, 10, book.StockQuantity)
	})

	t.Run("count must be positive", func(t *testing.T) {
		book := newTestBook(t, "JPA", 10000, 10)
		_, err := NewOrderItem(book, book.Price, 0)
		assert.Error(t, err)
	})
}

func TestOrder_Cancel(t *testing.T) {
	t.Run("restores stock", func(t *testing.T) {
		m := newTestMember(t)
		book := newTestBook(t, "JPA", 10000, 10)
		order := placeOrder(t, m, book, 2)
		order.ClearDomainEvents()

		require.NoError(t, order.Cancel(map[uuid.UUID]*catalog.Item{book.ID: book}))

		assert.Equal(t, OrderStatusCancel, order.Status)
		assert.True(t, order.IsCancelled())
		assert.Equal(t, 10, book.StockQuantity)
		require.Len(t, order.GetDomainEvents(), 1)
		assert.Equal(t, EventTypeOrderCancelled, order.GetDomainEvents()[0].EventType())
	})

	t.Run("cannot cancel twice", func(t *testing.T) {
		book := newTestBook(t, "JPA", 10000, 10)
		order := placeOrder(t, newTestMember(t), book, 2)
		items := map[uuid.UUID]*catalog.Item{book.ID: book}

		require.NoError(t, order.Cancel(items))
		err := order.Cancel(items)
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrInvalidState))
		assert.Equal(t, 10, book.StockQuantity)
	})

	t.Run("cannot cancel after delivery", func(t *testing.T) {
		book := newTestBook(t, "JPA", 10000, 10)
		order := placeOrder(t, newTestMember(t), book, 2)
		require.NoError(t, order.CompleteDelivery())

		err := order.Cancel(map[uuid.UUID]*catalog.Item{book.ID: book})
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrDeliveryCompleted))
		assert.Equal(t, "already delivered, cannot cancel", err.Error())
		assert.Equal(t, OrderStatusOrder, order.Status)
		assert.Equal(t, 8, book.StockQuantity)
	})

	t.Run("missing item fails", func(t *testing.T) {
		book := newTestBook(t, "JPA", 10000, 10)
		order := placeOrder(t, newTestMember(t), book, 2)
		err := order.Cancel(map[uuid.UUID]*catalog.Item{})
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})
}

func TestOrder_CompleteDelivery(t *testing.T) {
	book := newTestBook(t, "JPA", 10000, 10)

	t.Run("completes once", func(t *testing.T) {
		order := placeOrder(t, newTestMember(t), book, 1)
		require.NoError(t, order.CompleteDelivery())
		assert.Equal(t, DeliveryStatusComp, order.Delivery.Status)
		assert.Error(t, order.CompleteDelivery())
	})

	t.Run("cancelled order cannot be delivered", func(t *testing.T) {
		order := placeOrder(t, newTestMember(t), book, 1)
		require.NoError(t, order.Cancel(map[uuid.UUID]*catalog.Item{book.ID: book}))
		assert.Error(t, order.CompleteDelivery())
		assert.Equal(t, DeliveryStatusReady, order.Delivery.Status)
	})
}

func TestOrder_TotalPriceAndItemIDs(t *testing.T) {
	m := newTestMember(t)
	book1 := newTestBook(t, "JPA1", 10000, 10)
	book2 := newTestBook(t, "JPA2", 20000, 10)

	line1, err := NewOrderItem(book1, book1.Price, 1)
	require.NoError(t, err)
	line2, err := NewOrderItem(book2, book2.Price, 2)
	require.NoError(t, err)
	line3, err := NewOrderItem(book1, book1.Price, 3)
	require.NoError(t, err)

	order, err := NewOrder(m, line1, line2, line3)
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(80000).Equal(order.TotalPrice()))
	assert.Equal(t, []uuid.UUID{book1.ID, book2.ID}, order.ItemIDs())
}

func TestParseOrderStatus(t *testing.T) {
	s, err := ParseOrderStatus("")
	require.NoError(t, err)
	assert.Equal(t, OrderStatus(""), s)

	s, err = ParseOrderStatus("CANCEL")
	require.NoError(t, err)
	assert.Equal(t, OrderStatusCancel, s)

	_, err = ParseOrderStatus("SHIPPED")
	assert.Error(t, err)
}

func TestGroupFlatRows(t *testing.T) {
	o1, o2 := uuid.New(), uuid.New()
	rows := []OrderFlatDTO{
		{OrderID: o1, MemberName: "a", ItemName: "x", OrderPrice: decimal.NewFromInt(1), Count: 1},
		{OrderID: o2, MemberName: "b", ItemName: "y", OrderPrice: decimal.NewFromInt(2), Count: 2},
		{OrderID: o1, MemberName: "a", ItemName: "z", OrderPrice: decimal.NewFromInt(3), Count: 3},
	}

	grouped := GroupFlatRows(rows)
	require.Len(t, grouped, 2)
	assert.Equal(t, o1, grouped[0].OrderID)
	assert.Len(t, grouped[0].OrderItems, 2)
	assert.Equal(t, "z", grouped[0].OrderItems[1].ItemName)
	assert.Equal(t, o2, grouped[1].OrderID)
	assert.Len(t, grouped[1].OrderItems, 1)

	assert.Empty(t, GroupFlatRows(nil))
}
