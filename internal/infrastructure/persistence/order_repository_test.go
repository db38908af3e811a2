package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	appordering "github.com/jpashop/backend/internal/application/ordering"
	"github.com/jpashop/backend/internal/domain/catalog"
	"github.com/jpashop/backend/internal/domain/ordering"
	"github.com/jpashop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormOrderRepository_SQLite(t *testing.T) {
	db, _ := newSQLiteTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	kim := createTestMember(t, db, "kim")
	lee := createTestMember(t, db, "lee")
	jpa := createTestBook(t, db, "JPA1 BOOK", 10000, 100)
	spring := createTestBook(t, db, "SPRING1 BOOK", 20000, 100)

	first := createTestOrder(t, db, kim, 1, jpa, spring)
	second := createTestOrder(t, db, lee, 2, spring)

	t.Run("find by id loads member delivery and lines", func(t *testing.T) {
		order, err := repo.FindByID(ctx, first.ID)
		require.NoError(t, err)

		assert.Equal(t, "kim", order.MemberName)
		assert.Equal(t, ordering.OrderStatusOrder, order.Status)
		assert.Equal(t, ordering.DeliveryStatusReady, order.Delivery.Status)
		assert.Equal(t, "Seoul", order.Delivery.Address.City())
		require.Len(t, order.Items, 2)
		names := []string{order.Items[0].ItemName, order.Items[1].ItemName}
		assert.ElementsMatch(t, []string{"JPA1 BOOK", "SPRING1 BOOK"}, names)
		assert.True(t, order.TotalPrice().Equal(decimal.NewFromInt(30000)))
	})

	t.Run("find by id not found", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("search without predicates returns all", func(t *testing.T) {
		orders, err := repo.Search(ctx, ordering.OrderSearch{})
		require.NoError(t, err)
		assert.Len(t, orders, 2)
	})

	t.Run("search by member name substring", func(t *testing.T) {
		orders, err := repo.Search(ctx, ordering.OrderSearch{MemberName: " ki "})
		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Equal(t, first.ID, orders[0].ID)
		assert.Len(t, orders[0].Items, 2)
	})

	t.Run("search by member name ignores case", func(t *testing.T) {
		orders, err := repo.Search(ctx, ordering.OrderSearch{MemberName: "KI"})
		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Equal(t, first.ID, orders[0].ID)
	})

	t.Run("search by status", func(t *testing.T) {
		orders, err := repo.Search(ctx, ordering.OrderSearch{Status: ordering.OrderStatusCancel})
		require.NoError(t, err)
		assert.Empty(t, orders)
	})

	t.Run("member and delivery join without lines", func(t *testing.T) {
		orders, err := repo.FindAllWithMemberDelivery(ctx, 0, 10)
		require.NoError(t, err)
		require.Len(t, orders, 2)
		for _, o := range orders {
			assert.NotEmpty(t, o.MemberName)
			assert.NotEqual(t, uuid.Nil, o.Delivery.ID)
			assert.Empty(t, o.Items)
		}
	})

	t.Run("paged with batched lines", func(t *testing.T) {
		orders, err := repo.FindAllWithItems(ctx, 1, 1)
		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.NotEmpty(t, orders[0].Items)

		all, err := repo.FindAllWithItems(ctx, 0, 100)
		require.NoError(t, err)
		total := 0
		for _, o := range all {
			total += len(o.Items)
		}
		assert.Equal(t, 3, total)
	})

	t.Run("cancel persists status with optimistic lock", func(t *testing.T) {
		order, err := repo.FindByID(ctx, second.ID)
		require.NoError(t, err)
		item, err := NewGormItemRepository(db).FindByID(ctx, spring.ID)
		require.NoError(t, err)

		require.NoError(t, order.Cancel(map[uuid.UUID]*catalog.Item{item.ID: item}))
		require.NoError(t, repo.SaveWithLock(ctx, order))
		assert.Equal(t, 2, order.Version)

		reloaded, err := repo.FindByID(ctx, second.ID)
		require.NoError(t, err)
		assert.Equal(t, ordering.OrderStatusCancel, reloaded.Status)

		stale := second
		stale.Status = ordering.OrderStatusCancel
		assert.ErrorIs(t, repo.SaveWithLock(ctx, stale), shared.ErrConcurrencyConflict)
	})

	t.Run("delivery completion is persisted", func(t *testing.T) {
		order, err := repo.FindByID(ctx, first.ID)
		require.NoError(t, err)
		require.NoError(t, order.CompleteDelivery())
		require.NoError(t, repo.SaveWithLock(ctx, order))

		reloaded, err := repo.FindByID(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, ordering.DeliveryStatusComp, reloaded.Delivery.Status)
	})
}

func TestGormOrderRepository_SearchLowersMemberName(t *testing.T) {
	db, mock := newMockGormDB(t)
	repo := NewGormOrderRepository(db)

	mock.ExpectQuery(`WHERE LOWER\("Member"\."name"\) LIKE LOWER\(\$1\) ESCAPE '\\' ORDER BY orders\.order_date DESC`).
		WithArgs("%KI%", ordering.MaxSearchResults).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	orders, err := repo.Search(context.Background(), ordering.OrderSearch{MemberName: "KI"})

	require.NoError(t, err)
	assert.Empty(t, orders)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormTransactionScope_RollsBack(t *testing.T) {
	db, _ := newSQLiteTestDB(t)
	scope := NewGormTransactionScope(db)
	ctx := context.Background()

	kim := createTestMember(t, db, "kim")
	book := createTestBook(t, db, "JPA", 10000, 5)

	err := scope.Execute(ctx, func(repos appordering.TransactionalRepositories) error {
		item, err := repos.ItemRepo().FindByID(ctx, book.ID)
		if err != nil {
			return err
		}
		line, err := ordering.NewOrderItem(item, item.Price, 2)
		if err != nil {
			return err
		}
		if err := repos.ItemRepo().SaveWithLock(ctx, item); err != nil {
			return err
		}
		m, err := repos.MemberRepo().FindByID(ctx, kim.ID)
		if err != nil {
			return err
		}
		order, err := ordering.NewOrder(m, line)
		if err != nil {
			return err
		}
		if err := repos.OrderRepo().Save(ctx, order); err != nil {
			return err
		}
		return shared.ErrInvalidState
	})
	require.ErrorIs(t, err, shared.ErrInvalidState)

	item, err := NewGormItemRepository(db).FindByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, item.StockQuantity)

	orders, err := NewGormOrderRepository(db).Search(ctx, ordering.OrderSearch{})
	require.NoError(t, err)
	assert.Empty(t, orders)
}
