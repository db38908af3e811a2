package persistence

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jpashop/backend/internal/domain/catalog"
	"github.com/jpashop/backend/internal/domain/member"
	"github.com/jpashop/backend/internal/domain/ordering"
	"github.com/jpashop/backend/internal/domain/shared/valueobject"
	"github.com/jpashop/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newSQLiteTestDB opens a private in-memory SQLite database shared by a GORM
// and a bun handle, with the schema auto-migrated from the GORM models
func newSQLiteTestDB(t *testing.T) (*gorm.DB, *bun.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	sqlDB, err := sql.Open(sqliteshim.ShimName, dsn)
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	gormDB, err := gorm.Open(&sqlite.Dialector{Conn: sqlDB}, &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)
	require.NoError(t, gormDB.AutoMigrate(models.AllModels()...))

	return gormDB, bun.NewDB(sqlDB, sqlitedialect.New())
}

// newMockGormDB creates a GORM handle over sqlmock with the postgres dialector
func newMockGormDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	return gormDB, mock
}

func createTestMember(t *testing.T, db *gorm.DB, name string) *member.Member {
	t.Helper()
	m, err := member.NewMember(name, valueobject.MustNewAddress("Seoul", "Gangnam-daero 1", "06000"))
	require.NoError(t, err)
	require.NoError(t, NewGormMemberRepository(db).Save(t.Context(), m))
	return m
}

func createTestBook(t *testing.T, db *gorm.DB, name string, price int64, stock int) *catalog.Item {
	t.Helper()
	item, err := catalog.NewBook(name, decimal.NewFromInt(price), stock, "Kim", "978-0000000000")
	require.NoError(t, err)
	require.NoError(t, NewGormItemRepository(db).Save(t.Context(), item))
	return item
}

// createTestOrder places an order for count units of each item and persists
// the order and the reduced stock
func createTestOrder(t *testing.T, db *gorm.DB, m *member.Member, count int, items ...*catalog.Item) *ordering.Order {
	t.Helper()
	lines := make([]ordering.OrderItem, 0, len(items))
	for _, item := range items {
		line, err := ordering.NewOrderItem(item, item.Price, count)
		require.NoError(t, err)
		require.NoError(t, NewGormItemRepository(db).SaveWithLock(t.Context(), item))
		lines = append(lines, line)
	}
	order, err := ordering.NewOrder(m, lines...)
	require.NoError(t, err)
	require.NoError(t, NewGormOrderRepository(db).Save(t.Context(), order))
	return order
}
