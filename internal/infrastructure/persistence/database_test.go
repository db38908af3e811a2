package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDatabase(t *testing.T) (*Database, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       sqlDB,
		DriverName: "postgres",
	}), &gorm.Config{SkipDefaultTransaction: true, DisableAutomaticPing: true})
	require.NoError(t, err)

	return &Database{DB: gormDB, Bun: NewBunDB(sqlDB)}, mock
}

func TestDatabase_PingContext(t *testing.T) {
	t.Run("pool reachable", func(t *testing.T) {
		db, mock := newMockDatabase(t)
		mock.ExpectPing()

		assert.NoError(t, db.PingContext(context.Background()))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("pool unreachable", func(t *testing.T) {
		db, mock := newMockDatabase(t)
		mock.ExpectPing().WillReturnError(errors.New("connection refused"))

		assert.EqualError(t, db.PingContext(context.Background()), "connection refused")
	})

	t.Run("uninitialized", func(t *testing.T) {
		var db *Database
		assert.Error(t, db.PingContext(context.Background()))
		assert.Error(t, (&Database{}).PingContext(context.Background()))
	})
}

func TestDatabase_Close(t *testing.T) {
	db, mock := newMockDatabase(t)
	mock.ExpectClose()

	assert.NoError(t, db.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabase_HandlesSharePool(t *testing.T) {
	db, mock := newMockDatabase(t)

	gormSQL, err := db.DB.DB()
	require.NoError(t, err)
	assert.Same(t, gormSQL, db.Bun.DB)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "member"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	n, err := db.Bun.NewSelect().Table("member").Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithQueryHook(t *testing.T) {
	o := &dbOptions{}
	WithQueryHook(nil)(o)
	WithQueryHook(nil)(o)
	assert.Len(t, o.queryHooks, 2)

	WithGormLogger(nil)(o)
	assert.Nil(t, o.gormLogger)
}
