package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jpashop/backend/internal/infrastructure/config"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/extra/bundebug"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Database holds the GORM handle used by the write repositories and a bun
// handle, over the same connection pool, used by the read model
type Database struct {
	DB  *gorm.DB
	Bun *bun.DB
}

// Option customizes NewDatabase
type Option func(*dbOptions)

type dbOptions struct {
	gormLogger gormlogger.Interface
	queryHooks []bun.QueryHook
}

// WithGormLogger sets the GORM logger (silent by default)
func WithGormLogger(l gormlogger.Interface) Option {
	return func(o *dbOptions) { o.gormLogger = l }
}

// WithQueryHook adds a bun query hook
func WithQueryHook(h bun.QueryHook) Option {
	return func(o *dbOptions) { o.queryHooks = append(o.queryHooks, h) }
}

// NewDatabase opens a PostgreSQL connection pool and wraps it with GORM and bun
func NewDatabase(cfg *config.DatabaseConfig, opts ...Option) (*Database, error) {
	o := &dbOptions{gormLogger: gormlogger.Default.LogMode(gormlogger.Silent)}
	for _, opt := range opts {
		opt(o)
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:                 o.gormLogger,
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
		TranslateError:         true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if cfg.LogLevel == "debug" {
		o.queryHooks = append(o.queryHooks, bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}

	return &Database{DB: db, Bun: NewBunDB(sqlDB, o.queryHooks...)}, nil
}

// NewBunDB wraps an existing PostgreSQL connection pool with bun
func NewBunDB(sqlDB *sql.DB, hooks ...bun.QueryHook) *bun.DB {
	bunDB := bun.NewDB(sqlDB, pgdialect.New())
	for _, h := range hooks {
		bunDB.AddQueryHook(h)
	}
	return bunDB
}

// Close closes the shared connection pool
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}

// PingContext checks the shared pool; the health endpoint calls it
func (d *Database) PingContext(ctx context.Context) error {
	if d == nil || d.DB == nil {
		return errors.New("database is not initialized")
	}
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}
