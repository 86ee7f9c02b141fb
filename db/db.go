// Package db owns the PostgreSQL connection pool and the schema migrations.
// The pool is created once at process start and handed to the repositories;
// nothing in the application reaches for a package-level handle.
package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"log/slog"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq" // database/sql driver handed to golang-migrate

	"github.com/user/tasklist-go/apperror"
	"github.com/user/tasklist-go/config"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const (
	connectTimeout  = 10 * time.Second
	pingTimeout     = 5 * time.Second
	maxConnIdleTime = 10 * time.Minute
	maxConnLifetime = 30 * time.Minute
)

// NewPool creates a pgx pool from the database configuration and verifies it
// with a ping.
func NewPool(ctx context.Context, cfg *config.DatabaseConfig) (*pgxpool.Pool, error) {
	return Connect(ctx, cfg.DSN(), cfg.PoolSize)
}

// Connect creates a pgx pool for an explicit DSN. maxConns <= 0 keeps the pgx default.
func Connect(ctx context.Context, dsn string, maxConns int) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, apperror.NewConfigError("error parsing database DSN", err)
	}
	if maxConns > 0 {
		poolConfig.MaxConns = int32(maxConns)
	}
	poolConfig.MaxConnIdleTime = maxConnIdleTime
	poolConfig.MaxConnLifetime = maxConnLifetime

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolConfig)
	if err != nil {
		return nil, apperror.NewStoreError("error creating connection pool", err)
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, pingTimeout)
	defer pingCancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, apperror.NewStoreError("error connecting to the database", err)
	}

	slog.Info("database connected", "max_conns", poolConfig.MaxConns)
	return pool, nil
}

// RunMigrations applies every pending migration embedded in the binary.
func RunMigrations(dsn string) error {
	m, err := newMigrator(dsn)
	if err != nil {
		return err
	}
	defer closeMigrator(m)

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return apperror.NewMigrationError("failed to run migrations", err)
	}

	version, dirty, err := m.Version()
	if err == nil {
		slog.Info("database migrations applied", "version", version, "dirty", dirty)
	}
	return nil
}

// RollbackMigrations reverts the given number of migrations.
func RollbackMigrations(dsn string, steps int) error {
	if steps <= 0 {
		return apperror.NewValidationError("rollback steps must be positive", nil)
	}
	m, err := newMigrator(dsn)
	if err != nil {
		return err
	}
	defer closeMigrator(m)

	if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return apperror.NewMigrationError("failed to roll back migrations", err)
	}
	slog.Info("database migrations rolled back", "steps", steps)
	return nil
}

func newMigrator(dsn string) (*migrate.Migrate, error) {
	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, apperror.NewMigrationError("failed to open migration connection", err)
	}

	driver, err := postgres.WithInstance(sqlDB, &postgres.Config{})
	if err != nil {
		_ = sqlDB.Close()
		return nil, apperror.NewMigrationError("failed to create migration driver", err)
	}

	source, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		_ = driver.Close()
		return nil, apperror.NewMigrationError("failed to read embedded migrations", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		_ = driver.Close()
		return nil, apperror.NewMigrationError("failed to create migrator", err)
	}
	return m, nil
}

func closeMigrator(m *migrate.Migrate) {
	srcErr, dbErr := m.Close()
	if srcErr != nil {
		slog.Warn("error closing migration source", "error", srcErr)
	}
	if dbErr != nil {
		slog.Warn("error closing migration database", "error", dbErr)
	}
}
