// Package dbtest starts a disposable PostgreSQL for integration tests.
package dbtest

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/user/tasklist-go/db"
)

// Database is a migrated PostgreSQL running in a container.
type Database struct {
	Pool *pgxpool.Pool
	DSN  string

	container *postgres.PostgresContainer
}

// Start runs a postgres container, applies the migrations and opens a pool.
func Start(ctx context.Context) (*Database, error) {
	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("tasklist_test"),
		postgres.WithUsername("tasklist"),
		postgres.WithPassword("tasklist"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	if err := db.RunMigrations(dsn); err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}

	pool, err := db.Connect(ctx, dsn, 5)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}

	return &Database{Pool: pool, DSN: dsn, container: container}, nil
}

// Truncate empties every application table.
func (d *Database) Truncate(ctx context.Context) error {
	_, err := d.Pool.Exec(ctx, "TRUNCATE users, todos CASCADE")
	return err
}

// Close releases the pool and stops the container.
func (d *Database) Close(ctx context.Context) error {
	d.Pool.Close()
	return d.container.Terminate(ctx)
}
