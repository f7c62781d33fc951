package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/simaogato/stockplan-backend/internal/logger"
)

// DB wraps the database connection
type DB struct {
	*sql.DB
}

// NewDB creates a new database connection
// connectionString should be in the format: "host=localhost port=5432 user=postgres password=postgres dbname=stockplan sslmode=disable"
// The ping is retried with a doubling delay, up to retries extra attempts.
func NewDB(ctx context.Context, connectionString string, retries int, log *logger.Logger) (*DB, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	delay := 500 * time.Millisecond
	for attempt := 0; ; attempt++ {
		err = db.PingContext(ctx)
		if err == nil {
			break
		}
		if attempt >= retries {
			db.Close()
			return nil, fmt.Errorf("failed to ping database after %d attempts: %w", attempt+1, err)
		}

		log.Warning("Database not ready (attempt %d/%d): %v", attempt+1, retries+1, err)
		select {
		case <-ctx.Done():
			db.Close()
			return nil, ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}

	return &DB{DB: db}, nil
}

// Migrate creates the tables if they do not exist yet
func (db *DB) Migrate(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS stocks (
			symbol TEXT PRIMARY KEY,
			name   TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS plans (
			id          UUID PRIMARY KEY,
			owner       TEXT NOT NULL,
			name        TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			created_at  TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_plans_owner ON plans (owner, created_at)`,
		`CREATE TABLE IF NOT EXISTS plan_positions (
			plan_id             UUID NOT NULL REFERENCES plans (id) ON DELETE CASCADE,
			position            INTEGER NOT NULL,
			symbol              TEXT NOT NULL,
			display_name        TEXT NOT NULL,
			price_when_added    NUMERIC(20, 4) NOT NULL,
			money_invested      NUMERIC(20, 4) NOT NULL,
			monthly_growth_rate NUMERIC(10, 4) NOT NULL,
			PRIMARY KEY (plan_id, position),
			UNIQUE (plan_id, symbol)
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to migrate schema: %w", err)
		}
	}

	return nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}
