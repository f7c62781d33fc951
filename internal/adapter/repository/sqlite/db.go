// Package sqlite provides the embedded SQLite storage used for single-user
// and development installations.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"

	"github.com/simaogato/stockplan-backend/internal/logger"
	_ "modernc.org/sqlite" // SQLite driver
)

// timeLayout is fixed-width so created_at sorts lexically
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// DB wraps the database connection
type DB struct {
	*sql.DB
}

// Open opens (or creates) the SQLite database file at path
func Open(ctx context.Context, path string, log *logger.Logger) (*DB, error) {
	dsn := path + "?" + url.Values{
		"_pragma": []string{"foreign_keys(1)", "busy_timeout(5000)"},
	}.Encode()

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// PRAGMA optimizations
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode = WAL;"); err != nil {
		log.Warning("Failed to set WAL mode: %v", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA synchronous = NORMAL;"); err != nil {
		log.Warning("Failed to set synchronous mode: %v", err)
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
			id          TEXT PRIMARY KEY,
			owner       TEXT NOT NULL,
			name        TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			created_at  TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_plans_owner ON plans (owner, created_at)`,
		`CREATE TABLE IF NOT EXISTS plan_positions (
			plan_id             TEXT NOT NULL REFERENCES plans (id) ON DELETE CASCADE,
			position            INTEGER NOT NULL,
			symbol              TEXT NOT NULL,
			display_name        TEXT NOT NULL,
			price_when_added    TEXT NOT NULL,
			money_invested      TEXT NOT NULL,
			monthly_growth_rate TEXT NOT NULL,
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
