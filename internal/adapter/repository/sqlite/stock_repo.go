package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/simaogato/stockplan-backend/internal/domain"
)

// stockRepository implements domain.StockRepository
type stockRepository struct {
	db *DB
}

// NewStockRepository creates a new stock repository
func NewStockRepository(db *DB) domain.StockRepository {
	return &stockRepository{db: db}
}

// GetBySymbol retrieves a stock by its symbol
func (r *stockRepository) GetBySymbol(ctx context.Context, symbol string) (*domain.Stock, error) {
	var stock domain.Stock
	err := r.db.QueryRowContext(ctx,
		`SELECT symbol, name FROM stocks WHERE symbol = ?`,
		strings.ToUpper(symbol),
	).Scan(&stock.Symbol, &stock.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrStockNotFound, symbol)
		}
		return nil, fmt.Errorf("failed to get stock by symbol: %w", err)
	}

	return &stock, nil
}

// Search returns stocks whose symbol or name contains query
// LIKE is case-insensitive for ASCII in SQLite
func (r *stockRepository) Search(ctx context.Context, query string, limit, offset int) ([]*domain.Stock, error) {
	pattern := "%" + escapeLike(query) + "%"

	rows, err := r.db.QueryContext(ctx, `
		SELECT symbol, name
		FROM stocks
		WHERE symbol LIKE ? ESCAPE '\' OR name LIKE ? ESCAPE '\'
		ORDER BY symbol
		LIMIT ? OFFSET ?
	`, pattern, pattern, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to search stocks: %w", err)
	}
	defer rows.Close()

	stocks := make([]*domain.Stock, 0)
	for rows.Next() {
		var stock domain.Stock
		if err := rows.Scan(&stock.Symbol, &stock.Name); err != nil {
			return nil, fmt.Errorf("failed to scan stock: %w", err)
		}
		stocks = append(stocks, &stock)
	}

	return stocks, rows.Err()
}

// Upsert creates the stock or updates its name
func (r *stockRepository) Upsert(ctx context.Context, stock *domain.Stock) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO stocks (symbol, name) VALUES (?, ?)
		ON CONFLICT (symbol) DO UPDATE SET name = excluded.name
	`, strings.ToUpper(stock.Symbol), stock.Name)
	if err != nil {
		return fmt.Errorf("failed to upsert stock: %w", err)
	}
	return nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
