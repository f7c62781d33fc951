package postgres

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
	query := `
		SELECT symbol, name
		FROM stocks
		WHERE symbol = $1
	`

	var stock domain.Stock
	err := r.db.QueryRowContext(ctx, query, strings.ToUpper(symbol)).Scan(&stock.Symbol, &stock.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrStockNotFound, symbol)
		}
		return nil, fmt.Errorf("failed to get stock by symbol: %w", err)
	}

	return &stock, nil
}

// Search returns stocks whose symbol or name contains query
func (r *stockRepository) Search(ctx context.Context, query string, limit, offset int) ([]*domain.Stock, error) {
	sqlQuery := `
		SELECT symbol, name
		FROM stocks
		WHERE symbol ILIKE $1 OR name ILIKE $1
		ORDER BY symbol
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, sqlQuery, "%"+escapeLike(query)+"%", limit, offset)
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

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stocks: %w", err)
	}

	return stocks, nil
}

// Upsert creates the stock or updates its name
func (r *stockRepository) Upsert(ctx context.Context, stock *domain.Stock) error {
	query := `
		INSERT INTO stocks (symbol, name)
		VALUES ($1, $2)
		ON CONFLICT (symbol) DO UPDATE SET name = EXCLUDED.name
	`

	if _, err := r.db.ExecContext(ctx, query, strings.ToUpper(stock.Symbol), stock.Name); err != nil {
		return fmt.Errorf("failed to upsert stock: %w", err)
	}

	return nil
}

// escapeLike escapes the LIKE wildcards of user input
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
