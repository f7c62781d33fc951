package domain

import (
	"context"

	"github.com/google/uuid"
)

// PlanRepository defines the interface for plan persistence operations
type PlanRepository interface {
	// Create creates a new plan together with its positions
	Create(ctx context.Context, plan *Plan) error

	// GetByID retrieves a plan by its ID
	// Returns an error wrapping ErrPlanNotFound if it does not exist
	GetByID(ctx context.Context, id uuid.UUID) (*Plan, error)

	// ListByOwner retrieves all plans of a user, oldest first
	ListByOwner(ctx context.Context, owner string) ([]*Plan, error)

	// Delete removes a plan owned by the given user
	// Returns an error wrapping ErrPlanNotFound if no such plan exists for that owner
	Delete(ctx context.Context, id uuid.UUID, owner string) error
}

// StockRepository defines the interface for the stock catalog
type StockRepository interface {
	// GetBySymbol retrieves a stock by its symbol (case-insensitive)
	// Returns an error wrapping ErrStockNotFound if it does not exist
	GetBySymbol(ctx context.Context, symbol string) (*Stock, error)

	// Search returns stocks whose name or symbol contains query (case-insensitive),
	// ordered by symbol. limit and offset are used for pagination
	Search(ctx context.Context, query string, limit, offset int) ([]*Stock, error)

	// Upsert creates the stock or updates its name
	Upsert(ctx context.Context, stock *Stock) error
}
