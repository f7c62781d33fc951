package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/stockplan-backend/internal/domain"
)

// planRepository implements domain.PlanRepository
type planRepository struct {
	db *DB
}

// NewPlanRepository creates a new plan repository
func NewPlanRepository(db *DB) domain.PlanRepository {
	return &planRepository{db: db}
}

// Create inserts the plan and all of its positions in one transaction
func (r *planRepository) Create(ctx context.Context, plan *domain.Plan) error {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	insertPlanQuery := `
		INSERT INTO plans (id, owner, name, description, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err = dbTx.ExecContext(ctx, insertPlanQuery,
		plan.ID,
		plan.Owner,
		plan.Name,
		plan.Description,
		plan.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create plan: %w", err)
	}

	insertPositionQuery := `
		INSERT INTO plan_positions (plan_id, position, symbol, display_name, price_when_added, money_invested, monthly_growth_rate)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for i, pos := range plan.Positions {
		_, err = dbTx.ExecContext(ctx, insertPositionQuery,
			plan.ID,
			i,
			pos.Symbol,
			pos.DisplayName,
			pos.PriceWhenAdded.String(),
			pos.MoneyInvested.String(),
			pos.MonthlyGrowthRatePercent.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to create position %s: %w", pos.Symbol, err)
		}
	}

	// Commit the transaction
	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetByID retrieves a plan with its positions
func (r *planRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Plan, error) {
	query := `
		SELECT id, owner, name, description, created_at
		FROM plans
		WHERE id = $1
	`

	var plan domain.Plan
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&plan.ID,
		&plan.Owner,
		&plan.Name,
		&plan.Description,
		&plan.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrPlanNotFound, id)
		}
		return nil, fmt.Errorf("failed to get plan by ID: %w", err)
	}

	positions, err := r.loadPositions(ctx, `WHERE plan_id = $1`, id)
	if err != nil {
		return nil, err
	}
	plan.Positions = positions[plan.ID]

	return &plan, nil
}

// ListByOwner retrieves every plan of a user, oldest first
func (r *planRepository) ListByOwner(ctx context.Context, owner string) ([]*domain.Plan, error) {
	query := `
		SELECT id, owner, name, description, created_at
		FROM plans
		WHERE owner = $1
		ORDER BY created_at, id
	`

	rows, err := r.db.QueryContext(ctx, query, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	defer rows.Close()

	plans := make([]*domain.Plan, 0)
	for rows.Next() {
		var plan domain.Plan
		if err := rows.Scan(&plan.ID, &plan.Owner, &plan.Name, &plan.Description, &plan.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan plan: %w", err)
		}
		plans = append(plans, &plan)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating plans: %w", err)
	}

	positions, err := r.loadPositions(ctx, `WHERE plan_id IN (SELECT id FROM plans WHERE owner = $1)`, owner)
	if err != nil {
		return nil, err
	}
	for _, plan := range plans {
		plan.Positions = positions[plan.ID]
	}

	return plans, nil
}

// Delete removes a plan owned by the given user
func (r *planRepository) Delete(ctx context.Context, id uuid.UUID, owner string) error {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	_, err = dbTx.ExecContext(ctx, `
		DELETE FROM plan_positions
		WHERE plan_id IN (SELECT id FROM plans WHERE id = $1 AND owner = $2)
	`, id, owner)
	if err != nil {
		return fmt.Errorf("failed to delete plan positions: %w", err)
	}

	result, err := dbTx.ExecContext(ctx, `DELETE FROM plans WHERE id = $1 AND owner = $2`, id, owner)
	if err != nil {
		return fmt.Errorf("failed to delete plan: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", domain.ErrPlanNotFound, id)
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// loadPositions reads positions matching the where clause, grouped by plan and ordered as entered
func (r *planRepository) loadPositions(ctx context.Context, where string, args ...interface{}) (map[uuid.UUID][]domain.StockPosition, error) {
	query := `
		SELECT plan_id, symbol, display_name, price_when_added, money_invested, monthly_growth_rate
		FROM plan_positions
		` + where + `
		ORDER BY plan_id, position
	`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query positions: %w", err)
	}
	defer rows.Close()

	positions := make(map[uuid.UUID][]domain.StockPosition)
	for rows.Next() {
		var planID uuid.UUID
		var pos domain.StockPosition
		var priceStr, investedStr, rateStr string

		if err := rows.Scan(&planID, &pos.Symbol, &pos.DisplayName, &priceStr, &investedStr, &rateStr); err != nil {
			return nil, fmt.Errorf("failed to scan position: %w", err)
		}

		// Parse NUMERIC columns
		if pos.PriceWhenAdded, err = decimal.NewFromString(priceStr); err != nil {
			return nil, fmt.Errorf("failed to parse price_when_added: %w", err)
		}
		if pos.MoneyInvested, err = decimal.NewFromString(investedStr); err != nil {
			return nil, fmt.Errorf("failed to parse money_invested: %w", err)
		}
		if pos.MonthlyGrowthRatePercent, err = decimal.NewFromString(rateStr); err != nil {
			return nil, fmt.Errorf("failed to parse monthly_growth_rate: %w", err)
		}

		positions[planID] = append(positions[planID], pos)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating positions: %w", err)
	}

	return positions, nil
}
