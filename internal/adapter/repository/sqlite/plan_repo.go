package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

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
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO plans (id, owner, name, description, created_at) VALUES (?, ?, ?, ?, ?)`,
		plan.ID.String(), plan.Owner, plan.Name, plan.Description, plan.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to create plan: %w", err)
	}

	for i, pos := range plan.Positions {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO plan_positions (plan_id, position, symbol, display_name, price_when_added, money_invested, monthly_growth_rate)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`,
			plan.ID.String(),
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

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetByID retrieves a plan with its positions
func (r *planRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Plan, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, owner, name, description, created_at FROM plans WHERE id = ?`,
		id.String(),
	)

	plan, err := scanPlan(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrPlanNotFound, id)
		}
		return nil, fmt.Errorf("failed to get plan by ID: %w", err)
	}

	positions, err := r.loadPositions(ctx, `WHERE plan_id = ?`, id.String())
	if err != nil {
		return nil, err
	}
	plan.Positions = positions[plan.ID]

	return plan, nil
}

// ListByOwner retrieves every plan of a user, oldest first
func (r *planRepository) ListByOwner(ctx context.Context, owner string) ([]*domain.Plan, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, owner, name, description, created_at
		FROM plans
		WHERE owner = ?
		ORDER BY created_at, id
	`, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	defer rows.Close()

	plans := make([]*domain.Plan, 0)
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan plan: %w", err)
		}
		plans = append(plans, plan)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating plans: %w", err)
	}

	positions, err := r.loadPositions(ctx, `WHERE plan_id IN (SELECT id FROM plans WHERE owner = ?)`, owner)
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
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		DELETE FROM plan_positions
		WHERE plan_id IN (SELECT id FROM plans WHERE id = ? AND owner = ?)
	`, id.String(), owner)
	if err != nil {
		return fmt.Errorf("failed to delete plan positions: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM plans WHERE id = ? AND owner = ?`, id.String(), owner)
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

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlan(row rowScanner) (*domain.Plan, error) {
	var plan domain.Plan
	var idStr, createdStr string

	if err := row.Scan(&idStr, &plan.Owner, &plan.Name, &plan.Description, &createdStr); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse plan id: %w", err)
	}
	plan.ID = id

	createdAt, err := time.Parse(timeLayout, createdStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}
	plan.CreatedAt = createdAt

	return &plan, nil
}

// loadPositions reads positions matching the where clause, grouped by plan and ordered as entered
func (r *planRepository) loadPositions(ctx context.Context, where string, args ...any) (map[uuid.UUID][]domain.StockPosition, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT plan_id, symbol, display_name, price_when_added, money_invested, monthly_growth_rate
		FROM plan_positions
		`+where+`
		ORDER BY plan_id, position
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query positions: %w", err)
	}
	defer rows.Close()

	positions := make(map[uuid.UUID][]domain.StockPosition)
	for rows.Next() {
		var planIDStr string
		var pos domain.StockPosition
		var priceStr, investedStr, rateStr string

		if err := rows.Scan(&planIDStr, &pos.Symbol, &pos.DisplayName, &priceStr, &investedStr, &rateStr); err != nil {
			return nil, fmt.Errorf("failed to scan position: %w", err)
		}

		planID, err := uuid.Parse(planIDStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse plan_id: %w", err)
		}
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
