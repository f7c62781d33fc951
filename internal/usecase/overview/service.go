package overview

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/simaogato/stockplan-backend/internal/domain"
)

// OverviewResult summarizes every plan of a user
type OverviewResult struct {
	PlanCount          int
	PositionCount      int
	TotalInvested      decimal.Decimal
	WeightedGrowthRate *decimal.Decimal // Monthly rate weighted by money invested, nil when nothing is invested
	LargestPlan        *domain.Plan     // Plan with the most money invested, nil when there are no plans
}

// OverviewService handles the cross-plan summary
type OverviewService struct {
	PlanRepo domain.PlanRepository
}

// NewOverviewService creates a new OverviewService instance
func NewOverviewService(planRepo domain.PlanRepository) *OverviewService {
	return &OverviewService{
		PlanRepo: planRepo,
	}
}

// GetOverview aggregates all plans owned by the user
// Logic:
//   - TotalInvested: Sum of money invested across every position of every plan
//   - WeightedGrowthRate: Sum(invested * rate) / TotalInvested over all positions
//   - LargestPlan: First plan with the highest invested total
func (s *OverviewService) GetOverview(ctx context.Context, owner string) (*OverviewResult, error) {
	plans, err := s.PlanRepo.ListByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}

	result := &OverviewResult{
		PlanCount:     len(plans),
		TotalInvested: decimal.Zero,
	}

	var positions []domain.StockPosition
	largest := decimal.Zero
	for _, plan := range plans {
		positions = append(positions, plan.Positions...)

		invested := plan.TotalInvested()
		if result.LargestPlan == nil || invested.GreaterThan(largest) {
			result.LargestPlan = plan
			largest = invested
		}
	}

	result.PositionCount = len(positions)
	result.TotalInvested = domain.TotalInvested(positions)

	rate, err := domain.WeightedGrowthRate(positions)
	switch {
	case err == nil:
		result.WeightedGrowthRate = &rate
	case errors.Is(err, domain.ErrEmptyPortfolio), errors.Is(err, domain.ErrDivisionUndefined):
		// no meaningful rate
	default:
		return nil, err
	}

	return result, nil
}
