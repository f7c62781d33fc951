package plan

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/stockplan-backend/internal/domain"
	"github.com/simaogato/stockplan-backend/internal/usecase/projection"
)

// StockInput represents one stock of a plan creation request
type StockInput struct {
	Symbol                   string
	PriceWhenAdded           decimal.Decimal
	MoneyInvested            decimal.Decimal
	MonthlyGrowthRatePercent decimal.Decimal
}

// CreatePlanInput represents the input for creating a plan
type CreatePlanInput struct {
	Owner       string
	Name        string
	Description string
	Stocks      []StockInput
}

// ListPlansInput represents a search over a user's plans
// Page is zero-based; PageSize 0 means the configured default
type ListPlansInput struct {
	Search   string
	Page     int
	PageSize int
}

// ListPlansResult is one page of matching plans
type ListPlansResult struct {
	Plans      []*domain.Plan
	TotalCount int // Number of plans matching the search, across all pages
	Page       int
	PageSize   int
	TotalPages int
}

// PositionProjection is the projected outcome of a single position at the horizon
type PositionProjection struct {
	Position       domain.StockPosition
	ProjectedValue decimal.Decimal
	GrowthPercent  *decimal.Decimal // nil when the position has nothing invested
}

// PlanProjection is the projected growth of a plan over a horizon
type PlanProjection struct {
	Plan                *domain.Plan
	Months              int
	Points              []domain.ProjectionPoint
	TotalInvested       decimal.Decimal
	TotalProjectedValue decimal.Decimal
	GrowthPercent       *decimal.Decimal // nil when nothing is invested
	Positions           []PositionProjection
}

// PageLimits bounds the page size of plan listings
type PageLimits struct {
	Default int
	Max     int
}

// PlanService handles plan operations
type PlanService struct {
	PlanRepo  domain.PlanRepository
	StockRepo domain.StockRepository
	Limits    PageLimits
}

// NewPlanService creates a new PlanService instance
func NewPlanService(planRepo domain.PlanRepository, stockRepo domain.StockRepository, limits PageLimits) *PlanService {
	return &PlanService{
		PlanRepo:  planRepo,
		StockRepo: stockRepo,
		Limits:    limits,
	}
}

// CreatePlan creates and persists a new plan
// Logic:
//  1. Resolve every symbol against the stock catalog (display name comes from the catalog)
//  2. Assign ID and creation time
//  3. Validate domain rules, then persist
func (s *PlanService) CreatePlan(ctx context.Context, input CreatePlanInput) (*domain.Plan, error) {
	positions := make([]domain.StockPosition, 0, len(input.Stocks))
	for _, in := range input.Stocks {
		symbol := strings.ToUpper(strings.TrimSpace(in.Symbol))
		if symbol == "" {
			return nil, fmt.Errorf("%w: stock symbol cannot be empty", domain.ErrInvalidPlan)
		}

		stock, err := s.StockRepo.GetBySymbol(ctx, symbol)
		if err != nil {
			return nil, err
		}

		positions = append(positions, domain.StockPosition{
			Symbol:                   stock.Symbol,
			DisplayName:              stock.Name,
			PriceWhenAdded:           in.PriceWhenAdded,
			MoneyInvested:            in.MoneyInvested,
			MonthlyGrowthRatePercent: in.MonthlyGrowthRatePercent,
		})
	}

	plan := &domain.Plan{
		ID:          uuid.New(),
		Owner:       input.Owner,
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		CreatedAt:   time.Now().UTC(),
		Positions:   positions,
	}

	if err := plan.Validate(); err != nil {
		return nil, err
	}

	if err := s.PlanRepo.Create(ctx, plan); err != nil {
		return nil, err
	}

	return plan, nil
}

// GetPlan retrieves a plan owned by the given user
// Plans of other users are reported as not found
func (s *PlanService) GetPlan(ctx context.Context, owner string, id uuid.UUID) (*domain.Plan, error) {
	plan, err := s.PlanRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if plan.Owner != owner {
		return nil, fmt.Errorf("%w: %s", domain.ErrPlanNotFound, id)
	}

	return plan, nil
}

// ListPlans returns one page of the user's plans whose name matches the search
func (s *PlanService) ListPlans(ctx context.Context, owner string, input ListPlansInput) (*ListPlansResult, error) {
	if input.Page < 0 {
		return nil, domain.ErrInvalidPage
	}

	pageSize := input.PageSize
	if pageSize <= 0 {
		pageSize = s.Limits.Default
	}
	if s.Limits.Max > 0 && pageSize > s.Limits.Max {
		pageSize = s.Limits.Max
	}

	plans, err := s.PlanRepo.ListByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}

	filtered := FilterPlans(plans, input.Search)

	return &ListPlansResult{
		Plans:      Paginate(filtered, input.Page, pageSize),
		TotalCount: len(filtered),
		Page:       input.Page,
		PageSize:   pageSize,
		TotalPages: TotalPages(len(filtered), pageSize),
	}, nil
}

// DeletePlan removes a plan owned by the given user
func (s *PlanService) DeletePlan(ctx context.Context, owner string, id uuid.UUID) error {
	return s.PlanRepo.Delete(ctx, id, owner)
}

// ProjectPlan computes the projected growth of a plan over months
// A plan with nothing invested still gets its series; only the growth figures are left nil.
func (s *PlanService) ProjectPlan(ctx context.Context, owner string, id uuid.UUID, months int) (*PlanProjection, error) {
	// Reject the horizon before touching the repository
	if months < projection.MinMonths || months > projection.MaxMonths {
		return nil, domain.ErrInvalidHorizon
	}

	plan, err := s.GetPlan(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	series, err := projection.ProjectSeries(plan.Positions, months)
	if err != nil {
		return nil, err
	}

	points := series.Points()
	result := &PlanProjection{
		Plan:                plan,
		Months:              months,
		Points:              points,
		TotalInvested:       plan.TotalInvested(),
		TotalProjectedValue: points[len(points)-1].TotalValue,
	}

	summary, err := projection.Summarize(plan.Positions, series)
	switch {
	case err == nil:
		growth := summary.GrowthPercent
		result.GrowthPercent = &growth
	case errors.Is(err, domain.ErrDivisionUndefined):
		// leave GrowthPercent nil
	default:
		return nil, err
	}

	for _, pos := range plan.Positions {
		value, err := projection.PositionValue(pos, months)
		if err != nil {
			return nil, err
		}

		pp := PositionProjection{Position: pos, ProjectedValue: value}
		if growth, err := projection.PositionGrowthPercent(pos, value); err == nil {
			pp.GrowthPercent = &growth
		}
		result.Positions = append(result.Positions, pp)
	}

	return result, nil
}

// FilterPlans keeps the plans whose name contains search, ignoring case
// An empty search keeps every plan
func FilterPlans(plans []*domain.Plan, search string) []*domain.Plan {
	needle := strings.ToLower(strings.TrimSpace(search))
	if needle == "" {
		return plans
	}

	filtered := make([]*domain.Plan, 0, len(plans))
	for _, p := range plans {
		if strings.Contains(strings.ToLower(p.Name), needle) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// Paginate returns the zero-based page of items
// Pages past the end are empty
func Paginate[T any](items []T, page, pageSize int) []T {
	if page < 0 || pageSize <= 0 || len(items) == 0 {
		return []T{}
	}

	// Compare before multiplying so huge pages cannot overflow
	if page > (len(items)-1)/pageSize {
		return []T{}
	}
	start := page * pageSize

	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}

	return items[start:end]
}

// TotalPages returns the number of pages needed for total items
func TotalPages(total, pageSize int) int {
	if pageSize <= 0 || total == 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}
