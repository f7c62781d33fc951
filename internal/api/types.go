// Package api defines the JSON bodies exchanged by the REST API and its client.
// Amounts travel as strings with two decimals; an undefined growth is null.
package api

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/simaogato/stockplan-backend/internal/domain"
	"github.com/simaogato/stockplan-backend/internal/usecase/overview"
	"github.com/simaogato/stockplan-backend/internal/usecase/plan"
	"github.com/simaogato/stockplan-backend/internal/usecase/stock"
)

// HealthResponse is returned by GET /api/health
type HealthResponse struct {
	Status string `json:"status"`
}

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error string `json:"error"`
}

// Stock is a catalog entry
type Stock struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// StockSearchResponse is one page of catalog matches
type StockSearchResponse struct {
	Stocks   []Stock `json:"stocks"`
	Page     int     `json:"page"`
	PageSize int     `json:"pageSize"`
	HasMore  bool    `json:"hasMore"`
}

// Position is a stock held in a plan
type Position struct {
	Symbol                   string `json:"symbol"`
	DisplayName              string `json:"displayName"`
	PriceWhenAdded           string `json:"priceWhenAdded"`
	MoneyInvested            string `json:"moneyInvested"`
	MonthlyGrowthRatePercent string `json:"monthlyGrowthRatePercent"`
}

// Plan is a stored plan with its positions
type Plan struct {
	ID            string     `json:"id"`
	Owner         string     `json:"owner"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	CreatedAt     time.Time  `json:"createdAt"`
	TotalInvested string     `json:"totalInvested"`
	Positions     []Position `json:"positions"`
}

// PlanListResponse is one page of plans
type PlanListResponse struct {
	Plans      []Plan `json:"plans"`
	TotalCount int    `json:"totalCount"`
	Page       int    `json:"page"`
	PageSize   int    `json:"pageSize"`
	TotalPages int    `json:"totalPages"`
}

// CreateStock is one stock of a CreatePlanRequest
// Numbers may be sent as JSON numbers or strings
type CreateStock struct {
	Symbol                   string          `json:"symbol"`
	PriceWhenAdded           decimal.Decimal `json:"priceWhenAdded"`
	MoneyInvested            decimal.Decimal `json:"moneyInvested"`
	MonthlyGrowthRatePercent decimal.Decimal `json:"monthlyGrowthRatePercent"`
}

// CreatePlanRequest is the body of POST /api/plans
type CreatePlanRequest struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Stocks      []CreateStock `json:"stocks"`
}

// ProjectionPoint is the portfolio value at the end of a month
type ProjectionPoint struct {
	Month      int    `json:"month"`
	TotalValue string `json:"totalValue"`
}

// PositionProjection is the projected outcome of one position
type PositionProjection struct {
	Symbol         string  `json:"symbol"`
	DisplayName    string  `json:"displayName"`
	MoneyInvested  string  `json:"moneyInvested"`
	ProjectedValue string  `json:"projectedValue"`
	GrowthPercent  *string `json:"growthPercent"`
}

// ProjectionResponse is returned by GET /api/plans/:id/projection
type ProjectionResponse struct {
	PlanID              string               `json:"planId"`
	PlanName            string               `json:"planName"`
	Months              int                  `json:"months"`
	Points              []ProjectionPoint    `json:"points"`
	TotalInvested       string               `json:"totalInvested"`
	TotalProjectedValue string               `json:"totalProjectedValue"`
	GrowthPercent       *string              `json:"growthPercent"`
	Positions           []PositionProjection `json:"positions"`
}

// OverviewResponse is returned by GET /api/overview
type OverviewResponse struct {
	PlanCount          int     `json:"planCount"`
	PositionCount      int     `json:"positionCount"`
	TotalInvested      string  `json:"totalInvested"`
	WeightedGrowthRate *string `json:"weightedGrowthRate"`
	LargestPlanID      string  `json:"largestPlanId,omitempty"`
	LargestPlanName    string  `json:"largestPlanName,omitempty"`
}

// Amount renders a decimal with two decimals
func Amount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// OptionalAmount renders a decimal with two decimals, or nil
func OptionalAmount(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := Amount(*d)
	return &s
}

// FromStocks converts a page of catalog matches
func FromStocks(result *stock.SearchResult) StockSearchResponse {
	resp := StockSearchResponse{
		Stocks:   make([]Stock, 0, len(result.Stocks)),
		Page:     result.Page,
		PageSize: result.PageSize,
		HasMore:  result.HasMore,
	}
	for _, s := range result.Stocks {
		resp.Stocks = append(resp.Stocks, Stock{Symbol: s.Symbol, Name: s.Name})
	}
	return resp
}

// FromPlan converts a domain plan
func FromPlan(p *domain.Plan) Plan {
	dto := Plan{
		ID:            p.ID.String(),
		Owner:         p.Owner,
		Name:          p.Name,
		Description:   p.Description,
		CreatedAt:     p.CreatedAt,
		TotalInvested: Amount(p.TotalInvested()),
		Positions:     make([]Position, 0, len(p.Positions)),
	}
	for _, pos := range p.Positions {
		dto.Positions = append(dto.Positions, Position{
			Symbol:                   pos.Symbol,
			DisplayName:              pos.DisplayName,
			PriceWhenAdded:           Amount(pos.PriceWhenAdded),
			MoneyInvested:            Amount(pos.MoneyInvested),
			MonthlyGrowthRatePercent: pos.MonthlyGrowthRatePercent.String(),
		})
	}
	return dto
}

// FromPlanList converts a page of plans
func FromPlanList(result *plan.ListPlansResult) PlanListResponse {
	resp := PlanListResponse{
		Plans:      make([]Plan, 0, len(result.Plans)),
		TotalCount: result.TotalCount,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	}
	for _, p := range result.Plans {
		resp.Plans = append(resp.Plans, FromPlan(p))
	}
	return resp
}

// FromProjection converts a plan projection
// With baseline, a month 0 point holding the total invested is prepended.
func FromProjection(p *plan.PlanProjection, baseline bool) ProjectionResponse {
	resp := ProjectionResponse{
		PlanID:              p.Plan.ID.String(),
		PlanName:            p.Plan.Name,
		Months:              p.Months,
		Points:              make([]ProjectionPoint, 0, len(p.Points)+1),
		TotalInvested:       Amount(p.TotalInvested),
		TotalProjectedValue: Amount(p.TotalProjectedValue),
		GrowthPercent:       OptionalAmount(p.GrowthPercent),
		Positions:           make([]PositionProjection, 0, len(p.Positions)),
	}

	if baseline {
		resp.Points = append(resp.Points, ProjectionPoint{Month: 0, TotalValue: Amount(p.TotalInvested)})
	}
	for _, pt := range p.Points {
		resp.Points = append(resp.Points, ProjectionPoint{Month: pt.MonthIndex, TotalValue: Amount(pt.TotalValue)})
	}

	for _, pp := range p.Positions {
		resp.Positions = append(resp.Positions, PositionProjection{
			Symbol:         pp.Position.Symbol,
			DisplayName:    pp.Position.DisplayName,
			MoneyInvested:  Amount(pp.Position.MoneyInvested),
			ProjectedValue: Amount(pp.ProjectedValue),
			GrowthPercent:  OptionalAmount(pp.GrowthPercent),
		})
	}

	return resp
}

// FromOverview converts the cross-plan summary
func FromOverview(o *overview.OverviewResult) OverviewResponse {
	resp := OverviewResponse{
		PlanCount:          o.PlanCount,
		PositionCount:      o.PositionCount,
		TotalInvested:      Amount(o.TotalInvested),
		WeightedGrowthRate: OptionalAmount(o.WeightedGrowthRate),
	}
	if o.LargestPlan != nil {
		resp.LargestPlanID = o.LargestPlan.ID.String()
		resp.LargestPlanName = o.LargestPlan.Name
	}
	return resp
}

// ToCreatePlanInput converts a request body for the given owner
func (r CreatePlanRequest) ToCreatePlanInput(owner string) plan.CreatePlanInput {
	input := plan.CreatePlanInput{
		Owner:       owner,
		Name:        r.Name,
		Description: r.Description,
		Stocks:      make([]plan.StockInput, 0, len(r.Stocks)),
	}
	for _, s := range r.Stocks {
		input.Stocks = append(input.Stocks, plan.StockInput{
			Symbol:                   s.Symbol,
			PriceWhenAdded:           s.PriceWhenAdded,
			MoneyInvested:            s.MoneyInvested,
			MonthlyGrowthRatePercent: s.MonthlyGrowthRatePercent,
		})
	}
	return input
}
