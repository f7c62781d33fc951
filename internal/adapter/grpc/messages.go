package grpc

import (
	"github.com/simaogato/stockplan-backend/internal/api"
	"github.com/simaogato/stockplan-backend/internal/domain"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// SearchStocksRequest searches the stock catalog
type SearchStocksRequest struct {
	Name string `json:"name"`
	Page int32  `json:"page"`
}

// SearchStocksResponse is one page of catalog matches
type SearchStocksResponse = api.StockSearchResponse

// Plan is the wire form of a plan
type Plan struct {
	ID            string                 `json:"id"`
	Owner         string                 `json:"owner"`
	Name          string                 `json:"name"`
	Description   string                 `json:"description"`
	CreatedAt     *timestamppb.Timestamp `json:"createdAt"`
	TotalInvested string                 `json:"totalInvested"`
	Positions     []api.Position         `json:"positions"`
}

// ListPlansRequest lists the caller's plans
type ListPlansRequest struct {
	Search   string `json:"search"`
	Page     int32  `json:"page"`
	PageSize int32  `json:"pageSize"`
}

// ListPlansResponse is one page of plans
type ListPlansResponse struct {
	Plans      []*Plan `json:"plans"`
	TotalCount int32   `json:"totalCount"`
	Page       int32   `json:"page"`
	PageSize   int32   `json:"pageSize"`
	TotalPages int32   `json:"totalPages"`
}

// CreatePlanRequest creates a plan owned by the caller
type CreatePlanRequest = api.CreatePlanRequest

// CreatePlanResponse carries the stored plan
type CreatePlanResponse struct {
	Plan *Plan `json:"plan"`
}

// GetPlanRequest fetches a plan by ID
type GetPlanRequest struct {
	ID string `json:"id"`
}

// GetPlanResponse carries the plan
type GetPlanResponse struct {
	Plan *Plan `json:"plan"`
}

// DeletePlanRequest deletes a plan by ID
type DeletePlanRequest struct {
	ID string `json:"id"`
}

// DeletePlanResponse is empty
type DeletePlanResponse struct{}

// ProjectPlanRequest projects a plan over Months
type ProjectPlanRequest struct {
	ID       string `json:"id"`
	Months   int32  `json:"months"`
	Baseline bool   `json:"baseline"`
}

// ProjectPlanResponse is the projected growth
type ProjectPlanResponse = api.ProjectionResponse

// GetOverviewRequest is empty
type GetOverviewRequest struct{}

// GetOverviewResponse summarizes every plan of the caller
type GetOverviewResponse = api.OverviewResponse

// planToWire converts a domain Plan to its wire message
func planToWire(p *domain.Plan) *Plan {
	dto := api.FromPlan(p)
	return &Plan{
		ID:            dto.ID,
		Owner:         dto.Owner,
		Name:          dto.Name,
		Description:   dto.Description,
		CreatedAt:     timestamppb.New(p.CreatedAt),
		TotalInvested: dto.TotalInvested,
		Positions:     dto.Positions,
	}
}
