package grpc

import (
	"context"

	"google.golang.org/grpc"
)

// PlanServiceClient is the client API for the PlanService service
type PlanServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewPlanServiceClient creates a client that speaks the JSON codec over cc
func NewPlanServiceClient(cc grpc.ClientConnInterface) *PlanServiceClient {
	return &PlanServiceClient{cc: cc}
}

func invoke[Req, Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in *Req, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(codecName)}, opts...)
	if err := cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *PlanServiceClient) SearchStocks(ctx context.Context, in *SearchStocksRequest, opts ...grpc.CallOption) (*SearchStocksResponse, error) {
	return invoke[SearchStocksRequest, SearchStocksResponse](ctx, c.cc, "SearchStocks", in, opts)
}

func (c *PlanServiceClient) ListPlans(ctx context.Context, in *ListPlansRequest, opts ...grpc.CallOption) (*ListPlansResponse, error) {
	return invoke[ListPlansRequest, ListPlansResponse](ctx, c.cc, "ListPlans", in, opts)
}

func (c *PlanServiceClient) CreatePlan(ctx context.Context, in *CreatePlanRequest, opts ...grpc.CallOption) (*CreatePlanResponse, error) {
	return invoke[CreatePlanRequest, CreatePlanResponse](ctx, c.cc, "CreatePlan", in, opts)
}

func (c *PlanServiceClient) GetPlan(ctx context.Context, in *GetPlanRequest, opts ...grpc.CallOption) (*GetPlanResponse, error) {
	return invoke[GetPlanRequest, GetPlanResponse](ctx, c.cc, "GetPlan", in, opts)
}

func (c *PlanServiceClient) DeletePlan(ctx context.Context, in *DeletePlanRequest, opts ...grpc.CallOption) (*DeletePlanResponse, error) {
	return invoke[DeletePlanRequest, DeletePlanResponse](ctx, c.cc, "DeletePlan", in, opts)
}

func (c *PlanServiceClient) ProjectPlan(ctx context.Context, in *ProjectPlanRequest, opts ...grpc.CallOption) (*ProjectPlanResponse, error) {
	return invoke[ProjectPlanRequest, ProjectPlanResponse](ctx, c.cc, "ProjectPlan", in, opts)
}

func (c *PlanServiceClient) GetOverview(ctx context.Context, in *GetOverviewRequest, opts ...grpc.CallOption) (*GetOverviewResponse, error) {
	return invoke[GetOverviewRequest, GetOverviewResponse](ctx, c.cc, "GetOverview", in, opts)
}
