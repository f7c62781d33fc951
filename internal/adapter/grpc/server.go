package grpc

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/simaogato/stockplan-backend/internal/api"
	"github.com/simaogato/stockplan-backend/internal/domain"
	"github.com/simaogato/stockplan-backend/internal/logger"
	"github.com/simaogato/stockplan-backend/internal/usecase/overview"
	"github.com/simaogato/stockplan-backend/internal/usecase/plan"
	"github.com/simaogato/stockplan-backend/internal/usecase/stock"
)

// ServiceName is the fully-qualified gRPC service name
const ServiceName = "stockplan.v1.PlanService"

// PlanServiceServer is the server API for the PlanService service
type PlanServiceServer interface {
	SearchStocks(context.Context, *SearchStocksRequest) (*SearchStocksResponse, error)
	ListPlans(context.Context, *ListPlansRequest) (*ListPlansResponse, error)
	CreatePlan(context.Context, *CreatePlanRequest) (*CreatePlanResponse, error)
	GetPlan(context.Context, *GetPlanRequest) (*GetPlanResponse, error)
	DeletePlan(context.Context, *DeletePlanRequest) (*DeletePlanResponse, error)
	ProjectPlan(context.Context, *ProjectPlanRequest) (*ProjectPlanResponse, error)
	GetOverview(context.Context, *GetOverviewRequest) (*GetOverviewResponse, error)
}

// ServiceDesc describes PlanService for grpc.Server.RegisterService
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PlanServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod("SearchStocks", PlanServiceServer.SearchStocks),
		unaryMethod("ListPlans", PlanServiceServer.ListPlans),
		unaryMethod("CreatePlan", PlanServiceServer.CreatePlan),
		unaryMethod("GetPlan", PlanServiceServer.GetPlan),
		unaryMethod("DeletePlan", PlanServiceServer.DeletePlan),
		unaryMethod("ProjectPlan", PlanServiceServer.ProjectPlan),
		unaryMethod("GetOverview", PlanServiceServer.GetOverview),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "stockplan/v1/plan_service",
}

// unaryMethod adapts a typed server method to a grpc.MethodDesc
func unaryMethod[Req, Resp any](name string, call func(PlanServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(PlanServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: "/" + ServiceName + "/" + name,
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(PlanServiceServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// Server implements the PlanService gRPC server
type Server struct {
	PlanService     *plan.PlanService
	StockService    *stock.StockService
	OverviewService *overview.OverviewService

	defaultMonths int
}

// NewServer creates a new gRPC server instance
func NewServer(
	planService *plan.PlanService,
	stockService *stock.StockService,
	overviewService *overview.OverviewService,
	defaultMonths int,
) *Server {
	return &Server{
		PlanService:     planService,
		StockService:    stockService,
		OverviewService: overviewService,
		defaultMonths:   defaultMonths,
	}
}

// NewGRPCServer creates a grpc.Server with the auth and logging interceptors and registers srv on it
func NewGRPCServer(srv PlanServiceServer, tokens map[string]string, log *logger.Logger) *grpc.Server {
	gs := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			LoggingInterceptor(log),
			AuthInterceptor(tokens),
		),
	)
	gs.RegisterService(&ServiceDesc, srv)
	return gs
}

// SearchStocks handles the SearchStocks RPC
func (s *Server) SearchStocks(ctx context.Context, req *SearchStocksRequest) (*SearchStocksResponse, error) {
	result, err := s.StockService.Search(ctx, req.Name, int(req.Page))
	if err != nil {
		return nil, mapError(err)
	}

	resp := api.FromStocks(result)
	return &resp, nil
}

// ListPlans handles the ListPlans RPC
func (s *Server) ListPlans(ctx context.Context, req *ListPlansRequest) (*ListPlansResponse, error) {
	result, err := s.PlanService.ListPlans(ctx, UserFromContext(ctx), plan.ListPlansInput{
		Search:   req.Search,
		Page:     int(req.Page),
		PageSize: int(req.PageSize),
	})
	if err != nil {
		return nil, mapError(err)
	}

	resp := &ListPlansResponse{
		Plans:      make([]*Plan, 0, len(result.Plans)),
		TotalCount: int32(result.TotalCount),
		Page:       int32(result.Page),
		PageSize:   int32(result.PageSize),
		TotalPages: int32(result.TotalPages),
	}
	for _, p := range result.Plans {
		resp.Plans = append(resp.Plans, planToWire(p))
	}
	return resp, nil
}

// CreatePlan handles the CreatePlan RPC
func (s *Server) CreatePlan(ctx context.Context, req *CreatePlanRequest) (*CreatePlanResponse, error) {
	created, err := s.PlanService.CreatePlan(ctx, req.ToCreatePlanInput(UserFromContext(ctx)))
	if err != nil {
		return nil, mapError(err)
	}

	return &CreatePlanResponse{Plan: planToWire(created)}, nil
}

// GetPlan handles the GetPlan RPC
func (s *Server) GetPlan(ctx context.Context, req *GetPlanRequest) (*GetPlanResponse, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return nil, err
	}

	p, err := s.PlanService.GetPlan(ctx, UserFromContext(ctx), id)
	if err != nil {
		return nil, mapError(err)
	}

	return &GetPlanResponse{Plan: planToWire(p)}, nil
}

// DeletePlan handles the DeletePlan RPC
func (s *Server) DeletePlan(ctx context.Context, req *DeletePlanRequest) (*DeletePlanResponse, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return nil, err
	}

	if err := s.PlanService.DeletePlan(ctx, UserFromContext(ctx), id); err != nil {
		return nil, mapError(err)
	}

	return &DeletePlanResponse{}, nil
}

// ProjectPlan handles the ProjectPlan RPC
// A zero Months uses the configured default horizon
func (s *Server) ProjectPlan(ctx context.Context, req *ProjectPlanRequest) (*ProjectPlanResponse, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return nil, err
	}

	months := int(req.Months)
	if months == 0 {
		months = s.defaultMonths
	}

	projection, err := s.PlanService.ProjectPlan(ctx, UserFromContext(ctx), id, months)
	if err != nil {
		return nil, mapError(err)
	}

	resp := api.FromProjection(projection, req.Baseline)
	return &resp, nil
}

// GetOverview handles the GetOverview RPC
func (s *Server) GetOverview(ctx context.Context, _ *GetOverviewRequest) (*GetOverviewResponse, error) {
	result, err := s.OverviewService.GetOverview(ctx, UserFromContext(ctx))
	if err != nil {
		return nil, mapError(err)
	}

	resp := api.FromOverview(result)
	return &resp, nil
}

func parseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, status.Errorf(codes.InvalidArgument, "invalid plan id format: %v", err)
	}
	return id, nil
}

// mapError converts domain errors to gRPC status errors
func mapError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, domain.ErrPlanNotFound), errors.Is(err, domain.ErrStockNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidPlan),
		errors.Is(err, domain.ErrInvalidHorizon),
		errors.Is(err, domain.ErrInvalidPage):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, domain.ErrEmptyPortfolio), errors.Is(err, domain.ErrDivisionUndefined):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}

	// Default to Internal error for unknown errors
	return status.Error(codes.Internal, err.Error())
}
