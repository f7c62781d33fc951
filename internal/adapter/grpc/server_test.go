package grpc

import (
	"context"
	"io"
	"net"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/simaogato/stockplan-backend/internal/adapter/repository/sqlite"
	"github.com/simaogato/stockplan-backend/internal/api"
	"github.com/simaogato/stockplan-backend/internal/logger"
	"github.com/simaogato/stockplan-backend/internal/usecase/overview"
	"github.com/simaogato/stockplan-backend/internal/usecase/plan"
	"github.com/simaogato/stockplan-backend/internal/usecase/seeder"
	"github.com/simaogato/stockplan-backend/internal/usecase/stock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

const testToken = "grpc-token"

// newTestClient starts the gRPC service on an in-memory listener backed by a fresh SQLite database
func newTestClient(t *testing.T) *PlanServiceClient {
	t.Helper()
	ctx := context.Background()
	log := logger.NewWithWriter(io.Discard, "grpc-test", logger.LevelError)

	db, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "grpc.db"), log)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate(ctx))

	stockRepo := sqlite.NewStockRepository(db)
	planRepo := sqlite.NewPlanRepository(db)
	_, err = seeder.NewCatalogSeeder(stockRepo, nil).Seed(ctx)
	require.NoError(t, err)

	srv := NewServer(
		plan.NewPlanService(planRepo, stockRepo, plan.PageLimits{Default: 10, Max: 100}),
		stock.NewStockService(stockRepo, 5),
		overview.NewOverviewService(planRepo),
		6,
	)
	gs := NewGRPCServer(srv, map[string]string{testToken: "johndoe"}, log)

	lis := bufconn.Listen(1 << 20)
	go func() { _ = gs.Serve(lis) }()
	t.Cleanup(gs.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return NewPlanServiceClient(conn)
}

func authed() context.Context {
	return metadata.AppendToOutgoingContext(context.Background(), "authorization", "Bearer "+testToken)
}

func TestGRPC_RequiresAuth(t *testing.T) {
	client := newTestClient(t)

	_, err := client.GetOverview(context.Background(), &GetOverviewRequest{})

	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestGRPC_SearchStocks(t *testing.T) {
	client := newTestClient(t)

	resp, err := client.SearchStocks(authed(), &SearchStocksRequest{Name: "micro"})
	require.NoError(t, err)

	symbols := make([]string, 0, len(resp.Stocks))
	for _, s := range resp.Stocks {
		symbols = append(symbols, s.Symbol)
	}
	assert.Equal(t, []string{"AMD", "MSFT"}, symbols)
	assert.False(t, resp.HasMore)
}

func TestGRPC_PlanLifecycle(t *testing.T) {
	client := newTestClient(t)
	ctx := authed()

	created, err := client.CreatePlan(ctx, &CreatePlanRequest{
		Name: "Chips",
		Stocks: []api.CreateStock{
			{Symbol: "NVDA", MoneyInvested: decimal.NewFromInt(1000), MonthlyGrowthRatePercent: decimal.NewFromInt(10)},
			{Symbol: "INTC", MoneyInvested: decimal.NewFromInt(1000), MonthlyGrowthRatePercent: decimal.NewFromInt(-10)},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, created.Plan)
	assert.Equal(t, "johndoe", created.Plan.Owner)
	require.NotNil(t, created.Plan.CreatedAt)
	assert.False(t, created.Plan.CreatedAt.AsTime().IsZero())
	assert.Equal(t, "NVIDIA Corp.", created.Plan.Positions[0].DisplayName)

	got, err := client.GetPlan(ctx, &GetPlanRequest{ID: created.Plan.ID})
	require.NoError(t, err)
	assert.Equal(t, "Chips", got.Plan.Name)
	assert.Equal(t, "2000.00", got.Plan.TotalInvested)

	list, err := client.ListPlans(ctx, &ListPlansRequest{Search: "chi"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, list.TotalCount)

	projection, err := client.ProjectPlan(ctx, &ProjectPlanRequest{ID: created.Plan.ID, Months: 2})
	require.NoError(t, err)
	require.Len(t, projection.Points, 2)
	assert.Equal(t, "2020.00", projection.TotalProjectedValue)
	require.NotNil(t, projection.GrowthPercent)
	assert.Equal(t, "1.00", *projection.GrowthPercent)

	// Zero months falls back to the default horizon
	projection, err = client.ProjectPlan(ctx, &ProjectPlanRequest{ID: created.Plan.ID, Baseline: true})
	require.NoError(t, err)
	assert.Len(t, projection.Points, 7)

	overviewResp, err := client.GetOverview(ctx, &GetOverviewRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, overviewResp.PositionCount)
	require.NotNil(t, overviewResp.WeightedGrowthRate)
	assert.Equal(t, "0.00", *overviewResp.WeightedGrowthRate)

	_, err = client.DeletePlan(ctx, &DeletePlanRequest{ID: created.Plan.ID})
	require.NoError(t, err)

	_, err = client.GetPlan(ctx, &GetPlanRequest{ID: created.Plan.ID})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestGRPC_Errors(t *testing.T) {
	client := newTestClient(t)
	ctx := authed()

	_, err := client.GetPlan(ctx, &GetPlanRequest{ID: "nope"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = client.CreatePlan(ctx, &CreatePlanRequest{Name: "Empty"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = client.CreatePlan(ctx, &CreatePlanRequest{Name: "Unknown", Stocks: []api.CreateStock{{Symbol: "ZZZZ"}}})
	assert.Equal(t, codes.NotFound, status.Code(err))

	created, err := client.CreatePlan(ctx, &CreatePlanRequest{Name: "P", Stocks: []api.CreateStock{{Symbol: "AAPL"}}})
	require.NoError(t, err)

	_, err = client.ProjectPlan(ctx, &ProjectPlanRequest{ID: created.Plan.ID, Months: 61})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = client.ListPlans(ctx, &ListPlansRequest{Page: -1})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}
