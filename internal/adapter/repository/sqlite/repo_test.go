package sqlite

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/stockplan-backend/internal/domain"
	"github.com/simaogato/stockplan-backend/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	ctx := context.Background()

	db, err := Open(ctx, filepath.Join(t.TempDir(), "stockplan.db"), logger.NewWithWriter(io.Discard, "sqlite-test", logger.LevelError))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.Migrate(ctx))
	// Migrations are idempotent
	require.NoError(t, db.Migrate(ctx))

	return db
}

func samplePlan(owner, name string, createdAt time.Time) *domain.Plan {
	return &domain.Plan{
		ID:          uuid.New(),
		Owner:       owner,
		Name:        name,
		Description: "long term",
		CreatedAt:   createdAt,
		Positions: []domain.StockPosition{
			{Symbol: "MSFT", DisplayName: "Microsoft Corp.", PriceWhenAdded: decimal.RequireFromString("410.25"), MoneyInvested: decimal.NewFromInt(500), MonthlyGrowthRatePercent: decimal.RequireFromString("-0.75")},
			{Symbol: "AAPL", DisplayName: "Apple Inc.", PriceWhenAdded: decimal.RequireFromString("180.5"), MoneyInvested: decimal.RequireFromString("1000.123456"), MonthlyGrowthRatePercent: decimal.RequireFromString("1.5")},
		},
	}
}

func TestStockRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewStockRepository(newTestDB(t))

	for _, s := range []domain.Stock{
		{Symbol: "aapl", Name: "Apple Inc."},
		{Symbol: "AMZN", Name: "Amazon.com Inc."},
		{Symbol: "MSFT", Name: "Microsoft Corp."},
		{Symbol: "PEP", Name: "PepsiCo 100% Inc."},
	} {
		require.NoError(t, repo.Upsert(ctx, &s))
	}
	require.NoError(t, repo.Upsert(ctx, &domain.Stock{Symbol: "MSFT", Name: "Microsoft Corporation"}))

	t.Run("GetBySymbol is case-insensitive", func(t *testing.T) {
		stock, err := repo.GetBySymbol(ctx, "aapl")
		require.NoError(t, err)
		assert.Equal(t, "AAPL", stock.Symbol)
		assert.Equal(t, "Apple Inc.", stock.Name)
	})

	t.Run("Upsert updates the name", func(t *testing.T) {
		stock, err := repo.GetBySymbol(ctx, "MSFT")
		require.NoError(t, err)
		assert.Equal(t, "Microsoft Corporation", stock.Name)
	})

	t.Run("Unknown symbol", func(t *testing.T) {
		_, err := repo.GetBySymbol(ctx, "NOPE")
		assert.ErrorIs(t, err, domain.ErrStockNotFound)
	})

	t.Run("Search matches name and symbol", func(t *testing.T) {
		found, err := repo.Search(ctx, "inc", 10, 0)
		require.NoError(t, err)
		require.Len(t, found, 3)
		assert.Equal(t, []string{"AAPL", "AMZN", "PEP"}, []string{found[0].Symbol, found[1].Symbol, found[2].Symbol})

		found, err = repo.Search(ctx, "msf", 10, 0)
		require.NoError(t, err)
		require.Len(t, found, 1)
	})

	t.Run("Search paginates", func(t *testing.T) {
		found, err := repo.Search(ctx, "inc", 2, 2)
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "PEP", found[0].Symbol)
	})

	t.Run("Search treats wildcards literally", func(t *testing.T) {
		found, err := repo.Search(ctx, "%", 10, 0)
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "PEP", found[0].Symbol)
	})
}

func TestPlanRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewPlanRepository(newTestDB(t))

	plan := samplePlan("johndoe", "Retirement", time.Date(2025, 3, 1, 12, 30, 0, 123, time.UTC))
	require.NoError(t, repo.Create(ctx, plan))

	got, err := repo.GetByID(ctx, plan.ID)
	require.NoError(t, err)

	assert.Equal(t, plan.ID, got.ID)
	assert.Equal(t, "johndoe", got.Owner)
	assert.Equal(t, "long term", got.Description)
	assert.True(t, plan.CreatedAt.Equal(got.CreatedAt))
	require.Len(t, got.Positions, 2)
	assert.Equal(t, "MSFT", got.Positions[0].Symbol)
	assert.Equal(t, "Microsoft Corp.", got.Positions[0].DisplayName)
	assert.True(t, decimal.RequireFromString("-0.75").Equal(got.Positions[0].MonthlyGrowthRatePercent))
	assert.True(t, decimal.RequireFromString("1000.123456").Equal(got.Positions[1].MoneyInvested))
	assert.True(t, decimal.RequireFromString("180.5").Equal(got.Positions[1].PriceWhenAdded))
}

func TestPlanRepository_GetMissing(t *testing.T) {
	repo := NewPlanRepository(newTestDB(t))

	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrPlanNotFound)
}

func TestPlanRepository_ListByOwner(t *testing.T) {
	ctx := context.Background()
	repo := NewPlanRepository(newTestDB(t))

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	second := samplePlan("johndoe", "Second", base.Add(time.Hour))
	first := samplePlan("johndoe", "First", base)
	other := samplePlan("alice", "Hers", base)
	for _, p := range []*domain.Plan{second, first, other} {
		require.NoError(t, repo.Create(ctx, p))
	}

	plans, err := repo.ListByOwner(ctx, "johndoe")
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, "First", plans[0].Name)
	assert.Equal(t, "Second", plans[1].Name)
	assert.Len(t, plans[0].Positions, 2)
	assert.Len(t, plans[1].Positions, 2)

	plans, err = repo.ListByOwner(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, plans)
}

func TestPlanRepository_Delete(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewPlanRepository(db)

	plan := samplePlan("johndoe", "Doomed", time.Now().UTC())
	require.NoError(t, repo.Create(ctx, plan))

	err := repo.Delete(ctx, plan.ID, "alice")
	assert.ErrorIs(t, err, domain.ErrPlanNotFound)

	require.NoError(t, repo.Delete(ctx, plan.ID, "johndoe"))

	_, err = repo.GetByID(ctx, plan.ID)
	assert.ErrorIs(t, err, domain.ErrPlanNotFound)

	var remaining int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM plan_positions`).Scan(&remaining))
	assert.Zero(t, remaining)

	assert.ErrorIs(t, repo.Delete(ctx, plan.ID, "johndoe"), domain.ErrPlanNotFound)
}

func TestPlanRepository_CreateIsAtomic(t *testing.T) {
	ctx := context.Background()
	repo := NewPlanRepository(newTestDB(t))

	plan := samplePlan("johndoe", "Duplicate", time.Now().UTC())
	plan.Positions[1].Symbol = plan.Positions[0].Symbol

	assert.Error(t, repo.Create(ctx, plan))

	_, err := repo.GetByID(ctx, plan.ID)
	assert.ErrorIs(t, err, domain.ErrPlanNotFound)
}
