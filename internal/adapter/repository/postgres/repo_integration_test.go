//go:build integration

package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/stockplan-backend/internal/domain"
	"github.com/simaogato/stockplan-backend/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var db *DB

// TestMain connects to the database named by DB_CONN_STR and migrates it
func TestMain(m *testing.M) {
	ctx := context.Background()

	connStr := os.Getenv("DB_CONN_STR")
	if connStr == "" {
		connStr = "host=localhost port=5432 user=postgres password=postgres dbname=stockplan sslmode=disable"
	}

	var err error
	db, err = NewDB(ctx, connStr, 3, logger.New("postgres-test", logger.LevelWarning))
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to database: %v", err))
	}

	if err := db.Migrate(ctx); err != nil {
		panic(fmt.Sprintf("Failed to migrate database: %v", err))
	}

	code := m.Run()

	db.Close()
	os.Exit(code)
}

func seedStocks(t *testing.T, repo domain.StockRepository, stocks ...domain.Stock) {
	t.Helper()
	for i := range stocks {
		require.NoError(t, repo.Upsert(context.Background(), &stocks[i]))
	}
}

func TestStockRepository_UpsertAndSearch(t *testing.T) {
	ctx := context.Background()
	repo := NewStockRepository(db)
	suffix := uuid.NewString()[:8]

	seedStocks(t, repo,
		domain.Stock{Symbol: "ZT1" + suffix, Name: "Zeta Test " + suffix},
		domain.Stock{Symbol: "ZT2" + suffix, Name: "Zeta Other " + suffix},
	)
	// Upsert renames
	seedStocks(t, repo, domain.Stock{Symbol: "ZT1" + suffix, Name: "Zeta Renamed " + suffix})

	stock, err := repo.GetBySymbol(ctx, "zt1"+suffix)
	require.NoError(t, err)
	assert.Equal(t, "Zeta Renamed "+suffix, stock.Name)

	found, err := repo.Search(ctx, suffix, 10, 0)
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "ZT1"+suffix, found[0].Symbol)

	found, err = repo.Search(ctx, suffix, 1, 1)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "ZT2"+suffix, found[0].Symbol)

	_, err = repo.GetBySymbol(ctx, "NOPE"+suffix)
	assert.ErrorIs(t, err, domain.ErrStockNotFound)
}

func TestPlanRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewPlanRepository(db)
	owner := "it-" + uuid.NewString()

	plan := &domain.Plan{
		ID:          uuid.New(),
		Owner:       owner,
		Name:        "Integration",
		Description: "created by the integration suite",
		CreatedAt:   time.Now().UTC().Truncate(time.Microsecond),
		Positions: []domain.StockPosition{
			{Symbol: "MSFT", DisplayName: "Microsoft Corp.", PriceWhenAdded: decimal.RequireFromString("410.25"), MoneyInvested: decimal.NewFromInt(500), MonthlyGrowthRatePercent: decimal.RequireFromString("-0.75")},
			{Symbol: "AAPL", DisplayName: "Apple Inc.", PriceWhenAdded: decimal.RequireFromString("180.5"), MoneyInvested: decimal.NewFromInt(1000), MonthlyGrowthRatePercent: decimal.RequireFromString("1.5")},
		},
	}
	require.NoError(t, repo.Create(ctx, plan))

	got, err := repo.GetByID(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, owner, got.Owner)
	assert.True(t, plan.CreatedAt.Equal(got.CreatedAt))
	require.Len(t, got.Positions, 2)
	// Entry order is preserved
	assert.Equal(t, "MSFT", got.Positions[0].Symbol)
	assert.True(t, decimal.RequireFromString("-0.75").Equal(got.Positions[0].MonthlyGrowthRatePercent))
	assert.True(t, decimal.RequireFromString("180.5").Equal(got.Positions[1].PriceWhenAdded))

	plans, err := repo.ListByOwner(ctx, owner)
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Len(t, plans[0].Positions, 2)

	assert.ErrorIs(t, repo.Delete(ctx, plan.ID, "someone-else"), domain.ErrPlanNotFound)
	require.NoError(t, repo.Delete(ctx, plan.ID, owner))

	_, err = repo.GetByID(ctx, plan.ID)
	assert.ErrorIs(t, err, domain.ErrPlanNotFound)
}

func TestPlanRepository_CreateIsAtomic(t *testing.T) {
	ctx := context.Background()
	repo := NewPlanRepository(db)

	plan := &domain.Plan{
		ID:        uuid.New(),
		Owner:     "it-" + uuid.NewString(),
		Name:      "Duplicate",
		CreatedAt: time.Now().UTC(),
		Positions: []domain.StockPosition{
			{Symbol: "AAPL", DisplayName: "Apple Inc."},
			{Symbol: "AAPL", DisplayName: "Apple Inc."},
		},
	}

	assert.Error(t, repo.Create(ctx, plan))

	_, err := repo.GetByID(ctx, plan.ID)
	assert.ErrorIs(t, err, domain.ErrPlanNotFound)
}
