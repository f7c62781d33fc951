package seeder

import (
	"context"
	"fmt"

	"github.com/simaogato/stockplan-backend/internal/domain"
)

// DefaultCatalog is the stock list seeded into an empty installation
var DefaultCatalog = []domain.Stock{
	{Symbol: "AAPL", Name: "Apple Inc."},
	{Symbol: "ABNB", Name: "Airbnb Inc."},
	{Symbol: "ADBE", Name: "Adobe Inc."},
	{Symbol: "AMD", Name: "Advanced Micro Devices Inc."},
	{Symbol: "AMZN", Name: "Amazon.com Inc."},
	{Symbol: "BA", Name: "Boeing Co."},
	{Symbol: "BAC", Name: "Bank of America Corp."},
	{Symbol: "BRK.B", Name: "Berkshire Hathaway Inc. Class B"},
	{Symbol: "COST", Name: "Costco Wholesale Corp."},
	{Symbol: "CRM", Name: "Salesforce Inc."},
	{Symbol: "CSCO", Name: "Cisco Systems Inc."},
	{Symbol: "DIS", Name: "Walt Disney Co."},
	{Symbol: "GOOGL", Name: "Alphabet Inc. Class A"},
	{Symbol: "IBM", Name: "International Business Machines Corp."},
	{Symbol: "INTC", Name: "Intel Corp."},
	{Symbol: "JNJ", Name: "Johnson & Johnson"},
	{Symbol: "JPM", Name: "JPMorgan Chase & Co."},
	{Symbol: "KO", Name: "Coca-Cola Co."},
	{Symbol: "MA", Name: "Mastercard Inc."},
	{Symbol: "MCD", Name: "McDonald's Corp."},
	{Symbol: "META", Name: "Meta Platforms Inc."},
	{Symbol: "MSFT", Name: "Microsoft Corp."},
	{Symbol: "NFLX", Name: "Netflix Inc."},
	{Symbol: "NKE", Name: "Nike Inc."},
	{Symbol: "NVDA", Name: "NVIDIA Corp."},
	{Symbol: "ORCL", Name: "Oracle Corp."},
	{Symbol: "PEP", Name: "PepsiCo Inc."},
	{Symbol: "PFE", Name: "Pfizer Inc."},
	{Symbol: "PG", Name: "Procter & Gamble Co."},
	{Symbol: "PYPL", Name: "PayPal Holdings Inc."},
	{Symbol: "SBUX", Name: "Starbucks Corp."},
	{Symbol: "SHOP", Name: "Shopify Inc."},
	{Symbol: "T", Name: "AT&T Inc."},
	{Symbol: "TSLA", Name: "Tesla Inc."},
	{Symbol: "UBER", Name: "Uber Technologies Inc."},
	{Symbol: "V", Name: "Visa Inc."},
	{Symbol: "VZ", Name: "Verizon Communications Inc."},
	{Symbol: "WMT", Name: "Walmart Inc."},
	{Symbol: "XOM", Name: "Exxon Mobil Corp."},
}

// CatalogSeeder handles seeding of the stock catalog
type CatalogSeeder struct {
	repo   domain.StockRepository
	stocks []domain.Stock
}

// NewCatalogSeeder creates a new CatalogSeeder for the given stocks
// A nil list seeds DefaultCatalog
func NewCatalogSeeder(repo domain.StockRepository, stocks []domain.Stock) *CatalogSeeder {
	if stocks == nil {
		stocks = DefaultCatalog
	}
	return &CatalogSeeder{
		repo:   repo,
		stocks: stocks,
	}
}

// Seed ensures every catalog stock exists in the database
// Upsert keeps it safe to run on every start-up
func (s *CatalogSeeder) Seed(ctx context.Context) (int, error) {
	for i := range s.stocks {
		stock := s.stocks[i]

		// Validate before writing
		if err := stock.Validate(); err != nil {
			return i, fmt.Errorf("invalid catalog entry %d: %w", i, err)
		}

		if err := s.repo.Upsert(ctx, &stock); err != nil {
			return i, fmt.Errorf("failed to seed stock %s: %w", stock.Symbol, err)
		}
	}

	return len(s.stocks), nil
}
