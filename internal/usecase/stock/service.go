package stock

import (
	"context"
	"fmt"
	"strings"

	"github.com/simaogato/stockplan-backend/internal/domain"
)

// SearchResult is one page of catalog matches
type SearchResult struct {
	Stocks   []*domain.Stock
	Page     int
	PageSize int
	HasMore  bool // True when another page may follow
}

// MaxPage is the last page Search accepts; it keeps the row offset far from overflow
const MaxPage = 1_000_000

// StockService handles stock catalog lookups
type StockService struct {
	StockRepo domain.StockRepository
	PageSize  int
}

// NewStockService creates a new StockService instance
func NewStockService(stockRepo domain.StockRepository, pageSize int) *StockService {
	return &StockService{
		StockRepo: stockRepo,
		PageSize:  pageSize,
	}
}

// Search returns the zero-based page of stocks matching name
// A blank name matches nothing, so the type-ahead starts empty
func (s *StockService) Search(ctx context.Context, name string, page int) (*SearchResult, error) {
	if page < 0 || page > MaxPage {
		return nil, domain.ErrInvalidPage
	}

	result := &SearchResult{Stocks: []*domain.Stock{}, Page: page, PageSize: s.PageSize}

	query := strings.TrimSpace(name)
	if query == "" {
		return result, nil
	}

	// Ask for one extra row to learn whether a next page exists
	stocks, err := s.StockRepo.Search(ctx, query, s.PageSize+1, page*s.PageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to search stocks: %w", err)
	}

	if len(stocks) > s.PageSize {
		stocks = stocks[:s.PageSize]
		result.HasMore = true
	}
	result.Stocks = stocks

	return result, nil
}

// GetStock retrieves a single catalog entry by symbol
func (s *StockService) GetStock(ctx context.Context, symbol string) (*domain.Stock, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("%w: empty symbol", domain.ErrStockNotFound)
	}
	return s.StockRepo.GetBySymbol(ctx, symbol)
}
