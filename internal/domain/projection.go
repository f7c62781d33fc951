package domain

import "github.com/shopspring/decimal"

// ProjectionPoint is one sample of a projected series
// MonthIndex starts at 1; there is no month 0 in the engine's output
type ProjectionPoint struct {
	MonthIndex int
	TotalValue decimal.Decimal
}

// ProjectionSummary holds the aggregate figures derived from a projected series
type ProjectionSummary struct {
	TotalInvested       decimal.Decimal
	TotalProjectedValue decimal.Decimal // Value at the final requested month
	GrowthPercent       decimal.Decimal
}
