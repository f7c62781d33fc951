package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockPosition represents one holding inside a plan
// Immutable once handed to the projection engine
type StockPosition struct {
	Symbol                   string
	DisplayName              string
	PriceWhenAdded           decimal.Decimal // Catalog price at the time the stock was added (>= 0)
	MoneyInvested            decimal.Decimal // Principal (>= 0)
	MonthlyGrowthRatePercent decimal.Decimal // Expected growth per month, negative means depreciation
}

// Bounds on position figures, matching the NUMERIC(20,4) and NUMERIC(10,4) columns
const MaxDecimalPlaces = 4

var (
	maxAmount = decimal.New(1, 16) // exclusive
	maxRate   = decimal.New(1, 6)  // exclusive, in percent
)

// Plan represents a named basket of stock positions owned by a user
type Plan struct {
	ID          uuid.UUID
	Owner       string
	Name        string
	Description string
	CreatedAt   time.Time
	Positions   []StockPosition // Ordered as entered by the user
}

// Validate ensures the plan adheres to domain rules
// Returns an error wrapping ErrInvalidPlan if validation fails
func (p *Plan) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: plan name cannot be empty", ErrInvalidPlan)
	}

	if strings.TrimSpace(p.Owner) == "" {
		return fmt.Errorf("%w: plan owner cannot be empty", ErrInvalidPlan)
	}

	if len(p.Positions) == 0 {
		return fmt.Errorf("%w: plan must have at least one stock", ErrInvalidPlan)
	}

	seen := make(map[string]bool, len(p.Positions))
	for _, pos := range p.Positions {
		if err := pos.Validate(); err != nil {
			return err
		}

		// A symbol can only appear once in a plan
		key := strings.ToUpper(pos.Symbol)
		if seen[key] {
			return fmt.Errorf("%w: duplicate stock symbol %s", ErrInvalidPlan, pos.Symbol)
		}
		seen[key] = true
	}

	return nil
}

// Validate ensures a single position adheres to domain rules
func (sp StockPosition) Validate() error {
	if strings.TrimSpace(sp.Symbol) == "" {
		return fmt.Errorf("%w: stock symbol cannot be empty", ErrInvalidPlan)
	}

	if sp.MoneyInvested.IsNegative() {
		return fmt.Errorf("%w: money invested in %s cannot be negative", ErrInvalidPlan, sp.Symbol)
	}

	if sp.PriceWhenAdded.IsNegative() {
		return fmt.Errorf("%w: price of %s cannot be negative", ErrInvalidPlan, sp.Symbol)
	}

	if err := checkFigure(sp.Symbol, "money invested", sp.MoneyInvested, maxAmount); err != nil {
		return err
	}
	if err := checkFigure(sp.Symbol, "price", sp.PriceWhenAdded, maxAmount); err != nil {
		return err
	}
	if err := checkFigure(sp.Symbol, "monthly growth rate", sp.MonthlyGrowthRatePercent, maxRate); err != nil {
		return err
	}

	return nil
}

// checkFigure bounds the magnitude and the number of decimal places of d
func checkFigure(symbol, field string, d, limit decimal.Decimal) error {
	if d.Abs().GreaterThanOrEqual(limit) {
		return fmt.Errorf("%w: %s of %s must be below %s", ErrInvalidPlan, field, symbol, limit)
	}
	if d.Exponent() < -MaxDecimalPlaces && !d.Equal(d.Truncate(MaxDecimalPlaces)) {
		return fmt.Errorf("%w: %s of %s has more than %d decimal places", ErrInvalidPlan, field, symbol, MaxDecimalPlaces)
	}
	return nil
}

// TotalInvested returns the sum of money invested across the plan's positions
func (p *Plan) TotalInvested() decimal.Decimal {
	return TotalInvested(p.Positions)
}

// AverageGrowthRate returns the simple mean of the monthly growth rates
// Returns ErrEmptyPortfolio when the plan has no positions
func (p *Plan) AverageGrowthRate() (decimal.Decimal, error) {
	if len(p.Positions) == 0 {
		return decimal.Zero, ErrEmptyPortfolio
	}

	sum := decimal.Zero
	for _, pos := range p.Positions {
		sum = sum.Add(pos.MonthlyGrowthRatePercent)
	}

	return sum.Div(decimal.NewFromInt(int64(len(p.Positions)))), nil
}

// TotalInvested returns the sum of money invested across positions
func TotalInvested(positions []StockPosition) decimal.Decimal {
	total := decimal.Zero
	for _, pos := range positions {
		total = total.Add(pos.MoneyInvested)
	}
	return total
}

// WeightedGrowthRate returns the monthly growth rate weighted by money invested
// Returns ErrEmptyPortfolio for no positions and ErrDivisionUndefined when
// nothing is invested
func WeightedGrowthRate(positions []StockPosition) (decimal.Decimal, error) {
	if len(positions) == 0 {
		return decimal.Zero, ErrEmptyPortfolio
	}

	invested := TotalInvested(positions)
	if invested.IsZero() {
		return decimal.Zero, ErrDivisionUndefined
	}

	weighted := decimal.Zero
	for _, pos := range positions {
		weighted = weighted.Add(pos.MoneyInvested.Mul(pos.MonthlyGrowthRatePercent))
	}

	return weighted.Div(invested), nil
}
