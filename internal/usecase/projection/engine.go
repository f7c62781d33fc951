// Package projection computes compound-growth projections for stock plans.
//
// Every function in this package is pure: results depend only on the
// arguments, so callers may invoke them concurrently or memoize them freely.
package projection

import (
	"iter"
	"slices"

	"github.com/shopspring/decimal"
	"github.com/simaogato/stockplan-backend/internal/domain"
)

// Horizon bounds, in months
const (
	MinMonths = 1
	MaxMonths = 60
)

var hundred = decimal.NewFromInt(100)

// Series is a lazily evaluated projection of a set of positions.
// Points are recomputed on every iteration, so a Series can be ranged over
// any number of times and always yields the same values.
type Series struct {
	positions []domain.StockPosition
	months    int
}

// ProjectSeries builds the month-by-month projected value of the positions
// Logic:
//   - positionValue(p, m) = MoneyInvested * (1 + MonthlyGrowthRatePercent/100)^m
//   - totalValue(m) = sum of positionValue over all positions
//   - m runs from 1 to months inclusive (no month 0)
//
// Returns ErrInvalidHorizon when months is outside [MinMonths, MaxMonths]
// and ErrEmptyPortfolio when positions is empty.
func ProjectSeries(positions []domain.StockPosition, months int) (Series, error) {
	if months < MinMonths || months > MaxMonths {
		return Series{}, domain.ErrInvalidHorizon
	}

	if len(positions) == 0 {
		return Series{}, domain.ErrEmptyPortfolio
	}

	// Copy so later mutations by the caller cannot change the series
	return Series{
		positions: slices.Clone(positions),
		months:    months,
	}, nil
}

// Len returns the number of points in the series
func (s Series) Len() int {
	return s.months
}

// All yields the points ordered by month index ascending
func (s Series) All() iter.Seq[domain.ProjectionPoint] {
	return func(yield func(domain.ProjectionPoint) bool) {
		if s.months == 0 {
			return
		}

		// Running value per position, compounded one month per step
		values := make([]decimal.Decimal, len(s.positions))
		factors := make([]decimal.Decimal, len(s.positions))
		for i, pos := range s.positions {
			values[i] = pos.MoneyInvested
			factors[i] = growthFactor(pos)
		}

		for month := 1; month <= s.months; month++ {
			total := decimal.Zero
			for i := range values {
				values[i] = values[i].Mul(factors[i])
				total = total.Add(values[i])
			}

			if !yield(domain.ProjectionPoint{MonthIndex: month, TotalValue: total}) {
				return
			}
		}
	}
}

// Points collects the whole series
func (s Series) Points() []domain.ProjectionPoint {
	return slices.Collect(s.All())
}

// Last returns the point at the final requested month
// The boolean is false for the zero Series
func (s Series) Last() (domain.ProjectionPoint, bool) {
	var last domain.ProjectionPoint
	found := false
	for p := range s.All() {
		last = p
		found = true
	}
	return last, found
}

// Summarize derives the portfolio summary from a projected series
// Logic:
//   - TotalInvested = sum of MoneyInvested
//   - TotalProjectedValue = value of the last point of the series
//   - GrowthPercent = (TotalProjectedValue - TotalInvested) / TotalInvested * 100
//
// Growth is always computed on the aggregate series, never on a single position.
// Returns ErrEmptyPortfolio when positions or series is empty and
// ErrDivisionUndefined when nothing is invested.
func Summarize(positions []domain.StockPosition, series Series) (domain.ProjectionSummary, error) {
	if len(positions) == 0 {
		return domain.ProjectionSummary{}, domain.ErrEmptyPortfolio
	}

	last, ok := series.Last()
	if !ok {
		return domain.ProjectionSummary{}, domain.ErrEmptyPortfolio
	}

	invested := domain.TotalInvested(positions)
	if invested.IsZero() {
		return domain.ProjectionSummary{}, domain.ErrDivisionUndefined
	}

	return domain.ProjectionSummary{
		TotalInvested:       invested,
		TotalProjectedValue: last.TotalValue,
		GrowthPercent:       growthPercent(invested, last.TotalValue),
	}, nil
}

// PositionValue returns the projected value of a single position after the given number of months
// Returns ErrInvalidHorizon when months is outside [MinMonths, MaxMonths]
func PositionValue(position domain.StockPosition, months int) (decimal.Decimal, error) {
	if months < MinMonths || months > MaxMonths {
		return decimal.Zero, domain.ErrInvalidHorizon
	}

	value := position.MoneyInvested
	factor := growthFactor(position)
	for m := 0; m < months; m++ {
		value = value.Mul(factor)
	}

	return value, nil
}

// PositionGrowthPercent returns the growth of a single position relative to its principal
// Returns ErrDivisionUndefined when the position has no money invested
func PositionGrowthPercent(position domain.StockPosition, projectedValue decimal.Decimal) (decimal.Decimal, error) {
	if position.MoneyInvested.IsZero() {
		return decimal.Zero, domain.ErrDivisionUndefined
	}

	return growthPercent(position.MoneyInvested, projectedValue), nil
}

// growthFactor returns 1 + rate/100
// Shift keeps the division by 100 exact
func growthFactor(position domain.StockPosition) decimal.Decimal {
	return decimal.NewFromInt(1).Add(position.MonthlyGrowthRatePercent.Shift(-2))
}

func growthPercent(invested, projected decimal.Decimal) decimal.Decimal {
	return projected.Sub(invested).Div(invested).Mul(hundred)
}
