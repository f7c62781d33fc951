package domain

import "errors"

// Projection errors. All of them are recoverable: the caller is expected to
// render an explanatory state instead of failing.
var (
	// ErrInvalidHorizon is returned when the projection horizon is outside 1-60 months
	ErrInvalidHorizon = errors.New("invalid horizon: months must be between 1 and 60")

	// ErrEmptyPortfolio is returned when there are no positions to project
	ErrEmptyPortfolio = errors.New("empty portfolio: plan has no positions")

	// ErrDivisionUndefined is returned when a growth percentage is requested
	// for a zero invested amount
	ErrDivisionUndefined = errors.New("growth undefined: total invested is zero")
)

// Persistence and validation errors
var (
	ErrInvalidPlan   = errors.New("invalid plan")
	ErrPlanNotFound  = errors.New("plan not found")
	ErrStockNotFound = errors.New("stock not found")

	// ErrInvalidPage is returned for negative or out of range page numbers
	ErrInvalidPage = errors.New("invalid page: page must be non-negative and within range")
)
