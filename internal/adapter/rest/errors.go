package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/simaogato/stockplan-backend/internal/api"
	"github.com/simaogato/stockplan-backend/internal/domain"
)

// mapError converts domain errors to HTTP status codes
func mapError(err error) int {
	switch {
	case errors.Is(err, domain.ErrPlanNotFound), errors.Is(err, domain.ErrStockNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidPlan),
		errors.Is(err, domain.ErrInvalidHorizon),
		errors.Is(err, domain.ErrInvalidPage):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrEmptyPortfolio), errors.Is(err, domain.ErrDivisionUndefined):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) respondError(c *gin.Context, err error) {
	status := mapError(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		s.Logger.Error("%s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
		msg = "internal error"
	}
	c.JSON(status, api.ErrorResponse{Error: msg})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: msg})
}
