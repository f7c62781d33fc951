package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/simaogato/stockplan-backend/internal/api"
	"github.com/simaogato/stockplan-backend/internal/usecase/plan"
)

func (s *Server) getHealth(c *gin.Context) {
	c.JSON(http.StatusOK, api.HealthResponse{Status: "ok"})
}

func (s *Server) searchStocks(c *gin.Context) {
	page, ok := queryInt(c, "page", 0)
	if !ok {
		return
	}

	result, err := s.StockService.Search(c.Request.Context(), c.Query("name"), page)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.FromStocks(result))
}

func (s *Server) listPlans(c *gin.Context) {
	page, ok := queryInt(c, "page", 0)
	if !ok {
		return
	}
	pageSize, ok := queryInt(c, "pageSize", 0)
	if !ok {
		return
	}

	result, err := s.PlanService.ListPlans(c.Request.Context(), currentUser(c), plan.ListPlansInput{
		Search:   c.Query("search"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.FromPlanList(result))
}

func (s *Server) createPlan(c *gin.Context) {
	var req api.CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	created, err := s.PlanService.CreatePlan(c.Request.Context(), req.ToCreatePlanInput(currentUser(c)))
	if err != nil {
		s.respondError(c, err)
		return
	}

	s.Logger.Info("Plan %s created by %s with %d stocks", created.ID, created.Owner, len(created.Positions))
	c.JSON(http.StatusCreated, api.FromPlan(created))
}

func (s *Server) getPlan(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	p, err := s.PlanService.GetPlan(c.Request.Context(), currentUser(c), id)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.FromPlan(p))
}

func (s *Server) deletePlan(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := s.PlanService.DeletePlan(c.Request.Context(), currentUser(c), id); err != nil {
		s.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) projectPlan(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	months, ok := queryInt(c, "months", s.cfg.Plans.DefaultMonths)
	if !ok {
		return
	}

	baseline := false
	if v := c.Query("baseline"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			badRequest(c, "baseline must be a boolean")
			return
		}
		baseline = b
	}

	projection, err := s.PlanService.ProjectPlan(c.Request.Context(), currentUser(c), id, months)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.FromProjection(projection, baseline))
}

func (s *Server) getOverview(c *gin.Context) {
	result, err := s.OverviewService.GetOverview(c.Request.Context(), currentUser(c))
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.FromOverview(result))
}

// queryInt parses an optional integer query parameter, writing a 400 on failure
func queryInt(c *gin.Context, key string, def int) (int, bool) {
	v := c.Query(key)
	if v == "" {
		return def, true
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		badRequest(c, key+" must be an integer")
		return 0, false
	}
	return n, true
}

func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid plan id")
		return uuid.Nil, false
	}
	return id, true
}
