// Package rest exposes the plan services over a JSON REST API built on gin.
package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/simaogato/stockplan-backend/internal/config"
	"github.com/simaogato/stockplan-backend/internal/logger"
	"github.com/simaogato/stockplan-backend/internal/usecase/overview"
	"github.com/simaogato/stockplan-backend/internal/usecase/plan"
	"github.com/simaogato/stockplan-backend/internal/usecase/stock"
)

// Server serves the REST API
type Server struct {
	PlanService     *plan.PlanService
	StockService    *stock.StockService
	OverviewService *overview.OverviewService
	Logger          *logger.Logger

	cfg        *config.Config
	engine     *gin.Engine
	httpServer *http.Server
}

// NewServer creates the REST server and registers its routes
func NewServer(
	cfg *config.Config,
	planService *plan.PlanService,
	stockService *stock.StockService,
	overviewService *overview.OverviewService,
	log *logger.Logger,
) *Server {
	// Set Gin mode
	if cfg.LogLevel != "DEBUG" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		PlanService:     planService,
		StockService:    stockService,
		OverviewService: overviewService,
		Logger:          log,
		cfg:             cfg,
		engine:          gin.New(),
	}

	s.engine.Use(gin.Recovery(), requestLogger(log), cors(cfg.HTTP.AllowedOrigins))
	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

func (s *Server) setupRoutes() {
	s.engine.GET("/api/health", s.getHealth)

	authed := s.engine.Group("/api", auth(s.cfg.Auth.Tokens))
	authed.GET("/stocks/search", s.searchStocks)
	authed.GET("/plans", s.listPlans)
	authed.POST("/plans", s.createPlan)
	authed.GET("/plans/:id", s.getPlan)
	authed.DELETE("/plans/:id", s.deletePlan)
	authed.GET("/plans/:id/projection", s.projectPlan)
	authed.GET("/overview", s.getOverview)
}

// Handler returns the underlying http.Handler
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	s.Logger.Info("REST API listening on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to serve REST API: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
