package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	grpclib "google.golang.org/grpc"

	grpcadapter "github.com/simaogato/stockplan-backend/internal/adapter/grpc"
	"github.com/simaogato/stockplan-backend/internal/adapter/repository/postgres"
	"github.com/simaogato/stockplan-backend/internal/adapter/repository/sqlite"
	"github.com/simaogato/stockplan-backend/internal/adapter/rest"
	"github.com/simaogato/stockplan-backend/internal/config"
	"github.com/simaogato/stockplan-backend/internal/domain"
	"github.com/simaogato/stockplan-backend/internal/logger"
	"github.com/simaogato/stockplan-backend/internal/usecase/overview"
	"github.com/simaogato/stockplan-backend/internal/usecase/plan"
	"github.com/simaogato/stockplan-backend/internal/usecase/seeder"
	"github.com/simaogato/stockplan-backend/internal/usecase/stock"
)

const shutdownTimeout = 10 * time.Second

// storage bundles the repositories of the selected driver with a close func
type storage struct {
	plans  domain.PlanRepository
	stocks domain.StockRepository
	close  func() error
}

func main() {
	configPath := flag.String("config", os.Getenv("STOCKPLAN_CONFIG"), "path to the YAML config file")
	flag.Parse()

	// 1. Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Name, logger.ParseLevel(cfg.LogLevel))
	ctx := context.Background()

	// 2. Setup storage
	store, err := openStorage(ctx, cfg, log.Named("storage"))
	if err != nil {
		log.Fatal("Failed to set up storage: %v", err)
	}
	defer store.close()

	// 3. Seed the stock catalog
	if cfg.Catalog.Seed {
		n, err := seeder.NewCatalogSeeder(store.stocks, nil).Seed(ctx)
		if err != nil {
			log.Fatal("Failed to seed stock catalog: %v", err)
		}
		log.Info("Stock catalog seeded with %d entries", n)
	}

	// 4. Initialize services (use cases)
	planService := plan.NewPlanService(store.plans, store.stocks, plan.PageLimits{
		Default: cfg.Plans.DefaultPageSize,
		Max:     cfg.Plans.MaxPageSize,
	})
	stockService := stock.NewStockService(store.stocks, cfg.Catalog.PageSize)
	overviewService := overview.NewOverviewService(store.plans)

	// 5. Start gRPC server
	grpcAdapter := grpcadapter.NewServer(planService, stockService, overviewService, cfg.Plans.DefaultMonths)
	grpcServer := grpcadapter.NewGRPCServer(grpcAdapter, cfg.Auth.Tokens, log.Named("grpc"))

	grpcAddr := fmt.Sprintf(":%d", cfg.GRPC.Port)
	lis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		log.Fatal("Failed to listen on %s: %v", grpcAddr, err)
	}

	go func() {
		log.Info("gRPC server listening on %s", grpcAddr)
		if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpclib.ErrServerStopped) {
			log.Fatal("Failed to serve gRPC server: %v", err)
		}
	}()

	// 6. Start REST API
	restServer := rest.NewServer(cfg, planService, stockService, overviewService, log.Named("rest"))
	go func() {
		if err := restServer.Start(); err != nil {
			log.Fatal("%v", err)
		}
	}()

	waitForShutdown(log, grpcServer, restServer)
}

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		db, err := postgres.NewDB(ctx, cfg.Storage.PostgresDSN(), cfg.Storage.ConnectRetries, log)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, err
		}
		log.Info("Connected to PostgreSQL")
		return &storage{
			plans:  postgres.NewPlanRepository(db),
			stocks: postgres.NewStockRepository(db),
			close:  db.Close,
		}, nil

	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.Storage.SQLitePath, log)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, err
		}
		log.Info("Opened SQLite database at %s", cfg.Storage.SQLitePath)
		return &storage{
			plans:  sqlite.NewPlanRepository(db),
			stocks: sqlite.NewStockRepository(db),
			close:  db.Close,
		}, nil
	}

	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down both servers
func waitForShutdown(log *logger.Logger, grpcServer *grpclib.Server, restServer *rest.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	log.Info("Received signal: %v. Shutting down gracefully...", sig)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := restServer.Shutdown(ctx); err != nil {
		log.Error("REST API shutdown: %v", err)
	}
	log.Info("REST API stopped")

	grpcServer.GracefulStop()
	log.Info("gRPC server stopped")
}
