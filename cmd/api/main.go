package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"apexfund/internal/config"
	"apexfund/internal/database"
	"apexfund/internal/logger"
	"apexfund/internal/repository"
	"apexfund/internal/scheduler"
	"apexfund/internal/server"
	"apexfund/internal/services"
	"apexfund/internal/validator"
)

// @title           Apex Numismatics Investor Portal API
// @version         1.0
// @description     Portfolio, cash reserve and performance endpoints for the Apex rare-coin fund.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.

const shutdownTimeout = 15 * time.Second

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	var (
		holdingRepo  repository.HoldingRepository
		snapshotRepo repository.SnapshotRepository
	)
	if dbConfig.Persistent() {
		dbManager, err := database.NewManager(dbConfig)
		if err != nil {
			return fmt.Errorf("failed to create database manager: %w", err)
		}
		defer func() {
			if err := dbManager.Close(); err != nil {
				log.Warnf("database close error: %v", err)
			}
		}()
		if err := dbManager.RunMigrations(); err != nil {
			return fmt.Errorf("failed to run database migrations: %w", err)
		}
		holdingRepo = repository.NewGormHoldingRepository(dbManager.DB())
		snapshotRepo = repository.NewGormSnapshotRepository(dbManager.DB())
	} else {
		log.Info("DB_DRIVER=memory: portfolio data will not survive a restart")
		holdingRepo = repository.NewMemoryHoldingRepository()
		snapshotRepo = repository.NewMemorySnapshotRepository()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize services
	store := services.NewPortfolioStore(holdingRepo, appConfig.InitialCashReserves)
	if err := store.Load(ctx); err != nil {
		return fmt.Errorf("failed to load portfolio: %w", err)
	}
	authService := services.NewAuthService(appConfig.JWTSecret, appConfig.JWTExpirationDur, appConfig.JWTRememberExpiration)
	snapshotService := services.NewSnapshotService(store, snapshotRepo)

	validator.Register()
	router := server.NewRouter(server.Deps{
		Portfolio:   store,
		Auth:        authService,
		Snapshots:   snapshotService,
		Currency:    appConfig.Currency,
		RequireAuth: appConfig.RequireAuth,
		HookKey:     appConfig.SnapshotHookKey,
	})

	jobs := scheduler.New()
	if appConfig.SnapshotSchedule != "" {
		err := jobs.Add("portfolio-snapshot", appConfig.SnapshotSchedule, func(ctx context.Context) error {
			_, err := snapshotService.Record(ctx)
			return err
		})
		if err != nil {
			return err
		}
	}

	srv := &http.Server{
		Addr:              ":" + appConfig.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Infof("Starting Apex investor portal on port %s", appConfig.Port)
		log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		jobs.Start()
		<-gctx.Done()

		log.Info("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := jobs.Stop(shutdownCtx); err != nil {
			log.Warnf("scheduler stop: %v", err)
		}
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("Server exited")
	return nil
}
