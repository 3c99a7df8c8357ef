package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/rallycommand/rallycommand-backend/api/routes"
	"github.com/rallycommand/rallycommand-backend/internal/account"
	"github.com/rallycommand/rallycommand-backend/internal/auth"
	"github.com/rallycommand/rallycommand-backend/internal/dashboard"
	"github.com/rallycommand/rallycommand-backend/internal/feedback"
	"github.com/rallycommand/rallycommand-backend/internal/inventory"
	"github.com/rallycommand/rallycommand-backend/internal/preferences"
	"github.com/rallycommand/rallycommand-backend/internal/repairs"
	"github.com/rallycommand/rallycommand-backend/internal/setups"
	"github.com/rallycommand/rallycommand-backend/internal/stocktake"
	"github.com/rallycommand/rallycommand-backend/internal/usage"
	"github.com/rallycommand/rallycommand-backend/internal/users"
	"github.com/rallycommand/rallycommand-backend/internal/vehicles"
	"github.com/rallycommand/rallycommand-backend/pkg/auth/session"
	"github.com/rallycommand/rallycommand-backend/pkg/config"
	"github.com/rallycommand/rallycommand-backend/pkg/db"
	"github.com/rallycommand/rallycommand-backend/pkg/logger"
	"github.com/rallycommand/rallycommand-backend/pkg/metrics"
	"github.com/rallycommand/rallycommand-backend/pkg/migrate"
	"github.com/rallycommand/rallycommand-backend/pkg/redis"
)

const shutdownGrace = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)
	stocktakeMetrics := metrics.NewStocktakeMetrics(registry)

	deps, err := buildServices(cfg, dbClient, redisClient, sessionManager, stocktakeMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to build services", err)
		os.Exit(1)
	}
	deps.Config = cfg
	deps.Logger = logg
	deps.DB = dbClient
	deps.Redis = redisClient
	deps.Registry = registry
	deps.Sessions = sessionManager
	deps.HTTPMetrics = httpMetrics

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(deps),
	}

	stop, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-stop.Done():
		logg.Info(ctx, "shutdown signal received")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
	}
}

func buildServices(
	cfg *config.Config,
	dbClient *db.Client,
	redisClient *redis.Client,
	sessionManager *session.Manager,
	stocktakeMetrics *metrics.StocktakeMetrics,
) (routes.Deps, error) {
	var deps routes.Deps
	var err error

	deps.Auth, err = auth.NewService(auth.ServiceParams{
		UserRepo:       users.NewRepository(dbClient.DB()),
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		return deps, err
	}
	deps.Register, err = auth.NewRegisterService(auth.RegisterServiceParams{
		DB:             dbClient,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		return deps, err
	}
	deps.Inventory, err = inventory.NewService(inventory.NewRepository(dbClient.DB()))
	if err != nil {
		return deps, err
	}
	deps.Usage, err = usage.NewService(dbClient)
	if err != nil {
		return deps, err
	}
	deps.Vehicles, err = vehicles.NewService(dbClient.DB())
	if err != nil {
		return deps, err
	}
	deps.Setups, err = setups.NewService(dbClient.DB())
	if err != nil {
		return deps, err
	}
	deps.Repairs, err = repairs.NewService(dbClient.DB())
	if err != nil {
		return deps, err
	}

	stocktakeSessions, err := stocktake.NewSessionManager(redisClient, cfg.Stocktake.SessionTTL)
	if err != nil {
		return deps, err
	}
	deps.Stocktake, err = stocktake.NewService(stocktake.ServiceParams{
		DB:       dbClient,
		Sessions: stocktakeSessions,
		Metrics:  stocktakeMetrics,
	})
	if err != nil {
		return deps, err
	}

	deps.Dashboard, err = dashboard.NewService(dbClient)
	if err != nil {
		return deps, err
	}
	deps.Account, err = account.NewService(account.ServiceParams{
		DB:          dbClient,
		Sessions:    sessionManager,
		PasswordCfg: cfg.Password,
	})
	if err != nil {
		return deps, err
	}
	deps.Feedback, err = feedback.NewService(dbClient)
	if err != nil {
		return deps, err
	}
	deps.Preferences, err = preferences.NewService(preferences.ServiceParams{
		DB:    dbClient,
		Cache: redisClient,
	})
	if err != nil {
		return deps, err
	}

	return deps, nil
}
