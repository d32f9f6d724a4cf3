package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	specpkg "github.com/thehfhotel/loyalty-backend/api"
	"github.com/thehfhotel/loyalty-backend/internal/api"
	"github.com/thehfhotel/loyalty-backend/internal/api/middleware"
	"github.com/thehfhotel/loyalty-backend/internal/auth"
	"github.com/thehfhotel/loyalty-backend/internal/config"
	"github.com/thehfhotel/loyalty-backend/internal/database"
	"github.com/thehfhotel/loyalty-backend/internal/ledger"
	"github.com/thehfhotel/loyalty-backend/internal/metrics"
	"github.com/thehfhotel/loyalty-backend/internal/rewards"
	"github.com/thehfhotel/loyalty-backend/internal/tier"
)

func main() {
	// Local development convenience; deployed environments set real env vars.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.LogLevel)
	metrics.Register()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		slog.Error("failed to apply schema", "error", err)
		os.Exit(1)
	}

	tierRepo := tier.NewPostgresRepository(db.Pool())
	if err := tierRepo.EnsureDefaults(ctx); err != nil {
		slog.Error("failed to seed tier catalog", "error", err)
		os.Exit(1)
	}

	credRepo := auth.NewRepository(db.Pool())
	authService := auth.NewService(credRepo, cfg.BcryptCost)
	if _, err := authService.BootstrapAdmin(ctx); err != nil {
		slog.Error("failed to bootstrap admin credential", "error", err)
		os.Exit(1)
	}

	engine := ledger.NewService(db.Pool())

	var sweeper *ledger.Sweeper
	if cfg.SweepInterval > 0 {
		sweeper = ledger.NewSweeper(engine, cfg.SweepInterval, cfg.SweepBatchSize)
		go sweeper.Start(ctx)
	}

	rewarder := rewards.NewStayRewarder(engine, cfg.PointRate, time.Duration(cfg.PointsTTLDays)*24*time.Hour)

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go limiter.Janitor(ctx)

	router := api.NewRouter(api.RouterDeps{
		DBPinger:    db,
		Version:     cfg.Version,
		OpenAPISpec: specpkg.OpenAPISpec,
		Engine:      engine,
		TierRepo:    tierRepo,
		Sweeper:     sweeper,
		Rewarder:    rewarder,
		AuthService: authService,
		CredRepo:    credRepo,
		RateLimiter: limiter,
		OnCustomer:  rewarder.EnrollOnSignIn,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting loyalty server", "port", cfg.Port, "version", cfg.Version)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutting down server", "signal", sig.String())
	case err := <-serverErr:
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	// Stops the sweeper and the rate limit janitor.
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

func setupLogger(level string) {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}
