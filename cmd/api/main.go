package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Christopher22722/OneMillionChallenges/internal/app"
	"github.com/Christopher22722/OneMillionChallenges/internal/clock"
	"github.com/Christopher22722/OneMillionChallenges/internal/config"
	"github.com/Christopher22722/OneMillionChallenges/internal/payment"
	"github.com/Christopher22722/OneMillionChallenges/internal/storage/postgres"
	transporthttp "github.com/Christopher22722/OneMillionChallenges/internal/transport/http"
	"github.com/Christopher22722/OneMillionChallenges/migrations"
	"github.com/jackc/pgx/v5/pgxpool"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	warn := func(msg string) { logger.Warn(msg) }

	config.LoadEnvFile(warn)
	cfg, err := config.FromEnv(warn)
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	startupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(startupCtx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("connect to db", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(startupCtx); err != nil {
		logger.Error("db ping", "error", err)
		os.Exit(1)
	}
	if err := migrations.Apply(startupCtx, pool); err != nil {
		logger.Error("apply migrations", "error", err)
		os.Exit(1)
	}

	provider := payment.NewPayPal(cfg.PayPalEnv, cfg.PayPalClientID, cfg.PayPalClientSecret)
	clk := clock.NewSystem()

	cellRepo := postgres.NewCellRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	draftRepo := postgres.NewDraftRepository(pool)

	reserveSvc := app.NewReservationService(cellRepo, orderRepo, provider, clk,
		app.WithHoldTTL(cfg.HoldTTL),
		app.WithPricing(cfg.UnitPrice, cfg.Currency),
		app.WithMaxBatch(cfg.MaxBatch),
	)
	captureSvc := app.NewCaptureService(cellRepo, orderRepo, provider)
	draftSvc := app.NewDraftService(draftRepo, clk, cfg.MaxBatch)
	purchaseSvc := app.NewPurchaseService(cellRepo, orderRepo, draftRepo, clk, cfg.MaxBatch)
	sweepSvc := app.NewSweepService(cellRepo, draftRepo, clk)
	gridSvc := app.NewGridService(cellRepo, clk)

	handler := transporthttp.NewRouter(logger, transporthttp.Services{
		Reserver:  reserveSvc,
		Capturer:  captureSvc,
		Drafts:    draftSvc,
		Promoter:  purchaseSvc,
		Purchaser: purchaseSvc,
		Grid:      gridSvc,
		Sweeper:   sweepSvc,
	}, transporthttp.ClientConfig{
		PayPalClientID: cfg.PayPalClientID,
		Currency:       cfg.Currency,
		UnitPrice:      cfg.UnitPrice,
	}, cfg.CORSOrigins)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	logger.Info("api listening", "port", cfg.Port)

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- server.ListenAndServe()
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
		}
	case <-stopCtx.Done():
		logger.Info("shutdown signal received, stopping server")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server shutdown error", "error", err)
	}
	logger.Info("server stopped")
}
