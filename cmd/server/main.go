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

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"portfolio_backend/internal/app/config"
	"portfolio_backend/internal/app/di"
	"portfolio_backend/internal/app/router"
	"portfolio_backend/internal/feature/holdings/transport/handler"
	"portfolio_backend/internal/feature/holdings/usecase"
	infradb "portfolio_backend/internal/platform/db"
	"portfolio_backend/internal/platform/logger"
	infraredis "portfolio_backend/internal/platform/redis"
	"portfolio_backend/internal/platform/scheduler"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// .envを読み込む
	if err := godotenv.Load(".env"); err != nil {
		slog.Info(".env not found; using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// db
	db, err := infradb.OpenDB(infradb.LoadConfigFromEnv())
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer func() { _ = sqlDB.Close() }()
	}

	// Redis
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(ctx, infraredis.LoadConfig()); err != nil {
		slog.Warn("Redis unavailable. Running without cache and refresh lock.", "error", err)
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close Redis client", "error", err)
			}
		}()
	}

	// Repository
	store := di.NewHoldingStore(db, rdb, cfg.HoldingsCacheTTL)

	// Quote client + throttled fetcher
	quotes, err := di.NewQuoteClient(cfg.QuoteProvider)
	if err != nil {
		return err
	}
	fetcher := di.NewBatchFetcher(quotes)

	// Usecase
	portfolioUC := usecase.NewPortfolioUsecase(store, fetcher)
	refreshUC := usecase.NewRefreshUsecase(store, fetcher)

	// Scheduler
	opts := []scheduler.Option{scheduler.WithName("price-refresh")}
	if rdb != nil {
		opts = append(opts, scheduler.WithLocker(infraredis.NewLock(rdb, cfg.RefreshLockKey, scheduler.DefaultInterval)))
	}
	refresher := scheduler.New(scheduler.DefaultInterval, refreshUC.Run, opts...)

	// Handler / ルータ生成
	holdingsH := handler.NewHoldingHandler(portfolioUC)
	r := router.NewRouter(holdingsH, refresher, cfg.AllowedOrigins)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("server listening", "addr", srv.Addr, "quote_provider", cfg.QuoteProvider)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		if err := refresher.Start(gctx); err != nil {
			return err
		}
		<-gctx.Done()
		refresher.Stop()
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
