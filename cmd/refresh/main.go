// Command refresh runs one price refresh cycle and exits.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"portfolio_backend/internal/app/config"
	"portfolio_backend/internal/app/di"
	"portfolio_backend/internal/feature/holdings/usecase"
	infradb "portfolio_backend/internal/platform/db"
	"portfolio_backend/internal/platform/logger"
	infraredis "portfolio_backend/internal/platform/redis"
)

func main() {
	if err := run(); err != nil {
		slog.Error("refresh failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(".env"); err != nil {
		slog.Info(".env not found; using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger.New(cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	db, err := infradb.OpenDB(infradb.LoadConfigFromEnv())
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer func() { _ = sqlDB.Close() }()
	}

	// 書き込み時にサーバー側のキャッシュを無効化するため、Redisがあれば経由する
	rdb, err := infraredis.NewRedisClient(ctx, infraredis.LoadConfig())
	if err != nil {
		slog.Info("running without Redis", "error", err)
	} else {
		defer func() { _ = rdb.Close() }()
	}
	store := di.NewHoldingStore(db, rdb, cfg.HoldingsCacheTTL)

	quotes, err := di.NewQuoteClient(cfg.QuoteProvider)
	if err != nil {
		return err
	}
	uc := usecase.NewRefreshUsecase(store, di.NewBatchFetcher(quotes))

	rep, err := uc.RefreshAll(ctx)
	if err != nil {
		return err
	}
	slog.Info("refresh ok", "written", rep.Written, "failed", rep.Failed, "cooldowns", rep.Cooldowns)
	return nil
}
