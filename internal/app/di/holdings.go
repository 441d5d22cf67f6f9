package di

import (
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"portfolio_backend/internal/feature/holdings/adapters"
	"portfolio_backend/internal/feature/holdings/usecase"
	"portfolio_backend/internal/platform/cache"
	"portfolio_backend/internal/shared/ratelimiter"
)

// NewHoldingStore creates the holdings store.
// If Redis is available, reads go through a Redis cache in front of the database.
func NewHoldingStore(db *gorm.DB, rdb *redis.Client, ttl time.Duration) usecase.HoldingStore {
	repo := adapters.NewHoldingRepository(db)
	if rdb == nil {
		return repo
	}
	return cache.NewCachingHoldingRepository(rdb, ttl, repo, "holdings")
}

// NewBatchFetcher creates a BatchFetcher that cools down for one second after every 30 requests.
func NewBatchFetcher(quotes usecase.QuoteClient) *usecase.BatchFetcher {
	return usecase.NewBatchFetcher(quotes, ratelimiter.NewPacer(ratelimiter.DefaultEvery, ratelimiter.DefaultCooldown))
}
