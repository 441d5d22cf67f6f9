// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"portfolio_backend/internal/feature/holdings/domain/entity"
	"portfolio_backend/internal/feature/holdings/usecase"
)

// CachingHoldingRepository decorates a HoldingStore with a Redis read cache.
// Reads go through the cache. A write drops the list entry and the entry of
// the holding it touched, so a refresh of N holdings costs N single DELs.
type CachingHoldingRepository struct {
	inner     usecase.HoldingStore
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.HoldingStore = (*CachingHoldingRepository)(nil)

// NewCachingHoldingRepository decorates a HoldingStore with Redis caching.
// If ttl is 0, it defaults to 30 seconds. If namespace is empty, it uses "holdings".
// A nil rdb disables caching entirely.
func NewCachingHoldingRepository(rdb *redis.Client, ttl time.Duration, inner usecase.HoldingStore, namespace string) *CachingHoldingRepository {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if namespace == "" {
		namespace = "holdings"
	}
	return &CachingHoldingRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// List returns every holding, from cache when possible.
func (c *CachingHoldingRepository) List(ctx context.Context) ([]entity.Holding, error) {
	if c.rdb == nil {
		return c.inner.List(ctx)
	}

	key := c.listKey()
	var out []entity.Holding
	if c.load(ctx, key, &out) {
		return out, nil
	}

	out, err := c.inner.List(ctx)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, out)
	return out, nil
}

// FindByID returns one holding, from cache when possible. Misses are not cached.
func (c *CachingHoldingRepository) FindByID(ctx context.Context, id uint) (*entity.Holding, error) {
	if c.rdb == nil {
		return c.inner.FindByID(ctx, id)
	}

	key := c.idKey(id)
	var cached entity.Holding
	if c.load(ctx, key, &cached) {
		return &cached, nil
	}

	h, err := c.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, h)
	return h, nil
}

// SetCurrentPrice writes through and invalidates the cache.
func (c *CachingHoldingRepository) SetCurrentPrice(ctx context.Context, id uint, price float64) error {
	if err := c.inner.SetCurrentPrice(ctx, id, price); err != nil {
		return err
	}
	c.invalidate(ctx, c.idKey(id))
	return nil
}

// Create writes through and invalidates the cache.
func (c *CachingHoldingRepository) Create(ctx context.Context, h *entity.Holding) error {
	if err := c.inner.Create(ctx, h); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

// Update writes through and invalidates the cache.
func (c *CachingHoldingRepository) Update(ctx context.Context, h entity.Holding) (int64, error) {
	n, err := c.inner.Update(ctx, h)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		c.invalidate(ctx, c.idKey(h.ID))
	}
	return n, nil
}

// Delete writes through and invalidates the cache.
func (c *CachingHoldingRepository) Delete(ctx context.Context, id uint) (int64, error) {
	n, err := c.inner.Delete(ctx, id)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		c.invalidate(ctx, c.idKey(id))
	}
	return n, nil
}

// load reads key into dst. A corrupted entry is deleted and reported as a miss.
func (c *CachingHoldingRepository) load(ctx context.Context, key string, dst any) bool {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil || len(b) == 0 {
		return false
	}
	if err := json.Unmarshal(b, dst); err != nil {
		_ = c.rdb.Del(ctx, key).Err()
		return false
	}
	return true
}

// store writes v under key. Best effort.
func (c *CachingHoldingRepository) store(ctx context.Context, key string, v any) {
	if b, err := json.Marshal(v); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}
}

// invalidate drops the list entry plus the given keys.
func (c *CachingHoldingRepository) invalidate(ctx context.Context, keys ...string) {
	if c.rdb == nil {
		return
	}
	keys = append([]string{c.listKey()}, keys...)
	// キャッシュ削除の失敗で書き込みを失敗扱いにはしない（TTLで自然に消える）
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		slog.Warn("holdings cache invalidation failed", "keys", keys, "error", err)
	}
}

func (c *CachingHoldingRepository) listKey() string {
	return c.namespace + ":list"
}

func (c *CachingHoldingRepository) idKey(id uint) string {
	return fmt.Sprintf("%s:id:%d", c.namespace, id)
}
