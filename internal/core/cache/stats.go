package cache

import (
	"context"
	"time"

	"taskboard/internal/domain"
)

// StatsCache 按 owner 缓存任务统计；任何写操作后由服务层调用 Forget
type StatsCache struct {
	store *Store
	ttl   time.Duration
}

func NewStatsCache(s *Store, ttl time.Duration) *StatsCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &StatsCache{store: s, ttl: ttl}
}

// StatsKey 不含 Store 前缀
func StatsKey(ownerID string) string { return "stats:" + ownerID }

func (c *StatsCache) Stats(ctx context.Context, ownerID string, load func(context.Context) (*domain.TaskStats, error)) (*domain.TaskStats, error) {
	return Fetch(ctx, c.store, StatsKey(ownerID), c.ttl, load)
}

func (c *StatsCache) Forget(ctx context.Context, ownerID string) error {
	return c.store.Invalidate(ctx, StatsKey(ownerID))
}
