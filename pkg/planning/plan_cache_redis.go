package planning

import (
	"context"
	"time"

	"github.com/go-redis/cache/v8"
	"github.com/go-redis/redis/v8"
)

// PlanCacheRedis caches day plans in redis so instances share plan state
type PlanCacheRedis struct {
	Cache *cache.Cache
}

// NewPlanCacheRedis initializes a new PlanCacheRedis
func NewPlanCacheRedis(redisClient *redis.Client) (*PlanCacheRedis, error) {
	redisCache := cache.New(&cache.Options{
		Redis: redisClient,
	})

	return &PlanCacheRedis{
		Cache: redisCache,
	}, nil
}

// Add adds a plan
func (c *PlanCacheRedis) Add(ctx context.Context, key string, plan *DayPlan) error {
	err := c.Cache.Set(&cache.Item{
		Ctx:   ctx,
		Key:   key,
		Value: plan,
		TTL:   time.Hour * 24,
	})
	if err != nil {
		return err
	}

	return nil
}

// Invalidate invalidates a plan
func (c *PlanCacheRedis) Invalidate(ctx context.Context, key string) error {
	err := c.Cache.Delete(ctx, key)
	if err != nil {
		return err
	}

	return nil
}

// Get retrieves a plan
func (c *PlanCacheRedis) Get(ctx context.Context, key string) (*DayPlan, error) {
	result := DayPlan{}
	err := c.Cache.Get(ctx, key, &result)
	if err != nil {
		return nil, err
	}

	return &result, nil
}
