package planning

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru"
)

// PlanCacheInterface caches generated day plans per user and date
type PlanCacheInterface interface {
	Add(ctx context.Context, key string, plan *DayPlan) error
	Invalidate(ctx context.Context, key string) error
	Get(ctx context.Context, key string) (*DayPlan, error)
}

// PlanCacheKey builds the cache key of a user's plan for a date
func PlanCacheKey(userID string, dateKey string) string {
	return fmt.Sprintf("plan:%s:%s", userID, dateKey)
}

// PlanCacheMemory caches day plans in process memory
type PlanCacheMemory struct {
	Cache *lru.Cache
}

// NewPlanCacheMemory initializes a new PlanCacheMemory
func NewPlanCacheMemory() (*PlanCacheMemory, error) {
	cache, err := lru.New(1000)
	if err != nil {
		return nil, err
	}

	return &PlanCacheMemory{
		Cache: cache,
	}, nil
}

// Add adds a plan to the cache
func (c *PlanCacheMemory) Add(_ context.Context, key string, plan *DayPlan) error {
	_ = c.Cache.Add(key, plan)
	return nil
}

// Invalidate removes a plan from the cache
func (c *PlanCacheMemory) Invalidate(_ context.Context, key string) error {
	c.Cache.Remove(key)
	return nil
}

// Get retrieves a plan from the cache
func (c *PlanCacheMemory) Get(_ context.Context, key string) (*DayPlan, error) {
	result, ok := c.Cache.Get(key)
	if !ok {
		return nil, fmt.Errorf("could not find key %s in plan cache", key)
	}

	plan, ok := result.(*DayPlan)
	if !ok {
		return nil, fmt.Errorf("cache entry was not a day plan")
	}

	return plan, nil
}
