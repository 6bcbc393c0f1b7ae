package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/alexanderramin/trek/internal/domain"
)

// MemoryPlanCache keeps plans in process memory.
type MemoryPlanCache struct {
	store *gocache.Cache
}

// NewMemoryPlanCache returns a cache whose entries expire after ttl.
func NewMemoryPlanCache(ttl time.Duration) *MemoryPlanCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryPlanCache{store: gocache.New(ttl, ttl*2)}
}

func (c *MemoryPlanCache) Get(_ context.Context, key string) (*domain.ItineraryPlan, error) {
	v, ok := c.store.Get(key)
	if !ok {
		return nil, nil
	}
	plan, ok := v.(domain.ItineraryPlan)
	if !ok {
		return nil, nil
	}
	out := plan.Clone()
	return &out, nil
}

func (c *MemoryPlanCache) Set(_ context.Context, key string, plan *domain.ItineraryPlan) error {
	if plan == nil {
		return nil
	}
	c.store.SetDefault(key, plan.Clone())
	return nil
}

// Len reports the number of live entries.
func (c *MemoryPlanCache) Len() int {
	return c.store.ItemCount()
}
