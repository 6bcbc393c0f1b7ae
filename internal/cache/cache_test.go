package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/trek/internal/cache"
	"github.com/alexanderramin/trek/internal/domain"
	"github.com/alexanderramin/trek/internal/testutil"
)

func newRedisCache(t *testing.T, ttl time.Duration) (*cache.RedisPlanCache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return cache.NewRedisPlanCache(client, ttl), mr
}

func TestPlanKey(t *testing.T) {
	a := testutil.NewTestRequirement("台南", 3, testutil.WithBudget(20000),
		testutil.WithPreferences(domain.PrefFood, domain.PrefCulture))
	b := testutil.NewTestRequirement("台南", 3, testutil.WithBudget(20000),
		testutil.WithPreferences(domain.PrefCulture, domain.PrefFood))
	assert.Equal(t, cache.PlanKey(a), cache.PlanKey(b))

	c := testutil.NewTestRequirement("台南", 4, testutil.WithBudget(20000),
		testutil.WithPreferences(domain.PrefFood, domain.PrefCulture))
	assert.NotEqual(t, cache.PlanKey(a), cache.PlanKey(c))

	// People and trip type only matter through the budget they imply.
	d := testutil.NewTestRequirement("台南", 3, testutil.WithBudget(20000), testutil.WithPeople(2),
		testutil.WithPreferences(domain.PrefFood, domain.PrefCulture))
	assert.Equal(t, cache.PlanKey(a), cache.PlanKey(d))
}

func TestRedisPlanCache_SetAndGet(t *testing.T) {
	c, mr := newRedisCache(t, time.Hour)
	ctx := context.Background()

	plan := testutil.NewTestPlan("花蓮", 2)
	require.NoError(t, c.Set(ctx, "k1", &plan))
	assert.True(t, mr.Exists("trek:k1"))

	got, err := c.Get(ctx, "k1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, plan, *got)
}

func TestRedisPlanCache_Miss(t *testing.T) {
	c, _ := newRedisCache(t, time.Hour)
	got, err := c.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisPlanCache_TTL(t *testing.T) {
	c, mr := newRedisCache(t, time.Hour)
	ctx := context.Background()

	plan := testutil.NewTestPlan("花蓮", 1)
	require.NoError(t, c.Set(ctx, "k", &plan))
	mr.FastForward(2 * time.Hour)

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisPlanCache_CorruptEntry(t *testing.T) {
	c, mr := newRedisCache(t, time.Hour)
	require.NoError(t, mr.Set("trek:bad", "{not json"))

	_, err := c.Get(context.Background(), "bad")
	assert.Error(t, err)
}

func TestRedisPlanCache_NilPlanIsNoop(t *testing.T) {
	c, mr := newRedisCache(t, time.Hour)
	require.NoError(t, c.Set(context.Background(), "k", nil))
	assert.False(t, mr.Exists("trek:k"))
}

func TestRedisPlanCache_ServerDown(t *testing.T) {
	c, mr := newRedisCache(t, time.Hour)
	mr.Close()
	_, err := c.Get(context.Background(), "k")
	assert.Error(t, err)
}

func TestConnect(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client, err := cache.Connect(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	_ = client.Close()

	_, err = cache.Connect(context.Background(), "not-a-url")
	assert.Error(t, err)
}

func TestMemoryPlanCache(t *testing.T) {
	c := cache.NewMemoryPlanCache(time.Hour)
	ctx := context.Background()

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, got)

	plan := testutil.NewTestPlan("台東", 2)
	require.NoError(t, c.Set(ctx, "k", &plan))
	assert.Equal(t, 1, c.Len())

	got, err = c.Get(ctx, "k")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, plan, *got)

	got.Days[0].Activities[0].Name = "changed"
	again, _ := c.Get(ctx, "k")
	assert.NotEqual(t, "changed", again.Days[0].Activities[0].Name)

	plan.Days[0].Theme = "changed after set"
	again, _ = c.Get(ctx, "k")
	assert.NotEqual(t, "changed after set", again.Days[0].Theme)
}

func TestMemoryPlanCache_Expiry(t *testing.T) {
	c := cache.NewMemoryPlanCache(20 * time.Millisecond)
	plan := testutil.NewTestPlan("台東", 1)
	require.NoError(t, c.Set(context.Background(), "k", &plan))

	assert.Eventually(t, func() bool {
		got, _ := c.Get(context.Background(), "k")
		return got == nil
	}, time.Second, 10*time.Millisecond)
}
