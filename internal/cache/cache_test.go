package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Tests that talk to Redis expect it on localhost:6379 and skip otherwise.
const testRedisAddr = "localhost:6379"

func setupTestCache(t *testing.T, prefix string) (*Cache, func()) {
	t.Helper()

	client := redis.NewClient(&redis.Options{Addr: testRedisAddr})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		t.Skipf("Redis not available at %s: %v", testRedisAddr, err)
	}

	cleanupKeys(ctx, client, prefix+"*")
	c := New(client, prefix, 5*time.Minute)

	return c, func() {
		cleanupKeys(ctx, client, prefix+"*")
		_ = client.Close()
	}
}

func cleanupKeys(ctx context.Context, client *redis.Client, pattern string) {
	var cursor uint64
	for {
		keys, next, err := client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return
		}
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
}

func TestNew(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: testRedisAddr})
	defer client.Close()

	c := New(client, "test:", 10*time.Minute)
	if c.prefix != "test:" || c.ttl != 10*time.Minute || c.stats == nil {
		t.Fatalf("unexpected cache %+v", c)
	}
}

func TestKeys(t *testing.T) {
	id := uuid.MustParse("9b2f7c3e-1c1a-4f7e-9d55-0d6c34a1f0aa")
	day := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		got  string
		want string
	}{
		{name: "best price", got: BestPriceKey(id, day, false), want: "best:9b2f7c3e-1c1a-4f7e-9d55-0d6c34a1f0aa:2025-01-05"},
		{name: "best price with previous", got: BestPriceKey(id, day, true), want: "best:9b2f7c3e-1c1a-4f7e-9d55-0d6c34a1f0aa:2025-01-05:prev"},
		{name: "product pattern", got: ProductPattern(id), want: "best:9b2f7c3e-1c1a-4f7e-9d55-0d6c34a1f0aa:*"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.got != tc.want {
				t.Fatalf("got %q, want %q", tc.got, tc.want)
			}
		})
	}
}

func TestCache_SetAndGet(t *testing.T) {
	c, cleanup := setupTestCache(t, "test:setget:")
	defer cleanup()
	ctx := context.Background()

	type payload struct {
		Chain string `json:"chain"`
		Price string `json:"price"`
	}
	in := payload{Chain: "Lidl", Price: "2.30"}
	if err := c.Set(ctx, "item", in); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var out payload
	found, err := c.Get(ctx, "item", &out)
	if err != nil || !found {
		t.Fatalf("Get: found=%v err=%v", found, err)
	}
	if out != in {
		t.Fatalf("got %+v, want %+v", out, in)
	}

	found, err = c.Get(ctx, "missing", &out)
	if err != nil || found {
		t.Fatalf("miss: found=%v err=%v", found, err)
	}
}

func TestCache_TTL(t *testing.T) {
	c, cleanup := setupTestCache(t, "test:ttl:")
	defer cleanup()
	ctx := context.Background()

	if err := c.SetWithTTL(ctx, "expiring", "v", 100*time.Millisecond); err != nil {
		t.Fatalf("SetWithTTL: %v", err)
	}
	time.Sleep(200 * time.Millisecond)

	var out string
	if found, _ := c.Get(ctx, "expiring", &out); found {
		t.Fatal("value should have expired")
	}
}

func TestCache_InvalidateProduct(t *testing.T) {
	c, cleanup := setupTestCache(t, "test:invalidate:")
	defer cleanup()
	ctx := context.Background()

	target, other := uuid.New(), uuid.New()
	day := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)
	for _, key := range []string{
		BestPriceKey(target, day, false),
		BestPriceKey(target, day, true),
		BestPriceKey(target, day.AddDate(0, 0, 1), false),
		BestPriceKey(other, day, false),
	} {
		if err := c.Set(ctx, key, 1); err != nil {
			t.Fatalf("Set: %v", err)
		}
	}

	if err := c.InvalidateProduct(ctx, target); err != nil {
		t.Fatalf("InvalidateProduct: %v", err)
	}

	var v int
	if found, _ := c.Get(ctx, BestPriceKey(target, day, true), &v); found {
		t.Fatal("target key should be gone")
	}
	if found, _ := c.Get(ctx, BestPriceKey(other, day, false), &v); !found {
		t.Fatal("other product must be kept")
	}
	if got := c.GetStats().Deletes; got != 3 {
		t.Fatalf("deletes=%d, want 3", got)
	}
}

func TestCache_Stats(t *testing.T) {
	c, cleanup := setupTestCache(t, "test:stats:")
	defer cleanup()
	ctx := context.Background()

	id := uuid.New()
	key := BestPriceKey(id, time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC), false)
	_ = c.Set(ctx, key, "v")
	var out string
	_, _ = c.Get(ctx, key, &out)
	_, _ = c.Get(ctx, "nope", &out)
	_ = c.InvalidateProduct(ctx, id)

	s := c.GetStats()
	if s.Sets != 1 || s.Hits != 1 || s.Misses != 1 || s.Deletes != 1 || s.TotalGets != 2 {
		t.Fatalf("unexpected stats %+v", s)
	}
	if s.HitRate != 50 {
		t.Fatalf("hit rate=%f, want 50", s.HitRate)
	}
}

func TestGetStats_NoTraffic(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: testRedisAddr})
	defer client.Close()

	s := New(client, "test:", time.Minute).GetStats()
	if s != (StatsSnapshot{}) {
		t.Fatalf("fresh cache should report zero stats, got %+v", s)
	}
}

func TestCache_Ping(t *testing.T) {
	c, cleanup := setupTestCache(t, "test:ping:")
	defer cleanup()
	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}
