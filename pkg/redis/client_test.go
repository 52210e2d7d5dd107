package redis

import (
	"context"
	"testing"
	"time"

	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/config"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *Client) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := NewFromClient(redis.NewClient(&redis.Options{Addr: srv.Addr()}))
	t.Cleanup(func() { _ = client.Close() })
	return srv, client
}

func TestFixedWindowAllowCountsWithinWindow(t *testing.T) {
	srv, client := newTestClient(t)
	ctx := context.Background()

	var results []bool
	for i := 0; i < 3; i++ {
		allowed, hits, err := client.FixedWindowAllow(ctx, "login:ip:1.2.3.4", 2, time.Minute)
		require.NoError(t, err)
		assert.Equal(t, int64(i+1), hits)
		results = append(results, allowed)
	}
	assert.Equal(t, []bool{true, true, false}, results)
	assert.Equal(t, time.Minute, srv.TTL("fs:rate_limit:login:ip:1.2.3.4"))

	srv.FastForward(time.Minute + time.Second)
	allowed, hits, err := client.FixedWindowAllow(ctx, "login:ip:1.2.3.4", 2, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, int64(1), hits)
}

func TestIncrWithTTLKeepsFirstExpiry(t *testing.T) {
	srv, client := newTestClient(t)
	ctx := context.Background()

	_, err := client.IncrWithTTL(ctx, "counter", 10*time.Minute)
	require.NoError(t, err)
	srv.FastForward(4 * time.Minute)
	hits, err := client.IncrWithTTL(ctx, "counter", 10*time.Minute)
	require.NoError(t, err)

	assert.Equal(t, int64(2), hits)
	assert.Equal(t, 6*time.Minute, srv.TTL("counter"))
}

func TestStringCommands(t *testing.T) {
	_, client := newTestClient(t)
	ctx := context.Background()

	key := client.OTPCodeKey("Buyer@Example.com")
	require.NoError(t, client.Set(ctx, key, "hash", 10*time.Minute))

	got, err := client.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "hash", got)

	ttl, err := client.TTL(ctx, key)
	require.NoError(t, err)
	assert.True(t, ttl > 0 && ttl <= 10*time.Minute, "ttl %v", ttl)

	created, err := client.SetNX(ctx, key, "other", time.Minute)
	require.NoError(t, err)
	assert.False(t, created)

	require.NoError(t, client.Del(ctx, key))
	_, err = client.Get(ctx, key)
	assert.ErrorIs(t, err, ErrNil)
	assert.NoError(t, client.Del(ctx))
}

func TestKeys(t *testing.T) {
	var client Client
	cases := map[string]string{
		client.IdempotencyKey("checkout", "abc"):   "fs:idempotency:checkout:abc",
		client.IdempotencyKey("checkout", " "):     "fs:idempotency:checkout",
		client.RateLimitKey("login:ip:1.2.3.4"):    "fs:rate_limit:login:ip:1.2.3.4",
		client.AccessSessionKey("jti-1"):           "fs:session:access:jti-1",
		client.OTPCodeKey("Buyer@Example.com"):     "fs:otp:code:buyer@example.com",
		client.OTPAttemptsKey("buyer@example.com"): "fs:otp:attempts:buyer@example.com",
		client.LockKey("cron"):                     "fs:lock:cron",
		Keys{Namespace: "test"}.LockKey("cron"):    "test:lock:cron",
	}
	for got, want := range cases {
		assert.Equal(t, want, got)
	}
}

func TestUnconnectedClient(t *testing.T) {
	var client *Client
	assert.ErrorIs(t, client.Ping(context.Background()), errNotInitialized)
	assert.NoError(t, client.Close())

	_, err := (&Client{}).Get(context.Background(), "k")
	assert.ErrorIs(t, err, errNotInitialized)
}

func TestClientOptions(t *testing.T) {
	_, err := clientOptions(config.RedisConfig{})
	assert.Error(t, err)

	opts, err := clientOptions(config.RedisConfig{
		URL:         "redis://:pw@cache:6380/3",
		PoolSize:    20,
		DialTimeout: 2 * time.Second,
	})
	require.NoError(t, err)
	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, 3, opts.DB)
	assert.Equal(t, "pw", opts.Password)
	assert.Equal(t, 20, opts.PoolSize)
	assert.Equal(t, 2*time.Second, opts.DialTimeout)

	opts, err = clientOptions(config.RedisConfig{Address: "localhost:6379", DB: 1})
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", opts.Addr)
	assert.Equal(t, 1, opts.DB)
}
