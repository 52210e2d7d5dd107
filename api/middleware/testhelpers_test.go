package middleware

import (
	"testing"

	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/redis"
	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	return mr, redis.NewFromClient(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
}
