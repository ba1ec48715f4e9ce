package config

// Redis backs the availability cache and the purchase rate limiter.
// Both degrade gracefully: when the connection cannot be established at
// startup this constructor returns nil and callers run without caching
// or limiting instead of refusing to serve.

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient instantiates a redis client from the environment.
// Supported variables:
//
//	REDIS_HOST / REDIS_PORT  hostname and port of the server
//	REDIS_ADDR               host:port shorthand (wins when both are set)
//	REDIS_PASSWORD           optional password
//	REDIS_DB                 database number (default 0)
//
// The returned client is nil when the server cannot be reached.
func NewRedisClient() *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if host, port := os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PORT"); host != "" && port != "" {
		addr = host + ":" + port
	}
	if addr == "" {
		addr = "localhost:6379"
	}
	dbNum := 0
	if s := os.Getenv("REDIS_DB"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			dbNum = n
		}
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       dbNum,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil
	}
	return client
}
