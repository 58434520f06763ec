package redis

import (
	"strconv"

	"w9ayt_delivery_server/internal/config"

	"github.com/redis/go-redis/v9"
)

var cache *RedisCache

// Init connects to Redis and starts the cache worker pool.
func Init() {
	conf := config.GetConfig()
	addr := conf.RedisConfig.Host + ":" + strconv.Itoa(conf.RedisConfig.Port)

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: conf.RedisConfig.Password,
		DB:       conf.RedisConfig.Db,
		// Pool sized to cover the worker pool plus request handlers.
		PoolSize:     50,
		MinIdleConns: 15,
	})

	cache = NewRedisCache(client, 15, 3000)
}

// GetCache returns the initialized cache instance. The concrete type is
// returned so callers can pick the interface view they need.
func GetCache() *RedisCache {
	return cache
}
