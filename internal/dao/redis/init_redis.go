package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"gemstore_server/internal/config"

	"github.com/go-redis/redis/v8"
)

// Init 根据配置创建 Redis 客户端与缓存服务
// 未启用 Redis 时返回 nil，调用方据此跳过缓存
func Init(ctx context.Context, cfg *config.RedisConfig) (*RedisCache, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 4
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Host + ":" + strconv.Itoa(cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.Db,
		PoolSize:     50,
		MinIdleConns: workers,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s:%d: %w", cfg.Host, cfg.Port, err)
	}
	return NewRedisCache(client, workers, 1000), nil
}
