// Package redis 定义缓存服务接口与 Redis 实现
// Service 层依赖接口而非具体 Redis 实现
package redis

import (
	"context"
	"time"
)

// CacheService 缓存服务接口
type CacheService interface {
	// Set 设置键值对并指定过期时间
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	// Get 获取键对应的值（键不存在返回空字符串和 nil）
	Get(ctx context.Context, key string) (string, error)
	// SubmitTask 提交异步缓存任务，回写缓存不占用请求路径
	SubmitTask(action func())
}
