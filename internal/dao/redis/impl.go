package redis

import (
	"context"
	"errors"
	"sync"
	"time"

	"gemstore_server/pkg/errorx"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RedisCache Redis 缓存实现，附带执行异步回写的 Worker Pool
type RedisCache struct {
	client    *redis.Client
	taskChan  chan func()
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewRedisCache 创建 Redis 缓存实例并启动 Worker Pool
func NewRedisCache(client *redis.Client, workerNum, taskChanSize int) *RedisCache {
	rc := &RedisCache{
		client:   client,
		taskChan: make(chan func(), taskChanSize),
	}
	for i := 0; i < workerNum; i++ {
		rc.wg.Add(1)
		go rc.startWorker()
	}
	zap.L().Info("Redis Cache Workers started", zap.Int("workers", workerNum), zap.Int("buffer", taskChanSize))
	return rc
}

// startWorker 单个 Worker 消费循环，panic 后重启
func (r *RedisCache) startWorker() {
	defer r.wg.Done()
	for {
		if r.runWorker() {
			return
		}
	}
}

// runWorker 返回 true 表示任务通道已关闭
func (r *RedisCache) runWorker() (closed bool) {
	defer func() {
		if rec := recover(); rec != nil {
			zap.L().Error("Redis Worker panic", zap.Any("recover", rec))
			closed = false
		}
	}()
	for task := range r.taskChan {
		if task != nil {
			task()
		}
	}
	return true
}

// SubmitTask 提交异步任务，通道满时降级为同步执行
func (r *RedisCache) SubmitTask(action func()) {
	select {
	case r.taskChan <- action:
	default:
		zap.L().Warn("Redis cache task channel full, executing synchronously")
		action()
	}
}

// Set 设置键值对并指定过期时间
func (r *RedisCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return errorx.Wrapf(err, errorx.CodeCacheError, "redis set key %s", key)
	}
	return nil
}

// Get 获取键对应的值（键不存在返回空字符串和 nil）
func (r *RedisCache) Get(ctx context.Context, key string) (string, error) {
	value, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", errorx.Wrapf(err, errorx.CodeCacheError, "redis get key %s", key)
	}
	return value, nil
}

// Close 停止 Worker 并关闭客户端，已提交的任务会先执行完
func (r *RedisCache) Close() error {
	var err error
	r.closeOnce.Do(func() {
		close(r.taskChan)
		r.wg.Wait()
		err = r.client.Close()
	})
	return err
}
