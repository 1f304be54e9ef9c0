package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gemstore_server/internal/model"
	"gemstore_server/pkg/constants"

	"go.uber.org/zap"
)

// Cache 订单缓存所需的能力（由 Redis 实现）
// Get 在键不存在时返回空字符串和 nil；SubmitTask 异步执行回写
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	SubmitTask(action func())
}

// cacheWriteTimeout 异步回写的超时，脱离请求 ctx
const cacheWriteTimeout = 2 * time.Second

// cachedOrderRepository 订单查询的 cache-aside 包装
// 订单号和归属用户在订单生命周期内不变，缓存不需要主动失效
type cachedOrderRepository struct {
	inner OrderRepository
	cache Cache
	ttl   time.Duration
}

// NewCachedOrderRepository 创建带缓存的订单 Repository
func NewCachedOrderRepository(inner OrderRepository, cache Cache) OrderRepository {
	return &cachedOrderRepository{
		inner: inner,
		cache: cache,
		ttl:   time.Duration(constants.REDIS_TIMEOUT) * time.Minute,
	}
}

func orderCacheKey(id uint) string {
	return fmt.Sprintf("order_info_%d", id)
}

// FindByID 先查缓存，未命中或出错时回源数据库，回写交给 Worker Pool
func (r *cachedOrderRepository) FindByID(ctx context.Context, id uint) (*model.Order, error) {
	key := orderCacheKey(id)
	if cached, err := r.cache.Get(ctx, key); err != nil {
		zap.L().Warn("order cache get error", zap.String("key", key), zap.Error(err))
	} else if cached != "" {
		var order model.Order
		if err := json.Unmarshal([]byte(cached), &order); err == nil {
			return &order, nil
		}
		zap.L().Warn("order cache unmarshal error", zap.String("key", key))
	}

	order, err := r.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(order)
	if err != nil {
		return order, nil
	}
	r.cache.SubmitTask(func() {
		setCtx, cancel := context.WithTimeout(context.Background(), cacheWriteTimeout)
		defer cancel()
		if err := r.cache.Set(setCtx, key, string(data), r.ttl); err != nil {
			zap.L().Warn("order cache set error", zap.String("key", key), zap.Error(err))
		}
	})
	return order, nil
}

// Create 直接写库
func (r *cachedOrderRepository) Create(ctx context.Context, order *model.Order) error {
	return r.inner.Create(ctx, order)
}
