package redis

import (
	"context"
	"sync/atomic"
	"testing"

	"gemstore_server/internal/config"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDisabledReturnsNil(t *testing.T) {
	cache, err := Init(context.Background(), &config.RedisConfig{Enabled: false})
	require.NoError(t, err)
	assert.Nil(t, cache)
}

func TestSubmitTaskRunsAllTasksBeforeClose(t *testing.T) {
	// 客户端惰性连接，这里只验证 Worker Pool
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	rc := NewRedisCache(client, 2, 1)

	var ran int32
	for i := 0; i < 10; i++ {
		rc.SubmitTask(func() { atomic.AddInt32(&ran, 1) })
	}
	require.NoError(t, rc.Close())
	assert.EqualValues(t, 10, atomic.LoadInt32(&ran))
}

func TestWorkerSurvivesPanic(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	rc := NewRedisCache(client, 1, 4)

	var ran int32
	rc.SubmitTask(func() { panic("boom") })
	rc.SubmitTask(func() { atomic.AddInt32(&ran, 1) })
	require.NoError(t, rc.Close())
	assert.EqualValues(t, 1, atomic.LoadInt32(&ran))
}
