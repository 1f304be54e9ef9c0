// kafka_client.go
// 核心职责：Kafka 基础设施管理，封装 Writer / Reader 的创建与关闭
package chat

import (
	"context"
	"os"
	"time"

	myconfig "gemstore_server/internal/config"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// eventWriter 生产者最小接口
type eventWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// eventReader 消费者最小接口
type eventReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// KafkaClient Kafka 客户端
type KafkaClient struct {
	Producer eventWriter
	Consumer eventReader
	// InstanceID 本实例标识，也用作消费组，保证每个实例都能收到全部事件
	InstanceID string
}

// NewKafkaClient 根据配置创建 Writer 与 Reader
func NewKafkaClient(cfg myconfig.KafkaConfig) *KafkaClient {
	timeout := cfg.Timeout * time.Second
	if timeout <= 0 {
		timeout = time.Second
	}
	instanceID := resolveInstanceID(cfg.InstanceID)
	return &KafkaClient{
		InstanceID: instanceID,
		Producer: &kafka.Writer{
			Addr:                   kafka.TCP(cfg.HostPort),
			Topic:                  cfg.ChatTopic,
			Balancer:               &kafka.Hash{},
			WriteTimeout:           timeout,
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
		},
		Consumer: kafka.NewReader(kafka.ReaderConfig{
			Brokers:        []string{cfg.HostPort},
			Topic:          cfg.ChatTopic,
			CommitInterval: timeout,
			GroupID:        "gemstore-chat-" + instanceID,
			StartOffset:    kafka.LastOffset,
		}),
	}
}

// resolveInstanceID 配置优先，其次主机名；实例重启后沿用同一消费组
func resolveInstanceID(configured string) string {
	if configured != "" {
		return configured
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	zap.L().Warn("hostname unavailable, using random kafka instance id")
	return uuid.NewString()
}

// Close 关闭 Writer 与 Reader
func (k *KafkaClient) Close() {
	if k.Producer != nil {
		if err := k.Producer.Close(); err != nil {
			zap.L().Error("close kafka producer", zap.Error(err))
		}
	}
	if k.Consumer != nil {
		if err := k.Consumer.Close(); err != nil {
			zap.L().Error("close kafka consumer", zap.Error(err))
		}
	}
}
