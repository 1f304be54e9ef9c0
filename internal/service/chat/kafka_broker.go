// kafka_broker.go
// 核心职责：多实例模式下的订阅代理
// 本机连接仍由 LocalBroker 管理；广播写入 Kafka，各实例消费后投递给本机订阅者
package chat

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// envelope Kafka 消息体
type envelope struct {
	OrderID uint            `json:"orderId"`
	Event   json.RawMessage `json:"event"`
}

// readRetryBackoff 读取失败后的重试间隔
const readRetryBackoff = time.Second

// KafkaBroker 基于 Kafka 扇出的订阅代理
type KafkaBroker struct {
	*LocalBroker
	client       *KafkaClient
	retryBackoff time.Duration
}

// NewKafkaBroker 创建 Kafka 代理
func NewKafkaBroker(client *KafkaClient) *KafkaBroker {
	return &KafkaBroker{LocalBroker: NewLocalBroker(), client: client, retryBackoff: readRetryBackoff}
}

// Broadcast 发布到 Kafka；发布失败时退化为只推送本机订阅者
func (b *KafkaBroker) Broadcast(ctx context.Context, orderID uint, event Event) error {
	data, err := Encode(event)
	if err != nil {
		return err
	}
	value, err := json.Marshal(envelope{OrderID: orderID, Event: data})
	if err != nil {
		return err
	}
	err = b.client.Producer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatUint(uint64(orderID), 10)),
		Value: value,
	})
	if err != nil {
		zap.L().Error("kafka publish failed, delivering locally", zap.Uint("order_id", orderID), zap.Error(err))
		b.LocalBroker.Deliver(orderID, data)
		return err
	}
	return nil
}

// Start 消费循环，直到 ctx 取消或 Reader 被关闭
// 其他读取错误只记录日志，等待 retryBackoff 后继续消费
func (b *KafkaBroker) Start(ctx context.Context) error {
	zap.L().Info("kafka broker consuming", zap.String("instance", b.client.InstanceID))
	for {
		msg, err := b.client.Consumer.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			// Reader 被关闭时返回 io.EOF
			if errors.Is(err, io.EOF) {
				return nil
			}
			zap.L().Error("kafka read failed, retrying", zap.Duration("backoff", b.retryBackoff), zap.Error(err))
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(b.retryBackoff):
			}
			continue
		}
		b.handle(msg)
	}
}

// handle 解析信封并投递给本机订阅者
func (b *KafkaBroker) handle(msg kafka.Message) {
	var env envelope
	if err := json.Unmarshal(msg.Value, &env); err != nil {
		zap.L().Warn("drop malformed kafka event", zap.Int64("offset", msg.Offset), zap.Error(err))
		return
	}
	n := b.LocalBroker.Deliver(env.OrderID, env.Event)
	zap.L().Debug("kafka event delivered", zap.Uint("order_id", env.OrderID), zap.Int("clients", n))
}

// Close 关闭本机连接与 Kafka 资源
func (b *KafkaBroker) Close() error {
	err := b.LocalBroker.Close()
	b.client.Close()
	return err
}
