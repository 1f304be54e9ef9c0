// server.go
// 核心职责：按运行模式组装订阅代理，统一管理生命周期
package chat

import (
	"context"

	myconfig "gemstore_server/internal/config"

	"go.uber.org/zap"
)

// 运行模式
const (
	ModeChannel = "channel"
	ModeKafka   = "kafka"
)

// ChatServer 聊天服务器聚合结构
type ChatServer struct {
	// Broker 根据配置为 LocalBroker 或 KafkaBroker
	Broker Broker
	mode   string
	cancel context.CancelFunc
	done   chan struct{}
}

// NewChatServer 根据 messageMode 选择代理实现
func NewChatServer(cfg myconfig.KafkaConfig) *ChatServer {
	cs := &ChatServer{mode: cfg.MessageMode, done: make(chan struct{})}
	if cfg.MessageMode == ModeKafka {
		cs.Broker = NewKafkaBroker(NewKafkaClient(cfg))
	} else {
		cs.mode = ModeChannel
		cs.Broker = NewLocalBroker()
	}
	return cs
}

// Mode 当前运行模式
func (cs *ChatServer) Mode() string {
	return cs.mode
}

// Start 在后台启动代理循环
func (cs *ChatServer) Start(ctx context.Context) {
	ctx, cs.cancel = context.WithCancel(ctx)
	go func() {
		defer close(cs.done)
		defer func() {
			if r := recover(); r != nil {
				zap.L().Error("chat broker panic", zap.Any("recover", r))
			}
		}()
		if err := cs.Broker.Start(ctx); err != nil {
			zap.L().Error("chat broker stopped", zap.Error(err))
		}
	}()
	zap.L().Info("chat server started", zap.String("mode", cs.mode))
}

// Close 停止后台循环并释放代理资源
func (cs *ChatServer) Close() {
	if cs.cancel != nil {
		cs.cancel()
	}
	if err := cs.Broker.Close(); err != nil {
		zap.L().Error("close chat broker", zap.Error(err))
	}
	if cs.cancel != nil {
		<-cs.done
	}
}
