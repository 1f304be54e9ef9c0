// Package chat 实现订单留言的实时推送层
// broker.go
// 核心职责：定义订阅代理接口
// 代理只记录"哪个连接正在看哪个订单"，不持久化任何数据；消息以数据库为准
package chat

import (
	"context"
	"errors"

	"gemstore_server/internal/model"
)

var (
	// ErrUnknownClient 连接不存在（已断开或从未注册）
	ErrUnknownClient = errors.New("unknown client")
	// ErrNotAuthenticated 连接尚未完成 auth
	ErrNotAuthenticated = errors.New("client not authenticated")
)

// Subscription 单个连接的订阅状态
type Subscription struct {
	ClientID string
	// UserID auth 完成前为空
	UserID  *uint
	IsAdmin bool
	// OrderID 当前订阅的订单，未订阅为空
	OrderID *uint
}

// Authenticated 是否已完成 auth
func (s Subscription) Authenticated() bool {
	return s.UserID != nil
}

// Actor 已认证连接的身份
func (s Subscription) Actor() (model.Actor, bool) {
	if s.UserID == nil {
		return model.Actor{}, false
	}
	return model.Actor{UserID: *s.UserID, IsAdmin: s.IsAdmin}, true
}

// AuthAck auth 结果
type AuthAck struct {
	Success bool
	UserID  uint
	IsAdmin bool
}

// Broker 订阅代理接口
// 实现：LocalBroker（单进程），KafkaBroker（多实例经 Kafka 扇出）
type Broker interface {
	// Register 新连接登记为未认证、未订阅
	Register(client *Client)
	// Authenticate 绑定连接身份
	Authenticate(clientID string, userID uint, isAdmin bool) AuthAck
	// Subscribe 订阅订单，替换原有订阅
	Subscribe(clientID string, orderID uint) error
	// Broadcast 推送给所有订阅该订单的连接，尽力而为
	Broadcast(ctx context.Context, orderID uint, event Event) error
	// Unregister 连接断开时移除，不通知其他订阅者
	Unregister(clientID string)
	// Subscription 查询连接当前状态
	Subscription(clientID string) (Subscription, bool)
	// Start 启动后台循环（Kafka 消费），阻塞直到 ctx 取消
	Start(ctx context.Context) error
	// Close 释放资源
	Close() error
}
