// local_broker.go
// 核心职责：单进程订阅代理
// 所有 HTTP / WebSocket 协程共享同一份注册表，用读写锁保护
package chat

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

type entry struct {
	client *Client
	sub    Subscription
}

// LocalBroker 进程内订阅代理，由组合根创建并注入，不是全局单例
type LocalBroker struct {
	mu      sync.RWMutex
	clients map[string]*entry
}

// NewLocalBroker 创建进程内代理
func NewLocalBroker() *LocalBroker {
	return &LocalBroker{clients: make(map[string]*entry)}
}

// Register 登记新连接
func (b *LocalBroker) Register(client *Client) {
	b.mu.Lock()
	b.clients[client.ID] = &entry{client: client, sub: Subscription{ClientID: client.ID}}
	count := len(b.clients)
	b.mu.Unlock()
	zap.L().Debug("client registered", zap.String("client_id", client.ID), zap.Int("online", count))
}

// Authenticate 绑定身份；连接不存在时失败
func (b *LocalBroker) Authenticate(clientID string, userID uint, isAdmin bool) AuthAck {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.clients[clientID]
	if !ok {
		return AuthAck{}
	}
	uid := userID
	e.sub.UserID = &uid
	e.sub.IsAdmin = isAdmin
	return AuthAck{Success: true, UserID: userID, IsAdmin: isAdmin}
}

// Subscribe 订阅订单，替换原订阅
func (b *LocalBroker) Subscribe(clientID string, orderID uint) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.clients[clientID]
	if !ok {
		return ErrUnknownClient
	}
	if !e.sub.Authenticated() {
		return ErrNotAuthenticated
	}
	oid := orderID
	e.sub.OrderID = &oid
	return nil
}

// Broadcast 编码一次后投递给所有订阅者
func (b *LocalBroker) Broadcast(_ context.Context, orderID uint, event Event) error {
	data, err := Encode(event)
	if err != nil {
		return err
	}
	b.Deliver(orderID, data)
	return nil
}

// Deliver 把已编码的帧投递给订阅 orderID 的连接，返回成功投递数
// 已关闭或缓冲区满的连接直接跳过
func (b *LocalBroker) Deliver(orderID uint, data []byte) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	delivered := 0
	for _, e := range b.clients {
		if e.sub.OrderID == nil || *e.sub.OrderID != orderID {
			continue
		}
		if e.client.Send(data) {
			delivered++
		} else {
			zap.L().Debug("skip stale client", zap.String("client_id", e.client.ID), zap.Uint("order_id", orderID))
		}
	}
	return delivered
}

// Unregister 移除连接
func (b *LocalBroker) Unregister(clientID string) {
	b.mu.Lock()
	delete(b.clients, clientID)
	b.mu.Unlock()
}

// Subscription 查询连接状态（返回副本）
func (b *LocalBroker) Subscription(clientID string) (Subscription, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	e, ok := b.clients[clientID]
	if !ok {
		return Subscription{}, false
	}
	return e.sub, true
}

// Online 当前连接数
func (b *LocalBroker) Online() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}

// Start 单进程模式没有后台循环，阻塞到 ctx 结束
func (b *LocalBroker) Start(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

// Close 关闭所有连接句柄
func (b *LocalBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, e := range b.clients {
		e.client.Close()
		delete(b.clients, id)
	}
	return nil
}
