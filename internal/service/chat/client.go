package chat

import (
	"sync"

	"gemstore_server/internal/model"
	"gemstore_server/pkg/constants"
)

// Client 代理持有的连接句柄，与传输层解耦
// 写协程从 Outbound 读取并写到 WebSocket；Send 从不阻塞
type Client struct {
	ID string
	// Identity 握手时由 JWT 校验得到的身份，未携带令牌时为空
	Identity *model.Actor

	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

// NewClient 创建连接句柄
func NewClient(id string, identity *model.Actor) *Client {
	return &Client{
		ID:       id,
		Identity: identity,
		send:     make(chan []byte, constants.CHANNEL_SIZE),
		done:     make(chan struct{}),
	}
}

// Send 投递一帧，连接已关闭或缓冲区满时丢弃并返回 false
func (c *Client) Send(data []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// SendEvent 编码后投递
func (c *Client) SendEvent(event Event) bool {
	data, err := Encode(event)
	if err != nil {
		return false
	}
	return c.Send(data)
}

// Outbound 待写出的帧
func (c *Client) Outbound() <-chan []byte {
	return c.send
}

// Done 连接关闭信号
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Close 标记关闭，可重复调用
func (c *Client) Close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// Closed 是否已关闭
func (c *Client) Closed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}
