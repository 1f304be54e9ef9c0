package websocket

import (
	"time"

	"gemstore_server/internal/service/chat"
	"gemstore_server/pkg/constants"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	pongWait     = 60 * time.Second
	pingPeriod   = pongWait * 9 / 10
	maxFrameSize = 64 << 10
)

// UserConn 一条浏览器与服务端之间的 WebSocket 连接
// 读协程处理客户端事件，写协程把 Client 的待发帧写出
type UserConn struct {
	Conn   *websocket.Conn
	Client *chat.Client
}

func newUserConn(conn *websocket.Conn, client *chat.Client) *UserConn {
	return &UserConn{Conn: conn, Client: client}
}

// Read 读取客户端帧并交给 handle，连接出错即返回
func (c *UserConn) Read(handle func(frame []byte)) {
	c.Conn.SetReadLimit(maxFrameSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frame, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				zap.L().Warn("ws read error", zap.String("client_id", c.Client.ID), zap.Error(err))
			}
			return
		}
		handle(frame)
	}
}

// Write 把待发帧写到 WebSocket，并定期发送 ping
func (c *UserConn) Write() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()

	writeWait := time.Duration(constants.WS_WRITE_WAIT_SEC) * time.Second
	for {
		select {
		case frame := <-c.Client.Outbound():
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				zap.L().Warn("ws write error", zap.String("client_id", c.Client.ID), zap.Error(err))
				c.Client.Close()
				return
			}
		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.Client.Close()
				return
			}
		case <-c.Client.Done():
			_ = c.Conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return
		}
	}
}
