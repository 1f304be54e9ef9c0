// Package handler 提供 HTTP 请求处理器
// 本文件处理 WebSocket 连接
package handler

import (
	ws "gemstore_server/internal/gateway/websocket"

	"github.com/gin-gonic/gin"
)

// WsHandler WebSocket 处理器
type WsHandler struct {
	gw *ws.Gateway
}

// NewWsHandler 创建 WebSocket 处理器
func NewWsHandler(gw *ws.Gateway) *WsHandler {
	return &WsHandler{gw: gw}
}

// Connect 升级为 WebSocket 连接
// GET /api/ws
// 身份来自握手时携带的 Access Token（Header / Cookie / token 查询参数），可为空
// 连接建立后:
//   - 服务端推送 welcome
//   - auth 确认身份，subscribe 订阅订单并返回 history
//   - message / mark_read 落库后向订单订阅者推送
func (h *WsHandler) Connect(c *gin.Context) {
	h.gw.Serve(c.Writer, c.Request, actor(c))
}
