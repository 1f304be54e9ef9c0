// Package handler 提供 HTTP 请求处理器
// 本文件定义 Handler 聚合结构和构造函数
package handler

import (
	"gemstore_server/internal/config"
	ws "gemstore_server/internal/gateway/websocket"
	"gemstore_server/internal/service"
)

// Handlers 聚合所有 Handler 实例
// Router 层通过此结构访问各个 Handler
type Handlers struct {
	Message *MessageHandler
	Admin   *AdminHandler
	Auth    *AuthHandler
	Image   *ImageHandler
	Ws      *WsHandler
}

// NewHandlers 创建并注入所有 Handler 实例
func NewHandlers(svc *service.Services, gw *ws.Gateway, cfg config.MessagingConfig) *Handlers {
	return &Handlers{
		Message: NewMessageHandler(svc.Messaging, int(cfg.PollInterval().Seconds())),
		Admin:   NewAdminHandler(svc.Messaging),
		Auth:    NewAuthHandler(svc.Auth),
		Image:   NewImageHandler(svc.Image),
		Ws:      NewWsHandler(gw),
	}
}
