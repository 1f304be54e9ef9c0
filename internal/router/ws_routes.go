// Package router 提供 HTTP 路由注册
// 本文件定义 WebSocket 路由
package router

import (
	"gemstore_server/internal/infrastructure/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterWebSocketRoutes 注册 WebSocket 路由
// 请求示例: ws://host:port/api/ws?token=<access_token>
func (rt *Router) RegisterWebSocketRoutes(rg *gin.RouterGroup) {
	rg.GET("/ws", middleware.OptionalAuth(), rt.handlers.Ws.Connect)
}
