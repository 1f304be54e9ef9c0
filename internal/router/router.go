// Package router 提供 HTTP 路由注册
// 本文件是路由注册的入口，聚合所有子模块的路由
package router

import (
	"gemstore_server/internal/handler"

	"github.com/gin-gonic/gin"
)

// Router 路由管理器，持有所有 Handler
type Router struct {
	handlers *handler.Handlers
}

// NewRouter 创建路由管理器
func NewRouter(handlers *handler.Handlers) *Router {
	return &Router{handlers: handlers}
}

// RegisterRoutes 注册所有路由，统一挂在 /api 下
func (rt *Router) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")

	rt.RegisterAuthRoutes(api)      // 登录与 Token 刷新（公开）
	rt.RegisterPublicRoutes(api)    // 轮询配置、图片访问（公开）
	rt.RegisterWebSocketRoutes(api) // WebSocket（握手时可选认证）
	rt.RegisterMessageRoutes(api)   // 留言（需要认证）
	rt.RegisterAdminRoutes(api)     // 管理端（需要管理员）
}
