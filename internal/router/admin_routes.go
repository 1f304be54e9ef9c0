// Package router 提供 HTTP 路由注册
// 本文件定义管理员相关的路由
package router

import (
	"gemstore_server/internal/infrastructure/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterAdminRoutes 注册管理员相关路由
// 这些接口只能由管理员调用
func (rt *Router) RegisterAdminRoutes(rg *gin.RouterGroup) {
	h := rt.handlers.Admin

	adminGroup := rg.Group("/admin", middleware.JWTAuth(), middleware.AdminOnly())
	{
		adminGroup.GET("/messages", h.List)                                     // 全部消息
		adminGroup.GET("/messages/unread", h.Unread)                            // 未读消息
		adminGroup.GET("/orders-with-messages", h.OrdersWithMessages)           // 订单会话列表
		adminGroup.POST("/orders/:orderId/messages", h.CreateForOrder)          // 向订单留言
		adminGroup.POST("/orders/:orderId/messages/mark-read", h.MarkOrderRead) // 批量已读
	}
}
