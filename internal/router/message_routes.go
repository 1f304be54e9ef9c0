// Package router 提供 HTTP 路由注册
// 本文件定义留言相关的路由
package router

import (
	"gemstore_server/internal/infrastructure/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterMessageRoutes 注册留言相关路由（需要认证）
func (rt *Router) RegisterMessageRoutes(rg *gin.RouterGroup) {
	h := rt.handlers.Message

	messageGroup := rg.Group("/messages", middleware.JWTAuth())
	{
		messageGroup.POST("", h.Create)                                    // 新建留言
		messageGroup.GET("", h.List)                                       // 我的留言
		messageGroup.GET("/unread/count", h.UnreadCount)                   // 未读数量
		messageGroup.GET("/conversations", h.Conversations)                // 订单会话列表
		messageGroup.POST("/mark-read-by-order/:orderId", h.MarkOrderRead) // 批量已读
		messageGroup.POST("/images", rt.handlers.Image.Upload)             // 上传图片
		messageGroup.GET("/:id", h.Get)                                    // 消息详情
		messageGroup.POST("/:id/reply", h.Reply)                           // 回复
		messageGroup.PATCH("/:id/read", h.MarkRead)                        // 单条已读
	}

	orderGroup := rg.Group("/orders", middleware.JWTAuth())
	{
		orderGroup.GET("/:orderId/messages", h.OrderThread) // 订单对话
	}
}
