// Package router 提供 HTTP 路由注册
// 本文件定义无需认证的路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterPublicRoutes 注册公开路由
// 图片键为随机 UUID，<img> 标签无法携带 Authorization 头
func (rt *Router) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/messages/poll-config", rt.handlers.Message.PollConfig)
	rg.GET("/messages/images/*key", rt.handlers.Image.Get)
}
