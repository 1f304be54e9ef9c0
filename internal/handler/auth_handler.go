// Package handler 提供 HTTP 请求处理器
// 本文件处理认证相关的 API 请求
package handler

import (
	"gemstore_server/internal/dto/request"
	"gemstore_server/internal/dto/respond"
	"gemstore_server/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler 认证处理器
type AuthHandler struct {
	svc service.AuthService
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(svc service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Login 邮箱密码登录
// POST /api/auth/login
// 响应: auth.LoginResult (用户信息 + 双 Token)
func (h *AuthHandler) Login(c *gin.Context) {
	var req request.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// Refresh 刷新 Access Token
// POST /api/auth/refresh
//
// 单点互踢:
//   - 登录时在 Redis 中记录最新的 Token ID
//   - 其他设备登录会覆盖旧 ID，旧 Refresh Token 随之失效
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req request.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	token, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, respond.RefreshTokenRespond{AccessToken: token})
}
