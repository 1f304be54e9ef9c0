package middleware

import (
	"net/http"
	"strings"

	"gemstore_server/internal/model"
	"gemstore_server/pkg/errorx"
	"gemstore_server/pkg/util/jwt"

	"github.com/gin-gonic/gin"
)

// 上下文键
const (
	CtxUserID  = "user_id"
	CtxIsAdmin = "is_admin"
)

// ExtractToken 依次尝试 Authorization Bearer、access_token Cookie、token 查询参数
// 浏览器 WebSocket 无法设置请求头，因此需要后两种方式
func ExtractToken(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if cookie, err := c.Cookie("access_token"); err == nil && cookie != "" {
		return cookie
	}
	return c.Query("token")
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"code": errorx.CodeUnauthorized,
		"msg":  msg,
		"data": nil,
	})
}

// parseAccessToken 返回 Access Token 的身份，失败时给出提示语
func parseAccessToken(token string) (*jwt.Claims, string) {
	claims, err := jwt.ParseToken(token)
	if err != nil {
		return nil, "Token 已过期或无效，请重新登录"
	}
	if claims.Subject != jwt.SubjectAccessToken {
		return nil, "请使用 Access Token 访问此接口"
	}
	return claims, ""
}

// JWTAuth JWT 认证中间件
// 验证 Access Token 并将用户信息存入上下文
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ExtractToken(c)
		if token == "" {
			abortUnauthorized(c, "请先登录")
			return
		}
		claims, msg := parseAccessToken(token)
		if claims == nil {
			abortUnauthorized(c, msg)
			return
		}
		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxIsAdmin, claims.IsAdmin)
		c.Next()
	}
}

// OptionalAuth 有合法 Token 时写入身份，否则匿名放行
// 用于 WebSocket 握手：匿名连接可以建立，但 auth 会失败
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := ExtractToken(c); token != "" {
			if claims, _ := parseAccessToken(token); claims != nil {
				c.Set(CtxUserID, claims.UserID)
				c.Set(CtxIsAdmin, claims.IsAdmin)
			}
		}
		c.Next()
	}
}

// AdminOnly 仅管理员可访问，需放在 JWTAuth 之后
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(CtxIsAdmin) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"code": errorx.CodeForbidden,
				"msg":  "需要管理员权限",
				"data": nil,
			})
			return
		}
		c.Next()
	}
}

// CurrentActor 读取上下文中的调用方身份，未认证返回 nil
func CurrentActor(c *gin.Context) *model.Actor {
	v, ok := c.Get(CtxUserID)
	if !ok {
		return nil
	}
	userID, ok := v.(uint)
	if !ok {
		return nil
	}
	return &model.Actor{UserID: userID, IsAdmin: c.GetBool(CtxIsAdmin)}
}
