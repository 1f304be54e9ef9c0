package request

// RefreshTokenRequest 刷新 Access Token 请求
// 使用位置:
//   - handler/auth_handler.go: Refresh
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}
