package request

// LoginRequest 邮箱密码登录请求
// 使用位置:
//   - handler/auth_handler.go: Login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}
