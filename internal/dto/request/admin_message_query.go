package request

// AdminMessageQuery 管理端消息列表过滤
// 使用位置:
//   - handler/admin_handler.go: List, Unread
type AdminMessageQuery struct {
	UserID *uint `form:"userId" binding:"omitempty,min=1"`
}
