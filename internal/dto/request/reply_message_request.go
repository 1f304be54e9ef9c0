package request

// ReplyMessageRequest 回复留言请求
// 使用位置:
//   - handler/message_handler.go: Reply
type ReplyMessageRequest struct {
	Content  string `json:"content" binding:"max=5000"`
	ImageURL string `json:"imageUrl" binding:"max=512"`
}
