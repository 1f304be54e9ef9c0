package request

// CreateMessageRequest 新建留言请求
// content 与 imageUrl 至少一个非空，由 Service 层校验
// 使用位置:
//   - handler/message_handler.go: Create
//   - handler/admin_handler.go: CreateForOrder（忽略 orderId，以路径为准）
type CreateMessageRequest struct {
	Subject  string `json:"subject" binding:"max=255"`
	Content  string `json:"content" binding:"max=5000"`
	ImageURL string `json:"imageUrl" binding:"max=512"`
	// OrderID 为空表示一般咨询（仅顾客可用）
	OrderID *uint `json:"orderId" binding:"omitempty,min=1"`
}
