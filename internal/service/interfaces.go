// Package service 定义业务层接口
// Handler 层只依赖这里的接口
package service

import (
	"context"
	"io"

	"gemstore_server/internal/model"
	"gemstore_server/internal/service/auth"
	"gemstore_server/internal/service/image"
	"gemstore_server/internal/service/messaging"
)

// MessagingService 订单留言业务接口
// 所有操作先鉴权再落库，落库成功后推送
type MessagingService interface {
	// CreateMessage 新建留言
	CreateMessage(ctx context.Context, actor *model.Actor, req messaging.CreateRequest) (*model.Message, error)
	// AdminCreateForOrder 管理员向订单留言
	AdminCreateForOrder(ctx context.Context, actor *model.Actor, orderID uint, req messaging.CreateRequest) (*model.Message, error)
	// Reply 回复留言
	Reply(ctx context.Context, actor *model.Actor, parentID uint, req messaging.ReplyRequest) (*model.Message, error)
	// MarkRead 标记单条已读
	MarkRead(ctx context.Context, actor *model.Actor, messageID uint) (*model.Message, error)
	// MarkOrderRead 批量标记订单已读
	MarkOrderRead(ctx context.Context, actor *model.Actor, orderID uint) (int64, error)
	// AdminMarkOrderRead 管理员批量标记订单已读
	AdminMarkOrderRead(ctx context.Context, actor *model.Actor, orderID uint) (int64, error)
	// GetMessage 消息详情
	GetMessage(ctx context.Context, actor *model.Actor, id uint) (*model.MessageDetail, error)
	// ListMine 调用方全部消息
	ListMine(ctx context.Context, actor *model.Actor) ([]model.Message, error)
	// OrderThread 订单对话
	OrderThread(ctx context.Context, actor *model.Actor, orderID uint) ([]model.Message, error)
	// UnreadCount 未读数量
	UnreadCount(ctx context.Context, actor *model.Actor) (int64, error)
	// Conversations 顾客会话列表
	Conversations(ctx context.Context, actor *model.Actor) ([]model.OrderSummary, error)
	// AdminMessages 管理端消息列表
	AdminMessages(ctx context.Context, actor *model.Actor, userID *uint) ([]model.Message, error)
	// AdminUnread 管理端未读列表
	AdminUnread(ctx context.Context, actor *model.Actor, userID *uint) ([]model.Message, error)
	// OrdersWithMessages 管理端订单会话列表
	OrdersWithMessages(ctx context.Context, actor *model.Actor) ([]model.OrderSummary, error)
	// AuthorizeOrder 校验订单访问权限
	AuthorizeOrder(ctx context.Context, actor *model.Actor, orderID uint) (*model.Order, error)
}

// AuthService 认证业务接口
type AuthService interface {
	// Login 邮箱密码登录
	Login(ctx context.Context, email, password string) (*auth.LoginResult, error)
	// Refresh 刷新 Access Token
	Refresh(ctx context.Context, refreshToken string) (string, error)
}

// ImageService 留言图片业务接口
type ImageService interface {
	// Upload 上传图片
	Upload(ctx context.Context, r io.Reader, size int64) (*image.Uploaded, error)
	// Resolve 解析图片真实地址
	Resolve(ctx context.Context, key string) (string, error)
}
