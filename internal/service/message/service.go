// Package message 实现订单留言的存取：创建、查询、回复
package message

import (
	"context"
	"fmt"
	"strings"

	"gemstore_server/internal/config"
	"gemstore_server/internal/dao/db/repository"
	"gemstore_server/internal/model"
	"gemstore_server/internal/service/image"
	"gemstore_server/pkg/errorx"

	"go.uber.org/zap"
)

// CreateInput 新消息参数
type CreateInput struct {
	Subject  string
	Content  string
	ImageURL string
	// UserID 会话所属顾客
	UserID  uint
	OrderID *uint
	Author  model.Party
	IsRead  bool
}

// ReplyInput 回复参数，订单、顾客与主题继承自被回复消息
type ReplyInput struct {
	Content  string
	ImageURL string
	Author   model.Party
}

// Service 消息存储服务
type Service struct {
	repos *repository.Repositories
	cfg   config.MessagingConfig
}

// NewMessageService 构造函数
func NewMessageService(repos *repository.Repositories, cfg config.MessagingConfig) *Service {
	return &Service{repos: repos, cfg: cfg}
}

// CreateMessage 写入新消息，ID 与创建时间由存储层分配
func (s *Service) CreateMessage(ctx context.Context, in CreateInput) (*model.Message, error) {
	if err := validateBody(in.Content, in.ImageURL); err != nil {
		return nil, err
	}

	subject := strings.TrimSpace(in.Subject)
	if in.OrderID != nil {
		order, err := s.repos.Order.FindByID(ctx, *in.OrderID)
		if err != nil {
			return nil, storeError(err, "订单不存在")
		}
		if subject == "" {
			subject = fmt.Sprintf(s.cfg.DefaultSubjectFormat, order.OrderNumber)
		}
	} else if subject == "" {
		subject = s.cfg.GeneralSubject
	}

	msg := &model.Message{
		Subject:     subject,
		Content:     in.Content,
		ImageURL:    in.ImageURL,
		UserID:      in.UserID,
		OrderID:     in.OrderID,
		IsFromAdmin: in.Author.IsStaff(),
		IsRead:      in.IsRead,
	}
	if err := s.repos.Message.Create(ctx, msg); err != nil {
		return nil, storeError(err, "创建消息失败")
	}
	return msg, nil
}

// GetMessage 查询单条消息，并解析回复、顾客、订单与父消息
func (s *Service) GetMessage(ctx context.Context, id uint) (*model.MessageDetail, error) {
	msg, err := s.repos.Message.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "消息不存在")
	}
	detail := &model.MessageDetail{Message: *msg}

	if detail.Replies, err = s.repos.Message.FindReplies(ctx, id); err != nil {
		return nil, storeError(err, "查询回复失败")
	}
	if detail.Replies == nil {
		detail.Replies = []model.Message{}
	}

	if user, err := s.repos.User.FindByID(ctx, msg.UserID); err == nil {
		detail.User = user
	} else if !errorx.IsNotFound(err) {
		return nil, storeError(err, "查询用户失败")
	}
	if msg.OrderID != nil {
		if order, err := s.repos.Order.FindByID(ctx, *msg.OrderID); err == nil {
			detail.Order = order
		} else if !errorx.IsNotFound(err) {
			return nil, storeError(err, "查询订单失败")
		}
	}
	if msg.ParentID != nil {
		if parent, err := s.repos.Message.FindByID(ctx, *msg.ParentID); err == nil {
			detail.Parent = parent
		} else if !errorx.IsNotFound(err) {
			return nil, storeError(err, "查询父消息失败")
		}
	}
	return detail, nil
}

// FindMessage 只查消息本身
func (s *Service) FindMessage(ctx context.Context, id uint) (*model.Message, error) {
	msg, err := s.repos.Message.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "消息不存在")
	}
	return msg, nil
}

// GetMessagesForUser 顾客会话中的全部消息（含店员回复），最新在前
func (s *Service) GetMessagesForUser(ctx context.Context, userID uint) ([]model.Message, error) {
	messages, err := s.repos.Message.FindByUserID(ctx, userID)
	if err != nil {
		return nil, storeError(err, "查询消息失败")
	}
	return nonNil(messages), nil
}

// GetMessagesForOrder 订单下的全部消息，最早在前
func (s *Service) GetMessagesForOrder(ctx context.Context, orderID uint) ([]model.Message, error) {
	messages, err := s.repos.Message.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, storeError(err, "查询消息失败")
	}
	return nonNil(messages), nil
}

// ReplyToMessage 回复消息
// 回复挂在顶层消息下（只有一层），继承订单、顾客与主题
func (s *Service) ReplyToMessage(ctx context.Context, parentID uint, in ReplyInput) (*model.Message, error) {
	if err := validateBody(in.Content, in.ImageURL); err != nil {
		return nil, err
	}
	parent, err := s.repos.Message.FindByID(ctx, parentID)
	if err != nil {
		return nil, storeError(err, "原消息不存在")
	}
	if parent.ParentID != nil {
		if parent, err = s.repos.Message.FindByID(ctx, *parent.ParentID); err != nil {
			return nil, storeError(err, "原消息不存在")
		}
	}

	rootID := parent.ID
	msg := &model.Message{
		Subject:     s.replySubject(parent.Subject),
		Content:     in.Content,
		ImageURL:    in.ImageURL,
		UserID:      parent.UserID,
		OrderID:     parent.OrderID,
		ParentID:    &rootID,
		IsFromAdmin: in.Author.IsStaff(),
	}
	if err := s.repos.Message.Create(ctx, msg); err != nil {
		return nil, storeError(err, "回复失败")
	}
	return msg, nil
}

// GetAllMessages 全部消息，可按顾客过滤，最新在前
func (s *Service) GetAllMessages(ctx context.Context, userID *uint) ([]model.Message, error) {
	messages, err := s.repos.Message.FindAll(ctx, userID)
	if err != nil {
		return nil, storeError(err, "查询消息失败")
	}
	return nonNil(messages), nil
}

// GetUnreadMessages reader 尚未读到的消息（对方发出且未读）
func (s *Service) GetUnreadMessages(ctx context.Context, reader model.Party, userID *uint) ([]model.Message, error) {
	messages, err := s.repos.Message.FindUnread(ctx, reader.Counterpart(), userID)
	if err != nil {
		return nil, storeError(err, "查询未读消息失败")
	}
	return nonNil(messages), nil
}

// CountUnread reader 的未读数量
func (s *Service) CountUnread(ctx context.Context, reader model.Party, userID *uint) (int64, error) {
	count, err := s.repos.Message.CountUnread(ctx, reader.Counterpart(), userID)
	if err != nil {
		return 0, storeError(err, "统计未读消息失败")
	}
	return count, nil
}

// replySubject 加上回复前缀，已有前缀时不重复
func (s *Service) replySubject(subject string) string {
	prefix := s.cfg.ReplySubjectPrefix
	if prefix == "" || strings.HasPrefix(subject, prefix) {
		return subject
	}
	return prefix + subject
}

func validateBody(content, imageURL string) error {
	if strings.TrimSpace(content) == "" && strings.TrimSpace(imageURL) == "" {
		return errorx.New(errorx.CodeInvalidParam, "content: 内容不能为空")
	}
	if imageURL != "" && !image.ValidURL(imageURL) {
		return errorx.New(errorx.CodeInvalidParam, "imageUrl: 只能使用上传接口返回的图片地址")
	}
	return nil
}

// storeError NotFound 原样上抛（替换提示语），其余错误记录日志后返回服务繁忙
func storeError(err error, notFoundMsg string) error {
	if errorx.IsNotFound(err) {
		return errorx.Wrap(err, errorx.CodeNotFound, notFoundMsg)
	}
	zap.L().Error("message store error", zap.Error(err))
	return errorx.ErrServerBusy
}

func nonNil(messages []model.Message) []model.Message {
	if messages == nil {
		return []model.Message{}
	}
	return messages
}
