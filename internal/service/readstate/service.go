// Package readstate 管理消息的已读状态
// 规则：每一方只能清除对方发来消息的未读标记
package readstate

import (
	"context"

	"gemstore_server/internal/dao/db/repository"
	"gemstore_server/internal/model"
	"gemstore_server/pkg/errorx"

	"go.uber.org/zap"
)

// Service 已读状态服务
type Service struct {
	repos *repository.Repositories
}

// NewReadStateService 构造函数
func NewReadStateService(repos *repository.Repositories) *Service {
	return &Service{repos: repos}
}

// CanMark reader 是否有资格把 msg 标记为已读
func CanMark(reader model.Party, msg *model.Message) bool {
	return msg.Author() == reader.Counterpart()
}

// MarkMessageAsRead 标记单条已读，已读消息重复标记直接成功
func (s *Service) MarkMessageAsRead(ctx context.Context, id uint) (*model.Message, error) {
	msg, err := s.repos.Message.FindByID(ctx, id)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.Wrap(err, errorx.CodeNotFound, "消息不存在")
		}
		zap.L().Error("find message error", zap.Uint("id", id), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	if msg.IsRead {
		return msg, nil
	}
	if err := s.repos.Message.MarkRead(ctx, id); err != nil {
		zap.L().Error("mark message read error", zap.Uint("id", id), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	msg.IsRead = true
	return msg, nil
}

// MarkOrderMessagesAsRead 批量标记订单中对方发来的未读消息
// 顾客阅读时清除店员消息，店员阅读时清除顾客消息；返回本次翻转的条数
func (s *Service) MarkOrderMessagesAsRead(ctx context.Context, orderID uint, reader model.Party) (int64, error) {
	n, err := s.repos.Message.MarkReadByOrder(ctx, orderID, reader.Counterpart())
	if err != nil {
		zap.L().Error("mark order messages read error", zap.Uint("order_id", orderID), zap.Stringer("reader", reader), zap.Error(err))
		return 0, errorx.ErrServerBusy
	}
	return n, nil
}
