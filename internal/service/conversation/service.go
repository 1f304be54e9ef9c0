// Package conversation 汇总订单维度的会话摘要，供列表页使用
package conversation

import (
	"context"
	"sort"

	"gemstore_server/internal/dao/db/repository"
	"gemstore_server/internal/model"
	"gemstore_server/pkg/errorx"

	"go.uber.org/zap"
)

// Service 订单会话汇总服务
type Service struct {
	repos *repository.Repositories
}

// NewConversationService 构造函数
func NewConversationService(repos *repository.Repositories) *Service {
	return &Service{repos: repos}
}

// GetOrdersWithMessages 管理端：所有有消息的订单
// unreadCount 为顾客发出且未读的条数，结果按订单 ID 升序
func (s *Service) GetOrdersWithMessages(ctx context.Context) ([]model.OrderSummary, error) {
	orderIDs, err := s.repos.Message.DistinctOrderIDs(ctx)
	if err != nil {
		zap.L().Error("distinct order ids error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	summaries := make([]model.OrderSummary, 0, len(orderIDs))
	for _, orderID := range orderIDs {
		order, err := s.repos.Order.FindByID(ctx, orderID)
		if err != nil {
			if errorx.IsNotFound(err) {
				zap.L().Warn("messages reference missing order", zap.Uint("order_id", orderID))
				continue
			}
			zap.L().Error("find order error", zap.Uint("order_id", orderID), zap.Error(err))
			return nil, errorx.ErrServerBusy
		}

		unread, err := s.repos.Message.CountUnreadByOrder(ctx, orderID, model.PartyCustomer)
		if err != nil {
			zap.L().Error("count unread error", zap.Uint("order_id", orderID), zap.Error(err))
			return nil, errorx.ErrServerBusy
		}

		summary := model.OrderSummary{
			OrderID:     order.ID,
			OrderNumber: order.OrderNumber,
			UserID:      order.UserID,
			Date:        order.CreatedAt,
			UnreadCount: unread,
		}
		latest, err := s.repos.Message.LatestByOrder(ctx, orderID)
		switch {
		case err == nil:
			summary.Date = latest.CreatedAt
			summary.LastMessage = latest
		case !errorx.IsNotFound(err):
			zap.L().Error("latest message error", zap.Uint("order_id", orderID), zap.Error(err))
			return nil, errorx.ErrServerBusy
		}
		summaries = append(summaries, summary)
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].OrderID < summaries[j].OrderID
	})
	return summaries, nil
}

// GetUserConversations 顾客端：按订单分组自己的消息
// unreadCount 为店员发出且未读的条数，最近活跃的订单在前
func (s *Service) GetUserConversations(ctx context.Context, userID uint) ([]model.OrderSummary, error) {
	// 最新在前，每组第一条即最新消息
	messages, err := s.repos.Message.FindByUserID(ctx, userID)
	if err != nil {
		zap.L().Error("find user messages error", zap.Uint("user_id", userID), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	byOrder := make(map[uint]*model.OrderSummary)
	var orderIDs []uint
	for i := range messages {
		msg := &messages[i]
		if msg.OrderID == nil {
			continue
		}
		summary, ok := byOrder[*msg.OrderID]
		if !ok {
			summary = &model.OrderSummary{
				OrderID:     *msg.OrderID,
				UserID:      userID,
				Date:        msg.CreatedAt,
				LastMessage: msg,
			}
			byOrder[*msg.OrderID] = summary
			orderIDs = append(orderIDs, *msg.OrderID)
		}
		if msg.IsFromAdmin && !msg.IsRead {
			summary.UnreadCount++
		}
	}

	summaries := make([]model.OrderSummary, 0, len(orderIDs))
	for _, orderID := range orderIDs {
		order, err := s.repos.Order.FindByID(ctx, orderID)
		if err != nil {
			if errorx.IsNotFound(err) {
				continue
			}
			zap.L().Error("find order error", zap.Uint("order_id", orderID), zap.Error(err))
			return nil, errorx.ErrServerBusy
		}
		summary := byOrder[orderID]
		summary.OrderNumber = order.OrderNumber
		summaries = append(summaries, *summary)
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].Date.After(summaries[j].Date)
	})
	return summaries, nil
}
