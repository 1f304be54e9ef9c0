// Package messaging 把消息存储、已读状态、会话汇总与实时推送绑定为对外操作
// HTTP 与 WebSocket 共用同一套鉴权与"先落库、后广播"流程
package messaging

import (
	"context"

	"gemstore_server/internal/dao/db/repository"
	"gemstore_server/internal/model"
	"gemstore_server/internal/service/chat"
	"gemstore_server/internal/service/conversation"
	"gemstore_server/internal/service/message"
	"gemstore_server/internal/service/readstate"
	"gemstore_server/pkg/errorx"

	"go.uber.org/zap"
)

// Broadcaster 实时推送能力（chat.Broker 的子集）
type Broadcaster interface {
	Broadcast(ctx context.Context, orderID uint, event chat.Event) error
}

// CreateRequest 新建留言
type CreateRequest struct {
	Subject  string
	Content  string
	ImageURL string
	OrderID  *uint
}

// ReplyRequest 回复留言
type ReplyRequest struct {
	Content  string
	ImageURL string
}

// Service 留言网关核心
type Service struct {
	orders        repository.OrderRepository
	store         *message.Service
	reads         *readstate.Service
	conversations *conversation.Service
	broadcaster   Broadcaster
}

// NewMessagingService 构造函数
func NewMessagingService(
	orders repository.OrderRepository,
	store *message.Service,
	reads *readstate.Service,
	conversations *conversation.Service,
	broadcaster Broadcaster,
) *Service {
	return &Service{
		orders:        orders,
		store:         store,
		reads:         reads,
		conversations: conversations,
		broadcaster:   broadcaster,
	}
}

// CreateMessage 新建留言
// 订单留言的 userId 始终是订单所属顾客，店员发出的也一样
func (s *Service) CreateMessage(ctx context.Context, actor *model.Actor, req CreateRequest) (*model.Message, error) {
	if actor == nil {
		return nil, errorx.ErrUnauthorized
	}

	in := message.CreateInput{
		Subject:  req.Subject,
		Content:  req.Content,
		ImageURL: req.ImageURL,
		UserID:   actor.UserID,
		OrderID:  req.OrderID,
		Author:   actor.Party(),
	}
	if req.OrderID != nil {
		order, err := s.AuthorizeOrder(ctx, actor, *req.OrderID)
		if err != nil {
			return nil, err
		}
		in.UserID = order.UserID
	} else if actor.IsAdmin {
		return nil, errorx.New(errorx.CodeInvalidParam, "orderId: 管理员留言必须指定订单")
	}

	msg, err := s.store.CreateMessage(ctx, in)
	if err != nil {
		return nil, err
	}
	s.broadcastNew(ctx, msg)
	return msg, nil
}

// AdminCreateForOrder 管理员向订单发送留言
func (s *Service) AdminCreateForOrder(ctx context.Context, actor *model.Actor, orderID uint, req CreateRequest) (*model.Message, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	req.OrderID = &orderID
	return s.CreateMessage(ctx, actor, req)
}

// Reply 回复留言；顾客只能回复自己订单上的留言
func (s *Service) Reply(ctx context.Context, actor *model.Actor, parentID uint, req ReplyRequest) (*model.Message, error) {
	if actor == nil {
		return nil, errorx.ErrUnauthorized
	}
	parent, err := s.store.FindMessage(ctx, parentID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeMessage(ctx, actor, parent); err != nil {
		return nil, err
	}

	msg, err := s.store.ReplyToMessage(ctx, parentID, message.ReplyInput{
		Content:  req.Content,
		ImageURL: req.ImageURL,
		Author:   actor.Party(),
	})
	if err != nil {
		return nil, err
	}
	s.broadcastNew(ctx, msg)
	return msg, nil
}

// MarkRead 标记单条已读，只有对方可以标记
func (s *Service) MarkRead(ctx context.Context, actor *model.Actor, messageID uint) (*model.Message, error) {
	if actor == nil {
		return nil, errorx.ErrUnauthorized
	}
	msg, err := s.store.FindMessage(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeMessage(ctx, actor, msg); err != nil {
		return nil, err
	}
	if !readstate.CanMark(actor.Party(), msg) {
		return nil, errorx.New(errorx.CodeForbidden, "不能标记自己发出的消息")
	}

	msg, err = s.reads.MarkMessageAsRead(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if msg.OrderID != nil {
		s.broadcast(ctx, *msg.OrderID, chat.NewMessageRead(msg.ID, *msg.OrderID))
	}
	return msg, nil
}

// MarkOrderRead 批量标记订单已读，方向由调用方身份决定
func (s *Service) MarkOrderRead(ctx context.Context, actor *model.Actor, orderID uint) (int64, error) {
	if actor == nil {
		return 0, errorx.ErrUnauthorized
	}
	if _, err := s.AuthorizeOrder(ctx, actor, orderID); err != nil {
		return 0, err
	}
	n, err := s.reads.MarkOrderMessagesAsRead(ctx, orderID, actor.Party())
	if err != nil {
		return 0, err
	}
	s.broadcast(ctx, orderID, chat.NewMessagesRead(orderID, actor.Party(), n))
	return n, nil
}

// AdminMarkOrderRead 管理员批量标记订单已读
func (s *Service) AdminMarkOrderRead(ctx context.Context, actor *model.Actor, orderID uint) (int64, error) {
	if err := requireAdmin(actor); err != nil {
		return 0, err
	}
	return s.MarkOrderRead(ctx, actor, orderID)
}

// GetMessage 单条消息详情；只有所属顾客或管理员可见
func (s *Service) GetMessage(ctx context.Context, actor *model.Actor, id uint) (*model.MessageDetail, error) {
	if actor == nil {
		return nil, errorx.ErrUnauthorized
	}
	detail, err := s.store.GetMessage(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeMessage(ctx, actor, &detail.Message); err != nil {
		return nil, err
	}
	return detail, nil
}

// ListMine 调用方会话中的全部消息，最新在前
func (s *Service) ListMine(ctx context.Context, actor *model.Actor) ([]model.Message, error) {
	if actor == nil {
		return nil, errorx.ErrUnauthorized
	}
	return s.store.GetMessagesForUser(ctx, actor.UserID)
}

// OrderThread 订单完整对话，最早在前
func (s *Service) OrderThread(ctx context.Context, actor *model.Actor, orderID uint) ([]model.Message, error) {
	if actor == nil {
		return nil, errorx.ErrUnauthorized
	}
	if _, err := s.AuthorizeOrder(ctx, actor, orderID); err != nil {
		return nil, err
	}
	return s.store.GetMessagesForOrder(ctx, orderID)
}

// UnreadCount 调用方未读数：顾客统计自己会话中店员发出的未读，管理员统计全部顾客发出的未读
func (s *Service) UnreadCount(ctx context.Context, actor *model.Actor) (int64, error) {
	if actor == nil {
		return 0, errorx.ErrUnauthorized
	}
	if actor.IsAdmin {
		return s.store.CountUnread(ctx, model.PartyStaff, nil)
	}
	return s.store.CountUnread(ctx, model.PartyCustomer, &actor.UserID)
}

// Conversations 顾客的订单会话列表，最近活跃在前
func (s *Service) Conversations(ctx context.Context, actor *model.Actor) ([]model.OrderSummary, error) {
	if actor == nil {
		return nil, errorx.ErrUnauthorized
	}
	return s.conversations.GetUserConversations(ctx, actor.UserID)
}

// AdminMessages 管理端消息列表，可按顾客过滤
func (s *Service) AdminMessages(ctx context.Context, actor *model.Actor, userID *uint) ([]model.Message, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.store.GetAllMessages(ctx, userID)
}

// AdminUnread 管理端未读列表（顾客发出且未读），可按顾客过滤
func (s *Service) AdminUnread(ctx context.Context, actor *model.Actor, userID *uint) ([]model.Message, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.store.GetUnreadMessages(ctx, model.PartyStaff, userID)
}

// OrdersWithMessages 管理端订单会话列表，按订单 ID 升序
func (s *Service) OrdersWithMessages(ctx context.Context, actor *model.Actor) ([]model.OrderSummary, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.conversations.GetOrdersWithMessages(ctx)
}

// AuthorizeOrder 查找订单并校验访问权限：不存在 404，非本人 403
func (s *Service) AuthorizeOrder(ctx context.Context, actor *model.Actor, orderID uint) (*model.Order, error) {
	if actor == nil {
		return nil, errorx.ErrUnauthorized
	}
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.Wrap(err, errorx.CodeNotFound, "订单不存在")
		}
		zap.L().Error("find order error", zap.Uint("order_id", orderID), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	if !actor.CanAccessOrder(order) {
		return nil, errorx.ErrForbidden
	}
	return order, nil
}

// authorizeMessage 管理员可访问任意消息；顾客必须是会话所属顾客，且订单归属本人
func (s *Service) authorizeMessage(ctx context.Context, actor *model.Actor, msg *model.Message) error {
	if actor.IsAdmin {
		return nil
	}
	if msg.UserID != actor.UserID {
		return errorx.ErrForbidden
	}
	if msg.OrderID != nil {
		if _, err := s.AuthorizeOrder(ctx, actor, *msg.OrderID); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) broadcastNew(ctx context.Context, msg *model.Message) {
	if msg.OrderID == nil {
		return
	}
	s.broadcast(ctx, *msg.OrderID, chat.NewNewMessage(msg))
}

// broadcast 推送失败只记录日志，数据已经落库
func (s *Service) broadcast(ctx context.Context, orderID uint, event chat.Event) {
	if s.broadcaster == nil {
		return
	}
	if err := s.broadcaster.Broadcast(ctx, orderID, event); err != nil {
		zap.L().Warn("broadcast failed", zap.Uint("order_id", orderID), zap.String("event", event.EventType()), zap.Error(err))
	}
}

func requireAdmin(actor *model.Actor) error {
	if actor == nil {
		return errorx.ErrUnauthorized
	}
	if !actor.IsAdmin {
		return errorx.ErrForbidden
	}
	return nil
}
