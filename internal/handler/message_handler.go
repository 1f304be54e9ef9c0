// Package handler 提供 HTTP 请求处理器
// 本文件处理顾客侧订单留言接口
package handler

import (
	"gemstore_server/internal/dto/request"
	"gemstore_server/internal/dto/respond"
	"gemstore_server/internal/service"
	"gemstore_server/internal/service/messaging"

	"github.com/gin-gonic/gin"
)

// MessageHandler 留言请求处理器
type MessageHandler struct {
	svc          service.MessagingService
	pollInterval int
}

// NewMessageHandler 创建留言处理器
// pollInterval: 客户端轮询兜底间隔（秒）
func NewMessageHandler(svc service.MessagingService, pollInterval int) *MessageHandler {
	return &MessageHandler{svc: svc, pollInterval: pollInterval}
}

// Create 新建留言
// POST /api/messages
// 请求体: request.CreateMessageRequest
// 响应: 201 + model.Message
func (h *MessageHandler) Create(c *gin.Context) {
	var req request.CreateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	msg, err := h.svc.CreateMessage(c.Request.Context(), actor(c), messaging.CreateRequest{
		Subject:  req.Subject,
		Content:  req.Content,
		ImageURL: req.ImageURL,
		OrderID:  req.OrderID,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleCreated(c, msg)
}

// List 调用方全部消息，最新在前
// GET /api/messages
func (h *MessageHandler) List(c *gin.Context) {
	data, err := h.svc.ListMine(c.Request.Context(), actor(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// Get 消息详情（含回复、顾客、订单、父消息）
// GET /api/messages/:id
func (h *MessageHandler) Get(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	data, err := h.svc.GetMessage(c.Request.Context(), actor(c), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// Reply 回复留言
// POST /api/messages/:id/reply
// 请求体: request.ReplyMessageRequest
func (h *MessageHandler) Reply(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var req request.ReplyMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	msg, err := h.svc.Reply(c.Request.Context(), actor(c), id, messaging.ReplyRequest{
		Content:  req.Content,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleCreated(c, msg)
}

// MarkRead 标记单条已读
// PATCH /api/messages/:id/read
func (h *MessageHandler) MarkRead(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	msg, err := h.svc.MarkRead(c.Request.Context(), actor(c), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, msg)
}

// UnreadCount 调用方未读数量
// GET /api/messages/unread/count
func (h *MessageHandler) UnreadCount(c *gin.Context) {
	count, err := h.svc.UnreadCount(c.Request.Context(), actor(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, respond.UnreadCountRespond{Count: count})
}

// MarkOrderRead 批量标记订单中店员发来的消息
// POST /api/messages/mark-read-by-order/:orderId
func (h *MessageHandler) MarkOrderRead(c *gin.Context) {
	orderID, ok := uintParam(c, "orderId")
	if !ok {
		return
	}
	n, err := h.svc.MarkOrderRead(c.Request.Context(), actor(c), orderID)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, respond.MarkReadRespond{OrderID: orderID, Count: n})
}

// OrderThread 订单完整对话，最早在前
// GET /api/orders/:orderId/messages
func (h *MessageHandler) OrderThread(c *gin.Context) {
	orderID, ok := uintParam(c, "orderId")
	if !ok {
		return
	}
	data, err := h.svc.OrderThread(c.Request.Context(), actor(c), orderID)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// Conversations 顾客订单会话列表
// GET /api/messages/conversations
func (h *MessageHandler) Conversations(c *gin.Context) {
	data, err := h.svc.Conversations(c.Request.Context(), actor(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// PollConfig 客户端轮询兜底间隔
// GET /api/messages/poll-config
func (h *MessageHandler) PollConfig(c *gin.Context) {
	HandleSuccess(c, respond.PollConfigRespond{PollIntervalSeconds: h.pollInterval})
}
