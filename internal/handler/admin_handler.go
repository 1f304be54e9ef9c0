// Package handler 提供 HTTP 请求处理器
// 本文件处理管理端订单留言接口，路由组已挂载 AdminOnly
package handler

import (
	"gemstore_server/internal/dto/request"
	"gemstore_server/internal/dto/respond"
	"gemstore_server/internal/service"
	"gemstore_server/internal/service/messaging"

	"github.com/gin-gonic/gin"
)

// AdminHandler 管理端留言处理器
type AdminHandler struct {
	svc service.MessagingService
}

// NewAdminHandler 创建管理端处理器
func NewAdminHandler(svc service.MessagingService) *AdminHandler {
	return &AdminHandler{svc: svc}
}

// List 全部消息，可按顾客过滤
// GET /api/admin/messages?userId=
func (h *AdminHandler) List(c *gin.Context) {
	var q request.AdminMessageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.svc.AdminMessages(c.Request.Context(), actor(c), q.UserID)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// Unread 顾客发出且未读的消息
// GET /api/admin/messages/unread?userId=
func (h *AdminHandler) Unread(c *gin.Context) {
	var q request.AdminMessageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.svc.AdminUnread(c.Request.Context(), actor(c), q.UserID)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// OrdersWithMessages 有消息的订单及未读数，按订单 ID 升序
// GET /api/admin/orders-with-messages
func (h *AdminHandler) OrdersWithMessages(c *gin.Context) {
	data, err := h.svc.OrdersWithMessages(c.Request.Context(), actor(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// CreateForOrder 向订单发送店员消息，userId 记为订单所属顾客
// POST /api/admin/orders/:orderId/messages
func (h *AdminHandler) CreateForOrder(c *gin.Context) {
	orderID, ok := uintParam(c, "orderId")
	if !ok {
		return
	}
	var req request.CreateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	msg, err := h.svc.AdminCreateForOrder(c.Request.Context(), actor(c), orderID, messaging.CreateRequest{
		Subject:  req.Subject,
		Content:  req.Content,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleCreated(c, msg)
}

// MarkOrderRead 批量标记订单中顾客发来的消息
// POST /api/admin/orders/:orderId/messages/mark-read
func (h *AdminHandler) MarkOrderRead(c *gin.Context) {
	orderID, ok := uintParam(c, "orderId")
	if !ok {
		return
	}
	n, err := h.svc.AdminMarkOrderRead(c.Request.Context(), actor(c), orderID)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, respond.MarkReadRespond{OrderID: orderID, Count: n})
}
