package chat

import (
	"encoding/json"

	"gemstore_server/internal/model"
)

// 事件类型
const (
	EventWelcome      = "welcome"
	EventAuthResponse = "auth_response"
	EventHistory      = "history"
	EventNewMessage   = "new_message"
	EventMessageRead  = "message_read"
	EventMessagesRead = "messages_read"
	EventError        = "error"
)

// Event 服务端推送给客户端的事件，编码为 JSON 文本帧
type Event interface {
	EventType() string
}

// WelcomeEvent 连接建立后主动发送
type WelcomeEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	// PollIntervalSeconds 客户端轮询兜底间隔
	PollIntervalSeconds int `json:"pollIntervalSeconds"`
}

// AuthResponseEvent auth 结果
type AuthResponseEvent struct {
	Type    string `json:"type"`
	Success bool   `json:"success"`
	UserID  uint   `json:"userId,omitempty"`
	IsAdmin bool   `json:"isAdmin,omitempty"`
}

// HistoryEvent 订阅后返回订单完整历史（最早在前）
type HistoryEvent struct {
	Type     string          `json:"type"`
	OrderID  uint            `json:"orderId"`
	Messages []model.Message `json:"messages"`
}

// NewMessageEvent 新消息
type NewMessageEvent struct {
	Type    string         `json:"type"`
	Message *model.Message `json:"message"`
}

// MessageReadEvent 单条已读
type MessageReadEvent struct {
	Type      string `json:"type"`
	MessageID uint   `json:"messageId"`
	OrderID   uint   `json:"orderId"`
}

// MessagesReadEvent 订单批量已读
type MessagesReadEvent struct {
	Type    string `json:"type"`
	OrderID uint   `json:"orderId"`
	// Reader 执行已读的一方：customer / staff
	Reader string `json:"reader"`
	Count  int64  `json:"count"`
}

// ErrorEvent 只回给发起请求的连接
type ErrorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func (WelcomeEvent) EventType() string { return EventWelcome }
func (AuthResponseEvent) EventType() string { return EventAuthResponse }
func (HistoryEvent) EventType() string { return EventHistory }
func (NewMessageEvent) EventType() string { return EventNewMessage }
func (MessageReadEvent) EventType() string { return EventMessageRead }
func (MessagesReadEvent) EventType() string { return EventMessagesRead }
func (ErrorEvent) EventType() string { return EventError }

// NewWelcome 欢迎事件
func NewWelcome(message string, pollIntervalSeconds int) WelcomeEvent {
	return WelcomeEvent{Type: EventWelcome, Message: message, PollIntervalSeconds: pollIntervalSeconds}
}

// NewAuthResponse auth 结果事件
func NewAuthResponse(ack AuthAck) AuthResponseEvent {
	return AuthResponseEvent{Type: EventAuthResponse, Success: ack.Success, UserID: ack.UserID, IsAdmin: ack.IsAdmin}
}

// NewHistory 历史事件
func NewHistory(orderID uint, messages []model.Message) HistoryEvent {
	if messages == nil {
		messages = []model.Message{}
	}
	return HistoryEvent{Type: EventHistory, OrderID: orderID, Messages: messages}
}

// NewNewMessage 新消息事件
func NewNewMessage(msg *model.Message) NewMessageEvent {
	return NewMessageEvent{Type: EventNewMessage, Message: msg}
}

// NewMessageRead 单条已读事件
func NewMessageRead(messageID, orderID uint) MessageReadEvent {
	return MessageReadEvent{Type: EventMessageRead, MessageID: messageID, OrderID: orderID}
}

// NewMessagesRead 批量已读事件
func NewMessagesRead(orderID uint, reader model.Party, count int64) MessagesReadEvent {
	return MessagesReadEvent{Type: EventMessagesRead, OrderID: orderID, Reader: reader.String(), Count: count}
}

// NewError 错误事件
func NewError(message string) ErrorEvent {
	return ErrorEvent{Type: EventError, Message: message}
}

// Encode 编码为 JSON 文本帧
func Encode(event Event) ([]byte, error) {
	return json.Marshal(event)
}
