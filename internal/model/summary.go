package model

import "time"

// OrderSummary 订单会话摘要（查询派生，不落库）
type OrderSummary struct {
	OrderID     uint      `json:"orderId"`
	OrderNumber string    `json:"orderNumber"`
	UserID      uint      `json:"userId"`
	Date        time.Time `json:"date"`
	UnreadCount int64     `json:"unreadCount"`
	LastMessage *Message  `json:"lastMessage,omitempty"`
}

// MessageDetail 单条消息详情，附带回复、作者、订单与父消息
type MessageDetail struct {
	Message
	Replies []Message `json:"replies"`
	User    *UserInfo `json:"user,omitempty"`
	Order   *Order    `json:"order,omitempty"`
	Parent  *Message  `json:"parent,omitempty"`
}
