package model

import "time"

// Order 订单（外部协作方，留言模块只读取其归属与订单号）
type Order struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	OrderNumber string    `gorm:"column:order_number;type:varchar(32);uniqueIndex;not null;comment:订单号" json:"orderNumber"`
	UserID      uint      `gorm:"column:user_id;index;not null;comment:下单用户ID" json:"userId"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"createdAt"`
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}

// OwnedBy 订单是否属于该用户
func (o *Order) OwnedBy(userID uint) bool {
	return o.UserID == userID
}

// Actor 已认证的调用方（HTTP 请求或 WebSocket 连接）
type Actor struct {
	UserID  uint `json:"userId"`
	IsAdmin bool `json:"isAdmin"`
}

// Party 调用方在对话中的身份
func (a Actor) Party() Party {
	return PartyOf(a.IsAdmin)
}

// CanAccessOrder 管理员可访问所有订单，顾客只能访问自己的订单
func (a Actor) CanAccessOrder(order *Order) bool {
	return a.IsAdmin || order.OwnedBy(a.UserID)
}
