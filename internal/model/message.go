// Package model 定义数据库实体模型
// 本文件定义订单留言模型，用于存储顾客与店员围绕订单的对话
package model

import (
	"time"
)

// Party 对话中的一方：顾客或店员
type Party int8

const (
	// PartyCustomer 下单顾客
	PartyCustomer Party = iota
	// PartyStaff 店铺管理员
	PartyStaff
)

// PartyOf 根据管理员标志得到身份
func PartyOf(isAdmin bool) Party {
	if isAdmin {
		return PartyStaff
	}
	return PartyCustomer
}

// Counterpart 对话的另一方
// 已读状态只能由对方清除：顾客读店员的消息，店员读顾客的消息
func (p Party) Counterpart() Party {
	if p == PartyStaff {
		return PartyCustomer
	}
	return PartyStaff
}

// IsStaff 是否为店员
func (p Party) IsStaff() bool {
	return p == PartyStaff
}

func (p Party) String() string {
	if p == PartyStaff {
		return "staff"
	}
	return "customer"
}

// Message 订单留言
// 对应数据库 message 表
type Message struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// Subject 主题，默认 "Order #<订单号>"，回复为 "Re: <原主题>"
	Subject string `gorm:"column:subject;type:varchar(255);not null;comment:主题" json:"subject"`

	// Content 正文，附带图片时可为空
	Content string `gorm:"column:content;type:TEXT;comment:消息内容" json:"content"`

	// ImageURL 图片地址（S3 对象 key 或本地静态路径）
	ImageURL string `gorm:"column:image_url;type:varchar(512);comment:图片地址" json:"imageUrl,omitempty"`

	// UserID 对话所属顾客
	// 店员发出的消息同样记录顾客 ID，一个顾客 + 一个订单 = 一条会话
	UserID uint `gorm:"column:user_id;index;not null;comment:所属顾客ID" json:"userId"`

	// OrderID 关联订单，一般咨询为空；写入后不再变更
	OrderID *uint `gorm:"column:order_id;index;comment:订单ID" json:"orderId"`

	// ParentID 被回复的消息，只有一层
	ParentID *uint `gorm:"column:parent_id;index;comment:父消息ID" json:"parentId"`

	// IsFromAdmin 是否店员发出，创建后不变
	IsFromAdmin bool `gorm:"column:is_from_admin;not null;default:false;<-:create;comment:是否店员发送" json:"isFromAdmin"`

	// IsRead 对方是否已读
	IsRead bool `gorm:"column:is_read;not null;default:false;index;comment:是否已读" json:"isRead"`

	CreatedAt time.Time `gorm:"column:created_at;index" json:"createdAt"`
}

// TableName 指定表名
func (Message) TableName() string {
	return "message"
}

// Author 消息作者身份
func (m *Message) Author() Party {
	return PartyOf(m.IsFromAdmin)
}

// BelongsToOrder 消息是否属于指定订单
func (m *Message) BelongsToOrder(orderID uint) bool {
	return m.OrderID != nil && *m.OrderID == orderID
}
