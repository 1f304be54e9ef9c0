// Package repository 定义数据访问层接口和聚合结构
// 采用 Repository 模式将数据访问逻辑与业务逻辑分离
package repository

import (
	"context"

	"gemstore_server/internal/model"

	"gorm.io/gorm"
)

// MessageRepository 订单留言数据访问接口
type MessageRepository interface {
	// Create 写入新消息，ID 与 CreatedAt 由存储层生成
	Create(ctx context.Context, msg *model.Message) error
	// FindByID 按 ID 查找
	FindByID(ctx context.Context, id uint) (*model.Message, error)
	// FindReplies 查找某条消息的回复（按时间正序）
	FindReplies(ctx context.Context, parentID uint) ([]model.Message, error)
	// FindByUserID 顾客的全部会话消息（按时间倒序）
	FindByUserID(ctx context.Context, userID uint) ([]model.Message, error)
	// FindByOrderID 订单下的全部消息（按时间正序）
	FindByOrderID(ctx context.Context, orderID uint) ([]model.Message, error)
	// FindAll 全部消息，可按顾客过滤（按时间倒序）
	FindAll(ctx context.Context, userID *uint) ([]model.Message, error)
	// FindUnread 指定作者一方的未读消息，可按顾客过滤（按时间倒序）
	FindUnread(ctx context.Context, author model.Party, userID *uint) ([]model.Message, error)
	// CountUnread 指定作者一方的未读数量，可按顾客过滤
	CountUnread(ctx context.Context, author model.Party, userID *uint) (int64, error)
	// CountUnreadByOrder 订单下指定作者一方的未读数量
	CountUnreadByOrder(ctx context.Context, orderID uint, author model.Party) (int64, error)
	// MarkRead 标记单条已读
	MarkRead(ctx context.Context, id uint) error
	// MarkReadByOrder 批量标记订单下指定作者一方的未读消息，返回受影响行数
	MarkReadByOrder(ctx context.Context, orderID uint, author model.Party) (int64, error)
	// DistinctOrderIDs 出现过消息的全部订单 ID（升序）
	DistinctOrderIDs(ctx context.Context) ([]uint, error)
	// LatestByOrder 订单下最新一条消息
	LatestByOrder(ctx context.Context, orderID uint) (*model.Message, error)
}

// OrderRepository 订单数据访问接口（只读协作方）
type OrderRepository interface {
	// FindByID 按 ID 查找订单
	FindByID(ctx context.Context, id uint) (*model.Order, error)
	// Create 创建订单（迁移种子数据与测试使用）
	Create(ctx context.Context, order *model.Order) error
}

// UserRepository 用户数据访问接口
type UserRepository interface {
	// FindByID 按 ID 查找用户
	FindByID(ctx context.Context, id uint) (*model.UserInfo, error)
	// FindByEmail 按邮箱查找用户
	FindByEmail(ctx context.Context, email string) (*model.UserInfo, error)
	// Create 创建用户
	Create(ctx context.Context, user *model.UserInfo) error
}

// Repositories 聚合所有 Repository 实例
// 作为依赖注入的入口，Service 层通过此结构访问数据层
type Repositories struct {
	Message MessageRepository
	Order   OrderRepository
	User    UserRepository
}

// NewRepositories 创建所有 Repository 实例
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Message: NewMessageRepository(db),
		Order:   NewOrderRepository(db),
		User:    NewUserRepository(db),
	}
}

// WithOrderCache 为订单查询加一层缓存（订单号与归属不会变化）
func (r *Repositories) WithOrderCache(cache Cache) *Repositories {
	if cache != nil {
		r.Order = NewCachedOrderRepository(r.Order, cache)
	}
	return r
}

