package repository

import (
	"context"

	"gemstore_server/internal/model"

	"gorm.io/gorm"
)

const (
	orderOldestFirst = "created_at ASC, id ASC"
	orderNewestFirst = "created_at DESC, id DESC"
)

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository 创建消息 Repository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

// Create 创建消息
func (r *messageRepository) Create(ctx context.Context, msg *model.Message) error {
	if err := r.db.WithContext(ctx).Create(msg).Error; err != nil {
		return wrapDBError(err, "创建消息")
	}
	return nil
}

// FindByID 按 ID 查找消息
func (r *messageRepository) FindByID(ctx context.Context, id uint) (*model.Message, error) {
	var msg model.Message
	if err := r.db.WithContext(ctx).First(&msg, id).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询消息 id=%d", id)
	}
	return &msg, nil
}

// FindReplies 查找回复
func (r *messageRepository) FindReplies(ctx context.Context, parentID uint) ([]model.Message, error) {
	var messages []model.Message
	if err := r.db.WithContext(ctx).Where("parent_id = ?", parentID).Order(orderOldestFirst).Find(&messages).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询回复 parent_id=%d", parentID)
	}
	return messages, nil
}

// FindByUserID 按顾客查找消息
func (r *messageRepository) FindByUserID(ctx context.Context, userID uint) ([]model.Message, error) {
	var messages []model.Message
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order(orderNewestFirst).Find(&messages).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询消息 user_id=%d", userID)
	}
	return messages, nil
}

// FindByOrderID 按订单查找消息
func (r *messageRepository) FindByOrderID(ctx context.Context, orderID uint) ([]model.Message, error) {
	var messages []model.Message
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Order(orderOldestFirst).Find(&messages).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询消息 order_id=%d", orderID)
	}
	return messages, nil
}

// FindAll 查找全部消息
func (r *messageRepository) FindAll(ctx context.Context, userID *uint) ([]model.Message, error) {
	var messages []model.Message
	if err := scopeUser(r.db.WithContext(ctx), userID).Order(orderNewestFirst).Find(&messages).Error; err != nil {
		return nil, wrapDBError(err, "查询全部消息")
	}
	return messages, nil
}

// FindUnread 查找未读消息
func (r *messageRepository) FindUnread(ctx context.Context, author model.Party, userID *uint) ([]model.Message, error) {
	var messages []model.Message
	q := scopeUnread(r.db.WithContext(ctx), author)
	if err := scopeUser(q, userID).Order(orderNewestFirst).Find(&messages).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询未读消息 author=%s", author)
	}
	return messages, nil
}

// CountUnread 统计未读数量
func (r *messageRepository) CountUnread(ctx context.Context, author model.Party, userID *uint) (int64, error) {
	var count int64
	q := scopeUnread(r.db.WithContext(ctx).Model(&model.Message{}), author)
	if err := scopeUser(q, userID).Count(&count).Error; err != nil {
		return 0, wrapDBErrorf(err, "统计未读消息 author=%s", author)
	}
	return count, nil
}

// CountUnreadByOrder 统计订单下未读数量
func (r *messageRepository) CountUnreadByOrder(ctx context.Context, orderID uint, author model.Party) (int64, error) {
	var count int64
	q := scopeUnread(r.db.WithContext(ctx).Model(&model.Message{}), author)
	if err := q.Where("order_id = ?", orderID).Count(&count).Error; err != nil {
		return 0, wrapDBErrorf(err, "统计订单未读 order_id=%d", orderID)
	}
	return count, nil
}

// MarkRead 标记单条已读，重复标记不报错
func (r *messageRepository) MarkRead(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Model(&model.Message{}).Where("id = ?", id).Update("is_read", true).Error; err != nil {
		return wrapDBErrorf(err, "标记已读 id=%d", id)
	}
	return nil
}

// MarkReadByOrder 批量标记订单下某一方发出的未读消息
func (r *messageRepository) MarkReadByOrder(ctx context.Context, orderID uint, author model.Party) (int64, error) {
	q := scopeUnread(r.db.WithContext(ctx).Model(&model.Message{}), author)
	res := q.Where("order_id = ?", orderID).Update("is_read", true)
	if res.Error != nil {
		return 0, wrapDBErrorf(res.Error, "批量标记已读 order_id=%d", orderID)
	}
	return res.RowsAffected, nil
}

// DistinctOrderIDs 有消息的订单 ID
func (r *messageRepository) DistinctOrderIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).Model(&model.Message{}).
		Where("order_id IS NOT NULL").
		Distinct().Order("order_id ASC").
		Pluck("order_id", &ids).Error; err != nil {
		return nil, wrapDBError(err, "查询订单列表")
	}
	return ids, nil
}

// LatestByOrder 订单最新消息
func (r *messageRepository) LatestByOrder(ctx context.Context, orderID uint) (*model.Message, error) {
	var msg model.Message
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Order(orderNewestFirst).First(&msg).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询最新消息 order_id=%d", orderID)
	}
	return &msg, nil
}

// scopeUnread 限定作者一方的未读消息
func scopeUnread(q *gorm.DB, author model.Party) *gorm.DB {
	return q.Where("is_from_admin = ? AND is_read = ?", author.IsStaff(), false)
}

// scopeUser 可选的顾客过滤
func scopeUser(q *gorm.DB, userID *uint) *gorm.DB {
	if userID == nil {
		return q
	}
	return q.Where("user_id = ?", *userID)
}
