package repository

import (
	"context"

	"gemstore_server/internal/model"

	"gorm.io/gorm"
)

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单 Repository
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

// FindByID 按 ID 查找订单
func (r *orderRepository) FindByID(ctx context.Context, id uint) (*model.Order, error) {
	var order model.Order
	if err := r.db.WithContext(ctx).First(&order, id).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询订单 id=%d", id)
	}
	return &order, nil
}

// Create 创建订单
func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return wrapDBError(err, "创建订单")
	}
	return nil
}
