package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/storefront/internal/model"
)

// OrderRepository 订单仓储接口（读路径与管理端操作；下单事务在 service 层执行）
type OrderRepository interface {
	// GetByID 根据订单ID查询订单
	GetByID(ctx context.Context, orderID uint) (*model.Order, error)

	// GetItems 查询订单行（连商品名）
	GetItems(ctx context.Context, orderID uint) ([]*model.OrderDetailItem, error)

	// ListByUser 根据用户ID查询订单列表
	ListByUser(ctx context.Context, userID uint, offset, limit int) ([]*model.Order, error)

	// List 管理端订单列表，可按状态过滤
	List(ctx context.Context, status string, offset, limit int) ([]*model.Order, int64, error)

	// UpdateStatus 更新订单状态
	UpdateStatus(ctx context.Context, orderID uint, status string) error

	// SumItems 从订单行重新聚合总价
	SumItems(ctx context.Context, orderID uint) (float64, error)
}

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓储
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) GetByID(ctx context.Context, orderID uint) (*model.Order, error) {
	var order model.Order
	if err := r.db.WithContext(ctx).First(&order, orderID).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetItems(ctx context.Context, orderID uint) ([]*model.OrderDetailItem, error) {
	var items []*model.OrderDetailItem
	err := r.db.WithContext(ctx).Model(&model.OrderItem{}).
		Select("order_items.*, products.name AS product_name").
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("order_items.order_id = ?", orderID).
		Order("order_items.id").
		Scan(&items).Error
	return items, err
}

func (r *orderRepository) ListByUser(ctx context.Context, userID uint, offset, limit int) ([]*model.Order, error) {
	var orders []*model.Order
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) List(ctx context.Context, status string, offset, limit int) ([]*model.Order, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Order{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var orders []*model.Order
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&orders).Error
	return orders, total, err
}

func (r *orderRepository) UpdateStatus(ctx context.Context, orderID uint, status string) error {
	return r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ?", orderID).
		Update("status", status).Error
}

func (r *orderRepository) SumItems(ctx context.Context, orderID uint) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&model.OrderItem{}).
		Select("COALESCE(SUM(price * quantity), 0)").
		Where("order_id = ?", orderID).
		Scan(&total).Error
	return total, err
}
