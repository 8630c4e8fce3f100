package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/storefront/internal/model"
)

type CartRepository interface {
	// AddItem 新增购物车行；已存在时数量累加
	AddItem(ctx context.Context, item *model.CartItem) error
	UpdateQuantity(ctx context.Context, userID, productID uint, qty int) error
	Remove(ctx context.Context, userID, productID uint) error
	Clear(ctx context.Context, userID uint) error
	List(ctx context.Context, userID uint) ([]*model.CartLine, error)
}

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository { return &cartRepository{db: db} }

func (r *cartRepository) AddItem(ctx context.Context, item *model.CartItem) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity": gorm.Expr("cart_items.quantity + excluded.quantity"),
		}),
	}).Create(item).Error
}

func (r *cartRepository) UpdateQuantity(ctx context.Context, userID, productID uint, qty int) error {
	return r.db.WithContext(ctx).Model(&model.CartItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Update("quantity", qty).Error
}

func (r *cartRepository) Remove(ctx context.Context, userID, productID uint) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&model.CartItem{}).Error
}

func (r *cartRepository) Clear(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.CartItem{}).Error
}

// List 购物车行连商品当前名称/价格/库存
func (r *cartRepository) List(ctx context.Context, userID uint) ([]*model.CartLine, error) {
	var res []*model.CartLine
	err := r.db.WithContext(ctx).Model(&model.CartItem{}).
		Select("cart_items.*, products.name AS product_name, products.price AS product_price, products.image_url AS image_url, products.stock_quantity AS stock").
		Joins("JOIN products ON products.id = cart_items.product_id").
		Where("cart_items.user_id = ?", userID).
		Order("cart_items.id").
		Scan(&res).Error
	return res, err
}
