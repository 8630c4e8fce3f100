package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/d60-Lab/storefront/internal/model"
)

// ProductListParams 商品列表查询参数
type ProductListParams struct {
	CategoryID *uint
	Search     string
	Offset     int
	Limit      int
}

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id uint) error
	GetByID(ctx context.Context, id uint) (*model.Product, error)
	List(ctx context.Context, params ProductListParams) ([]*model.Product, int64, error)

	// DecrementStock 条件原子扣减库存，必须在调用方事务 tx 内执行。
	// 返回 false 表示没有命中满足 stock_quantity >= qty 的行（库存不足）。
	DecrementStock(ctx context.Context, tx *gorm.DB, productID uint, qty int) (bool, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepository{db: db} }

func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepository) Update(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *productRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Product{}, id).Error
}

func (r *productRepository) GetByID(ctx context.Context, id uint) (*model.Product, error) {
	var p model.Product
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) List(ctx context.Context, params ProductListParams) ([]*model.Product, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Product{})
	if params.CategoryID != nil {
		q = q.Where("category_id = ?", *params.CategoryID)
	}
	if s := strings.TrimSpace(params.Search); s != "" {
		// sqlite 的 LIKE 默认不分大小写，postgres 用 LOWER 对齐行为
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(s)+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var res []*model.Product
	err := q.Order("id").Offset(params.Offset).Limit(params.Limit).Find(&res).Error
	return res, total, err
}

// DecrementStock 用单条 UPDATE 完成检查+扣减，避免读后写的丢失更新竞态
func (r *productRepository) DecrementStock(ctx context.Context, tx *gorm.DB, productID uint, qty int) (bool, error) {
	res := tx.WithContext(ctx).Model(&model.Product{}).
		Where("id = ? AND stock_quantity >= ?", productID, qty).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
