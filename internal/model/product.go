package model

import "time"

// Product 商品；stock_quantity 只允许下单事务与管理端改库存两条路径修改
type Product struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	Name          string    `json:"name" gorm:"type:varchar(255);not null;index:idx_product_name"`
	Description   string    `json:"description" gorm:"type:text"`
	Price         float64   `json:"price" gorm:"type:decimal(12,2);not null"`
	StockQuantity int       `json:"stock_quantity" gorm:"not null;default:0"`
	ImageURL      string    `json:"image_url" gorm:"type:text"`
	CategoryID    *uint     `json:"category_id" gorm:"index:idx_product_category"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Product) TableName() string { return "products" }
