package model

import "time"

// CartItem 购物车行，(user_id, product_id) 唯一
type CartItem struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index:idx_cart_user;uniqueIndex:ux_cart_user_product;not null"`
	ProductID uint      `json:"product_id" gorm:"uniqueIndex:ux_cart_user_product;not null"`
	Quantity  int       `json:"quantity" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (CartItem) TableName() string { return "cart_items" }

// CartLine 购物车行 + 商品当前信息（查询输出）
type CartLine struct {
	CartItem
	ProductName  string  `json:"product_name"`
	ProductPrice float64 `json:"product_price"`
	ImageURL     string  `json:"image_url"`
	Stock        int     `json:"stock"`
}
