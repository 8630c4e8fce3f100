package model

import (
	"time"
)

// 订单状态
const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusShipped   = "shipped"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// 支付方式
const (
	PaymentCashOnDelivery = "cash_on_delivery"
	PaymentBankTransfer   = "bank_transfer"
)

// Order 订单；收货信息在下单时快照，不引用顾客档案
type Order struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	UserID          uint      `json:"user_id" gorm:"index:idx_order_user_created;not null"`
	ShippingName    string    `json:"shipping_name" gorm:"type:varchar(128);not null"`
	ShippingAddress string    `json:"shipping_address" gorm:"type:text;not null"`
	ShippingPhone   string    `json:"shipping_phone" gorm:"type:varchar(32);not null"`
	ShippingEmail   string    `json:"shipping_email" gorm:"type:varchar(128);not null"`
	Status          string    `json:"status" gorm:"type:varchar(16);index;not null;default:pending"`
	PaymentType     string    `json:"payment_type" gorm:"type:varchar(32);not null"`
	PaymentProofURL *string   `json:"payment_proof_url" gorm:"type:text"`
	Total           *float64  `json:"total" gorm:"type:decimal(14,2)"`
	CreatedAt       time.Time `json:"created_at" gorm:"index:idx_order_user_created;not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt       time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}

// OrderItem 订单行；price 为下单时刻的单价快照，后续改价不影响历史订单
type OrderItem struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	OrderID   uint      `json:"order_id" gorm:"index:idx_order_item_order;not null"`
	ProductID uint      `json:"product_id" gorm:"index;not null"`
	Quantity  int       `json:"quantity" gorm:"not null"`
	Price     float64   `json:"price" gorm:"type:decimal(12,2);not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (OrderItem) TableName() string { return "order_items" }

// OrderDetailItem 订单行 + 商品名（查询输出）
type OrderDetailItem struct {
	OrderItem
	ProductName string `json:"product_name"`
}

// OrderDetail 订单详情（查询输出）
type OrderDetail struct {
	Order
	Items []*OrderDetailItem `json:"items"`
	// Total 字段缺失或为零时由读取方从订单行重算后填充
}

// ValidOrderStatus 状态枚举校验（管理端改状态用）
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusShipped, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// ValidPaymentType 支付方式枚举校验
func ValidPaymentType(s string) bool {
	return s == PaymentCashOnDelivery || s == PaymentBankTransfer
}
