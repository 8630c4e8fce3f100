package model

import "time"

// 通知类型
const (
	NotificationNewOrder           = "new_order"             // 管理端：有新订单
	NotificationCustomerOrder      = "customer_order_placed" // 顾客端：下单成功
	NotificationOrderStatusUpdated = "order_status_updated"  // 顾客端：订单状态变更
)

// Notification 通知；user_id 为空表示管理员全员可见
type Notification struct {
	ID      uint   `json:"id" gorm:"primaryKey"`
	UserID  *uint  `json:"user_id" gorm:"index:idx_notification_user"`
	Type    string `json:"type" gorm:"type:varchar(32);not null"`
	OrderID *uint  `json:"order_id" gorm:"index"`
	// 顾客通知存可翻译的 message key，由前端在展示时本地化
	Message   string    `json:"message" gorm:"type:text;not null"`
	IsRead    bool      `json:"is_read" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }
