package model

import "time"

// Customer 顾客档案（收货默认信息，下单时快照到订单上）
type Customer struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"uniqueIndex;not null"`
	Name      string    `json:"name" gorm:"type:varchar(128);not null"`
	Address   string    `json:"address" gorm:"type:text"`
	Phone     string    `json:"phone" gorm:"type:varchar(32)"`
	Email     string    `json:"email" gorm:"type:varchar(128)"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Customer) TableName() string { return "customers" }
