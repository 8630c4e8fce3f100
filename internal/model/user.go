package model

import "time"

// 用户角色
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// User 登录账号（顾客与管理员共用一张表，按 role 区分）
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Username  string    `json:"username" gorm:"type:varchar(64);uniqueIndex;not null"`
	Email     string    `json:"email" gorm:"type:varchar(128);uniqueIndex;not null"`
	Password  string    `json:"-" gorm:"type:varchar(128);not null"` // bcrypt hash
	Role      string    `json:"role" gorm:"type:varchar(16);not null;default:customer"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }
