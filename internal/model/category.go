package model

import "time"

// Category 商品分类（parent_id 组成树）
type Category struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(128);not null"`
	ParentID  *uint     `json:"parent_id" gorm:"index:idx_category_parent"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Category) TableName() string { return "categories" }

// CategoryNode 目录树节点（仅用于接口输出，不落库）
type CategoryNode struct {
	Category
	Children []*CategoryNode `json:"children"`
}
