package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/storefront/internal/model"
)

type NotificationRepository interface {
	// Create 写入通知；下单事务内传 tx，其余场景传 nil 使用仓储自身连接
	Create(ctx context.Context, tx *gorm.DB, n *model.Notification) error
	ListForUser(ctx context.Context, userID uint, offset, limit int) ([]*model.Notification, error)
	// ListForAdmin 管理员可见的全员通知（user_id IS NULL）
	ListForAdmin(ctx context.Context, offset, limit int) ([]*model.Notification, error)
	MarkRead(ctx context.Context, id uint, userID *uint) error
	MarkAllRead(ctx context.Context, userID *uint) error
	CountUnread(ctx context.Context, userID *uint) (int64, error)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, tx *gorm.DB, n *model.Notification) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(n).Error
}

func (r *notificationRepository) ListForUser(ctx context.Context, userID uint, offset, limit int) ([]*model.Notification, error) {
	var res []*model.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&res).Error
	return res, err
}

func (r *notificationRepository) ListForAdmin(ctx context.Context, offset, limit int) ([]*model.Notification, error) {
	var res []*model.Notification
	err := r.db.WithContext(ctx).
		Where("user_id IS NULL").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&res).Error
	return res, err
}

// MarkRead userID 为空时作用于全员通知，否则限定本人，防止越权标记
func (r *notificationRepository) MarkRead(ctx context.Context, id uint, userID *uint) error {
	q := r.db.WithContext(ctx).Model(&model.Notification{}).Where("id = ?", id)
	if userID == nil {
		q = q.Where("user_id IS NULL")
	} else {
		q = q.Where("user_id = ?", *userID)
	}
	return q.Update("is_read", true).Error
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID *uint) error {
	q := r.db.WithContext(ctx).Model(&model.Notification{}).Where("is_read = ?", false)
	if userID == nil {
		q = q.Where("user_id IS NULL")
	} else {
		q = q.Where("user_id = ?", *userID)
	}
	return q.Update("is_read", true).Error
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID *uint) (int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Notification{}).Where("is_read = ?", false)
	if userID == nil {
		q = q.Where("user_id IS NULL")
	} else {
		q = q.Where("user_id = ?", *userID)
	}
	var cnt int64
	err := q.Count(&cnt).Error
	return cnt, err
}
