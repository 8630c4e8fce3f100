package service

import (
	"context"

	"github.com/d60-Lab/storefront/internal/model"
	"github.com/d60-Lab/storefront/internal/repository"
)

// NotificationService 通知读取与已读标记；通知的产生只发生在订单流程内
type NotificationService interface {
	// List userID 为空返回管理员全员通知
	List(ctx context.Context, userID *uint, page, pageSize int) ([]*model.Notification, error)
	UnreadCount(ctx context.Context, userID *uint) (int64, error)
	MarkRead(ctx context.Context, id uint, userID *uint) error
	MarkAllRead(ctx context.Context, userID *uint) error
}

type notificationService struct {
	repo repository.NotificationRepository
}

func NewNotificationService(repo repository.NotificationRepository) NotificationService {
	return &notificationService{repo: repo}
}

func (s *notificationService) List(ctx context.Context, userID *uint, page, pageSize int) ([]*model.Notification, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize
	if userID == nil {
		return s.repo.ListForAdmin(ctx, offset, pageSize)
	}
	return s.repo.ListForUser(ctx, *userID, offset, pageSize)
}

func (s *notificationService) UnreadCount(ctx context.Context, userID *uint) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}

func (s *notificationService) MarkRead(ctx context.Context, id uint, userID *uint) error {
	return s.repo.MarkRead(ctx, id, userID)
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID *uint) error {
	return s.repo.MarkAllRead(ctx, userID)
}
