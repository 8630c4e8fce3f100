package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/storefront/pkg/response"
)

// scopeUserID 管理员看全员通知（user_id IS NULL），顾客看自己的
func scopeUserID(c *gin.Context) *uint {
	if isAdmin(c) {
		return nil
	}
	uid := currentUserID(c)
	return &uid
}

// ListNotifications 通知列表
// @Summary 通知列表（管理员为全员通知，顾客为本人通知）
// @Tags 通知
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} response.Response
// @Router /api/v1/notifications [get]
func (h *Handler) ListNotifications(c *gin.Context) {
	page, pageSize := pageParams(c)
	scope := scopeUserID(c)
	list, err := h.notifSvc.List(c.Request.Context(), scope, page, pageSize)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	unread, err := h.notifSvc.UnreadCount(c.Request.Context(), scope)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, gin.H{"page": page, "page_size": pageSize, "unread": unread, "list": list})
}

// MarkNotificationRead 标记已读
// @Summary 标记单条通知已读
// @Tags 通知
// @Param id path int true "通知ID"
// @Success 200 {object} response.Response
// @Router /api/v1/notifications/{id}/read [put]
func (h *Handler) MarkNotificationRead(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		response.BadRequest(c, "invalid notification id")
		return
	}
	if err := h.notifSvc.MarkRead(c.Request.Context(), id, scopeUserID(c)); err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, nil)
}

// MarkAllNotificationsRead 全部已读
// @Summary 全部标记已读
// @Tags 通知
// @Success 200 {object} response.Response
// @Router /api/v1/notifications/read-all [put]
func (h *Handler) MarkAllNotificationsRead(c *gin.Context) {
	if err := h.notifSvc.MarkAllRead(c.Request.Context(), scopeUserID(c)); err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, nil)
}
