package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/storefront/internal/api/middleware"
	"github.com/d60-Lab/storefront/internal/model"
	"github.com/d60-Lab/storefront/internal/service"
)

// Handler 聚合各业务服务的 HTTP 入口
type Handler struct {
	authSvc    service.AuthService
	catalogSvc service.CatalogService
	cartSvc    service.CartService
	orderSvc   service.OrderService
	notifSvc   service.NotificationService
}

func New(
	authSvc service.AuthService,
	catalogSvc service.CatalogService,
	cartSvc service.CartService,
	orderSvc service.OrderService,
	notifSvc service.NotificationService,
) *Handler {
	return &Handler{
		authSvc:    authSvc,
		catalogSvc: catalogSvc,
		cartSvc:    cartSvc,
		orderSvc:   orderSvc,
		notifSvc:   notifSvc,
	}
}

// currentUserID 从 JWT 中间件写入的上下文取用户ID
func currentUserID(c *gin.Context) uint {
	return c.GetUint(middleware.CtxUserID)
}

func isAdmin(c *gin.Context) bool {
	return c.GetString(middleware.CtxRole) == model.RoleAdmin
}

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	return page, pageSize
}
