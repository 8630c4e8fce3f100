package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/storefront/internal/service"
	"github.com/d60-Lab/storefront/pkg/response"
)

type cartItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

// GetCart 购物车
// @Summary 查询购物车（行连商品信息 + 小计）
// @Tags 购物车
// @Success 200 {object} response.Response
// @Router /api/v1/cart [get]
func (h *Handler) GetCart(c *gin.Context) {
	cart, err := h.cartSvc.Get(c.Request.Context(), currentUserID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, cart)
}

// AddCartItem 加购
// @Summary 加入购物车（已存在则数量累加）
// @Tags 购物车
// @Accept json
// @Param request body cartItemRequest true "商品与数量"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/cart [post]
func (h *Handler) AddCartItem(c *gin.Context) {
	var req cartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	err := h.cartSvc.AddItem(c.Request.Context(), currentUserID(c), req.ProductID, req.Quantity)
	if err != nil {
		var notFound *service.ProductNotFoundError
		switch {
		case errors.As(err, &notFound):
			response.NotFound(c, notFound.Error())
		case errors.Is(err, service.ErrInvalidCartItem):
			response.BadRequest(c, err.Error())
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.Success(c, nil)
}

// UpdateCartItem 改数量
// @Summary 修改购物车行数量（0 视为移除）
// @Tags 购物车
// @Accept json
// @Param id path int true "商品ID"
// @Param request body cartItemRequest true "数量"
// @Success 200 {object} response.Response
// @Router /api/v1/cart/{id} [put]
func (h *Handler) UpdateCartItem(c *gin.Context) {
	productID, ok := paramID(c, "id")
	if !ok {
		response.BadRequest(c, "invalid product id")
		return
	}
	var req struct {
		Quantity int `json:"quantity" binding:"min=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.cartSvc.UpdateQuantity(c.Request.Context(), currentUserID(c), productID, req.Quantity); err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, nil)
}

// RemoveCartItem 移除行
// @Summary 移除购物车行
// @Tags 购物车
// @Param id path int true "商品ID"
// @Success 200 {object} response.Response
// @Router /api/v1/cart/{id} [delete]
func (h *Handler) RemoveCartItem(c *gin.Context) {
	productID, ok := paramID(c, "id")
	if !ok {
		response.BadRequest(c, "invalid product id")
		return
	}
	if err := h.cartSvc.Remove(c.Request.Context(), currentUserID(c), productID); err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, nil)
}

// ClearCart 清空购物车
// @Summary 清空购物车
// @Tags 购物车
// @Success 200 {object} response.Response
// @Router /api/v1/cart [delete]
func (h *Handler) ClearCart(c *gin.Context) {
	if err := h.cartSvc.Clear(c.Request.Context(), currentUserID(c)); err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, nil)
}
