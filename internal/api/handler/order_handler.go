package handler

import (
	"encoding/json"
	"errors"
	"mime/multipart"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/d60-Lab/storefront/internal/service"
	"github.com/d60-Lab/storefront/pkg/logger"
	"github.com/d60-Lab/storefront/pkg/response"
)

type placeOrderForm struct {
	Items       string                `form:"items" binding:"required"`
	Shipping    string                `form:"shipping" binding:"required"`
	PaymentType string                `form:"payment_type" binding:"required,paymenttype"`
	Proof       *multipart.FileHeader `form:"payment_proof"`
}

// PlaceOrder 下单
// @Summary 提交订单（multipart，可携带付款凭证）
// @Tags 订单
// @Accept mpfd
// @Produce json
// @Param items formData string true "订单行 JSON 数组 [{product_id,quantity,price}]"
// @Param shipping formData string true "收货信息 JSON {name,address,phone,email}"
// @Param payment_type formData string true "cash_on_delivery / bank_transfer"
// @Param payment_proof formData file false "付款凭证图片"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/orders [post]
func (h *Handler) PlaceOrder(c *gin.Context) {
	var form placeOrderForm
	if err := c.ShouldBind(&form); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	var items []service.PlaceOrderItem
	if err := json.Unmarshal([]byte(form.Items), &items); err != nil {
		response.BadRequest(c, "items must be a JSON array")
		return
	}
	var shipping service.ShippingInfo
	if err := json.Unmarshal([]byte(form.Shipping), &shipping); err != nil {
		response.BadRequest(c, "shipping must be a JSON object")
		return
	}

	in := service.PlaceOrderInput{
		UserID:      currentUserID(c),
		Items:       items,
		Shipping:    shipping,
		PaymentType: form.PaymentType,
	}
	if form.Proof != nil {
		f, err := form.Proof.Open()
		if err != nil {
			response.BadRequest(c, "cannot read payment proof")
			return
		}
		defer f.Close()
		in.ProofFilename = form.Proof.Filename
		in.ProofFile = f
	}

	orderID, err := h.orderSvc.PlaceOrder(c.Request.Context(), in)
	if err != nil {
		var notFound *service.ProductNotFoundError
		var conflict *service.InsufficientStockError
		switch {
		case errors.Is(err, service.ErrInvalidOrder):
			response.BadRequest(c, err.Error())
		case errors.As(err, &notFound):
			response.NotFound(c, notFound.Error())
		case errors.As(err, &conflict):
			response.Conflict(c, conflict.Error())
		default:
			logger.Error("place order failed", zap.Uint("user_id", in.UserID), zap.Error(err))
			response.InternalError(c, errors.New("order placement failed"))
		}
		return
	}

	// 下单成功后清空购物车；失败只记日志，不影响已提交的订单
	if err := h.cartSvc.Clear(c.Request.Context(), in.UserID); err != nil {
		logger.Warn("clear cart after order failed", zap.Uint("user_id", in.UserID), zap.Error(err))
	}

	response.Created(c, "order created", gin.H{"order_id": orderID})
}

// GetOrder 订单详情
// @Summary 查询订单详情（订单行连商品名）
// @Tags 订单
// @Param id path int true "订单ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/orders/{id} [get]
func (h *Handler) GetOrder(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		response.BadRequest(c, "invalid order id")
		return
	}
	detail, err := h.orderSvc.GetOrder(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "order not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	// 非管理员只能看自己的订单
	if !isAdmin(c) && detail.UserID != currentUserID(c) {
		response.NotFound(c, "order not found")
		return
	}
	response.Success(c, detail)
}

// ListMyOrders 当前用户订单列表
// @Summary 查询本人订单
// @Tags 订单
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} response.Response
// @Router /api/v1/orders [get]
func (h *Handler) ListMyOrders(c *gin.Context) {
	page, pageSize := pageParams(c)
	orders, err := h.orderSvc.ListUserOrders(c.Request.Context(), currentUserID(c), page, pageSize)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, gin.H{"page": page, "page_size": pageSize, "list": orders})
}

// ListOrders 管理端订单列表
// @Summary 查询全部订单（可按状态过滤）
// @Tags 订单
// @Param status query string false "订单状态"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} response.Response
// @Router /api/v1/admin/orders [get]
func (h *Handler) ListOrders(c *gin.Context) {
	page, pageSize := pageParams(c)
	orders, total, err := h.orderSvc.ListOrders(c.Request.Context(), c.Query("status"), page, pageSize)
	if err != nil {
		if errors.Is(err, service.ErrInvalidStatus) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Success(c, gin.H{"page": page, "page_size": pageSize, "total": total, "list": orders})
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateOrderStatus 管理端修改订单状态
// @Summary 订单状态流转
// @Tags 订单
// @Accept json
// @Param id path int true "订单ID"
// @Param request body updateStatusRequest true "目标状态"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/admin/orders/{id}/status [put]
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		response.BadRequest(c, "invalid order id")
		return
	}
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.orderSvc.UpdateStatus(c.Request.Context(), id, req.Status); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidStatus):
			response.BadRequest(c, err.Error())
		case errors.Is(err, gorm.ErrRecordNotFound):
			response.NotFound(c, "order not found")
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.Success(c, nil)
}
