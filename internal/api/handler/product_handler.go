package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/d60-Lab/storefront/internal/model"
	"github.com/d60-Lab/storefront/internal/service"
	"github.com/d60-Lab/storefront/pkg/response"
)

// ListProducts 商品列表
// @Summary 商品列表（分页，可按分类过滤、按名称模糊搜索）
// @Tags 目录
// @Param category_id query int false "分类ID"
// @Param search query string false "名称关键字"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} response.Response
// @Router /api/v1/products [get]
func (h *Handler) ListProducts(c *gin.Context) {
	page, pageSize := pageParams(c)
	q := service.CatalogQuery{Search: c.Query("search"), Page: page, PageSize: pageSize}
	if raw := c.Query("category_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			response.BadRequest(c, "invalid category_id")
			return
		}
		cid := uint(id)
		q.CategoryID = &cid
	}

	products, total, err := h.catalogSvc.ListProducts(c.Request.Context(), q)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, gin.H{"page": page, "page_size": pageSize, "total": total, "list": products})
}

// GetProduct 商品详情
// @Summary 商品详情
// @Tags 目录
// @Param id path int true "商品ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/products/{id} [get]
func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		response.BadRequest(c, "invalid product id")
		return
	}
	p, err := h.catalogSvc.GetProduct(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "product not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Success(c, p)
}

type productRequest struct {
	Name          string  `json:"name" binding:"required"`
	Description   string  `json:"description"`
	Price         float64 `json:"price" binding:"required,gt=0"`
	StockQuantity int     `json:"stock_quantity" binding:"gte=0"`
	ImageURL      string  `json:"image_url"`
	CategoryID    *uint   `json:"category_id"`
}

// CreateProduct 新建商品（管理端）
// @Summary 新建商品
// @Tags 目录
// @Accept json
// @Param request body productRequest true "商品"
// @Success 201 {object} response.Response
// @Router /api/v1/admin/products [post]
func (h *Handler) CreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	p := &model.Product{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
		ImageURL:      req.ImageURL,
		CategoryID:    req.CategoryID,
	}
	if err := h.catalogSvc.CreateProduct(c.Request.Context(), p); err != nil {
		response.InternalError(c, err)
		return
	}
	response.Created(c, "product created", p)
}

// UpdateProduct 更新商品（管理端）
// @Summary 更新商品
// @Tags 目录
// @Accept json
// @Param id path int true "商品ID"
// @Param request body productRequest true "商品"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/admin/products/{id} [put]
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		response.BadRequest(c, "invalid product id")
		return
	}
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	p, err := h.catalogSvc.GetProduct(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "product not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	p.Name = req.Name
	p.Description = req.Description
	p.Price = req.Price
	p.StockQuantity = req.StockQuantity
	p.ImageURL = req.ImageURL
	p.CategoryID = req.CategoryID
	if err := h.catalogSvc.UpdateProduct(c.Request.Context(), p); err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, p)
}

// DeleteProduct 删除商品（管理端）
// @Summary 删除商品
// @Tags 目录
// @Param id path int true "商品ID"
// @Success 200 {object} response.Response
// @Router /api/v1/admin/products/{id} [delete]
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		response.BadRequest(c, "invalid product id")
		return
	}
	if err := h.catalogSvc.DeleteProduct(c.Request.Context(), id); err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, nil)
}
