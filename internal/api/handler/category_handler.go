package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/d60-Lab/storefront/internal/model"
	"github.com/d60-Lab/storefront/pkg/response"
)

// ListCategories 分类列表（扁平）
// @Summary 分类列表
// @Tags 目录
// @Success 200 {object} response.Response
// @Router /api/v1/categories [get]
func (h *Handler) ListCategories(c *gin.Context) {
	cats, err := h.catalogSvc.ListCategories(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, cats)
}

// CategoryTree 分类树
// @Summary 分类树（按 parent_id 组装）
// @Tags 目录
// @Success 200 {object} response.Response
// @Router /api/v1/categories/tree [get]
func (h *Handler) CategoryTree(c *gin.Context) {
	tree, err := h.catalogSvc.CategoryTree(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, tree)
}

type categoryRequest struct {
	Name     string `json:"name" binding:"required"`
	ParentID *uint  `json:"parent_id"`
}

// CreateCategory 新建分类（管理端）
// @Summary 新建分类
// @Tags 目录
// @Accept json
// @Param request body categoryRequest true "分类"
// @Success 201 {object} response.Response
// @Router /api/v1/admin/categories [post]
func (h *Handler) CreateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	cat := &model.Category{Name: req.Name, ParentID: req.ParentID}
	if err := h.catalogSvc.CreateCategory(c.Request.Context(), cat); err != nil {
		response.InternalError(c, err)
		return
	}
	response.Created(c, "category created", cat)
}

// UpdateCategory 更新分类（管理端）
// @Summary 更新分类
// @Tags 目录
// @Accept json
// @Param id path int true "分类ID"
// @Param request body categoryRequest true "分类"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/admin/categories/{id} [put]
func (h *Handler) UpdateCategory(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		response.BadRequest(c, "invalid category id")
		return
	}
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	existing, err := h.catalogSvc.GetCategory(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "category not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	existing.Name = req.Name
	existing.ParentID = req.ParentID
	if err := h.catalogSvc.UpdateCategory(c.Request.Context(), existing); err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, existing)
}

// DeleteCategory 删除分类（管理端）
// @Summary 删除分类
// @Tags 目录
// @Param id path int true "分类ID"
// @Success 200 {object} response.Response
// @Router /api/v1/admin/categories/{id} [delete]
func (h *Handler) DeleteCategory(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		response.BadRequest(c, "invalid category id")
		return
	}
	if err := h.catalogSvc.DeleteCategory(c.Request.Context(), id); err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, nil)
}
