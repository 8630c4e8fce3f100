package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/d60-Lab/storefront/internal/model"
	"github.com/d60-Lab/storefront/internal/service"
	"github.com/d60-Lab/storefront/pkg/response"
)

type registerRequest struct {
	Username string `json:"username" binding:"required,min=3,max=64"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
}

// Register 注册
// @Summary 注册顾客账号
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body registerRequest true "注册信息"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/v1/auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	user, err := h.authSvc.Register(c.Request.Context(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Address:  req.Address,
		Phone:    req.Phone,
	})
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			response.Conflict(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Created(c, "registered", gin.H{"id": user.ID, "username": user.Username})
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login 登录
// @Summary 登录换取 JWT
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body loginRequest true "登录信息"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /api/v1/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	token, user, err := h.authSvc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Unauthorized(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Success(c, gin.H{"token": token, "role": user.Role, "user_id": user.ID})
}

// GetProfile 当前用户档案
// @Summary 查询本人档案
// @Tags 认证
// @Success 200 {object} response.Response
// @Router /api/v1/profile [get]
func (h *Handler) GetProfile(c *gin.Context) {
	profile, err := h.authSvc.GetProfile(c.Request.Context(), currentUserID(c))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "profile not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Success(c, profile)
}

type profileRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email" binding:"omitempty,email"`
}

// UpdateProfile 更新档案
// @Summary 更新本人档案
// @Tags 认证
// @Accept json
// @Param request body profileRequest true "档案"
// @Success 200 {object} response.Response
// @Router /api/v1/profile [put]
func (h *Handler) UpdateProfile(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	customer := &model.Customer{
		UserID:  currentUserID(c),
		Name:    req.Name,
		Address: req.Address,
		Phone:   req.Phone,
		Email:   req.Email,
	}
	if err := h.authSvc.UpdateProfile(c.Request.Context(), customer); err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, nil)
}
