package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/storefront/internal/model"
	"github.com/d60-Lab/storefront/internal/service"
	"github.com/d60-Lab/storefront/pkg/response"
)

const (
	CtxUserID = "user_id"
	CtxRole   = "role"
)

// JWTAuth 解析 Bearer token，把用户ID与角色放进请求上下文
func JWTAuth(authSvc service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			response.Unauthorized(c, "missing bearer token")
			return
		}
		claims, err := authSvc.ParseToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			response.Unauthorized(c, "invalid token")
			return
		}
		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxRole, claims.Role)
		c.Next()
	}
}

// AdminOnly 仅放行管理员，必须挂在 JWTAuth 之后
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(CtxRole) != model.RoleAdmin {
			response.Forbidden(c, "admin only")
			return
		}
		c.Next()
	}
}
