package api

import (
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/time/rate"

	"github.com/d60-Lab/storefront/config"
	_ "github.com/d60-Lab/storefront/docs"
	"github.com/d60-Lab/storefront/internal/api/handler"
	"github.com/d60-Lab/storefront/internal/api/middleware"
	"github.com/d60-Lab/storefront/internal/model"
	"github.com/d60-Lab/storefront/internal/service"
)

// NewRouter 组装路由与中间件
func NewRouter(cfg *config.Config, h *handler.Handler, authSvc service.AuthService) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("paymenttype", func(fl validator.FieldLevel) bool {
			return model.ValidPaymentType(fl.Field().String())
		})
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	r.Use(otelgin.Middleware("storefront"))
	if cfg.Sentry.DSN != "" {
		r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", h.Register)
			auth.POST("/login", h.Login)
		}

		// 公开目录
		v1.GET("/products", h.ListProducts)
		v1.GET("/products/:id", h.GetProduct)
		v1.GET("/categories", h.ListCategories)
		v1.GET("/categories/tree", h.CategoryTree)

		// 登录用户
		authed := v1.Group("")
		authed.Use(middleware.JWTAuth(authSvc))
		{
			authed.GET("/profile", h.GetProfile)
			authed.PUT("/profile", h.UpdateProfile)

			authed.GET("/cart", h.GetCart)
			authed.POST("/cart", h.AddCartItem)
			authed.PUT("/cart/:id", h.UpdateCartItem)
			authed.DELETE("/cart/:id", h.RemoveCartItem)
			authed.DELETE("/cart", h.ClearCart)

			authed.POST("/orders", middleware.RateLimit(rate.Limit(1), 5), h.PlaceOrder)
			authed.GET("/orders", h.ListMyOrders)
			authed.GET("/orders/:id", h.GetOrder)

			authed.GET("/notifications", h.ListNotifications)
			authed.PUT("/notifications/:id/read", h.MarkNotificationRead)
			authed.PUT("/notifications/read-all", h.MarkAllNotificationsRead)
		}

		// 管理端
		admin := v1.Group("/admin")
		admin.Use(middleware.JWTAuth(authSvc), middleware.AdminOnly())
		{
			admin.POST("/products", h.CreateProduct)
			admin.PUT("/products/:id", h.UpdateProduct)
			admin.DELETE("/products/:id", h.DeleteProduct)

			admin.POST("/categories", h.CreateCategory)
			admin.PUT("/categories/:id", h.UpdateCategory)
			admin.DELETE("/categories/:id", h.DeleteCategory)

			admin.GET("/orders", h.ListOrders)
			admin.PUT("/orders/:id/status", h.UpdateOrderStatus)
		}
	}

	return r
}
