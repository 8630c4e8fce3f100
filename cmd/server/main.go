package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/d60-Lab/storefront/config"
	"github.com/d60-Lab/storefront/internal/api"
	"github.com/d60-Lab/storefront/internal/api/handler"
	"github.com/d60-Lab/storefront/internal/cache"
	"github.com/d60-Lab/storefront/internal/imagehost"
	"github.com/d60-Lab/storefront/internal/model"
	"github.com/d60-Lab/storefront/internal/repository"
	"github.com/d60-Lab/storefront/internal/service"
	"github.com/d60-Lab/storefront/pkg/database"
	"github.com/d60-Lab/storefront/pkg/logger"
	"github.com/d60-Lab/storefront/pkg/tracing"
)

// @title Storefront API
// @version 1.0
// @description E-commerce storefront backend
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := logger.Init(cfg); err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.Sentry.DSN}); err != nil {
			logger.Warn("sentry init failed", zap.Error(err))
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, cfg)
	if err != nil {
		logger.Fatal("init tracing", zap.Error(err))
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Fatal("connect database", zap.Error(err))
	}
	defer func() { _ = database.Close(db) }()

	if err := db.AutoMigrate(
		&model.User{},
		&model.Customer{},
		&model.Category{},
		&model.Product{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.Notification{},
	); err != nil {
		logger.Fatal("migrate database", zap.Error(err))
	}

	if err := seedAdmin(db, cfg); err != nil {
		logger.Fatal("seed admin account", zap.Error(err))
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		// 缓存不可用只降级，不拦启动
		logger.Warn("redis unavailable, catalog cache disabled", zap.Error(err))
		rdb = nil
	}

	userRepo := repository.NewUserRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	productRepo := repository.NewProductRepository(db)
	cartRepo := repository.NewCartRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	notifRepo := repository.NewNotificationRepository(db)

	catalogCache := cache.NewCatalogCache(rdb, cfg.Redis.CacheTTL)
	uploader := imagehost.New(cfg)

	authSvc := service.NewAuthService(userRepo, customerRepo, cfg.JWT)
	catalogSvc := service.NewCatalogService(productRepo, categoryRepo, catalogCache)
	cartSvc := service.NewCartService(cartRepo, productRepo)
	orderSvc := service.NewOrderService(db, orderRepo, productRepo, notifRepo, uploader)
	notifSvc := service.NewNotificationService(notifRepo)

	h := handler.New(authSvc, catalogSvc, cartSvc, orderSvc, notifSvc)
	r := api.NewRouter(cfg, h, authSvc)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: r,
	}

	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

// seedAdmin 没有管理员且配置了密码时创建种子账号
func seedAdmin(db *gorm.DB, cfg *config.Config) error {
	if cfg.Admin.Password == "" {
		return nil
	}
	var cnt int64
	if err := db.Model(&model.User{}).Where("role = ?", model.RoleAdmin).Count(&cnt).Error; err != nil {
		return err
	}
	if cnt > 0 {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := &model.User{
		Username: cfg.Admin.Username,
		Email:    cfg.Admin.Email,
		Password: string(hash),
		Role:     model.RoleAdmin,
	}
	if err := db.Create(admin).Error; err != nil {
		return err
	}
	logger.Info("admin account seeded", zap.String("username", admin.Username))
	return nil
}
