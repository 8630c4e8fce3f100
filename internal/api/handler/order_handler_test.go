package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/d60-Lab/storefront/config"
	"github.com/d60-Lab/storefront/internal/api"
	"github.com/d60-Lab/storefront/internal/api/handler"
	"github.com/d60-Lab/storefront/internal/cache"
	"github.com/d60-Lab/storefront/internal/model"
	"github.com/d60-Lab/storefront/internal/repository"
	"github.com/d60-Lab/storefront/internal/service"
)

type stubUploader struct{ url string }

func (s stubUploader) Upload(context.Context, string, io.Reader) (string, error) {
	return s.url, nil
}

type testEnv struct {
	db     *gorm.DB
	router *gin.Engine
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.User{}, &model.Customer{}, &model.Category{}, &model.Product{},
		&model.CartItem{}, &model.Order{}, &model.OrderItem{}, &model.Notification{},
	))

	cfg := &config.Config{}
	cfg.Server.Mode = gin.TestMode
	cfg.JWT = config.JWTConfig{Secret: "test-secret", Expire: time.Hour, Issuer: "storefront-test"}

	userRepo := repository.NewUserRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	productRepo := repository.NewProductRepository(db)
	cartRepo := repository.NewCartRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	notifRepo := repository.NewNotificationRepository(db)

	authSvc := service.NewAuthService(userRepo, customerRepo, cfg.JWT)
	catalogSvc := service.NewCatalogService(productRepo, categoryRepo, cache.NewCatalogCache(nil, 0))
	cartSvc := service.NewCartService(cartRepo, productRepo)
	orderSvc := service.NewOrderService(db, orderRepo, productRepo, notifRepo, stubUploader{url: "https://img.example.com/p.jpg"})
	notifSvc := service.NewNotificationService(notifRepo)

	h := handler.New(authSvc, catalogSvc, cartSvc, orderSvc, notifSvc)
	return &testEnv{db: db, router: api.NewRouter(cfg, h, authSvc)}
}

type envelope struct {
	Code    int                    `json:"code"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data"`
}

func (e *testEnv) doJSON(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	// gzip 中间件会压缩响应，测试里直接声明不接受压缩
	req.Header.Set("Accept-Encoding", "identity")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func (e *testEnv) registerAndLogin(t *testing.T, username string) string {
	t.Helper()
	w, _ := e.doJSON(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
		"name":     username,
		"address":  "1 Main St",
		"phone":    "0812000000",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w, env := e.doJSON(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"username": username,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	token, _ := env.Data["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func (e *testEnv) loginAdmin(t *testing.T) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("admin-pass1"), bcrypt.DefaultCost)
	require.NoError(t, err)
	admin := &model.User{Username: "admin", Email: "admin@example.com", Password: string(hash), Role: model.RoleAdmin}
	require.NoError(t, e.db.Create(admin).Error)

	w, env := e.doJSON(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"username": "admin",
		"password": "admin-pass1",
	})
	require.Equal(t, http.StatusOK, w.Code)
	token, _ := env.Data["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func (e *testEnv) seedProduct(t *testing.T, name string, price float64, stock int) *model.Product {
	t.Helper()
	p := &model.Product{Name: name, Price: price, StockQuantity: stock}
	require.NoError(t, e.db.Create(p).Error)
	return p
}

func (e *testEnv) postOrder(t *testing.T, token string, items interface{}, paymentType string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	rawItems, err := json.Marshal(items)
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("items", string(rawItems)))
	require.NoError(t, mw.WriteField("shipping", `{"name":"Alex","address":"1 Main St","phone":"0812000000","email":"alex@example.com"}`))
	require.NoError(t, mw.WriteField("payment_type", paymentType))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept-Encoding", "identity")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func TestPlaceOrderEndpoint(t *testing.T) {
	env := setupEnv(t)
	token := env.registerAndLogin(t, "buyer")
	p := env.seedProduct(t, "Widget", 10000, 3)

	w, body := env.postOrder(t, token, []gin.H{
		{"product_id": p.ID, "quantity": 2, "price": 10000},
	}, model.PaymentCashOnDelivery)
	require.Equal(t, http.StatusCreated, w.Code)
	orderID := uint(body.Data["order_id"].(float64))
	require.NotZero(t, orderID)

	// 库存 3 - 2 = 1
	var got model.Product
	require.NoError(t, env.db.First(&got, p.ID).Error)
	assert.Equal(t, 1, got.StockQuantity)

	// 详情带订单行和商品名，总价 20000
	w, detail := env.doJSON(t, http.MethodGet, fmt.Sprintf("/api/v1/orders/%d", orderID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 20000.0, detail.Data["total"])
	items, _ := detail.Data["items"].([]interface{})
	require.Len(t, items, 1)

	// 库存不足 → 409，库存不动
	w, _ = env.postOrder(t, token, []gin.H{
		{"product_id": p.ID, "quantity": 5, "price": 10000},
	}, model.PaymentCashOnDelivery)
	assert.Equal(t, http.StatusConflict, w.Code)
	require.NoError(t, env.db.First(&got, p.ID).Error)
	assert.Equal(t, 1, got.StockQuantity)

	// 商品不存在 → 404
	w, _ = env.postOrder(t, token, []gin.H{
		{"product_id": 9999, "quantity": 1, "price": 1},
	}, model.PaymentCashOnDelivery)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// 未知支付方式在绑定层就被拦下 → 400
	w, _ = env.postOrder(t, token, []gin.H{
		{"product_id": p.ID, "quantity": 1, "price": 10000},
	}, "barter")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPlaceOrderClearsCart(t *testing.T) {
	env := setupEnv(t)
	token := env.registerAndLogin(t, "carter")
	p := env.seedProduct(t, "Gadget", 50, 10)

	w, _ := env.doJSON(t, http.MethodPost, "/api/v1/cart", token, gin.H{"product_id": p.ID, "quantity": 2})
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = env.postOrder(t, token, []gin.H{
		{"product_id": p.ID, "quantity": 2, "price": 50},
	}, model.PaymentCashOnDelivery)
	require.Equal(t, http.StatusCreated, w.Code)

	w, cart := env.doJSON(t, http.MethodGet, "/api/v1/cart", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	lines, _ := cart.Data["lines"].([]interface{})
	assert.Empty(t, lines)
}

func TestOrderOwnership(t *testing.T) {
	env := setupEnv(t)
	buyer := env.registerAndLogin(t, "owner")
	other := env.registerAndLogin(t, "stranger")
	adminToken := env.loginAdmin(t)
	p := env.seedProduct(t, "Thing", 10, 5)

	w, body := env.postOrder(t, buyer, []gin.H{
		{"product_id": p.ID, "quantity": 1, "price": 10},
	}, model.PaymentCashOnDelivery)
	require.Equal(t, http.StatusCreated, w.Code)
	orderID := uint(body.Data["order_id"].(float64))

	path := fmt.Sprintf("/api/v1/orders/%d", orderID)

	w, _ = env.doJSON(t, http.MethodGet, path, other, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = env.doJSON(t, http.MethodGet, path, buyer, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = env.doJSON(t, http.MethodGet, path, adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = env.doJSON(t, http.MethodGet, path, "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminRoutes(t *testing.T) {
	env := setupEnv(t)
	customer := env.registerAndLogin(t, "plain")
	adminToken := env.loginAdmin(t)
	p := env.seedProduct(t, "Box", 20, 5)

	// 顾客禁入管理端
	w, _ := env.doJSON(t, http.MethodPost, "/api/v1/admin/products", customer, gin.H{"name": "X", "price": 1})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = env.doJSON(t, http.MethodPost, "/api/v1/admin/products", adminToken, gin.H{
		"name": "Crate", "price": 30.0, "stock_quantity": 7,
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	// 下单后管理端改状态，顾客收到状态变更通知
	w, body := env.postOrder(t, customer, []gin.H{
		{"product_id": p.ID, "quantity": 1, "price": 20},
	}, model.PaymentCashOnDelivery)
	require.Equal(t, http.StatusCreated, w.Code)
	orderID := uint(body.Data["order_id"].(float64))

	w, _ = env.doJSON(t, http.MethodPut, fmt.Sprintf("/api/v1/admin/orders/%d/status", orderID), adminToken, gin.H{"status": "shipped"})
	require.Equal(t, http.StatusOK, w.Code)

	w, list := env.doJSON(t, http.MethodGet, "/api/v1/admin/orders?status=shipped", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, list.Data["total"])

	// 管理员看到全员通知（new_order），顾客看到自己的两条
	w, notif := env.doJSON(t, http.MethodGet, "/api/v1/notifications", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	adminNotifs, _ := notif.Data["list"].([]interface{})
	require.Len(t, adminNotifs, 1)

	w, notif = env.doJSON(t, http.MethodGet, "/api/v1/notifications", customer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	customerNotifs, _ := notif.Data["list"].([]interface{})
	require.Len(t, customerNotifs, 2)
}
