package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/d60-Lab/storefront/internal/model"
)

func setupRepoTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.Category{}, &model.Product{}, &model.CartItem{},
		&model.Order{}, &model.OrderItem{}, &model.Notification{},
	))
	return db
}

func TestDecrementStock(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	p := &model.Product{Name: "Bolt", Price: 5, StockQuantity: 10}
	require.NoError(t, db.Create(p).Error)

	ok, err := repo.DecrementStock(ctx, db, p.ID, 4)
	require.NoError(t, err)
	assert.True(t, ok)

	var got model.Product
	require.NoError(t, db.First(&got, p.ID).Error)
	assert.Equal(t, 6, got.StockQuantity)

	// 超过余量时不命中任何行，库存不动
	ok, err = repo.DecrementStock(ctx, db, p.ID, 7)
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, db.First(&got, p.ID).Error)
	assert.Equal(t, 6, got.StockQuantity)

	// 刚好扣到零是允许的
	ok, err = repo.DecrementStock(ctx, db, p.ID, 6)
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, db.First(&got, p.ID).Error)
	assert.Zero(t, got.StockQuantity)

	// 不存在的商品
	ok, err = repo.DecrementStock(ctx, db, 9999, 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestProductList(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	cat := &model.Category{Name: "Audio"}
	require.NoError(t, db.Create(cat).Error)

	products := []*model.Product{
		{Name: "Wireless Headphones", Price: 100, StockQuantity: 5, CategoryID: &cat.ID},
		{Name: "Wired Headphones", Price: 50, StockQuantity: 5, CategoryID: &cat.ID},
		{Name: "Webcam", Price: 80, StockQuantity: 5},
	}
	for _, p := range products {
		require.NoError(t, repo.Create(ctx, p))
	}

	all, total, err := repo.List(ctx, ProductListParams{Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, all, 3)

	byCat, total, err := repo.List(ctx, ProductListParams{CategoryID: &cat.ID, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, byCat, 2)

	// 名称模糊搜索不区分大小写
	found, total, err := repo.List(ctx, ProductListParams{Search: "headPHONES", Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, found, 2)

	paged, total, err := repo.List(ctx, ProductListParams{Offset: 2, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, paged, 1)
}

func TestOrderRepositorySumItems(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	order := &model.Order{UserID: 1, ShippingName: "a", ShippingAddress: "b", ShippingPhone: "c", ShippingEmail: "d", Status: model.OrderStatusPending, PaymentType: model.PaymentCashOnDelivery}
	require.NoError(t, db.Create(order).Error)
	require.NoError(t, db.Create(&model.OrderItem{OrderID: order.ID, ProductID: 1, Quantity: 2, Price: 10}).Error)
	require.NoError(t, db.Create(&model.OrderItem{OrderID: order.ID, ProductID: 2, Quantity: 3, Price: 7}).Error)

	total, err := repo.SumItems(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, 41.0, total)

	// 没有订单行时聚合为 0 而不是 NULL
	empty, err := repo.SumItems(ctx, 777)
	require.NoError(t, err)
	assert.Zero(t, empty)
}

func TestNotificationScopes(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewNotificationRepository(db)
	ctx := context.Background()

	uid := uint(42)
	require.NoError(t, repo.Create(ctx, nil, &model.Notification{Type: model.NotificationNewOrder, Message: "New order #1"}))
	require.NoError(t, repo.Create(ctx, nil, &model.Notification{UserID: &uid, Type: model.NotificationCustomerOrder, Message: "notification.customer_order_placed"}))

	adminList, err := repo.ListForAdmin(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, adminList, 1)
	assert.Nil(t, adminList[0].UserID)

	userList, err := repo.ListForUser(ctx, uid, 0, 10)
	require.NoError(t, err)
	require.Len(t, userList, 1)

	// 顾客不能把管理员通知标成已读
	require.NoError(t, repo.MarkRead(ctx, adminList[0].ID, &uid))
	var n model.Notification
	require.NoError(t, db.First(&n, adminList[0].ID).Error)
	assert.False(t, n.IsRead)

	require.NoError(t, repo.MarkRead(ctx, adminList[0].ID, nil))
	require.NoError(t, db.First(&n, adminList[0].ID).Error)
	assert.True(t, n.IsRead)

	cnt, err := repo.CountUnread(ctx, &uid)
	require.NoError(t, err)
	assert.EqualValues(t, 1, cnt)

	require.NoError(t, repo.MarkAllRead(ctx, &uid))
	cnt, err = repo.CountUnread(ctx, &uid)
	require.NoError(t, err)
	assert.Zero(t, cnt)
}

func TestCartRepositoryUpsert(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewCartRepository(db)
	ctx := context.Background()

	p := &model.Product{Name: "Cable", Price: 3, StockQuantity: 100}
	require.NoError(t, db.Create(p).Error)

	require.NoError(t, repo.AddItem(ctx, &model.CartItem{UserID: 1, ProductID: p.ID, Quantity: 2}))
	// 同一商品再次加购数量累加，不产生第二行
	require.NoError(t, repo.AddItem(ctx, &model.CartItem{UserID: 1, ProductID: p.ID, Quantity: 3}))

	lines, err := repo.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)
	assert.Equal(t, "Cable", lines[0].ProductName)
	assert.Equal(t, 3.0, lines[0].ProductPrice)
	assert.Equal(t, 100, lines[0].Stock)

	require.NoError(t, repo.UpdateQuantity(ctx, 1, p.ID, 4))
	lines, err = repo.List(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 4, lines[0].Quantity)

	require.NoError(t, repo.Remove(ctx, 1, p.ID))
	lines, err = repo.List(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, lines)
}
