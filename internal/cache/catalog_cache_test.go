package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/storefront/internal/model"
)

func newTestCache(t *testing.T) *CatalogCache {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewCatalogCache(rdb, time.Minute)
}

func TestProductCacheRoundTrip(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	_, ok := c.GetProduct(ctx, 1)
	assert.False(t, ok)

	p := &model.Product{Name: "Keyboard", Price: 100, StockQuantity: 3}
	p.ID = 1
	c.SetProduct(ctx, p)

	got, ok := c.GetProduct(ctx, 1)
	require.True(t, ok)
	assert.Equal(t, "Keyboard", got.Name)
	assert.Equal(t, 3, got.StockQuantity)

	c.InvalidateProduct(ctx, 1)
	_, ok = c.GetProduct(ctx, 1)
	assert.False(t, ok)
}

func TestCategoryTreeCacheRoundTrip(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	_, ok := c.GetCategoryTree(ctx)
	assert.False(t, ok)

	root := &model.CategoryNode{Children: []*model.CategoryNode{}}
	root.ID = 1
	root.Name = "Electronics"
	c.SetCategoryTree(ctx, []*model.CategoryNode{root})

	tree, ok := c.GetCategoryTree(ctx)
	require.True(t, ok)
	require.Len(t, tree, 1)
	assert.Equal(t, "Electronics", tree[0].Name)

	c.InvalidateCategoryTree(ctx)
	_, ok = c.GetCategoryTree(ctx)
	assert.False(t, ok)
}

func TestNilClientIsAlwaysMiss(t *testing.T) {
	c := NewCatalogCache(nil, time.Minute)
	ctx := context.Background()

	p := &model.Product{Name: "x"}
	p.ID = 9
	c.SetProduct(ctx, p)
	_, ok := c.GetProduct(ctx, 9)
	assert.False(t, ok)
}
