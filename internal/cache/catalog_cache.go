package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/storefront/internal/model"
	"github.com/d60-Lab/storefront/pkg/logger"
)

const (
	productKeyFmt   = "catalog:product:%d"
	categoryTreeKey = "catalog:category_tree"
)

// CatalogCache 商品/目录读缓存（cache-aside，写路径负责失效）。
// rdb 为 nil 时全部当作 miss，方便在没有 redis 的环境直接跑。
type CatalogCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewCatalogCache(rdb *redis.Client, ttl time.Duration) *CatalogCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CatalogCache{rdb: rdb, ttl: ttl}
}

func (c *CatalogCache) GetProduct(ctx context.Context, id uint) (*model.Product, bool) {
	if c.rdb == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, fmt.Sprintf(productKeyFmt, id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Debug("product cache get failed", zap.Uint("id", id), zap.Error(err))
		}
		return nil, false
	}
	var p model.Product
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, false
	}
	return &p, true
}

func (c *CatalogCache) SetProduct(ctx context.Context, p *model.Product) {
	if c.rdb == nil || p == nil {
		return
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, fmt.Sprintf(productKeyFmt, p.ID), raw, c.ttl).Err(); err != nil {
		logger.Debug("product cache set failed", zap.Uint("id", p.ID), zap.Error(err))
	}
}

func (c *CatalogCache) InvalidateProduct(ctx context.Context, id uint) {
	if c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, fmt.Sprintf(productKeyFmt, id)).Err(); err != nil {
		logger.Debug("product cache del failed", zap.Uint("id", id), zap.Error(err))
	}
}

func (c *CatalogCache) GetCategoryTree(ctx context.Context) ([]*model.CategoryNode, bool) {
	if c.rdb == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, categoryTreeKey).Bytes()
	if err != nil {
		return nil, false
	}
	var tree []*model.CategoryNode
	if err := json.Unmarshal(raw, &tree); err != nil {
		return nil, false
	}
	return tree, true
}

func (c *CatalogCache) SetCategoryTree(ctx context.Context, tree []*model.CategoryNode) {
	if c.rdb == nil {
		return
	}
	raw, err := json.Marshal(tree)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, categoryTreeKey, raw, c.ttl).Err(); err != nil {
		logger.Debug("category tree cache set failed", zap.Error(err))
	}
}

func (c *CatalogCache) InvalidateCategoryTree(ctx context.Context) {
	if c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, categoryTreeKey).Err(); err != nil {
		logger.Debug("category tree cache del failed", zap.Error(err))
	}
}
