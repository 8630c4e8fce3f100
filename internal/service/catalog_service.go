package service

import (
	"context"

	"github.com/d60-Lab/storefront/internal/cache"
	"github.com/d60-Lab/storefront/internal/model"
	"github.com/d60-Lab/storefront/internal/repository"
)

// CatalogQuery 商品列表查询入参
type CatalogQuery struct {
	CategoryID *uint
	Search     string
	Page       int
	PageSize   int
}

// CatalogService 商品与分类目录；读走缓存，管理端写路径负责失效
type CatalogService interface {
	GetProduct(ctx context.Context, id uint) (*model.Product, error)
	ListProducts(ctx context.Context, q CatalogQuery) ([]*model.Product, int64, error)
	CreateProduct(ctx context.Context, p *model.Product) error
	UpdateProduct(ctx context.Context, p *model.Product) error
	DeleteProduct(ctx context.Context, id uint) error

	GetCategory(ctx context.Context, id uint) (*model.Category, error)
	ListCategories(ctx context.Context) ([]*model.Category, error)
	CategoryTree(ctx context.Context) ([]*model.CategoryNode, error)
	CreateCategory(ctx context.Context, c *model.Category) error
	UpdateCategory(ctx context.Context, c *model.Category) error
	DeleteCategory(ctx context.Context, id uint) error
}

type catalogService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	cache        *cache.CatalogCache
}

func NewCatalogService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository, c *cache.CatalogCache) CatalogService {
	return &catalogService{productRepo: productRepo, categoryRepo: categoryRepo, cache: c}
}

func (s *catalogService) GetProduct(ctx context.Context, id uint) (*model.Product, error) {
	if p, ok := s.cache.GetProduct(ctx, id); ok {
		return p, nil
	}
	p, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.SetProduct(ctx, p)
	return p, nil
}

func (s *catalogService) ListProducts(ctx context.Context, q CatalogQuery) ([]*model.Product, int64, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = 20
	}
	return s.productRepo.List(ctx, repository.ProductListParams{
		CategoryID: q.CategoryID,
		Search:     q.Search,
		Offset:     (q.Page - 1) * q.PageSize,
		Limit:      q.PageSize,
	})
}

func (s *catalogService) CreateProduct(ctx context.Context, p *model.Product) error {
	return s.productRepo.Create(ctx, p)
}

func (s *catalogService) UpdateProduct(ctx context.Context, p *model.Product) error {
	if err := s.productRepo.Update(ctx, p); err != nil {
		return err
	}
	s.cache.InvalidateProduct(ctx, p.ID)
	return nil
}

func (s *catalogService) DeleteProduct(ctx context.Context, id uint) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.InvalidateProduct(ctx, id)
	return nil
}

func (s *catalogService) GetCategory(ctx context.Context, id uint) (*model.Category, error) {
	return s.categoryRepo.GetByID(ctx, id)
}

func (s *catalogService) ListCategories(ctx context.Context) ([]*model.Category, error) {
	return s.categoryRepo.List(ctx)
}

// CategoryTree 由扁平列表拼树；父节点缺失的当根节点处理
func (s *catalogService) CategoryTree(ctx context.Context) ([]*model.CategoryNode, error) {
	if tree, ok := s.cache.GetCategoryTree(ctx); ok {
		return tree, nil
	}

	cats, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	nodes := make(map[uint]*model.CategoryNode, len(cats))
	for _, c := range cats {
		nodes[c.ID] = &model.CategoryNode{Category: *c, Children: []*model.CategoryNode{}}
	}
	var roots []*model.CategoryNode
	for _, c := range cats {
		node := nodes[c.ID]
		if c.ParentID != nil {
			if parent, ok := nodes[*c.ParentID]; ok {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}

	s.cache.SetCategoryTree(ctx, roots)
	return roots, nil
}

func (s *catalogService) CreateCategory(ctx context.Context, c *model.Category) error {
	if err := s.categoryRepo.Create(ctx, c); err != nil {
		return err
	}
	s.cache.InvalidateCategoryTree(ctx)
	return nil
}

func (s *catalogService) UpdateCategory(ctx context.Context, c *model.Category) error {
	if err := s.categoryRepo.Update(ctx, c); err != nil {
		return err
	}
	s.cache.InvalidateCategoryTree(ctx)
	return nil
}

func (s *catalogService) DeleteCategory(ctx context.Context, id uint) error {
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.InvalidateCategoryTree(ctx)
	return nil
}
