package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/d60-Lab/storefront/internal/model"
	"github.com/d60-Lab/storefront/internal/repository"
)

var ErrInvalidCartItem = errors.New("invalid cart item")

// Cart 购物车视图：行 + 小计
type Cart struct {
	Lines    []*model.CartLine `json:"lines"`
	Subtotal float64           `json:"subtotal"`
}

// CartService 购物车；库存只在下单事务里校验，这里只校验商品存在与数量为正
type CartService interface {
	AddItem(ctx context.Context, userID, productID uint, qty int) error
	UpdateQuantity(ctx context.Context, userID, productID uint, qty int) error
	Remove(ctx context.Context, userID, productID uint) error
	Clear(ctx context.Context, userID uint) error
	Get(ctx context.Context, userID uint) (*Cart, error)
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) CartService {
	return &cartService{cartRepo: cartRepo, productRepo: productRepo}
}

func (s *cartService) AddItem(ctx context.Context, userID, productID uint, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("%w: quantity must be positive", ErrInvalidCartItem)
	}
	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ProductNotFoundError{ProductID: productID}
		}
		return err
	}
	return s.cartRepo.AddItem(ctx, &model.CartItem{UserID: userID, ProductID: productID, Quantity: qty})
}

func (s *cartService) UpdateQuantity(ctx context.Context, userID, productID uint, qty int) error {
	if qty <= 0 {
		// 数量归零等同移除
		return s.cartRepo.Remove(ctx, userID, productID)
	}
	return s.cartRepo.UpdateQuantity(ctx, userID, productID, qty)
}

func (s *cartService) Remove(ctx context.Context, userID, productID uint) error {
	return s.cartRepo.Remove(ctx, userID, productID)
}

func (s *cartService) Clear(ctx context.Context, userID uint) error {
	return s.cartRepo.Clear(ctx, userID)
}

func (s *cartService) Get(ctx context.Context, userID uint) (*Cart, error) {
	lines, err := s.cartRepo.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	cart := &Cart{Lines: lines}
	for _, l := range lines {
		cart.Subtotal += l.ProductPrice * float64(l.Quantity)
	}
	return cart, nil
}
