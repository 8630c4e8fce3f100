package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"path"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/d60-Lab/storefront/internal/imagehost"
	"github.com/d60-Lab/storefront/internal/model"
	"github.com/d60-Lab/storefront/internal/repository"
	"github.com/d60-Lab/storefront/pkg/logger"
)

var (
	ErrInvalidOrder  = errors.New("invalid order request")
	ErrInvalidStatus = errors.New("invalid order status")
)

// ProductNotFoundError 订单行引用的商品不存在
type ProductNotFoundError struct {
	ProductID uint
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product not found: %d", e.ProductID)
}

// InsufficientStockError 请求数量超过可用库存
type InsufficientStockError struct {
	ProductID uint
	Name      string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q: available %d, requested %d", e.Name, e.Available, e.Requested)
}

// PlaceOrderItem 下单行：商品、数量与结算时锁定的单价
type PlaceOrderItem struct {
	ProductID uint    `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// ShippingInfo 收货信息快照
type ShippingInfo struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

// PlaceOrderInput 下单入参
type PlaceOrderInput struct {
	UserID      uint
	Items       []PlaceOrderItem
	Shipping    ShippingInfo
	PaymentType string
	// 付款凭证，仅银行转账时可能携带
	ProofFilename string
	ProofFile     io.Reader
}

// OrderService 订单服务：下单事务、详情读取与管理端状态流转
type OrderService interface {
	PlaceOrder(ctx context.Context, in PlaceOrderInput) (uint, error)
	GetOrder(ctx context.Context, orderID uint) (*model.OrderDetail, error)
	ListUserOrders(ctx context.Context, userID uint, page, pageSize int) ([]*model.Order, error)
	ListOrders(ctx context.Context, status string, page, pageSize int) ([]*model.Order, int64, error)
	UpdateStatus(ctx context.Context, orderID uint, status string) error
}

type orderService struct {
	db          *gorm.DB
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	notifRepo   repository.NotificationRepository
	uploader    imagehost.Uploader
}

func NewOrderService(
	db *gorm.DB,
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	notifRepo repository.NotificationRepository,
	uploader imagehost.Uploader,
) OrderService {
	return &orderService{
		db:          db,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		notifRepo:   notifRepo,
		uploader:    uploader,
	}
}

// PlaceOrder 在单个事务内落单：建订单 → 逐行校验库存并扣减 → 重算总价 → 发通知。
// 任何一步失败整体回滚；付款凭证上传在事务外，失败不阻塞下单。
func (s *orderService) PlaceOrder(ctx context.Context, in PlaceOrderInput) (uint, error) {
	if err := validatePlaceOrder(in); err != nil {
		return 0, err
	}

	proofURL := s.uploadProof(ctx, in)

	var orderID uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order := &model.Order{
			UserID:          in.UserID,
			ShippingName:    in.Shipping.Name,
			ShippingAddress: in.Shipping.Address,
			ShippingPhone:   in.Shipping.Phone,
			ShippingEmail:   in.Shipping.Email,
			Status:          model.OrderStatusPending,
			PaymentType:     in.PaymentType,
			PaymentProofURL: proofURL,
		}
		if err := tx.Create(order).Error; err != nil {
			return err
		}

		for _, item := range in.Items {
			// 库存和商品名以事务内的当前值为准，不信任调用方快照
			var product model.Product
			if err := tx.First(&product, item.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &ProductNotFoundError{ProductID: item.ProductID}
				}
				return err
			}

			orderItem := &model.OrderItem{
				OrderID:   order.ID,
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				Price:     item.Price,
			}
			if err := tx.Create(orderItem).Error; err != nil {
				return err
			}

			ok, err := s.productRepo.DecrementStock(ctx, tx, item.ProductID, item.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return &InsufficientStockError{
					ProductID: product.ID,
					Name:      product.Name,
					Available: product.StockQuantity,
					Requested: item.Quantity,
				}
			}
		}

		// 总价从订单行重新聚合，不用内存累加
		var total float64
		if err := tx.Model(&model.OrderItem{}).
			Select("COALESCE(SUM(price * quantity), 0)").
			Where("order_id = ?", order.ID).
			Scan(&total).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Order{}).Where("id = ?", order.ID).Update("total", total).Error; err != nil {
			return err
		}

		adminNotif := &model.Notification{
			Type:    model.NotificationNewOrder,
			OrderID: &order.ID,
			Message: fmt.Sprintf("New order #%d placed", order.ID),
		}
		if err := s.notifRepo.Create(ctx, tx, adminNotif); err != nil {
			return err
		}

		userID := in.UserID
		customerNotif := &model.Notification{
			UserID:  &userID,
			Type:    model.NotificationCustomerOrder,
			OrderID: &order.ID,
			Message: "notification.customer_order_placed",
		}
		if err := s.notifRepo.Create(ctx, tx, customerNotif); err != nil {
			return err
		}

		orderID = order.ID
		return nil
	})
	if err != nil {
		return 0, err
	}

	logger.Info("order placed",
		zap.Uint("order_id", orderID),
		zap.Uint("user_id", in.UserID),
		zap.Int("items", len(in.Items)))
	return orderID, nil
}

// uploadProof 事务外上传付款凭证，失败仅告警
func (s *orderService) uploadProof(ctx context.Context, in PlaceOrderInput) *string {
	if in.PaymentType != model.PaymentBankTransfer || in.ProofFile == nil {
		return nil
	}
	name := uuid.New().String() + path.Ext(in.ProofFilename)
	url, err := s.uploader.Upload(ctx, name, in.ProofFile)
	if err != nil {
		logger.Warn("payment proof upload failed, proceeding without it",
			zap.Uint("user_id", in.UserID), zap.Error(err))
		return nil
	}
	return &url
}

func validatePlaceOrder(in PlaceOrderInput) error {
	if in.UserID == 0 {
		return fmt.Errorf("%w: user id required", ErrInvalidOrder)
	}
	if len(in.Items) == 0 {
		return fmt.Errorf("%w: items required", ErrInvalidOrder)
	}
	for _, item := range in.Items {
		if item.ProductID == 0 || item.Quantity <= 0 {
			return fmt.Errorf("%w: each item needs a product id and a positive quantity", ErrInvalidOrder)
		}
	}
	sh := in.Shipping
	if sh.Name == "" || sh.Address == "" || sh.Phone == "" || sh.Email == "" {
		return fmt.Errorf("%w: shipping info required", ErrInvalidOrder)
	}
	if !model.ValidPaymentType(in.PaymentType) {
		return fmt.Errorf("%w: unknown payment type %q", ErrInvalidOrder, in.PaymentType)
	}
	return nil
}

// GetOrder 订单详情；落库总价缺失、非数或为零时从订单行重算兜底
func (s *orderService) GetOrder(ctx context.Context, orderID uint) (*model.OrderDetail, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	items, err := s.orderRepo.GetItems(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.Total == nil || *order.Total == 0 || math.IsNaN(*order.Total) {
		total, err := s.orderRepo.SumItems(ctx, orderID)
		if err != nil {
			return nil, err
		}
		order.Total = &total
	}

	return &model.OrderDetail{Order: *order, Items: items}, nil
}

func (s *orderService) ListUserOrders(ctx context.Context, userID uint, page, pageSize int) ([]*model.Order, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	return s.orderRepo.ListByUser(ctx, userID, (page-1)*pageSize, pageSize)
}

func (s *orderService) ListOrders(ctx context.Context, status string, page, pageSize int) ([]*model.Order, int64, error) {
	if status != "" && !model.ValidOrderStatus(status) {
		return nil, 0, ErrInvalidStatus
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	return s.orderRepo.List(ctx, status, (page-1)*pageSize, pageSize)
}

// UpdateStatus 管理端流转订单状态，并通知下单顾客
func (s *orderService) UpdateStatus(ctx context.Context, orderID uint, status string) error {
	if !model.ValidOrderStatus(status) {
		return ErrInvalidStatus
	}
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if err := s.orderRepo.UpdateStatus(ctx, orderID, status); err != nil {
		return err
	}

	userID := order.UserID
	notif := &model.Notification{
		UserID:  &userID,
		Type:    model.NotificationOrderStatusUpdated,
		OrderID: &orderID,
		Message: "notification.order_status_updated." + status,
	}
	if err := s.notifRepo.Create(ctx, nil, notif); err != nil {
		// 通知失败不回滚状态变更
		logger.Warn("status notification failed", zap.Uint("order_id", orderID), zap.Error(err))
	}
	return nil
}
