package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/vintek-market/internal/constants"
	"github.com/vintek-market/internal/logger"
	"github.com/vintek-market/internal/models"
	"github.com/vintek-market/internal/queue"
	"github.com/vintek-market/internal/repository"

	"gorm.io/gorm"
)

// OrderService 订单业务服务
type OrderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	cartRepo    repository.CartRepository
	queueClient *queue.Client
}

// NewOrderService 创建订单服务
func NewOrderService(orderRepo repository.OrderRepository, productRepo repository.ProductRepository, cartRepo repository.CartRepository, queueClient *queue.Client) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		cartRepo:    cartRepo,
		queueClient: queueClient,
	}
}

// 订单状态机：支付成功进入 Shipped，签收进入 Delivered
// Pending 与 Shipped 可取消，取消回补库存
var allowedTransitions = map[string]map[string]bool{
	constants.OrderStatusPending: {
		constants.OrderStatusShipped:   true,
		constants.OrderStatusCancelled: true,
	},
	constants.OrderStatusShipped: {
		constants.OrderStatusDelivered: true,
		constants.OrderStatusCancelled: true,
	},
}

func isTransitionAllowed(current, target string) bool {
	if current == target {
		return true
	}
	nexts, ok := allowedTransitions[current]
	if !ok {
		return false
	}
	return nexts[target]
}

// CreateOrderInput 创建订单输入
type CreateOrderInput struct {
	ShippingAddress string
	TotalAmount     models.Money
}

// CreateOrder 创建空订单
// 总额由调用方提供，后续订单行不回写该字段
func (s *OrderService) CreateOrder(userID uint, input CreateOrderInput) (*models.Order, error) {
	if input.TotalAmount.IsNegative() {
		return nil, ErrInvalidAmount
	}
	now := time.Now()
	order := &models.Order{
		OrderNo:         generateOrderNo(),
		UserID:          userID,
		Status:          constants.OrderStatusPending,
		TotalAmount:     input.TotalAmount,
		ShippingAddress: strings.TrimSpace(input.ShippingAddress),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.orderRepo.Create(order, nil); err != nil {
		return nil, err
	}
	return order, nil
}

// AddLine 向 Pending 订单追加商品行
// 扣库存与建行在同一事务，库存不足时整体回滚
func (s *OrderService) AddLine(orderID, userID, productID uint, quantity int) (*models.OrderLine, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	order, err := s.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.Status != constants.OrderStatusPending {
		return nil, ErrOrderStatusTransition
	}

	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, ErrProductNotFound
	}

	existing, err := s.orderRepo.GetLine(orderID, productID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateOrderLine
	}

	now := time.Now()
	line := &models.OrderLine{
		OrderID:   orderID,
		ProductID: productID,
		SellerID:  product.OwnerID,
		Quantity:  quantity,
		UnitPrice: product.Price,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		affected, err := s.productRepo.WithTx(tx).ReserveStock(productID, quantity)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrInsufficientStock
		}
		return s.orderRepo.WithTx(tx).CreateLine(line)
	})
	if err != nil {
		return nil, err
	}

	s.enqueueSoldEmail(order.ID, line)
	return line, nil
}

// CheckoutCart 结算购物车
// 所有商品行扣库存与订单创建在同一事务，任一商品库存不足则全部回滚
func (s *OrderService) CheckoutCart(userID uint, shippingAddress string) (*models.Order, error) {
	cart, err := s.cartRepo.GetActiveByUserWithItems(userID)
	if err != nil {
		return nil, err
	}
	if cart == nil || len(cart.Items) == 0 {
		return nil, ErrCartEmpty
	}

	now := time.Now()
	order := &models.Order{
		OrderNo:         generateOrderNo(),
		UserID:          userID,
		Status:          constants.OrderStatusPending,
		ShippingAddress: strings.TrimSpace(shippingAddress),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	lines := make([]models.OrderLine, 0, len(cart.Items))
	total := models.Money{}
	for _, item := range cart.Items {
		if item.Product == nil {
			return nil, ErrProductNotFound
		}
		line := models.OrderLine{
			ProductID: item.ProductID,
			SellerID:  item.Product.OwnerID,
			Quantity:  item.Quantity,
			UnitPrice: item.Product.Price,
			CreatedAt: now,
			UpdatedAt: now,
		}
		total = total.AddMoney(item.Product.Price.MulInt(item.Quantity))
		lines = append(lines, line)
	}
	order.TotalAmount = total

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		productRepo := s.productRepo.WithTx(tx)
		for _, line := range lines {
			affected, err := productRepo.ReserveStock(line.ProductID, line.Quantity)
			if err != nil {
				return err
			}
			if affected == 0 {
				return ErrInsufficientStock
			}
		}
		if err := s.orderRepo.WithTx(tx).Create(order, lines); err != nil {
			return err
		}
		return s.cartRepo.WithTx(tx).UpdateStatus(cart.ID, constants.CartStatusOrdered)
	})
	if err != nil {
		return nil, err
	}

	for i := range lines {
		s.enqueueSoldEmail(order.ID, &lines[i])
	}

	order.Lines = lines
	return order, nil
}

// GetOrderByUser 获取买家订单
func (s *OrderService) GetOrderByUser(orderID, userID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListOrdersByUser 买家订单列表
func (s *OrderService) ListOrdersByUser(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.ListByUser(filter)
}

// ListSoldOrders 卖家售出订单列表，只保留该卖家的订单行
func (s *OrderService) ListSoldOrders(sellerID uint, page, pageSize int) ([]models.Order, int64, error) {
	return s.orderRepo.ListBySeller(sellerID, page, pageSize)
}

// UpdateOrderStatus 更新订单状态（按状态机裁决）
// 取消订单时回补全部订单行库存，与状态写入同一事务
func (s *OrderService) UpdateOrderStatus(orderID, userID uint, targetStatus string) (*models.Order, error) {
	order, err := s.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if !isTransitionAllowed(order.Status, targetStatus) {
		return nil, ErrOrderStatusTransition
	}
	if order.Status == targetStatus {
		return order, nil
	}

	now := time.Now()
	updates := map[string]interface{}{
		"updated_at": now,
	}

	switch targetStatus {
	case constants.OrderStatusCancelled:
		updates["canceled_at"] = now
		err = models.DB.Transaction(func(tx *gorm.DB) error {
			productRepo := s.productRepo.WithTx(tx)
			for _, line := range order.Lines {
				if _, err := productRepo.ReleaseStock(line.ProductID, line.Quantity); err != nil {
					return err
				}
			}
			return s.orderRepo.WithTx(tx).UpdateStatus(order.ID, targetStatus, updates)
		})
	default:
		err = s.orderRepo.UpdateStatus(order.ID, targetStatus, updates)
	}
	if err != nil {
		return nil, err
	}

	logger.Infow("order_status_updated",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"from", order.Status,
		"to", targetStatus,
	)
	return s.orderRepo.GetByID(order.ID)
}

// CancelOrder 买家取消订单
func (s *OrderService) CancelOrder(orderID, userID uint) (*models.Order, error) {
	return s.UpdateOrderStatus(orderID, userID, constants.OrderStatusCancelled)
}

// markShipped 支付成功后流转订单状态，在支付事务内调用
func (s *OrderService) markShipped(tx *gorm.DB, order *models.Order, now time.Time) error {
	if !isTransitionAllowed(order.Status, constants.OrderStatusShipped) {
		return ErrOrderStatusTransition
	}
	return s.orderRepo.WithTx(tx).UpdateStatus(order.ID, constants.OrderStatusShipped, map[string]interface{}{
		"paid_at":    now,
		"updated_at": now,
	})
}

func (s *OrderService) enqueueSoldEmail(orderID uint, line *models.OrderLine) {
	if s.queueClient == nil || !s.queueClient.Enabled() {
		return
	}
	err := s.queueClient.EnqueueOrderSoldEmail(queue.OrderSoldEmailPayload{
		OrderID:   orderID,
		ProductID: line.ProductID,
		SellerID:  line.SellerID,
		Quantity:  line.Quantity,
	})
	if err != nil {
		logger.Warnw("order_sold_email_enqueue_failed",
			"order_id", orderID,
			"product_id", line.ProductID,
			"error", err,
		)
	}
}

func generateOrderNo() string {
	now := time.Now().Format("20060102150405")
	randPart := randNumeric(6)
	return fmt.Sprintf("VK%s%s", now, randPart)
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		b.WriteString(fmt.Sprintf("%d", n.Int64()))
	}
	return b.String()
}
