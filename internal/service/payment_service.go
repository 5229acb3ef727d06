package service

import (
	"context"
	"errors"
	"time"

	"github.com/vintek-market/internal/constants"
	"github.com/vintek-market/internal/logger"
	"github.com/vintek-market/internal/models"
	"github.com/vintek-market/internal/payment"
	"github.com/vintek-market/internal/repository"

	"gorm.io/gorm"
)

// PaymentService 支付业务服务
type PaymentService struct {
	paymentRepo  repository.PaymentRepository
	orderRepo    repository.OrderRepository
	orderService *OrderService
}

// NewPaymentService 创建支付服务
func NewPaymentService(paymentRepo repository.PaymentRepository, orderRepo repository.OrderRepository, orderService *OrderService) *PaymentService {
	return &PaymentService{
		paymentRepo:  paymentRepo,
		orderRepo:    orderRepo,
		orderService: orderService,
	}
}

// paymentDeclinedError 携带网关拒绝原文
type paymentDeclinedError struct {
	message string
}

func (e paymentDeclinedError) Error() string {
	return e.message
}

func (e paymentDeclinedError) Is(target error) bool {
	return target == ErrPaymentDeclined
}

// ProcessPayment 对 Pending 订单发起扣款
// 成功时支付记录与订单流转在同一事务写入
// 被拒绝时订单保持 Pending，失败记录在事务之外追加，不参与回滚
func (s *PaymentService) ProcessPayment(ctx context.Context, orderID, userID uint, method string, detail map[string]string) (*models.Payment, error) {
	order, err := s.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.Status != constants.OrderStatusPending {
		return nil, ErrOrderNotPayable
	}

	strategy, err := payment.ForMethod(method)
	if err != nil {
		if errors.Is(err, payment.ErrUnknownMethod) {
			return nil, ErrPaymentMethodUnknown
		}
		return nil, err
	}

	result, err := strategy.Charge(ctx, payment.ChargeRequest{
		OrderNo: order.OrderNo,
		UserID:  userID,
		Amount:  order.TotalAmount,
		Detail:  detail,
	})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	record := &models.Payment{
		OrderID:   order.ID,
		UserID:    userID,
		Method:    method,
		Amount:    order.TotalAmount,
		Reference: result.Reference,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if result.Declined {
		record.Status = constants.PaymentStatusFailed
		record.FailureReason = result.Message
		if err := s.paymentRepo.Create(record); err != nil {
			logger.Errorw("payment_failure_record_write_failed",
				"order_id", order.ID,
				"error", err,
			)
		}
		logger.Infow("payment_declined",
			"order_id", order.ID,
			"order_no", order.OrderNo,
			"method", method,
			"reason", result.Message,
		)
		return record, paymentDeclinedError{message: result.Message}
	}

	record.Status = constants.PaymentStatusSucceeded
	record.PaidAt = &now
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.paymentRepo.WithTx(tx).Create(record); err != nil {
			return err
		}
		return s.orderService.markShipped(tx, order, now)
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("payment_succeeded",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"method", method,
		"reference", record.Reference,
	)
	return record, nil
}

// ListByOrder 获取订单支付记录（仅限订单买家）
func (s *PaymentService) ListByOrder(orderID, userID uint) ([]models.Payment, error) {
	order, err := s.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return s.paymentRepo.ListByOrderID(orderID)
}
