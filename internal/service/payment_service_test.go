package service

import (
	"context"
	"errors"
	"testing"

	"github.com/vintek-market/internal/constants"
	"github.com/vintek-market/internal/models"
	"github.com/vintek-market/internal/repository"

	"gorm.io/gorm"
)

func newPaymentServiceForTest(db *gorm.DB) (*PaymentService, *OrderService) {
	orderService, _ := newOrderServiceForTest(db)
	paymentRepo := repository.NewPaymentRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	return NewPaymentService(paymentRepo, orderRepo, orderService), orderService
}

// validCardDetail 通过 Luhn 校验的测试卡
func validCardDetail() map[string]string {
	return map[string]string{
		"card_number": "4242 4242 4242 4242",
		"expiry":      "12/39",
		"cvv":         "123",
	}
}

func seedPayableOrder(t *testing.T, orderService *OrderService, db *gorm.DB, buyerID uint) *models.Order {
	t.Helper()
	product := seedProduct(t, db, buyerID+100, "Record Player", 90, 5)
	order, err := orderService.CreateOrder(buyerID, CreateOrderInput{
		ShippingAddress: "7 Pine Rd",
		TotalAmount:     models.NewMoneyFromDecimal(product.Price.Decimal),
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if _, err := orderService.AddLine(order.ID, buyerID, product.ID, 1); err != nil {
		t.Fatalf("add line failed: %v", err)
	}
	return order
}

func TestProcessPaymentSuccessShipsOrder(t *testing.T) {
	db := setupServiceDB(t)
	svc, orderService := newPaymentServiceForTest(db)
	order := seedPayableOrder(t, orderService, db, 1)

	record, err := svc.ProcessPayment(context.Background(), order.ID, 1, constants.PaymentMethodCreditCard, validCardDetail())
	if err != nil {
		t.Fatalf("process payment failed: %v", err)
	}
	if record.Status != constants.PaymentStatusSucceeded {
		t.Fatalf("want status succeeded, got %q", record.Status)
	}
	if record.Reference == "" || record.PaidAt == nil {
		t.Fatalf("incomplete payment record: %+v", record)
	}
	if record.Amount.String() != "90.00" {
		t.Fatalf("want amount 90.00, got %q", record.Amount.String())
	}

	updated, err := orderService.GetOrderByUser(order.ID, 1)
	if err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if updated.Status != constants.OrderStatusShipped {
		t.Fatalf("want order Shipped after payment, got %q", updated.Status)
	}
	if updated.PaidAt == nil {
		t.Fatalf("expected paid_at set")
	}
}

func TestProcessPaymentDeclinedKeepsOrderPending(t *testing.T) {
	db := setupServiceDB(t)
	svc, orderService := newPaymentServiceForTest(db)
	order := seedPayableOrder(t, orderService, db, 2)

	detail := validCardDetail()
	detail["card_number"] = "4242 4242 4242 4241"
	record, err := svc.ProcessPayment(context.Background(), order.ID, 2, constants.PaymentMethodCreditCard, detail)
	if !errors.Is(err, ErrPaymentDeclined) {
		t.Fatalf("want ErrPaymentDeclined, got %v", err)
	}
	// 拒绝原因原文透传
	if err.Error() != "card number rejected by issuer" {
		t.Fatalf("want gateway message verbatim, got %q", err.Error())
	}
	if record == nil || record.Status != constants.PaymentStatusFailed {
		t.Fatalf("want failed payment record, got %+v", record)
	}
	if record.FailureReason != "card number rejected by issuer" {
		t.Fatalf("want failure reason recorded, got %q", record.FailureReason)
	}

	// 订单留在 Pending，失败记录已落库
	updated, err := orderService.GetOrderByUser(order.ID, 2)
	if err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if updated.Status != constants.OrderStatusPending {
		t.Fatalf("want order still Pending, got %q", updated.Status)
	}
	records, err := svc.ListByOrder(order.ID, 2)
	if err != nil {
		t.Fatalf("list payments failed: %v", err)
	}
	if len(records) != 1 || records[0].Status != constants.PaymentStatusFailed {
		t.Fatalf("want one failed record, got %+v", records)
	}
}

func TestProcessPaymentRetryAfterDecline(t *testing.T) {
	db := setupServiceDB(t)
	svc, orderService := newPaymentServiceForTest(db)
	order := seedPayableOrder(t, orderService, db, 3)

	detail := validCardDetail()
	detail["cvv"] = "1"
	if _, err := svc.ProcessPayment(context.Background(), order.ID, 3, constants.PaymentMethodCreditCard, detail); !errors.Is(err, ErrPaymentDeclined) {
		t.Fatalf("want decline on bad cvv, got %v", err)
	}

	if _, err := svc.ProcessPayment(context.Background(), order.ID, 3, constants.PaymentMethodCreditCard, validCardDetail()); err != nil {
		t.Fatalf("retry after decline failed: %v", err)
	}

	records, err := svc.ListByOrder(order.ID, 3)
	if err != nil {
		t.Fatalf("list payments failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("want both attempts recorded, got %d", len(records))
	}
}

func TestProcessPaymentGuards(t *testing.T) {
	db := setupServiceDB(t)
	svc, orderService := newPaymentServiceForTest(db)
	order := seedPayableOrder(t, orderService, db, 4)

	if _, err := svc.ProcessPayment(context.Background(), order.ID, 4, "carrier_pigeon", nil); !errors.Is(err, ErrPaymentMethodUnknown) {
		t.Fatalf("want ErrPaymentMethodUnknown, got %v", err)
	}
	// 订单归属校验
	if _, err := svc.ProcessPayment(context.Background(), order.ID, 999, constants.PaymentMethodCreditCard, validCardDetail()); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("want ErrOrderNotFound for other user, got %v", err)
	}

	if _, err := svc.ProcessPayment(context.Background(), order.ID, 4, constants.PaymentMethodCreditCard, validCardDetail()); err != nil {
		t.Fatalf("pay order failed: %v", err)
	}
	// 已发货订单不可再支付
	if _, err := svc.ProcessPayment(context.Background(), order.ID, 4, constants.PaymentMethodCreditCard, validCardDetail()); !errors.Is(err, ErrOrderNotPayable) {
		t.Fatalf("want ErrOrderNotPayable, got %v", err)
	}
}

func TestProcessPaymentWalletMethod(t *testing.T) {
	db := setupServiceDB(t)
	svc, orderService := newPaymentServiceForTest(db)
	order := seedPayableOrder(t, orderService, db, 5)

	if _, err := svc.ProcessPayment(context.Background(), order.ID, 5, constants.PaymentMethodWallet, map[string]string{
		"wallet_id": "w-100",
	}); !errors.Is(err, ErrPaymentDeclined) {
		t.Fatalf("want decline without token, got %v", err)
	}

	record, err := svc.ProcessPayment(context.Background(), order.ID, 5, constants.PaymentMethodWallet, map[string]string{
		"wallet_id":    "w-100",
		"wallet_token": "tok_12345678",
	})
	if err != nil {
		t.Fatalf("wallet payment failed: %v", err)
	}
	if record.Method != constants.PaymentMethodWallet {
		t.Fatalf("want wallet method recorded, got %q", record.Method)
	}
}

func TestListByOrderScopedToBuyer(t *testing.T) {
	db := setupServiceDB(t)
	svc, orderService := newPaymentServiceForTest(db)
	order := seedPayableOrder(t, orderService, db, 6)

	if _, err := svc.ProcessPayment(context.Background(), order.ID, 6, constants.PaymentMethodCreditCard, validCardDetail()); err != nil {
		t.Fatalf("pay order failed: %v", err)
	}
	if _, err := svc.ListByOrder(order.ID, 999); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("want ErrOrderNotFound for outsider, got %v", err)
	}
	records, err := svc.ListByOrder(order.ID, 6)
	if err != nil {
		t.Fatalf("list payments failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("want 1 payment, got %d", len(records))
	}
}
