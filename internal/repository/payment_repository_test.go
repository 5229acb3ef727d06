package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/vintek-market/internal/constants"
	"github.com/vintek-market/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupPaymentRepositoryTest(t *testing.T) (*GormPaymentRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:payment_repo_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Order{},
		&models.Payment{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewPaymentRepository(db), db
}

func createTestPayment(t *testing.T, repo *GormPaymentRepository, orderID, userID uint, status, reference, reason string) *models.Payment {
	t.Helper()
	payment := &models.Payment{
		OrderID:       orderID,
		UserID:        userID,
		Method:        constants.PaymentMethodCreditCard,
		Amount:        models.NewMoneyFromDecimal(decimal.NewFromInt(120)),
		Status:        status,
		Reference:     reference,
		FailureReason: reason,
	}
	if err := repo.Create(payment); err != nil {
		t.Fatalf("create payment failed: %v", err)
	}
	return payment
}

func TestPaymentRepositoryAppendsAttemptsPerOrder(t *testing.T) {
	repo, _ := setupPaymentRepositoryTest(t)

	failed := createTestPayment(t, repo, 1, 1, constants.PaymentStatusFailed, "ref-fail-001", "card declined by issuer")
	succeeded := createTestPayment(t, repo, 1, 1, constants.PaymentStatusSucceeded, "ref-ok-001", "")
	createTestPayment(t, repo, 2, 1, constants.PaymentStatusSucceeded, "ref-ok-002", "")

	rows, err := repo.ListByOrderID(1)
	if err != nil {
		t.Fatalf("list by order failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows len want 2 got %d", len(rows))
	}
	// 最新记录在前
	if rows[0].ID != succeeded.ID {
		t.Fatalf("first row want latest payment id=%d got %d", succeeded.ID, rows[0].ID)
	}
	if rows[1].ID != failed.ID {
		t.Fatalf("second row want failed payment id=%d got %d", failed.ID, rows[1].ID)
	}
	if rows[1].FailureReason != "card declined by issuer" {
		t.Fatalf("failure reason want gateway message got %q", rows[1].FailureReason)
	}
}

func TestPaymentRepositoryGetByReference(t *testing.T) {
	repo, _ := setupPaymentRepositoryTest(t)
	created := createTestPayment(t, repo, 1, 1, constants.PaymentStatusSucceeded, "ref-lookup-001", "")

	got, err := repo.GetByReference("ref-lookup-001")
	if err != nil {
		t.Fatalf("get by reference failed: %v", err)
	}
	if got == nil || got.ID != created.ID {
		t.Fatalf("get by reference should return created payment")
	}

	got, err = repo.GetByReference("  ")
	if err != nil {
		t.Fatalf("get by blank reference failed: %v", err)
	}
	if got != nil {
		t.Fatalf("blank reference should return nil")
	}

	got, err = repo.GetByReference("ref-missing")
	if err != nil {
		t.Fatalf("get by missing reference failed: %v", err)
	}
	if got != nil {
		t.Fatalf("missing reference should return nil")
	}
}

func TestPaymentRepositoryListFilters(t *testing.T) {
	repo, _ := setupPaymentRepositoryTest(t)

	createTestPayment(t, repo, 1, 1, constants.PaymentStatusSucceeded, "ref-f-001", "")
	createTestPayment(t, repo, 1, 1, constants.PaymentStatusFailed, "ref-f-002", "insufficient funds")
	createTestPayment(t, repo, 2, 2, constants.PaymentStatusSucceeded, "ref-f-003", "")

	rows, total, err := repo.List(PaymentListFilter{Page: 1, PageSize: 10, UserID: 1})
	if err != nil {
		t.Fatalf("list by user failed: %v", err)
	}
	if total != 2 || len(rows) != 2 {
		t.Fatalf("user filter want 2 got total=%d len=%d", total, len(rows))
	}

	rows, total, err = repo.List(PaymentListFilter{Page: 1, PageSize: 10, Status: constants.PaymentStatusFailed})
	if err != nil {
		t.Fatalf("list by status failed: %v", err)
	}
	if total != 1 || len(rows) != 1 {
		t.Fatalf("status filter want 1 got total=%d len=%d", total, len(rows))
	}
	if rows[0].FailureReason != "insufficient funds" {
		t.Fatalf("failure reason want insufficient funds got %q", rows[0].FailureReason)
	}
}
