package payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vintek-market/internal/constants"
	"github.com/vintek-market/internal/models"

	"github.com/shopspring/decimal"
)

func moneyFromInt(value int64) models.Money {
	return models.NewMoneyFromDecimal(decimal.NewFromInt(value))
}

func TestForMethodDispatch(t *testing.T) {
	cases := []struct {
		method string
	}{
		{constants.PaymentMethodCreditCard},
		{constants.PaymentMethodBankTransfer},
		{constants.PaymentMethodWallet},
	}
	for _, tc := range cases {
		strategy, err := ForMethod(tc.method)
		if err != nil {
			t.Fatalf("expected strategy for %s, got error: %v", tc.method, err)
		}
		if strategy.Method() != tc.method {
			t.Fatalf("strategy method mismatch: got=%s expected=%s", strategy.Method(), tc.method)
		}
	}
}

func TestForMethodUnknown(t *testing.T) {
	if _, err := ForMethod("cash_on_delivery"); !errors.Is(err, ErrUnknownMethod) {
		t.Fatalf("expected ErrUnknownMethod, got: %v", err)
	}
}

func TestCreditCardChargeSuccess(t *testing.T) {
	strategy := &CreditCardStrategy{}
	result, err := strategy.Charge(context.Background(), ChargeRequest{
		OrderNo: "VK20260101000001",
		Amount:  moneyFromInt(100),
		Detail: map[string]string{
			"card_number": "4242 4242 4242 4242",
			"expiry":      "12/39",
			"cvv":         "123",
		},
	})
	if err != nil {
		t.Fatalf("charge failed: %v", err)
	}
	if result.Declined {
		t.Fatalf("expected approval, got decline: %s", result.Message)
	}
	if result.Reference == "" {
		t.Fatal("expected non-empty reference")
	}
}

func TestCreditCardChargeDeclinedBadLuhn(t *testing.T) {
	strategy := &CreditCardStrategy{}
	result, err := strategy.Charge(context.Background(), ChargeRequest{
		Amount: moneyFromInt(100),
		Detail: map[string]string{
			"card_number": "4242424242424241",
			"expiry":      "12/39",
			"cvv":         "123",
		},
	})
	if err != nil {
		t.Fatalf("charge failed: %v", err)
	}
	if !result.Declined {
		t.Fatal("expected decline for invalid card number")
	}
	if result.Message == "" {
		t.Fatal("expected gateway decline message")
	}
}

func TestExpiryValid(t *testing.T) {
	now := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	if expiryValid("05/26", now) {
		t.Fatal("expected card expired in past month")
	}
	if !expiryValid("06/26", now) {
		t.Fatal("expected card valid through end of current month")
	}
	if expiryValid("13/30", now) {
		t.Fatal("expected invalid month to fail")
	}
}

func TestBankTransferChargeValidatesAccount(t *testing.T) {
	strategy := &BankTransferStrategy{}
	result, err := strategy.Charge(context.Background(), ChargeRequest{
		Amount: moneyFromInt(50),
		Detail: map[string]string{
			"account_number": "1234",
			"routing_number": "021000021",
		},
	})
	if err != nil {
		t.Fatalf("charge failed: %v", err)
	}
	if !result.Declined {
		t.Fatal("expected decline for short account number")
	}
}

func TestWalletChargeSuccess(t *testing.T) {
	strategy := &WalletStrategy{}
	result, err := strategy.Charge(context.Background(), ChargeRequest{
		Amount: moneyFromInt(75),
		Detail: map[string]string{
			"wallet_id":    "buyer@example.com",
			"wallet_token": "tok_1234567890",
		},
	})
	if err != nil {
		t.Fatalf("charge failed: %v", err)
	}
	if result.Declined {
		t.Fatalf("expected approval, got decline: %s", result.Message)
	}
}

func TestChargeRejectsNonPositiveAmount(t *testing.T) {
	strategy := &WalletStrategy{}
	result, err := strategy.Charge(context.Background(), ChargeRequest{
		Amount: moneyFromInt(0),
		Detail: map[string]string{
			"wallet_id":    "buyer@example.com",
			"wallet_token": "tok_1234567890",
		},
	})
	if err != nil {
		t.Fatalf("charge failed: %v", err)
	}
	if !result.Declined {
		t.Fatal("expected decline for zero amount")
	}
}
