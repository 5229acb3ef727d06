package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/vintek-market/internal/config"
	"github.com/vintek-market/internal/models"

	"github.com/shopspring/decimal"
)

func TestSendOrderSoldEmailDisabled(t *testing.T) {
	svc := NewEmailService(&config.EmailConfig{Enabled: false})

	err := svc.SendOrderSoldEmail("seller@example.com", OrderSoldEmailInput{
		OrderNo:     "VK20260101000000123456",
		ProductName: "Smart Watch",
		Quantity:    1,
		UnitPrice:   models.NewMoneyFromDecimal(decimal.NewFromInt(119)),
	})
	if !errors.Is(err, ErrEmailServiceDisabled) {
		t.Fatalf("want ErrEmailServiceDisabled got %v", err)
	}
}

func TestSendOrderSoldEmailNotConfigured(t *testing.T) {
	svc := NewEmailService(&config.EmailConfig{Enabled: true})

	err := svc.SendOrderSoldEmail("seller@example.com", OrderSoldEmailInput{ProductName: "Smart Watch"})
	if !errors.Is(err, ErrEmailServiceNotConfigured) {
		t.Fatalf("want ErrEmailServiceNotConfigured got %v", err)
	}
}

func TestSendOrderSoldEmailInvalidRecipient(t *testing.T) {
	svc := NewEmailService(&config.EmailConfig{
		Enabled: true,
		Host:    "smtp.example.com",
		Port:    587,
		From:    "noreply@example.com",
	})

	err := svc.SendOrderSoldEmail("not-an-email", OrderSoldEmailInput{ProductName: "Smart Watch"})
	if !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("want ErrInvalidEmail got %v", err)
	}
}

func TestBuildFromAddress(t *testing.T) {
	got := buildFromAddress("noreply@example.com", "")
	if got != "noreply@example.com" {
		t.Fatalf("plain from want noreply@example.com got %s", got)
	}

	got = buildFromAddress("noreply@example.com", "Vintek Market")
	if !strings.Contains(got, "noreply@example.com") {
		t.Fatalf("named from should contain address, got %s", got)
	}
	if !strings.Contains(got, "Vintek Market") {
		t.Fatalf("named from should contain display name, got %s", got)
	}
}

func TestBuildEmailMessage(t *testing.T) {
	msg := buildEmailMessage("noreply@example.com", "seller@example.com", "Your item sold: Smart Watch", "body text")

	if !strings.Contains(msg, "From: noreply@example.com\r\n") {
		t.Fatalf("message missing From header: %q", msg)
	}
	if !strings.Contains(msg, "To: seller@example.com\r\n") {
		t.Fatalf("message missing To header: %q", msg)
	}
	if !strings.Contains(msg, "Subject: ") {
		t.Fatalf("message missing Subject header: %q", msg)
	}
	if !strings.HasSuffix(msg, "body text") {
		t.Fatalf("message should end with body: %q", msg)
	}
}

func TestIsEmailRecipientRejected(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "no such user", err: errors.New("550 No such user here"), want: true},
		{name: "recipient rejected", err: errors.New("Recipient address rejected: undeliverable"), want: true},
		{name: "550 mailbox", err: errors.New("550 requested action not taken: mailbox unavailable"), want: true},
		{name: "connection refused", err: errors.New("dial tcp: connection refused"), want: false},
		{name: "auth failed", err: errors.New("535 authentication failed"), want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := isEmailRecipientRejected(tc.err); got != tc.want {
				t.Fatalf("want %v got %v", tc.want, got)
			}
		})
	}
}

func TestNormalizeEmailSendError(t *testing.T) {
	if err := normalizeEmailSendError(nil); err != nil {
		t.Fatalf("nil error should stay nil, got %v", err)
	}

	err := normalizeEmailSendError(errors.New("550 5.1.1 recipient not found"))
	if !errors.Is(err, ErrEmailRecipientRejected) {
		t.Fatalf("want ErrEmailRecipientRejected got %v", err)
	}

	original := errors.New("451 temporary failure")
	if err := normalizeEmailSendError(original); err != original {
		t.Fatalf("unrelated error should pass through, got %v", err)
	}
}
