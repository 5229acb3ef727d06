package payment

import (
	"context"

	"github.com/vintek-market/internal/constants"

	"github.com/google/uuid"
)

// BankTransferStrategy 银行转账支付
type BankTransferStrategy struct{}

// Method 返回支付方式标识
func (s *BankTransferStrategy) Method() string {
	return constants.PaymentMethodBankTransfer
}

// Charge 执行银行转账扣款
func (s *BankTransferStrategy) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	account := sanitizeDigits(req.Detail["account_number"])
	if len(account) < 8 || len(account) > 17 {
		return declined("account number not recognized"), nil
	}
	routing := sanitizeDigits(req.Detail["routing_number"])
	if len(routing) != 9 {
		return declined("invalid routing number"), nil
	}
	if req.Amount.IsNegative() || req.Amount.IsZero() {
		return declined("transfer amount must be positive"), nil
	}
	return &ChargeResult{Reference: uuid.NewString()}, nil
}
