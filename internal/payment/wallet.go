package payment

import (
	"context"
	"strings"

	"github.com/vintek-market/internal/constants"

	"github.com/google/uuid"
)

// WalletStrategy 外部钱包支付
type WalletStrategy struct{}

// Method 返回支付方式标识
func (s *WalletStrategy) Method() string {
	return constants.PaymentMethodWallet
}

// Charge 执行钱包扣款
func (s *WalletStrategy) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	walletID := strings.TrimSpace(req.Detail["wallet_id"])
	if walletID == "" {
		return declined("wallet account required"), nil
	}
	token := strings.TrimSpace(req.Detail["wallet_token"])
	if len(token) < 8 {
		return declined("wallet authorization rejected"), nil
	}
	if req.Amount.IsNegative() || req.Amount.IsZero() {
		return declined("charge amount must be positive"), nil
	}
	return &ChargeResult{Reference: uuid.NewString()}, nil
}
