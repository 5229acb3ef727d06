package payment

import (
	"context"
	"errors"

	"github.com/vintek-market/internal/constants"
	"github.com/vintek-market/internal/models"
)

var (
	ErrUnknownMethod = errors.New("unknown payment method")
)

// ChargeRequest 扣款请求
type ChargeRequest struct {
	OrderNo string            // 订单编号
	UserID  uint              // 付款用户ID
	Amount  models.Money      // 扣款金额
	Detail  map[string]string // 各支付方式所需字段（卡号、账户等）
}

// ChargeResult 扣款结果
// Declined 为 true 时 Message 为网关返回的拒绝原因原文
type ChargeResult struct {
	Reference string // 支付流水号
	Declined  bool   // 是否被拒绝
	Message   string // 网关返回消息
}

// Strategy 支付方式处理接口
type Strategy interface {
	Method() string
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
}

// ForMethod 根据支付方式标识返回对应策略
// 未知标识属于调用方参数错误
func ForMethod(method string) (Strategy, error) {
	switch method {
	case constants.PaymentMethodCreditCard:
		return &CreditCardStrategy{}, nil
	case constants.PaymentMethodBankTransfer:
		return &BankTransferStrategy{}, nil
	case constants.PaymentMethodWallet:
		return &WalletStrategy{}, nil
	default:
		return nil, ErrUnknownMethod
	}
}
