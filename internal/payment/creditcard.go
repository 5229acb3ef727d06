package payment

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/vintek-market/internal/constants"

	"github.com/google/uuid"
)

// CreditCardStrategy 信用卡支付
type CreditCardStrategy struct{}

// Method 返回支付方式标识
func (s *CreditCardStrategy) Method() string {
	return constants.PaymentMethodCreditCard
}

// Charge 执行信用卡扣款
func (s *CreditCardStrategy) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	number := sanitizeDigits(req.Detail["card_number"])
	if len(number) < 13 || len(number) > 19 || !luhnValid(number) {
		return declined("card number rejected by issuer"), nil
	}
	if !expiryValid(req.Detail["expiry"], time.Now()) {
		return declined("card expired"), nil
	}
	cvv := sanitizeDigits(req.Detail["cvv"])
	if len(cvv) < 3 || len(cvv) > 4 {
		return declined("invalid security code"), nil
	}
	if req.Amount.IsNegative() || req.Amount.IsZero() {
		return declined("charge amount must be positive"), nil
	}
	return &ChargeResult{Reference: uuid.NewString()}, nil
}

func declined(message string) *ChargeResult {
	return &ChargeResult{
		Reference: uuid.NewString(),
		Declined:  true,
		Message:   message,
	}
}

func sanitizeDigits(value string) string {
	var b strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// luhnValid 校验卡号 Luhn 检查位
func luhnValid(number string) bool {
	sum := 0
	double := false
	for i := len(number) - 1; i >= 0; i-- {
		digit := int(number[i] - '0')
		if double {
			digit *= 2
			if digit > 9 {
				digit -= 9
			}
		}
		sum += digit
		double = !double
	}
	return sum%10 == 0
}

// expiryValid 校验 MM/YY 格式的有效期
func expiryValid(expiry string, now time.Time) bool {
	parts := strings.Split(strings.TrimSpace(expiry), "/")
	if len(parts) != 2 {
		return false
	}
	month, err := strconv.Atoi(parts[0])
	if err != nil || month < 1 || month > 12 {
		return false
	}
	year, err := strconv.Atoi(parts[1])
	if err != nil {
		return false
	}
	if year < 100 {
		year += 2000
	}
	endOfMonth := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	return now.Before(endOfMonth)
}
