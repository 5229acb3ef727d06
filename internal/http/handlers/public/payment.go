package public

import (
	"github.com/vintek-market/internal/http/response"

	"github.com/gin-gonic/gin"
)

// PaymentRequest 支付请求
// detail 携带各支付方式的凭据字段（卡号、账号等）
type PaymentRequest struct {
	Method string            `json:"method" binding:"required"`
	Detail map[string]string `json:"detail"`
}

// PayOrder 对订单发起支付
// 拒付时订单保持待支付，网关原因原样返回
func (h *Handler) PayOrder(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	record, err := h.PaymentService.ProcessPayment(c.Request.Context(), orderID, userID, req.Method, req.Detail)
	if err != nil {
		respondPaymentError(c, err)
		return
	}
	response.Success(c, record)
}

// ListOrderPayments 订单支付记录（仅限本人）
func (h *Handler) ListOrderPayments(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	payments, err := h.PaymentService.ListByOrder(orderID, userID)
	if err != nil {
		respondPaymentError(c, err)
		return
	}
	response.Success(c, gin.H{"payments": payments})
}
