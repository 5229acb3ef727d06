package public

import (
	"errors"

	"github.com/vintek-market/internal/http/response"
	"github.com/vintek-market/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
// verbatim 为 true 时直接透传业务错误文本（如网关拒付原因）。
type mappedHandlerError struct {
	target   error
	code     int
	msg      string
	verbatim bool
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackMsg string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			msg := rule.msg
			if rule.verbatim {
				msg = err.Error()
			}
			respondError(c, rule.code, msg, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackMsg, err)
}

var cartErrorRules = []mappedHandlerError{
	{target: service.ErrProductNotFound, code: response.CodeNotFound, msg: "product not found"},
	{target: service.ErrProductNotAvailable, code: response.CodeBadRequest, msg: "product not available"},
	{target: service.ErrCartNotFound, code: response.CodeNotFound, msg: "cart not found"},
	{target: service.ErrCartItemNotFound, code: response.CodeNotFound, msg: "cart item not found"},
	{target: service.ErrInsufficientStock, code: response.CodeBadRequest, msg: "insufficient stock"},
	{target: service.ErrInvalidQuantity, code: response.CodeBadRequest, msg: "invalid quantity"},
}

var orderErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, msg: "order not found"},
	{target: service.ErrOrderStatusTransition, code: response.CodeBadRequest, msg: "order status transition not allowed"},
	{target: service.ErrCartEmpty, code: response.CodeBadRequest, msg: "cart is empty"},
	{target: service.ErrCartNotFound, code: response.CodeNotFound, msg: "cart not found"},
	{target: service.ErrInsufficientStock, code: response.CodeBadRequest, msg: "insufficient stock"},
	{target: service.ErrDuplicateOrderLine, code: response.CodeBadRequest, msg: "product already on order"},
	{target: service.ErrInvalidAmount, code: response.CodeBadRequest, msg: "invalid amount"},
	{target: service.ErrInvalidQuantity, code: response.CodeBadRequest, msg: "invalid quantity"},
	{target: service.ErrProductNotFound, code: response.CodeNotFound, msg: "product not found"},
	{target: service.ErrProductNotAvailable, code: response.CodeBadRequest, msg: "product not available"},
	{target: service.ErrForbidden, code: response.CodeForbidden, msg: "forbidden"},
}

var paymentErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, msg: "order not found"},
	{target: service.ErrOrderNotPayable, code: response.CodeBadRequest, msg: "order is not payable"},
	{target: service.ErrPaymentMethodUnknown, code: response.CodeBadRequest, msg: "unsupported payment method"},
	{target: service.ErrPaymentAmountMismatch, code: response.CodeBadRequest, msg: "payment amount mismatch"},
	{target: service.ErrPaymentDeclined, code: response.CodeBadRequest, verbatim: true},
}

var messageErrorRules = []mappedHandlerError{
	{target: service.ErrRecipientNotFound, code: response.CodeNotFound, msg: "recipient not found"},
	{target: service.ErrMessageNotFound, code: response.CodeNotFound, msg: "message not found"},
	{target: service.ErrNotFound, code: response.CodeNotFound, msg: "user not found"},
	{target: service.ErrSelfMessage, code: response.CodeBadRequest, msg: "cannot message yourself"},
	{target: service.ErrEmptyMessage, code: response.CodeBadRequest, msg: "message content is empty"},
	{target: service.ErrReplyMismatch, code: response.CodeBadRequest, msg: "reply does not belong to this conversation"},
	{target: service.ErrProductNotFound, code: response.CodeNotFound, msg: "product not found"},
	{target: service.ErrForbidden, code: response.CodeForbidden, msg: "forbidden"},
}

func respondCartError(c *gin.Context, err error) {
	respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "cart operation failed")
}

func respondOrderError(c *gin.Context, err error) {
	respondWithMappedError(c, err, orderErrorRules, response.CodeInternal, "order operation failed")
}

func respondPaymentError(c *gin.Context, err error) {
	respondWithMappedError(c, err, paymentErrorRules, response.CodeInternal, "payment failed")
}

func respondMessageError(c *gin.Context, err error) {
	respondWithMappedError(c, err, messageErrorRules, response.CodeInternal, "message operation failed")
}
