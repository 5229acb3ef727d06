package service

import "errors"

// 服务层统一错误定义，供 Handler 层 errors.Is 映射为响应码
var (
	ErrNotFound           = errors.New("resource not found")
	ErrForbidden          = errors.New("operation not allowed for current user")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserDisabled       = errors.New("user account disabled")
	ErrEmailExists        = errors.New("email already registered")
	ErrUsernameExists     = errors.New("username already taken")
	ErrUsernameRequired   = errors.New("username required")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrWeakPassword       = errors.New("password too weak")
	ErrInvalidEmail       = errors.New("invalid email address")

	ErrCategoryNotFound     = errors.New("category not found")
	ErrCategoryNameRequired = errors.New("category name required")
	ErrCategoryNameExists   = errors.New("category name already exists")
	ErrCategoryInUse        = errors.New("category has products attached")

	ErrProductNotFound     = errors.New("product not found")
	ErrProductNotAvailable = errors.New("product not available")
	ErrInvalidQuantity     = errors.New("invalid quantity")
	ErrInsufficientStock   = errors.New("insufficient stock")

	ErrCartNotFound     = errors.New("cart not found")
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrCartEmpty        = errors.New("cart is empty")

	ErrOrderNotFound          = errors.New("order not found")
	ErrOrderStatusTransition  = errors.New("order status transition not allowed")
	ErrOrderNotPayable        = errors.New("order is not payable")
	ErrDuplicateOrderLine     = errors.New("product already added to order")
	ErrInvalidAmount          = errors.New("invalid amount")
	ErrPaymentMethodUnknown   = errors.New("unknown payment method")
	ErrPaymentDeclined        = errors.New("payment declined")
	ErrPaymentAmountMismatch  = errors.New("payment amount does not match order total")

	ErrMessageNotFound    = errors.New("message not found")
	ErrRecipientNotFound  = errors.New("recipient not found")
	ErrEmptyMessage       = errors.New("message content is empty")
	ErrSelfMessage        = errors.New("cannot send message to yourself")
	ErrReplyMismatch      = errors.New("reply does not belong to this conversation")

	ErrEmailServiceDisabled      = errors.New("email service disabled")
	ErrEmailServiceNotConfigured = errors.New("email service not configured")
	ErrEmailRecipientRejected    = errors.New("email recipient rejected")

	ErrQueueUnavailable = errors.New("queue service unavailable")
)
