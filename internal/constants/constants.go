package constants

// 订单状态常量
const (
	OrderStatusPending   = "Pending"
	OrderStatusShipped   = "Shipped"
	OrderStatusDelivered = "Delivered"
	OrderStatusCancelled = "Cancelled"
)

// 购物车状态常量
const (
	CartStatusActive   = "Active"
	CartStatusInactive = "Inactive"
	CartStatusOrdered  = "Ordered"
)

// 商品成色常量
const (
	ProductConditionExcellent  = "Excellent"
	ProductConditionVeryGood   = "Very Good"
	ProductConditionGood       = "Good"
	ProductConditionAcceptable = "Acceptable"
	ProductConditionAsIs       = "As-Is"
)

// 支付方式常量
const (
	PaymentMethodCreditCard   = "credit_card"
	PaymentMethodBankTransfer = "bank_transfer"
	PaymentMethodWallet       = "wallet"
)

// 支付状态常量
const (
	PaymentStatusSucceeded = "succeeded"
	PaymentStatusFailed    = "failed"
)

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 队列名称常量
const (
	QueueDefault = "default"
)

// 队列任务名称常量
const (
	TaskMessageNotify  = "message:notify"
	TaskOrderSoldEmail = "order:sold_email"
)
