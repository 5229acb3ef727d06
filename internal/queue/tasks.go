package queue

import (
	"encoding/json"

	"github.com/vintek-market/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskMessageNotify 站内消息实时推送任务
	TaskMessageNotify = constants.TaskMessageNotify
	// TaskOrderSoldEmail 商品售出卖家邮件通知任务
	TaskOrderSoldEmail = constants.TaskOrderSoldEmail
)

// MessageNotifyPayload 消息推送任务载荷
type MessageNotifyPayload struct {
	MessageID   uint `json:"message_id"`
	RecipientID uint `json:"recipient_id"`
}

// OrderSoldEmailPayload 售出邮件任务载荷
type OrderSoldEmailPayload struct {
	OrderID   uint `json:"order_id"`
	ProductID uint `json:"product_id"`
	SellerID  uint `json:"seller_id"`
	Quantity  int  `json:"quantity"`
}

// NewMessageNotifyTask 创建消息推送任务
func NewMessageNotifyTask(payload MessageNotifyPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskMessageNotify, body), nil
}

// NewOrderSoldEmailTask 创建售出邮件任务
func NewOrderSoldEmailTask(payload OrderSoldEmailPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderSoldEmail, body), nil
}
