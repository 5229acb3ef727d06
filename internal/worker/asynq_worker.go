package worker

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/vintek-market/internal/cache"
	"github.com/vintek-market/internal/logger"
	"github.com/vintek-market/internal/models"
	"github.com/vintek-market/internal/provider"
	"github.com/vintek-market/internal/queue"
	"github.com/vintek-market/internal/realtime"
	"github.com/vintek-market/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskMessageNotify, c.handleMessageNotify)
	mux.HandleFunc(queue.TaskOrderSoldEmail, c.handleOrderSoldEmail)
}

// messageNotifyData 推送给收件人的消息摘要
type messageNotifyData struct {
	MessageID      uint   `json:"message_id"`
	SenderID       uint   `json:"sender_id"`
	SenderUsername string `json:"sender_username"`
	ProductID      *uint  `json:"product_id,omitempty"`
	ProductName    string `json:"product_name,omitempty"`
	Content        string `json:"content"`
	CreatedAt      string `json:"created_at"`
}

// buildMessageNotifyData 补全发送者与商品名后组装推送摘要
func (c *Consumer) buildMessageNotifyData(message *models.Message) messageNotifyData {
	data := messageNotifyData{
		MessageID: message.ID,
		SenderID:  message.SenderID,
		ProductID: message.ProductID,
		Content:   message.Content,
		CreatedAt: message.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if sender, err := c.UserRepo.GetByID(message.SenderID); err == nil && sender != nil {
		data.SenderUsername = sender.Username
	}
	if message.ProductID != nil {
		if product, err := c.ProductRepo.GetByID(*message.ProductID); err == nil && product != nil {
			data.ProductName = product.Name
		}
	}
	return data
}

func (c *Consumer) handleMessageNotify(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_message_notify_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.MessageNotifyPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_message_notify_unmarshal_failed", "error", err)
		return err
	}
	if payload.MessageID == 0 || payload.RecipientID == 0 {
		logger.Debugw("worker_message_notify_skip_invalid_payload",
			"message_id", payload.MessageID,
			"recipient_id", payload.RecipientID,
		)
		return nil
	}
	message, err := c.MessageRepo.GetByID(payload.MessageID)
	if err != nil {
		logger.Warnw("worker_message_notify_fetch_failed", "message_id", payload.MessageID, "error", err)
		return err
	}
	if message == nil {
		logger.Debugw("worker_message_notify_skip_message_not_found", "message_id", payload.MessageID)
		return nil
	}

	data := c.buildMessageNotifyData(message)

	// Redis 可用时走跨实例分发，否则仅能投递本进程内的连接
	if cache.Enabled() {
		envelope := realtime.Envelope{Event: realtime.EventNewMessage, Data: data}
		if err := cache.Publish(ctx, realtime.UserChannel(payload.RecipientID), envelope); err != nil {
			logger.Warnw("worker_message_notify_publish_failed",
				"message_id", message.ID,
				"recipient_id", payload.RecipientID,
				"error", err,
			)
			return err
		}
		return nil
	}
	if c.Hub != nil {
		if _, err := c.Hub.BroadcastEvent(realtime.UserRoom(payload.RecipientID), realtime.EventNewMessage, data); err != nil {
			logger.Warnw("worker_message_notify_broadcast_failed",
				"message_id", message.ID,
				"recipient_id", payload.RecipientID,
				"error", err,
			)
			return err
		}
	}
	return nil
}

func (c *Consumer) handleOrderSoldEmail(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_sold_email_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OrderSoldEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_sold_email_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 || payload.SellerID == 0 {
		logger.Debugw("worker_order_sold_email_skip_invalid_payload",
			"order_id", payload.OrderID,
			"seller_id", payload.SellerID,
		)
		return nil
	}
	order, err := c.OrderRepo.GetByID(payload.OrderID)
	if err != nil {
		logger.Warnw("worker_order_sold_email_fetch_order_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
	if order == nil {
		logger.Debugw("worker_order_sold_email_skip_order_not_found", "order_id", payload.OrderID)
		return nil
	}
	seller, err := c.UserRepo.GetByID(payload.SellerID)
	if err != nil {
		logger.Warnw("worker_order_sold_email_fetch_seller_failed", "seller_id", payload.SellerID, "error", err)
		return err
	}
	if seller == nil || strings.TrimSpace(seller.Email) == "" {
		logger.Debugw("worker_order_sold_email_skip_empty_receiver", "seller_id", payload.SellerID)
		return nil
	}

	input := service.OrderSoldEmailInput{
		OrderNo:  order.OrderNo,
		Quantity: payload.Quantity,
	}
	for _, line := range order.Lines {
		if line.ProductID != payload.ProductID {
			continue
		}
		input.UnitPrice = line.UnitPrice
		if line.Product != nil {
			input.ProductName = line.Product.Name
		}
		break
	}
	if input.ProductName == "" {
		if product, err := c.ProductRepo.GetByID(payload.ProductID); err == nil && product != nil {
			input.ProductName = product.Name
		}
	}
	if buyer, err := c.UserRepo.GetByID(order.UserID); err == nil && buyer != nil {
		input.BuyerName = buyer.Username
	}

	if c.EmailService == nil {
		logger.Warnw("worker_order_sold_email_skip_email_service_nil", "order_id", order.ID)
		return nil
	}
	if err := c.EmailService.SendOrderSoldEmail(seller.Email, input); err != nil {
		if errors.Is(err, service.ErrEmailServiceDisabled) || errors.Is(err, service.ErrEmailServiceNotConfigured) {
			logger.Debugw("worker_order_sold_email_skip_disabled", "order_id", order.ID)
			return nil
		}
		logger.Warnw("worker_order_sold_email_send_failed",
			"order_id", order.ID,
			"order_no", order.OrderNo,
			"receiver_email", seller.Email,
			"error", err,
		)
		return err
	}
	return nil
}
