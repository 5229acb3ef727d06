package worker

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/vintek-market/internal/config"
	"github.com/vintek-market/internal/constants"
	"github.com/vintek-market/internal/models"
	"github.com/vintek-market/internal/provider"
	"github.com/vintek-market/internal/queue"
	"github.com/vintek-market/internal/repository"
	"github.com/vintek-market/internal/service"

	"github.com/glebarez/sqlite"
	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var workerTestDBSeq int64

func setupWorkerTest(t *testing.T) (*Consumer, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:worker_test_%d?mode=memory&cache=shared", atomic.AddInt64(&workerTestDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Order{},
		&models.OrderLine{},
		&models.Message{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	container := &provider.Container{
		UserRepo:     repository.NewUserRepository(db),
		ProductRepo:  repository.NewProductRepository(db),
		OrderRepo:    repository.NewOrderRepository(db),
		MessageRepo:  repository.NewMessageRepository(db),
		EmailService: service.NewEmailService(&config.EmailConfig{Enabled: false}),
	}
	return NewConsumer(container), db
}

func createWorkerUser(t *testing.T, db *gorm.DB, username, email string) *models.User {
	t.Helper()
	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: "x",
		Status:       constants.UserStatusActive,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return user
}

func TestConsumerRegisterNilSafe(t *testing.T) {
	var consumer *Consumer
	consumer.Register(nil)
	consumer.Register(asynq.NewServeMux())

	consumer, _ = setupWorkerTest(t)
	consumer.Register(nil)
	consumer.Register(asynq.NewServeMux())
}

func TestHandleMessageNotifyInvalidJSON(t *testing.T) {
	consumer, _ := setupWorkerTest(t)
	task := asynq.NewTask(queue.TaskMessageNotify, []byte("{not json"))
	if err := consumer.handleMessageNotify(context.Background(), task); err == nil {
		t.Fatalf("expected unmarshal error, got nil")
	}
}

func TestHandleMessageNotifySkipEmptyPayload(t *testing.T) {
	consumer, _ := setupWorkerTest(t)
	task, err := queue.NewMessageNotifyTask(queue.MessageNotifyPayload{})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleMessageNotify(context.Background(), task); err != nil {
		t.Fatalf("expected nil for empty payload, got %v", err)
	}
}

func TestHandleMessageNotifySkipMessageNotFound(t *testing.T) {
	consumer, _ := setupWorkerTest(t)
	task, err := queue.NewMessageNotifyTask(queue.MessageNotifyPayload{MessageID: 999, RecipientID: 1})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	// 消息已不存在的任务直接吞掉，不触发重试
	if err := consumer.handleMessageNotify(context.Background(), task); err != nil {
		t.Fatalf("expected nil for missing message, got %v", err)
	}
}

func TestHandleMessageNotifyWithoutTransport(t *testing.T) {
	consumer, db := setupWorkerTest(t)
	sender := createWorkerUser(t, db, "alice", "alice@example.com")
	recipient := createWorkerUser(t, db, "bob", "bob@example.com")
	message := &models.Message{
		SenderID:    sender.ID,
		RecipientID: recipient.ID,
		Content:     "is this still available?",
	}
	if err := db.Create(message).Error; err != nil {
		t.Fatalf("create message failed: %v", err)
	}

	task, err := queue.NewMessageNotifyTask(queue.MessageNotifyPayload{MessageID: message.ID, RecipientID: recipient.ID})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	// Redis 未启用且 Hub 为空时只能放弃投递，任务仍视为完成
	if err := consumer.handleMessageNotify(context.Background(), task); err != nil {
		t.Fatalf("expected nil without transport, got %v", err)
	}
}

func TestBuildMessageNotifyDataCarriesProductName(t *testing.T) {
	consumer, db := setupWorkerTest(t)
	sender := createWorkerUser(t, db, "carla", "carla@example.com")
	recipient := createWorkerUser(t, db, "dave", "dave@example.com")

	category := &models.Category{Name: "Books"}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("create category failed: %v", err)
	}
	product := &models.Product{
		OwnerID:    recipient.ID,
		CategoryID: category.ID,
		Name:       "Worn Paperback",
		Condition:  constants.ProductConditionGood,
		Price:      models.NewMoneyFromDecimal(decimal.NewFromInt(5)),
		Quantity:   1,
		IsActive:   true,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	message := &models.Message{
		SenderID:    sender.ID,
		RecipientID: recipient.ID,
		ProductID:   &product.ID,
		Content:     "still for sale?",
	}
	if err := db.Create(message).Error; err != nil {
		t.Fatalf("create message failed: %v", err)
	}

	data := consumer.buildMessageNotifyData(message)
	if data.SenderUsername != "carla" {
		t.Fatalf("sender username = %q, want carla", data.SenderUsername)
	}
	if data.ProductName != "Worn Paperback" {
		t.Fatalf("product name = %q, want Worn Paperback", data.ProductName)
	}
	if data.ProductID == nil || *data.ProductID != product.ID {
		t.Fatalf("product id not carried through")
	}

	// 无商品关联的消息不带商品名
	plain := &models.Message{SenderID: sender.ID, RecipientID: recipient.ID, Content: "hi"}
	if err := db.Create(plain).Error; err != nil {
		t.Fatalf("create plain message failed: %v", err)
	}
	if got := consumer.buildMessageNotifyData(plain); got.ProductName != "" || got.ProductID != nil {
		t.Fatalf("plain message should not carry product fields, got %+v", got)
	}
}

func TestHandleOrderSoldEmailInvalidJSON(t *testing.T) {
	consumer, _ := setupWorkerTest(t)
	task := asynq.NewTask(queue.TaskOrderSoldEmail, []byte("{not json"))
	if err := consumer.handleOrderSoldEmail(context.Background(), task); err == nil {
		t.Fatalf("expected unmarshal error, got nil")
	}
}

func TestHandleOrderSoldEmailSkipEmptyPayload(t *testing.T) {
	consumer, _ := setupWorkerTest(t)
	task, err := queue.NewOrderSoldEmailTask(queue.OrderSoldEmailPayload{})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleOrderSoldEmail(context.Background(), task); err != nil {
		t.Fatalf("expected nil for empty payload, got %v", err)
	}
}

func TestHandleOrderSoldEmailSkipSellerWithoutEmail(t *testing.T) {
	consumer, db := setupWorkerTest(t)
	buyer := createWorkerUser(t, db, "buyer", "buyer@example.com")
	seller := createWorkerUser(t, db, "seller", "seller@example.com")
	if err := db.Model(&models.User{}).Where("id = ?", seller.ID).Update("email", "  ").Error; err != nil {
		t.Fatalf("blank seller email failed: %v", err)
	}

	order := &models.Order{
		OrderNo:     "VK-TEST-1",
		UserID:      buyer.ID,
		Status:      constants.OrderStatusPending,
		TotalAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	task, err := queue.NewOrderSoldEmailTask(queue.OrderSoldEmailPayload{
		OrderID:  order.ID,
		SellerID: seller.ID,
		Quantity: 1,
	})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleOrderSoldEmail(context.Background(), task); err != nil {
		t.Fatalf("expected nil for seller without email, got %v", err)
	}
}

func TestHandleOrderSoldEmailSkipWhenEmailDisabled(t *testing.T) {
	consumer, db := setupWorkerTest(t)
	buyer := createWorkerUser(t, db, "buyer2", "buyer2@example.com")
	seller := createWorkerUser(t, db, "seller2", "seller2@example.com")

	category := &models.Category{Name: "Electronics"}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("create category failed: %v", err)
	}
	product := &models.Product{
		OwnerID:    seller.ID,
		CategoryID: category.ID,
		Name:       "Used Camera",
		Condition:  constants.ProductConditionGood,
		Price:      models.NewMoneyFromDecimal(decimal.NewFromInt(80)),
		Quantity:   3,
		IsActive:   true,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	order := &models.Order{
		OrderNo:     "VK-TEST-2",
		UserID:      buyer.ID,
		Status:      constants.OrderStatusPending,
		TotalAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(80)),
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	line := &models.OrderLine{
		OrderID:   order.ID,
		ProductID: product.ID,
		SellerID:  seller.ID,
		Quantity:  1,
		UnitPrice: product.Price,
	}
	if err := db.Create(line).Error; err != nil {
		t.Fatalf("create order line failed: %v", err)
	}

	task, err := queue.NewOrderSoldEmailTask(queue.OrderSoldEmailPayload{
		OrderID:   order.ID,
		ProductID: product.ID,
		SellerID:  seller.ID,
		Quantity:  1,
	})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	// 邮件服务关闭时任务完成但不发信
	if err := consumer.handleOrderSoldEmail(context.Background(), task); err != nil {
		t.Fatalf("expected nil with email disabled, got %v", err)
	}
}
