package service

import (
	"strings"

	"github.com/vintek-market/internal/logger"
	"github.com/vintek-market/internal/models"
	"github.com/vintek-market/internal/queue"
	"github.com/vintek-market/internal/repository"
)

// MessageService 站内消息业务服务
type MessageService struct {
	messageRepo repository.MessageRepository
	userRepo    repository.UserRepository
	productRepo repository.ProductRepository
	queueClient *queue.Client
}

// NewMessageService 创建消息服务
func NewMessageService(messageRepo repository.MessageRepository, userRepo repository.UserRepository, productRepo repository.ProductRepository, queueClient *queue.Client) *MessageService {
	return &MessageService{
		messageRepo: messageRepo,
		userRepo:    userRepo,
		productRepo: productRepo,
		queueClient: queueClient,
	}
}

// SendMessageInput 发送消息输入
type SendMessageInput struct {
	RecipientID uint
	ProductID   *uint
	ReplyToID   *uint
	Content     string
}

// SendMessage 发送站内消息
// 回复必须指向同一双方会话内的消息
// 投递成功后通过队列触发实时推送，推送失败不影响消息写入
func (s *MessageService) SendMessage(senderID uint, input SendMessageInput) (*models.Message, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, ErrEmptyMessage
	}
	if input.RecipientID == senderID {
		return nil, ErrSelfMessage
	}

	recipient, err := s.userRepo.GetByID(input.RecipientID)
	if err != nil {
		return nil, err
	}
	if recipient == nil {
		return nil, ErrRecipientNotFound
	}

	if input.ProductID != nil {
		product, err := s.productRepo.GetByID(*input.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, ErrProductNotFound
		}
	}

	if input.ReplyToID != nil {
		parent, err := s.messageRepo.GetByID(*input.ReplyToID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, ErrMessageNotFound
		}
		if !samePair(parent, senderID, input.RecipientID) {
			return nil, ErrReplyMismatch
		}
		if !sameProductScope(parent.ProductID, input.ProductID) {
			return nil, ErrReplyMismatch
		}
	}

	message := &models.Message{
		SenderID:    senderID,
		RecipientID: input.RecipientID,
		ProductID:   input.ProductID,
		ReplyToID:   input.ReplyToID,
		Content:     content,
	}
	if err := s.messageRepo.Create(message); err != nil {
		return nil, err
	}

	s.enqueueNotify(message)
	return s.messageRepo.GetByID(message.ID)
}

// GetConversation 获取与对端的会话（按时间升序）
// 双方任一方发起查询得到同一序列
func (s *MessageService) GetConversation(userID, otherID uint, productID *uint) ([]models.Message, error) {
	other, err := s.userRepo.GetByID(otherID)
	if err != nil {
		return nil, err
	}
	if other == nil {
		return nil, ErrNotFound
	}
	return s.messageRepo.Conversation(userID, otherID, productID)
}

// ConversationSummary 会话摘要
type ConversationSummary struct {
	Partner     *models.User     `json:"partner"`      // 对端用户
	LastMessage *models.Message  `json:"last_message"` // 最近一条消息
	Messages    []models.Message `json:"messages"`     // 与对端的完整往来（升序）
}

// ListConversations 获取用户所有会话及完整往来（会话间按最近往来倒序）
func (s *MessageService) ListConversations(userID uint) ([]ConversationSummary, error) {
	partnerIDs, err := s.messageRepo.ConversationPartners(userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]ConversationSummary, 0, len(partnerIDs))
	for _, partnerID := range partnerIDs {
		partner, err := s.userRepo.GetByID(partnerID)
		if err != nil {
			return nil, err
		}
		thread, err := s.messageRepo.Conversation(userID, partnerID, nil)
		if err != nil {
			return nil, err
		}
		var latest *models.Message
		if len(thread) > 0 {
			latest = &thread[len(thread)-1]
		}
		summaries = append(summaries, ConversationSummary{
			Partner:     partner,
			LastMessage: latest,
			Messages:    thread,
		})
	}
	return summaries, nil
}

// DeleteConversation 删除商品所标识的会话
// 会话由商品定位，仅参与者可删除，被删除消息的回复引用置空
func (s *MessageService) DeleteConversation(userID, productID uint) (int64, error) {
	first, err := s.messageRepo.FirstByProduct(productID)
	if err != nil {
		return 0, err
	}
	if first == nil {
		return 0, ErrMessageNotFound
	}
	if first.SenderID != userID && first.RecipientID != userID {
		return 0, ErrForbidden
	}

	otherID := first.SenderID
	if otherID == userID {
		otherID = first.RecipientID
	}
	deleted, err := s.messageRepo.DeleteConversation(userID, otherID, &productID)
	if err != nil {
		return 0, err
	}
	logger.Infow("conversation_deleted",
		"user_id", userID,
		"partner_id", otherID,
		"product_id", productID,
		"messages", deleted,
	)
	return deleted, nil
}

func (s *MessageService) enqueueNotify(message *models.Message) {
	if s.queueClient == nil || !s.queueClient.Enabled() {
		return
	}
	err := s.queueClient.EnqueueMessageNotify(queue.MessageNotifyPayload{
		MessageID:   message.ID,
		RecipientID: message.RecipientID,
	})
	if err != nil {
		logger.Warnw("message_notify_enqueue_failed",
			"message_id", message.ID,
			"recipient_id", message.RecipientID,
			"error", err,
		)
	}
}

func samePair(parent *models.Message, senderID, recipientID uint) bool {
	return (parent.SenderID == senderID && parent.RecipientID == recipientID) ||
		(parent.SenderID == recipientID && parent.RecipientID == senderID)
}

func sameProductScope(parentProductID, replyProductID *uint) bool {
	if parentProductID == nil && replyProductID == nil {
		return true
	}
	if parentProductID == nil || replyProductID == nil {
		return false
	}
	return *parentProductID == *replyProductID
}
