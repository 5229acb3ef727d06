package repository

import (
	"errors"

	"github.com/vintek-market/internal/models"

	"gorm.io/gorm"
)

// MessageRepository 站内消息数据访问接口
type MessageRepository interface {
	Create(message *models.Message) error
	GetByID(id uint) (*models.Message, error)
	Conversation(userID, otherID uint, productID *uint) ([]models.Message, error)
	ConversationPartners(userID uint) ([]uint, error)
	FirstByProduct(productID uint) (*models.Message, error)
	DeleteConversation(userID, otherID uint, productID *uint) (int64, error)
	WithTx(tx *gorm.DB) MessageRepository
}

// GormMessageRepository GORM 实现
type GormMessageRepository struct {
	db *gorm.DB
}

// NewMessageRepository 创建消息仓库
func NewMessageRepository(db *gorm.DB) *GormMessageRepository {
	return &GormMessageRepository{db: db}
}

// WithTx 绑定事务
func (r *GormMessageRepository) WithTx(tx *gorm.DB) MessageRepository {
	if tx == nil {
		return r
	}
	return &GormMessageRepository{db: tx}
}

// Create 创建消息
func (r *GormMessageRepository) Create(message *models.Message) error {
	return r.db.Create(message).Error
}

// GetByID 根据 ID 获取消息
func (r *GormMessageRepository) GetByID(id uint) (*models.Message, error) {
	var message models.Message
	if err := r.db.Preload("Sender").Preload("Recipient").First(&message, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &message, nil
}

// pairScope 双方消息对等条件（与方向无关）
func pairScope(userID, otherID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(
			"(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
			userID, otherID, otherID, userID,
		)
	}
}

// Conversation 获取双方会话消息（按时间升序，双向对称）
func (r *GormMessageRepository) Conversation(userID, otherID uint, productID *uint) ([]models.Message, error) {
	query := r.db.Scopes(pairScope(userID, otherID))
	if productID != nil {
		query = query.Where("product_id = ?", *productID)
	}
	var messages []models.Message
	err := query.Preload("Sender").Preload("Recipient").
		Order("created_at ASC, id ASC").Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// ConversationPartners 获取有会话往来的对端用户（按最近消息倒序）
func (r *GormMessageRepository) ConversationPartners(userID uint) ([]uint, error) {
	type row struct {
		PartnerID uint
	}
	var rows []row
	err := r.db.Model(&models.Message{}).
		Select("CASE WHEN sender_id = ? THEN recipient_id ELSE sender_id END AS partner_id", userID).
		Where("sender_id = ? OR recipient_id = ?", userID, userID).
		Group("partner_id").
		Order("MAX(created_at) DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	partners := make([]uint, 0, len(rows))
	for _, item := range rows {
		partners = append(partners, item.PartnerID)
	}
	return partners, nil
}

// FirstByProduct 获取某商品会话的首条消息
func (r *GormMessageRepository) FirstByProduct(productID uint) (*models.Message, error) {
	var message models.Message
	result := r.db.Where("product_id = ?", productID).
		Order("created_at ASC, id ASC").Limit(1).Find(&message)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &message, nil
}

// DeleteConversation 删除双方会话，被删除消息的回复引用置空
func (r *GormMessageRepository) DeleteConversation(userID, otherID uint, productID *uint) (int64, error) {
	query := r.db.Model(&models.Message{}).Scopes(pairScope(userID, otherID))
	if productID != nil {
		query = query.Where("product_id = ?", *productID)
	}
	var ids []uint
	if err := query.Pluck("id", &ids).Error; err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}
	if err := r.db.Model(&models.Message{}).
		Where("reply_to_id IN ?", ids).
		Update("reply_to_id", nil).Error; err != nil {
		return 0, err
	}
	result := r.db.Where("id IN ?", ids).Delete(&models.Message{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
