package models

import (
	"time"

	"gorm.io/gorm"
)

// Message 站内消息表（按买卖双方与商品维度组成会话）
type Message struct {
	ID          uint           `gorm:"primarykey" json:"id"`                               // 主键
	SenderID    uint           `gorm:"not null;index:idx_msg_pair" json:"sender_id"`       // 发送方用户ID
	RecipientID uint           `gorm:"not null;index:idx_msg_pair" json:"recipient_id"`    // 接收方用户ID
	ProductID   *uint          `gorm:"index" json:"product_id,omitempty"`                  // 关联商品ID（可空）
	ReplyToID   *uint          `gorm:"index" json:"reply_to_id,omitempty"`                 // 被回复消息ID（原消息删除后置空）
	Content     string         `gorm:"type:text;not null" json:"content"`                  // 消息内容
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                            // 创建时间
	UpdatedAt   time.Time      `json:"updated_at"`                                         // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                     // 软删除时间

	// 关联
	Sender    *User    `gorm:"foreignKey:SenderID" json:"sender,omitempty"`       // 发送方
	Recipient *User    `gorm:"foreignKey:RecipientID" json:"recipient,omitempty"` // 接收方
	Product   *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`     // 关联商品
	ReplyTo   *Message `gorm:"foreignKey:ReplyToID;constraint:OnDelete:SET NULL" json:"reply_to,omitempty"` // 被回复消息
}

// TableName 指定表名
func (Message) TableName() string {
	return "messages"
}
