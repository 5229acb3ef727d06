package models

import (
	"time"

	"gorm.io/gorm"
)

// Payment 支付记录（每次尝试一条，只追加不修改）
type Payment struct {
	ID            uint           `gorm:"primarykey" json:"id"`                      // 主键
	OrderID       uint           `gorm:"index;not null" json:"order_id"`            // 订单ID
	UserID        uint           `gorm:"index;not null" json:"user_id"`             // 付款用户ID
	Method        string         `gorm:"not null" json:"method"`                    // 支付方式
	Amount        Money          `gorm:"type:decimal(20,2);not null" json:"amount"` // 支付金额
	Status        string         `gorm:"index;not null" json:"status"`              // 支付状态
	Reference     string         `gorm:"index;not null" json:"reference"`           // 支付流水号
	FailureReason string         `gorm:"type:varchar(500)" json:"failure_reason"`   // 失败原因（网关原文）
	PaidAt        *time.Time     `gorm:"index" json:"paid_at"`                      // 支付时间
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`                   // 创建时间
	UpdatedAt     time.Time      `json:"updated_at"`                                // 更新时间
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                            // 软删除时间
}

// TableName 指定表名
func (Payment) TableName() string {
	return "payments"
}
