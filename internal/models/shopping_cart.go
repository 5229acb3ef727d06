package models

import (
	"time"

	"gorm.io/gorm"
)

// ShoppingCart 购物车表（每个用户至多一个 Active 购物车）
type ShoppingCart struct {
	ID        uint           `gorm:"primarykey" json:"id"`          // 主键
	UserID    uint           `gorm:"not null;index" json:"user_id"` // 用户ID
	Status    string         `gorm:"index;not null;default:'Active'" json:"status"` // 购物车状态
	CreatedAt time.Time      `gorm:"index" json:"created_at"`       // 创建时间
	UpdatedAt time.Time      `gorm:"index" json:"updated_at"`       // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                // 软删除时间

	Items []CartItem `gorm:"foreignKey:CartID" json:"items,omitempty"` // 购物车项
}

// TableName 指定表名
func (ShoppingCart) TableName() string {
	return "shopping_carts"
}
