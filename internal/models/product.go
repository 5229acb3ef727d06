package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品表
type Product struct {
	ID          uint           `gorm:"primarykey" json:"id"`                             // 主键
	OwnerID     uint           `gorm:"not null;index" json:"owner_id"`                   // 卖家用户ID
	CategoryID  uint           `gorm:"not null;index" json:"category_id"`                // 分类ID
	Name        string         `gorm:"not null;index" json:"name"`                       // 商品名称
	Description string         `gorm:"type:text" json:"description"`                     // 商品描述
	Condition   string         `gorm:"type:varchar(20);not null" json:"condition"`       // 成色
	Price       Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"` // 单价
	Quantity    int            `gorm:"not null;default:0" json:"quantity"`               // 可售库存
	Images      StringArray    `gorm:"type:json" json:"images"`                          // 图片数组
	IsActive    bool           `gorm:"default:true;index" json:"is_active"`              // 是否上架
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                          // 创建时间
	UpdatedAt   time.Time      `json:"updated_at"`                                       // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                   // 软删除时间

	// 关联
	Owner    *User     `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`       // 卖家信息
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"` // 分类信息
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}
