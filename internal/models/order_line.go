package models

import (
	"time"

	"gorm.io/gorm"
)

// OrderLine 订单行（下单时扣减对应商品库存）
type OrderLine struct {
	ID        uint           `gorm:"primarykey" json:"id"`                                    // 主键
	OrderID   uint           `gorm:"not null;uniqueIndex:idx_order_product" json:"order_id"`  // 订单ID
	ProductID uint           `gorm:"not null;uniqueIndex:idx_order_product" json:"product_id"` // 商品ID
	SellerID  uint           `gorm:"not null;index" json:"seller_id"`                         // 卖家用户ID
	Quantity  int            `gorm:"not null" json:"quantity"`                                // 数量
	UnitPrice Money          `gorm:"type:decimal(20,2);not null" json:"unit_price"`           // 下单时单价快照
	CreatedAt time.Time      `gorm:"index" json:"created_at"`                                 // 创建时间
	UpdatedAt time.Time      `json:"updated_at"`                                              // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                                          // 软删除时间

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"` // 关联商品
}

// TableName 指定表名
func (OrderLine) TableName() string {
	return "order_lines"
}
