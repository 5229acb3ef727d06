package models

import (
	"time"

	"gorm.io/gorm"
)

// UserProfile 用户资料表（注册时与用户同事务创建）
type UserProfile struct {
	ID        uint           `gorm:"primarykey" json:"id"`               // 主键
	UserID    uint           `gorm:"uniqueIndex;not null" json:"user_id"` // 用户ID
	Bio       string         `gorm:"type:text" json:"bio"`               // 个人简介
	Address   string         `gorm:"type:varchar(500)" json:"address"`   // 收货地址
	Phone     string         `gorm:"type:varchar(32)" json:"phone"`      // 电话
	AvatarURL string         `gorm:"type:varchar(500)" json:"avatar_url"` // 头像地址
	CreatedAt time.Time      `gorm:"index" json:"created_at"`            // 创建时间
	UpdatedAt time.Time      `json:"updated_at"`                         // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                     // 软删除时间

	Wishlist []Product `gorm:"many2many:profile_wishlist" json:"wishlist,omitempty"` // 心愿单商品
}

// TableName 指定表名
func (UserProfile) TableName() string {
	return "user_profiles"
}
