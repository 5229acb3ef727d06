package repository

import (
	"errors"

	"github.com/vintek-market/internal/models"

	"gorm.io/gorm"
)

// UserProfileRepository 用户资料数据访问接口
type UserProfileRepository interface {
	GetByUserID(userID uint) (*models.UserProfile, error)
	GetByUserIDWithWishlist(userID uint) (*models.UserProfile, error)
	Create(profile *models.UserProfile) error
	Update(profile *models.UserProfile) error
	AddWishlistProduct(profileID uint, product *models.Product) error
	RemoveWishlistProduct(profileID uint, product *models.Product) error
	WithTx(tx *gorm.DB) UserProfileRepository
}

// GormUserProfileRepository GORM 实现
type GormUserProfileRepository struct {
	db *gorm.DB
}

// NewUserProfileRepository 创建用户资料仓库
func NewUserProfileRepository(db *gorm.DB) *GormUserProfileRepository {
	return &GormUserProfileRepository{db: db}
}

// WithTx 绑定事务
func (r *GormUserProfileRepository) WithTx(tx *gorm.DB) UserProfileRepository {
	if tx == nil {
		return r
	}
	return &GormUserProfileRepository{db: tx}
}

// GetByUserID 根据用户 ID 获取资料
func (r *GormUserProfileRepository) GetByUserID(userID uint) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := r.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

// GetByUserIDWithWishlist 根据用户 ID 获取资料及心愿单
func (r *GormUserProfileRepository) GetByUserIDWithWishlist(userID uint) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := r.db.Preload("Wishlist").Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

// Create 创建资料
func (r *GormUserProfileRepository) Create(profile *models.UserProfile) error {
	return r.db.Create(profile).Error
}

// Update 更新资料
func (r *GormUserProfileRepository) Update(profile *models.UserProfile) error {
	return r.db.Save(profile).Error
}

// AddWishlistProduct 添加心愿单商品
func (r *GormUserProfileRepository) AddWishlistProduct(profileID uint, product *models.Product) error {
	if product == nil {
		return nil
	}
	return r.db.Model(&models.UserProfile{ID: profileID}).Association("Wishlist").Append(product)
}

// RemoveWishlistProduct 移除心愿单商品
func (r *GormUserProfileRepository) RemoveWishlistProduct(profileID uint, product *models.Product) error {
	if product == nil {
		return nil
	}
	return r.db.Model(&models.UserProfile{ID: profileID}).Association("Wishlist").Delete(product)
}
