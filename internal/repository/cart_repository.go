package repository

import (
	"errors"

	"github.com/vintek-market/internal/constants"
	"github.com/vintek-market/internal/models"

	"gorm.io/gorm"
)

// CartRepository 购物车数据访问接口
type CartRepository interface {
	GetActiveByUser(userID uint) (*models.ShoppingCart, error)
	GetActiveByUserWithItems(userID uint) (*models.ShoppingCart, error)
	GetByID(id uint) (*models.ShoppingCart, error)
	Create(cart *models.ShoppingCart) error
	UpdateStatus(cartID uint, status string) error
	GetItem(cartID, productID uint) (*models.CartItem, error)
	CreateItem(item *models.CartItem) error
	UpdateItemQuantity(itemID uint, quantity int) error
	DeleteItem(itemID uint) error
	ClearItems(cartID uint) error
	WithTx(tx *gorm.DB) CartRepository
}

// GormCartRepository GORM 实现
type GormCartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓库
func NewCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCartRepository) WithTx(tx *gorm.DB) CartRepository {
	if tx == nil {
		return r
	}
	return &GormCartRepository{db: tx}
}

// GetActiveByUser 获取用户当前 Active 购物车
func (r *GormCartRepository) GetActiveByUser(userID uint) (*models.ShoppingCart, error) {
	var cart models.ShoppingCart
	err := r.db.Where("user_id = ? AND status = ?", userID, constants.CartStatusActive).
		Order("id DESC").First(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cart, nil
}

// GetActiveByUserWithItems 获取用户当前 Active 购物车及明细
func (r *GormCartRepository) GetActiveByUserWithItems(userID uint) (*models.ShoppingCart, error) {
	var cart models.ShoppingCart
	err := r.db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("cart_items.id ASC")
	}).Preload("Items.Product").
		Where("user_id = ? AND status = ?", userID, constants.CartStatusActive).
		Order("id DESC").First(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cart, nil
}

// GetByID 根据 ID 获取购物车
func (r *GormCartRepository) GetByID(id uint) (*models.ShoppingCart, error) {
	var cart models.ShoppingCart
	if err := r.db.Preload("Items").First(&cart, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cart, nil
}

// Create 创建购物车
func (r *GormCartRepository) Create(cart *models.ShoppingCart) error {
	return r.db.Create(cart).Error
}

// UpdateStatus 更新购物车状态
func (r *GormCartRepository) UpdateStatus(cartID uint, status string) error {
	return r.db.Model(&models.ShoppingCart{}).Where("id = ?", cartID).
		Update("status", status).Error
}

// GetItem 获取购物车项
func (r *GormCartRepository) GetItem(cartID, productID uint) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.Where("cart_id = ? AND product_id = ?", cartID, productID).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// CreateItem 创建购物车项
func (r *GormCartRepository) CreateItem(item *models.CartItem) error {
	return r.db.Create(item).Error
}

// UpdateItemQuantity 更新购物车项数量
func (r *GormCartRepository) UpdateItemQuantity(itemID uint, quantity int) error {
	return r.db.Model(&models.CartItem{}).Where("id = ?", itemID).
		Update("quantity", quantity).Error
}

// DeleteItem 删除购物车项
func (r *GormCartRepository) DeleteItem(itemID uint) error {
	return r.db.Delete(&models.CartItem{}, itemID).Error
}

// ClearItems 清空购物车项
func (r *GormCartRepository) ClearItems(cartID uint) error {
	return r.db.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error
}
