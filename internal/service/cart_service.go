package service

import (
	"time"

	"github.com/vintek-market/internal/constants"
	"github.com/vintek-market/internal/models"
	"github.com/vintek-market/internal/repository"
)

// CartService 购物车业务服务
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) *CartService {
	return &CartService{cartRepo: cartRepo, productRepo: productRepo}
}

// GetOrCreateActiveCart 获取用户当前 Active 购物车，不存在则创建
func (s *CartService) GetOrCreateActiveCart(userID uint) (*models.ShoppingCart, error) {
	cart, err := s.cartRepo.GetActiveByUser(userID)
	if err != nil {
		return nil, err
	}
	if cart != nil {
		return cart, nil
	}
	now := time.Now()
	cart = &models.ShoppingCart{
		UserID:    userID,
		Status:    constants.CartStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.cartRepo.Create(cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// GetCart 获取用户当前购物车及明细
func (s *CartService) GetCart(userID uint) (*models.ShoppingCart, error) {
	cart, err := s.cartRepo.GetActiveByUserWithItems(userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return s.GetOrCreateActiveCart(userID)
	}
	return cart, nil
}

// AddProduct 向购物车添加商品，已存在时按数量累加
// 加入时不做库存校验，库存在结算时统一裁决
func (s *CartService) AddProduct(userID, productID uint, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		quantity = 1
	}
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, ErrProductNotFound
	}

	cart, err := s.GetOrCreateActiveCart(userID)
	if err != nil {
		return nil, err
	}

	item, err := s.cartRepo.GetItem(cart.ID, productID)
	if err != nil {
		return nil, err
	}
	if item != nil {
		item.Quantity += quantity
		if err := s.cartRepo.UpdateItemQuantity(item.ID, item.Quantity); err != nil {
			return nil, err
		}
		return item, nil
	}

	now := time.Now()
	item = &models.CartItem{
		CartID:    cart.ID,
		ProductID: productID,
		Quantity:  quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.cartRepo.CreateItem(item); err != nil {
		return nil, err
	}
	return item, nil
}

// IncrementItem 购物车项数量加一
// 超过商品当前可售库存时拒绝
func (s *CartService) IncrementItem(userID, productID uint) (*models.CartItem, error) {
	_, item, err := s.findItem(userID, productID)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if product.Quantity < item.Quantity+1 {
		return nil, ErrInsufficientStock
	}

	item.Quantity++
	if err := s.cartRepo.UpdateItemQuantity(item.ID, item.Quantity); err != nil {
		return nil, err
	}
	return item, nil
}

// DecrementItem 购物车项数量减一，减到零移除该项
func (s *CartService) DecrementItem(userID, productID uint) (*models.CartItem, error) {
	_, item, err := s.findItem(userID, productID)
	if err != nil {
		return nil, err
	}

	if item.Quantity <= 1 {
		if err := s.cartRepo.DeleteItem(item.ID); err != nil {
			return nil, err
		}
		return nil, nil
	}

	item.Quantity--
	if err := s.cartRepo.UpdateItemQuantity(item.ID, item.Quantity); err != nil {
		return nil, err
	}
	return item, nil
}

// RemoveProduct 从购物车移除商品
func (s *CartService) RemoveProduct(userID, productID uint) error {
	_, item, err := s.findItem(userID, productID)
	if err != nil {
		return err
	}
	return s.cartRepo.DeleteItem(item.ID)
}

// Clear 清空购物车
func (s *CartService) Clear(userID uint) error {
	cart, err := s.cartRepo.GetActiveByUser(userID)
	if err != nil {
		return err
	}
	if cart == nil {
		return nil
	}
	return s.cartRepo.ClearItems(cart.ID)
}

func (s *CartService) findItem(userID, productID uint) (*models.ShoppingCart, *models.CartItem, error) {
	cart, err := s.cartRepo.GetActiveByUser(userID)
	if err != nil {
		return nil, nil, err
	}
	if cart == nil {
		return nil, nil, ErrCartNotFound
	}
	item, err := s.cartRepo.GetItem(cart.ID, productID)
	if err != nil {
		return nil, nil, err
	}
	if item == nil {
		return nil, nil, ErrCartItemNotFound
	}
	return cart, item, nil
}
