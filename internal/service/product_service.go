package service

import (
	"strings"

	"github.com/vintek-market/internal/constants"
	"github.com/vintek-market/internal/models"
	"github.com/vintek-market/internal/repository"
)

// ProductService 商品业务服务
type ProductService struct {
	repo         repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

// NewProductService 创建商品服务
func NewProductService(repo repository.ProductRepository, categoryRepo repository.CategoryRepository) *ProductService {
	return &ProductService{repo: repo, categoryRepo: categoryRepo}
}

// ProductListInput 商品列表查询输入
type ProductListInput struct {
	CategoryID  uint
	OwnerID     uint
	Search      string
	Condition   string
	OnlyInStock bool
	Page        int
	PageSize    int
}

// List 商品列表（仅上架商品）
func (s *ProductService) List(input ProductListInput) ([]models.Product, int64, error) {
	return s.repo.List(repository.ProductListFilter{
		Page:         input.Page,
		PageSize:     input.PageSize,
		CategoryID:   input.CategoryID,
		OwnerID:      input.OwnerID,
		Search:       strings.TrimSpace(input.Search),
		Condition:    strings.TrimSpace(input.Condition),
		OnlyActive:   true,
		OnlyInStock:  input.OnlyInStock,
		WithCategory: true,
	})
}

// GetByID 获取商品详情
func (s *ProductService) GetByID(id uint) (*models.Product, error) {
	product, err := s.repo.GetByIDWithOwner(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// CreateProductInput 创建/更新商品输入
type CreateProductInput struct {
	CategoryID  uint
	Name        string
	Description string
	Condition   string
	Price       models.Money
	Quantity    int
	Images      []string
}

// Create 发布商品
func (s *ProductService) Create(ownerID uint, input CreateProductInput) (*models.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || input.Quantity < 0 || input.Price.IsNegative() {
		return nil, ErrProductNotAvailable
	}
	if !isConditionSupported(input.Condition) {
		return nil, ErrProductNotAvailable
	}
	category, err := s.categoryRepo.GetByID(input.CategoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}

	product := models.Product{
		OwnerID:     ownerID,
		CategoryID:  input.CategoryID,
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		Condition:   input.Condition,
		Price:       input.Price,
		Quantity:    input.Quantity,
		Images:      models.StringArray(input.Images),
		IsActive:    true,
	}
	if err := s.repo.Create(&product); err != nil {
		return nil, err
	}
	return &product, nil
}

// Update 更新商品（仅限商品所有者）
func (s *ProductService) Update(id, ownerID uint, input CreateProductInput) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if product.OwnerID != ownerID {
		return nil, ErrForbidden
	}

	name := strings.TrimSpace(input.Name)
	if name == "" || input.Quantity < 0 || input.Price.IsNegative() {
		return nil, ErrProductNotAvailable
	}
	if !isConditionSupported(input.Condition) {
		return nil, ErrProductNotAvailable
	}
	if input.CategoryID != 0 && input.CategoryID != product.CategoryID {
		category, err := s.categoryRepo.GetByID(input.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, ErrCategoryNotFound
		}
		product.CategoryID = input.CategoryID
	}

	product.Name = name
	product.Description = strings.TrimSpace(input.Description)
	product.Condition = input.Condition
	product.Price = input.Price
	product.Quantity = input.Quantity
	product.Images = models.StringArray(input.Images)

	if err := s.repo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete 下架并删除商品（仅限商品所有者）
func (s *ProductService) Delete(id, ownerID uint) error {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrProductNotFound
	}
	if product.OwnerID != ownerID {
		return ErrForbidden
	}
	return s.repo.Delete(id)
}

func isConditionSupported(condition string) bool {
	switch condition {
	case constants.ProductConditionExcellent,
		constants.ProductConditionVeryGood,
		constants.ProductConditionGood,
		constants.ProductConditionAcceptable,
		constants.ProductConditionAsIs:
		return true
	default:
		return false
	}
}
