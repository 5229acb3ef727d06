package public

import (
	"errors"
	"strconv"
	"strings"

	handlershared "github.com/vintek-market/internal/http/handlers/shared"
	"github.com/vintek-market/internal/http/response"
	"github.com/vintek-market/internal/models"
	"github.com/vintek-market/internal/service"

	"github.com/gin-gonic/gin"
)

// ListProducts 商品列表（仅上架商品，支持分类/条件/关键字过滤）
func (h *Handler) ListProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)
	categoryID, _ := strconv.ParseUint(c.Query("category_id"), 10, 64)
	ownerID, _ := strconv.ParseUint(c.Query("owner_id"), 10, 64)

	products, total, err := h.ProductService.List(service.ProductListInput{
		CategoryID:  uint(categoryID),
		OwnerID:     uint(ownerID),
		Search:      strings.TrimSpace(c.Query("search")),
		Condition:   strings.TrimSpace(c.Query("condition")),
		OnlyInStock: c.Query("in_stock") == "true",
		Page:        page,
		PageSize:    pageSize,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "fetch products failed", err)
		return
	}
	response.SuccessWithPage(c, gin.H{"products": products}, buildPagination(page, pageSize, total))
}

// GetProduct 商品详情
func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	product, err := h.ProductService.GetByID(id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			respondError(c, response.CodeNotFound, "product not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "fetch product failed", err)
		return
	}
	response.Success(c, product)
}

// ProductRequest 发布/更新商品请求
type ProductRequest struct {
	CategoryID  uint         `json:"category_id" binding:"required"`
	Name        string       `json:"name" binding:"required"`
	Description string       `json:"description"`
	Condition   string       `json:"condition" binding:"required"`
	Price       models.Money `json:"price"`
	Quantity    int          `json:"quantity"`
	Images      []string     `json:"images"`
}

// CreateProduct 发布商品
func (h *Handler) CreateProduct(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	product, err := h.ProductService.Create(userID, service.CreateProductInput{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		Condition:   req.Condition,
		Price:       req.Price,
		Quantity:    req.Quantity,
		Images:      req.Images,
	})
	if err != nil {
		respondProductError(c, err)
		return
	}
	response.Success(c, product)
}

// UpdateProduct 更新自己发布的商品
func (h *Handler) UpdateProduct(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	product, err := h.ProductService.Update(id, userID, service.CreateProductInput{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		Condition:   req.Condition,
		Price:       req.Price,
		Quantity:    req.Quantity,
		Images:      req.Images,
	})
	if err != nil {
		respondProductError(c, err)
		return
	}
	response.Success(c, product)
}

// DeleteProduct 下架并删除自己发布的商品
func (h *Handler) DeleteProduct(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.ProductService.Delete(id, userID); err != nil {
		respondProductError(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

func respondProductError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		respondError(c, response.CodeNotFound, "product not found", nil)
	case errors.Is(err, service.ErrCategoryNotFound):
		respondError(c, response.CodeNotFound, "category not found", nil)
	case errors.Is(err, service.ErrProductNotAvailable):
		respondError(c, response.CodeBadRequest, "invalid product payload", nil)
	case errors.Is(err, service.ErrForbidden):
		respondError(c, response.CodeForbidden, "not the product owner", nil)
	default:
		respondError(c, response.CodeInternal, "product operation failed", err)
	}
}
