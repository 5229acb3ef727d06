package public

import (
	"github.com/vintek-market/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetCart 获取当前用户的活跃购物车（不存在则创建）
func (h *Handler) GetCart(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	cart, err := h.CartService.GetCart(userID)
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, cart)
}

// CartAddRequest 加购请求，数量缺省为 1
type CartAddRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity"`
}

// AddCartProduct 加入购物车，已在车内的商品按数量叠加
func (h *Handler) AddCartProduct(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req CartAddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	item, err := h.CartService.AddProduct(userID, req.ProductID, req.Quantity)
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, item)
}

// IncrementCartItem 数量加一（受商品库存上限约束）
func (h *Handler) IncrementCartItem(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	productID, ok := parseIDParam(c, "product_id")
	if !ok {
		return
	}
	item, err := h.CartService.IncrementItem(userID, productID)
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, item)
}

// DecrementCartItem 数量减一（降到零即移除）
func (h *Handler) DecrementCartItem(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	productID, ok := parseIDParam(c, "product_id")
	if !ok {
		return
	}
	item, err := h.CartService.DecrementItem(userID, productID)
	if err != nil {
		respondCartError(c, err)
		return
	}
	if item == nil {
		response.Success(c, gin.H{"removed": true})
		return
	}
	response.Success(c, item)
}

// RemoveCartProduct 从购物车移除商品
func (h *Handler) RemoveCartProduct(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	productID, ok := parseIDParam(c, "product_id")
	if !ok {
		return
	}
	if err := h.CartService.RemoveProduct(userID, productID); err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, gin.H{"removed": true})
}

// ClearCart 清空购物车
func (h *Handler) ClearCart(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	if err := h.CartService.Clear(userID); err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, gin.H{"cleared": true})
}
