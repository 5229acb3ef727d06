package public

import (
	"strconv"
	"strings"

	handlershared "github.com/vintek-market/internal/http/handlers/shared"
	"github.com/vintek-market/internal/http/response"
	"github.com/vintek-market/internal/models"
	"github.com/vintek-market/internal/repository"
	"github.com/vintek-market/internal/service"

	"github.com/gin-gonic/gin"
)

// OrderCreateRequest 创建订单请求
type OrderCreateRequest struct {
	ShippingAddress string       `json:"shipping_address" binding:"required"`
	TotalAmount     models.Money `json:"total_amount"`
}

// CreateOrder 创建空订单（按行添加商品）
func (h *Handler) CreateOrder(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req OrderCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	order, err := h.OrderService.CreateOrder(userID, service.CreateOrderInput{
		ShippingAddress: req.ShippingAddress,
		TotalAmount:     req.TotalAmount,
	})
	if err != nil {
		respondOrderError(c, err)
		return
	}
	response.Success(c, order)
}

// OrderLineRequest 添加订单行请求
type OrderLineRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

// AddOrderLine 向订单添加商品行并扣减库存
func (h *Handler) AddOrderLine(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req OrderLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	line, err := h.OrderService.AddLine(orderID, userID, req.ProductID, req.Quantity)
	if err != nil {
		respondOrderError(c, err)
		return
	}
	response.Success(c, line)
}

// CheckoutRequest 购物车结算请求
type CheckoutRequest struct {
	ShippingAddress string `json:"shipping_address" binding:"required"`
}

// Checkout 结算活跃购物车
// 任一商品库存不足时整单失败，不产生部分扣减
func (h *Handler) Checkout(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	order, err := h.OrderService.CheckoutCart(userID, req.ShippingAddress)
	if err != nil {
		respondOrderError(c, err)
		return
	}
	response.Success(c, order)
}

// ListOrders 当前用户订单列表
func (h *Handler) ListOrders(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	orders, total, err := h.OrderService.ListOrdersByUser(repository.OrderListFilter{
		UserID:   userID,
		Status:   strings.TrimSpace(c.Query("status")),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "fetch orders failed", err)
		return
	}
	response.SuccessWithPage(c, gin.H{"orders": orders}, buildPagination(page, pageSize, total))
}

// ListSoldOrders 当前用户作为卖家的售出订单列表
func (h *Handler) ListSoldOrders(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	orders, total, err := h.OrderService.ListSoldOrders(userID, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "fetch sold orders failed", err)
		return
	}
	response.SuccessWithPage(c, gin.H{"orders": orders}, buildPagination(page, pageSize, total))
}

// GetOrder 订单详情（仅限本人）
func (h *Handler) GetOrder(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	order, err := h.OrderService.GetOrderByUser(orderID, userID)
	if err != nil {
		respondOrderError(c, err)
		return
	}
	response.Success(c, order)
}

// OrderStatusRequest 更新订单状态请求
type OrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateOrderStatus 推进订单状态
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req OrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	order, err := h.OrderService.UpdateOrderStatus(orderID, userID, strings.TrimSpace(req.Status))
	if err != nil {
		respondOrderError(c, err)
		return
	}
	response.Success(c, order)
}

// CancelOrder 取消订单并释放库存
func (h *Handler) CancelOrder(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	order, err := h.OrderService.CancelOrder(orderID, userID)
	if err != nil {
		respondOrderError(c, err)
		return
	}
	response.Success(c, order)
}
