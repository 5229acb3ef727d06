package public

import (
	"strconv"

	"github.com/vintek-market/internal/http/response"
	"github.com/vintek-market/internal/service"

	"github.com/gin-gonic/gin"
)

// SendMessageRequest 发送消息请求
type SendMessageRequest struct {
	RecipientID uint   `json:"recipient_id" binding:"required"`
	ProductID   *uint  `json:"product_id"`
	ReplyToID   *uint  `json:"reply_to_id"`
	Content     string `json:"content" binding:"required"`
}

// SendMessage 发送站内消息
func (h *Handler) SendMessage(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	message, err := h.MessageService.SendMessage(userID, service.SendMessageInput{
		RecipientID: req.RecipientID,
		ProductID:   req.ProductID,
		ReplyToID:   req.ReplyToID,
		Content:     req.Content,
	})
	if err != nil {
		respondMessageError(c, err)
		return
	}
	response.Success(c, message)
}

// GetConversation 与指定用户的会话，双方视角一致
func (h *Handler) GetConversation(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	otherID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}
	var productID *uint
	if raw := c.Query("product_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || parsed == 0 {
			respondError(c, response.CodeBadRequest, "invalid product_id", nil)
			return
		}
		id := uint(parsed)
		productID = &id
	}
	messages, err := h.MessageService.GetConversation(userID, otherID, productID)
	if err != nil {
		respondMessageError(c, err)
		return
	}
	response.Success(c, gin.H{"messages": messages})
}

// ListConversations 会话列表（按最近往来倒序）
func (h *Handler) ListConversations(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	summaries, err := h.MessageService.ListConversations(userID)
	if err != nil {
		respondMessageError(c, err)
		return
	}
	response.Success(c, gin.H{"conversations": summaries})
}

// DeleteConversation 删除商品标识的会话（仅参与者可操作）
func (h *Handler) DeleteConversation(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	productID, ok := parseIDParam(c, "product_id")
	if !ok {
		return
	}
	deleted, err := h.MessageService.DeleteConversation(userID, productID)
	if err != nil {
		respondMessageError(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": deleted})
}
