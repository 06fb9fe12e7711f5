package handlers

import (
	"net/http"

	"carebridge-backend/middleware"
	"carebridge-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MessageHandler handles HTTP requests for conversations and messages
type MessageHandler struct {
	conversations *service.ConversationService
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(conversations *service.ConversationService) *MessageHandler {
	return &MessageHandler{conversations: conversations}
}

// ListConversations handles GET /api/conversations
func (h *MessageHandler) ListConversations(c *gin.Context) {
	result, err := h.conversations.Conversations(c.Request.Context(), service.ConversationsRequest{
		UserID: middleware.UserID(c),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CONVERSATIONS_FAILED",
				"message": "Failed to load conversations",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"conversations": result.Conversations,
			"total_unread":  result.TotalUnread,
		},
	})
}

// Thread handles GET /api/conversations/:partnerId/messages
func (h *MessageHandler) Thread(c *gin.Context) {
	partnerID, err := uuid.Parse(c.Param("partnerId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_PARTNER_ID",
				"message": "Invalid partner id",
			},
		})
		return
	}

	messages, err := h.conversations.Thread(c.Request.Context(), middleware.UserID(c), partnerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "THREAD_FAILED",
				"message": "Failed to load messages",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    messages,
	})
}

// SendRequest represents the request body for sending a message
type SendRequest struct {
	ReceiverID string `json:"receiver_id" binding:"required"`
	Content    string `json:"content" binding:"required"`
}

// Send handles POST /api/messages
func (h *MessageHandler) Send(c *gin.Context) {
	var req SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	receiverID, err := uuid.Parse(req.ReceiverID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_RECEIVER_ID",
				"message": "Invalid receiver_id format",
			},
		})
		return
	}

	result, err := h.conversations.Send(c.Request.Context(), service.SendRequest{
		SenderID:   middleware.UserID(c),
		ReceiverID: receiverID,
		Content:    req.Content,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "SEND_FAILED",
				"message": "Failed to send message",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    result.Message,
	})
}

// MarkRead handles POST /api/conversations/:partnerId/read
func (h *MessageHandler) MarkRead(c *gin.Context) {
	partnerID, err := uuid.Parse(c.Param("partnerId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_PARTNER_ID",
				"message": "Invalid partner id",
			},
		})
		return
	}

	if err := h.conversations.MarkRead(c.Request.Context(), middleware.UserID(c), partnerID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MARK_READ_FAILED",
				"message": "Failed to mark conversation read",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
