package handlers

import (
	"net/http"
	"strconv"

	"carebridge-backend/middleware"
	"carebridge-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// NotificationHandler handles HTTP requests for notifications
type NotificationHandler struct {
	notifications *service.NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notifications *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// List handles GET /api/notifications
func (h *NotificationHandler) List(c *gin.Context) {
	limit := 50
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	result, err := h.notifications.List(c.Request.Context(), service.ListRequest{
		UserID: middleware.UserID(c),
		Limit:  limit,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOTIFICATIONS_FAILED",
				"message": "Failed to load notifications",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"notifications": result.Notifications,
			"unread_count":  result.UnreadCount,
		},
	})
}

// MarkRead handles PATCH /api/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid notification id",
			},
		})
		return
	}

	if err := h.notifications.MarkRead(c.Request.Context(), id, middleware.UserID(c)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MARK_READ_FAILED",
				"message": "Failed to mark notification read",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// MarkAllRead handles POST /api/notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	if err := h.notifications.MarkAllRead(c.Request.Context(), middleware.UserID(c)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MARK_READ_FAILED",
				"message": "Failed to mark notifications read",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
