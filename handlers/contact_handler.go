package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"

	"carebridge-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContactStore persists contact form submissions
type ContactStore interface {
	Create(ctx context.Context, m *models.ContactMessage) error
}

// ContactHandler handles the public contact form. Its response shape differs
// from the API envelope on purpose: the form widget expects a flat
// {success, message} on 200 and {error} on 400/500.
type ContactHandler struct {
	contacts ContactStore
}

// NewContactHandler creates a new contact handler
func NewContactHandler(contacts ContactStore) *ContactHandler {
	return &ContactHandler{contacts: contacts}
}

// ContactRequest represents the contact form payload
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

// Submit handles POST /api/contact
func (h *ContactHandler) Submit(c *gin.Context) {
	var req ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if strings.TrimSpace(req.Name) == "" ||
		strings.TrimSpace(req.Email) == "" ||
		strings.TrimSpace(req.Subject) == "" ||
		strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name, email, subject and message are required"})
		return
	}

	m := &models.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	}
	if req.UserID != "" {
		if id, err := uuid.Parse(req.UserID); err == nil {
			m.UserID = &id
		}
	}

	if err := h.contacts.Create(c.Request.Context(), m); err != nil {
		log.Printf("contact: persist failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message, please try again later"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Thanks for reaching out. We'll get back to you soon.",
	})
}
