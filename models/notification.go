package models

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType classifies notifications for display and routing
type NotificationType string

const (
	NotificationAppointment NotificationType = "appointment"
	NotificationMessage     NotificationType = "message"
	NotificationPayment     NotificationType = "payment"
	NotificationReview      NotificationType = "review"
	NotificationSystem      NotificationType = "system"
)

// Notification represents a notification entity
type Notification struct {
	ID        uuid.UUID        `json:"id"`
	UserID    uuid.UUID        `json:"user_id"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Type      NotificationType `json:"type"`
	IsRead    bool             `json:"is_read"`
	ActionURL *string          `json:"action_url,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}
