package models

import (
	"time"

	"github.com/google/uuid"
)

// Message represents a direct message between two users
type Message struct {
	ID         uuid.UUID `json:"id"`
	SenderID   uuid.UUID `json:"sender_id"`
	ReceiverID uuid.UUID `json:"receiver_id"`
	Content    string    `json:"content"`
	IsRead     bool      `json:"is_read"`
	CreatedAt  time.Time `json:"created_at"`
}

// Conversation is the denormalized view of all messages exchanged with one
// partner: the latest message plus how many of the partner's messages the
// current user has not read yet.
type Conversation struct {
	PartnerID       uuid.UUID `json:"partner_id"`
	PartnerName     string    `json:"partner_name"`
	PartnerImageURL string    `json:"partner_image_url"`
	LastMessage     string    `json:"last_message"`
	LastMessageAt   time.Time `json:"last_message_at"`
	UnreadCount     int       `json:"unread_count"`
}
