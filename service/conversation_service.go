package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"carebridge-backend/models"

	"github.com/google/uuid"
)

// MessageStore is the subset of the message repository used by services
type MessageStore interface {
	Create(ctx context.Context, m *models.Message) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Message, error)
	ListBetween(ctx context.Context, userID, partnerID uuid.UUID) ([]*models.Message, error)
	MarkConversationRead(ctx context.Context, userID, partnerID uuid.UUID) error
	UnreadCount(ctx context.Context, userID uuid.UUID) (int, error)
}

// ConversationService folds a user's messages into per-partner conversation
// entries with unread counts and the latest message
type ConversationService struct {
	messages MessageStore
	profiles ProfileStore
	notifier Notifier
}

// ConversationServiceOption is a functional option for ConversationService
type ConversationServiceOption func(*ConversationService)

// ConversationWithMessageStore sets the message store
func ConversationWithMessageStore(s MessageStore) ConversationServiceOption {
	return func(svc *ConversationService) {
		svc.messages = s
	}
}

// ConversationWithProfileStore sets the profile store
func ConversationWithProfileStore(s ProfileStore) ConversationServiceOption {
	return func(svc *ConversationService) {
		svc.profiles = s
	}
}

// ConversationWithNotifier sets the notifier
func ConversationWithNotifier(n Notifier) ConversationServiceOption {
	return func(svc *ConversationService) {
		svc.notifier = n
	}
}

// NewConversationService creates a new conversation service
func NewConversationService(opts ...ConversationServiceOption) *ConversationService {
	svc := &ConversationService{}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// ConversationsRequest represents a request for a user's conversation list
type ConversationsRequest struct {
	UserID uuid.UUID
}

// ConversationsResult represents the folded conversation list plus the total
// unread badge
type ConversationsResult struct {
	Conversations []models.Conversation
	TotalUnread   int
}

// Conversations builds the conversation list for one user: one entry per
// partner, newest conversation first, with that partner's unread count. A
// failed profile lookup degrades partner names to the placeholder.
func (svc *ConversationService) Conversations(ctx context.Context, req ConversationsRequest) (*ConversationsResult, error) {
	if svc.messages == nil {
		return nil, errors.New("message store not set")
	}

	messages, err := svc.messages.ListByUser(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	conversations := FoldConversations(req.UserID, messages)

	if svc.profiles != nil && len(conversations) > 0 {
		ids := make([]uuid.UUID, 0, len(conversations))
		for _, c := range conversations {
			ids = append(ids, c.PartnerID)
		}
		profiles, err := svc.profiles.GetByIDs(ctx, ids)
		if err != nil {
			log.Printf("conversations: profile lookup degraded: %v", err)
			profiles = nil
		}
		for i := range conversations {
			p := profiles[conversations[i].PartnerID]
			conversations[i].PartnerName = p.DisplayName()
			conversations[i].PartnerImageURL = p.ImageURL()
		}
	} else {
		for i := range conversations {
			conversations[i].PartnerName = models.UnknownClientName
		}
	}

	total, err := svc.messages.UnreadCount(ctx, req.UserID)
	if err != nil {
		log.Printf("conversations: unread count degraded: %v", err)
		total = 0
	}

	return &ConversationsResult{Conversations: conversations, TotalUnread: total}, nil
}

// SendRequest represents a request to send a message
type SendRequest struct {
	SenderID   uuid.UUID
	ReceiverID uuid.UUID
	Content    string
}

// SendResult represents the result of sending a message
type SendResult struct {
	Message *models.Message
}

// Send persists a message and notifies the receiver
func (svc *ConversationService) Send(ctx context.Context, req SendRequest) (*SendResult, error) {
	if svc.messages == nil {
		return nil, errors.New("message store not set")
	}
	if req.Content == "" {
		return nil, errors.New("message content is required")
	}
	if req.SenderID == req.ReceiverID {
		return nil, errors.New("cannot message yourself")
	}

	m := &models.Message{
		SenderID:   req.SenderID,
		ReceiverID: req.ReceiverID,
		Content:    req.Content,
	}
	if err := svc.messages.Create(ctx, m); err != nil {
		return nil, err
	}

	if svc.notifier != nil {
		svc.notifier.Dispatch(ctx, req.ReceiverID,
			"New message",
			truncate(req.Content, 80),
			models.NotificationMessage,
			"/messages/"+req.SenderID.String(),
		)
	}

	return &SendResult{Message: m}, nil
}

// Thread retrieves the message history with one partner and marks the
// partner's messages as read.
func (svc *ConversationService) Thread(ctx context.Context, userID, partnerID uuid.UUID) ([]*models.Message, error) {
	if svc.messages == nil {
		return nil, errors.New("message store not set")
	}

	messages, err := svc.messages.ListBetween(ctx, userID, partnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list thread: %w", err)
	}

	if err := svc.messages.MarkConversationRead(ctx, userID, partnerID); err != nil {
		// reading still works, the badge is just stale until the next fetch
		log.Printf("thread: mark read failed: %v", err)
	}

	return messages, nil
}

// MarkRead marks every message from partnerID to userID as read
func (svc *ConversationService) MarkRead(ctx context.Context, userID, partnerID uuid.UUID) error {
	if svc.messages == nil {
		return errors.New("message store not set")
	}
	return svc.messages.MarkConversationRead(ctx, userID, partnerID)
}

// FoldConversations folds a newest-first message list into one conversation
// entry per partner. The first message seen for a partner is that
// conversation's latest, so the output is already ordered by last activity
// descending. unread_count counts the partner's messages the user has not read.
func FoldConversations(userID uuid.UUID, messages []*models.Message) []models.Conversation {
	index := make(map[uuid.UUID]int)
	out := make([]models.Conversation, 0)

	for _, m := range messages {
		partner := m.SenderID
		if m.SenderID == userID {
			partner = m.ReceiverID
		}

		i, ok := index[partner]
		if !ok {
			index[partner] = len(out)
			out = append(out, models.Conversation{
				PartnerID:     partner,
				LastMessage:   m.Content,
				LastMessageAt: m.CreatedAt,
			})
			i = index[partner]
		}

		if m.ReceiverID == userID && !m.IsRead {
			out[i].UnreadCount++
		}
	}

	return out
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
