package service

import (
	"context"
	"errors"
	"log"

	"carebridge-backend/models"

	"github.com/google/uuid"
)

// NotificationStore is the subset of the notification repository used by services
type NotificationStore interface {
	Create(ctx context.Context, n *models.Notification) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Notification, error)
	MarkRead(ctx context.Context, id, userID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
	UnreadCount(ctx context.Context, userID uuid.UUID) (int, error)
}

// Broadcaster pushes an event to a connected user, the server-side analogue of
// a toast. Delivery is best effort.
type Broadcaster interface {
	NotifyUser(userID uuid.UUID, eventType string, data interface{})
}

// NotificationService persists notifications and pushes them to connected clients
type NotificationService struct {
	store       NotificationStore
	broadcaster Broadcaster
}

// NotificationServiceOption is a functional option for NotificationService
type NotificationServiceOption func(*NotificationService)

// NotificationWithStore sets the notification store
func NotificationWithStore(s NotificationStore) NotificationServiceOption {
	return func(svc *NotificationService) {
		svc.store = s
	}
}

// NotificationWithBroadcaster sets the broadcaster
func NotificationWithBroadcaster(b Broadcaster) NotificationServiceOption {
	return func(svc *NotificationService) {
		svc.broadcaster = b
	}
}

// NewNotificationService creates a new notification service
func NewNotificationService(opts ...NotificationServiceOption) *NotificationService {
	svc := &NotificationService{}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Dispatch writes a notification record and pushes it to the user's connected
// clients. Persistence failures are logged and reported through the return
// value; the push still fires so the user sees the alert even when the record
// was not saved. Callers must not assume the notification was persisted.
func (svc *NotificationService) Dispatch(ctx context.Context, userID uuid.UUID, title, message string, typ models.NotificationType, actionURL string) bool {
	n := &models.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Type:    typ,
	}
	if actionURL != "" {
		n.ActionURL = &actionURL
	}

	persisted := true
	if svc.store == nil {
		persisted = false
	} else if err := svc.store.Create(ctx, n); err != nil {
		log.Printf("notification dispatch: persist failed for user %s: %v", userID, err)
		persisted = false
	}

	if svc.broadcaster != nil {
		svc.broadcaster.NotifyUser(userID, "notification:new", n)
	}

	return persisted
}

// ListRequest represents a request for a user's notifications
type ListRequest struct {
	UserID uuid.UUID
	Limit  int
}

// ListResult represents a user's notifications plus the unread count
type ListResult struct {
	Notifications []*models.Notification
	UnreadCount   int
}

// List retrieves a user's notifications and unread count
func (svc *NotificationService) List(ctx context.Context, req ListRequest) (*ListResult, error) {
	if svc.store == nil {
		return nil, errors.New("notification store not set")
	}

	notifications, err := svc.store.ListByUser(ctx, req.UserID, req.Limit)
	if err != nil {
		return nil, err
	}

	unread, err := svc.store.UnreadCount(ctx, req.UserID)
	if err != nil {
		log.Printf("notifications: unread count degraded: %v", err)
		unread = 0
	}

	return &ListResult{Notifications: notifications, UnreadCount: unread}, nil
}

// MarkRead marks a single notification as read
func (svc *NotificationService) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	if svc.store == nil {
		return errors.New("notification store not set")
	}
	return svc.store.MarkRead(ctx, id, userID)
}

// MarkAllRead marks all of a user's notifications as read
func (svc *NotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	if svc.store == nil {
		return errors.New("notification store not set")
	}
	return svc.store.MarkAllRead(ctx, userID)
}
