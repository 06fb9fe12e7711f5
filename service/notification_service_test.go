package service

import (
	"context"
	"errors"
	"testing"

	"carebridge-backend/models"

	"github.com/google/uuid"
)

type fakeNotificationStore struct {
	notifications []*models.Notification
	createErr     error
}

func (f *fakeNotificationStore) Create(ctx context.Context, n *models.Notification) error {
	if f.createErr != nil {
		return f.createErr
	}
	n.ID = uuid.New()
	f.notifications = append([]*models.Notification{n}, f.notifications...)
	return nil
}

func (f *fakeNotificationStore) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Notification, error) {
	var out []*models.Notification
	for _, n := range f.notifications {
		if n.UserID == userID && len(out) < limit {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeNotificationStore) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	for _, n := range f.notifications {
		if n.ID == id && n.UserID == userID {
			n.IsRead = true
			return nil
		}
	}
	return errors.New("not found")
}

func (f *fakeNotificationStore) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	for _, n := range f.notifications {
		if n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}

func (f *fakeNotificationStore) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	count := 0
	for _, n := range f.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

type fakeBroadcaster struct {
	events []string
}

func (f *fakeBroadcaster) NotifyUser(userID uuid.UUID, eventType string, data interface{}) {
	f.events = append(f.events, eventType)
}

func TestDispatchPersistsAndBroadcasts(t *testing.T) {
	store := &fakeNotificationStore{}
	broadcaster := &fakeBroadcaster{}
	svc := NewNotificationService(
		NotificationWithStore(store),
		NotificationWithBroadcaster(broadcaster),
	)

	user := uuid.New()
	if ok := svc.Dispatch(context.Background(), user, "Hi", "body", models.NotificationSystem, ""); !ok {
		t.Fatal("Dispatch should report success")
	}

	if len(store.notifications) != 1 {
		t.Fatalf("expected 1 persisted notification, got %d", len(store.notifications))
	}
	if len(broadcaster.events) != 1 || broadcaster.events[0] != "notification:new" {
		t.Errorf("expected a notification:new broadcast, got %v", broadcaster.events)
	}
}

func TestDispatchBroadcastsEvenWhenPersistFails(t *testing.T) {
	broadcaster := &fakeBroadcaster{}
	svc := NewNotificationService(
		NotificationWithStore(&fakeNotificationStore{createErr: errors.New("db down")}),
		NotificationWithBroadcaster(broadcaster),
	)

	if ok := svc.Dispatch(context.Background(), uuid.New(), "Hi", "body", models.NotificationSystem, ""); ok {
		t.Fatal("Dispatch should report the persist failure")
	}
	if len(broadcaster.events) != 1 {
		t.Error("the push should still fire when persistence fails")
	}
}

func TestListReturnsUnreadCount(t *testing.T) {
	store := &fakeNotificationStore{}
	svc := NewNotificationService(NotificationWithStore(store))

	user := uuid.New()
	svc.Dispatch(context.Background(), user, "one", "b", models.NotificationSystem, "")
	svc.Dispatch(context.Background(), user, "two", "b", models.NotificationSystem, "")
	svc.Dispatch(context.Background(), uuid.New(), "other user", "b", models.NotificationSystem, "")

	result, err := svc.List(context.Background(), ListRequest{UserID: user, Limit: 50})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(result.Notifications) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(result.Notifications))
	}
	if result.UnreadCount != 2 {
		t.Errorf("expected unread count 2, got %d", result.UnreadCount)
	}
}

func TestMarkAllReadClearsUnread(t *testing.T) {
	store := &fakeNotificationStore{}
	svc := NewNotificationService(NotificationWithStore(store))

	user := uuid.New()
	svc.Dispatch(context.Background(), user, "one", "b", models.NotificationSystem, "")
	svc.Dispatch(context.Background(), user, "two", "b", models.NotificationSystem, "")

	if err := svc.MarkAllRead(context.Background(), user); err != nil {
		t.Fatalf("MarkAllRead returned error: %v", err)
	}

	result, err := svc.List(context.Background(), ListRequest{UserID: user, Limit: 50})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if result.UnreadCount != 0 {
		t.Errorf("expected unread count 0 after mark all read, got %d", result.UnreadCount)
	}
}

func TestMarkReadScopedToOwner(t *testing.T) {
	store := &fakeNotificationStore{}
	svc := NewNotificationService(NotificationWithStore(store))

	owner := uuid.New()
	svc.Dispatch(context.Background(), owner, "mine", "b", models.NotificationSystem, "")
	id := store.notifications[0].ID

	if err := svc.MarkRead(context.Background(), id, uuid.New()); err == nil {
		t.Error("another user must not be able to mark the notification read")
	}
	if err := svc.MarkRead(context.Background(), id, owner); err != nil {
		t.Errorf("owner mark read failed: %v", err)
	}
}
