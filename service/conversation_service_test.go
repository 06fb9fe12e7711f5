package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"carebridge-backend/models"

	"github.com/google/uuid"
)

type fakeMessageStore struct {
	messages   []*models.Message
	listErr    error
	markedRead [][2]uuid.UUID
}

func (f *fakeMessageStore) Create(ctx context.Context, m *models.Message) error {
	m.ID = uuid.New()
	m.CreatedAt = time.Now()
	f.messages = append([]*models.Message{m}, f.messages...)
	return nil
}

func (f *fakeMessageStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Message, error) {
	return f.messages, f.listErr
}

func (f *fakeMessageStore) ListBetween(ctx context.Context, userID, partnerID uuid.UUID) ([]*models.Message, error) {
	var out []*models.Message
	for i := len(f.messages) - 1; i >= 0; i-- {
		m := f.messages[i]
		if (m.SenderID == userID && m.ReceiverID == partnerID) ||
			(m.SenderID == partnerID && m.ReceiverID == userID) {
			out = append(out, m)
		}
	}
	return out, f.listErr
}

func (f *fakeMessageStore) MarkConversationRead(ctx context.Context, userID, partnerID uuid.UUID) error {
	f.markedRead = append(f.markedRead, [2]uuid.UUID{userID, partnerID})
	return nil
}

func (f *fakeMessageStore) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	n := 0
	for _, m := range f.messages {
		if m.ReceiverID == userID && !m.IsRead {
			n++
		}
	}
	return n, nil
}

// message builds a fixture; messages are stored newest first like the repository returns them.
func message(sender, receiver uuid.UUID, content string, at time.Time, read bool) *models.Message {
	return &models.Message{
		ID:         uuid.New(),
		SenderID:   sender,
		ReceiverID: receiver,
		Content:    content,
		IsRead:     read,
		CreatedAt:  at,
	}
}

func TestFoldConversations(t *testing.T) {
	user := uuid.New()
	partnerA := uuid.New()
	partnerB := uuid.New()
	now := time.Now()

	// newest first
	messages := []*models.Message{
		message(partnerA, user, "see you tomorrow", now, false),
		message(user, partnerA, "sounds good", now.Add(-time.Minute), true),
		message(partnerB, user, "hello", now.Add(-time.Hour), true),
		message(partnerA, user, "are we still on?", now.Add(-2*time.Hour), false),
	}

	conversations := FoldConversations(user, messages)

	if len(conversations) != 2 {
		t.Fatalf("expected 2 conversations, got %d", len(conversations))
	}

	// ordered by last activity descending
	if conversations[0].PartnerID != partnerA {
		t.Error("most recent conversation should come first")
	}
	if conversations[0].LastMessage != "see you tomorrow" {
		t.Errorf("expected newest message as last message, got %q", conversations[0].LastMessage)
	}
	if conversations[0].UnreadCount != 2 {
		t.Errorf("expected 2 unread from partner A, got %d", conversations[0].UnreadCount)
	}
	if conversations[1].UnreadCount != 0 {
		t.Errorf("expected 0 unread from partner B, got %d", conversations[1].UnreadCount)
	}
}

func TestFoldConversationsIgnoresOwnUnread(t *testing.T) {
	user := uuid.New()
	partner := uuid.New()

	// the user's own unread messages must not count toward the badge
	messages := []*models.Message{
		message(user, partner, "ping", time.Now(), false),
	}

	conversations := FoldConversations(user, messages)
	if conversations[0].UnreadCount != 0 {
		t.Errorf("own sent messages counted as unread: %d", conversations[0].UnreadCount)
	}
}

func TestConversationsDegradesOnProfileFailure(t *testing.T) {
	user := uuid.New()
	partner := uuid.New()

	svc := NewConversationService(
		ConversationWithMessageStore(&fakeMessageStore{messages: []*models.Message{
			message(partner, user, "hi", time.Now(), false),
		}}),
		ConversationWithProfileStore(&fakeProfileStore{err: errors.New("profiles down")}),
	)

	result, err := svc.Conversations(context.Background(), ConversationsRequest{UserID: user})
	if err != nil {
		t.Fatalf("Conversations should degrade, not fail: %v", err)
	}
	if got := result.Conversations[0].PartnerName; got != models.UnknownClientName {
		t.Errorf("expected placeholder partner name, got %q", got)
	}
	if result.TotalUnread != 1 {
		t.Errorf("expected total unread 1, got %d", result.TotalUnread)
	}
}

func TestSendValidation(t *testing.T) {
	user := uuid.New()
	svc := NewConversationService(ConversationWithMessageStore(&fakeMessageStore{}))

	if _, err := svc.Send(context.Background(), SendRequest{SenderID: user, ReceiverID: uuid.New()}); err == nil {
		t.Error("expected error for empty content")
	}
	if _, err := svc.Send(context.Background(), SendRequest{SenderID: user, ReceiverID: user, Content: "hi"}); err == nil {
		t.Error("expected error for messaging yourself")
	}
}

func TestSendNotifiesReceiver(t *testing.T) {
	notifier := &fakeNotifier{}
	svc := NewConversationService(
		ConversationWithMessageStore(&fakeMessageStore{}),
		ConversationWithNotifier(notifier),
	)

	_, err := svc.Send(context.Background(), SendRequest{
		SenderID:   uuid.New(),
		ReceiverID: uuid.New(),
		Content:    "hello there",
	})
	if err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	if len(notifier.dispatched) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(notifier.dispatched))
	}
}

func TestThreadMarksConversationRead(t *testing.T) {
	user := uuid.New()
	partner := uuid.New()
	store := &fakeMessageStore{messages: []*models.Message{
		message(partner, user, "newer", time.Now(), false),
		message(user, partner, "older", time.Now().Add(-time.Minute), true),
	}}

	svc := NewConversationService(ConversationWithMessageStore(store))

	messages, err := svc.Thread(context.Background(), user, partner)
	if err != nil {
		t.Fatalf("Thread returned error: %v", err)
	}

	// thread reads oldest first
	if len(messages) != 2 || messages[0].Content != "older" {
		t.Error("thread should be ordered oldest first")
	}
	if len(store.markedRead) != 1 {
		t.Fatalf("expected the conversation to be marked read once, got %d", len(store.markedRead))
	}
	if store.markedRead[0] != [2]uuid.UUID{user, partner} {
		t.Error("marked the wrong conversation read")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 80); got != "short" {
		t.Errorf("short strings pass through, got %q", got)
	}
	long := make([]byte, 100)
	for i := range long {
		long[i] = 'a'
	}
	got := truncate(string(long), 80)
	if len([]rune(got)) != 81 {
		t.Errorf("expected 80 chars plus ellipsis, got %d", len([]rune(got)))
	}
}
