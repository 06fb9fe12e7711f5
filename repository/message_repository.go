package repository

import (
	"context"

	"carebridge-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MessageRepository handles database operations for messages
type MessageRepository struct {
	db *pgxpool.Pool
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create creates a new message
func (r *MessageRepository) Create(ctx context.Context, m *models.Message) error {
	query := `
		INSERT INTO messages (sender_id, receiver_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, is_read, created_at`

	err := r.db.QueryRow(ctx, query, m.SenderID, m.ReceiverID, m.Content).
		Scan(&m.ID, &m.IsRead, &m.CreatedAt)

	return err
}

// ListByUser retrieves every message the user sent or received, newest first.
// The conversation view is folded from this set in one pass.
func (r *MessageRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Message, error) {
	query := `
		SELECT id, sender_id, receiver_id, content, is_read, created_at
		FROM messages
		WHERE sender_id = $1 OR receiver_id = $1
		ORDER BY created_at DESC`

	return r.queryMessages(ctx, query, userID)
}

// ListBetween retrieves the messages exchanged between two users, oldest first
func (r *MessageRepository) ListBetween(ctx context.Context, userID, partnerID uuid.UUID) ([]*models.Message, error) {
	query := `
		SELECT id, sender_id, receiver_id, content, is_read, created_at
		FROM messages
		WHERE (sender_id = $1 AND receiver_id = $2)
		   OR (sender_id = $2 AND receiver_id = $1)
		ORDER BY created_at ASC`

	return r.queryMessages(ctx, query, userID, partnerID)
}

func (r *MessageRepository) queryMessages(ctx context.Context, query string, args ...interface{}) ([]*models.Message, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Message
	for rows.Next() {
		m := &models.Message{}
		err := rows.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Content, &m.IsRead, &m.CreatedAt)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}

	return out, rows.Err()
}

// MarkConversationRead marks every unread message from partnerID to userID as read
func (r *MessageRepository) MarkConversationRead(ctx context.Context, userID, partnerID uuid.UUID) error {
	query := `
		UPDATE messages SET is_read = true
		WHERE receiver_id = $1 AND sender_id = $2 AND is_read = false`

	_, err := r.db.Exec(ctx, query, userID, partnerID)
	return err
}

// UnreadCount counts unread messages addressed to the user
func (r *MessageRepository) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM messages WHERE receiver_id = $1 AND is_read = false`,
		userID,
	).Scan(&count)
	return count, err
}
