package repository

import (
	"context"

	"carebridge-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NotificationRepository handles database operations for notifications
type NotificationRepository struct {
	db *pgxpool.Pool
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create creates a new notification
func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	query := `
		INSERT INTO notifications (user_id, title, message, type, action_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, is_read, created_at`

	err := r.db.QueryRow(ctx, query, n.UserID, n.Title, n.Message, n.Type, n.ActionURL).
		Scan(&n.ID, &n.IsRead, &n.CreatedAt)

	return err
}

// ListByUser retrieves notifications for a user, newest first
func (r *NotificationRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Notification, error) {
	query := `
		SELECT id, user_id, title, message, type, is_read, action_url, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC`

	args := []interface{}{userID}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Notification
	for rows.Next() {
		n := &models.Notification{}
		err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Type, &n.IsRead, &n.ActionURL, &n.CreatedAt)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}

	return out, rows.Err()
}

// MarkRead marks one notification as read. The user scope prevents flipping
// another user's notification by guessing its ID.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	query := `UPDATE notifications SET is_read = true WHERE id = $1 AND user_id = $2`
	_, err := r.db.Exec(ctx, query, id, userID)
	return err
}

// MarkAllRead marks every unread notification for a user as read
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	query := `UPDATE notifications SET is_read = true WHERE user_id = $1 AND is_read = false`
	_, err := r.db.Exec(ctx, query, userID)
	return err
}

// UnreadCount counts unread notifications for a user
func (r *NotificationRepository) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = false`,
		userID,
	).Scan(&count)
	return count, err
}
