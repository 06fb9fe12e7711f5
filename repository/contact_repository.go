package repository

import (
	"context"

	"carebridge-backend/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ContactRepository handles database operations for contact form submissions
type ContactRepository struct {
	db *pgxpool.Pool
}

// NewContactRepository creates a new contact repository
func NewContactRepository(db *pgxpool.Pool) *ContactRepository {
	return &ContactRepository{db: db}
}

// Create creates a new contact message
func (r *ContactRepository) Create(ctx context.Context, m *models.ContactMessage) error {
	query := `
		INSERT INTO contact_messages (name, email, subject, message, user_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query, m.Name, m.Email, m.Subject, m.Message, m.UserID).
		Scan(&m.ID, &m.CreatedAt)

	return err
}
