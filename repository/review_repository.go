package repository

import (
	"context"

	"carebridge-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ReviewRepository handles database operations for reviews
type ReviewRepository struct {
	db *pgxpool.Pool
}

// NewReviewRepository creates a new review repository
func NewReviewRepository(db *pgxpool.Pool) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create creates a new review
func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	query := `
		INSERT INTO reviews (client_id, therapist_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query, review.ClientID, review.TherapistID, review.Rating, review.Comment).
		Scan(&review.ID, &review.CreatedAt)

	return err
}

// ListByTherapist retrieves reviews for a therapist, newest first
func (r *ReviewRepository) ListByTherapist(ctx context.Context, therapistID uuid.UUID) ([]*models.Review, error) {
	query := `
		SELECT id, client_id, therapist_id, rating, comment, created_at
		FROM reviews
		WHERE therapist_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, therapistID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Review
	for rows.Next() {
		review := &models.Review{}
		err := rows.Scan(&review.ID, &review.ClientID, &review.TherapistID, &review.Rating, &review.Comment, &review.CreatedAt)
		if err != nil {
			return nil, err
		}
		out = append(out, review)
	}

	return out, rows.Err()
}
