package repository

import (
	"context"
	"errors"

	"carebridge-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SessionNoteRepository handles database operations for session notes
type SessionNoteRepository struct {
	db *pgxpool.Pool
}

// NewSessionNoteRepository creates a new session note repository
func NewSessionNoteRepository(db *pgxpool.Pool) *SessionNoteRepository {
	return &SessionNoteRepository{db: db}
}

// Create creates a new session note. A unique index on appointment_id enforces
// the one-note-per-appointment rule at the database.
func (r *SessionNoteRepository) Create(ctx context.Context, n *models.SessionNote) error {
	query := `
		INSERT INTO session_notes (appointment_id, client_id, therapist_id, title, content)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query, n.AppointmentID, n.ClientID, n.TherapistID, n.Title, n.Content).
		Scan(&n.ID, &n.CreatedAt, &n.UpdatedAt)

	return err
}

// Update updates a session note's title and content
func (r *SessionNoteRepository) Update(ctx context.Context, n *models.SessionNote) error {
	query := `
		UPDATE session_notes SET
			title = $3,
			content = $4,
			updated_at = NOW()
		WHERE id = $1 AND therapist_id = $2
		RETURNING updated_at`

	err := r.db.QueryRow(ctx, query, n.ID, n.TherapistID, n.Title, n.Content).Scan(&n.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// ListByTherapist retrieves session notes written by a therapist, newest first
func (r *SessionNoteRepository) ListByTherapist(ctx context.Context, therapistID uuid.UUID) ([]*models.SessionNote, error) {
	query := `
		SELECT id, appointment_id, client_id, therapist_id, title, content, created_at, updated_at
		FROM session_notes
		WHERE therapist_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, therapistID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.SessionNote
	for rows.Next() {
		n := &models.SessionNote{}
		err := rows.Scan(&n.ID, &n.AppointmentID, &n.ClientID, &n.TherapistID, &n.Title, &n.Content, &n.CreatedAt, &n.UpdatedAt)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}

	return out, rows.Err()
}

// AppointmentIDsWithNotes returns the subset of the given appointment IDs that
// already have a note, as a membership set. One query replaces a per-record
// lookup round trip.
func (r *SessionNoteRepository) AppointmentIDsWithNotes(ctx context.Context, appointmentIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	out := make(map[uuid.UUID]bool, len(appointmentIDs))
	if len(appointmentIDs) == 0 {
		return out, nil
	}

	query := `
		SELECT appointment_id
		FROM session_notes
		WHERE appointment_id = ANY($1)`

	rows, err := r.db.Query(ctx, query, appointmentIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out[id] = true
	}

	return out, rows.Err()
}
