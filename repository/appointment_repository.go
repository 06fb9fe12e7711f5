package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"carebridge-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrInvalidTransition is returned when an appointment status update would
// violate the monotonic status order.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrInvalidTimeRange is returned when an appointment's end does not follow its start
var ErrInvalidTimeRange = errors.New("end_time must be after start_time")

// AppointmentRepository handles database operations for appointments
type AppointmentRepository struct {
	db *pgxpool.Pool
}

// NewAppointmentRepository creates a new appointment repository
func NewAppointmentRepository(db *pgxpool.Pool) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

const appointmentColumns = `id, client_id, therapist_id, start_time, end_time, status, session_type, notes, created_at, updated_at`

func scanAppointment(row pgx.Row, a *models.Appointment) error {
	return row.Scan(
		&a.ID,
		&a.ClientID,
		&a.TherapistID,
		&a.StartTime,
		&a.EndTime,
		&a.Status,
		&a.SessionType,
		&a.Notes,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
}

// Create creates a new appointment
func (r *AppointmentRepository) Create(ctx context.Context, a *models.Appointment) error {
	if !a.EndTime.After(a.StartTime) {
		return ErrInvalidTimeRange
	}
	if a.Status == "" {
		a.Status = models.AppointmentPending
	}

	query := `
		INSERT INTO appointments (client_id, therapist_id, start_time, end_time, status, session_type, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(
		ctx, query,
		a.ClientID,
		a.TherapistID,
		a.StartTime,
		a.EndTime,
		a.Status,
		a.SessionType,
		a.Notes,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)

	return err
}

// GetByID retrieves an appointment by ID
func (r *AppointmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Appointment, error) {
	a := &models.Appointment{}
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`

	err := scanAppointment(r.db.QueryRow(ctx, query, id), a)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return a, nil
}

// ListByTherapist retrieves appointments for a therapist, optionally filtered
// by status, ordered by start_time descending.
func (r *AppointmentRepository) ListByTherapist(ctx context.Context, therapistID uuid.UUID, status *models.AppointmentStatus) ([]*models.Appointment, error) {
	return r.list(ctx, "therapist_id", therapistID, status)
}

// ListByClient retrieves appointments for a client, optionally filtered by
// status, ordered by start_time descending.
func (r *AppointmentRepository) ListByClient(ctx context.Context, clientID uuid.UUID, status *models.AppointmentStatus) ([]*models.Appointment, error) {
	return r.list(ctx, "client_id", clientID, status)
}

func (r *AppointmentRepository) list(ctx context.Context, ownerColumn string, ownerID uuid.UUID, status *models.AppointmentStatus) ([]*models.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE ` + ownerColumn + ` = $1`
	args := []interface{}{ownerID}

	if status != nil {
		query += fmt.Sprintf(" AND status = $%d", len(args)+1)
		args = append(args, *status)
	}

	query += " ORDER BY start_time DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Appointment
	for rows.Next() {
		a := &models.Appointment{}
		if err := scanAppointment(rows, a); err != nil {
			return nil, err
		}
		out = append(out, a)
	}

	return out, rows.Err()
}

// ListUpcomingByTherapist retrieves pending and confirmed appointments that
// start after the given time, soonest first.
func (r *AppointmentRepository) ListUpcomingByTherapist(ctx context.Context, therapistID uuid.UUID, after time.Time) ([]*models.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE therapist_id = $1
		  AND start_time > $2
		  AND status IN ('pending', 'confirmed')
		ORDER BY start_time ASC`

	rows, err := r.db.Query(ctx, query, therapistID, after)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Appointment
	for rows.Next() {
		a := &models.Appointment{}
		if err := scanAppointment(rows, a); err != nil {
			return nil, err
		}
		out = append(out, a)
	}

	return out, rows.Err()
}

// UpdateStatus transitions an appointment to a new status. The monotonic
// transition rule is repeated in the WHERE clause so a concurrent writer
// cannot race the check; zero rows updated means the transition was invalid
// (or the appointment is not owned by ownerID).
func (r *AppointmentRepository) UpdateStatus(ctx context.Context, id, ownerID uuid.UUID, next models.AppointmentStatus) (*models.Appointment, error) {
	if !next.Valid() {
		return nil, ErrInvalidTransition
	}

	query := `
		UPDATE appointments SET
			status = $3,
			updated_at = NOW()
		WHERE id = $1
		  AND (client_id = $2 OR therapist_id = $2)
		  AND (
			(status = 'pending' AND $3 IN ('confirmed', 'cancelled'))
			OR (status = 'confirmed' AND $3 IN ('completed', 'cancelled'))
		  )
		RETURNING ` + appointmentColumns

	a := &models.Appointment{}
	err := scanAppointment(r.db.QueryRow(ctx, query, id, ownerID, next), a)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrInvalidTransition
	}
	if err != nil {
		return nil, err
	}

	return a, nil
}

// CountCompletedByTherapist counts completed sessions for a therapist
func (r *AppointmentRepository) CountCompletedByTherapist(ctx context.Context, therapistID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM appointments WHERE therapist_id = $1 AND status = 'completed'`,
		therapistID,
	).Scan(&count)
	return count, err
}

// CountUniqueClients counts distinct clients that have ever booked with a therapist
func (r *AppointmentRepository) CountUniqueClients(ctx context.Context, therapistID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(DISTINCT client_id) FROM appointments WHERE therapist_id = $1`,
		therapistID,
	).Scan(&count)
	return count, err
}
