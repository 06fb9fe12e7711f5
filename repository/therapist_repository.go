package repository

import (
	"context"
	"errors"

	"carebridge-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TherapistRepository handles database operations for therapist details
type TherapistRepository struct {
	db *pgxpool.Pool
}

// NewTherapistRepository creates a new therapist repository
func NewTherapistRepository(db *pgxpool.Pool) *TherapistRepository {
	return &TherapistRepository{db: db}
}

// CreateDetails persists the onboarding submission through the
// create_therapist_details database function, which inserts the details row
// and promotes the profile's role in a single transaction. The two writes can
// never be left half-applied.
func (r *TherapistRepository) CreateDetails(ctx context.Context, d *models.TherapistDetails) error {
	query := `
		SELECT create_therapist_details(
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		)`

	return r.db.QueryRow(
		ctx, query,
		d.ProfileID,
		d.Bio,
		d.LicenseNumber,
		d.Education,
		d.YearsExperience,
		d.Specializations,
		d.Languages,
		d.HourlyRate,
		d.VerificationDocumentPath,
	).Scan(&d.ID)
}

// GetDetails retrieves therapist details by profile ID
func (r *TherapistRepository) GetDetails(ctx context.Context, profileID uuid.UUID) (*models.TherapistDetails, error) {
	d := &models.TherapistDetails{}
	query := `
		SELECT id, profile_id, bio, license_number, education, years_experience,
			specializations, languages, hourly_rate, verification_document_path,
			terms_accepted, created_at, updated_at
		FROM therapist_details
		WHERE profile_id = $1`

	err := r.db.QueryRow(ctx, query, profileID).Scan(
		&d.ID,
		&d.ProfileID,
		&d.Bio,
		&d.LicenseNumber,
		&d.Education,
		&d.YearsExperience,
		&d.Specializations,
		&d.Languages,
		&d.HourlyRate,
		&d.VerificationDocumentPath,
		&d.TermsAccepted,
		&d.CreatedAt,
		&d.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return d, nil
}
