package repository

import (
	"context"
	"errors"

	"carebridge-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = errors.New("record not found")

// ProfileRepository handles database operations for profiles
type ProfileRepository struct {
	db *pgxpool.Pool
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Create creates a new profile
func (r *ProfileRepository) Create(ctx context.Context, profile *models.Profile) error {
	query := `
		INSERT INTO profiles (full_name, email, password_hash, role, profile_image_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(
		ctx, query,
		profile.FullName,
		profile.Email,
		profile.PasswordHash,
		profile.Role,
		profile.ProfileImageURL,
	).Scan(&profile.ID, &profile.CreatedAt, &profile.UpdatedAt)

	return err
}

// GetByID retrieves a profile by ID
func (r *ProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	profile := &models.Profile{}
	query := `
		SELECT id, full_name, email, password_hash, role, profile_image_url, created_at, updated_at
		FROM profiles
		WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&profile.ID,
		&profile.FullName,
		&profile.Email,
		&profile.PasswordHash,
		&profile.Role,
		&profile.ProfileImageURL,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return profile, nil
}

// GetByEmail retrieves a profile by email
func (r *ProfileRepository) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	profile := &models.Profile{}
	query := `
		SELECT id, full_name, email, password_hash, role, profile_image_url, created_at, updated_at
		FROM profiles
		WHERE email = $1`

	err := r.db.QueryRow(ctx, query, email).Scan(
		&profile.ID,
		&profile.FullName,
		&profile.Email,
		&profile.PasswordHash,
		&profile.Role,
		&profile.ProfileImageURL,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return profile, nil
}

// GetByIDs retrieves profiles for a set of IDs in one query and returns them
// keyed by ID. IDs with no matching row are simply absent from the map; the
// caller decides how to degrade.
func (r *ProfileRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Profile, error) {
	out := make(map[uuid.UUID]*models.Profile, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	query := `
		SELECT id, full_name, email, password_hash, role, profile_image_url, created_at, updated_at
		FROM profiles
		WHERE id = ANY($1)`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		profile := &models.Profile{}
		err := rows.Scan(
			&profile.ID,
			&profile.FullName,
			&profile.Email,
			&profile.PasswordHash,
			&profile.Role,
			&profile.ProfileImageURL,
			&profile.CreatedAt,
			&profile.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		out[profile.ID] = profile
	}

	return out, rows.Err()
}

// UpdateImageURL updates the profile image URL
func (r *ProfileRepository) UpdateImageURL(ctx context.Context, id uuid.UUID, url string) error {
	query := `
		UPDATE profiles SET
			profile_image_url = $2,
			updated_at = NOW()
		WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id, url)
	return err
}
