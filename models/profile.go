package models

import (
	"time"

	"github.com/google/uuid"
)

// Role represents the role of a profile
type Role string

const (
	RoleClient    Role = "client"
	RoleTherapist Role = "therapist"
)

// Profile represents a user profile entity
type Profile struct {
	ID              uuid.UUID `json:"id"`
	FullName        string    `json:"full_name"`
	Email           string    `json:"email"`
	PasswordHash    string    `json:"-"` // Never serialize password hash
	Role            Role      `json:"role"`
	ProfileImageURL *string   `json:"profile_image_url,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// UnknownClientName is the display name used when a profile lookup misses.
// Foreign keys are not enforced end to end, so a dangling client_id or
// therapist_id degrades to this placeholder instead of failing the page.
const UnknownClientName = "Unknown Client"

// DisplayName returns the profile's name, or the placeholder for a nil profile.
func (p *Profile) DisplayName() string {
	if p == nil || p.FullName == "" {
		return UnknownClientName
	}
	return p.FullName
}

// ImageURL returns the profile image URL, or empty for a nil profile.
func (p *Profile) ImageURL() string {
	if p == nil || p.ProfileImageURL == nil {
		return ""
	}
	return *p.ProfileImageURL
}
