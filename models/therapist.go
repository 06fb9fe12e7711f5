package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// StringList is a JSONB-backed list of strings
type StringList []string

// Value implements driver.Valuer for JSONB
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner for JSONB
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	if len(bytes) == 0 {
		*l = StringList{}
		return nil
	}

	return json.Unmarshal(bytes, l)
}

// TherapistDetails represents the professional details collected during
// therapist onboarding
type TherapistDetails struct {
	ID        uuid.UUID `json:"id"`
	ProfileID uuid.UUID `json:"profile_id"`

	// Step 1: About
	Bio string `json:"bio"`

	// Step 2: Credentials
	LicenseNumber   string `json:"license_number"`
	Education       string `json:"education"`
	YearsExperience int    `json:"years_experience"`

	// Step 3: Practice
	Specializations StringList `json:"specializations"`
	Languages       StringList `json:"languages"`

	// Step 4: Rates & documents
	HourlyRate               float64 `json:"hourly_rate"`
	VerificationDocumentPath string  `json:"verification_document_path"`

	// Step 5: Review & submit
	TermsAccepted bool `json:"terms_accepted"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
