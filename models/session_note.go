package models

import (
	"time"

	"github.com/google/uuid"
)

// SessionNote represents a therapist's note for a session. An appointment has
// at most one note (enforced by a unique index on appointment_id).
type SessionNote struct {
	ID            uuid.UUID  `json:"id"`
	AppointmentID *uuid.UUID `json:"appointment_id,omitempty"`
	ClientID      uuid.UUID  `json:"client_id"`
	TherapistID   uuid.UUID  `json:"therapist_id"`
	Title         string     `json:"title"`
	Content       string     `json:"content"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
