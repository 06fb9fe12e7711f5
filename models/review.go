package models

import (
	"time"

	"github.com/google/uuid"
)

// Review represents a client's review of a therapist
type Review struct {
	ID          uuid.UUID `json:"id"`
	ClientID    uuid.UUID `json:"client_id"`
	TherapistID uuid.UUID `json:"therapist_id"`
	Rating      int       `json:"rating"` // 1..5
	Comment     string    `json:"comment"`
	CreatedAt   time.Time `json:"created_at"`
}

// ReviewView is a review merged with the reviewer's profile for display.
type ReviewView struct {
	Review
	ClientName     string `json:"client_name"`
	ClientImageURL string `json:"client_image_url"`
}
