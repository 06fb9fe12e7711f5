package models

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	AppointmentPending   AppointmentStatus = "pending"
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

// CanTransitionTo reports whether a status change is allowed. Transitions are
// monotonic: pending → confirmed → completed, with cancellation possible only
// from pending or confirmed.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	switch s {
	case AppointmentPending:
		return next == AppointmentConfirmed || next == AppointmentCancelled
	case AppointmentConfirmed:
		return next == AppointmentCompleted || next == AppointmentCancelled
	default:
		return false
	}
}

// Valid reports whether the status is one of the known values.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentPending, AppointmentConfirmed, AppointmentCompleted, AppointmentCancelled:
		return true
	}
	return false
}

// Appointment represents a therapy appointment entity
type Appointment struct {
	ID          uuid.UUID         `json:"id"`
	ClientID    uuid.UUID         `json:"client_id"`
	TherapistID uuid.UUID         `json:"therapist_id"`
	StartTime   time.Time         `json:"start_time"`
	EndTime     time.Time         `json:"end_time"`
	Status      AppointmentStatus `json:"status"`
	SessionType string            `json:"session_type"`
	Notes       string            `json:"notes"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// AppointmentView is an appointment merged with profile data for display.
type AppointmentView struct {
	Appointment
	ClientName     string `json:"client_name"`
	ClientImageURL string `json:"client_image_url"`
	HasNote        bool   `json:"has_note"`
}
