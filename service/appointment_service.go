package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"carebridge-backend/models"

	"github.com/google/uuid"
)

// AppointmentStore is the subset of the appointment repository used by services
type AppointmentStore interface {
	Create(ctx context.Context, a *models.Appointment) error
	ListByTherapist(ctx context.Context, therapistID uuid.UUID, status *models.AppointmentStatus) ([]*models.Appointment, error)
	ListByClient(ctx context.Context, clientID uuid.UUID, status *models.AppointmentStatus) ([]*models.Appointment, error)
	ListUpcomingByTherapist(ctx context.Context, therapistID uuid.UUID, after time.Time) ([]*models.Appointment, error)
	UpdateStatus(ctx context.Context, id, ownerID uuid.UUID, next models.AppointmentStatus) (*models.Appointment, error)
}

// ProfileStore is the subset of the profile repository used by services
type ProfileStore interface {
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Profile, error)
}

// SessionNoteStore is the subset of the session note repository used by services
type SessionNoteStore interface {
	AppointmentIDsWithNotes(ctx context.Context, appointmentIDs []uuid.UUID) (map[uuid.UUID]bool, error)
}

// Notifier dispatches a notification to a user. Dispatch reports success; it
// never fails the calling operation.
type Notifier interface {
	Dispatch(ctx context.Context, userID uuid.UUID, title, message string, typ models.NotificationType, actionURL string) bool
}

// AppointmentService composes appointments with profile and note data into
// view records for the therapist and client schedules
type AppointmentService struct {
	appointments AppointmentStore
	profiles     ProfileStore
	notes        SessionNoteStore
	notifier     Notifier
}

// AppointmentServiceOption is a functional option for AppointmentService
type AppointmentServiceOption func(*AppointmentService)

// WithAppointmentStore sets the appointment store
func WithAppointmentStore(s AppointmentStore) AppointmentServiceOption {
	return func(svc *AppointmentService) {
		svc.appointments = s
	}
}

// WithProfileStore sets the profile store
func WithProfileStore(s ProfileStore) AppointmentServiceOption {
	return func(svc *AppointmentService) {
		svc.profiles = s
	}
}

// WithSessionNoteStore sets the session note store
func WithSessionNoteStore(s SessionNoteStore) AppointmentServiceOption {
	return func(svc *AppointmentService) {
		svc.notes = s
	}
}

// WithNotifier sets the notifier
func WithNotifier(n Notifier) AppointmentServiceOption {
	return func(svc *AppointmentService) {
		svc.notifier = n
	}
}

// NewAppointmentService creates a new appointment service
func NewAppointmentService(opts ...AppointmentServiceOption) *AppointmentService {
	svc := &AppointmentService{}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// ScheduleRequest represents a request for a user's schedule
type ScheduleRequest struct {
	UserID uuid.UUID
	Role   models.Role
	Status *models.AppointmentStatus
}

// ScheduleResult represents the result of a schedule aggregation
type ScheduleResult struct {
	Appointments []models.AppointmentView
}

// Schedule builds the denormalized appointment list for one user. The primary
// query is scoped to the requesting user; a failed primary query aborts, while
// missing or failed profile lookups degrade each affected record to the
// "Unknown Client" placeholder.
func (svc *AppointmentService) Schedule(ctx context.Context, req ScheduleRequest) (*ScheduleResult, error) {
	if svc.appointments == nil {
		return nil, errors.New("appointment store not set")
	}

	var appointments []*models.Appointment
	var err error
	if req.Role == models.RoleTherapist {
		appointments, err = svc.appointments.ListByTherapist(ctx, req.UserID, req.Status)
	} else {
		appointments, err = svc.appointments.ListByClient(ctx, req.UserID, req.Status)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}

	profiles := svc.lookupCounterparts(ctx, req.UserID, appointments)

	var notes map[uuid.UUID]bool
	if svc.notes != nil {
		notes, err = svc.notes.AppointmentIDsWithNotes(ctx, appointmentIDs(appointments))
		if err != nil {
			log.Printf("schedule: note lookup degraded: %v", err)
			notes = nil
		}
	}

	return &ScheduleResult{
		Appointments: MergeAppointmentViews(req.UserID, appointments, profiles, notes),
	}, nil
}

// NeedingNotesRequest represents a request for completed sessions without notes
type NeedingNotesRequest struct {
	TherapistID uuid.UUID
}

// NeedingNotesResult represents completed appointments annotated with HasNote
type NeedingNotesResult struct {
	Appointments []models.AppointmentView
}

// NeedingNotes lists a therapist's completed appointments annotated with
// whether a session note exists yet.
func (svc *AppointmentService) NeedingNotes(ctx context.Context, req NeedingNotesRequest) (*NeedingNotesResult, error) {
	if svc.appointments == nil || svc.notes == nil {
		return nil, errors.New("appointment or session note store not set")
	}

	completed := models.AppointmentCompleted
	appointments, err := svc.appointments.ListByTherapist(ctx, req.TherapistID, &completed)
	if err != nil {
		return nil, fmt.Errorf("failed to list completed appointments: %w", err)
	}

	notes, err := svc.notes.AppointmentIDsWithNotes(ctx, appointmentIDs(appointments))
	if err != nil {
		log.Printf("needing notes: note lookup degraded: %v", err)
		notes = nil
	}

	profiles := svc.lookupCounterparts(ctx, req.TherapistID, appointments)

	return &NeedingNotesResult{
		Appointments: MergeAppointmentViews(req.TherapistID, appointments, profiles, notes),
	}, nil
}

// Upcoming lists a therapist's pending and confirmed appointments starting
// after now, soonest first, for the dashboard widget.
func (svc *AppointmentService) Upcoming(ctx context.Context, therapistID uuid.UUID) ([]models.AppointmentView, error) {
	if svc.appointments == nil {
		return nil, errors.New("appointment store not set")
	}

	appointments, err := svc.appointments.ListUpcomingByTherapist(ctx, therapistID, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming appointments: %w", err)
	}

	profiles := svc.lookupCounterparts(ctx, therapistID, appointments)
	return MergeAppointmentViews(therapistID, appointments, profiles, nil), nil
}

// BookRequest represents a request to book an appointment
type BookRequest struct {
	ClientID    uuid.UUID
	TherapistID uuid.UUID
	StartTime   time.Time
	EndTime     time.Time
	SessionType string
	Notes       string
}

// BookResult represents the result of booking an appointment
type BookResult struct {
	Appointment *models.Appointment
}

// Book creates a pending appointment and notifies the therapist
func (svc *AppointmentService) Book(ctx context.Context, req BookRequest) (*BookResult, error) {
	if svc.appointments == nil {
		return nil, errors.New("appointment store not set")
	}

	a := &models.Appointment{
		ClientID:    req.ClientID,
		TherapistID: req.TherapistID,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Status:      models.AppointmentPending,
		SessionType: req.SessionType,
		Notes:       req.Notes,
	}

	if err := svc.appointments.Create(ctx, a); err != nil {
		return nil, err
	}

	if svc.notifier != nil {
		svc.notifier.Dispatch(ctx, a.TherapistID,
			"New appointment request",
			fmt.Sprintf("A client requested a %s session on %s", a.SessionType, a.StartTime.Format("Jan 2 at 3:04 PM")),
			models.NotificationAppointment,
			"/appointments/"+a.ID.String(),
		)
	}

	return &BookResult{Appointment: a}, nil
}

// UpdateStatusRequest represents a request to change an appointment's status
type UpdateStatusRequest struct {
	AppointmentID uuid.UUID
	UserID        uuid.UUID
	Next          models.AppointmentStatus
}

// UpdateStatusResult represents the result of a status change
type UpdateStatusResult struct {
	Appointment *models.Appointment
}

// UpdateStatus transitions an appointment and notifies the counterparty
func (svc *AppointmentService) UpdateStatus(ctx context.Context, req UpdateStatusRequest) (*UpdateStatusResult, error) {
	if svc.appointments == nil {
		return nil, errors.New("appointment store not set")
	}

	a, err := svc.appointments.UpdateStatus(ctx, req.AppointmentID, req.UserID, req.Next)
	if err != nil {
		return nil, err
	}

	if svc.notifier != nil {
		counterparty := a.ClientID
		if req.UserID == a.ClientID {
			counterparty = a.TherapistID
		}
		svc.notifier.Dispatch(ctx, counterparty,
			"Appointment "+string(a.Status),
			fmt.Sprintf("Your appointment on %s is now %s", a.StartTime.Format("Jan 2 at 3:04 PM"), a.Status),
			models.NotificationAppointment,
			"/appointments/"+a.ID.String(),
		)
	}

	return &UpdateStatusResult{Appointment: a}, nil
}

// lookupCounterparts batch-fetches the profile of each appointment's other
// party. Lookup failure degrades to an empty map so the merge falls back to
// placeholders instead of failing the aggregation.
func (svc *AppointmentService) lookupCounterparts(ctx context.Context, userID uuid.UUID, appointments []*models.Appointment) map[uuid.UUID]*models.Profile {
	if svc.profiles == nil || len(appointments) == 0 {
		return nil
	}

	profiles, err := svc.profiles.GetByIDs(ctx, counterpartIDs(userID, appointments))
	if err != nil {
		log.Printf("schedule: profile lookup degraded: %v", err)
		return nil
	}
	return profiles
}

// MergeAppointmentViews merges profile and note lookups into the appointment
// list. Output order matches the input order exactly; a missing profile
// degrades to the "Unknown Client" placeholder and a missing note set means
// HasNote is false for every record.
func MergeAppointmentViews(userID uuid.UUID, appointments []*models.Appointment, profiles map[uuid.UUID]*models.Profile, notes map[uuid.UUID]bool) []models.AppointmentView {
	out := make([]models.AppointmentView, 0, len(appointments))
	for _, a := range appointments {
		counterparty := a.ClientID
		if userID == a.ClientID {
			counterparty = a.TherapistID
		}
		p := profiles[counterparty]
		out = append(out, models.AppointmentView{
			Appointment:    *a,
			ClientName:     p.DisplayName(),
			ClientImageURL: p.ImageURL(),
			HasNote:        notes[a.ID],
		})
	}
	return out
}

func appointmentIDs(appointments []*models.Appointment) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(appointments))
	for _, a := range appointments {
		ids = append(ids, a.ID)
	}
	return ids
}

// counterpartIDs collects the distinct "other party" IDs to batch-fetch
func counterpartIDs(userID uuid.UUID, appointments []*models.Appointment) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(appointments))
	ids := make([]uuid.UUID, 0, len(appointments))
	for _, a := range appointments {
		counterparty := a.ClientID
		if userID == a.ClientID {
			counterparty = a.TherapistID
		}
		if !seen[counterparty] {
			seen[counterparty] = true
			ids = append(ids, counterparty)
		}
	}
	return ids
}
