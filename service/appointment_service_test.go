package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"carebridge-backend/models"

	"github.com/google/uuid"
)

type fakeAppointmentStore struct {
	appointments []*models.Appointment
	listErr      error
	created      []*models.Appointment
}

func (f *fakeAppointmentStore) Create(ctx context.Context, a *models.Appointment) error {
	a.ID = uuid.New()
	f.created = append(f.created, a)
	return nil
}

func (f *fakeAppointmentStore) ListByTherapist(ctx context.Context, therapistID uuid.UUID, status *models.AppointmentStatus) ([]*models.Appointment, error) {
	return f.filtered(status), f.listErr
}

func (f *fakeAppointmentStore) ListByClient(ctx context.Context, clientID uuid.UUID, status *models.AppointmentStatus) ([]*models.Appointment, error) {
	return f.filtered(status), f.listErr
}

func (f *fakeAppointmentStore) filtered(status *models.AppointmentStatus) []*models.Appointment {
	if status == nil {
		return f.appointments
	}
	var out []*models.Appointment
	for _, a := range f.appointments {
		if a.Status == *status {
			out = append(out, a)
		}
	}
	return out
}

func (f *fakeAppointmentStore) ListUpcomingByTherapist(ctx context.Context, therapistID uuid.UUID, after time.Time) ([]*models.Appointment, error) {
	return f.appointments, f.listErr
}

func (f *fakeAppointmentStore) UpdateStatus(ctx context.Context, id, ownerID uuid.UUID, next models.AppointmentStatus) (*models.Appointment, error) {
	for _, a := range f.appointments {
		if a.ID == id {
			a.Status = next
			return a, nil
		}
	}
	return nil, errors.New("not found")
}

type fakeProfileStore struct {
	profiles map[uuid.UUID]*models.Profile
	err      error
	calls    int
}

func (f *fakeProfileStore) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Profile, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[uuid.UUID]*models.Profile)
	for _, id := range ids {
		if p, ok := f.profiles[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

type fakeSessionNoteStore struct {
	withNotes map[uuid.UUID]bool
	err       error
}

func (f *fakeSessionNoteStore) AppointmentIDsWithNotes(ctx context.Context, appointmentIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[uuid.UUID]bool)
	for _, id := range appointmentIDs {
		if f.withNotes[id] {
			out[id] = true
		}
	}
	return out, nil
}

type fakeNotifier struct {
	dispatched []string
}

func (f *fakeNotifier) Dispatch(ctx context.Context, userID uuid.UUID, title, message string, typ models.NotificationType, actionURL string) bool {
	f.dispatched = append(f.dispatched, title)
	return true
}

func appointment(client, therapist uuid.UUID, status models.AppointmentStatus) *models.Appointment {
	return &models.Appointment{
		ID:          uuid.New(),
		ClientID:    client,
		TherapistID: therapist,
		StartTime:   time.Now(),
		EndTime:     time.Now().Add(time.Hour),
		Status:      status,
	}
}

func TestScheduleMergesProfilesAndNotes(t *testing.T) {
	therapist := uuid.New()
	clientA := uuid.New()
	clientB := uuid.New()

	a1 := appointment(clientA, therapist, models.AppointmentCompleted)
	a2 := appointment(clientB, therapist, models.AppointmentPending)
	a3 := appointment(clientA, therapist, models.AppointmentConfirmed)

	svc := NewAppointmentService(
		WithAppointmentStore(&fakeAppointmentStore{appointments: []*models.Appointment{a1, a2, a3}}),
		WithProfileStore(&fakeProfileStore{profiles: map[uuid.UUID]*models.Profile{
			clientA: {ID: clientA, FullName: "Alice"},
		}}),
		WithSessionNoteStore(&fakeSessionNoteStore{withNotes: map[uuid.UUID]bool{a3.ID: true}}),
	)

	result, err := svc.Schedule(context.Background(), ScheduleRequest{
		UserID: therapist,
		Role:   models.RoleTherapist,
	})
	if err != nil {
		t.Fatalf("Schedule returned error: %v", err)
	}

	if len(result.Appointments) != 3 {
		t.Fatalf("expected 3 views, got %d", len(result.Appointments))
	}

	// output order matches the store's order
	if result.Appointments[0].ID != a1.ID || result.Appointments[2].ID != a3.ID {
		t.Error("output order does not match input order")
	}

	if got := result.Appointments[0].ClientName; got != "Alice" {
		t.Errorf("expected client name Alice, got %q", got)
	}

	// clientB has no profile row, the view degrades to the placeholder
	if got := result.Appointments[1].ClientName; got != models.UnknownClientName {
		t.Errorf("expected %q for missing profile, got %q", models.UnknownClientName, got)
	}

	if result.Appointments[0].HasNote {
		t.Error("a1 has no note, HasNote should be false")
	}
	if !result.Appointments[2].HasNote {
		t.Error("a3 has a note, HasNote should be true")
	}
}

func TestScheduleProfileLookupDegrades(t *testing.T) {
	therapist := uuid.New()
	a := appointment(uuid.New(), therapist, models.AppointmentConfirmed)

	svc := NewAppointmentService(
		WithAppointmentStore(&fakeAppointmentStore{appointments: []*models.Appointment{a}}),
		WithProfileStore(&fakeProfileStore{err: errors.New("profiles down")}),
	)

	result, err := svc.Schedule(context.Background(), ScheduleRequest{
		UserID: therapist,
		Role:   models.RoleTherapist,
	})
	if err != nil {
		t.Fatalf("Schedule should degrade, not fail: %v", err)
	}
	if got := result.Appointments[0].ClientName; got != models.UnknownClientName {
		t.Errorf("expected placeholder name on lookup failure, got %q", got)
	}
}

func TestSchedulePrimaryFailureAborts(t *testing.T) {
	svc := NewAppointmentService(
		WithAppointmentStore(&fakeAppointmentStore{listErr: errors.New("db down")}),
	)

	_, err := svc.Schedule(context.Background(), ScheduleRequest{
		UserID: uuid.New(),
		Role:   models.RoleClient,
	})
	if err == nil {
		t.Fatal("expected error when the primary query fails")
	}
}

func TestNeedingNotesOnlyCompleted(t *testing.T) {
	therapist := uuid.New()
	client := uuid.New()

	done := appointment(client, therapist, models.AppointmentCompleted)
	pending := appointment(client, therapist, models.AppointmentPending)

	svc := NewAppointmentService(
		WithAppointmentStore(&fakeAppointmentStore{appointments: []*models.Appointment{done, pending}}),
		WithSessionNoteStore(&fakeSessionNoteStore{}),
	)

	result, err := svc.NeedingNotes(context.Background(), NeedingNotesRequest{TherapistID: therapist})
	if err != nil {
		t.Fatalf("NeedingNotes returned error: %v", err)
	}

	if len(result.Appointments) != 1 {
		t.Fatalf("expected only the completed appointment, got %d", len(result.Appointments))
	}
	if result.Appointments[0].ID != done.ID {
		t.Error("wrong appointment returned")
	}
	if result.Appointments[0].HasNote {
		t.Error("appointment without a note should report HasNote false")
	}
}

func TestUpcomingMergesProfiles(t *testing.T) {
	therapist := uuid.New()
	client := uuid.New()
	a := appointment(client, therapist, models.AppointmentConfirmed)

	svc := NewAppointmentService(
		WithAppointmentStore(&fakeAppointmentStore{appointments: []*models.Appointment{a}}),
		WithProfileStore(&fakeProfileStore{profiles: map[uuid.UUID]*models.Profile{
			client: {ID: client, FullName: "Alice"},
		}}),
	)

	views, err := svc.Upcoming(context.Background(), therapist)
	if err != nil {
		t.Fatalf("Upcoming returned error: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("expected 1 view, got %d", len(views))
	}
	if views[0].ClientName != "Alice" {
		t.Errorf("expected client name Alice, got %q", views[0].ClientName)
	}
}

func TestBookNotifiesTherapist(t *testing.T) {
	store := &fakeAppointmentStore{}
	notifier := &fakeNotifier{}
	svc := NewAppointmentService(
		WithAppointmentStore(store),
		WithNotifier(notifier),
	)

	result, err := svc.Book(context.Background(), BookRequest{
		ClientID:    uuid.New(),
		TherapistID: uuid.New(),
		StartTime:   time.Now(),
		EndTime:     time.Now().Add(time.Hour),
		SessionType: "video",
	})
	if err != nil {
		t.Fatalf("Book returned error: %v", err)
	}

	if result.Appointment.Status != models.AppointmentPending {
		t.Errorf("new appointments start pending, got %s", result.Appointment.Status)
	}
	if len(notifier.dispatched) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(notifier.dispatched))
	}
}

func TestUpdateStatusNotifiesCounterparty(t *testing.T) {
	therapist := uuid.New()
	client := uuid.New()
	a := appointment(client, therapist, models.AppointmentPending)

	notifier := &fakeNotifier{}
	svc := NewAppointmentService(
		WithAppointmentStore(&fakeAppointmentStore{appointments: []*models.Appointment{a}}),
		WithNotifier(notifier),
	)

	result, err := svc.UpdateStatus(context.Background(), UpdateStatusRequest{
		AppointmentID: a.ID,
		UserID:        therapist,
		Next:          models.AppointmentConfirmed,
	})
	if err != nil {
		t.Fatalf("UpdateStatus returned error: %v", err)
	}
	if result.Appointment.Status != models.AppointmentConfirmed {
		t.Errorf("expected confirmed, got %s", result.Appointment.Status)
	}
	if len(notifier.dispatched) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(notifier.dispatched))
	}
}

func TestCounterpartIDsDeduplicates(t *testing.T) {
	therapist := uuid.New()
	client := uuid.New()

	appointments := []*models.Appointment{
		appointment(client, therapist, models.AppointmentPending),
		appointment(client, therapist, models.AppointmentCompleted),
	}

	ids := counterpartIDs(therapist, appointments)
	if len(ids) != 1 {
		t.Fatalf("expected 1 distinct counterpart, got %d", len(ids))
	}
	if ids[0] != client {
		t.Error("expected the client's ID")
	}
}
