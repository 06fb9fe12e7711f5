package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"carebridge-backend/models"
	"carebridge-backend/repository"

	"github.com/google/uuid"
)

type fakeTherapistStore struct {
	details   map[uuid.UUID]*models.TherapistDetails
	createErr error
}

func (f *fakeTherapistStore) CreateDetails(ctx context.Context, d *models.TherapistDetails) error {
	if f.createErr != nil {
		return f.createErr
	}
	d.ID = uuid.New()
	if f.details == nil {
		f.details = map[uuid.UUID]*models.TherapistDetails{}
	}
	f.details[d.ProfileID] = d
	return nil
}

func (f *fakeTherapistStore) GetDetails(ctx context.Context, profileID uuid.UUID) (*models.TherapistDetails, error) {
	d, ok := f.details[profileID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return d, nil
}

func completeDetails(profileID uuid.UUID) models.TherapistDetails {
	return models.TherapistDetails{
		ProfileID:                profileID,
		Bio:                      strings.Repeat("a", MinBioLength),
		LicenseNumber:            "LIC-12345",
		Education:                "MSc Clinical Psychology",
		YearsExperience:          4,
		Specializations:          models.StringList{"anxiety"},
		Languages:                models.StringList{"en"},
		HourlyRate:               80,
		VerificationDocumentPath: "verification-documents/doc.pdf",
		TermsAccepted:            true,
	}
}

func TestValidateStepBioLength(t *testing.T) {
	d := completeDetails(uuid.New())

	d.Bio = strings.Repeat("a", MinBioLength-1)
	err := ValidateStep(1, &d)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected a validation error for a short bio, got %v", err)
	}
	if verr.Field != "bio" || verr.Step != 1 {
		t.Errorf("wrong field/step: %+v", verr)
	}

	// multibyte runes count as single characters
	d.Bio = strings.Repeat("é", MinBioLength)
	if err := ValidateStep(1, &d); err != nil {
		t.Errorf("bio of exactly %d runes should pass, got %v", MinBioLength, err)
	}
}

func TestValidateStepFields(t *testing.T) {
	tests := []struct {
		name   string
		step   int
		mutate func(*models.TherapistDetails)
		field  string
	}{
		{"missing license", 2, func(d *models.TherapistDetails) { d.LicenseNumber = "" }, "license_number"},
		{"missing education", 2, func(d *models.TherapistDetails) { d.Education = "" }, "education"},
		{"negative experience", 2, func(d *models.TherapistDetails) { d.YearsExperience = -1 }, "years_experience"},
		{"no specializations", 3, func(d *models.TherapistDetails) { d.Specializations = nil }, "specializations"},
		{"no languages", 3, func(d *models.TherapistDetails) { d.Languages = nil }, "languages"},
		{"zero rate", 4, func(d *models.TherapistDetails) { d.HourlyRate = 0 }, "hourly_rate"},
		{"missing document", 4, func(d *models.TherapistDetails) { d.VerificationDocumentPath = "" }, "verification_document"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := completeDetails(uuid.New())
			tt.mutate(&d)

			err := ValidateStep(tt.step, &d)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if verr.Field != tt.field {
				t.Errorf("expected field %q, got %q", tt.field, verr.Field)
			}
		})
	}
}

func TestValidateStepOnlyChecksOwnStep(t *testing.T) {
	// an empty license must not block step 1
	d := completeDetails(uuid.New())
	d.LicenseNumber = ""
	if err := ValidateStep(1, &d); err != nil {
		t.Errorf("step 1 should not validate step 2 fields: %v", err)
	}
}

func TestWizardNextAndBack(t *testing.T) {
	w := NewWizard(uuid.New())
	if w.Step != FirstStep {
		t.Fatalf("wizard should start at step %d, got %d", FirstStep, w.Step)
	}

	// can't advance past an invalid step
	if err := w.Next(); err == nil {
		t.Fatal("expected step 1 to block on an empty bio")
	}
	if w.Step != FirstStep {
		t.Errorf("failed Next must not advance, at step %d", w.Step)
	}

	w.Details = completeDetails(w.Details.ProfileID)
	for w.Step < LastStep {
		if err := w.Next(); err != nil {
			t.Fatalf("Next at step %d: %v", w.Step, err)
		}
	}

	if err := w.Next(); err == nil {
		t.Error("Next past the last step should fail")
	}

	// back is unconditional and stops at the first step
	w.Back()
	if w.Step != LastStep-1 {
		t.Errorf("expected step %d after Back, got %d", LastStep-1, w.Step)
	}
	for i := 0; i < 10; i++ {
		w.Back()
	}
	if w.Step != FirstStep {
		t.Errorf("Back should stop at step %d, got %d", FirstStep, w.Step)
	}
}

func TestWizardCanSubmit(t *testing.T) {
	w := NewWizard(uuid.New())
	w.Details = completeDetails(w.Details.ProfileID)

	if w.CanSubmit() {
		t.Error("cannot submit before the last step")
	}

	w.Step = LastStep
	w.Details.TermsAccepted = false
	if w.CanSubmit() {
		t.Error("cannot submit without accepting the terms")
	}

	w.Details.TermsAccepted = true
	if !w.CanSubmit() {
		t.Error("should be able to submit at the last step with terms accepted")
	}
}

func TestSubmitRevalidatesAllSteps(t *testing.T) {
	svc := NewOnboardingService(OnboardingWithTherapistStore(&fakeTherapistStore{}))

	d := completeDetails(uuid.New())
	d.HourlyRate = 0 // step 4 field, invalid regardless of what the client claims

	_, err := svc.Submit(context.Background(), SubmitOnboardingRequest{Details: d})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if verr.Step != 4 {
		t.Errorf("expected step 4 failure, got step %d", verr.Step)
	}
}

func TestSubmitRequiresTerms(t *testing.T) {
	svc := NewOnboardingService(OnboardingWithTherapistStore(&fakeTherapistStore{}))

	d := completeDetails(uuid.New())
	d.TermsAccepted = false

	_, err := svc.Submit(context.Background(), SubmitOnboardingRequest{Details: d})
	if !errors.Is(err, ErrTermsNotAccepted) {
		t.Fatalf("expected ErrTermsNotAccepted, got %v", err)
	}
}

func TestSubmitPersistsAndNotifies(t *testing.T) {
	store := &fakeTherapistStore{}
	notifier := &fakeNotifier{}
	svc := NewOnboardingService(
		OnboardingWithTherapistStore(store),
		OnboardingWithNotifier(notifier),
	)

	profileID := uuid.New()
	result, err := svc.Submit(context.Background(), SubmitOnboardingRequest{Details: completeDetails(profileID)})
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if result.Details.ID == uuid.Nil {
		t.Error("submitted details should carry the generated ID")
	}
	if _, ok := store.details[profileID]; !ok {
		t.Error("details were not persisted")
	}
	if len(notifier.dispatched) != 1 {
		t.Errorf("expected a welcome notification, got %d", len(notifier.dispatched))
	}
}

func TestSubmitStoreFailure(t *testing.T) {
	svc := NewOnboardingService(OnboardingWithTherapistStore(&fakeTherapistStore{
		createErr: errors.New("db down"),
	}))

	_, err := svc.Submit(context.Background(), SubmitOnboardingRequest{Details: completeDetails(uuid.New())})
	if err == nil {
		t.Fatal("expected error when persistence fails")
	}
}
