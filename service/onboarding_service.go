package service

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"carebridge-backend/models"

	"github.com/google/uuid"
)

// TherapistStore is the subset of the therapist repository used by services
type TherapistStore interface {
	CreateDetails(ctx context.Context, d *models.TherapistDetails) error
	GetDetails(ctx context.Context, profileID uuid.UUID) (*models.TherapistDetails, error)
}

// Onboarding wizard bounds
const (
	FirstStep = 1
	LastStep  = 5

	// MinBioLength is the declared minimum for the step 1 bio field
	MinBioLength = 50
)

// ErrTermsNotAccepted is returned when submit is attempted without accepting the terms
var ErrTermsNotAccepted = errors.New("terms must be accepted before submitting")

// ValidationError describes a single field failing a wizard step's validation
type ValidationError struct {
	Step    int    `json:"step"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("step %d: %s: %s", e.Step, e.Field, e.Message)
}

// ValidateStep validates only the fields belonging to one wizard step. Earlier
// and later steps are not checked, so going back and forth never re-blocks a
// step the user has not touched.
func ValidateStep(step int, d *models.TherapistDetails) error {
	switch step {
	case 1:
		if utf8.RuneCountInString(d.Bio) < MinBioLength {
			return &ValidationError{Step: 1, Field: "bio", Message: fmt.Sprintf("must be at least %d characters", MinBioLength)}
		}
	case 2:
		if d.LicenseNumber == "" {
			return &ValidationError{Step: 2, Field: "license_number", Message: "is required"}
		}
		if d.Education == "" {
			return &ValidationError{Step: 2, Field: "education", Message: "is required"}
		}
		if d.YearsExperience < 0 {
			return &ValidationError{Step: 2, Field: "years_experience", Message: "cannot be negative"}
		}
	case 3:
		if len(d.Specializations) == 0 {
			return &ValidationError{Step: 3, Field: "specializations", Message: "select at least one"}
		}
		if len(d.Languages) == 0 {
			return &ValidationError{Step: 3, Field: "languages", Message: "select at least one"}
		}
	case 4:
		if d.HourlyRate <= 0 {
			return &ValidationError{Step: 4, Field: "hourly_rate", Message: "must be greater than zero"}
		}
		if d.VerificationDocumentPath == "" {
			return &ValidationError{Step: 4, Field: "verification_document", Message: "upload a verification document"}
		}
	case 5:
		// review step, nothing to validate until submit
	default:
		return fmt.Errorf("unknown step %d", step)
	}
	return nil
}

// Wizard is the linear five-step onboarding state machine. Advancing is
// guarded by the current step's validation; going back is unconditional.
type Wizard struct {
	Step    int
	Details models.TherapistDetails
}

// NewWizard creates a wizard positioned at the first step
func NewWizard(profileID uuid.UUID) *Wizard {
	return &Wizard{
		Step:    FirstStep,
		Details: models.TherapistDetails{ProfileID: profileID},
	}
}

// Next validates the current step and advances to the following one
func (w *Wizard) Next() error {
	if w.Step >= LastStep {
		return fmt.Errorf("already at step %d", LastStep)
	}
	if err := ValidateStep(w.Step, &w.Details); err != nil {
		return err
	}
	w.Step++
	return nil
}

// Back moves to the previous step without validation
func (w *Wizard) Back() {
	if w.Step > FirstStep {
		w.Step--
	}
}

// CanSubmit reports whether the terminal action is reachable: only at the last
// step and only with the terms accepted.
func (w *Wizard) CanSubmit() bool {
	return w.Step == LastStep && w.Details.TermsAccepted
}

// OnboardingService validates and persists therapist onboarding submissions
type OnboardingService struct {
	therapists TherapistStore
	notifier   Notifier
}

// OnboardingServiceOption is a functional option for OnboardingService
type OnboardingServiceOption func(*OnboardingService)

// OnboardingWithTherapistStore sets the therapist store
func OnboardingWithTherapistStore(s TherapistStore) OnboardingServiceOption {
	return func(svc *OnboardingService) {
		svc.therapists = s
	}
}

// OnboardingWithNotifier sets the notifier
func OnboardingWithNotifier(n Notifier) OnboardingServiceOption {
	return func(svc *OnboardingService) {
		svc.notifier = n
	}
}

// NewOnboardingService creates a new onboarding service
func NewOnboardingService(opts ...OnboardingServiceOption) *OnboardingService {
	svc := &OnboardingService{}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// SubmitOnboardingRequest represents a completed wizard submission
type SubmitOnboardingRequest struct {
	Details models.TherapistDetails
}

// SubmitOnboardingResult represents the result of an onboarding submission
type SubmitOnboardingResult struct {
	Details *models.TherapistDetails
}

// Submit re-validates every step server side, requires the terms flag, and
// persists through the single-transaction database function so the details
// row and the profile role change land together or not at all.
func (svc *OnboardingService) Submit(ctx context.Context, req SubmitOnboardingRequest) (*SubmitOnboardingResult, error) {
	if svc.therapists == nil {
		return nil, errors.New("therapist store not set")
	}

	for step := FirstStep; step <= LastStep; step++ {
		if err := ValidateStep(step, &req.Details); err != nil {
			return nil, err
		}
	}
	if !req.Details.TermsAccepted {
		return nil, ErrTermsNotAccepted
	}

	d := req.Details
	if err := svc.therapists.CreateDetails(ctx, &d); err != nil {
		return nil, fmt.Errorf("failed to save therapist details: %w", err)
	}

	if svc.notifier != nil {
		svc.notifier.Dispatch(ctx, d.ProfileID,
			"Welcome aboard",
			"Your therapist profile was submitted and is pending verification",
			models.NotificationSystem,
			"/dashboard",
		)
	}

	return &SubmitOnboardingResult{Details: &d}, nil
}

// Details retrieves a therapist's saved onboarding details
func (svc *OnboardingService) Details(ctx context.Context, profileID uuid.UUID) (*models.TherapistDetails, error) {
	if svc.therapists == nil {
		return nil, errors.New("therapist store not set")
	}
	return svc.therapists.GetDetails(ctx, profileID)
}
