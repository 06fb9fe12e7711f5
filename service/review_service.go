package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"carebridge-backend/models"

	"github.com/google/uuid"
)

// ReviewStore is the subset of the review repository used by services
type ReviewStore interface {
	Create(ctx context.Context, review *models.Review) error
	ListByTherapist(ctx context.Context, therapistID uuid.UUID) ([]*models.Review, error)
}

// ReviewService aggregates reviews into display views and rating stats
type ReviewService struct {
	reviews  ReviewStore
	profiles ProfileStore
	notifier Notifier
}

// ReviewServiceOption is a functional option for ReviewService
type ReviewServiceOption func(*ReviewService)

// ReviewWithStore sets the review store
func ReviewWithStore(s ReviewStore) ReviewServiceOption {
	return func(svc *ReviewService) {
		svc.reviews = s
	}
}

// ReviewWithProfileStore sets the profile store
func ReviewWithProfileStore(s ProfileStore) ReviewServiceOption {
	return func(svc *ReviewService) {
		svc.profiles = s
	}
}

// ReviewWithNotifier sets the notifier
func ReviewWithNotifier(n Notifier) ReviewServiceOption {
	return func(svc *ReviewService) {
		svc.notifier = n
	}
}

// NewReviewService creates a new review service
func NewReviewService(opts ...ReviewServiceOption) *ReviewService {
	svc := &ReviewService{}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// ReviewSummary represents a therapist's review page data
type ReviewSummary struct {
	Reviews       []models.ReviewView `json:"reviews"`
	AverageRating float64             `json:"average_rating"`
	Distribution  [5]int              `json:"distribution"` // index 0 = 1 star
}

// Summary builds the review list with reviewer names and rating aggregates.
// Missing reviewer profiles degrade to the placeholder.
func (svc *ReviewService) Summary(ctx context.Context, therapistID uuid.UUID) (*ReviewSummary, error) {
	if svc.reviews == nil {
		return nil, errors.New("review store not set")
	}

	reviews, err := svc.reviews.ListByTherapist(ctx, therapistID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	var profiles map[uuid.UUID]*models.Profile
	if svc.profiles != nil && len(reviews) > 0 {
		ids := make([]uuid.UUID, 0, len(reviews))
		seen := make(map[uuid.UUID]bool, len(reviews))
		for _, r := range reviews {
			if !seen[r.ClientID] {
				seen[r.ClientID] = true
				ids = append(ids, r.ClientID)
			}
		}
		if profiles, err = svc.profiles.GetByIDs(ctx, ids); err != nil {
			log.Printf("reviews: profile lookup degraded: %v", err)
			profiles = nil
		}
	}

	summary := &ReviewSummary{Reviews: MergeReviewViews(reviews, profiles)}
	summary.AverageRating, summary.Distribution = RatingStats(reviews)
	return summary, nil
}

// SubmitRequest represents a request to post a review
type SubmitRequest struct {
	ClientID    uuid.UUID
	TherapistID uuid.UUID
	Rating      int
	Comment     string
}

// Submit validates and persists a review, then notifies the therapist
func (svc *ReviewService) Submit(ctx context.Context, req SubmitRequest) (*models.Review, error) {
	if svc.reviews == nil {
		return nil, errors.New("review store not set")
	}
	if req.Rating < 1 || req.Rating > 5 {
		return nil, errors.New("rating must be between 1 and 5")
	}

	review := &models.Review{
		ClientID:    req.ClientID,
		TherapistID: req.TherapistID,
		Rating:      req.Rating,
		Comment:     req.Comment,
	}
	if err := svc.reviews.Create(ctx, review); err != nil {
		return nil, err
	}

	if svc.notifier != nil {
		svc.notifier.Dispatch(ctx, req.TherapistID,
			"New review",
			fmt.Sprintf("A client left you a %d-star review", req.Rating),
			models.NotificationReview,
			"/reviews",
		)
	}

	return review, nil
}

// MergeReviewViews merges reviewer profiles into the review list, preserving
// order and degrading missing profiles to the placeholder.
func MergeReviewViews(reviews []*models.Review, profiles map[uuid.UUID]*models.Profile) []models.ReviewView {
	out := make([]models.ReviewView, 0, len(reviews))
	for _, r := range reviews {
		p := profiles[r.ClientID]
		out = append(out, models.ReviewView{
			Review:         *r,
			ClientName:     p.DisplayName(),
			ClientImageURL: p.ImageURL(),
		})
	}
	return out
}

// RatingStats computes the average rating and the per-star counts.
// Out-of-range ratings are ignored rather than skewing the distribution.
func RatingStats(reviews []*models.Review) (average float64, distribution [5]int) {
	var sum, counted int
	for _, r := range reviews {
		if r.Rating < 1 || r.Rating > 5 {
			continue
		}
		distribution[r.Rating-1]++
		sum += r.Rating
		counted++
	}
	if counted == 0 {
		return 0, distribution
	}
	return float64(sum) / float64(counted), distribution
}
