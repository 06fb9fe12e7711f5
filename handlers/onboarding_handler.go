package handlers

import (
	"errors"
	"net/http"

	"carebridge-backend/middleware"
	"carebridge-backend/models"
	"carebridge-backend/repository"
	"carebridge-backend/service"

	"github.com/gin-gonic/gin"
)

// OnboardingHandler handles HTTP requests for the therapist onboarding wizard
type OnboardingHandler struct {
	onboarding *service.OnboardingService
}

// NewOnboardingHandler creates a new onboarding handler
func NewOnboardingHandler(onboarding *service.OnboardingService) *OnboardingHandler {
	return &OnboardingHandler{onboarding: onboarding}
}

// ValidateStepRequest represents one wizard step's fields for validation
type ValidateStepRequest struct {
	Step    int                     `json:"step" binding:"required,min=1,max=5"`
	Details models.TherapistDetails `json:"details"`
}

// ValidateStep handles POST /api/onboarding/validate-step. The client calls
// this before advancing; only the named step's fields are checked.
func (h *OnboardingHandler) ValidateStep(c *gin.Context) {
	var req ValidateStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	if err := service.ValidateStep(req.Step, &req.Details); err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_FAILED",
					"message": verr.Message,
					"field":   verr.Field,
					"step":    verr.Step,
				},
			})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_STEP",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// SubmitRequest represents the completed wizard for submission
type SubmitRequest struct {
	Details models.TherapistDetails `json:"details"`
}

// Submit handles POST /api/onboarding/submit
func (h *OnboardingHandler) Submit(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	// the authenticated user submits their own details, whatever the body says
	req.Details.ProfileID = middleware.UserID(c)

	result, err := h.onboarding.Submit(c.Request.Context(), service.SubmitOnboardingRequest{
		Details: req.Details,
	})
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_FAILED",
					"message": verr.Message,
					"field":   verr.Field,
					"step":    verr.Step,
				},
			})
		case errors.Is(err, service.ErrTermsNotAccepted):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "TERMS_NOT_ACCEPTED",
					"message": "Accept the terms to finish onboarding",
				},
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "SUBMIT_FAILED",
					"message": "Failed to submit onboarding",
				},
			})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    result.Details,
	})
}

// Details handles GET /api/onboarding
func (h *OnboardingHandler) Details(c *gin.Context) {
	details, err := h.onboarding.Details(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "No onboarding details yet",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DETAILS_FAILED",
				"message": "Failed to load onboarding details",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    details,
	})
}
