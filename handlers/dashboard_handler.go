package handlers

import (
	"net/http"

	"carebridge-backend/middleware"
	"carebridge-backend/models"
	"carebridge-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DashboardHandler handles HTTP requests for earnings and review summaries
type DashboardHandler struct {
	earnings *service.EarningsService
	reviews  *service.ReviewService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(earnings *service.EarningsService, reviews *service.ReviewService) *DashboardHandler {
	return &DashboardHandler{earnings: earnings, reviews: reviews}
}

// Earnings handles GET /api/earnings
func (h *DashboardHandler) Earnings(c *gin.Context) {
	if middleware.Role(c) != models.RoleTherapist {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Therapist access only",
			},
		})
		return
	}

	summary, err := h.earnings.Summary(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "EARNINGS_FAILED",
				"message": "Failed to load earnings",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    summary,
	})
}

// Reviews handles GET /api/reviews. Therapists see their own reviews;
// clients pass ?therapist_id to view a therapist's public reviews.
func (h *DashboardHandler) Reviews(c *gin.Context) {
	therapistID := middleware.UserID(c)
	if middleware.Role(c) != models.RoleTherapist {
		id, err := uuid.Parse(c.Query("therapist_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_THERAPIST_ID",
					"message": "therapist_id is required",
				},
			})
			return
		}
		therapistID = id
	}

	summary, err := h.reviews.Summary(c.Request.Context(), therapistID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "REVIEWS_FAILED",
				"message": "Failed to load reviews",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    summary,
	})
}

// SubmitReviewRequest represents the request body for posting a review
type SubmitReviewRequest struct {
	TherapistID string `json:"therapist_id" binding:"required"`
	Rating      int    `json:"rating" binding:"required,min=1,max=5"`
	Comment     string `json:"comment"`
}

// SubmitReview handles POST /api/reviews
func (h *DashboardHandler) SubmitReview(c *gin.Context) {
	var req SubmitReviewRequest
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

	therapistID, err := uuid.Parse(req.TherapistID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_THERAPIST_ID",
				"message": "Invalid therapist_id format",
			},
		})
		return
	}

	review, err := h.reviews.Submit(c.Request.Context(), service.SubmitRequest{
		ClientID:    middleware.UserID(c),
		TherapistID: therapistID,
		Rating:      req.Rating,
		Comment:     req.Comment,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "REVIEW_FAILED",
				"message": "Failed to save review",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    review,
	})
}
