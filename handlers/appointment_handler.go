package handlers

import (
	"errors"
	"net/http"
	"time"

	"carebridge-backend/middleware"
	"carebridge-backend/models"
	"carebridge-backend/repository"
	"carebridge-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AppointmentHandler handles HTTP requests for appointments
type AppointmentHandler struct {
	appointments *service.AppointmentService
}

// NewAppointmentHandler creates a new appointment handler
func NewAppointmentHandler(appointments *service.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{appointments: appointments}
}

// List handles GET /api/appointments
func (h *AppointmentHandler) List(c *gin.Context) {
	req := service.ScheduleRequest{
		UserID: middleware.UserID(c),
		Role:   middleware.Role(c),
	}

	if s := c.Query("status"); s != "" {
		status := models.AppointmentStatus(s)
		if !status.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_STATUS",
					"message": "Unknown appointment status",
				},
			})
			return
		}
		req.Status = &status
	}

	result, err := h.appointments.Schedule(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "SCHEDULE_FAILED",
				"message": "Failed to load appointments",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Appointments,
	})
}

// NeedingNotes handles GET /api/appointments/needing-notes
func (h *AppointmentHandler) NeedingNotes(c *gin.Context) {
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

	result, err := h.appointments.NeedingNotes(c.Request.Context(), service.NeedingNotesRequest{
		TherapistID: middleware.UserID(c),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "SCHEDULE_FAILED",
				"message": "Failed to load completed sessions",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Appointments,
	})
}

// Upcoming handles GET /api/appointments/upcoming
func (h *AppointmentHandler) Upcoming(c *gin.Context) {
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

	views, err := h.appointments.Upcoming(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "SCHEDULE_FAILED",
				"message": "Failed to load upcoming appointments",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    views,
	})
}

// BookRequest represents the request body for booking an appointment
type BookRequest struct {
	TherapistID string    `json:"therapist_id" binding:"required"`
	StartTime   time.Time `json:"start_time" binding:"required"`
	EndTime     time.Time `json:"end_time" binding:"required"`
	SessionType string    `json:"session_type" binding:"required"`
	Notes       string    `json:"notes"`
}

// Book handles POST /api/appointments
func (h *AppointmentHandler) Book(c *gin.Context) {
	var req BookRequest
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

	result, err := h.appointments.Book(c.Request.Context(), service.BookRequest{
		ClientID:    middleware.UserID(c),
		TherapistID: therapistID,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		SessionType: req.SessionType,
		Notes:       req.Notes,
	})
	if err != nil {
		status := http.StatusInternalServerError
		code := "BOOKING_FAILED"
		if errors.Is(err, repository.ErrInvalidTimeRange) {
			status = http.StatusBadRequest
			code = "INVALID_TIME_RANGE"
		}
		c.JSON(status, gin.H{
			"success": false,
			"error": gin.H{
				"code":    code,
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    result.Appointment,
	})
}

// UpdateStatusRequest represents the request body for a status change
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus handles PATCH /api/appointments/:id/status
func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid appointment id",
			},
		})
		return
	}

	var req UpdateStatusRequest
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

	result, err := h.appointments.UpdateStatus(c.Request.Context(), service.UpdateStatusRequest{
		AppointmentID: id,
		UserID:        middleware.UserID(c),
		Next:          models.AppointmentStatus(req.Status),
	})
	if err != nil {
		if errors.Is(err, repository.ErrInvalidTransition) {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_TRANSITION",
					"message": "The appointment cannot move to that status",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPDATE_FAILED",
				"message": "Failed to update appointment",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Appointment,
	})
}
