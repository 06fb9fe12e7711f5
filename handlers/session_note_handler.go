package handlers

import (
	"errors"
	"net/http"

	"carebridge-backend/middleware"
	"carebridge-backend/models"
	"carebridge-backend/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SessionNoteHandler handles HTTP requests for session notes
type SessionNoteHandler struct {
	notes        *repository.SessionNoteRepository
	appointments *repository.AppointmentRepository
}

// NewSessionNoteHandler creates a new session note handler
func NewSessionNoteHandler(notes *repository.SessionNoteRepository, appointments *repository.AppointmentRepository) *SessionNoteHandler {
	return &SessionNoteHandler{notes: notes, appointments: appointments}
}

// List handles GET /api/session-notes
func (h *SessionNoteHandler) List(c *gin.Context) {
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

	notes, err := h.notes.ListByTherapist(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOTES_FAILED",
				"message": "Failed to load session notes",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    notes,
	})
}

// CreateNoteRequest represents the request body for creating a session note
type CreateNoteRequest struct {
	AppointmentID *string `json:"appointment_id"`
	ClientID      string  `json:"client_id" binding:"required"`
	Title         string  `json:"title" binding:"required"`
	Content       string  `json:"content" binding:"required"`
}

// Create handles POST /api/session-notes
func (h *SessionNoteHandler) Create(c *gin.Context) {
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

	var req CreateNoteRequest
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

	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_CLIENT_ID",
				"message": "Invalid client_id format",
			},
		})
		return
	}

	note := &models.SessionNote{
		ClientID:    clientID,
		TherapistID: middleware.UserID(c),
		Title:       req.Title,
		Content:     req.Content,
	}

	if req.AppointmentID != nil {
		appointmentID, err := uuid.Parse(*req.AppointmentID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_APPOINTMENT_ID",
					"message": "Invalid appointment_id format",
				},
			})
			return
		}
		// the referenced appointment must exist and belong to this therapist
		appointment, err := h.appointments.GetByID(c.Request.Context(), appointmentID)
		if err != nil || appointment.TherapistID != note.TherapistID {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "APPOINTMENT_NOT_FOUND",
					"message": "Appointment not found",
				},
			})
			return
		}
		note.AppointmentID = &appointmentID
	}

	if err := h.notes.Create(c.Request.Context(), note); err != nil {
		// unique index: second note for the same appointment
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOTE_EXISTS",
				"message": "This appointment already has a note",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    note,
	})
}

// UpdateNoteRequest represents the request body for updating a session note
type UpdateNoteRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// Update handles PUT /api/session-notes/:id
func (h *SessionNoteHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid note id",
			},
		})
		return
	}

	var req UpdateNoteRequest
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

	note := &models.SessionNote{
		ID:          id,
		TherapistID: middleware.UserID(c),
		Title:       req.Title,
		Content:     req.Content,
	}

	if err := h.notes.Update(c.Request.Context(), note); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "Session note not found",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPDATE_FAILED",
				"message": "Failed to update session note",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    note,
	})
}
