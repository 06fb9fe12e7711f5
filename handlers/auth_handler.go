package handlers

import (
	"net/http"

	"carebridge-backend/auth"
	"carebridge-backend/middleware"
	"carebridge-backend/models"
	"carebridge-backend/repository"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles HTTP requests for registration and login
type AuthHandler struct {
	profiles *repository.ProfileRepository
	secret   string
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(profiles *repository.ProfileRepository, secret string) *AuthHandler {
	return &AuthHandler{profiles: profiles, secret: secret}
}

// RegisterRequest represents the request body for registration
type RegisterRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role"`
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
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

	role := models.Role(req.Role)
	if role == "" {
		role = models.RoleClient
	}
	if role != models.RoleClient && role != models.RoleTherapist {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ROLE",
				"message": "Role must be client or therapist",
			},
		})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "Registration failed",
			},
		})
		return
	}

	profile := &models.Profile{
		FullName:     req.FullName,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
	}

	if err := h.profiles.Create(c.Request.Context(), profile); err != nil {
		// unique violation = duplicate email, but don't reveal that
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "REGISTRATION_FAILED",
				"message": "Registration failed",
			},
		})
		return
	}

	token, err := auth.MakeToken(profile.ID, profile.Role, h.secret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "Registration failed",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"token":   token,
			"profile": profile,
		},
	})
}

// Me handles GET /api/profile
func (h *AuthHandler) Me(c *gin.Context) {
	profile, err := h.profiles.GetByID(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Profile not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    profile,
	})
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
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

	profile, err := h.profiles.GetByEmail(c.Request.Context(), req.Email)
	if err != nil || !auth.CheckPassword(profile.PasswordHash, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_CREDENTIALS",
				"message": "Invalid email or password",
			},
		})
		return
	}

	token, err := auth.MakeToken(profile.ID, profile.Role, h.secret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "Login failed",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"token":   token,
			"profile": profile,
		},
	})
}
