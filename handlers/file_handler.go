package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"carebridge-backend/middleware"
	"carebridge-backend/models"
	"carebridge-backend/repository"
	"carebridge-backend/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// FileHandler handles HTTP requests for file uploads against the profile
// image and verification document buckets
type FileHandler struct {
	files       *repository.FileRepository
	profiles    *repository.ProfileRepository
	storage     storage.Storage
	maxFileSize int64
	allowedMime map[models.Bucket]map[string]bool
}

// NewFileHandler creates a new file handler
func NewFileHandler(files *repository.FileRepository, profiles *repository.ProfileRepository, storage storage.Storage) *FileHandler {
	return &FileHandler{
		files:       files,
		profiles:    profiles,
		storage:     storage,
		maxFileSize: 10 * 1024 * 1024, // 10MB
		allowedMime: map[models.Bucket]map[string]bool{
			models.BucketProfileImages: {
				"image/png":  true,
				"image/jpeg": true,
				"image/webp": true,
			},
			models.BucketVerificationDocuments: {
				"application/pdf": true,
				"image/png":       true,
				"image/jpeg":      true,
			},
		},
	}
}

// UploadProfileImage handles POST /api/files/profile-image. On success the
// profile's image URL is updated to the new object's public URL.
func (h *FileHandler) UploadProfileImage(c *gin.Context) {
	file := h.upload(c, models.BucketProfileImages)
	if file == nil {
		return
	}

	if err := h.profiles.UpdateImageURL(c.Request.Context(), file.UserID, file.PublicURL); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PROFILE_UPDATE_FAILED",
				"message": "File stored but profile was not updated",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    file,
	})
}

// UploadVerificationDocument handles POST /api/files/verification-document
func (h *FileHandler) UploadVerificationDocument(c *gin.Context) {
	file := h.upload(c, models.BucketVerificationDocuments)
	if file == nil {
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    file,
	})
}

// List handles GET /api/files?bucket=profile-images
func (h *FileHandler) List(c *gin.Context) {
	bucket := models.Bucket(c.Query("bucket"))
	if !bucket.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_BUCKET",
				"message": "bucket must be profile-images or verification-documents",
			},
		})
		return
	}

	files, err := h.files.ListByUser(c.Request.Context(), middleware.UserID(c), bucket)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "LIST_FAILED",
				"message": "Failed to list files",
			},
		})
		return
	}

	for _, f := range files {
		f.PublicURL = h.storage.PublicURL(f.Bucket, f.StoragePath)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    files,
	})
}

// Download handles GET /api/files/:id. Only the owner can fetch the object.
func (h *FileHandler) Download(c *gin.Context) {
	file := h.ownedFile(c)
	if file == nil {
		return
	}

	body, err := h.storage.Download(c.Request.Context(), file.Bucket, file.StoragePath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DOWNLOAD_FAILED",
				"message": "Failed to download file",
			},
		})
		return
	}
	defer body.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.DataFromReader(http.StatusOK, file.Size, file.MimeType, body, nil)
}

// Delete handles DELETE /api/files/:id. The record goes first; a failed object
// delete leaves an orphan in storage rather than a dangling record.
func (h *FileHandler) Delete(c *gin.Context) {
	file := h.ownedFile(c)
	if file == nil {
		return
	}

	if err := h.files.Delete(c.Request.Context(), file.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DELETE_FAILED",
				"message": "Failed to delete file",
			},
		})
		return
	}

	if err := h.storage.Delete(c.Request.Context(), file.Bucket, file.StoragePath); err != nil {
		log.Printf("file delete: object cleanup failed for %s: %v", file.StoragePath, err)
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ownedFile resolves :id to a file owned by the caller. A nil return means a
// response was already written.
func (h *FileHandler) ownedFile(c *gin.Context) *models.File {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid file id",
			},
		})
		return nil
	}

	file, err := h.files.GetByID(c.Request.Context(), id)
	if err != nil || file.UserID != middleware.UserID(c) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "File not found",
			},
		})
		return nil
	}

	return file
}

// upload validates and stores a multipart upload into one bucket. A nil
// return means a response was already written.
func (h *FileHandler) upload(c *gin.Context, bucket models.Bucket) *models.File {
	userID := middleware.UserID(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_FILE",
				"message": "File is required",
			},
		})
		return nil
	}

	if fileHeader.Size > h.maxFileSize {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FILE_TOO_LARGE",
				"message": fmt.Sprintf("File size exceeds maximum of %d bytes", h.maxFileSize),
			},
		})
		return nil
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = inferMimeType(fileHeader.Filename)
	}
	if !h.allowedMime[bucket][mimeType] {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_FILE_TYPE",
				"message": fmt.Sprintf("File type %s not allowed for %s", mimeType, bucket),
			},
		})
		return nil
	}

	src, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FILE_OPEN_ERROR",
				"message": err.Error(),
			},
		})
		return nil
	}
	defer src.Close()

	fileID := uuid.New()

	storagePath, err := h.storage.Upload(c.Request.Context(), bucket, userID, fileID, fileHeader.Filename, src)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPLOAD_FAILED",
				"message": fmt.Sprintf("Failed to upload file: %v", err),
			},
		})
		return nil
	}

	record := &models.File{
		ID:          fileID,
		UserID:      userID,
		Bucket:      bucket,
		Filename:    fileHeader.Filename,
		MimeType:    mimeType,
		Size:        fileHeader.Size,
		StoragePath: storagePath,
	}

	if err := h.files.Create(c.Request.Context(), record); err != nil {
		// Try to clean up the uploaded object
		h.storage.Delete(c.Request.Context(), bucket, storagePath)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": fmt.Sprintf("Failed to save file record: %v", err),
			},
		})
		return nil
	}

	record.PublicURL = h.storage.PublicURL(bucket, storagePath)
	return record
}

// inferMimeType guesses a content type from the filename extension
func inferMimeType(filename string) string {
	lower := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(lower, ".pdf"):
		return "application/pdf"
	case strings.HasSuffix(lower, ".png"):
		return "image/png"
	case strings.HasSuffix(lower, ".jpg"), strings.HasSuffix(lower, ".jpeg"):
		return "image/jpeg"
	case strings.HasSuffix(lower, ".webp"):
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
