package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"carebridge-backend/models"

	"github.com/google/uuid"
)

// Storage interface for bucket file operations
type Storage interface {
	// Upload stores a file under a user's prefix in a bucket and returns the
	// storage path
	Upload(ctx context.Context, bucket models.Bucket, userID, fileID uuid.UUID, filename string, data io.Reader) (string, error)

	// Download retrieves a file by storage path
	Download(ctx context.Context, bucket models.Bucket, storagePath string) (io.ReadCloser, error)

	// Delete removes a file by storage path
	Delete(ctx context.Context, bucket models.Bucket, storagePath string) error

	// List returns the storage paths under a user's prefix in a bucket
	List(ctx context.Context, bucket models.Bucket, userID uuid.UUID) ([]string, error)

	// PublicURL returns the URL a browser can fetch the object from
	PublicURL(bucket models.Bucket, storagePath string) string
}

// StorageType represents the storage backend type
type StorageType string

const (
	StorageTypeLocal StorageType = "local"
	StorageTypeS3    StorageType = "s3"
)

// StorageConfig holds configuration for storage
type StorageConfig struct {
	Type         StorageType
	LocalPath    string // For local storage
	PublicBase   string // Base URL for locally served files
	S3Bucket     string // For S3 storage
	S3Region     string // For S3 storage
	AWSAccessKey string
	AWSSecretKey string
}

// NewStorage creates a new storage instance based on configuration
func NewStorage(cfg StorageConfig) (Storage, error) {
	switch cfg.Type {
	case StorageTypeLocal:
		return NewLocalStorage(cfg.LocalPath, cfg.PublicBase)
	case StorageTypeS3:
		return NewS3Storage(cfg)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}

// NewStorageFromEnv creates a storage instance from environment variables
func NewStorageFromEnv() (Storage, error) {
	storageType := os.Getenv("STORAGE_TYPE")
	if storageType == "" {
		storageType = "local" // Default to local for development
	}

	cfg := StorageConfig{
		Type: StorageType(storageType),
	}

	switch StorageType(storageType) {
	case StorageTypeLocal:
		localPath := os.Getenv("STORAGE_LOCAL_PATH")
		if localPath == "" {
			localPath = "./storage/files" // Default local storage path
		}
		cfg.LocalPath = localPath
		cfg.PublicBase = os.Getenv("STORAGE_PUBLIC_BASE")
		return NewLocalStorage(cfg.LocalPath, cfg.PublicBase)

	case StorageTypeS3:
		cfg.S3Bucket = os.Getenv("AWS_S3_BUCKET")
		cfg.S3Region = os.Getenv("AWS_REGION")
		if cfg.S3Region == "" {
			cfg.S3Region = "us-east-1" // Default region
		}
		cfg.AWSAccessKey = os.Getenv("AWS_ACCESS_KEY_ID")
		cfg.AWSSecretKey = os.Getenv("AWS_SECRET_ACCESS_KEY")

		if cfg.S3Bucket == "" {
			return nil, errors.New("AWS_S3_BUCKET environment variable is required for S3 storage")
		}

		return NewS3Storage(cfg)

	default:
		return nil, fmt.Errorf("unknown storage type: %s", storageType)
	}
}

// generateStoragePath generates a unique storage path for a file: objects are
// keyed by bucket, then user, then file ID plus the sanitized original name
func generateStoragePath(bucket models.Bucket, userID, fileID uuid.UUID, filename string) string {
	ext := filepath.Ext(filename)
	baseName := strings.TrimSuffix(filename, ext)
	// Sanitize filename
	baseName = strings.ReplaceAll(baseName, " ", "_")
	baseName = strings.ReplaceAll(baseName, "/", "_")
	baseName = strings.ReplaceAll(baseName, "\\", "_")

	// Use fileID to ensure uniqueness
	return fmt.Sprintf("%s/%s/%s_%s%s", bucket, userID, fileID.String(), baseName, ext)
}

// userPrefix is the listing prefix for one user's files in a bucket
func userPrefix(bucket models.Bucket, userID uuid.UUID) string {
	return fmt.Sprintf("%s/%s/", bucket, userID)
}
