package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"carebridge-backend/models"

	"github.com/google/uuid"
)

// LocalStorage implements Storage interface for the local filesystem
type LocalStorage struct {
	basePath   string
	publicBase string
}

// NewLocalStorage creates a new local storage instance
func NewLocalStorage(basePath, publicBase string) (*LocalStorage, error) {
	// Create base directory if it doesn't exist
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	if publicBase == "" {
		publicBase = "/files"
	}

	return &LocalStorage{
		basePath:   basePath,
		publicBase: strings.TrimSuffix(publicBase, "/"),
	}, nil
}

// Upload stores a file locally
func (s *LocalStorage) Upload(ctx context.Context, bucket models.Bucket, userID, fileID uuid.UUID, filename string, data io.Reader) (string, error) {
	storagePath := generateStoragePath(bucket, userID, fileID, filename)
	fullPath := filepath.Join(s.basePath, storagePath)

	// Create directory structure
	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	// Create file
	file, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	// Copy data to file
	_, err = io.Copy(file, data)
	if err != nil {
		os.Remove(fullPath) // Clean up on error
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return storagePath, nil
}

// Download retrieves a file from local storage
func (s *LocalStorage) Download(ctx context.Context, bucket models.Bucket, storagePath string) (io.ReadCloser, error) {
	fullPath := filepath.Join(s.basePath, storagePath)

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %s", storagePath)
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	return file, nil
}

// Delete removes a file from local storage
func (s *LocalStorage) Delete(ctx context.Context, bucket models.Bucket, storagePath string) error {
	fullPath := filepath.Join(s.basePath, storagePath)

	err := os.Remove(fullPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}

// List returns the storage paths under a user's prefix
func (s *LocalStorage) List(ctx context.Context, bucket models.Bucket, userID uuid.UUID) ([]string, error) {
	prefix := userPrefix(bucket, userID)
	dir := filepath.Join(s.basePath, filepath.FromSlash(prefix))

	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	var out []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		out = append(out, prefix+entry.Name())
	}

	return out, nil
}

// PublicURL returns the path locally served files are mounted on
func (s *LocalStorage) PublicURL(bucket models.Bucket, storagePath string) string {
	return s.publicBase + "/" + storagePath
}
