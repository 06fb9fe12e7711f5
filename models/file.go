package models

import (
	"time"

	"github.com/google/uuid"
)

// Bucket identifies which logical storage bucket a file belongs to
type Bucket string

const (
	BucketProfileImages         Bucket = "profile-images"
	BucketVerificationDocuments Bucket = "verification-documents"
)

// Valid reports whether the bucket is one of the known buckets.
func (b Bucket) Valid() bool {
	return b == BucketProfileImages || b == BucketVerificationDocuments
}

// File represents an uploaded file entity
type File struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Bucket      Bucket    `json:"bucket"`
	Filename    string    `json:"filename"`
	MimeType    string    `json:"mime_type"`
	Size        int64     `json:"size"`
	StoragePath string    `json:"storage_path"`
	PublicURL   string    `json:"public_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
