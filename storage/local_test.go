package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"carebridge-backend/models"

	"github.com/google/uuid"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir(), "")
	if err != nil {
		t.Fatalf("NewLocalStorage returned error: %v", err)
	}

	ctx := context.Background()
	userID := uuid.New()
	fileID := uuid.New()

	path, err := s.Upload(ctx, models.BucketProfileImages, userID, fileID, "avatar.png", strings.NewReader("png-bytes"))
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if !strings.HasPrefix(path, string(models.BucketProfileImages)+"/"+userID.String()+"/") {
		t.Errorf("storage path not keyed by bucket and user: %q", path)
	}

	rc, err := s.Download(ctx, models.BucketProfileImages, path)
	if err != nil {
		t.Fatalf("Download returned error: %v", err)
	}
	defer rc.Close()
	body, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read downloaded file: %v", err)
	}
	if string(body) != "png-bytes" {
		t.Errorf("downloaded content mismatch: %q", body)
	}

	if err := s.Delete(ctx, models.BucketProfileImages, path); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := s.Download(ctx, models.BucketProfileImages, path); err == nil {
		t.Error("downloading a deleted file should fail")
	}
}

func TestLocalStorageListScopedToUser(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir(), "")
	if err != nil {
		t.Fatalf("NewLocalStorage returned error: %v", err)
	}

	ctx := context.Background()
	alice := uuid.New()
	bob := uuid.New()

	if _, err := s.Upload(ctx, models.BucketVerificationDocuments, alice, uuid.New(), "license.pdf", strings.NewReader("a")); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Upload(ctx, models.BucketVerificationDocuments, alice, uuid.New(), "diploma.pdf", strings.NewReader("b")); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Upload(ctx, models.BucketVerificationDocuments, bob, uuid.New(), "license.pdf", strings.NewReader("c")); err != nil {
		t.Fatal(err)
	}
	// same user, different bucket
	if _, err := s.Upload(ctx, models.BucketProfileImages, alice, uuid.New(), "avatar.png", strings.NewReader("d")); err != nil {
		t.Fatal(err)
	}

	paths, err := s.List(ctx, models.BucketVerificationDocuments, alice)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("expected 2 files for alice, got %d: %v", len(paths), paths)
	}

	// listing a user with no files is not an error
	paths, err = s.List(ctx, models.BucketProfileImages, bob)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(paths) != 0 {
		t.Errorf("expected no files, got %v", paths)
	}
}

func TestGenerateStoragePathSanitizes(t *testing.T) {
	userID := uuid.New()
	fileID := uuid.New()

	path := generateStoragePath(models.BucketVerificationDocuments, userID, fileID, "my license ../etc.pdf")
	if strings.Contains(strings.TrimPrefix(path, string(models.BucketVerificationDocuments)+"/"+userID.String()+"/"), "/") {
		t.Errorf("sanitized name still contains a separator: %q", path)
	}
	if !strings.HasSuffix(path, ".pdf") {
		t.Errorf("extension should be preserved: %q", path)
	}
}

func TestLocalPublicURL(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir(), "/static/")
	if err != nil {
		t.Fatal(err)
	}
	got := s.PublicURL(models.BucketProfileImages, "profile-images/u/f_a.png")
	if got != "/static/profile-images/u/f_a.png" {
		t.Errorf("unexpected public URL %q", got)
	}
}
