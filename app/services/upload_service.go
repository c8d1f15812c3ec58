package services

import (
	"fmt"
	"io"

	"inkpress/app/models"
	"inkpress/app/repositories"
	"inkpress/app/storage"
)

// UploadService records uploaded files. The blob store is an opaque
// collaborator: the service keeps only the filename/URL it hands back.
type UploadService struct {
	uploads repositories.UploadRepository
	blobs   storage.BlobStore
}

// NewUploadService creates a new UploadService
func NewUploadService(uploads repositories.UploadRepository, blobs storage.BlobStore) *UploadService {
	return &UploadService{uploads: uploads, blobs: blobs}
}

// Save stores one file and records its metadata. Files outside the
// extension allow-list are rejected before touching the blob store.
func (s *UploadService) Save(originalName string, r io.Reader) (*models.Upload, error) {
	if !storage.Allowed(originalName) {
		return nil, fmt.Errorf("%w: only image and document files are allowed", ErrInvalidState)
	}
	stored, err := s.blobs.Store(originalName, r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDependency, err)
	}
	upload := &models.Upload{Filename: stored.Filename, URL: stored.URL}
	if err := s.uploads.Create(upload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDependency, err)
	}
	return upload, nil
}

// Get retrieves an upload record.
func (s *UploadService) Get(id int) (*models.Upload, error) {
	return s.uploads.GetByID(id)
}

// List retrieves all upload records.
func (s *UploadService) List() ([]*models.Upload, error) {
	return s.uploads.List()
}

// Delete removes an upload record and its blob. A blob that is already gone
// is not an error; the record is authoritative.
func (s *UploadService) Delete(id int) (*models.Upload, error) {
	upload, err := s.uploads.Delete(id)
	if err != nil {
		return nil, err
	}
	_ = s.blobs.Remove(upload.Filename)
	return upload, nil
}
