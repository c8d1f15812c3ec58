// Package storage provides the blob store behind file uploads. The rest of
// the system only sees the returned filename and URL.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// allowedExtensions is the image/document allow-list for uploads.
var allowedExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
	".doc": true, ".docx": true, ".html": true, ".htm": true,
	".odt": true, ".pdf": true, ".xls": true, ".xlsx": true,
	".ods": true, ".ppt": true, ".pptx": true, ".txt": true, ".md": true,
}

var whitespace = regexp.MustCompile(`\s+`)

// Allowed reports whether the original filename passes the upload
// extension allow-list.
func Allowed(filename string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// StoredFile is the metadata a store hands back for a saved blob.
type StoredFile struct {
	Filename string
	URL      string
}

// BlobStore persists uploaded files.
type BlobStore interface {
	Store(originalName string, r io.Reader) (*StoredFile, error)
	Remove(filename string) error
}

// DiskStore writes uploads to a directory, prefixing each file with a
// timestamp and replacing whitespace with dashes so names stay unique and
// URL-safe.
type DiskStore struct {
	dir string
}

// NewDiskStore creates the upload directory if needed and returns a store
// over it.
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %v", err)
	}
	return &DiskStore{dir: dir}, nil
}

// Store saves the blob under a timestamped name and returns its metadata.
func (d *DiskStore) Store(originalName string, r io.Reader) (*StoredFile, error) {
	name := fmt.Sprintf("%d-%s", time.Now().UnixMilli(),
		whitespace.ReplaceAllString(filepath.Base(originalName), "-"))
	path := filepath.Join(d.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path)
		return nil, err
	}
	return &StoredFile{Filename: name, URL: path}, nil
}

// Remove deletes a stored blob by its saved filename.
func (d *DiskStore) Remove(filename string) error {
	return os.Remove(filepath.Join(d.dir, filepath.Base(filename)))
}
