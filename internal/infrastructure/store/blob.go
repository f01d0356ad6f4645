package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// DiskBlobStore implements domain.BlobStore on the local filesystem.
// Blobs are content-addressed by a generated uuid ref and served under a
// configurable base URL.
type DiskBlobStore struct {
	dir     string
	baseURL string
}

// NewDiskBlobStore creates the blob directory if needed
func NewDiskBlobStore(dir, baseURL string) (*DiskBlobStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create blob directory: %w", err)
	}
	return &DiskBlobStore{dir: dir, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

// Store writes the blob and returns its ref
func (b *DiskBlobStore) Store(_ context.Context, data []byte) (string, error) {
	ref := uuid.NewString() + ".jpg"
	path := filepath.Join(b.dir, ref)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write blob: %w", err)
	}
	return ref, nil
}

// URL returns the public URL for a blob ref
func (b *DiskBlobStore) URL(ref string) string {
	if ref == "" {
		return ""
	}
	return b.baseURL + "/" + ref
}

// Dir returns the blob directory, for static file serving
func (b *DiskBlobStore) Dir() string {
	return b.dir
}
