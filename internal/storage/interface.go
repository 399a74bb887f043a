package storage

import (
	"context"
	"io"
)

// ObjectStorage is the blob-store collaborator holding original and generated
// images, addressed by public URL.
type ObjectStorage interface {
	// Upload uploads an object to storage
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error

	// GetURL returns the public URL for accessing an object
	GetURL(key string) string
}
