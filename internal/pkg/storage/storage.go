package storage

import (
	"context"
	"io"
)

// FileStorage abstracts where generated artifacts (export workbooks) live.
type FileStorage interface {
	// Upload stores the content under path and returns the stored path.
	Upload(ctx context.Context, file io.Reader, path string, contentType string) (string, error)

	// Download opens the stored file for reading.
	Download(ctx context.Context, path string) (io.ReadCloser, error)

	// GetURL returns the public URL for a stored path.
	GetURL(path string) string

	// Delete removes a stored file.
	Delete(ctx context.Context, path string) error
}
