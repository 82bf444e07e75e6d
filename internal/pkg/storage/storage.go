package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

var ErrFileNotFound = errors.New("file not found")

// FileStorage archives uploaded payroll exports.
type FileStorage interface {
	// Upload stores the content under key and returns the stored key.
	Upload(ctx context.Context, file io.Reader, key string, contentType string) (string, error)

	// Download opens a stored file. Callers close the reader.
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	Delete(ctx context.Context, key string) error

	Exists(ctx context.Context, key string) (bool, error)

	// PurgeOlderThan removes files under prefix last written before cutoff
	// and returns how many were removed.
	PurgeOlderThan(ctx context.Context, prefix string, cutoff time.Time) (int, error)
}
