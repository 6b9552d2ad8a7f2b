package storage

import (
	"context"
	"errors"
)

// ErrNotOwned is returned when a URL does not point into this store.
var ErrNotOwned = errors.New("url does not belong to this store")

// BlobStore persists uploaded files and returns a public URL for them.
type BlobStore interface {
	// Store saves data under folder and returns its public URL.
	Store(ctx context.Context, data []byte, folder, contentType string) (string, error)
	// Delete removes the object behind url. It reports whether an object was removed
	// and never fails the caller; cleanup is best effort.
	Delete(ctx context.Context, url string) bool
}
