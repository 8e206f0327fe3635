// Package storage provides the artifact store used for exported letter
// documents: an opaque key-value blob store with put/delete/presign
// operations, backed by S3-compatible object storage.
package storage

import (
	"context"
	"time"
)

// ArtifactStore is the object-storage contract the letter service depends
// on. Implementations are assumed safe for concurrent use.
type ArtifactStore interface {
	// Put stores data under key with the given content type, overwriting
	// any existing object.
	Put(ctx context.Context, key string, data []byte, contentType string) error

	// Delete removes the object under key. Deleting a missing key is not
	// an error.
	Delete(ctx context.Context, key string) error

	// PresignGet returns a time-limited download URL for key.
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}
