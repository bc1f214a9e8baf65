package services

import "context"

// PresignedPut carries everything a client needs to upload one object directly
// to storage: the canonical key, a time-limited URL, and the headers the PUT
// must send. Headers that were part of the signature must match exactly or the
// backend rejects the upload.
type PresignedPut struct {
	StorageKey string            `json:"storageKey"`
	URL        string            `json:"uploadUrl"`
	Headers    map[string]string `json:"headers"`
}

// StorageClient abstracts the object storage backend so the media lifecycle can
// be exercised against fakes. Implementations must be safe for concurrent use.
type StorageClient interface {
	// PresignPut creates a time-limited URL for uploading an object via HTTP PUT.
	// Presigning alone creates no object.
	PresignPut(ctx context.Context, key, contentType string, sizeBytes int64) (PresignedPut, error)

	// DeleteObject removes the object at key. Deleting a missing object is not
	// an error.
	DeleteObject(ctx context.Context, key string) error

	// PublicURL returns a public, cacheable URL for the object, or "" when no
	// public endpoint is configured. Pure function of configuration and key; it
	// performs no network I/O and does not imply the object exists.
	PublicURL(key string) string
}
