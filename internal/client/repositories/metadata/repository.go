// Package metadata persists the client's small key→value state: session
// credentials, the device identifier, and the last-seen app version.
package metadata

import "context"

// Repository is a durable string-keyed byte store.
//
// Get returns (nil, nil) for a missing key; callers treat absence as a
// normal condition, not an error.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
