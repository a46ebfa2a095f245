// Package storage defines the key-value port the cart persists through.
package storage

import "context"

// Port is a flat key-value store holding opaque byte records.
type Port interface {
	// Read returns the record stored under key. An absent key yields an error
	// matching apperrors.ErrNotFound.
	Read(ctx context.Context, key string) ([]byte, error)

	// Write stores data under key, replacing any previous record.
	Write(ctx context.Context, key string, data []byte) error

	// Remove deletes the record under key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
}
