// Package secrets stores sensitive values (the session bearer token) in the
// client database, sealed at rest.
package secrets

import "context"

// Repository is a key-value store for secret material. Get returns nil for
// an absent key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
