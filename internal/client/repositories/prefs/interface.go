// Package prefs stores non-sensitive user preference fields in the client
// database as plain key-value rows.
package prefs

import "context"

// Repository is a string key-value store. Get returns an empty string for
// an absent key; callers that need presence use Has. SetMany writes all of
// its fields or none of them.
type Repository interface {
	Get(ctx context.Context, key string) (string, error)
	Has(ctx context.Context, key string) (bool, error)
	Set(ctx context.Context, key, value string) error
	SetMany(ctx context.Context, fields map[string]string) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
