// Package db persists the classroom store in a key-value backend. Redis and a
// local bbolt file are supported behind the same KeyValueStore interface.
package db

import "context"

// KeyValueStore is a string key-value store with atomic multi-key writes.
type KeyValueStore interface {
	// Get returns found=false when key does not exist.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	// SetMany writes all pairs in one atomic step.
	SetMany(ctx context.Context, pairs map[string]string) error
	// Delete removes keys; missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error
	Close() error
}
