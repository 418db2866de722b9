// Package kvstore provides the scoped get/set abstraction every repository
// persists through. Values are raw strings (JSON-encoded documents); encoding
// and decoding are the caller's responsibility. There is no atomicity across
// keys and no read-modify-write coordination: concurrent writers to the same
// key are last-write-wins.
package kvstore

import "context"

// Store is a string-keyed, string-valued store.
type Store interface {
	// Get returns the value for key. The boolean reports whether the key has
	// ever been written.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	// Set inserts or replaces the value for key.
	Set(ctx context.Context, key, value string) error
}
