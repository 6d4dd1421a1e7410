package cache

import (
	"context"
	"errors"
	"strings"
	"time"
)

// MaxKeyLength bounds cache keys. The keyer hashes longer identities down
// below this before they reach a Cache, so hitting the bound here means a
// caller bypassed the keyer.
const MaxKeyLength = 512

var (
	ErrNilCache   = errors.New("cache: cache is nil")
	ErrInvalidKey = errors.New("cache: key is invalid")
	ErrKeyTooLong = errors.New("cache: key exceeds max length")
)

// Cache is the interface for caching query response envelopes.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use; reads on
//   distinct keys never block each other.
// - Expiry: Get must treat a past-expiry entry as absent and may evict it
//   lazily; there is no background sweep.
// - Writers: Set overwrites unconditionally. Concurrent writers on the same
//   key race last-write-wins, which is acceptable because all writers for
//   one key compute the same deterministic result from the same inputs.
// - Errors: Get never errors; it returns (nil, false) on miss.
type Cache interface {
	// Get retrieves a cached payload. Returns (nil, false) on miss or expiry.
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores a payload with the given TTL. TTL=0 means no caching.
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error

	// Delete removes a cached payload. Idempotent - no error on miss.
	Delete(ctx context.Context, key string) error
}

// ValidateKey rejects keys that would confuse a backing store: empty or
// whitespace-only strings, keys past MaxKeyLength, and keys carrying line
// breaks.
func ValidateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}
	if len(key) > MaxKeyLength {
		return ErrKeyTooLong
	}
	if strings.ContainsAny(key, "\n\r") {
		return ErrInvalidKey
	}
	return nil
}
