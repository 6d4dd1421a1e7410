package cache

import (
	"context"
)

// ProducerFunc computes a response payload on cache miss.
type ProducerFunc func(ctx context.Context) ([]byte, error)

// Middleware wraps response production with key-addressed memoization.
type Middleware struct {
	cache  Cache
	policy Policy
}

// NewMiddleware creates a new cache middleware.
func NewMiddleware(cache Cache, policy Policy) *Middleware {
	return &Middleware{cache: cache, policy: policy}
}

// Execute returns the fresh cached payload for key if present, else invokes
// the producer, stores its result under the policy TTL and returns it. The
// hit result reports whether the payload came from cache.
//
// bypass forces recomputation without invalidating the entry for other
// callers: the recomputed payload is stored, never deleted.
// Producer errors are not cached.
func (m *Middleware) Execute(ctx context.Context, key string, bypass bool, producer ProducerFunc) (payload []byte, hit bool, err error) {
	if m.cache == nil {
		return nil, false, ErrNilCache
	}
	if err := ValidateKey(key); err != nil {
		return nil, false, err
	}

	if !bypass && m.policy.ShouldCache() {
		if cached, ok := m.cache.Get(ctx, key); ok {
			return cached, true, nil
		}
	}

	payload, err = producer(ctx)
	if err != nil {
		return nil, false, err
	}

	if ttl := m.policy.EffectiveTTL(0); ttl > 0 {
		_ = m.cache.Set(ctx, key, payload, ttl)
	}

	return payload, false, nil
}
