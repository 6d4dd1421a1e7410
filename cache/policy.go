package cache

import "time"

// Policy decides whether and for how long response envelopes are cached.
// The operation layer builds one per call from the active configuration
// snapshot, so TTL changes take effect on the next request.
type Policy struct {
	// DefaultTTL applies when the caller passes no override. Zero disables
	// caching for the whole policy.
	DefaultTTL time.Duration

	// MaxTTL clamps any effective TTL. Zero means unclamped.
	MaxTTL time.Duration
}

// DefaultPolicy caches for five minutes, capped at one hour.
func DefaultPolicy() Policy {
	return Policy{DefaultTTL: 5 * time.Minute, MaxTTL: time.Hour}
}

// NoCachePolicy disables caching entirely.
func NoCachePolicy() Policy {
	return Policy{}
}

// ShouldCache reports whether this policy stores anything at all.
func (p Policy) ShouldCache() bool {
	return p.DefaultTTL > 0
}

// EffectiveTTL resolves the TTL for one write. Non-positive overrides fall
// back to DefaultTTL; the result never exceeds MaxTTL when one is set.
func (p Policy) EffectiveTTL(override time.Duration) time.Duration {
	ttl := override
	if ttl <= 0 {
		ttl = p.DefaultTTL
	}
	if p.MaxTTL > 0 && ttl > p.MaxTTL {
		ttl = p.MaxTTL
	}
	return ttl
}
