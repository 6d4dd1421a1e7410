// Package cache provides deterministic caching for query responses.
//
// It provides a Cache interface with memory and Redis implementations,
// deterministic key building over normalized operation parameters, and a
// TTL execution middleware with a recompute bypass.
package cache
