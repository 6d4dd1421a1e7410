// Package config holds process-wide runtime configuration for the query
// service.
//
// Configuration is read as an immutable Snapshot through a Store. Reads
// are lock-free pointer loads; updates swap in a whole replacement
// snapshot, so in-flight calls keep a consistent view. Nothing persists
// across restarts.
package config
