package config

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"
)

// Defaults applied by DefaultSnapshot.
const (
	DefaultPageSize = 50
	DefaultCacheTTL = 5 * time.Minute
)

var (
	// ErrNilSnapshot is returned when storing a nil snapshot.
	ErrNilSnapshot = errors.New("config: snapshot cannot be nil")
)

// Snapshot is one immutable configuration state. Callers must not mutate
// a snapshot after handing it to a Store; Update copies are shallow.
type Snapshot struct {
	// DefaultPageSize is the page size applied when a request carries
	// no explicit take.
	DefaultPageSize int

	// PageSizeByOp overrides DefaultPageSize for specific operations,
	// keyed by operation kind.
	PageSizeByOp map[string]int

	// CacheTTL bounds how long cached response payloads stay fresh.
	CacheTTL time.Duration

	// IncludeNonPublic makes non-public types and members visible when
	// a request does not say otherwise.
	IncludeNonPublic bool

	// SearchRoots are additional directories scanned during module
	// discovery, in priority order.
	SearchRoots []string
}

// DefaultSnapshot returns the configuration used when nothing has been set.
func DefaultSnapshot() *Snapshot {
	return &Snapshot{
		DefaultPageSize: DefaultPageSize,
		CacheTTL:        DefaultCacheTTL,
	}
}

// Validate rejects snapshots that would make every call fail.
func (s *Snapshot) Validate() error {
	if s.DefaultPageSize <= 0 {
		return fmt.Errorf("config: default page size must be positive, got %d", s.DefaultPageSize)
	}
	for op, size := range s.PageSizeByOp {
		if size <= 0 {
			return fmt.Errorf("config: page size for %q must be positive, got %d", op, size)
		}
	}
	if s.CacheTTL < 0 {
		return fmt.Errorf("config: cache TTL cannot be negative, got %s", s.CacheTTL)
	}
	return nil
}

// PageSize returns the effective default page size for an operation.
func (s *Snapshot) PageSize(opKind string) int {
	if size, ok := s.PageSizeByOp[opKind]; ok {
		return size
	}
	return s.DefaultPageSize
}

// Store publishes configuration snapshots to concurrent readers.
// The zero value is not usable; construct with NewStore.
type Store struct {
	current atomic.Pointer[Snapshot]
}

// NewStore creates a store seeded with the default snapshot.
func NewStore() *Store {
	s := &Store{}
	s.current.Store(DefaultSnapshot())
	return s
}

// Load returns the current snapshot. The result must be treated as
// read-only.
func (s *Store) Load() *Snapshot {
	return s.current.Load()
}

// Update validates and publishes a replacement snapshot. On error the
// previous snapshot stays in effect.
func (s *Store) Update(snap *Snapshot) error {
	if snap == nil {
		return ErrNilSnapshot
	}
	if err := snap.Validate(); err != nil {
		return err
	}
	s.current.Store(snap)
	return nil
}
