package introspect

import "errors"

// Sentinel errors for provider operations.
var (
	ErrModuleNotFound = errors.New("introspect: module not found")
	ErrNilHandle      = errors.New("introspect: module handle is nil")
	ErrClosedHandle   = errors.New("introspect: module handle is closed")
)

// ModuleHandle is an open view over one module's metadata.
//
// Handles are snapshots opened by a Provider and must be closed once
// descriptors are fully materialized; they are not live views.
type ModuleHandle struct {
	// Path is the path the module was opened from.
	Path string

	// Name is the module's own name as recorded in its metadata.
	Name string

	// Payload holds provider-private state. Callers must not touch it.
	Payload any

	closed bool
}

// Closed reports whether the handle has been closed.
func (h *ModuleHandle) Closed() bool {
	return h == nil || h.closed
}

// IncludeFlags selects which members a provider enumerates.
// These are the filters cheap enough to push down to the metadata reader;
// everything finer-grained happens in the query pipeline.
type IncludeFlags struct {
	// NonPublic includes members that are not publicly accessible.
	NonPublic bool

	// Static includes static members.
	Static bool

	// Instance includes instance members.
	Instance bool

	// Inherited includes members declared on base types.
	Inherited bool
}

// DefaultIncludeFlags returns the enumeration defaults: public static and
// instance members, inherited included.
func DefaultIncludeFlags() IncludeFlags {
	return IncludeFlags{NonPublic: false, Static: true, Instance: true, Inherited: true}
}

// Provider reads raw type and member facts from compiled modules.
//
// Contract:
// - Safety: implementations must never execute module code, only read metadata.
// - Concurrency: implementations must be safe for concurrent use on distinct handles.
// - Lifetime: every successful Open must be paired with a Close; a closed
//   handle must not be reused.
// - Errors: Open returns ErrModuleNotFound when the path does not resolve to
//   a readable module; lookup misses are reported via the ok result, not errors.
type Provider interface {
	// Open opens the module at path for metadata reading.
	Open(path string) (*ModuleHandle, error)

	// EnumerateTypes lists the identities of all types in the module.
	EnumerateTypes(h *ModuleHandle) ([]TypeIdentity, error)

	// ResolveType returns the full raw facts for one type.
	// Returns ok=false when the identity does not name a type in the module.
	ResolveType(h *ModuleHandle, id TypeIdentity) (*RawType, bool, error)

	// EnumerateMembers lists raw member facts for one type, pre-filtered by
	// the include flags.
	EnumerateMembers(h *ModuleHandle, id TypeIdentity, include IncludeFlags) ([]RawMember, error)

	// Close releases the handle. Idempotent.
	Close(h *ModuleHandle) error
}
