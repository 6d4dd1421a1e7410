package ops

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/modscope/modscope/budget"
	"github.com/modscope/modscope/cache"
	"github.com/modscope/modscope/config"
	"github.com/modscope/modscope/discover"
	"github.com/modscope/modscope/introspect"
	"github.com/modscope/modscope/normalize"
	"github.com/modscope/modscope/observe"
	"github.com/modscope/modscope/query"
)

// Operation kinds.
const (
	OpListTypes   = "list_types"
	OpGetType     = "get_type"
	OpListMembers = "list_members"
	OpGetMember   = "get_member"
	OpListModules = "list_modules"
)

// maxCacheTTL caps the effective response cache lifetime regardless of the
// configured default.
const maxCacheTTL = time.Hour

// envelopeReserve is the headroom kept for the envelope wrapper and page
// bookkeeping when trimming items against the hard size limit.
const envelopeReserve = 1024

// ErrNilProvider is returned by NewService when no provider is wired.
var ErrNilProvider = errors.New("ops: provider is required")

// QueryRequest carries the parameters of one operation invocation.
// Fields an operation does not use are ignored.
type QueryRequest struct {
	// ModulePath locates the module to introspect.
	ModulePath string `json:"modulePath,omitempty"`

	// TypeName names the target type, simple or namespace-qualified.
	TypeName string `json:"typeName,omitempty"`

	// MemberName names the target member for get_member.
	MemberName string `json:"memberName,omitempty"`

	// Filter shapes list results. Zero-value inclusion flags select the
	// configured defaults.
	Filter query.FilterOptions `json:"filter,omitempty"`

	// Token is the continuation token minted by a previous page, if any.
	Token string `json:"token,omitempty"`

	// Refresh bypasses the response cache for this call. The fresh result
	// is still stored for later callers.
	Refresh bool `json:"refresh,omitempty"`
}

// Options configures a Service. Zero-value fields select defaults.
type Options struct {
	// Provider reads raw module metadata. Required.
	Provider introspect.Provider

	// Cache stores rendered response envelopes. Defaults to an in-process
	// memory cache.
	Cache cache.Cache

	// Keyer builds cache keys. Defaults to the standard keyer.
	Keyer cache.Keyer

	// Store supplies runtime configuration. Defaults to a fresh store with
	// default settings.
	Store *config.Store

	// Observe wraps executions with tracing, metrics and logging. Defaults
	// to a no-op middleware.
	Observe *observe.Middleware

	// Governor bounds response sizes. The zero value selects the default
	// limits.
	Governor budget.Governor

	// HandleCacheSize bounds the number of module handles kept open.
	// Zero selects introspect.DefaultHandleCacheSize.
	HandleCacheSize int
}

// Service is the operation surface of the query engine.
//
// Contract:
// - Concurrency: safe for concurrent use.
// - Errors: every operation returns exactly one serialized envelope;
//   failures render as error envelopes, never as Go errors.
// - Determinism: identical requests against unchanged modules produce
//   byte-identical data payloads.
type Service struct {
	provider introspect.Provider
	handles  *introspect.HandleCache
	store    *config.Store
	rcache   cache.Cache
	keyer    cache.Keyer
	governor budget.Governor
	obs      *observe.Middleware
}

// NewService wires the operation surface from its parts.
func NewService(opts Options) (*Service, error) {
	if opts.Provider == nil {
		return nil, ErrNilProvider
	}
	handles, err := introspect.NewHandleCache(opts.Provider, opts.HandleCacheSize)
	if err != nil {
		return nil, err
	}
	s := &Service{
		provider: opts.Provider,
		handles:  handles,
		store:    opts.Store,
		rcache:   opts.Cache,
		keyer:    opts.Keyer,
		governor: opts.Governor,
		obs:      opts.Observe,
	}
	if s.store == nil {
		s.store = config.NewStore()
	}
	if s.rcache == nil {
		s.rcache = cache.NewMemoryCache()
	}
	if s.keyer == nil {
		s.keyer = cache.NewDefaultKeyer()
	}
	if s.governor == (budget.Governor{}) {
		s.governor = budget.Default()
	}
	if s.obs == nil {
		s.obs = observe.NewNoopMiddleware()
	}
	return s, nil
}

// Store exposes the runtime configuration store for updates.
func (s *Service) Store() *config.Store { return s.store }

// Invalidate drops the pooled handle for path so the next call reloads the
// module from disk.
func (s *Service) Invalidate(path string) { s.handles.Invalidate(path) }

// Close releases every pooled module handle.
func (s *Service) Close() { s.handles.CloseAll() }

// ListTypes lists the types of one module as a filtered, sorted page.
func (s *Service) ListTypes(ctx context.Context, req QueryRequest) []byte {
	return s.run(ctx, OpListTypes, req, (*Service).listTypes)
}

// GetType returns the full descriptor of one type.
func (s *Service) GetType(ctx context.Context, req QueryRequest) []byte {
	return s.run(ctx, OpGetType, req, (*Service).getType)
}

// ListMembers lists the members of one type as a filtered, sorted page.
func (s *Service) ListMembers(ctx context.Context, req QueryRequest) []byte {
	return s.run(ctx, OpListMembers, req, (*Service).listMembers)
}

// GetMember returns the descriptors of one named member, every overload
// included.
func (s *Service) GetMember(ctx context.Context, req QueryRequest) []byte {
	return s.run(ctx, OpGetMember, req, (*Service).getMember)
}

// ListModules lists the modules discovered under the configured search
// roots.
func (s *Service) ListModules(ctx context.Context, req QueryRequest) []byte {
	return s.run(ctx, OpListModules, req, (*Service).listModules)
}

// opContext carries the resolved per-call state into a handler.
type opContext struct {
	req  QueryRequest
	snap *config.Snapshot

	// opts is the effective filter, config defaults applied.
	opts query.FilterOptions

	// take is the resolved page length.
	take int

	// salt binds continuation tokens to this query's identity.
	salt string
}

type handler func(s *Service, ctx context.Context, oc *opContext) ([]byte, error)

// run executes one operation: resolve config, build keys, consult the
// response cache, produce on miss, govern the envelope size and record
// telemetry. All failures funnel into a single error envelope.
func (s *Service) run(ctx context.Context, op string, req QueryRequest, fn handler) []byte {
	meta := observe.OpMeta{Kind: op, Module: req.ModulePath, Target: target(req)}

	exec := s.obs.Wrap(func(ctx context.Context, meta observe.OpMeta) (payload []byte, err error) {
		defer func() {
			if r := recover(); r != nil {
				payload = nil
				err = opErrorf(CodeInternal, "panic in %s: %v", op, r)
			}
		}()

		if !req.Filter.SortBy.Valid() {
			return nil, opErrorf(CodeInvalidArgument, "unsupported sort key %q", req.Filter.SortBy)
		}

		snap := s.store.Load()
		oc := &opContext{
			req:  req,
			snap: snap,
			opts: effectiveFilter(req.Filter, snap),
		}
		oc.take = oc.opts.Take
		if oc.take <= 0 {
			oc.take = snap.PageSize(op)
		}

		identityKey, cacheKey := s.keys(op, oc)
		oc.salt = query.Salt(identityKey)

		mw := cache.NewMiddleware(s.rcache, cache.Policy{
			DefaultTTL: snap.CacheTTL,
			MaxTTL:     maxCacheTTL,
		})
		payload, hit, err := mw.Execute(ctx, cacheKey, req.Refresh, func(ctx context.Context) ([]byte, error) {
			payload, err := fn(s, ctx, oc)
			if err != nil {
				return nil, err
			}
			if err := s.governor.CheckEnvelope(payload); err != nil {
				return nil, err
			}
			return payload, nil
		})
		if err != nil {
			return nil, err
		}
		s.obs.RecordCache(ctx, meta, hit)
		return payload, nil
	})

	payload, err := exec(ctx, meta)
	if err != nil {
		return errorEnvelope(err)
	}
	return payload
}

// keys builds the query identity key and the response cache key. The
// identity key excludes paging so every page of one query shares a salt;
// the cache key adds the paging fields so distinct pages cache separately.
func (s *Service) keys(op string, oc *opContext) (identityKey, cacheKey string) {
	f := oc.opts
	params := []any{
		oc.req.ModulePath, oc.req.TypeName, oc.req.MemberName,
		f.Public, f.NonPublic, f.Static, f.Instance, f.DeclaredOnly,
		f.CaseSensitive, f.NameContains, f.AttributeContains,
		string(f.SortBy), f.Descending,
	}
	if op == OpListModules {
		params = append(params, strings.Join(oc.snap.SearchRoots, ","))
	}
	identityKey = s.keyer.Key(op, ContractVersion, params...)
	cacheKey = s.keyer.Key(op, ContractVersion, append(params, oc.req.Token, f.Skip, oc.take)...)
	return identityKey, cacheKey
}

// effectiveFilter applies the configured defaults to unset inclusion flags.
func effectiveFilter(f query.FilterOptions, snap *config.Snapshot) query.FilterOptions {
	if !f.Public && !f.NonPublic {
		f.Public = true
		f.NonPublic = snap.IncludeNonPublic
	}
	if !f.Static && !f.Instance {
		f.Static = true
		f.Instance = true
	}
	if f.SortBy == "" {
		f.SortBy = query.SortByName
	}
	return f
}

func target(req QueryRequest) string {
	if req.TypeName == "" {
		return ""
	}
	if req.MemberName == "" {
		return req.TypeName
	}
	return req.TypeName + "." + req.MemberName
}

func (s *Service) listTypes(ctx context.Context, oc *opContext) ([]byte, error) {
	if oc.req.ModulePath == "" {
		return nil, opErrorf(CodeInvalidArgument, "modulePath is required")
	}
	h, err := s.handles.Acquire(oc.req.ModulePath)
	if err != nil {
		return nil, err
	}
	defer s.handles.Release(h)

	descs, err := normalize.NormalizeTypes(s.provider, h)
	if err != nil {
		return nil, err
	}
	page, err := query.Run(descs, oc.opts, query.PageRequest{Token: oc.req.Token, Salt: oc.salt, Take: oc.take})
	if err != nil {
		return nil, err
	}
	return pageEnvelope(s, "typeList", page, oc.take)
}

func (s *Service) getType(ctx context.Context, oc *opContext) ([]byte, error) {
	h, id, err := s.resolveType(oc)
	if err != nil {
		return nil, err
	}
	defer s.handles.Release(h)

	desc, ok, err := normalize.NormalizeType(s.provider, h, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, typeNotFound(oc)
	}
	return successEnvelope("typeDetail", desc)
}

func (s *Service) listMembers(ctx context.Context, oc *opContext) ([]byte, error) {
	h, id, err := s.resolveType(oc)
	if err != nil {
		return nil, err
	}
	defer s.handles.Release(h)

	members, err := normalize.NormalizeMembers(s.provider, h, id, includeFlags(oc.opts))
	if err != nil {
		return nil, err
	}
	page, err := query.Run(members, oc.opts, query.PageRequest{Token: oc.req.Token, Salt: oc.salt, Take: oc.take})
	if err != nil {
		return nil, err
	}
	return pageEnvelope(s, "memberList", page, oc.take)
}

func (s *Service) getMember(ctx context.Context, oc *opContext) ([]byte, error) {
	if oc.req.MemberName == "" {
		return nil, opErrorf(CodeInvalidArgument, "memberName is required")
	}
	h, id, err := s.resolveType(oc)
	if err != nil {
		return nil, err
	}
	defer s.handles.Release(h)

	members, err := normalize.NormalizeMembers(s.provider, h, id, includeFlags(oc.opts))
	if err != nil {
		return nil, err
	}
	matches := make([]normalize.MemberDescriptor, 0, 1)
	for _, m := range members {
		if nameEqual(m.Name, oc.req.MemberName, oc.opts.CaseSensitive) {
			matches = append(matches, m)
		}
	}
	if len(matches) == 0 {
		return nil, opErrorf(CodeMemberNotFound, "member %q not found on %s", oc.req.MemberName, oc.req.TypeName)
	}
	return successEnvelope("memberDetail", memberDetail{Members: matches, Count: len(matches)})
}

func (s *Service) listModules(ctx context.Context, oc *opContext) ([]byte, error) {
	mods, err := discover.List(ctx, oc.snap.SearchRoots)
	if err != nil {
		return nil, err
	}
	if sub := oc.opts.NameContains; sub != "" {
		kept := mods[:0]
		for _, m := range mods {
			if nameContains(m.Name, sub, oc.opts.CaseSensitive) {
				kept = append(kept, m)
			}
		}
		mods = kept
	}
	return successEnvelope("moduleList", moduleList{Modules: mods, Count: len(mods)})
}

// resolveType validates the target fields and resolves the type identity.
// On success the caller holds the handle and must release it.
func (s *Service) resolveType(oc *opContext) (*introspect.ModuleHandle, introspect.TypeIdentity, error) {
	var zero introspect.TypeIdentity
	if oc.req.ModulePath == "" {
		return nil, zero, opErrorf(CodeInvalidArgument, "modulePath is required")
	}
	if oc.req.TypeName == "" {
		return nil, zero, opErrorf(CodeInvalidArgument, "typeName is required")
	}
	h, err := s.handles.Acquire(oc.req.ModulePath)
	if err != nil {
		return nil, zero, err
	}
	id, ok, err := normalize.LookupType(s.provider, h, oc.req.TypeName, oc.opts.CaseSensitive)
	if err != nil {
		s.handles.Release(h)
		return nil, zero, err
	}
	if !ok {
		s.handles.Release(h)
		return nil, zero, typeNotFound(oc)
	}
	return h, id, nil
}

func typeNotFound(oc *opContext) *OpError {
	return opErrorf(CodeTypeNotFound, "type %q not found in %s", oc.req.TypeName, oc.req.ModulePath)
}

// includeFlags maps the effective filter to the provider's enumeration
// flags. NonPublic enumeration follows the filter so the pipeline never
// sees members it would drop anyway.
func includeFlags(f query.FilterOptions) introspect.IncludeFlags {
	return introspect.IncludeFlags{
		NonPublic: f.NonPublic,
		Static:    f.Static,
		Instance:  f.Instance,
		Inherited: !f.DeclaredOnly,
	}
}

// pageData decorates a result page with size advice.
type pageData[T any] struct {
	*query.Page[T]
	Advice *budget.Advice `json:"advice,omitempty"`
}

// memberDetail is the get_member payload. Overloaded members resolve to
// every overload, in declaration order.
type memberDetail struct {
	Members []normalize.MemberDescriptor `json:"members"`
	Count   int                          `json:"count"`
}

// moduleList is the list_modules payload.
type moduleList struct {
	Modules []discover.Module `json:"modules"`
	Count   int               `json:"count"`
}

// pageEnvelope trims the page against the hard ceiling, re-mints the token when
// items were dropped and attaches page-size advice before rendering.
func pageEnvelope[T any](s *Service, kind string, page *query.Page[T], take int) ([]byte, error) {
	target := s.governor.Hard - envelopeReserve
	if target < 1 {
		target = 1
	}
	kept, used, reduced := budget.Trim(page.Items, func(it T) int { return budget.JSONSize(it) }, target)
	page.Items = kept
	if reduced {
		page.Reduced = true
		page.Retoken()
	}
	advice := s.governor.Advise(page.Count, used, page.Total, take)
	return successEnvelope(kind, pageData[T]{Page: page, Advice: advice})
}

func nameEqual(a, b string, caseSensitive bool) bool {
	if caseSensitive {
		return a == b
	}
	return strings.EqualFold(a, b)
}

func nameContains(s, sub string, caseSensitive bool) bool {
	if caseSensitive {
		return strings.Contains(s, sub)
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
