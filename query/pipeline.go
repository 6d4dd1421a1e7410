package query

import (
	"errors"
	"sort"
	"strings"
)

// Entry is the minimal view the pipeline needs over a descriptor.
//
// Contract:
// - Determinism: accessors must be pure; the pipeline may call them any
//   number of times in any order.
// - EntryOrder must be the declaration-order index, unique within one set;
//   it is the tiebreak that keeps sorting stable and reproducible across
//   calls regardless of provider enumeration order.
type Entry interface {
	EntryName() string
	EntryKind() string
	EntryAccessibility() string
	EntryPublic() bool
	EntryStatic() bool
	EntryInherited() bool
	EntryAttributes() []string
	EntryOrder() int
}

// PageRequest resolves the page window for one call.
type PageRequest struct {
	// Token is the continuation token presented by the caller, if any.
	// A valid token takes precedence over FilterOptions.Skip.
	Token string

	// Salt is the salt of the current query. Tokens whose embedded salt
	// differs are rejected.
	Salt string

	// Take is the resolved page length (the caller applies operation
	// defaults before the pipeline runs).
	Take int
}

// ErrNegativeSkip indicates a request with an explicit skip below zero.
var ErrNegativeSkip = errors.New("query: skip must not be negative")

// Run filters, sorts and slices one descriptor set. Filters apply in fixed
// order: inclusion flags first, then the substring filters. The sort is
// stable with declaration order as tiebreak.
func Run[T Entry](items []T, opts FilterOptions, req PageRequest) (*Page[T], error) {
	if opts.Skip < 0 {
		return nil, ErrNegativeSkip
	}

	filtered := filter(items, opts)
	sortEntries(filtered, opts)

	offset := opts.Skip
	if req.Token != "" {
		tokOffset, tokSalt, err := DecodeToken(req.Token)
		if err != nil {
			return nil, err
		}
		if tokSalt != req.Salt {
			return nil, ErrTokenMismatch
		}
		offset = tokOffset
	}

	total := len(filtered)
	if offset > total {
		offset = total
	}

	end := total
	if req.Take > 0 && offset+req.Take < end {
		end = offset + req.Take
	}

	page := &Page[T]{
		Items:  filtered[offset:end],
		Total:  total,
		Offset: offset,
		Salt:   req.Salt,
	}
	page.Retoken()
	return page, nil
}

func filter[T Entry](items []T, opts FilterOptions) []T {
	kept := make([]T, 0, len(items))
	for _, it := range items {
		if it.EntryPublic() {
			if !opts.Public {
				continue
			}
		} else if !opts.NonPublic {
			continue
		}
		if it.EntryStatic() {
			if !opts.Static {
				continue
			}
		} else if !opts.Instance {
			continue
		}
		if opts.DeclaredOnly && it.EntryInherited() {
			continue
		}
		if opts.NameContains != "" && !contains(it.EntryName(), opts.NameContains, opts.CaseSensitive) {
			continue
		}
		if opts.AttributeContains != "" && !anyContains(it.EntryAttributes(), opts.AttributeContains, opts.CaseSensitive) {
			continue
		}
		kept = append(kept, it)
	}
	return kept
}

func sortEntries[T Entry](items []T, opts FilterOptions) {
	key := sortValue[T](opts.SortBy)
	sort.Slice(items, func(i, j int) bool {
		a, b := key(items[i]), key(items[j])
		if a != b {
			if opts.Descending {
				return a > b
			}
			return a < b
		}
		// declaration order breaks ties, in both directions, so paging is
		// reproducible whatever the provider enumeration order was
		return items[i].EntryOrder() < items[j].EntryOrder()
	})
}

func sortValue[T Entry](key SortKey) func(T) string {
	switch key {
	case SortByKind:
		return func(e T) string { return e.EntryKind() }
	case SortByAccessibility:
		return func(e T) string { return e.EntryAccessibility() }
	default:
		return func(e T) string { return e.EntryName() }
	}
}

func contains(s, sub string, caseSensitive bool) bool {
	if caseSensitive {
		return strings.Contains(s, sub)
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func anyContains(ss []string, sub string, caseSensitive bool) bool {
	for _, s := range ss {
		if contains(s, sub, caseSensitive) {
			return true
		}
	}
	return false
}
