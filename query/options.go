package query

// SortKey names a supported sort key.
type SortKey string

const (
	SortByName          SortKey = "name"
	SortByKind          SortKey = "kind"
	SortByAccessibility SortKey = "accessibility"
)

// Valid reports whether the key is a supported sort key. Empty selects the
// default (name).
func (k SortKey) Valid() bool {
	switch k {
	case "", SortByName, SortByKind, SortByAccessibility:
		return true
	default:
		return false
	}
}

// FilterOptions is the one filter structure shared by every query operation.
// Inclusion flags select which entries survive; substring filters then
// narrow by name or attribute; sort and paging fields shape the output.
type FilterOptions struct {
	// Public includes publicly accessible entries.
	Public bool `json:"public"`

	// NonPublic includes entries that are not publicly accessible.
	NonPublic bool `json:"nonPublic,omitempty"`

	// Static includes static entries.
	Static bool `json:"static"`

	// Instance includes instance entries.
	Instance bool `json:"instance"`

	// DeclaredOnly excludes entries inherited from base types.
	DeclaredOnly bool `json:"declaredOnly,omitempty"`

	// CaseSensitive controls name comparisons, both for substring filters
	// and for type lookup.
	CaseSensitive bool `json:"caseSensitive,omitempty"`

	// NameContains keeps entries whose name contains the substring.
	NameContains string `json:"nameContains,omitempty"`

	// AttributeContains keeps entries with at least one attribute whose
	// name contains the substring.
	AttributeContains string `json:"attributeContains,omitempty"`

	SortBy     SortKey `json:"sortBy,omitempty"`
	Descending bool    `json:"descending,omitempty"`

	// Skip is the explicit page offset. Mutually exclusive with a
	// continuation token; a valid token takes precedence.
	Skip int `json:"skip,omitempty"`

	// Take bounds the page length. Zero selects the operation's configured
	// default.
	Take int `json:"take,omitempty"`
}

// DefaultFilterOptions returns the filter defaults: public static and
// instance entries, inherited included, case-insensitive, sorted by name.
func DefaultFilterOptions() FilterOptions {
	return FilterOptions{
		Public:   true,
		Static:   true,
		Instance: true,
		SortBy:   SortByName,
	}
}
