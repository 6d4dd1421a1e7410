package query

// Page is one ordered slice of a filtered set.
//
// Total always reflects the full filtered set, independent of paging.
// NextToken is present iff offset+Count < Total.
type Page[T any] struct {
	Items []T `json:"items"`

	// Total is the size of the filtered set before paging.
	Total int `json:"total"`

	// Count is the length of Items.
	Count int `json:"count"`

	NextToken string `json:"nextToken,omitempty"`

	// Reduced is set when the size governor trimmed the page below the
	// requested length.
	Reduced bool `json:"reduced,omitempty"`

	// Offset is the resolved start offset of this page. Not part of the
	// rendered payload; the size governor uses it to re-mint tokens after
	// trimming.
	Offset int `json:"-"`

	// Salt is the query salt this page's tokens are bound to.
	Salt string `json:"-"`
}

// Retoken recomputes Count and NextToken after Items was trimmed.
func (p *Page[T]) Retoken() {
	p.Count = len(p.Items)
	if p.Offset+p.Count < p.Total {
		p.NextToken = EncodeToken(p.Offset+p.Count, p.Salt)
	} else {
		p.NextToken = ""
	}
}
