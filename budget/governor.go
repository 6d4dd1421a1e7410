package budget

import (
	"encoding/json"
	"fmt"
)

// Size ceilings in serialized characters. HardLimit is absolute: no
// response over it is ever emitted. WarnLimit drives pagination advice.
const (
	HardLimit = 100_000
	WarnLimit = 50_000
)

// Governor holds the size ceilings for one service instance.
// Hard is the absolute response ceiling; Warn is the advisory threshold.
type Governor struct {
	Hard int
	Warn int
}

// Default returns a Governor with the standard ceilings.
func Default() Governor {
	return Governor{Hard: HardLimit, Warn: WarnLimit}
}

// TooLargeError reports a response that exceeded the hard ceiling even
// after page trimming. It is non-retryable with identical arguments.
type TooLargeError struct {
	Actual int
	Max    int
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("budget: response size %d exceeds maximum %d", e.Actual, e.Max)
}

// Trim accepts items in order until adding the next candidate would push
// the accumulated size past target. The kept slice is always a prefix of
// items, so trimming never reorders or skips within a page.
//
// Contract:
//   - A candidate is rejected only when at least one item is already
//     accepted; a single oversized item is kept and left for the final
//     envelope check to fail closed.
//   - reduced is true iff at least one candidate was rejected.
//   - used is the accumulated size of the kept items.
func Trim[T any](items []T, size func(T) int, target int) (kept []T, used int, reduced bool) {
	kept = items[:0:0]
	for _, item := range items {
		sz := size(item)
		if len(kept) > 0 && used+sz > target {
			return kept, used, true
		}
		kept = append(kept, item)
		used += sz
	}
	return kept, used, false
}

// CheckEnvelope rejects a fully serialized envelope over the hard ceiling.
func (g Governor) CheckEnvelope(payload []byte) error {
	if len(payload) > g.Hard {
		return &TooLargeError{Actual: len(payload), Max: g.Hard}
	}
	return nil
}

// Advice is non-binding pagination guidance attached to large result sets.
type Advice struct {
	ProjectedSize     int    `json:"projectedSize"`
	SuggestedPageSize int    `json:"suggestedPageSize"`
	Message           string `json:"message"`
}

// Advise extrapolates the unpaginated result size from the current page
// and recommends a smaller page size when the projection crosses the
// warning threshold. Returns nil when no advice applies.
func (g Governor) Advise(count, pageBytes, total, pageSize int) *Advice {
	if count <= 0 || total <= count || pageSize <= 0 {
		return nil
	}
	projected := pageBytes / count * total
	if projected <= g.Warn {
		return nil
	}
	suggested := pageSize * g.Warn / projected
	if suggested < 1 {
		suggested = 1
	}
	if suggested >= pageSize {
		return nil
	}
	return &Advice{
		ProjectedSize:     projected,
		SuggestedPageSize: suggested,
		Message: fmt.Sprintf("projected full result size %d exceeds %d; consider a page size of %d",
			projected, g.Warn, suggested),
	}
}

// JSONSize returns the serialized length of v, or 0 when v cannot be
// marshaled. Descriptor types always marshal, so 0 only appears for
// caller bugs and never inflates a page.
func JSONSize(v any) int {
	b, err := json.Marshal(v)
	if err != nil {
		return 0
	}
	return len(b)
}
