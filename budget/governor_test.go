package budget

import (
	"errors"
	"strings"
	"testing"
)

func itemSize(n int) int { return n }

func TestTrim_AllFit(t *testing.T) {
	items := []int{10, 20, 30}
	kept, used, reduced := Trim(items, itemSize, 100)
	if len(kept) != 3 {
		t.Errorf("kept = %d items, want 3", len(kept))
	}
	if used != 60 {
		t.Errorf("used = %d, want 60", used)
	}
	if reduced {
		t.Error("reduced should be false when everything fits")
	}
}

func TestTrim_RejectsCrossingCandidate(t *testing.T) {
	items := []int{40, 40, 40}
	kept, used, reduced := Trim(items, itemSize, 100)
	if len(kept) != 2 {
		t.Errorf("kept = %d items, want 2", len(kept))
	}
	if used != 80 {
		t.Errorf("used = %d, want 80", used)
	}
	if !reduced {
		t.Error("reduced should be true when a candidate is rejected")
	}
}

func TestTrim_KeptIsPrefix(t *testing.T) {
	items := []int{10, 90, 10, 10}
	kept, _, reduced := Trim(items, itemSize, 100)
	// The third item would fit on its own, but trimming stops at the first
	// rejection so pages stay contiguous prefixes.
	if len(kept) != 2 {
		t.Fatalf("kept = %v, want prefix of length 2", kept)
	}
	if kept[0] != 10 || kept[1] != 90 {
		t.Errorf("kept = %v, want [10 90]", kept)
	}
	if !reduced {
		t.Error("reduced should be true")
	}
}

func TestTrim_SingleOversizedItemKept(t *testing.T) {
	items := []int{500}
	kept, used, reduced := Trim(items, itemSize, 100)
	if len(kept) != 1 {
		t.Fatalf("kept = %d items, want 1", len(kept))
	}
	if used != 500 {
		t.Errorf("used = %d, want 500", used)
	}
	if reduced {
		t.Error("a lone oversized item is kept, not trimmed")
	}
}

func TestTrim_ExactFit(t *testing.T) {
	items := []int{50, 50}
	kept, used, reduced := Trim(items, itemSize, 100)
	if len(kept) != 2 {
		t.Errorf("kept = %d items, want 2 (exact fit is not a crossing)", len(kept))
	}
	if used != 100 {
		t.Errorf("used = %d, want 100", used)
	}
	if reduced {
		t.Error("reduced should be false on exact fit")
	}
}

func TestTrim_Empty(t *testing.T) {
	kept, used, reduced := Trim(nil, func(int) int { return 1 }, 100)
	if len(kept) != 0 || used != 0 || reduced {
		t.Errorf("Trim(nil) = (%v, %d, %v), want empty", kept, used, reduced)
	}
}

func TestCheckEnvelope(t *testing.T) {
	g := Governor{Hard: 100, Warn: 50}

	if err := g.CheckEnvelope([]byte(strings.Repeat("x", 100))); err != nil {
		t.Errorf("payload at the ceiling should pass, got: %v", err)
	}

	err := g.CheckEnvelope([]byte(strings.Repeat("x", 101)))
	if err == nil {
		t.Fatal("payload over the ceiling should fail")
	}
	var tooLarge *TooLargeError
	if !errors.As(err, &tooLarge) {
		t.Fatalf("error should be *TooLargeError, got %T", err)
	}
	if tooLarge.Actual != 101 || tooLarge.Max != 100 {
		t.Errorf("TooLargeError = {%d, %d}, want {101, 100}", tooLarge.Actual, tooLarge.Max)
	}
	if !strings.Contains(tooLarge.Error(), "101") || !strings.Contains(tooLarge.Error(), "100") {
		t.Errorf("error message should report actual and max: %q", tooLarge.Error())
	}
}

func TestDefault(t *testing.T) {
	g := Default()
	if g.Hard != HardLimit {
		t.Errorf("Hard = %d, want %d", g.Hard, HardLimit)
	}
	if g.Warn != WarnLimit {
		t.Errorf("Warn = %d, want %d", g.Warn, WarnLimit)
	}
}

func TestAdvise(t *testing.T) {
	g := Governor{Hard: 100_000, Warn: 1_000}

	tests := []struct {
		name      string
		count     int
		pageBytes int
		total     int
		pageSize  int
		want      *Advice
	}{
		{
			name:  "empty page",
			count: 0, pageBytes: 0, total: 100, pageSize: 10,
			want: nil,
		},
		{
			name:  "whole set on one page",
			count: 10, pageBytes: 5000, total: 10, pageSize: 10,
			want: nil,
		},
		{
			name:  "projection under threshold",
			count: 10, pageBytes: 50, total: 100, pageSize: 10,
			want: nil,
		},
		{
			name:  "projection over threshold",
			count: 10, pageBytes: 500, total: 100, pageSize: 10,
			// projected = 500/10*100 = 5000; suggested = 10*1000/5000 = 2
			want: &Advice{ProjectedSize: 5000, SuggestedPageSize: 2},
		},
		{
			name:  "suggestion floors at one",
			count: 1, pageBytes: 50_000, total: 100, pageSize: 1,
			want: nil, // already at page size 1, nothing smaller to suggest
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := g.Advise(tt.count, tt.pageBytes, tt.total, tt.pageSize)
			if tt.want == nil {
				if got != nil {
					t.Fatalf("Advise = %+v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Fatal("Advise = nil, want advice")
			}
			if got.ProjectedSize != tt.want.ProjectedSize {
				t.Errorf("ProjectedSize = %d, want %d", got.ProjectedSize, tt.want.ProjectedSize)
			}
			if got.SuggestedPageSize != tt.want.SuggestedPageSize {
				t.Errorf("SuggestedPageSize = %d, want %d", got.SuggestedPageSize, tt.want.SuggestedPageSize)
			}
			if got.Message == "" {
				t.Error("Message should not be empty")
			}
		})
	}
}

func TestJSONSize(t *testing.T) {
	if got := JSONSize(map[string]string{"a": "b"}); got != len(`{"a":"b"}`) {
		t.Errorf("JSONSize = %d, want %d", got, len(`{"a":"b"}`))
	}
	if got := JSONSize(make(chan int)); got != 0 {
		t.Errorf("JSONSize of unmarshalable value = %d, want 0", got)
	}
}
