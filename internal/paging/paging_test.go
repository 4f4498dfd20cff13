package paging

import (
	"errors"
	"testing"
)

func TestNewWindowGroupBounds(t *testing.T) {
	cases := []struct {
		name          string
		current, last int
		start, end    int
	}{
		{"first page", 1, 5, 1, 5},
		{"middle of first group", 7, 42, 1, 10},
		{"group boundary low", 10, 42, 1, 10},
		{"group boundary high", 11, 42, 11, 20},
		{"last group truncated", 41, 42, 41, 42},
		{"single page", 1, 1, 1, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := NewWindow(tc.current, tc.last)
			if w.Start != tc.start || w.End != tc.end {
				t.Fatalf("window(%d,%d) = [%d,%d], want [%d,%d]",
					tc.current, tc.last, w.Start, w.End, tc.start, tc.end)
			}
			if (w.Start-1)%GroupSize != 0 {
				t.Fatalf("start %d is not aligned to a group boundary", w.Start)
			}
			if w.End-w.Start > GroupSize-1 {
				t.Fatalf("window [%d,%d] wider than group size", w.Start, w.End)
			}
		})
	}
}

func TestNewWindowClampsDegenerateInput(t *testing.T) {
	w := NewWindow(0, 0)
	if w.Start != 1 || w.End != 1 || w.Current != 1 || w.Last != 1 {
		t.Fatalf("unexpected window for degenerate input: %+v", w)
	}

	w = NewWindow(9, 3)
	if w.Current != 3 {
		t.Fatalf("expected current clamped to last, got %d", w.Current)
	}
}

func TestWindowPages(t *testing.T) {
	w := NewWindow(15, 17)
	pages := w.Pages()
	want := []int{11, 12, 13, 14, 15, 16, 17}
	if len(pages) != len(want) {
		t.Fatalf("got %v, want %v", pages, want)
	}
	for i := range want {
		if pages[i] != want[i] {
			t.Fatalf("got %v, want %v", pages, want)
		}
	}
	if !w.HasPrev() || !w.HasNext() {
		t.Fatalf("expected prev and next for page 15 of 17")
	}
}

func TestValidateJump(t *testing.T) {
	if _, err := ValidateJump("0", 5); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange for 0, got %v", err)
	}
	if _, err := ValidateJump("6", 5); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange for 6, got %v", err)
	}
	if _, err := ValidateJump("three", 5); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange for non-numeric input, got %v", err)
	}
	page, err := ValidateJump(" 3 ", 5)
	if err != nil || page != 3 {
		t.Fatalf("ValidateJump(3, 5) = %d, %v", page, err)
	}
}
