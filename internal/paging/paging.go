// Package paging derives the grouped page-number window shown in the
// catalog pagination controls and validates manual page jumps.
package paging

import (
	"errors"
	"strconv"
	"strings"
)

// GroupSize is the number of page buttons rendered per group.
const GroupSize = 10

// ErrOutOfRange is returned when a page jump target does not parse or lies
// outside [1, last]. Callers must keep the previously displayed page value
// rather than clamping.
var ErrOutOfRange = errors.New("paging: page out of range")

// Window is the bounded set of page numbers to present for one result set.
type Window struct {
	Start   int
	End     int
	Current int
	Last    int
}

// NewWindow computes the window containing current. Start is always the
// first page of the enclosing group of GroupSize; End never exceeds last.
func NewWindow(current, last int) Window {
	if current < 1 {
		current = 1
	}
	if last < 1 {
		last = 1
	}
	if current > last {
		current = last
	}

	start := (current-1)/GroupSize*GroupSize + 1
	end := start + GroupSize - 1
	if end > last {
		end = last
	}
	return Window{Start: start, End: end, Current: current, Last: last}
}

// Pages enumerates the window's page numbers in order.
func (w Window) Pages() []int {
	pages := make([]int, 0, w.End-w.Start+1)
	for p := w.Start; p <= w.End; p++ {
		pages = append(pages, p)
	}
	return pages
}

// HasPrev reports whether a previous page exists.
func (w Window) HasPrev() bool { return w.Current > 1 }

// HasNext reports whether a next page exists.
func (w Window) HasNext() bool { return w.Current < w.Last }

// ValidateJump parses a manually entered page target and checks it against
// [1, last].
func ValidateJump(input string, last int) (int, error) {
	page, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return 0, ErrOutOfRange
	}
	if page < 1 || page > last {
		return 0, ErrOutOfRange
	}
	return page, nil
}
