package catalog

import (
	"net/url"
	"strconv"
)

// PageSize is the fixed number of items requested per page.
const PageSize = 12

// Sort selects the result ordering for a catalog query.
type Sort string

const (
	// SortDefault leaves ordering to the service (popularity-derived).
	SortDefault Sort = ""
	// SortTitleAsc orders results by title, A to Z.
	SortTitleAsc Sort = "title"
	// SortScoreDesc orders results by score, highest first.
	SortScoreDesc Sort = "score"
)

// ParseSort maps a form value onto a known Sort, defaulting to SortDefault.
func ParseSort(value string) Sort {
	switch Sort(value) {
	case SortTitleAsc, SortScoreDesc:
		return Sort(value)
	default:
		return SortDefault
	}
}

// Query captures one browse request: free-text search, optional genre and
// rating filters, sort mode and page number.
type Query struct {
	Text       string
	GenreID    string
	RatingCode string
	Sort       Sort
	Page       int
}

// Normalize returns the query with the page clamped to at least 1.
func (q Query) Normalize() Query {
	if q.Page < 1 {
		q.Page = 1
	}
	return q
}

// WithPage returns a copy of the query pointed at a different page with all
// other dimensions unchanged.
func (q Query) WithPage(page int) Query {
	q.Page = page
	return q.Normalize()
}

// IsBrowse reports whether every filter dimension is empty, in which case
// the top/popular endpoint is used instead of search.
func (q Query) IsBrowse() bool {
	return q.Text == "" && q.GenreID == "" && q.RatingCode == "" && q.Sort == SortDefault
}

// buildRequest resolves the query into a concrete request URL against base.
// With no filter dimensions set it targets the top listing; otherwise the
// search endpoint carries whichever dimensions are present.
func (q Query) buildRequest(base *url.URL) *url.URL {
	q = q.Normalize()

	values := url.Values{}
	values.Set("page", strconv.Itoa(q.Page))
	values.Set("limit", strconv.Itoa(PageSize))

	var ref url.URL
	if q.IsBrowse() {
		ref.Path = "top/anime"
	} else {
		ref.Path = "anime"
		// An empty q matches everything, which keeps filter-only queries valid.
		values.Set("q", q.Text)
		values.Set("sfw", "true")
		if q.GenreID != "" {
			values.Set("genres", q.GenreID)
		}
		if q.RatingCode != "" {
			values.Set("rating", q.RatingCode)
		}
		switch q.Sort {
		case SortTitleAsc:
			values.Set("order_by", "title")
			values.Set("sort", "asc")
		case SortScoreDesc:
			values.Set("order_by", "score")
			values.Set("sort", "desc")
		}
	}

	resolved := base.ResolveReference(&ref)
	resolved.RawQuery = values.Encode()
	return resolved
}

// Encode serialises the query into form values for links that re-issue it,
// omitting empty dimensions.
func (q Query) Encode() url.Values {
	q = q.Normalize()
	values := url.Values{}
	if q.Text != "" {
		values.Set("q", q.Text)
	}
	if q.GenreID != "" {
		values.Set("genre", q.GenreID)
	}
	if q.RatingCode != "" {
		values.Set("rating", q.RatingCode)
	}
	if q.Sort != SortDefault {
		values.Set("sort", string(q.Sort))
	}
	if q.Page > 1 {
		values.Set("page", strconv.Itoa(q.Page))
	}
	return values
}
