package ui

import (
	"net/http"

	"animefinder.org/animefinder/internal/catalog"
	"animefinder.org/animefinder/internal/httpserver/middleware"
	"animefinder.org/animefinder/internal/paging"
	"animefinder.org/animefinder/internal/reviews"
)

// Layout carries the fields every page shares: the signed-in user and the
// banner messages.
type Layout struct {
	Title  string
	UserID string
	Notice string
	Error  string
}

// PageLink is one numbered button in the pagination controls.
type PageLink struct {
	Number int
	URL    string
	Active bool
}

// HomePage is the view model for the browse/search page.
type HomePage struct {
	Layout     Layout
	Query      catalog.Query
	Genres     []catalog.FilterOption
	Ratings    []catalog.FilterOption
	Items      []catalog.Anime
	Window     paging.Window
	PageLinks  []PageLink
	FirstURL   string
	PrevURL    string
	NextURL    string
	LastURL    string
	HasPrev    bool
	HasNext    bool
	JumpValue  string
	LoadFailed bool
	RetryURL   string
}

// DetailPage is the view model for the item detail page.
type DetailPage struct {
	Layout        Layout
	Anime         *catalog.Anime
	Reviews       []reviews.Review
	ReviewsFailed bool
	RatingChoices []int
	FormTitle     string
	FormContents  string
	FormRating    int
}

// AuthPage is the view model for the login and signup forms.
type AuthPage struct {
	Layout Layout
	UserID string
}

// MyPage is the view model for the signed-in user's review list.
type MyPage struct {
	Layout     Layout
	Reviews    []reviews.AuthoredReview
	LoadFailed bool
}

// ratingChoices lists the selectable scores, highest first as in the form.
func ratingChoices() []int {
	choices := make([]int, 0, 10)
	for n := 10; n >= 1; n-- {
		choices = append(choices, n)
	}
	return choices
}

// newLayout assembles the shared layout fields from the request session,
// consuming the idle-timeout notice when one is pending.
func newLayout(r *http.Request, title string) Layout {
	layout := Layout{Title: title}
	if sess, ok := middleware.SessionFromContext(r.Context()); ok {
		if identity := sess.Identity(); identity != nil {
			layout.UserID = identity.UserID
		}
		if sess.TakeTimeoutNotice() {
			layout.Notice = "You were signed out due to inactivity."
		}
	}
	return layout
}
