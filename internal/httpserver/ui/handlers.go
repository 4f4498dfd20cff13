// Package ui contains the HTTP handlers that render the application pages.
package ui

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"animefinder.org/animefinder/internal/catalog"
	"animefinder.org/animefinder/internal/httpserver/middleware"
	"animefinder.org/animefinder/internal/paging"
	"animefinder.org/animefinder/internal/reviews"
	appsession "animefinder.org/animefinder/internal/session"
	"animefinder.org/animefinder/internal/templates"
	"animefinder.org/animefinder/internal/users"
)

// CatalogService is the subset of the catalog client used by the handlers.
type CatalogService interface {
	Search(ctx context.Context, query catalog.Query) (*catalog.Result, error)
	Get(ctx context.Context, id string) (*catalog.Anime, error)
}

// AuthService is the subset of the user service used by the handlers.
type AuthService interface {
	Login(ctx context.Context, userid, password string) (*users.User, error)
	Signup(ctx context.Context, userid, password string) error
}

// ReviewService is the subset of the review ledger used by the handlers.
type ReviewService interface {
	ListForAnime(ctx context.Context, animeID string) ([]reviews.Review, error)
	ListByUser(ctx context.Context, userid string) ([]reviews.AuthoredReview, error)
	Create(ctx context.Context, userid, animeID, title, contents string, rating int) ([]reviews.Review, error)
	Delete(ctx context.Context, userid, reviewID, ownerUserID string) error
}

// Handlers bundles the page handlers and their dependencies.
type Handlers struct {
	catalog CatalogService
	auth    AuthService
	reviews ReviewService
	logger  *zap.Logger
}

// NewHandlers constructs the page handlers.
func NewHandlers(catalogSvc CatalogService, authSvc AuthService, reviewSvc ReviewService, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{catalog: catalogSvc, auth: authSvc, reviews: reviewSvc, logger: logger}
}

// Home renders the browse/search page. Filter dimensions arrive as query
// parameters; a manual page jump is validated against the last page the
// previous render advertised and redirects on success.
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	query := parseCatalogQuery(r)
	layout := newLayout(r, "Browse")

	if jump := r.URL.Query().Get("jump"); jump != "" {
		last, _ := strconv.Atoi(r.URL.Query().Get("last"))
		if last < 1 {
			last = 1
		}
		target, err := paging.ValidateJump(jump, last)
		if err == nil {
			http.Redirect(w, r, homeURL(query.WithPage(target)), http.StatusSeeOther)
			return
		}
		// Keep showing the page the user was on.
		layout.Error = fmt.Sprintf("Enter a page between 1 and %d.", last)
	}

	page := HomePage{
		Layout:   layout,
		Query:    query,
		Genres:   catalog.GenreOptions,
		Ratings:  catalog.RatingOptions,
		RetryURL: homeURL(query),
	}

	result, err := h.catalog.Search(r.Context(), query)
	if err != nil {
		h.logger.Warn("catalog search failed", zap.Error(err))
		page.LoadFailed = true
		h.render(w, "home", page)
		return
	}

	window := paging.NewWindow(result.Pagination.CurrentPage, result.Pagination.LastVisiblePage)
	page.Items = result.Items
	page.Window = window
	page.JumpValue = strconv.Itoa(window.Current)
	page.HasPrev = window.HasPrev()
	page.HasNext = window.Current < window.Last || result.Pagination.HasNextPage
	page.FirstURL = homeURL(query.WithPage(1))
	page.PrevURL = homeURL(query.WithPage(window.Current - 1))
	page.NextURL = homeURL(query.WithPage(window.Current + 1))
	page.LastURL = homeURL(query.WithPage(window.Last))
	for _, number := range window.Pages() {
		page.PageLinks = append(page.PageLinks, PageLink{
			Number: number,
			URL:    homeURL(query.WithPage(number)),
			Active: number == window.Current,
		})
	}

	h.render(w, "home", page)
}

// Detail renders one catalog item with its trailer and reviews.
func (h *Handlers) Detail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	anime, err := h.catalog.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			http.Error(w, "No anime found for this id.", http.StatusNotFound)
			return
		}
		h.logger.Warn("catalog detail fetch failed", zap.String("id", id), zap.Error(err))
		http.Error(w, "The catalog is unavailable right now. Please try again.", http.StatusBadGateway)
		return
	}

	page := DetailPage{
		Layout:        newLayout(r, anime.Title),
		Anime:         anime,
		RatingChoices: ratingChoices(),
		FormRating:    10,
	}

	list, err := h.reviews.ListForAnime(r.Context(), id)
	if err != nil {
		page.ReviewsFailed = true
	} else {
		page.Reviews = list
	}

	h.render(w, "detail", page)
}

// CreateReview handles the review form post for one item.
func (h *Handlers) CreateReview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	_, identity := sessionIdentity(r)
	if identity == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	title := r.FormValue("title")
	contents := r.FormValue("contents")
	rating, err := strconv.Atoi(r.FormValue("rating"))
	if err != nil {
		rating = 10
	}

	_, err = h.reviews.Create(r.Context(), identity.UserID, id, title, contents, rating)
	if err == nil {
		http.Redirect(w, r, "/detail/"+id, http.StatusSeeOther)
		return
	}

	var message string
	switch {
	case errors.Is(err, reviews.ErrAlreadyReviewed):
		message = "You already reviewed this title."
	case errors.Is(err, reviews.ErrInvalidReview):
		message = "A review needs both a title and contents."
	case errors.Is(err, reviews.ErrUnauthenticated):
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	default:
		h.logger.Warn("review create failed", zap.String("animeId", id), zap.Error(err))
		message = "Posting the review failed. Please try again."
	}

	// Re-render the detail page with the rejected form values preserved.
	anime, fetchErr := h.catalog.Get(r.Context(), id)
	if fetchErr != nil {
		http.Redirect(w, r, "/detail/"+id, http.StatusSeeOther)
		return
	}
	page := DetailPage{
		Layout:        newLayout(r, anime.Title),
		Anime:         anime,
		RatingChoices: ratingChoices(),
		FormTitle:     title,
		FormContents:  contents,
		FormRating:    rating,
	}
	page.Layout.Error = message
	if list, listErr := h.reviews.ListForAnime(r.Context(), id); listErr != nil {
		page.ReviewsFailed = true
	} else {
		page.Reviews = list
	}
	h.render(w, "detail", page)
}

// DeleteReview removes a review when the signed-in user owns it, then sends
// the browser back where it came from.
func (h *Handlers) DeleteReview(w http.ResponseWriter, r *http.Request) {
	reviewID := chi.URLParam(r, "id")

	_, identity := sessionIdentity(r)
	if identity == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	owner := r.FormValue("owner")
	if err := h.reviews.Delete(r.Context(), identity.UserID, reviewID, owner); err != nil {
		switch {
		case errors.Is(err, reviews.ErrNotOwner):
			http.Error(w, "You can only delete your own reviews.", http.StatusForbidden)
		case errors.Is(err, reviews.ErrUnauthenticated):
			http.Redirect(w, r, "/login", http.StatusSeeOther)
		default:
			h.logger.Warn("review delete failed", zap.String("reviewId", reviewID), zap.Error(err))
			http.Error(w, "Deleting the review failed. Please try again.", http.StatusBadGateway)
		}
		return
	}

	http.Redirect(w, r, safeBackURL(r.FormValue("back")), http.StatusSeeOther)
}

// LoginForm renders the login page.
func (h *Handlers) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, "login", AuthPage{Layout: newLayout(r, "Log in")})
}

// Login checks the submitted credentials against the user store.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	userid := r.FormValue("userid")
	password := r.FormValue("password")

	user, err := h.auth.Login(r.Context(), userid, password)
	if err != nil {
		page := AuthPage{Layout: newLayout(r, "Log in"), UserID: userid}
		switch {
		case errors.Is(err, users.ErrInvalidCredentials), errors.Is(err, users.ErrInvalidInput):
			page.Layout.Error = "Login failed. Check your user ID and password."
		default:
			h.logger.Warn("login failed", zap.Error(err))
			page.Layout.Error = "The user store is unavailable right now. Please try again."
		}
		h.render(w, "login", page)
		return
	}

	if sess, ok := middleware.SessionFromContext(r.Context()); ok {
		sess.SetIdentity(appsession.Identity{UserID: user.UserID})
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// SignupForm renders the signup page.
func (h *Handlers) SignupForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, "signup", AuthPage{Layout: newLayout(r, "Sign up")})
}

// Signup creates an account and signs the new user in.
func (h *Handlers) Signup(w http.ResponseWriter, r *http.Request) {
	userid := r.FormValue("userid")
	password := r.FormValue("password")
	confirm := r.FormValue("confirm")

	page := AuthPage{Layout: newLayout(r, "Sign up"), UserID: userid}

	if password != confirm {
		page.Layout.Error = "Passwords do not match."
		h.render(w, "signup", page)
		return
	}

	if err := h.auth.Signup(r.Context(), userid, password); err != nil {
		switch {
		case errors.Is(err, users.ErrDuplicateUser):
			page.Layout.Error = "That user ID is already taken."
		case errors.Is(err, users.ErrInvalidInput):
			page.Layout.Error = "User ID and password are required."
		default:
			h.logger.Warn("signup failed", zap.Error(err))
			page.Layout.Error = "The user store is unavailable right now. Please try again."
		}
		h.render(w, "signup", page)
		return
	}

	if sess, ok := middleware.SessionFromContext(r.Context()); ok {
		sess.SetIdentity(appsession.Identity{UserID: userid})
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout clears the identity and the session cookie.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if sess, ok := middleware.SessionFromContext(r.Context()); ok {
		sess.ClearIdentity()
		sess.Destroy()
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// MyPageHandler renders the signed-in user's reviews with resolved titles.
func (h *Handlers) MyPageHandler(w http.ResponseWriter, r *http.Request) {
	_, identity := sessionIdentity(r)
	if identity == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	page := MyPage{Layout: newLayout(r, "My reviews")}
	list, err := h.reviews.ListByUser(r.Context(), identity.UserID)
	if err != nil {
		page.LoadFailed = true
	} else {
		page.Reviews = list
	}

	h.render(w, "mypage", page)
}

func (h *Handlers) render(w http.ResponseWriter, page string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.Render(w, page, data); err != nil {
		h.logger.Error("render failed", zap.String("page", page), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func sessionIdentity(r *http.Request) (*appsession.Session, *appsession.Identity) {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		return nil, nil
	}
	return sess, sess.Identity()
}

// parseCatalogQuery maps the home page's query parameters onto a catalog
// query. Bad page values fall back to 1.
func parseCatalogQuery(r *http.Request) catalog.Query {
	values := r.URL.Query()
	page, err := strconv.Atoi(values.Get("page"))
	if err != nil {
		page = 1
	}
	return catalog.Query{
		Text:       strings.TrimSpace(values.Get("q")),
		GenreID:    values.Get("genre"),
		RatingCode: values.Get("rating"),
		Sort:       catalog.ParseSort(values.Get("sort")),
		Page:       page,
	}.Normalize()
}

func homeURL(query catalog.Query) string {
	encoded := query.Encode()
	if len(encoded) == 0 {
		return "/"
	}
	return "/?" + encoded.Encode()
}

// safeBackURL only follows same-site relative paths.
func safeBackURL(back string) string {
	if strings.HasPrefix(back, "/") && !strings.HasPrefix(back, "//") {
		return back
	}
	return "/"
}
