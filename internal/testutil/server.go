// Package testutil builds fully wired test servers for handler tests.
package testutil

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"animefinder.org/animefinder/internal/catalog"
	"animefinder.org/animefinder/internal/httpserver"
	"animefinder.org/animefinder/internal/httpserver/middleware"
	"animefinder.org/animefinder/internal/httpserver/ui"
	"animefinder.org/animefinder/internal/reviews"
	"animefinder.org/animefinder/internal/session"
	"animefinder.org/animefinder/internal/users"
)

// ServerOption customises the HTTP server configuration for tests.
type ServerOption func(*httpserver.Config)

// WithCatalogService wires a custom catalog service implementation.
func WithCatalogService(service ui.CatalogService) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.Catalog = service
	}
}

// WithAuthService wires a custom auth service implementation.
func WithAuthService(service ui.AuthService) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.Auth = service
	}
}

// WithReviewService wires a custom review service implementation.
func WithReviewService(service ui.ReviewService) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.Reviews = service
	}
}

// WithSessionStore overrides the session store used by the server.
func WithSessionStore(store middleware.SessionStore) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.Sessions = store
	}
}

// NewSessionManager returns a session manager with fixed test keys.
func NewSessionManager(t testing.TB, idle time.Duration, now func() time.Time) *session.Manager {
	t.Helper()

	mgr, err := session.NewManager(session.Config{
		HashKey:     []byte("0123456789abcdef0123456789abcdef"),
		IdleTimeout: idle,
		Now:         now,
	})
	if err != nil {
		t.Fatalf("new session manager: %v", err)
	}
	return mgr
}

// NewServer constructs an httptest server running the full HTTP stack with
// inert default services.
func NewServer(t testing.TB, opts ...ServerOption) *httptest.Server {
	t.Helper()

	cfg := httpserver.Config{
		Address:  ":0",
		Sessions: NewSessionManager(t, 0, nil),
		Catalog:  emptyCatalog{},
		Auth:     rejectAuth{},
		Reviews:  emptyReviews{},
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	srv := httpserver.New(cfg)
	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)
	return ts
}

type emptyCatalog struct{}

func (emptyCatalog) Search(context.Context, catalog.Query) (*catalog.Result, error) {
	return &catalog.Result{Pagination: catalog.Pagination{CurrentPage: 1, LastVisiblePage: 1}}, nil
}

func (emptyCatalog) Get(context.Context, string) (*catalog.Anime, error) {
	return nil, catalog.ErrNotFound
}

type rejectAuth struct{}

func (rejectAuth) Login(context.Context, string, string) (*users.User, error) {
	return nil, users.ErrInvalidCredentials
}

func (rejectAuth) Signup(context.Context, string, string) error {
	return nil
}

type emptyReviews struct{}

func (emptyReviews) ListForAnime(context.Context, string) ([]reviews.Review, error) {
	return nil, nil
}

func (emptyReviews) ListByUser(context.Context, string) ([]reviews.AuthoredReview, error) {
	return nil, nil
}

func (emptyReviews) Create(context.Context, string, string, string, string, int) ([]reviews.Review, error) {
	return nil, nil
}

func (emptyReviews) Delete(context.Context, string, string, string) error {
	return nil
}
