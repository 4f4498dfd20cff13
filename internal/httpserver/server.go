// Package httpserver assembles the router and HTTP server for the site.
package httpserver

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	custommw "animefinder.org/animefinder/internal/httpserver/middleware"
	"animefinder.org/animefinder/internal/httpserver/ui"
	"animefinder.org/animefinder/public"
)

// Config holds runtime options for the HTTP server.
type Config struct {
	Address  string
	Sessions custommw.SessionStore
	Catalog  ui.CatalogService
	Auth     ui.AuthService
	Reviews  ui.ReviewService
	Logger   *zap.Logger
}

// New constructs the HTTP server with middleware stack and embedded assets.
func New(cfg Config) *http.Server {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(custommw.RequestLogger(logger))
	router.Use(chimw.Recoverer)
	router.Use(chimw.Timeout(60 * time.Second))

	staticContent, err := public.StaticFS()
	if err != nil {
		log.Fatalf("embed static: %v", err)
	}
	router.Handle("/public/static/*", http.StripPrefix("/public/static/", http.FileServer(http.FS(staticContent))))

	handlers := ui.NewHandlers(cfg.Catalog, cfg.Auth, cfg.Reviews, logger)
	mountRoutes(router, cfg.Sessions, logger, handlers)

	return &http.Server{
		Addr:         cfg.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func mountRoutes(router chi.Router, sessions custommw.SessionStore, logger *zap.Logger, handlers *ui.Handlers) {
	router.Group(func(r chi.Router) {
		r.Use(custommw.Session(sessions, logger))

		r.Get("/", handlers.Home)
		r.Get("/detail/{id}", handlers.Detail)
		r.Post("/detail/{id}/reviews", handlers.CreateReview)
		r.Post("/reviews/{id}/delete", handlers.DeleteReview)

		r.Get("/login", handlers.LoginForm)
		r.Post("/login", handlers.Login)
		r.Get("/signup", handlers.SignupForm)
		r.Post("/signup", handlers.Signup)
		r.Post("/logout", handlers.Logout)
		r.Get("/mypage", handlers.MyPageHandler)
	})
}
