package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/bookclub/internal/club"
	"github.com/dukerupert/bookclub/internal/config"
	"github.com/dukerupert/bookclub/internal/handler"
	"github.com/dukerupert/bookclub/internal/middleware"
	"github.com/dukerupert/bookclub/internal/openlibrary"
)

const (
	authRateLimit  = 10
	authRatePeriod = time.Minute
)

type Server struct {
	svc            *club.Service
	authH          *handler.AuthHandler
	userH          *handler.UserHandler
	bookH          *handler.BookHandler
	suggestionH    *handler.SuggestionHandler
	ratingH        *handler.RatingHandler
	availabilityH  *handler.AvailabilityHandler
	searchH        *handler.SearchHandler
	rateLimiter    *middleware.RateLimiter
	secureCookie   bool
	allowedOrigins []string
	logger         *slog.Logger
}

// New wires the club service and HTTP handlers over db. A nil lookup uses
// the Open Library client at cfg.OpenLibraryURL.
func New(db *sql.DB, cfg config.Config, lookup handler.BookLookup, logger *slog.Logger) *Server {
	svc := club.New(db, club.Options{
		SessionTTL: cfg.SessionTTL,
		Logger:     logger,
	})
	if lookup == nil {
		lookup = openlibrary.NewClient(cfg.OpenLibraryURL)
	}

	return &Server{
		svc:            svc,
		authH:          handler.NewAuthHandler(svc, cfg.CookieSecure, logger.With("component", "auth")),
		userH:          handler.NewUserHandler(svc, logger.With("component", "user")),
		bookH:          handler.NewBookHandler(svc, logger.With("component", "book")),
		suggestionH:    handler.NewSuggestionHandler(svc, logger.With("component", "suggestion")),
		ratingH:        handler.NewRatingHandler(svc, logger.With("component", "rating")),
		availabilityH:  handler.NewAvailabilityHandler(svc, logger.With("component", "availability")),
		searchH:        handler.NewSearchHandler(lookup, svc, logger.With("component", "search")),
		rateLimiter:    middleware.NewRateLimiter(),
		secureCookie:   cfg.CookieSecure,
		allowedOrigins: cfg.AllowedOrigins,
		logger:         logger,
	}
}

// Service returns the club service for housekeeping tasks.
func (s *Server) Service() *club.Service {
	return s.svc
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	outerMux.HandleFunc("POST /api/auth/register", s.rateLimitedHandler(s.authH.Register))
	outerMux.HandleFunc("POST /api/auth/login", s.rateLimitedHandler(s.authH.Login))
	outerMux.HandleFunc("POST /api/auth/logout", s.authH.Logout)
	outerMux.Handle("GET /api/auth/me", middleware.OptionalAuth(s.svc, s.secureCookie)(http.HandlerFunc(s.authH.Me)))
	outerMux.HandleFunc("GET /health", s.healthHandler)

	// Everything else under /api requires a session
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.svc, s.secureCookie)
	outerMux.Handle("/api/", authMiddleware(protectedMux))

	var h http.Handler = outerMux
	h = middleware.CORS(s.allowedOrigins)(h)
	h = middleware.RequestLogger(s.logger.With("component", "http"))(h)
	return middleware.Recover(s.logger.With("component", "http"))(h)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, authRateLimit, authRatePeriod)
	return rl(h).ServeHTTP
}

func admin(h http.HandlerFunc) http.Handler {
	return middleware.RequireAdmin(h)
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/users", s.userH.List)

	// Books and schedule
	mux.HandleFunc("GET /api/books", s.bookH.List)
	mux.Handle("POST /api/books", admin(s.bookH.Create))
	mux.HandleFunc("GET /api/books/check-work", s.bookH.CheckWork)
	mux.Handle("PUT /api/books/{id}/mark-read", admin(s.bookH.MarkRead))
	mux.Handle("PUT /api/books/{id}/schedule", admin(s.bookH.Schedule))
	mux.Handle("DELETE /api/books/{id}", admin(s.bookH.Delete))

	// Suggestions
	mux.HandleFunc("POST /api/book-suggestions", s.suggestionH.Create)
	mux.Handle("POST /api/book-suggestions/{id}/approve", admin(s.suggestionH.Approve))
	mux.Handle("DELETE /api/book-suggestions/{id}", admin(s.suggestionH.Delete))

	// Ratings
	mux.HandleFunc("GET /api/ratings/{userId}/{bookId}", s.ratingH.Get)
	mux.HandleFunc("POST /api/ratings", s.ratingH.Submit)
	mux.HandleFunc("GET /api/books/{id}/rating", s.ratingH.Summary)

	// Availability
	mux.HandleFunc("GET /api/availability/{bookId}", s.availabilityH.Counts)
	mux.HandleFunc("GET /api/availability/{bookId}/details", s.availabilityH.Details)
	mux.HandleFunc("GET /api/availability/{bookId}/user/{userId}", s.availabilityH.UserDates)
	mux.HandleFunc("POST /api/availability", s.availabilityH.Submit)
	mux.HandleFunc("POST /api/availability/{bookId}/preview", s.availabilityH.Preview)

	// Book metadata lookup
	mux.HandleFunc("GET /api/book-search", s.searchH.Search)
	mux.HandleFunc("GET /api/book-search/work", s.searchH.Work)
}
