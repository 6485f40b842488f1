// Package club implements the book club operations: accounts, ratings,
// meeting availability, suggestions and the reading schedule. Every
// operation that changes state takes the acting auth.Principal explicitly
// and authorizes it here, independent of HTTP routing.
package club

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"

	"github.com/dukerupert/bookclub/internal/apperror"
	"github.com/dukerupert/bookclub/internal/auth"
	"github.com/dukerupert/bookclub/internal/store"
)

const DefaultSessionTTL = 30 * 24 * time.Hour

type Options struct {
	SessionTTL time.Duration
	Hasher     auth.Hasher
	Logger     *slog.Logger
}

type Service struct {
	users        *store.UserStore
	sessions     *store.SessionStore
	books        *store.BookStore
	suggestions  *store.SuggestionStore
	ratings      *store.RatingStore
	availability *store.AvailabilityStore
	workKeys     *store.WorkKeyStore

	hasher     auth.Hasher
	sessionTTL time.Duration
	validate   *validator.Validate
	sanitizer  *bluemonday.Policy
	logger     *slog.Logger
}

func New(db *sql.DB, opts Options) *Service {
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = DefaultSessionTTL
	}
	if opts.Hasher == nil {
		opts.Hasher = auth.NewBcryptHasher(0)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Service{
		users:        store.NewUserStore(db),
		sessions:     store.NewSessionStore(db),
		books:        store.NewBookStore(db),
		suggestions:  store.NewSuggestionStore(db),
		ratings:      store.NewRatingStore(db),
		availability: store.NewAvailabilityStore(db),
		workKeys:     store.NewWorkKeyStore(db),
		hasher:       opts.Hasher,
		sessionTTL:   opts.SessionTTL,
		validate:     newValidator(),
		sanitizer:    bluemonday.StrictPolicy(),
		logger:       opts.Logger.With("component", "club"),
	}
}

func (s *Service) SessionTTL() time.Duration {
	return s.sessionTTL
}

// storageErr logs the underlying failure and returns an error that only
// carries message to the client.
func (s *Service) storageErr(err error, message string) error {
	s.logger.Error(message, "error", err)
	return apperror.Storage(err, message)
}

func requireAdmin(p auth.Principal) error {
	if !p.IsAdmin() {
		return apperror.Forbidden("Admin access required")
	}
	return nil
}

// Sanitize strips all markup from externally supplied text.
func (s *Service) Sanitize(text string) string {
	return s.sanitizer.Sanitize(text)
}
