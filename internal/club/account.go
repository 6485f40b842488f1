package club

import (
	"context"
	"errors"
	"strings"

	"github.com/dukerupert/bookclub/internal/apperror"
	"github.com/dukerupert/bookclub/internal/auth"
	"github.com/dukerupert/bookclub/internal/model"
	"github.com/dukerupert/bookclub/internal/store"
)

const (
	MaxUsernameLength = 64
	MinPasswordLength = 8
	// bcrypt ignores everything past 72 bytes.
	MaxPasswordBytes = 72
)

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Service) Register(ctx context.Context, c Credentials) (*model.User, *model.Session, error) {
	username := strings.TrimSpace(c.Username)
	switch {
	case username == "" || c.Password == "":
		return nil, nil, apperror.Validation("Username and password are required")
	case len(username) > MaxUsernameLength:
		return nil, nil, apperror.Validation("Username must be at most %d characters", MaxUsernameLength)
	case len(c.Password) < MinPasswordLength:
		return nil, nil, apperror.Validation("Password must be at least %d characters", MinPasswordLength)
	case len(c.Password) > MaxPasswordBytes:
		return nil, nil, apperror.Validation("Password must be at most %d bytes", MaxPasswordBytes)
	}

	digest, err := s.hasher.Hash(c.Password)
	if err != nil {
		return nil, nil, s.storageErr(err, "Registration failed")
	}

	user, err := s.users.Create(ctx, username, digest, model.RoleMember)
	if errors.Is(err, store.ErrDuplicate) {
		return nil, nil, apperror.Conflict("Username already exists")
	}
	if err != nil {
		return nil, nil, s.storageErr(err, "Registration failed")
	}

	sess, err := s.sessions.Create(ctx, user.ID, s.sessionTTL)
	if err != nil {
		return nil, nil, s.storageErr(err, "Registration failed")
	}
	s.logger.Info("user registered", "user_id", user.ID, "username", user.Username)
	return user, sess, nil
}

// Login verifies credentials and opens a session. Unknown usernames and wrong
// passwords produce the same error.
func (s *Service) Login(ctx context.Context, c Credentials) (*model.User, *model.Session, error) {
	invalid := apperror.Auth("Invalid credentials")
	username := strings.TrimSpace(c.Username)
	if username == "" || c.Password == "" {
		return nil, nil, invalid
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, nil, s.storageErr(err, "Login failed")
	}
	if user == nil {
		s.hasher.CompareDummy(c.Password)
		return nil, nil, invalid
	}
	if err := s.hasher.Compare(user.PasswordHash, c.Password); err != nil {
		if !errors.Is(err, auth.ErrMismatch) {
			s.logger.Warn("password compare failed", "user_id", user.ID, "error", err)
		}
		return nil, nil, invalid
	}

	sess, err := s.sessions.Create(ctx, user.ID, s.sessionTTL)
	if err != nil {
		return nil, nil, s.storageErr(err, "Login failed")
	}
	return user, sess, nil
}

// Logout deletes the session. Unknown or empty tokens are not an error.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.DeleteByToken(ctx, token); err != nil {
		return s.storageErr(err, "Logout failed")
	}
	return nil
}

// Resolve maps a session token to the principal that owns it.
func (s *Service) Resolve(ctx context.Context, token string) (auth.Principal, error) {
	if token == "" {
		return auth.Principal{}, apperror.Auth("Unauthorized")
	}
	sess, err := s.sessions.GetByToken(ctx, token)
	if err != nil {
		return auth.Principal{}, s.storageErr(err, "Auth check failed")
	}
	if sess == nil {
		return auth.Principal{}, apperror.Auth("Invalid or expired session")
	}
	user, err := s.users.GetByID(ctx, sess.UserID)
	if err != nil {
		return auth.Principal{}, s.storageErr(err, "Auth check failed")
	}
	if user == nil {
		return auth.Principal{}, apperror.Auth("Invalid or expired session")
	}
	return auth.Principal{
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.Role,
		SessionID: sess.ID,
	}, nil
}

func (s *Service) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, s.storageErr(err, "Failed to fetch users")
	}
	if users == nil {
		users = []model.User{}
	}
	return users, nil
}

// SetRole changes a user's role. It backs the CLI promote and demote commands.
func (s *Service) SetRole(ctx context.Context, username, role string) error {
	if role != model.RoleMember && role != model.RoleAdmin {
		return apperror.Validation("unknown role %q", role)
	}
	err := s.users.SetRole(ctx, username, role)
	if errors.Is(err, store.ErrNotFound) {
		return apperror.NotFound("User %q not found", username)
	}
	if err != nil {
		return s.storageErr(err, "Failed to update role")
	}
	return nil
}

// PruneSessions deletes expired sessions and returns how many were removed.
func (s *Service) PruneSessions(ctx context.Context) (int64, error) {
	n, err := s.sessions.DeleteExpired(ctx)
	if err != nil {
		return 0, s.storageErr(err, "Failed to prune sessions")
	}
	return n, nil
}
