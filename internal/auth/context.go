package auth

import (
	"context"

	"github.com/dukerupert/bookclub/internal/model"
)

type contextKey struct{}

// Principal is the authenticated caller of a request. Service operations take
// it explicitly; the context only carries it from middleware to handler.
type Principal struct {
	UserID    int64
	Username  string
	Role      string
	SessionID int64
}

func (p Principal) IsAdmin() bool {
	return p.Role == model.RoleAdmin
}

// Can reports whether the principal may act on behalf of userID.
func (p Principal) Can(userID int64) bool {
	return p.UserID == userID || p.IsAdmin()
}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(contextKey{}).(Principal)
	return p, ok
}

func UserID(ctx context.Context) int64 {
	p, ok := FromContext(ctx)
	if !ok {
		return 0
	}
	return p.UserID
}

func IsAdmin(ctx context.Context) bool {
	p, ok := FromContext(ctx)
	if !ok {
		return false
	}
	return p.IsAdmin()
}
