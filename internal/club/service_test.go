package club

import (
	"context"
	"database/sql"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/dukerupert/bookclub/internal/apperror"
	"github.com/dukerupert/bookclub/internal/auth"
	"github.com/dukerupert/bookclub/internal/database"
	"github.com/dukerupert/bookclub/internal/model"
)

func setupService(t *testing.T) (*Service, *sql.DB) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return New(db, Options{Hasher: auth.NewBcryptHasher(bcrypt.MinCost)}), db
}

// register creates a user and returns its principal.
func register(t *testing.T, svc *Service, username string) auth.Principal {
	t.Helper()
	u, sess, err := svc.Register(context.Background(), Credentials{Username: username, Password: "password123"})
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return auth.Principal{UserID: u.ID, Username: u.Username, Role: u.Role, SessionID: sess.ID}
}

func registerAdmin(t *testing.T, svc *Service, username string) auth.Principal {
	t.Helper()
	p := register(t, svc, username)
	if err := svc.SetRole(context.Background(), username, model.RoleAdmin); err != nil {
		t.Fatalf("promote %s: %v", username, err)
	}
	p.Role = model.RoleAdmin
	return p
}

func createBook(t *testing.T, svc *Service, admin auth.Principal, title, readOn string) *model.Book {
	t.Helper()
	b, err := svc.CreateBook(context.Background(), admin, BookRequest{Title: title, ReadOn: readOn})
	if err != nil {
		t.Fatalf("create book %s: %v", title, err)
	}
	return b
}

func wantKind(t *testing.T, err error, kind apperror.Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("err = nil, want %s", kind)
	}
	if got := apperror.KindOf(err); got != kind {
		t.Fatalf("kind = %s, want %s (err: %v)", got, kind, err)
	}
}

func TestDateValidators(t *testing.T) {
	tests := []struct {
		in       string
		month    bool
		date     bool
		readOn   bool
		schedule bool
	}{
		{"2025-06", true, false, true, true},
		{"2025-06-10", false, true, true, true},
		{"TBD", false, false, true, false},
		{"2025-02-30", false, false, false, false},
		{"2025-13", false, false, false, false},
		{"2025-6", false, false, false, false},
		{"2025-06-1", false, false, false, false},
		{"", false, false, false, false},
		{"tbd", false, false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := IsMonth(tt.in); got != tt.month {
				t.Errorf("IsMonth = %v, want %v", got, tt.month)
			}
			if got := IsDate(tt.in); got != tt.date {
				t.Errorf("IsDate = %v, want %v", got, tt.date)
			}
			if got := IsReadOn(tt.in); got != tt.readOn {
				t.Errorf("IsReadOn = %v, want %v", got, tt.readOn)
			}
			if got := IsScheduleDate(tt.in); got != tt.schedule {
				t.Errorf("IsScheduleDate = %v, want %v", got, tt.schedule)
			}
		})
	}
}
