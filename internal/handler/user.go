package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/bookclub/internal/club"
)

type UserHandler struct {
	svc    *club.Service
	logger *slog.Logger
}

func NewUserHandler(svc *club.Service, logger *slog.Logger) *UserHandler {
	return &UserHandler{svc: svc, logger: logger}
}

type memberView struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// List returns every member. Accounts have no email address, so both name
// and email carry the username.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.ListUsers(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	out := make([]memberView, 0, len(users))
	for _, u := range users {
		out = append(out, memberView{ID: u.ID, Name: u.Username, Email: u.Username})
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": out})
}
