package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/bookclub/internal/auth"
	"github.com/dukerupert/bookclub/internal/club"
	"github.com/dukerupert/bookclub/internal/middleware"
	"github.com/dukerupert/bookclub/internal/model"
)

type AuthHandler struct {
	svc          *club.Service
	secureCookie bool
	logger       *slog.Logger
}

func NewAuthHandler(svc *club.Service, secureCookie bool, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, secureCookie: secureCookie, logger: logger}
}

func viewOf(u *model.User) userView {
	return userView{ID: u.ID, Username: u.Username, Role: u.Role}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req club.Credentials
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	user, sess, err := h.svc.Register(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	middleware.SetSessionCookie(w, sess.Token, sess.ExpiresAt, h.secureCookie)
	writeJSON(w, http.StatusOK, map[string]any{"user": viewOf(user)})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req club.Credentials
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	user, sess, err := h.svc.Login(r.Context(), req)
	if err != nil {
		h.logger.Info("login failed", "remote", middleware.RealIP(r))
		writeError(w, h.logger, err)
		return
	}

	middleware.SetSessionCookie(w, sess.Token, sess.ExpiresAt, h.secureCookie)
	writeJSON(w, http.StatusOK, map[string]any{"user": viewOf(user)})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		if err := h.svc.Logout(r.Context(), cookie.Value); err != nil {
			writeError(w, h.logger, err)
			return
		}
	}
	middleware.ClearSessionCookie(w, h.secureCookie)
	writeSuccess(w)
}

// Me reports the current user, or null when the request is anonymous.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.FromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{"user": nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": userView{ID: p.UserID, Username: p.Username, Role: p.Role}})
}
