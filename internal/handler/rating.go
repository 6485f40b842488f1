package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/bookclub/internal/club"
)

type RatingHandler struct {
	svc    *club.Service
	logger *slog.Logger
}

func NewRatingHandler(svc *club.Service, logger *slog.Logger) *RatingHandler {
	return &RatingHandler{svc: svc, logger: logger}
}

func (h *RatingHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := parseIDParam(r, "userId")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	bookID, err := parseIDParam(r, "bookId")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	rating, err := h.svc.GetUserRating(r.Context(), userID, bookID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]*int{"rating": rating})
}

func (h *RatingHandler) Submit(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	var req club.RatingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.svc.SubmitRating(r.Context(), p, req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeSuccess(w)
}

func (h *RatingHandler) Summary(w http.ResponseWriter, r *http.Request) {
	bookID, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	sum, err := h.svc.BookRating(r.Context(), bookID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}
