package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/bookclub/internal/club"
)

type AvailabilityHandler struct {
	svc    *club.Service
	logger *slog.Logger
}

func NewAvailabilityHandler(svc *club.Service, logger *slog.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{svc: svc, logger: logger}
}

func (h *AvailabilityHandler) Counts(w http.ResponseWriter, r *http.Request) {
	bookID, err := parseIDParam(r, "bookId")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	dates, err := h.svc.VotesForBook(r.Context(), bookID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"dates": dates})
}

func (h *AvailabilityHandler) Details(w http.ResponseWriter, r *http.Request) {
	bookID, err := parseIDParam(r, "bookId")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	dates, err := h.svc.VotesForBookWithVoters(r.Context(), bookID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"dates": dates})
}

func (h *AvailabilityHandler) UserDates(w http.ResponseWriter, r *http.Request) {
	bookID, err := parseIDParam(r, "bookId")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	userID, err := parseIDParam(r, "userId")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	dates, err := h.svc.UserVotes(r.Context(), bookID, userID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"dates": dates})
}

func (h *AvailabilityHandler) Submit(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	var req club.AvailabilityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.svc.SubmitAvailability(r.Context(), p, req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeSuccess(w)
}

// Preview returns locally adjusted counts for an in-progress selection
// without storing anything.
func (h *AvailabilityHandler) Preview(w http.ResponseWriter, r *http.Request) {
	bookID, err := parseIDParam(r, "bookId")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	var req club.PreviewRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	preview, err := h.svc.PreviewAvailability(r.Context(), bookID, req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, preview)
}
