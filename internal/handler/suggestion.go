package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/bookclub/internal/club"
)

type SuggestionHandler struct {
	svc    *club.Service
	logger *slog.Logger
}

func NewSuggestionHandler(svc *club.Service, logger *slog.Logger) *SuggestionHandler {
	return &SuggestionHandler{svc: svc, logger: logger}
}

func (h *SuggestionHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	var req club.SuggestionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	id, err := h.svc.CreateSuggestion(r.Context(), p, req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "suggestionId": id})
}

func (h *SuggestionHandler) Approve(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	var req struct {
		ScheduledDate string `json:"scheduledDate"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	bookID, err := h.svc.ApproveSuggestion(r.Context(), p, id, req.ScheduledDate)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "bookId": bookID})
}

func (h *SuggestionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.svc.DeleteSuggestion(r.Context(), p, id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeSuccess(w)
}
