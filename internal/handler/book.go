package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/bookclub/internal/club"
)

type BookHandler struct {
	svc    *club.Service
	logger *slog.Logger
}

func NewBookHandler(svc *club.Service, logger *slog.Logger) *BookHandler {
	return &BookHandler{svc: svc, logger: logger}
}

func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) {
	catalog, err := h.svc.ListBooks(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, catalog)
}

func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	var req club.BookRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	book, err := h.svc.CreateBook(r.Context(), p, req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"book": book})
}

func (h *BookHandler) CheckWork(w http.ResponseWriter, r *http.Request) {
	match, err := h.svc.CheckWorkKey(r.Context(), r.URL.Query().Get("workKey"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, match)
}

func (h *BookHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
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

	if err := h.svc.MarkAsRead(r.Context(), p, id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeSuccess(w)
}

func (h *BookHandler) Schedule(w http.ResponseWriter, r *http.Request) {
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

	if err := h.svc.Reschedule(r.Context(), p, id, req.ScheduledDate); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeSuccess(w)
}

func (h *BookHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

	if err := h.svc.DeleteBook(r.Context(), p, id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeSuccess(w)
}
