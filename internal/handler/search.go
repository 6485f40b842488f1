package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dukerupert/bookclub/internal/club"
	"github.com/dukerupert/bookclub/internal/model"
	"github.com/dukerupert/bookclub/internal/openlibrary"
)

// BookLookup is the external metadata source behind the search endpoints.
type BookLookup interface {
	Search(ctx context.Context, q string, limit int) ([]openlibrary.Result, error)
	WorkDescription(ctx context.Context, workKey string) (string, error)
}

type SearchHandler struct {
	lookup BookLookup
	svc    *club.Service
	logger *slog.Logger
}

func NewSearchHandler(lookup BookLookup, svc *club.Service, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{lookup: lookup, svc: svc, logger: logger}
}

type searchResult struct {
	openlibrary.Result
	model.WorkKeyMatch
}

// Search proxies a book search and annotates each hit with whether the work
// is already scheduled or suggested.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	results, err := h.lookup.Search(r.Context(), q, limit)
	if err != nil {
		h.logger.Warn("book search failed", "error", err)
		writeErrorMessage(w, http.StatusBadGateway, "Book search failed")
		return
	}

	out := make([]searchResult, 0, len(results))
	for _, res := range results {
		match, err := h.svc.CheckWorkKey(r.Context(), res.WorkKey)
		if err != nil {
			writeError(w, h.logger, err)
			return
		}
		out = append(out, searchResult{Result: res, WorkKeyMatch: match})
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": out})
}

func (h *SearchHandler) Work(w http.ResponseWriter, r *http.Request) {
	desc, err := h.lookup.WorkDescription(r.Context(), r.URL.Query().Get("workKey"))
	if errors.Is(err, openlibrary.ErrInvalidWorkKey) {
		writeErrorMessage(w, http.StatusBadRequest, "Invalid work key")
		return
	}
	if err != nil {
		h.logger.Warn("work lookup failed", "error", err)
		writeErrorMessage(w, http.StatusBadGateway, "Failed to fetch book description")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"description": h.svc.Sanitize(desc)})
}
