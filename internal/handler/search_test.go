package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/dukerupert/bookclub/internal/club"
	"github.com/dukerupert/bookclub/internal/model"
	"github.com/dukerupert/bookclub/internal/openlibrary"
)

type fakeLookup struct {
	results []openlibrary.Result
	desc    string
	err     error
}

func (f fakeLookup) Search(ctx context.Context, q string, limit int) ([]openlibrary.Result, error) {
	return f.results, f.err
}

func (f fakeLookup) WorkDescription(ctx context.Context, workKey string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.desc, nil
}

func TestSearchAnnotatesExistingWorks(t *testing.T) {
	svc := setupService(t)
	admin := registerUser(t, svc, "admin", true)
	if _, err := svc.CreateBook(t.Context(), admin, club.BookRequest{Title: "Dune", WorkKey: "/works/OL1W"}); err != nil {
		t.Fatalf("create book: %v", err)
	}
	if _, err := svc.CreateSuggestion(t.Context(), admin, club.SuggestionRequest{Title: "Emma", WorkKey: "/works/OL2W"}); err != nil {
		t.Fatalf("create suggestion: %v", err)
	}

	lookup := fakeLookup{results: []openlibrary.Result{
		{Title: "Dune", WorkKey: "/works/OL1W"},
		{Title: "Emma", WorkKey: "/works/OL2W"},
		{Title: "Ulysses", WorkKey: "/works/OL3W"},
	}}
	h := NewSearchHandler(lookup, svc, discard)

	rec := serve(t, h.Search, call{method: "GET", target: "/api/book-search?q=anything", as: &admin})
	wantStatus(t, rec, http.StatusOK)
	got := decode[struct {
		Results []struct {
			Title   string  `json:"title"`
			WorkKey string  `json:"workKey"`
			Exists  bool    `json:"exists"`
			Type    *string `json:"type"`
		} `json:"results"`
	}](t, rec).Results

	if len(got) != 3 {
		t.Fatalf("results = %+v", got)
	}
	want := []*string{ptr(model.WorkKeyScheduled), ptr(model.WorkKeySuggested), nil}
	for i, r := range got {
		switch {
		case want[i] == nil && (r.Exists || r.Type != nil):
			t.Errorf("%s: exists=%v type=%v, want no match", r.Title, r.Exists, r.Type)
		case want[i] != nil && (!r.Exists || r.Type == nil || *r.Type != *want[i]):
			t.Errorf("%s: exists=%v type=%v, want %s", r.Title, r.Exists, r.Type, *want[i])
		}
	}
}

func TestSearchUpstreamFailure(t *testing.T) {
	h := NewSearchHandler(fakeLookup{err: errors.New("boom")}, setupService(t), discard)

	rec := serve(t, h.Search, call{method: "GET", target: "/api/book-search?q=dune"})
	wantError(t, rec, http.StatusBadGateway, "Book search failed")
}

func TestWorkDescriptionSanitized(t *testing.T) {
	h := NewSearchHandler(fakeLookup{desc: `A <script>alert(1)</script><i>desert</i> planet`}, setupService(t), discard)

	rec := serve(t, h.Work, call{method: "GET", target: "/api/book-search/work?workKey=/works/OL1W"})
	wantStatus(t, rec, http.StatusOK)
	if got := decode[map[string]string](t, rec)["description"]; got != "A desert planet" {
		t.Errorf("description = %q", got)
	}
}

func TestWorkInvalidKey(t *testing.T) {
	h := NewSearchHandler(fakeLookup{err: openlibrary.ErrInvalidWorkKey}, setupService(t), discard)

	rec := serve(t, h.Work, call{method: "GET", target: "/api/book-search/work?workKey=../etc"})
	wantError(t, rec, http.StatusBadRequest, "Invalid work key")
}

func ptr(s string) *string { return &s }
