package handler

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/dukerupert/bookclub/internal/auth"
	"github.com/dukerupert/bookclub/internal/club"
	"github.com/dukerupert/bookclub/internal/model"
)

func TestAvailabilityEndpoints(t *testing.T) {
	svc := setupService(t)
	admin := registerUser(t, svc, "admin", true)
	alice := registerUser(t, svc, "alice", false)
	bob := registerUser(t, svc, "bob", false)
	book, err := svc.CreateBook(t.Context(), admin, club.BookRequest{Title: "Dune", ReadOn: "2025-06"})
	if err != nil {
		t.Fatalf("create book: %v", err)
	}
	h := NewAvailabilityHandler(svc, discard)
	bookID := strconv.FormatInt(book.ID, 10)

	submit := func(p *auth.Principal, dates []string) {
		t.Helper()
		rec := serve(t, h.Submit, call{method: "POST", target: "/api/availability", as: p,
			body: club.AvailabilityRequest{UserID: p.UserID, BookID: book.ID, Dates: dates}})
		wantStatus(t, rec, http.StatusOK)
	}
	submit(&alice, []string{"2025-06-10", "2025-06-12"})
	submit(&bob, []string{"2025-06-10"})

	rec := serve(t, h.Counts, call{method: "GET", target: "/api/availability/" + bookID, as: &alice, path: map[string]string{"bookId": bookID}})
	wantStatus(t, rec, http.StatusOK)
	counts := decode[struct {
		Dates []model.DateCount `json:"dates"`
	}](t, rec).Dates
	if len(counts) != 2 || counts[0].ProposedDate != "2025-06-10" || counts[0].VoteCount != 2 || counts[1].VoteCount != 1 {
		t.Fatalf("counts = %+v", counts)
	}

	rec = serve(t, h.Details, call{method: "GET", target: "/api/availability/" + bookID + "/details", as: &alice, path: map[string]string{"bookId": bookID}})
	details := decode[struct {
		Dates []model.DateVoters `json:"dates"`
	}](t, rec).Dates
	if len(details) != 2 || len(details[0].Users) != 2 || details[0].Users[0].Username != "alice" {
		t.Fatalf("details = %+v", details)
	}

	rec = serve(t, h.UserDates, call{method: "GET", target: "/api/availability/x/user/y", as: &alice,
		path: map[string]string{"bookId": bookID, "userId": strconv.FormatInt(bob.UserID, 10)}})
	dates := decode[struct {
		Dates []string `json:"dates"`
	}](t, rec).Dates
	if len(dates) != 1 || dates[0] != "2025-06-10" {
		t.Errorf("bob's dates = %v", dates)
	}

	rec = serve(t, h.Preview, call{method: "POST", target: "/api/availability/" + bookID + "/preview", as: &bob,
		path: map[string]string{"bookId": bookID},
		body: club.PreviewRequest{Month: "2025-06", Initial: []string{"2025-06-10"}, Current: []string{"2025-06-12"}}})
	wantStatus(t, rec, http.StatusOK)
	preview := decode[club.Preview](t, rec)
	if preview.Counts["2025-06-10"] != 1 || preview.Counts["2025-06-12"] != 2 {
		t.Errorf("preview counts = %v", preview.Counts)
	}
	if preview.Max != 2 || len(preview.MaxDates) != 1 || preview.MaxDates[0] != "2025-06-12" {
		t.Errorf("preview max = %d %v", preview.Max, preview.MaxDates)
	}
}

func TestAvailabilitySubmitForOthers(t *testing.T) {
	svc := setupService(t)
	alice := registerUser(t, svc, "alice", false)
	bob := registerUser(t, svc, "bob", false)
	h := NewAvailabilityHandler(svc, discard)

	rec := serve(t, h.Submit, call{method: "POST", target: "/api/availability", as: &bob,
		body: club.AvailabilityRequest{UserID: alice.UserID, BookID: 1, Dates: []string{"2025-06-10"}}})
	wantStatus(t, rec, http.StatusForbidden)

	rec = serve(t, h.Submit, call{method: "POST", target: "/api/availability", as: &bob,
		body: map[string]any{"userId": bob.UserID, "bookId": 1}})
	wantStatus(t, rec, http.StatusBadRequest)
}
