package club

import (
	"context"

	"github.com/dukerupert/bookclub/internal/apperror"
	"github.com/dukerupert/bookclub/internal/auth"
	"github.com/dukerupert/bookclub/internal/model"
	"github.com/dukerupert/bookclub/internal/vote"
)

type AvailabilityRequest struct {
	UserID int64    `json:"userId"`
	BookID int64    `json:"bookId"`
	Dates  []string `json:"dates"`
}

func (s *Service) VotesForBook(ctx context.Context, bookID int64) ([]model.DateCount, error) {
	counts, err := s.availability.Counts(ctx, bookID)
	if err != nil {
		return nil, s.storageErr(err, "Failed to fetch availability")
	}
	if counts == nil {
		counts = []model.DateCount{}
	}
	return counts, nil
}

func (s *Service) VotesForBookWithVoters(ctx context.Context, bookID int64) ([]model.DateVoters, error) {
	voters, err := s.availability.Voters(ctx, bookID)
	if err != nil {
		return nil, s.storageErr(err, "Failed to fetch availability details")
	}
	if voters == nil {
		voters = []model.DateVoters{}
	}
	return voters, nil
}

func (s *Service) UserVotes(ctx context.Context, bookID, userID int64) ([]string, error) {
	dates, err := s.availability.UserDates(ctx, bookID, userID)
	if err != nil {
		return nil, s.storageErr(err, "Failed to fetch user availability")
	}
	if dates == nil {
		dates = []string{}
	}
	return dates, nil
}

// SubmitAvailability replaces the user's availability for the book with
// req.Dates. Duplicates are collapsed and an empty list clears every vote.
func (s *Service) SubmitAvailability(ctx context.Context, p auth.Principal, req AvailabilityRequest) error {
	if req.UserID <= 0 || req.BookID <= 0 || req.Dates == nil {
		return apperror.Validation("Missing required fields")
	}
	for _, d := range req.Dates {
		if !IsDate(d) {
			return apperror.Validation("Invalid date %q. Use YYYY-MM-DD", d)
		}
	}
	if !p.Can(req.UserID) {
		return apperror.Forbidden("Cannot submit availability for another user")
	}
	if err := s.requireBook(ctx, req.BookID); err != nil {
		return err
	}

	dates := vote.NewSelection(req.Dates...).Dates()
	if err := s.availability.Replace(ctx, req.UserID, req.BookID, dates); err != nil {
		return s.storageErr(err, "Failed to submit availability")
	}
	s.logger.Debug("availability submitted", "user_id", req.UserID, "book_id", req.BookID, "dates", len(dates))
	return nil
}

// PreviewRequest describes a viewer's in-progress availability edit.
// Initial is what the viewer had selected when the snapshot was taken.
type PreviewRequest struct {
	Month   string   `json:"month"`
	Initial []string `json:"initial"`
	Current []string `json:"current"`
}

type Preview struct {
	Counts   map[string]int `json:"counts"`
	Max      int            `json:"max"`
	MaxDates []string       `json:"max_dates"`
}

// PreviewAvailability returns the counts the viewer should see while editing,
// adjusted locally against the current server snapshot, and the dates holding
// the maximum within Month.
func (s *Service) PreviewAvailability(ctx context.Context, bookID int64, req PreviewRequest) (Preview, error) {
	if req.Month != "" && !IsMonth(req.Month) {
		return Preview{}, apperror.Validation("Invalid month format. Use YYYY-MM")
	}
	for _, d := range append(append([]string{}, req.Initial...), req.Current...) {
		if !IsDate(d) {
			return Preview{}, apperror.Validation("Invalid date %q. Use YYYY-MM-DD", d)
		}
	}

	counts, err := s.availability.Counts(ctx, bookID)
	if err != nil {
		return Preview{}, s.storageErr(err, "Failed to fetch availability")
	}
	snapshot := make(map[string]int, len(counts))
	for _, c := range counts {
		snapshot[c.ProposedDate] = c.VoteCount
	}

	adjusted := vote.AdjustedCounts(snapshot, vote.NewSelection(req.Initial...), vote.NewSelection(req.Current...))
	top, dates := vote.MonthMax(adjusted, req.Month)
	if dates == nil {
		dates = []string{}
	}
	return Preview{Counts: adjusted, Max: top, MaxDates: dates}, nil
}
