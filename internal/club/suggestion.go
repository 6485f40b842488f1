package club

import (
	"context"
	"errors"
	"strings"

	"github.com/dukerupert/bookclub/internal/apperror"
	"github.com/dukerupert/bookclub/internal/auth"
	"github.com/dukerupert/bookclub/internal/model"
	"github.com/dukerupert/bookclub/internal/store"
)

type SuggestionRequest struct {
	Title             string `json:"title" validate:"required,max=500"`
	Author            string `json:"author" validate:"max=500"`
	CoverURL          string `json:"coverUrl" validate:"omitempty,url,max=2048"`
	WorkKey           string `json:"workKey" validate:"max=200"`
	Year              *int   `json:"year" validate:"omitempty,min=0,max=9999"`
	Description       string `json:"description" validate:"max=20000"`
	SuggestedMonth    string `json:"suggestedMonth" validate:"omitempty,yearmonth"`
	SuggestedByUserID *int64 `json:"suggestedByUserId"`
}

// CreateSuggestion records a pending suggestion. The suggester defaults to the
// caller; only admins may suggest on behalf of someone else. A work key that
// is already scheduled or pending is rejected with a ConflictError.
func (s *Service) CreateSuggestion(ctx context.Context, p auth.Principal, req SuggestionRequest) (int64, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Author = strings.TrimSpace(req.Author)
	req.WorkKey = strings.TrimSpace(req.WorkKey)
	if err := s.check(req); err != nil {
		return 0, err
	}

	suggester := p.UserID
	if req.SuggestedByUserID != nil && *req.SuggestedByUserID != p.UserID {
		if !p.IsAdmin() {
			return 0, apperror.Forbidden("Cannot suggest on behalf of another user")
		}
		u, err := s.users.GetByID(ctx, *req.SuggestedByUserID)
		if err != nil {
			return 0, s.storageErr(err, "Failed to submit book suggestion")
		}
		if u == nil {
			return 0, apperror.NotFound("User not found")
		}
		suggester = u.ID
	}

	in := store.SuggestionInput{
		UserID:      suggester,
		Title:       req.Title,
		Author:      req.Author,
		Description: s.Sanitize(req.Description),
		CoverURL:    req.CoverURL,
		Year:        req.Year,
	}
	if req.WorkKey != "" {
		in.WorkKey = &req.WorkKey
	}
	if req.SuggestedMonth != "" {
		in.SuggestedMonth = &req.SuggestedMonth
	}

	id, match, err := s.suggestions.Create(ctx, in)
	if errors.Is(err, store.ErrDuplicate) {
		return 0, duplicateErr(match)
	}
	if err != nil {
		return 0, s.storageErr(err, "Failed to submit book suggestion")
	}
	s.logger.Info("suggestion created", "suggestion_id", id, "user_id", suggester)
	return id, nil
}

func duplicateErr(m model.WorkKeyMatch) error {
	if m.Type != nil && *m.Type == model.WorkKeySuggested && m.SuggestedBy != nil {
		return apperror.Conflict("This book has already been suggested by %s", *m.SuggestedBy)
	}
	return apperror.Conflict("This book is already on the schedule")
}

func (s *Service) CheckWorkKey(ctx context.Context, workKey string) (model.WorkKeyMatch, error) {
	m, err := s.workKeys.Check(ctx, strings.TrimSpace(workKey))
	if err != nil {
		return model.WorkKeyMatch{}, s.storageErr(err, "Failed to check work key")
	}
	return m, nil
}

// ApproveSuggestion schedules a pending suggestion as an unread book on
// scheduledDate (YYYY-MM or YYYY-MM-DD) and returns the new book's id.
func (s *Service) ApproveSuggestion(ctx context.Context, p auth.Principal, id int64, scheduledDate string) (int64, error) {
	if err := requireAdmin(p); err != nil {
		return 0, err
	}
	if !IsScheduleDate(scheduledDate) {
		return 0, apperror.Validation("Invalid date format. Use YYYY-MM or YYYY-MM-DD")
	}

	bookID, err := s.suggestions.Approve(ctx, id, scheduledDate)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return 0, apperror.NotFound("Suggestion not found")
	case errors.Is(err, store.ErrNotPending):
		return 0, apperror.State("Suggestion is not pending")
	case errors.Is(err, store.ErrDuplicate):
		return 0, apperror.Conflict("This book is already on the schedule")
	case err != nil:
		return 0, s.storageErr(err, "Failed to approve suggestion")
	}
	s.logger.Info("suggestion approved", "suggestion_id", id, "book_id", bookID, "read_on", scheduledDate)
	return bookID, nil
}

// DeleteSuggestion removes a suggestion in any state. Deleting a pending
// suggestion is how it gets rejected.
func (s *Service) DeleteSuggestion(ctx context.Context, p auth.Principal, id int64) error {
	if err := requireAdmin(p); err != nil {
		return err
	}
	err := s.suggestions.Delete(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return apperror.NotFound("Suggestion not found")
	}
	if err != nil {
		return s.storageErr(err, "Failed to delete suggestion")
	}
	return nil
}

func (s *Service) PendingSuggestions(ctx context.Context) ([]model.SuggestionListing, error) {
	out, err := s.suggestions.ListPending(ctx)
	if err != nil {
		return nil, s.storageErr(err, "Failed to fetch suggestions")
	}
	if out == nil {
		out = []model.SuggestionListing{}
	}
	return out, nil
}
