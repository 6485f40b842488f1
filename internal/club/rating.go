package club

import (
	"context"
	"math"

	"github.com/dukerupert/bookclub/internal/apperror"
	"github.com/dukerupert/bookclub/internal/auth"
	"github.com/dukerupert/bookclub/internal/model"
	"github.com/dukerupert/bookclub/internal/vote"
)

// RatingRequest is a rating submission. Rating is a float so that fractional
// values can be rejected instead of silently truncated.
type RatingRequest struct {
	UserID int64    `json:"userId"`
	BookID int64    `json:"bookId"`
	Rating *float64 `json:"rating"`
}

// GetUserRating returns the user's rating for the book, or nil when none exists.
func (s *Service) GetUserRating(ctx context.Context, userID, bookID int64) (*int, error) {
	if userID <= 0 || bookID <= 0 {
		return nil, apperror.Validation("Missing required fields")
	}
	r, err := s.ratings.Get(ctx, userID, bookID)
	if err != nil {
		return nil, s.storageErr(err, "Failed to fetch rating")
	}
	return r, nil
}

func (s *Service) SubmitRating(ctx context.Context, p auth.Principal, req RatingRequest) error {
	if req.UserID <= 0 || req.BookID <= 0 || req.Rating == nil {
		return apperror.Validation("Missing required fields")
	}
	v := *req.Rating
	if v != math.Trunc(v) || v < model.MinRating || v > model.MaxRating {
		return apperror.Validation("Rating must be an integer between %d and %d", model.MinRating, model.MaxRating)
	}
	if !p.Can(req.UserID) {
		return apperror.Forbidden("Cannot rate on behalf of another user")
	}
	if err := s.requireBook(ctx, req.BookID); err != nil {
		return err
	}
	if err := s.ratings.Upsert(ctx, req.UserID, req.BookID, int(v)); err != nil {
		return s.storageErr(err, "Failed to submit rating")
	}
	return nil
}

// RatingSummary is a book's rating across members. Mean is nil while nobody
// has rated the book.
type RatingSummary struct {
	Mean  *float64 `json:"rating"`
	Count int      `json:"count"`
}

func (s *Service) BookRating(ctx context.Context, bookID int64) (RatingSummary, error) {
	if err := s.requireBook(ctx, bookID); err != nil {
		return RatingSummary{}, err
	}
	values, err := s.ratings.ListForBook(ctx, bookID)
	if err != nil {
		return RatingSummary{}, s.storageErr(err, "Failed to fetch ratings")
	}
	sum := RatingSummary{Count: len(values)}
	if mean, ok := vote.Mean(values); ok {
		sum.Mean = &mean
	}
	return sum, nil
}

func (s *Service) requireBook(ctx context.Context, id int64) error {
	b, err := s.books.GetByID(ctx, id)
	if err != nil {
		return s.storageErr(err, "Failed to fetch book")
	}
	if b == nil {
		return apperror.NotFound("Book not found")
	}
	return nil
}
