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

type Catalog struct {
	Books              []model.BookListing       `json:"books"`
	PendingSuggestions []model.SuggestionListing `json:"pendingSuggestions"`
}

func (s *Service) ListBooks(ctx context.Context) (Catalog, error) {
	books, err := s.books.List(ctx)
	if err != nil {
		return Catalog{}, s.storageErr(err, "Failed to fetch books")
	}
	if books == nil {
		books = []model.BookListing{}
	}
	pending, err := s.PendingSuggestions(ctx)
	if err != nil {
		return Catalog{}, err
	}
	return Catalog{Books: books, PendingSuggestions: pending}, nil
}

// MarkAsRead moves a book to read. Books never move back to unread.
func (s *Service) MarkAsRead(ctx context.Context, p auth.Principal, id int64) error {
	if err := requireAdmin(p); err != nil {
		return err
	}
	err := s.books.MarkRead(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return apperror.NotFound("Book not found")
	}
	if err != nil {
		return s.storageErr(err, "Failed to mark book as read")
	}
	return nil
}

// Reschedule changes when an unread book will be read. date may be YYYY-MM,
// YYYY-MM-DD or TBD.
func (s *Service) Reschedule(ctx context.Context, p auth.Principal, id int64, date string) error {
	if err := requireAdmin(p); err != nil {
		return err
	}
	if !IsReadOn(date) {
		return apperror.Validation("Invalid date format. Use YYYY-MM, YYYY-MM-DD or TBD")
	}
	b, err := s.books.GetByID(ctx, id)
	if err != nil {
		return s.storageErr(err, "Failed to reschedule book")
	}
	if b == nil {
		return apperror.NotFound("Book not found")
	}
	if b.Status == model.BookStatusRead {
		return apperror.State("Cannot reschedule a book that has already been read")
	}
	if err := s.books.UpdateReadOn(ctx, id, date); err != nil {
		return s.storageErr(err, "Failed to reschedule book")
	}
	return nil
}

// DeleteBook removes the book and its ratings and availability votes.
func (s *Service) DeleteBook(ctx context.Context, p auth.Principal, id int64) error {
	if err := requireAdmin(p); err != nil {
		return err
	}
	err := s.books.Delete(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return apperror.NotFound("Book not found")
	}
	if err != nil {
		return s.storageErr(err, "Failed to delete book")
	}
	s.logger.Info("book deleted", "book_id", id)
	return nil
}

type BookRequest struct {
	Title       string `json:"title" validate:"required,max=500"`
	Author      string `json:"author" validate:"max=500"`
	Description string `json:"description" validate:"max=20000"`
	CoverURL    string `json:"coverUrl" validate:"omitempty,url,max=2048"`
	WorkKey     string `json:"workKey" validate:"max=200"`
	ReadOn      string `json:"readOn" validate:"omitempty,readon"`
}

// CreateBook adds a book to the schedule directly, bypassing suggestions.
func (s *Service) CreateBook(ctx context.Context, p auth.Principal, req BookRequest) (*model.Book, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}
	req.Title = strings.TrimSpace(req.Title)
	req.WorkKey = strings.TrimSpace(req.WorkKey)
	if err := s.check(req); err != nil {
		return nil, err
	}
	if req.ReadOn == "" {
		req.ReadOn = model.DateTBD
	}

	in := store.BookInput{
		Title:       req.Title,
		Author:      strings.TrimSpace(req.Author),
		Description: s.Sanitize(req.Description),
		CoverURL:    req.CoverURL,
		ReadOn:      req.ReadOn,
	}
	if req.WorkKey != "" {
		m, err := s.CheckWorkKey(ctx, req.WorkKey)
		if err != nil {
			return nil, err
		}
		if m.Exists && m.Type != nil && *m.Type == model.WorkKeyScheduled {
			return nil, apperror.Conflict("This book is already on the schedule")
		}
		in.WorkKey = &req.WorkKey
	}

	b, err := s.books.Create(ctx, in)
	if err != nil {
		return nil, s.storageErr(err, "Failed to create book")
	}
	return b, nil
}
