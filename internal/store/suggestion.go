package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dukerupert/bookclub/internal/model"
)

type SuggestionStore struct {
	db *sql.DB
}

func NewSuggestionStore(db *sql.DB) *SuggestionStore {
	return &SuggestionStore{db: db}
}

// SuggestionInput holds a member's book suggestion.
type SuggestionInput struct {
	UserID         int64
	Title          string
	Author         string
	Description    string
	CoverURL       string
	WorkKey        *string
	Year           *int
	SuggestedMonth *string
}

func scanSuggestion(row scanner, extra ...any) (*model.BookSuggestion, error) {
	var s model.BookSuggestion
	var workKey, month sql.NullString
	var year sql.NullInt64

	dest := []any{
		&s.ID, &s.UserID, &s.Title, &s.Author, &s.Description, &s.CoverURL,
		&workKey, &year, &month, &s.Status, &s.CreatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	s.WorkKey = stringPtr(workKey)
	s.SuggestedMonth = stringPtr(month)
	if year.Valid {
		y := int(year.Int64)
		s.Year = &y
	}
	return &s, nil
}

const suggestionCols = `id, user_id, title, author, description, cover_url, work_key, year, suggested_month, status, created_at`

// Create inserts a pending suggestion. When the work key is already used by a
// book or another pending suggestion nothing is inserted and the match is
// returned with ErrDuplicate.
func (s *SuggestionStore) Create(ctx context.Context, in SuggestionInput) (int64, model.WorkKeyMatch, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, model.WorkKeyMatch{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if in.WorkKey != nil {
		match, err := checkWorkKey(ctx, tx, *in.WorkKey)
		if err != nil {
			return 0, model.WorkKeyMatch{}, err
		}
		if match.Exists {
			return 0, match, ErrDuplicate
		}
	}

	var year sql.NullInt64
	if in.Year != nil {
		year = sql.NullInt64{Int64: int64(*in.Year), Valid: true}
	}
	result, err := tx.ExecContext(ctx,
		`INSERT INTO book_suggestions
		 (user_id, title, author, description, cover_url, work_key, year, suggested_month, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.UserID, in.Title, in.Author, in.Description, in.CoverURL,
		nullString(in.WorkKey), year, nullString(in.SuggestedMonth), model.SuggestionPending,
	)
	if err != nil {
		return 0, model.WorkKeyMatch{}, fmt.Errorf("insert suggestion: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, model.WorkKeyMatch{}, fmt.Errorf("last insert id: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, model.WorkKeyMatch{}, fmt.Errorf("commit: %w", err)
	}
	return id, model.WorkKeyMatch{}, nil
}

func (s *SuggestionStore) GetByID(ctx context.Context, id int64) (*model.BookSuggestion, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+suggestionCols+` FROM book_suggestions WHERE id = ?`, id)
	sg, err := scanSuggestion(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get suggestion: %w", err)
	}
	return sg, nil
}

// ListPending returns pending suggestions, oldest first, with the suggester's username.
func (s *SuggestionStore) ListPending(ctx context.Context) ([]model.SuggestionListing, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT s.id, s.user_id, s.title, s.author, s.description, s.cover_url, s.work_key,
		        s.year, s.suggested_month, s.status, s.created_at, u.username
		 FROM book_suggestions s
		 JOIN users u ON u.id = s.user_id
		 WHERE s.status = ?
		 ORDER BY s.created_at ASC, s.id ASC`,
		model.SuggestionPending,
	)
	if err != nil {
		return nil, fmt.Errorf("list pending suggestions: %w", err)
	}
	defer rows.Close()

	var out []model.SuggestionListing
	for rows.Next() {
		var username string
		sg, err := scanSuggestion(rows, &username)
		if err != nil {
			return nil, fmt.Errorf("scan suggestion: %w", err)
		}
		out = append(out, model.SuggestionListing{BookSuggestion: *sg, SuggestedByUsername: username})
	}
	return out, rows.Err()
}

// Approve turns a pending suggestion into an unread book scheduled for readOn
// and marks the suggestion approved, both in one transaction. It returns
// ErrNotFound, ErrNotPending, or ErrDuplicate when a book already carries the
// suggestion's work key.
func (s *SuggestionStore) Approve(ctx context.Context, id int64, readOn string) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `SELECT `+suggestionCols+` FROM book_suggestions WHERE id = ?`, id)
	sg, err := scanSuggestion(row)
	if err == sql.ErrNoRows {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("get suggestion: %w", err)
	}
	if sg.Status != model.SuggestionPending {
		return 0, ErrNotPending
	}

	if sg.WorkKey != nil {
		match, err := checkWorkKey(ctx, tx, *sg.WorkKey)
		if err != nil {
			return 0, err
		}
		if match.Exists && match.Type != nil && *match.Type == model.WorkKeyScheduled {
			return 0, ErrDuplicate
		}
	}

	bookID, err := insertBook(ctx, tx, BookInput{
		Title:       sg.Title,
		Author:      sg.Author,
		Description: sg.Description,
		CoverURL:    sg.CoverURL,
		WorkKey:     sg.WorkKey,
		ReadOn:      readOn,
		SuggestedBy: &sg.UserID,
	})
	if err != nil {
		return 0, err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE book_suggestions SET status = ? WHERE id = ?`, model.SuggestionApproved, id,
	); err != nil {
		return 0, fmt.Errorf("approve suggestion: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return bookID, nil
}

// Delete removes a suggestion regardless of its status.
func (s *SuggestionStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM book_suggestions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete suggestion: %w", err)
	}
	return expectOne(result)
}
