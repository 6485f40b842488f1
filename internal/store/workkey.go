package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dukerupert/bookclub/internal/model"
)

// WorkKeyStore answers whether an external work key is already scheduled as a
// book or waiting as a pending suggestion.
type WorkKeyStore struct {
	db *sql.DB
}

func NewWorkKeyStore(db *sql.DB) *WorkKeyStore {
	return &WorkKeyStore{db: db}
}

func (s *WorkKeyStore) Check(ctx context.Context, workKey string) (model.WorkKeyMatch, error) {
	return checkWorkKey(ctx, s.db, workKey)
}

// checkWorkKey reports books before suggestions: a key present on any book is
// "scheduled" even when a pending suggestion also carries it.
func checkWorkKey(ctx context.Context, q querier, workKey string) (model.WorkKeyMatch, error) {
	if workKey == "" {
		return model.WorkKeyMatch{}, nil
	}

	var bookID int64
	err := q.QueryRowContext(ctx, `SELECT id FROM books WHERE work_key = ? LIMIT 1`, workKey).Scan(&bookID)
	if err == nil {
		t := model.WorkKeyScheduled
		return model.WorkKeyMatch{Exists: true, Type: &t}, nil
	}
	if err != sql.ErrNoRows {
		return model.WorkKeyMatch{}, fmt.Errorf("check book work key: %w", err)
	}

	var username string
	err = q.QueryRowContext(ctx,
		`SELECT u.username FROM book_suggestions s
		 JOIN users u ON u.id = s.user_id
		 WHERE s.work_key = ? AND s.status = ?
		 ORDER BY s.created_at ASC, s.id ASC LIMIT 1`,
		workKey, model.SuggestionPending,
	).Scan(&username)
	if err == sql.ErrNoRows {
		return model.WorkKeyMatch{}, nil
	}
	if err != nil {
		return model.WorkKeyMatch{}, fmt.Errorf("check suggestion work key: %w", err)
	}
	t := model.WorkKeySuggested
	return model.WorkKeyMatch{Exists: true, Type: &t, SuggestedBy: &username}, nil
}
