package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type RatingStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewRatingStore(db *sql.DB) *RatingStore {
	return &RatingStore{db: db, now: time.Now}
}

// Get returns the user's rating for the book, or nil if they have not rated it.
func (s *RatingStore) Get(ctx context.Context, userID, bookID int64) (*int, error) {
	var rating int
	err := s.db.QueryRowContext(ctx,
		`SELECT rating FROM ratings WHERE user_id = ? AND book_id = ?`, userID, bookID,
	).Scan(&rating)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get rating: %w", err)
	}
	return &rating, nil
}

// Upsert stores the user's rating for the book, replacing any earlier one.
func (s *RatingStore) Upsert(ctx context.Context, userID, bookID int64, rating int) error {
	now := s.now().UTC()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO ratings (user_id, book_id, rating, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(user_id, book_id) DO UPDATE SET rating = excluded.rating, updated_at = excluded.updated_at`,
		userID, bookID, rating, now,
	)
	if err != nil {
		return fmt.Errorf("upsert rating: %w", err)
	}
	return nil
}

// ListForBook returns every rating value recorded for the book.
func (s *RatingStore) ListForBook(ctx context.Context, bookID int64) ([]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT rating FROM ratings WHERE book_id = ? ORDER BY id`, bookID)
	if err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	defer rows.Close()

	var out []int
	for rows.Next() {
		var r int
		if err := rows.Scan(&r); err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
