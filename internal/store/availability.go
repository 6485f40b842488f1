package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dukerupert/bookclub/internal/model"
)

type AvailabilityStore struct {
	db *sql.DB
}

func NewAvailabilityStore(db *sql.DB) *AvailabilityStore {
	return &AvailabilityStore{db: db}
}

// Counts returns every meeting date of the book with its vote count, ordered
// by date. Dates whose votes were all withdrawn are kept with a count of zero.
func (s *AvailabilityStore) Counts(ctx context.Context, bookID int64) ([]model.DateCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT md.id, md.proposed_date, COUNT(mv.id)
		 FROM meeting_dates md
		 LEFT JOIN meeting_votes mv ON mv.meeting_date_id = md.id
		 WHERE md.book_id = ?
		 GROUP BY md.id, md.proposed_date
		 ORDER BY md.proposed_date`,
		bookID,
	)
	if err != nil {
		return nil, fmt.Errorf("count availability: %w", err)
	}
	defer rows.Close()

	var out []model.DateCount
	for rows.Next() {
		var dc model.DateCount
		if err := rows.Scan(&dc.ID, &dc.ProposedDate, &dc.VoteCount); err != nil {
			return nil, fmt.Errorf("scan date count: %w", err)
		}
		out = append(out, dc)
	}
	return out, rows.Err()
}

// Voters groups the users who voted for each meeting date of the book,
// ordered by date and then username.
func (s *AvailabilityStore) Voters(ctx context.Context, bookID int64) ([]model.DateVoters, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT md.proposed_date, u.id, u.username
		 FROM meeting_dates md
		 LEFT JOIN meeting_votes mv ON mv.meeting_date_id = md.id
		 LEFT JOIN users u ON u.id = mv.user_id
		 WHERE md.book_id = ?
		 ORDER BY md.proposed_date, u.username`,
		bookID,
	)
	if err != nil {
		return nil, fmt.Errorf("list availability voters: %w", err)
	}
	defer rows.Close()

	var out []model.DateVoters
	for rows.Next() {
		var date string
		var userID sql.NullInt64
		var username sql.NullString
		if err := rows.Scan(&date, &userID, &username); err != nil {
			return nil, fmt.Errorf("scan voter: %w", err)
		}
		if len(out) == 0 || out[len(out)-1].ProposedDate != date {
			out = append(out, model.DateVoters{ProposedDate: date, Users: []model.Voter{}})
		}
		if userID.Valid && username.Valid {
			last := &out[len(out)-1]
			last.Users = append(last.Users, model.Voter{ID: userID.Int64, Username: username.String})
		}
	}
	return out, rows.Err()
}

// UserDates returns the dates the user marked as available for the book.
func (s *AvailabilityStore) UserDates(ctx context.Context, bookID, userID int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT md.proposed_date
		 FROM meeting_votes mv
		 JOIN meeting_dates md ON md.id = mv.meeting_date_id
		 WHERE md.book_id = ? AND mv.user_id = ?
		 ORDER BY md.proposed_date`,
		bookID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list user availability: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("scan date: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Replace swaps the user's whole availability for the book for dates: all
// earlier votes are dropped, meeting dates are created on first use, and one
// vote per date is inserted, in a single transaction.
func (s *AvailabilityStore) Replace(ctx context.Context, userID, bookID int64, dates []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM meeting_votes
		 WHERE user_id = ? AND meeting_date_id IN (SELECT id FROM meeting_dates WHERE book_id = ?)`,
		userID, bookID,
	); err != nil {
		return fmt.Errorf("delete votes: %w", err)
	}

	for _, date := range dates {
		dateID, err := findOrCreateMeetingDate(ctx, tx, bookID, date)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO meeting_votes (meeting_date_id, user_id, vote) VALUES (?, ?, ?)`,
			dateID, userID, model.VoteYes,
		); err != nil {
			return fmt.Errorf("insert vote for %s: %w", date, err)
		}
	}

	return tx.Commit()
}

func findOrCreateMeetingDate(ctx context.Context, q querier, bookID int64, date string) (int64, error) {
	var id int64
	err := q.QueryRowContext(ctx,
		`SELECT id FROM meeting_dates WHERE book_id = ? AND proposed_date = ?`, bookID, date,
	).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("get meeting date: %w", err)
	}

	result, err := q.ExecContext(ctx,
		`INSERT INTO meeting_dates (book_id, proposed_date, status) VALUES (?, ?, ?)`,
		bookID, date, model.MeetingDateProposed,
	)
	if err != nil {
		return 0, fmt.Errorf("insert meeting date: %w", err)
	}
	id, err = result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}
