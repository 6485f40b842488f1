package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dukerupert/bookclub/internal/model"
	"github.com/dukerupert/bookclub/internal/vote"
)

type BookStore struct {
	db *sql.DB
}

func NewBookStore(db *sql.DB) *BookStore {
	return &BookStore{db: db}
}

// BookInput holds the metadata of a book to insert.
type BookInput struct {
	Title       string
	Author      string
	Description string
	CoverURL    string
	WorkKey     *string
	ReadOn      string
	SuggestedBy *int64
}

func scanBook(row scanner, extra ...any) (*model.Book, error) {
	var b model.Book
	var workKey sql.NullString
	var suggestedBy sql.NullInt64

	dest := []any{
		&b.ID, &b.Title, &b.Author, &b.Description, &b.CoverURL, &workKey,
		&b.Status, &b.ReadOn, &suggestedBy, &b.CreatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	b.WorkKey = stringPtr(workKey)
	if suggestedBy.Valid {
		b.SuggestedBy = &suggestedBy.Int64
	}
	return &b, nil
}

const bookCols = `id, title, author, description, cover_url, work_key, status, read_on, suggested_by, created_at`

func insertBook(ctx context.Context, q querier, in BookInput) (int64, error) {
	var suggestedBy sql.NullInt64
	if in.SuggestedBy != nil {
		suggestedBy = sql.NullInt64{Int64: *in.SuggestedBy, Valid: true}
	}
	result, err := q.ExecContext(ctx,
		`INSERT INTO books (title, author, description, cover_url, work_key, status, read_on, suggested_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		in.Title, in.Author, in.Description, in.CoverURL, nullString(in.WorkKey),
		model.BookStatusUnread, in.ReadOn, suggestedBy,
	)
	if err != nil {
		return 0, fmt.Errorf("insert book: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// Create inserts an unread book directly, outside the suggestion flow.
func (s *BookStore) Create(ctx context.Context, in BookInput) (*model.Book, error) {
	id, err := insertBook(ctx, s.db, in)
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func (s *BookStore) GetByID(ctx context.Context, id int64) (*model.Book, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+bookCols+` FROM books WHERE id = ?`, id)
	b, err := scanBook(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get book: %w", err)
	}
	return b, nil
}

// List returns every book ordered by read_on ascending, with its mean rating
// and the username of whoever suggested it. "TBD" sorts after real dates.
func (s *BookStore) List(ctx context.Context) ([]model.BookListing, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT b.id, b.title, b.author, b.description, b.cover_url, b.work_key, b.status,
		        b.read_on, b.suggested_by, b.created_at, r.avg_rating, u.username
		 FROM books b
		 LEFT JOIN (SELECT book_id, AVG(rating) AS avg_rating FROM ratings GROUP BY book_id) r
		   ON r.book_id = b.id
		 LEFT JOIN users u ON u.id = b.suggested_by
		 ORDER BY b.read_on ASC, b.id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	var books []model.BookListing
	for rows.Next() {
		var avg sql.NullFloat64
		var username sql.NullString
		b, err := scanBook(rows, &avg, &username)
		if err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		listing := model.BookListing{Book: *b, SuggestedByUsername: stringPtr(username)}
		if avg.Valid {
			mean := vote.RoundTenth(avg.Float64)
			listing.Rating = &mean
		}
		books = append(books, listing)
	}
	return books, rows.Err()
}

// MarkRead sets the book status to read. It returns ErrNotFound when the book
// does not exist; marking a read book again is a no-op.
func (s *BookStore) MarkRead(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `UPDATE books SET status = ? WHERE id = ?`, model.BookStatusRead, id)
	if err != nil {
		return fmt.Errorf("mark book read: %w", err)
	}
	return expectOne(result)
}

func (s *BookStore) UpdateReadOn(ctx context.Context, id int64, readOn string) error {
	result, err := s.db.ExecContext(ctx, `UPDATE books SET read_on = ? WHERE id = ?`, readOn, id)
	if err != nil {
		return fmt.Errorf("update book read_on: %w", err)
	}
	return expectOne(result)
}

// Delete removes a book together with its ratings, meeting dates and
// meeting votes in a single transaction.
func (s *BookStore) Delete(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM meeting_votes WHERE meeting_date_id IN (SELECT id FROM meeting_dates WHERE book_id = ?)`, id,
	); err != nil {
		return fmt.Errorf("delete meeting votes: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM meeting_dates WHERE book_id = ?`, id); err != nil {
		return fmt.Errorf("delete meeting dates: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM ratings WHERE book_id = ?`, id); err != nil {
		return fmt.Errorf("delete ratings: %w", err)
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM books WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	if err := expectOne(result); err != nil {
		return err
	}
	return tx.Commit()
}

func expectOne(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
