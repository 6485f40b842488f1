package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/dukerupert/bookclub/internal/model"
)

func createTestBook(t *testing.T, db *sql.DB, title, readOn string) *model.Book {
	t.Helper()
	b, err := NewBookStore(db).Create(context.Background(), BookInput{Title: title, Author: "Author", ReadOn: readOn})
	if err != nil {
		t.Fatalf("create book %s: %v", title, err)
	}
	return b
}

func TestBookCreate(t *testing.T) {
	db := setupTestDB(t)
	key := "/works/OL1W"

	b, err := NewBookStore(db).Create(context.Background(), BookInput{
		Title:   "Dune",
		Author:  "Frank Herbert",
		WorkKey: &key,
		ReadOn:  "2025-06",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if b.Status != model.BookStatusUnread {
		t.Errorf("status = %q, want %q", b.Status, model.BookStatusUnread)
	}
	if b.ReadOn != "2025-06" {
		t.Errorf("read_on = %q, want %q", b.ReadOn, "2025-06")
	}
	if b.WorkKey == nil || *b.WorkKey != key {
		t.Errorf("work_key = %v, want %q", b.WorkKey, key)
	}
	if b.SuggestedBy != nil {
		t.Errorf("suggested_by = %v, want nil", *b.SuggestedBy)
	}
}

func TestBookListOrderAndRating(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	rs := NewRatingStore(db)

	tbd := createTestBook(t, db, "Later", model.DateTBD)
	july := createTestBook(t, db, "July", "2025-07-01")
	june := createTestBook(t, db, "June", "2025-06")

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")
	rs.Upsert(ctx, alice.ID, june.ID, 7)
	rs.Upsert(ctx, bob.ID, june.ID, 8)
	rs.Upsert(ctx, carol.ID, june.ID, 9)
	rs.Upsert(ctx, alice.ID, july.ID, 1)
	rs.Upsert(ctx, bob.ID, july.ID, 2)
	rs.Upsert(ctx, carol.ID, july.ID, 2)

	books, err := NewBookStore(db).List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(books) != 3 {
		t.Fatalf("len = %d, want 3", len(books))
	}

	wantOrder := []int64{june.ID, july.ID, tbd.ID}
	for i, b := range books {
		if b.ID != wantOrder[i] {
			t.Errorf("books[%d].ID = %d, want %d", i, b.ID, wantOrder[i])
		}
	}

	if books[0].Rating == nil || *books[0].Rating != 8.0 {
		t.Errorf("june rating = %v, want 8.0", books[0].Rating)
	}
	if books[1].Rating == nil || *books[1].Rating != 1.7 {
		t.Errorf("july rating = %v, want 1.7", books[1].Rating)
	}
	if books[2].Rating != nil {
		t.Errorf("unrated book rating = %v, want nil", *books[2].Rating)
	}
}

func TestBookListSuggestedBy(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	alice := createTestUser(t, db, "alice")

	_, err := NewBookStore(db).Create(ctx, BookInput{Title: "Dune", ReadOn: model.DateTBD, SuggestedBy: &alice.ID})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	books, err := NewBookStore(db).List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if books[0].SuggestedByUsername == nil || *books[0].SuggestedByUsername != "alice" {
		t.Errorf("suggestedBy = %v, want alice", books[0].SuggestedByUsername)
	}
}

func TestBookMarkRead(t *testing.T) {
	db := setupTestDB(t)
	bs := NewBookStore(db)
	ctx := context.Background()
	b := createTestBook(t, db, "Dune", "2025-06")

	if err := bs.MarkRead(ctx, b.ID); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	// Idempotent.
	if err := bs.MarkRead(ctx, b.ID); err != nil {
		t.Fatalf("mark read again: %v", err)
	}
	got, _ := bs.GetByID(ctx, b.ID)
	if got.Status != model.BookStatusRead {
		t.Errorf("status = %q, want %q", got.Status, model.BookStatusRead)
	}

	if err := bs.MarkRead(ctx, 9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestBookUpdateReadOn(t *testing.T) {
	db := setupTestDB(t)
	bs := NewBookStore(db)
	ctx := context.Background()
	b := createTestBook(t, db, "Dune", model.DateTBD)

	if err := bs.UpdateReadOn(ctx, b.ID, "2025-09-14"); err != nil {
		t.Fatalf("update read_on: %v", err)
	}
	got, _ := bs.GetByID(ctx, b.ID)
	if got.ReadOn != "2025-09-14" {
		t.Errorf("read_on = %q, want %q", got.ReadOn, "2025-09-14")
	}

	if err := bs.UpdateReadOn(ctx, 9999, "2025-09"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestBookDeleteCascades(t *testing.T) {
	db := setupTestDB(t)
	bs := NewBookStore(db)
	ctx := context.Background()
	b := createTestBook(t, db, "Dune", "2025-06")
	u := createTestUser(t, db, "alice")

	if err := NewRatingStore(db).Upsert(ctx, u.ID, b.ID, 8); err != nil {
		t.Fatalf("rate: %v", err)
	}
	if err := NewAvailabilityStore(db).Replace(ctx, u.ID, b.ID, []string{"2025-06-10"}); err != nil {
		t.Fatalf("availability: %v", err)
	}

	if err := bs.Delete(ctx, b.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	got, _ := bs.GetByID(ctx, b.ID)
	if got != nil {
		t.Error("expected book to be gone")
	}
	for _, table := range []string{"ratings", "meeting_dates", "meeting_votes"} {
		var n int
		if err := db.QueryRow(`SELECT COUNT(*) FROM ` + table).Scan(&n); err != nil {
			t.Fatalf("count %s: %v", table, err)
		}
		if n != 0 {
			t.Errorf("%s rows = %d, want 0", table, n)
		}
	}

	if err := bs.Delete(ctx, b.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
}
