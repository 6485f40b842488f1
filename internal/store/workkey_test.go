package store

import (
	"context"
	"testing"

	"github.com/dukerupert/bookclub/internal/model"
)

func TestWorkKeyCheck(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	ws := NewWorkKeyStore(db)
	alice := createTestUser(t, db, "alice")

	scheduled := "W-BOOK"
	suggested := "W-SUGGESTED"
	both := "W-BOTH"

	bs := NewBookStore(db)
	if _, err := bs.Create(ctx, BookInput{Title: "Scheduled", WorkKey: &scheduled, ReadOn: "2025-06"}); err != nil {
		t.Fatalf("create book: %v", err)
	}
	ss := NewSuggestionStore(db)
	if _, _, err := ss.Create(ctx, SuggestionInput{UserID: alice.ID, Title: "Suggested", WorkKey: &suggested}); err != nil {
		t.Fatalf("create suggestion: %v", err)
	}
	if _, _, err := ss.Create(ctx, SuggestionInput{UserID: alice.ID, Title: "Both", WorkKey: &both}); err != nil {
		t.Fatalf("create suggestion: %v", err)
	}
	if _, err := bs.Create(ctx, BookInput{Title: "Both", WorkKey: &both, ReadOn: model.DateTBD}); err != nil {
		t.Fatalf("create book: %v", err)
	}

	tests := []struct {
		key        string
		wantExists bool
		wantType   string
		wantBy     string
	}{
		{"", false, "", ""},
		{"W-UNKNOWN", false, "", ""},
		{scheduled, true, model.WorkKeyScheduled, ""},
		{suggested, true, model.WorkKeySuggested, "alice"},
		{both, true, model.WorkKeyScheduled, ""},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			m, err := ws.Check(ctx, tt.key)
			if err != nil {
				t.Fatalf("check: %v", err)
			}
			if m.Exists != tt.wantExists {
				t.Errorf("exists = %v, want %v", m.Exists, tt.wantExists)
			}
			gotType := ""
			if m.Type != nil {
				gotType = *m.Type
			}
			if gotType != tt.wantType {
				t.Errorf("type = %q, want %q", gotType, tt.wantType)
			}
			gotBy := ""
			if m.SuggestedBy != nil {
				gotBy = *m.SuggestedBy
			}
			if gotBy != tt.wantBy {
				t.Errorf("suggestedBy = %q, want %q", gotBy, tt.wantBy)
			}
		})
	}
}

func TestWorkKeyIgnoresDeletedSuggestions(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	alice := createTestUser(t, db, "alice")
	key := "W1"

	ss := NewSuggestionStore(db)
	id, _, _ := ss.Create(ctx, SuggestionInput{UserID: alice.ID, Title: "Dune", WorkKey: &key})
	if err := ss.Delete(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}

	m, err := NewWorkKeyStore(db).Check(ctx, key)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if m.Exists {
		t.Errorf("match = %+v, want none after rejection", m)
	}
}
